// Package frontmatter encodes and decodes the YAML metadata block at the
// top of vault documents. Unlike a plain map round-trip, the codec keeps
// key order stable so that re-serialized documents stay byte-comparable.
package frontmatter

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const delim = "---"

// Fields is an ordered key/value mapping. Values are scalars (string, bool,
// int) or lists of strings.
type Fields struct {
	keys   []string
	values map[string]any
}

// NewFields returns an empty ordered mapping.
func NewFields() *Fields {
	return &Fields{values: make(map[string]any)}
}

// Set stores value under key, appending the key if it is new.
func (f *Fields) Set(key string, value any) {
	if _, ok := f.values[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.values[key] = value
}

// Get returns the value stored under key.
func (f *Fields) Get(key string) (any, bool) {
	v, ok := f.values[key]
	return v, ok
}

// GetString returns the string value under key, or "" if absent or not a string.
func (f *Fields) GetString(key string) string {
	if s, ok := f.values[key].(string); ok {
		return s
	}
	return ""
}

// GetBool returns the boolean value under key, defaulting to false.
func (f *Fields) GetBool(key string) bool {
	b, _ := f.values[key].(bool)
	return b
}

// GetInt returns the integer value under key, defaulting to 0.
func (f *Fields) GetInt(key string) int {
	n, _ := f.values[key].(int)
	return n
}

// GetStringList returns the string-list value under key, or nil.
func (f *Fields) GetStringList(key string) []string {
	l, _ := f.values[key].([]string)
	return l
}

// Keys returns the keys in insertion order.
func (f *Fields) Keys() []string {
	return f.keys
}

// Len returns the number of keys.
func (f *Fields) Len() int {
	return len(f.keys)
}

// Parse splits document text into frontmatter fields and the remaining body.
// The document must begin with the --- delimiter and contain a closing one;
// otherwise the whole text is returned as body with empty fields. Parsing
// never fails: malformed YAML also degrades to "no frontmatter".
func Parse(text string) (*Fields, string) {
	fields, _, body, ok := split(text)
	if !ok {
		return NewFields(), text
	}
	return fields, strings.TrimLeft(body, " \t\r\n")
}

// split separates text into fields, the raw YAML block, and the raw
// remainder (leading whitespace intact). ok is false when the document has
// no parseable frontmatter.
func split(text string) (*Fields, string, string, bool) {
	if !strings.HasPrefix(text, delim) {
		return nil, "", "", false
	}
	parts := strings.SplitN(text, delim, 3)
	if len(parts) < 3 {
		return nil, "", "", false
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(parts[1]), &doc); err != nil {
		return nil, "", "", false
	}

	fields := NewFields()
	if len(doc.Content) > 0 && doc.Content[0].Kind == yaml.MappingNode {
		m := doc.Content[0]
		for i := 0; i+1 < len(m.Content); i += 2 {
			keyNode, valNode := m.Content[i], m.Content[i+1]
			v, err := decodeValue(valNode)
			if err != nil {
				return nil, "", "", false
			}
			fields.Set(keyNode.Value, v)
		}
	}
	return fields, parts[1], parts[2], true
}

// decodeValue converts a YAML node to a scalar or string list.
func decodeValue(n *yaml.Node) (any, error) {
	if n.Kind == yaml.SequenceNode {
		var list []string
		if err := n.Decode(&list); err != nil {
			return nil, err
		}
		return list, nil
	}
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, err
	}
	// yaml resolves ISO dates to time.Time; frontmatter dates stay strings.
	if _, isTime := v.(time.Time); isTime {
		return n.Value, nil
	}
	return v, nil
}

// Format serializes fields as a delimited frontmatter block. String-list
// values are emitted as nested bullets, booleans in lowercase, and strings
// containing a colon or double quote are wrapped in quotes so the block
// stays parseable.
func Format(fields *Fields) string {
	lines := []string{delim}
	for _, key := range fields.keys {
		value := fields.values[key]
		switch v := value.(type) {
		case []string:
			lines = append(lines, key+":")
			for _, item := range v {
				lines = append(lines, "  - "+item)
			}
		case bool:
			lines = append(lines, fmt.Sprintf("%s: %t", key, v))
		case string:
			if strings.ContainsAny(v, `:"`) {
				lines = append(lines, fmt.Sprintf("%s: %q", key, v))
			} else {
				lines = append(lines, fmt.Sprintf("%s: %s", key, v))
			}
		default:
			lines = append(lines, fmt.Sprintf("%s: %v", key, v))
		}
	}
	lines = append(lines, delim)
	return strings.Join(lines, "\n")
}

// Update merges changes into the document's frontmatter and re-serializes
// the metadata block, leaving the body untouched. Documents without
// parseable frontmatter are returned unchanged.
func Update(text string, changes *Fields) string {
	fields, _, body, ok := split(text)
	if !ok {
		return text
	}
	for _, key := range changes.keys {
		fields.Set(key, changes.values[key])
	}
	return Format(fields) + body
}
