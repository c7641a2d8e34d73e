package transcript

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/starford/ansuz/internal/frontmatter"
	"github.com/starford/ansuz/internal/vault"
)

// IdentityKey is the frontmatter field that ties a document to its source
// record. A document represents a source record when this field matches,
// regardless of filename.
const IdentityKey = "granola_id"

// invalidFilenameChars are stripped from titles before use as filenames.
const invalidFilenameChars = `<>:"/\|?*`

// SanitizeTitle makes a title safe for use as a filename: invalid
// characters stripped, whitespace trimmed, truncated to 100 characters.
func SanitizeTitle(title string) string {
	var b strings.Builder
	for _, r := range title {
		if !strings.ContainsRune(invalidFilenameChars, r) {
			b.WriteRune(r)
		}
	}
	s := strings.TrimSpace(b.String())
	if runes := []rune(s); len(runes) > 100 {
		s = strings.TrimSpace(string(runes[:100]))
	}
	return s
}

// Resolve decides where the document for a source record lives. The base
// name is "{date} - {title}"; when that file already belongs to a different
// record, a time-suffixed alternate is tried. Returns the vault-relative
// path and whether the caller should create it. create == false means the
// record is already synced (best-effort: the alternate path's identity is
// not re-checked, so a third same-title collision on one day is dropped).
func Resolve(store vault.Provider, folder, docID, title string, meetingTime time.Time) (string, bool) {
	base := fmt.Sprintf("%s - %s", meetingTime.Format("2006-01-02"), SanitizeTitle(title))

	target := path.Join(folder, base+".md")
	if !store.Exists(target) {
		return target, true
	}

	if data, err := store.Read(target); err == nil {
		fields, _ := frontmatter.Parse(string(data))
		if fields.GetString(IdentityKey) == docID {
			return target, false
		}
	}

	// Different record, same title and day: disambiguate by time.
	alternate := path.Join(folder, fmt.Sprintf("%s (%s).md", base, meetingTime.Format("1504")))
	if store.Exists(alternate) {
		return alternate, false
	}
	return alternate, true
}
