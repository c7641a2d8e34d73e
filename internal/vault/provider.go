// Package vault defines the Obsidian-vault file-system abstraction.
package vault

import "time"

// FileInfo is a lightweight representation returned by list operations.
type FileInfo struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Provider is the interface for vault file operations. All paths are
// relative to the vault root. Files are never deleted or renamed: synced
// documents are created once and mutated in place.
type Provider interface {
	// List walks dir and returns metadata for every .md file.
	List(dir string) ([]FileInfo, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path, creating parent directories.
	Write(path string, content []byte) error
	// Exists reports whether a file exists at path.
	Exists(path string) bool
}
