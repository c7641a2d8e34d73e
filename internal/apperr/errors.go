// Package apperr defines sentinel errors shared across service layers.
package apperr

import "errors"

// ErrNotFound is returned when a requested vault document does not exist.
var ErrNotFound = errors.New("not found")
