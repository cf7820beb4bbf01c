package document

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports a key, or an nth occurrence of a key, that is not in
	// the document.
	ErrNotFound = errors.New("parameter not found")

	// ErrTypeMismatch reports a non-scalar value assigned to a parameter.
	ErrTypeMismatch = errors.New("value must be a scalar")

	// ErrInvalidReference reports a linked document that cannot be opened, or
	// an index (blade, wind type, list count) outside the supported range.
	ErrInvalidReference = errors.New("invalid reference")
)

// NotFoundError carries the key that could not be found.
type NotFoundError struct {
	Key        string
	Occurrence int
}

func (e *NotFoundError) Error() string {
	if e.Occurrence > 1 {
		return fmt.Sprintf("parameter '%s' (occurrence %d) not found", e.Key, e.Occurrence)
	}
	return fmt.Sprintf("parameter '%s' not found", e.Key)
}

// Is makes errors.Is(err, ErrNotFound) hold.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ReferenceError describes a dotted key whose outer segment could not be
// resolved to a readable document. Err holds the underlying cause, so
// errors.Is(err, fs.ErrNotExist) still works for missing files.
type ReferenceError struct {
	Key  string
	Path string
	Err  error
}

func (e *ReferenceError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid reference '%s': %v", e.Key, e.Err)
	}
	return fmt.Sprintf("invalid reference '%s' -> %s: %v", e.Key, e.Path, e.Err)
}

func (e *ReferenceError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrInvalidReference) hold.
func (e *ReferenceError) Is(target error) bool {
	return target == ErrInvalidReference
}
