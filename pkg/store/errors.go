package store

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidKind = errors.New("invalid item type")
	ErrCycle       = errors.New("move would make the item its own ancestor")
	ErrNotLoaded   = errors.New("workspace is still loading")
)

type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// IsNotFound reports whether err, or anything it wraps, is a NotFoundError.
func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}
