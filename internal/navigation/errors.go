package navigation

import (
	"errors"
	"fmt"
)

// ErrNotFound means a token referred to something today's schedule does not have.
var ErrNotFound = errors.New("not found")

// ErrUnavailable means the class has no schedule at all right now.
var ErrUnavailable = errors.New("schedule unavailable")

// NotFoundError names what failed to resolve.
type NotFoundError struct {
	What string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.What, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

func notFound(what, id string) error {
	return &NotFoundError{What: what, ID: id}
}
