package service

import (
	"errors"

	"obsidian-relay/internal/repository"
)

var (
	ErrInvalidRequest = errors.New("invalid publish request")
	ErrNoteNotFound   = repository.ErrNoteNotFound
)

// ValidationError carries the message shown to the publisher for a rejected
// request. It matches ErrInvalidRequest under errors.Is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidRequest
}
