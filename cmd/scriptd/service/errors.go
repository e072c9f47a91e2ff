package service

import (
	"fmt"
	"strings"
)

// ValidationError reports every violated rule from a single validation pass
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, "; ")
}

// NotFoundError indicates the requested script does not exist
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("script not found: %s", e.ID)
}

// AccessDeniedError indicates the caller does not own the requested script.
// It deliberately carries no script contents.
type AccessDeniedError struct {
	ID string
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("access denied to script: %s", e.ID)
}

// StorageError wraps a failure from the document store, passed through
// unmodified
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
