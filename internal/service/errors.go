package service

import (
	"errors"
	"fmt"
)

// Sentinel errors for service layer
var (
	ErrInvalidWebsite   = errors.New("invalid website identifier")
	ErrInvalidInput     = errors.New("validation error")
	ErrConflict         = errors.New("conflict error")
	ErrNotFound         = errors.New("not found")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// DuplicateFieldError reports a submission whose unique field is already stored.
// It matches ErrConflict with errors.Is.
type DuplicateFieldError struct {
	Field string
	Value string
}

func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("contact with %s %q already exists", e.Field, e.Value)
}

func (e *DuplicateFieldError) Is(target error) bool {
	return target == ErrConflict
}

func invalidInput(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func storeError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
}
