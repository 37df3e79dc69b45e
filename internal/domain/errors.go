package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation indicates a rejected field value: an empty required
	// name or a status outside the enumerated set.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates an operation referenced a selection that does
	// not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate indicates a personnel name collision.
	ErrDuplicate = errors.New("duplicate")

	// ErrParse indicates a malformed workbook row.
	ErrParse = errors.New("parse error")
)

// ValidationError describes a rejected field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NotFoundError names the kind of thing that was looked up and the
// reference used.
type NotFoundError struct {
	Kind string
	Ref  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.Ref)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// DuplicateError reports a personnel name that already exists.
type DuplicateError struct {
	Name string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("a person named %q already exists", e.Name)
}

func (e *DuplicateError) Is(target error) bool { return target == ErrDuplicate }

// RequireName trims name and rejects it if empty.
func RequireName(field, name string) (string, error) {
	name = TrimField(name)
	if name == "" {
		return "", &ValidationError{Field: field, Reason: "cannot be empty"}
	}
	return name, nil
}
