package registry

import (
	"errors"
	"fmt"
)

// Errors returned by entry and section operations.
var (
	// ErrEntryNotFound indicates the entry name doesn't exist in the section.
	ErrEntryNotFound = errors.New("entry not found")

	// ErrNotEditable indicates a structural edit on a non-editable section.
	ErrNotEditable = errors.New("not editable")

	// ErrTypeMismatch indicates a value cannot be represented by the entry type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrInvalidValue indicates a value was rejected by the entry's validation rules.
	ErrInvalidValue = errors.New("invalid value")

	// ErrEntryLocked indicates a structural edit on a locked entry.
	ErrEntryLocked = errors.New("entry is locked")
)

// TypeError is returned when a value cannot be converted to an entry type.
type TypeError struct {
	// Name is the entry name.
	Name string
	// Expected is the expected type name.
	Expected string
	// Actual is the Go type of the offending value.
	Actual string
}

// Error implements the error interface.
func (e *TypeError) Error() string {
	return fmt.Sprintf("type error for %s: expected %s, got %s", e.Name, e.Expected, e.Actual)
}

// Is implements error matching for TypeError.
func (e *TypeError) Is(target error) bool {
	return target == ErrTypeMismatch
}
