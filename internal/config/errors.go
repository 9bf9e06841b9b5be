package config

import (
	"errors"

	"github.com/dshills/confstore/internal/config/registry"
)

// Errors returned by store operations. Entry-level errors are shared with
// the registry package so errors.Is works with either.
var (
	// ErrHeadingNotFound indicates the heading doesn't exist in the store.
	ErrHeadingNotFound = errors.New("heading not found")

	// ErrEntryNotFound indicates the entry doesn't exist in its heading.
	ErrEntryNotFound = registry.ErrEntryNotFound

	// ErrNotEditable indicates a structural edit on a non-editable store.
	ErrNotEditable = registry.ErrNotEditable

	// ErrTypeMismatch indicates a value of the wrong kind, such as a
	// non-mapping value assigned to a heading.
	ErrTypeMismatch = registry.ErrTypeMismatch

	// ErrInvalidValue indicates a value was rejected by an entry's rules.
	ErrInvalidValue = registry.ErrInvalidValue

	// ErrEntryLocked indicates a structural edit on a locked entry.
	ErrEntryLocked = registry.ErrEntryLocked

	// ErrInvalidPath indicates a "Heading.Entry" path that matches nothing.
	ErrInvalidPath = errors.New("invalid setting path")
)
