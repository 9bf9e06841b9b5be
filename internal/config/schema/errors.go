package schema

import (
	"fmt"
	"strings"

	"github.com/dshills/confstore/internal/config/registry"
)

// Kind classifies a schema problem.
type Kind int

const (
	// KindInvalid covers malformed names and inconsistent rules.
	KindInvalid Kind = iota

	// KindType is a default or field value of the wrong kind.
	KindType

	// KindRange is a numeric default outside the entry's bounds.
	KindRange

	// KindAllowed is a string default missing from the allowed set.
	KindAllowed

	// KindUnknownField is a heading or entry field the decoder does not know.
	KindUnknownField
)

// ValidationError is one problem in a schema definition.
type ValidationError struct {
	// Path is "Heading", "Heading.Entry" or "Heading.Entry.field".
	Path string

	Kind    Kind
	Message string

	// Value is the offending value, if any.
	Value any
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return e.Path + ": " + e.Message
}

// Is matches type problems against registry.ErrTypeMismatch and range or
// allowed-set problems against registry.ErrInvalidValue.
func (e *ValidationError) Is(target error) bool {
	switch e.Kind {
	case KindType:
		return target == registry.ErrTypeMismatch
	case KindRange, KindAllowed:
		return target == registry.ErrInvalidValue
	}
	return false
}

// ValidationErrors collects every problem found while decoding or
// validating a schema, in the order they were found.
type ValidationErrors struct {
	Errors []*ValidationError
}

func (e *ValidationErrors) Error() string {
	switch len(e.Errors) {
	case 0:
		return "no validation errors"
	case 1:
		return e.Errors[0].Error()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d validation errors:", len(e.Errors))
	for _, err := range e.Errors {
		b.WriteString("\n  - ")
		b.WriteString(err.Error())
	}
	return b.String()
}

// Unwrap exposes each problem to errors.Is and errors.As.
func (e *ValidationErrors) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, err := range e.Errors {
		errs[i] = err
	}
	return errs
}

// Add records a KindInvalid problem.
func (e *ValidationErrors) Add(path, message string) {
	e.AddError(&ValidationError{Path: path, Kind: KindInvalid, Message: message})
}

// AddError records err.
func (e *ValidationErrors) AddError(err *ValidationError) {
	e.Errors = append(e.Errors, err)
}

// HasErrors reports whether any problem was recorded.
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Errors) > 0
}

// AsError returns nil when nothing was recorded, e otherwise.
func (e *ValidationErrors) AsError() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

// At returns the problems recorded for exactly path.
func (e *ValidationErrors) At(path string) []*ValidationError {
	var result []*ValidationError
	for _, err := range e.Errors {
		if err.Path == path {
			result = append(result, err)
		}
	}
	return result
}

// Under returns the problems for a heading or entry and everything below it.
func (e *ValidationErrors) Under(path string) []*ValidationError {
	var result []*ValidationError
	for _, err := range e.Errors {
		if err.Path == path || strings.HasPrefix(err.Path, path+".") {
			result = append(result, err)
		}
	}
	return result
}

func newTypeError(path, expected string, actual any) *ValidationError {
	return &ValidationError{
		Path:    path,
		Kind:    KindType,
		Message: fmt.Sprintf("expected %s, got %T", expected, actual),
		Value:   actual,
	}
}

func newAllowedError(path, value string, allowed []string) *ValidationError {
	return &ValidationError{
		Path:    path,
		Kind:    KindAllowed,
		Message: fmt.Sprintf("default %q is not one of %s", value, strings.Join(allowed, ", ")),
		Value:   value,
	}
}

func newRangeError(path string, value any, min, max *float64) *ValidationError {
	var bounds string
	switch {
	case min != nil && max != nil:
		bounds = fmt.Sprintf("outside %v..%v", *min, *max)
	case min != nil:
		bounds = fmt.Sprintf("below minimum %v", *min)
	case max != nil:
		bounds = fmt.Sprintf("above maximum %v", *max)
	default:
		bounds = "out of range"
	}
	return &ValidationError{
		Path:    path,
		Kind:    KindRange,
		Message: fmt.Sprintf("default %v is %s", registry.FormatValue(value), bounds),
		Value:   value,
	}
}

func newUnknownFieldError(path string) *ValidationError {
	return &ValidationError{
		Path:    path,
		Kind:    KindUnknownField,
		Message: "unknown field",
	}
}
