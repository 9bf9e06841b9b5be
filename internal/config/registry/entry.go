// Package registry holds the typed entries and sections of a configuration
// store.
//
// An Entry carries one value together with its declared type and validation
// rules. Writes are coerced into the declared type and silently rejected when
// they cannot be; a locked entry rejects every write. A Section groups the
// entries of one heading and hands out *Entry handles, so mutations made
// through a handle persist in the section.
package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cast"
)

// Meta is the declared metadata of an entry.
type Meta struct {
	// Type is the entry's primitive type.
	Type Type

	// Min and Max bound numeric values (nil means unbounded).
	Min *float64
	Max *float64

	// Allowed lists the permitted values of a string entry.
	Allowed []string

	// CaseSensitive disables case folding when matching Allowed.
	CaseSensitive bool

	// AllowEmpty accepts the empty string for string entries.
	AllowEmpty bool

	// Lock freezes the current value.
	Lock bool

	// Priority orders the entry among its siblings (nil means unassigned).
	Priority *int

	// Info is the documentation comment written next to the entry.
	Info string

	// Hidden marks a structural entry excluded from iteration and output.
	Hidden bool
}

// Clone returns a deep copy of m.
func (m Meta) Clone() Meta {
	c := m
	if m.Min != nil {
		v := *m.Min
		c.Min = &v
	}
	if m.Max != nil {
		v := *m.Max
		c.Max = &v
	}
	if m.Priority != nil {
		v := *m.Priority
		c.Priority = &v
	}
	if m.Allowed != nil {
		c.Allowed = append([]string(nil), m.Allowed...)
	}
	return c
}

// Entry is a single named, typed configuration value.
type Entry struct {
	name  string
	meta  Meta
	value any
	def   any
}

// NewEntry creates an entry holding value converted to meta.Type.
// When meta.Type is TypeUnset the type is inferred from value; a nil value
// takes the zero value of the type. The converted value becomes the entry's
// default.
func NewEntry(name string, value any, meta Meta) (*Entry, error) {
	meta = meta.Clone()
	if meta.Type == TypeUnset {
		t, ok := InferType(value)
		if !ok {
			return nil, &TypeError{Name: name, Expected: "scalar", Actual: fmt.Sprintf("%T", value)}
		}
		meta.Type = t
	}
	if value == nil {
		value = meta.Type.Zero()
	}

	v, err := Convert(meta.Type, value)
	if err != nil {
		return nil, fmt.Errorf("entry %s: %w", name, err)
	}
	// Case-insensitive choices are stored folded, defaults included.
	if meta.Type == TypeString && len(meta.Allowed) > 0 && !meta.CaseSensitive {
		if folded, ok := (stringCoercer{}).coerce(&meta, v); ok {
			v = folded
		}
	}

	return &Entry{
		name:  name,
		meta:  meta,
		value: v,
		def:   v,
	}, nil
}

// Convert converts value to the stored representation of t without applying
// bounds, allowed values or the empty-string rule.
func Convert(t Type, value any) (any, error) {
	loose := Meta{Type: t, AllowEmpty: true, CaseSensitive: true}
	v, ok := coercerFor(t).coerce(&loose, value)
	if !ok {
		return nil, &TypeError{Name: FormatValue(value), Expected: t.String(), Actual: fmt.Sprintf("%T", value)}
	}
	return v, nil
}

// Name returns the entry name.
func (e *Entry) Name() string { return e.name }

// Type returns the declared type.
func (e *Entry) Type() Type { return e.meta.Type }

// Read returns the current value.
func (e *Entry) Read() any { return e.value }

// Default returns the value the entry was created with.
func (e *Entry) Default() any { return e.def }

// Write coerces and validates input and stores the result.
// It reports whether the input was accepted; a rejected input or a locked
// entry leaves the current value unchanged.
func (e *Entry) Write(input any) bool {
	if e.meta.Lock {
		return false
	}
	v, ok := coercerFor(e.meta.Type).coerce(&e.meta, input)
	if !ok {
		return false
	}
	e.value = v
	return true
}

// Restore replaces the current value with v, bypassing the lock and the
// validation rules. It is used to roll back to a snapshot.
func (e *Entry) Restore(v any) error {
	converted, err := Convert(e.meta.Type, v)
	if err != nil {
		return err
	}
	e.value = converted
	return nil
}

// String returns the value as a string.
func (e *Entry) String() string { return FormatValue(e.value) }

// Int returns the value as an int64, or 0 if it isn't numeric.
func (e *Entry) Int() int64 { return cast.ToInt64(e.value) }

// Float returns the value as a float64, or 0 if it isn't numeric.
func (e *Entry) Float() float64 { return cast.ToFloat64(e.value) }

// Bool returns the value as a bool.
func (e *Entry) Bool() bool {
	b, _ := e.value.(bool)
	return b
}

// Format renders the current value for a config file.
func (e *Entry) Format() string { return FormatValue(e.value) }

// Min returns the lower bound, if any.
func (e *Entry) Min() (float64, bool) {
	if e.meta.Min == nil {
		return 0, false
	}
	return *e.meta.Min, true
}

// Max returns the upper bound, if any.
func (e *Entry) Max() (float64, bool) {
	if e.meta.Max == nil {
		return 0, false
	}
	return *e.meta.Max, true
}

// Allowed returns the permitted values, or nil when unrestricted.
func (e *Entry) Allowed() []string {
	if e.meta.Allowed == nil {
		return nil
	}
	return append([]string(nil), e.meta.Allowed...)
}

// CaseSensitive reports whether allowed-value matching is case sensitive.
func (e *Entry) CaseSensitive() bool { return e.meta.CaseSensitive }

// AllowEmpty reports whether the empty string is accepted.
func (e *Entry) AllowEmpty() bool { return e.meta.AllowEmpty }

// Locked reports whether writes are currently rejected.
func (e *Entry) Locked() bool { return e.meta.Lock }

// SetLock changes the lock state.
func (e *Entry) SetLock(lock bool) { e.meta.Lock = lock }

// Priority returns the explicit ordering priority, if any.
func (e *Entry) Priority() (int, bool) {
	if e.meta.Priority == nil {
		return 0, false
	}
	return *e.meta.Priority, true
}

// Info returns the documentation comment.
func (e *Entry) Info() string { return e.meta.Info }

// Hidden reports whether the entry is structural.
func (e *Entry) Hidden() bool { return e.meta.Hidden }

// Meta returns a copy of the entry metadata.
func (e *Entry) Meta() Meta { return e.meta.Clone() }

// FormatCustom substitutes [NAME] placeholders in the value.
// Underscores in variable names match hyphens in placeholders, so
// FormatCustom(map[string]any{"USER_NAME": "bob"}) replaces "[USER-NAME]".
// Unknown placeholders are left untouched.
func (e *Entry) FormatCustom(vars map[string]any) string {
	value := e.String()

	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		placeholder := "[" + strings.ReplaceAll(name, "_", "-") + "]"
		value = strings.ReplaceAll(value, placeholder, cast.ToString(vars[name]))
	}
	return value
}
