package schema

import (
	"github.com/dshills/confstore/internal/config/registry"
)

// Builder provides a fluent API for constructing schemas.
type Builder struct {
	schema *Schema
}

// NewBuilder creates a new schema builder.
func NewBuilder() *Builder {
	return &Builder{
		schema: New(),
	}
}

// Build returns the constructed schema.
func (b *Builder) Build() *Schema {
	return b.schema
}

// HeadingOption configures a heading.
type HeadingOption func(*Heading)

// HeadingInfo sets the heading comment.
func HeadingInfo(info string) HeadingOption {
	return func(h *Heading) {
		h.Info = info
	}
}

// HeadingPriority sets the heading's ordering priority.
func HeadingPriority(p int) HeadingOption {
	return func(h *Heading) {
		h.Priority = &p
	}
}

// Heading declares a heading, creating it if needed.
func (b *Builder) Heading(name string, opts ...HeadingOption) *Builder {
	h := b.heading(name)
	for _, opt := range opts {
		opt(h)
	}
	return b
}

// EntryOption configures an entry definition.
type EntryOption func(*EntryDef)

// Info sets the entry comment.
func Info(info string) EntryOption {
	return func(d *EntryDef) {
		d.Info = info
	}
}

// Priority sets the entry's ordering priority.
func Priority(p int) EntryOption {
	return func(d *EntryDef) {
		d.Priority = &p
	}
}

// OfType declares the entry type instead of inferring it from the value.
func OfType(t registry.Type) EntryOption {
	return func(d *EntryDef) {
		d.Type = t
	}
}

// Min sets the lower numeric bound.
func Min(v float64) EntryOption {
	return func(d *EntryDef) {
		d.Min = &v
	}
}

// Max sets the upper numeric bound.
func Max(v float64) EntryOption {
	return func(d *EntryDef) {
		d.Max = &v
	}
}

// Range sets both numeric bounds.
func Range(min, max float64) EntryOption {
	return func(d *EntryDef) {
		d.Min = &min
		d.Max = &max
	}
}

// Allowed restricts a string entry to the given values.
func Allowed(values ...string) EntryOption {
	return func(d *EntryDef) {
		d.Allowed = append([]string(nil), values...)
	}
}

// CaseSensitive disables case folding for allowed-value matching.
func CaseSensitive() EntryOption {
	return func(d *EntryDef) {
		d.CaseSensitive = true
	}
}

// AllowEmpty accepts the empty string.
func AllowEmpty() EntryOption {
	return func(d *EntryDef) {
		d.AllowEmpty = true
	}
}

// Locked freezes the entry at its default.
func Locked() EntryOption {
	return func(d *EntryDef) {
		d.Lock = true
	}
}

// Hidden excludes the entry from iteration and serialization.
func Hidden() EntryOption {
	return func(d *EntryDef) {
		d.Hidden = true
	}
}

// Entry declares an entry under heading with a default value.
// The heading is created if it does not exist yet.
func (b *Builder) Entry(heading, name string, value any, opts ...EntryOption) *Builder {
	h := b.heading(heading)
	d := &EntryDef{Name: name, Value: value}
	for _, opt := range opts {
		opt(d)
	}
	h.Entries[name] = d
	return b
}

func (b *Builder) heading(name string) *Heading {
	if h, ok := b.schema.headings[name]; ok {
		return h
	}
	h := &Heading{Name: name}
	b.schema.Add(h)
	return h
}
