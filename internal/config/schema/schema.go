// Package schema defines the authoritative default structure of a
// configuration store.
//
// A Schema is a set of headings, each holding entry definitions with their
// default values and validation metadata. It drives the store's types,
// initial values, serialization order and comments. Schemas are built with
// Builder or decoded from TOML, YAML or JSON-with-comments documents.
package schema

import (
	"sort"

	"github.com/dshills/confstore/internal/config/priority"
	"github.com/dshills/confstore/internal/config/registry"
)

// Schema is the default structure of a store.
type Schema struct {
	headings map[string]*Heading
}

// Heading defines one section.
type Heading struct {
	// Name is the heading name written as [Name].
	Name string

	// Info is the heading comment; each line is written as "// line".
	Info string

	// Priority orders the heading among its siblings (nil means unassigned).
	Priority *int

	// Entries maps entry names to their definitions.
	Entries map[string]*EntryDef
}

// EntryDef defines one entry.
type EntryDef struct {
	// Name is the entry name.
	Name string

	// Value is the default value. Nil means the zero value of Type.
	Value any

	// Meta holds the declared type and validation rules.
	// A TypeUnset type is inferred from Value.
	registry.Meta
}

// New creates an empty schema.
func New() *Schema {
	return &Schema{
		headings: make(map[string]*Heading),
	}
}

// Add adds or replaces a heading.
func (s *Schema) Add(h *Heading) {
	if h.Entries == nil {
		h.Entries = make(map[string]*EntryDef)
	}
	s.headings[h.Name] = h
}

// Heading returns the named heading.
func (s *Schema) Heading(name string) (*Heading, bool) {
	h, ok := s.headings[name]
	return h, ok
}

// HasHeading checks if a heading is defined.
func (s *Schema) HasHeading(name string) bool {
	_, ok := s.headings[name]
	return ok
}

// HasEntry checks if an entry is defined under a heading.
func (s *Schema) HasEntry(heading, entry string) bool {
	h, ok := s.headings[heading]
	if !ok {
		return false
	}
	_, ok = h.Entries[entry]
	return ok
}

// Len returns the number of headings.
func (s *Schema) Len() int {
	return len(s.headings)
}

// Names returns heading names sorted alphabetically.
func (s *Schema) Names() []string {
	names := make([]string, 0, len(s.headings))
	for name := range s.headings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Order returns heading names in serialization order.
func (s *Schema) Order(opts ...priority.Option) []string {
	items := make([]priority.Item, 0, len(s.headings))
	for name, h := range s.headings {
		items = append(items, priority.Item{Key: name, Priority: h.Priority})
	}
	return priority.Order(items, opts...)
}

// Order returns the heading's visible entry names in serialization order.
func (h *Heading) Order(opts ...priority.Option) []string {
	items := make([]priority.Item, 0, len(h.Entries))
	for name, def := range h.Entries {
		items = append(items, priority.Item{Key: name, Priority: def.Priority, Hidden: def.Hidden})
	}
	return priority.Order(items, opts...)
}

// Entry returns the named entry definition.
func (h *Heading) Entry(name string) (*EntryDef, bool) {
	def, ok := h.Entries[name]
	return def, ok
}

// Clone returns a deep copy of the schema.
func (s *Schema) Clone() *Schema {
	c := New()
	for name, h := range s.headings {
		hc := &Heading{
			Name:    h.Name,
			Info:    h.Info,
			Entries: make(map[string]*EntryDef, len(h.Entries)),
		}
		if h.Priority != nil {
			p := *h.Priority
			hc.Priority = &p
		}
		for entryName, def := range h.Entries {
			hc.Entries[entryName] = &EntryDef{
				Name:  def.Name,
				Value: def.Value,
				Meta:  def.Meta.Clone(),
			}
		}
		c.headings[name] = hc
	}
	return c
}

// Resolve returns the entry metadata with template defaults filled in.
// Fields the definition leaves unset are taken from the template. Boolean
// flags set in the template apply to every entry.
func (d *EntryDef) Resolve(template registry.Meta) registry.Meta {
	m := d.Meta.Clone()
	t := template.Clone()

	if m.Type == registry.TypeUnset {
		m.Type = t.Type
	}
	if m.Min == nil {
		m.Min = t.Min
	}
	if m.Max == nil {
		m.Max = t.Max
	}
	if m.Allowed == nil {
		m.Allowed = t.Allowed
	}
	if m.Priority == nil {
		m.Priority = t.Priority
	}
	if m.Info == "" {
		m.Info = t.Info
	}
	m.CaseSensitive = m.CaseSensitive || t.CaseSensitive
	m.AllowEmpty = m.AllowEmpty || t.AllowEmpty
	m.Lock = m.Lock || t.Lock
	return m
}

// NewEntry creates a registry entry from the definition.
func (d *EntryDef) NewEntry(template registry.Meta) (*registry.Entry, error) {
	return registry.NewEntry(d.Name, d.Value, d.Resolve(template))
}
