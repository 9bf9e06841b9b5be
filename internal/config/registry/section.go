package registry

import (
	"fmt"
	"iter"

	"github.com/dshills/confstore/internal/config/priority"
)

// Event describes an accepted change to a section.
type Event struct {
	// Section is the owning heading.
	Section string
	// Entry is the entry name.
	Entry string
	// Old is the previous value (nil for newly created entries).
	Old any
	// New is the current value (nil for deletions).
	New any
	// Deleted is set when the entry was removed.
	Deleted bool
}

// Observer is called after an accepted change.
type Observer func(Event)

// Section maps entry names to entries within one heading.
//
// Section is not safe for concurrent use.
type Section struct {
	name     string
	entries  map[string]*Entry
	info     string
	priority *int
	editable bool
	template Meta
	order    []priority.Option
	observer Observer
}

// SectionOption configures a Section.
type SectionOption func(*Section)

// WithEditable allows creating and deleting entries.
func WithEditable(enable bool) SectionOption {
	return func(s *Section) {
		s.editable = enable
	}
}

// WithTemplate sets the metadata used for entries created by Set.
func WithTemplate(m Meta) SectionOption {
	return func(s *Section) {
		s.template = m.Clone()
	}
}

// WithInfo sets the heading comment.
func WithInfo(info string) SectionOption {
	return func(s *Section) {
		s.info = info
	}
}

// WithPriority sets the heading's ordering priority.
func WithPriority(p *int) SectionOption {
	return func(s *Section) {
		if p != nil {
			v := *p
			s.priority = &v
		}
	}
}

// WithOrder sets the options used when ordering entries.
func WithOrder(opts ...priority.Option) SectionOption {
	return func(s *Section) {
		s.order = opts
	}
}

// WithObserver registers a callback for accepted changes.
func WithObserver(obs Observer) SectionOption {
	return func(s *Section) {
		s.observer = obs
	}
}

// NewSection creates a section holding entries.
// Entries are added regardless of the editable flag.
func NewSection(name string, entries []*Entry, opts ...SectionOption) *Section {
	s := &Section{
		name:    name,
		entries: make(map[string]*Entry, len(entries)),
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, e := range entries {
		s.entries[e.Name()] = e
	}
	return s
}

// Name returns the heading name.
func (s *Section) Name() string { return s.name }

// Info returns the heading comment.
func (s *Section) Info() string { return s.info }

// Priority returns the heading's explicit priority, if any.
func (s *Section) Priority() (int, bool) {
	if s.priority == nil {
		return 0, false
	}
	return *s.priority, true
}

// Editable reports whether structural edits are allowed.
func (s *Section) Editable() bool { return s.editable }

// Len returns the number of entries, hidden ones included.
func (s *Section) Len() int { return len(s.entries) }

// Has checks if an entry exists.
func (s *Section) Has(name string) bool {
	_, ok := s.entries[name]
	return ok
}

// Get returns a handle to the named entry.
// Writes through the handle are visible to every later lookup.
func (s *Section) Get(name string) (*Entry, error) {
	e, ok := s.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: [%s] %s", ErrEntryNotFound, s.name, name)
	}
	return e, nil
}

// Set writes raw to the named entry and reports whether it was accepted.
//
// An existing entry goes through Entry.Write, so invalid input is a silent
// no-op. A missing entry is created from the section template when the
// section is editable, its type inferred from raw if the template has none;
// otherwise ErrNotEditable is returned.
func (s *Section) Set(name string, raw any) (bool, error) {
	if e, ok := s.entries[name]; ok {
		old := e.Read()
		if !e.Write(raw) {
			return false, nil
		}
		if cur := e.Read(); cur != old {
			s.emit(Event{Entry: name, Old: old, New: cur})
		}
		return true, nil
	}

	if !s.editable {
		return false, fmt.Errorf("%w: cannot create %s in [%s]", ErrNotEditable, name, s.name)
	}

	e, err := NewEntry(name, raw, s.template)
	if err != nil {
		return false, err
	}
	s.entries[name] = e
	s.emit(Event{Entry: name, New: e.Read()})
	return true, nil
}

// Insert adds or replaces an entry. The section must be editable and an
// existing entry of the same name must not be locked.
func (s *Section) Insert(e *Entry) error {
	if !s.editable {
		return fmt.Errorf("%w: cannot insert %s in [%s]", ErrNotEditable, e.Name(), s.name)
	}
	var old any
	if prev, ok := s.entries[e.Name()]; ok {
		if prev.Locked() {
			return fmt.Errorf("%w: [%s] %s", ErrEntryLocked, s.name, e.Name())
		}
		old = prev.Read()
	}
	s.entries[e.Name()] = e
	s.emit(Event{Entry: e.Name(), Old: old, New: e.Read()})
	return nil
}

// Delete removes an entry. The section must be editable and the entry must
// not be locked.
func (s *Section) Delete(name string) error {
	if !s.editable {
		return fmt.Errorf("%w: cannot delete %s from [%s]", ErrNotEditable, name, s.name)
	}
	e, ok := s.entries[name]
	if !ok {
		return fmt.Errorf("%w: [%s] %s", ErrEntryNotFound, s.name, name)
	}
	if e.Locked() {
		return fmt.Errorf("%w: [%s] %s", ErrEntryLocked, s.name, name)
	}
	delete(s.entries, name)
	s.emit(Event{Entry: name, Old: e.Read(), Deleted: true})
	return nil
}

// Names returns entry names in priority order.
func (s *Section) Names(showHidden bool) []string {
	items := make([]priority.Item, 0, len(s.entries))
	for name, e := range s.entries {
		items = append(items, priority.Item{
			Key:      name,
			Priority: e.meta.Priority,
			Hidden:   e.Hidden() && !showHidden,
		})
	}
	return priority.Order(items, s.order...)
}

// Iterate yields (name, current value) pairs in priority order, skipping
// hidden entries unless showHidden is set.
func (s *Section) Iterate(showHidden bool) iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, name := range s.Names(showHidden) {
			if !yield(name, s.entries[name].Read()) {
				return
			}
		}
	}
}

// Values returns a snapshot of the current values.
func (s *Section) Values(showHidden bool) map[string]any {
	out := make(map[string]any, len(s.entries))
	for name, v := range s.Iterate(showHidden) {
		out[name] = v
	}
	return out
}

func (s *Section) emit(ev Event) {
	if s.observer == nil {
		return
	}
	ev.Section = s.name
	s.observer(ev)
}
