package config

import (
	"fmt"
	"iter"
	"log/slog"
	"sort"
	"strings"

	"github.com/dshills/confstore/internal/config/layer"
	"github.com/dshills/confstore/internal/config/loader"
	"github.com/dshills/confstore/internal/config/notify"
	"github.com/dshills/confstore/internal/config/priority"
	"github.com/dshills/confstore/internal/config/registry"
	"github.com/dshills/confstore/internal/config/schema"
	"github.com/dshills/confstore/internal/log"
)

// Store holds the sections of a configuration built from a schema.
//
// Store is not safe for concurrent use; callers sharing a store between
// goroutines must serialize access themselves.
type Store struct {
	// schema is the private copy the store was built from. It is never
	// mutated and drives Save order, comments and Reload.
	schema *schema.Schema

	sections map[string]*registry.Section

	// backup holds the initial value of every schema entry.
	backup map[string]map[string]any

	fs       loader.FileSystem
	logger   *slog.Logger
	notifier *notify.Notifier
	template registry.Meta

	editable   bool
	showHidden bool
	emptyLast  bool
	isNew      bool

	// source is reported on change events; batch collects them during Load.
	source string
	batch  *notify.Batch
}

// New builds a store from s. The schema is validated and copied, so later
// changes to s do not affect the store.
func New(s *schema.Schema, opts ...Option) (*Store, error) {
	if s == nil {
		s = schema.New()
	}

	st := &Store{
		sections: make(map[string]*registry.Section),
		backup:   make(map[string]map[string]any),
		fs:       loader.DefaultFS(),
		logger:   log.Discard(),
		notifier: notify.New(),
		source:   layer.SourceRuntime.String(),
	}
	for _, opt := range opts {
		opt(st)
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	st.schema = s.Clone()

	for _, name := range st.schema.Names() {
		h, _ := st.schema.Heading(name)

		entries := make([]*registry.Entry, 0, len(h.Entries))
		values := make(map[string]any, len(h.Entries))
		for _, def := range h.Entries {
			e, err := def.NewEntry(st.template)
			if err != nil {
				return nil, fmt.Errorf("[%s] %s: %w", name, def.Name, err)
			}
			entries = append(entries, e)
			values[def.Name] = e.Read()
		}

		st.sections[name] = st.newSection(name, h.Info, h.Priority, entries)
		st.backup[name] = values
	}
	return st, nil
}

func (s *Store) newSection(name, info string, prio *int, entries []*registry.Entry) *registry.Section {
	return registry.NewSection(name, entries,
		registry.WithEditable(s.editable),
		registry.WithTemplate(s.template),
		registry.WithInfo(info),
		registry.WithPriority(prio),
		registry.WithOrder(s.order()...),
		registry.WithObserver(s.observe),
	)
}

func (s *Store) order() []priority.Option {
	return []priority.Option{priority.EmptyLast(s.emptyLast)}
}

// observe turns section events into change notifications.
func (s *Store) observe(ev registry.Event) {
	change := notify.Change{
		Type:     notify.ChangeSet,
		Heading:  ev.Section,
		Entry:    ev.Entry,
		OldValue: ev.Old,
		NewValue: ev.New,
		Source:   s.source,
	}
	if ev.Deleted {
		change.Type = notify.ChangeDelete
	}

	if s.batch != nil {
		s.batch.Add(change)
		return
	}
	s.notifier.Notify(change)
}

// Section returns the named section. Entries reached through it are live:
// writes through a handle are visible to every later lookup.
func (s *Store) Section(name string) (*registry.Section, error) {
	sec, ok := s.sections[name]
	if !ok {
		return nil, fmt.Errorf("%w: [%s]", ErrHeadingNotFound, name)
	}
	return sec, nil
}

// Get returns a handle to an entry.
func (s *Store) Get(heading, name string) (*registry.Entry, error) {
	sec, err := s.Section(heading)
	if err != nil {
		return nil, err
	}
	return sec.Get(name)
}

// Set writes raw to an entry and reports whether the value was accepted.
// Rejected input leaves the entry unchanged and is not an error.
func (s *Store) Set(heading, name string, raw any) (bool, error) {
	sec, err := s.Section(heading)
	if err != nil {
		return false, err
	}
	accepted, err := sec.Set(name, raw)
	if err != nil {
		return false, err
	}
	if !accepted {
		s.logger.Debug("write rejected", "heading", heading, "entry", name, "value", raw)
	}
	return accepted, nil
}

// Lookup resolves a "Heading.Entry" path. Heading and entry names may
// contain dots; every split is tried from the left.
func (s *Store) Lookup(path string) (*registry.Entry, error) {
	for heading, name := range splits(path) {
		sec, ok := s.sections[heading]
		if !ok {
			continue
		}
		if e, err := sec.Get(name); err == nil {
			return e, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrInvalidPath, path)
}

// SetPath writes raw to the entry named by a "Heading.Entry" path.
// On an editable store a missing entry is created under the first heading
// that matches a prefix of path.
func (s *Store) SetPath(path string, raw any) (bool, error) {
	var first string
	found := false
	for heading, name := range splits(path) {
		sec, ok := s.sections[heading]
		if !ok {
			continue
		}
		if sec.Has(name) {
			return s.Set(heading, name, raw)
		}
		if !found {
			first, found = heading, true
		}
	}
	if found && s.editable {
		return s.Set(first, strings.TrimPrefix(path, first+"."), raw)
	}
	return false, fmt.Errorf("%w: %s", ErrInvalidPath, path)
}

// splits yields every (heading, entry) split of path at a dot.
func splits(path string) iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for i := 0; i < len(path); i++ {
			if path[i] != '.' {
				continue
			}
			if !yield(path[:i], path[i+1:]) {
				return
			}
		}
	}
}

// GetString returns the value of a string entry.
func (s *Store) GetString(path string) (string, error) {
	e, err := s.typed(path, registry.TypeString)
	if err != nil {
		return "", err
	}
	return e.String(), nil
}

// GetInt returns the value of an integer entry.
func (s *Store) GetInt(path string) (int64, error) {
	e, err := s.typed(path, registry.TypeInt)
	if err != nil {
		return 0, err
	}
	return e.Int(), nil
}

// GetFloat returns the value of a float or integer entry.
func (s *Store) GetFloat(path string) (float64, error) {
	e, err := s.typed(path, registry.TypeFloat, registry.TypeInt)
	if err != nil {
		return 0, err
	}
	return e.Float(), nil
}

// GetBool returns the value of a boolean entry.
func (s *Store) GetBool(path string) (bool, error) {
	e, err := s.typed(path, registry.TypeBool)
	if err != nil {
		return false, err
	}
	return e.Bool(), nil
}

func (s *Store) typed(path string, want ...registry.Type) (*registry.Entry, error) {
	e, err := s.Lookup(path)
	if err != nil {
		return nil, err
	}
	for _, t := range want {
		if e.Type() == t {
			return e, nil
		}
	}
	return nil, &registry.TypeError{Name: path, Expected: want[0].String(), Actual: e.Type().String()}
}

// SetSection creates or updates a heading on an editable store.
//
// value must be a map from entry names to values. A scalar is written to
// the existing entry, or creates one from the entry template. A nested map
// is a full entry definition (value, type, min, max, allowed, ...) that
// replaces any unlocked entry of the same name. A nil value deletes the
// heading.
func (s *Store) SetSection(name string, value any) error {
	if !s.editable {
		return fmt.Errorf("%w: cannot set heading [%s]", ErrNotEditable, name)
	}

	if value == nil {
		if _, ok := s.sections[name]; !ok {
			return nil
		}
		return s.DeleteSection(name)
	}

	values, ok := value.(map[string]any)
	if !ok {
		return &registry.TypeError{Name: name, Expected: "mapping", Actual: fmt.Sprintf("%T", value)}
	}

	sec, ok := s.sections[name]
	if !ok {
		sec = s.newSection(name, "", nil, nil)
		s.sections[name] = sec
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		raw := values[key]
		if fields, ok := raw.(map[string]any); ok {
			def, err := schema.DecodeEntry(notify.Path(name, key), key, fields)
			if err != nil {
				return err
			}
			e, err := def.NewEntry(s.template)
			if err != nil {
				return err
			}
			if err := sec.Insert(e); err != nil {
				return err
			}
			continue
		}
		if _, err := sec.Set(key, raw); err != nil {
			return err
		}
	}
	return nil
}

// DeleteSection removes a heading from an editable store. A heading holding
// locked entries cannot be deleted.
func (s *Store) DeleteSection(name string) error {
	if !s.editable {
		return fmt.Errorf("%w: cannot delete heading [%s]", ErrNotEditable, name)
	}
	sec, err := s.Section(name)
	if err != nil {
		return err
	}
	for _, entry := range sec.Names(true) {
		if e, _ := sec.Get(entry); e.Locked() {
			return fmt.Errorf("%w: [%s] %s", ErrEntryLocked, name, entry)
		}
	}

	delete(s.sections, name)
	s.notifier.NotifyDelete(name, "", sec.Values(true), s.source)
	return nil
}

// DeleteEntry removes an entry from an editable store.
func (s *Store) DeleteEntry(heading, name string) error {
	sec, err := s.Section(heading)
	if err != nil {
		return err
	}
	return sec.Delete(name)
}

// Headings returns the current heading names in priority order.
func (s *Store) Headings() []string {
	items := make([]priority.Item, 0, len(s.sections))
	for name, sec := range s.sections {
		item := priority.Item{Key: name}
		if p, ok := sec.Priority(); ok {
			item.Priority = priority.Int(p)
		}
		items = append(items, item)
	}
	return priority.Order(items, s.order()...)
}

// IsNew reports whether the last Load found no primary file.
func (s *Store) IsNew() bool { return s.isNew }

// Editable reports whether structural edits are allowed.
func (s *Store) Editable() bool { return s.editable }

// Schema returns a copy of the schema the store was built from.
func (s *Store) Schema() *schema.Schema { return s.schema.Clone() }

// Notifier returns the notifier receiving change events.
func (s *Store) Notifier() *notify.Notifier { return s.notifier }

// Subscribe registers an observer for the changes passing every filter.
func (s *Store) Subscribe(observer notify.Observer, filters ...notify.Filter) *notify.Subscription {
	return s.notifier.Subscribe(observer, filters...)
}

// SubscribePath registers an observer for changes under path, e.g. "Audio"
// or "Audio.Volume".
func (s *Store) SubscribePath(path string, observer notify.Observer) *notify.Subscription {
	return s.notifier.Subscribe(observer, notify.UnderPath(path))
}
