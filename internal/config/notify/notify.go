// Package notify delivers store change events to observers.
//
// Observers subscribe with optional filters and are called synchronously,
// in subscription order, on the goroutine that made the change. Changes made
// while loading a file are collected in a Batch and delivered once the file
// has been applied. Like the store itself, a Notifier is not safe for
// concurrent use.
package notify

import "strings"

// ChangeType classifies a change.
type ChangeType int

const (
	// ChangeSet is an accepted write that changed a value, or a new entry.
	ChangeSet ChangeType = iota

	// ChangeDelete is a removed entry or heading.
	ChangeDelete

	// ChangeReload means every entry was restored to its initial value.
	ChangeReload
)

func (c ChangeType) String() string {
	switch c {
	case ChangeSet:
		return "set"
	case ChangeDelete:
		return "delete"
	case ChangeReload:
		return "reload"
	default:
		return "unknown"
	}
}

// Change describes one modification of a store.
type Change struct {
	Type ChangeType

	// Heading is empty for reloads.
	Heading string

	// Entry is empty for reloads and heading deletions.
	Entry string

	// OldValue is nil for new entries. For heading deletions it holds the
	// heading's values as a map[string]any.
	OldValue any

	// NewValue is nil for deletions and reloads.
	NewValue any

	// Source is the file being loaded, "runtime" or "defaults".
	Source string
}

// Path returns "Heading.Entry", "Heading" for heading deletions, or "" for
// reloads.
func (c Change) Path() string {
	return Path(c.Heading, c.Entry)
}

// Path joins a heading and an entry name with a dot.
func Path(heading, entry string) string {
	if entry == "" {
		return heading
	}
	return heading + "." + entry
}

// Observer receives changes.
type Observer func(Change)

// Filter selects the changes an observer receives.
type Filter func(Change) bool

// UnderPath selects changes to path and to anything below it, so "Audio"
// receives "Audio.Volume" but not "AudioExtra.Volume". Reloads always pass.
func UnderPath(path string) Filter {
	return func(c Change) bool {
		if path == "" || c.Type == ChangeReload {
			return true
		}
		p := c.Path()
		return p == path || strings.HasPrefix(p, path+".") ||
			// Deleting a heading affects every entry under it.
			(c.Entry == "" && strings.HasPrefix(path, p+"."))
	}
}

// OnTypes selects changes of the given types.
func OnTypes(types ...ChangeType) Filter {
	return func(c Change) bool {
		for _, t := range types {
			if c.Type == t {
				return true
			}
		}
		return false
	}
}

type subscriber struct {
	id       uint64
	filters  []Filter
	observer Observer
}

func (s subscriber) wants(c Change) bool {
	for _, f := range s.filters {
		if !f(c) {
			return false
		}
	}
	return true
}

// Notifier fans changes out to subscribers.
type Notifier struct {
	subscribers []subscriber
	nextID      uint64
}

// New creates a Notifier with no subscribers.
func New() *Notifier {
	return &Notifier{}
}

// Subscribe registers observer for the changes passing every filter.
func (n *Notifier) Subscribe(observer Observer, filters ...Filter) *Subscription {
	id := n.nextID
	n.nextID++
	n.subscribers = append(n.subscribers, subscriber{id: id, filters: filters, observer: observer})
	return &Subscription{id: id, notifier: n}
}

// Notify delivers change to every interested subscriber.
func (n *Notifier) Notify(change Change) {
	// Observers may unsubscribe while being called.
	subs := append([]subscriber(nil), n.subscribers...)
	for _, s := range subs {
		if s.wants(change) {
			s.observer(change)
		}
	}
}

// NotifyDelete reports a deleted entry, or a deleted heading when entry is
// empty.
func (n *Notifier) NotifyDelete(heading, entry string, oldValue any, source string) {
	n.Notify(Change{
		Type:     ChangeDelete,
		Heading:  heading,
		Entry:    entry,
		OldValue: oldValue,
		Source:   source,
	})
}

// NotifyReload reports that every entry was restored.
func (n *Notifier) NotifyReload(source string) {
	n.Notify(Change{Type: ChangeReload, Source: source})
}

func (n *Notifier) unsubscribe(id uint64) {
	for i, s := range n.subscribers {
		if s.id == id {
			n.subscribers = append(n.subscribers[:i:i], n.subscribers[i+1:]...)
			return
		}
	}
}

// Subscription is an active registration.
type Subscription struct {
	id       uint64
	notifier *Notifier
}

// Unsubscribe stops delivery. Calling it again is a no-op.
func (s *Subscription) Unsubscribe() {
	if s.notifier != nil {
		s.notifier.unsubscribe(s.id)
		s.notifier = nil
	}
}

// Batch holds changes until Commit delivers them in order.
type Batch struct {
	notifier *Notifier
	changes  []Change
}

// NewBatch returns an empty batch delivering to n.
func (n *Notifier) NewBatch() *Batch {
	return &Batch{notifier: n}
}

// Add queues change.
func (b *Batch) Add(change Change) {
	b.changes = append(b.changes, change)
}

// Commit delivers and clears the queued changes.
func (b *Batch) Commit() {
	changes := b.changes
	b.changes = nil
	for _, change := range changes {
		b.notifier.Notify(change)
	}
}

// Len returns the number of queued changes.
func (b *Batch) Len() int {
	return len(b.changes)
}
