// Package priority computes the serialization order of sibling keys.
//
// Keys may declare an explicit integer priority. Keys are grouped by
// priority and visited slot by slot in ascending order, each group sorted
// lexicographically. Keys without a priority form a single unassigned group
// that either fills the first empty slot (the default) or is appended after
// every explicit group.
package priority

import (
	"sort"
)

// Item describes one key taking part in the ordering.
type Item struct {
	// Key is the name being ordered.
	Key string

	// Priority is the explicit slot for the key; nil means unassigned.
	Priority *int

	// Hidden keys are structural and never appear in the result.
	Hidden bool
}

// Option configures Order.
type Option func(*options)

type options struct {
	emptyLast bool
}

// EmptyLast places the unassigned group after all explicit groups
// instead of in the first gap.
func EmptyLast(enable bool) Option {
	return func(o *options) {
		o.emptyLast = enable
	}
}

// Order returns the keys of items in serialization order.
//
// Visiting starts at the lowest explicit priority, or at slot 0 when every
// explicit priority is positive or none exists. The result depends only on
// the contents of items, never on their order.
func Order(items []Item, opts ...Option) []string {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	groups := make(map[int][]string)
	var unassigned []string
	for _, it := range items {
		if it.Hidden {
			continue
		}
		if it.Priority == nil {
			unassigned = append(unassigned, it.Key)
			continue
		}
		groups[*it.Priority] = append(groups[*it.Priority], it.Key)
	}

	slots := make([]int, 0, len(groups))
	for p := range groups {
		slots = append(slots, p)
	}
	sort.Ints(slots)
	sort.Strings(unassigned)

	slot := 0
	if len(slots) > 0 && slots[0] < slot {
		slot = slots[0]
	}

	order := make([]string, 0, len(items))
	placed := len(unassigned) == 0
	for _, p := range slots {
		if p > slot && !placed && !o.emptyLast {
			order = append(order, unassigned...)
			placed = true
		}
		keys := groups[p]
		sort.Strings(keys)
		order = append(order, keys...)
		slot = p + 1
	}
	if !placed {
		order = append(order, unassigned...)
	}
	return order
}

// Int returns a pointer to p, for building Items inline.
func Int(p int) *int {
	return &p
}
