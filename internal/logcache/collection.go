// Package logcache keeps a de-duplicated view of fetched log records. Records
// are identified by (user_id, timestamp); a re-fetched record replaces the
// stored one and keeps the slot of its first insertion.
package logcache

import (
	"strings"

	"visitor-console/internal/model"
)

// Keyed is a log record with a composite identity.
type Keyed interface {
	LogKey() model.LogKey
}

// Collection is an insertion-ordered set of records, at most one per key.
// The zero value is an empty collection. Collections are values: every
// operation returns a new one and leaves its input untouched.
type Collection[T Keyed] struct {
	order []model.LogKey
	items map[model.LogKey]T
}

// New builds a collection from records, later duplicates winning.
func New[T Keyed](records ...T) Collection[T] {
	return MergeIn(Collection[T]{}, records)
}

// Len returns the number of records.
func (c Collection[T]) Len() int { return len(c.order) }

// Get looks a record up by key.
func (c Collection[T]) Get(key model.LogKey) (T, bool) {
	v, ok := c.items[key]
	return v, ok
}

// Items returns the records in insertion order.
func (c Collection[T]) Items() []T {
	out := make([]T, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, c.items[k])
	}
	return out
}

func (c Collection[T]) clone() Collection[T] {
	out := Collection[T]{
		order: make([]model.LogKey, len(c.order), len(c.order)+1),
		items: make(map[model.LogKey]T, len(c.items)),
	}
	copy(out.order, c.order)
	for k, v := range c.items {
		out.items[k] = v
	}
	return out
}

// MergeIn inserts every incoming record, replacing any stored record with the
// same key. Within one batch the last record for a key wins.
func MergeIn[T Keyed](existing Collection[T], incoming []T) Collection[T] {
	out := existing.clone()
	for _, rec := range incoming {
		key := rec.LogKey()
		if _, ok := out.items[key]; !ok {
			out.order = append(out.order, key)
		}
		out.items[key] = rec
	}
	return out
}

// ApplyLocalEdit replaces the record matching updated's key. An edit that
// matches nothing leaves the collection unchanged.
func ApplyLocalEdit[T Keyed](existing Collection[T], updated T) Collection[T] {
	key := updated.LogKey()
	if _, ok := existing.items[key]; !ok {
		return existing
	}
	out := existing.clone()
	out.items[key] = updated
	return out
}

// MatchMode selects how Filter compares user ids.
type MatchMode int

const (
	// CaseSensitive is used by the equipment log view.
	CaseSensitive MatchMode = iota
	// CaseInsensitive is used by the visit log view.
	CaseInsensitive
)

// Filter returns the records whose user_id contains query, in insertion order.
// An empty query matches everything.
func Filter[T Keyed](c Collection[T], query string, mode MatchMode) []T {
	if query == "" {
		return c.Items()
	}
	if mode == CaseInsensitive {
		query = strings.ToLower(query)
	}

	var out []T
	for _, k := range c.order {
		id := k.UserID
		if mode == CaseInsensitive {
			id = strings.ToLower(id)
		}
		if strings.Contains(id, query) {
			out = append(out, c.items[k])
		}
	}
	return out
}

// AllLocations disables the location filter.
const AllLocations = "All"

// FilterVisits applies the visit view's user id search and location filter.
func FilterVisits(c Collection[model.Visit], query, location string) []model.Visit {
	matched := Filter(c, query, CaseInsensitive)
	if location == "" || location == AllLocations {
		return matched
	}
	out := matched[:0:0]
	for _, v := range matched {
		if v.Location == location {
			out = append(out, v)
		}
	}
	return out
}
