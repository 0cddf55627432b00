package client

import (
	"strings"
	"time"
)

// Predicate is one independent filter over an entity.
type Predicate[T any] func(T) bool

// ApplyFilters returns the subset satisfying every predicate. A nil or
// empty predicate list returns a copy of the input.
func ApplyFilters[T any](items []T, preds ...Predicate[T]) []T {
	out := make([]T, 0, len(items))
outer:
	for _, item := range items {
		for _, p := range preds {
			if p != nil && !p(item) {
				continue outer
			}
		}
		out = append(out, item)
	}
	return out
}

// Substring matches case-insensitively against an extracted field. An
// empty query matches everything.
func Substring[T any](query string, field func(T) string) Predicate[T] {
	query = strings.ToLower(strings.TrimSpace(query))
	return func(item T) bool {
		if query == "" {
			return true
		}
		return strings.Contains(strings.ToLower(field(item)), query)
	}
}

// IDEquals matches an exact foreign-key id. A nil filter value matches
// everything.
func IDEquals[T any](want *int64, field func(T) int64) Predicate[T] {
	return func(item T) bool {
		return want == nil || field(item) == *want
	}
}

// EnumEquals matches an exact enumeration value. An empty filter value
// matches everything.
func EnumEquals[T any](want string, field func(T) string) Predicate[T] {
	return func(item T) bool {
		return want == "" || field(item) == want
	}
}

// DateWithin matches dates inside an inclusive range. Nil bounds are
// open ended.
func DateWithin[T any](from, to *time.Time, field func(T) time.Time) Predicate[T] {
	return func(item T) bool {
		d := field(item)
		if from != nil && d.Before(*from) {
			return false
		}
		if to != nil && d.After(*to) {
			return false
		}
		return true
	}
}

// FilterStore persists a filter set between reloads. Only the job
// opportunity screen uses it; every other filter set resets.
type FilterStore interface {
	Save(key, value string)
	Load(key string) (string, bool)
}

// MemoryFilterStore is an in-process FilterStore.
type MemoryFilterStore struct {
	values map[string]string
}

func (m *MemoryFilterStore) Save(key, value string) {
	if m.values == nil {
		m.values = make(map[string]string)
	}
	m.values[key] = value
}

func (m *MemoryFilterStore) Load(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Paginator slices a filtered collection into fixed-size pages. The
// page index clamps at both bounds.
type Paginator struct {
	PageSize int
	page     int
}

// Page returns the current page of items.
func Page[T any](p *Paginator, items []T) []T {
	size := p.PageSize
	if size <= 0 {
		size = 10
	}
	p.clamp(len(items))
	start := p.page * size
	if start >= len(items) {
		return nil
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// Next advances one page when one exists.
func (p *Paginator) Next(total int) { p.page++; p.clamp(total) }

// Prev steps back one page when one exists.
func (p *Paginator) Prev(total int) { p.page--; p.clamp(total) }

// Index returns the current zero-based page index.
func (p *Paginator) Index() int { return p.page }

func (p *Paginator) clamp(total int) {
	size := p.PageSize
	if size <= 0 {
		size = 10
	}
	last := 0
	if total > 0 {
		last = (total - 1) / size
	}
	if p.page > last {
		p.page = last
	}
	if p.page < 0 {
		p.page = 0
	}
}
