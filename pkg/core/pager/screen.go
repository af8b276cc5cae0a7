package pager

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/jaeyoung-onebird/workproof/pkg/clients/apiclient"
)

// State is the lifecycle of a list screen
type State string

const (
	StateLoading State = "loading"
	StateEmpty   State = "empty"
	StateReady   State = "ready"
	StateFailed  State = "failed"
)

// FetchFunc loads one page of items for a query
type FetchFunc[T any] func(ctx context.Context, q Query) (*apiclient.Page[T], error)

// Less orders two items for a named sort field
type Less[T any] func(a, b T) bool

// Screen holds one server-paginated list with its filters, search and local view state
type Screen[T any] struct {
	// Sorters are the fields Visible can sort by
	Sorters map[string]Less[T]

	fetch   FetchFunc[T]
	mu      sync.Mutex
	pager   Pager
	search  string
	filters map[string]string
	items   []T
	state   State
	err     error
	sortBy  string
	desc    bool
}

// NewScreen creates a screen on page 1; nothing is fetched until Load
func NewScreen[T any](fetch FetchFunc[T], size int) *Screen[T] {
	return &Screen[T]{
		Sorters: make(map[string]Less[T]),
		fetch:   fetch,
		pager:   New(size),
		filters: make(map[string]string),
		state:   StateLoading,
	}
}

// Load fetches the current page
func (s *Screen[T]) Load(ctx context.Context) error {
	s.mu.Lock()
	s.state = StateLoading
	q := s.queryLocked()
	s.mu.Unlock()

	page, err := s.fetch(ctx, q)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.items = nil
		s.err = err
		s.state = StateFailed
		return err
	}

	s.err = nil
	s.items = page.Items
	s.pager.Total = page.Total
	s.updateStateLocked()
	return nil
}

// NextPage loads the following page; it is a no-op on the last page
func (s *Screen[T]) NextPage(ctx context.Context) (bool, error) {
	return s.move(ctx, (*Pager).Next, (*Pager).Prev)
}

// PrevPage loads the preceding page; it is a no-op on page 1
func (s *Screen[T]) PrevPage(ctx context.Context) (bool, error) {
	return s.move(ctx, (*Pager).Prev, (*Pager).Next)
}

func (s *Screen[T]) move(ctx context.Context, step, undo func(*Pager) bool) (bool, error) {
	s.mu.Lock()
	moved := step(&s.pager)
	s.mu.Unlock()

	if !moved {
		return false, nil
	}

	if err := s.Load(ctx); err != nil {
		s.mu.Lock()
		undo(&s.pager)
		s.mu.Unlock()
		return false, err
	}
	return true, nil
}

// SetFilter sets or clears (empty value) a server-side filter and resets to page 1
func (s *Screen[T]) SetFilter(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if value == "" {
		delete(s.filters, key)
	} else {
		s.filters[key] = value
	}
	s.pager.Page = 1
}

// SetSearch sets the search text and resets to page 1
func (s *Screen[T]) SetSearch(search string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.search = search
	s.pager.Page = 1
}

// SortBy selects the local sort field used by Visible. An empty field keeps server order;
// a field with no sorter is rejected.
func (s *Screen[T]) SortBy(field string, desc bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if field != "" {
		if _, ok := s.Sorters[field]; !ok {
			return fmt.Errorf("unknown sort field %q (valid: %s)", field, strings.Join(SortFields(s.Sorters), ", "))
		}
	}

	s.sortBy = field
	s.desc = desc
	return nil
}

// SortFields returns the sorter names in alphabetical order
func SortFields[T any](sorters map[string]Less[T]) []string {
	return slices.Sorted(maps.Keys(sorters))
}

func (s *Screen[T]) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the error of the last failed load
func (s *Screen[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Screen[T]) Pager() Pager {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pager
}

// Items returns a copy of the loaded page in server order
func (s *Screen[T]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]T(nil), s.items...)
}

// Visible returns the loaded items matching keep (nil keeps all), sorted by the selected field
func (s *Screen[T]) Visible(keep func(T) bool) []T {
	s.mu.Lock()
	defer s.mu.Unlock()

	visible := make([]T, 0, len(s.items))
	for _, item := range s.items {
		if keep == nil || keep(item) {
			visible = append(visible, item)
		}
	}

	less, ok := s.Sorters[s.sortBy]
	if !ok {
		return visible
	}

	sort.SliceStable(visible, func(i, j int) bool {
		if s.desc {
			return less(visible[j], visible[i])
		}
		return less(visible[i], visible[j])
	})
	return visible
}

// Remove drops matching items from the loaded page without refetching.
// Total shrinks by the number removed, and the page is clamped to the new last page.
func (s *Screen[T]) Remove(match func(T) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]T, 0, len(s.items))
	removed := 0
	for _, item := range s.items {
		if match(item) {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	s.items = kept

	s.pager.Total -= removed
	if s.pager.Total < 0 {
		s.pager.Total = 0
	}
	if s.pager.Page > s.pager.Pages() {
		s.pager.Page = s.pager.Pages()
	}
	if s.state != StateFailed {
		s.updateStateLocked()
	}
	return removed
}

func (s *Screen[T]) queryLocked() Query {
	return Query{
		Page:    s.pager.Page,
		Size:    s.pager.Size,
		Search:  s.search,
		Filters: maps.Clone(s.filters),
	}
}

func (s *Screen[T]) updateStateLocked() {
	if len(s.items) == 0 {
		s.state = StateEmpty
	} else {
		s.state = StateReady
	}
}
