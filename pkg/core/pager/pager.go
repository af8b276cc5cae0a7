package pager

import (
	"fmt"
	"net/url"
	"strconv"
)

const (
	DefaultSize = 20
	MaxSize     = 100
)

// Pager tracks the position of a server-paginated list
type Pager struct {
	Page  int
	Size  int
	Total int
}

// New returns a pager on page 1 with size clamped to 1..MaxSize
func New(size int) Pager {
	return Pager{Page: 1, Size: ClampSize(size)}
}

// ClampSize coerces a requested page size into the accepted range.
// Non-positive sizes fall back to DefaultSize.
func ClampSize(size int) int {
	switch {
	case size <= 0:
		return DefaultSize
	case size > MaxSize:
		return MaxSize
	default:
		return size
	}
}

// Pages returns the page count, never less than one
func (p Pager) Pages() int {
	if p.Total <= 0 || p.Size <= 0 {
		return 1
	}
	return (p.Total + p.Size - 1) / p.Size
}

// HasNext reports whether another page exists after the current one
func (p Pager) HasNext() bool {
	return p.Page*p.Size < p.Total
}

func (p Pager) HasPrev() bool {
	return p.Page > 1
}

// Next advances one page and reports whether it moved
func (p *Pager) Next() bool {
	if !p.HasNext() {
		return false
	}
	p.Page++
	return true
}

// Prev goes back one page and reports whether it moved
func (p *Pager) Prev() bool {
	if !p.HasPrev() {
		return false
	}
	p.Page--
	return true
}

// Label renders the position as "1 / 3"
func (p Pager) Label() string {
	return fmt.Sprintf("%d / %d", p.Page, p.Pages())
}

// Params returns the page/size query parameters
func (p Pager) Params() url.Values {
	values := url.Values{}
	values.Set("page", strconv.Itoa(p.Page))
	values.Set("size", strconv.Itoa(p.Size))
	return values
}

// Query is a list request: position plus search and filters
type Query struct {
	Page    int
	Size    int
	Search  string
	Filters map[string]string
}

// Values encodes the query; empty search and filters are omitted
func (q Query) Values() url.Values {
	values := Pager{Page: q.Page, Size: q.Size}.Params()
	if q.Search != "" {
		values.Set("search", q.Search)
	}
	for key, value := range q.Filters {
		if value == "" {
			continue
		}
		values.Set(key, value)
	}
	return values
}
