package report

// DefaultPageSize is used when a Paginator is built with a non-positive size.
const DefaultPageSize = 5

// Paginator splits a fixed slice into pages. The current page is the only
// mutable state and belongs to whoever created the Paginator; a new result
// set needs a new Paginator, which starts on page 1.
//
// An empty slice has exactly one, empty, page.
type Paginator[T any] struct {
	items    []T
	pageSize int
	page     int
}

// NewPaginator creates a paginator positioned on page 1.
func NewPaginator[T any](items []T, pageSize int) *Paginator[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Paginator[T]{items: items, pageSize: pageSize, page: 1}
}

// PageCount returns ceil(total/pageSize), and 1 for an empty input.
func (p *Paginator[T]) PageCount() int {
	if len(p.items) == 0 {
		return 1
	}
	return (len(p.items) + p.pageSize - 1) / p.pageSize
}

// SetPage moves to page n, clamped to [1, PageCount()].
func (p *Paginator[T]) SetPage(n int) {
	switch last := p.PageCount(); {
	case n < 1:
		p.page = 1
	case n > last:
		p.page = last
	default:
		p.page = n
	}
}

// Page returns the current 1-based page number.
func (p *Paginator[T]) Page() int {
	return p.page
}

// PageSize returns the number of items per page.
func (p *Paginator[T]) PageSize() int {
	return p.pageSize
}

// Total returns the number of items across all pages.
func (p *Paginator[T]) Total() int {
	return len(p.items)
}

// HasNext reports whether a page follows the current one.
func (p *Paginator[T]) HasNext() bool {
	return p.page < p.PageCount()
}

// HasPrev reports whether a page precedes the current one.
func (p *Paginator[T]) HasPrev() bool {
	return p.page > 1
}

// Items returns the items on the current page.
func (p *Paginator[T]) Items() []T {
	start := (p.page - 1) * p.pageSize
	if start >= len(p.items) {
		return []T{}
	}
	end := min(start+p.pageSize, len(p.items))
	return p.items[start:end]
}
