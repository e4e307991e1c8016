package dataview

import "slices"

// page is one slot of the page map. A page with loaded == false has been
// requested and its answer is outstanding.
type page[T any] struct {
	items  []T
	loaded bool
}

// PaginatedData is the sparse backend. It learns the total item count first
// and then keeps only the pages that cover the list's window plus its load
// margins. Pages are requested eagerly and dropped as soon as they no longer
// intersect that range.
//
// Items held here cannot be inserted or removed; the page layout is derived
// from the remote total. In-place updates through Update are allowed.
type PaginatedData[T Identifiable[ID], ID comparable] struct {
	pageSize int
	total    int
	hasTotal bool

	pages         map[int]*page[T]
	retainedFirst int
	retainedCount int
}

// NewPaginatedData returns an empty backend using pages of pageSize items.
func NewPaginatedData[T Identifiable[ID], ID comparable](pageSize int) *PaginatedData[T, ID] {
	if pageSize < 1 {
		pageSize = 1
	}
	return &PaginatedData[T, ID]{
		pageSize: pageSize,
		pages:    make(map[int]*page[T]),
	}
}

func (d *PaginatedData[T, ID]) start(emit func(Request)) {
	emit(SizeRequest())
}

func (d *PaginatedData[T, ID]) retain(start, end int, emit func(Request)) {
	for _, index := range d.Retain(start, end) {
		emit(PageRequest(index, d.pageSize))
	}
}

// PageSize returns the number of items per page.
func (d *PaginatedData[T, ID]) PageSize() int {
	return d.pageSize
}

// HasData reports whether the total size is known.
func (d *PaginatedData[T, ID]) HasData() bool {
	return d.hasTotal
}

// Size returns the total item count once known.
func (d *PaginatedData[T, ID]) Size() (int, bool) {
	return d.total, d.hasTotal
}

// Handle stores a Size or Page response. Pages outside the retained range
// are discarded: they answer requests for pages that have since been
// evicted. Re-delivering a page overwrites it with the same content.
func (d *PaginatedData[T, ID]) Handle(msg Message[T]) bool {
	switch msg.Kind {
	case MessageSize:
		total := max(msg.Total, 0)
		if d.hasTotal && d.total == total {
			return false
		}
		d.total = total
		d.hasTotal = true
		return true
	case MessagePage:
		if !d.hasTotal {
			return false
		}
		p, ok := d.pages[msg.Index]
		if !ok {
			return false
		}
		items := msg.Items
		if len(items) > d.pageSize {
			items = items[:d.pageSize]
		}
		p.items = slices.Clone(items)
		p.loaded = true
		return true
	default:
		return false
	}
}

// ItemAt returns the item at a logical position. It reports false when the
// position is past the total, when its page is absent or pending, or when
// the page came back shorter than the position requires.
func (d *PaginatedData[T, ID]) ItemAt(index int) (T, bool) {
	var zero T
	if !d.hasTotal || index < 0 || index >= d.total {
		return zero, false
	}
	p, ok := d.pages[index/d.pageSize]
	if !ok || !p.loaded {
		return zero, false
	}
	offset := index % d.pageSize
	if offset >= len(p.items) {
		return zero, false
	}
	return p.items[offset], true
}

// pageSpan returns the indices of the first and last page intersecting
// [start, end), clipped to the known total. ok is false for an empty range.
func (d *PaginatedData[T, ID]) pageSpan(start, end int) (first, last int, ok bool) {
	start = max(start, 0)
	if d.hasTotal {
		end = min(end, d.total)
	}
	if start >= end {
		return 0, 0, false
	}
	return start / d.pageSize, (end - 1) / d.pageSize, true
}

// PagesNeededFor returns the pages intersecting [start, end) that are
// neither loaded nor already requested.
func (d *PaginatedData[T, ID]) PagesNeededFor(start, end int) []int {
	first, last, ok := d.pageSpan(start, end)
	if !ok {
		return nil
	}
	var needed []int
	for index := first; index <= last; index++ {
		if _, ok := d.pages[index]; !ok {
			needed = append(needed, index)
		}
	}
	return needed
}

// Retain makes [start, end) the required range. Cached pages outside its
// covering set are dropped, pages inside it are left as they are, and pages
// inside it that are missing are marked as requested. The returned indices
// are exactly the pages that now need a request; asking again for the same
// range returns nothing. Nothing is retained before the total is known.
func (d *PaginatedData[T, ID]) Retain(start, end int) []int {
	if !d.hasTotal {
		return nil
	}
	first, last, ok := d.pageSpan(start, end)
	if !ok {
		clear(d.pages)
		d.retainedFirst, d.retainedCount = 0, 0
		return nil
	}

	for index := range d.pages {
		if index < first || index > last {
			delete(d.pages, index)
		}
	}

	needed := d.PagesNeededFor(start, end)
	for _, index := range needed {
		d.pages[index] = &page[T]{}
	}

	d.retainedFirst = first
	d.retainedCount = last - first + 1
	return needed
}

// PagesRange returns the first retained page index and the number of
// retained pages.
func (d *PaginatedData[T, ID]) PagesRange() (first, count int) {
	return d.retainedFirst, d.retainedCount
}

// IsPageLoaded reports whether the page at index holds data.
func (d *PaginatedData[T, ID]) IsPageLoaded(index int) bool {
	p, ok := d.pages[index]
	return ok && p.loaded
}

// IsPageRequested reports whether the page at index is retained but its
// answer is still outstanding.
func (d *PaginatedData[T, ID]) IsPageRequested(index int) bool {
	p, ok := d.pages[index]
	return ok && !p.loaded
}

// IndexOf searches the loaded pages for the item with the given id.
func (d *PaginatedData[T, ID]) IndexOf(id ID) (int, bool) {
	for index, p := range d.pages {
		if !p.loaded {
			continue
		}
		if i, ok := indexWithID(p.items, id); ok {
			return index*d.pageSize + i, true
		}
	}
	return -1, false
}

// Update calls fn on the cached item with the given id, if any.
func (d *PaginatedData[T, ID]) Update(id ID, fn func(*T)) bool {
	for _, p := range d.pages {
		if !p.loaded {
			continue
		}
		if i, ok := indexWithID(p.items, id); ok {
			fn(&p.items[i])
			return true
		}
	}
	return false
}

// UpdateAll calls fn on every cached item.
func (d *PaginatedData[T, ID]) UpdateAll(fn func(*T)) {
	for _, p := range d.pages {
		for i := range p.items {
			fn(&p.items[i])
		}
	}
}
