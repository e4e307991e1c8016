package dataview

import "slices"

// ListData is the fully-materialized backend. It asks for the complete item
// sequence once and supports edits by id afterwards. Before the initial load
// every operation is a no-op.
type ListData[T Identifiable[ID], ID comparable] struct {
	items  []T
	loaded bool
}

// NewListData returns an empty, unloaded backend.
func NewListData[T Identifiable[ID], ID comparable]() *ListData[T, ID] {
	return &ListData[T, ID]{}
}

func (d *ListData[T, ID]) start(emit func(Request)) {
	emit(FullLoadRequest())
}

func (d *ListData[T, ID]) retain(int, int, func(Request)) {}

// HasData reports whether the initial load has completed.
func (d *ListData[T, ID]) HasData() bool {
	return d.loaded
}

// Size returns the number of items, or false before the initial load.
func (d *ListData[T, ID]) Size() (int, bool) {
	if !d.loaded {
		return 0, false
	}
	return len(d.items), true
}

// ItemAt returns the item at index.
func (d *ListData[T, ID]) ItemAt(index int) (T, bool) {
	if index < 0 || index >= len(d.items) {
		var zero T
		return zero, false
	}
	return d.items[index], true
}

// Handle replaces the contents with a full-load response. Other message
// kinds are ignored.
func (d *ListData[T, ID]) Handle(msg Message[T]) bool {
	if msg.Kind != MessageFullLoad {
		return false
	}
	d.items = slices.Clone(msg.Items)
	d.loaded = true
	return true
}

// IndexOf returns the position of the item with the given id.
func (d *ListData[T, ID]) IndexOf(id ID) (int, bool) {
	return indexWithID(d.items, id)
}

// Add appends item, or replaces the existing item with the same id in place.
// It returns the item's position.
func (d *ListData[T, ID]) Add(item T) (int, bool) {
	if !d.loaded {
		return -1, false
	}
	if i, ok := d.IndexOf(item.ID()); ok {
		d.items[i] = item
		return i, true
	}
	d.items = append(d.items, item)
	return len(d.items) - 1, true
}

// Remove deletes the item with the given id and returns its former position.
func (d *ListData[T, ID]) Remove(id ID) (int, bool) {
	i, ok := d.IndexOf(id)
	if !ok {
		return -1, false
	}
	d.items = slices.Delete(d.items, i, i+1)
	return i, true
}

// Replace swaps in item for the stored item with the same id.
func (d *ListData[T, ID]) Replace(item T) (int, bool) {
	i, ok := d.IndexOf(item.ID())
	if !ok {
		return -1, false
	}
	d.items[i] = item
	return i, true
}

// Update calls fn on the item with the given id.
func (d *ListData[T, ID]) Update(id ID, fn func(*T)) bool {
	i, ok := d.IndexOf(id)
	if !ok {
		return false
	}
	fn(&d.items[i])
	return true
}

// UpdateAt calls fn on the item at index.
func (d *ListData[T, ID]) UpdateAt(index int, fn func(*T)) bool {
	if index < 0 || index >= len(d.items) {
		return false
	}
	fn(&d.items[index])
	return true
}

// UpdateAll calls fn on every item.
func (d *ListData[T, ID]) UpdateAll(fn func(*T)) {
	for i := range d.items {
		fn(&d.items[i])
	}
}
