// Package dataview implements a virtualized list engine for terminal list
// widgets whose items may far outnumber the visible rows and may live in an
// asynchronous store.
//
// An InteractiveList owns a cursor, a window of visible rows and one of two
// backends: ListData, which holds the whole sequence once loaded, or
// PaginatedData, which keeps a sparse set of fixed-size pages around the
// window. Lists never block on data. They emit versioned requests through a
// DataProvider and render whatever is known, using placeholders for rows
// whose data has not arrived. Responses tagged with a superseded version are
// dropped.
//
// Lists are not safe for concurrent use. They are meant to live inside a
// single event loop that serialises cursor commands, edits and data delivery.
package dataview

// backend is the capability set shared by the two storage strategies. The
// unexported methods keep the set closed to this package.
type backend[T Identifiable[ID], ID comparable] interface {
	// start emits the request that bootstraps the backend.
	start(emit func(Request))
	// retain is called after every window change with the range of logical
	// positions [start, end) the list wants available.
	retain(start, end int, emit func(Request))

	ItemAt(index int) (T, bool)
	Size() (int, bool)
	HasData() bool
	Handle(msg Message[T]) bool
	IndexOf(id ID) (int, bool)
	Update(id ID, fn func(*T)) bool
	UpdateAll(fn func(*T))
}

func indexWithID[T Identifiable[ID], ID comparable](items []T, id ID) (int, bool) {
	for i := range items {
		if items[i].ID() == id {
			return i, true
		}
	}
	return -1, false
}
