package dataview

import (
	"iter"
	"log/slog"
)

// State is the lifecycle stage of an InteractiveList.
type State int

const (
	StateUnattached State = iota // No provider
	StateAwaiting                // Provider attached, initial data outstanding
	StateReady                   // Size known; rows can be rendered
)

func (s State) String() string {
	switch s {
	case StateUnattached:
		return "unattached"
	case StateAwaiting:
		return "awaiting"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Row is one visible line of a list. Loaded is false for positions whose
// data has not arrived yet; Item is the zero value then.
type Row[T any] struct {
	Index    int
	Item     T
	Loaded   bool
	Selected bool
}

// InteractiveList is the controller that ties a backend to a cursor and a
// window of windowSize rows. The backend variant is chosen by the
// constructor and never changes.
type InteractiveList[T Identifiable[ID], ID comparable] struct {
	newBackend func() backend[T, ID]
	data       backend[T, ID]

	provider DataProvider
	version  Version

	options    Options
	windowSize int
	offset     int
	selected   int // -1 when nothing is selected

	logger *slog.Logger
}

// NewLinearList returns a list backed by ListData.
func NewLinearList[T Identifiable[ID], ID comparable](windowSize int, opts ...ListOption) *InteractiveList[T, ID] {
	return newInteractiveList[T, ID](windowSize, opts, func(Options) backend[T, ID] {
		return NewListData[T, ID]()
	})
}

// NewPaginatedList returns a list backed by PaginatedData.
func NewPaginatedList[T Identifiable[ID], ID comparable](windowSize int, opts ...ListOption) *InteractiveList[T, ID] {
	return newInteractiveList[T, ID](windowSize, opts, func(o Options) backend[T, ID] {
		return NewPaginatedData[T, ID](o.PageSize)
	})
}

func newInteractiveList[T Identifiable[ID], ID comparable](windowSize int, opts []ListOption, factory func(Options) backend[T, ID]) *InteractiveList[T, ID] {
	cfg := newListConfig(opts)
	l := &InteractiveList[T, ID]{
		options:    cfg.options,
		windowSize: max(windowSize, 0),
		selected:   -1,
		logger:     cfg.logger,
	}
	l.newBackend = func() backend[T, ID] { return factory(l.options) }
	l.data = l.newBackend()
	return l
}

// Options returns the options the list was built with.
func (l *InteractiveList[T, ID]) Options() Options {
	return l.options
}

// Version returns the current request version.
func (l *InteractiveList[T, ID]) Version() uint64 {
	return l.version.Current()
}

// State returns the lifecycle stage of the list.
func (l *InteractiveList[T, ID]) State() State {
	switch {
	case l.provider == nil:
		return StateUnattached
	case !l.data.HasData():
		return StateAwaiting
	default:
		return StateReady
	}
}

// SetProvider attaches p, discarding all data and invalidating every request
// issued so far. The backend's bootstrap request is emitted to p under the
// new version. A nil p detaches the list.
func (l *InteractiveList[T, ID]) SetProvider(p DataProvider) {
	l.provider = p
	l.version.Bump()
	l.data = l.newBackend()
	l.offset = 0
	l.selected = -1
	if p != nil {
		l.data.start(l.request)
	}
}

// Provider returns the attached provider, or nil.
func (l *InteractiveList[T, ID]) Provider() DataProvider {
	return l.provider
}

func (l *InteractiveList[T, ID]) request(req Request) {
	if l.provider == nil {
		return
	}
	l.logger.Debug("dataview request", "request", req.String(), "version", l.version.Current())
	l.provider.Request(Tag(&l.version, req))
}

// HandleData routes a response into the backend. Responses issued under a
// superseded version are dropped. The result reports whether the visible
// state may have changed.
func (l *InteractiveList[T, ID]) HandleData(msg Versioned[Message[T]]) bool {
	if l.provider == nil || !l.version.IsCurrent(msg.Version) {
		l.logger.Debug("dataview dropped stale response",
			"version", msg.Version,
			"current", l.version.Current(),
		)
		return false
	}
	if !l.data.Handle(msg.Data) {
		if msg.Data.Kind == MessagePage {
			l.logger.Debug("dataview discarded page outside retained range", "page", msg.Data.Index)
		}
		return false
	}
	l.revalidate()
	return true
}

// revalidate clamps the selection to the data, moves the window so that it
// shows the selection and retains the data the window needs.
func (l *InteractiveList[T, ID]) revalidate() {
	size, ok := l.data.Size()
	if !ok {
		return
	}
	switch {
	case size == 0:
		l.selected = -1
	case l.selected < 0:
		l.selected = 0
	case l.selected >= size:
		l.selected = size - 1
	}
	l.scrollToSelection(size)
	l.retainWindow(size)
}

// scrollToSelection shifts the window by the minimum amount that keeps
// ScrollMargins rows between the selection and either edge, without letting
// the window run past the end of the data.
func (l *InteractiveList[T, ID]) scrollToSelection(size int) {
	if l.selected < 0 {
		l.offset = 0
		return
	}
	margin := min(l.options.ScrollMargins, max((l.windowSize-1)/2, 0))
	lowest := l.selected + margin + 1 - l.windowSize
	highest := l.selected - margin
	l.offset = max(lowest, min(l.offset, highest))
	l.offset = min(l.offset, max(size-l.windowSize, 0))
	l.offset = max(l.offset, 0)
}

func (l *InteractiveList[T, ID]) retainWindow(size int) {
	start := max(l.offset-l.options.LoadMargins, 0)
	end := min(l.offset+l.windowSize+l.options.LoadMargins, size)
	l.data.retain(start, end, l.request)
}

// MoveCursor moves the selection by delta positions, clamped to the data.
// It is a no-op until the size is known.
func (l *InteractiveList[T, ID]) MoveCursor(delta int) bool {
	if l.State() != StateReady {
		return false
	}
	size, _ := l.data.Size()
	if size == 0 {
		return false
	}
	return l.selectIndex(l.selected + delta)
}

// HandleCommand applies a cursor command.
func (l *InteractiveList[T, ID]) HandleCommand(cmd CursorCommand) bool {
	switch cmd {
	case CursorNext:
		return l.MoveCursor(1)
	case CursorPrevious:
		return l.MoveCursor(-1)
	case CursorPageUp:
		return l.MoveCursor(-l.windowSize)
	case CursorPageDown:
		return l.MoveCursor(l.windowSize)
	case CursorFirst:
		return l.selectIndexIfReady(0)
	case CursorLast:
		size, ok := l.data.Size()
		if !ok {
			return false
		}
		return l.selectIndexIfReady(size - 1)
	default:
		return false
	}
}

func (l *InteractiveList[T, ID]) selectIndexIfReady(index int) bool {
	if l.State() != StateReady {
		return false
	}
	if size, _ := l.data.Size(); size == 0 {
		return false
	}
	return l.selectIndex(index)
}

func (l *InteractiveList[T, ID]) selectIndex(index int) bool {
	size, _ := l.data.Size()
	index = max(min(index, size-1), 0)
	if index == l.selected {
		return false
	}
	l.selected = index
	l.scrollToSelection(size)
	l.retainWindow(size)
	return true
}

// SetWindowSize changes the number of visible rows.
func (l *InteractiveList[T, ID]) SetWindowSize(n int) {
	l.windowSize = max(n, 0)
	if l.State() == StateReady {
		l.revalidate()
	}
}

// Window returns the first visible position and the number of rows.
func (l *InteractiveList[T, ID]) Window() (start, length int) {
	return l.offset, l.windowSize
}

// Size returns the number of items once known.
func (l *InteractiveList[T, ID]) Size() (int, bool) {
	return l.data.Size()
}

// SelectedIndex returns the position of the selection.
func (l *InteractiveList[T, ID]) SelectedIndex() (int, bool) {
	return l.selected, l.selected >= 0
}

// Selection returns the selected item, if it is selected and loaded.
func (l *InteractiveList[T, ID]) Selection() (T, bool) {
	if l.selected < 0 {
		var zero T
		return zero, false
	}
	return l.data.ItemAt(l.selected)
}

// SelectID moves the selection to the loaded item with the given id.
func (l *InteractiveList[T, ID]) SelectID(id ID) bool {
	if l.State() != StateReady {
		return false
	}
	index, ok := l.data.IndexOf(id)
	if !ok {
		return false
	}
	return l.selectIndex(index)
}

// ItemAt returns the item at a logical position.
func (l *InteractiveList[T, ID]) ItemAt(index int) (T, bool) {
	return l.data.ItemAt(index)
}

// Rows returns the visible rows. It reports false until the list is ready.
// The sequence reads the list lazily and can be iterated any number of
// times; it must not be used across mutations of the list.
func (l *InteractiveList[T, ID]) Rows() (iter.Seq[Row[T]], bool) {
	if l.State() != StateReady {
		return nil, false
	}
	return func(yield func(Row[T]) bool) {
		size, _ := l.data.Size()
		end := min(l.offset+l.windowSize, size)
		for i := l.offset; i < end; i++ {
			item, loaded := l.data.ItemAt(i)
			row := Row[T]{Index: i, Item: item, Loaded: loaded, Selected: i == l.selected}
			if !yield(row) {
				return
			}
		}
	}, true
}

// Linear returns the backend if the list is linear.
func (l *InteractiveList[T, ID]) Linear() (*ListData[T, ID], bool) {
	d, ok := l.data.(*ListData[T, ID])
	return d, ok
}

// Paginated returns the backend if the list is paginated.
func (l *InteractiveList[T, ID]) Paginated() (*PaginatedData[T, ID], bool) {
	d, ok := l.data.(*PaginatedData[T, ID])
	return d, ok
}

// AddItem appends item, or replaces the item with the same id. Only linear
// lists accept edits. Adding to an empty list selects the new item.
func (l *InteractiveList[T, ID]) AddItem(item T) bool {
	d, ok := l.Linear()
	if !ok || l.provider == nil {
		return false
	}
	if _, ok := d.Add(item); !ok {
		return false
	}
	l.revalidate()
	return true
}

// ReplaceItem replaces the item with the same id in place.
func (l *InteractiveList[T, ID]) ReplaceItem(item T) bool {
	d, ok := l.Linear()
	if !ok || l.provider == nil {
		return false
	}
	if _, ok := d.Replace(item); !ok {
		return false
	}
	l.revalidate()
	return true
}

// RemoveItem deletes the item with the given id. When it sat before the
// selection the selection moves up with the item it was on; when it was the
// selection, the following item becomes selected.
func (l *InteractiveList[T, ID]) RemoveItem(id ID) bool {
	d, ok := l.Linear()
	if !ok || l.provider == nil {
		return false
	}
	index, ok := d.Remove(id)
	if !ok {
		return false
	}
	if index < l.selected {
		l.selected--
	}
	l.revalidate()
	return true
}

// UpdateItem mutates the loaded item with the given id in place. Unlike the
// structural edits it works for both backends.
func (l *InteractiveList[T, ID]) UpdateItem(id ID, fn func(*T)) bool {
	if l.provider == nil {
		return false
	}
	return l.data.Update(id, fn)
}

// UpdateAll mutates every loaded item in place.
func (l *InteractiveList[T, ID]) UpdateAll(fn func(*T)) {
	if l.provider == nil {
		return
	}
	l.data.UpdateAll(fn)
}
