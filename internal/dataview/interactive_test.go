package dataview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Test fixtures ---

var testOptions = Options{
	PageSize:      4,
	LoadMargins:   1,
	ScrollMargins: 1,
}

// mockProvider records every emitted request in arrival order.
type mockProvider struct {
	requests []Versioned[Request]
}

func (p *mockProvider) Request(req Versioned[Request]) {
	p.requests = append(p.requests, req)
}

func (p *mockProvider) pop(t *testing.T) Versioned[Request] {
	t.Helper()
	require.NotEmpty(t, p.requests, "expected an outstanding request")
	req := p.requests[0]
	p.requests = p.requests[1:]
	return req
}

type simpleItem int

func (s simpleItem) ID() int { return int(s) }

type idItem struct {
	id   int
	name string
}

func (i idItem) ID() int { return i.id }

// cell is a Row without its index, which keeps expectations short.
type cell[T any] struct {
	item     T
	loaded   bool
	selected bool
}

func item[T any](v T) cell[T]    { return cell[T]{item: v, loaded: true} }
func selItem[T any](v T) cell[T] { return cell[T]{item: v, loaded: true, selected: true} }
func noItem[T any]() cell[T]     { return cell[T]{} }
func noItemSel[T any]() cell[T]  { return cell[T]{selected: true} }

func collect[T Identifiable[ID], ID comparable](t *testing.T, l *InteractiveList[T, ID]) []cell[T] {
	t.Helper()
	rows, ok := l.Rows()
	require.True(t, ok, "list is not ready")
	cells := []cell[T]{}
	for row := range rows {
		cells = append(cells, cell[T]{item: row.Item, loaded: row.Loaded, selected: row.Selected})
	}
	return cells
}

func assertRows[T Identifiable[ID], ID comparable](t *testing.T, l *InteractiveList[T, ID], expected ...cell[T]) {
	t.Helper()
	if expected == nil {
		expected = []cell[T]{}
	}
	assert.Equal(t, expected, collect(t, l))
}

func simpleItems(values ...int) []simpleItem {
	items := make([]simpleItem, len(values))
	for i, v := range values {
		items[i] = simpleItem(v)
	}
	return items
}

func repeated(value, n int) []simpleItem {
	items := make([]simpleItem, n)
	for i := range items {
		items[i] = simpleItem(value)
	}
	return items
}

// answerPages answers every outstanding page request with a page filled with
// its own index.
func answerPages(t *testing.T, l *InteractiveList[simpleItem, int], p *mockProvider) {
	t.Helper()
	for len(p.requests) > 0 {
		req := p.pop(t)
		require.Equal(t, RequestPage, req.Data.Kind)
		page := req.Data.Page
		l.HandleData(Respond(req, PageMessage(page.Index, repeated(page.Index, page.Size))))
	}
}

// --- Linear list ---

func TestLinear_ScrollingThroughData(t *testing.T) {
	t.Parallel()

	l := NewLinearList[simpleItem, int](4, WithOptions(testOptions))
	_, ok := l.Rows()
	assert.False(t, ok)

	p := &mockProvider{}
	l.SetProvider(p)
	_, ok = l.Rows()
	assert.False(t, ok)

	req := p.pop(t)
	assert.Equal(t, RequestFullLoad, req.Data.Kind)
	assert.Empty(t, p.requests)

	require.True(t, l.HandleData(Respond(req, FullLoadMessage(simpleItems(1, 2, 3, 4, 5, 6)))))

	forward := [][]cell[simpleItem]{
		{selItem[simpleItem](1), item[simpleItem](2), item[simpleItem](3), item[simpleItem](4)},
		{item[simpleItem](1), selItem[simpleItem](2), item[simpleItem](3), item[simpleItem](4)},
		{item[simpleItem](1), item[simpleItem](2), selItem[simpleItem](3), item[simpleItem](4)},
		{item[simpleItem](2), item[simpleItem](3), selItem[simpleItem](4), item[simpleItem](5)},
		{item[simpleItem](3), item[simpleItem](4), selItem[simpleItem](5), item[simpleItem](6)},
		{item[simpleItem](3), item[simpleItem](4), item[simpleItem](5), selItem[simpleItem](6)},
		{item[simpleItem](3), item[simpleItem](4), item[simpleItem](5), selItem[simpleItem](6)},
	}
	for _, expected := range forward {
		assertRows(t, l, expected...)
		l.MoveCursor(1)
	}
	sel, ok := l.Selection()
	require.True(t, ok)
	assert.Equal(t, simpleItem(6), sel)

	backward := [][]cell[simpleItem]{
		{item[simpleItem](3), item[simpleItem](4), item[simpleItem](5), selItem[simpleItem](6)},
		{item[simpleItem](3), item[simpleItem](4), selItem[simpleItem](5), item[simpleItem](6)},
		{item[simpleItem](3), selItem[simpleItem](4), item[simpleItem](5), item[simpleItem](6)},
		{item[simpleItem](2), selItem[simpleItem](3), item[simpleItem](4), item[simpleItem](5)},
		{item[simpleItem](1), selItem[simpleItem](2), item[simpleItem](3), item[simpleItem](4)},
		{selItem[simpleItem](1), item[simpleItem](2), item[simpleItem](3), item[simpleItem](4)},
		{selItem[simpleItem](1), item[simpleItem](2), item[simpleItem](3), item[simpleItem](4)},
	}
	for _, expected := range backward {
		assertRows(t, l, expected...)
		l.MoveCursor(-1)
	}
	sel, ok = l.Selection()
	require.True(t, ok)
	assert.Equal(t, simpleItem(1), sel)
}

func TestLinear_FitsOnScreen(t *testing.T) {
	t.Parallel()

	l := NewLinearList[simpleItem, int](4, WithOptions(testOptions))
	p := &mockProvider{}
	l.SetProvider(p)
	req := p.pop(t)
	l.HandleData(Respond(req, FullLoadMessage(simpleItems(1, 2, 3))))

	i, s := item[simpleItem], selItem[simpleItem]
	forward := [][]cell[simpleItem]{
		{s(1), i(2), i(3)},
		{i(1), s(2), i(3)},
		{i(1), i(2), s(3)},
		{i(1), i(2), s(3)},
	}
	for _, expected := range forward {
		assertRows(t, l, expected...)
		l.MoveCursor(1)
	}
	backward := [][]cell[simpleItem]{
		{i(1), i(2), s(3)},
		{i(1), s(2), i(3)},
		{s(1), i(2), i(3)},
		{s(1), i(2), i(3)},
	}
	for _, expected := range backward {
		assertRows(t, l, expected...)
		l.MoveCursor(-1)
	}
}

func TestLinear_CursorCommands(t *testing.T) {
	t.Parallel()

	l := NewLinearList[simpleItem, int](4, WithOptions(testOptions))
	p := &mockProvider{}
	l.SetProvider(p)
	l.HandleData(Respond(p.pop(t), FullLoadMessage(simpleItems(0, 1, 2, 3, 4, 5, 6, 7, 8, 9))))

	tests := []struct {
		cmd      CursorCommand
		selected int
		start    int
	}{
		{CursorLast, 9, 6},
		{CursorPrevious, 8, 6},
		{CursorPageUp, 4, 3},
		{CursorPageUp, 0, 0},
		{CursorPageDown, 4, 2},
		{CursorNext, 5, 3},
		{CursorFirst, 0, 0},
		{CursorPrevious, 0, 0},
	}
	for _, tt := range tests {
		l.HandleCommand(tt.cmd)
		idx, ok := l.SelectedIndex()
		require.True(t, ok)
		assert.Equal(t, tt.selected, idx, "selection after %s", tt.cmd)
		start, length := l.Window()
		assert.Equal(t, tt.start, start, "window start after %s", tt.cmd)
		assert.Equal(t, 4, length)
	}
}

func TestLinear_WindowInvariantHolds(t *testing.T) {
	t.Parallel()

	const size = 37
	values := make([]int, size)
	for i := range values {
		values[i] = i
	}

	for _, window := range []int{1, 2, 3, 5, 8} {
		l := NewLinearList[simpleItem, int](window, WithOptions(Options{PageSize: 4, LoadMargins: 2, ScrollMargins: 3}))
		p := &mockProvider{}
		l.SetProvider(p)
		l.HandleData(Respond(p.pop(t), FullLoadMessage(simpleItems(values...))))

		deltas := []int{1, 1, 5, 13, -2, 40, -7, -100, 3, window, -window}
		for _, d := range deltas {
			l.MoveCursor(d)
			sel, ok := l.SelectedIndex()
			require.True(t, ok)
			start, length := l.Window()
			assert.Equal(t, window, length)
			assert.GreaterOrEqual(t, sel, start, "window %d delta %d", window, d)
			assert.Less(t, sel, start+length, "window %d delta %d", window, d)
			assert.LessOrEqual(t, start, max(size-window, 0))
		}
	}
}

func TestLinear_EditingData(t *testing.T) {
	t.Parallel()

	l := NewLinearList[idItem, int](10, WithOptions(testOptions))
	p := &mockProvider{}
	l.SetProvider(p)
	l.HandleData(Respond(p.pop(t), FullLoadMessage([]idItem{
		{5, "five"}, {3, "three"}, {7, "seven"}, {1, "one"},
	})))

	assert.True(t, l.AddItem(idItem{8, "eight"}))
	assertRows(t, l,
		selItem(idItem{5, "five"}),
		item(idItem{3, "three"}),
		item(idItem{7, "seven"}),
		item(idItem{1, "one"}),
		item(idItem{8, "eight"}),
	)

	assert.True(t, l.ReplaceItem(idItem{3, "three v2"}))
	assertRows(t, l,
		selItem(idItem{5, "five"}),
		item(idItem{3, "three v2"}),
		item(idItem{7, "seven"}),
		item(idItem{1, "one"}),
		item(idItem{8, "eight"}),
	)

	assert.True(t, l.RemoveItem(7))
	assertRows(t, l,
		selItem(idItem{5, "five"}),
		item(idItem{3, "three v2"}),
		item(idItem{1, "one"}),
		item(idItem{8, "eight"}),
	)

	// Adding an existing id behaves as replace.
	assert.True(t, l.AddItem(idItem{1, "one v2"}))
	assertRows(t, l,
		selItem(idItem{5, "five"}),
		item(idItem{3, "three v2"}),
		item(idItem{1, "one v2"}),
		item(idItem{8, "eight"}),
	)

	assert.False(t, l.RemoveItem(42))
	assert.False(t, l.ReplaceItem(idItem{42, "nope"}))

	assert.True(t, l.UpdateItem(8, func(it *idItem) { it.name = "EIGHT" }))
	got, ok := l.ItemAt(3)
	require.True(t, ok)
	assert.Equal(t, "EIGHT", got.name)
}

func TestLinear_DeletingItems(t *testing.T) {
	t.Parallel()

	l := NewLinearList[idItem, int](10, WithOptions(testOptions))
	p := &mockProvider{}
	l.SetProvider(p)
	l.HandleData(Respond(p.pop(t), FullLoadMessage([]idItem{
		{1, "a"}, {2, "b"}, {3, "c"}, {4, "d"}, {5, "e"}, {6, "f"}, {7, "g"},
	})))
	l.MoveCursor(3)

	assertRows(t, l,
		item(idItem{1, "a"}), item(idItem{2, "b"}), item(idItem{3, "c"}),
		selItem(idItem{4, "d"}),
		item(idItem{5, "e"}), item(idItem{6, "f"}), item(idItem{7, "g"}),
	)

	l.RemoveItem(6)
	assertRows(t, l,
		item(idItem{1, "a"}), item(idItem{2, "b"}), item(idItem{3, "c"}),
		selItem(idItem{4, "d"}),
		item(idItem{5, "e"}), item(idItem{7, "g"}),
	)

	l.RemoveItem(3)
	assertRows(t, l,
		item(idItem{1, "a"}), item(idItem{2, "b"}),
		selItem(idItem{4, "d"}),
		item(idItem{5, "e"}), item(idItem{7, "g"}),
	)

	l.RemoveItem(4)
	assertRows(t, l,
		item(idItem{1, "a"}), item(idItem{2, "b"}),
		selItem(idItem{5, "e"}),
		item(idItem{7, "g"}),
	)

	l.RemoveItem(7)
	assertRows(t, l,
		item(idItem{1, "a"}), item(idItem{2, "b"}),
		selItem(idItem{5, "e"}),
	)

	l.RemoveItem(5)
	assertRows(t, l, item(idItem{1, "a"}), selItem(idItem{2, "b"}))

	l.RemoveItem(2)
	assertRows(t, l, selItem(idItem{1, "a"}))

	l.RemoveItem(1)
	assertRows[idItem, int](t, l)
	_, ok := l.SelectedIndex()
	assert.False(t, ok)
	assert.Equal(t, StateReady, l.State())

	l.AddItem(idItem{8, "h"})
	assertRows(t, l, selItem(idItem{8, "h"}))
}

func TestLinear_EditsBeforeLoadAreNoops(t *testing.T) {
	t.Parallel()

	l := NewLinearList[idItem, int](4)
	assert.False(t, l.AddItem(idItem{1, "a"}))
	assert.False(t, l.MoveCursor(1))

	p := &mockProvider{}
	l.SetProvider(p)
	assert.Equal(t, StateAwaiting, l.State())
	assert.False(t, l.AddItem(idItem{1, "a"}))
	assert.False(t, l.RemoveItem(1))
	assert.False(t, l.ReplaceItem(idItem{1, "a"}))
	assert.False(t, l.HandleCommand(CursorLast))

	_, ok := l.Selection()
	assert.False(t, ok)
	size, ok := l.Size()
	assert.False(t, ok)
	assert.Zero(t, size)
}

func TestLinear_SelectID(t *testing.T) {
	t.Parallel()

	l := NewLinearList[idItem, int](3, WithOptions(testOptions))
	p := &mockProvider{}
	l.SetProvider(p)
	l.HandleData(Respond(p.pop(t), FullLoadMessage([]idItem{
		{10, "a"}, {20, "b"}, {30, "c"}, {40, "d"}, {50, "e"},
	})))

	assert.True(t, l.SelectID(50))
	sel, ok := l.Selection()
	require.True(t, ok)
	assert.Equal(t, 50, sel.id)
	start, _ := l.Window()
	assert.Equal(t, 2, start)

	assert.False(t, l.SelectID(99))
	assert.False(t, l.SelectID(50), "selecting the current item changes nothing")
}

// --- Versioning ---

func TestVersioning_StaleResponsesAreDropped(t *testing.T) {
	t.Parallel()

	l := NewLinearList[simpleItem, int](4, WithOptions(testOptions))
	first := &mockProvider{}
	l.SetProvider(first)
	stale := first.pop(t)

	second := &mockProvider{}
	l.SetProvider(second)
	current := second.pop(t)
	require.NotEqual(t, stale.Version, current.Version)

	assert.False(t, l.HandleData(Respond(stale, FullLoadMessage(simpleItems(9, 9, 9)))))
	assert.Equal(t, StateAwaiting, l.State())

	assert.True(t, l.HandleData(Respond(current, FullLoadMessage(simpleItems(1, 2)))))
	assertRows(t, l, selItem[simpleItem](1), item[simpleItem](2))

	// A late answer to the old provider still changes nothing.
	assert.False(t, l.HandleData(Respond(stale, FullLoadMessage(simpleItems(9, 9, 9)))))
	assertRows(t, l, selItem[simpleItem](1), item[simpleItem](2))
}

func TestVersioning_ReattachReturnsToAwaiting(t *testing.T) {
	t.Parallel()

	l := NewPaginatedList[simpleItem, int](4, WithOptions(testOptions))
	assert.Equal(t, StateUnattached, l.State())

	p := &mockProvider{}
	l.SetProvider(p)
	assert.Equal(t, StateAwaiting, l.State())
	l.HandleData(Respond(p.pop(t), SizeMessage[simpleItem](10)))
	assert.Equal(t, StateReady, l.State())

	l.SetProvider(p)
	assert.Equal(t, StateAwaiting, l.State())
	_, ok := l.Rows()
	assert.False(t, ok)

	l.SetProvider(nil)
	assert.Equal(t, StateUnattached, l.State())
}

func TestVersion_Token(t *testing.T) {
	t.Parallel()

	var v Version
	assert.Equal(t, uint64(0), v.Current())
	tagged := Tag(&v, "payload")
	assert.True(t, v.IsCurrent(tagged.Version))

	assert.Equal(t, uint64(1), v.Bump())
	assert.False(t, v.IsCurrent(tagged.Version))

	reply := Respond(tagged, 42)
	assert.Equal(t, tagged.Version, reply.Version)
	assert.Equal(t, 42, reply.Data)
}

// --- Paginated list ---

func TestPaginated_Initializing(t *testing.T) {
	t.Parallel()

	l := NewPaginatedList[simpleItem, int](6, WithOptions(testOptions))
	_, ok := l.Rows()
	assert.False(t, ok)

	p := &mockProvider{}
	l.SetProvider(p)
	_, ok = l.Rows()
	assert.False(t, ok)

	req := p.pop(t)
	assert.Equal(t, SizeRequest(), req.Data)
	l.HandleData(Respond(req, SizeMessage[simpleItem](20)))

	assertRows(t, l,
		noItemSel[simpleItem](), noItem[simpleItem](), noItem[simpleItem](),
		noItem[simpleItem](), noItem[simpleItem](), noItem[simpleItem](),
	)

	assert.Equal(t, PageRequest(0, 4), p.pop(t).Data)
	assert.Equal(t, PageRequest(1, 4), p.pop(t).Data)
	assert.Empty(t, p.requests)

	l.HandleData(Respond(req, PageMessage(1, simpleItems(4, 5, 6, 7))))
	assertRows(t, l,
		noItemSel[simpleItem](), noItem[simpleItem](), noItem[simpleItem](),
		noItem[simpleItem](), item[simpleItem](4), item[simpleItem](5),
	)

	l.HandleData(Respond(req, PageMessage(0, simpleItems(0, 1, 2, 3))))
	assertRows(t, l,
		selItem[simpleItem](0), item[simpleItem](1), item[simpleItem](2),
		item[simpleItem](3), item[simpleItem](4), item[simpleItem](5),
	)

	l.MoveCursor(6)
	assertRows(t, l,
		item[simpleItem](2), item[simpleItem](3), item[simpleItem](4),
		item[simpleItem](5), selItem[simpleItem](6), item[simpleItem](7),
	)
	assert.Equal(t, PageRequest(2, 4), p.pop(t).Data)

	l.MoveCursor(1)
	assert.Empty(t, p.requests)
	assertRows(t, l,
		item[simpleItem](3), item[simpleItem](4), item[simpleItem](5),
		item[simpleItem](6), selItem[simpleItem](7), noItem[simpleItem](),
	)
}

func TestPaginated_CreatingAndDroppingPages(t *testing.T) {
	t.Parallel()

	options := testOptions
	options.PageSize = 3
	l := NewPaginatedList[simpleItem, int](4, WithOptions(options))

	p := &mockProvider{}
	l.SetProvider(p)
	_, ok := l.Rows()
	assert.False(t, ok)

	req := p.pop(t)
	assert.Equal(t, RequestSize, req.Data.Kind)
	l.HandleData(Respond(req, SizeMessage[simpleItem](100)))

	data, ok := l.Paginated()
	require.True(t, ok)

	type step struct {
		first, count int
		rows         []cell[simpleItem]
	}
	i, s := item[simpleItem], selItem[simpleItem]

	forward := []step{
		{0, 2, []cell[simpleItem]{s(0), i(0), i(0), i(1)}},
		{0, 2, []cell[simpleItem]{i(0), s(0), i(0), i(1)}},
		{0, 2, []cell[simpleItem]{i(0), i(0), s(0), i(1)}},
		{0, 2, []cell[simpleItem]{i(0), i(0), s(1), i(1)}},
		{0, 3, []cell[simpleItem]{i(0), i(1), s(1), i(1)}},
		{0, 3, []cell[simpleItem]{i(1), i(1), s(1), i(2)}},
		{1, 2, []cell[simpleItem]{i(1), i(1), s(2), i(2)}},
		{1, 3, []cell[simpleItem]{i(1), i(2), s(2), i(2)}},
		{1, 3, []cell[simpleItem]{i(2), i(2), s(2), i(3)}},
		{2, 2, []cell[simpleItem]{i(2), i(2), s(3), i(3)}},
	}
	for n, st := range forward {
		answerPages(t, l, p)
		assertRows(t, l, st.rows...)
		first, count := data.PagesRange()
		assert.Equal(t, st.first, first, "forward step %d", n)
		assert.Equal(t, st.count, count, "forward step %d", n)
		l.MoveCursor(1)
	}

	backward := []step{
		{2, 3, []cell[simpleItem]{i(2), i(3), s(3), i(3)}},
		{2, 3, []cell[simpleItem]{i(2), s(3), i(3), i(3)}},
		{2, 2, []cell[simpleItem]{i(2), s(2), i(3), i(3)}},
		{1, 3, []cell[simpleItem]{i(2), s(2), i(2), i(3)}},
		{1, 3, []cell[simpleItem]{i(1), s(2), i(2), i(2)}},
		{1, 2, []cell[simpleItem]{i(1), s(1), i(2), i(2)}},
		{0, 3, []cell[simpleItem]{i(1), s(1), i(1), i(2)}},
		{0, 3, []cell[simpleItem]{i(0), s(1), i(1), i(1)}},
		{0, 2, []cell[simpleItem]{i(0), s(0), i(1), i(1)}},
		{0, 2, []cell[simpleItem]{i(0), s(0), i(0), i(1)}},
		{0, 2, []cell[simpleItem]{s(0), i(0), i(0), i(1)}},
	}
	for n, st := range backward {
		answerPages(t, l, p)
		assertRows(t, l, st.rows...)
		first, count := data.PagesRange()
		assert.Equal(t, st.first, first, "backward step %d", n)
		assert.Equal(t, st.count, count, "backward step %d", n)
		l.MoveCursor(-1)
	}
}

func TestPaginated_IdempotentPageDelivery(t *testing.T) {
	t.Parallel()

	l := NewPaginatedList[simpleItem, int](6, WithOptions(testOptions))
	p := &mockProvider{}
	l.SetProvider(p)
	sizeReq := p.pop(t)
	l.HandleData(Respond(sizeReq, SizeMessage[simpleItem](20)))

	page0 := p.pop(t)
	page1 := p.pop(t)
	l.HandleData(Respond(page0, PageMessage(0, simpleItems(0, 1, 2, 3))))
	l.HandleData(Respond(page1, PageMessage(1, simpleItems(4, 5, 6, 7))))
	once := collect(t, l)

	l.HandleData(Respond(page1, PageMessage(1, simpleItems(4, 5, 6, 7))))
	l.HandleData(Respond(page0, PageMessage(0, simpleItems(0, 1, 2, 3))))
	assert.Equal(t, once, collect(t, l))
	assert.Empty(t, p.requests)
}

func TestPaginated_NoRedundantRequests(t *testing.T) {
	t.Parallel()

	l := NewPaginatedList[simpleItem, int](4, WithOptions(Options{PageSize: 3, LoadMargins: 2, ScrollMargins: 1}))
	p := &mockProvider{}
	l.SetProvider(p)
	l.HandleData(Respond(p.pop(t), SizeMessage[simpleItem](50)))

	// Walk down and back without ever answering: every page index may be
	// requested at most once per stay inside the retained range.
	seen := map[int]int{}
	record := func() {
		for _, req := range p.requests {
			seen[req.Data.Page.Index]++
		}
		p.requests = nil
	}
	record()
	for range 3 {
		l.MoveCursor(1)
		record()
		l.MoveCursor(-1)
		record()
	}
	for index, n := range seen {
		assert.Equal(t, 1, n, "page %d requested %d times", index, n)
	}

	data, ok := l.Paginated()
	require.True(t, ok)
	first, count := data.PagesRange()
	assert.Empty(t, data.Retain(first*3, (first+count)*3))
}

func TestPaginated_LatePageForEvictedIndexIsDiscarded(t *testing.T) {
	t.Parallel()

	l := NewPaginatedList[simpleItem, int](4, WithOptions(Options{PageSize: 3, LoadMargins: 1, ScrollMargins: 1}))
	p := &mockProvider{}
	l.SetProvider(p)
	l.HandleData(Respond(p.pop(t), SizeMessage[simpleItem](100)))
	page0 := p.pop(t)
	answerPages(t, l, p)

	l.HandleCommand(CursorLast)
	answerPages(t, l, p)

	data, ok := l.Paginated()
	require.True(t, ok)
	assert.False(t, data.IsPageLoaded(0))
	assert.False(t, data.IsPageRequested(0))

	assert.False(t, l.HandleData(Respond(page0, PageMessage(0, repeated(0, 3)))))
	assert.False(t, data.IsPageLoaded(0))
	assertRows(t, l,
		item[simpleItem](32), item[simpleItem](32), item[simpleItem](32), selItem[simpleItem](33),
	)
}

func TestPaginated_ShortLastPage(t *testing.T) {
	t.Parallel()

	l := NewPaginatedList[simpleItem, int](4, WithOptions(testOptions))
	p := &mockProvider{}
	l.SetProvider(p)
	l.HandleData(Respond(p.pop(t), SizeMessage[simpleItem](6)))
	l.HandleData(Respond(p.pop(t), PageMessage(0, simpleItems(0, 1, 2, 3))))
	last := p.pop(t)
	assert.Equal(t, PageRequest(1, 4), last.Data)

	l.HandleCommand(CursorLast)
	l.HandleData(Respond(last, PageMessage(1, simpleItems(4))))
	assertRows(t, l,
		item[simpleItem](2), item[simpleItem](3), item[simpleItem](4), noItemSel[simpleItem](),
	)
	_, ok := l.Selection()
	assert.False(t, ok)
}

func TestPaginated_EmptyResult(t *testing.T) {
	t.Parallel()

	l := NewPaginatedList[simpleItem, int](4, WithOptions(testOptions))
	p := &mockProvider{}
	l.SetProvider(p)
	l.HandleData(Respond(p.pop(t), SizeMessage[simpleItem](0)))

	assert.Equal(t, StateReady, l.State())
	assert.Empty(t, p.requests)
	assertRows[simpleItem, int](t, l)
	assert.False(t, l.MoveCursor(1))
}

func TestPaginated_SizeUpdateClampsSelection(t *testing.T) {
	t.Parallel()

	l := NewPaginatedList[simpleItem, int](4, WithOptions(testOptions))
	p := &mockProvider{}
	l.SetProvider(p)
	sizeReq := p.pop(t)
	l.HandleData(Respond(sizeReq, SizeMessage[simpleItem](40)))
	l.HandleCommand(CursorLast)
	p.requests = nil

	assert.True(t, l.HandleData(Respond(sizeReq, SizeMessage[simpleItem](10))))
	idx, ok := l.SelectedIndex()
	require.True(t, ok)
	assert.Equal(t, 9, idx)
	start, _ := l.Window()
	assert.Equal(t, 6, start)
	assert.Equal(t, PageRequest(1, 4), p.pop(t).Data)
	assert.Equal(t, PageRequest(2, 4), p.pop(t).Data)

	assert.False(t, l.HandleData(Respond(sizeReq, SizeMessage[simpleItem](10))), "unchanged size")
}

func TestPaginated_IsReadOnlyForStructuralEdits(t *testing.T) {
	t.Parallel()

	l := NewPaginatedList[idItem, int](4, WithOptions(testOptions))
	p := &mockProvider{}
	l.SetProvider(p)
	l.HandleData(Respond(p.pop(t), SizeMessage[idItem](4)))
	l.HandleData(Respond(p.pop(t), PageMessage(0, []idItem{{1, "a"}, {2, "b"}, {3, "c"}, {4, "d"}})))

	assert.False(t, l.AddItem(idItem{5, "e"}))
	assert.False(t, l.RemoveItem(1))
	assert.False(t, l.ReplaceItem(idItem{1, "A"}))

	assert.True(t, l.UpdateItem(3, func(it *idItem) { it.name = "C" }))
	got, ok := l.ItemAt(2)
	require.True(t, ok)
	assert.Equal(t, "C", got.name)

	assert.True(t, l.SelectID(4))
	idx, _ := l.SelectedIndex()
	assert.Equal(t, 3, idx)
}

func TestWindowResize(t *testing.T) {
	t.Parallel()

	l := NewPaginatedList[simpleItem, int](4, WithOptions(testOptions))
	p := &mockProvider{}
	l.SetProvider(p)
	l.HandleData(Respond(p.pop(t), SizeMessage[simpleItem](20)))
	answerPages(t, l, p)

	l.SetWindowSize(10)
	_, length := l.Window()
	assert.Equal(t, 10, length)
	// Window [0,10) plus one row of margin needs pages 0..2.
	assert.Equal(t, PageRequest(2, 4), p.pop(t).Data)
	assert.Empty(t, p.requests)

	rows, ok := l.Rows()
	require.True(t, ok)
	n := 0
	for range rows {
		n++
	}
	assert.Equal(t, 10, n)
}
