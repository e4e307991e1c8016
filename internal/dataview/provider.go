package dataview

import "fmt"

// DataProvider is the outbound half of the data boundary. A list calls
// Request for every fetch it needs; the provider performs the fetch
// asynchronously and hands the answer back through InteractiveList.HandleData,
// tagged with the same version (see Respond).
//
// Request must not block and must not call back into the list.
type DataProvider interface {
	Request(req Versioned[Request])
}

// ProviderFunc adapts a plain function to DataProvider.
type ProviderFunc func(req Versioned[Request])

// Request implements DataProvider.
func (f ProviderFunc) Request(req Versioned[Request]) {
	f(req)
}

// RequestKind identifies what a Request asks for.
type RequestKind int

const (
	RequestSize     RequestKind = iota // Total number of items
	RequestPage                        // One page of items
	RequestFullLoad                    // The complete item sequence
)

func (k RequestKind) String() string {
	switch k {
	case RequestSize:
		return "size"
	case RequestPage:
		return "page"
	case RequestFullLoad:
		return "full-load"
	default:
		return fmt.Sprintf("RequestKind(%d)", int(k))
	}
}

// Page addresses one fixed-size chunk of the logical item space.
type Page struct {
	Index int
	Size  int
}

// Offset returns the first logical position covered by the page.
func (p Page) Offset() int {
	return p.Index * p.Size
}

// Request is a fetch emitted by a list. Page is only meaningful for
// RequestPage.
type Request struct {
	Kind RequestKind
	Page Page
}

// SizeRequest asks for the total item count.
func SizeRequest() Request {
	return Request{Kind: RequestSize}
}

// PageRequest asks for size items starting at index*size.
func PageRequest(index, size int) Request {
	return Request{Kind: RequestPage, Page: Page{Index: index, Size: size}}
}

// FullLoadRequest asks for the whole item sequence.
func FullLoadRequest() Request {
	return Request{Kind: RequestFullLoad}
}

func (r Request) String() string {
	if r.Kind == RequestPage {
		return fmt.Sprintf("page(%d, %d)", r.Page.Index, r.Page.Size)
	}
	return r.Kind.String()
}

// MessageKind identifies what a Message carries.
type MessageKind int

const (
	MessageSize MessageKind = iota
	MessagePage
	MessageFullLoad
)

// Message is a response delivered to a list. It mirrors Request:
// Size carries Total, Page carries Index and Items, FullLoad carries Items.
type Message[T any] struct {
	Kind  MessageKind
	Total int
	Index int
	Items []T
}

// SizeMessage answers a RequestSize.
func SizeMessage[T any](total int) Message[T] {
	return Message[T]{Kind: MessageSize, Total: total}
}

// PageMessage answers a RequestPage for the page at index.
func PageMessage[T any](index int, items []T) Message[T] {
	return Message[T]{Kind: MessagePage, Index: index, Items: items}
}

// FullLoadMessage answers a RequestFullLoad.
func FullLoadMessage[T any](items []T) Message[T] {
	return Message[T]{Kind: MessageFullLoad, Items: items}
}
