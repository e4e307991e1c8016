package dataview

// Version is the request counter owned by a single list. Every outbound
// request is tagged with the current value and a response is accepted only
// while that value is still current. Replacing the provider bumps it, which
// turns every in-flight request into a stale one.
type Version struct {
	n uint64
}

// Current returns the current version.
func (v *Version) Current() uint64 {
	return v.n
}

// Bump increments the version and returns the new value.
func (v *Version) Bump() uint64 {
	v.n++
	return v.n
}

// IsCurrent reports whether n is the current version.
func (v *Version) IsCurrent(n uint64) bool {
	return v.n == n
}

// Versioned pairs a payload with the version it was issued under.
type Versioned[T any] struct {
	Version uint64
	Data    T
}

// Tag attaches the current value of v to data.
func Tag[T any](v *Version, data T) Versioned[T] {
	return Versioned[T]{Version: v.n, Data: data}
}

// Respond builds the answer to req: data tagged with the version req was
// issued under. Providers use it so that responses always carry the version
// of the request they answer.
func Respond[T, U any](req Versioned[T], data U) Versioned[U] {
	return Versioned[U]{Version: req.Version, Data: data}
}
