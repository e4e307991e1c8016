package dataview

// Identifiable is implemented by every item a list can hold. The id must be
// stable across reloads: edits and selection restoring look items up by it.
type Identifiable[ID comparable] interface {
	ID() ID
}
