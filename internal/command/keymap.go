package command

import (
	"maps"
	"slices"

	"github.com/runger/casts/internal/dataview"
)

// KeyMap binds key names, as reported by the terminal runtime ("up", "k",
// "pgdown", "ctrl+c"), to commands.
type KeyMap struct {
	bindings map[string]Command
}

// NewKeyMap returns an empty key map.
func NewKeyMap() *KeyMap {
	return &KeyMap{bindings: make(map[string]Command)}
}

// DefaultKeyMap returns the bindings active before any rc file runs.
func DefaultKeyMap() *KeyMap {
	km := NewKeyMap()
	cursor := func(c dataview.CursorCommand) Command {
		return Command{Kind: KindCursor, Cursor: c}
	}

	km.Bind("up", cursor(dataview.CursorPrevious))
	km.Bind("k", cursor(dataview.CursorPrevious))
	km.Bind("down", cursor(dataview.CursorNext))
	km.Bind("j", cursor(dataview.CursorNext))
	km.Bind("pgup", cursor(dataview.CursorPageUp))
	km.Bind("pgdown", cursor(dataview.CursorPageDown))
	km.Bind("home", cursor(dataview.CursorFirst))
	km.Bind("g", cursor(dataview.CursorFirst))
	km.Bind("end", cursor(dataview.CursorLast))
	km.Bind("G", cursor(dataview.CursorLast))
	km.Bind("tab", Command{Kind: KindToggleFocus})
	km.Bind("q", Command{Kind: KindQuit})
	return km
}

// Bind maps key to cmd, replacing any previous binding.
func (k *KeyMap) Bind(key string, cmd Command) {
	k.bindings[key] = cmd
}

// Unbind removes the binding of key. It reports whether one existed.
func (k *KeyMap) Unbind(key string) bool {
	if _, ok := k.bindings[key]; !ok {
		return false
	}
	delete(k.bindings, key)
	return true
}

// Lookup returns the command bound to key.
func (k *KeyMap) Lookup(key string) (Command, bool) {
	cmd, ok := k.bindings[key]
	return cmd, ok
}

// Keys returns the bound keys in sorted order.
func (k *KeyMap) Keys() []string {
	return slices.Sorted(maps.Keys(k.bindings))
}

// Apply updates the key map for a map or unmap command. It reports false
// for any other command.
func (k *KeyMap) Apply(cmd Command) bool {
	switch cmd.Kind {
	case KindMap:
		if cmd.Bound == nil {
			return false
		}
		k.Bind(cmd.Key, *cmd.Bound)
		return true
	case KindUnmap:
		k.Unbind(cmd.Key)
		return true
	default:
		return false
	}
}
