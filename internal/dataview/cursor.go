package dataview

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCursorCommand is returned by ParseCursorCommand for names it does
// not recognise.
var ErrUnknownCursorCommand = errors.New("unknown cursor command")

// CursorCommand is the external vocabulary for moving the selection.
type CursorCommand int

const (
	CursorNext CursorCommand = iota
	CursorPrevious
	CursorPageUp
	CursorPageDown
	CursorFirst
	CursorLast
)

var cursorCommandNames = []string{
	CursorNext:     "next",
	CursorPrevious: "previous",
	CursorPageUp:   "page-up",
	CursorPageDown: "page-down",
	CursorFirst:    "first",
	CursorLast:     "last",
}

func (c CursorCommand) String() string {
	if c >= 0 && int(c) < len(cursorCommandNames) {
		return cursorCommandNames[c]
	}
	return fmt.Sprintf("CursorCommand(%d)", int(c))
}

// ParseCursorCommand parses the textual form of a cursor command
// ("next", "page-up", ...). Matching is case-insensitive.
func ParseCursorCommand(s string) (CursorCommand, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range cursorCommandNames {
		if n == name {
			return CursorCommand(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCursorCommand, s)
}
