// Package command parses the browser's command language. The same grammar
// is used by the ':' prompt, key bindings and rc files:
//
//	line next|previous|page-up|page-down|first|last
//	toggle-focus
//	quit
//	map <key> <command...>
//	unmap <key>
//	exec <path>
//	add-feed <title> <source>
//	rename-feed <title>
//	delete-feed
//	mark new|started|played
package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/shlex"

	"github.com/runger/casts/internal/dataview"
	"github.com/runger/casts/internal/library"
)

var (
	// ErrEmpty is returned for a line without tokens.
	ErrEmpty = errors.New("empty command")

	// ErrUnknownCommand is returned for an unrecognised command name.
	ErrUnknownCommand = errors.New("unknown command")
)

// Kind identifies a command.
type Kind int

const (
	KindCursor Kind = iota
	KindToggleFocus
	KindQuit
	KindMap
	KindUnmap
	KindExec
	KindAddFeed
	KindRenameFeed
	KindDeleteFeed
	KindMark
)

var kindNames = map[string]Kind{
	"line":         KindCursor,
	"toggle-focus": KindToggleFocus,
	"quit":         KindQuit,
	"q":            KindQuit,
	"map":          KindMap,
	"unmap":        KindUnmap,
	"exec":         KindExec,
	"add-feed":     KindAddFeed,
	"rename-feed":  KindRenameFeed,
	"delete-feed":  KindDeleteFeed,
	"mark":         KindMark,
}

// Command is a parsed command. Only the fields of its Kind are set.
type Command struct {
	Kind Kind

	Cursor dataview.CursorCommand // KindCursor

	Key   string   // KindMap, KindUnmap
	Bound *Command // KindMap

	Path string // KindExec

	Title  string // KindAddFeed, KindRenameFeed
	Source string // KindAddFeed

	Status library.EpisodeStatus // KindMark
}

// Parse tokenises line with shell quoting rules and parses it.
func Parse(line string) (Command, error) {
	tokens, err := shlex.Split(line)
	if err != nil {
		return Command{}, fmt.Errorf("tokenise %q: %w", line, err)
	}
	return ParseTokens(tokens)
}

// ParseTokens parses an already tokenised command.
func ParseTokens(tokens []string) (Command, error) {
	if len(tokens) == 0 {
		return Command{}, ErrEmpty
	}

	name, args := tokens[0], tokens[1:]
	kind, ok := kindNames[name]
	if !ok {
		return Command{}, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}

	cmd := Command{Kind: kind}
	switch kind {
	case KindCursor:
		if err := wantArgs(name, args, 1); err != nil {
			return Command{}, err
		}
		c, err := dataview.ParseCursorCommand(args[0])
		if err != nil {
			return Command{}, err
		}
		cmd.Cursor = c

	case KindToggleFocus, KindQuit, KindDeleteFeed:
		if err := wantArgs(name, args, 0); err != nil {
			return Command{}, err
		}

	case KindMap:
		if len(args) < 2 {
			return Command{}, fmt.Errorf("map: want <key> <command...>")
		}
		bound, err := ParseTokens(args[1:])
		if err != nil {
			return Command{}, fmt.Errorf("map %s: %w", args[0], err)
		}
		if bound.Kind == KindMap {
			return Command{}, fmt.Errorf("map %s: cannot bind map", args[0])
		}
		cmd.Key = args[0]
		cmd.Bound = &bound

	case KindUnmap:
		if err := wantArgs(name, args, 1); err != nil {
			return Command{}, err
		}
		cmd.Key = args[0]

	case KindExec:
		if err := wantArgs(name, args, 1); err != nil {
			return Command{}, err
		}
		cmd.Path = args[0]

	case KindAddFeed:
		if err := wantArgs(name, args, 2); err != nil {
			return Command{}, err
		}
		cmd.Title, cmd.Source = args[0], args[1]

	case KindRenameFeed:
		if len(args) == 0 {
			return Command{}, fmt.Errorf("rename-feed: want <title>")
		}
		cmd.Title = strings.Join(args, " ")

	case KindMark:
		if err := wantArgs(name, args, 1); err != nil {
			return Command{}, err
		}
		status, err := library.ParseEpisodeStatus(args[0])
		if err != nil {
			return Command{}, err
		}
		cmd.Status = status
	}

	return cmd, nil
}

func wantArgs(name string, args []string, n int) error {
	if len(args) != n {
		return fmt.Errorf("%s: want %d argument(s), got %d", name, n, len(args))
	}
	return nil
}

// String renders the command in a form Parse accepts.
func (c Command) String() string {
	switch c.Kind {
	case KindCursor:
		return "line " + c.Cursor.String()
	case KindToggleFocus:
		return "toggle-focus"
	case KindQuit:
		return "quit"
	case KindMap:
		bound := ""
		if c.Bound != nil {
			bound = c.Bound.String()
		}
		return "map " + quote(c.Key) + " " + bound
	case KindUnmap:
		return "unmap " + quote(c.Key)
	case KindExec:
		return "exec " + quote(c.Path)
	case KindAddFeed:
		return "add-feed " + quote(c.Title) + " " + quote(c.Source)
	case KindRenameFeed:
		return "rename-feed " + quote(c.Title)
	case KindDeleteFeed:
		return "delete-feed"
	case KindMark:
		return "mark " + string(c.Status)
	default:
		return fmt.Sprintf("Command(%d)", int(c.Kind))
	}
}

func quote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\n'\"\\#") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}
