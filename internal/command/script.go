package command

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// maxExecDepth bounds nested exec commands.
const maxExecDepth = 8

// LineError is a command that failed to parse or run, with its origin.
type LineError struct {
	Source string
	Line   int
	Text   string
	Err    error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Source, e.Line, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// Statement is one parsed line of a script.
type Statement struct {
	Source  string
	Line    int
	Command Command
}

// ReadScript parses every line of r. Blank lines and lines starting with
// '#' are skipped. Lines that fail to parse are reported and skipped, so a
// single bad line does not discard the rest of the script.
func ReadScript(source string, r io.Reader) ([]Statement, []error) {
	var stmts []Statement
	var errs []error

	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		cmd, err := Parse(text)
		if err != nil {
			errs = append(errs, &LineError{Source: source, Line: n, Text: text, Err: err})
			continue
		}
		stmts = append(stmts, Statement{Source: source, Line: n, Command: cmd})
	}
	if err := scanner.Err(); err != nil {
		errs = append(errs, fmt.Errorf("read %s: %w", source, err))
	}
	return stmts, errs
}

// ReadScriptFile parses the script at path. Failing to open the file is
// reported as the only error.
func ReadScriptFile(path string) ([]Statement, []error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, []error{fmt.Errorf("read script: %w", err)}
	}
	defer f.Close()
	return ReadScript(path, f)
}

// Runner executes commands against a host. Map, unmap and exec are handled
// here; everything else is passed to the host.
type Runner struct {
	Keys *KeyMap
	Host func(Command) error
}

// Run executes one command.
func (r *Runner) Run(cmd Command) error {
	return r.run(cmd, 0)
}

func (r *Runner) run(cmd Command, depth int) error {
	if r.Keys != nil && r.Keys.Apply(cmd) {
		return nil
	}
	if cmd.Kind == KindExec {
		if depth >= maxExecDepth {
			return fmt.Errorf("exec %s: nested too deeply", cmd.Path)
		}
		errs := r.runFile(cmd.Path, depth+1)
		if len(errs) > 0 {
			return errors.Join(errs...)
		}
		return nil
	}
	if r.Host == nil {
		return nil
	}
	return r.Host(cmd)
}

// RunFile executes the script at path, returning every error encountered.
// Execution continues past failing lines.
func (r *Runner) RunFile(path string) []error {
	return r.runFile(path, 0)
}

func (r *Runner) runFile(path string, depth int) []error {
	stmts, errs := ReadScriptFile(path)
	for _, s := range stmts {
		if err := r.run(s.Command, depth); err != nil {
			errs = append(errs, &LineError{Source: s.Source, Line: s.Line, Text: s.Command.String(), Err: err})
		}
	}
	return errs
}
