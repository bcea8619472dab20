package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/creachadair/jedit"
	"github.com/creachadair/jedit/internal/script"
	"github.com/creachadair/jedit/walk"
	"github.com/tailscale/hujson"
	"github.com/tidwall/gjson"
)

// An env holds the settings and streams for a single command.
type env struct {
	ed     walk.Editor
	mode   walk.Mode
	jwcc   bool
	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

var errUsage = errors.New("usage error")

func usagef(msg string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(msg, args...))
}

// runCommand runs the command named by args[0] with the remaining
// arguments.
func (e *env) runCommand(args []string) error {
	if len(args) == 0 {
		return usagef("missing command")
	}
	cmd, rest := args[0], args[1:]
	want := map[string]int{"get": 1, "set": 2, "rm": 1, "fmt": 0, "iter": 0, "apply": 1}
	n, ok := want[cmd]
	if !ok {
		return usagef("unknown command %q", cmd)
	} else if len(rest) != n {
		return usagef("%s takes %d arguments, got %d", cmd, n, len(rest))
	}

	doc, err := e.readInput()
	if err != nil {
		return err
	}
	log.Debugf("read %d bytes of input", len(doc))

	switch cmd {
	case "get":
		path, err := script.ParsePath(rest[0])
		if err != nil {
			return err
		}
		m, err := e.ed.Get(doc, path, e.mode)
		if err != nil {
			return err
		}
		log.Infof("found %v at %s", m.Kind, path)
		return e.writeln(m.Raw)

	case "set":
		path, err := script.ParsePath(rest[0])
		if err != nil {
			return err
		}
		out, err := e.ed.Set(doc, path, valueArg(rest[1]))
		if err != nil {
			return err
		}
		log.Infof("set %s", path)
		return e.writeDoc(out)

	case "rm":
		path, err := script.ParsePath(rest[0])
		if err != nil {
			return err
		}
		out, err := e.ed.Remove(doc, path)
		if err != nil {
			return err
		}
		log.Infof("removed %s", path)
		return e.writeDoc(out)

	case "fmt":
		return e.writeDoc(doc)

	case "iter":
		elts, err := e.ed.Elements(doc)
		if err != nil {
			return err
		}
		for _, elt := range elts {
			label := "-"
			if !elt.InArray {
				label = jedit.Quote(elt.Key)
			}
			if _, err := fmt.Fprintf(e.out, "%d\t%s\t%s\t%s\n", elt.Depth, label, elt.Kind, elt.Value); err != nil {
				return err
			}
		}
		return nil

	case "apply":
		f, err := os.Open(rest[0])
		if err != nil {
			return err
		}
		steps, err := script.Parse(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", rest[0], err)
		}
		log.Infof("applying %d steps from %s", len(steps), rest[0])
		out, reads, err := script.Apply(e.ed, doc, steps, e.mode)
		if err != nil {
			return err
		}
		for _, r := range reads {
			fmt.Fprintf(e.errOut, "%d: %s = %s\n", r.Step, r.Path, r.Text)
		}
		return e.writeDoc(out)
	}
	panic("unreachable")
}

// readInput reads the whole input document.
func (e *env) readInput() ([]byte, error) {
	data, err := io.ReadAll(e.in)
	if err != nil {
		return nil, err
	}
	if e.jwcc {
		return hujson.Standardize(data)
	}
	return data, nil
}

// writeDoc writes doc to the output in the selected mode.
func (e *env) writeDoc(doc []byte) error {
	out, err := e.ed.Format(doc, e.mode)
	if err != nil {
		return err
	}
	return e.writeln(out)
}

func (e *env) writeln(data []byte) error {
	_, err := fmt.Fprintf(e.out, "%s\n", data)
	return err
}

// valueArg returns the JSON text for a value argument. Text that is not a
// single valid JSON value is quoted as a string.
func valueArg(s string) []byte {
	if gjson.Valid(s) {
		return []byte(s)
	}
	return []byte(jedit.Quote(s))
}
