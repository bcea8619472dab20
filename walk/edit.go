package walk

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/creachadair/jedit"
	"github.com/creachadair/jedit/internal/escape"
	"github.com/creachadair/jedit/jpath"

	"go4.org/mem"
)

// Errors reported by path-addressed operations. Each path failure is
// reported as a *PathError wrapping one of these, and all of them satisfy
// errors.Is(err, ErrNotFound).
var (
	// ErrNotFound indicates an object on the path lacks the requested key.
	ErrNotFound = errors.New("path not found")

	// ErrIndexRange indicates an index past the end of an array.
	ErrIndexRange = fmt.Errorf("%w: index out of range", ErrNotFound)

	// ErrMismatch indicates a key segment applied to an array, or an index
	// segment applied to an object.
	ErrMismatch = fmt.Errorf("%w: segment does not fit container", ErrNotFound)

	// ErrNotContainer indicates a segment applied to a string or primitive.
	ErrNotContainer = fmt.Errorf("%w: value is not an object or array", ErrNotFound)
)

var (
	// ErrEmptyPath is reported by Remove for the empty path.
	ErrEmptyPath = errors.New("empty path")

	// ErrEmptyDocument is reported for input with no JSON value.
	ErrEmptyDocument = errors.New("empty document")
)

// maxPadding bounds the number of null elements Set will synthesize to
// reach an index in a newly-created array.
const maxPadding = 1 << 16

// PathError is the concrete type of errors reported when a path does not
// address a value.
type PathError struct {
	Path    jpath.Path
	Matched int // number of segments matched before the failure
	Err     error
}

// Error satisfies the error interface.
func (p *PathError) Error() string {
	if p.Matched < len(p.Path) {
		return fmt.Sprintf("path %s: at %s: %v", p.Path, p.Path[p.Matched], p.Err)
	}
	return fmt.Sprintf("path %s: %v", p.Path, p.Err)
}

// Unwrap supports error wrapping.
func (p *PathError) Unwrap() error { return p.Err }

// An Editor performs path-addressed operations on JSON text. A zero Editor
// is ready for use. Editor methods never modify their input.
type Editor struct {
	// If true, tokenize with the two-pass fixed-capacity strategy rather
	// than a growable token store.
	Bounded bool
}

func (e Editor) tokenize(src []byte) ([]jedit.Token, error) {
	var toks []jedit.Token
	var err error
	if e.Bounded {
		toks, err = jedit.TokenizeBounded(src)
	} else {
		toks, err = jedit.Tokenize(src)
	}
	if err != nil {
		return nil, err
	} else if len(toks) == 0 {
		return nil, ErrEmptyDocument
	}
	return toks, nil
}

// Format re-serializes src in the given mode.
func (e Editor) Format(src []byte, mode Mode) ([]byte, error) {
	toks, err := e.tokenize(src)
	if err != nil {
		return nil, err
	}
	return newEmitter(src, toks, mode).run()
}

// Get returns the value of src addressed by path. String values are
// reported with their quotes; objects and arrays are re-serialized in the
// given mode, indented as if the value were the whole document. The empty
// path addresses the whole document.
func (e Editor) Get(src []byte, path jpath.Path, mode Mode) (Match, error) {
	toks, err := e.tokenize(src)
	if err != nil {
		return Match{}, err
	}
	loc, err := locate(src, toks, path)
	if err != nil {
		return Match{}, err
	}
	m := loc.found
	if m.Kind.IsContainer() {
		sub := toks[m.Index:subtreeEnd(toks, m.Index)]
		m.Raw, err = newEmitter(src, sub, mode).run()
		if err != nil {
			return Match{}, err
		}
	} else {
		m.Raw = bytes.Clone(toks[m.Index].Raw(src))
	}
	return m, nil
}

// Set returns a copy of src in which the value addressed by path is replaced
// by value, which must be a single JSON value. If the path leads through an
// object that lacks the next key, the missing member and any further
// objects and arrays named by the path are created, and the new member is
// added as the last member of that object. New arrays are padded with null
// up to the requested index. Set does not extend existing arrays.
//
// The empty path replaces the whole document. The result is compact.
func (e Editor) Set(src []byte, path jpath.Path, value []byte) ([]byte, error) {
	val, err := e.compact(value)
	if err != nil {
		return nil, fmt.Errorf("invalid value: %w", err)
	}
	toks, err := e.tokenize(src)
	if err != nil {
		return nil, err
	}
	loc, err := locate(src, toks, path)
	em := newEmitter(src, toks, Plain)
	switch {
	case err == nil:
		em.replace, em.replaceBy = loc.found.Index, val
	case loc != nil && loc.miss >= 0:
		rest := path[loc.matched:]
		em.insertIn = loc.miss
		if em.insertText, err = memberText(rest, val); err != nil {
			return nil, &PathError{Path: path, Matched: loc.matched, Err: err}
		}
	default:
		return nil, err
	}
	return em.run()
}

// Remove returns a copy of src without the member or element addressed by
// path. The result is compact.
func (e Editor) Remove(src []byte, path jpath.Path) ([]byte, error) {
	if len(path) == 0 {
		return nil, ErrEmptyPath
	}
	toks, err := e.tokenize(src)
	if err != nil {
		return nil, err
	}
	loc, err := locate(src, toks, path)
	if err != nil {
		return nil, err
	}
	em := newEmitter(src, toks, Plain)
	if loc.found.Key >= 0 {
		em.omit = loc.found.Key
	} else {
		em.omit = loc.found.Index
	}
	return em.run()
}

// compact checks that value is a single JSON value and returns it in Plain
// form.
func (e Editor) compact(value []byte) ([]byte, error) {
	toks, err := e.tokenize(value)
	if err != nil {
		return nil, err
	}
	return newEmitter(value, toks, Plain).run()
}

// memberText renders the member named by path[0] whose value is val nested
// inside the objects and arrays named by the rest of the path.
func memberText(path jpath.Path, val []byte) ([]byte, error) {
	head, rest := path.Split()
	out := val
	for i := len(rest) - 1; i >= 0; i-- {
		seg := rest[i]
		var buf []byte
		if seg.IsIndex {
			if seg.Index > maxPadding {
				return nil, ErrIndexRange
			}
			buf = append(buf, '[')
			for range seg.Index {
				buf = append(buf, "null,"...)
			}
			buf = append(buf, out...)
			buf = append(buf, ']')
		} else {
			buf = escape.AppendQuote(append(buf, '{'), mem.S(seg.Key))
			buf = append(buf, ':')
			buf = append(buf, out...)
			buf = append(buf, '}')
		}
		out = buf
	}
	buf := escape.AppendQuote(nil, mem.S(head.Key))
	buf = append(buf, ':')
	return append(buf, out...), nil
}

// Format re-serializes src in the given mode using a zero Editor.
func Format(src []byte, mode Mode) ([]byte, error) { return Editor{}.Format(src, mode) }

// Get returns the value of src addressed by path using a zero Editor.
func Get(src []byte, path jpath.Path, mode Mode) (Match, error) {
	return Editor{}.Get(src, path, mode)
}

// Set replaces or inserts the value of src addressed by path using a zero
// Editor.
func Set(src []byte, path jpath.Path, value []byte) ([]byte, error) {
	return Editor{}.Set(src, path, value)
}

// Remove deletes the value of src addressed by path using a zero Editor.
func Remove(src []byte, path jpath.Path) ([]byte, error) { return Editor{}.Remove(src, path) }
