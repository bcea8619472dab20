package walk

import (
	"github.com/creachadair/jedit"
)

// A Mode selects the layout of re-serialized JSON text.
type Mode byte

const (
	// Plain output has no insignificant whitespace.
	Plain Mode = iota

	// Pretty output puts each member and element on its own line, indented
	// four spaces per level of nesting, with a space after each colon.
	// Empty objects and arrays are written as {} and [].
	Pretty
)

func (m Mode) String() string {
	if m == Pretty {
		return "pretty"
	}
	return "plain"
}

const indentUnit = "    "

// An emitter is a Handler that writes the document it visits to a buffer,
// optionally replacing, omitting, or inserting one value on the way.
type emitter struct {
	src    []byte
	toks   []jedit.Token
	mode   Mode
	buf    []byte
	counts stack[int] // children written to each open container

	// Token offsets for the editing hooks, or -1 if unused.
	replace    int // value token whose text is replaced by replaceBy
	omit       int // key token of a member, or value token of an element
	insertIn   int // container token that receives insertText as a new last child
	replaceBy  []byte
	insertText []byte

	muteUntil int // token whose end event ends the current muted region, or -1
}

func newEmitter(src []byte, toks []jedit.Token, mode Mode) *emitter {
	return &emitter{
		src:       src,
		toks:      toks,
		mode:      mode,
		buf:       make([]byte, 0, len(src)),
		replace:   -1,
		omit:      -1,
		insertIn:  -1,
		muteUntil: -1,
	}
}

func (e *emitter) run() ([]byte, error) {
	if err := Walk(e.src, e.toks, e); err != nil {
		return nil, err
	}
	return e.buf, nil
}

func (e *emitter) BeginObject(a Anchor) error {
	if e.open(a, true) {
		e.buf = append(e.buf, '{')
		e.counts.push(0)
	}
	return nil
}

func (e *emitter) EndObject(a Anchor) error { e.close(a, '}'); return nil }

func (e *emitter) BeginArray(a Anchor) error {
	if e.open(a, true) {
		e.buf = append(e.buf, '[')
		e.counts.push(0)
	}
	return nil
}

func (e *emitter) EndArray(a Anchor) error { e.close(a, ']'); return nil }

func (e *emitter) BeginMember(a Anchor) error {
	if e.muteUntil >= 0 {
		return nil
	} else if a.Index == e.omit {
		e.muteUntil = a.Index
		return nil
	}
	e.startChild(a.Depth)
	e.buf = append(e.buf, e.toks[a.Index].Raw(e.src)...)
	e.buf = append(e.buf, ':')
	if e.mode == Pretty {
		e.buf = append(e.buf, ' ')
	}
	return nil
}

func (e *emitter) EndMember(a Anchor) error {
	if a.Index == e.muteUntil {
		e.muteUntil = -1
	}
	return nil
}

func (e *emitter) Value(a Anchor) error {
	if e.open(a, false) {
		e.buf = append(e.buf, e.toks[a.Index].Raw(e.src)...)
	}
	return nil
}

// open handles the start of the value at a, and reports whether the caller
// should write the value itself.
func (e *emitter) open(a Anchor, container bool) bool {
	if e.muteUntil >= 0 {
		return false
	}
	inArray := a.Parent >= 0 && e.toks[a.Parent].Kind == jedit.Array
	if inArray {
		if a.Index == e.omit {
			if container {
				e.muteUntil = a.Index
			}
			return false
		}
		e.startChild(a.Depth)
	}
	if a.Index == e.replace {
		e.buf = append(e.buf, e.replaceBy...)
		if container {
			e.muteUntil = a.Index
		}
		return false
	}
	return true
}

// close handles the end of the container at a.
func (e *emitter) close(a Anchor, delim byte) {
	if e.muteUntil >= 0 {
		if a.Index == e.muteUntil {
			e.muteUntil = -1
		}
		return
	}
	if a.Index == e.insertIn {
		e.startChild(a.Depth + 1)
		e.buf = append(e.buf, e.insertText...)
	}
	if n, _ := e.counts.pop(); n > 0 {
		e.newline(a.Depth)
	}
	e.buf = append(e.buf, delim)
}

// startChild writes the separator and indentation that precede a member or
// element at the given depth, and counts it in the enclosing container.
func (e *emitter) startChild(depth int) {
	if n := e.counts.top(); n != nil {
		if *n > 0 {
			e.buf = append(e.buf, ',')
		}
		*n++
	}
	e.newline(depth)
}

func (e *emitter) newline(depth int) {
	if e.mode != Pretty {
		return
	}
	e.buf = append(e.buf, '\n')
	for range depth {
		e.buf = append(e.buf, indentUnit...)
	}
}
