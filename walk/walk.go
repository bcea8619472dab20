// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package walk traverses and rewrites JSON documents using the flat token
// sequence produced by the jedit tokenizer, without building a tree.
//
// # Walking
//
// Walk visits the tokens of a document in a single linear pass and reports
// its structure to a Handler. An explicit stack of container frames stands
// in for recursion: a frame is pushed when a container opens, and popped
// exactly when the number of children visited equals the size recorded by
// the tokenizer.
//
//	JSON type  | Methods                   | Description
//	---------- | ------------------------- | ---------------------------------
//	object     | BeginObject, EndObject    | { ... }
//	array      | BeginArray, EndArray      | [ ... ]
//	member     | BeginMember, EndMember    | "key": value
//	value      | Value                     | true, false, null, number, string
//
// # Editing
//
// The Get, Set, and Remove functions address a single value by a jpath.Path.
// Set and Remove return a new compact document and never modify their input.
// Format re-serializes a document in compact or indented form, and Elements
// enumerates every member and scalar element of a document.
package walk

import (
	"errors"
	"fmt"

	"github.com/creachadair/jedit"
)

// An Anchor identifies the token reported to a Handler method.
type Anchor struct {
	Index  int // offset of the token in the token sequence
	Depth  int // nesting depth; the root value has depth 0
	Child  int // offset of the value among its siblings, or -1 for the root
	Parent int // offset of the enclosing container token, or -1 for the root
}

// A Handler handles events from walking a token sequence. If a method
// reports an error, the walk stops and that error is returned to the caller,
// unless the error is Stop.
//
// Begin and End methods are correctly paired. For BeginMember and EndMember
// the anchor identifies the key token, and the depth and child offset are
// those of the member value.
type Handler interface {
	// Begin a new object at anchor a.
	BeginObject(a Anchor) error

	// End the object whose open token is at anchor a.
	EndObject(a Anchor) error

	// Begin a new array at anchor a.
	BeginArray(a Anchor) error

	// End the array whose open token is at anchor a.
	EndArray(a Anchor) error

	// Begin an object member whose key token is at a.
	BeginMember(a Anchor) error

	// End the object member whose key token is at a.
	EndMember(a Anchor) error

	// Report a string or primitive value at a.
	Value(a Anchor) error
}

// Stop may be returned by a Handler method to end a walk early. Walk reports
// nil when a handler stops it.
var Stop = errors.New("stop walking")

// ErrMalformed is reported by Walk when the token sequence does not describe
// a single well-formed JSON value.
var ErrMalformed = errors.New("malformed JSON")

// Walk visits toks, which must be the tokens of src, and reports the
// structure of the document to h.
func Walk(src []byte, toks []jedit.Token, h Handler) error {
	err := walk(src, toks, h)
	if errors.Is(err, Stop) {
		return nil
	}
	return err
}

// A frame is an open container on the walk stack.
type frame struct {
	Anchor            // location of the container token
	kind   jedit.Kind // Object or Array
	size   int        // declared number of children
	seen   int        // number of children visited
	key    int        // key token of the current member, or -1
}

func walk(src []byte, toks []jedit.Token, h Handler) error {
	var stk stack[frame]
	for i := 0; i < len(toks); {
		a := Anchor{Index: i, Child: -1, Parent: -1}
		if top := stk.top(); top != nil {
			a.Depth, a.Child, a.Parent = top.Depth+1, top.seen, top.Index
			if top.kind == jedit.Object {
				if key := toks[i]; key.Kind != jedit.String || key.Size != 1 {
					return malformed(src, key, "object key must be a string with one value")
				} else if i+1 >= len(toks) {
					return malformed(src, key, "missing member value")
				}
				if err := h.BeginMember(a); err != nil {
					return err
				}
				top.key = i
				i++
				a.Index = i
			}
		} else if i > 0 {
			return malformed(src, toks[i], "unexpected value after end of document")
		}

		tok := toks[i]
		i++
		switch tok.Kind {
		case jedit.Object, jedit.Array:
			if err := begin(h, tok.Kind, a); err != nil {
				return err
			}
			if tok.Size != 0 {
				stk.push(frame{Anchor: a, kind: tok.Kind, size: tok.Size, key: -1})
				continue
			}
			if err := end(h, tok.Kind, a); err != nil {
				return err
			}

		case jedit.String, jedit.Primitive:
			if tok.Size != 0 {
				return malformed(src, tok, "unexpected value after %v", tok.Kind)
			}
			if err := h.Value(a); err != nil {
				return err
			}

		default:
			return malformed(src, tok, "invalid token kind %v", tok.Kind)
		}

		// The value at a is complete. Credit it to its container, and close
		// each container whose children have all been visited.
		for top := stk.top(); top != nil; top = stk.top() {
			if top.kind == jedit.Object {
				ka := Anchor{Index: top.key, Depth: top.Depth + 1, Child: top.seen, Parent: top.Index}
				if err := h.EndMember(ka); err != nil {
					return err
				}
				top.key = -1
			}
			top.seen++
			if top.seen < top.size {
				break
			}
			f, _ := stk.pop()
			if err := end(h, f.kind, f.Anchor); err != nil {
				return err
			}
		}
	}
	if top := stk.top(); top != nil {
		return malformed(src, toks[top.Index], "%v has %d of %d children", top.kind, top.seen, top.size)
	}
	return nil
}

func begin(h Handler, kind jedit.Kind, a Anchor) error {
	if kind == jedit.Object {
		return h.BeginObject(a)
	}
	return h.BeginArray(a)
}

func end(h Handler, kind jedit.Kind, a Anchor) error {
	if kind == jedit.Object {
		return h.EndObject(a)
	}
	return h.EndArray(a)
}

func malformed(src []byte, tok jedit.Token, msg string, args ...any) error {
	lc := jedit.Locate(src, tok.Span).First
	return fmt.Errorf("at %s: %w: %s", lc, ErrMalformed, fmt.Sprintf(msg, args...))
}

// subtreeEnd returns the offset one past the last token of the value whose
// token is at offset i.
func subtreeEnd(toks []jedit.Token, i int) int {
	for pending := 1; pending > 0 && i < len(toks); i++ {
		pending += toks[i].Size - 1
	}
	return i
}
