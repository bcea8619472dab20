package jdoc

import (
	"iter"

	"github.com/creachadair/jedit/walk"
)

// An Element is one entry reported by an Iterator.
type Element struct {
	Key     string // the member key; empty for an array element
	Value   Result // the value, as Get would report it for a scalar
	InArray bool   // the entry is an array element rather than a member
	Depth   int    // nesting depth of the value; members of the root are at 1
}

// Type reports TypeArray for an array element and TypeObject for a member.
func (e Element) Type() Type {
	if e.InArray {
		return TypeArray
	}
	return TypeObject
}

// An Iterator is a snapshot of the entries of a document. Edits to the
// document after the iterator is created are not reflected.
type Iterator struct {
	elts []Element
}

func newIterator(welts []walk.Element) *Iterator {
	elts := make([]Element, len(welts))
	for i, we := range welts {
		var raw []byte
		if !we.Kind.IsContainer() {
			raw = we.Value
		} else if out, err := walk.Format(we.Value, walk.Plain); err == nil {
			raw = out
		}
		elts[i] = Element{
			Key:     we.Key,
			Value:   NewResult(walk.Match{Kind: we.Kind, Raw: raw}),
			InArray: we.InArray,
			Depth:   we.Depth,
		}
	}
	return &Iterator{elts: elts}
}

// Len reports the number of entries remaining in it.
func (it *Iterator) Len() int { return len(it.elts) }

// Get returns entry i of it, and reports whether i is in range.
func (it *Iterator) Get(i int) (Element, bool) {
	if i < 0 || i >= len(it.elts) {
		return Element{}, false
	}
	return it.elts[i], true
}

// All returns a sequence of the entries of it with their offsets.
func (it *Iterator) All() iter.Seq2[int, Element] {
	return func(yield func(int, Element) bool) {
		for i, e := range it.elts {
			if !yield(i, e) {
				return
			}
		}
	}
}

// End discards the entries of it.
func (it *Iterator) End() { it.elts = nil }
