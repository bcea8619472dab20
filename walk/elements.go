package walk

import (
	"bytes"

	"github.com/creachadair/jedit"
)

// An Element is one entry of a document enumeration: either an object member
// at any depth, or a string or primitive element of an array.
type Element struct {
	Key     string     // decoded member key; empty for array elements
	Value   []byte     // source text of the value; strings include their quotes
	Kind    jedit.Kind // kind of the value token
	InArray bool       // the value is an array element rather than a member
	Index   int        // offset of the value token
	Depth   int        // nesting depth of the value
}

// Elements enumerates the members and scalar array elements of src in
// document order.
func (e Editor) Elements(src []byte) ([]Element, error) {
	toks, err := e.tokenize(src)
	if err != nil {
		return nil, err
	}
	c := &collector{src: src, toks: toks}
	if err := Walk(src, toks, c); err != nil {
		return nil, err
	}
	return c.elts, nil
}

// Elements enumerates the members and scalar array elements of src using a
// zero Editor.
func Elements(src []byte) ([]Element, error) { return Editor{}.Elements(src) }

type collector struct {
	src  []byte
	toks []jedit.Token
	keys stack[string]
	elts []Element
}

func (c *collector) BeginObject(a Anchor) error { return c.add(a) }
func (c *collector) BeginArray(a Anchor) error  { return c.add(a) }
func (c *collector) Value(a Anchor) error       { return c.add(a) }
func (c *collector) EndObject(Anchor) error     { return nil }
func (c *collector) EndArray(Anchor) error      { return nil }

func (c *collector) BeginMember(a Anchor) error {
	c.keys.push(c.toks[a.Index].Decode(c.src))
	return nil
}

func (c *collector) EndMember(Anchor) error { c.keys.pop(); return nil }

func (c *collector) add(a Anchor) error {
	if a.Parent < 0 {
		return nil
	}
	tok := c.toks[a.Index]
	inArray := c.toks[a.Parent].Kind == jedit.Array
	if inArray && tok.Kind.IsContainer() {
		return nil
	}
	elt := Element{
		Value:   bytes.Clone(tok.Raw(c.src)),
		Kind:    tok.Kind,
		InArray: inArray,
		Index:   a.Index,
		Depth:   a.Depth,
	}
	if !inArray {
		elt.Key = *c.keys.top()
	}
	c.elts = append(c.elts, elt)
	return nil
}
