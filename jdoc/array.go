package jdoc

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/creachadair/jedit"
	"github.com/creachadair/jedit/jpath"
	"github.com/creachadair/jedit/walk"
)

// ErrArrayPath is reported for an Array path that does not begin with an
// index segment.
var ErrArrayPath = errors.New("array path must begin with an index")

// The text surrounding the elements of an array, for edits.
const (
	wrapOpen  = `{"root":[`
	wrapClose = `]}`
)

// An Array is a JSON document whose root is an array. The zero value is
// ready for use as an empty array.
//
// Edits are performed on an object whose single member "root" holds the
// array, so that array elements are addressed the same way as members.
type Array struct {
	body []byte // the text between the outer brackets, in plain form
	n    int    // the number of elements

	// Editor used for reads and edits. Callers may set Bounded to use the
	// fixed-capacity tokenizer.
	Editor walk.Editor
}

// NewArray returns a new empty array.
func NewArray() *Array { return new(Array) }

// ParseArray returns a new array holding the array in text, as with SetData.
func ParseArray(text string) (*Array, error) {
	a := NewArray()
	if err := a.SetData(text); err != nil {
		return nil, err
	}
	return a, nil
}

// SetData replaces the contents of a with the array found in text, from the
// first "[" to the last "]". Text outside those brackets is ignored. If text
// is empty, a is cleared.
func (a *Array) SetData(text string) error {
	if text == "" {
		a.Clear()
		return nil
	}
	lo, hi := bytes.IndexByte([]byte(text), '['), bytes.LastIndexByte([]byte(text), ']')
	if lo < 0 || hi < lo {
		return ErrNotArray
	}
	var buf bytes.Buffer
	buf.WriteString(`{"root":`)
	buf.WriteString(text[lo : hi+1])
	buf.WriteString(`}`)
	return a.update(buf.Bytes())
}

// update re-reads the wrapped document text and, if it is valid, replaces
// the contents of a.
func (a *Array) update(wrapped []byte) error {
	out, err := a.Editor.Format(wrapped, walk.Plain)
	if err != nil {
		return err
	}
	toks, err := jedit.Tokenize(out)
	if err != nil {
		return err
	} else if len(toks) < 3 || toks[2].Kind != jedit.Array {
		return ErrNotArray
	}
	a.body, a.n = out[len(wrapOpen):len(out)-len(wrapClose)], toks[2].Size
	return nil
}

// Clear discards the contents of a, leaving an empty array.
func (a *Array) Clear() { a.body, a.n = nil, 0 }

// Len reports the number of elements in a.
func (a *Array) Len() int { return a.n }

// doc returns the complete text of a.
func (a *Array) doc() []byte {
	buf := make([]byte, 0, len(a.body)+2)
	buf = append(buf, '[')
	buf = append(buf, a.body...)
	return append(buf, ']')
}

// wrapped returns the text of a as the value of the root member.
func (a *Array) wrapped() []byte {
	buf := make([]byte, 0, len(a.body)+len(wrapOpen)+len(wrapClose))
	buf = append(buf, wrapOpen...)
	buf = append(buf, a.body...)
	return append(buf, wrapClose...)
}

func (a *Array) appendElement(val []byte) {
	if a.n != 0 {
		a.body = append(a.body, ',')
	}
	a.body = append(a.body, val...)
	a.n++
}

// Add appends an element with value v. The value types are as for
// Object.Add, and Add panics for an unsupported type.
func (a *Array) Add(v any) error {
	val, err := valueText(v)
	if err != nil {
		return err
	}
	a.appendElement(val)
	return nil
}

// AddString appends a string element.
func (a *Array) AddString(s string) { a.mustAdd(s) }

// AddInt appends an integer element.
func (a *Array) AddInt(n int) { a.mustAdd(n) }

// AddUint16 appends an unsigned 16-bit integer element.
func (a *Array) AddUint16(n uint16) { a.mustAdd(n) }

// AddFloat appends a number element with up to 9 decimal places.
func (a *Array) AddFloat(f float64) { a.mustAdd(f) }

// AddFloat32 appends a number element with up to 6 decimal places.
func (a *Array) AddFloat32(f float32) { a.mustAdd(f) }

// AddBool appends a Boolean element.
func (a *Array) AddBool(b bool) { a.mustAdd(b) }

// AddNull appends a null element.
func (a *Array) AddNull() { a.mustAdd(nil) }

// AddObject appends an element whose value is the current contents of v.
func (a *Array) AddObject(v *Object) { a.appendElement(v.doc()) }

// AddArray appends an element whose value is the current contents of v.
func (a *Array) AddArray(v *Array) { a.appendElement(v.doc()) }

// AddRaw appends an element whose value is the encoded JSON value raw.
func (a *Array) AddRaw(raw string) error { return a.Add(Raw(raw)) }

func (a *Array) mustAdd(v any) {
	val, _ := valueText(v) // only Raw values can fail
	a.appendElement(val)
}

// indexPath returns the wrapped path for element i.
func indexPath(i int) (jpath.Path, error) {
	if i < 0 {
		return nil, fmt.Errorf("index %d: %w", i, walk.ErrIndexRange)
	}
	return jpath.Path{jpath.Key("root"), jpath.Index(i)}, nil
}

// rootPath returns the wrapped path for an array path.
func rootPath(s string) (jpath.Path, error) {
	p := jpath.Parse(s)
	if len(p) == 0 || !p[0].IsIndex {
		return nil, fmt.Errorf("path %q: %w", s, ErrArrayPath)
	}
	return jpath.Path{jpath.Key("root")}.Append(p...), nil
}

// Get returns element i of a.
func (a *Array) Get(i int) (Result, error) {
	p, err := indexPath(i)
	if err != nil {
		return Result{}, err
	}
	return a.get(p, walk.Plain)
}

// GetPath returns the value at path, whose first segment is an index.
func (a *Array) GetPath(path string) (Result, error) {
	p, err := rootPath(path)
	if err != nil {
		return Result{}, err
	}
	return a.get(p, walk.Plain)
}

// GetPretty is as GetPath, but an object or array value is indented.
func (a *Array) GetPretty(path string) (Result, error) {
	p, err := rootPath(path)
	if err != nil {
		return Result{}, err
	}
	return a.get(p, walk.Pretty)
}

func (a *Array) get(p jpath.Path, mode walk.Mode) (Result, error) {
	m, err := a.Editor.Get(a.wrapped(), p, mode)
	if err != nil {
		return Result{}, err
	}
	return NewResult(m), nil
}

// Set replaces element i of a with v. The value types are as for Add.
func (a *Array) Set(i int, v any) error {
	p, err := indexPath(i)
	if err != nil {
		return err
	}
	val, err := valueText(v)
	if err != nil {
		return err
	}
	return a.setText(p, val)
}

// SetPath replaces the value at path with v, or adds it if the path leads
// through an object that lacks the next key.
func (a *Array) SetPath(path string, v any) error {
	p, err := rootPath(path)
	if err != nil {
		return err
	}
	val, err := valueText(v)
	if err != nil {
		return err
	}
	return a.setText(p, val)
}

func (a *Array) setText(p jpath.Path, val []byte) error {
	out, err := a.Editor.Set(a.wrapped(), p, val)
	if err != nil {
		return err
	}
	return a.update(out)
}

// Remove deletes element i of a.
func (a *Array) Remove(i int) error {
	p, err := indexPath(i)
	if err != nil {
		return err
	}
	return a.remove(p)
}

// RemovePath deletes the member or element at path.
func (a *Array) RemovePath(path string) error {
	p, err := rootPath(path)
	if err != nil {
		return err
	}
	return a.remove(p)
}

func (a *Array) remove(p jpath.Path) error {
	out, err := a.Editor.Remove(a.wrapped(), p)
	if err != nil {
		return err
	}
	return a.update(out)
}

// String returns the plain text of a.
func (a *Array) String() string { return string(a.doc()) }

// Pretty returns the indented text of a.
func (a *Array) Pretty() string {
	out, err := a.Encode(walk.Pretty)
	if err != nil {
		return ""
	}
	return string(out)
}

// Encode returns the text of a in the given mode.
func (a *Array) Encode(mode walk.Mode) ([]byte, error) {
	return a.Editor.Format(a.doc(), mode)
}

// Iter returns an iterator over the string and primitive elements of a and
// the members of its objects, at all depths, in document order.
func (a *Array) Iter() (*Iterator, error) {
	elts, err := a.Editor.Elements(a.doc())
	if err != nil {
		return nil, err
	}
	return newIterator(elts), nil
}
