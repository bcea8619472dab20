// Package jdoc provides document values that hold JSON text and edit it in
// place by path.
//
// An Object holds a document whose root is a JSON object, and an Array holds
// a document whose root is a JSON array. Both keep the document as text, and
// every read or edit tokenizes the text afresh. Paths have the form parsed by
// jpath.Parse, for example "/a/[2]/b".
//
// Adding a member always appends it, even if the object already has a
// member with the same key. Setting a path replaces the value there, or
// creates the missing members if the path ends in an object:
//
//	obj := jdoc.NewObject()
//	obj.AddInt("a", 1)
//	obj.SetString("/b/c", "x") // {"a":1,"b":{"c":"x"}}
//
// A failed edit leaves the document unchanged.
package jdoc

import (
	"bytes"
	"errors"

	"github.com/creachadair/jedit/internal/escape"
	"github.com/creachadair/jedit/jpath"
	"github.com/creachadair/jedit/walk"
	"github.com/tailscale/hujson"

	"go4.org/mem"
)

var (
	// ErrNotObject is reported when the text for an Object does not hold a
	// JSON object.
	ErrNotObject = errors.New("not a JSON object")

	// ErrNotArray is reported when the text for an Array does not hold a
	// JSON array.
	ErrNotArray = errors.New("not a JSON array")
)

// An Object is a JSON document whose root is an object. The zero value is
// ready for use as an empty object.
type Object struct {
	body []byte // the text between the outer braces, in plain form

	// Editor used for reads and edits. Callers may set Bounded to use the
	// fixed-capacity tokenizer.
	Editor walk.Editor
}

// NewObject returns a new empty object.
func NewObject() *Object { return new(Object) }

// ParseObject returns a new object holding the object in text, as with
// SetData.
func ParseObject(text string) (*Object, error) {
	o := NewObject()
	if err := o.SetData(text); err != nil {
		return nil, err
	}
	return o, nil
}

// SetData replaces the contents of o with the object found in text, from the
// first "{" to the last "}". Text outside those braces is ignored. If text is
// empty, o is cleared.
func (o *Object) SetData(text string) error {
	if text == "" {
		o.Clear()
		return nil
	}
	lo, hi := bytes.IndexByte([]byte(text), '{'), bytes.LastIndexByte([]byte(text), '}')
	if lo < 0 || hi < lo {
		return ErrNotObject
	}
	out, err := o.Editor.Format([]byte(text[lo:hi+1]), walk.Plain)
	if err != nil {
		return err
	}
	o.body = out[1 : len(out)-1]
	return nil
}

// SetHuJSON is as SetData, but text may contain comments and trailing
// commas.
func (o *Object) SetHuJSON(text string) error {
	std, err := hujson.Standardize([]byte(text))
	if err != nil {
		return err
	}
	return o.SetData(string(std))
}

// Clear discards the contents of o, leaving an empty object.
func (o *Object) Clear() { o.body = nil }

// doc returns the complete text of o.
func (o *Object) doc() []byte {
	buf := make([]byte, 0, len(o.body)+2)
	buf = append(buf, '{')
	buf = append(buf, o.body...)
	return append(buf, '}')
}

// appendMember adds a member with the given key and encoded value.
func (o *Object) appendMember(key string, val []byte) {
	if len(o.body) != 0 {
		o.body = append(o.body, ',')
	}
	o.body = escape.AppendQuote(o.body, mem.S(key))
	o.body = append(o.body, ':')
	o.body = append(o.body, val...)
}

// Add appends a member with the given key and value. The value must be nil,
// a string, a bool, an integer, a float, a *Object, an *Array, or Raw text;
// Add panics for any other type. An error is reported only for invalid Raw
// text.
func (o *Object) Add(key string, v any) error {
	val, err := valueText(v)
	if err != nil {
		return err
	}
	o.appendMember(key, val)
	return nil
}

// AddString appends a string member.
func (o *Object) AddString(key, s string) { o.appendMember(key, escape.AppendQuote(nil, mem.S(s))) }

// AddInt appends an integer member.
func (o *Object) AddInt(key string, n int) { o.mustAdd(key, n) }

// AddUint16 appends an unsigned 16-bit integer member.
func (o *Object) AddUint16(key string, n uint16) { o.mustAdd(key, n) }

// AddFloat appends a number member with up to 9 decimal places.
func (o *Object) AddFloat(key string, f float64) { o.mustAdd(key, f) }

// AddFloat32 appends a number member with up to 6 decimal places.
func (o *Object) AddFloat32(key string, f float32) { o.mustAdd(key, f) }

// AddBool appends a Boolean member.
func (o *Object) AddBool(key string, b bool) { o.mustAdd(key, b) }

// AddNull appends a null member.
func (o *Object) AddNull(key string) { o.mustAdd(key, nil) }

// AddObject appends a member whose value is the current contents of v.
func (o *Object) AddObject(key string, v *Object) { o.appendMember(key, v.doc()) }

// AddArray appends a member whose value is the current contents of v.
func (o *Object) AddArray(key string, v *Array) { o.appendMember(key, v.doc()) }

// AddRaw appends a member whose value is the encoded JSON value raw.
func (o *Object) AddRaw(key, raw string) error { return o.Add(key, Raw(raw)) }

func (o *Object) mustAdd(key string, v any) {
	val, _ := valueText(v) // only Raw values can fail
	o.appendMember(key, val)
}

// Get returns the value at path. The empty path addresses the whole object.
func (o *Object) Get(path string) (Result, error) { return o.get(path, walk.Plain) }

// GetPretty is as Get, but an object or array value is indented.
func (o *Object) GetPretty(path string) (Result, error) { return o.get(path, walk.Pretty) }

func (o *Object) get(path string, mode walk.Mode) (Result, error) {
	m, err := o.Editor.Get(o.doc(), jpath.Parse(path), mode)
	if err != nil {
		return Result{}, err
	}
	return NewResult(m), nil
}

// Set replaces the value at path with v, or adds it if the path leads
// through an object that lacks the next key. The value types are as for Add.
func (o *Object) Set(path string, v any) error {
	val, err := valueText(v)
	if err != nil {
		return err
	}
	return o.setText(path, val)
}

// SetString sets the value at path to a string.
func (o *Object) SetString(path, s string) error { return o.Set(path, s) }

// SetInt sets the value at path to an integer.
func (o *Object) SetInt(path string, n int) error { return o.Set(path, n) }

// SetFloat sets the value at path to a number.
func (o *Object) SetFloat(path string, f float64) error { return o.Set(path, f) }

// SetBool sets the value at path to a Boolean.
func (o *Object) SetBool(path string, b bool) error { return o.Set(path, b) }

// SetNull sets the value at path to null.
func (o *Object) SetNull(path string) error { return o.Set(path, nil) }

// SetObject sets the value at path to the current contents of v.
func (o *Object) SetObject(path string, v *Object) error { return o.setText(path, v.doc()) }

// SetArray sets the value at path to the current contents of v.
func (o *Object) SetArray(path string, v *Array) error { return o.setText(path, v.doc()) }

// SetRaw sets the value at path to the encoded JSON value raw.
func (o *Object) SetRaw(path, raw string) error { return o.setText(path, []byte(raw)) }

func (o *Object) setText(path string, val []byte) error {
	out, err := o.Editor.Set(o.doc(), jpath.Parse(path), val)
	if err != nil {
		return err
	} else if out[0] != '{' {
		return ErrNotObject // the root was replaced by a non-object
	}
	o.body = out[1 : len(out)-1]
	return nil
}

// Remove deletes the member or element at path.
func (o *Object) Remove(path string) error {
	out, err := o.Editor.Remove(o.doc(), jpath.Parse(path))
	if err != nil {
		return err
	}
	o.body = out[1 : len(out)-1]
	return nil
}

// String returns the plain text of o.
func (o *Object) String() string { return string(o.doc()) }

// Pretty returns the indented text of o.
func (o *Object) Pretty() string {
	out, err := o.Encode(walk.Pretty)
	if err != nil {
		return ""
	}
	return string(out)
}

// Encode returns the text of o in the given mode.
func (o *Object) Encode(mode walk.Mode) ([]byte, error) {
	return o.Editor.Format(o.doc(), mode)
}

// Iter returns an iterator over the members of o at all depths, and the
// string and primitive elements of its arrays, in document order.
func (o *Object) Iter() (*Iterator, error) {
	elts, err := o.Editor.Elements(o.doc())
	if err != nil {
		return nil, err
	}
	return newIterator(elts), nil
}
