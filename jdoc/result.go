package jdoc

import (
	"errors"
	"math"
	"strconv"

	"github.com/creachadair/jedit"
	"github.com/creachadair/jedit/walk"

	"go4.org/mem"
)

// Type classifies the value reported in a Result.
type Type byte

// Constants defining the valid Type values.
const (
	TypeUndefined Type = iota // no value
	TypeObject                // a JSON object
	TypeArray                 // a JSON array
	TypeString                // a JSON string
	TypeInt                   // an integer in the signed 32-bit range
	TypeDouble                // any other number
	TypeBool                  // true or false
	TypeNull                  // null
)

var typeStr = [...]string{
	TypeUndefined: "undefined",
	TypeObject:    "object",
	TypeArray:     "array",
	TypeString:    "string",
	TypeInt:       "int",
	TypeDouble:    "double",
	TypeBool:      "bool",
	TypeNull:      "null",
}

func (t Type) String() string {
	if int(t) < len(typeStr) {
		return typeStr[t]
	}
	return typeStr[TypeUndefined]
}

// A Result reports the value found at a path. The numeric and boolean
// conversions are computed when the result is constructed.
type Result struct {
	Raw     string  // the text of the value; strings include their quotes
	Text    string  // the decoded value of a string; otherwise the same as Raw
	Int     int64   // the integer value, truncated for doubles
	Float   float64 // the numeric value
	Bool    bool    // true for true and for numbers greater than zero
	Type    Type    // the type of the value
	Success bool    // a value was found
}

// NewResult constructs a Result for a value located by the walk package.
func NewResult(m walk.Match) Result {
	r := Result{Raw: string(m.Raw), Text: string(m.Raw), Success: true}
	switch m.Kind {
	case jedit.Object:
		r.Type = TypeObject
	case jedit.Array:
		r.Type = TypeArray
	case jedit.String:
		r.Type = TypeString
		if dec, err := jedit.Unquote(r.Raw); err == nil {
			r.Text = string(dec)
		}
	case jedit.Primitive:
		r.setPrimitive(mem.S(r.Raw))
	}
	return r
}

func (r *Result) setPrimitive(raw mem.RO) {
	switch {
	case raw.EqualString("true"):
		r.Type, r.Int, r.Float, r.Bool = TypeBool, 1, 1, true
		return
	case raw.EqualString("false"):
		r.Type = TypeBool
		return
	case raw.EqualString("null"):
		r.Type = TypeNull
		return
	}

	if !isFloatText(raw) {
		if n, err := mem.ParseInt(raw, 10, 64); err == nil {
			r.Type = TypeInt
			if n < math.MinInt32 || n > math.MaxInt32 {
				r.Type = TypeDouble
			}
			r.Int, r.Float, r.Bool = n, float64(n), n > 0
			return
		}
	}
	f, err := mem.ParseFloat(raw, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		f = 0
	}
	r.Type, r.Int, r.Float, r.Bool = TypeDouble, truncate(f), f, f > 0
}

func isFloatText(raw mem.RO) bool {
	for i := 0; i < raw.Len(); i++ {
		switch raw.At(i) {
		case '.', 'e', 'E':
			return true
		}
	}
	return false
}

// truncate converts f to an integer, saturating at the bounds of int64.
func truncate(f float64) int64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}

// Object parses an object result as a new Object.
func (r Result) Object() (*Object, error) {
	if r.Type != TypeObject {
		return nil, ErrNotObject
	}
	return ParseObject(r.Raw)
}

// Array parses an array result as a new Array.
func (r Result) Array() (*Array, error) {
	if r.Type != TypeArray {
		return nil, ErrNotArray
	}
	return ParseArray(r.Raw)
}
