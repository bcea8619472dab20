package jdoc

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/creachadair/jedit/internal/escape"
	"github.com/creachadair/jedit/walk"

	"go4.org/mem"
)

// Raw is encoded JSON text, inserted into a document verbatim after it has
// been checked to be a single JSON value.
type Raw string

// Decimal places used to render floating-point values.
const (
	float64Places = 9
	float32Places = 6
)

// appendValue appends the JSON encoding of v to buf. Nested documents are
// appended in plain form. It panics if v has a type that does not have a
// JSON encoding.
func appendValue(buf []byte, v any) ([]byte, error) {
	switch t := v.(type) {
	case nil:
		return append(buf, "null"...), nil
	case string:
		return escape.AppendQuote(buf, mem.S(t)), nil
	case bool:
		return strconv.AppendBool(buf, t), nil
	case int:
		return strconv.AppendInt(buf, int64(t), 10), nil
	case int8:
		return strconv.AppendInt(buf, int64(t), 10), nil
	case int16:
		return strconv.AppendInt(buf, int64(t), 10), nil
	case int32:
		return strconv.AppendInt(buf, int64(t), 10), nil
	case int64:
		return strconv.AppendInt(buf, t, 10), nil
	case uint:
		return strconv.AppendUint(buf, uint64(t), 10), nil
	case uint8:
		return strconv.AppendUint(buf, uint64(t), 10), nil
	case uint16:
		return strconv.AppendUint(buf, uint64(t), 10), nil
	case uint32:
		return strconv.AppendUint(buf, uint64(t), 10), nil
	case uint64:
		return strconv.AppendUint(buf, t, 10), nil
	case float32:
		return appendFloat(buf, float64(t), float32Places, 32), nil
	case float64:
		return appendFloat(buf, t, float64Places, 64), nil
	case *Object:
		return append(buf, t.doc()...), nil
	case *Array:
		return append(buf, t.doc()...), nil
	case Raw:
		val, err := walk.Format([]byte(t), walk.Plain)
		if err != nil {
			return nil, fmt.Errorf("invalid raw value: %w", err)
		}
		return append(buf, val...), nil
	}
	panic(fmt.Sprintf("unsupported value type %T", v))
}

// valueText returns the JSON encoding of v.
func valueText(v any) ([]byte, error) { return appendValue(nil, v) }

// Marshal returns the JSON text for v in plain form, encoded as Object.Add
// would encode it. It panics if v has an unsupported type.
func Marshal(v any) ([]byte, error) { return valueText(v) }

// appendFloat appends f with the given number of decimal places, omitting
// trailing zeros and a trailing decimal point. Values with no JSON encoding
// are written as null.
func appendFloat(buf []byte, f float64, places, bitSize int) []byte {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return append(buf, "null"...)
	}
	start := len(buf)
	buf = strconv.AppendFloat(buf, f, 'f', places, bitSize)
	if bytes.IndexByte(buf[start:], '.') >= 0 {
		buf = bytes.TrimRight(buf, "0")
		buf = bytes.TrimSuffix(buf, []byte("."))
	}
	return buf
}
