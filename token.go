// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jedit

import (
	"errors"
	"fmt"
)

// Kind is the type of a token in the flat token sequence.
type Kind byte

// Constants defining the valid Kind values.
const (
	Undefined Kind = iota // no token
	Object                // object: { ... }
	Array                 // array: [ ... ]
	String                // quoted string, span excludes the quotes
	Primitive             // number, true, false, null
)

var kindStr = [...]string{
	Undefined: "undefined",
	Object:    "object",
	Array:     "array",
	String:    "string",
	Primitive: "primitive",
}

func (k Kind) String() string {
	v := int(k)
	if v >= len(kindStr) {
		return kindStr[Undefined]
	}
	return kindStr[v]
}

// IsContainer reports whether k is Object or Array.
func (k Kind) IsContainer() bool { return k == Object || k == Array }

// A Token records the kind and location of one JSON value in source text.
//
// For a String token the span excludes the enclosing quotation marks. Size
// is the number of immediate children: members of an object, elements of an
// array, and 1 for a string that is an object key.
type Token struct {
	Kind Kind
	Span
	Size int
}

// Text returns a view of the contents of t in src. For strings this omits
// the quotation marks and is not unescaped.
func (t Token) Text(src []byte) []byte { return src[t.Pos:t.End] }

// Raw returns a view of the complete source text of t in src, including the
// quotation marks of a string.
func (t Token) Raw(src []byte) []byte {
	if t.Kind == String {
		return src[t.Pos-1 : t.End+1]
	}
	return src[t.Pos:t.End]
}

func (t Token) open() bool { return t.Pos >= 0 && t.End < 0 }

// Errors reported by the tokenizer. The concrete error returned is always a
// *SyntaxError wrapping one of these.
var (
	// ErrInvalid indicates a malformed input, such as a mismatched closing
	// delimiter, an invalid escape, or a control byte outside a string.
	ErrInvalid = errors.New("invalid JSON")

	// ErrPartial indicates the input ended inside a string or container.
	ErrPartial = errors.New("incomplete JSON")

	// ErrNoMemory indicates the input needs more tokens than the tokenizer
	// limit permits.
	ErrNoMemory = errors.New("token limit exceeded")
)

// SyntaxError is the concrete type of errors reported by the tokenizer.
type SyntaxError struct {
	Location LineCol
	Offset   int
	Message  string

	err error
}

// Error satisfies the error interface.
func (s *SyntaxError) Error() string {
	return fmt.Sprintf("at %s: %s", s.Location, s.Message)
}

// Unwrap supports error wrapping.
func (s *SyntaxError) Unwrap() error { return s.err }

// A Tokenizer splits JSON text into a flat pre-order sequence of tokens
// without recursion. A zero Tokenizer is ready for use and grows its token
// store as needed.
type Tokenizer struct {
	// If positive, Limit bounds the number of tokens the tokenizer will
	// produce. Exceeding the limit reports ErrNoMemory.
	Limit int
}

// Tokenize splits src into tokens. Members and elements follow their
// container in source order.
func (t Tokenizer) Tokenize(src []byte) ([]Token, error) {
	tz := &tokenizer{src: src, super: -1, limit: t.Limit}
	if err := tz.run(); err != nil {
		return nil, err
	}
	return tz.toks, nil
}

// Tokenize splits src into tokens using a growable token store.
func Tokenize(src []byte) ([]Token, error) { return Tokenizer{}.Tokenize(src) }

// Count reports the number of tokens src would produce, without storing
// them. Closing delimiters are not checked in this mode.
func Count(src []byte) (int, error) {
	tz := &tokenizer{src: src, super: -1, count: true}
	if err := tz.run(); err != nil {
		return 0, err
	}
	return tz.n, nil
}

// Estimate reports a conservative upper bound on the number of tokens src
// needs, computed from its commas and opening delimiters.
func Estimate(src []byte) int {
	var commas, opens int
	for _, b := range src {
		switch b {
		case ',':
			commas++
		case '{', '[':
			opens++
		}
	}
	return 10 + 2*(commas+1) + opens
}

// TokenizeBounded tokenizes src in two passes: the first counts tokens, and
// the second fills a fixed-capacity store sized from the larger of the count
// and Estimate.
func TokenizeBounded(src []byte) ([]Token, error) {
	n, err := Count(src)
	if err != nil {
		return nil, err
	}
	return Tokenizer{Limit: max(n, Estimate(src)) + 10}.Tokenize(src)
}

type tokenizer struct {
	src   []byte
	pos   int
	toks  []Token
	super int  // index of the superior token, or -1
	limit int  // if positive, the maximum number of tokens
	count bool // count tokens without storing them
	n     int  // number of tokens seen
}

func (t *tokenizer) run() error {
	for ; t.pos < len(t.src); t.pos++ {
		switch c := t.src[t.pos]; c {
		case '{', '[':
			t.n++
			if t.count {
				continue
			}
			kind := Object
			if c == '[' {
				kind = Array
			}
			i, err := t.alloc(kind, t.pos, -1)
			if err != nil {
				return err
			}
			t.addChild()
			t.super = i

		case '}', ']':
			if t.count {
				continue
			}
			if err := t.close(c); err != nil {
				return err
			}

		case '"':
			if err := t.scanString(); err != nil {
				return err
			}

		case '\t', '\r', '\n', ' ':
			// skip whitespace

		case ':':
			t.super = len(t.toks) - 1

		case ',':
			if !t.count && t.super >= 0 && !t.toks[t.super].Kind.IsContainer() {
				t.super = t.lastOpen(len(t.toks) - 1)
			}

		default:
			if err := t.scanPrimitive(); err != nil {
				return err
			}
		}
	}
	if !t.count {
		if i := t.lastOpen(len(t.toks) - 1); i >= 0 {
			return t.failf(t.toks[i].Pos, ErrPartial, "unclosed %v", t.toks[i].Kind)
		}
	}
	return nil
}

// close handles a closing delimiter c at the current position.
func (t *tokenizer) close(c byte) error {
	want := Object
	if c == ']' {
		want = Array
	}
	i := t.lastOpen(len(t.toks) - 1)
	if i < 0 {
		return t.failf(t.pos, ErrInvalid, "unexpected %q", c)
	} else if got := t.toks[i].Kind; got != want {
		return t.failf(t.pos, ErrInvalid, "%q does not close %v", c, got)
	}
	t.toks[i].End = t.pos + 1
	t.super = t.lastOpen(i - 1)
	return nil
}

// scanString consumes a quoted string starting at the current position and
// leaves the position at the closing quotation mark.
func (t *tokenizer) scanString() error {
	start := t.pos
	for t.pos++; t.pos < len(t.src); t.pos++ {
		switch t.src[t.pos] {
		case '"':
			t.n++
			if !t.count {
				if _, err := t.alloc(String, start+1, t.pos); err != nil {
					return err
				}
				t.addChild()
			}
			return nil

		case '\\':
			if t.pos+1 >= len(t.src) {
				continue // reported as partial below
			}
			t.pos++
			switch e := t.src[t.pos]; e {
			case '"', '/', '\\', 'b', 'f', 'r', 'n', 't':
			case 'u':
				for i := 0; i < 4 && t.pos+1 < len(t.src); i++ {
					if !isHexDigit(t.src[t.pos+1]) {
						return t.failf(t.pos+1, ErrInvalid, "invalid Unicode escape")
					}
					t.pos++
				}
			default:
				return t.failf(t.pos, ErrInvalid, "invalid %q after escape", e)
			}
		}
	}
	return t.failf(start, ErrPartial, "unterminated string")
}

// scanPrimitive consumes an unquoted value starting at the current position
// and leaves the position at its last byte.
func (t *tokenizer) scanPrimitive() error {
	start := t.pos
	for ; t.pos < len(t.src); t.pos++ {
		c := t.src[t.pos]
		if isPrimitiveEnd(c) {
			break
		} else if c < ' ' || c >= 127 {
			return t.failf(t.pos, ErrInvalid, "unexpected %q", c)
		}
	}
	t.n++
	if !t.count {
		if _, err := t.alloc(Primitive, start, t.pos); err != nil {
			return err
		}
		t.addChild()
	}
	t.pos--
	return nil
}

func (t *tokenizer) alloc(kind Kind, pos, end int) (int, error) {
	if t.limit > 0 && len(t.toks) >= t.limit {
		return -1, t.failf(pos, ErrNoMemory, "more than %d tokens", t.limit)
	}
	t.toks = append(t.toks, Token{Kind: kind, Span: Span{Pos: pos, End: end}})
	return len(t.toks) - 1, nil
}

// addChild counts the most recent token as a child of the superior token.
func (t *tokenizer) addChild() {
	if t.super >= 0 {
		t.toks[t.super].Size++
	}
}

// lastOpen returns the index of the nearest open container at or before i,
// or -1 if there is none.
func (t *tokenizer) lastOpen(i int) int {
	for ; i >= 0; i-- {
		if t.toks[i].open() {
			return i
		}
	}
	return -1
}

func (t *tokenizer) failf(off int, err error, msg string, args ...any) error {
	return &SyntaxError{
		Location: lineCol(t.src, off),
		Offset:   off,
		Message:  fmt.Sprintf("%v: %s", err, fmt.Sprintf(msg, args...)),
		err:      err,
	}
}

func isPrimitiveEnd(c byte) bool {
	switch c {
	case '\t', '\r', '\n', ' ', ',', ']', '}', ':':
		return true
	}
	return false
}

func isHexDigit(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}
