package jedit

import (
	"bytes"
	"fmt"
)

// A Span describes a contiguous span of a source input.
type Span struct {
	Pos int // the start offset, 0-based
	End int // the end offset, 0-based (noninclusive); -1 while a container is open
}

// Len reports the length of the span in bytes.
func (s Span) Len() int { return s.End - s.Pos }

func (s Span) String() string { return fmt.Sprintf("%d..%d", s.Pos, s.End) }

// A LineCol describes the line number and column offset of a location in
// source text.
type LineCol struct {
	Line   int // line number, 1-based
	Column int // byte offset of column in line, 0-based
}

func (lc LineCol) String() string { return fmt.Sprintf("%d:%d", lc.Line, lc.Column) }

// A Location describes the complete location of a range of source text,
// including line and column offsets.
type Location struct {
	Span
	First, Last LineCol
}

// Locate reports the complete location of span in src.
func Locate(src []byte, span Span) Location {
	return Location{Span: span, First: lineCol(src, span.Pos), Last: lineCol(src, span.End)}
}

// lineCol reports the line and column of offset off in src.
func lineCol(src []byte, off int) LineCol {
	off = min(max(off, 0), len(src))
	head := src[:off]
	line := bytes.Count(head, []byte("\n")) + 1
	col := off
	if i := bytes.LastIndexByte(head, '\n'); i >= 0 {
		col = off - i - 1
	}
	return LineCol{Line: line, Column: col}
}
