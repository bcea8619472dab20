// Package jpath parses the slash-separated paths used to address values
// inside a JSON document, for example "/sensors/[2]/name".
package jpath

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

/*
Grammar:

  path = { "/" } [ segment { "/" { "/" } segment } ] { "/" }
segment = "[" INDEX "]"
segment = '"' TEXT '"'
segment = TEXT

 INDEX = RE `^\s*[-+]?\d+` (any trailing text is ignored)
  TEXT = { any text except "/" }

Spaces around each segment are discarded, and empty segments are dropped.
A non-numeric or negative INDEX selects element 0.
*/

// A Path is a parsed document path. The empty path addresses the whole
// document.
type Path []Segment

// Parse parses s as a slash-separated path. Parse does not fail: any string
// denotes some path, possibly empty.
func Parse(s string) Path {
	var p Path
	for part := range strings.SplitSeq(s, "/") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		p = append(p, parseSegment(part))
	}
	return p
}

func parseSegment(s string) Segment {
	if len(s) >= 2 && s[0] == '[' && s[len(s)-1] == ']' {
		return Index(atoi(s[1 : len(s)-1]))
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return Key(s[1 : len(s)-1])
	}
	return Key(s)
}

// atoi parses the leading integer of s, returning 0 if there is none or if
// the value is negative. Values too large for an int are clamped.
func atoi(s string) int {
	m := indexRE.FindString(s)
	if m == "" {
		return 0
	}
	v, err := strconv.Atoi(strings.TrimSpace(m))
	if err != nil {
		if strings.HasPrefix(strings.TrimSpace(m), "-") {
			return 0
		}
		return math.MaxInt
	}
	return max(v, 0)
}

// String renders p in canonical slash form. The empty path renders as "/".
func (p Path) String() string {
	if len(p) == 0 {
		return "/"
	}
	var buf strings.Builder
	for _, s := range p {
		buf.WriteByte('/')
		buf.WriteString(s.String())
	}
	return buf.String()
}

// Split returns the first segment of p and the remainder. It panics if p is
// empty.
func (p Path) Split() (Segment, Path) { return p[0], p[1:] }

// Append returns a new path with segs added to the end of p.
func (p Path) Append(segs ...Segment) Path {
	out := make(Path, 0, len(p)+len(segs))
	return append(append(out, p...), segs...)
}

// JSONPath renders p as an equivalent JSONPath query, for example
// "$['sensors'][2]['name']".
func (p Path) JSONPath() string {
	var buf strings.Builder
	buf.WriteString("$")
	for _, s := range p {
		if s.IsIndex {
			fmt.Fprintf(&buf, "[%d]", s.Index)
		} else {
			fmt.Fprintf(&buf, "['%s']", quoteEsc.Replace(s.Key))
		}
	}
	return buf.String()
}

// A Segment is a single step of a Path: either an object key or an array
// index.
type Segment struct {
	Key     string // member name, if !IsIndex
	Index   int    // element offset, if IsIndex
	IsIndex bool
}

// Key returns a segment that selects the object member with the given name.
func Key(name string) Segment { return Segment{Key: name} }

// Index returns a segment that selects the array element at offset n.
func Index(n int) Segment { return Segment{Index: n, IsIndex: true} }

func (s Segment) String() string {
	if s.IsIndex {
		return "[" + strconv.Itoa(s.Index) + "]"
	} else if strings.HasPrefix(s.Key, "[") && strings.HasSuffix(s.Key, "]") {
		return `"` + s.Key + `"`
	}
	return s.Key
}

// ParseExpr parses a JSONPath expression that names a single location, for
// example "$.sensors[2].name" or "$['apple sauce'][0]". Only member and
// index steps are supported.
func ParseExpr(s string) (Path, error) {
	t, ok := strings.CutPrefix(s, "$")
	if !ok {
		return nil, errors.New("missing root marker")
	}
	var p Path
	for t != "" {
		seg, rest, err := parseStep(t)
		if err != nil {
			return nil, fmt.Errorf("at %q: %w", t, err)
		}
		p = append(p, seg)
		t = rest
	}
	return p, nil
}

func parseStep(s string) (_ Segment, rest string, _ error) {
	if strings.HasPrefix(s, "..") {
		return Segment{}, s, errors.New("recursive descent is not supported")
	}
	if t, ok := strings.CutPrefix(s, "."); ok {
		if m := wordRE.FindStringSubmatch(t); m != nil {
			return Key(m[1]), t[len(m[0]):], nil
		}
		return Segment{}, s, errors.New("invalid .name")
	}
	if t, ok := strings.CutPrefix(s, "["); ok {
		var seg Segment
		if m := quoteRE.FindStringSubmatch(t); m != nil {
			seg, t = Key(quoteUnesc.Replace(m[1])), t[len(m[0]):]
		} else if m := exprIndexRE.FindStringSubmatch(t); m != nil {
			n, err := strconv.Atoi(m[1])
			if err != nil || n < 0 {
				return Segment{}, s, fmt.Errorf("invalid index %q", m[1])
			}
			seg, t = Index(n), t[len(m[0]):]
		} else {
			return Segment{}, s, errors.New("invalid value")
		}
		u, ok := strings.CutPrefix(t, "]")
		if !ok {
			return Segment{}, t, errors.New("missing close bracket")
		}
		return seg, u, nil
	}
	return Segment{}, s, errors.New("invalid path step")
}

var (
	indexRE     = regexp.MustCompile(`^\s*[-+]?\d+`)
	wordRE      = regexp.MustCompile(`^(\w+)`)
	exprIndexRE = regexp.MustCompile(`^(-?\d+)`)
	quoteRE     = regexp.MustCompile(`^'((?:[^'\\]|\\.)*)'`)

	quoteEsc   = strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	quoteUnesc = strings.NewReplacer(`\\`, `\`, `\'`, `'`)
)
