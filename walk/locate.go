package walk

import (
	"github.com/creachadair/jedit"
	"github.com/creachadair/jedit/internal/escape"
	"github.com/creachadair/jedit/jpath"

	"go4.org/mem"
)

// A Match describes the value addressed by a path.
type Match struct {
	Kind   jedit.Kind // the kind of the value token
	Raw    []byte     // the text of the value; strings include their quotes
	Index  int        // offset of the value token
	Key    int        // offset of the member key token, or -1
	Parent int        // offset of the enclosing container token, or -1
	Child  int        // offset of the value among its siblings, or -1
	First  bool       // the value is the first child of its container
	Last   bool       // the value is the last child of its container
}

// A locator is a Handler that finds the value addressed by a path.
//
// The reference container is the container addressed by the first matched
// segments of the path; only its direct children are compared with the next
// segment. The first member whose key matches wins.
type locator struct {
	src     []byte
	toks    []jedit.Token
	path    jpath.Path
	matched int  // number of path segments matched
	ref     int  // offset of the reference container, or -1
	keyHit  bool // the current member of ref has a matching key
	key     int  // offset of the key token of the current member of ref

	found Match
	err   error // reason the search failed, if it did
	miss  int   // object lacking the next key, for insertion; or -1
}

func locate(src []byte, toks []jedit.Token, path jpath.Path) (*locator, error) {
	loc := &locator{
		src:   src,
		toks:  toks,
		path:  path,
		ref:   -1,
		key:   -1,
		found: Match{Index: -1, Key: -1, Parent: -1, Child: -1},
		miss:  -1,
	}
	if len(path) == 0 {
		loc.found = Match{Kind: toks[0].Kind, Index: 0, Key: -1, Parent: -1, Child: -1, First: true, Last: true}
		return loc, nil
	}
	if err := Walk(src, toks, loc); err != nil {
		return loc, err
	}
	if loc.err != nil {
		return loc, &PathError{Path: path, Matched: loc.matched, Err: loc.err}
	} else if loc.found.Index < 0 {
		return loc, &PathError{Path: path, Matched: loc.matched, Err: ErrNotFound}
	}
	return loc, nil
}

func (l *locator) BeginObject(a Anchor) error { return l.visit(a) }
func (l *locator) BeginArray(a Anchor) error  { return l.visit(a) }
func (l *locator) Value(a Anchor) error       { return l.visit(a) }
func (l *locator) EndArray(Anchor) error      { return nil }
func (l *locator) EndMember(Anchor) error     { return nil }

func (l *locator) EndObject(a Anchor) error {
	if a.Index == l.ref {
		// The reference object has no member with the next key.
		l.err = ErrNotFound
		l.miss = a.Index
		return Stop
	}
	return nil
}

func (l *locator) BeginMember(a Anchor) error {
	if a.Parent == l.ref {
		want := l.path[l.matched].Key
		l.keyHit = escape.Match(mem.B(l.toks[a.Index].Text(l.src)), mem.S(want))
		l.key = a.Index
	}
	return nil
}

// visit handles the start of any value.
func (l *locator) visit(a Anchor) error {
	if a.Parent < 0 {
		return l.enter(a) // the root is always on the path
	}
	if a.Parent != l.ref {
		return nil
	}
	seg := l.path[l.matched]
	if seg.IsIndex {
		if a.Child != seg.Index {
			return nil
		}
	} else if !l.keyHit {
		return nil
	}
	l.matched++
	if l.matched < len(l.path) {
		return l.enter(a)
	}

	tok := l.toks[a.Index]
	l.found = Match{
		Kind:   tok.Kind,
		Index:  a.Index,
		Key:    -1,
		Parent: a.Parent,
		Child:  a.Child,
		First:  a.Child == 0,
		Last:   a.Child == l.toks[a.Parent].Size-1,
	}
	if !seg.IsIndex {
		l.found.Key = l.key
	}
	return Stop
}

// enter makes the value at a the reference container for the next segment,
// or records why it cannot be.
func (l *locator) enter(a Anchor) error {
	tok := l.toks[a.Index]
	seg := l.path[l.matched]
	switch {
	case !tok.Kind.IsContainer():
		l.err = ErrNotContainer
	case seg.IsIndex && tok.Kind == jedit.Object:
		l.err = ErrMismatch
	case !seg.IsIndex && tok.Kind == jedit.Array:
		l.err = ErrMismatch
	case seg.IsIndex && seg.Index >= tok.Size:
		l.err = ErrIndexRange
	default:
		l.ref = a.Index
		l.keyHit = false
		return nil
	}
	return Stop
}
