// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package walk_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/creachadair/jedit"
	"github.com/creachadair/jedit/walk"
	"github.com/google/go-cmp/cmp"
)

type tracer struct {
	events []string
	stopAt string // if set, stop after the first event with this name
	fail   error  // if set, report this error from Value
}

func (t *tracer) add(name string, a walk.Anchor) error {
	t.events = append(t.events, fmt.Sprintf("%s %d/%d/%d/%d", name, a.Index, a.Depth, a.Child, a.Parent))
	if name == t.stopAt {
		return walk.Stop
	}
	return nil
}

func (t *tracer) BeginObject(a walk.Anchor) error { return t.add("BeginObject", a) }
func (t *tracer) EndObject(a walk.Anchor) error   { return t.add("EndObject", a) }
func (t *tracer) BeginArray(a walk.Anchor) error  { return t.add("BeginArray", a) }
func (t *tracer) EndArray(a walk.Anchor) error    { return t.add("EndArray", a) }
func (t *tracer) BeginMember(a walk.Anchor) error { return t.add("BeginMember", a) }
func (t *tracer) EndMember(a walk.Anchor) error   { return t.add("EndMember", a) }

func (t *tracer) Value(a walk.Anchor) error {
	if t.fail != nil {
		return t.fail
	}
	return t.add("Value", a)
}

func mustTokenize(t *testing.T, src string) []jedit.Token {
	t.Helper()
	toks, err := jedit.Tokenize([]byte(src))
	if err != nil {
		t.Fatalf("Tokenize %#q: unexpected error: %v", src, err)
	}
	return toks
}

func TestWalk(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"5", []string{"Value 0/0/-1/-1"}},
		{"[]", []string{"BeginArray 0/0/-1/-1", "EndArray 0/0/-1/-1"}},
		{`{"a":1,"b":[10,{}]}`, []string{
			"BeginObject 0/0/-1/-1",
			"BeginMember 1/1/0/0",
			"Value 2/1/0/0",
			"EndMember 1/1/0/0",
			"BeginMember 3/1/1/0",
			"BeginArray 4/1/1/0",
			"Value 5/2/0/4",
			"BeginObject 6/2/1/4",
			"EndObject 6/2/1/4",
			"EndArray 4/1/1/0",
			"EndMember 3/1/1/0",
			"EndObject 0/0/-1/-1",
		}},
		{`[[["x"]]]`, []string{
			"BeginArray 0/0/-1/-1",
			"BeginArray 1/1/0/0",
			"BeginArray 2/2/0/1",
			"Value 3/3/0/2",
			"EndArray 2/2/0/1",
			"EndArray 1/1/0/0",
			"EndArray 0/0/-1/-1",
		}},
	}
	for _, test := range tests {
		var tr tracer
		if err := walk.Walk([]byte(test.input), mustTokenize(t, test.input), &tr); err != nil {
			t.Errorf("Walk %#q: unexpected error: %v", test.input, err)
		}
		if diff := cmp.Diff(test.want, tr.events); diff != "" {
			t.Errorf("Walk %#q: events (-want, +got)\n%s", test.input, diff)
		}
	}
}

func TestWalkStop(t *testing.T) {
	const input = `{"a":[1,2],"b":3}`
	tr := &tracer{stopAt: "Value"}
	if err := walk.Walk([]byte(input), mustTokenize(t, input), tr); err != nil {
		t.Fatalf("Walk: unexpected error: %v", err)
	}
	want := []string{
		"BeginObject 0/0/-1/-1",
		"BeginMember 1/1/0/0",
		"BeginArray 2/1/0/0",
		"Value 3/2/0/2",
	}
	if diff := cmp.Diff(want, tr.events); diff != "" {
		t.Errorf("Walk: events (-want, +got)\n%s", diff)
	}
}

func TestWalkHandlerError(t *testing.T) {
	const input = `[1]`
	errBad := errors.New("bad value")
	tr := &tracer{fail: errBad}
	if err := walk.Walk([]byte(input), mustTokenize(t, input), tr); !errors.Is(err, errBad) {
		t.Errorf("Walk: got error %v, want %v", err, errBad)
	}
}

func TestWalkMalformed(t *testing.T) {
	tests := []string{
		`{"a" "b"}`,     // key without a value
		`{"a"}`,         // key without a value
		`{1:2}`,         // key is not a string
		`[1:2]`,         // value with a child
		`{"a":1 "b":2}`, // missing comma
		`1 2`,           // more than one value
		`"a":1`,         // member outside an object
	}
	for _, input := range tests {
		var tr tracer
		err := walk.Walk([]byte(input), mustTokenize(t, input), &tr)
		if !errors.Is(err, walk.ErrMalformed) {
			t.Errorf("Walk %#q: got error %v, want %v", input, err, walk.ErrMalformed)
		}
	}
}
