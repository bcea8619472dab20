package jdoc_test

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/creachadair/jedit"
	"github.com/creachadair/jedit/jdoc"
	"github.com/creachadair/jedit/walk"
	"github.com/creachadair/mds/mtest"
	"github.com/google/go-cmp/cmp"
	"github.com/tidwall/gjson"
)

func mustParseObject(t *testing.T, text string) *jdoc.Object {
	t.Helper()
	obj, err := jdoc.ParseObject(text)
	if err != nil {
		t.Fatalf("ParseObject %#q: unexpected error: %v", text, err)
	}
	return obj
}

func checkString(t *testing.T, label string, obj fmt.Stringer, want string) {
	t.Helper()
	if got := obj.String(); got != want {
		t.Errorf("%s: got %#q, want %#q", label, got, want)
	}
}

func TestObjectAdd(t *testing.T) {
	sub := jdoc.NewObject()
	sub.AddInt("x", 1)
	arr := jdoc.NewArray()
	arr.AddInt(1)
	arr.AddString("y")

	obj := jdoc.NewObject()
	checkString(t, "Empty", obj, `{}`)

	obj.AddString("s", `a"b`)
	obj.AddInt("i", -3)
	obj.AddUint16("u", 65535)
	obj.AddFloat("f", 2.5)
	obj.AddFloat("g", 2.0)
	obj.AddFloat("third", 1.0/3)
	obj.AddFloat32("h", 0.1)
	obj.AddBool("b", true)
	obj.AddNull("n")
	obj.AddString("s", "dup") // not de-duplicated
	obj.AddObject("o", sub)
	obj.AddArray("a", arr)
	if err := obj.AddRaw("r", ` { "z" : [ ] } `); err != nil {
		t.Fatalf("AddRaw: unexpected error: %v", err)
	}

	const want = `{"s":"a\"b","i":-3,"u":65535,"f":2.5,"g":2,"third":0.333333333,"h":0.1,` +
		`"b":true,"n":null,"s":"dup","o":{"x":1},"a":[1,"y"],"r":{"z":[]}}`
	checkString(t, "Add", obj, want)
	if !gjson.Valid(obj.String()) {
		t.Errorf("Add: result %#q is not valid JSON", obj.String())
	}
}

func TestObjectAddAny(t *testing.T) {
	obj := jdoc.NewObject()
	for _, v := range []any{
		nil, "x", false, int8(-1), int64(math.MinInt64), uint64(math.MaxUint64),
		float32(-0.25), math.NaN(), math.Inf(-1), jdoc.Raw(`[true]`),
	} {
		if err := obj.Add("k", v); err != nil {
			t.Errorf("Add(%v): unexpected error: %v", v, err)
		}
	}
	const want = `{"k":null,"k":"x","k":false,"k":-1,"k":-9223372036854775808,` +
		`"k":18446744073709551615,"k":-0.25,"k":null,"k":null,"k":[true]}`
	checkString(t, "Add", obj, want)

	for _, raw := range []string{"", "{", `"a" "b"`, `[1}`} {
		if err := obj.AddRaw("bad", raw); err == nil {
			t.Errorf("AddRaw %#q: got nil, want error", raw)
		}
	}
	checkString(t, "After errors", obj, want)

	t.Run("Panics", func(t *testing.T) {
		mtest.MustPanic(t, func() { obj.Add("bad", []int{1}) })
		mtest.MustPanic(t, func() { obj.Add("bad", struct{}{}) })
		mtest.MustPanic(t, func() { obj.Add("bad", map[string]int{}) })
	})
}

func TestObjectSetData(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", `{}`},
		{`{}`, `{}`},
		{`junk { "a" : 1 } trailing`, `{"a":1}`},
		{"\n{\n\t\"a\": [1, 2],\n\t\"b\": {}\n}\n", `{"a":[1,2],"b":{}}`},
		{`[1,{"a":2}]`, `{"a":2}`},
	}
	for _, test := range tests {
		obj := mustParseObject(t, `{"old":true}`)
		if err := obj.SetData(test.input); err != nil {
			t.Errorf("SetData %#q: unexpected error: %v", test.input, err)
			continue
		}
		checkString(t, "SetData "+test.input, obj, test.want)
	}

	for _, input := range []string{`no braces`, `}{`, `{"a":}`, `{"a":1} {"b":2}`, `{"a":[}`} {
		obj := mustParseObject(t, `{"old":true}`)
		if err := obj.SetData(input); err == nil {
			t.Errorf("SetData %#q: got nil, want error", input)
		}
		checkString(t, "SetData "+input, obj, `{"old":true}`)
	}

	if _, err := jdoc.ParseObject(`[1, 2]`); !errors.Is(err, jdoc.ErrNotObject) {
		t.Errorf("ParseObject array: got %v, want %v", err, jdoc.ErrNotObject)
	}
	if _, err := jdoc.ParseObject(`{"a":1`); !errors.Is(err, jdoc.ErrNotObject) {
		t.Errorf("ParseObject unclosed: got %v, want %v", err, jdoc.ErrNotObject)
	}
}

func TestObjectHuJSON(t *testing.T) {
	const input = `{
  // A line comment.
  "a": 1, /* a block comment */
  "b": [1, 2,],
}`
	obj := jdoc.NewObject()
	if err := obj.SetHuJSON(input); err != nil {
		t.Fatalf("SetHuJSON: unexpected error: %v", err)
	}
	checkString(t, "SetHuJSON", obj, `{"a":1,"b":[1,2]}`)

	if err := obj.SetHuJSON(`{"a":1 /* unterminated`); err == nil {
		t.Error("SetHuJSON: got nil, want error")
	}
	checkString(t, "SetHuJSON error", obj, `{"a":1,"b":[1,2]}`)
}

func TestObjectGet(t *testing.T) {
	obj := mustParseObject(t, `{"a":1,"b":[10,20,30],"c":{"d":"x","e":[]}}`)
	tests := []struct {
		path string
		raw  string
		typ  jdoc.Type
	}{
		{"", `{"a":1,"b":[10,20,30],"c":{"d":"x","e":[]}}`, jdoc.TypeObject},
		{"/", `{"a":1,"b":[10,20,30],"c":{"d":"x","e":[]}}`, jdoc.TypeObject},
		{"/a", `1`, jdoc.TypeInt},
		{"/b", `[10,20,30]`, jdoc.TypeArray},
		{"/b/[1]", `20`, jdoc.TypeInt},
		{"/c/d", `"x"`, jdoc.TypeString},
		{"/c/e", `[]`, jdoc.TypeArray},
	}
	for _, test := range tests {
		for _, bounded := range []bool{false, true} {
			obj.Editor.Bounded = bounded
			got, err := obj.Get(test.path)
			if err != nil {
				t.Errorf("Get %q (bounded=%v): unexpected error: %v", test.path, bounded, err)
				continue
			}
			if got.Raw != test.raw || got.Type != test.typ || !got.Success {
				t.Errorf("Get %q (bounded=%v): got (%#q, %v, %v), want (%#q, %v, true)",
					test.path, bounded, got.Raw, got.Type, got.Success, test.raw, test.typ)
			}
		}
	}

	for _, path := range []string{"/q", "/a/b", "/b/[3]", "/b/x", "/[0]", "/c/e/[0]"} {
		got, err := obj.Get(path)
		if !errors.Is(err, walk.ErrNotFound) {
			t.Errorf("Get %q: got error %v, want %v", path, err, walk.ErrNotFound)
		}
		if diff := cmp.Diff(jdoc.Result{}, got); diff != "" {
			t.Errorf("Get %q: result (-want, +got)\n%s", path, diff)
		}
	}

	got, err := obj.GetPretty("/c")
	if err != nil {
		t.Fatalf("GetPretty: unexpected error: %v", err)
	}
	const want = "{\n    \"d\": \"x\",\n    \"e\": []\n}"
	if diff := cmp.Diff(want, got.Raw); diff != "" {
		t.Errorf("GetPretty (-want, +got)\n%s", diff)
	}
}

func TestObjectSet(t *testing.T) {
	obj := mustParseObject(t, `{"a":1,"b":[10,20,30]}`)
	sub := mustParseObject(t, `{"x":1}`)
	arr := jdoc.NewArray()
	arr.AddBool(true)

	steps := []struct {
		op   string
		edit func() error
		want string
	}{
		{"SetInt /b/[1]", func() error { return obj.SetInt("/b/[1]", 99) },
			`{"a":1,"b":[10,99,30]}`},
		{"SetString /a", func() error { return obj.SetString("/a", "x") },
			`{"a":"x","b":[10,99,30]}`},
		{"SetBool /c/d", func() error { return obj.SetBool("/c/d", true) },
			`{"a":"x","b":[10,99,30],"c":{"d":true}}`},
		{"SetFloat /c/e/[2]", func() error { return obj.SetFloat("/c/e/[2]", 0.5) },
			`{"a":"x","b":[10,99,30],"c":{"d":true,"e":[null,null,0.5]}}`},
		{"SetNull /a", func() error { return obj.SetNull("/a") },
			`{"a":null,"b":[10,99,30],"c":{"d":true,"e":[null,null,0.5]}}`},
		{"SetRaw /b", func() error { return obj.SetRaw("/b", " [ 1 ] ") },
			`{"a":null,"b":[1],"c":{"d":true,"e":[null,null,0.5]}}`},
		{"SetObject /o", func() error { return obj.SetObject("/o", sub) },
			`{"a":null,"b":[1],"c":{"d":true,"e":[null,null,0.5]},"o":{"x":1}}`},
		{"SetArray /b/[0]", func() error { return obj.SetArray("/b/[0]", arr) },
			`{"a":null,"b":[[true]],"c":{"d":true,"e":[null,null,0.5]},"o":{"x":1}}`},
		{"Set /c/e/[0]", func() error { return obj.Set("/c/e/[0]", jdoc.Raw(`{"k":[]}`)) },
			`{"a":null,"b":[[true]],"c":{"d":true,"e":[{"k":[]},null,0.5]},"o":{"x":1}}`},
	}
	for _, step := range steps {
		if err := step.edit(); err != nil {
			t.Fatalf("%s: unexpected error: %v", step.op, err)
		}
		checkString(t, step.op, obj, step.want)

		// Each edit is visible to a later read.
		if !gjson.Valid(obj.String()) {
			t.Errorf("%s: result %#q is not valid JSON", step.op, obj.String())
		}
	}

	r, err := obj.Get("/c/e/[2]")
	if err != nil {
		t.Fatalf("Get after Set: unexpected error: %v", err)
	}
	if r.Float != 0.5 || r.Type != jdoc.TypeDouble {
		t.Errorf("Get after Set: got (%v, %v), want (0.5, double)", r.Float, r.Type)
	}
}

func TestObjectSetErrors(t *testing.T) {
	const input = `{"a":null,"b":[1,2],"c":{}}`
	tests := []struct {
		op   string
		edit func(*jdoc.Object) error
		want error
	}{
		{"past the end", func(o *jdoc.Object) error { return o.SetInt("/b/[5]", 1) }, walk.ErrIndexRange},
		{"through a scalar", func(o *jdoc.Object) error { return o.SetInt("/a/x", 1) }, walk.ErrNotContainer},
		{"key in array", func(o *jdoc.Object) error { return o.SetInt("/b/k", 1) }, walk.ErrMismatch},
		{"index in object", func(o *jdoc.Object) error { return o.SetInt("/c/[0]", 1) }, walk.ErrMismatch},
		{"invalid raw", func(o *jdoc.Object) error { return o.SetRaw("/a", "{") }, jedit.ErrPartial},
		{"non-object root", func(o *jdoc.Object) error { return o.SetInt("", 5) }, jdoc.ErrNotObject},
	}
	for _, test := range tests {
		obj := mustParseObject(t, input)
		if err := test.edit(obj); !errors.Is(err, test.want) {
			t.Errorf("Set %s: got error %v, want %v", test.op, err, test.want)
		}
		checkString(t, "Set "+test.op, obj, input)
	}

	obj := mustParseObject(t, input)
	if err := obj.SetRaw("", ` {"z": 0} `); err != nil {
		t.Fatalf("SetRaw root: unexpected error: %v", err)
	}
	checkString(t, "SetRaw root", obj, `{"z":0}`)
}

func TestObjectRemove(t *testing.T) {
	obj := mustParseObject(t, `{"a":1,"b":[10,20,30],"c":{"d":2}}`)
	steps := []struct {
		path string
		want string
	}{
		{"/b/[0]", `{"a":1,"b":[20,30],"c":{"d":2}}`},
		{"/c/d", `{"a":1,"b":[20,30],"c":{}}`},
		{"/a", `{"b":[20,30],"c":{}}`},
		{"/b/[1]", `{"b":[20],"c":{}}`},
		{"/c", `{"b":[20]}`},
		{"/b", `{}`},
	}
	for _, step := range steps {
		if err := obj.Remove(step.path); err != nil {
			t.Fatalf("Remove %q: unexpected error: %v", step.path, err)
		}
		checkString(t, "Remove "+step.path, obj, step.want)
	}

	obj = mustParseObject(t, `{"a":1}`)
	if err := obj.Remove("/q"); !errors.Is(err, walk.ErrNotFound) {
		t.Errorf("Remove /q: got %v, want %v", err, walk.ErrNotFound)
	}
	if err := obj.Remove(""); !errors.Is(err, walk.ErrEmptyPath) {
		t.Errorf("Remove empty: got %v, want %v", err, walk.ErrEmptyPath)
	}
	checkString(t, "Remove errors", obj, `{"a":1}`)
}

func TestObjectPretty(t *testing.T) {
	obj := mustParseObject(t, `{"a":1,"b":[],"c":{"d":[true]}}`)
	const want = `{
    "a": 1,
    "b": [],
    "c": {
        "d": [
            true
        ]
    }
}`
	if diff := cmp.Diff(want, obj.Pretty()); diff != "" {
		t.Errorf("Pretty (-want, +got)\n%s", diff)
	}
	if got := jdoc.NewObject().Pretty(); got != "{}" {
		t.Errorf("Pretty empty: got %#q, want {}", got)
	}

	plain, err := obj.Encode(walk.Plain)
	if err != nil {
		t.Fatalf("Encode: unexpected error: %v", err)
	}
	if got := string(plain); got != obj.String() {
		t.Errorf("Encode plain: got %#q, want %#q", got, obj.String())
	}
}

func TestObjectIter(t *testing.T) {
	obj := mustParseObject(t, `{"a":1,"b":[10,"x",{"c":null}],"d":{}}`)
	it, err := obj.Iter()
	if err != nil {
		t.Fatalf("Iter: unexpected error: %v", err)
	}

	var got []string
	for i, e := range it.All() {
		got = append(got, fmt.Sprintf("%d %q %v %s %d", i, e.Key, e.Type(), e.Value.Raw, e.Depth))
	}
	want := []string{
		`0 "a" object 1 1`,
		`1 "b" object [10,"x",{"c":null}] 1`,
		`2 "" array 10 2`,
		`3 "" array "x" 2`,
		`4 "c" object null 3`,
		`5 "d" object {} 1`,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Iter (-want, +got)\n%s", diff)
	}

	if n := it.Len(); n != len(want) {
		t.Errorf("Len: got %d, want %d", n, len(want))
	}
	if e, ok := it.Get(3); !ok || e.Value.Text != "x" || e.Value.Type != jdoc.TypeString {
		t.Errorf("Get(3): got (%+v, %v), want string x", e, ok)
	}
	if e, ok := it.Get(1); !ok || e.Value.Type != jdoc.TypeArray {
		t.Errorf("Get(1): got (%+v, %v), want array", e, ok)
	}
	if _, ok := it.Get(len(want)); ok {
		t.Errorf("Get(%d): got ok, want !ok", len(want))
	}
	if _, ok := it.Get(-1); ok {
		t.Error("Get(-1): got ok, want !ok")
	}

	it.End()
	if n := it.Len(); n != 0 {
		t.Errorf("Len after End: got %d, want 0", n)
	}
}

func TestExample(t *testing.T) {
	obj := mustParseObject(t, `{"a":1,"b":[10,20,30]}`)

	r, err := obj.Get("/b/[1]")
	if err != nil {
		t.Fatalf("Get: unexpected error: %v", err)
	}
	if r.Int != 20 || r.Type != jdoc.TypeInt {
		t.Errorf("Get /b/[1]: got (%d, %v), want (20, int)", r.Int, r.Type)
	}

	if err := obj.SetInt("/b/[1]", 99); err != nil {
		t.Fatalf("SetInt: unexpected error: %v", err)
	}
	if r, err := obj.Get("/b/[1]"); err != nil || r.Int != 99 {
		t.Errorf("Get after SetInt: got (%d, %v), want 99", r.Int, err)
	}

	if err := obj.Remove("/a"); err != nil {
		t.Fatalf("Remove: unexpected error: %v", err)
	}
	checkString(t, "Remove /a", obj, `{"b":[10,99,30]}`)
}
