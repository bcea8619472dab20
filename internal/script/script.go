// Package script reads and applies edit scripts for the jedit tool.
//
// A script is a YAML list of steps. Each step names one operation and the
// path it applies to:
//
//	- set: /a/b
//	  value: {x: 1, y: [true, null]}
//	- set: $.c[0]
//	  json: '{"k": 2.5}'
//	- remove: /a
//	- get: /c/[0]/k
//
// A set step takes either a YAML value, which is converted to JSON, or the
// text of a JSON value; if it has neither, the value is null. Paths beginning
// with "$" are parsed with jpath.ParseExpr, others with jpath.Parse.
package script

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/creachadair/jedit/jdoc"
	"github.com/creachadair/jedit/jpath"
	"github.com/creachadair/jedit/walk"
	yaml "github.com/goccy/go-yaml"
)

// ErrScript is the sentinel error for malformed scripts.
var ErrScript = errors.New("script error")

// A Step is a single operation of a script.
type Step struct {
	Set    string `yaml:"set,omitempty"`    // path to set
	Remove string `yaml:"remove,omitempty"` // path to remove
	Get    string `yaml:"get,omitempty"`    // path to read

	Value any    `yaml:"value,omitempty"` // YAML value for set
	JSON  string `yaml:"json,omitempty"`  // JSON text for set
}

// Op reports the name of the operation of s and its path, or an error if s
// does not name exactly one operation.
func (s Step) Op() (op, path string, _ error) {
	var n int
	for _, c := range []struct{ op, path string }{
		{"set", s.Set}, {"remove", s.Remove}, {"get", s.Get},
	} {
		if c.path != "" {
			op, path = c.op, c.path
			n++
		}
	}
	switch {
	case n != 1:
		return "", "", fmt.Errorf("%w: step must have exactly one of set, remove, get", ErrScript)
	case op != "set" && (s.Value != nil || s.JSON != ""):
		return "", "", fmt.Errorf("%w: %s step does not take a value", ErrScript, op)
	case s.Value != nil && s.JSON != "":
		return "", "", fmt.Errorf("%w: set step has both value and json", ErrScript)
	}
	return op, path, nil
}

// Parse decodes a YAML script from r and checks its steps.
func Parse(r io.Reader) ([]Step, error) {
	dec := yaml.NewDecoder(r, yaml.UseOrderedMap(), yaml.DisallowUnknownField())
	var steps []Step
	if err := dec.Decode(&steps); err != nil && err != io.EOF {
		return nil, fmt.Errorf("%w: failed to decode YAML: %v", ErrScript, err)
	}
	for i, s := range steps {
		if _, _, err := s.Op(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return steps, nil
}

// A Read is the value reported by a get step.
type Read struct {
	Step int    // 1-based offset of the step in the script
	Path string // the path as written in the script
	Text []byte // the value
}

// Apply runs steps in order against doc using ed, and returns the edited
// document and the values reported by get steps. Reads use the given mode.
// If any step fails, Apply stops and reports the error.
func Apply(ed walk.Editor, doc []byte, steps []Step, mode walk.Mode) ([]byte, []Read, error) {
	var reads []Read
	for i, s := range steps {
		op, spath, err := s.Op()
		if err != nil {
			return nil, nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		path, err := ParsePath(spath)
		if err != nil {
			return nil, nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		switch op {
		case "set":
			val, err := s.valueText()
			if err != nil {
				return nil, nil, fmt.Errorf("step %d: %w", i+1, err)
			}
			doc, err = ed.Set(doc, path, val)
		case "remove":
			doc, err = ed.Remove(doc, path)
		case "get":
			var m walk.Match
			m, err = ed.Get(doc, path, mode)
			if err == nil {
				reads = append(reads, Read{Step: i + 1, Path: spath, Text: m.Raw})
			}
		}
		if err != nil {
			return nil, nil, fmt.Errorf("step %d: %s %s: %w", i+1, op, spath, err)
		}
	}
	return doc, reads, nil
}

// ParsePath parses a path in either slash form or JSONPath form.
func ParsePath(s string) (jpath.Path, error) {
	if strings.HasPrefix(s, "$") {
		return jpath.ParseExpr(s)
	}
	return jpath.Parse(s), nil
}

func (s Step) valueText() ([]byte, error) {
	if s.JSON != "" {
		return []byte(s.JSON), nil
	}
	return encodeValue(s.Value)
}

// encodeValue converts a decoded YAML value to JSON text. Mapping keys keep
// their order from the script.
func encodeValue(v any) ([]byte, error) {
	switch t := v.(type) {
	case yaml.MapSlice:
		obj := jdoc.NewObject()
		for _, item := range t {
			val, err := encodeValue(item.Value)
			if err != nil {
				return nil, err
			}
			if err := obj.AddRaw(fmt.Sprint(item.Key), string(val)); err != nil {
				return nil, err
			}
		}
		return []byte(obj.String()), nil

	case []any:
		arr := jdoc.NewArray()
		for _, elt := range t {
			val, err := encodeValue(elt)
			if err != nil {
				return nil, err
			}
			if err := arr.AddRaw(string(val)); err != nil {
				return nil, err
			}
		}
		return []byte(arr.String()), nil

	case nil, string, bool, int, int64, uint64, float64:
		return jdoc.Marshal(t)
	}
	return nil, fmt.Errorf("%w: unsupported value type %T", ErrScript, v)
}
