// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jedit

import (
	"errors"
	"strings"

	"github.com/creachadair/jedit/internal/escape"

	"go4.org/mem"
)

// Quote encodes src as a JSON string value. The contents are escaped and
// double quotation marks are added.
func Quote(src string) string { return string(escape.AppendQuote(nil, mem.S(src))) }

// Unquote decodes a JSON string value.  Double quotation marks are removed,
// and escape sequences are replaced with their unescaped equivalents.
//
// Invalid escapes are replaced by the Unicode replacement rune. Unquote
// reports an error for an incomplete escape sequence.
func Unquote(src string) ([]byte, error) {
	if len(src) < 2 || !strings.HasPrefix(src, `"`) || !strings.HasSuffix(src, `"`) {
		return nil, errors.New("missing quotations")
	}
	return escape.Unquote(mem.S(src[1 : len(src)-1]))
}

// Decode returns the decoded text of t in src. String tokens are unescaped;
// other tokens are returned as written. In case of an incomplete escape, the
// undecoded contents are returned.
func (t Token) Decode(src []byte) string {
	text := mem.B(t.Text(src))
	if t.Kind != String || mem.IndexByte(text, '\\') < 0 {
		return text.StringCopy()
	}
	dec, err := escape.Unquote(text)
	if err != nil {
		return text.StringCopy()
	}
	return string(dec)
}
