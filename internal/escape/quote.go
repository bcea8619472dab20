// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package escape

import (
	"unicode/utf8"

	"go4.org/mem"
)

var controlEsc = [...]byte{
	'\b': 'b',
	'\f': 'f',
	'\n': 'n',
	'\r': 'r',
	'\t': 't',
	' ':  ' ', // sentinel
}

var hexDigit = []byte("0123456789abcdef")

// Append appends the escaped contents of src to dst, without quotation
// marks, and returns the extended slice.
func Append(dst []byte, src mem.RO) []byte {
	for src.Len() != 0 {
		r, n := mem.DecodeRune(src)
		if r < utf8.RuneSelf {
			if r < ' ' {
				if b := controlEsc[r]; b != 0 {
					dst = append(dst, '\\', b)
				} else {
					dst = append(dst, '\\', 'u', '0', '0', hexDigit[int(r>>4)], hexDigit[int(r&15)])
				}
			} else if r == '\\' || r == '"' {
				dst = append(dst, '\\', byte(r))
			} else {
				dst = append(dst, byte(r))
			}
			src = src.SliceFrom(n)
			continue
		}

		switch r {
		case '\ufffd': // replacement rune, also reported for invalid UTF-8
			dst = append(dst, `\ufffd`...)
		case '\u2028': // line separator
			dst = append(dst, `\u2028`...)
		case '\u2029': // paragraph separator
			dst = append(dst, `\u2029`...)
		default:
			dst = utf8.AppendRune(dst, r)
		}
		src = src.SliceFrom(max(n, 1))
	}
	return dst
}

// AppendQuote appends src to dst as a quoted JSON string.
func AppendQuote(dst []byte, src mem.RO) []byte {
	dst = append(dst, '"')
	dst = Append(dst, src)
	return append(dst, '"')
}

// Match reports whether the undecoded string contents raw denote the same
// string as want. Contents without escapes are compared directly.
func Match(raw, want mem.RO) bool {
	if mem.IndexByte(raw, '\\') < 0 {
		return raw.Equal(want)
	}
	dec, err := Unquote(raw)
	return err == nil && mem.B(dec).Equal(want)
}
