// Package qp decodes the quoted-printable text produced by the edgemail
// sending path. It is deliberately narrower than mime/quotedprintable: it
// never fails, it tolerates CR, LF and CRLF line endings, and it applies a
// few substitutions for encoder artifacts before decoding.
package qp

import (
	"regexp"
	"strings"
)

// LineBreak replaces the non-breaking space escape. The sender uses =C2=A0
// as a paragraph separator, so it is rendered as a break rather than a space.
const LineBreak = "<br>"

var zeroWidthEscapes = []string{"=E2=80=8A", "=E2=80=8B", "=E2=80=8C"}

var (
	trailingSpace = regexp.MustCompile(`[ \t]+(\r\n|\r|\n|$)`)
	softBreak     = regexp.MustCompile(`=(\r\n|\r|\n|$)`)
	hexEscape     = regexp.MustCompile(`=[0-9A-Fa-f]{2}`)
)

// Sanitize decodes escape sequences and soft line breaks in text. Each step
// runs on the output of the previous one:
//
//  1. zero-width space escapes are dropped
//  2. =C2=A0 becomes LineBreak
//  3. =E2=80=99 becomes an ASCII apostrophe
//  4. trailing tabs and spaces are trimmed from every line
//  5. soft line breaks ("=" before a line ending or end of input) are removed
//  6. remaining =XX escapes are decoded to the byte 0xXX
//
// Any "=" not consumed by steps 5 or 6 is kept verbatim. Text without any
// "=" carries no encoding and is returned unchanged.
func Sanitize(text string) string {
	if !strings.Contains(text, "=") {
		return text
	}

	for _, esc := range zeroWidthEscapes {
		text = replaceFold(text, esc, "")
	}
	text = replaceFold(text, "=C2=A0", LineBreak)
	text = replaceFold(text, "=E2=80=99", "'")
	text = trimTrailingSpace(text)
	text = softBreak.ReplaceAllString(text, "")

	return hexEscape.ReplaceAllStringFunc(text, func(esc string) string {
		return string([]byte{unhex(esc[1])<<4 | unhex(esc[2])})
	})
}

func trimTrailingSpace(text string) string {
	if !strings.ContainsAny(text, " \t") {
		return text
	}
	return trailingSpace.ReplaceAllString(text, "$1")
}

// replaceFold replaces every case-insensitive occurrence of the ASCII
// escape old with repl.
func replaceFold(text, old, repl string) string {
	upper := asciiUpper(text)
	if !strings.Contains(upper, old) {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	for {
		i := strings.Index(upper, old)
		if i < 0 {
			b.WriteString(text)
			return b.String()
		}
		b.WriteString(text[:i])
		b.WriteString(repl)
		text = text[i+len(old):]
		upper = upper[i+len(old):]
	}
}

// asciiUpper upper-cases ASCII letters only, keeping byte offsets aligned
// with the input.
func asciiUpper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'a' <= c && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}
