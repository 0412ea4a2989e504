// Package message turns raw stored messages into display fields. It
// targets the simple "Header: value" messages written by the edgemail
// receiver and is not a general MIME parser.
package message

import (
	"strings"
	"unicode"

	"github.com/nhle/edgeinbox/internal/qp"
)

// encodedWordPrefix is the charset token of a UTF-8 encoded-word. The full
// preamble ("=?utf-8?Q?") is encodedWordPreambleLen bytes long.
const (
	encodedWordPrefix      = "=?utf-8?"
	encodedWordPreambleLen = 10
	encodedWordSuffix      = "?="
)

var fromEscaper = strings.NewReplacer("<", "&lt;", ">", "&gt;")

// Extract derives the From, Subject and body fields from a raw message.
// It never fails: a header that cannot be found yields an empty field.
func Extract(raw string) ParsedMessage {
	from, _ := headerValue(raw, "From: ", "FROM: ")
	subject, _ := headerValue(raw, "Subject: ", "SUBJECT: ")

	return ParsedMessage{
		From:    DisplaySafe(decodeHeader(fromEscaper.Replace(from))),
		Subject: DisplaySafe(decodeHeader(subject)),
		Body:    DisplaySafe(qp.Sanitize(bodyRegion(raw))),
	}
}

// Parse extracts the display fields of a stored row.
func Parse(row RawMailRow) ParsedMessage {
	return Extract(row.RawMessage)
}

// headerValue returns the value of the first line starting with primary,
// or with fallback when primary does not occur at all. The value runs to
// the next CR or LF.
func headerValue(raw, primary, fallback string) (string, bool) {
	start, ok := lineIndex(raw, primary)
	if !ok {
		start, ok = lineIndex(raw, fallback)
		if !ok {
			return "", false
		}
		start += len(fallback)
	} else {
		start += len(primary)
	}

	value := raw[start:]
	if end := strings.IndexAny(value, "\r\n"); end >= 0 {
		value = value[:end]
	}
	return value, true
}

// lineIndex finds prefix at the start of a line. A match at position 0 is
// a match.
func lineIndex(raw, prefix string) (int, bool) {
	offset := 0
	for {
		i := strings.Index(raw[offset:], prefix)
		if i < 0 {
			return 0, false
		}
		pos := offset + i
		if pos == 0 || raw[pos-1] == '\n' || raw[pos-1] == '\r' {
			return pos, true
		}
		offset = pos + 1
	}
}

// decodeHeader strips the encoded-word preamble and sanitizes the rest.
// Values that are not UTF-8 encoded-words are returned unchanged.
func decodeHeader(value string) string {
	if len(value) < encodedWordPreambleLen ||
		!strings.EqualFold(value[:len(encodedWordPrefix)], encodedWordPrefix) {
		return value
	}
	value = strings.TrimSuffix(value[encodedWordPreambleLen:], encodedWordSuffix)
	return qp.Sanitize(value)
}

// bodyRegion returns the message from its <body> tag, or failing that from
// the first blank line. A message with neither is returned whole.
func bodyRegion(raw string) string {
	for _, marker := range []string{"<body", "<BODY", "\r\n\r\n", "\n\n"} {
		if i := strings.Index(raw, marker); i >= 0 {
			return raw[i:]
		}
	}
	return raw
}

// DisplaySafe drops control characters that a terminal would interpret,
// keeping tab, CR and LF.
func DisplaySafe(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\t', '\r', '\n':
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
