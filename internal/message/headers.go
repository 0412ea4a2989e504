package message

import (
	"bufio"
	"strings"

	"github.com/emersion/go-message/textproto"
)

// HeaderField is one raw header line of a stored message.
type HeaderField struct {
	Key   string
	Value string
}

// Headers lists the header fields of raw. Values
// are raw (not decoded) and made display safe. It returns nil when the
// header block cannot be read, which happens for messages stored without
// a terminating blank line.
func Headers(raw string) []HeaderField {
	h, err := textproto.ReadHeader(bufio.NewReader(strings.NewReader(raw)))
	if err != nil {
		return nil
	}

	var fields []HeaderField
	for f := h.Fields(); f.Next(); {
		fields = append(fields, HeaderField{
			Key:   DisplaySafe(f.Key()),
			Value: DisplaySafe(f.Value()),
		})
	}
	return fields
}
