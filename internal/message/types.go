package message

import "time"

// RawMailRow is one stored message as returned by the query endpoint.
type RawMailRow struct {
	// ReceivedAt is the parsed storage timestamp. It is zero when
	// ReceivedRaw could not be parsed.
	ReceivedAt  time.Time
	ReceivedRaw string

	// EnvelopeSender is angle-bracket wrapped, e.g. "<a@b>".
	EnvelopeSender     string
	EnvelopeRecipients string
	RawMessage         string
}

// ParsedMessage holds the display fields derived from a RawMailRow.
// Body is sanitized HTML and is shown without further escaping.
type ParsedMessage struct {
	From    string
	Subject string
	Body    string
}

// QueryResult is one page of rows, most recent first.
type QueryResult struct {
	Rows []RawMailRow
}

// Len returns the number of rows in the page.
func (r *QueryResult) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// timestampLayouts are the formats the storage service has written over time.
var timestampLayouts = []string{
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999 MST",
	time.RFC3339Nano,
}

// ParseTimestamp parses a stored date column. Stored dates are UTC.
func ParseTimestamp(raw string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NewRawMailRow builds a row from the four stored columns.
func NewRawMailRow(date, sender, recipients, data string) RawMailRow {
	row := RawMailRow{
		ReceivedRaw:        date,
		EnvelopeSender:     sender,
		EnvelopeRecipients: recipients,
		RawMessage:         data,
	}
	if t, ok := ParseTimestamp(date); ok {
		row.ReceivedAt = t
	}
	return row
}
