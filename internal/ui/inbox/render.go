package inbox

import (
	"fmt"
	"strings"
	"time"

	"github.com/nhle/edgeinbox/internal/message"
	"github.com/nhle/edgeinbox/internal/pager"
	"github.com/nhle/edgeinbox/internal/source"
	"github.com/nhle/edgeinbox/internal/ui/preview"
)

// NoSubject is shown when a message has no Subject header.
const NoSubject = "no subject available"

// DateLayout formats the received column in local time.
const DateLayout = "2006-01-02 15:04"

// State is the kind of view produced for a page load.
type State int

const (
	StateLoading State = iota
	StateList
	StateEmpty
	StateError
)

// Entry is one rendered row of the inbox list.
type Entry struct {
	Sender   string
	Subject  string
	Received string
	Parsed   message.ParsedMessage
	Row      message.RawMailRow
}

// Preview returns the preview pane content for the entry.
func (e Entry) Preview() preview.Content {
	return preview.Content{
		From:     e.Sender,
		Subject:  e.Subject,
		Received: e.Received,
		Body:     e.Parsed.Body,
		Headers:  message.Headers(e.Row.RawMessage),
	}
}

// View is the render of one query result. It holds no references to the
// display surface.
type View struct {
	State   State
	Page    pager.PageState
	Entries []Entry
	// Message is the empty-state or error text.
	Message  string
	Previous pager.Link
	Next     pager.Link
}

// Loading is the view shown while a page is in flight.
func Loading(page pager.PageState) View {
	return View{
		State:   StateLoading,
		Page:    page,
		Message: fmt.Sprintf("Loading %s...", page.Address()),
	}
}

// Render builds the view for a completed query. err is the transport error,
// if any; res is ignored when err is set. Dates are formatted in loc.
func Render(
	page pager.PageState,
	res *message.QueryResult,
	err error,
	loc *time.Location,
) View {
	v := View{
		Page:     page,
		Previous: page.Previous(),
	}

	if err != nil {
		v.State = StateError
		v.Message = errorText(err)
		return v
	}

	if res.Len() == 0 {
		v.State = StateEmpty
		v.Message = fmt.Sprintf(
			"No messages for %s.\n\nPress r to reload.", page.Address(),
		)
		return v
	}

	v.State = StateList
	v.Next = page.Next(res.Len())
	v.Entries = make([]Entry, len(res.Rows))
	for i, row := range res.Rows {
		v.Entries[i] = renderEntry(row, loc)
	}
	return v
}

// renderEntry applies the display fallbacks to one parsed row.
func renderEntry(row message.RawMailRow, loc *time.Location) Entry {
	parsed := message.Parse(row)

	sender := preview.Inline(parsed.From)
	if sender == "" {
		sender = message.DisplaySafe(unbracket(row.EnvelopeSender))
	}

	subject := preview.Inline(parsed.Subject)
	if subject == "" {
		subject = NoSubject
	}

	return Entry{
		Sender:   sender,
		Subject:  subject,
		Received: formatReceived(row, loc),
		Parsed:   parsed,
		Row:      row,
	}
}

func unbracket(addr string) string {
	addr = strings.TrimSpace(addr)
	return strings.TrimSuffix(strings.TrimPrefix(addr, "<"), ">")
}

func formatReceived(row message.RawMailRow, loc *time.Location) string {
	if row.ReceivedAt.IsZero() {
		return message.DisplaySafe(row.ReceivedRaw)
	}
	if loc == nil {
		loc = time.Local
	}
	return row.ReceivedAt.In(loc).Format(DateLayout)
}

// errorText is the inline error message. A non-200 response shows its raw
// body; other failures show the error itself.
func errorText(err error) string {
	if statusErr, ok := source.AsStatusError(err); ok {
		return message.DisplaySafe(fmt.Sprintf(
			"Request failed (%d):\n\n%s", statusErr.Code, statusErr.Body,
		))
	}
	return message.DisplaySafe("Request failed:\n\n" + err.Error())
}
