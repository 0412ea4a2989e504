package store

import (
	"context"
	"time"

	"github.com/nhle/edgeinbox/internal/message"
	"github.com/nhle/edgeinbox/internal/pager"
)

// Mail is one stored message as written by the receiving service.
type Mail struct {
	Date       string `db:"date"`
	Sender     string `db:"sender"`
	Recipients string `db:"recipients"`
	Data       string `db:"data"`
}

// DateLayout is the format the receiving service stores dates in (UTC).
const DateLayout = "2006-01-02 15:04:05.000"

// Store defines the local persistence interface for stored mail.
type Store interface {
	// QueryPage runs a page query built by the pager package.
	QueryPage(ctx context.Context, q pager.Query) (*message.QueryResult, error)

	// InsertMail stores a message. A zero receivedAt means now.
	InsertMail(ctx context.Context, m Mail, receivedAt time.Time) error

	// DeleteOlderThan removes mail received before cutoff and returns the
	// number of rows removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	// CountMail returns the number of stored messages for a recipient.
	CountMail(ctx context.Context, recipient string) (int, error)
}
