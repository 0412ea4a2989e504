package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/nhle/edgeinbox/internal/store"
)

// SeedBase is the received time of the first message written by SeedMail.
var SeedBase = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// NewTestStore creates an in-memory SQLiteStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// SeedMail appends n messages for recipient, one minute apart starting at
// SeedBase. Message i has the subject "message i".
func SeedMail(t *testing.T, s *store.SQLiteStore, recipient string, n int) {
	t.Helper()

	for i := 0; i < n; i++ {
		err := s.InsertMail(context.Background(), store.Mail{
			Sender:     "<sender@example.com>",
			Recipients: recipient,
			Data: fmt.Sprintf(
				"From: Sender <sender@example.com>\r\nSubject: message %d\r\n\r\nbody %d",
				i, i,
			),
		}, SeedBase.Add(time.Duration(i)*time.Minute))
		if err != nil {
			t.Fatalf("seeding mail: %v", err)
		}
	}
}
