package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/edgeinbox/internal/message"
	"github.com/nhle/edgeinbox/internal/pager"
	"github.com/nhle/edgeinbox/internal/source"
)

// SQLiteStore implements Store and source.Querier using a local SQLite
// database with the same mail table as the remote endpoint.
type SQLiteStore struct {
	db *sqlx.DB
}

var (
	_ Store          = (*SQLiteStore)(nil)
	_ source.Querier = (*SQLiteStore)(nil)
)

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// One connection, so ":memory:" databases are not split per connection.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// Backend returns source.BackendLocal.
func (s *SQLiteStore) Backend() source.Backend {
	return source.BackendLocal
}

// QueryPage runs q against the local mail table.
func (s *SQLiteStore) QueryPage(
	ctx context.Context,
	q pager.Query,
) (*message.QueryResult, error) {
	var mails []Mail
	if err := s.db.SelectContext(ctx, &mails, q.Statement, q.Params...); err != nil {
		return nil, fmt.Errorf("querying mail: %w", err)
	}

	rows := make([]message.RawMailRow, len(mails))
	for i, m := range mails {
		rows[i] = message.NewRawMailRow(m.Date, m.Sender, m.Recipients, m.Data)
	}
	return &message.QueryResult{Rows: rows}, nil
}

// InsertMail appends a message to the mail table.
func (s *SQLiteStore) InsertMail(
	ctx context.Context,
	m Mail,
	receivedAt time.Time,
) error {
	if receivedAt.IsZero() {
		receivedAt = time.Now()
	}
	m.Date = receivedAt.UTC().Format(DateLayout)

	_, err := s.db.NamedExecContext(ctx,
		"INSERT INTO mail (date, sender, recipients, data) "+
			"VALUES (:date, :sender, :recipients, :data)",
		m,
	)
	if err != nil {
		return fmt.Errorf("inserting mail for %s: %w", m.Recipients, err)
	}
	return nil
}

// DeleteOlderThan removes mail received before cutoff.
func (s *SQLiteStore) DeleteOlderThan(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM mail WHERE date < ?",
		cutoff.UTC().Format(DateLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("deleting old mail: %w", err)
	}
	return res.RowsAffected()
}

// CountMail returns the number of messages stored for recipient.
func (s *SQLiteStore) CountMail(ctx context.Context, recipient string) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM mail WHERE recipients = ?", recipient,
	)
	if err != nil {
		return 0, fmt.Errorf("counting mail for %s: %w", recipient, err)
	}
	return count, nil
}
