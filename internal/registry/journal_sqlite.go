package registry

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/nerrad567/gray-logic-upnp/internal/meta"
)

// Journal event kinds as stored in the registry_events table.
const (
	JournalEventAdded   = "added"
	JournalEventRemoved = "removed"
)

const (
	defaultJournalLimit = 50
	maxJournalLimit     = 200
)

// JournalEntry is one recorded lifecycle event.
type JournalEntry struct {
	ID           int64
	UDN          string
	Event        string
	FriendlyName string
	DeviceType   string
	Origin       string
	CreatedAt    time.Time
}

// SQLiteJournal is a registry Listener that records device lifecycle
// events in the registry_events table. Write failures are logged, not
// propagated; the registry must never stall on its journal.
type SQLiteJournal struct {
	db     *sql.DB
	logger Logger
}

var _ Listener = (*SQLiteJournal)(nil)

// NewSQLiteJournal creates a journal over an open SQLite connection.
// The registry_events table must exist (applied by migrations).
func NewSQLiteJournal(db *sql.DB) *SQLiteJournal {
	return &SQLiteJournal{db: db, logger: noopLogger{}}
}

// SetLogger sets the logger for the journal.
func (j *SQLiteJournal) SetLogger(logger Logger) {
	j.logger = logger
}

// DeviceAdded records a registration.
func (j *SQLiteJournal) DeviceAdded(d *meta.Device, local bool) {
	j.record(JournalEventAdded, d, local)
}

// DeviceRemoved records a removal or expiration.
func (j *SQLiteJournal) DeviceRemoved(d *meta.Device, local bool) {
	j.record(JournalEventRemoved, d, local)
}

func (j *SQLiteJournal) record(event string, d *meta.Device, local bool) {
	origin := "remote"
	if local {
		origin = "local"
	}

	_, err := j.db.ExecContext(context.Background(),
		`INSERT INTO registry_events (udn, event, friendly_name, device_type, origin)
		 VALUES (?, ?, ?, ?, ?)`,
		string(d.UDN()),
		event,
		d.Details.FriendlyName,
		d.Type.String(),
		origin,
	)
	if err != nil {
		j.logger.Error("recording registry event",
			"udn", d.UDN(), "event", event, "error", err)
	}
}

// Recent returns the most recent lifecycle events, newest first.
// Limit defaults to 50 and is capped at 200.
func (j *SQLiteJournal) Recent(ctx context.Context, limit int) ([]JournalEntry, error) {
	if limit <= 0 {
		limit = defaultJournalLimit
	}
	if limit > maxJournalLimit {
		limit = maxJournalLimit
	}

	rows, err := j.db.QueryContext(ctx,
		`SELECT id, udn, event, friendly_name, device_type, origin, created_at
		 FROM registry_events
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying registry events: %w", err)
	}
	defer rows.Close()

	entries := make([]JournalEntry, 0, limit)
	for rows.Next() {
		var e JournalEntry
		var createdAt string
		if err := rows.Scan(&e.ID, &e.UDN, &e.Event, &e.FriendlyName, &e.DeviceType, &e.Origin, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning registry event: %w", err)
		}
		e.CreatedAt, err = parseJournalTimestamp(createdAt)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating registry events: %w", err)
	}
	return entries, nil
}

// parseJournalTimestamp parses a timestamp stored in SQLite.
func parseJournalTimestamp(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("created_at is empty")
	}

	timestamp, err := time.Parse(time.RFC3339, value)
	if err == nil {
		return timestamp, nil
	}

	fallback, fallbackErr := time.Parse("2006-01-02 15:04:05", value)
	if fallbackErr == nil {
		return fallback, nil
	}

	return time.Time{}, fmt.Errorf("parsing created_at: %w", err)
}
