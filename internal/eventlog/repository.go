package eventlog

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dilasgoi/eessi-monitor/internal/database"
)

// Repository defines the persistence interface for events.
type Repository interface {
	Save(event *Event) error
	List(limit int) ([]Event, error)
	ListByLevel(level string, limit int) ([]Event, error)
	Prune(olderThan time.Duration) (int64, error)
	Close() error
}

// SQLiteRepository implements Repository backed by a local SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

// Open creates or opens the event repository at the default path.
func Open() (*SQLiteRepository, error) {
	path, err := database.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("eventlog: %w", err)
	}
	return OpenAt(path)
}

// OpenAt creates or opens a SQLite database at the given path.
func OpenAt(path string) (*SQLiteRepository, error) {
	db, err := database.Open(path)
	if err != nil {
		return nil, fmt.Errorf("eventlog: %w", err)
	}

	r := &SQLiteRepository{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func (r *SQLiteRepository) migrate() error {
	const ddl = `
        CREATE TABLE IF NOT EXISTS events (
            id         INTEGER PRIMARY KEY AUTOINCREMENT,
            timestamp  TEXT NOT NULL,
            level      TEXT NOT NULL,
            component  TEXT NOT NULL DEFAULT '',
            repository TEXT NOT NULL DEFAULT '',
            server     TEXT NOT NULL DEFAULT '',
            message    TEXT NOT NULL DEFAULT ''
        );
        CREATE INDEX IF NOT EXISTS idx_events_timestamp ON events(timestamp);
        CREATE INDEX IF NOT EXISTS idx_events_level ON events(level);
        CREATE INDEX IF NOT EXISTS idx_events_component ON events(component);
    `
	if _, err := r.db.Exec(ddl); err != nil {
		return fmt.Errorf("eventlog: migration failed: %w", err)
	}
	return nil
}

// Save inserts a new event.
func (r *SQLiteRepository) Save(event *Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	result, err := r.db.Exec(`
        INSERT INTO events (timestamp, level, component, repository, server, message)
        VALUES (?, ?, ?, ?, ?, ?)`,
		event.Timestamp.Format(time.RFC3339Nano), event.Level, event.Component,
		event.Repository, event.Server, event.Message,
	)
	if err != nil {
		return fmt.Errorf("eventlog: insert failed: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("eventlog: failed to get last insert ID: %w", err)
	}
	event.ID = id
	return nil
}

// List returns the most recent n events.
func (r *SQLiteRepository) List(limit int) ([]Event, error) {
	rows, err := r.db.Query(`
        SELECT id, timestamp, level, component, repository, server, message
        FROM events ORDER BY timestamp DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("eventlog: query failed: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

// ListByLevel returns the most recent n events with the given level.
func (r *SQLiteRepository) ListByLevel(level string, limit int) ([]Event, error) {
	rows, err := r.db.Query(`
        SELECT id, timestamp, level, component, repository, server, message
        FROM events WHERE level = ? ORDER BY timestamp DESC LIMIT ?`, level, limit)
	if err != nil {
		return nil, fmt.Errorf("eventlog: query failed: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

// Prune deletes events older than the given duration.
func (r *SQLiteRepository) Prune(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan).Format(time.RFC3339Nano)
	result, err := r.db.Exec(`DELETE FROM events WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("eventlog: delete failed: %w", err)
	}
	return result.RowsAffected()
}

// Close releases database resources.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func scanRows(rows *sql.Rows) ([]Event, error) {
	var events []Event
	for rows.Next() {
		var event Event
		var timestampStr string
		err := rows.Scan(
			&event.ID, &timestampStr, &event.Level, &event.Component,
			&event.Repository, &event.Server, &event.Message,
		)
		if err != nil {
			return nil, fmt.Errorf("eventlog: scan failed: %w", err)
		}
		event.Timestamp, _ = time.Parse(time.RFC3339Nano, timestampStr)
		events = append(events, event)
	}
	return events, rows.Err()
}
