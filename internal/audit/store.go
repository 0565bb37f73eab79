// Package audit persists communication events into an append-only sqlite
// log. The store implements the event bus Observer interface, so a hosting
// application opts in simply by attaching it.
package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/docforge/docforge/internal/domain"
)

// Store is a sqlite-backed event log.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ domain.Observer = (*Store)(nil)

// Open creates or opens the event log at path.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	store := &Store{db: db, logger: logger}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize audit schema: %w", err)
	}
	return store, nil
}

func (s *Store) initSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		timestamp TIMESTAMP NOT NULL,
		source TEXT NOT NULL,
		target TEXT NOT NULL,
		type TEXT NOT NULL,
		message TEXT NOT NULL,
		data TEXT,
		duration_ms INTEGER,
		correlation TEXT
	)`)
	return err
}

// OnEvent appends one event. Failures are logged, never surfaced: the audit
// trail must not break the pipeline.
func (s *Store) OnEvent(event domain.CommunicationEvent) {
	var data sql.NullString
	if len(event.Data) > 0 {
		if b, err := json.Marshal(event.Data); err == nil {
			data = sql.NullString{String: string(b), Valid: true}
		}
	}

	var durationMS sql.NullInt64
	if event.Duration > 0 {
		durationMS = sql.NullInt64{Int64: event.Duration.Milliseconds(), Valid: true}
	}

	_, err := s.db.Exec(
		`INSERT INTO events (id, timestamp, source, target, type, message, data, duration_ms, correlation)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.Timestamp.UTC(), event.Source, event.Target,
		string(event.Type), event.Message, data, durationMS, event.Correlation,
	)
	if err != nil {
		s.logger.Error("failed to append audit event",
			slog.String("event_id", event.ID),
			slog.String("error", err.Error()),
		)
	}
}

// Recent returns up to limit events, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]domain.CommunicationEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, timestamp, source, target, type, message, data, duration_ms, correlation
		 FROM events ORDER BY timestamp DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []domain.CommunicationEvent
	for rows.Next() {
		var (
			event      domain.CommunicationEvent
			eventType  string
			ts         time.Time
			data       sql.NullString
			durationMS sql.NullInt64
		)
		if err := rows.Scan(&event.ID, &ts, &event.Source, &event.Target,
			&eventType, &event.Message, &data, &durationMS, &event.Correlation); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		event.Timestamp = ts
		event.Type = domain.EventType(eventType)
		if data.Valid {
			_ = json.Unmarshal([]byte(data.String), &event.Data)
		}
		if durationMS.Valid {
			event.Duration = time.Duration(durationMS.Int64) * time.Millisecond
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
