// Package audit keeps a local trail of console actions in SQLite, fed by
// the event bus. The trail is diagnostic: a write failure is logged and
// never blocks the action itself.
package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"frontdesk/internal/events"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

type Entry struct {
	ID        int64     `json:"id"`
	Action    string    `json:"action"`
	Actor     string    `json:"actor"`
	Resource  string    `json:"resource"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}

type Log struct {
	db     *sql.DB
	logger *zerolog.Logger
}

func Open(path string, logger *zerolog.Logger) (*Log, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create audit directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to audit database: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS audit_log (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        action TEXT NOT NULL,
        actor TEXT,
        resource TEXT,
        detail TEXT,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    )`); err != nil {
		return nil, fmt.Errorf("failed to create audit table: %w", err)
	}

	return &Log{db: db, logger: logger}, nil
}

func (l *Log) Close() error {
	return l.db.Close()
}

// Record appends one entry to the trail.
func (l *Log) Record(ctx context.Context, action, actor, resource, detail string) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO audit_log (action, actor, resource, detail) VALUES (?, ?, ?, ?)`,
		action, actor, resource, detail,
	)
	if err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return nil
}

// List returns entries recorded at or after since, newest first.
func (l *Log) List(ctx context.Context, since time.Time, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, action, actor, resource, detail, created_at
         FROM audit_log WHERE created_at >= ? ORDER BY created_at DESC, id DESC LIMIT ?`,
		since.UTC(), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Action, &e.Actor, &e.Resource, &e.Detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Subscribe wires the trail to the console's domain events.
func (l *Log) Subscribe(bus *events.EventBus) {
	reservationEvents := []string{
		events.EventReservationCreated,
		events.EventReservationUpdated,
		events.EventReservationDeleted,
		events.EventReservationStatusChanged,
	}
	for _, eventType := range reservationEvents {
		bus.Subscribe(eventType, l.handleReservationEvent)
	}
	bus.Subscribe(events.EventSessionLogin, l.handleSessionEvent)
	bus.Subscribe(events.EventSessionLogout, l.handleSessionEvent)
}

func (l *Log) handleReservationEvent(event *events.Event) error {
	var payload events.ReservationEventPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		l.logger.Warn().Err(err).Str("event", event.Type).Msg("malformed reservation event payload")
		return err
	}

	if err := l.Record(context.Background(), event.Type, payload.Actor, payload.ReservationID, string(event.Payload)); err != nil {
		l.logger.Error().Err(err).Str("event", event.Type).Msg("failed to audit reservation event")
		return err
	}
	return nil
}

func (l *Log) handleSessionEvent(event *events.Event) error {
	var payload events.SessionEventPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		l.logger.Warn().Err(err).Str("event", event.Type).Msg("malformed session event payload")
		return err
	}

	if err := l.Record(context.Background(), event.Type, payload.UserID, "", string(event.Payload)); err != nil {
		l.logger.Error().Err(err).Str("event", event.Type).Msg("failed to audit session event")
		return err
	}
	return nil
}
