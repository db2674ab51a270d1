package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"coffee_roaster/internal/models"

	"github.com/google/uuid"
)

// ErrMissingRoastID is returned when a row would not belong to any roast.
var ErrMissingRoastID = errors.New("roast id is required")

type EventSQLite struct {
	db *sql.DB
}

func NewEventSQLite(db *sql.DB) *EventSQLite { return &EventSQLite{db: db} }

const (
	insertEventSQL = `
		INSERT INTO roast_events (id, roast_id, occurred_at, type, message, meta)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	selectEventsSQL = `SELECT id, roast_id, occurred_at, type, message, meta FROM roast_events`
)

// Append inserts a new event. A missing EventID or OccurredAt is filled in.
func (r *EventSQLite) Append(ctx context.Context, e models.RoastEvent) error {
	if e.RoastID == "" {
		return fmt.Errorf("append event: %w", ErrMissingRoastID)
	}
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, insertEventSQL,
		e.EventID,
		e.RoastID,
		utcOrNow(e.OccurredAt),
		normalizeType(e.Type),
		e.Description,
		encodeMeta(e.Metadata),
	)
	return err
}

// List returns a roast's events in the order they occurred. An empty typ
// lists every type.
func (r *EventSQLite) List(ctx context.Context, roastID, typ string) ([]models.RoastEvent, error) {
	q, args := eventQuery(roastID, normalizeType(typ))
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.RoastEvent
	for rows.Next() {
		var (
			ev   models.RoastEvent
			meta sql.NullString
			at   time.Time
		)
		if err := rows.Scan(&ev.EventID, &ev.RoastID, &at, &ev.Type, &ev.Description, &meta); err != nil {
			return nil, err
		}
		ev.OccurredAt = at.UTC()
		ev.Metadata = decodeMeta(meta)
		out = append(out, ev)
	}
	return out, rows.Err()
}

func eventQuery(roastID, typ string) (string, []any) {
	conds := []string{"roast_id = ?"}
	args := []any{roastID}
	if typ != "" {
		conds = append(conds, "type = ?")
		args = append(args, typ)
	}
	return selectEventsSQL + " WHERE " + strings.Join(conds, " AND ") + " ORDER BY occurred_at ASC", args
}

func normalizeType(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// encodeMeta stores metadata as JSON, NULL when absent or unencodable.
func encodeMeta(v any) *string {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	s := string(b)
	return &s
}

// decodeMeta keeps the raw text when it is not valid JSON.
func decodeMeta(ns sql.NullString) any {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	var v any
	if err := json.Unmarshal([]byte(ns.String), &v); err != nil {
		return ns.String
	}
	return v
}
