package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"coffee_roaster/internal/models"
)

var ErrRoastNotFound = errors.New("roast not found")

type RoastSQLite struct {
	db *sql.DB
}

func NewRoastSQLite(db *sql.DB) *RoastSQLite {
	return &RoastSQLite{db: db}
}

const (
	insertRoastSQL = `
		INSERT INTO roasts (id, started_at, finished_at, deadband, anchors)
		VALUES (?, ?, NULL, ?, ?)
	`

	finishRoastSQL = `
		UPDATE roasts SET finished_at=? WHERE id=?
	`

	selectRoastSQL = `
		SELECT id, started_at, finished_at, deadband, anchors
		FROM roasts WHERE id=?
	`
)

// marshalAnchors converts the profile anchors to a JSON string.
func marshalAnchors(a []models.AnchorPoint) (string, error) {
	b, err := json.Marshal(a)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// unmarshalAnchors parses a JSON string into anchors.
func unmarshalAnchors(s string) ([]models.AnchorPoint, error) {
	if s == "" {
		return nil, nil
	}
	var a []models.AnchorPoint
	if err := json.Unmarshal([]byte(s), &a); err != nil {
		return nil, err
	}
	return a, nil
}

// utcOrNow normalizes t to UTC, substituting now for the zero time.
func utcOrNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}

// Create inserts a new roast row.
func (r *RoastSQLite) Create(ctx context.Context, roast models.Roast) error {
	if roast.ID == "" {
		return fmt.Errorf("create roast: %w", ErrMissingRoastID)
	}
	anchors, err := marshalAnchors(roast.Anchors)
	if err != nil {
		return fmt.Errorf("marshal anchors: %w", err)
	}
	_, err = r.db.ExecContext(ctx, insertRoastSQL,
		roast.ID,
		utcOrNow(roast.StartedAt),
		roast.Deadband,
		anchors,
	)
	return err
}

// Finish stamps the roast's finish time.
func (r *RoastSQLite) Finish(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, finishRoastSQL, utcOrNow(at), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrRoastNotFound, id)
	}
	return nil
}

// Get loads one roast by id.
func (r *RoastSQLite) Get(ctx context.Context, id string) (models.Roast, error) {
	row := r.db.QueryRowContext(ctx, selectRoastSQL, id)

	var (
		roast      models.Roast
		finishedAt sql.NullTime
		anchors    string
	)
	if err := row.Scan(&roast.ID, &roast.StartedAt, &finishedAt, &roast.Deadband, &anchors); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Roast{}, fmt.Errorf("%w: %s", ErrRoastNotFound, id)
		}
		return models.Roast{}, err
	}
	a, err := unmarshalAnchors(anchors)
	if err != nil {
		return models.Roast{}, fmt.Errorf("unmarshal anchors: %w", err)
	}
	roast.Anchors = a
	roast.StartedAt = roast.StartedAt.UTC()
	if finishedAt.Valid {
		roast.FinishedAt = finishedAt.Time.UTC()
	}
	return roast, nil
}
