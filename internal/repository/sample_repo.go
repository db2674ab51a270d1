package repository

import (
	"context"
	"database/sql"
	"fmt"

	"coffee_roaster/internal/models"
)

type SampleSQLite struct {
	db *sql.DB
}

func NewSampleSQLite(db *sql.DB) *SampleSQLite { return &SampleSQLite{db: db} }

const (
	insertSampleSQL = `
		INSERT INTO roast_samples (roast_id, recorded_at, elapsed_s, measured_c, setpoint_c, heater_on, phase)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	selectSamplesSQL = `
		SELECT roast_id, recorded_at, elapsed_s, measured_c, setpoint_c, heater_on, phase
		FROM roast_samples WHERE roast_id=? ORDER BY elapsed_s ASC, id ASC
	`
)

// Append stores one log record.
func (r *SampleSQLite) Append(ctx context.Context, rec models.LogRecord) error {
	if rec.RoastID == "" {
		return fmt.Errorf("append sample: %w", ErrMissingRoastID)
	}
	var phase *string
	if rec.Phase != "" {
		phase = &rec.Phase
	}
	_, err := r.db.ExecContext(ctx, insertSampleSQL,
		rec.RoastID,
		utcOrNow(rec.Timestamp),
		rec.ElapsedS,
		rec.MeasuredTempC,
		rec.SetpointTempC,
		rec.HeaterOn,
		phase,
	)
	return err
}

// List returns a roast's samples in elapsed-time order.
func (r *SampleSQLite) List(ctx context.Context, roastID string) ([]models.LogRecord, error) {
	rows, err := r.db.QueryContext(ctx, selectSamplesSQL, roastID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.LogRecord
	for rows.Next() {
		var rec models.LogRecord
		var phase sql.NullString
		if err := rows.Scan(&rec.RoastID, &rec.Timestamp, &rec.ElapsedS, &rec.MeasuredTempC, &rec.SetpointTempC, &rec.HeaterOn, &phase); err != nil {
			return nil, err
		}
		rec.Timestamp = rec.Timestamp.UTC()
		rec.Phase = phase.String
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
