package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"coffee_roaster/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func ctx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)
	return c
}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestEventAppend_Success_WithDefaults(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := NewEventSQLite(db)

	mock.ExpectExec(regexp.QuoteMeta(`
		INSERT INTO roast_events (id, roast_id, occurred_at, type, message, meta)
		VALUES (?, ?, ?, ?, ?, ?)
	`)).
		WithArgs(sqlmock.AnyArg(), "roast-1", sqlmock.AnyArg(),
			"HEATER_ON", "heater switched on",
			`{"measured_temp_c":101.5}`,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Append(ctx(t), models.RoastEvent{
		// EventID empty -> repo generates
		// OccurredAt zero -> repo sets UTC now
		RoastID:     "roast-1",
		Type:        "  heater_on ",
		Description: "heater switched on",
		Metadata:    map[string]any{"measured_temp_c": 101.5},
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestEventAppend_RequiresRoastID(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := NewEventSQLite(db)

	if err := repo.Append(ctx(t), models.RoastEvent{Type: models.EventStart}); err == nil {
		t.Fatalf("expected error without roast id")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("no statement should run: %v", err)
	}
}

func TestEventAppend_DBError(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := NewEventSQLite(db)

	mock.ExpectExec("INSERT INTO roast_events").
		WillReturnError(errors.New("down"))

	err := repo.Append(ctx(t), models.RoastEvent{
		RoastID:     "r",
		Type:        models.EventStop,
		Description: "x",
	})
	if err == nil || !strings.Contains(err.Error(), "down") {
		t.Fatalf("expected error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestEventList_ByRoast_And_MetadataParsing(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := NewEventSQLite(db)

	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	js, _ := json.Marshal(map[string]any{"phase": "DRYING"})

	rows := sqlmock.NewRows([]string{"id", "roast_id", "occurred_at", "type", "message", "meta"}).
		AddRow("1", "r1", now, "START", "roast started", nil).
		AddRow("2", "r1", now.Add(time.Minute), "PHASE_CHANGE", "entered DRYING", string(js)).
		AddRow("3", "r1", now.Add(2*time.Minute), "STOP", "roast stopped", "not json")

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, roast_id, occurred_at, type, message, meta FROM roast_events WHERE roast_id = ? ORDER BY occurred_at ASC`)).
		WithArgs("r1").
		WillReturnRows(rows)

	got, err := repo.List(ctx(t), "r1", "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("want 3, got %d", len(got))
	}
	if got[0].Metadata != nil {
		t.Fatalf("expected nil meta, got %#v", got[0].Metadata)
	}
	b, _ := json.Marshal(got[1].Metadata)
	if string(b) != string(js) {
		t.Fatalf("metadata mismatch: %s vs %s", b, js)
	}
	if got[2].Metadata != "not json" {
		t.Fatalf("malformed meta should be kept raw, got %#v", got[2].Metadata)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestEventList_WithTypeFilter(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := NewEventSQLite(db)

	query := `SELECT id, roast_id, occurred_at, type, message, meta FROM roast_events WHERE roast_id = ? AND type = ? ORDER BY occurred_at ASC`
	at := time.Date(2026, 1, 1, 11, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "roast_id", "occurred_at", "type", "message", "meta"}).
		AddRow("7", "r1", at, "HEATER_OFF", "heater switched off", nil)

	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs("r1", "HEATER_OFF").
		WillReturnRows(rows)

	got, err := repo.List(ctx(t), "r1", " heater_off ")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].EventID != "7" {
		t.Fatalf("unexpected results: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestEventList_ScanError(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := NewEventSQLite(db)

	rows := sqlmock.NewRows([]string{"id", "roast_id", "occurred_at", "type", "message", "meta"}).
		// occurred_at wrong type to force scan error
		AddRow("x", "r1", 123, "START", "msg", nil)

	mock.ExpectQuery("FROM roast_events").WillReturnRows(rows)

	if _, err := repo.List(ctx(t), "r1", ""); err == nil {
		t.Fatalf("expected scan error, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}
