package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"coffee_roaster/internal/models"
)

// fakeEventRepo is a minimal stub that satisfies the repository.EventRepo interface.
type fakeEventRepo struct {
	mu sync.Mutex

	// captured inputs
	appends []models.RoastEvent
	gotCtx  context.Context
	gotID   string
	gotType string

	// configured outputs
	events    []models.RoastEvent
	err       error
	appendErr error

	calls int
}

func (f *fakeEventRepo) Append(ctx context.Context, e models.RoastEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appends = append(f.appends, e)
	return f.appendErr
}

func (f *fakeEventRepo) List(ctx context.Context, roastID, typ string) ([]models.RoastEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.gotCtx = ctx
	f.gotID = roastID
	f.gotType = typ
	return f.events, f.err
}

func (f *fakeEventRepo) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.appends))
	for _, e := range f.appends {
		out = append(out, e.Type)
	}
	return out
}

func (f *fakeEventRepo) ofType(typ string) []models.RoastEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.RoastEvent
	for _, e := range f.appends {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

// fakeRoastRepo records roast rows in memory.
type fakeRoastRepo struct {
	mu        sync.Mutex
	created   []models.Roast
	finished  map[string]time.Time
	createErr error
}

func (f *fakeRoastRepo) Create(ctx context.Context, r models.Roast) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, r)
	return nil
}

func (f *fakeRoastRepo) Finish(ctx context.Context, id string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.finished == nil {
		f.finished = map[string]time.Time{}
	}
	f.finished[id] = at
	return nil
}

func (f *fakeRoastRepo) Get(ctx context.Context, id string) (models.Roast, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.created {
		if r.ID == id {
			return r, nil
		}
	}
	return models.Roast{}, errors.New("not found")
}

// recordingSink keeps every record written to it.
type recordingSink struct {
	mu       sync.Mutex
	recs     []models.LogRecord
	writeErr error
	closed   bool
}

func (r *recordingSink) Write(_ context.Context, rec models.LogRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recs = append(r.recs, rec)
	return r.writeErr
}

func (r *recordingSink) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *recordingSink) records() []models.LogRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.LogRecord, len(r.recs))
	copy(out, r.recs)
	return out
}

func (r *recordingSink) isClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}
