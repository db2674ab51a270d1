package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"coffee_roaster/internal/models"
)

const csvFileLayout = "2006-01-02_15-04-05"

// CSV writes elapsed,actual,desired,status rows and flushes after each one.
type CSV struct {
	mu     sync.Mutex
	w      *csv.Writer
	c      io.Closer
	path   string
	closed bool
}

// NewCSV writes rows to w. If w is an io.Closer, Close closes it.
func NewCSV(w io.Writer) *CSV {
	s := &CSV{w: csv.NewWriter(w)}
	if c, ok := w.(io.Closer); ok {
		s.c = c
	}
	return s
}

// CSVFileName returns the timestamped log file name for start.
func CSVFileName(start time.Time) string {
	return "data_log_" + start.Format(csvFileLayout) + ".csv"
}

// CreateCSVFile opens a new timestamped log file in dir for appending.
func CreateCSVFile(dir string, start time.Time) (*CSV, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir %s: %w", dir, err)
	}
	path := filepath.Join(dir, CSVFileName(start))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	s := NewCSV(f)
	s.path = path
	return s, nil
}

// Path returns the file path, empty when not file-backed.
func (s *CSV) Path() string { return s.path }

func (s *CSV) Write(_ context.Context, rec models.LogRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("csv sink closed")
	}
	row := []string{
		strconv.FormatFloat(rec.ElapsedS, 'f', -1, 64),
		strconv.FormatFloat(rec.MeasuredTempC, 'f', -1, 64),
		strconv.FormatFloat(rec.SetpointTempC, 'f', -1, 64),
		strconv.Itoa(rec.HeaterStatus()),
	}
	if err := s.w.Write(row); err != nil {
		return fmt.Errorf("write csv row: %w", err)
	}
	s.w.Flush()
	return s.w.Error()
}

// Close flushes and closes the file. Closing twice is a no-op.
func (s *CSV) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.w.Flush()
	err := s.w.Error()
	if s.c != nil {
		if cerr := s.c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
