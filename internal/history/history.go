// Package history keeps a record of button activations in a SQLite database.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/chess10kp/buttonlauncher/internal/buttons"
	"github.com/chess10kp/buttonlauncher/internal/dispatch"
)

// Record is one stored activation.
type Record struct {
	ID         int64     `json:"id" yaml:"id"`
	Timestamp  time.Time `json:"timestamp" yaml:"timestamp"`
	ButtonID   string    `json:"button_id" yaml:"button_id"`
	Label      string    `json:"label" yaml:"label"`
	ActionType string    `json:"action_type" yaml:"action_type"`
	Status     string    `json:"status" yaml:"status"`
	Error      string    `json:"error,omitempty" yaml:"error,omitempty"`
	DurationMs int64     `json:"duration_ms" yaml:"duration_ms"`
}

// Count is the number of completed activations of one button.
type Count struct {
	ButtonID string
	Count    int
	Last     time.Time
}

type Store struct {
	db         *sql.DB
	maxEntries int
	mu         sync.Mutex
	now        func() time.Time
}

// Open creates or opens the database at dbPath. maxEntries bounds the number
// of rows kept; 0 keeps everything.
func Open(dbPath string, maxEntries int) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	s := &Store{db: db, maxEntries: maxEntries, now: time.Now}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS activations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp INTEGER NOT NULL,
		button_id TEXT NOT NULL,
		label TEXT NOT NULL,
		action_type TEXT NOT NULL,
		status TEXT NOT NULL,
		error TEXT,
		duration_ms INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_activations_timestamp ON activations(timestamp DESC);
	CREATE INDEX IF NOT EXISTS idx_activations_button ON activations(button_id);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create history schema: %w", err)
	}
	return nil
}

// Record stores one activation outcome and prunes the oldest rows beyond
// the configured limit. It satisfies dispatch.Recorder.
func (s *Store) Record(entry buttons.Entry, outcome dispatch.Outcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errText sql.NullString
	if outcome.Err != nil {
		errText = sql.NullString{String: outcome.Err.Error(), Valid: true}
	}

	_, err := s.db.Exec(
		`INSERT INTO activations (timestamp, button_id, label, action_type, status, error, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.now().UnixMilli(), entry.ID, entry.Label, entry.ActionType,
		outcome.Status.String(), errText, outcome.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert activation: %w", err)
	}

	return s.prune()
}

func (s *Store) prune() error {
	if s.maxEntries <= 0 {
		return nil
	}
	_, err := s.db.Exec(
		`DELETE FROM activations WHERE id NOT IN (
			SELECT id FROM activations ORDER BY id DESC LIMIT ?
		)`, s.maxEntries)
	if err != nil {
		return fmt.Errorf("failed to prune history: %w", err)
	}
	return nil
}

// Recent returns up to limit activations, newest first.
func (s *Store) Recent(limit int) ([]Record, error) {
	if limit <= 0 {
		return nil, errors.New("limit must be greater than 0")
	}

	rows, err := s.db.Query(
		`SELECT id, timestamp, button_id, label, action_type, status, error, duration_ms
		 FROM activations ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var ts int64
		var errText sql.NullString
		if err := rows.Scan(&r.ID, &ts, &r.ButtonID, &r.Label, &r.ActionType, &r.Status, &errText, &r.DurationMs); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		r.Timestamp = time.UnixMilli(ts)
		r.Error = errText.String
		records = append(records, r)
	}
	return records, rows.Err()
}

// Counts returns completed activations per button, most used first.
func (s *Store) Counts() ([]Count, error) {
	rows, err := s.db.Query(
		`SELECT button_id, COUNT(*), MAX(timestamp) FROM activations
		 WHERE status = ? GROUP BY button_id ORDER BY COUNT(*) DESC, MAX(timestamp) DESC`,
		dispatch.StatusCompleted.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query counts: %w", err)
	}
	defer rows.Close()

	var counts []Count
	for rows.Next() {
		var c Count
		var last int64
		if err := rows.Scan(&c.ButtonID, &c.Count, &last); err != nil {
			return nil, fmt.Errorf("failed to scan count row: %w", err)
		}
		c.Last = time.UnixMilli(last)
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// Clear removes all records.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec(`DELETE FROM activations`); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
