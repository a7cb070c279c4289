// Package history remembers which candidate the user accepted for which
// input, so later suggestions can rank and preselect it.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrClosed is returned by every operation after Close.
var ErrClosed = errors.New("history: closed")

const schema = `
CREATE TABLE IF NOT EXISTS selections (
    input         TEXT NOT NULL,
    word          TEXT NOT NULL,
    count         INTEGER NOT NULL DEFAULT 0,
    last_used_ns  INTEGER NOT NULL,
    PRIMARY KEY (input, word)
);

CREATE INDEX IF NOT EXISTS idx_selections_word ON selections(word);
`

// Store is the SQLite selection history.
type Store struct {
	mu     sync.RWMutex
	db     *sql.DB
	now    func() time.Time
	closed bool
}

// Open opens or creates the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// Ping verifies the database is reachable and reports how many
// selections it holds.
func (s *Store) Ping(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, ErrClosed
	}
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM selections`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count selections: %w", err)
	}
	return n, nil
}

// Record notes that word was accepted for input.
func (s *Store) Record(input, word string) error {
	if input == "" || word == "" {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}

	_, err := s.db.Exec(`
		INSERT INTO selections (input, word, count, last_used_ns) VALUES (?, ?, 1, ?)
		ON CONFLICT(input, word) DO UPDATE SET
			count = count + 1,
			last_used_ns = excluded.last_used_ns`,
		input, word, s.now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("record selection: %w", err)
	}
	return nil
}

// Suggest returns up to limit previously accepted words that start with
// prefix, most accepted first, then most recent.
func (s *Store) Suggest(prefix string, limit int) ([]string, error) {
	if prefix == "" || limit <= 0 {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	rows, err := s.db.Query(`
		SELECT word FROM selections
		WHERE substr(word, 1, length(?1)) = ?1
		GROUP BY word
		ORDER BY SUM(count) DESC, MAX(last_used_ns) DESC, word
		LIMIT ?2`,
		prefix, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query suggestions: %w", err)
	}
	defer rows.Close()

	var words []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, fmt.Errorf("scan suggestion: %w", err)
		}
		words = append(words, w)
	}
	return words, rows.Err()
}

// Preferred returns the word most often accepted for exactly input.
func (s *Store) Preferred(input string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", false, ErrClosed
	}

	var word string
	err := s.db.QueryRow(`
		SELECT word FROM selections
		WHERE input = ?
		ORDER BY count DESC, last_used_ns DESC, word
		LIMIT 1`,
		input,
	).Scan(&word)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query preferred: %w", err)
	}
	return word, true, nil
}
