// Package store provides SQLite persistence for bobfriend.
//
// The schema mirrors the key/value contract of the original web app: string
// keys under the "bobfriend-" prefix, JSON-encoded values. Keeping that shape
// makes the persisted state directly comparable to a browser's local storage
// dump of the same app.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const (
	keyWatched     = "bobfriend-watched-videos"
	keyHistory     = "bobfriend-watch-history"
	keyLastWatched = "bobfriend-last-watched"
	keyFirstUse    = "bobfriend-first-use"
)

// WatchRecord is the immutable summary of one viewing session. Catalog
// fields are copied at record time so history survives catalog changes.
// SelectedTime and SelectedMood hold the selection context actually used,
// which can differ from the video's own tags after a "show another" flow.
type WatchRecord struct {
	ID           string    `json:"id"`
	ReceiptID    string    `json:"receiptId"`
	Title        string    `json:"title"`
	Thumbnail    string    `json:"thumbnail"`
	Duration     string    `json:"duration"`
	Channel      string    `json:"channel"`
	WatchedAt    time.Time `json:"watchedAt"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime"`
	SelectedTime string    `json:"selectedTime"`
	SelectedMood string    `json:"selectedMood"`
}

// Store handles SQLite persistence. NOT an interface - concrete type.
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open creates a new Store with the given database path.
// Creates the state table if it doesn't exist.
// Uses WAL mode for file-based databases.
func Open(dbPath string) (*Store, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		// Shared cache so every pooled connection sees the same database.
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return s, nil
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS state (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// get decodes the JSON value for key into v. Returns false if the key
// is absent. Caller must hold s.mu (read lock is sufficient).
func (s *Store) get(key string, v any) (bool, error) {
	var raw string
	err := s.db.QueryRow("SELECT value FROM state WHERE key = ?", key).Scan(&raw)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// set JSON-encodes v and upserts it under key. Caller must hold s.mu.
func (s *Store) set(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	_, err = s.db.Exec(`
		INSERT INTO state (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, string(raw))
	return err
}

// WatchedIDs returns the global watched-video id set. The set is shared
// across every bucket/mood pair.
func (s *Store) WatchedIDs() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string
	if _, err := s.get(keyWatched, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// AddWatched adds id to the watched set. Adding an already-present id
// is a no-op.
func (s *Store) AddWatched(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []string
	if _, err := s.get(keyWatched, &ids); err != nil {
		return err
	}
	for _, existing := range ids {
		if existing == id {
			return nil
		}
	}
	ids = append(ids, id)
	return s.set(keyWatched, ids)
}

// ClearWatched empties the watched set. Called by the selection engine
// when a candidate pool is exhausted; the whole global set is cleared,
// not just the ids for one bucket/mood pair.
func (s *Store) ClearWatched() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec("DELETE FROM state WHERE key = ?", keyWatched)
	return err
}

// Append adds a record to the end of the watch history and overwrites
// the last-watched record. History is append-only and uncapped.
func (s *Store) Append(rec WatchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []WatchRecord
	if _, err := s.get(keyHistory, &records); err != nil {
		return err
	}
	records = append(records, rec)
	if err := s.set(keyHistory, records); err != nil {
		return err
	}
	return s.set(keyLastWatched, rec)
}

// History returns all watch records in storage order, oldest first.
// Newest-first presentation is the view layer's job.
func (s *Store) History() ([]WatchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []WatchRecord
	if _, err := s.get(keyHistory, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// LastWatched returns the most recent record handed to the receipt
// screen, or nil if none exists.
func (s *Store) LastWatched() (*WatchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rec WatchRecord
	ok, err := s.get(keyLastWatched, &rec)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// SetLastWatched overwrites the last-watched record. Used when a history
// entry is revisited so the receipt screen shows that entry.
func (s *Store) SetLastWatched(rec WatchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set(keyLastWatched, rec)
}

// MarkFirstUseIfAbsent records now as the first-use date, once.
// Subsequent calls are no-ops regardless of the timestamp passed.
func (s *Store) MarkFirstUseIfAbsent(now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var existing string
	ok, err := s.get(keyFirstUse, &existing)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	return s.set(keyFirstUse, now.Format(time.RFC3339))
}

// FirstUse returns the recorded first-use date, if any.
func (s *Store) FirstUse() (time.Time, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var raw string
	ok, err := s.get(keyFirstUse, &raw)
	if err != nil || !ok {
		return time.Time{}, false, err
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse first-use date: %w", err)
	}
	return t, true, nil
}

// DaysSinceFirstUse computes the whole-day ceiling difference between now
// and the first-use date, floored at 1 so same-day use reads "day 1".
// With no first-use date recorded, or an unreadable store, it reports 1.
func (s *Store) DaysSinceFirstUse(now time.Time) int {
	first, ok, err := s.FirstUse()
	if err != nil || !ok {
		return 1
	}
	diff := now.Sub(first)
	if diff < 0 {
		diff = -diff
	}
	days := int(math.Ceil(float64(diff) / float64(24*time.Hour)))
	if days < 1 {
		days = 1
	}
	return days
}
