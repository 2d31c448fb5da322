// Package session persists recent scheduling requests so a tournament
// setup can be reloaded later. The history is capped: saving an eleventh
// session evicts the oldest.
package session

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	_ "modernc.org/sqlite"
)

// maxSessions is the number of saved sessions kept per database.
const maxSessions = 10

// ErrInvalidParams rejects a save whose params are not valid JSON. Callers
// can tell it apart from storage failures with errors.Is.
var ErrInvalidParams = errors.New("params is not valid JSON")

// Session is one saved set of scheduling parameters.
type Session struct {
	ID      string          `json:"id"`
	Label   string          `json:"label"`
	SavedAt time.Time       `json:"saved_at"`
	Params  json.RawMessage `json:"params"`
}

// Store is a SQLite-backed session history.
type Store struct {
	db    *sql.DB
	clock clockwork.Clock
}

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id       TEXT PRIMARY KEY,
	label    TEXT NOT NULL,
	saved_at TEXT NOT NULL,
	params   TEXT NOT NULL
);`

// Open opens or creates the session database at path. Pass
// clockwork.NewRealClock() outside of tests.
func Open(path string, clock clockwork.Clock) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening session database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating sessions table: %w", err)
	}
	return &Store{db: db, clock: clock}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores a parameter set and evicts the oldest sessions beyond the
// cap. An empty label gets a timestamp-based one.
func (s *Store) Save(label string, params json.RawMessage) (*Session, error) {
	if !json.Valid(params) {
		return nil, ErrInvalidParams
	}
	now := s.clock.Now().UTC()
	if label == "" {
		label = "Session " + now.Format("2006-01-02 15:04")
	}

	sess := &Session{
		ID:      uuid.New().String(),
		Label:   label,
		SavedAt: now,
		Params:  params,
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		"INSERT INTO sessions (id, label, saved_at, params) VALUES (?, ?, ?, ?)",
		sess.ID, sess.Label, now.Format(time.RFC3339Nano), string(params),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting session: %w", err)
	}

	_, err = tx.Exec(`
		DELETE FROM sessions WHERE id NOT IN (
			SELECT id FROM sessions ORDER BY saved_at DESC, id LIMIT ?
		)`, maxSessions)
	if err != nil {
		return nil, fmt.Errorf("evicting old sessions: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing session: %w", err)
	}
	return sess, nil
}

// List returns all saved sessions, newest first.
func (s *Store) List() ([]Session, error) {
	rows, err := s.db.Query(
		"SELECT id, label, saved_at, params FROM sessions ORDER BY saved_at DESC, id")
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		sess, err := scanSession(rows.Scan)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *sess)
	}
	return sessions, rows.Err()
}

// Get returns one session by id.
func (s *Store) Get(id string) (*Session, error) {
	row := s.db.QueryRow(
		"SELECT id, label, saved_at, params FROM sessions WHERE id = ?", id)
	sess, err := scanSession(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %s not found", id)
	}
	return sess, err
}

func scanSession(scan func(...any) error) (*Session, error) {
	var sess Session
	var savedAt, params string
	if err := scan(&sess.ID, &sess.Label, &savedAt, &params); err != nil {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339Nano, savedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing saved_at %q: %w", savedAt, err)
	}
	sess.SavedAt = t
	sess.Params = json.RawMessage(params)
	return &sess, nil
}
