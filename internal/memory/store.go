package memory

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store mirrors conclusion records per session id in sqlite. The in-memory
// Log stays the source of truth within a session; the store is a durable
// copy kept in step through the log's mutation hooks.
type Store struct {
	db *sql.DB
}

func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS conclusions (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		question   TEXT NOT NULL,
		summary    TEXT NOT NULL,
		logged_at  DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_conclusions_session ON conclusions(session_id, id);
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Insert appends one record for a session.
func (s *Store) Insert(sessionID string, rec Record) error {
	_, err := s.db.Exec(
		`INSERT INTO conclusions (session_id, question, summary, logged_at) VALUES (?, ?, ?, ?)`,
		sessionID, rec.Question, rec.Summary, rec.Timestamp,
	)
	return err
}

// List returns a session's records in insertion order.
func (s *Store) List(sessionID string) ([]Record, error) {
	rows, err := s.db.Query(
		`SELECT question, summary, logged_at FROM conclusions WHERE session_id = ? ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []Record
	for rows.Next() {
		var rec Record
		var ts time.Time
		if err := rows.Scan(&rec.Question, &rec.Summary, &ts); err != nil {
			return nil, err
		}
		rec.Timestamp = ts
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// DeleteSession drops every record of a session, used by the clear
// operation and by session expiry.
func (s *Store) DeleteSession(sessionID string) error {
	_, err := s.db.Exec(`DELETE FROM conclusions WHERE session_id = ?`, sessionID)
	return err
}
