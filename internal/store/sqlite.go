// internal/store/sqlite.go
package store

import (
	"database/sql"
	"encoding/json"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mcqhub/mcq/internal/domain/trainer"
)

const schema = `
CREATE TABLE IF NOT EXISTS trainer_sessions (
    id TEXT PRIMARY KEY,
    order_json TEXT NOT NULL,
    idx INTEGER NOT NULL,
    streak INTEGER NOT NULL,
    correct INTEGER NOT NULL,
    answered INTEGER NOT NULL,
    feedback TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
`

// SQLiteStore persists trainer sessions in a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// Trainer sessions
// ============================================================================

func (s *SQLiteStore) GetSession(id string) (*trainer.Session, error) {
	var sess trainer.Session
	var orderJSON string
	err := s.db.QueryRow(
		"SELECT id, order_json, idx, streak, correct, answered, feedback FROM trainer_sessions WHERE id = ?", id,
	).Scan(&sess.ID, &orderJSON, &sess.Idx, &sess.Streak, &sess.Correct, &sess.Answered, &sess.Feedback)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(orderJSON), &sess.Order); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *SQLiteStore) SaveSession(sess *trainer.Session) error {
	orderJSON, err := json.Marshal(sess.Order)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		INSERT INTO trainer_sessions (id, order_json, idx, streak, correct, answered, feedback, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			order_json = excluded.order_json,
			idx = excluded.idx,
			streak = excluded.streak,
			correct = excluded.correct,
			answered = excluded.answered,
			feedback = excluded.feedback,
			updated_at = excluded.updated_at`,
		sess.ID, string(orderJSON), sess.Idx, sess.Streak, sess.Correct, sess.Answered, sess.Feedback,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

func (s *SQLiteStore) DeleteSession(id string) error {
	res, err := s.db.Exec("DELETE FROM trainer_sessions WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
