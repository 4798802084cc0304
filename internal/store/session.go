package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Session is a practice run through one catalog stage.
type Session struct {
	ID         string
	Stage      string
	Score      int
	Streak     int
	BestStreak int
	StartedAt  time.Time
	UpdatedAt  time.Time
}

// SessionRepository provides CRUD operations for sessions.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Create inserts a new session into the database.
func (r *SessionRepository) Create(sess *Session) error {
	now := time.Now()
	sess.StartedAt = now
	sess.UpdatedAt = now

	_, err := r.db.Exec(
		`INSERT INTO sessions (id, stage, score, streak, best_streak, started_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sess.ID, sess.Stage, sess.Score, sess.Streak, sess.BestStreak, sess.StartedAt, sess.UpdatedAt,
	)
	return err
}

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(id string) (*Session, error) {
	sess := &Session{}

	err := r.db.QueryRow(
		`SELECT id, stage, score, streak, best_streak, started_at, updated_at
		 FROM sessions WHERE id = ?`,
		id,
	).Scan(&sess.ID, &sess.Stage, &sess.Score, &sess.Streak, &sess.BestStreak, &sess.StartedAt, &sess.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return sess, nil
}

// List retrieves the most recent sessions, newest first. A limit of zero or
// less returns all sessions.
func (r *SessionRepository) List(limit int) ([]*Session, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.Query(
		`SELECT id, stage, score, streak, best_streak, started_at, updated_at
		 FROM sessions ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess := &Session{}
		if err := rows.Scan(&sess.ID, &sess.Stage, &sess.Score, &sess.Streak, &sess.BestStreak, &sess.StartedAt, &sess.UpdatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// UpdateProgress stores the score and streak counters of a session.
func (r *SessionRepository) UpdateProgress(sess *Session) error {
	sess.UpdatedAt = time.Now()

	result, err := r.db.Exec(
		`UPDATE sessions SET score = ?, streak = ?, best_streak = ?, updated_at = ?
		 WHERE id = ?`,
		sess.Score, sess.Streak, sess.BestStreak, sess.UpdatedAt, sess.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
