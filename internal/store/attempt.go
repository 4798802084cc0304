package store

import (
	"database/sql"
	"errors"
	"time"
)

// Outcome records how the learner left a target sign.
type Outcome string

const (
	// OutcomeCompleted means the sign latched as correct before advancing.
	OutcomeCompleted Outcome = "completed"
	// OutcomeAdvanced means the learner advanced without the sign latching.
	OutcomeAdvanced Outcome = "advanced"
	// OutcomeSkipped means the learner skipped the sign.
	OutcomeSkipped Outcome = "skipped"
)

// Attempt is the summary of one target sign within a session.
type Attempt struct {
	ID             string
	SessionID      string
	SignID         string
	Outcome        Outcome
	BestConfidence float64
	Frames         int
	Duration       time.Duration
	CreatedAt      time.Time
}

// SignStats aggregates attempts for one sign.
type SignStats struct {
	SignID         string  `json:"sign_id"`
	Attempts       int     `json:"attempts"`
	Completed      int     `json:"completed"`
	Skipped        int     `json:"skipped"`
	BestConfidence float64 `json:"best_confidence"`
}

// AttemptRepository provides CRUD operations for attempts.
type AttemptRepository struct {
	db *sql.DB
}

// Attempts returns the attempt repository for this store.
func (s *Store) Attempts() *AttemptRepository {
	return &AttemptRepository{db: s.db}
}

const attemptColumns = `id, session_id, sign_id, outcome, best_confidence, frames, duration_ms, created_at`

// Create inserts a new attempt into the database.
func (r *AttemptRepository) Create(a *Attempt) error {
	a.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO attempts (`+attemptColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.SessionID, a.SignID, string(a.Outcome), a.BestConfidence, a.Frames, a.Duration.Milliseconds(), a.CreatedAt,
	)
	return err
}

// GetByID retrieves an attempt by its ID.
func (r *AttemptRepository) GetByID(id string) (*Attempt, error) {
	row := r.db.QueryRow(`SELECT `+attemptColumns+` FROM attempts WHERE id = ?`, id)

	a, err := scanAttempt(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

// ListBySession retrieves the attempts of a session in the order they were made.
func (r *AttemptRepository) ListBySession(sessionID string) ([]*Attempt, error) {
	return r.query(
		`SELECT `+attemptColumns+` FROM attempts WHERE session_id = ? ORDER BY created_at, rowid`,
		sessionID,
	)
}

// List retrieves the most recent attempts, newest first. A limit of zero or
// less returns all attempts.
func (r *AttemptRepository) List(limit int) ([]*Attempt, error) {
	if limit <= 0 {
		limit = -1
	}
	return r.query(
		`SELECT `+attemptColumns+` FROM attempts ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
}

// Delete removes an attempt from the database by its ID.
func (r *AttemptRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM attempts WHERE id = ?`, id)
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

// StatsBySign aggregates all attempts per sign, ordered by sign ID.
func (r *AttemptRepository) StatsBySign() ([]SignStats, error) {
	rows, err := r.db.Query(
		`SELECT sign_id,
		        COUNT(*),
		        SUM(CASE WHEN outcome = 'completed' THEN 1 ELSE 0 END),
		        SUM(CASE WHEN outcome = 'skipped' THEN 1 ELSE 0 END),
		        MAX(best_confidence)
		 FROM attempts GROUP BY sign_id ORDER BY sign_id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []SignStats
	for rows.Next() {
		var st SignStats
		if err := rows.Scan(&st.SignID, &st.Attempts, &st.Completed, &st.Skipped, &st.BestConfidence); err != nil {
			return nil, err
		}
		stats = append(stats, st)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *AttemptRepository) query(query string, args ...any) ([]*Attempt, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []*Attempt
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return attempts, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAttempt(row scanner) (*Attempt, error) {
	a := &Attempt{}
	var outcome string
	var durationMs int64

	err := row.Scan(&a.ID, &a.SessionID, &a.SignID, &outcome, &a.BestConfidence, &a.Frames, &durationMs, &a.CreatedAt)
	if err != nil {
		return nil, err
	}

	a.Outcome = Outcome(outcome)
	a.Duration = time.Duration(durationMs) * time.Millisecond
	return a, nil
}
