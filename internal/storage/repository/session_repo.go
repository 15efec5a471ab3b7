package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/warbound-games/gauntlet/internal/storage/models"
)

// SessionRepository handles database operations for simulation sessions.
type SessionRepository interface {
	// Create inserts a finished session row.
	Create(ctx context.Context, session *models.Session) error

	// GetByID retrieves a session by its UUID.
	// Returns (nil, nil) when no session with that id exists.
	GetByID(ctx context.Context, id string) (*models.Session, error)

	// List retrieves the most recent sessions, newest first.
	// A limit of zero or less returns all sessions.
	List(ctx context.Context, limit int) ([]*models.Session, error)

	// Delete removes a session. Match and card rows cascade.
	Delete(ctx context.Context, id string) error
}

// sessionRepository is the concrete implementation of SessionRepository.
type sessionRepository struct {
	db DBTX
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(db DBTX) SessionRepository {
	return &sessionRepository{db: db}
}

// Create inserts a finished session row.
func (r *sessionRepository) Create(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO sessions (
			id, base_seed, match_count, difficulty_p1, difficulty_p2,
			started_at, finished_at, completed, p1_wins, p2_wins,
			draws, errors, report_json
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		session.ID,
		session.BaseSeed,
		session.MatchCount,
		session.DifficultyP1,
		session.DifficultyP2,
		session.StartedAt,
		session.FinishedAt,
		session.Completed,
		session.P1Wins,
		session.P2Wins,
		session.Draws,
		session.Errors,
		session.ReportJSON,
	)
	return err
}

// GetByID retrieves a session by its UUID.
func (r *sessionRepository) GetByID(ctx context.Context, id string) (*models.Session, error) {
	query := `
		SELECT id, base_seed, match_count, difficulty_p1, difficulty_p2,
		       started_at, finished_at, completed, p1_wins, p2_wins,
		       draws, errors, report_json
		FROM sessions
		WHERE id = ?
	`

	session := &models.Session{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&session.ID,
		&session.BaseSeed,
		&session.MatchCount,
		&session.DifficultyP1,
		&session.DifficultyP2,
		&session.StartedAt,
		&session.FinishedAt,
		&session.Completed,
		&session.P1Wins,
		&session.P2Wins,
		&session.Draws,
		&session.Errors,
		&session.ReportJSON,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return session, nil
}

// List retrieves the most recent sessions, newest first.
func (r *sessionRepository) List(ctx context.Context, limit int) ([]*models.Session, error) {
	query := `
		SELECT id, base_seed, match_count, difficulty_p1, difficulty_p2,
		       started_at, finished_at, completed, p1_wins, p2_wins,
		       draws, errors, report_json
		FROM sessions
		ORDER BY started_at DESC
	`

	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var sessions []*models.Session
	for rows.Next() {
		session := &models.Session{}
		err := rows.Scan(
			&session.ID,
			&session.BaseSeed,
			&session.MatchCount,
			&session.DifficultyP1,
			&session.DifficultyP2,
			&session.StartedAt,
			&session.FinishedAt,
			&session.Completed,
			&session.P1Wins,
			&session.P2Wins,
			&session.Draws,
			&session.Errors,
			&session.ReportJSON,
		)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// Delete removes a session. Match and card rows cascade.
func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM sessions WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}
