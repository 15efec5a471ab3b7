package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/warbound-games/gauntlet/internal/storage/models"
)

// MatchRepository handles database operations for individual matches.
type MatchRepository interface {
	// Create inserts a match row and fills in its autoincrement id.
	Create(ctx context.Context, match *models.Match) error

	// GetBySession retrieves all matches for a session in run order.
	GetBySession(ctx context.Context, sessionID string) ([]*models.Match, error)

	// GetByIndex retrieves one match by its position within a session.
	// Returns (nil, nil) when the session has no match at that index.
	GetByIndex(ctx context.Context, sessionID string, matchIndex int) (*models.Match, error)
}

// matchRepository is the concrete implementation of MatchRepository.
type matchRepository struct {
	db DBTX
}

// NewMatchRepository creates a new match repository.
func NewMatchRepository(db DBTX) MatchRepository {
	return &matchRepository{db: db}
}

// Create inserts a match row and fills in its autoincrement id.
func (r *matchRepository) Create(ctx context.Context, match *models.Match) error {
	query := `
		INSERT INTO matches (
			session_id, match_index, seed_used, roster_a, roster_b,
			winner, win_reason, total_rounds, error, result_json
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		match.SessionID,
		match.MatchIndex,
		match.SeedUsed,
		match.RosterA,
		match.RosterB,
		match.Winner,
		match.WinReason,
		match.TotalRounds,
		match.Error,
		match.ResultJSON,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	match.ID = id

	return nil
}

// GetBySession retrieves all matches for a session in run order.
func (r *matchRepository) GetBySession(ctx context.Context, sessionID string) ([]*models.Match, error) {
	query := `
		SELECT id, session_id, match_index, seed_used, roster_a, roster_b,
		       winner, win_reason, total_rounds, error, result_json
		FROM matches
		WHERE session_id = ?
		ORDER BY match_index
	`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var matches []*models.Match
	for rows.Next() {
		match := &models.Match{}
		err := rows.Scan(
			&match.ID,
			&match.SessionID,
			&match.MatchIndex,
			&match.SeedUsed,
			&match.RosterA,
			&match.RosterB,
			&match.Winner,
			&match.WinReason,
			&match.TotalRounds,
			&match.Error,
			&match.ResultJSON,
		)
		if err != nil {
			return nil, err
		}
		matches = append(matches, match)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return matches, nil
}

// GetByIndex retrieves one match by its position within a session.
func (r *matchRepository) GetByIndex(ctx context.Context, sessionID string, matchIndex int) (*models.Match, error) {
	query := `
		SELECT id, session_id, match_index, seed_used, roster_a, roster_b,
		       winner, win_reason, total_rounds, error, result_json
		FROM matches
		WHERE session_id = ? AND match_index = ?
	`

	match := &models.Match{}
	err := r.db.QueryRowContext(ctx, query, sessionID, matchIndex).Scan(
		&match.ID,
		&match.SessionID,
		&match.MatchIndex,
		&match.SeedUsed,
		&match.RosterA,
		&match.RosterB,
		&match.Winner,
		&match.WinReason,
		&match.TotalRounds,
		&match.Error,
		&match.ResultJSON,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return match, nil
}
