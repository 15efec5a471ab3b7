package repository

import (
	"context"

	"github.com/warbound-games/gauntlet/internal/storage/models"
)

// CardStatsRepository handles database operations for per-card counters.
type CardStatsRepository interface {
	// Upsert inserts a card counter row, adding to the counts when a row for
	// the same session and card already exists.
	Upsert(ctx context.Context, stat *models.CardStat) error

	// GetBySession retrieves all card counters for a session in name order.
	GetBySession(ctx context.Context, sessionID string) ([]*models.CardStat, error)
}

// cardStatsRepository is the concrete implementation of CardStatsRepository.
type cardStatsRepository struct {
	db DBTX
}

// NewCardStatsRepository creates a new card stats repository.
func NewCardStatsRepository(db DBTX) CardStatsRepository {
	return &cardStatsRepository{db: db}
}

// Upsert inserts a card counter row, adding to the counts when a row for the
// same session and card already exists.
func (r *cardStatsRepository) Upsert(ctx context.Context, stat *models.CardStat) error {
	query := `
		INSERT INTO card_stats (
			session_id, card_name, times_played, times_no_op, times_drawn,
			times_discarded, times_held, wins_when_played
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id, card_name) DO UPDATE SET
			times_played = times_played + excluded.times_played,
			times_no_op = times_no_op + excluded.times_no_op,
			times_drawn = times_drawn + excluded.times_drawn,
			times_discarded = times_discarded + excluded.times_discarded,
			times_held = times_held + excluded.times_held,
			wins_when_played = wins_when_played + excluded.wins_when_played
	`

	_, err := r.db.ExecContext(ctx, query,
		stat.SessionID,
		stat.CardName,
		stat.TimesPlayed,
		stat.TimesNoOp,
		stat.TimesDrawn,
		stat.TimesDiscarded,
		stat.TimesHeld,
		stat.WinsWhenPlayed,
	)
	return err
}

// GetBySession retrieves all card counters for a session in name order.
func (r *cardStatsRepository) GetBySession(ctx context.Context, sessionID string) ([]*models.CardStat, error) {
	query := `
		SELECT session_id, card_name, times_played, times_no_op, times_drawn,
		       times_discarded, times_held, wins_when_played
		FROM card_stats
		WHERE session_id = ?
		ORDER BY card_name
	`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var stats []*models.CardStat
	for rows.Next() {
		stat := &models.CardStat{}
		err := rows.Scan(
			&stat.SessionID,
			&stat.CardName,
			&stat.TimesPlayed,
			&stat.TimesNoOp,
			&stat.TimesDrawn,
			&stat.TimesDiscarded,
			&stat.TimesHeld,
			&stat.WinsWhenPlayed,
		)
		if err != nil {
			return nil, err
		}
		stats = append(stats, stat)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}
