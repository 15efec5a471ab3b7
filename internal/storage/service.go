package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/warbound-games/gauntlet/internal/report"
	"github.com/warbound-games/gauntlet/internal/sim"
	"github.com/warbound-games/gauntlet/internal/storage/models"
	"github.com/warbound-games/gauntlet/internal/storage/repository"
)

// Service provides high-level operations for storing and retrieving
// simulation sessions.
type Service struct {
	db        *DB
	sessions  repository.SessionRepository
	matches   repository.MatchRepository
	cardStats repository.CardStatsRepository
}

// NewService creates a new storage service.
func NewService(db *DB) *Service {
	return &Service{
		db:        db,
		sessions:  repository.NewSessionRepository(db.Conn()),
		matches:   repository.NewMatchRepository(db.Conn()),
		cardStats: repository.NewCardStatsRepository(db.Conn()),
	}
}

// SaveSession stores a finished session, its matches, and its per-card
// counters in a single transaction. The compiled report is kept alongside the
// session row so later loads do not have to recompute it.
func (s *Service) SaveSession(ctx context.Context, outcome *sim.SessionOutcome, rep *report.SessionReport) error {
	if outcome == nil || rep == nil {
		return fmt.Errorf("outcome and report are required")
	}

	reportJSON, err := rep.JSON()
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	return s.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		sessions := repository.NewSessionRepository(tx)
		matches := repository.NewMatchRepository(tx)
		cardStats := repository.NewCardStatsRepository(tx)

		session := &models.Session{
			ID:           outcome.SessionID,
			BaseSeed:     outcome.BaseSeed,
			MatchCount:   outcome.Config.Matches,
			DifficultyP1: outcome.Config.DifficultyP1,
			DifficultyP2: outcome.Config.DifficultyP2,
			StartedAt:    outcome.StartedAt,
			FinishedAt:   outcome.FinishedAt,
			Completed:    !outcome.Aborted,
			P1Wins:       rep.Summary.P1Wins,
			P2Wins:       rep.Summary.P2Wins,
			Draws:        rep.Summary.Draws,
			Errors:       outcome.ErrorCount(),
			ReportJSON:   nullableString(string(reportJSON)),
		}
		if err := sessions.Create(ctx, session); err != nil {
			return fmt.Errorf("failed to create session: %w", err)
		}

		for _, res := range outcome.Results {
			resultJSON, err := json.Marshal(res)
			if err != nil {
				return fmt.Errorf("failed to encode match %d: %w", res.Config.Index, err)
			}

			match := &models.Match{
				SessionID:   outcome.SessionID,
				MatchIndex:  res.Config.Index,
				SeedUsed:    res.SeedUsed,
				RosterA:     joinRoster(res.Config.RosterA),
				RosterB:     joinRoster(res.Config.RosterB),
				Winner:      res.Winner,
				WinReason:   nullableString(res.WinReason),
				TotalRounds: res.TotalRounds,
				Error:       nullableString(res.Err),
				ResultJSON:  nullableString(string(resultJSON)),
			}
			if err := matches.Create(ctx, match); err != nil {
				return fmt.Errorf("failed to create match %d: %w", res.Config.Index, err)
			}
		}

		for i := range rep.Cards {
			cs := &rep.Cards[i]
			stat := &models.CardStat{
				SessionID:      outcome.SessionID,
				CardName:       cs.Name,
				TimesPlayed:    cs.TimesPlayed,
				TimesNoOp:      cs.TimesNoOp,
				TimesDrawn:     cs.TimesDrawn,
				TimesDiscarded: cs.TimesDiscarded,
				TimesHeld:      cs.TimesHeld,
				WinsWhenPlayed: cs.WinsWhenPlayed,
			}
			if err := cardStats.Upsert(ctx, stat); err != nil {
				return fmt.Errorf("failed to store counters for %s: %w", cs.Name, err)
			}
		}

		return nil
	})
}

// GetSession retrieves a session row by id.
// Returns (nil, nil) when no session with that id exists.
func (s *Service) GetSession(ctx context.Context, id string) (*models.Session, error) {
	return s.sessions.GetByID(ctx, id)
}

// ListSessions retrieves the most recent sessions, newest first.
func (s *Service) ListSessions(ctx context.Context, limit int) ([]*models.Session, error) {
	return s.sessions.List(ctx, limit)
}

// DeleteSession removes a session and everything stored under it.
func (s *Service) DeleteSession(ctx context.Context, id string) error {
	return s.sessions.Delete(ctx, id)
}

// LoadReport retrieves and decodes the compiled report stored for a session.
func (s *Service) LoadReport(ctx context.Context, sessionID string) (*report.SessionReport, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("session not found: %s", sessionID)
	}
	if session.ReportJSON == nil {
		return nil, fmt.Errorf("session %s has no stored report", sessionID)
	}

	rep := &report.SessionReport{}
	if err := json.Unmarshal([]byte(*session.ReportJSON), rep); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}

	return rep, nil
}

// LoadMatchResult retrieves and decodes one stored match result.
func (s *Service) LoadMatchResult(ctx context.Context, sessionID string, matchIndex int) (*sim.MatchResult, error) {
	match, err := s.matches.GetByIndex(ctx, sessionID, matchIndex)
	if err != nil {
		return nil, fmt.Errorf("failed to load match: %w", err)
	}
	if match == nil {
		return nil, fmt.Errorf("no match %d in session %s", matchIndex, sessionID)
	}
	if match.ResultJSON == nil {
		return nil, fmt.Errorf("match %d has no stored result", matchIndex)
	}

	res := &sim.MatchResult{}
	if err := json.Unmarshal([]byte(*match.ResultJSON), res); err != nil {
		return nil, fmt.Errorf("failed to decode match result: %w", err)
	}

	return res, nil
}

// LoadMatchResults retrieves every stored match result for a session in run
// order. Matches saved without a result body are skipped.
func (s *Service) LoadMatchResults(ctx context.Context, sessionID string) ([]*sim.MatchResult, error) {
	rows, err := s.matches.GetBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load matches: %w", err)
	}

	results := make([]*sim.MatchResult, 0, len(rows))
	for _, row := range rows {
		if row.ResultJSON == nil {
			continue
		}
		res := &sim.MatchResult{}
		if err := json.Unmarshal([]byte(*row.ResultJSON), res); err != nil {
			return nil, fmt.Errorf("failed to decode match %d: %w", row.MatchIndex, err)
		}
		results = append(results, res)
	}

	return results, nil
}

// LoadCardStats retrieves the per-card counter rows stored for a session.
func (s *Service) LoadCardStats(ctx context.Context, sessionID string) ([]*models.CardStat, error) {
	return s.cardStats.GetBySession(ctx, sessionID)
}

// Helper functions

// joinRoster renders a champion pair as a single roster string.
func joinRoster(roster [2]string) string {
	return roster[0] + "+" + roster[1]
}

// nullableString returns nil for the empty string so empty values are stored
// as NULL rather than ''.
func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
