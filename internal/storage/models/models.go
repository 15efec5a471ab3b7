// Package models defines the row types stored for simulation sessions.
package models

import "time"

// Session represents one simulation session: a batch of matches run from a
// single base seed, together with its aggregate outcome.
type Session struct {
	ID           string // UUID assigned when the session starts
	BaseSeed     int64
	MatchCount   int // Matches requested, not necessarily completed
	DifficultyP1 string
	DifficultyP2 string
	StartedAt    time.Time
	FinishedAt   time.Time
	Completed    bool // False when the run was aborted early
	P1Wins       int
	P2Wins       int
	Draws        int
	Errors       int
	ReportJSON   *string // Nullable: full compiled report as JSON
}

// Match represents a single match within a session.
type Match struct {
	ID          int64 // Autoincrement row id
	SessionID   string
	MatchIndex  int // Zero-based position within the session
	SeedUsed    int64
	RosterA     string // Champion names joined with "+"
	RosterB     string
	Winner      int     // 0 draw, 1 player one, 2 player two
	WinReason   *string // Nullable
	TotalRounds int
	Error       *string // Nullable: set when the match failed
	ResultJSON  *string // Nullable: full match result including the replay script
}

// CardStat represents the per-card counters accumulated over a session.
type CardStat struct {
	SessionID      string
	CardName       string
	TimesPlayed    int
	TimesNoOp      int
	TimesDrawn     int
	TimesDiscarded int
	TimesHeld      int
	WinsWhenPlayed int
}
