package repository

import (
	"context"
	"testing"
	"time"

	"github.com/warbound-games/gauntlet/internal/storage/models"
)

func TestMatchRepository_Create(t *testing.T) {
	db := setupTestDB(t)
	sessions := NewSessionRepository(db)
	repo := NewMatchRepository(db)
	ctx := context.Background()

	if err := sessions.Create(ctx, sampleSession("sess-1", time.Now().UTC())); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	winReason := "last champion standing"
	resultJSON := `{"seed_used":9001,"winner":2}`
	match := &models.Match{
		SessionID:   "sess-1",
		MatchIndex:  3,
		SeedUsed:    9001,
		RosterA:     "Brute+Ranger",
		RosterB:     "Shaman+Beast",
		Winner:      2,
		WinReason:   &winReason,
		TotalRounds: 14,
		ResultJSON:  &resultJSON,
	}

	if err := repo.Create(ctx, match); err != nil {
		t.Fatalf("failed to create match: %v", err)
	}
	if match.ID == 0 {
		t.Error("expected match ID to be set")
	}

	retrieved, err := repo.GetByIndex(ctx, "sess-1", 3)
	if err != nil {
		t.Fatalf("failed to retrieve match: %v", err)
	}
	if retrieved == nil {
		t.Fatal("expected match to be found")
	}

	if retrieved.SeedUsed != 9001 {
		t.Errorf("expected seed 9001, got %d", retrieved.SeedUsed)
	}
	if retrieved.RosterB != "Shaman+Beast" {
		t.Errorf("expected roster 'Shaman+Beast', got %q", retrieved.RosterB)
	}
	if retrieved.WinReason == nil || *retrieved.WinReason != winReason {
		t.Errorf("expected win reason %q, got %v", winReason, retrieved.WinReason)
	}
	if retrieved.Error != nil {
		t.Errorf("expected nil error for a clean match, got %v", *retrieved.Error)
	}
	if retrieved.ResultJSON == nil || *retrieved.ResultJSON != resultJSON {
		t.Errorf("expected result JSON to round-trip, got %v", retrieved.ResultJSON)
	}
}

func TestMatchRepository_CreateFailedMatch(t *testing.T) {
	db := setupTestDB(t)
	sessions := NewSessionRepository(db)
	repo := NewMatchRepository(db)
	ctx := context.Background()

	if err := sessions.Create(ctx, sampleSession("sess-1", time.Now().UTC())); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	errMsg := "engine setup failed"
	match := &models.Match{
		SessionID:  "sess-1",
		MatchIndex: 0,
		SeedUsed:   777,
		RosterA:    "Brute+Ranger",
		RosterB:    "Shaman+Beast",
		Winner:     0,
		Error:      &errMsg,
	}

	if err := repo.Create(ctx, match); err != nil {
		t.Fatalf("failed to create match: %v", err)
	}

	retrieved, err := repo.GetByIndex(ctx, "sess-1", 0)
	if err != nil {
		t.Fatalf("failed to retrieve match: %v", err)
	}
	if retrieved.Error == nil || *retrieved.Error != errMsg {
		t.Errorf("expected error %q, got %v", errMsg, retrieved.Error)
	}
	if retrieved.WinReason != nil {
		t.Errorf("expected nil win reason, got %q", *retrieved.WinReason)
	}
}

func TestMatchRepository_GetBySession(t *testing.T) {
	db := setupTestDB(t)
	sessions := NewSessionRepository(db)
	repo := NewMatchRepository(db)
	ctx := context.Background()

	if err := sessions.Create(ctx, sampleSession("sess-1", time.Now().UTC())); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	// Insert out of index order.
	for _, idx := range []int{2, 0, 1} {
		match := &models.Match{
			SessionID:  "sess-1",
			MatchIndex: idx,
			SeedUsed:   int64(100 + idx),
			RosterA:    "Brute+Ranger",
			RosterB:    "Shaman+Beast",
			Winner:     1,
		}
		if err := repo.Create(ctx, match); err != nil {
			t.Fatalf("failed to create match %d: %v", idx, err)
		}
	}

	matches, err := repo.GetBySession(ctx, "sess-1")
	if err != nil {
		t.Fatalf("failed to get matches: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(matches))
	}

	for i, m := range matches {
		if m.MatchIndex != i {
			t.Errorf("expected match %d at position %d, got index %d", i, i, m.MatchIndex)
		}
	}
}

func TestMatchRepository_GetByIndex_Missing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMatchRepository(db)

	match, err := repo.GetByIndex(context.Background(), "sess-1", 99)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if match != nil {
		t.Error("expected nil match for missing index")
	}
}
