package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warbound-games/gauntlet/internal/storage/models"
)

func TestCardStatsRepository_Upsert(t *testing.T) {
	db := setupTestDB(t)
	sessions := NewSessionRepository(db)
	repo := NewCardStatsRepository(db)
	ctx := context.Background()

	err := sessions.Create(ctx, sampleSession("sess-1", time.Now().UTC()))
	require.NoError(t, err)

	stat := &models.CardStat{
		SessionID:      "sess-1",
		CardName:       "Piercing Arrow",
		TimesPlayed:    10,
		TimesNoOp:      2,
		TimesDrawn:     12,
		TimesDiscarded: 1,
		TimesHeld:      1,
		WinsWhenPlayed: 6,
	}
	require.NoError(t, repo.Upsert(ctx, stat))

	// A second upsert for the same card adds to the counters.
	more := &models.CardStat{
		SessionID:      "sess-1",
		CardName:       "Piercing Arrow",
		TimesPlayed:    5,
		TimesNoOp:      1,
		TimesDrawn:     5,
		WinsWhenPlayed: 3,
	}
	require.NoError(t, repo.Upsert(ctx, more))

	stats, err := repo.GetBySession(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, stats, 1)

	got := stats[0]
	assert.Equal(t, 15, got.TimesPlayed, "plays after merge")
	assert.Equal(t, 3, got.TimesNoOp, "no-ops after merge")
	assert.Equal(t, 17, got.TimesDrawn, "draws after merge")
	assert.Equal(t, 1, got.TimesDiscarded, "discards after merge")
	assert.Equal(t, 1, got.TimesHeld, "holds after merge")
	assert.Equal(t, 9, got.WinsWhenPlayed, "wins after merge")
}

func TestCardStatsRepository_GetBySession_Sorted(t *testing.T) {
	db := setupTestDB(t)
	sessions := NewSessionRepository(db)
	repo := NewCardStatsRepository(db)
	ctx := context.Background()

	err := sessions.Create(ctx, sampleSession("sess-1", time.Now().UTC()))
	require.NoError(t, err)

	for _, name := range []string{"Hex", "Anchor Strike", "Piercing Arrow"} {
		stat := &models.CardStat{SessionID: "sess-1", CardName: name, TimesPlayed: 1}
		require.NoError(t, repo.Upsert(ctx, stat), "upsert %s", name)
	}

	stats, err := repo.GetBySession(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, stats, 3)

	want := []string{"Anchor Strike", "Hex", "Piercing Arrow"}
	for i, name := range want {
		assert.Equal(t, name, stats[i].CardName, "position %d", i)
	}
}

func TestCardStatsRepository_GetBySession_Empty(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCardStatsRepository(db)

	stats, err := repo.GetBySession(context.Background(), "sess-none")
	require.NoError(t, err)
	assert.Empty(t, stats)
}
