package sim

import (
	"math/rand"

	"github.com/warbound-games/gauntlet/internal/battle"
)

// Engine is the contract the executor drives a rules engine through.
// battle.Engine satisfies it; tests substitute scripted engines. The
// executor observes state exclusively through View snapshots, so any
// implementation that keeps these methods deterministic for a given
// setup rng will replay bit-identically.
type Engine interface {
	// Setup places both rosters and shuffles decks from rng. Called once.
	Setup(rosterA, rosterB [2]string, rng *rand.Rand) error

	// View returns a snapshot of current state.
	View() battle.View

	// LegalActions enumerates p's submittable actions in deterministic
	// order. Excludes the always-available pass.
	LegalActions(p battle.PlayerID) []battle.Action

	// Submit executes one action for the active player.
	Submit(a battle.Action) (battle.Outcome, error)

	// PassResponse passes priority inside an open response window and
	// reports whether the window resolved.
	PassResponse() (bool, error)

	// EndTurn runs the end-of-turn sequence and hands the turn over.
	EndTurn() (battle.TurnTransition, error)

	// Winner reports the winning side once the match is decided.
	Winner() (battle.PlayerID, bool)

	// ResponseOpen reports whether a cast is waiting on responses.
	ResponseOpen() bool

	// SetEffectSink attaches an observer for effect resolution.
	SetEffectSink(s battle.EffectSink)

	// ClearEffectSink detaches the current observer.
	ClearEffectSink()
}

// EngineFactory builds a fresh engine for one match.
type EngineFactory func() Engine
