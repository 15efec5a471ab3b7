// Package sim contains the self-play pipeline: seed sequencing, the
// decision oracle, per-play effect instrumentation, the match executor,
// and the session orchestrator. It drives a rules engine through the
// Engine interface and never reaches into engine internals.
package sim

import (
	"github.com/warbound-games/gauntlet/internal/battle"
)

// MatchupSpec names the two rosters of one pairing. A non-nil
// SeedOverride pins the match seed in place of the sequencer's.
type MatchupSpec struct {
	RosterA      [2]string `json:"roster_a"`
	RosterB      [2]string `json:"roster_b"`
	SeedOverride *int64    `json:"seed_override,omitempty"`
}

// MatchConfig is the full input of one match.
type MatchConfig struct {
	Index        int       `json:"index"`
	RosterA      [2]string `json:"roster_a"`
	RosterB      [2]string `json:"roster_b"`
	DifficultyA  string    `json:"difficulty_a"`
	DifficultyB  string    `json:"difficulty_b"`
	SeedOverride *int64    `json:"seed_override,omitempty"`
}

// Replay action types.
const (
	ActionMove   = "move"
	ActionAttack = "attack"
	ActionCast   = "cast"
	ActionPass   = "pass"
)

// ReplayAction is one executed action in serialized form. The ordered
// list plus the starting positions is enough for the replay verifier,
// or any external viewer, to reproduce the match.
type ReplayAction struct {
	Seq      int         `json:"seq"`
	Round    int         `json:"round"`
	Turn     int         `json:"turn"`
	Player   int         `json:"player"`
	Type     string      `json:"type"`
	Champion string      `json:"champion,omitempty"`
	Card     string      `json:"card,omitempty"`
	Target   string      `json:"target,omitempty"`
	To       *battle.Pos `json:"to,omitempty"`
	Damage   int         `json:"damage,omitempty"`
}

// EffectTotals accumulates observed effect magnitudes per category.
type EffectTotals struct {
	Damage   int `json:"damage"`
	Heal     int `json:"heal"`
	Buff     int `json:"buff"`
	Debuff   int `json:"debuff"`
	Movement int `json:"movement"`
	Draw     int `json:"draw"`
	Mana     int `json:"mana"`
}

// AllZero reports whether no category accumulated anything.
func (t EffectTotals) AllZero() bool {
	return t == EffectTotals{}
}

// Add folds another set of totals into this one.
func (t *EffectTotals) Add(o EffectTotals) {
	t.Damage += o.Damage
	t.Heal += o.Heal
	t.Buff += o.Buff
	t.Debuff += o.Debuff
	t.Movement += o.Movement
	t.Draw += o.Draw
	t.Mana += o.Mana
}

// No-op reason codes.
const (
	NoOpNoValidTargets = "no valid targets"
	NoOpTargetFullHP   = "target full HP"
	NoOpDeckEmpty      = "deck empty"
	NoOpUnknown        = "unknown reason"
)

// CardPlayRecord is one cast with its observed outcome. Immutable once
// created.
type CardPlayRecord struct {
	Round         int          `json:"round"`
	Turn          int          `json:"turn"`
	Player        int          `json:"player"`
	Card          string       `json:"card"`
	Caster        string       `json:"caster"`
	ManaCost      int          `json:"mana_cost"`
	ManaAvailable int          `json:"mana_available"`
	Targets       []string     `json:"targets,omitempty"`
	Totals        EffectTotals `json:"totals"`
	NoOp          bool         `json:"is_noop"`
	NoOpReason    string       `json:"noop_reason,omitempty"`
}

// Turn end reasons recorded in TurnLog.
const (
	EndReasonPass         = "pass"
	EndReasonNoActions    = "no legal actions"
	EndReasonActionCap    = "action cap"
	EndReasonActionFailed = "action failed"
)

// TurnLog is one turn's rollup.
type TurnLog struct {
	Round         int    `json:"round"`
	Turn          int    `json:"turn"`
	Player        int    `json:"player"`
	Actions       int    `json:"actions"`
	CardsPlayed   int    `json:"cards_played"`
	EndReason     string `json:"end_reason"`
	ManaRemaining int    `json:"mana_remaining"`
	HandSize      int    `json:"hand_size"`
}

// DeathRecord notes a champion death with best-effort killer credit:
// the champion whose action was resolving when the death occurred.
type DeathRecord struct {
	Champion string `json:"champion"`
	Killer   string `json:"killer,omitempty"`
	Round    int    `json:"round"`
	Turn     int    `json:"turn"`
}

// RoundSummary is one round's rollup.
type RoundSummary struct {
	Round     int           `json:"round"`
	HPStartP1 int           `json:"hp_start_p1"`
	HPStartP2 int           `json:"hp_start_p2"`
	HPEndP1   int           `json:"hp_end_p1"`
	HPEndP2   int           `json:"hp_end_p2"`
	Actions   int           `json:"actions"`
	Deaths    []DeathRecord `json:"deaths,omitempty"`
}

// Win reasons.
const (
	WinReasonElimination    = "elimination"
	WinReasonStalemate      = "stalemate"
	WinReasonRoundLimit     = "round limit, HP advantage"
	WinReasonRoundLimitDraw = "round limit, HP tied"
)

// MatchResult is the terminal record of one match. Replay actions belong
// exclusively to this result. A result with Err set is a failed match;
// whatever was recorded before the failure is still present.
type MatchResult struct {
	Config         MatchConfig           `json:"config"`
	SeedUsed       int64                 `json:"seed_used"`
	Winner         int                   `json:"winner"` // 0 = draw
	WinReason      string                `json:"win_reason,omitempty"`
	TotalRounds    int                   `json:"total_rounds"`
	TotalTurns     int                   `json:"total_turns"`
	TotalActions   int                   `json:"total_actions"`
	Replay         []ReplayAction        `json:"replay"`
	CardPlays      []CardPlayRecord      `json:"card_plays"`
	Turns          []TurnLog             `json:"turns"`
	Rounds         []RoundSummary        `json:"rounds"`
	StartPositions map[string]battle.Pos `json:"start_positions"`
	FinalHP        map[string]int        `json:"final_hp"`
	CardsDrawn     []string              `json:"cards_drawn,omitempty"`
	CardsDiscarded []string              `json:"cards_discarded,omitempty"`
	CardsHeld      []string              `json:"cards_held,omitempty"`
	Stalemate      bool                  `json:"stalemate,omitempty"`
	Err            string                `json:"error,omitempty"`
	Warnings       []string              `json:"warnings,omitempty"`
}

// Failed reports whether the match ended in an error rather than a
// game outcome.
func (r *MatchResult) Failed() bool { return r.Err != "" }
