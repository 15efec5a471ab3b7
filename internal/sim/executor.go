package sim

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/warbound-games/gauntlet/internal/battle"
	"github.com/warbound-games/gauntlet/internal/carddata"
)

// Limits are the hard counters bounding one match. Every limit counts
// discrete steps; nothing in a match is bounded by wall-clock time.
type Limits struct {
	MaxRounds            int
	MaxActionsPerTurn    int
	MaxConsecutivePasses int
	MaxIterations        int
	MaxResponsePasses    int
}

// DefaultLimits returns the standard match bounds.
func DefaultLimits() Limits {
	return Limits{
		MaxRounds:            30,
		MaxActionsPerTurn:    20,
		MaxConsecutivePasses: 6,
		MaxIterations:        5000,
		MaxResponsePasses:    8,
	}
}

// ErrResponseStuck means a response window survived the drain bound.
// The engine is wedged at that point, so the match fails rather than
// ending with a warning.
var ErrResponseStuck = errors.New("response window failed to resolve")

// MatchExecutor drives one engine through one complete match. It owns
// the match loop, all limit bookkeeping, and the result assembly. An
// executor is single-use: build one per match.
type MatchExecutor struct {
	engine Engine
	store  *carddata.Store
	instr  *Instrumentation
	limits Limits

	rng     *rand.Rand
	oracles [2]Oracle
	result  *MatchResult

	used         bool
	actionsTurn  int  // executed actions in the current turn
	playsTurn    int  // casts in the current turn
	passStreak   int  // consecutive turns that ended with no executed action
	totalActions int
	totalTurns   int
	curRound     int  // round with an open summary, 0 if none
}

func NewMatchExecutor(engine Engine, store *carddata.Store, limits Limits) *MatchExecutor {
	return &MatchExecutor{
		engine: engine,
		store:  store,
		instr:  NewInstrumentation(store),
		limits: limits,
	}
}

// Execute runs the match to completion and always returns a result;
// failures are reported in MatchResult.Err with everything recorded up
// to the failure still attached.
func (m *MatchExecutor) Execute(cfg MatchConfig, seed int64, oracleA, oracleB Oracle) *MatchResult {
	res := &MatchResult{Config: cfg, SeedUsed: seed}
	m.result = res
	if m.used {
		res.Err = "executor already ran a match"
		return res
	}
	m.used = true

	if err := m.validateRoster(cfg.RosterA); err != nil {
		res.Err = fmt.Sprintf("roster A invalid: %v", err)
		return res
	}
	if err := m.validateRoster(cfg.RosterB); err != nil {
		res.Err = fmt.Sprintf("roster B invalid: %v", err)
		return res
	}
	m.oracles = [2]Oracle{oracleA, oracleB}

	// One generator per match, consumed in a fixed order: first the
	// engine setup shuffle, then every oracle decision.
	m.rng = rand.New(rand.NewSource(seed))
	if err := m.engine.Setup(cfg.RosterA, cfg.RosterB, m.rng); err != nil {
		res.Err = fmt.Sprintf("engine setup failed: %v", err)
		return res
	}

	view := m.engine.View()
	res.StartPositions = startPositions(view)
	m.recordStartingHands(view)

	for iter := 0; iter < m.limits.MaxIterations; iter++ {
		if winner, over := m.engine.Winner(); over {
			m.finishWin(winner)
			return res
		}
		if m.engine.ResponseOpen() {
			if err := m.drainResponses(); err != nil {
				res.Err = err.Error()
				break
			}
			continue
		}
		view = m.engine.View()
		if m.passStreak >= m.limits.MaxConsecutivePasses {
			m.finishStalemate(view)
			return res
		}
		if view.Round > m.limits.MaxRounds {
			m.finishRoundLimit(view)
			return res
		}
		m.ensureRound(view)
		if m.actionsTurn >= m.limits.MaxActionsPerTurn {
			m.endTurn(view, EndReasonActionCap)
			continue
		}

		legal := m.engine.LegalActions(view.Active)
		if len(legal) == 0 {
			m.endTurn(view, EndReasonNoActions)
			continue
		}
		choices := make([]battle.Action, 0, len(legal)+1)
		choices = append(choices, legal...)
		choices = append(choices, battle.PassAction{})

		action, err := m.oracles[view.Active-1].Choose(view, choices, m.rng)
		if err != nil {
			m.warnf("oracle %q failed on turn %d: %v", m.oracles[view.Active-1].Name(), view.Turn, err)
			m.endTurn(view, EndReasonActionFailed)
			continue
		}
		if _, pass := action.(battle.PassAction); pass {
			m.endTurn(view, EndReasonPass)
			continue
		}
		if err := m.executeAction(view, action); err != nil {
			if errors.Is(err, ErrResponseStuck) {
				res.Err = err.Error()
				break
			}
			m.warnf("action rejected on turn %d: %v", view.Turn, err)
			m.endTurn(view, EndReasonActionFailed)
			continue
		}
	}

	if res.Err == "" {
		res.Err = fmt.Sprintf("iteration ceiling of %d reached without termination", m.limits.MaxIterations)
	}
	m.finalize(m.engine.View())
	return res
}

func (m *MatchExecutor) validateRoster(roster [2]string) error {
	if roster[0] == "" || roster[1] == "" {
		return errors.New("a roster names exactly two champions")
	}
	if roster[0] == roster[1] {
		return fmt.Errorf("champion %q appears twice", roster[0])
	}
	for _, name := range roster {
		if _, ok := m.store.Champion(name); !ok {
			return fmt.Errorf("unknown champion %q", name)
		}
	}
	return nil
}

// executeAction submits one non-pass action, recording replay and
// bookkeeping on success. Rejections leave all counters untouched.
func (m *MatchExecutor) executeAction(view battle.View, action battle.Action) error {
	switch act := action.(type) {
	case battle.MoveAction:
		if _, err := m.engine.Submit(act); err != nil {
			return err
		}
		to := act.To
		m.appendReplay(view, ReplayAction{Type: ActionMove, Champion: act.Champion, To: &to})
	case battle.AttackAction:
		out, err := m.engine.Submit(act)
		if err != nil {
			return err
		}
		m.appendReplay(view, ReplayAction{Type: ActionAttack, Champion: act.Attacker, Target: act.Target, Damage: out.DamageDealt})
		m.recordDeaths(view, act.Attacker)
	case battle.CastAction:
		if err := m.executeCast(view, act); err != nil {
			return err
		}
		m.playsTurn++
	default:
		return fmt.Errorf("unsupported action %T", action)
	}
	m.actionsTurn++
	m.totalActions++
	if n := len(m.result.Rounds); n > 0 {
		m.result.Rounds[n-1].Actions++
	}
	return nil
}

// executeCast wraps a cast in an instrumentation scope, drains any
// response window it opens, and closes the scope into a play record.
// A rejected cast drops the scope without recording anything.
func (m *MatchExecutor) executeCast(view battle.View, act battle.CastAction) error {
	card, ok := m.store.Card(act.Card)
	if !ok {
		return fmt.Errorf("unknown card %q", act.Card)
	}
	scope := m.instr.Begin(card, act.Caster, view)
	m.engine.SetEffectSink(scope)
	defer m.engine.ClearEffectSink()

	out, err := m.engine.Submit(act)
	if err != nil {
		return err
	}
	if out.WindowOpened {
		if err := m.drainResponses(); err != nil {
			return err
		}
	}
	m.result.CardPlays = append(m.result.CardPlays, scope.End())
	m.appendReplay(view, ReplayAction{Type: ActionCast, Champion: act.Caster, Card: act.Card, Target: act.Target})
	m.recordCastDraws(view)
	m.recordDeaths(view, act.Caster)
	return nil
}

// drainResponses passes priority until the pending cast resolves. The
// automated players never respond, so a window normally closes after
// one pass from each side; the bound exists to catch an engine that
// fails to hand the window back.
func (m *MatchExecutor) drainResponses() error {
	for i := 0; i < m.limits.MaxResponsePasses; i++ {
		if !m.engine.ResponseOpen() {
			return nil
		}
		if _, err := m.engine.PassResponse(); err != nil {
			return fmt.Errorf("response pass failed: %w", err)
		}
	}
	if m.engine.ResponseOpen() {
		return fmt.Errorf("%w after %d passes", ErrResponseStuck, m.limits.MaxResponsePasses)
	}
	return nil
}

// endTurn closes the current turn: a pass marker in the replay, a turn
// log entry, the streak update, and the engine handover.
func (m *MatchExecutor) endTurn(view battle.View, reason string) {
	m.appendReplay(view, ReplayAction{Type: ActionPass})
	pv := view.Player(view.Active)
	m.result.Turns = append(m.result.Turns, TurnLog{
		Round:         view.Round,
		Turn:          view.Turn,
		Player:        int(view.Active),
		Actions:       m.actionsTurn,
		CardsPlayed:   m.playsTurn,
		EndReason:     reason,
		ManaRemaining: pv.Mana,
		HandSize:      len(pv.Hand),
	})
	if m.actionsTurn == 0 {
		m.passStreak++
	} else {
		m.passStreak = 0
	}
	m.actionsTurn = 0
	m.playsTurn = 0
	m.totalTurns++

	tt, err := m.engine.EndTurn()
	if err != nil {
		m.warnf("end of turn %d failed: %v", view.Turn, err)
		return
	}
	m.result.CardsDiscarded = append(m.result.CardsDiscarded, tt.Discarded...)
	if tt.Drew != "" {
		m.result.CardsDrawn = append(m.result.CardsDrawn, tt.Drew)
	}
	if tt.NewRound {
		m.closeRound(m.engine.View())
	}
}

// ensureRound opens a summary for the round the view sits in.
func (m *MatchExecutor) ensureRound(view battle.View) {
	if m.curRound == view.Round {
		return
	}
	m.curRound = view.Round
	m.result.Rounds = append(m.result.Rounds, RoundSummary{
		Round:     view.Round,
		HPStartP1: view.TotalHP(battle.Player1),
		HPStartP2: view.TotalHP(battle.Player2),
	})
}

func (m *MatchExecutor) closeRound(view battle.View) {
	if len(m.result.Rounds) == 0 {
		return
	}
	last := &m.result.Rounds[len(m.result.Rounds)-1]
	last.HPEndP1 = view.TotalHP(battle.Player1)
	last.HPEndP2 = view.TotalHP(battle.Player2)
}

// recordDeaths diffs liveness since the pre-action view and credits the
// acting champion with any kills.
func (m *MatchExecutor) recordDeaths(pre battle.View, killer string) {
	post := m.engine.View()
	for _, pv := range pre.Players {
		for _, c := range pv.Champions {
			if !c.Alive {
				continue
			}
			after, ok := post.Champion(c.ID)
			if ok && after.Alive {
				continue
			}
			if n := len(m.result.Rounds); n > 0 {
				m.result.Rounds[n-1].Deaths = append(m.result.Rounds[n-1].Deaths, DeathRecord{
					Champion: c.ID,
					Killer:   killer,
					Round:    pre.Round,
					Turn:     pre.Turn,
				})
			}
		}
	}
}

// recordCastDraws diffs the active player's hand against the pre-cast
// view and records any cards a resolved effect drew. Walking the post
// hand in order keeps the record deterministic.
func (m *MatchExecutor) recordCastDraws(pre battle.View) {
	post := m.engine.View()
	preCount := make(map[string]int, len(pre.Player(pre.Active).Hand))
	for _, hc := range pre.Player(pre.Active).Hand {
		preCount[hc.Owner+"|"+hc.Card]++
	}
	for _, hc := range post.Player(pre.Active).Hand {
		key := hc.Owner + "|" + hc.Card
		if preCount[key] > 0 {
			preCount[key]--
			continue
		}
		m.result.CardsDrawn = append(m.result.CardsDrawn, hc.Card)
	}
}

// recordStartingHands counts the opening hands as drawn cards so hold
// and discard rates have the right denominator.
func (m *MatchExecutor) recordStartingHands(view battle.View) {
	for _, pv := range view.Players {
		for _, hc := range pv.Hand {
			m.result.CardsDrawn = append(m.result.CardsDrawn, hc.Card)
		}
	}
}

func (m *MatchExecutor) finishWin(winner battle.PlayerID) {
	view := m.engine.View()
	m.result.Winner = int(winner)
	m.result.WinReason = WinReasonElimination
	m.result.TotalRounds = view.Round
	m.finalize(view)
}

func (m *MatchExecutor) finishStalemate(view battle.View) {
	m.result.Winner = 0
	m.result.Stalemate = true
	m.result.WinReason = WinReasonStalemate
	m.result.TotalRounds = view.Round
	m.warnf("stalemate: %d consecutive turns without an action", m.passStreak)
	m.finalize(view)
}

func (m *MatchExecutor) finishRoundLimit(view battle.View) {
	hp1 := view.TotalHP(battle.Player1)
	hp2 := view.TotalHP(battle.Player2)
	switch {
	case hp1 > hp2:
		m.result.Winner = 1
		m.result.WinReason = WinReasonRoundLimit
	case hp2 > hp1:
		m.result.Winner = 2
		m.result.WinReason = WinReasonRoundLimit
	default:
		m.result.Winner = 0
		m.result.WinReason = WinReasonRoundLimitDraw
	}
	m.result.TotalRounds = m.limits.MaxRounds
	m.finalize(view)
}

// finalize fills the terminal fields shared by every ending, normal or
// failed.
func (m *MatchExecutor) finalize(view battle.View) {
	m.closeRound(view)
	if m.result.TotalRounds == 0 {
		m.result.TotalRounds = view.Round
	}
	m.result.TotalTurns = m.totalTurns
	m.result.TotalActions = m.totalActions
	m.result.FinalHP = make(map[string]int, 4)
	for _, pv := range view.Players {
		for _, c := range pv.Champions {
			m.result.FinalHP[c.ID] = c.HP
		}
		for _, hc := range pv.Hand {
			m.result.CardsHeld = append(m.result.CardsHeld, hc.Card)
		}
	}
}

func (m *MatchExecutor) appendReplay(view battle.View, ra ReplayAction) {
	ra.Seq = len(m.result.Replay)
	ra.Round = view.Round
	ra.Turn = view.Turn
	ra.Player = int(view.Active)
	m.result.Replay = append(m.result.Replay, ra)
}

func (m *MatchExecutor) warnf(format string, args ...any) {
	m.result.Warnings = append(m.result.Warnings, fmt.Sprintf(format, args...))
}

func startPositions(view battle.View) map[string]battle.Pos {
	out := make(map[string]battle.Pos, 4)
	for _, pv := range view.Players {
		for _, c := range pv.Champions {
			out[c.ID] = c.Pos
		}
	}
	return out
}
