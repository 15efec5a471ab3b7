package sim

import (
	"github.com/warbound-games/gauntlet/internal/battle"
	"github.com/warbound-games/gauntlet/internal/carddata"
)

// Instrumentation classifies card plays. For each cast the executor
// opens a PlayScope, attaches it to the engine as the effect sink, and
// closes it into a CardPlayRecord once resolution finishes. One scope
// covers exactly one play; overlapping plays cannot happen in a
// single-threaded match, so the scope carries no locking.
type Instrumentation struct {
	store *carddata.Store
}

func NewInstrumentation(store *carddata.Store) *Instrumentation {
	return &Instrumentation{store: store}
}

// PlayScope accumulates effect notifications for one card play and
// captures enough of the pre-play state to explain a whiff afterwards.
type PlayScope struct {
	card   carddata.Card
	caster string
	player battle.PlayerID
	round  int
	turn   int
	mana   int

	totals  EffectTotals
	targets []string

	// Pre-play observations, read at End to infer a no-op reason.
	enemyInRange    bool
	healTargetsFull bool
	deckEmpty       bool
}

// Begin opens a scope for one cast. The view must be the pre-cast
// snapshot: reason inference compares declared effects against the
// state the card saw, not the state it left behind.
func (in *Instrumentation) Begin(card carddata.Card, caster string, view battle.View) *PlayScope {
	s := &PlayScope{
		card:   card,
		caster: caster,
		player: view.Active,
		round:  view.Round,
		turn:   view.Turn,
		mana:   view.Player(view.Active).Mana,
	}
	s.observe(view)
	return s
}

// observe records the pre-play facts the no-op reasons are built from.
func (s *PlayScope) observe(view battle.View) {
	caster, ok := view.Champion(s.caster)
	if !ok {
		return
	}
	for _, enemy := range view.LivingChampions(s.player.Opponent()) {
		if s.card.Range == 0 || caster.Pos.Dist(enemy.Pos) <= s.card.Range {
			s.enemyInRange = true
			break
		}
	}
	if s.card.HasKind(carddata.KindHeal) {
		s.healTargetsFull = allFullHP(s.healCandidates(view, caster))
	}
	s.deckEmpty = view.Player(s.player).DeckSize == 0
}

// healCandidates lists the champions the card could have healed.
func (s *PlayScope) healCandidates(view battle.View, caster battle.ChampionView) []battle.ChampionView {
	switch s.card.Target {
	case carddata.TargetSelf:
		return []battle.ChampionView{caster}
	case carddata.TargetAlly:
		return view.LivingChampions(s.player)
	case carddata.TargetAny:
		both := view.LivingChampions(s.player)
		return append(both, view.LivingChampions(s.player.Opponent())...)
	default:
		return nil
	}
}

func allFullHP(champs []battle.ChampionView) bool {
	for _, c := range champs {
		if c.HP < c.MaxHP {
			return false
		}
	}
	return true
}

func (s *PlayScope) touch(championID string) {
	for _, id := range s.targets {
		if id == championID {
			return
		}
	}
	s.targets = append(s.targets, championID)
}

// battle.EffectSink implementation. The engine only notifies nonzero
// outcomes, so every callback moves at least one counter.

func (s *PlayScope) OnDamage(championID string, amount int) {
	s.totals.Damage += amount
	s.touch(championID)
}

func (s *PlayScope) OnHeal(championID string, amount int) {
	s.totals.Heal += amount
	s.touch(championID)
}

func (s *PlayScope) OnBuff(championID string, _ string, amount int) {
	s.totals.Buff += amount
	s.touch(championID)
}

func (s *PlayScope) OnDebuff(championID string, _ string, amount int) {
	s.totals.Debuff += amount
	s.touch(championID)
}

func (s *PlayScope) OnMove(championID string, tiles int) {
	s.totals.Movement += tiles
	s.touch(championID)
}

func (s *PlayScope) OnDraw(_ battle.PlayerID, count int) {
	s.totals.Draw += count
}

func (s *PlayScope) OnMana(_ battle.PlayerID, amount int) {
	s.totals.Mana += amount
}

// End closes the scope into its record. A play is a no-op when every
// category stayed at zero, unless the card declares a silent kind.
// Silent effects apply without notifications, so a zero reading proves
// nothing about them.
func (s *PlayScope) End() CardPlayRecord {
	rec := CardPlayRecord{
		Round:         s.round,
		Turn:          s.turn,
		Player:        int(s.player),
		Card:          s.card.Name,
		Caster:        s.caster,
		ManaCost:      s.card.Cost,
		ManaAvailable: s.mana,
		Targets:       s.targets,
		Totals:        s.totals,
	}
	if s.totals.AllZero() && !s.card.HasSilentEffect() {
		rec.NoOp = true
		rec.NoOpReason = s.noOpReason()
	}
	return rec
}

// noOpReason matches the declared effect kinds against the pre-play
// observations. Checked in declaration-priority order: damage whiffs
// first, then heals, then draws.
func (s *PlayScope) noOpReason() string {
	if s.card.HasKind(carddata.KindDamage) && !s.enemyInRange {
		return NoOpNoValidTargets
	}
	if s.card.HasKind(carddata.KindHeal) && s.healTargetsFull {
		return NoOpTargetFullHP
	}
	if s.card.HasKind(carddata.KindDraw) && s.deckEmpty {
		return NoOpDeckEmpty
	}
	return NoOpUnknown
}
