package carddata

// Kind identifies an effect variant.
type Kind string

// Effect kinds understood by the engine.
const (
	KindDamage    Kind = "damage"
	KindHeal      Kind = "heal"
	KindBuff      Kind = "buff"
	KindDebuff    Kind = "debuff"
	KindMove      Kind = "move"
	KindDraw      Kind = "draw"
	KindManaGrant Kind = "mana_grant"
	KindManaLock  Kind = "mana_lock"
	KindManaSteal Kind = "mana_steal"
	KindStatMod   Kind = "stat_mod"
)

// Stat names referenced by buff/debuff/stat_mod effects.
const (
	StatAttack = "attack"
	StatSpeed  = "speed"
	StatRange  = "range"
)

// Modifier durations for buff/debuff effects.
const (
	DurationTurn  = "turn"  // cleared at the end of the current turn
	DurationRound = "round" // cleared when the round counter advances
)

// Effect is one resolved card effect. Variants are fixed at data-load
// time; the engine switches on the concrete type, never on raw strings.
type Effect interface {
	Kind() Kind
}

// Damage deals Amount damage to the target.
type Damage struct {
	Amount int
}

// Heal restores up to Amount HP to the target.
type Heal struct {
	Amount int
}

// Buff raises a stat on the target for the given duration.
type Buff struct {
	Stat     string
	Amount   int
	Duration string
}

// Debuff lowers a stat on the target for the given duration.
type Debuff struct {
	Stat     string
	Amount   int
	Duration string
}

// Move displaces a champion: enemy targets are pushed directly away from
// the caster, friendly targets dash toward the nearest living enemy.
type Move struct {
	Distance int
}

// Draw puts Count cards from the casting player's deck into their hand.
type Draw struct {
	Count int
}

// ManaGrant adds Amount mana to the casting player's pool.
type ManaGrant struct {
	Amount int
}

// ManaLock makes Amount of the opposing player's mana unavailable on
// their next turn.
type ManaLock struct {
	Amount int
}

// ManaSteal moves up to Amount mana from the opposing player's pool to
// the caster's.
type ManaSteal struct {
	Amount int
}

// StatMod permanently changes a stat on the target.
type StatMod struct {
	Stat   string
	Amount int
}

func (Damage) Kind() Kind    { return KindDamage }
func (Heal) Kind() Kind      { return KindHeal }
func (Buff) Kind() Kind      { return KindBuff }
func (Debuff) Kind() Kind    { return KindDebuff }
func (Move) Kind() Kind      { return KindMove }
func (Draw) Kind() Kind      { return KindDraw }
func (ManaGrant) Kind() Kind { return KindManaGrant }
func (ManaLock) Kind() Kind  { return KindManaLock }
func (ManaSteal) Kind() Kind { return KindManaSteal }
func (StatMod) Kind() Kind   { return KindStatMod }

// Silent reports whether an effect kind applies without a discrete
// engine notification. Plays whose declared list includes a silent kind
// can never be classified as no-ops from observed deltas alone.
func Silent(k Kind) bool {
	switch k {
	case KindStatMod, KindManaGrant, KindManaLock, KindManaSteal:
		return true
	}
	return false
}
