// Package battle implements the reference rules engine for Warbound:
// two champions per side on a small grid, drawing and casting cards from
// champion-built decks. The simulator drives it exclusively through
// Engine's exported surface, so any engine honoring the same contract
// can stand in.
package battle

// PlayerID identifies one of the two sides.
type PlayerID int

const (
	Player1 PlayerID = 1
	Player2 PlayerID = 2
)

// Opponent returns the other side.
func (p PlayerID) Opponent() PlayerID {
	if p == Player1 {
		return Player2
	}
	return Player1
}

// Valid reports whether the ID names a real side.
func (p PlayerID) Valid() bool { return p == Player1 || p == Player2 }

// Board and resource constants.
const (
	BoardWidth  = 8
	BoardHeight = 6

	ManaCap      = 10
	HandLimit    = 6
	StartingHand = 4

	// Copies of each listed card a champion contributes to the deck.
	DeckCopies = 2
)

// Pos is a board coordinate.
type Pos struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Dist returns the Manhattan distance between two positions.
func (p Pos) Dist(q Pos) int {
	return abs(p.X-q.X) + abs(p.Y-q.Y)
}

func inBounds(p Pos) bool {
	return p.X >= 0 && p.X < BoardWidth && p.Y >= 0 && p.Y < BoardHeight
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Action is one submittable player decision. Concrete variants carry
// everything the engine needs to validate and apply them.
type Action interface {
	isAction()
}

// MoveAction walks a champion to a reachable tile.
type MoveAction struct {
	Champion string
	To       Pos
}

// AttackAction has one champion strike an enemy in range.
type AttackAction struct {
	Attacker string
	Target   string
}

// CastAction plays a card from hand. Caster is the champion instance the
// card belongs to; Target names a champion, or is empty for untargeted
// cards.
type CastAction struct {
	Card   string
	Caster string
	Target string
}

// PassAction voluntarily ends the turn. It is never submitted to the
// engine; the executor translates it into an end-of-turn.
type PassAction struct{}

func (MoveAction) isAction()   {}
func (AttackAction) isAction() {}
func (CastAction) isAction()   {}
func (PassAction) isAction()   {}

// Outcome reports what an accepted submission did.
type Outcome struct {
	// DamageDealt is the damage an attack actually inflicted.
	DamageDealt int
	// WindowOpened is set when a cast was held pending a response
	// window instead of resolving immediately.
	WindowOpened bool
}

// TurnTransition reports the bookkeeping of one end-of-turn.
type TurnTransition struct {
	// Discarded lists cards discarded to the hand limit.
	Discarded []string
	// Drew is the card drawn for the incoming player, if any.
	Drew string
	// NewActive is the player whose turn begins.
	NewActive PlayerID
	// NewRound is set when the turn wrapped to player 1.
	NewRound bool
}

// EffectSink observes discrete effect notifications during card
// resolution. Stat modifiers and mana grant/lock/steal apply silently:
// the engine emits nothing for them, which is why plays declaring those
// kinds are exempt from no-op classification downstream.
type EffectSink interface {
	OnDamage(championID string, amount int)
	OnHeal(championID string, amount int)
	OnBuff(championID string, stat string, amount int)
	OnDebuff(championID string, stat string, amount int)
	OnMove(championID string, tiles int)
	OnDraw(player PlayerID, count int)
	OnMana(player PlayerID, amount int)
}
