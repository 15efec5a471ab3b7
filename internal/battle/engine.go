package battle

import (
	"fmt"
	"math/rand"

	"github.com/warbound-games/gauntlet/internal/carddata"
)

// handCard is one deck or hand entry: a card plus the champion whose
// list contributed it. Cards are only castable while their owner lives.
type handCard struct {
	Card  string
	Owner string
}

type playerState struct {
	id         PlayerID
	mana       int
	maxMana    int
	locked     int
	lockedNext int
	deck       []handCard
	hand       []handCard
	discard    []handCard
	champions  [2]*Champion
}

func (p *playerState) champion(id string) *Champion {
	for _, c := range p.champions {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// pendingCast is a declared cast held open by a response window. Mana is
// already paid and the card already left the hand.
type pendingCast struct {
	card   carddata.Card
	caster *Champion
	player PlayerID
	target string
	passes int
}

// Engine drives one match. An Engine instance is owned by exactly one
// match at a time and is not safe for concurrent use.
type Engine struct {
	store   *carddata.Store
	rng     *rand.Rand
	players [2]*playerState
	active  PlayerID
	round   int
	turn    int
	sink    EffectSink
	pending *pendingCast
	winner  PlayerID
	over    bool
	ready   bool
}

// NewEngine returns an engine backed by the given card store. Setup must
// be called before any other method.
func NewEngine(store *carddata.Store) *Engine {
	return &Engine{store: store}
}

var startingPositions = [2][2]Pos{
	{{X: 0, Y: 2}, {X: 0, Y: 3}},
	{{X: BoardWidth - 1, Y: 2}, {X: BoardWidth - 1, Y: 3}},
}

// Setup initializes the match: places champions, builds and shuffles
// decks, and deals starting hands. The rng drives the deck shuffles and
// must be the match-scoped source for reproducibility.
func (e *Engine) Setup(rosterA, rosterB [2]string, rng *rand.Rand) error {
	if e.ready {
		return fmt.Errorf("engine already set up")
	}
	if rng == nil {
		return fmt.Errorf("nil random source")
	}
	e.rng = rng

	rosters := [2][2]string{rosterA, rosterB}
	for pi := range e.players {
		id := PlayerID(pi + 1)
		ps := &playerState{id: id}
		for slot, name := range rosters[pi] {
			def, ok := e.store.Champion(name)
			if !ok {
				return fmt.Errorf("unknown champion %q", name)
			}
			ps.champions[slot] = newChampion(def, id, slot, startingPositions[pi][slot])
		}
		if ps.champions[0].Name == ps.champions[1].Name {
			return fmt.Errorf("duplicate champion %q in one roster", ps.champions[0].Name)
		}
		e.players[pi] = ps
	}

	// Decks are built in a fixed order and shuffled player 1 first, so a
	// given rng state always produces the same decks.
	for _, ps := range e.players {
		for _, c := range ps.champions {
			def, _ := e.store.Champion(c.Name)
			for _, cardName := range def.Cards {
				for copies := 0; copies < DeckCopies; copies++ {
					ps.deck = append(ps.deck, handCard{Card: cardName, Owner: c.ID})
				}
			}
		}
		e.rng.Shuffle(len(ps.deck), func(i, j int) {
			ps.deck[i], ps.deck[j] = ps.deck[j], ps.deck[i]
		})
	}

	for _, ps := range e.players {
		for i := 0; i < StartingHand; i++ {
			e.drawCard(ps)
		}
	}

	e.active = Player1
	e.round = 1
	e.turn = 1
	e.refillResources(e.players[0])
	e.ready = true
	return nil
}

// drawCard moves the top deck card to hand. Returns the card name, or ""
// when the deck is empty.
func (e *Engine) drawCard(p *playerState) string {
	if len(p.deck) == 0 {
		return ""
	}
	card := p.deck[0]
	p.deck = p.deck[1:]
	p.hand = append(p.hand, card)
	return card.Card
}

func (e *Engine) refillResources(p *playerState) {
	p.maxMana = min(e.round, ManaCap)
	p.locked = p.lockedNext
	p.lockedNext = 0
	p.mana = max(0, p.maxMana-p.locked)
}

func (e *Engine) player(id PlayerID) *playerState {
	return e.players[id-1]
}

func (e *Engine) findChampion(id string) *Champion {
	for _, ps := range e.players {
		if c := ps.champion(id); c != nil {
			return c
		}
	}
	return nil
}

func (e *Engine) occupied(p Pos) bool {
	for _, ps := range e.players {
		for _, c := range ps.champions {
			if c.Alive && c.Pos == p {
				return true
			}
		}
	}
	return false
}

// Winner reports the winning side once the match is decided.
func (e *Engine) Winner() (PlayerID, bool) {
	return e.winner, e.over
}

// ResponseOpen reports whether a cast is held open by a response window.
func (e *Engine) ResponseOpen() bool { return e.pending != nil }

// SetEffectSink attaches an observer for effect notifications. Only one
// sink is active at a time; the caller scopes it to a single play.
func (e *Engine) SetEffectSink(s EffectSink) { e.sink = s }

// ClearEffectSink detaches the current observer.
func (e *Engine) ClearEffectSink() { e.sink = nil }

func (e *Engine) checkWin() {
	if e.over {
		return
	}
	for pi, ps := range e.players {
		dead := 0
		for _, c := range ps.champions {
			if !c.Alive {
				dead++
			}
		}
		if dead == len(ps.champions) {
			e.over = true
			e.winner = PlayerID(pi + 1).Opponent()
			return
		}
	}
}

// steps is the fixed neighbor order for movement search; changing it
// changes legal-action enumeration order and therefore replays.
var steps = [4]Pos{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}}

// reachableTiles enumerates tiles a champion can walk to this turn:
// breadth-first within its speed, blocked by living champions.
func (e *Engine) reachableTiles(c *Champion) []Pos {
	speed := c.Speed()
	if speed <= 0 {
		return nil
	}
	type node struct {
		p Pos
		d int
	}
	var visited [BoardWidth][BoardHeight]bool
	visited[c.Pos.X][c.Pos.Y] = true
	queue := []node{{c.Pos, 0}}
	var out []Pos
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if n.d >= speed {
			continue
		}
		for _, dp := range steps {
			q := Pos{X: n.p.X + dp.X, Y: n.p.Y + dp.Y}
			if !inBounds(q) || visited[q.X][q.Y] {
				continue
			}
			visited[q.X][q.Y] = true
			if e.occupied(q) {
				continue
			}
			out = append(out, q)
			queue = append(queue, node{q, n.d + 1})
		}
	}
	return out
}

// attackTargets enumerates living enemies within attack range.
func (e *Engine) attackTargets(c *Champion) []*Champion {
	var out []*Champion
	for _, enemy := range e.player(c.Player.Opponent()).champions {
		if enemy.Alive && c.Pos.Dist(enemy.Pos) <= c.Range() {
			out = append(out, enemy)
		}
	}
	return out
}

// castTargets enumerates legal targets for a card held by the given
// owner. Untargeted cards return one empty-string entry. Heals do not
// exclude full-HP targets; a wasted heal is legal, it just resolves to
// nothing.
func (e *Engine) castTargets(card carddata.Card, owner *Champion) []string {
	inRange := func(c *Champion) bool {
		return card.Range == 0 || owner.Pos.Dist(c.Pos) <= card.Range
	}

	switch card.Target {
	case carddata.TargetNone:
		return []string{""}
	case carddata.TargetSelf:
		return []string{owner.ID}
	case carddata.TargetAlly:
		var out []string
		for _, c := range e.player(owner.Player).champions {
			if c.Alive && inRange(c) {
				out = append(out, c.ID)
			}
		}
		return out
	case carddata.TargetEnemy:
		var out []string
		for _, c := range e.player(owner.Player.Opponent()).champions {
			if c.Alive && inRange(c) {
				out = append(out, c.ID)
			}
		}
		return out
	case carddata.TargetAny:
		var out []string
		for _, ps := range e.players {
			for _, c := range ps.champions {
				if c.Alive && inRange(c) {
					out = append(out, c.ID)
				}
			}
		}
		return out
	}
	return nil
}

// LegalActions enumerates every legal action for the player, in a fixed
// deterministic order: moves per champion, then attacks, then casts in
// hand order. Each champion walks at most once and attacks at most once
// per turn; casts are bounded by mana alone. Response cards are excluded
// because they are never played proactively. Passing is not enumerated;
// it is always available via EndTurn.
func (e *Engine) LegalActions(p PlayerID) []Action {
	if !e.ready || e.over || e.pending != nil || !p.Valid() {
		return nil
	}
	ps := e.player(p)
	var out []Action

	for _, c := range ps.champions {
		if !c.Alive || c.moved {
			continue
		}
		for _, tile := range e.reachableTiles(c) {
			out = append(out, MoveAction{Champion: c.ID, To: tile})
		}
	}

	for _, c := range ps.champions {
		if !c.Alive || c.attacked {
			continue
		}
		for _, target := range e.attackTargets(c) {
			out = append(out, AttackAction{Attacker: c.ID, Target: target.ID})
		}
	}

	seen := make(map[string]bool)
	for _, hc := range ps.hand {
		card, ok := e.store.Card(hc.Card)
		if !ok || card.IsFast() || card.Cost > ps.mana {
			continue
		}
		owner := ps.champion(hc.Owner)
		if owner == nil || !owner.Alive {
			continue
		}
		for _, target := range e.castTargets(card, owner) {
			key := hc.Card + "|" + hc.Owner + "|" + target
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, CastAction{Card: hc.Card, Caster: hc.Owner, Target: target})
		}
	}

	return out
}

// Submit validates and applies one action for the active player. Casts
// may be held open by a response window instead of resolving; the caller
// drains the window with PassResponse.
func (e *Engine) Submit(a Action) (Outcome, error) {
	if !e.ready {
		return Outcome{}, fmt.Errorf("engine not set up")
	}
	if e.over {
		return Outcome{}, fmt.Errorf("match is over")
	}
	if e.pending != nil {
		return Outcome{}, fmt.Errorf("response window open")
	}

	switch act := a.(type) {
	case MoveAction:
		return Outcome{}, e.applyMove(act)
	case AttackAction:
		return e.applyAttack(act)
	case CastAction:
		return e.applyCast(act)
	case PassAction:
		return Outcome{}, fmt.Errorf("pass is not submittable; end the turn instead")
	default:
		return Outcome{}, fmt.Errorf("unknown action type %T", a)
	}
}

func (e *Engine) applyMove(act MoveAction) error {
	c := e.player(e.active).champion(act.Champion)
	if c == nil || !c.Alive {
		return fmt.Errorf("move: no living champion %q on the active side", act.Champion)
	}
	if c.moved {
		return fmt.Errorf("move: %s already moved this turn", c.ID)
	}
	for _, tile := range e.reachableTiles(c) {
		if tile == act.To {
			c.Pos = act.To
			c.moved = true
			return nil
		}
	}
	return fmt.Errorf("move: tile (%d,%d) not reachable for %s", act.To.X, act.To.Y, c.ID)
}

func (e *Engine) applyAttack(act AttackAction) (Outcome, error) {
	attacker := e.player(e.active).champion(act.Attacker)
	if attacker == nil || !attacker.Alive {
		return Outcome{}, fmt.Errorf("attack: no living champion %q on the active side", act.Attacker)
	}
	if attacker.attacked {
		return Outcome{}, fmt.Errorf("attack: %s already attacked this turn", attacker.ID)
	}
	target := e.player(e.active.Opponent()).champion(act.Target)
	if target == nil || !target.Alive {
		return Outcome{}, fmt.Errorf("attack: no living enemy %q", act.Target)
	}
	if attacker.Pos.Dist(target.Pos) > attacker.Range() {
		return Outcome{}, fmt.Errorf("attack: %s out of range of %s", act.Target, act.Attacker)
	}

	damage := attacker.Attack()
	attacker.attacked = true
	target.takeDamage(damage)
	e.checkWin()
	return Outcome{DamageDealt: damage}, nil
}

func (e *Engine) applyCast(act CastAction) (Outcome, error) {
	ps := e.player(e.active)
	card, ok := e.store.Card(act.Card)
	if !ok {
		return Outcome{}, fmt.Errorf("cast: unknown card %q", act.Card)
	}
	if card.IsFast() {
		return Outcome{}, fmt.Errorf("cast: %q is a response card", act.Card)
	}
	if card.Cost > ps.mana {
		return Outcome{}, fmt.Errorf("cast: %q costs %d, only %d mana available", act.Card, card.Cost, ps.mana)
	}

	handIdx := -1
	for i, hc := range ps.hand {
		if hc.Card == act.Card && hc.Owner == act.Caster {
			handIdx = i
			break
		}
	}
	if handIdx < 0 {
		return Outcome{}, fmt.Errorf("cast: %q (owner %s) not in hand", act.Card, act.Caster)
	}
	owner := ps.champion(act.Caster)
	if owner == nil || !owner.Alive {
		return Outcome{}, fmt.Errorf("cast: owner %q is not a living champion", act.Caster)
	}

	legalTarget := false
	for _, t := range e.castTargets(card, owner) {
		if t == act.Target {
			legalTarget = true
			break
		}
	}
	if !legalTarget {
		return Outcome{}, fmt.Errorf("cast: %q is not a legal target for %q", act.Target, act.Card)
	}

	// Pay and remove from hand at declaration, as with any stack-based
	// resolution: the cost is spent even if a response changes the board.
	ps.mana -= card.Cost
	ps.hand = append(ps.hand[:handIdx], ps.hand[handIdx+1:]...)

	pc := &pendingCast{card: card, caster: owner, player: e.active, target: act.Target}
	if e.defenderHoldsResponse() {
		e.pending = pc
		return Outcome{WindowOpened: true}, nil
	}

	e.resolveCast(pc)
	return Outcome{}, nil
}

// defenderHoldsResponse reports whether the non-active side holds a fast
// card, which opens a response window on every cast. Whether they could
// pay for it is irrelevant; the window opens on the threat alone.
func (e *Engine) defenderHoldsResponse() bool {
	for _, hc := range e.player(e.active.Opponent()).hand {
		if card, ok := e.store.Card(hc.Card); ok && card.IsFast() {
			return true
		}
	}
	return false
}

// PassResponse passes priority inside an open response window. When both
// sides have passed, the held cast resolves and the window closes;
// resolved reports that.
func (e *Engine) PassResponse() (resolved bool, err error) {
	if e.pending == nil {
		return false, fmt.Errorf("no response window open")
	}
	e.pending.passes++
	if e.pending.passes < 2 {
		return false, nil
	}
	pc := e.pending
	e.pending = nil
	e.resolveCast(pc)
	return true, nil
}

// EndTurn runs the end-of-turn sequence: discard to the hand limit,
// clear turn-scoped modifiers, switch the active player, advance the
// round on wraparound (clearing round-scoped modifiers), refill the
// incoming player's resources, and draw them a card if under the limit.
func (e *Engine) EndTurn() (TurnTransition, error) {
	if !e.ready {
		return TurnTransition{}, fmt.Errorf("engine not set up")
	}
	if e.pending != nil {
		return TurnTransition{}, fmt.Errorf("response window still open")
	}

	var tt TurnTransition
	ps := e.player(e.active)

	for len(ps.hand) > HandLimit {
		last := len(ps.hand) - 1
		discarded := ps.hand[last]
		ps.hand = ps.hand[:last]
		ps.discard = append(ps.discard, discarded)
		tt.Discarded = append(tt.Discarded, discarded.Card)
	}

	// Any turn-scoped modifier was applied during the turn now ending.
	// Action economy resets with it.
	for _, side := range e.players {
		for _, c := range side.champions {
			c.clearModifiers(carddata.DurationTurn)
			c.moved = false
			c.attacked = false
		}
	}

	e.active = e.active.Opponent()
	e.turn++
	tt.NewActive = e.active

	if e.active == Player1 {
		e.round++
		tt.NewRound = true
		for _, side := range e.players {
			for _, c := range side.champions {
				c.clearModifiers(carddata.DurationRound)
			}
		}
	}

	next := e.player(e.active)
	e.refillResources(next)
	if len(next.hand) < HandLimit {
		tt.Drew = e.drawCard(next)
	}

	return tt, nil
}
