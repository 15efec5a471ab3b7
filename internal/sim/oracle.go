package sim

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/warbound-games/gauntlet/internal/battle"
	"github.com/warbound-games/gauntlet/internal/carddata"
)

// Oracle picks one action from the enumerated legal set. The offered
// slice always ends with a pass, so Choose can decline to act. All
// randomness comes through rng; an oracle must hold no other source, or
// replays stop being reproducible.
type Oracle interface {
	Name() string
	Choose(view battle.View, legal []battle.Action, rng *rand.Rand) (battle.Action, error)
}

// Profiles returns the selectable difficulty names in ascending order
// of strength.
func Profiles() []string {
	return []string{"random", "easy", "medium", "hard"}
}

// ForDifficulty resolves a profile name to an oracle. The two scoring
// profiles share one scorer and differ only in weights.
func ForDifficulty(name string, store *carddata.Store) (Oracle, error) {
	switch strings.ToLower(name) {
	case "random":
		return &randomOracle{}, nil
	case "easy":
		return &easyOracle{}, nil
	case "medium":
		return &greedyOracle{name: "medium", store: store, weights: mediumWeights}, nil
	case "hard":
		return &greedyOracle{name: "hard", store: store, weights: hardWeights}, nil
	default:
		return nil, fmt.Errorf("unknown difficulty %q (choose one of %s)", name, strings.Join(Profiles(), ", "))
	}
}

// randomOracle picks uniformly, pass included.
type randomOracle struct{}

func (o *randomOracle) Name() string { return "random" }

func (o *randomOracle) Choose(_ battle.View, legal []battle.Action, rng *rand.Rand) (battle.Action, error) {
	if len(legal) == 0 {
		return nil, errors.New("no actions offered")
	}
	return legal[rng.Intn(len(legal))], nil
}

// easyOracle passes a quarter of the time and otherwise picks uniformly
// among real actions. Kept distinct from random so low-difficulty
// sessions produce shorter turns.
type easyOracle struct{}

const easyPassChance = 0.25

func (o *easyOracle) Name() string { return "easy" }

func (o *easyOracle) Choose(_ battle.View, legal []battle.Action, rng *rand.Rand) (battle.Action, error) {
	if len(legal) == 0 {
		return nil, errors.New("no actions offered")
	}
	var acting []battle.Action
	for _, a := range legal {
		if _, pass := a.(battle.PassAction); !pass {
			acting = append(acting, a)
		}
	}
	if len(acting) == 0 || rng.Float64() < easyPassChance {
		return battle.PassAction{}, nil
	}
	return acting[rng.Intn(len(acting))], nil
}

// Weights tune the shared action scorer. A pass always scores zero, so
// weights only need to rank real actions against doing nothing.
type Weights struct {
	Attack      float64 // per point of expected damage
	Reposition  float64 // per tile of positional improvement
	Heal        float64 // per point of HP actually restorable
	Buff        float64 // per point of stat gained
	Disrupt     float64 // per point of debuff or mana denial
	Draw        float64 // per card drawn
	Mana        float64 // per point of mana gained
	Lethal      float64 // flat bonus for a killing blow
	Threat      float64 // per point of enemy attack reaching the landing tile
	CostPenalty float64 // per point of mana spent
}

var mediumWeights = Weights{
	Attack:      3,
	Reposition:  1,
	Heal:        2,
	Buff:        1.5,
	Disrupt:     1.5,
	Draw:        1,
	Mana:        1,
	Lethal:      10,
	CostPenalty: 0.25,
}

var hardWeights = Weights{
	Attack:      2,
	Reposition:  1,
	Heal:        2.5,
	Buff:        2,
	Disrupt:     2,
	Draw:        1.5,
	Mana:        1.5,
	Lethal:      12,
	Threat:      0.5,
	CostPenalty: 0.5,
}

// greedyOracle scores every offered action and picks the best,
// breaking exact ties uniformly at random.
type greedyOracle struct {
	name    string
	store   *carddata.Store
	weights Weights
}

func (o *greedyOracle) Name() string { return o.name }

func (o *greedyOracle) Choose(view battle.View, legal []battle.Action, rng *rand.Rand) (battle.Action, error) {
	if len(legal) == 0 {
		return nil, errors.New("no actions offered")
	}
	const epsilon = 1e-9
	best := -1e18
	var top []battle.Action
	for _, a := range legal {
		score := o.scoreAction(view, a)
		switch {
		case score > best+epsilon:
			best = score
			top = top[:0]
			top = append(top, a)
		case score > best-epsilon:
			top = append(top, a)
		}
	}
	return top[rng.Intn(len(top))], nil
}

func (o *greedyOracle) scoreAction(view battle.View, a battle.Action) float64 {
	switch act := a.(type) {
	case battle.AttackAction:
		return o.scoreAttack(view, act)
	case battle.MoveAction:
		return o.scoreMove(view, act)
	case battle.CastAction:
		return o.scoreCast(view, act)
	default:
		return 0
	}
}

func (o *greedyOracle) scoreAttack(view battle.View, act battle.AttackAction) float64 {
	attacker, ok := view.Champion(act.Attacker)
	if !ok {
		return 0
	}
	target, ok := view.Champion(act.Target)
	if !ok {
		return 0
	}
	score := float64(attacker.Attack) * o.weights.Attack
	if target.HP <= attacker.Attack {
		score += o.weights.Lethal
	}
	return score
}

func (o *greedyOracle) scoreMove(view battle.View, act battle.MoveAction) float64 {
	mover, ok := view.Champion(act.Champion)
	if !ok {
		return 0
	}
	enemies := view.LivingChampions(mover.Player.Opponent())
	if len(enemies) == 0 {
		return 0
	}
	cur := nearestDist(mover.Pos, enemies)
	next := nearestDist(act.To, enemies)

	// Ranged champions hold their maximum range; melee close in.
	var gain int
	if mover.Range > 1 {
		gain = abs(cur-mover.Range) - abs(next-mover.Range)
	} else {
		gain = cur - next
	}
	score := float64(gain) * o.weights.Reposition

	if o.weights.Threat > 0 {
		for _, e := range enemies {
			if act.To.Dist(e.Pos) <= e.Speed+e.Range {
				score -= o.weights.Threat * float64(e.Attack)
			}
		}
	}
	return score
}

func (o *greedyOracle) scoreCast(view battle.View, act battle.CastAction) float64 {
	card, ok := o.store.Card(act.Card)
	if !ok {
		return 0
	}
	var target battle.ChampionView
	hasTarget := false
	if act.Target != "" {
		target, hasTarget = view.Champion(act.Target)
	}
	caster, _ := view.Champion(act.Caster)

	score := -float64(card.Cost) * o.weights.CostPenalty
	for _, effect := range card.Effects {
		switch eff := effect.(type) {
		case carddata.Damage:
			score += float64(eff.Amount) * o.weights.Attack
			if hasTarget && target.Player != caster.Player && target.HP <= eff.Amount {
				score += o.weights.Lethal
			}
		case carddata.Heal:
			if hasTarget {
				missing := target.MaxHP - target.HP
				score += float64(min(eff.Amount, missing)) * o.weights.Heal
			}
		case carddata.Buff:
			score += float64(eff.Amount) * o.weights.Buff
		case carddata.Debuff:
			score += float64(eff.Amount) * o.weights.Disrupt
		case carddata.Move:
			score += float64(eff.Distance) * o.weights.Reposition
		case carddata.Draw:
			if view.Player(view.Active).DeckSize > 0 {
				score += float64(eff.Count) * o.weights.Draw
			}
		case carddata.ManaGrant:
			score += float64(eff.Amount) * o.weights.Mana
		case carddata.ManaLock:
			score += float64(eff.Amount) * o.weights.Disrupt
		case carddata.ManaSteal:
			score += float64(eff.Amount) * (o.weights.Mana + o.weights.Disrupt) / 2
		case carddata.StatMod:
			score += float64(eff.Amount) * o.weights.Buff * 2
		}
	}
	return score
}

func nearestDist(from battle.Pos, champs []battle.ChampionView) int {
	best := -1
	for _, c := range champs {
		d := from.Dist(c.Pos)
		if best < 0 || d < best {
			best = d
		}
	}
	return best
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
