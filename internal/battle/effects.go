package battle

import (
	"github.com/warbound-games/gauntlet/internal/carddata"
)

// resolveCast applies a declared cast's effects in list order and moves
// the card to the discard pile. Effect notifications go to the attached
// sink; silent kinds (stat modifiers, mana operations) emit nothing.
func (e *Engine) resolveCast(pc *pendingCast) {
	target := e.findChampion(pc.target)
	for _, effect := range pc.card.Effects {
		e.applyEffect(effect, pc, target)
	}
	ps := e.player(pc.player)
	ps.discard = append(ps.discard, handCard{Card: pc.card.Name, Owner: pc.caster.ID})
	e.checkWin()
}

func (e *Engine) applyEffect(effect carddata.Effect, pc *pendingCast, target *Champion) {
	ps := e.player(pc.player)
	opp := e.player(pc.player.Opponent())

	switch ef := effect.(type) {
	case carddata.Damage:
		if target == nil || !target.Alive {
			return
		}
		target.takeDamage(ef.Amount)
		e.emitDamage(target.ID, ef.Amount)

	case carddata.Heal:
		if target == nil || !target.Alive {
			return
		}
		if healed := target.heal(ef.Amount); healed > 0 {
			e.emitHeal(target.ID, healed)
		}

	case carddata.Buff:
		if target == nil || !target.Alive || ef.Amount == 0 {
			return
		}
		target.addModifier(ef.Stat, ef.Amount, ef.Duration)
		e.emitBuff(target.ID, ef.Stat, ef.Amount)

	case carddata.Debuff:
		if target == nil || !target.Alive || ef.Amount == 0 {
			return
		}
		target.addModifier(ef.Stat, -ef.Amount, ef.Duration)
		e.emitDebuff(target.ID, ef.Stat, ef.Amount)

	case carddata.Move:
		mover := target
		if mover == nil {
			mover = pc.caster
		}
		if !mover.Alive {
			return
		}
		var moved int
		if mover.Player == pc.player {
			moved = e.dashToward(mover, ef.Distance)
		} else {
			moved = e.pushAway(mover, pc.caster, ef.Distance)
		}
		if moved > 0 {
			e.emitMove(mover.ID, moved)
		}

	case carddata.Draw:
		drawn := 0
		for i := 0; i < ef.Count; i++ {
			if e.drawCard(ps) == "" {
				break
			}
			drawn++
		}
		if drawn > 0 {
			e.emitDraw(pc.player, drawn)
		}

	case carddata.ManaGrant:
		// Silent: no notification.
		ps.mana = min(ps.mana+ef.Amount, ManaCap)

	case carddata.ManaLock:
		// Silent: takes effect on the opponent's next refill.
		opp.lockedNext += ef.Amount

	case carddata.ManaSteal:
		// Silent.
		take := min(ef.Amount, opp.mana)
		opp.mana -= take
		ps.mana = min(ps.mana+take, ManaCap)

	case carddata.StatMod:
		// Silent: permanent stat change.
		mod := target
		if mod == nil {
			mod = pc.caster
		}
		if mod.Alive {
			mod.addPermanent(ef.Stat, ef.Amount)
		}
	}
}

// pushAway shoves a champion directly away from the caster along the
// dominant axis, one tile at a time, stopping at the board edge or an
// occupied tile. Returns tiles actually moved.
func (e *Engine) pushAway(target, from *Champion, distance int) int {
	dx := target.Pos.X - from.Pos.X
	dy := target.Pos.Y - from.Pos.Y
	var step Pos
	if abs(dx) >= abs(dy) {
		step.X = sign(dx)
	} else {
		step.Y = sign(dy)
	}
	if step == (Pos{}) {
		return 0
	}

	moved := 0
	for i := 0; i < distance; i++ {
		next := Pos{X: target.Pos.X + step.X, Y: target.Pos.Y + step.Y}
		if !inBounds(next) || e.occupied(next) {
			break
		}
		target.Pos = next
		moved++
	}
	return moved
}

// dashToward advances a friendly champion toward the nearest living
// enemy, stopping when adjacent or blocked. Returns tiles actually
// moved.
func (e *Engine) dashToward(c *Champion, distance int) int {
	moved := 0
	for i := 0; i < distance; i++ {
		enemy := e.nearestEnemy(c)
		if enemy == nil || c.Pos.Dist(enemy.Pos) <= 1 {
			break
		}
		next, ok := e.stepToward(c.Pos, enemy.Pos)
		if !ok {
			break
		}
		c.Pos = next
		moved++
	}
	return moved
}

// nearestEnemy picks the closest living enemy, breaking ties by slot
// order so enumeration stays deterministic.
func (e *Engine) nearestEnemy(c *Champion) *Champion {
	var best *Champion
	bestDist := 0
	for _, enemy := range e.player(c.Player.Opponent()).champions {
		if !enemy.Alive {
			continue
		}
		d := c.Pos.Dist(enemy.Pos)
		if best == nil || d < bestDist {
			best = enemy
			bestDist = d
		}
	}
	return best
}

// stepToward returns the next tile of a greedy step from from toward to,
// preferring the dominant axis and falling back to the other when
// blocked.
func (e *Engine) stepToward(from, to Pos) (Pos, bool) {
	dx := to.X - from.X
	dy := to.Y - from.Y

	var first, second Pos
	if abs(dx) >= abs(dy) {
		first = Pos{X: from.X + sign(dx), Y: from.Y}
		second = Pos{X: from.X, Y: from.Y + sign(dy)}
	} else {
		first = Pos{X: from.X, Y: from.Y + sign(dy)}
		second = Pos{X: from.X + sign(dx), Y: from.Y}
	}

	for _, next := range [2]Pos{first, second} {
		if next != from && inBounds(next) && !e.occupied(next) {
			return next, true
		}
	}
	return Pos{}, false
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}

func (e *Engine) emitDamage(id string, amount int) {
	if e.sink != nil {
		e.sink.OnDamage(id, amount)
	}
}

func (e *Engine) emitHeal(id string, amount int) {
	if e.sink != nil {
		e.sink.OnHeal(id, amount)
	}
}

func (e *Engine) emitBuff(id, stat string, amount int) {
	if e.sink != nil {
		e.sink.OnBuff(id, stat, amount)
	}
}

func (e *Engine) emitDebuff(id, stat string, amount int) {
	if e.sink != nil {
		e.sink.OnDebuff(id, stat, amount)
	}
}

func (e *Engine) emitMove(id string, tiles int) {
	if e.sink != nil {
		e.sink.OnMove(id, tiles)
	}
}

func (e *Engine) emitDraw(p PlayerID, count int) {
	if e.sink != nil {
		e.sink.OnDraw(p, count)
	}
}
