package battle

import (
	"fmt"

	"github.com/warbound-games/gauntlet/internal/carddata"
)

// Champion is one champion's runtime state. Effective stats combine the
// base definition, permanent stat modifiers, and active buffs/debuffs.
type Champion struct {
	ID     string
	Name   string
	Player PlayerID
	Slot   int

	Pos   Pos
	HP    int
	MaxHP int
	Alive bool

	baseAttack, baseSpeed, baseRange int
	permAttack, permSpeed, permRange int

	mods []modifier

	// Turn-scoped action economy: one walk and one attack per turn.
	// Forced movement from card effects bypasses the moved flag.
	moved    bool
	attacked bool
}

// modifier is one active buff or debuff. Amount is negative for debuffs.
type modifier struct {
	stat     string
	amount   int
	duration string
}

// ChampionID builds the instance identifier used everywhere a champion
// is referenced: replay actions, effect events, statistics.
func ChampionID(p PlayerID, name string) string {
	return fmt.Sprintf("p%d:%s", p, name)
}

func newChampion(def carddata.ChampionDef, p PlayerID, slot int, pos Pos) *Champion {
	return &Champion{
		ID:         ChampionID(p, def.Name),
		Name:       def.Name,
		Player:     p,
		Slot:       slot,
		Pos:        pos,
		HP:         def.HP,
		MaxHP:      def.HP,
		Alive:      true,
		baseAttack: def.Attack,
		baseSpeed:  def.Speed,
		baseRange:  def.Range,
	}
}

// Attack returns the effective attack stat, floored at zero.
func (c *Champion) Attack() int {
	return max(0, c.baseAttack+c.permAttack+c.modTotal(carddata.StatAttack))
}

// Speed returns the effective speed stat, floored at zero.
func (c *Champion) Speed() int {
	return max(0, c.baseSpeed+c.permSpeed+c.modTotal(carddata.StatSpeed))
}

// Range returns the effective attack range, floored at one.
func (c *Champion) Range() int {
	return max(1, c.baseRange+c.permRange+c.modTotal(carddata.StatRange))
}

func (c *Champion) modTotal(stat string) int {
	total := 0
	for _, m := range c.mods {
		if m.stat == stat {
			total += m.amount
		}
	}
	return total
}

func (c *Champion) addModifier(stat string, amount int, duration string) {
	c.mods = append(c.mods, modifier{stat: stat, amount: amount, duration: duration})
}

func (c *Champion) addPermanent(stat string, amount int) {
	switch stat {
	case carddata.StatAttack:
		c.permAttack += amount
	case carddata.StatSpeed:
		c.permSpeed += amount
	case carddata.StatRange:
		c.permRange += amount
	}
}

// clearModifiers drops every modifier with the given duration.
func (c *Champion) clearModifiers(duration string) {
	kept := c.mods[:0]
	for _, m := range c.mods {
		if m.duration != duration {
			kept = append(kept, m)
		}
	}
	c.mods = kept
}

func (c *Champion) buffCount() int {
	n := 0
	for _, m := range c.mods {
		if m.amount > 0 {
			n++
		}
	}
	return n
}

func (c *Champion) debuffCount() int {
	n := 0
	for _, m := range c.mods {
		if m.amount < 0 {
			n++
		}
	}
	return n
}

// takeDamage applies damage and reports death.
func (c *Champion) takeDamage(amount int) bool {
	c.HP -= amount
	if c.HP <= 0 {
		c.HP = 0
		c.Alive = false
		return true
	}
	return false
}

// heal restores HP up to the maximum and returns the amount actually
// restored.
func (c *Champion) heal(amount int) int {
	missing := c.MaxHP - c.HP
	if amount > missing {
		amount = missing
	}
	c.HP += amount
	return amount
}
