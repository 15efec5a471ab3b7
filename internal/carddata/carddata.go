// Package carddata loads and serves the static card and champion
// definitions the simulator runs against. Definitions ship embedded in
// the binary; an external set file can replace them for balance
// experiments. Effect payloads are resolved into typed variants once at
// load time.
package carddata

import (
	"embed"
	"fmt"
	"os"
	"sort"

	"github.com/pelletier/go-toml/v2"
)

//go:embed data/core_set.toml
var embeddedSet embed.FS

// CardType distinguishes normal plays from response-window plays.
type CardType string

const (
	// TypeAction cards are castable only during the owner's main turn.
	TypeAction CardType = "action"
	// TypeFast cards additionally hold open a response window while in
	// the defender's hand.
	TypeFast CardType = "fast"
)

// TargetKind constrains what a card may be cast at.
type TargetKind string

const (
	TargetSelf  TargetKind = "self"  // the owning champion only
	TargetAlly  TargetKind = "ally"  // any living friendly champion
	TargetEnemy TargetKind = "enemy" // any living enemy champion
	TargetAny   TargetKind = "any"   // any living champion
	TargetNone  TargetKind = "none"  // no target (global effect)
)

// Card is one playable card definition.
type Card struct {
	Name    string
	Cost    int
	Type    CardType
	Target  TargetKind
	Range   int // 0 = unlimited
	Effects []Effect
}

// IsFast reports whether the card is playable in response windows.
func (c Card) IsFast() bool { return c.Type == TypeFast }

// HasKind reports whether the declared effect list contains the kind.
func (c Card) HasKind(k Kind) bool {
	for _, e := range c.Effects {
		if e.Kind() == k {
			return true
		}
	}
	return false
}

// HasSilentEffect reports whether any declared effect applies without an
// engine notification.
func (c Card) HasSilentEffect() bool {
	for _, e := range c.Effects {
		if Silent(e.Kind()) {
			return true
		}
	}
	return false
}

// ChampionDef is one champion's base definition.
type ChampionDef struct {
	Name   string
	HP     int
	Attack int
	Speed  int
	Range  int
	Cards  []string // contributed to the owning player's deck
}

// Store holds a validated card set and answers lookups by name.
type Store struct {
	cards         map[string]Card
	champions     map[string]ChampionDef
	cardNames     []string
	championNames []string
}

// rawSet mirrors the TOML set file layout before effect resolution.
type rawSet struct {
	Champions []rawChampion `toml:"champions"`
	Cards     []rawCard     `toml:"cards"`
}

type rawChampion struct {
	Name   string   `toml:"name"`
	HP     int      `toml:"hp"`
	Attack int      `toml:"attack"`
	Speed  int      `toml:"speed"`
	Range  int      `toml:"range"`
	Cards  []string `toml:"cards"`
}

type rawCard struct {
	Name    string      `toml:"name"`
	Cost    int         `toml:"cost"`
	Type    string      `toml:"type"`
	Target  string      `toml:"target"`
	Range   int         `toml:"range"`
	Effects []rawEffect `toml:"effects"`
}

type rawEffect struct {
	Kind     string `toml:"kind"`
	Amount   int    `toml:"amount"`
	Stat     string `toml:"stat"`
	Duration string `toml:"duration"`
	Distance int    `toml:"distance"`
	Count    int    `toml:"count"`
}

// Default returns the store built from the embedded core set.
func Default() (*Store, error) {
	data, err := embeddedSet.ReadFile("data/core_set.toml")
	if err != nil {
		return nil, fmt.Errorf("read embedded card set: %w", err)
	}
	return Decode(data)
}

// LoadFile returns a store built from an external set file.
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read card set file: %w", err)
	}
	store, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("card set %s: %w", path, err)
	}
	return store, nil
}

// Decode parses and validates a TOML card set.
func Decode(data []byte) (*Store, error) {
	var raw rawSet
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse card set: %w", err)
	}

	s := &Store{
		cards:     make(map[string]Card, len(raw.Cards)),
		champions: make(map[string]ChampionDef, len(raw.Champions)),
	}

	for _, rc := range raw.Cards {
		card, err := resolveCard(rc)
		if err != nil {
			return nil, err
		}
		if _, dup := s.cards[card.Name]; dup {
			return nil, fmt.Errorf("duplicate card %q", card.Name)
		}
		s.cards[card.Name] = card
		s.cardNames = append(s.cardNames, card.Name)
	}

	for _, rc := range raw.Champions {
		champ, err := resolveChampion(rc, s.cards)
		if err != nil {
			return nil, err
		}
		if _, dup := s.champions[champ.Name]; dup {
			return nil, fmt.Errorf("duplicate champion %q", champ.Name)
		}
		s.champions[champ.Name] = champ
		s.championNames = append(s.championNames, champ.Name)
	}

	if len(s.champions) == 0 {
		return nil, fmt.Errorf("card set defines no champions")
	}

	sort.Strings(s.cardNames)
	sort.Strings(s.championNames)
	return s, nil
}

// Card looks up a card definition by name.
func (s *Store) Card(name string) (Card, bool) {
	c, ok := s.cards[name]
	return c, ok
}

// Champion looks up a champion definition by name.
func (s *Store) Champion(name string) (ChampionDef, bool) {
	c, ok := s.champions[name]
	return c, ok
}

// Cards returns all card names in sorted order.
func (s *Store) Cards() []string {
	out := make([]string, len(s.cardNames))
	copy(out, s.cardNames)
	return out
}

// Champions returns all champion names in sorted order.
func (s *Store) Champions() []string {
	out := make([]string, len(s.championNames))
	copy(out, s.championNames)
	return out
}

func resolveCard(rc rawCard) (Card, error) {
	if rc.Name == "" {
		return Card{}, fmt.Errorf("card with empty name")
	}
	if rc.Cost < 0 {
		return Card{}, fmt.Errorf("card %q: negative cost %d", rc.Name, rc.Cost)
	}

	cardType := CardType(rc.Type)
	switch cardType {
	case TypeAction, TypeFast:
	case "":
		cardType = TypeAction
	default:
		return Card{}, fmt.Errorf("card %q: unknown type %q", rc.Name, rc.Type)
	}

	target := TargetKind(rc.Target)
	switch target {
	case TargetSelf, TargetAlly, TargetEnemy, TargetAny, TargetNone:
	case "":
		target = TargetNone
	default:
		return Card{}, fmt.Errorf("card %q: unknown target kind %q", rc.Name, rc.Target)
	}

	card := Card{
		Name:   rc.Name,
		Cost:   rc.Cost,
		Type:   cardType,
		Target: target,
		Range:  rc.Range,
	}
	for i, re := range rc.Effects {
		effect, err := resolveEffect(re)
		if err != nil {
			return Card{}, fmt.Errorf("card %q: effect %d: %w", rc.Name, i, err)
		}
		card.Effects = append(card.Effects, effect)
	}
	return card, nil
}

// resolveEffect turns one raw effect table into its typed variant. This
// is the only place effect kinds are interpreted from strings.
func resolveEffect(re rawEffect) (Effect, error) {
	switch Kind(re.Kind) {
	case KindDamage:
		if re.Amount <= 0 {
			return nil, fmt.Errorf("damage amount must be positive, got %d", re.Amount)
		}
		return Damage{Amount: re.Amount}, nil
	case KindHeal:
		if re.Amount <= 0 {
			return nil, fmt.Errorf("heal amount must be positive, got %d", re.Amount)
		}
		return Heal{Amount: re.Amount}, nil
	case KindBuff:
		if err := checkStat(re.Stat); err != nil {
			return nil, err
		}
		return Buff{Stat: re.Stat, Amount: re.Amount, Duration: checkDuration(re.Duration)}, nil
	case KindDebuff:
		if err := checkStat(re.Stat); err != nil {
			return nil, err
		}
		return Debuff{Stat: re.Stat, Amount: re.Amount, Duration: checkDuration(re.Duration)}, nil
	case KindMove:
		if re.Distance <= 0 {
			return nil, fmt.Errorf("move distance must be positive, got %d", re.Distance)
		}
		return Move{Distance: re.Distance}, nil
	case KindDraw:
		if re.Count <= 0 {
			return nil, fmt.Errorf("draw count must be positive, got %d", re.Count)
		}
		return Draw{Count: re.Count}, nil
	case KindManaGrant:
		return ManaGrant{Amount: re.Amount}, nil
	case KindManaLock:
		return ManaLock{Amount: re.Amount}, nil
	case KindManaSteal:
		return ManaSteal{Amount: re.Amount}, nil
	case KindStatMod:
		if err := checkStat(re.Stat); err != nil {
			return nil, err
		}
		return StatMod{Stat: re.Stat, Amount: re.Amount}, nil
	default:
		return nil, fmt.Errorf("unknown effect kind %q", re.Kind)
	}
}

func resolveChampion(rc rawChampion, cards map[string]Card) (ChampionDef, error) {
	if rc.Name == "" {
		return ChampionDef{}, fmt.Errorf("champion with empty name")
	}
	if rc.HP <= 0 {
		return ChampionDef{}, fmt.Errorf("champion %q: HP must be positive, got %d", rc.Name, rc.HP)
	}
	if rc.Attack < 0 || rc.Speed < 0 || rc.Range < 1 {
		return ChampionDef{}, fmt.Errorf("champion %q: invalid stats (attack %d, speed %d, range %d)",
			rc.Name, rc.Attack, rc.Speed, rc.Range)
	}
	for _, cardName := range rc.Cards {
		if _, ok := cards[cardName]; !ok {
			return ChampionDef{}, fmt.Errorf("champion %q: unknown card %q", rc.Name, cardName)
		}
	}
	return ChampionDef{
		Name:   rc.Name,
		HP:     rc.HP,
		Attack: rc.Attack,
		Speed:  rc.Speed,
		Range:  rc.Range,
		Cards:  append([]string(nil), rc.Cards...),
	}, nil
}

func checkStat(stat string) error {
	switch stat {
	case StatAttack, StatSpeed, StatRange:
		return nil
	}
	return fmt.Errorf("unknown stat %q", stat)
}

func checkDuration(d string) string {
	if d == DurationRound {
		return DurationRound
	}
	return DurationTurn
}
