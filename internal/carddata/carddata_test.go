package carddata

import (
	"testing"
)

func TestDefaultSet(t *testing.T) {
	store, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}

	for _, name := range []string{"Brute", "Ranger", "Beast", "Shaman", "Warden", "Trickster"} {
		champ, ok := store.Champion(name)
		if !ok {
			t.Errorf("Champion(%q) not found", name)
			continue
		}
		if champ.HP <= 0 {
			t.Errorf("Champion(%q).HP = %d, want positive", name, champ.HP)
		}
		if len(champ.Cards) == 0 {
			t.Errorf("Champion(%q) has no cards", name)
		}
		for _, cardName := range champ.Cards {
			if _, ok := store.Card(cardName); !ok {
				t.Errorf("Champion(%q) lists unknown card %q", name, cardName)
			}
		}
	}
}

func TestDecodeResolvesTaggedVariants(t *testing.T) {
	data := []byte(`
[[champions]]
name = "Tester"
hp = 10
attack = 2
speed = 2
range = 1
cards = ["Bolt", "Blessing"]

[[cards]]
name = "Bolt"
cost = 1
type = "action"
target = "enemy"
range = 3
effects = [{ kind = "damage", amount = 4 }]

[[cards]]
name = "Blessing"
cost = 2
type = "action"
target = "ally"
effects = [
    { kind = "heal", amount = 3 },
    { kind = "buff", stat = "attack", amount = 2, duration = "round" },
]
`)

	store, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	bolt, ok := store.Card("Bolt")
	if !ok {
		t.Fatal("Card(Bolt) not found")
	}
	dmg, ok := bolt.Effects[0].(Damage)
	if !ok {
		t.Fatalf("Bolt effect type = %T, want Damage", bolt.Effects[0])
	}
	if dmg.Amount != 4 {
		t.Errorf("Damage.Amount = %d, want 4", dmg.Amount)
	}

	blessing, _ := store.Card("Blessing")
	if len(blessing.Effects) != 2 {
		t.Fatalf("Blessing effects = %d, want 2", len(blessing.Effects))
	}
	buff, ok := blessing.Effects[1].(Buff)
	if !ok {
		t.Fatalf("Blessing effect type = %T, want Buff", blessing.Effects[1])
	}
	if buff.Duration != DurationRound {
		t.Errorf("Buff.Duration = %q, want %q", buff.Duration, DurationRound)
	}
}

func TestDecodeRejectsBadSets(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{
			name: "unknown effect kind",
			data: `
[[champions]]
name = "Tester"
hp = 10
attack = 1
speed = 1
range = 1
cards = ["Mystery"]

[[cards]]
name = "Mystery"
cost = 1
effects = [{ kind = "polymorph", amount = 1 }]
`,
		},
		{
			name: "unknown stat",
			data: `
[[champions]]
name = "Tester"
hp = 10
attack = 1
speed = 1
range = 1
cards = ["Tonic"]

[[cards]]
name = "Tonic"
cost = 1
target = "self"
effects = [{ kind = "buff", stat = "luck", amount = 2 }]
`,
		},
		{
			name: "champion references missing card",
			data: `
[[champions]]
name = "Tester"
hp = 10
attack = 1
speed = 1
range = 1
cards = ["Ghost Card"]
`,
		},
		{
			name: "unknown target kind",
			data: `
[[champions]]
name = "Tester"
hp = 10
attack = 1
speed = 1
range = 1
cards = ["Zap"]

[[cards]]
name = "Zap"
cost = 1
target = "everyone"
effects = [{ kind = "damage", amount = 1 }]
`,
		},
		{
			name: "no champions",
			data: `
[[cards]]
name = "Zap"
cost = 1
target = "enemy"
effects = [{ kind = "damage", amount = 1 }]
`,
		},
		{
			name: "duplicate card",
			data: `
[[champions]]
name = "Tester"
hp = 10
attack = 1
speed = 1
range = 1
cards = ["Zap"]

[[cards]]
name = "Zap"
cost = 1
target = "enemy"
effects = [{ kind = "damage", amount = 1 }]

[[cards]]
name = "Zap"
cost = 2
target = "enemy"
effects = [{ kind = "damage", amount = 2 }]
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode([]byte(tt.data)); err == nil {
				t.Error("Decode() expected error, got nil")
			}
		})
	}
}

func TestSilentKinds(t *testing.T) {
	tests := []struct {
		kind Kind
		want bool
	}{
		{KindDamage, false},
		{KindHeal, false},
		{KindBuff, false},
		{KindDebuff, false},
		{KindMove, false},
		{KindDraw, false},
		{KindStatMod, true},
		{KindManaGrant, true},
		{KindManaLock, true},
		{KindManaSteal, true},
	}

	for _, tt := range tests {
		if got := Silent(tt.kind); got != tt.want {
			t.Errorf("Silent(%q) = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestHasSilentEffect(t *testing.T) {
	store, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}

	tests := []struct {
		card string
		want bool
	}{
		{"Iron Hide", true},   // stat_mod
		{"Spirit Link", true}, // mana_grant
		{"Hex", true},         // mana_lock
		{"Soul Drain", true},  // mana_steal
		{"Crushing Blow", false},
		{"Healing Rain", false},
	}

	for _, tt := range tests {
		card, ok := store.Card(tt.card)
		if !ok {
			t.Fatalf("Card(%q) not found", tt.card)
		}
		if got := card.HasSilentEffect(); got != tt.want {
			t.Errorf("HasSilentEffect(%q) = %v, want %v", tt.card, got, tt.want)
		}
	}
}
