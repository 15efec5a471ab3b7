package sim

import (
	"reflect"
	"testing"

	"github.com/warbound-games/gauntlet/internal/battle"
	"github.com/warbound-games/gauntlet/internal/carddata"
)

// scopeView builds a position with a wounded Brute, a healthy Ranger,
// and both enemies sitting far across the board.
func scopeView(deckSize int) battle.View {
	return battle.View{
		Round:  4,
		Turn:   7,
		Active: battle.Player1,
		Players: [2]battle.PlayerView{
			{
				ID: battle.Player1, Mana: 5, MaxMana: 6, DeckSize: deckSize,
				Champions: [2]battle.ChampionView{
					{ID: "p1:Brute", Name: "Brute", Player: battle.Player1, Pos: battle.Pos{X: 0, Y: 2}, HP: 20, MaxHP: 34, Alive: true},
					{ID: "p1:Ranger", Name: "Ranger", Player: battle.Player1, Pos: battle.Pos{X: 0, Y: 3}, HP: 22, MaxHP: 22, Alive: true},
				},
			},
			{
				ID: battle.Player2, Mana: 3, MaxMana: 6, DeckSize: deckSize,
				Champions: [2]battle.ChampionView{
					{ID: "p2:Beast", Name: "Beast", Player: battle.Player2, Pos: battle.Pos{X: 7, Y: 2}, HP: 30, MaxHP: 30, Alive: true},
					{ID: "p2:Shaman", Name: "Shaman", Player: battle.Player2, Pos: battle.Pos{X: 7, Y: 3}, HP: 24, MaxHP: 24, Alive: true},
				},
			},
		},
	}
}

func damageCard(rng int) carddata.Card {
	return carddata.Card{
		Name: "Zap", Cost: 2, Type: carddata.TypeAction,
		Target: carddata.TargetEnemy, Range: rng,
		Effects: []carddata.Effect{carddata.Damage{Amount: 3}},
	}
}

func TestScopeAccumulatesAndDedupes(t *testing.T) {
	instr := NewInstrumentation(testStore(t))
	scope := instr.Begin(damageCard(0), "p1:Brute", scopeView(8))

	scope.OnDamage("p2:Beast", 3)
	scope.OnDamage("p2:Beast", 2)
	scope.OnHeal("p1:Brute", 4)
	scope.OnMove("p2:Beast", 2)
	scope.OnDraw(battle.Player1, 1)

	rec := scope.End()
	want := EffectTotals{Damage: 5, Heal: 4, Movement: 2, Draw: 1}
	if rec.Totals != want {
		t.Errorf("Totals = %+v, want %+v", rec.Totals, want)
	}
	if !reflect.DeepEqual(rec.Targets, []string{"p2:Beast", "p1:Brute"}) {
		t.Errorf("Targets = %v, want touched champions once each in order", rec.Targets)
	}
	if rec.NoOp {
		t.Error("NoOp = true for a play with observed effects")
	}
	if rec.NoOpReason != "" {
		t.Errorf("NoOpReason = %q, want empty", rec.NoOpReason)
	}
}

func TestScopeCapturesPlayContext(t *testing.T) {
	instr := NewInstrumentation(testStore(t))
	rec := instr.Begin(damageCard(2), "p1:Brute", scopeView(8)).End()

	if rec.Round != 4 || rec.Turn != 7 || rec.Player != 1 {
		t.Errorf("context = round %d turn %d player %d, want 4/7/1", rec.Round, rec.Turn, rec.Player)
	}
	if rec.Card != "Zap" || rec.Caster != "p1:Brute" {
		t.Errorf("identity = %q by %q, want Zap by p1:Brute", rec.Card, rec.Caster)
	}
	if rec.ManaCost != 2 || rec.ManaAvailable != 5 {
		t.Errorf("mana = cost %d avail %d, want 2/5", rec.ManaCost, rec.ManaAvailable)
	}
}

func TestScopeNoOpReasons(t *testing.T) {
	healAlly := carddata.Card{
		Name: "Mend", Cost: 2, Type: carddata.TypeAction, Target: carddata.TargetAlly,
		Effects: []carddata.Effect{carddata.Heal{Amount: 4}},
	}
	healSelf := carddata.Card{
		Name: "Mend Self", Cost: 2, Type: carddata.TypeAction, Target: carddata.TargetSelf,
		Effects: []carddata.Effect{carddata.Heal{Amount: 4}},
	}
	draw := carddata.Card{
		Name: "Study", Cost: 1, Type: carddata.TypeAction, Target: carddata.TargetNone,
		Effects: []carddata.Effect{carddata.Draw{Count: 2}},
	}
	damageAndHeal := carddata.Card{
		Name: "Drain Strike", Cost: 3, Type: carddata.TypeAction, Target: carddata.TargetEnemy, Range: 1,
		Effects: []carddata.Effect{carddata.Damage{Amount: 2}, carddata.Heal{Amount: 2}},
	}
	buff := carddata.Card{
		Name: "Inspire", Cost: 1, Type: carddata.TypeAction, Target: carddata.TargetAlly,
		Effects: []carddata.Effect{carddata.Buff{Stat: carddata.StatAttack, Amount: 2, Duration: carddata.DurationTurn}},
	}

	tests := []struct {
		name       string
		card       carddata.Card
		caster     string
		deckSize   int
		wantReason string
	}{
		// Enemies sit 7+ tiles away from both casters.
		{"damage out of range", damageCard(2), "p1:Brute", 8, NoOpNoValidTargets},
		{"damage unlimited range has targets", damageCard(0), "p1:Brute", 8, NoOpUnknown},
		{"heal self at full HP", healSelf, "p1:Ranger", 8, NoOpTargetFullHP},
		{"heal ally with wounded option", healAlly, "p1:Ranger", 8, NoOpUnknown},
		{"draw from empty deck", draw, "p1:Brute", 0, NoOpDeckEmpty},
		{"draw with cards left", draw, "p1:Brute", 5, NoOpUnknown},
		{"damage reason outranks heal", damageAndHeal, "p1:Ranger", 8, NoOpNoValidTargets},
		{"no matching diagnosis", buff, "p1:Brute", 8, NoOpUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			instr := NewInstrumentation(testStore(t))
			rec := instr.Begin(tt.card, tt.caster, scopeView(tt.deckSize)).End()
			if !rec.NoOp {
				t.Fatal("NoOp = false for a play with no observed effects")
			}
			if rec.NoOpReason != tt.wantReason {
				t.Errorf("NoOpReason = %q, want %q", rec.NoOpReason, tt.wantReason)
			}
		})
	}
}

func TestScopeSilentKindsNeverNoOp(t *testing.T) {
	steal := carddata.Card{
		Name: "Siphon", Cost: 2, Type: carddata.TypeAction, Target: carddata.TargetEnemy, Range: 3,
		Effects: []carddata.Effect{carddata.ManaSteal{Amount: 2}},
	}
	mixed := carddata.Card{
		Name: "Empower", Cost: 2, Type: carddata.TypeAction, Target: carddata.TargetSelf,
		Effects: []carddata.Effect{carddata.StatMod{Stat: carddata.StatAttack, Amount: 1}},
	}

	for _, card := range []carddata.Card{steal, mixed} {
		instr := NewInstrumentation(testStore(t))
		rec := instr.Begin(card, "p1:Brute", scopeView(8)).End()
		if rec.NoOp {
			t.Errorf("%s: NoOp = true for a card with silent effects", card.Name)
		}
		if rec.NoOpReason != "" {
			t.Errorf("%s: NoOpReason = %q, want empty", card.Name, rec.NoOpReason)
		}
	}
}

func TestScopeEmptyEffectListIsNoOp(t *testing.T) {
	blank := carddata.Card{Name: "Blank", Cost: 1, Type: carddata.TypeAction, Target: carddata.TargetNone}
	instr := NewInstrumentation(testStore(t))
	rec := instr.Begin(blank, "p1:Brute", scopeView(8)).End()

	if !rec.NoOp {
		t.Error("NoOp = false for a card with no effects")
	}
	if rec.NoOpReason != NoOpUnknown {
		t.Errorf("NoOpReason = %q, want %q", rec.NoOpReason, NoOpUnknown)
	}
}

func TestScopeHealFullHPAcrossWholeSide(t *testing.T) {
	// With every ally at full HP the reason fires even for ally-targeted
	// heals; one wounded ally anywhere suppresses it.
	healAlly := carddata.Card{
		Name: "Mend", Cost: 2, Type: carddata.TypeAction, Target: carddata.TargetAlly,
		Effects: []carddata.Effect{carddata.Heal{Amount: 4}},
	}
	view := scopeView(8)
	view.Players[0].Champions[0].HP = view.Players[0].Champions[0].MaxHP

	instr := NewInstrumentation(testStore(t))
	rec := instr.Begin(healAlly, "p1:Ranger", view).End()
	if rec.NoOpReason != NoOpTargetFullHP {
		t.Errorf("NoOpReason = %q, want %q when the whole side is topped off", rec.NoOpReason, NoOpTargetFullHP)
	}
}
