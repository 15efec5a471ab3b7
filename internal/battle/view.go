package battle

// View is a value snapshot of the whole match state. It shares no memory
// with the engine, so callers may hold it across submissions.
type View struct {
	Round        int
	Turn         int
	Active       PlayerID
	ResponseOpen bool
	Players      [2]PlayerView // index 0 = Player1
}

// PlayerView is one side's visible state. Self-play is full-information,
// so hands are exposed.
type PlayerView struct {
	ID          PlayerID
	Mana        int
	MaxMana     int
	LockedMana  int
	Hand        []HandCard
	DeckSize    int
	DiscardSize int
	Champions   [2]ChampionView
}

// HandCard is one card in hand together with the champion it belongs to.
type HandCard struct {
	Card  string
	Owner string
}

// ChampionView is one champion's visible state with effective stats.
type ChampionView struct {
	ID      string
	Name    string
	Player  PlayerID
	Pos     Pos
	HP      int
	MaxHP   int
	Attack  int
	Speed   int
	Range   int
	Alive   bool
	Buffs   int
	Debuffs int
}

// Player returns the view for one side.
func (v View) Player(id PlayerID) PlayerView {
	return v.Players[id-1]
}

// TotalHP sums the remaining HP of a side's living champions.
func (v View) TotalHP(id PlayerID) int {
	total := 0
	for _, c := range v.Player(id).Champions {
		if c.Alive {
			total += c.HP
		}
	}
	return total
}

// LivingChampions returns the side's living champions in slot order.
func (v View) LivingChampions(id PlayerID) []ChampionView {
	var out []ChampionView
	for _, c := range v.Player(id).Champions {
		if c.Alive {
			out = append(out, c)
		}
	}
	return out
}

// Champion finds a champion view by instance ID.
func (v View) Champion(id string) (ChampionView, bool) {
	for _, pv := range v.Players {
		for _, c := range pv.Champions {
			if c.ID == id {
				return c, true
			}
		}
	}
	return ChampionView{}, false
}

func (e *Engine) snapshotPlayer(p *playerState) PlayerView {
	pv := PlayerView{
		ID:          p.id,
		Mana:        p.mana,
		MaxMana:     p.maxMana,
		LockedMana:  p.locked,
		DeckSize:    len(p.deck),
		DiscardSize: len(p.discard),
	}
	pv.Hand = make([]HandCard, len(p.hand))
	for i, hc := range p.hand {
		pv.Hand[i] = HandCard{Card: hc.Card, Owner: hc.Owner}
	}
	for i, c := range p.champions {
		pv.Champions[i] = ChampionView{
			ID:      c.ID,
			Name:    c.Name,
			Player:  c.Player,
			Pos:     c.Pos,
			HP:      c.HP,
			MaxHP:   c.MaxHP,
			Attack:  c.Attack(),
			Speed:   c.Speed(),
			Range:   c.Range(),
			Alive:   c.Alive,
			Buffs:   c.buffCount(),
			Debuffs: c.debuffCount(),
		}
	}
	return pv
}

// View returns a snapshot of the current state.
func (e *Engine) View() View {
	return View{
		Round:        e.round,
		Turn:         e.turn,
		Active:       e.active,
		ResponseOpen: e.pending != nil,
		Players: [2]PlayerView{
			e.snapshotPlayer(e.players[0]),
			e.snapshotPlayer(e.players[1]),
		},
	}
}
