package game

// CardView is the visible state of one battlefield card.
type CardView struct {
	Name   string `json:"name"`
	Tapped bool   `json:"tapped"`
}

// SeatView is what everyone at (or watching) a table may see of one
// seat. Hand and library contents stay hidden; only their sizes show.
type SeatView struct {
	Player       PlayerID   `json:"player"`
	Name         string     `json:"name"`
	Life         int        `json:"life"`
	HandCount    int        `json:"hand_count"`
	LibraryCount int        `json:"library_count"`
	Battlefield  []CardView `json:"battlefield"`
	Graveyard    []string   `json:"graveyard"`
	Exile        []string   `json:"exile"`
}

// TableView is a point-in-time snapshot of a table's visible state.
type TableView struct {
	Name         string     `json:"name"`
	State        TableState `json:"state"`
	RoundExpired bool       `json:"round_expired"`
	ElapsedTicks uint64     `json:"elapsed_ticks"`
	Seats        []SeatView `json:"seats"`
}

// Snapshot captures the table's visible state under the table lock.
func (t *Table) Snapshot() TableView {
	elapsed := t.ElapsedTicks()
	t.mu.Lock()
	defer t.mu.Unlock()
	view := TableView{
		Name:         t.Name,
		State:        t.state,
		RoundExpired: t.roundExpired,
		ElapsedTicks: elapsed,
	}
	for _, s := range t.seats {
		sv := SeatView{
			Player:       s.player,
			Name:         s.name,
			Life:         s.life,
			HandCount:    s.hand.Size(),
			LibraryCount: s.library.Size(),
		}
		for _, c := range s.battlefield.cards {
			sv.Battlefield = append(sv.Battlefield, CardView{Name: c.Name(), Tapped: c.tapped})
		}
		for _, c := range s.graveyard.cards {
			sv.Graveyard = append(sv.Graveyard, c.Name())
		}
		for _, c := range s.exile.cards {
			sv.Exile = append(sv.Exile, c.Name())
		}
		view.Seats = append(view.Seats, sv)
	}
	return view
}
