package game

import (
	"fmt"
	"strings"
	"testing"

	"cardmud/server/internal/models"
)

// recorder captures table notifications for assertions.
type recorder struct {
	msgs []string
}

func (r *recorder) Notify(players []PlayerID, msg string) {
	r.msgs = append(r.msgs, msg)
}

func (r *recorder) contains(sub string) bool {
	for _, m := range r.msgs {
		if strings.Contains(m, sub) {
			return true
		}
	}
	return false
}

func stubDeck(n int) []*models.Card {
	deck := make([]*models.Card, n)
	for i := range deck {
		deck[i] = &models.Card{Name: fmt.Sprintf("Card %d", i)}
	}
	return deck
}

func activeTable(t *testing.T, ticker *Ticker, rec *recorder, roundTicks uint64) *Table {
	t.Helper()
	table := NewTable("Alpha", ticker, rec, roundTicks)
	if err := table.Join(1, "Urza", stubDeck(40)); err != nil {
		t.Fatalf("Join(1) error = %v", err)
	}
	if err := table.Join(2, "Mishra", stubDeck(40)); err != nil {
		t.Fatalf("Join(2) error = %v", err)
	}
	return table
}

func seatCounts(t *testing.T, table *Table, p PlayerID) (hand, library int) {
	t.Helper()
	hand, library, _, ok := table.Counts(p)
	if !ok {
		t.Fatalf("Counts(%d): not seated", p)
	}
	return hand, library
}

func seatView(t *testing.T, table *Table, p PlayerID) SeatView {
	t.Helper()
	for _, sv := range table.Snapshot().Seats {
		if sv.Player == p {
			return sv
		}
	}
	t.Fatalf("player %d not in snapshot", p)
	return SeatView{}
}

func totalCards(sv SeatView) int {
	return sv.HandCount + sv.LibraryCount + len(sv.Battlefield) + len(sv.Graveyard) + len(sv.Exile)
}

func TestJoinLifecycle(t *testing.T) {
	ticker := NewTicker()
	rec := &recorder{}
	table := NewTable("Alpha", ticker, rec, 100)

	if table.State() != Forming {
		t.Fatalf("state = %v, want Forming", table.State())
	}
	if err := table.Join(1, "Urza", stubDeck(40)); err != nil {
		t.Fatalf("Join(1) error = %v", err)
	}
	if table.State() != Forming {
		t.Fatal("one seated player should not activate the table")
	}

	// Rejoining is a quiet no-op.
	if err := table.Join(1, "Urza", stubDeck(40)); err != nil {
		t.Fatalf("rejoin error = %v", err)
	}
	if _, library := seatCounts(t, table, 1); library != 40 {
		t.Fatalf("rejoin redealt the library: %d cards", library)
	}

	if err := table.Join(2, "Mishra", stubDeck(40)); err != nil {
		t.Fatalf("Join(2) error = %v", err)
	}
	if table.State() != Active {
		t.Fatalf("state = %v, want Active", table.State())
	}
	if err := table.Join(3, "Gix", stubDeck(40)); err != ErrTableFull {
		t.Fatalf("Join(3) = %v, want ErrTableFull", err)
	}

	if err := table.Leave(1); err != nil {
		t.Fatalf("Leave(1) error = %v", err)
	}
	if table.State() == Ended {
		t.Fatal("table ended with a player still seated")
	}
	if err := table.Leave(2); err != nil {
		t.Fatalf("Leave(2) error = %v", err)
	}
	if table.State() != Ended {
		t.Fatalf("state = %v, want Ended", table.State())
	}
	if err := table.Join(4, "Tawnos", stubDeck(40)); err != ErrInvalidState {
		t.Fatalf("Join on ended table = %v, want ErrInvalidState", err)
	}
}

func TestDrawPlayTap(t *testing.T) {
	ticker := NewTicker()
	rec := &recorder{}
	table := activeTable(t, ticker, rec, 100)

	if err := table.Draw(1, 7); err != nil {
		t.Fatalf("Draw(7) error = %v", err)
	}
	hand, library := seatCounts(t, table, 1)
	if hand != 7 || library != 33 {
		t.Fatalf("after draw 7: hand %d library %d, want 7/33", hand, library)
	}

	card, err := table.Play(1, 0)
	if err != nil {
		t.Fatalf("Play(0) error = %v", err)
	}
	sv := seatView(t, table, 1)
	if sv.HandCount != 6 || len(sv.Battlefield) != 1 {
		t.Fatalf("after play: hand %d battlefield %d", sv.HandCount, len(sv.Battlefield))
	}
	if sv.Battlefield[0].Name != card.Name() || sv.Battlefield[0].Tapped {
		t.Fatalf("battlefield card = %+v", sv.Battlefield[0])
	}

	if _, err := table.TapCard(1, 0); err != nil {
		t.Fatalf("TapCard error = %v", err)
	}
	if sv := seatView(t, table, 1); !sv.Battlefield[0].Tapped {
		t.Fatal("card not tapped")
	}
	got, err := table.TapCard(1, 0)
	if err != ErrAlreadyInState {
		t.Fatalf("second TapCard = %v, want ErrAlreadyInState", err)
	}
	if got == nil || got.Name() != card.Name() {
		t.Fatal("failed tap should still name the card")
	}
	if sv := seatView(t, table, 1); !sv.Battlefield[0].Tapped {
		t.Fatal("failed tap changed the card")
	}

	if !rec.contains("Urza draws 7 cards.") {
		t.Fatalf("missing draw notification: %v", rec.msgs)
	}
	if !rec.contains("Urza plays") {
		t.Fatalf("missing play notification: %v", rec.msgs)
	}
}

func TestDrawBoundaryAtTable(t *testing.T) {
	ticker := NewTicker()
	table := activeTable(t, ticker, &recorder{}, 100)

	if err := table.Draw(1, 41); err != ErrEmptyLibrary {
		t.Fatalf("Draw(41) = %v, want ErrEmptyLibrary", err)
	}
	if hand, library := seatCounts(t, table, 1); hand != 0 || library != 40 {
		t.Fatalf("failed draw changed state: hand %d library %d", hand, library)
	}
	if err := table.Draw(1, 0); err != ErrIndexOutOfRange {
		t.Fatalf("Draw(0) = %v, want ErrIndexOutOfRange", err)
	}
	if err := table.Draw(3, 1); err != ErrInvalidState {
		t.Fatalf("Draw by stranger = %v, want ErrInvalidState", err)
	}
}

// Indices always resolve against the zone's contents at call time, so
// removing a card shifts what every later index means.
func TestIndexFreshness(t *testing.T) {
	ticker := NewTicker()
	table := activeTable(t, ticker, &recorder{}, 100)

	if err := table.Draw(1, 3); err != nil {
		t.Fatalf("Draw error = %v", err)
	}
	names, _ := table.HandCards(1)

	first, err := table.Play(1, 0)
	if err != nil {
		t.Fatalf("Play(0) error = %v", err)
	}
	second, err := table.Play(1, 0)
	if err != nil {
		t.Fatalf("Play(0) again error = %v", err)
	}
	if first.Name() != names[0] || second.Name() != names[1] {
		t.Fatalf("played %s then %s, want %s then %s", first.Name(), second.Name(), names[0], names[1])
	}

	remaining, _ := table.HandCards(1)
	if len(remaining) != 1 || remaining[0] != names[2] {
		t.Fatalf("remaining hand = %v, want [%s]", remaining, names[2])
	}
	if _, err := table.Play(1, 1); err != ErrIndexOutOfRange {
		t.Fatalf("Play(1) on one-card hand = %v, want ErrIndexOutOfRange", err)
	}
}

// Every verb except scoop conserves the seat's 40 cards across the five
// zones.
func TestCardConservation(t *testing.T) {
	ticker := NewTicker()
	table := activeTable(t, ticker, &recorder{}, 100)

	check := func(step string) {
		t.Helper()
		if n := totalCards(seatView(t, table, 1)); n != 40 {
			t.Fatalf("after %s: %d cards across zones, want 40", step, n)
		}
	}

	table.Draw(1, 7)
	check("draw")
	table.Play(1, 0)
	table.Play(1, 0)
	check("play")
	table.Discard(1, 0)
	check("discard")
	table.Destroy(1, 0)
	check("destroy")
	table.Unearth(1, 0)
	check("unearth")
	table.Exile(1, 0)
	check("exile")
	table.Greturn(1, 0)
	check("greturn")
	table.Shuffle(1)
	check("shuffle")
	table.Stack(1)
	check("stack")

	// Stack also brings everything home to the library, untapped.
	sv := seatView(t, table, 1)
	if sv.LibraryCount != 40 || sv.HandCount != 0 || len(sv.Battlefield) != 0 {
		t.Fatalf("after stack: %+v", sv)
	}

	table.Scoop(1)
	if n := totalCards(seatView(t, table, 1)); n != 0 {
		t.Fatalf("after scoop: %d cards, want 0", n)
	}
}

func TestStackUntaps(t *testing.T) {
	ticker := NewTicker()
	table := activeTable(t, ticker, &recorder{}, 100)

	table.Draw(1, 2)
	table.Play(1, 0)
	table.Play(1, 0)
	table.TapAll(1)
	if err := table.Stack(1); err != nil {
		t.Fatalf("Stack error = %v", err)
	}
	table.Draw(1, 5)
	table.Play(1, 0)
	if sv := seatView(t, table, 1); sv.Battlefield[0].Tapped {
		t.Fatal("card came back from the library tapped")
	}
}

func TestTutor(t *testing.T) {
	ticker := NewTicker()
	table := activeTable(t, ticker, &recorder{}, 100)

	card, err := table.Tutor(1, "card 7")
	if err != nil {
		t.Fatalf("Tutor error = %v", err)
	}
	if card.Name() != "Card 7" {
		t.Fatalf("tutored %s, want Card 7", card.Name())
	}
	if hand, library := seatCounts(t, table, 1); hand != 1 || library != 39 {
		t.Fatalf("after tutor: hand %d library %d", hand, library)
	}

	if _, err := table.Tutor(1, "Black Lotus"); err != ErrNotFound {
		t.Fatalf("Tutor miss = %v, want ErrNotFound", err)
	}
	if hand, library := seatCounts(t, table, 1); hand != 1 || library != 39 {
		t.Fatalf("failed tutor changed state: hand %d library %d", hand, library)
	}
}

func TestTapUntapAll(t *testing.T) {
	ticker := NewTicker()
	table := activeTable(t, ticker, &recorder{}, 100)

	table.Draw(1, 3)
	table.Play(1, 0)
	table.Play(1, 0)
	table.Play(1, 0)
	table.TapCard(1, 1)

	if err := table.TapAll(1); err != nil {
		t.Fatalf("TapAll error = %v", err)
	}
	for i, cv := range seatView(t, table, 1).Battlefield {
		if !cv.Tapped {
			t.Fatalf("battlefield[%d] untapped after TapAll", i)
		}
	}
	if err := table.UntapAll(1); err != nil {
		t.Fatalf("UntapAll error = %v", err)
	}
	for i, cv := range seatView(t, table, 1).Battlefield {
		if cv.Tapped {
			t.Fatalf("battlefield[%d] tapped after UntapAll", i)
		}
	}
}

func TestAdjustLife(t *testing.T) {
	ticker := NewTicker()
	table := activeTable(t, ticker, &recorder{}, 100)

	life, err := table.AdjustLife(1, -3)
	if err != nil {
		t.Fatalf("AdjustLife error = %v", err)
	}
	if life != 17 {
		t.Fatalf("life = %d, want 17", life)
	}
	// No floor: life can go negative.
	if life, _ = table.AdjustLife(1, -20); life != -3 {
		t.Fatalf("life = %d, want -3", life)
	}
	if life, _ = table.AdjustLife(1, 8); life != 5 {
		t.Fatalf("life = %d, want 5", life)
	}
}

func TestDice(t *testing.T) {
	ticker := NewTicker()
	table := activeTable(t, ticker, &recorder{}, 100)

	for i := 0; i < 50; i++ {
		roll, err := table.Dice(1, 6)
		if err != nil {
			t.Fatalf("Dice error = %v", err)
		}
		if roll < 1 || roll > 6 {
			t.Fatalf("rolled %d on a d6", roll)
		}
	}
	if _, err := table.Dice(1, 0); err != ErrIndexOutOfRange {
		t.Fatalf("Dice(0) = %v, want ErrIndexOutOfRange", err)
	}
}

func TestRoundTimer(t *testing.T) {
	ticker := NewTicker()
	rec := &recorder{}
	table := activeTable(t, ticker, rec, 3)

	advance(ticker, 2)
	if table.RoundExpired() {
		t.Fatal("round expired early")
	}
	ticker.Advance()
	if !table.RoundExpired() {
		t.Fatal("round did not expire at the limit")
	}
	if !rec.contains("Time! The round is over.") {
		t.Fatalf("missing round-over notification: %v", rec.msgs)
	}

	// One-shot: nothing else fires, and the table stays playable.
	before := len(rec.msgs)
	advance(ticker, 6)
	if len(rec.msgs) != before {
		t.Fatalf("extra notifications after expiry: %v", rec.msgs[before:])
	}
	if err := table.Draw(1, 1); err != nil {
		t.Fatalf("Draw after round end error = %v", err)
	}
}

func TestTimerDeregisteredOnEnd(t *testing.T) {
	ticker := NewTicker()
	rec := &recorder{}
	table := activeTable(t, ticker, rec, 4)

	table.Leave(1)
	table.Leave(2)
	if table.State() != Ended {
		t.Fatalf("state = %v, want Ended", table.State())
	}

	advance(ticker, 8)
	if rec.contains("Time!") {
		t.Fatalf("round timer fired on an ended table: %v", rec.msgs)
	}
	if table.RoundExpired() {
		t.Fatal("ended table marked round-expired")
	}
}

func TestElapsedTicks(t *testing.T) {
	ticker := NewTicker()
	advance(ticker, 5)
	table := NewTable("Beta", ticker, nil, 100)
	advance(ticker, 12)
	if got := table.ElapsedTicks(); got != 12 {
		t.Fatalf("ElapsedTicks() = %d, want 12", got)
	}
}

func TestStrangerRejected(t *testing.T) {
	ticker := NewTicker()
	table := activeTable(t, ticker, &recorder{}, 100)

	if _, err := table.Play(9, 0); err != ErrInvalidState {
		t.Fatalf("Play by stranger = %v, want ErrInvalidState", err)
	}
	if err := table.Leave(9); err != ErrInvalidState {
		t.Fatalf("Leave by stranger = %v, want ErrInvalidState", err)
	}
	if _, err := table.AdjustLife(9, 1); err != ErrInvalidState {
		t.Fatalf("AdjustLife by stranger = %v, want ErrInvalidState", err)
	}
}
