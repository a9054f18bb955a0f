package game

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"cardmud/server/internal/models"
)

// PlayerID identifies a seated player. It is the persisted user ID.
type PlayerID uint

// Notifier delivers a message to a set of players after a successful
// table mutation. Delivery failures (a disconnected peer) are the
// notifier's problem; the engine never sees them. Implementations must
// not call back into the table.
type Notifier interface {
	Notify(players []PlayerID, msg string)
}

// TableState tracks the table lifecycle.
type TableState int

const (
	Forming TableState = iota // fewer than two seated, accepting joins
	Active                    // two seated, round timer running
	Ended                     // last player left
)

const (
	MaxSeats     = 2
	StartingLife = 20
)

// seat holds one player's five zones and life total. The zones
// partition the player's cards: an instance is in exactly one of them.
type seat struct {
	player      PlayerID
	name        string
	library     *Zone
	hand        *Zone
	battlefield *Zone
	graveyard   *Zone
	exile       *Zone
	life        int
}

func newSeat(p PlayerID, name string) *seat {
	return &seat{
		player:      p,
		name:        name,
		library:     NewZone(Library),
		hand:        NewZone(Hand),
		battlefield: NewZone(Battlefield),
		graveyard:   NewZone(Graveyard),
		exile:       NewZone(Exile),
		life:        StartingLife,
	}
}

func (s *seat) zone(k ZoneKind) *Zone {
	switch k {
	case Library:
		return s.library
	case Hand:
		return s.hand
	case Battlefield:
		return s.battlefield
	case Graveyard:
		return s.graveyard
	case Exile:
		return s.exile
	}
	return nil
}

// Table is one game session. Every public verb locks the table, so
// concurrent commands from both players and the round-timer callback
// are serialized: at most one mutation is in flight per table.
type Table struct {
	Name        string
	CreatedTick uint64

	mu           sync.Mutex
	state        TableState
	seats        []*seat
	ticker       *Ticker
	notifier     Notifier
	roundTicks   uint64
	timerID      uint64
	timerSet     bool
	roundExpired bool
}

// NewTable creates a forming table. roundTicks is the round limit in
// ticks; the timer starts when the second player sits down.
func NewTable(name string, ticker *Ticker, notifier Notifier, roundTicks uint64) *Table {
	return &Table{
		Name:        name,
		CreatedTick: ticker.Count(),
		state:       Forming,
		ticker:      ticker,
		notifier:    notifier,
		roundTicks:  roundTicks,
	}
}

func (t *Table) seatFor(p PlayerID) *seat {
	for _, s := range t.seats {
		if s.player == p {
			return s
		}
	}
	return nil
}

func (t *Table) notifyLocked(format string, args ...interface{}) {
	if t.notifier == nil {
		return
	}
	players := make([]PlayerID, len(t.seats))
	for i, s := range t.seats {
		players[i] = s.player
	}
	t.notifier.Notify(players, fmt.Sprintf(format, args...))
}

// Join seats a player, deals their library from the given deck list
// (one catalog card per copy), shuffles it and sets life to 20. A
// player who is already seated re-joins as a no-op. A third distinct
// player gets ErrTableFull. Seating the second player activates the
// table and starts the round timer.
func (t *Table) Join(p PlayerID, name string, deck []*models.Card) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == Ended {
		return ErrInvalidState
	}
	if t.seatFor(p) != nil {
		return nil
	}
	if len(t.seats) >= MaxSeats {
		return ErrTableFull
	}
	s := newSeat(p, name)
	for _, c := range deck {
		s.library.insert(NewCardInstance(c), Bottom)
	}
	Shuffle(s.library)
	t.seats = append(t.seats, s)
	if len(t.seats) == MaxSeats && t.state == Forming {
		t.state = Active
		t.timerID = t.ticker.Register(t.roundTimerExpire, t.roundTicks, false)
		t.timerSet = true
	}
	t.notifyLocked("%s has joined the table.", name)
	return nil
}

// Leave removes the player's seat and discards their zones. When the
// last seat empties the table ends and a still-pending round timer is
// deregistered so it cannot fire on a dead table.
func (t *Table) Leave(p PlayerID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, s := range t.seats {
		if s.player != p {
			continue
		}
		t.seats = append(t.seats[:i], t.seats[i+1:]...)
		if len(t.seats) == 0 {
			t.state = Ended
			if t.timerSet {
				t.ticker.Remove(t.timerID)
				t.timerSet = false
			}
		}
		t.notifyLocked("%s has left the table.", s.name)
		return nil
	}
	return ErrInvalidState
}

// Draw moves the top n cards of the player's library to their hand.
// The library size is re-validated here, not just at the command layer,
// so the no-partial-draw invariant holds no matter who calls.
func (t *Table) Draw(p PlayerID, n int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.seatFor(p)
	if s == nil {
		return ErrInvalidState
	}
	if n < 1 {
		return ErrIndexOutOfRange
	}
	if err := Draw(s.library, s.hand, n); err != nil {
		return err
	}
	if n == 1 {
		t.notifyLocked("%s draws a card.", s.name)
	} else {
		t.notifyLocked("%s draws %d cards.", s.name, n)
	}
	return nil
}

// moveByIndex is the shared body of the indexed zone-to-zone verbs. The
// index is resolved against the zone's contents at call time, never a
// cached snapshot.
func (t *Table) moveByIndex(p PlayerID, from ZoneKind, idx int, to ZoneKind, pos Position, format string) (*CardInstance, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.seatFor(p)
	if s == nil {
		return nil, ErrInvalidState
	}
	card, err := s.zone(from).At(idx)
	if err != nil {
		return nil, err
	}
	if err := Move(card, s.zone(from), s.zone(to), pos); err != nil {
		return nil, err
	}
	t.notifyLocked(format, s.name, card.Name())
	return card, nil
}

// Play moves the indexed hand card to the battlefield.
func (t *Table) Play(p PlayerID, idx int) (*CardInstance, error) {
	return t.moveByIndex(p, Hand, idx, Battlefield, Bottom, "%s plays %s.")
}

// Discard moves the indexed hand card to the graveyard.
func (t *Table) Discard(p PlayerID, idx int) (*CardInstance, error) {
	return t.moveByIndex(p, Hand, idx, Graveyard, Bottom, "%s discards %s.")
}

// Destroy moves the indexed battlefield card to the graveyard.
func (t *Table) Destroy(p PlayerID, idx int) (*CardInstance, error) {
	return t.moveByIndex(p, Battlefield, idx, Graveyard, Bottom, "%s destroys their %s.")
}

// Return moves the indexed battlefield card back to the hand.
func (t *Table) Return(p PlayerID, idx int) (*CardInstance, error) {
	return t.moveByIndex(p, Battlefield, idx, Hand, Bottom, "%s returns %s to their hand.")
}

// Greturn moves the indexed graveyard card back to the hand.
func (t *Table) Greturn(p PlayerID, idx int) (*CardInstance, error) {
	return t.moveByIndex(p, Graveyard, idx, Hand, Bottom, "%s returns %s from their graveyard to hand.")
}

// Unearth moves the indexed graveyard card onto the battlefield.
func (t *Table) Unearth(p PlayerID, idx int) (*CardInstance, error) {
	return t.moveByIndex(p, Graveyard, idx, Battlefield, Bottom, "%s unearths their %s.")
}

// Exile moves the indexed battlefield card to exile.
func (t *Table) Exile(p PlayerID, idx int) (*CardInstance, error) {
	return t.moveByIndex(p, Battlefield, idx, Exile, Bottom, "%s exiles their %s.")
}

// Grexile moves the indexed graveyard card to exile.
func (t *Table) Grexile(p PlayerID, idx int) (*CardInstance, error) {
	return t.moveByIndex(p, Graveyard, idx, Exile, Bottom, "%s exiles %s from their graveyard.")
}

// TapCard taps the indexed battlefield card. An already-tapped card
// reports ErrAlreadyInState along with the card so the caller can name
// it; nothing changes.
func (t *Table) TapCard(p PlayerID, idx int) (*CardInstance, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.seatFor(p)
	if s == nil {
		return nil, ErrInvalidState
	}
	card, err := s.battlefield.At(idx)
	if err != nil {
		return nil, err
	}
	if err := card.Tap(); err != nil {
		return card, err
	}
	t.notifyLocked("%s taps %s.", s.name, card.Name())
	return card, nil
}

// UntapCard untaps the indexed battlefield card, same contract as
// TapCard.
func (t *Table) UntapCard(p PlayerID, idx int) (*CardInstance, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.seatFor(p)
	if s == nil {
		return nil, ErrInvalidState
	}
	card, err := s.battlefield.At(idx)
	if err != nil {
		return nil, err
	}
	if err := card.Untap(); err != nil {
		return card, err
	}
	t.notifyLocked("%s untaps %s.", s.name, card.Name())
	return card, nil
}

// TapAll taps the player's whole battlefield. Already-tapped cards are
// left alone.
func (t *Table) TapAll(p PlayerID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.seatFor(p)
	if s == nil {
		return ErrInvalidState
	}
	for _, card := range s.battlefield.cards {
		card.tapped = true
	}
	t.notifyLocked("%s taps all their cards.", s.name)
	return nil
}

// UntapAll untaps the player's whole battlefield.
func (t *Table) UntapAll(p PlayerID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.seatFor(p)
	if s == nil {
		return ErrInvalidState
	}
	for _, card := range s.battlefield.cards {
		card.tapped = false
	}
	t.notifyLocked("%s untaps all their cards.", s.name)
	return nil
}

// Shuffle randomizes the player's library.
func (t *Table) Shuffle(p PlayerID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.seatFor(p)
	if s == nil {
		return ErrInvalidState
	}
	Shuffle(s.library)
	t.notifyLocked("%s shuffles their library.", s.name)
	return nil
}

// Tutor searches the library for a case-insensitive name match, moves
// the hit to the hand and reshuffles the library. A miss is ErrNotFound
// with no state change. The whole search-move-reshuffle runs under the
// table lock, so no other call can interleave with it.
func (t *Table) Tutor(p PlayerID, name string) (*CardInstance, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.seatFor(p)
	if s == nil {
		return nil, ErrInvalidState
	}
	target := strings.ToLower(name)
	for _, card := range s.library.cards {
		if strings.ToLower(card.Name()) != target {
			continue
		}
		if err := Move(card, s.library, s.hand, Bottom); err != nil {
			return nil, err
		}
		Shuffle(s.library)
		t.notifyLocked("%s tutors %s from their library.", s.name, card.Name())
		return card, nil
	}
	return nil, ErrNotFound
}

// Stack returns every card from the player's non-library zones to the
// library, untapping them on the way, then shuffles.
func (t *Table) Stack(p PlayerID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.seatFor(p)
	if s == nil {
		return ErrInvalidState
	}
	for _, z := range []*Zone{s.hand, s.battlefield, s.graveyard, s.exile} {
		for z.Size() > 0 {
			card := z.removeAt(0)
			card.tapped = false
			s.library.insert(card, Bottom)
		}
	}
	Shuffle(s.library)
	t.notifyLocked("%s stacks their library.", s.name)
	return nil
}

// Scoop concedes: all five zones are emptied. This is the one verb that
// intentionally makes cards vanish.
func (t *Table) Scoop(p PlayerID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.seatFor(p)
	if s == nil {
		return ErrInvalidState
	}
	s.library.clear()
	s.hand.clear()
	s.battlefield.clear()
	s.graveyard.clear()
	s.exile.clear()
	t.notifyLocked("%s scoops it up!", s.name)
	return nil
}

// AdjustLife adds delta (possibly negative) to the player's life total
// and returns the new value. No floor or ceiling is enforced.
func (t *Table) AdjustLife(p PlayerID, delta int) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.seatFor(p)
	if s == nil {
		return 0, ErrInvalidState
	}
	s.life += delta
	t.notifyLocked("%s sets their life total to %d.", s.name, s.life)
	return s.life, nil
}

// Dice rolls a die with the given number of sides and announces the
// result to the table.
func (t *Table) Dice(p PlayerID, sides int) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.seatFor(p)
	if s == nil {
		return 0, ErrInvalidState
	}
	if sides < 1 {
		return 0, ErrIndexOutOfRange
	}
	roll := rand.Intn(sides) + 1
	t.notifyLocked("%s rolled %d on a %d sided dice.", s.name, roll, sides)
	return roll, nil
}

// roundTimerExpire is the scheduler callback for the round limit. It
// runs on the ticker goroutine, so it takes the table lock like any
// verb and treats an already-ended table as a no-op. The round ending
// does not end the table; the players decide what to do with it.
func (t *Table) roundTimerExpire() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.timerSet = false
	if t.state == Ended || t.roundExpired {
		return
	}
	t.roundExpired = true
	t.notifyLocked("Time! The round is over.")
}

func (t *Table) State() TableState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *Table) RoundExpired() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.roundExpired
}

// Seated reports whether the player has a seat at this table.
func (t *Table) Seated(p PlayerID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.seatFor(p) != nil
}

// Players lists the seated players.
func (t *Table) Players() []PlayerID {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]PlayerID, len(t.seats))
	for i, s := range t.seats {
		out[i] = s.player
	}
	return out
}

// Counts returns the player's hand, library and graveyard sizes, for
// the prompt line.
func (t *Table) Counts(p PlayerID) (hand, library, graveyard int, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.seatFor(p)
	if s == nil {
		return 0, 0, 0, false
	}
	return s.hand.Size(), s.library.Size(), s.graveyard.Size(), true
}

// HandCards lists the player's own hand in positional order, the order
// the play/discard indices refer to.
func (t *Table) HandCards(p PlayerID) ([]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.seatFor(p)
	if s == nil {
		return nil, ErrInvalidState
	}
	out := make([]string, s.hand.Size())
	for i, c := range s.hand.cards {
		out[i] = c.Name()
	}
	return out, nil
}

// ElapsedTicks is the table's age on the shared clock.
func (t *Table) ElapsedTicks() uint64 {
	return t.ticker.Count() - t.CreatedTick
}
