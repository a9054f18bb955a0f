package game

import (
	"fmt"
	"testing"

	"cardmud/server/internal/models"
)

func testCards(n int) []*CardInstance {
	cards := make([]*CardInstance, n)
	for i := range cards {
		cards[i] = NewCardInstance(&models.Card{Name: fmt.Sprintf("Card %d", i)})
	}
	return cards
}

func fillZone(z *Zone, cards []*CardInstance) {
	for _, c := range cards {
		z.insert(c, Bottom)
	}
}

func TestMove(t *testing.T) {
	library := NewZone(Library)
	hand := NewZone(Hand)
	cards := testCards(3)
	fillZone(library, cards)

	if err := Move(cards[1], library, hand, Bottom); err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if library.Size() != 2 || hand.Size() != 1 {
		t.Fatalf("sizes = %d/%d, want 2/1", library.Size(), hand.Size())
	}

	// The card left the source zone, so moving it again must fail
	// without touching either zone.
	if err := Move(cards[1], library, hand, Bottom); err != ErrNotFound {
		t.Fatalf("Move() of absent card = %v, want ErrNotFound", err)
	}
	if library.Size() != 2 || hand.Size() != 1 {
		t.Fatalf("failed move changed state: %d/%d", library.Size(), hand.Size())
	}
}

func TestMovePositions(t *testing.T) {
	library := NewZone(Library)
	hand := NewZone(Hand)
	cards := testCards(3)
	fillZone(hand, cards)

	if err := Move(cards[2], hand, library, Top); err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if err := Move(cards[0], hand, library, Bottom); err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	top, _ := library.At(0)
	bottom, _ := library.At(1)
	if top != cards[2] || bottom != cards[0] {
		t.Fatalf("library order = [%s %s], want [Card 2 Card 0]", top.Name(), bottom.Name())
	}
}

func TestDrawBoundary(t *testing.T) {
	tests := []struct {
		name    string
		library int
		n       int
		wantErr error
	}{
		{name: "exact", library: 3, n: 3},
		{name: "plenty", library: 10, n: 1},
		{name: "one short", library: 2, n: 3, wantErr: ErrEmptyLibrary},
		{name: "empty", library: 0, n: 1, wantErr: ErrEmptyLibrary},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			library := NewZone(Library)
			hand := NewZone(Hand)
			fillZone(library, testCards(tt.library))

			err := Draw(library, hand, tt.n)
			if err != tt.wantErr {
				t.Fatalf("Draw() = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				// No partial draw: both zones untouched.
				if library.Size() != tt.library || hand.Size() != 0 {
					t.Fatalf("failed draw changed state: library %d, hand %d", library.Size(), hand.Size())
				}
				return
			}
			if library.Size() != tt.library-tt.n || hand.Size() != tt.n {
				t.Fatalf("sizes = %d/%d, want %d/%d", library.Size(), hand.Size(), tt.library-tt.n, tt.n)
			}
		})
	}
}

func TestDrawPreservesOrder(t *testing.T) {
	library := NewZone(Library)
	hand := NewZone(Hand)
	cards := testCards(5)
	fillZone(library, cards)

	if err := Draw(library, hand, 3); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
	for i := 0; i < 3; i++ {
		got, _ := hand.At(i)
		if got != cards[i] {
			t.Fatalf("hand[%d] = %s, want %s", i, got.Name(), cards[i].Name())
		}
	}
}

func TestShuffleKeepsContents(t *testing.T) {
	library := NewZone(Library)
	cards := testCards(10)
	fillZone(library, cards)

	Shuffle(library)

	if library.Size() != 10 {
		t.Fatalf("size after shuffle = %d, want 10", library.Size())
	}
	seen := make(map[*CardInstance]bool)
	for _, c := range library.Cards() {
		seen[c] = true
	}
	for _, c := range cards {
		if !seen[c] {
			t.Fatalf("card %s lost by shuffle", c.Name())
		}
	}
}

// With three cards there are six orderings; over enough shuffles every
// one of them should show up with a roughly even share.
func TestShuffleCoverage(t *testing.T) {
	const trials = 6000
	counts := make(map[string]int)
	for i := 0; i < trials; i++ {
		library := NewZone(Library)
		fillZone(library, testCards(3))
		Shuffle(library)
		key := ""
		for _, c := range library.Cards() {
			key += c.Name()
		}
		counts[key]++
	}
	if len(counts) != 6 {
		t.Fatalf("saw %d orderings, want 6: %v", len(counts), counts)
	}
	for key, n := range counts {
		// Expected 1000 each; anything past 3x off is a busted shuffle.
		if n < trials/18 || n > trials/2 {
			t.Fatalf("ordering %s came up %d times in %d trials", key, n, trials)
		}
	}
}

func TestTapUntap(t *testing.T) {
	card := NewCardInstance(&models.Card{Name: "Forest"})

	if err := card.Tap(); err != nil {
		t.Fatalf("Tap() error = %v", err)
	}
	if !card.Tapped() {
		t.Fatal("card should be tapped")
	}
	if err := card.Tap(); err != ErrAlreadyInState {
		t.Fatalf("second Tap() = %v, want ErrAlreadyInState", err)
	}
	if !card.Tapped() {
		t.Fatal("failed tap cleared the flag")
	}

	if err := card.Untap(); err != nil {
		t.Fatalf("Untap() error = %v", err)
	}
	if err := card.Untap(); err != ErrAlreadyInState {
		t.Fatalf("second Untap() = %v, want ErrAlreadyInState", err)
	}
}

func TestZoneAt(t *testing.T) {
	zone := NewZone(Hand)
	fillZone(zone, testCards(2))

	if _, err := zone.At(-1); err != ErrIndexOutOfRange {
		t.Fatalf("At(-1) = %v, want ErrIndexOutOfRange", err)
	}
	if _, err := zone.At(2); err != ErrIndexOutOfRange {
		t.Fatalf("At(2) = %v, want ErrIndexOutOfRange", err)
	}
	if c, err := zone.At(1); err != nil || c.Name() != "Card 1" {
		t.Fatalf("At(1) = %v, %v", c, err)
	}
}
