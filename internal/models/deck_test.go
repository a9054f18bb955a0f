package models

import "testing"

func TestCardCount(t *testing.T) {
	tests := []struct {
		name string
		deck Deck
		want int
	}{
		{name: "empty", deck: Deck{}, want: 0},
		{name: "nil map", deck: Deck{Cards: nil}, want: 0},
		{name: "counts sum", deck: Deck{Cards: map[uint]int{1: 4, 2: 20, 3: 1}}, want: 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.deck.CardCount(); got != tt.want {
				t.Fatalf("CardCount() = %d, want %d", got, tt.want)
			}
		})
	}
}
