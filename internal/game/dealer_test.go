package game

import (
	"testing"

	"github.com/khelfun/vicjack/internal/deck"
)

func TestPeekForNatural(t *testing.T) {
	tests := []struct {
		cards   string
		natural bool
	}{
		{"AsKh", true},
		{"KhAs", true},
		{"ThAd", true},
		{"KhQd", false},
		{"As9h", false},
		{"AsAh", false}, // two aces total 22, not a natural
	}

	for _, tt := range tests {
		hand := deck.MustParseCards(tt.cards)
		hand[1] = hand[1].FaceDown() // hole card, as dealt
		if got := PeekForNatural(hand); got != tt.natural {
			t.Errorf("PeekForNatural(%s) = %v, expected %v", tt.cards, got, tt.natural)
		}
	}
}

func TestShouldPeek(t *testing.T) {
	for _, s := range []string{"As", "Th", "Jd", "Qc", "Ks"} {
		card, _ := deck.ParseCard(s)
		if !ShouldPeek(card) {
			t.Errorf("up-card %s should trigger a peek", s)
		}
	}
	for _, s := range []string{"2s", "6h", "9d"} {
		card, _ := deck.ParseCard(s)
		if ShouldPeek(card) {
			t.Errorf("up-card %s should not trigger a peek", s)
		}
	}
}

func TestDealerMustDraw(t *testing.T) {
	tests := []struct {
		cards string
		draw  bool
	}{
		{"KhQd", false}, // hard 20
		{"Kh7d", false}, // hard 17
		{"Ah6d", false}, // soft 17: dealer stands on all 17s
		{"Kh6d", true},  // hard 16
		{"Ah5d", true},  // soft 16
		{"2h3d", true},
	}

	for _, tt := range tests {
		hand := deck.MustParseCards(tt.cards)
		if got := DealerMustDraw(hand); got != tt.draw {
			t.Errorf("DealerMustDraw(%s) = %v, expected %v", tt.cards, got, tt.draw)
		}
	}
}
