package game

import "github.com/khelfun/vicjack/internal/deck"

// Score computes the blackjack value of a hand. Aces count 11 until the
// total would bust, then soften to 1 one at a time. Hidden cards
// contribute nothing, which gives the up-card-only view of the dealer's
// hand before the reveal. Pure function of the visible cards.
func Score(hand []deck.Card) int {
	score := 0
	aces := 0

	for _, card := range hand {
		if card.Hidden {
			continue
		}
		score += card.BlackjackValue()
		if card.IsAce() {
			aces++
		}
	}

	for score > 21 && aces > 0 {
		score -= 10
		aces--
	}

	return score
}

// IsSoft reports whether the hand's score still counts an Ace as 11.
func IsSoft(hand []deck.Card) bool {
	hard := 0
	aces := 0
	for _, card := range hand {
		if card.Hidden {
			continue
		}
		if card.IsAce() {
			aces++
			hard += 1
		} else {
			hard += card.BlackjackValue()
		}
	}
	return aces > 0 && hard+10 <= 21
}

// IsNatural reports a two-card 21, the only hand that pays 3:2.
func IsNatural(hand []deck.Card) bool {
	return len(hand) == 2 && Score(hand) == 21
}

// IsBust reports a hand over 21.
func IsBust(hand []deck.Card) bool {
	return Score(hand) > 21
}
