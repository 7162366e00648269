package game

import "github.com/khelfun/vicjack/internal/deck"

// dealerStandsOn is the total at which the dealer stops drawing.
// The dealer stands on every 17, soft or hard.
const dealerStandsOn = 17

// PeekForNatural checks the dealer's two dealt cards for a natural 21.
// Both cards are counted at nominal value (an Ace as 11); a two-card
// total can never need softening. The session only calls this when the
// up-card is an Ace or a ten-value card — on any other up-card the peek
// is skipped and play proceeds, per standard table procedure.
func PeekForNatural(dealerHand []deck.Card) bool {
	if len(dealerHand) != 2 {
		return false
	}
	return dealerHand[0].BlackjackValue()+dealerHand[1].BlackjackValue() == 21
}

// ShouldPeek reports whether the up-card obliges a hole-card peek.
func ShouldPeek(upCard deck.Card) bool {
	return upCard.IsAce() || upCard.IsTenValue()
}

// DealerMustDraw reports whether the house drawing rule requires another
// card for the given (fully revealed) dealer hand.
func DealerMustDraw(dealerHand []deck.Card) bool {
	return Score(dealerHand) < dealerStandsOn
}
