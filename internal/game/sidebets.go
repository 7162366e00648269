package game

import (
	"sort"

	"github.com/khelfun/vicjack/internal/deck"
)

// SideBetOutcome is a winning side-bet tier. A nil outcome means the
// stake is lost. Payout for a winning tier is stake times the multiplier
// plus the returned stake.
type SideBetOutcome struct {
	Multiplier float64
	Label      string
}

// Payout returns the total credited for the given stake, stake included.
func (o *SideBetOutcome) Payout(stake float64) float64 {
	if o == nil {
		return 0
	}
	return stake*o.Multiplier + stake
}

// PerfectPairs evaluates the player's two opening cards.
// Tiers, checked in priority order:
//
//	Perfect Pair (25x): same rank, same suit
//	Colored Pair (12x): same rank, same color, different suit
//	Mixed Pair    (5x): same rank, different color
func PerfectPairs(c1, c2 deck.Card) *SideBetOutcome {
	if c1.Rank != c2.Rank {
		return nil
	}

	if c1.Suit == c2.Suit {
		return &SideBetOutcome{Multiplier: 25, Label: "Perfect Pair"}
	}

	if c1.IsRed() == c2.IsRed() {
		return &SideBetOutcome{Multiplier: 12, Label: "Colored Pair"}
	}

	return &SideBetOutcome{Multiplier: 5, Label: "Mixed Pair"}
}

// TwentyOnePlusThree evaluates the three-card poker hand formed by the
// player's two opening cards and the dealer's up-card.
// Tiers, highest first:
//
//	Suited Trips   (100x)
//	Straight Flush  (40x)
//	Three of a Kind (30x)
//	Straight        (10x)
//	Flush            (5x)
func TwentyOnePlusThree(p1, p2, up deck.Card) *SideBetOutcome {
	isFlush := p1.Suit == p2.Suit && p2.Suit == up.Suit
	isTrips := p1.Rank == p2.Rank && p2.Rank == up.Rank

	indices := []int{p1.Rank.Index(), p2.Rank.Index(), up.Rank.Index()}
	sort.Ints(indices)

	isStraight := indices[1] == indices[0]+1 && indices[2] == indices[1]+1
	// Ace-low wheel: 2, 3, A
	if !isStraight && indices[0] == 0 && indices[1] == 1 && indices[2] == 12 {
		isStraight = true
	}

	switch {
	case isTrips && isFlush:
		return &SideBetOutcome{Multiplier: 100, Label: "Suited Trips"}
	case isStraight && isFlush:
		return &SideBetOutcome{Multiplier: 40, Label: "Straight Flush"}
	case isTrips:
		return &SideBetOutcome{Multiplier: 30, Label: "Three of a Kind"}
	case isStraight:
		return &SideBetOutcome{Multiplier: 10, Label: "Straight"}
	case isFlush:
		return &SideBetOutcome{Multiplier: 5, Label: "Flush"}
	default:
		return nil
	}
}
