package simulator

import (
	"github.com/khelfun/vicjack/internal/deck"
	"github.com/khelfun/vicjack/internal/game"
)

// Decision is a single basic strategy choice for the active hand
type Decision int

const (
	DecideStand Decision = iota
	DecideHit
	DecideDouble
	DecideSplit
	DecideSurrender
)

func (d Decision) String() string {
	switch d {
	case DecideStand:
		return "stand"
	case DecideHit:
		return "hit"
	case DecideDouble:
		return "double"
	case DecideSplit:
		return "split"
	case DecideSurrender:
		return "surrender"
	}
	return "unknown"
}

// BasicStrategy decides the play for hand against the dealer up card.
// It follows the standard multi-deck chart for a table where the dealer
// stands on soft 17 and doubling after split is allowed. canSplit,
// canDouble and canSurrender reflect what the table currently permits;
// when the chart's first choice is unavailable the standard fallback
// applies.
func BasicStrategy(hand []deck.Card, upCard deck.Card, canSplit, canDouble, canSurrender bool) Decision {
	up := upCard.BlackjackValue()

	if canSplit && len(hand) == 2 && hand[0].Rank == hand[1].Rank {
		if d, ok := pairDecision(hand[0], up); ok {
			return d
		}
	}

	score := game.Score(hand)

	if game.IsSoft(hand) {
		return softDecision(score, up, canDouble)
	}

	if canSurrender {
		if score == 16 && up >= 9 {
			return DecideSurrender
		}
		if score == 15 && up == 10 {
			return DecideSurrender
		}
	}

	return hardDecision(score, up, canDouble)
}

// pairDecision returns the split-chart choice, or ok=false when the
// pair plays as its hard or soft total instead.
func pairDecision(card deck.Card, up int) (Decision, bool) {
	switch {
	case card.IsAce():
		return DecideSplit, true
	case card.Rank == deck.Eight:
		return DecideSplit, true
	case card.Rank == deck.Nine:
		if up != 7 && up != 10 && up != 11 {
			return DecideSplit, true
		}
	case card.Rank == deck.Seven, card.Rank == deck.Two, card.Rank == deck.Three:
		if up <= 7 {
			return DecideSplit, true
		}
	case card.Rank == deck.Six:
		if up <= 6 {
			return DecideSplit, true
		}
	case card.Rank == deck.Four:
		if up == 5 || up == 6 {
			return DecideSplit, true
		}
	}
	// Fives and tens never split.
	return DecideStand, false
}

func softDecision(score, up int, canDouble bool) Decision {
	switch {
	case score >= 20:
		return DecideStand
	case score == 19:
		if canDouble && up == 6 {
			return DecideDouble
		}
		return DecideStand
	case score == 18:
		if up <= 6 {
			if canDouble {
				return DecideDouble
			}
			return DecideStand
		}
		if up <= 8 {
			return DecideStand
		}
		return DecideHit
	case score == 17:
		if canDouble && up >= 3 && up <= 6 {
			return DecideDouble
		}
		return DecideHit
	case score >= 15:
		if canDouble && up >= 4 && up <= 6 {
			return DecideDouble
		}
		return DecideHit
	default:
		if canDouble && (up == 5 || up == 6) {
			return DecideDouble
		}
		return DecideHit
	}
}

func hardDecision(score, up int, canDouble bool) Decision {
	switch {
	case score >= 17:
		return DecideStand
	case score >= 13:
		if up <= 6 {
			return DecideStand
		}
		return DecideHit
	case score == 12:
		if up >= 4 && up <= 6 {
			return DecideStand
		}
		return DecideHit
	case score == 11:
		if canDouble {
			return DecideDouble
		}
		return DecideHit
	case score == 10:
		if canDouble && up <= 9 {
			return DecideDouble
		}
		return DecideHit
	case score == 9:
		if canDouble && up >= 3 && up <= 6 {
			return DecideDouble
		}
		return DecideHit
	default:
		return DecideHit
	}
}
