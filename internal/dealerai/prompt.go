package dealerai

import (
	"fmt"
	"strings"

	"github.com/khelfun/vicjack/internal/deck"
	"github.com/khelfun/vicjack/internal/game"
)

// Snapshot is everything prompt construction needs to react to a table
// event. Action is set for the explicit announcements (double,
// surrender, insurance); for everything else the state and results
// decide the event.
type Snapshot struct {
	State       game.State
	Results     []game.Result
	PlayerHands [][]deck.Card
	DealerHand  []deck.Card
	CurrentBet  float64
	Balance     float64
	Action      *game.Action
}

func formatHand(hand []deck.Card) string {
	parts := make([]string, len(hand))
	for i, c := range hand {
		if c.Hidden {
			parts[i] = "[Hidden]"
		} else {
			parts[i] = c.String()
		}
	}
	return strings.Join(parts, ", ")
}

func formatScores(hands [][]deck.Card) string {
	scores := make([]string, len(hands))
	for i, h := range hands {
		scores[i] = fmt.Sprintf("%d", game.Score(h))
	}
	return strings.Join(scores, ", ")
}

// BuildComment derives the game-event context sentence and the fallback
// key for a snapshot, then assembles the full one-liner prompt.
func BuildComment(snap Snapshot) (prompt string, key CommentKey) {
	context, key := classify(snap)

	handStrs := make([]string, len(snap.PlayerHands))
	for i, h := range snap.PlayerHands {
		handStrs[i] = formatHand(h)
	}

	prompt = fmt.Sprintf(`%s

Current Game Event: %s
Data:
- Player's Hand(s): %s (Scores: %s)
- Dealer's Hand: %s
- Bet: $%v
- Balance: $%v

Generate a ONE-sentence comment (max 15 words) that reacts to the situation.`,
		Persona,
		context,
		strings.Join(handStrs, " | "),
		formatScores(snap.PlayerHands),
		formatHand(snap.DealerHand),
		snap.CurrentBet,
		snap.Balance,
	)
	return prompt, key
}

// classify maps a snapshot onto the event taxonomy. Explicit actions
// win; then the state; GameOver collapses split hands to a majority
// verdict, the way the table banter should.
func classify(snap Snapshot) (string, CommentKey) {
	if snap.Action != nil {
		switch *snap.Action {
		case game.ActionDouble:
			return "Player just Doubled Down. High risk, high reward.", KeyDouble
		case game.ActionSurrender:
			return "Player Surrendered the hand, forfeiting half the bet.", KeySurrender
		case game.ActionInsurance:
			return "Dealer is showing an Ace. Player is considering Insurance.", KeyInsurance
		}
	}

	isSplit := len(snap.PlayerHands) > 1

	switch snap.State {
	case game.Playing:
		totalCards := 0
		for _, h := range snap.PlayerHands {
			totalCards += len(h)
		}
		switch {
		case isSplit && totalCards == 4:
			return "Player just split their hand.", KeySplit
		case !isSplit && len(snap.PlayerHands) == 1 && len(snap.PlayerHands[0]) == 2:
			return fmt.Sprintf("The player has just been dealt their opening hand. Score: %s.",
				formatScores(snap.PlayerHands)), KeyInitial
		default:
			return fmt.Sprintf("The player is hitting. Scores: %s.",
				formatScores(snap.PlayerHands)), KeyHit
		}

	case game.DealerTurn:
		return fmt.Sprintf("The player finished their turn. Final Player Scores: %s. Now dealer plays.",
			formatScores(snap.PlayerHands)), KeyStand

	case game.GameOver:
		return classifyOutcome(snap.Results, isSplit)
	}

	return "Something is happening at the table.", KeyDefault
}

func classifyOutcome(results []game.Result, isSplit bool) (string, CommentKey) {
	for _, r := range results {
		if r == game.ResultSurrender {
			return "Player surrendered.", KeySurrender
		}
	}

	if isSplit {
		wins, losses := 0, 0
		for _, r := range results {
			switch r {
			case game.ResultPlayerWin, game.ResultBlackjack:
				wins++
			case game.ResultDealerWin, game.ResultBust:
				losses++
			}
		}
		switch {
		case wins > losses:
			return "Player won majority of split hands.", KeyPlayerWin
		case losses > wins:
			return "Player lost majority of split hands.", KeyDealerWin
		default:
			return "Player broke even on split hands.", KeyMixed
		}
	}

	if len(results) > 0 {
		switch results[0] {
		case game.ResultPlayerWin:
			return "The player won.", KeyPlayerWin
		case game.ResultDealerWin:
			return "The dealer (you) won.", KeyDealerWin
		case game.ResultBust:
			return "The player busted.", KeyBust
		case game.ResultBlackjack:
			return "The player got Blackjack!", KeyBlackjack
		case game.ResultPush:
			return "It's a push (tie).", KeyPush
		}
	}
	return "The round is over.", KeyDefault
}
