package game

import "github.com/khelfun/vicjack/internal/deck"

// Settle converts final hand results and wager metadata into the total
// payout for the round. Pure function; the session credits the returned
// amount to the balance in one step on GameOver entry.
//
// Per hand with bet b: PlayerWin pays 2b (stake plus even money),
// Blackjack pays 2.5b, Push returns b. DealerWin, Bust and Surrender pay
// nothing here — surrender's half refund already happened at action time.
// Insurance pays 3x the insurance stake when the dealer holds a natural,
// and is otherwise forfeit (it was deducted at placement).
func Settle(results []Result, metadata []HandMetadata, insuranceBet float64, dealerHand []deck.Card) float64 {
	payout := 0.0

	for i, res := range results {
		bet := metadata[i].Bet
		switch res {
		case ResultPlayerWin:
			payout += bet * 2
		case ResultBlackjack:
			payout += bet * 2.5
		case ResultPush:
			payout += bet
		}
	}

	if insuranceBet > 0 && IsNatural(dealerHand) {
		payout += insuranceBet * 3
	}

	return payout
}
