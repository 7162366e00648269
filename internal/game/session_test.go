package game

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khelfun/vicjack/internal/deck"
	"github.com/khelfun/vicjack/internal/randutil"
)

// newTestSession builds a session over a six-deck shoe with the given
// cards stacked on top, drawn in the order written.
func newTestSession(t *testing.T, stacked string, opts ...SessionOption) *Session {
	t.Helper()
	shoe := deck.NewShoe(deck.DecksPerShoe, randutil.New(1))
	if stacked != "" {
		shoe.Stack(deck.MustParseCards(stacked)...)
	}
	return NewSession(log.New(io.Discard), shoe, opts...)
}

func TestPlaceAndClearBetRoundTrip(t *testing.T) {
	s := newTestSession(t, "")

	require.NoError(t, s.PlaceBet(BetMain, 100))
	require.NoError(t, s.PlaceBet(BetPerfectPairs, 10))
	require.NoError(t, s.PlaceBet(BetTwentyOnePlusThree, 25))
	assert.Equal(t, 865.0, s.Balance())
	assert.Equal(t, 100.0, s.CurrentBet())

	require.NoError(t, s.ClearBet())
	assert.Equal(t, float64(DefaultBalance), s.Balance())
	assert.Zero(t, s.CurrentBet())
	assert.Zero(t, s.PerfectPairsBet())
	assert.Zero(t, s.TwentyOnePlusThreeBet())
}

func TestPlaceBetRejectedWhenBroke(t *testing.T) {
	s := newTestSession(t, "", WithBalance(50))

	err := s.PlaceBet(BetMain, 100)
	require.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, 50.0, s.Balance())
	assert.Zero(t, s.CurrentBet())
}

func TestDealRequiresBet(t *testing.T) {
	s := newTestSession(t, "")
	err := s.Deal()
	require.ErrorIs(t, err, ErrInvalidAction)
	assert.Equal(t, Betting, s.State())
}

func TestActionsOutsideTheirStateAreRejected(t *testing.T) {
	s := newTestSession(t, "")

	before := s.Balance()
	require.ErrorIs(t, s.Hit(), ErrInvalidStateTransition)
	require.ErrorIs(t, s.Stand(), ErrInvalidStateTransition)
	require.ErrorIs(t, s.DoubleDown(), ErrInvalidStateTransition)
	require.ErrorIs(t, s.Split(), ErrInvalidStateTransition)
	require.ErrorIs(t, s.Surrender(), ErrInvalidStateTransition)
	require.ErrorIs(t, s.InsuranceDecision(true), ErrInvalidStateTransition)
	require.ErrorIs(t, s.Reset(), ErrInvalidStateTransition)

	assert.Equal(t, before, s.Balance())
	assert.Empty(t, s.PlayerHands())
	assert.Equal(t, Betting, s.State())
}

// Scenario: bet 100, player dealt A♠ K♥ against a 9 up-card. No peek on
// a 9, the opening hand is a natural, so the round ends immediately at
// 3:2.
func TestImmediateBlackjack(t *testing.T) {
	s := newTestSession(t, "As9dKh5c")
	require.NoError(t, s.PlaceBet(BetMain, 100))
	require.NoError(t, s.Deal())

	assert.Equal(t, GameOver, s.State())
	require.Equal(t, []Result{ResultBlackjack}, s.Results())
	// 1000 - 100 bet + 250 payout
	assert.Equal(t, 1150.0, s.Balance())
}

// Scenario: dealer shows an Ace, insurance declined, hole card is a
// King. The dealer natural ends the round before any play.
func TestDealerNaturalAfterDeclinedInsurance(t *testing.T) {
	s := newTestSession(t, "9hAh7sKd")
	require.NoError(t, s.PlaceBet(BetMain, 100))
	require.NoError(t, s.Deal())
	require.Equal(t, Insurance, s.State())

	require.NoError(t, s.InsuranceDecision(false))

	assert.Equal(t, GameOver, s.State())
	require.Equal(t, []Result{ResultDealerWin}, s.Results())
	assert.Equal(t, 900.0, s.Balance())

	// Hole card revealed at settlement
	dealer := s.DealerHand()
	require.Len(t, dealer, 2)
	assert.False(t, dealer[1].Hidden)
}

func TestInsuranceTakenAndDealerNatural(t *testing.T) {
	s := newTestSession(t, "9hAh7sKd")
	require.NoError(t, s.PlaceBet(BetMain, 100))
	require.NoError(t, s.Deal())

	require.NoError(t, s.InsuranceDecision(true))

	assert.Equal(t, GameOver, s.State())
	require.Equal(t, []Result{ResultDealerWin}, s.Results())
	// -100 bet, -50 insurance, +150 insurance payout
	assert.Equal(t, 1000.0, s.Balance())
	assert.Equal(t, 50.0, s.InsuranceBet())
}

func TestInsuranceRejectedWhenBroke(t *testing.T) {
	s := newTestSession(t, "9hAh7s5d6c", WithBalance(120))
	require.NoError(t, s.PlaceBet(BetMain, 100))
	require.NoError(t, s.Deal())
	require.Equal(t, Insurance, s.State())

	// Balance 20 cannot cover the 50 insurance; decision stays pending
	err := s.InsuranceDecision(true)
	require.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, Insurance, s.State())
	assert.Zero(t, s.InsuranceBet())
	assert.Equal(t, 20.0, s.Balance())

	// Declining still works; no dealer natural, play begins
	require.NoError(t, s.InsuranceDecision(false))
	assert.Equal(t, Playing, s.State())
}

func TestPlayerNaturalPushesDealerNatural(t *testing.T) {
	s := newTestSession(t, "AsThKhAh")
	require.NoError(t, s.PlaceBet(BetMain, 100))
	require.NoError(t, s.Deal())

	assert.Equal(t, GameOver, s.State())
	require.Equal(t, []Result{ResultPush}, s.Results())
	assert.Equal(t, 1000.0, s.Balance())
}

// Scenario: Perfect Pairs stake 10 on 7♣/7♠ pays the colored-pair tier
// immediately at deal completion, before the hand is played out.
func TestPerfectPairsSettledAtDeal(t *testing.T) {
	s := newTestSession(t, "7c5h7s9d")
	require.NoError(t, s.PlaceBet(BetMain, 50))
	require.NoError(t, s.PlaceBet(BetPerfectPairs, 10))
	require.NoError(t, s.Deal())

	require.Equal(t, Playing, s.State())
	// 1000 - 50 - 10 + 130
	assert.Equal(t, 1070.0, s.Balance())

	settlements := s.SideBetSettlements()
	require.Len(t, settlements, 1)
	assert.Equal(t, BetPerfectPairs, settlements[0].Kind)
	assert.Equal(t, "Colored Pair", settlements[0].Outcome.Label)
	assert.Equal(t, 130.0, settlements[0].Payout)
}

func TestTwentyOnePlusThreeFlushSettledAtDeal(t *testing.T) {
	// Player 2♥ 8♥, dealer up K♥: flush only, stake 10 pays 60
	s := newTestSession(t, "2hKh8h5d")
	require.NoError(t, s.PlaceBet(BetMain, 50))
	require.NoError(t, s.PlaceBet(BetTwentyOnePlusThree, 10))
	require.NoError(t, s.Deal())

	settlements := s.SideBetSettlements()
	require.Len(t, settlements, 1)
	assert.Equal(t, BetTwentyOnePlusThree, settlements[0].Kind)
	assert.Equal(t, "Flush", settlements[0].Outcome.Label)
	assert.Equal(t, 60.0, settlements[0].Payout)
	// 1000 - 50 - 10 + 60; the K up-card peek found no natural
	assert.Equal(t, 1000.0, s.Balance())
}

func TestHitToBustEndsRoundWithoutDealerDraws(t *testing.T) {
	s := newTestSession(t, "Kh9dQh6sJs")
	require.NoError(t, s.PlaceBet(BetMain, 100))
	require.NoError(t, s.Deal())
	require.Equal(t, Playing, s.State())

	require.NoError(t, s.Hit())

	assert.Equal(t, GameOver, s.State())
	require.Equal(t, []Result{ResultBust}, s.Results())
	assert.Equal(t, 900.0, s.Balance())
	// Every hand was terminal, so the dealer revealed and stood pat
	assert.Len(t, s.DealerHand(), 2)
}

func TestDoubleDownDrawsOneCardAndEndsHand(t *testing.T) {
	s := newTestSession(t, "5h9d6c7sThKc")
	require.NoError(t, s.PlaceBet(BetMain, 100))
	require.NoError(t, s.Deal())

	require.NoError(t, s.DoubleDown())

	assert.Equal(t, GameOver, s.State())
	require.Equal(t, []Result{ResultPlayerWin}, s.Results())

	meta := s.Metadata()
	require.Len(t, meta, 1)
	assert.True(t, meta[0].IsDoubled)
	assert.Equal(t, 200.0, meta[0].Bet)

	// Player 5+6+T = 21; dealer 9+7 = 16 draws K and busts.
	// 1000 - 100 - 100 + 400
	assert.Equal(t, 1200.0, s.Balance())
	require.Len(t, s.PlayerHands()[0], 3)
}

// Scenario: active hand has two cards but the balance cannot match the
// bet. The double is rejected with nothing mutated.
func TestDoubleDownRejectedWhenBroke(t *testing.T) {
	s := newTestSession(t, "5h9d6c7s", WithBalance(150))
	require.NoError(t, s.PlaceBet(BetMain, 100))
	require.NoError(t, s.Deal())
	require.Equal(t, Playing, s.State())

	err := s.DoubleDown()
	require.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Contains(t, err.Error(), "insufficient funds")

	assert.Equal(t, Playing, s.State())
	assert.Equal(t, 50.0, s.Balance())
	meta := s.Metadata()
	assert.False(t, meta[0].IsDoubled)
	assert.Equal(t, 100.0, meta[0].Bet)
	assert.Len(t, s.PlayerHands()[0], 2)
}

func TestSurrenderRefundsHalf(t *testing.T) {
	s := newTestSession(t, "9hTh7s6d")
	require.NoError(t, s.PlaceBet(BetMain, 100))
	require.NoError(t, s.Deal())
	require.Equal(t, Playing, s.State())

	require.NoError(t, s.Surrender())

	assert.Equal(t, GameOver, s.State())
	require.Equal(t, []Result{ResultSurrender}, s.Results())
	assert.True(t, s.Metadata()[0].IsSurrendered)
	// Half the bet back at action time, nothing at settlement
	assert.Equal(t, 950.0, s.Balance())
	// Dealer stands pat on an already-decided round
	assert.Len(t, s.DealerHand(), 2)
}

// Scenario: split 8♠/8♣ at bet 50. The first hand busts, the second
// stands and wins when the dealer busts; settlement pays only hand two.
func TestSplitHandsSettleIndependently(t *testing.T) {
	s := newTestSession(t, "8s9h8c7dThTd5h6h")
	require.NoError(t, s.PlaceBet(BetMain, 50))
	require.NoError(t, s.Deal())
	require.Equal(t, Playing, s.State())

	require.NoError(t, s.Split())
	hands := s.PlayerHands()
	require.Len(t, hands, 2)
	require.Len(t, hands[0], 2)
	require.Len(t, hands[1], 2)
	assert.Equal(t, 0, s.ActiveHandIndex())
	// Both metadata entries carry the original bet
	meta := s.Metadata()
	assert.Equal(t, 50.0, meta[0].Bet)
	assert.Equal(t, 50.0, meta[1].Bet)

	// No resplitting, no surrender after a split
	require.ErrorIs(t, s.Split(), ErrInvalidAction)
	require.ErrorIs(t, s.Surrender(), ErrInvalidAction)

	// Hand one: 8+T, hit 5 busts and auto-advances
	require.NoError(t, s.Hit())
	assert.Equal(t, 1, s.ActiveHandIndex())
	assert.Equal(t, Playing, s.State())

	// Hand two stands; dealer 9+7 draws 6 and busts
	require.NoError(t, s.Stand())
	assert.Equal(t, GameOver, s.State())
	require.Equal(t, []Result{ResultBust, ResultPlayerWin}, s.Results())

	// 1000 - 50 - 50 + 100
	assert.Equal(t, 1000.0, s.Balance())
}

func TestSplitRequiresPairAndFunds(t *testing.T) {
	s := newTestSession(t, "8s9h7c6d")
	require.NoError(t, s.PlaceBet(BetMain, 50))
	require.NoError(t, s.Deal())

	require.ErrorIs(t, s.Split(), ErrInvalidAction)

	broke := newTestSession(t, "8s9h8c6d", WithBalance(80))
	require.NoError(t, broke.PlaceBet(BetMain, 50))
	require.NoError(t, broke.Deal())
	require.ErrorIs(t, broke.Split(), ErrInsufficientFunds)
	assert.Len(t, broke.PlayerHands(), 1)
}

func TestDealerStandsOnSoftSeventeen(t *testing.T) {
	// Player stands on 19; dealer 6+A is a soft 17 and must not draw
	s := newTestSession(t, "Kh6s9hAh")
	require.NoError(t, s.PlaceBet(BetMain, 100))
	require.NoError(t, s.Deal())
	require.Equal(t, Playing, s.State())

	require.NoError(t, s.Stand())

	assert.Equal(t, GameOver, s.State())
	assert.Len(t, s.DealerHand(), 2)
	require.Equal(t, []Result{ResultPlayerWin}, s.Results())
}

func TestPushReturnsStake(t *testing.T) {
	// Player 20 stands, dealer 20
	s := newTestSession(t, "KhKdQhTs")
	require.NoError(t, s.PlaceBet(BetMain, 100))
	require.NoError(t, s.Deal())
	require.NoError(t, s.Stand())

	require.Equal(t, []Result{ResultPush}, s.Results())
	assert.Equal(t, 1000.0, s.Balance())
}

func TestResetClearsRoundAndIsIdempotent(t *testing.T) {
	s := newTestSession(t, "As9dKh5c")
	require.NoError(t, s.PlaceBet(BetMain, 100))
	require.NoError(t, s.Deal())
	require.Equal(t, GameOver, s.State())

	require.NoError(t, s.Reset())
	assert.Equal(t, Betting, s.State())
	assert.Empty(t, s.PlayerHands())
	assert.Empty(t, s.DealerHand())
	assert.Empty(t, s.Results())
	assert.Zero(t, s.CurrentBet())
	balance := s.Balance()

	// A second reset is the usual out-of-state no-op
	require.ErrorIs(t, s.Reset(), ErrInvalidStateTransition)
	assert.Equal(t, Betting, s.State())
	assert.Equal(t, balance, s.Balance())
	assert.Empty(t, s.PlayerHands())
}

func TestDealRebuildsShoeAtCutCard(t *testing.T) {
	shoe := deck.NewShoe(1, randutil.New(3))
	_, err := shoe.Draw()
	require.NoError(t, err)
	require.True(t, shoe.NeedsReshuffle())

	s := NewSession(log.New(io.Discard), shoe)
	require.NoError(t, s.PlaceBet(BetMain, 10))
	require.NoError(t, s.Deal())

	// Rebuilt to 52 before dealing four cards
	assert.Equal(t, 48, s.ShoeRemaining())
}

type eventCollector struct {
	events []Event
}

func (c *eventCollector) OnEvent(event Event) {
	c.events = append(c.events, event)
}

func TestSessionPublishesRoundEvents(t *testing.T) {
	collector := &eventCollector{}
	bus := NewEventBus()
	bus.Subscribe(collector)

	shoe := deck.NewShoe(deck.DecksPerShoe, randutil.New(1))
	shoe.Stack(deck.MustParseCards("As9dKh5c")...)
	s := NewSession(log.New(io.Discard), shoe, WithEventBus(bus))

	require.NoError(t, s.PlaceBet(BetMain, 100))
	require.NoError(t, s.Deal())

	var dealt, settled int
	var transitions []State
	for _, e := range collector.events {
		switch ev := e.(type) {
		case CardDealtEvent:
			dealt++
		case RoundSettledEvent:
			settled++
			assert.Equal(t, 250.0, ev.Payout)
		case StateChangedEvent:
			transitions = append(transitions, ev.To)
		}
	}

	assert.Equal(t, 4, dealt)
	assert.Equal(t, 1, settled)
	assert.Equal(t, []State{Dealing, GameOver}, transitions)
}
