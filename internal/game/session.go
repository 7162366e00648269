package game

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/khelfun/vicjack/internal/deck"
)

// DefaultBalance is the bankroll a fresh session starts with.
const DefaultBalance = 1000

// Session is the authoritative state of one blackjack table seat. It
// owns the shoe, the hands, the ledger and the state machine, and is the
// only thing allowed to mutate any of them. All methods run to
// completion before the next is accepted; the state guards are the
// synchronization, not locks.
type Session struct {
	logger *log.Logger
	shoe   *deck.Shoe
	bus    EventBus

	state       State
	playerHands [][]deck.Card
	metadata    []HandMetadata
	results     []Result
	activeHand  int
	dealerHand  []deck.Card

	balance         float64
	currentBet      float64
	insuranceBet    float64
	perfectPairsBet float64
	rummyBet        float64

	sideBetSettlements []SideBetSettlement
}

// SessionOption configures a Session
type SessionOption func(*Session)

// WithBalance sets the starting bankroll
func WithBalance(balance float64) SessionOption {
	return func(s *Session) { s.balance = balance }
}

// WithEventBus sets the bus session events are published on
func WithEventBus(bus EventBus) SessionOption {
	return func(s *Session) { s.bus = bus }
}

// NewSession creates a session in the Betting state
func NewSession(logger *log.Logger, shoe *deck.Shoe, opts ...SessionOption) *Session {
	s := &Session{
		logger:  logger.WithPrefix("session"),
		shoe:    shoe,
		bus:     NewEventBus(),
		state:   Betting,
		balance: DefaultBalance,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EventBus returns the bus session events are published on
func (s *Session) EventBus() EventBus {
	return s.bus
}

// --- read surface ---

// State returns the current state machine state
func (s *Session) State() State { return s.state }

// Balance returns the current bankroll
func (s *Session) Balance() float64 { return s.balance }

// CurrentBet returns the main wager for the next (or current) round
func (s *Session) CurrentBet() float64 { return s.currentBet }

// InsuranceBet returns the insurance wager, zero if none was taken
func (s *Session) InsuranceBet() float64 { return s.insuranceBet }

// PerfectPairsBet returns the Perfect Pairs stake
func (s *Session) PerfectPairsBet() float64 { return s.perfectPairsBet }

// TwentyOnePlusThreeBet returns the 21+3 stake
func (s *Session) TwentyOnePlusThreeBet() float64 { return s.rummyBet }

// ActiveHandIndex returns the index of the hand currently being played
func (s *Session) ActiveHandIndex() int { return s.activeHand }

// ShoeRemaining returns the number of cards left in the shoe
func (s *Session) ShoeRemaining() int { return s.shoe.Remaining() }

// PlayerHands returns a copy of all player hands
func (s *Session) PlayerHands() [][]deck.Card {
	hands := make([][]deck.Card, len(s.playerHands))
	for i, h := range s.playerHands {
		hands[i] = append([]deck.Card(nil), h...)
	}
	return hands
}

// DealerHand returns a copy of the dealer's hand, hole card still hidden
// until the reveal
func (s *Session) DealerHand() []deck.Card {
	return append([]deck.Card(nil), s.dealerHand...)
}

// DealerUpCard returns the dealer's visible first card
func (s *Session) DealerUpCard() (deck.Card, bool) {
	if len(s.dealerHand) == 0 {
		return deck.Card{}, false
	}
	return s.dealerHand[0], true
}

// Results returns a copy of the per-hand results
func (s *Session) Results() []Result {
	return append([]Result(nil), s.results...)
}

// Metadata returns a copy of the per-hand wager metadata
func (s *Session) Metadata() []HandMetadata {
	return append([]HandMetadata(nil), s.metadata...)
}

// SideBetSettlements returns the side bets that hit this round
func (s *Session) SideBetSettlements() []SideBetSettlement {
	return append([]SideBetSettlement(nil), s.sideBetSettlements...)
}

// --- betting ---

// PlaceBet adds to one of the three wager spots. Only legal in Betting;
// the cost is deducted from the balance immediately and atomically.
func (s *Session) PlaceBet(kind BetKind, amount float64) error {
	if s.state != Betting {
		return fmt.Errorf("%w: place bet in %s", ErrInvalidStateTransition, s.state)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: bet must be positive", ErrInvalidAction)
	}
	if s.balance < amount {
		return ErrInsufficientFunds
	}

	s.balance -= amount
	switch kind {
	case BetMain:
		s.currentBet += amount
	case BetPerfectPairs:
		s.perfectPairsBet += amount
	case BetTwentyOnePlusThree:
		s.rummyBet += amount
	default:
		s.balance += amount
		return fmt.Errorf("%w: unknown bet kind", ErrInvalidAction)
	}

	s.logger.Debug("bet placed", "kind", kind, "amount", amount, "balance", s.balance)
	return nil
}

// ClearBet refunds every staged wager. Only legal in Betting.
func (s *Session) ClearBet() error {
	if s.state != Betting {
		return fmt.Errorf("%w: clear bet in %s", ErrInvalidStateTransition, s.state)
	}

	s.balance += s.currentBet + s.perfectPairsBet + s.rummyBet
	s.currentBet = 0
	s.perfectPairsBet = 0
	s.rummyBet = 0
	return nil
}

// --- dealing ---

// Deal starts a round: Betting -> Dealing, guarded by a placed main bet.
// Cards go out player, dealer, player, dealer with the dealer's second
// card face down. Side bets are evaluated and settled once the four
// cards are placed, then the session branches on the dealer's up-card.
func (s *Session) Deal() error {
	if s.state != Betting {
		return fmt.Errorf("%w: deal in %s", ErrInvalidStateTransition, s.state)
	}
	if s.currentBet <= 0 {
		return fmt.Errorf("%w: no bet placed", ErrInvalidAction)
	}

	s.transition(Dealing)

	if s.shoe.NeedsReshuffle() {
		s.shoe.Rebuild()
		s.logger.Info("shoe rebuilt at cut card", "remaining", s.shoe.Remaining())
		s.bus.Publish(ShoeShuffledEvent{Remaining: s.shoe.Remaining(), timestamp: time.Now()})
	}

	// Per-round reset
	s.results = []Result{ResultNone}
	s.sideBetSettlements = nil
	s.activeHand = 0
	s.insuranceBet = 0
	s.dealerHand = nil
	s.playerHands = [][]deck.Card{{}}
	s.metadata = []HandMetadata{{Bet: s.currentBet}}

	s.dealToPlayer(0)
	s.dealToDealer(false)
	s.dealToPlayer(0)
	s.dealToDealer(true)

	s.settleSideBets()

	upCard := s.dealerHand[0]
	switch {
	case upCard.IsAce():
		s.transition(Insurance)
	case upCard.IsTenValue():
		s.resolvePeek()
	default:
		// No peek on small up-cards; the dealer cannot have a natural.
		if IsNatural(s.playerHands[0]) {
			s.results[0] = ResultBlackjack
			s.settle()
			return nil
		}
		s.transition(Playing)
	}
	return nil
}

// InsuranceDecision resolves the insurance offer made when the dealer
// shows an Ace. Accepting costs half the main bet; if the balance cannot
// cover it the decision stays pending. Either way the dealer then peeks.
func (s *Session) InsuranceDecision(take bool) error {
	if s.state != Insurance {
		return fmt.Errorf("%w: insurance decision in %s", ErrInvalidStateTransition, s.state)
	}

	if take {
		cost := s.currentBet / 2
		if s.balance < cost {
			return ErrInsufficientFunds
		}
		s.balance -= cost
		s.insuranceBet = cost
		s.publishAction(ActionInsurance)
		s.logger.Debug("insurance taken", "cost", cost, "balance", s.balance)
	}

	s.resolvePeek()
	return nil
}

// resolvePeek runs the hole-card peek and branches: dealer natural ends
// the round immediately (each player natural pushes, everything else
// loses); otherwise a player natural wins outright, or play begins.
func (s *Session) resolvePeek() {
	if PeekForNatural(s.dealerHand) {
		s.revealHoleCard()
		for i, hand := range s.playerHands {
			if IsNatural(hand) {
				s.results[i] = ResultPush
			} else {
				s.results[i] = ResultDealerWin
			}
		}
		s.settle()
		return
	}

	if IsNatural(s.playerHands[0]) {
		s.results[0] = ResultBlackjack
		s.settle()
		return
	}
	s.transition(Playing)
}

// --- playing ---

// Hit draws one card into the active hand. A bust records the result and
// auto-advances like a stand.
func (s *Session) Hit() error {
	if s.state != Playing {
		return fmt.Errorf("%w: hit in %s", ErrInvalidStateTransition, s.state)
	}

	s.dealToPlayer(s.activeHand)
	s.publishAction(ActionHit)

	if IsBust(s.playerHands[s.activeHand]) {
		s.results[s.activeHand] = ResultBust
		s.advance()
	}
	return nil
}

// DoubleDown doubles the active hand's bet, draws exactly one card and
// ends the hand, bust or not. Legal only on a two-card, not yet doubled
// hand with enough balance to match the bet.
func (s *Session) DoubleDown() error {
	if s.state != Playing {
		return fmt.Errorf("%w: double in %s", ErrInvalidStateTransition, s.state)
	}
	meta := &s.metadata[s.activeHand]
	if len(s.playerHands[s.activeHand]) != 2 || meta.IsDoubled {
		return fmt.Errorf("%w: double only on a fresh two-card hand", ErrInvalidAction)
	}
	if s.balance < meta.Bet {
		return ErrInsufficientFunds
	}

	s.balance -= meta.Bet
	meta.Bet *= 2
	meta.IsDoubled = true

	s.dealToPlayer(s.activeHand)
	s.publishAction(ActionDouble)

	if IsBust(s.playerHands[s.activeHand]) {
		s.results[s.activeHand] = ResultBust
	}
	s.advance()
	return nil
}

// Surrender forfeits the opening hand for half the bet back. Legal only
// on a two-card hand before any split.
func (s *Session) Surrender() error {
	if s.state != Playing {
		return fmt.Errorf("%w: surrender in %s", ErrInvalidStateTransition, s.state)
	}
	if len(s.playerHands) != 1 || len(s.playerHands[s.activeHand]) != 2 {
		return fmt.Errorf("%w: surrender only on the opening two-card hand", ErrInvalidAction)
	}

	meta := &s.metadata[s.activeHand]
	s.balance += meta.Bet / 2
	meta.IsSurrendered = true
	s.results[s.activeHand] = ResultSurrender
	s.publishAction(ActionSurrender)

	s.advance()
	return nil
}

// Split turns a two-card pair into two hands, each topped up with a
// fresh card and carrying its own copy of the original bet. Allowed
// exactly once per round.
func (s *Session) Split() error {
	if s.state != Playing {
		return fmt.Errorf("%w: split in %s", ErrInvalidStateTransition, s.state)
	}
	if len(s.playerHands) != 1 {
		return fmt.Errorf("%w: no resplitting", ErrInvalidAction)
	}
	hand := s.playerHands[0]
	if len(hand) != 2 || hand[0].Rank != hand[1].Rank {
		return fmt.Errorf("%w: split needs a two-card pair", ErrInvalidAction)
	}
	meta := s.metadata[0]
	if s.balance < meta.Bet {
		return ErrInsufficientFunds
	}

	s.balance -= meta.Bet
	s.playerHands = [][]deck.Card{{hand[0]}, {hand[1]}}
	s.metadata = []HandMetadata{meta, meta}
	s.results = []Result{ResultNone, ResultNone}
	s.activeHand = 0

	s.dealToPlayer(0)
	s.dealToPlayer(1)
	s.publishAction(ActionSplit)

	s.logger.Debug("hand split", "bet", meta.Bet, "balance", s.balance)
	return nil
}

// Stand ends the active hand. With another hand still to play the active
// index advances; otherwise the dealer's turn begins.
func (s *Session) Stand() error {
	if s.state != Playing {
		return fmt.Errorf("%w: stand in %s", ErrInvalidStateTransition, s.state)
	}
	s.publishAction(ActionStand)
	s.advance()
	return nil
}

// advance moves to the next hand or hands control to the dealer
func (s *Session) advance() {
	if s.activeHand < len(s.playerHands)-1 {
		s.activeHand++
		return
	}
	s.playDealerTurn()
}

// --- dealer turn ---

// playDealerTurn reveals the hole card, then draws to the house rule
// unless every player hand already resolved itself. Each draw is a
// discrete step published on the bus; any pacing between them is a
// presentation concern layered on top.
func (s *Session) playDealerTurn() {
	s.transition(DealerTurn)
	s.revealHoleCard()

	allTerminal := true
	for _, r := range s.results {
		if !r.Terminal() {
			allTerminal = false
			break
		}
	}

	if !allTerminal {
		for DealerMustDraw(s.dealerHand) {
			s.dealToDealer(false)
		}

		dealerScore := Score(s.dealerHand)
		for i, r := range s.results {
			if r != ResultNone {
				continue
			}
			playerScore := Score(s.playerHands[i])
			switch {
			case dealerScore > 21:
				s.results[i] = ResultPlayerWin
			case playerScore > dealerScore:
				s.results[i] = ResultPlayerWin
			case dealerScore > playerScore:
				s.results[i] = ResultDealerWin
			default:
				s.results[i] = ResultPush
			}
		}
	}

	s.settle()
}

// --- settlement ---

// settle enters GameOver and credits the round's payouts in one step.
// Runs exactly once per round: every path in ends at a transition guard.
func (s *Session) settle() {
	s.revealHoleCard()
	s.transition(GameOver)

	payout := Settle(s.results, s.metadata, s.insuranceBet, s.dealerHand)
	s.balance += payout

	s.logger.Info("round settled",
		"results", resultStrings(s.results),
		"payout", payout,
		"balance", s.balance)

	s.bus.Publish(RoundSettledEvent{
		Results:   s.Results(),
		Payout:    payout,
		Balance:   s.balance,
		timestamp: time.Now(),
	})
}

// Reset clears the table for a new round: GameOver -> Betting. Calling
// it in any other state is the usual no-op rejection, which also makes
// back-to-back resets idempotent.
func (s *Session) Reset() error {
	if s.state != GameOver {
		return fmt.Errorf("%w: reset in %s", ErrInvalidStateTransition, s.state)
	}

	s.playerHands = nil
	s.metadata = nil
	s.results = nil
	s.dealerHand = nil
	s.activeHand = 0
	s.currentBet = 0
	s.insuranceBet = 0
	s.perfectPairsBet = 0
	s.rummyBet = 0
	s.sideBetSettlements = nil
	s.transition(Betting)
	return nil
}

// --- internals ---

// draw pulls the next card. The shoe is rebuilt before any deal that
// crosses the cut card, so an empty shoe mid-round is an unrecoverable
// invariant violation, not a user-facing error.
func (s *Session) draw() deck.Card {
	card, err := s.shoe.Draw()
	if err != nil {
		panic(fmt.Sprintf("internal invariant violated: %v", err))
	}
	return card
}

func (s *Session) dealToPlayer(handIndex int) {
	card := s.draw()
	s.playerHands[handIndex] = append(s.playerHands[handIndex], card)
	s.bus.Publish(CardDealtEvent{
		Seat:      SeatPlayer,
		HandIndex: handIndex,
		Card:      card,
		timestamp: time.Now(),
	})
}

func (s *Session) dealToDealer(hidden bool) {
	card := s.draw()
	if hidden {
		card = card.FaceDown()
	}
	s.dealerHand = append(s.dealerHand, card)
	s.bus.Publish(CardDealtEvent{
		Seat:      SeatDealer,
		Card:      card,
		timestamp: time.Now(),
	})
}

// revealHoleCard replaces the hole card with a face-up copy. Safe to
// call more than once; the reveal happens strictly before dealer draws.
func (s *Session) revealHoleCard() {
	if len(s.dealerHand) > 1 && s.dealerHand[1].Hidden {
		s.dealerHand[1] = s.dealerHand[1].Reveal()
	}
}

// settleSideBets evaluates Perfect Pairs and 21+3 once at deal
// completion and credits wins immediately, independent of the round.
func (s *Session) settleSideBets() {
	hand := s.playerHands[0]
	upCard := s.dealerHand[0]
	total := 0.0

	if s.perfectPairsBet > 0 {
		if outcome := PerfectPairs(hand[0], hand[1]); outcome != nil {
			payout := outcome.Payout(s.perfectPairsBet)
			total += payout
			s.sideBetSettlements = append(s.sideBetSettlements, SideBetSettlement{
				Kind:    BetPerfectPairs,
				Outcome: *outcome,
				Payout:  payout,
			})
		}
	}

	if s.rummyBet > 0 {
		if outcome := TwentyOnePlusThree(hand[0], hand[1], upCard); outcome != nil {
			payout := outcome.Payout(s.rummyBet)
			total += payout
			s.sideBetSettlements = append(s.sideBetSettlements, SideBetSettlement{
				Kind:    BetTwentyOnePlusThree,
				Outcome: *outcome,
				Payout:  payout,
			})
		}
	}

	if total > 0 {
		s.balance += total
		s.logger.Info("side bets hit", "payout", total, "balance", s.balance)
		s.bus.Publish(SideBetsSettledEvent{
			Settlements: s.SideBetSettlements(),
			Total:       total,
			timestamp:   time.Now(),
		})
	}
}

func (s *Session) transition(to State) {
	from := s.state
	s.state = to
	s.logger.Debug("state transition", "from", from, "to", to)
	s.bus.Publish(StateChangedEvent{From: from, To: to, timestamp: time.Now()})
}

func (s *Session) publishAction(action Action) {
	s.bus.Publish(PlayerActionEvent{
		Action:    action,
		HandIndex: s.activeHand,
		timestamp: time.Now(),
	})
}

func resultStrings(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.String()
	}
	return out
}
