// Package simulator plays unattended blackjack rounds with basic
// strategy and reports aggregate results, mainly to sanity check the
// engine's payouts against the expected house edge.
package simulator

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/khelfun/vicjack/internal/deck"
	"github.com/khelfun/vicjack/internal/game"
	"github.com/khelfun/vicjack/internal/randutil"
)

// Config holds configuration for running simulations
type Config struct {
	Rounds  int
	Workers int
	Bet     float64
	Decks   int
	Seed    int64
	Logger  *log.Logger
}

// Stats aggregates per-hand outcomes across all simulated rounds. Net
// is the total amount won or lost relative to the stakes wagered.
type Stats struct {
	Rounds     int
	Hands      int
	Wins       int
	Losses     int
	Pushes     int
	Blackjacks int
	Busts      int
	Surrenders int
	Splits     int
	Doubles    int
	Net        float64
	Wagered    float64
}

func (s *Stats) merge(other Stats) {
	s.Rounds += other.Rounds
	s.Hands += other.Hands
	s.Wins += other.Wins
	s.Losses += other.Losses
	s.Pushes += other.Pushes
	s.Blackjacks += other.Blackjacks
	s.Busts += other.Busts
	s.Surrenders += other.Surrenders
	s.Splits += other.Splits
	s.Doubles += other.Doubles
	s.Net += other.Net
	s.Wagered += other.Wagered
}

// EdgePercent returns the player's return relative to total amount
// wagered. Negative numbers are the house's take.
func (s *Stats) EdgePercent() float64 {
	if s.Wagered == 0 {
		return 0
	}
	return s.Net / s.Wagered * 100
}

// Summary renders a human-readable report
func (s *Stats) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Rounds:      %d (%d hands)\n", s.Rounds, s.Hands)
	fmt.Fprintf(&b, "Wins:        %d (%d blackjacks)\n", s.Wins+s.Blackjacks, s.Blackjacks)
	fmt.Fprintf(&b, "Losses:      %d (%d busts)\n", s.Losses+s.Busts, s.Busts)
	fmt.Fprintf(&b, "Pushes:      %d\n", s.Pushes)
	fmt.Fprintf(&b, "Surrenders:  %d\n", s.Surrenders)
	fmt.Fprintf(&b, "Splits:      %d  Doubles: %d\n", s.Splits, s.Doubles)
	fmt.Fprintf(&b, "Net:         %+.2f over %.2f wagered (%+.3f%%)\n", s.Net, s.Wagered, s.EdgePercent())
	return b.String()
}

// Simulator plays rounds of blackjack with basic strategy
type Simulator struct {
	config Config
}

// New creates a simulator, filling in unset config values
func New(config Config) *Simulator {
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	if config.Workers > config.Rounds && config.Rounds > 0 {
		config.Workers = config.Rounds
	}
	if config.Bet <= 0 {
		config.Bet = 100
	}
	if config.Decks <= 0 {
		config.Decks = deck.DecksPerShoe
	}
	if config.Logger == nil {
		config.Logger = log.Default()
	}
	return &Simulator{config: config}
}

// Run plays the configured number of rounds, split across parallel
// workers that each own an independent session and shoe.
func (s *Simulator) Run(ctx context.Context) (*Stats, error) {
	if s.config.Rounds <= 0 {
		return nil, fmt.Errorf("rounds must be positive, got %d", s.config.Rounds)
	}

	g, ctx := errgroup.WithContext(ctx)
	results := make(chan Stats, s.config.Workers)

	roundsPerWorker := s.config.Rounds / s.config.Workers
	remainder := s.config.Rounds % s.config.Workers

	for w := 0; w < s.config.Workers; w++ {
		workerRounds := roundsPerWorker
		if w < remainder {
			workerRounds++
		}
		workerSeed := s.config.Seed + int64(w)

		g.Go(func() error {
			stats, err := s.runWorker(ctx, workerSeed, workerRounds)
			if err != nil {
				return err
			}
			select {
			case results <- stats:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}

	go func() {
		defer close(results)
		_ = g.Wait()
	}()

	total := &Stats{}
	for stats := range results {
		total.merge(stats)
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return total, nil
}

func (s *Simulator) runWorker(ctx context.Context, seed int64, rounds int) (Stats, error) {
	// The bankroll only needs to cover one round's worst case (a split
	// with both hands doubled); net results are measured as balance
	// deltas, so it is topped back up after every round.
	bankroll := s.config.Bet * 8
	shoe := deck.NewShoe(s.config.Decks, randutil.New(seed))

	var stats Stats
	for i := 0; i < rounds; i++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		session := game.NewSession(s.config.Logger, shoe, game.WithBalance(bankroll))
		if err := s.playRound(session, &stats); err != nil {
			return stats, fmt.Errorf("round %d: %w", i+1, err)
		}
	}
	return stats, nil
}

func (s *Simulator) playRound(session *game.Session, stats *Stats) error {
	before := session.Balance()

	if err := session.PlaceBet(game.BetMain, s.config.Bet); err != nil {
		return err
	}
	if err := session.Deal(); err != nil {
		return err
	}

	// Basic strategy never takes insurance.
	if session.State() == game.Insurance {
		if err := session.InsuranceDecision(false); err != nil {
			return err
		}
	}

	for session.State() == game.Playing {
		if err := s.playHand(session, stats); err != nil {
			return err
		}
	}

	stats.Rounds++
	for _, result := range session.Results() {
		stats.Hands++
		switch result {
		case game.ResultPlayerWin:
			stats.Wins++
		case game.ResultBlackjack:
			stats.Blackjacks++
		case game.ResultDealerWin:
			stats.Losses++
		case game.ResultBust:
			stats.Busts++
		case game.ResultPush:
			stats.Pushes++
		case game.ResultSurrender:
			stats.Surrenders++
		}
	}
	for _, meta := range session.Metadata() {
		stats.Wagered += meta.Bet
		if meta.IsDoubled {
			stats.Doubles++
		}
	}
	stats.Net += session.Balance() - before

	return session.Reset()
}

func (s *Simulator) playHand(session *game.Session, stats *Stats) error {
	idx := session.ActiveHandIndex()
	hands := session.PlayerHands()
	hand := hands[idx]
	meta := session.Metadata()[idx]

	upCard, ok := session.DealerUpCard()
	if !ok {
		return fmt.Errorf("no dealer up card while playing")
	}

	opening := len(hand) == 2 && !meta.IsDoubled
	single := len(hands) == 1
	canSplit := opening && single && hand[0].Rank == hand[1].Rank && session.Balance() >= meta.Bet
	canDouble := opening && session.Balance() >= meta.Bet
	canSurrender := opening && single

	switch BasicStrategy(hand, upCard, canSplit, canDouble, canSurrender) {
	case DecideSplit:
		stats.Splits++
		return session.Split()
	case DecideDouble:
		return session.DoubleDown()
	case DecideSurrender:
		return session.Surrender()
	case DecideHit:
		return session.Hit()
	default:
		return session.Stand()
	}
}
