package deck

import (
	"errors"
	rand "math/rand/v2"
)

// DecksPerShoe is the standard shoe size for the table.
const DecksPerShoe = 6

// cutCard is the penetration threshold: a shoe with fewer cards remaining
// than this must be rebuilt before the next deal.
const cutCard = 52

// ErrShoeExhausted is returned when a draw is attempted on an empty shoe.
// The session rebuilds the shoe before any deal that crosses the cut card,
// so hitting this mid-round is an internal invariant violation.
var ErrShoeExhausted = errors.New("shoe exhausted")

// Shoe holds the multi-deck card supply. Cards are drawn from the end of
// the slice, treating it as a stack.
type Shoe struct {
	cards    []Card
	numDecks int
	rng      *rand.Rand
}

// NewShoe builds a shoe of numDecks full 52-card decks and shuffles it.
func NewShoe(numDecks int, rng *rand.Rand) *Shoe {
	s := &Shoe{
		cards:    make([]Card, 0, numDecks*52),
		numDecks: numDecks,
		rng:      rng,
	}
	s.build()
	s.shuffle()
	return s
}

func (s *Shoe) build() {
	s.cards = s.cards[:0]
	for d := 0; d < s.numDecks; d++ {
		for suit := Spades; suit <= Clubs; suit++ {
			for rank := Two; rank <= Ace; rank++ {
				s.cards = append(s.cards, NewCard(suit, rank))
			}
		}
	}
}

// shuffle applies a Fisher-Yates shuffle
func (s *Shoe) shuffle() {
	for i := len(s.cards) - 1; i > 0; i-- {
		j := s.rng.IntN(i + 1)
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	}
}

// Draw removes and returns the top card of the shoe
func (s *Shoe) Draw() (Card, error) {
	if len(s.cards) == 0 {
		return Card{}, ErrShoeExhausted
	}
	card := s.cards[len(s.cards)-1]
	s.cards = s.cards[:len(s.cards)-1]
	return card, nil
}

// NeedsReshuffle reports whether the cut card has been reached
func (s *Shoe) NeedsReshuffle() bool {
	return len(s.cards) < cutCard
}

// Rebuild restores the shoe to a full freshly shuffled supply
func (s *Shoe) Rebuild() {
	s.build()
	s.shuffle()
}

// Remaining returns the number of cards left in the shoe
func (s *Shoe) Remaining() int {
	return len(s.cards)
}

// Stack places the given cards on top of the shoe so they are drawn in
// order, first card first. Deterministic decks for tests.
func (s *Shoe) Stack(cards ...Card) {
	for i := len(cards) - 1; i >= 0; i-- {
		s.cards = append(s.cards, cards[i])
	}
}
