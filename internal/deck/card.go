package deck

import "fmt"

// Suit represents a card suit
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// String returns the string representation of a suit
func (s Suit) String() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	default:
		return "?"
	}
}

// IsRed returns true if the suit is red (Hearts or Diamonds)
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank represents a card rank
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// String returns the string representation of a rank
func (r Rank) String() string {
	switch r {
	case Two:
		return "2"
	case Three:
		return "3"
	case Four:
		return "4"
	case Five:
		return "5"
	case Six:
		return "6"
	case Seven:
		return "7"
	case Eight:
		return "8"
	case Nine:
		return "9"
	case Ten:
		return "10"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	default:
		return "?"
	}
}

// Index returns the rank's position in the 13-rank ordering 2..A,
// used for straight detection in the 21+3 side bet.
func (r Rank) Index() int {
	return int(r) - int(Two)
}

// Card represents a playing card. The nominal blackjack value is fixed by
// the rank at creation; how an Ace actually counts is resolved during
// scoring. Hidden marks the dealer's hole card before the reveal.
type Card struct {
	Suit   Suit
	Rank   Rank
	Hidden bool
}

// NewCard creates a new face-up card
func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank}
}

// FaceDown returns a copy of the card marked hidden
func (c Card) FaceDown() Card {
	c.Hidden = true
	return c
}

// Reveal returns a copy of the card with the hidden flag cleared.
// Cards are treated as immutable values; revealing never mutates in place.
func (c Card) Reveal() Card {
	c.Hidden = false
	return c
}

// String returns the string representation of a card (e.g., "A♠").
// Hidden cards render as a card back.
func (c Card) String() string {
	if c.Hidden {
		return "[?]"
	}
	return fmt.Sprintf("%s%s", c.Rank, c.Suit)
}

// IsRed returns true if the card is red
func (c Card) IsRed() bool {
	return c.Suit.IsRed()
}

// BlackjackValue returns the card's nominal blackjack value:
// face cards count 10, an Ace counts 11 until scoring softens it.
func (c Card) BlackjackValue() int {
	switch {
	case c.Rank == Ace:
		return 11
	case c.Rank >= Ten:
		return 10
	default:
		return int(c.Rank)
	}
}

// IsAce returns true if the card is an Ace
func (c Card) IsAce() bool {
	return c.Rank == Ace
}

// IsTenValue returns true if the card counts ten (10, J, Q, K)
func (c Card) IsTenValue() bool {
	return c.Rank >= Ten && c.Rank <= King
}
