package game

// State identifies where the session is in the round lifecycle.
// Betting is the initial state and the only one that accepts wagers.
type State int

const (
	Betting State = iota
	Dealing
	Insurance
	Playing
	DealerTurn
	GameOver
)

// String returns the string representation of a state
func (s State) String() string {
	switch s {
	case Betting:
		return "betting"
	case Dealing:
		return "dealing"
	case Insurance:
		return "insurance"
	case Playing:
		return "playing"
	case DealerTurn:
		return "dealer_turn"
	case GameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Result is the outcome of a single player hand. Exactly one result is
// recorded per hand by the time the round reaches GameOver.
type Result int

const (
	ResultNone Result = iota
	ResultPlayerWin
	ResultDealerWin
	ResultPush
	ResultBlackjack
	ResultBust
	ResultSurrender
)

// String returns the string representation of a result
func (r Result) String() string {
	switch r {
	case ResultNone:
		return "none"
	case ResultPlayerWin:
		return "player_win"
	case ResultDealerWin:
		return "dealer_win"
	case ResultPush:
		return "push"
	case ResultBlackjack:
		return "blackjack"
	case ResultBust:
		return "bust"
	case ResultSurrender:
		return "surrender"
	default:
		return "unknown"
	}
}

// Terminal reports whether the hand needs no dealer comparison:
// its outcome was fixed during the player's turn.
func (r Result) Terminal() bool {
	return r == ResultBust || r == ResultSurrender || r == ResultBlackjack
}

// BetKind distinguishes the three wager spots on the felt.
type BetKind int

const (
	BetMain BetKind = iota
	BetPerfectPairs
	BetTwentyOnePlusThree
)

// String returns the string representation of a bet kind
func (b BetKind) String() string {
	switch b {
	case BetMain:
		return "main"
	case BetPerfectPairs:
		return "perfect_pairs"
	case BetTwentyOnePlusThree:
		return "21+3"
	default:
		return "unknown"
	}
}

// HandMetadata tracks the wager state of one player hand. It is created
// when the hand is opened (deal or split), mutated by double/surrender,
// and persists through settlement until Reset.
type HandMetadata struct {
	Bet           float64
	IsDoubled     bool
	IsSurrendered bool
}
