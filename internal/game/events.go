package game

import (
	"time"

	"github.com/khelfun/vicjack/internal/deck"
)

// EventType represents a game event type with type safety
type EventType string

// EventType constants for events published by the session
const (
	EventTypeStateChanged    EventType = "state_changed"
	EventTypeCardDealt       EventType = "card_dealt"
	EventTypeShoeShuffled    EventType = "shoe_shuffled"
	EventTypePlayerAction    EventType = "player_action"
	EventTypeSideBetsSettled EventType = "side_bets_settled"
	EventTypeRoundSettled    EventType = "round_settled"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// Action is a player action on the active hand.
type Action int

const (
	ActionDeal Action = iota
	ActionHit
	ActionStand
	ActionDouble
	ActionSurrender
	ActionSplit
	ActionInsurance
)

// String returns the string representation of an action
func (a Action) String() string {
	switch a {
	case ActionDeal:
		return "deal"
	case ActionHit:
		return "hit"
	case ActionStand:
		return "stand"
	case ActionDouble:
		return "double"
	case ActionSurrender:
		return "surrender"
	case ActionSplit:
		return "split"
	case ActionInsurance:
		return "insurance"
	default:
		return "unknown"
	}
}

// Event represents any event that occurs during a round
type Event interface {
	EventType() EventType
	Timestamp() time.Time
}

// StateChangedEvent is published on every state machine transition
type StateChangedEvent struct {
	From      State
	To        State
	timestamp time.Time
}

func (e StateChangedEvent) EventType() EventType { return EventTypeStateChanged }
func (e StateChangedEvent) Timestamp() time.Time { return e.timestamp }

// Seat identifies which side of the table received a card
type Seat int

const (
	SeatPlayer Seat = iota
	SeatDealer
)

// CardDealtEvent is published for each card leaving the shoe
type CardDealtEvent struct {
	Seat      Seat
	HandIndex int
	Card      deck.Card
	timestamp time.Time
}

func (e CardDealtEvent) EventType() EventType { return EventTypeCardDealt }
func (e CardDealtEvent) Timestamp() time.Time { return e.timestamp }

// ShoeShuffledEvent is published when the shoe is rebuilt at the cut card
type ShoeShuffledEvent struct {
	Remaining int
	timestamp time.Time
}

func (e ShoeShuffledEvent) EventType() EventType { return EventTypeShoeShuffled }
func (e ShoeShuffledEvent) Timestamp() time.Time { return e.timestamp }

// PlayerActionEvent is published when a player action is accepted
type PlayerActionEvent struct {
	Action    Action
	HandIndex int
	timestamp time.Time
}

func (e PlayerActionEvent) EventType() EventType { return EventTypePlayerAction }
func (e PlayerActionEvent) Timestamp() time.Time { return e.timestamp }

// SideBetSettlement pairs a side bet with its winning outcome
type SideBetSettlement struct {
	Kind    BetKind
	Outcome SideBetOutcome
	Payout  float64
}

// SideBetsSettledEvent is published once at deal completion when at
// least one side bet hit
type SideBetsSettledEvent struct {
	Settlements []SideBetSettlement
	Total       float64
	timestamp   time.Time
}

func (e SideBetsSettledEvent) EventType() EventType { return EventTypeSideBetsSettled }
func (e SideBetsSettledEvent) Timestamp() time.Time { return e.timestamp }

// RoundSettledEvent is published on entry to GameOver, after payouts
type RoundSettledEvent struct {
	Results   []Result
	Payout    float64
	Balance   float64
	timestamp time.Time
}

func (e RoundSettledEvent) EventType() EventType { return EventTypeRoundSettled }
func (e RoundSettledEvent) Timestamp() time.Time { return e.timestamp }

// EventSubscriber can subscribe to session events
type EventSubscriber interface {
	OnEvent(event Event)
}

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event Event)
}

// SimpleEventBus is a basic in-memory synchronous event bus
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() EventBus {
	return &SimpleEventBus{subscribers: make([]EventSubscriber, 0)}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers in subscription order
func (bus *SimpleEventBus) Publish(event Event) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}
