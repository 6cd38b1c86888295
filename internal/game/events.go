package game

import (
	"slices"
	"time"

	"github.com/lox/blackjackbots/internal/deck"
)

// EventType represents a game event type with type safety
type EventType string

// EventType constants for table events
const (
	EventTypeGameStart EventType = "game_start"
	EventTypeDeal      EventType = "deal"
	EventTypeTurn      EventType = "turn"
	EventTypeShuffle   EventType = "shuffle"
	EventTypeEndGame   EventType = "end_game"
	EventTypeOutcome   EventType = "outcome"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents anything announced by the table
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// GameStartEvent is published when a new game begins
type GameStartEvent struct {
	Hids      []Hid
	ShoeSize  int
	timestamp time.Time
}

func (e GameStartEvent) EventType() EventType { return EventTypeGameStart }
func (e GameStartEvent) Timestamp() time.Time { return e.timestamp }

// HidFor returns the hand id seated at seat in this game
func (e GameStartEvent) HidFor(seat Seat) (Hid, bool) {
	for _, hid := range e.Hids {
		if hid.Seat == seat {
			return hid, true
		}
	}
	return Hid{}, false
}

// NewGameStartEvent creates a new game start event
func NewGameStartEvent(hids []Hid, shoeSize int) GameStartEvent {
	return GameStartEvent{
		Hids:      slices.Clone(hids),
		ShoeSize:  shoeSize,
		timestamp: time.Now(),
	}
}

// DealEvent is published for every card handed to a hand. Card is nil for
// the dealer's face-down hole card; it is published again with the card
// when revealed.
type DealEvent struct {
	Hid       Hid
	Card      *deck.Card
	Value     int // total of the receiving hand after the deal, visible cards only
	timestamp time.Time
}

func (e DealEvent) EventType() EventType { return EventTypeDeal }
func (e DealEvent) Timestamp() time.Time { return e.timestamp }

// NewDealEvent creates a deal event for a visible card
func NewDealEvent(hid Hid, card deck.Card, value int) DealEvent {
	return DealEvent{Hid: hid, Card: &card, Value: value, timestamp: time.Now()}
}

// NewHoleCardEvent creates a deal event for a face-down card
func NewHoleCardEvent(hid Hid, value int) DealEvent {
	return DealEvent{Hid: hid, Value: value, timestamp: time.Now()}
}

// TurnEvent is published when a hand is due to act
type TurnEvent struct {
	Hid       Hid
	timestamp time.Time
}

func (e TurnEvent) EventType() EventType { return EventTypeTurn }
func (e TurnEvent) Timestamp() time.Time { return e.timestamp }

// NewTurnEvent creates a new turn event
func NewTurnEvent(hid Hid) TurnEvent {
	return TurnEvent{Hid: hid, timestamp: time.Now()}
}

// ShuffleEvent announces that the shoe will be reshuffled before the next game
type ShuffleEvent struct {
	timestamp time.Time
}

func (e ShuffleEvent) EventType() EventType { return EventTypeShuffle }
func (e ShuffleEvent) Timestamp() time.Time { return e.timestamp }

// NewShuffleEvent creates a new shuffle event
func NewShuffleEvent() ShuffleEvent {
	return ShuffleEvent{timestamp: time.Now()}
}

// EndGameEvent is published after every hand has been settled. It is the
// last event of a game: a Shuffle flagged for the next game comes before it.
type EndGameEvent struct {
	ShoeSize  int
	timestamp time.Time
}

func (e EndGameEvent) EventType() EventType { return EventTypeEndGame }
func (e EndGameEvent) Timestamp() time.Time { return e.timestamp }

// NewEndGameEvent creates a new end game event
func NewEndGameEvent(shoeSize int) EndGameEvent {
	return EndGameEvent{ShoeSize: shoeSize, timestamp: time.Now()}
}

// OutcomeEvent reports how a hand finished
type OutcomeEvent struct {
	Hid       Hid
	Outcome   Outcome
	Net       int
	timestamp time.Time
}

func (e OutcomeEvent) EventType() EventType { return EventTypeOutcome }
func (e OutcomeEvent) Timestamp() time.Time { return e.timestamp }

// NewOutcomeEvent creates a new outcome event
func NewOutcomeEvent(hid Hid, outcome Outcome, net int) OutcomeEvent {
	return OutcomeEvent{Hid: hid, Outcome: outcome, Net: net, timestamp: time.Now()}
}

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// SubscriberFunc adapts a function to EventSubscriber
type SubscriberFunc func(event GameEvent)

// OnEvent calls f(event)
func (f SubscriberFunc) OnEvent(event GameEvent) { f(event) }

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus delivers events synchronously, in publish order, to
// subscribers in subscription order. It is not safe for concurrent use;
// the table owns it.
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() *SimpleEventBus {
	return &SimpleEventBus{}
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

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}
