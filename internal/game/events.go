package game

import (
	"time"

	"github.com/lox/blackjack/internal/cards"
)

// EventType represents a round event type with type safety
type EventType string

// EventType constants for the events a round emits, in the order they occur
const (
	EventTypeRoundStart   EventType = "round_start"
	EventTypeCardDealt    EventType = "card_dealt"
	EventTypePlayerAction EventType = "player_action"
	EventTypeHandFinished EventType = "hand_finished"
	EventTypeDealerReveal EventType = "dealer_reveal"
	EventTypeRoundSettled EventType = "round_settled"
	EventTypeRoundAborted EventType = "round_aborted"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// Event is anything that happens during a round that a presentation layer
// may want to show
type Event interface {
	EventType() EventType
	Timestamp() time.Time
	RoundID() string
}

type eventBase struct {
	roundID   string
	timestamp time.Time
}

func (e eventBase) Timestamp() time.Time { return e.timestamp }
func (e eventBase) RoundID() string      { return e.roundID }

// DealerIndex is the hand index used in events for the dealer's hand
const DealerIndex = -1

// RoundStartEvent is published when the bet is taken and the deal begins
type RoundStartEvent struct {
	eventBase
	Player  string
	Bet     int
	Balance int // after the bet is debited
}

func (e RoundStartEvent) EventType() EventType { return EventTypeRoundStart }

// CardDealtEvent is published for every card drawn from the shoe
type CardDealtEvent struct {
	eventBase
	HandIndex int // DealerIndex for the dealer
	Card      cards.Card
	FaceDown  bool
}

func (e CardDealtEvent) EventType() EventType { return EventTypeCardDealt }

// PlayerActionEvent is published after an action has been applied to a hand
type PlayerActionEvent struct {
	eventBase
	HandIndex int
	Action    Action
	Hand      Hand // snapshot after the action
	Balance   int
}

func (e PlayerActionEvent) EventType() EventType { return EventTypePlayerAction }

// HandFinishedEvent is published when a player hand reaches a terminal state
type HandFinishedEvent struct {
	eventBase
	HandIndex int
	State     HandState
	Hand      Hand
}

func (e HandFinishedEvent) EventType() EventType { return EventTypeHandFinished }

// DealerRevealEvent is published when the hole card is turned over
type DealerRevealEvent struct {
	eventBase
	HoleCard cards.Card
	Hand     Hand
}

func (e DealerRevealEvent) EventType() EventType { return EventTypeDealerReveal }

// RoundSettledEvent is published once every hand has been paid
type RoundSettledEvent struct {
	eventBase
	Dealer  Hand
	Results []Result
	Balance int
}

func (e RoundSettledEvent) EventType() EventType { return EventTypeRoundSettled }

// RoundAbortedEvent is published when the round cannot complete
type RoundAbortedEvent struct {
	eventBase
	Err error
}

func (e RoundAbortedEvent) EventType() EventType { return EventTypeRoundAborted }
