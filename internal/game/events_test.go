package game

import (
	"context"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/cards"
)

func eventTypes(events []Event) []EventType {
	types := make([]EventType, len(events))
	for i, e := range events {
		types[i] = e.EventType()
	}
	return types
}

func TestRoundEventSequence(t *testing.T) {
	t.Parallel()

	mClock := quartz.NewMock(t)
	start := mClock.Now()

	var handled []Event
	shoe := cards.NewShoeFromCards(cards.MustParseCards("As9cKh7d")...)
	r := NewRound(shoe, NewPlayer("Alice", 10000),
		WithClock(mClock),
		WithRoundID("round-1"),
		WithEventHandler(func(e Event) { handled = append(handled, e) }),
	)
	require.NoError(t, r.Deal(1000))

	events := r.Events()
	assert.Equal(t, []EventType{
		EventTypeRoundStart,
		EventTypeCardDealt,
		EventTypeCardDealt,
		EventTypeCardDealt,
		EventTypeCardDealt,
		EventTypeHandFinished,
		EventTypeDealerReveal,
		EventTypeRoundSettled,
	}, eventTypes(events))
	assert.Equal(t, events, handled)

	for _, e := range events {
		assert.Equal(t, "round-1", e.RoundID())
		assert.Equal(t, start, e.Timestamp())
	}

	start1 := events[0].(RoundStartEvent)
	assert.Equal(t, "Alice", start1.Player)
	assert.Equal(t, 1000, start1.Bet)
	assert.Equal(t, 9000, start1.Balance)

	hole := events[4].(CardDealtEvent)
	assert.Equal(t, DealerIndex, hole.HandIndex)
	assert.True(t, hole.FaceDown)

	finished := events[5].(HandFinishedEvent)
	assert.Equal(t, StateBlackjack, finished.State)

	settled := events[7].(RoundSettledEvent)
	assert.Equal(t, 11500, settled.Balance)
	require.Len(t, settled.Results, 1)
	assert.Equal(t, OutcomeBlackjack, settled.Results[0].Outcome)
}

func TestEventTimestampsFollowClock(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	mClock := quartz.NewMock(t)
	shoe := cards.NewShoeFromCards(cards.MustParseCards("Th9c7d6sTs")...)
	r := NewRound(shoe, NewPlayer("Alice", 10000), WithClock(mClock))

	require.NoError(t, r.Deal(1000))
	dealt := mClock.Now()

	mClock.Advance(3 * time.Second).MustWait(ctx)
	require.NoError(t, r.Stand())

	events := r.Events()
	assert.Equal(t, dealt, events[0].Timestamp())
	last := events[len(events)-1]
	assert.Equal(t, EventTypeRoundSettled, last.EventType())
	assert.Equal(t, dealt.Add(3*time.Second), last.Timestamp())
}

func TestActionEventSnapshotsHand(t *testing.T) {
	t.Parallel()

	shoe := cards.NewShoeFromCards(cards.MustParseCards("5h9c6d7h2s3sTc")...)
	r := NewRound(shoe, NewPlayer("Alice", 10000), WithClock(quartz.NewMock(t)))
	require.NoError(t, r.Deal(1000))
	require.NoError(t, r.Hit())
	require.NoError(t, r.Hit())

	var actions []PlayerActionEvent
	for _, e := range r.Events() {
		if a, ok := e.(PlayerActionEvent); ok {
			actions = append(actions, a)
		}
	}
	require.Len(t, actions, 2)
	assert.Len(t, actions[0].Hand.Cards, 3)
	assert.Len(t, actions[1].Hand.Cards, 4)
	assert.Equal(t, Hit, actions[0].Action)
}

func TestEventFormatter(t *testing.T) {
	t.Parallel()

	shoe := cards.NewShoeFromCards(cards.MustParseCards("Th9cQd9h")...)
	r := NewRound(shoe, NewPlayer("Alice", 10000), WithClock(quartz.NewMock(t)), WithRoundID("0123456789abcdef"))
	require.NoError(t, r.Deal(1000))
	require.NoError(t, r.Stand())

	terse := NewEventFormatter(FormattingOptions{})
	var lines []string
	for _, e := range r.Events() {
		if line := terse.Format(e); line != "" {
			lines = append(lines, line)
		}
	}

	assert.Equal(t, []string{
		"=== Round 01234567 === Alice bets $10.00 (balance $90.00)",
		"Hand 1 stands on 20",
		"Dealer reveals 9♥: [9♣] [9♥] (18)",
		"Dealer: [9♣] [9♥] (18)\nHand 1: Win: paid $20.00 (+$10.00)\nBalance: $110.00",
	}, lines)

	t.Run("cards", func(t *testing.T) {
		verbose := NewEventFormatter(FormattingOptions{ShowCards: true})
		hole := r.Events()[4].(CardDealtEvent)
		assert.Equal(t, "Dealer dealt [ ? ]", verbose.Format(hole))

		withHole := NewEventFormatter(FormattingOptions{ShowCards: true, ShowHoleCard: true})
		assert.Equal(t, "Dealer dealt 9♥", withHole.Format(hole))
		assert.Equal(t, "Hand 1 dealt 10♥", withHole.Format(r.Events()[1]))
	})
}
