package game

import (
	"fmt"
	"strings"
)

// FormattingOptions controls how events are formatted for different contexts
type FormattingOptions struct {
	ShowHoleCard bool // Show the dealer's hole card as it is dealt (simulation logs)
	ShowCards    bool // Include each dealt card (off for terse logs)
}

// EventFormatter turns round events into the lines shown in the table log
type EventFormatter struct {
	opts FormattingOptions
}

// NewEventFormatter creates a new event formatter with the given options
func NewEventFormatter(opts FormattingOptions) *EventFormatter {
	return &EventFormatter{opts: opts}
}

// Format returns the log line for any event, or "" when the event is hidden
func (ef *EventFormatter) Format(event Event) string {
	switch e := event.(type) {
	case RoundStartEvent:
		return ef.FormatRoundStart(e)
	case CardDealtEvent:
		return ef.FormatCardDealt(e)
	case PlayerActionEvent:
		return ef.FormatPlayerAction(e)
	case HandFinishedEvent:
		return ef.FormatHandFinished(e)
	case DealerRevealEvent:
		return ef.FormatDealerReveal(e)
	case RoundSettledEvent:
		return ef.FormatRoundSettled(e)
	case RoundAbortedEvent:
		return fmt.Sprintf("Round aborted: %v", e.Err)
	default:
		return ""
	}
}

// FormatRoundStart formats the bet line that opens a round
func (ef *EventFormatter) FormatRoundStart(event RoundStartEvent) string {
	return fmt.Sprintf("=== Round %s === %s bets %s (balance %s)",
		shortID(event.RoundID()), event.Player, FormatCents(event.Bet), FormatCents(event.Balance))
}

// FormatCardDealt formats a single card being dealt
func (ef *EventFormatter) FormatCardDealt(event CardDealtEvent) string {
	if !ef.opts.ShowCards {
		return ""
	}
	card := event.Card.String()
	if event.FaceDown && !ef.opts.ShowHoleCard {
		card = "[ ? ]"
	}
	return fmt.Sprintf("%s dealt %s", handLabel(event.HandIndex), card)
}

// FormatPlayerAction formats a player action with the resulting hand
func (ef *EventFormatter) FormatPlayerAction(event PlayerActionEvent) string {
	label := handLabel(event.HandIndex)
	hand := event.Hand
	switch event.Action {
	case Hit:
		return fmt.Sprintf("%s hits: %s (%s)", label, hand.String(), hand.TotalString())
	case Stand:
		return fmt.Sprintf("%s stands on %s", label, hand.TotalString())
	case Double:
		return fmt.Sprintf("%s doubles to %s: %s (%s)", label, FormatCents(hand.Bet), hand.String(), hand.TotalString())
	case Split:
		return fmt.Sprintf("%s splits: %s", label, hand.String())
	case Surrender:
		return fmt.Sprintf("%s surrenders, %s returned", label, FormatCents(hand.Bet/2))
	default:
		return fmt.Sprintf("%s: %s", label, event.Action)
	}
}

// FormatHandFinished formats a hand leaving play
func (ef *EventFormatter) FormatHandFinished(event HandFinishedEvent) string {
	switch event.State {
	case StateBlackjack:
		return fmt.Sprintf("%s: Blackjack! %s", handLabel(event.HandIndex), event.Hand.String())
	case StateBust:
		return fmt.Sprintf("%s busts with %d", handLabel(event.HandIndex), hardTotal(event.Hand))
	default:
		return ""
	}
}

// FormatDealerReveal formats the dealer turning over the hole card
func (ef *EventFormatter) FormatDealerReveal(event DealerRevealEvent) string {
	return fmt.Sprintf("Dealer reveals %s: %s (%s)", event.HoleCard, event.Hand.String(), event.Hand.TotalString())
}

// FormatRoundSettled formats the per-hand results
func (ef *EventFormatter) FormatRoundSettled(event RoundSettledEvent) string {
	var result strings.Builder

	result.WriteString(fmt.Sprintf("Dealer: %s (%s)\n", event.Dealer.String(), event.Dealer.TotalString()))
	for _, r := range event.Results {
		result.WriteString(fmt.Sprintf("%s: %s\n", handLabel(r.HandIndex), r.String()))
	}
	result.WriteString(fmt.Sprintf("Balance: %s", FormatCents(event.Balance)))

	return result.String()
}

func handLabel(index int) string {
	if index == DealerIndex {
		return "Dealer"
	}
	return fmt.Sprintf("Hand %d", index+1)
}

func hardTotal(h Hand) int {
	hard, _ := h.Totals()
	return hard
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
