package game

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lox/blackjack/internal/cards"
)

// HandState is the lifecycle state of a hand. A hand leaves StateActive
// exactly once.
type HandState int

const (
	StateActive HandState = iota
	StateStand
	StateBust
	StateBlackjack
	StateSurrender
)

// String returns the state name
func (s HandState) String() string {
	switch s {
	case StateActive:
		return "Active"
	case StateStand:
		return "Stand"
	case StateBust:
		return "Bust"
	case StateBlackjack:
		return "Blackjack"
	case StateSurrender:
		return "Surrender"
	default:
		return "Unknown"
	}
}

// IsTerminal returns true once the hand takes no further actions
func (s HandState) IsTerminal() bool {
	return s != StateActive
}

// Hand is an ordered set of cards with a bet. A dealer hand hides its hole
// card until Reveal is called: until then, and whenever it holds a single
// card, its totals and key describe the up-card alone.
type Hand struct {
	Cards  []cards.Card
	Dealer bool
	Bet    int // cents
	State  HandState

	split    bool
	revealed bool
}

// NewHand creates an empty player hand carrying bet cents
func NewHand(bet int) *Hand {
	return &Hand{Bet: bet}
}

// NewDealerHand creates an empty dealer hand with its hole card hidden
func NewDealerHand() *Hand {
	return &Hand{Dealer: true}
}

// AddCard appends a card. Whether the hand may take a card is decided by the round.
func (h *Hand) AddCard(card cards.Card) {
	h.Cards = append(h.Cards, card)
}

// Reveal turns the dealer's hole card face up
func (h *Hand) Reveal() {
	h.revealed = true
}

// Revealed reports whether every card in the hand is visible
func (h *Hand) Revealed() bool {
	return !h.Dealer || h.revealed
}

// IsSplit reports whether the hand was created by splitting a pair
func (h *Hand) IsSplit() bool {
	return h.split
}

// showsUpCardOnly reports whether totals describe the dealer's up-card alone
func (h *Hand) showsUpCardOnly() bool {
	return h.Dealer && len(h.Cards) > 0 && (!h.revealed || len(h.Cards) == 1)
}

// Totals returns the hard total (every ace counted as 1) and the soft total
// (aces counted as 11 where that does not bust the hand).
func (h *Hand) Totals() (hard, soft int) {
	if h.showsUpCardOnly() {
		v := h.Cards[0].Value()
		return v, v
	}
	return totals(h.Cards)
}

// totals sums the non-ace cards first, then takes each ace in order as 11
// when that still leaves room for the remaining aces at 1, otherwise as 1.
func totals(cs []cards.Card) (hard, soft int) {
	aces := 0
	for _, c := range cs {
		if c.IsAce() {
			aces++
			continue
		}
		hard += c.Capped()
		soft += c.Capped()
	}
	for i := range aces {
		remaining := aces - i - 1
		hard++
		if soft+11+remaining <= 21 {
			soft += 11
		} else {
			soft++
		}
	}
	return hard, soft
}

// Key returns the shorthand used for strategy lookups: "A,A" or "8,8" for a
// pair, "A,<n>" for an ace with another card, the sum for other two-card
// hands and the soft total once the hand has more cards. A dealer hand with
// its hole card hidden returns its up-card: "A", "10" or "2".."9".
func (h *Hand) Key() string {
	if h.Dealer && (!h.revealed || len(h.Cards) <= 1) {
		if len(h.Cards) == 0 {
			return ""
		}
		return cardKey(h.Cards[0])
	}

	if len(h.Cards) == 2 {
		a, b := h.Cards[0].Capped(), h.Cards[1].Capped()
		switch {
		case a == b:
			return cardKey(h.Cards[0]) + "," + cardKey(h.Cards[1])
		case a == 1:
			return "A," + strconv.Itoa(b)
		case b == 1:
			return "A," + strconv.Itoa(a)
		default:
			return strconv.Itoa(a + b)
		}
	}

	_, soft := h.Totals()
	return strconv.Itoa(soft)
}

func cardKey(c cards.Card) string {
	if c.IsAce() {
		return "A"
	}
	return strconv.Itoa(c.Capped())
}

// IsPair reports whether the hand is two cards of equal value (tens and
// faces all count as the same value)
func (h *Hand) IsPair() bool {
	return len(h.Cards) == 2 && h.Cards[0].Capped() == h.Cards[1].Capped()
}

// IsBlackjack reports whether the hand is a natural: two cards totalling
// 21 that did not come from a split
func (h *Hand) IsBlackjack() bool {
	if len(h.Cards) != 2 || h.split {
		return false
	}
	_, soft := totals(h.Cards)
	return soft == 21
}

// IsBust reports whether the hard total is over 21
func (h *Hand) IsBust() bool {
	hard, _ := totals(h.Cards)
	return hard > 21
}

// String renders the cards; a dealer hand hides its hole card
func (h *Hand) String() string {
	if len(h.Cards) == 0 {
		return ""
	}
	if h.Dealer && !h.revealed {
		hidden := make([]string, 0, len(h.Cards))
		hidden = append(hidden, "["+h.Cards[0].String()+"]")
		for range h.Cards[1:] {
			hidden = append(hidden, "[ ? ]")
		}
		return strings.Join(hidden, " ")
	}
	parts := make([]string, len(h.Cards))
	for i, c := range h.Cards {
		parts[i] = "[" + c.String() + "]"
	}
	return strings.Join(parts, " ")
}

// TotalString renders the hand value the way the table displays it
func (h *Hand) TotalString() string {
	hard, soft := h.Totals()
	switch {
	case h.Revealed() && h.IsBlackjack():
		return "Blackjack!"
	case hard > 21:
		return "Bust"
	case hard != soft:
		return fmt.Sprintf("%d/%d", hard, soft)
	default:
		return strconv.Itoa(soft)
	}
}

// clone returns a copy safe to hand to event consumers
func (h *Hand) clone() Hand {
	c := *h
	c.Cards = append([]cards.Card(nil), h.Cards...)
	return c
}
