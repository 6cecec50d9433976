package cards

import "fmt"

// Suit represents a card suit
type Suit int

const (
	Hearts Suit = iota
	Diamonds
	Clubs
	Spades
)

// Suits lists every suit in deck construction order
var Suits = [...]Suit{Hearts, Diamonds, Clubs, Spades}

// String returns the suit symbol
func (s Suit) String() string {
	switch s {
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	case Spades:
		return "♠"
	default:
		return "?"
	}
}

// IsRed returns true for Hearts and Diamonds
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank represents a card rank. Ace is 1 and the face cards are 11-13.
type Rank int

const (
	Ace Rank = iota + 1
	Two
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
)

// String returns the rank as printed on the card
func (r Rank) String() string {
	switch r {
	case Ace:
		return "A"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	default:
		if r >= Two && r <= Ten {
			return fmt.Sprintf("%d", int(r))
		}
		return "?"
	}
}

// Card is an immutable playing card
type Card struct {
	Suit Suit
	Rank Rank
}

// NewCard creates a new card
func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank}
}

// String returns the display form of the card, e.g. "A♠" or "10♥"
func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// Code returns the two-character notation accepted by ParseCard, e.g. "As" or "Th"
func (c Card) Code() string {
	rank := c.Rank.String()
	if c.Rank == Ten {
		rank = "T"
	}
	suit := "?"
	switch c.Suit {
	case Hearts:
		suit = "h"
	case Diamonds:
		suit = "d"
	case Clubs:
		suit = "c"
	case Spades:
		suit = "s"
	}
	return rank + suit
}

// Glyph returns the Unicode playing card for c (U+1F0A1 is the ace of spades).
// The block reserves a knight between jack and queen, which is skipped.
func (c Card) Glyph() rune {
	var base rune
	switch c.Suit {
	case Spades:
		base = 0x1F0A0
	case Hearts:
		base = 0x1F0B0
	case Diamonds:
		base = 0x1F0C0
	case Clubs:
		base = 0x1F0D0
	}
	offset := rune(c.Rank)
	if c.Rank >= Queen {
		offset++
	}
	return base + offset
}

// CardBack is the Unicode glyph for a face-down card
const CardBack = '\U0001F0A0'

// IsAce returns true if the card is an Ace
func (c Card) IsAce() bool {
	return c.Rank == Ace
}

// IsTenValue returns true for tens and face cards
func (c Card) IsTenValue() bool {
	return c.Rank >= Ten
}

// Value returns the blackjack value with an ace counted as 11
func (c Card) Value() int {
	switch {
	case c.IsAce():
		return 11
	case c.IsTenValue():
		return 10
	default:
		return int(c.Rank)
	}
}

// Capped returns the rank with tens and faces folded to 10 and an ace as 1.
// Pairs are compared on this value.
func (c Card) Capped() int {
	return min(int(c.Rank), 10)
}

// HiLo returns the card's contribution to the Hi-Lo running count
func (c Card) HiLo() int {
	switch {
	case c.Rank >= Two && c.Rank <= Six:
		return 1
	case c.IsAce() || c.IsTenValue():
		return -1
	default:
		return 0
	}
}
