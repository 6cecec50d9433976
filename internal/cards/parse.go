package cards

import (
	"fmt"
	"strings"
)

// ParseCard parses a single card such as "As", "Th" or "10h"
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "10") {
		s = "T" + s[2:]
	}
	if len(s) != 2 {
		return Card{}, fmt.Errorf("invalid card string: %q", s)
	}

	rank, err := parseRank(s[0])
	if err != nil {
		return Card{}, err
	}
	suit, err := parseSuit(s[1])
	if err != nil {
		return Card{}, err
	}
	return NewCard(suit, rank), nil
}

// ParseCards parses a run of cards in [Rank][Suit] notation.
// Format: "AsKh" or "As Kh 10d"; ranks A,2-9,T (or 10),J,Q,K; suits s,h,d,c.
func ParseCards(s string) ([]Card, error) {
	s = strings.ReplaceAll(s, "10", "T")
	s = strings.Join(strings.Fields(s), "")
	s = strings.ReplaceAll(s, ",", "")
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("invalid card string length: %d (must be even)", len(s))
	}

	cards := make([]Card, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		rank, err := parseRank(s[i])
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", i, err)
		}
		suit, err := parseSuit(s[i+1])
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", i+1, err)
		}
		cards = append(cards, NewCard(suit, rank))
	}
	return cards, nil
}

// MustParseCards parses cards and panics on error (for tests)
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(fmt.Sprintf("failed to parse cards '%s': %v", s, err))
	}
	return cards
}

func parseRank(c byte) (Rank, error) {
	switch c {
	case 'A', 'a':
		return Ace, nil
	case 'K', 'k':
		return King, nil
	case 'Q', 'q':
		return Queen, nil
	case 'J', 'j':
		return Jack, nil
	case 'T', 't':
		return Ten, nil
	}
	if c >= '2' && c <= '9' {
		return Rank(c - '0'), nil
	}
	return 0, fmt.Errorf("invalid rank: %c", c)
}

func parseSuit(c byte) (Suit, error) {
	switch c {
	case 'h', 'H':
		return Hearts, nil
	case 'd', 'D':
		return Diamonds, nil
	case 'c', 'C':
		return Clubs, nil
	case 's', 'S':
		return Spades, nil
	}
	return 0, fmt.Errorf("invalid suit: %c", c)
}
