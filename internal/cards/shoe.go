package cards

import (
	"errors"
	"fmt"
	rand "math/rand/v2"

	"github.com/lox/blackjack/internal/randutil"
)

const (
	// DeckSize is the number of cards in one full deck
	DeckSize = 52
	// MinDecks and MaxDecks bound the shoe size
	MinDecks = 1
	MaxDecks = 8

	// reshuffleRatio is the share of the shoe left when it should be replaced
	reshuffleRatio = 0.15
)

var (
	// ErrInvalidDeckCount is returned when a shoe is requested with an unsupported number of decks
	ErrInvalidDeckCount = errors.New("invalid deck count")
	// ErrShoeExhausted is returned when drawing from an empty shoe
	ErrShoeExhausted = errors.New("shoe exhausted")
)

// Shoe is the shuffled multi-deck supply cards are drawn from. Cards are
// drawn from the end of the shuffled order. A Shoe is owned by a single
// session and is not safe for concurrent use.
type Shoe struct {
	cards     []Card
	decks     int
	total     int
	count     int
	reshuffle int
}

// NewShoe builds decks×52 cards and shuffles them with rng. A nil rng is
// replaced by a time-seeded one.
func NewShoe(decks int, rng *rand.Rand) (*Shoe, error) {
	if decks < MinDecks || decks > MaxDecks {
		return nil, fmt.Errorf("%w: %d (must be %d-%d)", ErrInvalidDeckCount, decks, MinDecks, MaxDecks)
	}
	if rng == nil {
		rng, _ = randutil.NewTimeSeeded()
	}

	s := &Shoe{
		cards: make([]Card, 0, decks*DeckSize),
		decks: decks,
	}
	for range decks {
		for _, suit := range Suits {
			for rank := Ace; rank <= King; rank++ {
				s.cards = append(s.cards, NewCard(suit, rank))
			}
		}
	}

	// Fisher-Yates
	for i := len(s.cards) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	}

	s.total = len(s.cards)
	s.reshuffle = int(float64(s.total) * reshuffleRatio)
	return s, nil
}

// NewShoeFromCards returns an unshuffled shoe that deals the given cards in
// the order they are passed. Used to replay or stack a deal.
func NewShoeFromCards(cards ...Card) *Shoe {
	s := &Shoe{
		cards: make([]Card, len(cards)),
		decks: max(1, (len(cards)+DeckSize-1)/DeckSize),
		total: len(cards),
	}
	for i, c := range cards {
		s.cards[len(cards)-1-i] = c
	}
	s.reshuffle = int(float64(s.total) * reshuffleRatio)
	return s
}

// Draw removes the next card and updates the running count
func (s *Shoe) Draw() (Card, error) {
	if len(s.cards) == 0 {
		return Card{}, ErrShoeExhausted
	}
	last := len(s.cards) - 1
	card := s.cards[last]
	s.cards = s.cards[:last]
	s.count += card.HiLo()
	return card, nil
}

// Cut moves the cards before pos to the back of the shoe
func (s *Shoe) Cut(pos int) {
	if pos <= 0 || pos >= len(s.cards) {
		return
	}
	cut := make([]Card, 0, len(s.cards))
	cut = append(cut, s.cards[pos:]...)
	cut = append(cut, s.cards[:pos]...)
	s.cards = cut
}

// Remaining returns the number of cards left
func (s *Shoe) Remaining() int {
	return len(s.cards)
}

// Total returns the number of cards the shoe was built with
func (s *Shoe) Total() int {
	return s.total
}

// Decks returns the number of decks in the shoe
func (s *Shoe) Decks() int {
	return s.decks
}

// Count returns the Hi-Lo running count of the cards drawn so far
func (s *Shoe) Count() int {
	return s.count
}

// TrueCount returns the running count divided by the decks left to deal
func (s *Shoe) TrueCount() float64 {
	if len(s.cards) == 0 {
		return 0
	}
	return float64(s.count) / (float64(len(s.cards)) / DeckSize)
}

// ReshuffleAt returns the remaining-card threshold below which the shoe
// should be replaced between rounds
func (s *Shoe) ReshuffleAt() int {
	return s.reshuffle
}

// UntilReshuffle returns how many cards can be dealt before the threshold
func (s *Shoe) UntilReshuffle() int {
	return max(0, len(s.cards)-s.reshuffle)
}

// NeedsReshuffle reports whether the remaining cards have dropped below the threshold
func (s *Shoe) NeedsReshuffle() bool {
	return len(s.cards) < s.reshuffle
}
