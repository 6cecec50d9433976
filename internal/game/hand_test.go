package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/cards"
)

func handOf(t *testing.T, notation string) *Hand {
	t.Helper()
	cs, err := cards.ParseCards(notation)
	require.NoError(t, err)
	h := NewHand(1000)
	for _, c := range cs {
		h.AddCard(c)
	}
	return h
}

func TestHandTotals(t *testing.T) {
	t.Parallel()

	tests := []struct {
		hand string
		hard int
		soft int
	}{
		{"Th7d", 17, 17},
		{"As6h", 7, 17},
		{"AsKh", 11, 21},
		{"AsAh", 2, 12},
		{"AsAhAd", 3, 13},
		{"ThAsAh", 12, 12},
		{"9h8dAc", 18, 18},
		{"As2h3d", 6, 16},
		{"5h5dAcAs", 12, 12},
		{"ThKdQc", 30, 30},
		{"AsAhAdAc7h", 11, 21},
	}

	for _, tt := range tests {
		t.Run(tt.hand, func(t *testing.T) {
			hard, soft := handOf(t, tt.hand).Totals()
			assert.Equal(t, tt.hard, hard, "hard total")
			assert.Equal(t, tt.soft, soft, "soft total")
		})
	}
}

// Every two and three card combination of values: hands without aces have
// equal totals, and an ace only counts 11 when that keeps the hand at 21
// or under.
func TestHandTotalsProperties(t *testing.T) {
	t.Parallel()

	ranks := []cards.Rank{cards.Ace, cards.Two, cards.Three, cards.Four, cards.Five,
		cards.Six, cards.Seven, cards.Eight, cards.Nine, cards.Ten, cards.King}

	check := func(cs ...cards.Card) {
		h := NewHand(0)
		aces := 0
		for _, c := range cs {
			h.AddCard(c)
			if c.IsAce() {
				aces++
			}
		}
		hard, soft := h.Totals()

		if aces == 0 {
			require.Equal(t, hard, soft, "no aces: %v", cs)
			return
		}
		require.GreaterOrEqual(t, soft, hard, "%v", cs)
		if hard <= 21 {
			require.LessOrEqual(t, soft, 21, "soft total busts a hand that need not: %v", cs)
		}
		want := hard
		if hard+10 <= 21 {
			want = hard + 10
		}
		require.Equal(t, want, soft, "%v", cs)
	}

	for _, a := range ranks {
		for _, b := range ranks {
			check(cards.NewCard(cards.Spades, a), cards.NewCard(cards.Hearts, b))
			for _, c := range ranks {
				check(cards.NewCard(cards.Spades, a), cards.NewCard(cards.Hearts, b), cards.NewCard(cards.Clubs, c))
			}
		}
	}
}

func TestHandKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		hand string
		want string
	}{
		{"Th7d", "17"},
		{"AsKh", "A,10"},
		{"KhAs", "A,10"},
		{"5hAc", "A,5"},
		{"8h8d", "8,8"},
		{"KhQd", "10,10"},
		{"JhTd", "10,10"},
		{"AsAh", "A,A"},
		{"2h3d", "5"},
		{"Th6dAc", "17"},
		{"As2h3d", "16"},
		{"9h8d7c", "24"},
	}

	for _, tt := range tests {
		t.Run(tt.hand, func(t *testing.T) {
			assert.Equal(t, tt.want, handOf(t, tt.hand).Key())
		})
	}
}

func TestDealerHandHidesHoleCard(t *testing.T) {
	t.Parallel()

	dealer := NewDealerHand()
	assert.Equal(t, "", dealer.Key())
	assert.Equal(t, "", dealer.String())

	for _, c := range cards.MustParseCards("9cKh") {
		dealer.AddCard(c)
	}

	hard, soft := dealer.Totals()
	assert.Equal(t, 9, hard)
	assert.Equal(t, 9, soft)
	assert.Equal(t, "9", dealer.Key())
	assert.Equal(t, "[9♣] [ ? ]", dealer.String())
	assert.False(t, dealer.Revealed())

	dealer.Reveal()
	hard, soft = dealer.Totals()
	assert.Equal(t, 19, hard)
	assert.Equal(t, 19, soft)
	assert.Equal(t, "19", dealer.Key())
	assert.Equal(t, "[9♣] [K♥]", dealer.String())
	assert.True(t, dealer.Revealed())
}

func TestDealerUpCardKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		upCard string
		key    string
		total  int
	}{
		{"As", "A", 11},
		{"Kd", "10", 10},
		{"Th", "10", 10},
		{"2c", "2", 2},
		{"9h", "9", 9},
	}

	for _, tt := range tests {
		t.Run(tt.upCard, func(t *testing.T) {
			dealer := NewDealerHand()
			for _, c := range cards.MustParseCards(tt.upCard + "5s") {
				dealer.AddCard(c)
			}
			assert.Equal(t, tt.key, dealer.Key())
			hard, soft := dealer.Totals()
			assert.Equal(t, tt.total, hard)
			assert.Equal(t, tt.total, soft)
		})
	}

	t.Run("single card after reveal", func(t *testing.T) {
		dealer := NewDealerHand()
		dealer.AddCard(cards.MustParseCards("As")[0])
		dealer.Reveal()
		assert.Equal(t, "A", dealer.Key())
		hard, soft := dealer.Totals()
		assert.Equal(t, 11, hard)
		assert.Equal(t, 11, soft)
	})
}

func TestHandClassification(t *testing.T) {
	t.Parallel()

	assert.True(t, handOf(t, "AsKh").IsBlackjack())
	assert.True(t, handOf(t, "QdAc").IsBlackjack())
	assert.False(t, handOf(t, "As5h5d").IsBlackjack(), "three card 21 is not a natural")
	assert.False(t, handOf(t, "AsAh").IsBlackjack())

	split := handOf(t, "AsKh")
	split.split = true
	assert.False(t, split.IsBlackjack(), "split hands cannot make blackjack")

	assert.True(t, handOf(t, "Th6d9c").IsBust())
	assert.False(t, handOf(t, "ThAsAh").IsBust())

	assert.True(t, handOf(t, "8h8d").IsPair())
	assert.True(t, handOf(t, "KhTd").IsPair())
	assert.False(t, handOf(t, "8h9d").IsPair())
	assert.False(t, handOf(t, "8h8d8c").IsPair())
}

func TestHandTotalString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		hand string
		want string
	}{
		{"AsKh", "Blackjack!"},
		{"As6h", "7/17"},
		{"Th7d", "17"},
		{"Th6d9c", "Bust"},
		{"As6hTd", "17"},
	}

	for _, tt := range tests {
		t.Run(tt.hand, func(t *testing.T) {
			assert.Equal(t, tt.want, handOf(t, tt.hand).TotalString())
		})
	}

	t.Run("hidden dealer blackjack", func(t *testing.T) {
		dealer := NewDealerHand()
		for _, c := range cards.MustParseCards("AsKh") {
			dealer.AddCard(c)
		}
		assert.Equal(t, "11", dealer.TotalString())
		dealer.Reveal()
		assert.Equal(t, "Blackjack!", dealer.TotalString())
	})
}

func TestHandStateString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Active", StateActive.String())
	assert.Equal(t, "Surrender", StateSurrender.String())
	assert.False(t, StateActive.IsTerminal())
	for _, s := range []HandState{StateStand, StateBust, StateBlackjack, StateSurrender} {
		assert.True(t, s.IsTerminal(), s.String())
	}
}
