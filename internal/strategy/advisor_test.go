package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// shorthand is a Hand with a fixed key and totals
type shorthand struct {
	key        string
	hard, soft int
}

func (h shorthand) Key() string        { return h.key }
func (h shorthand) Totals() (int, int) { return h.hard, h.soft }

func upCard(key string) Hand { return shorthand{key: key} }

func total(key string, hard, soft int) Hand {
	return shorthand{key: key, hard: hard, soft: soft}
}

func newTestAdvisor(t *testing.T) *Advisor {
	t.Helper()
	tables, err := DefaultTables()
	require.NoError(t, err)
	return NewAdvisor(tables)
}

func TestRecommend(t *testing.T) {
	t.Parallel()
	advisor := newTestAdvisor(t)

	tests := []struct {
		name   string
		player Hand
		dealer string
		want   Move
		source Source
		row    string
	}{
		{"pair of eights splits against ten", total("8,8", 16, 16), "10", Split, SourceSplits, "8,8"},
		{"aces split against ace", total("A,A", 2, 12), "A", Split, SourceSplits, "A,A"},
		{"tens fall through to hard stand", total("10,10", 20, 20), "6", Stand, SourceHard, RowHardHigh},
		{"fives fall through to hard double", total("5,5", 10, 10), "6", Double, SourceHard, "10"},
		{"nines not split against seven", total("9,9", 18, 18), "7", Stand, SourceHard, RowHardHigh},
		{"soft eighteen doubles against three", total("A,7", 8, 18), "3", DoubleAllowed, SourceSoft, "A,7"},
		{"soft eighteen hits against nine", total("A,7", 8, 18), "9", Hit, SourceSoft, "A,7"},
		{"soft seventeen hits against ace", total("A,6", 7, 17), "A", Hit, SourceSoft, "A,6"},
		{"blackjack always stands", total("A,10", 11, 21), "6", Stand, SourceBlackjack, "A,10"},
		{"sixteen surrenders against ten", total("16", 16, 16), "10", Surrender, SourceSurrender, "16"},
		{"sixteen surrenders against nine", total("16", 16, 16), "9", Surrender, SourceSurrender, "16"},
		{"sixteen surrenders against ace", total("16", 16, 16), "A", Surrender, SourceSurrender, "16"},
		{"fifteen surrenders against ten", total("15", 15, 15), "10", Surrender, SourceSurrender, "15"},
		{"fifteen hits against nine", total("15", 15, 15), "9", Hit, SourceHard, "15"},
		{"sixteen stands against six", total("16", 16, 16), "6", Stand, SourceHard, "16"},
		{"seventeen stands against nine", total("17", 17, 17), "9", Stand, SourceHard, RowHardHigh},
		{"eight hits", total("8", 8, 8), "6", Hit, SourceHard, RowHardLow},
		{"eleven doubles against ace", total("11", 11, 11), "A", Double, SourceHard, "11"},
		{"twelve stands against four", total("12", 12, 12), "4", Stand, SourceHard, "12"},
		{"three card soft sixteen uses soft total", total("16", 6, 16), "10", Surrender, SourceSurrender, "16"},
		{"three card hand above seventeen", total("19", 19, 19), "A", Stand, SourceHard, RowHardHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := advisor.Advise(tt.player, upCard(tt.dealer))
			assert.Equal(t, tt.want, rec.Move)
			assert.Equal(t, tt.source, rec.Source)
			assert.Equal(t, tt.row, rec.Row)
			assert.Equal(t, tt.dealer, rec.Column)
			assert.False(t, rec.Fallback)
			assert.Equal(t, tt.want, advisor.Recommend(tt.player, upCard(tt.dealer)))
		})
	}
}

func TestRecommendEightsFollowSplitsTable(t *testing.T) {
	t.Parallel()
	advisor := newTestAdvisor(t)

	for _, column := range Columns {
		cell, ok := advisor.Tables().Splits.Lookup("8,8", column)
		require.True(t, ok)
		assert.Equal(t, Split, cell, "8,8 vs %s", column)

		got := advisor.Recommend(total("8,8", 16, 16), upCard(column))
		assert.Equal(t, Split, got, "8,8 vs %s", column)
	}
}

func TestRecommendLookupMissFallsBackToStand(t *testing.T) {
	t.Parallel()
	advisor := newTestAdvisor(t)

	for _, dealer := range []string{"", "1", "11", "K", "J"} {
		rec := advisor.Advise(total("12", 12, 12), upCard(dealer))
		assert.Equal(t, Stand, rec.Move, "dealer key %q", dealer)
		assert.Equal(t, SourceFallback, rec.Source)
		assert.True(t, rec.Fallback)
	}

	// a pair row missing from a custom splits table also falls back
	tables := advisor.Tables()
	custom := NewAdvisor(&Tables{
		Hard:   tables.Hard,
		Soft:   tables.Soft,
		Splits: &Table{name: "splits", cells: map[string][]Move{}},
	})
	rec := custom.Advise(total("8,8", 16, 16), upCard("10"))
	assert.Equal(t, Stand, rec.Move)
	assert.True(t, rec.Fallback)
}

func TestHardRow(t *testing.T) {
	t.Parallel()

	assert.Equal(t, RowHardLow, HardRow(4))
	assert.Equal(t, RowHardLow, HardRow(8))
	assert.Equal(t, "9", HardRow(9))
	assert.Equal(t, "16", HardRow(16))
	assert.Equal(t, RowHardHigh, HardRow(17))
	assert.Equal(t, RowHardHigh, HardRow(21))
}

func TestMoveResolve(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Double, Double.Resolve(true))
	assert.Equal(t, Double, DoubleAllowed.Resolve(true))
	assert.Equal(t, Hit, Double.Resolve(false))
	assert.Equal(t, Stand, DoubleAllowed.Resolve(false))
	assert.Equal(t, Split, Split.Resolve(false))
	assert.Equal(t, Surrender, Surrender.Resolve(false))
}

func TestParseMove(t *testing.T) {
	t.Parallel()

	for _, m := range Moves {
		got, err := ParseMove(m.Code())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := ParseMove("X")
	assert.Error(t, err)
}
