package strategy

import (
	"slices"
	"strconv"
	"strings"
)

// Hand is the view of a hand the advisor needs. Key returns the shorthand
// used as a table row: "8,8" or "A,A" for pairs, "A,<n>" for an ace plus
// another card, the sum for other two-card hands and the soft total for
// larger hands. A dealer hand with its hole card hidden returns its up-card
// key ("A", "10", "2".."9").
type Hand interface {
	Key() string
	Totals() (hard, soft int)
}

// Source names where a recommendation came from
type Source string

const (
	SourceBlackjack Source = "blackjack"
	SourceSplits    Source = "splits"
	SourceSoft      Source = "soft_totals"
	SourceSurrender Source = "surrender"
	SourceHard      Source = "hard_totals"
	SourceFallback  Source = "fallback"
)

// Recommendation is a move together with the lookup that produced it
type Recommendation struct {
	Move   Move
	Source Source
	Row    string
	Column string
	// Fallback is set when a key was outside the tables and Stand was returned
	Fallback bool
}

// SurrenderRule is a late-surrender cell applied ahead of the hard totals table
type SurrenderRule struct {
	Total   int
	Columns []string
}

// SurrenderRules are the fixed surrender cells: 16 against 9, 10 or A and
// 15 against 10.
var SurrenderRules = []SurrenderRule{
	{Total: 16, Columns: []string{"9", "10", "A"}},
	{Total: 15, Columns: []string{"10"}},
}

// Advisor recommends basic-strategy moves. It holds no state beyond its
// tables and is safe for concurrent use.
type Advisor struct {
	tables *Tables
}

// NewAdvisor creates an advisor backed by the given tables
func NewAdvisor(tables *Tables) *Advisor {
	return &Advisor{tables: tables}
}

// Tables returns the tables the advisor reads from
func (a *Advisor) Tables() *Tables {
	return a.tables
}

// Recommend returns the basic-strategy move for player against the dealer's up-card
func (a *Advisor) Recommend(player, dealer Hand) Move {
	return a.Advise(player, dealer).Move
}

// Advise is Recommend with the table cell that produced the move
func (a *Advisor) Advise(player, dealer Hand) Recommendation {
	dealerKey := dealer.Key()
	playerKey := player.Key()

	if !slices.Contains(Columns, dealerKey) {
		return fallback(playerKey, dealerKey)
	}

	if playerKey == "A,10" {
		return Recommendation{Move: Stand, Source: SourceBlackjack, Row: playerKey, Column: dealerKey}
	}

	if first, second, ok := strings.Cut(playerKey, ","); ok {
		if first == second {
			move, found := a.tables.Splits.Lookup(playerKey, dealerKey)
			if !found {
				return fallback(playerKey, dealerKey)
			}
			if move == Split {
				return Recommendation{Move: Split, Source: SourceSplits, Row: playerKey, Column: dealerKey}
			}
		} else if first == "A" {
			move, found := a.tables.Soft.Lookup(playerKey, dealerKey)
			if !found {
				return fallback(playerKey, dealerKey)
			}
			return Recommendation{Move: move, Source: SourceSoft, Row: playerKey, Column: dealerKey}
		}
	}

	_, total := player.Totals()
	for _, rule := range SurrenderRules {
		if total == rule.Total && slices.Contains(rule.Columns, dealerKey) {
			return Recommendation{Move: Surrender, Source: SourceSurrender, Row: strconv.Itoa(total), Column: dealerKey}
		}
	}

	row := HardRow(total)
	move, found := a.tables.Hard.Lookup(row, dealerKey)
	if !found {
		return fallback(row, dealerKey)
	}
	return Recommendation{Move: move, Source: SourceHard, Row: row, Column: dealerKey}
}

// HardRow returns the hard totals row for a soft total
func HardRow(total int) string {
	switch {
	case total >= 17:
		return RowHardHigh
	case total <= 8:
		return RowHardLow
	default:
		return strconv.Itoa(total)
	}
}

func fallback(row, column string) Recommendation {
	return Recommendation{Move: Stand, Source: SourceFallback, Row: row, Column: column, Fallback: true}
}
