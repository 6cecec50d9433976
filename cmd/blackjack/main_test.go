package main

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/statistics"
	"github.com/lox/blackjack/internal/strategy"
)

func testAdvisor(t *testing.T) *strategy.Advisor {
	t.Helper()
	tables, err := strategy.DefaultTables()
	require.NoError(t, err)
	return strategy.NewAdvisor(tables)
}

func TestAdvise(t *testing.T) {
	tests := []struct {
		name     string
		cmd      AdviseCmd
		expected []string
	}{
		{
			name:     "surrender sixteen against ten",
			cmd:      AdviseCmd{Player: "Th6c", Dealer: "Ts"},
			expected: []string{"[10♥] [6♣] (16) against [10♠]: Surrender", "Table: surrender, row 16, column 10"},
		},
		{
			name:     "split eights",
			cmd:      AdviseCmd{Player: "8h8d", Dealer: "10s"},
			expected: []string{"Split", "Table: splits, row 8,8, column 10"},
		},
		{
			name:     "stand on hard seventeen",
			cmd:      AdviseCmd{Player: "Th7d", Dealer: "9c"},
			expected: []string{"Stand", "row >= 17, column 9"},
		},
		{
			name:     "double eleven",
			cmd:      AdviseCmd{Player: "5h6d", Dealer: "6c"},
			expected: []string{"Double if allowed, otherwise Hit"},
		},
		{
			name:     "double eleven without doubling hits",
			cmd:      AdviseCmd{Player: "5h6d", Dealer: "6c", NoDouble: true},
			expected: []string{"Play: Hit"},
		},
		{
			name:     "soft eighteen without doubling stands",
			cmd:      AdviseCmd{Player: "As7d", Dealer: "3c", NoDouble: true},
			expected: []string{"(8/18)", "Play: Stand"},
		},
		{
			name:     "three cards use the soft total",
			cmd:      AdviseCmd{Player: "2h3dAc", Dealer: "5s"},
			expected: []string{"row 16, column 5"},
		},
	}

	advisor := testAdvisor(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, tt.cmd.advise(&out, advisor))
			for _, want := range tt.expected {
				assert.Contains(t, out.String(), want)
			}
		})
	}
}

func TestAdviseErrors(t *testing.T) {
	tests := []struct {
		name   string
		cmd    AdviseCmd
		errMsg string
	}{
		{"one player card", AdviseCmd{Player: "Th", Dealer: "Ts"}, "need at least two cards"},
		{"two dealer cards", AdviseCmd{Player: "Th6c", Dealer: "TsTd"}, "exactly one up-card"},
		{"bad rank", AdviseCmd{Player: "Xh6c", Dealer: "Ts"}, "player cards"},
		{"bad suit", AdviseCmd{Player: "Th6c", Dealer: "Tx"}, "dealer card"},
	}

	advisor := testAdvisor(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.advise(io.Discard, advisor)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestRenderStrategy(t *testing.T) {
	tables, err := strategy.DefaultTables()
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, renderStrategy(&out, tables, "all"))
	text := out.String()
	for _, want := range []string{
		"Hard totals", "Soft totals", "Pair splitting",
		">= 17", "<= 8", "A,9", "10,10",
		"Surrender 16 against 9, 10, A",
		"Surrender 15 against 10",
		"Ds  Double if allowed, otherwise Stand",
	} {
		assert.Contains(t, text, want)
	}

	out.Reset()
	require.NoError(t, renderStrategy(&out, tables, "soft"))
	assert.Contains(t, out.String(), "Soft totals")
	assert.NotContains(t, out.String(), "Hard totals")

	assert.Error(t, renderStrategy(io.Discard, tables, "insurance"))
}

func TestPrintResults(t *testing.T) {
	stats := &statistics.Statistics{}
	stats.Add(statistics.RoundResult{
		NetUnits: 1, NetCents: 1000, Wagered: 1000,
		Outcomes: []game.Outcome{game.OutcomeWin},
		Actions:  []game.Action{game.Stand},
	})
	stats.Add(statistics.RoundResult{
		NetUnits: -2, NetCents: -2000, Wagered: 2000,
		Outcomes: []game.Outcome{game.OutcomeLose},
		Actions:  []game.Action{game.Double},
	})
	stats.ShoesUsed = 1

	var out bytes.Buffer
	printResults(&out, stats, 42, 2*time.Second)
	text := out.String()

	assert.Contains(t, text, "=== SIMULATION RESULTS ===")
	assert.Contains(t, text, "Rounds: 2 (seed 42, 2s, 1 rounds/sec)")
	assert.Contains(t, text, "Result: -0.5000 bets/round")
	assert.Contains(t, text, "House edge: 33.333% of $30.00 wagered (net -$10.00)")
	assert.Contains(t, text, "Rounds won/lost/pushed: 50.0% / 50.0% / 0.0%")
	assert.Contains(t, text, "stand 1, double 1")
	assert.Contains(t, text, "Shoes: 1 (2.0 rounds per shoe)")
}

func TestPlayCmdOverrides(t *testing.T) {
	cfg := config.Default()
	cmd := PlayCmd{Name: "Bob", Decks: 2, BuyIn: 100, Seed: 9, StandSoft17: true, LogFile: "play.log"}
	cmd.apply(cfg)

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "Bob", cfg.Player.Name)
	assert.Equal(t, 2, cfg.Table.Decks)
	assert.Equal(t, 10000, cfg.BuyInCents())
	assert.Equal(t, int64(9), cfg.Table.Seed)
	assert.Equal(t, game.StandSoft17, cfg.DealerRule())
	assert.Equal(t, "play.log", cfg.UI.LogFile)

	untouched := config.Default()
	(&PlayCmd{}).apply(untouched)
	assert.Equal(t, config.Default(), untouched)
}

func TestNewLogger(t *testing.T) {
	g := &Globals{}
	assert.Equal(t, log.WarnLevel, g.newLogger(io.Discard, "warn").GetLevel())
	assert.Equal(t, log.InfoLevel, g.newLogger(io.Discard, "").GetLevel())

	g.Debug = true
	assert.Equal(t, log.DebugLevel, g.newLogger(io.Discard, "error").GetLevel())
}
