package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/blackjack/internal/cards"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/simulator"
	"github.com/lox/blackjack/internal/statistics"
)

type SimulateCmd struct {
	Rounds      int   `short:"r" default:"100000" help:"Number of rounds to simulate"`
	Workers     int   `short:"w" default:"0" help:"Worker goroutines (0 for one per CPU)"`
	Bet         int   `default:"10" help:"Flat bet in dollars"`
	Decks       int   `help:"Number of decks in the shoe (overrides config)"`
	Seed        int64 `help:"RNG seed (overrides config, 0 for random)"`
	StandSoft17 bool  `name:"stand-soft-17" help:"Dealer stands on soft 17"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	if c.Decks != 0 {
		cfg.Table.Decks = c.Decks
	}
	if c.Seed != 0 {
		cfg.Table.Seed = c.Seed
	}
	if c.StandSoft17 {
		hits := false
		cfg.Table.DealerHitsSoft17 = &hits
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level := "warn"
	if cfg.UI.LogLevel == "debug" {
		level = "debug"
	}
	logger := g.newLogger(os.Stderr, level)

	tables, err := cfg.Tables()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sim := simulator.New(simulator.Config{
		Rounds:     c.Rounds,
		Workers:    c.Workers,
		Bet:        c.Bet * 100,
		Decks:      cfg.Table.Decks,
		Seed:       cfg.Table.Seed,
		DealerRule: cfg.DealerRule(),
		Tables:     tables,
		Logger:     logger,
	})

	fmt.Printf("Starting simulation: %d rounds at %s, %s, dealer %s\n",
		c.Rounds, game.FormatCents(c.Bet*100), decksLabel(cfg.Table.Decks), cfg.DealerRule())

	stats, err := sim.Run(ctx)
	if err != nil {
		return err
	}

	printResults(os.Stdout, stats, sim.Seed(), sim.Elapsed())
	return nil
}

var titleStyle = lipgloss.NewStyle().Bold(true)

// printResults writes the simulation report
func printResults(w io.Writer, stats *statistics.Statistics, seed int64, elapsed time.Duration) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render("=== SIMULATION RESULTS ==="))

	rate := 0.0
	if elapsed > 0 {
		rate = float64(stats.Rounds) / elapsed.Seconds()
	}
	fmt.Fprintf(w, "Rounds: %d (seed %d, %s, %.0f rounds/sec)\n",
		stats.Rounds, seed, elapsed.Round(time.Millisecond), rate)

	low, high := stats.ConfidenceInterval95()
	fmt.Fprintf(w, "Result: %+.4f bets/round ± %.4f SE\n", stats.Mean(), stats.StdError())
	fmt.Fprintf(w, "95%% CI: [%+.4f, %+.4f] bets/round\n", low, high)
	fmt.Fprintf(w, "Std dev: %.4f bets, median %+.2f, p5 %+.2f, p95 %+.2f\n",
		stats.StdDev(), stats.Median(), stats.Percentile(0.05), stats.Percentile(0.95))
	fmt.Fprintf(w, "House edge: %.3f%% of %s wagered (net %s)\n",
		stats.HouseEdge()*100, game.FormatCents(stats.Wagered), game.FormatSignedCents(stats.NetCents))

	if stats.Rounds > 0 {
		n := float64(stats.Rounds)
		fmt.Fprintf(w, "Rounds won/lost/pushed: %.1f%% / %.1f%% / %.1f%%\n",
			float64(stats.Wins)/n*100, float64(stats.Losses)/n*100, float64(stats.Pushes)/n*100)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Hand outcomes (%d hands):\n", stats.HandsTotal)
	for _, o := range []game.Outcome{
		game.OutcomeBlackjack, game.OutcomeWin, game.OutcomePush,
		game.OutcomeLose, game.OutcomeBust, game.OutcomeSurrender,
	} {
		fmt.Fprintf(w, "  %-10s %8d  %5.1f%%\n", o, stats.Outcomes[o], stats.OutcomeRate(o)*100)
	}

	var moves []string
	for _, a := range game.Actions {
		moves = append(moves, fmt.Sprintf("%s %d", a, stats.Actions[a]))
	}
	fmt.Fprintf(w, "Moves: %s\n", strings.Join(moves, ", "))

	fmt.Fprintf(w, "Shoes: %d (%s), rebuys: %d, aborted rounds: %d\n",
		stats.ShoesUsed, shoeSummary(stats), stats.Rebuys, stats.Aborted)
}

func shoeSummary(stats *statistics.Statistics) string {
	if stats.ShoesUsed == 0 {
		return "none"
	}
	return fmt.Sprintf("%.1f rounds per shoe", float64(stats.Rounds)/float64(stats.ShoesUsed))
}

// decksLabel is shared by the commands that describe the shoe
func decksLabel(n int) string {
	if n == 1 {
		return "single deck"
	}
	if n < cards.MinDecks || n > cards.MaxDecks {
		return fmt.Sprintf("%d decks (invalid)", n)
	}
	return fmt.Sprintf("%d decks", n)
}
