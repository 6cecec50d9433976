package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/session"
	"github.com/lox/blackjack/internal/tui"
)

type PlayCmd struct {
	Name        string `short:"n" help:"Player name (overrides config)"`
	Decks       int    `help:"Number of decks in the shoe (overrides config)"`
	BuyIn       int    `name:"buy-in" help:"Starting bankroll in dollars (overrides config)"`
	Seed        int64  `help:"Shoe seed for a repeatable game (overrides config)"`
	StandSoft17 bool   `name:"stand-soft-17" help:"Dealer stands on soft 17"`
	LogFile     string `name:"log-file" help:"Log file path (overrides config)"`
}

// apply copies the flags that were set over the file configuration
func (c *PlayCmd) apply(cfg *config.Config) {
	if c.Name != "" {
		cfg.Player.Name = c.Name
	}
	if c.Decks != 0 {
		cfg.Table.Decks = c.Decks
	}
	if c.BuyIn != 0 {
		cfg.Player.BuyIn = c.BuyIn
	}
	if c.Seed != 0 {
		cfg.Table.Seed = c.Seed
	}
	if c.StandSoft17 {
		hits := false
		cfg.Table.DealerHitsSoft17 = &hits
	}
	if c.LogFile != "" {
		cfg.UI.LogFile = c.LogFile
	}
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	c.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	// The terminal belongs to Bubble Tea, so logs go to a file
	logFile, err := os.OpenFile(cfg.UI.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = logFile.Close() }()

	logger := g.newLogger(logFile, cfg.UI.LogLevel)

	tables, err := cfg.Tables()
	if err != nil {
		return err
	}

	model := tui.NewTUIModel(logger, tui.Options{
		ShowCount: cfg.CountVisible(),
		ShowHints: cfg.HintsVisible(),
	})

	sess, err := session.New(session.Config{
		PlayerName: cfg.Player.Name,
		BuyIn:      cfg.BuyInCents(),
		Decks:      cfg.Table.Decks,
		Seed:       cfg.Table.Seed,
		DealerRule: cfg.DealerRule(),
		AutoRebuy:  cfg.Player.AutoRebuy,
		Tables:     tables,
	},
		session.WithLogger(logger),
		session.WithEventHandler(model.HandleEvent),
	)
	if err != nil {
		return err
	}

	model.Attach(sess)
	model.ShowWelcome()

	logger.Info("Starting blackjack",
		"player", cfg.Player.Name,
		"config", g.Config,
		"seed", sess.Seed())

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	player := sess.Player()
	fmt.Printf("%s leaves the table with %s after %d rounds", player.Name, game.FormatCents(player.Balance), sess.RoundsPlayed())
	if sess.Rebuys() == 0 {
		fmt.Printf(" (%s)", game.FormatSignedCents(player.Balance-cfg.BuyInCents()))
	} else {
		fmt.Printf(" and %d rebuys", sess.Rebuys())
	}
	fmt.Println()
	logger.Info("Session ended", "balance", game.FormatCents(player.Balance), "rounds", sess.RoundsPlayed())
	return nil
}
