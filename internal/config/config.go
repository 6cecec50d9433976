package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/blackjack/internal/cards"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/strategy"
)

// ErrInvalidConfig is returned by Validate for out-of-range settings
var ErrInvalidConfig = errors.New("invalid configuration")

// Config represents the complete blackjack configuration. Every block is
// optional in the file; Load and Default always return all four.
type Config struct {
	Player   *PlayerSettings   `hcl:"player,block"`
	Table    *TableSettings    `hcl:"table,block"`
	Strategy *StrategySettings `hcl:"strategy,block"`
	UI       *UISettings       `hcl:"ui,block"`
}

// PlayerSettings contains player-specific settings
type PlayerSettings struct {
	Name      string `hcl:"name,optional"`
	BuyIn     int    `hcl:"buy_in,optional"` // dollars
	AutoRebuy bool   `hcl:"auto_rebuy,optional"`
}

// TableSettings contains the shoe and house rules
type TableSettings struct {
	Decks            int   `hcl:"decks,optional"`
	DealerHitsSoft17 *bool `hcl:"dealer_hits_soft_17,optional"`
	Seed             int64 `hcl:"seed,optional"` // 0 seeds from the clock
}

// StrategySettings points the advisor at replacement tables
type StrategySettings struct {
	TablesDir string `hcl:"tables_dir,optional"`
}

// UISettings contains user interface settings
type UISettings struct {
	LogLevel  string `hcl:"log_level,optional"`
	LogFile   string `hcl:"log_file,optional"`
	ShowCount *bool  `hcl:"show_count,optional"`
	ShowHints *bool  `hcl:"show_hints,optional"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Player: &PlayerSettings{
			Name:  "You",
			BuyIn: 500,
		},
		Table: &TableSettings{
			Decks:            6,
			DealerHitsSoft17: boolPtr(true),
		},
		Strategy: &StrategySettings{},
		UI: &UISettings{
			LogLevel:  "info",
			LogFile:   "blackjack.log",
			ShowCount: boolPtr(true),
			ShowHints: boolPtr(true),
		},
	}
}

// Load loads configuration from an HCL file. A missing file yields the defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

// applyDefaults fills in missing blocks and zero values
func (c *Config) applyDefaults() {
	defaults := Default()

	if c.Player == nil {
		c.Player = defaults.Player
	}
	if c.Table == nil {
		c.Table = defaults.Table
	}
	if c.Strategy == nil {
		c.Strategy = defaults.Strategy
	}
	if c.UI == nil {
		c.UI = defaults.UI
	}

	if c.Player.Name == "" {
		c.Player.Name = defaults.Player.Name
	}
	if c.Player.BuyIn == 0 {
		c.Player.BuyIn = defaults.Player.BuyIn
	}

	if c.Table.Decks == 0 {
		c.Table.Decks = defaults.Table.Decks
	}
	if c.Table.DealerHitsSoft17 == nil {
		c.Table.DealerHitsSoft17 = defaults.Table.DealerHitsSoft17
	}

	if c.UI.LogLevel == "" {
		c.UI.LogLevel = defaults.UI.LogLevel
	}
	if c.UI.LogFile == "" {
		c.UI.LogFile = defaults.UI.LogFile
	}
	if c.UI.ShowCount == nil {
		c.UI.ShowCount = defaults.UI.ShowCount
	}
	if c.UI.ShowHints == nil {
		c.UI.ShowHints = defaults.UI.ShowHints
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Player.Name == "" {
		return fmt.Errorf("%w: player name is required", ErrInvalidConfig)
	}

	if c.Player.BuyIn*100 < game.MinBet {
		return fmt.Errorf("%w: buy-in must be at least %s", ErrInvalidConfig, game.FormatCents(game.MinBet))
	}

	if c.Table.Decks < cards.MinDecks || c.Table.Decks > cards.MaxDecks {
		return fmt.Errorf("%w: decks must be between %d and %d, got %d",
			ErrInvalidConfig, cards.MinDecks, cards.MaxDecks, c.Table.Decks)
	}

	if dir := c.Strategy.TablesDir; dir != "" {
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("%w: tables_dir: %v", ErrInvalidConfig, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("%w: tables_dir %s is not a directory", ErrInvalidConfig, dir)
		}
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.UI.LogLevel] {
		return fmt.Errorf("%w: invalid log level: %s", ErrInvalidConfig, c.UI.LogLevel)
	}

	return nil
}

// BuyInCents returns the starting balance in cents
func (c *Config) BuyInCents() int {
	return c.Player.BuyIn * 100
}

// DealerRule returns the configured dealer rule
func (c *Config) DealerRule() game.DealerRule {
	if c.Table.DealerHitsSoft17 != nil && !*c.Table.DealerHitsSoft17 {
		return game.StandSoft17
	}
	return game.HitSoft17
}

// CountVisible returns whether the running count is shown
func (c *Config) CountVisible() bool {
	return c.UI.ShowCount == nil || *c.UI.ShowCount
}

// HintsVisible returns whether strategy hints are shown
func (c *Config) HintsVisible() bool {
	return c.UI.ShowHints == nil || *c.UI.ShowHints
}

// Tables loads the strategy tables, from tables_dir when set and from the
// built-in copies otherwise
func (c *Config) Tables() (*strategy.Tables, error) {
	if c.Strategy.TablesDir == "" {
		return strategy.DefaultTables()
	}
	return strategy.LoadTables(os.DirFS(c.Strategy.TablesDir))
}

func boolPtr(b bool) *bool {
	return &b
}
