package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/game"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blackjack.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 50000, cfg.BuyInCents())
	assert.Equal(t, game.HitSoft17, cfg.DealerRule())
	assert.True(t, cfg.CountVisible())
	assert.True(t, cfg.HintsVisible())
}

func TestLoadFullFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
player {
  name       = "Alice"
  buy_in     = 1000
  auto_rebuy = true
}

table {
  decks               = 2
  dealer_hits_soft_17 = false
  seed                = 42
}

ui {
  log_level  = "debug"
  log_file   = "table.log"
  show_count = false
}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "Alice", cfg.Player.Name)
	assert.Equal(t, 100000, cfg.BuyInCents())
	assert.True(t, cfg.Player.AutoRebuy)
	assert.Equal(t, 2, cfg.Table.Decks)
	assert.Equal(t, int64(42), cfg.Table.Seed)
	assert.Equal(t, game.StandSoft17, cfg.DealerRule())
	assert.Equal(t, "debug", cfg.UI.LogLevel)
	assert.Equal(t, "table.log", cfg.UI.LogFile)
	assert.False(t, cfg.CountVisible())
	assert.True(t, cfg.HintsVisible(), "unset toggles keep their default")
	assert.Equal(t, "", cfg.Strategy.TablesDir)
}

func TestLoadPartialFileAppliesDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
table {
  decks = 1
}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 1, cfg.Table.Decks)
	assert.Equal(t, game.HitSoft17, cfg.DealerRule())
	assert.Equal(t, "You", cfg.Player.Name)
	assert.Equal(t, 500, cfg.Player.BuyIn)
	assert.Equal(t, "info", cfg.UI.LogLevel)
	assert.Equal(t, "blackjack.log", cfg.UI.LogFile)
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"syntax", "table {", "failed to parse HCL file"},
		{"unknown attribute", "table {\n  shoes = 2\n}\n", "failed to decode HCL"},
		{"wrong type", "table {\n  decks = \"six\"\n}\n", "failed to decode HCL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"too many decks", func(c *Config) { c.Table.Decks = 9 }, "decks must be between"},
		{"negative decks", func(c *Config) { c.Table.Decks = -1 }, "decks must be between"},
		{"small buy-in", func(c *Config) { c.Player.BuyIn = 5 }, "buy-in"},
		{"empty name", func(c *Config) { c.Player.Name = "" }, "player name"},
		{"log level", func(c *Config) { c.UI.LogLevel = "verbose" }, "invalid log level"},
		{"missing tables dir", func(c *Config) { c.Strategy.TablesDir = "/does/not/exist" }, "tables_dir"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestTables(t *testing.T) {
	t.Parallel()

	cfg := Default()
	tables, err := cfg.Tables()
	require.NoError(t, err)
	assert.NotEmpty(t, tables.Hard.Rows())

	cfg.Strategy.TablesDir = t.TempDir()
	_, err = cfg.Tables()
	assert.Error(t, err, "an empty directory has no tables")
}
