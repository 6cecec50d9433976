package main

import (
	"fmt"
	"io"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/muesli/termenv"

	"github.com/lox/blackjack/internal/config"
)

// version is set by ldflags during build
var version = "dev"

// Globals are the flags shared by every command
type Globals struct {
	Config  string `short:"c" default:"blackjack.hcl" env:"BLACKJACK_CONFIG" help:"Path to HCL configuration file"`
	Debug   bool   `short:"d" help:"Enable debug logging"`
	NoColor bool   `name:"no-color" help:"Disable colour output"`
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" default:"1" help:"Sit down at the table"`
	Simulate SimulateCmd      `cmd:"" help:"Play many rounds of basic strategy and report the results"`
	Strategy StrategyCmd      `cmd:"" help:"Print the basic strategy tables"`
	Advise   AdviseCmd        `cmd:"" help:"Recommend a move for a hand"`
}

func main() {
	// A missing .env is fine
	_ = godotenv.Load()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("blackjack"),
		kong.Description("Blackjack table with a basic strategy advisor"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)

	if cli.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}

// loadConfig loads the HCL file named by --config. Commands apply their
// flag overrides and then call Validate.
func (g *Globals) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, fmt.Errorf("loading config %s: %w", g.Config, err)
	}
	return cfg, nil
}

// newLogger builds the command logger; --debug wins over the configured level
func (g *Globals) newLogger(w io.Writer, level string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Prefix:          "blackjack",
	})

	if g.Debug {
		logger.SetLevel(log.DebugLevel)
		return logger
	}
	switch level {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}
	return logger
}
