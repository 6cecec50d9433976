package main

import (
	"fmt"
	"io"
	"os"

	"github.com/lox/blackjack/internal/cards"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/strategy"
)

type AdviseCmd struct {
	Player   string `arg:"" help:"Player cards, e.g. Th6c or 8h8d"`
	Dealer   string `arg:"" help:"Dealer up-card, e.g. Ts"`
	NoDouble bool   `name:"no-double" help:"Doubling is not available (after a split or without funds)"`
}

func (c *AdviseCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	tables, err := cfg.Tables()
	if err != nil {
		return err
	}
	return c.advise(os.Stdout, strategy.NewAdvisor(tables))
}

// advise parses the hands and writes the recommendation
func (c *AdviseCmd) advise(w io.Writer, advisor *strategy.Advisor) error {
	player, dealer, err := parseHands(c.Player, c.Dealer)
	if err != nil {
		return err
	}

	rec := advisor.Advise(player, dealer)
	fmt.Fprintf(w, "%s (%s) against %s: %s\n",
		player.String(), player.TotalString(), dealer.String(), rec.Move.Description())

	if rec.Fallback {
		fmt.Fprintf(w, "No table entry for %s vs %s, standing\n", rec.Row, rec.Column)
		return nil
	}
	fmt.Fprintf(w, "Table: %s, row %s, column %s\n", rec.Source, rec.Row, rec.Column)

	if resolved := rec.Move.Resolve(!c.NoDouble); resolved != rec.Move {
		fmt.Fprintf(w, "Play: %s\n", resolved)
	}
	return nil
}

// parseHands builds a player hand and a dealer hand showing one up-card
func parseHands(playerCards, dealerCard string) (*game.Hand, *game.Hand, error) {
	pcs, err := cards.ParseCards(playerCards)
	if err != nil {
		return nil, nil, fmt.Errorf("player cards: %w", err)
	}
	if len(pcs) < 2 {
		return nil, nil, fmt.Errorf("player cards: need at least two cards, got %d", len(pcs))
	}
	dcs, err := cards.ParseCards(dealerCard)
	if err != nil {
		return nil, nil, fmt.Errorf("dealer card: %w", err)
	}
	if len(dcs) != 1 {
		return nil, nil, fmt.Errorf("dealer card: need exactly one up-card, got %d", len(dcs))
	}

	player := game.NewHand(0)
	for _, c := range pcs {
		player.AddCard(c)
	}
	dealer := game.NewDealerHand()
	dealer.AddCard(dcs[0])
	return player, dealer, nil
}
