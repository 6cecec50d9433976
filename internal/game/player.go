package game

import (
	"errors"
	"fmt"
)

const (
	// BetUnit is the smallest bet increment in cents ($10)
	BetUnit = 1000
	// MinBet is the smallest accepted bet in cents
	MinBet = BetUnit
)

var (
	// ErrInvalidBet is returned when a bet amount fails validation
	ErrInvalidBet = errors.New("invalid bet")
)

// Player is the person seated at the table. Balance is in cents and only
// changes through bets, payouts and surrender refunds.
type Player struct {
	Name    string
	Balance int
}

// NewPlayer creates a player with a starting balance in cents
func NewPlayer(name string, balance int) *Player {
	return &Player{Name: name, Balance: balance}
}

// MaxBet returns the largest bet the balance allows, rounded down to whole dollars
func (p *Player) MaxBet() int {
	return p.Balance / 100 * 100
}

// CanCover reports whether the balance covers another bet of amount
func (p *Player) CanCover(amount int) bool {
	return amount <= p.Balance
}

// ValidateBet checks that bet is a positive multiple of $10 the player can afford
func (p *Player) ValidateBet(bet int) error {
	switch {
	case bet < MinBet:
		return fmt.Errorf("%w: %s is below the minimum of %s", ErrInvalidBet, FormatCents(bet), FormatCents(MinBet))
	case bet%BetUnit != 0:
		return fmt.Errorf("%w: %s is not a multiple of %s", ErrInvalidBet, FormatCents(bet), FormatCents(BetUnit))
	case bet > p.MaxBet():
		return fmt.Errorf("%w: %s exceeds balance %s", ErrInvalidBet, FormatCents(bet), FormatCents(p.Balance))
	}
	return nil
}

// FormatCents renders an amount in cents as dollars, e.g. "$12.50" or "-$5.00"
func FormatCents(cents int) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

// FormatSignedCents renders a balance change with an explicit sign
func FormatSignedCents(cents int) string {
	if cents > 0 {
		return "+" + FormatCents(cents)
	}
	return FormatCents(cents)
}
