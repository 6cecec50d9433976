package game

import "fmt"

// Outcome is the settled result of one hand
type Outcome string

const (
	OutcomeBlackjack Outcome = "Blackjack"
	OutcomeWin       Outcome = "Win"
	OutcomePush      Outcome = "Push"
	OutcomeLose      Outcome = "Lose"
	OutcomeBust      Outcome = "Bust"
	OutcomeSurrender Outcome = "Surrender"
)

// IsWin returns true if this outcome pays more than the bet
func (o Outcome) IsWin() bool {
	return o == OutcomeWin || o == OutcomeBlackjack
}

// Result is the settlement of one player hand. Amounts are in cents.
type Result struct {
	HandIndex int
	Outcome   Outcome
	Bet       int
	// Payout is credited at settlement; it includes the returned stake
	Payout int
	// Refund was credited at surrender time
	Refund int
	// PlayerTotal and DealerTotal are the best totals compared at settlement
	PlayerTotal int
	DealerTotal int
}

// Net returns the balance change caused by the hand
func (r Result) Net() int {
	return r.Payout + r.Refund - r.Bet
}

// String returns the display label for the hand, e.g. "Win: paid $20.00 (+$10.00)"
func (r Result) String() string {
	switch r.Outcome {
	case OutcomeSurrender:
		return fmt.Sprintf("%s: refunded %s (%s)", r.Outcome, FormatCents(r.Refund), FormatSignedCents(r.Net()))
	case OutcomeBust, OutcomeLose:
		return fmt.Sprintf("%s (%s)", r.Outcome, FormatSignedCents(r.Net()))
	default:
		return fmt.Sprintf("%s: paid %s (%s)", r.Outcome, FormatCents(r.Payout), FormatSignedCents(r.Net()))
	}
}

// settleHand pays a terminal hand against the dealer's final hand
func settleHand(index int, h *Hand, dealer *Hand) Result {
	_, player := h.Totals()
	dealerHard, dealerSoft := dealer.Totals()
	r := Result{
		HandIndex:   index,
		Bet:         h.Bet,
		PlayerTotal: player,
		DealerTotal: dealerSoft,
	}

	switch h.State {
	case StateBlackjack:
		r.Outcome = OutcomeBlackjack
		r.Payout = h.Bet * 5 / 2
	case StateBust:
		r.Outcome = OutcomeBust
	case StateSurrender:
		// half the bet was returned when the hand surrendered
		r.Outcome = OutcomeSurrender
		r.Refund = h.Bet / 2
	case StateStand:
		switch {
		case dealerHard > 21 || player > dealerSoft:
			r.Outcome = OutcomeWin
			r.Payout = h.Bet * 2
		case player == dealerSoft:
			r.Outcome = OutcomePush
			r.Payout = h.Bet
		default:
			r.Outcome = OutcomeLose
		}
	}
	return r
}
