package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/lox/blackjack/internal/game"
)

// RoundResult represents the outcome of a single blackjack round
type RoundResult struct {
	NetUnits float64        // Net result in initial bet units
	NetCents int            // Net result in cents
	Wagered  int            // Total cents bet including doubles and splits
	Seed     int64          // Seed of the shoe the round was dealt from (for replay)
	Outcomes []game.Outcome // One per hand, empty when aborted
	Actions  []game.Action  // Every action taken, in order
	Aborted  bool           // Shoe ran out mid-round
}

// Statistics tracks blackjack simulation results
type Statistics struct {
	Rounds    int
	SumUnits  float64
	SumUnits2 float64   // Sum of squares for variance calculation
	Values    []float64 // Store all values for median/percentile calculation

	// Round-level results by sign of the net
	Wins       int
	Losses     int
	Pushes     int
	WinUnits   float64 // Units from winning rounds
	LossUnits  float64 // Units from losing rounds (negative)
	NetCents   int
	Wagered    int
	Aborted    int
	Rebuys     int // Times the bankroll was topped back up
	ShoesUsed  int
	HandsTotal int // Hands settled, split hands counted separately

	Outcomes map[game.Outcome]int
	Actions  map[game.Action]int
}

// Mean returns the arithmetic mean of all results in bet units per round
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.SumUnits / float64(s.Rounds)
}

// Variance returns the sample variance of all results
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumUnits2 - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
}

// StdDev returns the sample standard deviation of all results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	se := s.StdError()
	margin := 1.96 * se // 95% confidence
	return mean - margin, mean + margin
}

// HouseEdge returns the fraction of the total wagered lost to the house
func (s *Statistics) HouseEdge() float64 {
	if s.Wagered == 0 {
		return 0
	}
	return -float64(s.NetCents) / float64(s.Wagered)
}

// Add incorporates a new round result into the statistics
func (s *Statistics) Add(result RoundResult) {
	net := result.NetUnits
	s.Rounds++
	s.SumUnits += net
	s.SumUnits2 += net * net
	s.Values = append(s.Values, net)
	s.NetCents += result.NetCents
	s.Wagered += result.Wagered

	switch {
	case net > 0:
		s.Wins++
		s.WinUnits += net
	case net < 0:
		s.Losses++
		s.LossUnits += net
	default:
		s.Pushes++
	}

	if result.Aborted {
		s.Aborted++
	}

	if s.Outcomes == nil {
		s.Outcomes = make(map[game.Outcome]int)
	}
	for _, o := range result.Outcomes {
		s.Outcomes[o]++
		s.HandsTotal++
	}

	if s.Actions == nil {
		s.Actions = make(map[game.Action]int)
	}
	for _, a := range result.Actions {
		s.Actions[a]++
	}
}

// Merge folds other into s. Values keep their order: s first, then other.
func (s *Statistics) Merge(other *Statistics) {
	s.Rounds += other.Rounds
	s.SumUnits += other.SumUnits
	s.SumUnits2 += other.SumUnits2
	s.Values = append(s.Values, other.Values...)
	s.Wins += other.Wins
	s.Losses += other.Losses
	s.Pushes += other.Pushes
	s.WinUnits += other.WinUnits
	s.LossUnits += other.LossUnits
	s.NetCents += other.NetCents
	s.Wagered += other.Wagered
	s.Aborted += other.Aborted
	s.Rebuys += other.Rebuys
	s.ShoesUsed += other.ShoesUsed
	s.HandsTotal += other.HandsTotal

	if len(other.Outcomes) > 0 && s.Outcomes == nil {
		s.Outcomes = make(map[game.Outcome]int)
	}
	for o, n := range other.Outcomes {
		s.Outcomes[o] += n
	}
	if len(other.Actions) > 0 && s.Actions == nil {
		s.Actions = make(map[game.Action]int)
	}
	for a, n := range other.Actions {
		s.Actions[a] += n
	}
}

// OutcomeRate returns the share of settled hands with outcome o
func (s *Statistics) OutcomeRate(o game.Outcome) float64 {
	if s.HandsTotal == 0 {
		return 0
	}
	return float64(s.Outcomes[o]) / float64(s.HandsTotal)
}

// Median returns the median value of all results
func (s *Statistics) Median() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// IsLedgerBalanced checks that winning and losing rounds add up to the total
func (s *Statistics) IsLedgerBalanced() bool {
	return math.Abs(s.SumUnits-s.WinUnits-s.LossUnits) <= 1e-6
}

// Validate performs comprehensive validation of statistics data
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: SumUnits=%.6f, WinUnits=%.6f, LossUnits=%.6f",
			s.SumUnits, s.WinUnits, s.LossUnits)
	}

	if s.Rounds <= 0 {
		return fmt.Errorf("invalid rounds count: %d", s.Rounds)
	}

	if len(s.Values) != s.Rounds {
		return fmt.Errorf("values array length (%d) does not match rounds count (%d)",
			len(s.Values), s.Rounds)
	}

	if total := s.Wins + s.Losses + s.Pushes; total != s.Rounds {
		return fmt.Errorf("wins, losses and pushes (%d) do not match rounds count (%d)", total, s.Rounds)
	}

	// every completed round settles at least one hand
	if completed := s.Rounds - s.Aborted; s.HandsTotal < completed {
		return fmt.Errorf("settled hands (%d) fewer than completed rounds (%d)", s.HandsTotal, completed)
	}

	return nil
}
