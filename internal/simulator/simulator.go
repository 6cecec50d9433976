package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/blackjack/internal/cards"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/session"
	"github.com/lox/blackjack/internal/statistics"
	"github.com/lox/blackjack/internal/strategy"
)

// Config holds configuration for running simulations. Amounts are in cents.
type Config struct {
	Rounds     int
	Workers    int // 0 uses one per CPU
	Bet        int
	BuyIn      int // bankroll per worker, topped up when it runs out
	Decks      int
	Seed       int64 // 0 seeds from the clock
	DealerRule game.DealerRule
	Tables     *strategy.Tables
	Logger     *log.Logger
	Clock      quartz.Clock
}

// Simulator plays many rounds of basic strategy with flat bets
type Simulator struct {
	config  Config
	seed    int64
	elapsed time.Duration
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Logger == nil {
		config.Logger = log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	}
	if config.Clock == nil {
		config.Clock = quartz.NewReal()
	}
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	if config.BuyIn == 0 {
		config.BuyIn = config.Bet * 100
	}
	return &Simulator{config: config}
}

func (s *Simulator) validate() error {
	if s.config.Rounds <= 0 {
		return fmt.Errorf("rounds must be positive, got %d", s.config.Rounds)
	}
	if err := game.NewPlayer("", s.config.BuyIn).ValidateBet(s.config.Bet); err != nil {
		return err
	}
	if s.config.Decks < cards.MinDecks || s.config.Decks > cards.MaxDecks {
		return fmt.Errorf("%w: %d", cards.ErrInvalidDeckCount, s.config.Decks)
	}
	return nil
}

// Run executes the simulation and returns results. Rounds are split across
// workers; each worker owns a session seeded from the simulation seed, so a
// fixed seed and worker count always produce the same statistics.
func (s *Simulator) Run(ctx context.Context) (*statistics.Statistics, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}

	s.seed = s.config.Seed
	if s.seed == 0 {
		_, s.seed = randutil.NewTimeSeeded()
	}

	workers := min(s.config.Workers, s.config.Rounds)
	roundsPerWorker := s.config.Rounds / workers
	remainder := s.config.Rounds % workers

	start := s.config.Clock.Now()
	s.config.Logger.Info("Starting simulation",
		"rounds", s.config.Rounds,
		"workers", workers,
		"bet", game.FormatCents(s.config.Bet),
		"decks", s.config.Decks,
		"rule", s.config.DealerRule,
		"seed", s.seed)

	// Use errgroup to manage workers
	g, ctx := errgroup.WithContext(ctx)
	results := make([]*statistics.Statistics, workers)

	for w := range workers {
		workerRounds := roundsPerWorker
		if w < remainder {
			workerRounds++ // Distribute remainder rounds
		}
		workerSeed := randutil.Derive(s.seed, w)

		g.Go(func() error {
			stats, err := s.runWorker(ctx, w, workerSeed, workerRounds)
			if err != nil {
				return fmt.Errorf("worker %d: %w", w, err)
			}
			results[w] = stats
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := &statistics.Statistics{}
	for _, r := range results {
		stats.Merge(r)
	}

	s.elapsed = s.config.Clock.Since(start)

	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	s.config.Logger.Info("Simulation complete",
		"rounds", stats.Rounds,
		"mean", fmt.Sprintf("%.4f", stats.Mean()),
		"houseEdge", fmt.Sprintf("%.3f%%", stats.HouseEdge()*100),
		"elapsed", s.elapsed)
	return stats, nil
}

// runWorker plays rounds on its own session
func (s *Simulator) runWorker(ctx context.Context, worker int, seed int64, rounds int) (*statistics.Statistics, error) {
	logger := s.config.Logger.WithPrefix(fmt.Sprintf("worker-%d", worker))
	if s.config.Logger.GetLevel() > log.DebugLevel {
		// per-round session logs only at debug
		logger.SetLevel(log.WarnLevel)
	}

	sess, err := session.New(session.Config{
		PlayerName: fmt.Sprintf("sim-%d", worker),
		BuyIn:      s.config.BuyIn,
		Decks:      s.config.Decks,
		Seed:       seed,
		DealerRule: s.config.DealerRule,
		AutoRebuy:  true,
		Tables:     s.config.Tables,
	}, session.WithLogger(logger), session.WithClock(s.config.Clock))
	if err != nil {
		return nil, err
	}

	stats := &statistics.Statistics{}
	for range rounds {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		result, err := s.playRound(sess)
		if err != nil {
			return nil, err
		}
		stats.Add(result)
	}

	stats.ShoesUsed = sess.ShoesUsed()
	stats.Rebuys = sess.Rebuys()
	logger.Debug("Worker finished", "rounds", rounds, "net", game.FormatSignedCents(stats.NetCents))
	return stats, nil
}

// playRound deals one round and follows the advisor until it settles
func (s *Simulator) playRound(sess *session.Session) (statistics.RoundResult, error) {
	rebuys := sess.Rebuys()
	before := sess.Player().Balance

	// flat bets, short only when the bankroll cannot cover the full stake
	bet := s.config.Bet
	if before >= game.MinBet && before < bet {
		bet = before - before%game.BetUnit
	}

	var actions []game.Action
	err := sess.Deal(bet)
	if err != nil && !errors.Is(err, cards.ErrShoeExhausted) {
		return statistics.RoundResult{}, err
	}
	if sess.Rebuys() > rebuys {
		before = s.config.BuyIn
	}

	round := sess.Round()
	for !round.Done() {
		action, _, err := sess.Decide()
		if err != nil {
			return statistics.RoundResult{}, err
		}
		actions = append(actions, action)
		if err := sess.Apply(action); err != nil && !errors.Is(err, cards.ErrShoeExhausted) {
			return statistics.RoundResult{}, err
		}
	}

	net := sess.Player().Balance - before
	result := statistics.RoundResult{
		NetUnits: float64(net) / float64(s.config.Bet),
		NetCents: net,
		Wagered:  round.Wagered(),
		Seed:     sess.ShoeSeed(),
		Actions:  actions,
		Aborted:  round.Phase() == game.PhaseAborted,
	}
	for _, r := range round.Results() {
		result.Outcomes = append(result.Outcomes, r.Outcome)
	}
	return result, nil
}

// Seed returns the seed used by the last run
func (s *Simulator) Seed() int64 {
	return s.seed
}

// Elapsed returns how long the last run took
func (s *Simulator) Elapsed() time.Duration {
	return s.elapsed
}

// Workers returns the number of workers a run will use at most
func (s *Simulator) Workers() int {
	return s.config.Workers
}
