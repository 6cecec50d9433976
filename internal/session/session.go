// Package session seats one player at a blackjack table and runs rounds
// back to back: it owns the shoe between rounds, replaces it at the
// reshuffle threshold, tops the bankroll up when allowed and logs what
// happens.
package session

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/blackjack/internal/cards"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/strategy"
)

// Config holds the table settings for a session. Amounts are in cents.
type Config struct {
	PlayerName string
	BuyIn      int
	Decks      int
	Seed       int64 // 0 seeds from the clock
	DealerRule game.DealerRule
	AutoRebuy  bool
	Tables     *strategy.Tables // nil uses the built-in tables
}

// ShoeFactory builds the shoe for a session; seed is already derived per shoe
type ShoeFactory func(decks int, seed int64) (*cards.Shoe, error)

// Option configures a Session during creation.
type Option func(*Session)

// WithLogger sets the logger; the default discards everything
func WithLogger(logger *log.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithClock sets the clock passed to every round
func WithClock(clock quartz.Clock) Option {
	return func(s *Session) { s.clock = clock }
}

// WithEventHandler forwards every round event to fn
func WithEventHandler(fn func(game.Event)) Option {
	return func(s *Session) { s.handler = fn }
}

// WithShoeFactory replaces how shoes are built (stacked shoes in tests)
func WithShoeFactory(factory ShoeFactory) Option {
	return func(s *Session) { s.newShoe = factory }
}

// Session is a single player's sitting at the table. It is not safe for
// concurrent use.
type Session struct {
	cfg       Config
	logger    *log.Logger
	clock     quartz.Clock
	handler   func(game.Event)
	newShoe   ShoeFactory
	formatter *game.EventFormatter

	seed     int64
	shoeSeed int64
	player   *game.Player
	shoe     *cards.Shoe
	advisor  *strategy.Advisor
	round    *game.Round

	rounds int
	shoes  int
	rebuys int
}

// New creates a session and builds its first shoe
func New(cfg Config, opts ...Option) (*Session, error) {
	if cfg.BuyIn < game.MinBet {
		return nil, fmt.Errorf("%w: buy-in %s is below the minimum bet", game.ErrInvalidBet, game.FormatCents(cfg.BuyIn))
	}

	s := &Session{
		cfg:       cfg,
		formatter: game.NewEventFormatter(game.FormattingOptions{}),
		newShoe:   defaultShoe,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	}
	if s.clock == nil {
		s.clock = quartz.NewReal()
	}

	s.seed = cfg.Seed
	if s.seed == 0 {
		_, s.seed = randutil.NewTimeSeeded()
	}

	tables := cfg.Tables
	if tables == nil {
		var err error
		if tables, err = strategy.DefaultTables(); err != nil {
			return nil, fmt.Errorf("failed to load strategy tables: %w", err)
		}
	}
	s.advisor = strategy.NewAdvisor(tables)
	s.player = game.NewPlayer(cfg.PlayerName, cfg.BuyIn)

	if err := s.replaceShoe(); err != nil {
		return nil, err
	}

	s.logger.Info("Session started",
		"player", cfg.PlayerName,
		"buyIn", game.FormatCents(cfg.BuyIn),
		"decks", cfg.Decks,
		"rule", cfg.DealerRule,
		"seed", s.seed)
	return s, nil
}

func defaultShoe(decks int, seed int64) (*cards.Shoe, error) {
	return cards.NewShoe(decks, randutil.New(seed))
}

func (s *Session) replaceShoe() error {
	seed := randutil.Derive(s.seed, s.shoes)
	shoe, err := s.newShoe(s.cfg.Decks, seed)
	if err != nil {
		return fmt.Errorf("failed to build shoe: %w", err)
	}
	s.shoe = shoe
	s.shoeSeed = seed
	s.shoes++
	s.logger.Debug("New shoe", "decks", shoe.Decks(), "cards", shoe.Remaining(), "reshuffleAt", shoe.ReshuffleAt())
	return nil
}

// Deal starts a new round with bet cents. The shoe is replaced first when
// it has reached the reshuffle threshold or ran dry in the last round.
func (s *Session) Deal(bet int) error {
	if s.round != nil && !s.round.Done() {
		return fmt.Errorf("%w: round %s is still in play", game.ErrIllegalAction, s.round.ID())
	}

	if s.cfg.AutoRebuy && s.player.Balance < game.MinBet {
		s.logger.Info("Rebuying", "balance", game.FormatCents(s.player.Balance), "buyIn", game.FormatCents(s.cfg.BuyIn))
		s.player.Balance = s.cfg.BuyIn
		s.rebuys++
	}

	aborted := s.round != nil && s.round.Phase() == game.PhaseAborted
	if aborted || s.shoe.NeedsReshuffle() {
		s.logger.Info("Reshuffling", "remaining", s.shoe.Remaining(), "count", s.shoe.Count())
		if err := s.replaceShoe(); err != nil {
			return err
		}
	}

	round := game.NewRound(s.shoe, s.player,
		game.WithClock(s.clock),
		game.WithDealerRule(s.cfg.DealerRule),
		game.WithEventHandler(s.onEvent),
	)
	if err := round.Deal(bet); err != nil {
		if round.Phase() == game.PhaseBetting {
			s.logger.Warn("Bet rejected", "bet", game.FormatCents(bet), "error", err)
			return err
		}
		s.round = round
		s.rounds++
		s.logger.Error("Round aborted during the deal", "round", round.ID(), "error", err)
		return err
	}
	s.round = round
	s.rounds++
	return nil
}

// Hit draws a card to the current hand
func (s *Session) Hit() error { return s.Apply(game.Hit) }

// Stand ends play on the current hand
func (s *Session) Stand() error { return s.Apply(game.Stand) }

// Double doubles down on the current hand
func (s *Session) Double() error { return s.Apply(game.Double) }

// Split splits the current pair
func (s *Session) Split() error { return s.Apply(game.Split) }

// Surrender gives up the current hand for half the bet
func (s *Session) Surrender() error { return s.Apply(game.Surrender) }

// Apply performs action a on the current hand of the round in play
func (s *Session) Apply(a game.Action) error {
	if s.round == nil {
		return fmt.Errorf("%w: no round in play", game.ErrIllegalAction)
	}
	err := s.round.Apply(a)
	switch {
	case err == nil:
	case errors.Is(err, game.ErrIllegalAction):
		s.logger.Warn("Illegal action", "action", a, "error", err)
	default:
		s.logger.Error("Round aborted", "round", s.round.ID(), "action", a, "error", err)
	}
	return err
}

// Hint returns the basic-strategy recommendation for the current hand. ok
// is false when no hand is waiting for a decision.
func (s *Session) Hint() (rec strategy.Recommendation, ok bool) {
	if s.round == nil {
		return strategy.Recommendation{}, false
	}
	h, _ := s.round.Current()
	if h == nil {
		return strategy.Recommendation{}, false
	}
	return s.advisor.Advise(h, s.round.Dealer()), true
}

// Decide turns the recommendation for the current hand into an action the
// round will accept. Doubles fall back per the table code, and a split or
// surrender that is no longer allowed falls back to the hard totals table.
func (s *Session) Decide() (game.Action, strategy.Recommendation, error) {
	rec, ok := s.Hint()
	if !ok {
		return 0, rec, fmt.Errorf("%w: no hand awaiting a decision", game.ErrIllegalAction)
	}
	legal := s.round.LegalActions()
	canDouble := slices.Contains(legal, game.Double)

	move := rec.Move.Resolve(canDouble)
	action, mapped := actionFor(move)
	if !mapped || !slices.Contains(legal, action) {
		h, _ := s.round.Current()
		move = s.hardMove(h).Resolve(canDouble)
		action, mapped = actionFor(move)
	}
	if !mapped || !slices.Contains(legal, action) {
		action = game.Stand
	}
	return action, rec, nil
}

// hardMove looks the hand up in the hard totals table alone
func (s *Session) hardMove(h *game.Hand) strategy.Move {
	_, soft := h.Totals()
	move, ok := s.advisor.Tables().Hard.Lookup(strategy.HardRow(soft), s.round.Dealer().Key())
	if !ok {
		return strategy.Stand
	}
	return move
}

func actionFor(m strategy.Move) (game.Action, bool) {
	switch m {
	case strategy.Hit:
		return game.Hit, true
	case strategy.Stand:
		return game.Stand, true
	case strategy.Double:
		return game.Double, true
	case strategy.Split:
		return game.Split, true
	case strategy.Surrender:
		return game.Surrender, true
	default:
		return 0, false
	}
}

// Reshuffle replaces the shoe between rounds
func (s *Session) Reshuffle() error {
	if s.round != nil && !s.round.Done() {
		return fmt.Errorf("%w: cannot reshuffle during a round", game.ErrIllegalAction)
	}
	s.logger.Info("Reshuffling on request", "remaining", s.shoe.Remaining())
	return s.replaceShoe()
}

func (s *Session) onEvent(e game.Event) {
	if line := s.formatter.Format(e); line != "" {
		s.logger.Debug(line)
	}
	if settled, ok := e.(game.RoundSettledEvent); ok {
		net := 0
		for _, r := range settled.Results {
			net += r.Net()
		}
		s.logger.Info("Round settled",
			"round", settled.RoundID(),
			"net", game.FormatSignedCents(net),
			"balance", game.FormatCents(settled.Balance),
			"count", s.shoe.Count())
	}
	if s.handler != nil {
		s.handler(e)
	}
}

// Player returns the seated player
func (s *Session) Player() *game.Player { return s.player }

// Shoe returns the shoe cards are currently drawn from
func (s *Session) Shoe() *cards.Shoe { return s.shoe }

// Round returns the current or most recent round, nil before the first deal
func (s *Session) Round() *game.Round { return s.round }

// Advisor returns the strategy advisor
func (s *Session) Advisor() *strategy.Advisor { return s.advisor }

// Config returns the session settings
func (s *Session) Config() Config { return s.cfg }

// Seed returns the session seed; every shoe derives its own seed from it
func (s *Session) Seed() int64 { return s.seed }

// ShoeSeed returns the seed the current shoe was shuffled with
func (s *Session) ShoeSeed() int64 { return s.shoeSeed }

// RoundsPlayed returns the number of rounds dealt, aborted ones included
func (s *Session) RoundsPlayed() int { return s.rounds }

// ShoesUsed returns the number of shoes built so far
func (s *Session) ShoesUsed() int { return s.shoes }

// Rebuys returns how many times the bankroll was topped up
func (s *Session) Rebuys() int { return s.rebuys }
