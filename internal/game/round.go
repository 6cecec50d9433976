package game

import (
	"fmt"

	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/lox/blackjack/internal/cards"
)

// Phase is where a round is in its lifecycle
type Phase int

const (
	PhaseBetting Phase = iota
	PhaseDealing
	PhasePlayerTurn
	PhaseDealerTurn
	PhaseSettlement
	PhaseComplete
	// PhaseAborted is entered when the shoe runs out mid-round
	PhaseAborted
)

// String returns the phase name
func (p Phase) String() string {
	switch p {
	case PhaseBetting:
		return "Betting"
	case PhaseDealing:
		return "Dealing"
	case PhasePlayerTurn:
		return "PlayerTurn"
	case PhaseDealerTurn:
		return "DealerTurn"
	case PhaseSettlement:
		return "Settlement"
	case PhaseComplete:
		return "Complete"
	case PhaseAborted:
		return "Aborted"
	default:
		return "Unknown"
	}
}

// DealerRule decides when the dealer draws another card
type DealerRule int

const (
	// HitSoft17 draws while hard < 17 and soft < 18, so the dealer hits A,6
	HitSoft17 DealerRule = iota
	// StandSoft17 draws while soft < 17
	StandSoft17
)

// ShouldHit reports whether the dealer draws on the given totals
func (d DealerRule) ShouldHit(hard, soft int) bool {
	if d == StandSoft17 {
		return soft < 17
	}
	return hard < 17 && soft < 18
}

func (d DealerRule) String() string {
	if d == StandSoft17 {
		return "dealer stands on soft 17"
	}
	return "dealer hits soft 17"
}

// RoundOption configures a Round during creation.
type RoundOption func(*Round)

// WithClock sets the clock used to timestamp events
func WithClock(clock quartz.Clock) RoundOption {
	return func(r *Round) { r.clock = clock }
}

// WithDealerRule sets how the dealer plays its hand
func WithDealerRule(rule DealerRule) RoundOption {
	return func(r *Round) { r.rule = rule }
}

// WithEventHandler registers a function called synchronously for every event
func WithEventHandler(fn func(Event)) RoundOption {
	return func(r *Round) { r.handler = fn }
}

// WithRoundID overrides the generated round id
func WithRoundID(id string) RoundOption {
	return func(r *Round) { r.id = id }
}

// Round is one deal of blackjack: a bet, the player's hands, the dealer's
// hand and settlement. A round is single-use; every action runs to
// completion before returning.
type Round struct {
	id      string
	shoe    *cards.Shoe
	player  *Player
	clock   quartz.Clock
	rule    DealerRule
	handler func(Event)

	phase   Phase
	hands   []*Hand
	dealer  *Hand
	current int
	results []Result
	events  []Event
	err     error
}

// NewRound creates a round in the betting phase drawing from shoe
func NewRound(shoe *cards.Shoe, player *Player, opts ...RoundOption) *Round {
	if shoe == nil {
		panic("shoe is required for a round")
	}
	if player == nil {
		panic("player is required for a round")
	}

	r := &Round{
		shoe:   shoe,
		player: player,
		rule:   HitSoft17,
		phase:  PhaseBetting,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.clock == nil {
		r.clock = quartz.NewReal()
	}
	if r.id == "" {
		r.id = uuid.NewString()
	}
	return r
}

// Deal takes the bet and deals two cards each, alternating player and
// dealer. A natural is marked Blackjack immediately; if no hand is left to
// play the round runs straight through to settlement.
func (r *Round) Deal(bet int) error {
	if r.phase != PhaseBetting {
		return fmt.Errorf("%w: cannot deal in phase %s", ErrIllegalAction, r.phase)
	}
	if err := r.player.ValidateBet(bet); err != nil {
		return err
	}

	r.player.Balance -= bet
	r.phase = PhaseDealing
	r.hands = []*Hand{NewHand(bet)}
	r.dealer = NewDealerHand()
	r.emit(RoundStartEvent{eventBase: r.base(), Player: r.player.Name, Bet: bet, Balance: r.player.Balance})

	hand := r.hands[0]
	deals := []struct {
		hand     *Hand
		index    int
		faceDown bool
	}{
		{hand, 0, false},
		{r.dealer, DealerIndex, false},
		{hand, 0, false},
		{r.dealer, DealerIndex, true},
	}
	for _, d := range deals {
		if err := r.draw(d.hand, d.index, d.faceDown); err != nil {
			return err
		}
	}

	r.phase = PhasePlayerTurn
	if hand.IsBlackjack() {
		hand.State = StateBlackjack
		r.finished(0)
	}
	return r.advance()
}

// Hit draws one card into the current hand
func (r *Round) Hit() error {
	h, err := r.check(Hit)
	if err != nil {
		return err
	}
	if err := r.draw(h, r.current, false); err != nil {
		return err
	}
	if h.IsBust() {
		h.State = StateBust
	}
	return r.acted(Hit, h)
}

// Stand ends play on the current hand
func (r *Round) Stand() error {
	h, err := r.check(Stand)
	if err != nil {
		return err
	}
	h.State = StateStand
	return r.acted(Stand, h)
}

// Double doubles the bet on a two-card hand, draws exactly one card and
// stands (or busts)
func (r *Round) Double() error {
	h, err := r.check(Double)
	if err != nil {
		return err
	}
	r.player.Balance -= h.Bet
	h.Bet *= 2
	if err := r.draw(h, r.current, false); err != nil {
		return err
	}
	if h.IsBust() {
		h.State = StateBust
	} else {
		h.State = StateStand
	}
	return r.acted(Double, h)
}

// Split moves the second card of a pair into a new hand carrying an equal
// bet, then draws a replacement card into each hand
func (r *Round) Split() error {
	h, err := r.check(Split)
	if err != nil {
		return err
	}
	r.player.Balance -= h.Bet

	sibling := &Hand{Bet: h.Bet, split: true, Cards: []cards.Card{h.Cards[1]}}
	h.Cards = h.Cards[:1]
	h.split = true

	next := r.current + 1
	r.hands = append(r.hands, nil)
	copy(r.hands[next+1:], r.hands[next:])
	r.hands[next] = sibling

	if err := r.draw(h, r.current, false); err != nil {
		return err
	}
	if err := r.draw(sibling, next, false); err != nil {
		return err
	}
	return r.acted(Split, h)
}

// Surrender gives up a two-card hand and returns half its bet immediately
func (r *Round) Surrender() error {
	h, err := r.check(Surrender)
	if err != nil {
		return err
	}
	h.State = StateSurrender
	r.player.Balance += h.Bet / 2
	return r.acted(Surrender, h)
}

// Apply performs action a on the current hand
func (r *Round) Apply(a Action) error {
	switch a {
	case Hit:
		return r.Hit()
	case Stand:
		return r.Stand()
	case Double:
		return r.Double()
	case Split:
		return r.Split()
	case Surrender:
		return r.Surrender()
	default:
		return fmt.Errorf("%w: unknown action %d", ErrIllegalAction, int(a))
	}
}

// LegalActions returns the actions the current hand may take, in display order
func (r *Round) LegalActions() []Action {
	var legal []Action
	for _, a := range Actions {
		if _, err := r.check(a); err == nil {
			legal = append(legal, a)
		}
	}
	return legal
}

// check validates action a against the current hand without changing anything
func (r *Round) check(a Action) (*Hand, error) {
	if r.phase != PhasePlayerTurn {
		return nil, illegal(a, "round is in phase "+r.phase.String())
	}
	h := r.hands[r.current]
	if h.State != StateActive {
		return nil, illegal(a, "hand is "+h.State.String())
	}

	switch a {
	case Hit:
		if hard, _ := h.Totals(); hard >= 21 {
			return nil, illegal(a, fmt.Sprintf("hand total is %d", hard))
		}
	case Stand:
	case Double:
		if len(h.Cards) != 2 {
			return nil, illegal(a, "hand must have exactly two cards")
		}
		if !r.player.CanCover(h.Bet) {
			return nil, fmt.Errorf("cannot %s: %w", a, ErrInsufficientFunds)
		}
	case Split:
		if !h.IsPair() {
			return nil, illegal(a, "hand is not a pair")
		}
		if h.split {
			return nil, illegal(a, "hand has already been split")
		}
		if !r.player.CanCover(h.Bet) {
			return nil, fmt.Errorf("cannot %s: %w", a, ErrInsufficientFunds)
		}
	case Surrender:
		if len(h.Cards) != 2 {
			return nil, illegal(a, "hand must have exactly two cards")
		}
	default:
		return nil, fmt.Errorf("%w: unknown action %d", ErrIllegalAction, int(a))
	}
	return h, nil
}

// acted publishes the action and moves play along
func (r *Round) acted(a Action, h *Hand) error {
	r.emit(PlayerActionEvent{
		eventBase: r.base(),
		HandIndex: r.current,
		Action:    a,
		Hand:      h.clone(),
		Balance:   r.player.Balance,
	})
	if h.State.IsTerminal() {
		r.finished(r.current)
	}
	return r.advance()
}

// advance moves control to the next active hand, or plays the dealer and
// settles once none remain
func (r *Round) advance() error {
	for i := r.current; i < len(r.hands); i++ {
		if r.hands[i].State == StateActive {
			r.current = i
			return nil
		}
	}
	r.current = len(r.hands) - 1
	if err := r.playDealer(); err != nil {
		return err
	}
	r.settle()
	return nil
}

// playDealer reveals the hole card and draws per the dealer rule. The
// dealer only draws when a standing hand is left to beat.
func (r *Round) playDealer() error {
	r.phase = PhaseDealerTurn
	r.dealer.Reveal()
	r.emit(DealerRevealEvent{eventBase: r.base(), HoleCard: r.dealer.Cards[1], Hand: r.dealer.clone()})

	contested := false
	for _, h := range r.hands {
		if h.State == StateStand {
			contested = true
			break
		}
	}
	if !contested {
		return nil
	}

	for r.rule.ShouldHit(r.dealer.Totals()) {
		if err := r.draw(r.dealer, DealerIndex, false); err != nil {
			return err
		}
	}
	return nil
}

func (r *Round) settle() {
	r.phase = PhaseSettlement
	r.results = make([]Result, len(r.hands))
	for i, h := range r.hands {
		res := settleHand(i, h, r.dealer)
		r.player.Balance += res.Payout
		r.results[i] = res
	}
	r.phase = PhaseComplete
	r.emit(RoundSettledEvent{
		eventBase: r.base(),
		Dealer:    r.dealer.clone(),
		Results:   r.Results(),
		Balance:   r.player.Balance,
	})
}

// draw deals one card into h, aborting the round if the shoe is empty
func (r *Round) draw(h *Hand, index int, faceDown bool) error {
	card, err := r.shoe.Draw()
	if err != nil {
		return r.abort(err)
	}
	h.AddCard(card)
	r.emit(CardDealtEvent{eventBase: r.base(), HandIndex: index, Card: card, FaceDown: faceDown})
	return nil
}

func (r *Round) abort(err error) error {
	r.err = err
	r.phase = PhaseAborted
	r.emit(RoundAbortedEvent{eventBase: r.base(), Err: err})
	return fmt.Errorf("round %s aborted: %w", r.id, err)
}

func (r *Round) finished(index int) {
	h := r.hands[index]
	r.emit(HandFinishedEvent{eventBase: r.base(), HandIndex: index, State: h.State, Hand: h.clone()})
}

func (r *Round) base() eventBase {
	return eventBase{roundID: r.id, timestamp: r.clock.Now()}
}

func (r *Round) emit(e Event) {
	r.events = append(r.events, e)
	if r.handler != nil {
		r.handler(e)
	}
}

// ID returns the round identifier
func (r *Round) ID() string { return r.id }

// Phase returns the current phase
func (r *Round) Phase() Phase { return r.phase }

// Rule returns the dealer rule in force
func (r *Round) Rule() DealerRule { return r.rule }

// Player returns the seated player
func (r *Round) Player() *Player { return r.player }

// Hands returns the player's hands in play order
func (r *Round) Hands() []*Hand {
	return append([]*Hand(nil), r.hands...)
}

// Dealer returns the dealer's hand, nil before the deal
func (r *Round) Dealer() *Hand { return r.dealer }

// Current returns the hand awaiting a decision and its index, or nil and -1
// outside the player turn
func (r *Round) Current() (*Hand, int) {
	if r.phase != PhasePlayerTurn {
		return nil, -1
	}
	return r.hands[r.current], r.current
}

// Results returns the per-hand settlement once the round is complete
func (r *Round) Results() []Result {
	return append([]Result(nil), r.results...)
}

// Events returns every event emitted so far
func (r *Round) Events() []Event {
	return append([]Event(nil), r.events...)
}

// Err returns the error that aborted the round, if any
func (r *Round) Err() error { return r.err }

// Done reports whether the round has settled or aborted
func (r *Round) Done() bool {
	return r.phase == PhaseComplete || r.phase == PhaseAborted
}

// Wagered returns the total amount bet across every hand
func (r *Round) Wagered() int {
	total := 0
	for _, h := range r.hands {
		total += h.Bet
	}
	return total
}
