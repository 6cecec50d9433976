package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lox/blackjack/internal/cards"
	"github.com/lox/blackjack/internal/game"
)

var helpLines = []string{
	"Commands:",
	"  bet <dollars>  deal a round with a new bet (Enter alone repeats the last bet)",
	"  hit, stand, double, split, surrender  (h, s, d, p, r)",
	"  hint           show the basic-strategy move for the current hand",
	"  count          show the running and true count",
	"  shuffle        start a fresh shoe between rounds",
	"  help           show this list",
	"  quit           leave the table",
}

// ShowWelcome writes the opening lines of the table log
func (m *TUIModel) ShowWelcome() {
	m.AddBoldLogEntry("=== Blackjack ===")
	if m.session != nil {
		cfg := m.session.Config()
		m.AddLogEntry(fmt.Sprintf("%s sits down with %s • %d decks • dealer %s",
			cfg.PlayerName, game.FormatCents(cfg.BuyIn), cfg.Decks, dealerRuleLabel(cfg.DealerRule)))
	}
	m.AddLogEntry("")
	for _, line := range helpLines {
		m.AddLogEntry(line)
	}
	m.AddLogEntry("")
}

// processAction handles one line of user input and reports whether to quit
func (m *TUIModel) processAction(input string) bool {
	parts := strings.Fields(strings.ToLower(input))

	var action string
	var args []string
	if len(parts) > 0 {
		action = parts[0]
		args = parts[1:]
	}

	m.logger.Debug("Command", "action", action, "args", args)

	switch action {
	case "quit", "exit", "/quit":
		return true
	case "help", "/help":
		for _, line := range helpLines {
			m.AddLogEntry(line)
		}
	case "":
		// Enter between rounds deals again at the same stake
		if !m.isPlayersTurn() {
			m.deal(m.lastBet)
		}
	case "bet", "b", "deal":
		if len(args) == 0 {
			m.deal(m.lastBet)
			return false
		}
		bet, err := parseBet(args[0])
		if err != nil {
			m.AddLogEntry(ErrorStyle.Render("Error: " + err.Error()))
			return false
		}
		m.deal(bet)
	case "hint", "?":
		m.showHint()
	case "count":
		m.showCount()
	case "shuffle":
		if err := m.requireSession(); err != nil {
			return false
		}
		if err := m.session.Reshuffle(); err != nil {
			m.AddLogEntry(ErrorStyle.Render("Error: " + err.Error()))
			return false
		}
		m.AddLogEntry(fmt.Sprintf("New shoe: %d cards", m.session.Shoe().Remaining()))
	default:
		a, err := game.ParseAction(action)
		if err != nil {
			m.AddLogEntry(fmt.Sprintf("Unknown command: %s (type 'help')", action))
			return false
		}
		m.act(a)
	}
	return false
}

// parseBet converts a dollar amount such as "25" or "$25" into cents
func parseBet(s string) (int, error) {
	dollars, err := strconv.Atoi(strings.TrimPrefix(s, "$"))
	if err != nil {
		return 0, fmt.Errorf("invalid amount: %s", s)
	}
	return dollars * 100, nil
}

func (m *TUIModel) requireSession() error {
	if m.session == nil {
		m.AddLogEntry(ErrorStyle.Render("Error: no table"))
		return errors.New("no session attached")
	}
	return nil
}

func (m *TUIModel) deal(bet int) {
	if err := m.requireSession(); err != nil {
		return
	}
	if !m.session.Config().AutoRebuy && m.session.Player().Balance < game.MinBet {
		m.AddLogEntry(ErrorStyle.Render("You are out of money. Type 'quit' to leave the table."))
		return
	}

	shoes := m.session.ShoesUsed()
	err := m.session.Deal(bet)
	if m.session.ShoesUsed() > shoes {
		m.AddLogEntry(InfoStyle.Render("The dealer shuffles a new shoe"))
	}
	switch {
	case err == nil:
		m.lastBet = bet
	case errors.Is(err, cards.ErrShoeExhausted):
		m.lastBet = bet
		m.AddLogEntry(WarningStyle.Render("The shoe ran out; the round is void and a new shoe comes in"))
	default:
		m.AddLogEntry(ErrorStyle.Render("Error: " + err.Error()))
	}
}

func (m *TUIModel) act(a game.Action) {
	if err := m.requireSession(); err != nil {
		return
	}
	err := m.session.Apply(a)
	switch {
	case err == nil:
	case errors.Is(err, cards.ErrShoeExhausted):
		m.AddLogEntry(WarningStyle.Render("The shoe ran out; the round is void and a new shoe comes in"))
	default:
		m.AddLogEntry(ErrorStyle.Render("Error: " + err.Error()))
	}
}

func (m *TUIModel) showHint() {
	if err := m.requireSession(); err != nil {
		return
	}
	rec, ok := m.session.Hint()
	if !ok {
		m.AddLogEntry("No hand to advise on")
		return
	}
	if rec.Fallback {
		m.AddLogEntry(HintStyle.Render(fmt.Sprintf("Hint: %s (no table entry for %s vs %s)", rec.Move, rec.Row, rec.Column)))
		return
	}
	m.AddLogEntry(HintStyle.Render(fmt.Sprintf("Hint: %s (%s, %s vs %s)", rec.Move.Description(), rec.Source, rec.Row, rec.Column)))
}

func (m *TUIModel) showCount() {
	if err := m.requireSession(); err != nil {
		return
	}
	shoe := m.session.Shoe()
	m.AddLogEntry(fmt.Sprintf("Running count %+d, true count %+.1f, %d cards left",
		shoe.Count(), shoe.TrueCount(), shoe.Remaining()))
}

// HandleEvent writes a round event to the table log. Pass it to the session
// with session.WithEventHandler.
func (m *TUIModel) HandleEvent(e game.Event) {
	line := m.formatter.Format(e)
	if line != "" {
		if _, ok := e.(game.RoundStartEvent); ok {
			m.AddLogEntry("")
			m.AddBoldLogEntry(line)
		} else {
			for _, l := range strings.Split(line, "\n") {
				m.AddLogEntry(l)
			}
		}
	}

	if settled, ok := e.(game.RoundSettledEvent); ok {
		if settled.Balance < game.MinBet {
			m.AddLogEntry(WarningStyle.Render("Your balance is below the minimum bet"))
		}
	}

	m.notifyEventCallback(e.EventType().String())
}
