package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/cards"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/session"
)

// Options controls what the table view shows
type Options struct {
	ShowCount bool // running and true count in the sidebar
	ShowHints bool // basic-strategy hint under the current hand
	TestMode  bool // capture log entries instead of rendering them
}

// TUIModel represents the Bubble Tea model for the blackjack table. Commands
// run to completion inside Update, so the session is only ever touched from
// the Bubble Tea goroutine.
type TUIModel struct {
	session   *session.Session
	logger    *log.Logger
	opts      Options
	formatter *game.EventFormatter

	// UI components
	logViewport viewport.Model
	actionInput textinput.Model

	// State
	gameLog     []string
	quitting    bool
	focusedPane int // 0 = log, 1 = input
	lastBet     int // cents, dealt again when Enter is pressed between rounds

	// Dimensions
	width       int
	height      int
	initialized bool // Track if viewport has been properly sized

	// Test mode
	capturedLog   []string               // For test assertions
	eventCallback func(eventType string) // Callback for test event synchronization
}

// NewTUIModel creates a new TUI model. Attach a session before running it.
func NewTUIModel(logger *log.Logger, opts Options) *TUIModel {
	// Create viewport for game log with minimal initial size
	// Will be properly sized when WindowSizeMsg arrives
	vp := viewport.New(10, 5)
	vp.SetContent("")

	// Create textinput for command input
	ti := textinput.New()
	ti.Placeholder = "bet 10, hit, stand, double, split, surrender, hint, help"
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 100
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "> "

	return &TUIModel{
		logger:      logger.WithPrefix("tui"),
		opts:        opts,
		formatter:   game.NewEventFormatter(game.FormattingOptions{ShowCards: true}),
		logViewport: vp,
		actionInput: ti,
		gameLog:     []string{},
		focusedPane: 1, // Start with input focused
		lastBet:     game.MinBet,
		capturedLog: []string{},
	}
}

// Attach sets the session the table plays. The session should be created
// with session.WithEventHandler(m.HandleEvent) so round events reach the log.
func (m *TUIModel) Attach(s *session.Session) {
	m.session = s
}

// Init initializes the TUI model
func (m *TUIModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages in the TUI
func (m *TUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.logger.Debug("Updating dimensions", "width", msg.Width, "height", msg.Height)
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case "tab":
			// Switch focus between log and input
			if m.focusedPane == 0 {
				m.focusedPane = 1
				m.actionInput.Focus()
			} else {
				m.focusedPane = 0
				m.actionInput.Blur()
			}
		case "enter":
			if m.focusedPane == 1 {
				input := strings.TrimSpace(m.actionInput.Value())
				m.actionInput.SetValue("")
				if m.processAction(input) {
					m.quitting = true
					return m, tea.Sequence(tea.ClearScreen, tea.Quit)
				}
			}
		case "up", "k":
			if m.focusedPane == 0 {
				m.logViewport.ScrollUp(1)
			}
		case "down", "j":
			if m.focusedPane == 0 {
				m.logViewport.ScrollDown(1)
			}
		case "pgup", "b":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageUp()
			}
		case "pgdown", "f":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageDown()
			}
		case "home", "g":
			if m.focusedPane == 0 {
				m.logViewport.GotoTop()
			}
		case "end", "G":
			if m.focusedPane == 0 {
				m.logViewport.GotoBottom()
			}
		}
	}

	var cmd tea.Cmd

	// Only update input if it's focused
	if m.focusedPane == 1 {
		m.actionInput, cmd = m.actionInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	// Always update viewport (for scrolling)
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// View renders the TUI
func (m *TUIModel) View() string {
	if m.quitting {
		return ""
	}

	// Don't render until we have valid dimensions
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	// Action pane (bottom, full width)
	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent)

	actionStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(max(m.width-2, 1)).
		Height(max(actionHeight, 1))
	if m.focusedPane == 1 {
		actionStyle = actionStyle.BorderForeground(lipgloss.Color("#04B575"))
	}
	actionPane := actionStyle.Render(actionContent)

	// Sidebar pane (right side of log pane, same height as log pane)
	sidebarContent := m.renderSidebarPane()
	sidebarWidth := max(lipgloss.Width(sidebarContent), 25)
	paneHeight := max(m.height-actionHeight-4, 1) // Account for border x 2 and action pane

	sidebarPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(sidebarWidth).
		Height(paneHeight).
		Render(sidebarContent)

	// Log pane (top, fills height minus action pane)
	m.logViewport.SetContent(m.renderLogPane())
	m.logViewport.Width = max(m.width-sidebarWidth-4, 1)
	m.logViewport.Height = paneHeight

	// On first proper sizing, jump to the latest entries
	if !m.initialized && m.logViewport.Width > 1 && m.logViewport.Height > 1 {
		m.logViewport.GotoBottom()
		m.initialized = true
	}

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(m.logViewport.Width).
		Height(paneHeight)
	if m.focusedPane == 0 {
		logStyle = logStyle.BorderForeground(lipgloss.Color("#04B575"))
	}
	logPane := logStyle.Render(m.logViewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Top, topRow, actionPane)
}

// renderLogPane renders the game log pane content
func (m *TUIModel) renderLogPane() string {
	return strings.Join(m.gameLog, "\n")
}

// renderSidebarPane creates the sidebar content: bankroll, shoe and count
func (m *TUIModel) renderSidebarPane() string {
	if m.session == nil {
		return InfoStyle.Render("No table")
	}

	var content strings.Builder
	player := m.session.Player()
	shoe := m.session.Shoe()

	content.WriteString(HeaderStyle.Render(" " + player.Name + " "))
	content.WriteString("\n\n")
	content.WriteString(WarningStyle.Render("Balance: " + game.FormatCents(player.Balance)))
	content.WriteString("\n")
	content.WriteString(fmt.Sprintf("Bet: %s\n", game.FormatCents(m.lastBet)))
	content.WriteString(fmt.Sprintf("Rounds: %d\n", m.session.RoundsPlayed()))
	content.WriteString("\n")

	content.WriteString(InfoStyle.Render("Shoe:"))
	content.WriteString("\n")
	content.WriteString(fmt.Sprintf("  Decks: %d\n", shoe.Decks()))
	content.WriteString(fmt.Sprintf("  Cards left: %d\n", shoe.Remaining()))
	content.WriteString(fmt.Sprintf("  Until shuffle: %d\n", shoe.UntilReshuffle()))
	content.WriteString(fmt.Sprintf("  Dealer: %s\n", dealerRuleLabel(m.session.Config().DealerRule)))

	if m.opts.ShowCount {
		content.WriteString("\n")
		content.WriteString(InfoStyle.Render("Hi-Lo:"))
		content.WriteString("\n")
		content.WriteString(fmt.Sprintf("  Running: %+d\n", shoe.Count()))
		content.WriteString(fmt.Sprintf("  True: %+.1f\n", shoe.TrueCount()))
	}

	return content.String()
}

func dealerRuleLabel(rule game.DealerRule) string {
	if rule == game.StandSoft17 {
		return "stands soft 17"
	}
	return "hits soft 17"
}

// renderActionPane renders the table, the legal actions and the input
func (m *TUIModel) renderActionPane() string {
	var content strings.Builder

	round := m.currentRound()
	if round != nil {
		content.WriteString(m.renderTable(round))
		content.WriteString("\n")
	}

	if m.isPlayersTurn() {
		content.WriteString(m.renderAvailableActions(round.LegalActions()))
		content.WriteString("\n")
		if m.opts.ShowHints {
			if rec, ok := m.session.Hint(); ok {
				content.WriteString(HintStyle.Render("Basic strategy: " + rec.Move.Description()))
				content.WriteString("\n")
			}
		}
		m.actionInput.Placeholder = "hit, stand, double, split, surrender, hint"
	} else {
		content.WriteString(HandInfoStyle.Render(fmt.Sprintf("Enter to deal %s", game.FormatCents(m.lastBet))))
		content.WriteString("\n")
		m.actionInput.Placeholder = "Enter to deal, 'bet 25' to change the bet, 'quit' to exit"
	}

	content.WriteString(m.actionInput.View())
	content.WriteString("\n")

	help := "Tab to scroll log • Enter to submit • Ctrl+C to quit"
	if m.focusedPane == 0 {
		help = "Log focused: ↑↓ scroll, PgUp/PgDn half page, Home/End, Tab to input"
	}
	content.WriteString(InfoStyle.Render(help))

	return content.String()
}

// renderTable renders the dealer and every player hand of the round
func (m *TUIModel) renderTable(round *game.Round) string {
	var lines []string

	dealer := round.Dealer()
	lines = append(lines, HandInfoStyle.Render("Dealer: ")+m.formatHand(dealer)+
		fmt.Sprintf(" (%s)", dealer.TotalString()))

	_, current := round.Current()
	for i, h := range round.Hands() {
		label := fmt.Sprintf("  Hand %d: ", i+1)
		style := HandInfoStyle
		if i == current {
			label = "> " + label[2:]
			style = CurrentHandStyle
		}
		line := style.Render(label) + m.formatHand(h) +
			fmt.Sprintf(" (%s) %s", h.TotalString(), game.FormatCents(h.Bet))
		if h.State != game.StateActive {
			line += " " + InfoStyle.Render(h.State.String())
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

// renderAvailableActions renders the actions the round will accept
func (m *TUIModel) renderAvailableActions(legal []game.Action) string {
	var actions []string
	for _, a := range legal {
		switch a {
		case game.Surrender:
			actions = append(actions, ErrorStyle.Render("["+a.String()+"]"))
		case game.Double, game.Split:
			actions = append(actions, WarningStyle.Render("["+a.String()+"]"))
		default:
			actions = append(actions, SuccessStyle.Render("["+a.String()+"]"))
		}
	}

	// Fallback if no valid actions (shouldn't happen)
	if len(actions) == 0 {
		actions = append(actions, ErrorStyle.Render("[no actions available]"))
	}

	return ActionsStyle.Render("Actions: " + strings.Join(actions, " "))
}

// formatHand formats a hand with coloured cards; a dealer hole card stays hidden
func (m *TUIModel) formatHand(h *game.Hand) string {
	formatted := make([]string, 0, len(h.Cards))
	for i, c := range h.Cards {
		if i > 0 && !h.Revealed() {
			formatted = append(formatted, HiddenCardStyle.Render("[ ? ]"))
			continue
		}
		formatted = append(formatted, formatCard(c))
	}
	return strings.Join(formatted, " ")
}

func formatCard(c cards.Card) string {
	if c.Suit.IsRed() {
		return RedCardStyle.Render("[" + c.String() + "]")
	}
	return BlackCardStyle.Render("[" + c.String() + "]")
}

func (m *TUIModel) currentRound() *game.Round {
	if m.session == nil {
		return nil
	}
	return m.session.Round()
}

func (m *TUIModel) isPlayersTurn() bool {
	round := m.currentRound()
	return round != nil && round.Phase() == game.PhasePlayerTurn
}

// AddLogEntry adds an entry to the game log
func (m *TUIModel) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)

	// In test mode, also capture the log entry
	if m.opts.TestMode {
		m.capturedLog = append(m.capturedLog, entry)
		return // Skip UI updates in test mode
	}

	// Update content and auto-scroll to bottom
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))

	// Only call GotoBottom if viewport has valid dimensions
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// AddBoldLogEntry adds a bold entry to the game log
func (m *TUIModel) AddBoldLogEntry(entry string) {
	if m.opts.TestMode {
		m.gameLog = append(m.gameLog, entry)
		m.capturedLog = append(m.capturedLog, entry)
		return
	}
	m.AddLogEntry(lipgloss.NewStyle().Bold(true).Render(entry))
}

// ClearLog clears the game log
func (m *TUIModel) ClearLog() {
	m.gameLog = []string{}
	m.logViewport.SetContent("")
}

// GetCapturedLog returns the captured log entries (test mode only)
func (m *TUIModel) GetCapturedLog() []string {
	if !m.opts.TestMode {
		return nil
	}
	// Return a copy to prevent modification
	result := make([]string, len(m.capturedLog))
	copy(result, m.capturedLog)
	return result
}

// InjectAction runs a command as if it had been typed (test mode only). It
// reports whether the command asked to quit.
func (m *TUIModel) InjectAction(action string, args []string) (bool, error) {
	if !m.opts.TestMode {
		return false, fmt.Errorf("action injection only available in test mode")
	}
	return m.processAction(strings.Join(append([]string{action}, args...), " ")), nil
}

// IsTestMode returns whether the TUI is in test mode
func (m *TUIModel) IsTestMode() bool {
	return m.opts.TestMode
}

// SetEventCallback sets a callback function for test event synchronization
func (m *TUIModel) SetEventCallback(callback func(eventType string)) {
	if m.opts.TestMode {
		m.eventCallback = callback
	}
}

// notifyEventCallback calls the event callback if in test mode
func (m *TUIModel) notifyEventCallback(eventType string) {
	if m.opts.TestMode && m.eventCallback != nil {
		m.eventCallback(eventType)
	}
}
