// Package tui is the terminal front end for a human player. It renders a
// session from one seat's perspective and turns typed commands into
// decisions.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/faraway/internal/card"
	"github.com/lox/faraway/internal/game"
)

var helpLines = []string{
	"Commands:",
	"  play N    select hand card N (again to deselect)",
	"  pick N    take row card N when it is your turn",
	"  scores    show the current scores",
	"  help      show this help",
	"  quit      leave the game",
}

// TUIModel represents the Bubble Tea model for one human seat
type TUIModel struct {
	session   *game.Session
	seat      int
	logger    *log.Logger
	formatter *game.EventFormatter

	// UI components
	logViewport viewport.Model
	actionInput textinput.Model

	// State
	gameLog     []string
	quitting    bool
	focusedPane int // 0 = log, 1 = input

	// Dimensions
	width       int
	height      int
	initialized bool

	// Test mode
	testMode    bool
	capturedLog []string
}

// NewTUIModel creates a TUI for seat and subscribes it to the session's events
func NewTUIModel(session *game.Session, seat int, logger *log.Logger) *TUIModel {
	return NewTUIModelWithOptions(session, seat, logger, false)
}

// NewTUIModelWithOptions creates a new TUI model with test mode option
func NewTUIModelWithOptions(session *game.Session, seat int, logger *log.Logger, testMode bool) *TUIModel {
	// Sized properly when the first WindowSizeMsg arrives
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "play N, pick N, scores, help, quit"
	ti.Focus()
	ti.CharLimit = 40
	ti.Width = 60
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "> "

	m := &TUIModel{
		session: session,
		seat:    seat,
		logger:  logger.WithPrefix("tui"),
		formatter: game.NewEventFormatter(game.FormattingOptions{
			Perspective: seat,
		}),
		logViewport: vp,
		actionInput: ti,
		gameLog:     []string{},
		focusedPane: 1,
		testMode:    testMode,
		capturedLog: []string{},
	}
	session.Subscribe(m)
	return m
}

// OnEvent implements game.EventSubscriber. Events are delivered on the
// goroutine that submitted the decision, which is the Bubble Tea update loop
// once the program is running.
func (m *TUIModel) OnEvent(event game.GameEvent) {
	if text := m.formatter.Format(event); text != "" {
		m.AddLogEntry(text)
	}
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
		m.width = msg.Width
		m.height = msg.Height
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case "tab":
			if m.focusedPane == 0 {
				m.focusedPane = 1
				m.actionInput.Focus()
			} else {
				m.focusedPane = 0
				m.actionInput.Blur()
			}
		case "enter":
			if m.focusedPane == 1 {
				quit := m.processAction(m.actionInput.Value())
				m.actionInput.SetValue("")
				if quit {
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
		case "pgup":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageUp()
			}
		case "pgdown":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageDown()
			}
		case "home":
			if m.focusedPane == 0 {
				m.logViewport.GotoTop()
			}
		case "end":
			if m.focusedPane == 0 {
				m.logViewport.GotoBottom()
			}
		}
	}

	var cmd tea.Cmd
	if m.focusedPane == 1 {
		m.actionInput, cmd = m.actionInput.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// View renders the TUI
func (m *TUIModel) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	snap := m.session.Snapshot()

	actionContent := m.renderActionPane(snap)
	actionHeight := lipgloss.Height(actionContent)
	actionPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#04B575")).
		Width(max(m.width-2, 1)).
		Height(max(actionHeight, 1)).
		Render(actionContent)

	sidebarContent := m.renderSidebarPane(snap)
	sidebarWidth := max(lipgloss.Width(sidebarContent), 28)
	paneHeight := max(m.height-actionHeight-4, 1)

	sidebarPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(sidebarWidth).
		Height(paneHeight).
		Render(sidebarContent)

	logWidth := max(m.width-sidebarWidth-4, 1)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	m.logViewport.Width = logWidth
	m.logViewport.Height = paneHeight
	if !m.initialized && logWidth > 1 && paneHeight > 1 {
		m.logViewport.GotoBottom()
		m.initialized = true
	}

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(logWidth).
		Height(paneHeight)
	if m.focusedPane == 0 {
		logStyle = logStyle.BorderForeground(lipgloss.Color("#04B575"))
	}
	logPane := logStyle.Render(m.logViewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Top, topRow, actionPane)
}

// renderSidebarPane shows the round, the deck and every player's tableau
func (m *TUIModel) renderSidebarPane(snap game.Snapshot) string {
	var content strings.Builder

	content.WriteString(HeaderStyle.Render(fmt.Sprintf(" Round %d - %s ", snap.Round, snap.State)))
	content.WriteString("\n")
	content.WriteString(InfoStyle.Render(fmt.Sprintf("Deck: %d  Discard: %d", len(snap.Deck), len(snap.Discard))))
	content.WriteString("\n")
	if snap.Exhausted {
		content.WriteString(WarningStyle.Render("Deck exhausted"))
		content.WriteString("\n")
	}
	if snap.FinalRound {
		content.WriteString(WarningStyle.Render("Final round"))
		content.WriteString("\n")
	}
	content.WriteString("\n")

	scores := m.session.Scores()
	leaders := game.Leaders(scores)
	for _, p := range snap.Players {
		marker := " "
		switch {
		case snap.State == game.Pick && snap.NextPicker == p.Seat:
			marker = ">"
		case snap.State == game.Play && p.SelectedCardIndex != game.NoSelection:
			marker = "+"
		}
		name := p.Name
		if p.Seat == m.seat {
			name = "You"
		}
		line := fmt.Sprintf("%s %-10s %3d pts", marker, name, scores[p.Seat].Total)
		if len(leaders) == 1 && leaders[0] == p.Seat && scores[p.Seat].Total > 0 {
			line = SuccessStyle.Render(line)
		}
		content.WriteString(line)
		content.WriteString("\n")
		if len(p.Played) > 0 {
			content.WriteString("    ")
			content.WriteString(m.formatCards(cardsOf(p.Played)))
			content.WriteString("\n")
		}
	}

	return content.String()
}

// renderActionPane shows the hand, the row and what the player may do next
func (m *TUIModel) renderActionPane(snap game.Snapshot) string {
	var content strings.Builder

	me, ok := snap.Player(m.seat)
	if ok {
		tableau := me.Tableau()
		content.WriteString(HandInfoStyle.Render("Hand:"))
		content.WriteString("\n")
		for i, v := range me.Hand {
			line := fmt.Sprintf("  %d. %s", i+1, m.renderCardDetail(v.Card, tableau))
			if i == me.SelectedCardIndex {
				line += " " + SelectedCardStyle.Render("(selected)")
			}
			content.WriteString(line)
			content.WriteString("\n")
		}
	}

	if snap.State == game.Pick {
		content.WriteString(HandInfoStyle.Render("Row: "))
		parts := make([]string, len(snap.Row))
		for i, v := range snap.Row {
			parts[i] = fmt.Sprintf("%d:%s", i+1, m.renderCard(v.Card))
		}
		content.WriteString(strings.Join(parts, "  "))
		content.WriteString("\n")
	}

	content.WriteString(ActionsStyle.Render(m.prompt(snap, me)))
	content.WriteString("\n")
	content.WriteString(m.actionInput.View())
	content.WriteString("\n")

	if m.focusedPane == 0 {
		content.WriteString(InfoStyle.Render("Log focused: ↑↓ scroll, PgUp/PgDn half page, Home/End, Tab to input"))
	} else {
		content.WriteString(InfoStyle.Render("Tab to scroll log • Enter to submit • Ctrl+C to quit"))
	}

	return content.String()
}

// prompt tells the player what the session is waiting for
func (m *TUIModel) prompt(snap game.Snapshot, me game.PlayerView) string {
	switch snap.State {
	case game.Play:
		if me.SelectedCardIndex == game.NoSelection {
			return "Choose a card to play: play N"
		}
		return "Waiting for the other players (play N changes your card)"
	case game.Pick:
		if snap.Exhausted && len(snap.Row) == 0 {
			return "The deck is exhausted, type quit to leave"
		}
		switch snap.NextPicker {
		case m.seat:
			return "Your pick: pick N"
		case -1:
			return "Waiting..."
		default:
			p, _ := snap.Player(snap.NextPicker)
			return fmt.Sprintf("Waiting for %s to pick", p.Name)
		}
	default:
		return "Waiting..."
	}
}

func (m *TUIModel) renderCard(c card.Card) string {
	if c.FaceDown {
		return InfoStyle.Render("??")
	}
	return CardStyle(c.Color).Render(c.String())
}

// renderCardDetail describes a hand card, e.g. "44Y  gives ananas:1  needs blues:1 (met)  scores 2 x [Yellow Blue]"
func (m *TUIModel) renderCardDetail(c card.Card, tableau []card.Card) string {
	if c.FaceDown {
		return m.renderCard(c)
	}
	needs := c.Conditions.String()
	if len(c.Conditions) > 0 && c.ConditionsMet(tableau) {
		needs += " (met)"
	}
	return fmt.Sprintf("%s  gives %s  needs %s  scores %s",
		m.renderCard(c), c.Resources, needs, c.Scoring)
}

// formatCards formats cards with colors
func (m *TUIModel) formatCards(cards []card.Card) string {
	if len(cards) == 0 {
		return ""
	}
	formatted := make([]string, len(cards))
	for i, c := range cards {
		formatted[i] = m.renderCard(c)
	}
	return "[" + strings.Join(formatted, " ") + "]"
}

func cardsOf(views []game.CardView) []card.Card {
	out := make([]card.Card, len(views))
	for i, v := range views {
		out[i] = v.Card
	}
	return out
}

// processAction runs one typed command and reports whether the player wants to quit
func (m *TUIModel) processAction(input string) bool {
	parts := strings.Fields(strings.ToLower(input))
	if len(parts) == 0 {
		return false
	}
	action, args := parts[0], parts[1:]

	switch action {
	case "quit", "exit", "q":
		return true
	case "help", "h", "?":
		for _, line := range helpLines {
			m.AddLogEntry(line)
		}
	case "scores", "score":
		m.logScores()
	case "play", "select":
		m.submit(game.Play, action, args)
	case "pick":
		m.submit(game.Pick, action, args)
	default:
		m.addError(fmt.Sprintf("Unknown command: %s (try help)", action))
	}
	return false
}

// submit turns a 1-based card number into a decision for the human seat
func (m *TUIModel) submit(state game.State, action string, args []string) {
	if len(args) != 1 {
		m.addError(fmt.Sprintf("Usage: %s N", action))
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		m.addError(fmt.Sprintf("%s: %q is not a card number", action, args[0]))
		return
	}

	d := game.Decision{State: state, Player: m.seat, Choice: n - 1}
	if err := m.session.Submit(d); err != nil {
		m.logger.Debug("Decision rejected", "decision", d, "error", err)
		m.addError(fmt.Sprintf("Cannot %s %d: %v", action, n, err))
	}
}

func (m *TUIModel) logScores() {
	scores := m.session.Scores()
	snap := m.session.Snapshot()
	parts := make([]string, len(scores))
	for i, sc := range scores {
		name := snap.Players[sc.Seat].Name
		if sc.Seat == m.seat {
			name = "You"
		}
		parts[i] = fmt.Sprintf("%s %d", name, sc.Total)
	}
	m.AddLogEntry("Scores: " + strings.Join(parts, ", "))
}

// AddLogEntry adds an entry to the game log
func (m *TUIModel) AddLogEntry(entry string) {
	m.addStyledEntry(entry, entry)
}

func (m *TUIModel) addError(text string) {
	m.addStyledEntry(text, ErrorStyle.Render(text))
}

func (m *TUIModel) addStyledEntry(plain, styled string) {
	m.gameLog = append(m.gameLog, styled)

	if m.testMode {
		m.capturedLog = append(m.capturedLog, plain)
		return
	}

	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// GetCapturedLog returns the captured log entries (test mode only)
func (m *TUIModel) GetCapturedLog() []string {
	if !m.testMode {
		return nil
	}
	result := make([]string, len(m.capturedLog))
	copy(result, m.capturedLog)
	return result
}

// IsTestMode returns whether the TUI is in test mode
func (m *TUIModel) IsTestMode() bool {
	return m.testMode
}
