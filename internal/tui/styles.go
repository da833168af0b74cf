package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/lox/faraway/internal/card"
)

// Static styles for content elements
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true)

	HandInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	ActionsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true)

	SelectedCardStyle = lipgloss.NewStyle().
				Underline(true).
				Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFEAA7")).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)

// Card styles by region colour
var cardStyles = map[card.Color]lipgloss.Style{
	card.Blue:   lipgloss.NewStyle().Foreground(lipgloss.Color("#4D96FF")).Bold(true),
	card.Red:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
	card.Green:  lipgloss.NewStyle().Foreground(lipgloss.Color("#6BCB77")).Bold(true),
	card.Yellow: lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD93D")).Bold(true),
}

// CardStyle returns the style for a card of the given colour
func CardStyle(c card.Color) lipgloss.Style {
	if style, ok := cardStyles[c]; ok {
		return style
	}
	return InfoStyle
}
