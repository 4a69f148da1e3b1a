// Package tui renders the intro and the activity calendar in a terminal.
package tui

import "github.com/charmbracelet/lipgloss"

var (
	styleCommand = lipgloss.NewStyle().Foreground(lipgloss.Color("#34d399"))
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ade80"))
	styleOutput  = lipgloss.NewStyle().Foreground(lipgloss.Color("#cbd5e1"))
	styleCaret   = lipgloss.NewStyle().Foreground(lipgloss.Color("#34d399")).Bold(true)
	styleHint    = lipgloss.NewStyle().Foreground(lipgloss.Color("#64748b")).Italic(true)
	styleTitle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#f8fafc")).Bold(true)
	styleMuted   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8b949e"))

	styleFrame = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#334155")).
			Padding(0, 1)
)

// levelStyles color calendar cells, indexed by contribution level.
var levelStyles = [...]lipgloss.Style{
	lipgloss.NewStyle().Foreground(lipgloss.Color("#161b22")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#0e4429")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#006d32")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#26a641")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#39d353")),
}
