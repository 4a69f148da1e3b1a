package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// RunIntro plays m until it finishes or a key skips it, and reports
// whether it was skipped.
func RunIntro(m IntroModel, opts ...tea.ProgramOption) (skipped bool, err error) {
	final, err := tea.NewProgram(m, opts...).Run()
	if err != nil {
		return false, fmt.Errorf("TUI error: %w", err)
	}
	if fm, ok := final.(IntroModel); ok {
		return fm.Skipped(), nil
	}
	return m.Skipped(), nil
}
