package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Zachkp/resume-site/internal/intro"
)

// introFrameMsg carries a new playback snapshot.
type introFrameMsg intro.Snapshot

// introDoneMsg reports that playback ended.
type introDoneMsg struct{}

// IntroModel plays an intro script in the terminal. Any key skips it.
type IntroModel struct {
	player   *intro.Player
	feed     *intro.Feed
	viewport viewport.Model
	snap     intro.Snapshot
	done     bool
	// QuitOnDone makes the program exit once playback ends.
	QuitOnDone bool
}

// NewIntro builds a model around a fresh Player for script. opts are
// passed to the Player after the model's own change hook.
func NewIntro(script intro.Script, opts ...intro.Option) IntroModel {
	feed := intro.NewFeed()
	all := append([]intro.Option{intro.WithOnChange(feed.Push)}, opts...)
	p := intro.NewPlayer(script, all...)

	vp := viewport.New(80, 20)
	m := IntroModel{
		player:     p,
		feed:       feed,
		viewport:   vp,
		snap:       p.Snapshot(),
		QuitOnDone: true,
	}
	m.refresh()
	return m
}

// Init starts playback and waits for the first frame.
func (m IntroModel) Init() tea.Cmd {
	m.player.Start(nil)
	return m.wait()
}

// wait blocks until the next snapshot or the end of playback.
func (m IntroModel) wait() tea.Cmd {
	feed, done := m.feed, m.player.Done()
	return func() tea.Msg {
		select {
		case s := <-feed.C():
			return introFrameMsg(s)
		case <-done:
			return introDoneMsg{}
		}
	}
}

func (m IntroModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = max(1, msg.Height-4)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if m.done {
			return m, nil
		}
		m.player.Cancel()
		return m.finish()

	case introFrameMsg:
		if m.done {
			return m, nil
		}
		m.snap = intro.Snapshot(msg)
		m.refresh()
		return m, m.wait()

	case introDoneMsg:
		return m.finish()
	}
	return m, nil
}

func (m IntroModel) finish() (tea.Model, tea.Cmd) {
	m.done = true
	m.snap = m.player.Snapshot()
	m.refresh()
	if m.QuitOnDone {
		return m, tea.Quit
	}
	return m, nil
}

// Done reports whether playback has ended.
func (m IntroModel) Done() bool { return m.done }

// Skipped reports whether playback was cut short by a key press.
func (m IntroModel) Skipped() bool { return m.player.Skipped() }

func (m IntroModel) View() string {
	hint := "press any key to skip"
	if m.done {
		hint = "done"
	}
	return styleFrame.Render(m.viewport.View()) + "\n" + styleHint.Render(hint) + "\n"
}

// refresh re-renders the transcript and keeps the newest line in view.
func (m *IntroModel) refresh() {
	m.viewport.SetContent(renderTranscript(m.snap))
	m.viewport.GotoBottom()
}

func renderTranscript(s intro.Snapshot) string {
	var b strings.Builder
	for i, line := range s.CompletedLines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(styleLine(line).Render(line))
	}
	if s.State == intro.Finished {
		return b.String()
	}

	if len(s.CompletedLines) > 0 {
		b.WriteByte('\n')
	}
	b.WriteString(styleCommand.Render(s.CurrentPartial))
	if s.CursorVisible {
		b.WriteString(styleCaret.Render("█"))
	} else {
		b.WriteString(" ")
	}
	return b.String()
}

func styleLine(line string) lipgloss.Style {
	switch {
	case intro.IsCommand(line):
		return styleCommand
	case strings.HasPrefix(line, "✓"), strings.HasPrefix(line, "STATUS: deployed"), strings.Contains(line, "Running"):
		return styleSuccess
	default:
		return styleOutput
	}
}
