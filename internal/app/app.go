// Package app hosts the root Bubble Tea model. It owns the quiz
// session, maps its phase to the active screen, and renders the shared
// header/footer frame plus the blocking AI overlay.
package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizdeck/internal/llm"
	"github.com/abhisek/quizdeck/internal/router"
	"github.com/abhisek/quizdeck/internal/screen"
	"github.com/abhisek/quizdeck/internal/screens/final"
	"github.com/abhisek/quizdeck/internal/screens/quiz"
	"github.com/abhisek/quizdeck/internal/screens/results"
	"github.com/abhisek/quizdeck/internal/screens/setup"
	"github.com/abhisek/quizdeck/internal/session"
	"github.com/abhisek/quizdeck/internal/ui/components"
	"github.com/abhisek/quizdeck/internal/ui/layout"
)

// sessionUpdatedMsg wakes the event loop when a background AI
// completion lands in the session.
type sessionUpdatedMsg struct{}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	sess    *session.Session
	usage   *llm.UsageTracker
	router  *router.Router
	phase   session.Phase
	overlay components.Spinner
	width   int
	height  int
}

// newAppModel creates the root model starting at the setup screen.
func newAppModel(sess *session.Session, usage *llm.UsageTracker) AppModel {
	return AppModel{
		sess:    sess,
		usage:   usage,
		router:  router.New(setup.New(sess)),
		phase:   session.PhaseSetup,
		overlay: components.NewSpinner("La IA está generando preguntas..."),
	}
}

func (m AppModel) Init() tea.Cmd {
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case sessionUpdatedMsg:
		return m.syncPhase(nil, true)

	case final.ResetMsg:
		return m.syncPhase(nil, false)

	case components.SpinnerTickMsg:
		if m.blockingOverlay() {
			var cmd tea.Cmd
			m.overlay, cmd = m.overlay.Update(msg)
			return m, cmd
		}

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		// The augment overlay blocks quiz input, mirroring the modal
		// the settings promised.
		if m.blockingOverlay() {
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m.syncPhase(cmd, false)
}

// syncPhase swaps the active screen when a session transition moved the
// phase. refresh re-deals the quiz screen's block in place; only session
// updates set it, so the dealt option order survives ordinary input.
func (m AppModel) syncPhase(cmd tea.Cmd, refresh bool) (tea.Model, tea.Cmd) {
	current := m.sess.Phase()
	if current == m.phase {
		if qs, ok := m.router.Active().(*quiz.QuizScreen); ok && refresh {
			qs.Refresh()
		}
		return m, m.withOverlayTick(cmd)
	}

	m.phase = current
	var next screen.Screen
	switch current {
	case session.PhaseSetup:
		next = setup.New(m.sess)
	case session.PhaseQuiz:
		next = quiz.New(m.sess)
	case session.PhaseResults:
		next = results.New(m.sess)
	case session.PhaseFinal:
		next = final.New(m.sess, m.usage)
	}
	replaceCmd := m.router.Replace(next)
	return m, m.withOverlayTick(tea.Batch(cmd, replaceCmd))
}

func (m *AppModel) withOverlayTick(cmd tea.Cmd) tea.Cmd {
	if m.blockingOverlay() {
		return tea.Batch(cmd, m.overlay.Tick())
	}
	return cmd
}

func (m AppModel) blockingOverlay() bool {
	return m.phase == session.PhaseQuiz && m.sess.AIBusy()
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	status := ""
	if sp, ok := active.(screen.StatusProvider); ok {
		status = sp.HeaderStatus()
	}
	header := layout.RenderHeader(title, status, m.width)

	var footerHints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = hp.KeyHints()
	}
	if footerHints == nil {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navegar"},
			{Key: "Enter", Description: "Seleccionar"},
			{Key: "Ctrl+C", Description: "Salir"},
		}
	}
	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	var content string
	if m.blockingOverlay() {
		content = layout.RenderOverlay(m.overlay.View(), m.width, contentHeight)
	} else {
		content = m.router.View(m.width, contentHeight)
	}
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program around an already-loaded session.
func Run(sess *session.Session, usage *llm.UsageTracker) error {
	p := tea.NewProgram(newAppModel(sess, usage))
	sess.SetNotify(func() { p.Send(sessionUpdatedMsg{}) })

	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
