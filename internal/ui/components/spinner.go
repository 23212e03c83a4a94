package components

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizdeck/internal/ui/theme"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// SpinnerTickMsg advances the spinner animation.
type SpinnerTickMsg time.Time

// Spinner is a small loading indicator for pending AI requests.
type Spinner struct {
	frame int
	Label string
}

// NewSpinner creates a spinner with the given label.
func NewSpinner(label string) Spinner {
	return Spinner{Label: label}
}

// Tick schedules the next animation frame.
func (s Spinner) Tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return SpinnerTickMsg(t)
	})
}

// Update advances the frame on tick messages.
func (s Spinner) Update(msg tea.Msg) (Spinner, tea.Cmd) {
	if _, ok := msg.(SpinnerTickMsg); ok {
		s.frame = (s.frame + 1) % len(spinnerFrames)
		return s, s.Tick()
	}
	return s, nil
}

// View renders the spinner with its label.
func (s Spinner) View() string {
	frame := lipgloss.NewStyle().Foreground(theme.Accent).Render(spinnerFrames[s.frame])
	return frame + " " + theme.Hint.Render(s.Label)
}
