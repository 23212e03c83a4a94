// Package results shows the graded active block: per-question verdicts,
// the block score, and AI explanations as they arrive.
package results

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizdeck/internal/mcq"
	"github.com/abhisek/quizdeck/internal/screen"
	"github.com/abhisek/quizdeck/internal/session"
	"github.com/abhisek/quizdeck/internal/ui/components"
	"github.com/abhisek/quizdeck/internal/ui/layout"
	"github.com/abhisek/quizdeck/internal/ui/theme"
)

// ResultsScreen shows the active block's grading.
type ResultsScreen struct {
	session *session.Session
	spinner components.Spinner
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)
var _ screen.StatusProvider = (*ResultsScreen)(nil)

// New creates the results screen for the session's active block.
func New(s *session.Session) *ResultsScreen {
	return &ResultsScreen{
		session: s,
		spinner: components.NewSpinner("Pidiendo explicaciones a la IA..."),
	}
}

func (s *ResultsScreen) Init() tea.Cmd {
	if s.session.AIBusy() {
		return s.spinner.Tick()
	}
	return nil
}

func (s *ResultsScreen) Title() string {
	return "Resultados"
}

func (s *ResultsScreen) HeaderStatus() string {
	return fmt.Sprintf("Bloque %d/%d", s.session.CurrentBlock()+1, s.session.BlockCount())
}

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	next := "Siguiente bloque"
	if s.session.CurrentBlock() == s.session.BlockCount()-1 {
		next = "Resultado final"
	}
	return []layout.KeyHint{
		{Key: "Enter/N", Description: next},
		{Key: "Esc", Description: "Revisar bloque"},
	}
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if _, ok := msg.(components.SpinnerTickMsg); ok {
		if !s.session.AIBusy() {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "enter", "n":
		s.session.Next()
	case "esc", "b":
		s.session.Back()
	}
	return s, nil
}

func (s *ResultsScreen) View(width, height int) string {
	questions := s.session.ActiveQuestions()
	results := s.session.GradeActive()
	explanations := s.session.Explanations()
	sum := mcq.Summarize(results)

	byID := make(map[string]mcq.Result, len(results))
	for _, r := range results {
		byID[r.ID] = r
	}

	cw := components.ContentWidth(width)
	var b strings.Builder

	b.WriteString(theme.Title.Width(cw-6).Render(
		fmt.Sprintf("Bloque %d: %d/%d (%d%%)",
			s.session.CurrentBlock()+1, sum.Score, sum.Total, sum.Percentage),
	) + "\n\n")

	for i, q := range questions {
		r, ok := byID[q.ID]
		if !ok {
			continue
		}
		card := components.QuestionCard{
			Question:    q,
			Result:      &r,
			Explanation: explanationFor(q, explanations),
		}
		b.WriteString(card.View(i) + "\n")
	}

	if s.session.AIBusy() {
		b.WriteString(s.spinner.View() + "\n")
	}

	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render(components.Panel(b.String(), cw))
}

// explanationFor prefers the AI explanation, falling back to the one
// shipped in the pool file.
func explanationFor(q mcq.Question, ai mcq.ExplanationMap) string {
	if text, ok := ai[q.ID]; ok {
		return text
	}
	return q.Explanation
}
