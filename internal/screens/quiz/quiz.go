// Package quiz renders the active block: every question with its
// options, a selection cursor, and the finish action.
package quiz

import (
	"context"
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

// QuizScreen shows the active block and collects answers.
type QuizScreen struct {
	session *session.Session

	// questions is the dealt view of the active block; option order is
	// fixed for the lifetime of the screen so the cursor stays stable.
	questions []mcq.Question
	qCursor   int
	oCursor   int
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.StatusProvider = (*QuizScreen)(nil)

// New creates the quiz screen for the session's active block.
func New(s *session.Session) *QuizScreen {
	return &QuizScreen{
		session:   s,
		questions: s.ActiveQuestions(),
	}
}

func (s *QuizScreen) Init() tea.Cmd {
	return nil
}

func (s *QuizScreen) Title() string {
	return "Quiz"
}

func (s *QuizScreen) HeaderStatus() string {
	return fmt.Sprintf("Bloque %d/%d", s.session.CurrentBlock()+1, s.session.BlockCount())
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Opción"},
		{Key: "Tab", Description: "Pregunta"},
		{Key: "Space", Description: "Marcar"},
		{Key: "F", Description: "Terminar bloque"},
		{Key: "Esc", Description: "Atrás"},
	}
}

// Refresh re-deals the block questions. Called when generated
// questions land and the block layout changes under the screen.
func (s *QuizScreen) Refresh() {
	s.questions = s.session.ActiveQuestions()
	if s.qCursor >= len(s.questions) {
		s.qCursor = 0
		s.oCursor = 0
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	if len(s.questions) == 0 {
		return s, nil
	}

	switch kmsg.String() {
	case "up", "k":
		s.moveOption(-1)
	case "down", "j":
		s.moveOption(1)
	case "tab", "right", "l":
		s.moveQuestion(1)
	case "shift+tab", "left", "h":
		s.moveQuestion(-1)
	case " ", "enter":
		s.toggle()
	case "f":
		s.session.FinishBlock(context.Background())
	case "esc", "b":
		s.session.Back()
	}
	return s, nil
}

func (s *QuizScreen) moveQuestion(delta int) {
	next := s.qCursor + delta
	if next < 0 || next >= len(s.questions) {
		return
	}
	s.qCursor = next
	s.oCursor = 0
}

func (s *QuizScreen) moveOption(delta int) {
	q := s.questions[s.qCursor]
	next := s.oCursor + delta

	// Walking past the edge steps into the neighboring question.
	if next < 0 {
		if s.qCursor > 0 {
			s.qCursor--
			s.oCursor = len(s.questions[s.qCursor].Options) - 1
		}
		return
	}
	if next >= len(q.Options) {
		if s.qCursor < len(s.questions)-1 {
			s.qCursor++
			s.oCursor = 0
		}
		return
	}
	s.oCursor = next
}

func (s *QuizScreen) toggle() {
	q := s.questions[s.qCursor]
	opt := q.Options[s.oCursor]
	checked := true
	if q.Type == mcq.TypeMulti {
		for _, id := range s.session.Chosen(q.ID) {
			if id == opt.ID {
				checked = false
				break
			}
		}
	}
	s.session.Toggle(q.ID, opt.ID, checked)
}

func (s *QuizScreen) View(width, height int) string {
	if len(s.questions) == 0 {
		return lipgloss.NewStyle().
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.TextDim).
			Render("Este bloque está vacío.")
	}

	answers := s.session.Answers()
	cw := components.ContentWidth(width)

	var b strings.Builder
	answered := 0
	for i, q := range s.questions {
		chosen := toSet(answers[q.ID])
		if len(chosen) > 0 {
			answered++
		}
		card := components.QuestionCard{
			Question:     q,
			Chosen:       chosen,
			Focused:      i == s.qCursor,
			CursorOption: s.oCursor,
		}
		b.WriteString(card.View(i) + "\n")
	}

	bar := components.NewProgressBar(
		fmt.Sprintf("Respondidas %d/%d", answered, len(s.questions)),
		float64(answered)/float64(len(s.questions)),
		false,
		cw-10,
	)
	b.WriteString(bar.View())

	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render(components.Panel(b.String(), cw))
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
