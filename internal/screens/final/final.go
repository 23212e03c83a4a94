// Package final is the end-of-quiz screen: the aggregate score over the
// whole pool, the base/AI breakdown, and session token usage.
package final

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizdeck/internal/llm"
	"github.com/abhisek/quizdeck/internal/mcq"
	"github.com/abhisek/quizdeck/internal/screen"
	"github.com/abhisek/quizdeck/internal/session"
	"github.com/abhisek/quizdeck/internal/ui/components"
	"github.com/abhisek/quizdeck/internal/ui/layout"
	"github.com/abhisek/quizdeck/internal/ui/theme"
)

// ResetMsg asks the application to rebuild the setup flow after a
// session reset.
type ResetMsg struct{}

// FinalScreen shows the aggregate outcome of the whole quiz.
type FinalScreen struct {
	session *session.Session
	usage   *llm.UsageTracker
}

var _ screen.Screen = (*FinalScreen)(nil)
var _ screen.KeyHintProvider = (*FinalScreen)(nil)

// New creates the final screen. usage may be nil when no LLM provider
// was configured.
func New(s *session.Session, usage *llm.UsageTracker) *FinalScreen {
	return &FinalScreen{session: s, usage: usage}
}

func (s *FinalScreen) Init() tea.Cmd {
	return nil
}

func (s *FinalScreen) Title() string {
	return "Resultado final"
}

func (s *FinalScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "R", Description: "Reiniciar"},
		{Key: "Esc", Description: "Último bloque"},
		{Key: "Q", Description: "Salir"},
	}
}

func (s *FinalScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "r":
		s.session.Reset()
		return s, func() tea.Msg { return ResetMsg{} }
	case "esc", "b":
		s.session.Back()
	case "q":
		return s, tea.Quit
	}
	return s, nil
}

func (s *FinalScreen) View(width, height int) string {
	results := s.session.GradeAll()
	sum := mcq.Summarize(results)

	cw := components.ContentWidth(width)
	var b strings.Builder

	b.WriteString(theme.Title.Width(cw-6).Render("Quiz terminado") + "\n\n")
	b.WriteString(theme.Body.Render(fmt.Sprintf("  Puntuación total:  %d/%d", sum.Score, sum.Total)) + "\n")

	bar := components.NewProgressBar("", float64(sum.Percentage)/100, true, cw-12)
	b.WriteString("  " + bar.View() + "\n\n")

	base, ai := s.breakdown(results)
	b.WriteString(theme.Body.Render(fmt.Sprintf("  Preguntas base:    %d/%d", base.Score, base.Total)) + "\n")
	if ai.Total > 0 {
		b.WriteString(theme.Body.Render(fmt.Sprintf("  Preguntas IA:      %d/%d", ai.Score, ai.Total)) + "\n")
	}

	if s.usage != nil {
		requests, total, costUSD, costKnown := s.usage.Snapshot()
		if requests > 0 {
			b.WriteString("\n")
			b.WriteString(theme.Hint.Render(fmt.Sprintf(
				"  IA: %d peticiones, %d tokens", requests, total.TotalTokens)) + "\n")
			if costKnown {
				b.WriteString(theme.Hint.Render(fmt.Sprintf("  Coste estimado: $%.4f", costUSD)) + "\n")
			}
		}
	}

	return components.CenteredPanel(b.String(), cw, width, height)
}

// breakdown splits the aggregate into base and generated buckets.
func (s *FinalScreen) breakdown(results []mcq.Result) (base, ai mcq.Summary) {
	pool := s.session.Pool()
	if pool == nil {
		return base, ai
	}
	source := make(map[string]mcq.Source, len(pool.Questions))
	for _, q := range pool.Questions {
		source[q.ID] = q.Source
	}

	var baseResults, aiResults []mcq.Result
	for _, r := range results {
		if source[r.ID] == mcq.SourceGenerated {
			aiResults = append(aiResults, r)
		} else {
			baseResults = append(baseResults, r)
		}
	}
	return mcq.Summarize(baseResults), mcq.Summarize(aiResults)
}
