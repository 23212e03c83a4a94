package components

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizdeck/internal/mcq"
	"github.com/abhisek/quizdeck/internal/ui/theme"
)

// QuestionCard renders one block question with its options. It is a
// pure view: the quiz screen owns the cursor and the answer state.
type QuestionCard struct {
	Question mcq.Question
	Chosen   map[string]bool

	// Focused marks the question under the cursor; CursorOption is the
	// highlighted option index within it, -1 for none.
	Focused      bool
	CursorOption int

	// Result mode: when set, options are colored against the answer key
	// instead of showing selection marks.
	Result      *mcq.Result
	Explanation string
}

// View renders the card.
func (c QuestionCard) View(index int) string {
	promptStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	if c.Focused {
		promptStyle = promptStyle.Foreground(theme.Primary)
	}

	s := promptStyle.Render(fmt.Sprintf("%d. %s", index+1, c.Question.Prompt)) + "\n"

	if c.Question.Type == mcq.TypeMulti {
		s += theme.Hint.Render("   (selecciona todas las que correspondan)") + "\n"
	}

	for j, opt := range c.Question.Options {
		if c.Result != nil {
			s += c.resultLine(opt) + "\n"
			continue
		}
		s += c.selectLine(j, opt) + "\n"
	}

	if c.Result != nil {
		if c.Result.IsCorrect {
			s += theme.Correct.Render("   ✓ correcta") + "\n"
		} else {
			s += theme.Incorrect.Render("   ✗ incorrecta") + "\n"
		}
		if c.Explanation != "" {
			s += theme.Hint.Render("   "+c.Explanation) + "\n"
		}
	}

	return s
}

func (c QuestionCard) selectLine(j int, opt mcq.Option) string {
	mark := c.mark(c.Chosen[opt.ID])
	cursor := "  "
	if c.Focused && j == c.CursorOption {
		cursor = "▸ "
	}

	line := fmt.Sprintf(" %s%s %s", cursor, mark, opt.Text)
	if c.Focused && j == c.CursorOption {
		return theme.Selected.Render(line)
	}
	if c.Chosen[opt.ID] {
		return lipgloss.NewStyle().Foreground(theme.Secondary).Render(line)
	}
	return theme.Body.Render(line)
}

func (c QuestionCard) resultLine(opt mcq.Option) string {
	correct := contains(c.Result.Correct, opt.ID)
	chosen := contains(c.Result.Chosen, opt.ID)

	mark := c.mark(chosen)
	line := fmt.Sprintf("   %s %s", mark, opt.Text)

	switch {
	case correct && chosen:
		return theme.Correct.Render(line)
	case correct:
		return lipgloss.NewStyle().Foreground(theme.Success).Render(line + "  ← correcta")
	case chosen:
		return theme.Incorrect.Render(line)
	default:
		return theme.Disabled.Render(line)
	}
}

func (c QuestionCard) mark(checked bool) string {
	if c.Question.Type == mcq.TypeMulti {
		if checked {
			return "[x]"
		}
		return "[ ]"
	}
	if checked {
		return "(•)"
	}
	return "( )"
}

func contains(ids []string, id string) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
