// Package setup is the pre-quiz configuration screen: pool summary,
// block size, shuffle and AI toggles, and the start action.
package setup

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

// Fields in cursor order.
const (
	fieldBlockSize = iota
	fieldShuffleBlocks
	fieldShuffleOptions
	fieldAIAugment
	fieldAIExplain
	fieldStart
	fieldCount
)

// SetupScreen lets the user adjust settings before starting the quiz.
type SetupScreen struct {
	session *session.Session
	input   components.TextInput
	cursor  int
	editing bool
}

var _ screen.Screen = (*SetupScreen)(nil)
var _ screen.KeyHintProvider = (*SetupScreen)(nil)

// New creates the setup screen for the given session.
func New(s *session.Session) *SetupScreen {
	return &SetupScreen{
		session: s,
		input:   components.NewTextInput("10", true, 3),
	}
}

func (s *SetupScreen) Init() tea.Cmd {
	return nil
}

func (s *SetupScreen) Title() string {
	return "Configuración"
}

func (s *SetupScreen) KeyHints() []layout.KeyHint {
	if s.editing {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Guardar"},
			{Key: "Esc", Description: "Cancelar"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navegar"},
		{Key: "Enter/Space", Description: "Cambiar"},
		{Key: "Ctrl+C", Description: "Salir"},
	}
}

func (s *SetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.editing {
		return s.updateEditing(msg)
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "up", "k":
		s.cursor = s.prevField(s.cursor)
	case "down", "j":
		s.cursor = s.nextField(s.cursor)
	case "enter", " ":
		return s.activate()
	}
	return s, nil
}

func (s *SetupScreen) updateEditing(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter":
			if n, err := s.input.NumericValue(); err == nil && n > 0 {
				s.session.UpdateSettings(func(set *mcq.Settings) { set.BlockSize = n })
			}
			s.editing = false
			return s, nil
		case "esc":
			s.editing = false
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *SetupScreen) activate() (screen.Screen, tea.Cmd) {
	switch s.cursor {
	case fieldBlockSize:
		s.editing = true
		return s, s.input.Init()
	case fieldShuffleBlocks:
		s.session.UpdateSettings(func(set *mcq.Settings) { set.ShuffleEnabled = !set.ShuffleEnabled })
	case fieldShuffleOptions:
		s.session.UpdateSettings(func(set *mcq.Settings) { set.ShuffleQuestionEnabled = !set.ShuffleQuestionEnabled })
	case fieldAIAugment:
		if s.session.AIAvailable() {
			s.session.UpdateSettings(func(set *mcq.Settings) { set.AllowAIAugment = !set.AllowAIAugment })
		}
	case fieldAIExplain:
		if s.session.AIAvailable() {
			s.session.UpdateSettings(func(set *mcq.Settings) { set.AllowAIExplain = !set.AllowAIExplain })
		}
	case fieldStart:
		s.session.Start(context.Background())
	}
	return s, nil
}

// prevField and nextField skip the AI rows when no provider is wired.
func (s *SetupScreen) prevField(from int) int {
	for i := from - 1; i >= 0; i-- {
		if s.fieldEnabled(i) {
			return i
		}
	}
	return from
}

func (s *SetupScreen) nextField(from int) int {
	for i := from + 1; i < fieldCount; i++ {
		if s.fieldEnabled(i) {
			return i
		}
	}
	return from
}

func (s *SetupScreen) fieldEnabled(i int) bool {
	if i == fieldAIAugment || i == fieldAIExplain {
		return s.session.AIAvailable()
	}
	return true
}

func (s *SetupScreen) View(width, height int) string {
	pool := s.session.Pool()
	set := s.session.Settings()
	cw := components.ContentWidth(width)

	var b strings.Builder

	title := "Sin título"
	if pool != nil && pool.Title != "" {
		title = pool.Title
	}
	b.WriteString(theme.Title.Width(cw-6).Render(title) + "\n")
	b.WriteString(theme.Subtitle.Width(cw-6).Render(fmt.Sprintf(
		"%d preguntas (%d base, %d IA) · %d bloques",
		s.session.Total(), s.session.BaseCount(), s.session.AICount(), s.session.BlockCount(),
	)) + "\n\n")

	b.WriteString(s.renderField(fieldBlockSize, "Tamaño de bloque", s.blockSizeValue(set)))
	b.WriteString(s.renderField(fieldShuffleBlocks, "Barajar preguntas", onOff(set.ShuffleEnabled)))
	b.WriteString(s.renderField(fieldShuffleOptions, "Barajar opciones", onOff(set.ShuffleQuestionEnabled)))

	if s.session.AIAvailable() {
		b.WriteString(s.renderField(fieldAIAugment, "Ampliar con IA", onOff(set.AllowAIAugment)))
		b.WriteString(s.renderField(fieldAIExplain, "Explicaciones IA", onOff(set.AllowAIExplain)))
	} else {
		b.WriteString(theme.Hint.Render("  IA no disponible (sin clave de API)") + "\n")
	}

	b.WriteString("\n")
	b.WriteString(components.NewButton("Empezar quiz", s.cursor == fieldStart, nil).View())

	return components.CenteredPanel(b.String(), cw, width, height)
}

func (s *SetupScreen) blockSizeValue(set mcq.Settings) string {
	if s.editing {
		return s.input.View()
	}
	return fmt.Sprintf("%d", set.BlockSize)
}

func (s *SetupScreen) renderField(field int, label, value string) string {
	cursor := "  "
	style := theme.Body
	if s.cursor == field {
		cursor = "▸ "
		style = theme.Selected
	}
	labelStyled := style.Render(fmt.Sprintf("%s%-22s", cursor, label))
	valueStyled := lipgloss.NewStyle().Foreground(theme.Secondary).Render(value)
	return labelStyled + valueStyled + "\n"
}

func onOff(b bool) string {
	if b {
		return "sí"
	}
	return "no"
}
