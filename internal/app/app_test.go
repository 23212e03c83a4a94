package app

import (
	"context"
	"fmt"
	"math/rand/v2"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizdeck/internal/mcq"
	"github.com/abhisek/quizdeck/internal/screens/quiz"
	"github.com/abhisek/quizdeck/internal/screens/results"
	"github.com/abhisek/quizdeck/internal/session"
)

// optionHeavyPool returns a pool whose single question has enough
// options that two independent shuffles almost never agree.
func optionHeavyPool() *mcq.Pool {
	opts := make([]mcq.Option, 8)
	for i := range opts {
		id := string(rune('a' + i))
		opts[i] = mcq.Option{ID: id, Text: fmt.Sprintf("Opción %s", id)}
	}
	return &mcq.Pool{
		Questions: []mcq.Question{
			{
				ID:      "q1",
				Type:    mcq.TypeSingle,
				Prompt:  "¿Cuál es la respuesta?",
				Options: opts,
				Answer:  []string{"a"},
			},
		},
	}
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func startedModel(t *testing.T) (AppModel, *quiz.QuizScreen) {
	t.Helper()

	settings := mcq.Settings{BlockSize: 10, ShuffleQuestionEnabled: true}
	sess := session.New(nil, settings, rand.New(rand.NewPCG(7, 11)))
	sess.LoadPool(optionHeavyPool())
	sess.Start(context.Background())

	// Any routed message makes the model notice the phase change.
	model, _ := newAppModel(sess, nil).Update(keyPress('x'))
	m := model.(AppModel)

	qs, ok := m.router.Active().(*quiz.QuizScreen)
	if !ok {
		t.Fatalf("expected quiz screen, got %T", m.router.Active())
	}
	return m, qs
}

func TestOptionOrderStableAcrossInput(t *testing.T) {
	m, qs := startedModel(t)
	before := qs.View(80, 40)

	// Unbound keys plus a cursor round trip; none of these may re-deal
	// the dealt option order.
	var model tea.Model = m
	for _, r := range "xxjkx" {
		model, _ = model.Update(keyPress(r))
	}

	m = model.(AppModel)
	if got := m.router.Active(); got != qs {
		t.Fatalf("quiz screen was replaced by %T", got)
	}
	if after := qs.View(80, 40); after != before {
		t.Errorf("option order changed across input\nbefore:\n%s\nafter:\n%s", before, after)
	}
}

func TestFinishBlockSwapsToResults(t *testing.T) {
	m, _ := startedModel(t)

	model, _ := m.Update(keyPress('f'))
	m = model.(AppModel)

	if _, ok := m.router.Active().(*results.ResultsScreen); !ok {
		t.Fatalf("expected results screen, got %T", m.router.Active())
	}
	if m.phase != session.PhaseResults {
		t.Errorf("phase = %v, want %v", m.phase, session.PhaseResults)
	}
}
