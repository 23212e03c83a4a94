// Package session holds the quiz state machine. A Session owns the
// pool, the user's answers, the current phase and block, and the AI
// bookkeeping; every mutation goes through its methods so the TUI and
// the background AI goroutines never race on shared state.
package session

import (
	"context"
	"encoding/json"
	"log"
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"

	"github.com/abhisek/quizdeck/internal/mcq"
)

// Phase is the quiz lifecycle stage.
type Phase int

const (
	PhaseSetup Phase = iota
	PhaseQuiz
	PhaseResults
	PhaseFinal
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "setup"
	case PhaseQuiz:
		return "quiz"
	case PhaseResults:
		return "results"
	case PhaseFinal:
		return "final"
	default:
		return "unknown"
	}
}

// Tutor is the slice of the AI service the session drives. Nil when no
// provider is configured; the AI settings are then inert.
type Tutor interface {
	Augment(ctx context.Context, pool *mcq.Pool, count int) (json.RawMessage, error)
	Explain(ctx context.Context, questions []mcq.Question, mistakes []mcq.Result) (map[string]string, error)
}

// Session is the quiz state machine. All exported methods are safe for
// concurrent use; AI completions are applied under the same lock as UI
// mutations.
type Session struct {
	mu sync.Mutex

	pool         *mcq.Pool
	settings     mcq.Settings
	initial      mcq.Settings
	answers      mcq.AnswerMap
	explanations mcq.ExplanationMap
	phase        Phase
	currentBlock int
	blocks       [][]mcq.Question

	rng   *rand.Rand
	tutor Tutor

	// aiBusy guards against a second augment/explain while one is in
	// flight; identity stamps each dispatch so completions that outlive
	// a Reset or LoadPool are discarded instead of written into the new
	// session.
	aiBusy   bool
	identity string

	notify func()
}

// New creates a session in the setup phase. initial is the settings the
// session starts with and returns to on Reset. aiTutor may be nil when
// no LLM provider is available. rng may be nil to use the global source.
func New(aiTutor Tutor, initial mcq.Settings, rng *rand.Rand) *Session {
	return &Session{
		settings:     initial,
		initial:      initial,
		answers:      mcq.AnswerMap{},
		explanations: mcq.ExplanationMap{},
		phase:        PhaseSetup,
		identity:     uuid.NewString(),
		rng:          rng,
		tutor:        aiTutor,
	}
}

// SetNotify registers a callback invoked (outside the lock) whenever an
// async AI completion lands. The TUI uses it to wake the event loop.
func (s *Session) SetNotify(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notify = fn
}

// LoadPool installs a new pool and clears all per-quiz state. Questions
// are tagged as base material; any pending AI responses for the old
// pool are invalidated.
func (s *Session) LoadPool(pool *mcq.Pool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range pool.Questions {
		pool.Questions[i].Source = mcq.SourceBase
	}
	s.pool = pool
	s.answers = mcq.AnswerMap{}
	s.explanations = mcq.ExplanationMap{}
	s.currentBlock = 0
	s.phase = PhaseSetup
	s.identity = uuid.NewString()
	s.aiBusy = false
	s.rebuildBlocks()
}

// UpdateSettings mutates the settings and rebuilds the block layout.
func (s *Session) UpdateSettings(fn func(*mcq.Settings)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(&s.settings)
	s.rebuildBlocks()
	if s.currentBlock >= len(s.blocks) {
		s.currentBlock = 0
	}
}

// Start moves from setup into the quiz. The phase change is immediate;
// when AI augmentation is enabled the generated questions arrive later
// and are appended to the pool as they land.
func (s *Session) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pool == nil || len(s.pool.Questions) == 0 {
		return
	}
	s.phase = PhaseQuiz
	s.currentBlock = 0

	if s.settings.AllowAIAugment && s.tutor != nil {
		s.startAugmentLocked(ctx)
	}
}

// Toggle records an answer change for one question. Single-select
// replaces the whole set; multi-select adds or removes the option.
func (s *Session) Toggle(questionID, optionID string, checked bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.findQuestionLocked(questionID)
	if !ok {
		return
	}

	if q.Type == mcq.TypeSingle {
		s.answers[questionID] = []string{optionID}
		return
	}

	current := s.answers[questionID]
	if checked {
		for _, id := range current {
			if id == optionID {
				return
			}
		}
		s.answers[questionID] = append(append([]string(nil), current...), optionID)
		return
	}
	next := make([]string, 0, len(current))
	for _, id := range current {
		if id != optionID {
			next = append(next, id)
		}
	}
	s.answers[questionID] = next
}

// FinishBlock moves to the results phase. When AI explanations are
// enabled and the block has mistakes, an explain request is dispatched
// in the background; the results screen shows them when they land.
func (s *Session) FinishBlock(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseQuiz {
		return
	}
	s.phase = PhaseResults

	if s.settings.AllowAIExplain && s.tutor != nil {
		s.startExplainLocked(ctx)
	}
}

// Back navigates one step backwards: results return to the same block's
// quiz, the final screen returns to the last block, and within the quiz
// it steps to the previous block.
func (s *Session) Back() {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.phase {
	case PhaseResults:
		s.phase = PhaseQuiz
	case PhaseFinal:
		s.phase = PhaseQuiz
		if n := len(s.blocks); n > 0 {
			s.currentBlock = n - 1
		}
	case PhaseQuiz:
		if s.currentBlock > 0 {
			s.currentBlock--
		}
	}
}

// Next advances from results to the next block's quiz, or to the final
// screen after the last block.
func (s *Session) Next() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseResults {
		return
	}
	if s.currentBlock < len(s.blocks)-1 {
		s.currentBlock++
		s.phase = PhaseQuiz
		return
	}
	s.phase = PhaseFinal
}

// Reset clears the whole session back to setup. Settings return to the
// values the session was created with; in-flight AI responses are
// invalidated.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pool = nil
	s.blocks = nil
	s.answers = mcq.AnswerMap{}
	s.explanations = mcq.ExplanationMap{}
	s.currentBlock = 0
	s.settings = s.initial
	s.phase = PhaseSetup
	s.identity = uuid.NewString()
	s.aiBusy = false
}

func (s *Session) rebuildBlocks() {
	s.blocks = mcq.BuildBlocks(s.pool, s.settings, s.rng)
}

func (s *Session) findQuestionLocked(id string) (mcq.Question, bool) {
	if s.pool == nil {
		return mcq.Question{}, false
	}
	for _, q := range s.pool.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return mcq.Question{}, false
}

func (s *Session) notifyLocked() {
	if s.notify != nil {
		go s.notify()
	}
}

func logSwallowed(op string, err error) {
	log.Printf("session: %s failed: %v", op, err)
}
