package session

import (
	"context"

	"github.com/abhisek/quizdeck/internal/mcq"
)

// startAugmentLocked dispatches a background question-generation
// request. Caller holds the lock. A request already in flight wins; the
// new trigger is dropped.
func (s *Session) startAugmentLocked(ctx context.Context) {
	if s.aiBusy {
		return
	}
	s.aiBusy = true
	identity := s.identity
	pool := s.pool.Snapshot()
	count := s.settings.AIAugmentCount

	go func() {
		payload, err := s.tutor.Augment(ctx, pool, count)

		s.mu.Lock()
		defer s.mu.Unlock()

		if s.identity != identity {
			// Session was reset or reloaded while the request was out.
			return
		}
		s.aiBusy = false

		if err != nil {
			logSwallowed("augment", err)
			s.notifyLocked()
			return
		}

		extras := mcq.NormalizeGenerated(s.pool, payload)
		if len(extras) > 0 {
			s.pool.Questions = append(s.pool.Questions, extras...)
			s.rebuildBlocks()
		}
		s.notifyLocked()
	}()
}

// startExplainLocked grades the active block and, when mistakes exist,
// dispatches a background explanation request. Caller holds the lock.
func (s *Session) startExplainLocked(ctx context.Context) {
	if s.aiBusy {
		return
	}

	questions := s.activeQuestionsLocked()
	results := s.gradeLocked(questions)
	mistakes := mcq.Mistakes(results)
	if len(mistakes) == 0 {
		return
	}

	s.aiBusy = true
	identity := s.identity

	go func() {
		explanations, err := s.tutor.Explain(ctx, questions, mistakes)

		s.mu.Lock()
		defer s.mu.Unlock()

		if s.identity != identity {
			return
		}
		s.aiBusy = false

		if err != nil {
			logSwallowed("explain", err)
			s.notifyLocked()
			return
		}

		next := make(map[string]string, len(explanations))
		for id, text := range explanations {
			next[id] = text
		}
		s.explanations = next
		s.notifyLocked()
	}()
}

// AIBusy reports whether an augment or explain request is in flight.
func (s *Session) AIBusy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.aiBusy
}

// AIAvailable reports whether a tutor service is wired in at all.
func (s *Session) AIAvailable() bool {
	return s.tutor != nil
}
