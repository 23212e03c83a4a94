package session

import "github.com/abhisek/quizdeck/internal/mcq"

// Phase returns the current lifecycle phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Settings returns the current settings.
func (s *Session) Settings() mcq.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// Pool returns the loaded pool, nil before any load.
func (s *Session) Pool() *mcq.Pool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pool
}

// Total returns the number of questions in the pool.
func (s *Session) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pool == nil {
		return 0
	}
	return len(s.pool.Questions)
}

// AICount returns how many pool questions were AI-generated.
func (s *Session) AICount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.aiCountLocked()
}

// BaseCount returns how many pool questions came from the loaded file.
func (s *Session) BaseCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pool == nil {
		return 0
	}
	return len(s.pool.Questions) - s.aiCountLocked()
}

func (s *Session) aiCountLocked() int {
	if s.pool == nil {
		return 0
	}
	n := 0
	for _, q := range s.pool.Questions {
		if q.Source == mcq.SourceGenerated {
			n++
		}
	}
	return n
}

// BlockCount returns how many blocks the current layout has.
func (s *Session) BlockCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.blocks)
}

// CurrentBlock returns the zero-based index of the active block.
func (s *Session) CurrentBlock() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentBlock
}

// ActiveQuestions returns the questions of the active block. When the
// option shuffle setting is on, each call re-deals every question's
// options; the stored pool is never touched.
func (s *Session) ActiveQuestions() []mcq.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeQuestionsLocked()
}

func (s *Session) activeQuestionsLocked() []mcq.Question {
	if s.currentBlock < 0 || s.currentBlock >= len(s.blocks) {
		return nil
	}
	block := s.blocks[s.currentBlock]
	if !s.settings.ShuffleQuestionEnabled {
		return append([]mcq.Question(nil), block...)
	}
	out := make([]mcq.Question, len(block))
	for i, q := range block {
		q.Options = mcq.ShuffledOptions(q, s.rng)
		out[i] = q
	}
	return out
}

// Answers returns a copy of the answer map.
func (s *Session) Answers() mcq.AnswerMap {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(mcq.AnswerMap, len(s.answers))
	for id, chosen := range s.answers {
		out[id] = append([]string(nil), chosen...)
	}
	return out
}

// Chosen returns the currently selected option ids for one question.
func (s *Session) Chosen(questionID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.answers[questionID]...)
}

// Explanations returns the AI explanations keyed by question id, if any
// have arrived for the active results.
func (s *Session) Explanations() mcq.ExplanationMap {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(mcq.ExplanationMap, len(s.explanations))
	for id, text := range s.explanations {
		out[id] = text
	}
	return out
}

// GradeActive grades the active block against the current answers.
func (s *Session) GradeActive() []mcq.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gradeLocked(s.activeQuestionsLocked())
}

// GradeAll grades every question in the pool, visited or not. This is
// the final screen's aggregate.
func (s *Session) GradeAll() []mcq.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pool == nil {
		return nil
	}
	return s.gradeLocked(s.pool.Questions)
}

func (s *Session) gradeLocked(questions []mcq.Question) []mcq.Result {
	return mcq.Grade(questions, s.answers)
}
