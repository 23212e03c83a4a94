package mcq

// Option is a single selectable choice within a question.
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// QuestionType describes how a question is answered.
// The values match the pool file format.
type QuestionType string

const (
	// TypeSingle is a single-select question: picking an option replaces
	// the previous pick (radio semantics).
	TypeSingle QuestionType = "radio"

	// TypeMulti is a multi-select question: options toggle independently
	// (checkbox semantics).
	TypeMulti QuestionType = "checkbox"
)

// Source records where a question came from.
type Source string

const (
	// SourceBase marks a question loaded from the user's pool file.
	SourceBase Source = "base"

	// SourceGenerated marks a question synthesized by the AI tutor and
	// merged into the pool. The wire value matches the original file format.
	SourceGenerated Source = "ai"
)

// Question is a fully validated multiple-choice question.
type Question struct {
	// ID is unique within its pool.
	ID string `json:"id"`

	// Type is TypeSingle or TypeMulti.
	Type QuestionType `json:"type"`

	// Prompt is the question text shown to the user. Never empty.
	Prompt string `json:"prompt"`

	// Options holds at least 2 choices with distinct ids.
	Options []Option `json:"options"`

	// Answer is the set of correct option ids, materialized as a slice.
	// Non-empty, every entry references an id in Options. Exactly one
	// entry for TypeSingle.
	Answer []string `json:"answer"`

	// Explanation is an optional worked explanation. Empty when absent.
	Explanation string `json:"explanation,omitempty"`

	// Tags are optional free-form labels from the pool file.
	Tags []string `json:"tags,omitempty"`

	// Source is SourceBase or SourceGenerated.
	Source Source `json:"source"`
}

// Pool is the full collection of candidate questions for a quiz session.
// A Pool is never mutated after load except by appending normalized
// generated questions.
type Pool struct {
	Title     string     `json:"title,omitempty"`
	Version   string     `json:"version,omitempty"`
	Questions []Question `json:"questions"`
}

// Snapshot returns a copy of the pool whose question slice is
// independent of the original. Used to hand the pool to a background
// goroutine without holding the session lock.
func (p *Pool) Snapshot() *Pool {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Questions = append([]Question(nil), p.Questions...)
	return &cp
}

// IDSet returns the set of question ids currently in the pool. A nil
// pool has no ids.
func (p *Pool) IDSet() map[string]bool {
	if p == nil {
		return map[string]bool{}
	}
	ids := make(map[string]bool, len(p.Questions))
	for _, q := range p.Questions {
		ids[q.ID] = true
	}
	return ids
}

// HasOption reports whether the question contains an option with the given id.
func (q *Question) HasOption(id string) bool {
	for _, o := range q.Options {
		if o.ID == id {
			return true
		}
	}
	return false
}

// OptionText returns the display text for an option id, or the id itself
// when the option no longer exists.
func (q *Question) OptionText(id string) string {
	for _, o := range q.Options {
		if o.ID == id {
			return o.Text
		}
	}
	return id
}

// Settings holds the recognized quiz configuration options.
type Settings struct {
	// BlockSize is the number of questions per block. Values below 1 are
	// treated as 1 when partitioning.
	BlockSize int

	// AllowAIAugment enables fetching generated questions at quiz start.
	AllowAIAugment bool

	// AIAugmentCount is how many questions to request when augmenting.
	AIAugmentCount int

	// AllowAIExplain enables fetching explanations for mistakes when a
	// block is finished.
	AllowAIExplain bool

	// ShuffleEnabled shuffles the whole pool before partitioning into blocks.
	ShuffleEnabled bool

	// ShuffleQuestionEnabled randomizes option order per question on every
	// derivation of the active block.
	ShuffleQuestionEnabled bool
}

// DefaultSettings returns the settings a fresh session starts with.
func DefaultSettings() Settings {
	return Settings{
		BlockSize:      10,
		AIAugmentCount: 10,
		ShuffleEnabled: true,
	}
}

// AnswerMap maps a question id to the set of option ids the user currently
// has selected, materialized as a slice.
type AnswerMap map[string][]string

// ExplanationMap maps a question id to a tutor explanation.
type ExplanationMap map[string]string
