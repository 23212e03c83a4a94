package tutor

// poolPromptLimit caps the serialized pool embedded in a prompt, in
// bytes. Larger pools are truncated from the end.
const poolPromptLimit = 30000

// Config holds generation settings for the tutor service.
type Config struct {
	AugmentMaxTokens int
	ExplainMaxTokens int
	Temperature      float64
}

// DefaultConfig returns sensible defaults for quiz work.
func DefaultConfig() Config {
	return Config{
		AugmentMaxTokens: 4096,
		ExplainMaxTokens: 1024,
		Temperature:      0.2,
	}
}
