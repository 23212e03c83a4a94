package mcq

import "math/rand/v2"

// BuildBlocks partitions the pool's questions into presentation blocks.
// A nil pool yields no blocks. With ShuffleEnabled the whole list is
// uniformly permuted (Fisher–Yates via rand.Shuffle) before partitioning;
// the pool itself is never mutated. Block size is max(1, BlockSize) and the
// final block may be shorter.
func BuildBlocks(p *Pool, s Settings, rng *rand.Rand) [][]Question {
	if p == nil {
		return nil
	}

	list := p.Questions
	if s.ShuffleEnabled {
		list = shuffled(list, rng)
	}

	size := s.BlockSize
	if size < 1 {
		size = 1
	}

	var blocks [][]Question
	for i := 0; i < len(list); i += size {
		end := min(i+size, len(list))
		blocks = append(blocks, list[i:end])
	}
	return blocks
}

// ShuffledOptions returns a fresh independent permutation of a question's
// options for display. The stored question is not touched.
func ShuffledOptions(q Question, rng *rand.Rand) []Option {
	return shuffled(q.Options, rng)
}

func shuffled[T any](in []T, rng *rand.Rand) []T {
	out := make([]T, len(in))
	copy(out, in)
	swap := func(i, j int) { out[i], out[j] = out[j], out[i] }
	if rng != nil {
		rng.Shuffle(len(out), swap)
	} else {
		rand.Shuffle(len(out), swap)
	}
	return out
}
