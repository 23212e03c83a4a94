package mcq

import (
	"fmt"
	"math/rand/v2"
	"testing"
)

func poolOfSize(n int) *Pool {
	p := &Pool{}
	for i := 0; i < n; i++ {
		p.Questions = append(p.Questions, Question{
			ID:     fmt.Sprintf("q%d", i+1),
			Type:   TypeSingle,
			Prompt: fmt.Sprintf("Pregunta %d", i+1),
			Options: []Option{
				{ID: "a", Text: "A"},
				{ID: "b", Text: "B"},
			},
			Answer: []string{"a"},
			Source: SourceBase,
		})
	}
	return p
}

func testRNG() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestBuildBlocks_Partition(t *testing.T) {
	tests := []struct {
		total     int
		blockSize int
		sizes     []int
	}{
		{23, 10, []int{10, 10, 3}},
		{10, 10, []int{10}},
		{9, 10, []int{9}},
		{5, 1, []int{1, 1, 1, 1, 1}},
		{4, 0, []int{1, 1, 1, 1}}, // size floors at 1
		{0, 10, nil},
	}

	for _, tt := range tests {
		blocks := BuildBlocks(poolOfSize(tt.total), Settings{BlockSize: tt.blockSize}, testRNG())
		if len(blocks) != len(tt.sizes) {
			t.Fatalf("total=%d size=%d: expected %d blocks, got %d",
				tt.total, tt.blockSize, len(tt.sizes), len(blocks))
		}
		for i, want := range tt.sizes {
			if len(blocks[i]) != want {
				t.Errorf("total=%d size=%d: block %d has %d questions, want %d",
					tt.total, tt.blockSize, i, len(blocks[i]), want)
			}
		}
	}
}

func TestBuildBlocks_NilPool(t *testing.T) {
	if blocks := BuildBlocks(nil, DefaultSettings(), testRNG()); blocks != nil {
		t.Errorf("nil pool should yield no blocks, got %d", len(blocks))
	}
}

func TestBuildBlocks_NoShuffleKeepsOrder(t *testing.T) {
	pool := poolOfSize(7)
	blocks := BuildBlocks(pool, Settings{BlockSize: 3}, testRNG())

	i := 0
	for _, block := range blocks {
		for _, q := range block {
			if q.ID != pool.Questions[i].ID {
				t.Fatalf("position %d: got %q, want %q", i, q.ID, pool.Questions[i].ID)
			}
			i++
		}
	}
}

func TestBuildBlocks_ShuffleIsPermutation(t *testing.T) {
	pool := poolOfSize(23)
	blocks := BuildBlocks(pool, Settings{BlockSize: 10, ShuffleEnabled: true}, testRNG())

	seen := make(map[string]int)
	total := 0
	for _, block := range blocks {
		for _, q := range block {
			seen[q.ID]++
			total++
		}
	}
	if total != 23 {
		t.Fatalf("expected 23 questions across blocks, got %d", total)
	}
	for _, q := range pool.Questions {
		if seen[q.ID] != 1 {
			t.Errorf("question %s appears %d times", q.ID, seen[q.ID])
		}
	}

	// Pool order must survive the shuffle of the copy.
	for i, q := range pool.Questions {
		want := fmt.Sprintf("q%d", i+1)
		if q.ID != want {
			t.Fatalf("pool mutated at %d: %q", i, q.ID)
		}
	}
}

func TestShuffledOptions_DoesNotMutate(t *testing.T) {
	q := Question{
		Options: []Option{
			{ID: "a", Text: "A"}, {ID: "b", Text: "B"},
			{ID: "c", Text: "C"}, {ID: "d", Text: "D"},
		},
	}
	rng := testRNG()
	for i := 0; i < 20; i++ {
		out := ShuffledOptions(q, rng)
		if len(out) != 4 {
			t.Fatalf("expected 4 options, got %d", len(out))
		}
	}
	want := []string{"a", "b", "c", "d"}
	for i, o := range q.Options {
		if o.ID != want[i] {
			t.Fatalf("stored options mutated: %+v", q.Options)
		}
	}
}
