package mcq

import (
	"math"
	"sort"
)

// Result is the graded outcome for one question.
type Result struct {
	ID        string
	IsCorrect bool
	Chosen    []string
	Correct   []string
}

// Grade compares each question's answer set against the user's chosen set.
// A question is correct iff the two sets are exactly equal; there is no
// partial credit. Output order follows the input questions. Chosen and
// Correct are returned sorted for stable display and comparison.
func Grade(questions []Question, answers AnswerMap) []Result {
	results := make([]Result, 0, len(questions))
	for _, q := range questions {
		chosen := toSet(answers[q.ID])
		correct := toSet(q.Answer)

		ok := len(chosen) == len(correct)
		if ok {
			for id := range correct {
				if !chosen[id] {
					ok = false
					break
				}
			}
		}

		results = append(results, Result{
			ID:        q.ID,
			IsCorrect: ok,
			Chosen:    sortedKeys(chosen),
			Correct:   sortedKeys(correct),
		})
	}
	return results
}

// Summary aggregates graded results for a block or the whole pool.
type Summary struct {
	Score      int
	Total      int
	Percentage int
}

// Summarize counts correct results and computes the rounded percentage.
// An empty result set yields 0%.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if r.IsCorrect {
			s.Score++
		}
	}
	if s.Total > 0 {
		s.Percentage = int(math.Round(100 * float64(s.Score) / float64(s.Total)))
	}
	return s
}

// Mistakes filters graded results down to the incorrect ones.
func Mistakes(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.IsCorrect {
			out = append(out, r)
		}
	}
	return out
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
