package mcq

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NormalizeGenerated turns raw tutor output into validated questions ready
// to append to the pool. It accepts the three shapes the AI boundary can
// produce: a bare array of question-like objects, {"questions": [...]}, or
// {"raw": "..."} where the string embeds a JSON array. Malformed items are
// dropped, never an error. Accepted items keep their relative input order,
// are tagged SourceGenerated, and receive ids that collide neither with the
// existing pool nor with each other.
func NormalizeGenerated(existing *Pool, raw json.RawMessage) []Question {
	items := extractItems(raw)
	if len(items) == 0 {
		return nil
	}

	reserved := existing.IDSet()
	now := time.Now().UnixMilli()

	var out []Question
	for idx, item := range items {
		q, ok := coerceGenerated(item, idx, now, reserved)
		if !ok {
			continue
		}
		out = append(out, q)
	}
	return out
}

// rawItem is one candidate question before coercion. Loose types: the tutor
// output is untrusted, so every field is re-checked.
type rawItem struct {
	ID          any   `json:"id"`
	Type        any   `json:"type"`
	Prompt      any   `json:"prompt"`
	Options     []any `json:"options"`
	Answer      any   `json:"answer"`
	Explanation any   `json:"explanation"`
}

// extractItems locates the candidate array inside any of the accepted shapes.
func extractItems(raw json.RawMessage) []rawItem {
	var items []rawItem
	if err := json.Unmarshal(raw, &items); err == nil {
		return items
	}

	var wrapper struct {
		Questions []rawItem `json:"questions"`
		Raw       *string   `json:"raw"`
	}
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil
	}
	if len(wrapper.Questions) > 0 {
		return wrapper.Questions
	}
	if wrapper.Raw != nil {
		return extractEmbeddedArray(*wrapper.Raw)
	}
	return nil
}

// extractEmbeddedArray pulls a JSON array out of free text by parsing from
// the first '[' character. Returns nil when no array can be recovered.
func extractEmbeddedArray(text string) []rawItem {
	i := strings.Index(text, "[")
	if i < 0 {
		return nil
	}
	dec := json.NewDecoder(strings.NewReader(text[i:]))
	var items []rawItem
	if err := dec.Decode(&items); err != nil {
		return nil
	}
	return items
}

// coerceGenerated maps one untrusted item into a Question. Returns false
// when the item must be discarded. The chosen id is reserved immediately so
// later items in the batch cannot reuse it; a reservation made for an item
// that is later rejected stays reserved (acceptable waste).
func coerceGenerated(item rawItem, idx int, batchStamp int64, reserved map[string]bool) (Question, bool) {
	baseID := fmt.Sprintf("ai-%d-%d", batchStamp, idx)
	if s, ok := item.ID.(string); ok && strings.TrimSpace(s) != "" {
		baseID = strings.TrimSpace(s)
	}
	id := baseID
	for n := 1; reserved[id]; n++ {
		id = fmt.Sprintf("%s-%d", baseID, n)
	}
	reserved[id] = true

	options := coerceOptions(item.Options)

	var answer []string
	if arr, ok := item.Answer.([]any); ok {
		for _, a := range arr {
			answer = append(answer, stringify(a))
		}
	}

	prompt := ""
	if s, ok := item.Prompt.(string); ok {
		prompt = strings.TrimSpace(s)
	}
	if prompt == "" {
		prompt = fmt.Sprintf("Pregunta generada #%d", idx+1)
	}

	qtype := TypeSingle
	if s, ok := item.Type.(string); ok && coerceType(s) == TypeMulti {
		qtype = TypeMulti
	}

	explanation := ""
	if s, ok := item.Explanation.(string); ok {
		explanation = s
	}

	q := Question{
		ID:          id,
		Type:        qtype,
		Prompt:      prompt,
		Options:     options,
		Answer:      answer,
		Explanation: explanation,
		Source:      SourceGenerated,
	}
	if validateQuestion(&q) != "" {
		return Question{}, false
	}
	return q, true
}

// coerceOptions keeps only object entries, fills missing ids and texts with
// positional placeholders, and drops options whose text ends up empty.
func coerceOptions(raw []any) []Option {
	var out []Option
	for j, entry := range raw {
		// Non-object entries still yield a placeholder option, matching the
		// tolerant coercion of the original pipeline.
		obj, _ := entry.(map[string]any)
		o := Option{
			ID:   fmt.Sprintf("opt-%d", j),
			Text: fmt.Sprintf("Opción %d", j+1),
		}
		if v, exists := obj["id"]; exists && v != nil {
			o.ID = stringify(v)
		}
		if v, exists := obj["text"]; exists && v != nil {
			o.Text = stringify(v)
		}
		if o.Text == "" {
			continue
		}
		out = append(out, o)
	}
	return out
}

// stringify renders a JSON scalar the way the original pipeline did: the
// value itself for strings, a compact literal otherwise.
func stringify(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	case nil:
		return ""
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
