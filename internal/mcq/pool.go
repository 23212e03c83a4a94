package mcq

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// poolSchema is the JSON schema an uploaded pool document must satisfy.
// It only constrains the document skeleton; per-question checks happen in
// validateBase so that individual bad questions can be dropped instead of
// failing the whole file.
const poolSchema = `{
	"type": "object",
	"properties": {
		"title": {"type": "string"},
		"version": {"type": "string"},
		"questions": {"type": "array", "items": {"type": "object"}}
	},
	"required": ["questions"]
}`

var (
	compiledPoolSchema *jsonschema.Schema
	poolSchemaOnce     sync.Once
	poolSchemaErr      error
)

func getPoolSchema() (*jsonschema.Schema, error) {
	poolSchemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(poolSchema))
		if err != nil {
			poolSchemaErr = err
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("pool.json", doc); err != nil {
			poolSchemaErr = err
			return
		}
		compiledPoolSchema, poolSchemaErr = c.Compile("pool.json")
	})
	return compiledPoolSchema, poolSchemaErr
}

// filePool mirrors the pool file format. Questions are held raw so a single
// malformed question cannot fail the whole document.
type filePool struct {
	Title     string            `json:"title"`
	Version   string            `json:"version"`
	Questions []json.RawMessage `json:"questions"`
}

// fileQuestion mirrors one question entry in the pool file.
type fileQuestion struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Prompt      string   `json:"prompt"`
	Options     []Option `json:"options"`
	Answer      []string `json:"answer"`
	Explanation string   `json:"explanation"`
	Tags        []string `json:"tags"`
}

// LoadPool parses a pool document. A syntactically invalid document or one
// missing the questions array is an error; individual questions that fail
// structural validation are dropped with a warning on the dropped list.
// Every surviving question is tagged SourceBase.
func LoadPool(r io.Reader) (*Pool, []string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("read pool: %w", err)
	}

	// Schema check gives a clearer error than unmarshal for shape problems.
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("parse pool: %w", err)
	}
	schema, err := getPoolSchema()
	if err != nil {
		return nil, nil, fmt.Errorf("compile pool schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, nil, fmt.Errorf("invalid pool document: %w", err)
	}

	var fp filePool
	if err := json.Unmarshal(data, &fp); err != nil {
		return nil, nil, fmt.Errorf("parse pool: %w", err)
	}

	pool := &Pool{Title: fp.Title, Version: fp.Version}
	var dropped []string
	seen := make(map[string]bool, len(fp.Questions))

	for i, raw := range fp.Questions {
		var fq fileQuestion
		if err := json.Unmarshal(raw, &fq); err != nil {
			dropped = append(dropped, fmt.Sprintf("question %d: %v", i+1, err))
			continue
		}
		q := Question{
			ID:          strings.TrimSpace(fq.ID),
			Type:        coerceType(fq.Type),
			Prompt:      strings.TrimSpace(fq.Prompt),
			Options:     fq.Options,
			Answer:      fq.Answer,
			Explanation: fq.Explanation,
			Tags:        fq.Tags,
			Source:      SourceBase,
		}
		if reason := validateQuestion(&q); reason != "" {
			dropped = append(dropped, fmt.Sprintf("question %d (%s): %s", i+1, q.ID, reason))
			continue
		}
		if seen[q.ID] {
			dropped = append(dropped, fmt.Sprintf("question %d (%s): duplicate id", i+1, q.ID))
			continue
		}
		seen[q.ID] = true
		pool.Questions = append(pool.Questions, q)
	}

	return pool, dropped, nil
}

// LoadPoolFile reads and parses a pool document from disk, logging dropped
// questions to stderr.
func LoadPoolFile(path string) (*Pool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pool file: %w", err)
	}
	defer f.Close()

	pool, dropped, err := LoadPool(f)
	if err != nil {
		return nil, err
	}
	for _, d := range dropped {
		fmt.Fprintf(os.Stderr, "warning: dropped %s\n", d)
	}
	return pool, nil
}

// coerceType maps the aliases seen in pool files onto the canonical types. Anything
// that is not explicitly multi-select becomes single-select.
func coerceType(t string) QuestionType {
	switch t {
	case string(TypeMulti), "multi-select":
		return TypeMulti
	default:
		return TypeSingle
	}
}

// validateQuestion applies the structural rules every pool question must
// meet, for base and generated questions alike. Returns a human-readable
// reason when the question must be dropped, or "" when it is acceptable.
func validateQuestion(q *Question) string {
	if q.ID == "" {
		return "empty id"
	}
	if q.Prompt == "" {
		return "empty prompt"
	}
	if len(q.Options) < 2 {
		return "fewer than 2 options"
	}
	optIDs := make(map[string]bool, len(q.Options))
	for _, o := range q.Options {
		if optIDs[o.ID] {
			return fmt.Sprintf("duplicate option id %q", o.ID)
		}
		optIDs[o.ID] = true
	}
	if len(q.Answer) < 1 {
		return "empty answer"
	}
	for _, a := range q.Answer {
		if !optIDs[a] {
			return fmt.Sprintf("answer id %q has no matching option", a)
		}
	}
	if q.Type == TypeSingle && len(q.Answer) != 1 {
		return "single-select question with more than one answer"
	}
	return ""
}
