package tutor

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/quizdeck/internal/mcq"
)

const augmentSystemPrompt = `Eres un generador de preguntas de examen. Produces preguntas de opción múltiple rigurosas sobre el mismo temario que el pool de referencia.`

func buildAugmentUserMessage(pool *mcq.Pool, count int) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Genera %d preguntas MCQ en JSON PURO (array).\n", count))
	b.WriteString(`Esquema por item: { "id": string, "type": "radio"|"checkbox", "prompt": string, ` +
		`"options": [{"id": string, "text": string}, ...], "answer": [string], "explanation"?: string }.` + "\n")
	b.WriteString("No repitas IDs, cuida rigor técnico y claridad.\n")
	b.WriteString("Pool base:\n")
	b.WriteString(marshalTruncated(pool))

	return b.String()
}

const explainSystemPrompt = `Eres tutor. Explica SOLO las preguntas que el alumno respondió incorrectamente.`

func buildExplainUserMessage(questions []mcq.Question, mistakes []mcq.Result) string {
	var b strings.Builder

	b.WriteString(`Devuelve JSON con shape: { "explanations": { [questionId: string]: string } }.` + "\n")
	b.WriteString("Haz la explicación breve, clara y enfocada en por qué la respuesta correcta lo es.\n")
	b.WriteString("Preguntas del bloque:\n")
	b.WriteString(marshalTruncated(questions))
	b.WriteString("\nErrores del alumno:\n")
	b.WriteString(marshalTruncated(mistakePayload(mistakes)))

	return b.String()
}

type mistakeItem struct {
	ID      string   `json:"id"`
	Chosen  []string `json:"chosen"`
	Correct []string `json:"correct"`
}

func mistakePayload(mistakes []mcq.Result) []mistakeItem {
	items := make([]mistakeItem, 0, len(mistakes))
	for _, m := range mistakes {
		items = append(items, mistakeItem{ID: m.ID, Chosen: m.Chosen, Correct: m.Correct})
	}
	return items
}

// marshalTruncated serializes v and clips it to poolPromptLimit bytes.
// Truncation can cut mid-value; the model only needs the material as
// style and topic reference, not as parseable JSON.
func marshalTruncated(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	if len(data) > poolPromptLimit {
		data = data[:poolPromptLimit]
	}
	return string(data)
}
