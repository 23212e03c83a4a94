package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// RequestRecord captures one LLM request for the event log.
type RequestRecord struct {
	Provider     string
	Model        string
	Purpose      string
	LatencyMs    int64
	Success      bool
	InputTokens  int
	OutputTokens int
	RequestBody  string
	ResponseBody string
	ErrorMessage string
}

// RequestLog receives a record for every LLM request. Implemented by the
// sqlite event store; a nil log disables recording.
type RequestLog interface {
	AppendLLMRequest(ctx context.Context, rec RequestRecord) error
}

// LoggingProvider is a decorator that records every request. It also
// accumulates session token usage for the final screen.
type LoggingProvider struct {
	inner    Provider
	provider string
	log      RequestLog
	usage    *UsageTracker
}

// WithLogging wraps a Provider with request recording. provider is the
// backend name ("anthropic", "openai", ...) stored alongside the model.
// log may be nil, in which case only the in-memory usage totals are kept.
func WithLogging(p Provider, provider string, log RequestLog) *LoggingProvider {
	return &LoggingProvider{inner: p, provider: provider, log: log, usage: NewUsageTracker()}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	resp, err := l.inner.Generate(ctx, req)

	rec := RequestRecord{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: serializeRequest(req),
	}
	if resp != nil {
		rec.InputTokens = resp.Usage.InputTokens
		rec.OutputTokens = resp.Usage.OutputTokens
		rec.Model = resp.Model
		rec.ResponseBody = string(resp.Content)
		l.usage.Add(resp.Model, resp.Usage)
	}
	if err != nil {
		rec.ErrorMessage = err.Error()
	}

	// Recording must never fail the request itself.
	if l.log != nil {
		if logErr := l.log.AppendLLMRequest(ctx, rec); logErr != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to record LLM request: %v\n", logErr)
		}
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// Usage returns the tracker accumulating this provider's token totals.
func (l *LoggingProvider) Usage() *UsageTracker {
	return l.usage
}

// serializeRequest builds a readable representation of the request for the
// event log.
func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}

	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}

	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}

	return b.String()
}
