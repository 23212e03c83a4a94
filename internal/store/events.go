package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/quizdeck/internal/llm"
)

// ErrNotFound is returned when a queried event does not exist.
var ErrNotFound = errors.New("store: event not found")

// Event is one row of the LLM request log.
type Event struct {
	ID           int64
	CreatedAt    time.Time
	Provider     string
	Model        string
	Purpose      string
	LatencyMS    int64
	Success      bool
	InputTokens  int64
	OutputTokens int64
	RequestBody  string
	ResponseBody string
	ErrorMessage string
}

// AppendLLMRequest records a completed provider call. It satisfies
// llm.RequestLog.
func (s *Store) AppendLLMRequest(ctx context.Context, rec llm.RequestRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO llm_events
			(created_at, provider, model, purpose, latency_ms, success,
			 input_tokens, output_tokens, request_body, response_body, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339Nano),
		rec.Provider,
		rec.Model,
		rec.Purpose,
		rec.LatencyMs,
		boolToInt(rec.Success),
		rec.InputTokens,
		rec.OutputTokens,
		rec.RequestBody,
		rec.ResponseBody,
		rec.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("insert llm event: %w", err)
	}
	return nil
}

// RecentEvents returns the most recent events, newest first. A
// non-positive limit defaults to 20.
func (s *Store) RecentEvents(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, provider, model, purpose, latency_ms, success,
		       input_tokens, output_tokens, request_body, response_body, error_message
		FROM llm_events
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query llm events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate llm events: %w", err)
	}
	return events, nil
}

// EventByID fetches a single event.
func (s *Store) EventByID(ctx context.Context, id int64) (Event, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, provider, model, purpose, latency_ms, success,
		       input_tokens, output_tokens, request_body, response_body, error_message
		FROM llm_events
		WHERE id = ?`, id)
	ev, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Event{}, ErrNotFound
	}
	return ev, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(s scanner) (Event, error) {
	var (
		ev      Event
		created string
		success int64
	)
	err := s.Scan(&ev.ID, &created, &ev.Provider, &ev.Model, &ev.Purpose,
		&ev.LatencyMS, &success, &ev.InputTokens, &ev.OutputTokens,
		&ev.RequestBody, &ev.ResponseBody, &ev.ErrorMessage)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Event{}, err
		}
		return Event{}, fmt.Errorf("scan llm event: %w", err)
	}
	ev.Success = success != 0
	if t, perr := time.Parse(time.RFC3339Nano, created); perr == nil {
		ev.CreatedAt = t
	}
	return ev, nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
