// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package runner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"google.golang.org/genai"

	"github.com/go-a2a/agentcore/types"
)

// Summarizer condenses a window of session events into replacement content.
type Summarizer interface {
	// Summarize returns the summary content for the events, or nil when no
	// summary could be produced. A nil summary appends nothing; the window is
	// retried at the end of the next invocation.
	Summarize(ctx context.Context, events []*types.Event) (*genai.Content, error)
}

// TextGenerator is the minimal model surface the LLM summarizer needs.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// LLMSummarizer summarizes event windows with a language model.
type LLMSummarizer struct {
	model TextGenerator
}

var _ Summarizer = (*LLMSummarizer)(nil)

// NewLLMSummarizer creates a summarizer over the given model.
func NewLLMSummarizer(model TextGenerator) *LLMSummarizer {
	return &LLMSummarizer{model: model}
}

var summarizePrompt = heredoc.Doc(`
	You are compacting a conversation transcript for long-term storage.
	Summarize the exchange below, preserving decisions, facts, names and
	unresolved questions. Reply with the summary only.

	Transcript:
`)

// Summarize implements [Summarizer].
func (s *LLMSummarizer) Summarize(ctx context.Context, events []*types.Event) (*genai.Content, error) {
	var sb strings.Builder
	for _, event := range events {
		if event.LLMResponse == nil || event.Content == nil {
			continue
		}
		text := event.GetText()
		if text == "" {
			continue
		}
		fmt.Fprintf(&sb, "%s: %s\n", event.Author, text)
	}
	if sb.Len() == 0 {
		return nil, nil
	}

	summary, err := s.model.GenerateText(ctx, summarizePrompt+sb.String())
	if err != nil {
		return nil, fmt.Errorf("summarize events: %w", err)
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return nil, nil
	}

	return genai.NewContentFromText(summary, genai.RoleModel), nil
}

// invocationSpan is the contiguous index range of one invocation's events.
type invocationSpan struct {
	id         string
	start, end int
}

// runCompaction applies the sliding-window compaction strategy at the end of
// an invocation: once CompactionInterval complete user-initiated invocations
// accumulated since the previous compaction, their events plus OverlapSize
// preceding invocations are summarized into a single compaction event
// authored "user". A failed or empty summary appends nothing and the window
// is retried after the next invocation.
func (r *Runner) runCompaction(ctx context.Context, session types.Session) error {
	if r.compaction == nil || r.compaction.CompactionInterval <= 0 || r.summarizer == nil {
		return nil
	}

	events := session.Events()

	var lastCompactedEnd time.Time
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Actions != nil && events[i].Actions.Compaction != nil {
			lastCompactedEnd = events[i].Actions.Compaction.EndTimestamp
			break
		}
	}

	spans := collectInvocationSpans(events)

	// User-initiated invocations newer than the previous compaction window.
	var candidates []int
	for i, span := range spans {
		if events[span.start].Author != "user" {
			continue
		}
		if !lastCompactedEnd.IsZero() && !events[span.start].Timestamp.After(lastCompactedEnd) {
			continue
		}
		candidates = append(candidates, i)
	}
	if len(candidates) < r.compaction.CompactionInterval {
		return nil
	}

	selected := candidates[len(candidates)-r.compaction.CompactionInterval:]
	first := selected[0] - r.compaction.OverlapSize
	if first < 0 {
		first = 0
	}
	window := events[spans[first].start : spans[selected[len(selected)-1]].end+1]

	content, err := r.summarizer.Summarize(ctx, window)
	if err != nil {
		r.logger.WarnContext(ctx, "event summarization failed, retrying next invocation",
			slog.String("session_id", session.ID()),
			slog.Any("error", err),
		)
		return nil
	}
	if content == nil {
		return nil
	}

	compactionEvent := types.NewEvent().
		WithAuthor("user").
		WithInvocationID(types.NewInvocationContextID()).
		WithActions(types.NewEventActions().WithCompaction(&types.EventCompaction{
			StartTimestamp:   window[0].Timestamp,
			EndTimestamp:     window[len(window)-1].Timestamp,
			CompactedContent: content,
		}))

	return r.appendEvent(ctx, session, compactionEvent)
}

// collectInvocationSpans groups events into per-invocation index ranges,
// ordered by first appearance. Compaction events are not invocations.
func collectInvocationSpans(events []*types.Event) []invocationSpan {
	var spans []invocationSpan
	index := make(map[string]int)

	for i, event := range events {
		if event.InvocationID == "" {
			continue
		}
		if event.Actions != nil && event.Actions.Compaction != nil {
			continue
		}
		if j, ok := index[event.InvocationID]; ok {
			spans[j].end = i
			continue
		}
		index[event.InvocationID] = len(spans)
		spans = append(spans, invocationSpan{id: event.InvocationID, start: i, end: i})
	}

	return spans
}
