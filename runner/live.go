// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package runner

import (
	"context"
	"iter"
	"slices"
	"strings"

	"google.golang.org/genai"

	"github.com/go-a2a/agentcore/types"
)

func isToolCallOrResponse(event *types.Event) bool {
	return len(event.GetFunctionCalls()) > 0 || len(event.GetFunctionResponses()) > 0
}

func isTranscriptionEvent(event *types.Event) bool {
	return event.LLMResponse != nil &&
		(event.InputTranscription != nil || event.OutputTranscription != nil)
}

func hasTranscriptionText(t *genai.Transcription) bool {
	return t != nil && strings.TrimSpace(t.Text) != ""
}

// isLiveAudioEventWithInlineData reports whether the event carries raw model
// audio. Such events are yielded to the caller but kept out of the session
// log; audio referenced by file uri is persisted normally.
func isLiveAudioEventWithInlineData(event *types.Event) bool {
	if event.LLMResponse == nil || event.Content == nil {
		return false
	}
	for _, part := range event.Content.Parts {
		if part.InlineData != nil && strings.HasPrefix(part.InlineData.MIMEType, "audio/") {
			return true
		}
	}
	return false
}

// transcriptionBuffer enforces the live-mode ordering invariant: no tool-call
// or tool-response event is persisted while a transcription is in progress.
// One buffer exists per RunLive invocation.
type transcriptionBuffer struct {
	isTranscribing bool
	pending        []*types.Event
}

// bufferIfTranscribing updates the transcribing flag from the event and
// reports whether the event was held back for later persistence. Buffered
// events are appended, in arrival order, after the transcription finishes.
func (b *transcriptionBuffer) bufferIfTranscribing(event *types.Event) bool {
	if event.IsPartial() && isTranscriptionEvent(event) {
		b.isTranscribing = true
	}
	if b.isTranscribing && isToolCallOrResponse(event) {
		b.pending = append(b.pending, event)
		return true
	}
	return false
}

// persist appends a non-partial live event to the session. A final
// transcription with non-blank text ends the transcription and drains the
// buffered tool events in FIFO order; a blank one does not.
func (b *transcriptionBuffer) persist(ctx context.Context, r *Runner, session types.Session, event *types.Event) error {
	final := isTranscriptionEvent(event) &&
		(hasTranscriptionText(event.InputTranscription) || hasTranscriptionText(event.OutputTranscription))

	if !final {
		if r.shouldAppendEvent(event, true) {
			return r.appendEvent(ctx, session, event)
		}
		return nil
	}

	b.isTranscribing = false
	if r.shouldAppendEvent(event, true) {
		if err := r.appendEvent(ctx, session, event); err != nil {
			return err
		}
	}
	for _, buffered := range b.pending {
		if err := r.appendEvent(ctx, session, buffered); err != nil {
			return err
		}
	}
	b.pending = nil

	return nil
}

// RunLive runs the agent in live (bidirectional streaming) mode.
//
// Not every yielded event is persisted: raw model audio blobs are yielded but
// never stored, and tool events arriving during a transcription are persisted
// only after the transcription finishes (see the transcription buffer).
func (r *Runner) RunLive(ctx context.Context, userID, sessionID string, queue *types.LiveRequestQueue, runConfig *types.RunConfig) iter.Seq2[*types.Event, error] {
	return func(yield func(*types.Event, error) bool) {
		runConfig := defaultedRunConfig(runConfig)
		// Native audio models require the modality to be set.
		if len(runConfig.ResponseModalities) == 0 {
			runConfig.ResponseModalities = []genai.Modality{genai.ModalityAudio}
		}

		session, err := r.sessionService.GetSession(ctx, r.appName, userID, sessionID, nil)
		if err != nil {
			yield(nil, err)
			return
		}
		if session == nil {
			yield(nil, r.sessionNotFoundError(sessionID))
			return
		}

		// A live multi-agent tree needs text transcriptions as context for
		// transferred agents.
		if len(r.agent.SubAgents()) > 0 && queue != nil {
			if slices.Contains(runConfig.ResponseModalities, genai.ModalityAudio) && runConfig.OutputAudioTranscription == nil {
				runConfig.OutputAudioTranscription = &genai.AudioTranscriptionConfig{}
			}
			if runConfig.InputAudioTranscription == nil {
				runConfig.InputAudioTranscription = &genai.AudioTranscriptionConfig{}
			}
		}

		ictx := r.newInvocationContext(session,
			types.WithLiveRequestQueue(queue),
			types.WithRunConfig(runConfig),
		)
		ictx.Agent = r.findAgentToRun(session, r.agent)

		execute := func(ic *types.InvocationContext) iter.Seq2[*types.Event, error] {
			return ic.Agent.RunLive(ctx, ic)
		}
		for event, err := range r.execWithPlugins(ctx, ictx, session, execute, true) {
			if !yield(event, err) {
				return
			}
			if err != nil {
				return
			}
		}
	}
}
