// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"google.golang.org/genai"
)

// DefaultMaxLLMCalls is the default limit on the total number of llm calls.
const DefaultMaxLLMCalls = 500

// StreamingMode is the streaming mode.
type StreamingMode int

const (
	StreamingModeNone StreamingMode = iota
	StreamingModeSSE
	StreamingModeBidi
)

// String returns a string representation of the StreamingMode.
func (mode StreamingMode) String() string {
	switch mode {
	case StreamingModeNone:
		return "None"
	case StreamingModeSSE:
		return "sse"
	case StreamingModeBidi:
		return "bidi"
	}
	return ""
}

// RunConfig represents configs for runtime behavior of agents.
type RunConfig struct {
	// Speech configuration for the live agent.
	SpeechConfig *genai.SpeechConfig

	// The output modalities. If not set, it's default to AUDIO.
	ResponseModalities []genai.Modality

	// Whether or not to save the input blobs as artifacts.
	SaveInputBlobsAsArtifacts bool

	// Whether or not to persist live model audio that arrives by file uri.
	// Inline live audio blobs are never persisted regardless of this flag.
	SaveLiveAudio bool

	// Streaming mode.
	StreamingMode StreamingMode

	// Output transcription for live agents with audio response.
	OutputAudioTranscription *genai.AudioTranscriptionConfig

	// Input transcription for live agents with audio input from user.
	InputAudioTranscription *genai.AudioTranscriptionConfig

	// CustomMetadata is attached to every event of the run. Event-level
	// metadata of the same key wins over the run-level value.
	CustomMetadata map[string]any

	// A limit on the total number of llm calls for a given run.
	MaxLLMCalls int
}

// ResumabilityConfig declares whether an app supports pausing and resuming
// invocations.
type ResumabilityConfig struct {
	// IsResumable allows invocations of this app to be paused on long-running
	// function calls and resumed later by invocation id.
	IsResumable bool
}

// EventsCompactionConfig configures the sliding-window event compaction that
// runs at the end of each invocation.
type EventsCompactionConfig struct {
	// CompactionInterval is the number of complete user-initiated invocations
	// covered by one compaction window.
	CompactionInterval int

	// OverlapSize is the number of preceding invocations included for
	// continuity with the previous window.
	OverlapSize int
}
