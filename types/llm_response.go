// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"google.golang.org/genai"
)

// LLMResponse represents a single model response chunk.
//
// It provides structured access to content, errors, and metadata from the
// model's response, and is embedded by [Event].
type LLMResponse struct {
	// Content is the content of the response.
	Content *genai.Content `json:"content,omitempty"`

	// GroundingMetadata is the grounding metadata of the response.
	GroundingMetadata *genai.GroundingMetadata `json:"groundingMetadata,omitempty"`

	// Partial indicates whether the text content is part of an unfinished
	// text stream. It is three-valued: true means a streaming fragment,
	// false or nil means final.
	Partial *bool `json:"partial,omitempty"`

	// TurnComplete indicates whether the response from the model is complete.
	// Only used for streaming mode.
	TurnComplete bool `json:"turnComplete,omitempty"`

	// ErrorCode is the error code if the response is an error. Code varies by model.
	ErrorCode string `json:"errorCode,omitempty"`

	// ErrorMessage is the error message if the response is an error.
	ErrorMessage string `json:"errorMessage,omitempty"`

	// Interrupted indicates that the model was interrupted when generating the
	// content. Usually it's due to user interruption during a bidirectional streaming.
	Interrupted bool `json:"interrupted,omitempty"`

	// InputTranscription is the transcription of the user audio input, if any.
	InputTranscription *genai.Transcription `json:"inputTranscription,omitempty"`

	// OutputTranscription is the transcription of the model audio output, if any.
	OutputTranscription *genai.Transcription `json:"outputTranscription,omitempty"`

	// UsageMetadata reports token usage for the response.
	UsageMetadata *genai.GenerateContentResponseUsageMetadata `json:"usageMetadata,omitempty"`

	// CustomMetadata is an optional key-value pair to label the response.
	// The entire map must be JSON serializable.
	CustomMetadata map[string]any `json:"customMetadata,omitempty"`
}

// IsPartial reports whether the response is a streaming fragment.
func (r *LLMResponse) IsPartial() bool {
	return r != nil && r.Partial != nil && *r.Partial
}

// IsError returns true if the response contains an error.
func (r *LLMResponse) IsError() bool {
	return r.ErrorCode != "" || r.ErrorMessage != ""
}

// WithPartial sets the partial flag and returns the response.
func (r *LLMResponse) WithPartial(partial bool) *LLMResponse {
	r.Partial = &partial
	return r
}

// WithTurnComplete sets the turn complete flag and returns the response.
func (r *LLMResponse) WithTurnComplete(complete bool) *LLMResponse {
	r.TurnComplete = complete
	return r
}

// WithInterrupted sets the interrupted flag and returns the response.
func (r *LLMResponse) WithInterrupted(interrupted bool) *LLMResponse {
	r.Interrupted = interrupted
	return r
}

// WithCustomMetadata sets the custom metadata and returns the response.
func (r *LLMResponse) WithCustomMetadata(metadata map[string]any) *LLMResponse {
	r.CustomMetadata = metadata
	return r
}

// GetText returns the concatenated text content of the response, or the empty
// string if no text part is present.
func (r *LLMResponse) GetText() string {
	if r == nil || r.Content == nil || len(r.Content.Parts) == 0 {
		return ""
	}

	text := ""
	for _, part := range r.Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}

	return text
}
