// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"time"

	"google.golang.org/genai"
)

// EventCompaction holds the result of compacting a range of session events
// into a single summary.
type EventCompaction struct {
	// StartTimestamp is the timestamp of the first event covered by the summary.
	StartTimestamp time.Time `json:"startTimestamp,omitzero"`

	// EndTimestamp is the timestamp of the last event covered by the summary.
	EndTimestamp time.Time `json:"endTimestamp,omitzero"`

	// CompactedContent is the summarised content replacing the covered events.
	CompactedContent *genai.Content `json:"compactedContent,omitempty"`
}

// EventActions represents the actions attached to an event.
type EventActions struct {
	// SkipSummarization if true, it won't call model to summarize function response.
	//
	// Only used for functionResponse event.
	SkipSummarization bool `json:"skipSummarization,omitempty"`

	// StateDelta indicates that the event is updating the state with the given delta.
	StateDelta map[string]any `json:"stateDelta,omitempty"`

	// ArtifactDelta indicates that the event is updating an artifact.
	// Key is the filename, value is the version.
	ArtifactDelta map[string]int `json:"artifactDelta,omitempty"`

	// TransferToAgent if set, the event transfers to the specified agent.
	TransferToAgent string `json:"transferToAgent,omitempty"`

	// Escalate is the agent is escalating to a higher level agent.
	Escalate bool `json:"escalate,omitempty"`

	// RequestedAuthConfigs holds authentication configurations requested by
	// tool responses, keyed by function call id.
	RequestedAuthConfigs map[string]any `json:"requestedAuthConfigs,omitempty"`

	// RequestedToolConfirmations holds tool confirmation requests keyed by
	// function call id.
	RequestedToolConfirmations map[string]any `json:"requestedToolConfirmations,omitempty"`

	// Compaction carries the summary payload replacing a range of prior
	// events. Only present on compaction events authored by "user".
	Compaction *EventCompaction `json:"compaction,omitempty"`

	// EndOfAgent indicates the author agent has fully completed its work for
	// the current invocation. Used by resumable apps.
	EndOfAgent bool `json:"endOfAgent,omitempty"`

	// AgentState is the serialized checkpoint of the author agent, replayed
	// when a paused invocation is resumed.
	AgentState map[string]any `json:"agentState,omitempty"`

	// RewindBeforeInvocationID marks this event as a rewind marker: the
	// session has been rolled back to the point just before the named
	// invocation.
	RewindBeforeInvocationID string `json:"rewindBeforeInvocationId,omitempty"`
}

// NewEventActions creates a new [EventActions] instance with default values.
func NewEventActions() *EventActions {
	return &EventActions{
		StateDelta:    make(map[string]any),
		ArtifactDelta: make(map[string]int),
	}
}

// WithSkipSummarization configures the skipSummarization to the [EventActions].
func (ea *EventActions) WithSkipSummarization(skipSummarization bool) *EventActions {
	ea.SkipSummarization = skipSummarization
	return ea
}

// WithStateDelta configures the stateDelta to the [EventActions].
func (ea *EventActions) WithStateDelta(stateDelta map[string]any) *EventActions {
	ea.StateDelta = stateDelta
	return ea
}

// WithArtifactDelta configures the artifactDelta to the [EventActions].
func (ea *EventActions) WithArtifactDelta(artifactDelta map[string]int) *EventActions {
	ea.ArtifactDelta = artifactDelta
	return ea
}

// WithTransferToAgent configures the transferToAgent to the [EventActions].
func (ea *EventActions) WithTransferToAgent(transferToAgent string) *EventActions {
	ea.TransferToAgent = transferToAgent
	return ea
}

// WithEscalate configures the escalate to the [EventActions].
func (ea *EventActions) WithEscalate(escalate bool) *EventActions {
	ea.Escalate = escalate
	return ea
}

// WithCompaction configures the compaction to the [EventActions].
func (ea *EventActions) WithCompaction(compaction *EventCompaction) *EventActions {
	ea.Compaction = compaction
	return ea
}

// WithEndOfAgent configures the endOfAgent to the [EventActions].
func (ea *EventActions) WithEndOfAgent(endOfAgent bool) *EventActions {
	ea.EndOfAgent = endOfAgent
	return ea
}

// WithAgentState configures the agentState to the [EventActions].
func (ea *EventActions) WithAgentState(agentState map[string]any) *EventActions {
	ea.AgentState = agentState
	return ea
}

// WithRewindBeforeInvocationID configures the rewindBeforeInvocationId to the [EventActions].
func (ea *EventActions) WithRewindBeforeInvocationID(invocationID string) *EventActions {
	ea.RewindBeforeInvocationID = invocationID
	return ea
}

// HasRewind reports whether the actions mark a rewind event.
func (ea *EventActions) HasRewind() bool {
	return ea != nil && ea.RewindBeforeInvocationID != ""
}
