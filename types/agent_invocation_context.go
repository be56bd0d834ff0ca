// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"fmt"

	"github.com/google/uuid"
	"google.golang.org/genai"
)

// LLMCallsLimitExceededError represents error thrown when the number of LLM calls exceed the limit.
type LLMCallsLimitExceededError string

// NewLLMCallsLimitExceededError returns the new [LLMCallsLimitExceededError] error.
func NewLLMCallsLimitExceededError(msg string, a ...any) error {
	return LLMCallsLimitExceededError(fmt.Sprintf(msg, a...))
}

// Error returns a string representation of the LLMCallsLimitExceededError.
func (e LLMCallsLimitExceededError) Error() string {
	return string(e)
}

// InvocationCostManager represents a container to keep track of the cost of invocation.
//
// While we don't expect the metrics captured here to be a direct
// representative of monetary cost incurred in executing the current
// invocation, they in some ways have an indirect effect.
type InvocationCostManager struct {
	// A counter that keeps track of number of llm calls made.
	llmCalls int
}

// IncrementAndEnforceLLMCallsLimit increments llmCalls and enforces the limit.
func (mgr *InvocationCostManager) IncrementAndEnforceLLMCallsLimit(runConfig *RunConfig) error {
	mgr.llmCalls++
	if runConfig != nil {
		if runConfig.MaxLLMCalls > 0 && mgr.llmCalls > runConfig.MaxLLMCalls {
			return NewLLMCallsLimitExceededError("max number of llm calls limit of %d exceeded", runConfig.MaxLLMCalls)
		}
	}
	return nil
}

// InvocationContext represents the data of a single invocation of an agent.
//
// An invocation:
//
//   - Starts with a user message and ends with a final response.
//   - Can contain one or multiple agent calls.
//   - Is handled by Runner.RunAsync().
//
// An invocation runs an agent until it does not request to transfer to another
// agent.
type InvocationContext struct {
	ArtifactService   ArtifactService
	SessionService    SessionService
	MemoryService     MemoryService
	CredentialService CredentialService

	// InvocationID is the id of this invocation context. Readonly.
	InvocationID string

	// Branch is the branch of the invocation context.
	//
	// The format is like agent_1.agent_2.agent_3, where agent_1 is the parent
	// of agent_2, and agent_2 is the parent of agent_3.
	//
	// Branch is used when multiple sub-agents shouldn't see their peer agents'
	// conversation history.
	Branch string

	// Agent is the current agent of this invocation context. Readonly.
	Agent Agent

	// UserContent is the user content that started this invocation. Readonly.
	UserContent *genai.Content

	// Session is the current session of this invocation context. Readonly.
	Session Session

	// EndInvocation terminates this invocation when set to true by callbacks
	// or tools.
	EndInvocation bool

	// IsResumed reports whether this context continues a previously paused
	// invocation.
	IsResumed bool

	// AgentStates holds the replayed per-agent checkpoints of a resumed
	// invocation, keyed by agent name.
	AgentStates map[string]map[string]any

	// EndOfAgents records which agents already completed their work for this
	// invocation, keyed by agent name. Populated on resume.
	EndOfAgents map[string]bool

	// LiveRequestQueue is the queue to receive live requests.
	LiveRequestQueue *LiveRequestQueue

	// TranscriptionCache caches data, audio or contents, that are needed by transcription.
	TranscriptionCache []*TranscriptionEntry

	// RunConfig holds the runtime configuration of this invocation.
	RunConfig *RunConfig

	// invocationCostManager keeps track of different kinds of costs incurred
	// as a part of this invocation.
	invocationCostManager *InvocationCostManager
}

// InvocationContextOption is a function that modifies the [InvocationContext].
type InvocationContextOption func(*InvocationContext)

func WithArtifactService(svc ArtifactService) InvocationContextOption {
	return func(ictx *InvocationContext) {
		ictx.ArtifactService = svc
	}
}

func WithMemoryService(svc MemoryService) InvocationContextOption {
	return func(ictx *InvocationContext) {
		ictx.MemoryService = svc
	}
}

func WithBranch(branch string) InvocationContextOption {
	return func(ictx *InvocationContext) {
		ictx.Branch = branch
	}
}

func WithUserContent(content *genai.Content) InvocationContextOption {
	return func(ictx *InvocationContext) {
		ictx.UserContent = content
	}
}

func WithInvocationID(id string) InvocationContextOption {
	return func(ictx *InvocationContext) {
		ictx.InvocationID = id
	}
}

func WithLiveRequestQueue(liveRequestQueue *LiveRequestQueue) InvocationContextOption {
	return func(ictx *InvocationContext) {
		ictx.LiveRequestQueue = liveRequestQueue
	}
}

func WithTranscriptionCache(entries ...*TranscriptionEntry) InvocationContextOption {
	return func(ictx *InvocationContext) {
		ictx.TranscriptionCache = entries
	}
}

func WithRunConfig(runConfig *RunConfig) InvocationContextOption {
	return func(ictx *InvocationContext) {
		ictx.RunConfig = runConfig
	}
}

// NewInvocationContext creates a new [InvocationContext].
func NewInvocationContext(agent Agent, session Session, sessionSvc SessionService, opts ...InvocationContextOption) *InvocationContext {
	ictx := &InvocationContext{
		Agent:                 agent,
		InvocationID:          NewInvocationContextID(),
		invocationCostManager: &InvocationCostManager{},
		Session:               session,
		SessionService:        sessionSvc,
	}
	for _, opt := range opts {
		opt(ictx)
	}

	return ictx
}

// IncrementLLMCallCount tracks number of llm calls made.
func (ictx *InvocationContext) IncrementLLMCallCount() error {
	return ictx.invocationCostManager.IncrementAndEnforceLLMCallsLimit(ictx.RunConfig)
}

func (ictx *InvocationContext) AppName() string {
	return ictx.Session.AppName()
}

func (ictx *InvocationContext) UserID() string {
	return ictx.Session.UserID()
}

// ShouldPauseInvocation reports whether the event asks a resumable app to
// pause: a long-running function call with no response yet.
func (ictx *InvocationContext) ShouldPauseInvocation(event *Event) bool {
	if event == nil || len(event.LongRunningToolIDs) == 0 {
		return false
	}
	for _, call := range event.GetFunctionCalls() {
		if event.LongRunningToolIDs.Has(call.ID) {
			return true
		}
	}
	return false
}

// NewInvocationContextID generates a new invocation context ID.
func NewInvocationContextID() string {
	return `e-` + uuid.NewString()
}
