// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package runner

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"maps"
	"time"

	"google.golang.org/genai"

	"github.com/go-a2a/agentcore/plugin"
	"github.com/go-a2a/agentcore/types"
)

// defaultToolsetCloseTimeout bounds each toolset's Close call during runner
// shutdown.
const defaultToolsetCloseTimeout = 10 * time.Second

// Runner runs a root agent against a session service.
type Runner struct {
	appName         string
	agent           types.Agent
	sessionService  types.SessionService
	artifactService types.ArtifactService
	memoryService   types.MemoryService
	pluginManager   *plugin.Manager
	resumability    *types.ResumabilityConfig
	compaction      *types.EventsCompactionConfig
	summarizer      Summarizer
	appNameHint     string
	logger          *slog.Logger
}

// Option configures a [Runner].
type Option func(*Runner)

// WithArtifactService sets the artifact service.
func WithArtifactService(svc types.ArtifactService) Option {
	return func(r *Runner) {
		r.artifactService = svc
	}
}

// WithMemoryService sets the memory service.
func WithMemoryService(svc types.MemoryService) Option {
	return func(r *Runner) {
		r.memoryService = svc
	}
}

// WithPluginManager sets the plugin manager.
func WithPluginManager(pm *plugin.Manager) Option {
	return func(r *Runner) {
		r.pluginManager = pm
	}
}

// WithResumability declares the app resumable, enabling invocation resume by
// id.
func WithResumability(cfg *types.ResumabilityConfig) Option {
	return func(r *Runner) {
		r.resumability = cfg
	}
}

// WithCompaction enables end-of-invocation event compaction.
func WithCompaction(cfg *types.EventsCompactionConfig, summarizer Summarizer) Option {
	return func(r *Runner) {
		r.compaction = cfg
		r.summarizer = summarizer
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithAgentOrigin records where the root agent was loaded from. When the
// origin directory name disagrees with the configured app name, session
// lookups that fail carry a mismatch hint.
func WithAgentOrigin(originAppName, originDir string) Option {
	return func(r *Runner) {
		if originAppName == "" || originAppName == r.appName {
			return
		}
		location := originDir
		if location == "" {
			location = originAppName
		}
		r.appNameHint = fmt.Sprintf(
			"The runner is configured with app name %q, but the root agent was loaded from %q, which implies app name %q. "+
				"Ensure the runner app name matches that directory or pass the app name explicitly when constructing the runner.",
			r.appName, location, originAppName)
	}
}

// NewRunner creates a runner for the given app name and root agent.
func NewRunner(appName string, agent types.Agent, sessionService types.SessionService, opts ...Option) (*Runner, error) {
	if appName == "" {
		return nil, &types.InvalidArgumentError{Message: "app name is required"}
	}
	if agent == nil {
		return nil, &types.InvalidArgumentError{Message: "root agent is required"}
	}
	if sessionService == nil {
		return nil, &types.InvalidArgumentError{Message: "session service is required"}
	}

	r := &Runner{
		appName:        appName,
		agent:          agent,
		sessionService: sessionService,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.appNameHint != "" {
		r.logger.Warn("app name mismatch detected", slog.String("hint", r.appNameHint))
	}

	return r, nil
}

// AppName returns the configured app name.
func (r *Runner) AppName() string {
	return r.appName
}

// Agent returns the root agent.
func (r *Runner) Agent() types.Agent {
	return r.agent
}

// RunRequest carries the arguments of one [Runner.RunAsync] call.
type RunRequest struct {
	// UserID identifies the session owner.
	UserID string

	// SessionID identifies the session.
	SessionID string

	// InvocationID resumes a previously paused invocation when set. Requires
	// a resumable app.
	InvocationID string

	// NewMessage is the user message starting (or, for a resume, continuing)
	// the invocation.
	NewMessage *genai.Content

	// StateDelta is applied to the session together with the user message.
	StateDelta map[string]any

	// RunConfig configures runtime behavior for this run.
	RunConfig *types.RunConfig
}

func (r *Runner) sessionNotFoundError(sessionID string) error {
	msg := fmt.Sprintf("session not found: %s", sessionID)
	if r.appNameHint != "" {
		msg = fmt.Sprintf("%s. %s The mismatch prevents the runner from locating the session.", msg, r.appNameHint)
	}
	return &types.ResourceNotFoundError{Resource: "session", Message: msg}
}

// applyRunConfigCustomMetadata overlays run-level custom metadata onto the
// event. Event-level keys win.
func applyRunConfigCustomMetadata(event *types.Event, runConfig *types.RunConfig) {
	if event == nil || runConfig == nil || len(runConfig.CustomMetadata) == 0 {
		return
	}
	merged := maps.Clone(runConfig.CustomMetadata)
	maps.Copy(merged, event.CustomMetadata)
	event.CustomMetadata = merged
}

func defaultedRunConfig(runConfig *types.RunConfig) *types.RunConfig {
	if runConfig == nil {
		return &types.RunConfig{MaxLLMCalls: types.DefaultMaxLLMCalls}
	}
	return runConfig
}

// RunAsync runs the agent for one invocation and streams its events.
//
// When req.InvocationID is set, the paused invocation is resumed instead of
// starting a new one; this requires the app to be resumable. When event
// compaction is configured it runs after the last agent event has been
// yielded; the iterator only finishes after compaction completes, but new
// RunAsync calls are not blocked by it.
func (r *Runner) RunAsync(ctx context.Context, req *RunRequest) iter.Seq2[*types.Event, error] {
	return func(yield func(*types.Event, error) bool) {
		runConfig := defaultedRunConfig(req.RunConfig)
		if req.NewMessage != nil && req.NewMessage.Role == "" {
			req.NewMessage.Role = genai.RoleUser
		}

		session, err := r.sessionService.GetSession(ctx, r.appName, req.UserID, req.SessionID, nil)
		if err != nil {
			yield(nil, err)
			return
		}
		if session == nil {
			yield(nil, r.sessionNotFoundError(req.SessionID))
			return
		}
		if req.InvocationID == "" && req.NewMessage == nil {
			yield(nil, &types.InvalidArgumentError{
				Message: fmt.Sprintf("running an agent requires either a new message or an invocation id to resume: session %s, user %s", req.SessionID, req.UserID),
			})
			return
		}

		var ictx *types.InvocationContext
		if req.InvocationID != "" {
			if r.resumability == nil || !r.resumability.IsResumable {
				yield(nil, &types.InvalidArgumentError{
					Message: fmt.Sprintf("invocation id %s is provided but the app is not resumable", req.InvocationID),
				})
				return
			}
			ictx, err = r.setupResumedInvocation(ctx, session, req, runConfig)
			if err != nil {
				yield(nil, err)
				return
			}
			if ictx.EndOfAgents[ictx.Agent.Name()] {
				// The invocation already finished; nothing to resume.
				return
			}
		} else {
			ictx, err = r.setupNewInvocation(ctx, session, req, runConfig)
			if err != nil {
				yield(nil, err)
				return
			}
		}

		execute := func(ic *types.InvocationContext) iter.Seq2[*types.Event, error] {
			return ic.Agent.Run(ctx, ic)
		}
		for event, err := range r.execWithPlugins(ctx, ictx, session, execute, false) {
			if !yield(event, err) {
				return
			}
			if err != nil {
				return
			}
		}

		if r.compaction != nil {
			if err := r.runCompaction(ctx, session); err != nil {
				r.logger.WarnContext(ctx, "event compaction failed",
					slog.String("session_id", session.ID()),
					slog.Any("error", err),
				)
			}
		}
	}
}

func (r *Runner) newInvocationContext(session types.Session, opts ...types.InvocationContextOption) *types.InvocationContext {
	base := []types.InvocationContextOption{
		types.WithArtifactService(r.artifactService),
		types.WithMemoryService(r.memoryService),
	}
	return types.NewInvocationContext(r.agent, session, r.sessionService, append(base, opts...)...)
}

func (r *Runner) setupNewInvocation(ctx context.Context, session types.Session, req *RunRequest, runConfig *types.RunConfig) (*types.InvocationContext, error) {
	ictx := r.newInvocationContext(session,
		types.WithUserContent(req.NewMessage),
		types.WithRunConfig(runConfig),
	)
	if err := r.handleNewMessage(ctx, session, ictx, req.NewMessage, req.StateDelta); err != nil {
		return nil, err
	}
	ictx.Agent = r.findAgentToRun(session, r.agent)
	return ictx, nil
}

func (r *Runner) setupResumedInvocation(ctx context.Context, session types.Session, req *RunRequest, runConfig *types.RunConfig) (*types.InvocationContext, error) {
	if len(session.Events()) == 0 {
		return nil, &types.InvalidArgumentError{Message: fmt.Sprintf("session %s has no events to resume", session.ID())}
	}

	userMessage := req.NewMessage
	if userMessage == nil {
		userMessage = findUserMessageForInvocation(session.Events(), req.InvocationID)
	}
	if userMessage == nil {
		return nil, &types.InvalidArgumentError{
			Message: fmt.Sprintf("no user message available for resuming invocation: %s", req.InvocationID),
		}
	}

	ictx := r.newInvocationContext(session,
		types.WithInvocationID(req.InvocationID),
		types.WithUserContent(userMessage),
		types.WithRunConfig(runConfig),
	)
	if req.NewMessage != nil {
		if err := r.handleNewMessage(ctx, session, ictx, req.NewMessage, req.StateDelta); err != nil {
			return nil, err
		}
	}

	populateInvocationAgentStates(ictx)

	// When the root agent never reached a checkpoint the invocation started
	// and paused on a sub-agent; pick the agent to continue with.
	if _, ok := ictx.EndOfAgents[r.agent.Name()]; !ok {
		ictx.Agent = r.findAgentToRun(session, r.agent)
	}

	return ictx, nil
}

// populateInvocationAgentStates replays the invocation's checkpoints into the
// context.
func populateInvocationAgentStates(ictx *types.InvocationContext) {
	ictx.IsResumed = true
	ictx.AgentStates = make(map[string]map[string]any)
	ictx.EndOfAgents = make(map[string]bool)

	for _, event := range ictx.Session.Events() {
		if event.InvocationID != ictx.InvocationID || event.Actions == nil {
			continue
		}
		if event.Actions.EndOfAgent {
			ictx.EndOfAgents[event.Author] = true
			delete(ictx.AgentStates, event.Author)
			continue
		}
		if event.Actions.AgentState != nil {
			ictx.AgentStates[event.Author] = event.Actions.AgentState
			ictx.EndOfAgents[event.Author] = false
		}
	}
}

// findUserMessageForInvocation finds the user message that started a specific
// invocation.
func findUserMessageForInvocation(events []*types.Event, invocationID string) *genai.Content {
	for _, event := range events {
		if event.InvocationID == invocationID &&
			event.Author == "user" &&
			event.Content != nil &&
			len(event.Content.Parts) > 0 &&
			event.Content.Parts[0].Text != "" {
			return event.Content
		}
	}
	return nil
}

// handleNewMessage runs the user-message plugin hook and appends the message
// to the session. The user event is appended, not yielded.
func (r *Runner) handleNewMessage(ctx context.Context, session types.Session, ictx *types.InvocationContext, newMessage *genai.Content, stateDelta map[string]any) error {
	modified, err := r.pluginManager.RunOnUserMessage(ctx, ictx, newMessage)
	if err != nil {
		return err
	}
	if modified != nil {
		newMessage = modified
		ictx.UserContent = modified
	}

	if newMessage == nil || len(newMessage.Parts) == 0 {
		return &types.InvalidArgumentError{Message: "no parts in the new message"}
	}

	if r.artifactService != nil && ictx.RunConfig != nil && ictx.RunConfig.SaveInputBlobsAsArtifacts {
		// Replace inline blobs with artifact references so the session log
		// stays small.
		for i, part := range newMessage.Parts {
			if part.InlineData == nil {
				continue
			}
			filename := fmt.Sprintf("artifact_%s_%d", ictx.InvocationID, i)
			if _, err := r.artifactService.SaveArtifact(ctx, r.appName, session.UserID(), session.ID(), filename, part); err != nil {
				return fmt.Errorf("save input blob as artifact: %w", err)
			}
			newMessage.Parts[i] = genai.NewPartFromText(fmt.Sprintf("Uploaded file: %s. It is saved into artifacts", filename))
		}
	}

	event := types.NewEvent().
		WithInvocationID(ictx.InvocationID).
		WithAuthor("user").
		WithContent(newMessage)
	if len(stateDelta) > 0 {
		event.Actions.StateDelta = stateDelta
	}
	applyRunConfigCustomMetadata(event, ictx.RunConfig)

	// A user function response continues the branch of the call it answers.
	if callEvent := findMatchingFunctionCall(session.Events(), event); callEvent != nil {
		event.Branch = callEvent.Branch
	}

	return r.appendEvent(ctx, session, event)
}

// appendEvent persists an event, discarding the committed copy.
func (r *Runner) appendEvent(ctx context.Context, session types.Session, event *types.Event) error {
	_, err := r.sessionService.AppendEvent(ctx, session, event)
	return err
}

// shouldAppendEvent reports whether an event belongs in the session log.
// Live model audio with inline data is yielded to the caller but never
// persisted; audio referenced by file uri is persisted.
func (r *Runner) shouldAppendEvent(event *types.Event, isLiveCall bool) bool {
	if isLiveCall && isLiveAudioEventWithInlineData(event) {
		return false
	}
	return true
}

// execWithPlugins wraps agent execution with the plugin chain and the
// persistence policy.
func (r *Runner) execWithPlugins(ctx context.Context, ictx *types.InvocationContext, session types.Session, execute func(*types.InvocationContext) iter.Seq2[*types.Event, error], isLiveCall bool) iter.Seq2[*types.Event, error] {
	return func(yield func(*types.Event, error) bool) {
		earlyExit, err := r.pluginManager.RunBeforeRun(ctx, ictx)
		if err != nil {
			yield(nil, err)
			return
		}

		if earlyExit != nil {
			event := types.NewEvent().
				WithInvocationID(ictx.InvocationID).
				WithAuthor("model").
				WithContent(earlyExit)
			applyRunConfigCustomMetadata(event, ictx.RunConfig)
			if r.shouldAppendEvent(event, isLiveCall) {
				if err := r.appendEvent(ctx, session, event); err != nil {
					yield(nil, err)
					return
				}
			}
			if !yield(event, nil) {
				return
			}
		} else {
			buffer := &transcriptionBuffer{}

			for event, err := range execute(ictx) {
				if err != nil {
					yield(nil, err)
					return
				}
				applyRunConfigCustomMetadata(event, ictx.RunConfig)

				if isLiveCall {
					if buffer.bufferIfTranscribing(event) {
						continue
					}
					if !event.IsPartial() {
						if err := buffer.persist(ctx, r, session, event); err != nil {
							yield(nil, err)
							return
						}
					}
				} else if !event.IsPartial() {
					if err := r.appendEvent(ctx, session, event); err != nil {
						yield(nil, err)
						return
					}
				}

				modified, err := r.pluginManager.RunOnEvent(ctx, ictx, event)
				if err != nil {
					yield(nil, err)
					return
				}
				if modified != nil {
					applyRunConfigCustomMetadata(modified, ictx.RunConfig)
					event = modified
				}
				if !yield(event, nil) {
					return
				}
			}
		}

		if err := r.pluginManager.RunAfterRun(ctx, ictx); err != nil {
			yield(nil, err)
			return
		}
	}
}

// collectToolsets gathers the toolsets reachable from the agent tree.
func collectToolsets(agent types.Agent, seen map[types.Toolset]struct{}) {
	if llm, ok := agent.AsLLMAgent(); ok {
		for _, ts := range llm.Toolsets() {
			seen[ts] = struct{}{}
		}
	}
	for _, sub := range agent.SubAgents() {
		collectToolsets(sub, seen)
	}
}

// Close shuts the runner down: toolsets first, then plugins. Cleanup never
// returns an error to the caller; failures and timeouts are logged.
func (r *Runner) Close(ctx context.Context) {
	r.logger.InfoContext(ctx, "closing runner")

	toolsets := make(map[types.Toolset]struct{})
	collectToolsets(r.agent, toolsets)
	for ts := range toolsets {
		closeCtx, cancel := context.WithTimeout(ctx, defaultToolsetCloseTimeout)

		done := make(chan error, 1)
		go func() {
			done <- ts.Close(closeCtx)
		}()
		select {
		case err := <-done:
			if err != nil {
				r.logger.ErrorContext(ctx, "error closing toolset",
					slog.String("toolset", ts.Name()),
					slog.Any("error", err),
				)
			}
		case <-closeCtx.Done():
			r.logger.WarnContext(ctx, "toolset cleanup timed out",
				slog.String("toolset", ts.Name()),
			)
		}
		cancel()
	}

	r.pluginManager.Close(ctx)

	r.logger.InfoContext(ctx, "runner closed")
}
