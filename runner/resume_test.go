// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package runner_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/genai"

	"github.com/go-a2a/agentcore/runner"
	"github.com/go-a2a/agentcore/types"
)

// seedEvent appends an event to the seeded test session.
func seedEvent(t *testing.T, svc types.SessionService, event *types.Event) {
	t.Helper()

	ctx := context.Background()
	ses, err := svc.GetSession(ctx, "demo", "u1", "s1", nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AppendEvent(ctx, ses, event); err != nil {
		t.Fatal(err)
	}
}

func TestResumeRequiresResumableApp(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRunner(t, replyAgent("assistant", "hi"))

	var runErr error
	for _, err := range r.RunAsync(ctx, &runner.RunRequest{
		UserID:       "u1",
		SessionID:    "s1",
		InvocationID: "inv1",
	}) {
		runErr = err
		break
	}
	var invalid *types.InvalidArgumentError
	if !errors.As(runErr, &invalid) {
		t.Errorf("error = %v, want InvalidArgumentError", runErr)
	}
}

func TestResumePausedInvocation(t *testing.T) {
	ctx := context.Background()

	checkpoint := map[string]any{"step": 2}
	var resumedWith *types.InvocationContext
	agent := &fakeAgent{
		name: "assistant",
		script: func(ictx *types.InvocationContext) []*types.Event {
			resumedWith = ictx
			return []*types.Event{
				types.NewEvent().
					WithInvocationID(ictx.InvocationID).
					WithAuthor("assistant").
					WithContent(genai.NewContentFromText("picking up where we left off", genai.RoleModel)),
			}
		},
	}
	r, svc := newTestRunner(t, agent,
		runner.WithResumability(&types.ResumabilityConfig{IsResumable: true}))

	seedEvent(t, svc, types.NewEvent().
		WithInvocationID("inv1").
		WithAuthor("user").
		WithContent(userMessage("start the job")))
	seedEvent(t, svc, types.NewEvent().
		WithInvocationID("inv1").
		WithAuthor("assistant").
		WithActions(types.NewEventActions().WithAgentState(checkpoint)))

	events := collectEvents(t, r.RunAsync(ctx, &runner.RunRequest{
		UserID:       "u1",
		SessionID:    "s1",
		InvocationID: "inv1",
	}))
	if len(events) != 1 {
		t.Fatalf("yielded %d events, want 1", len(events))
	}
	if got := events[0].InvocationID; got != "inv1" {
		t.Errorf("yielded invocation id = %q, want inv1", got)
	}

	if resumedWith == nil {
		t.Fatal("agent never ran")
	}
	if !resumedWith.IsResumed {
		t.Error("IsResumed = false, want true")
	}
	if got := resumedWith.InvocationID; got != "inv1" {
		t.Errorf("resumed invocation id = %q, want inv1", got)
	}
	if diff := cmp.Diff(checkpoint, resumedWith.AgentStates["assistant"]); diff != "" {
		t.Errorf("replayed agent state mismatch (-want +got):\n%s", diff)
	}
	if got := resumedWith.UserContent.Parts[0].Text; got != "start the job" {
		t.Errorf("resumed user content = %q, want the invocation's user message", got)
	}
}

func TestResumeFinishedInvocationYieldsNothing(t *testing.T) {
	ctx := context.Background()

	ran := false
	agent := &fakeAgent{
		name: "assistant",
		script: func(ictx *types.InvocationContext) []*types.Event {
			ran = true
			return nil
		},
	}
	r, svc := newTestRunner(t, agent,
		runner.WithResumability(&types.ResumabilityConfig{IsResumable: true}))

	seedEvent(t, svc, types.NewEvent().
		WithInvocationID("inv1").
		WithAuthor("user").
		WithContent(userMessage("do the thing")))
	seedEvent(t, svc, types.NewEvent().
		WithInvocationID("inv1").
		WithAuthor("assistant").
		WithActions(types.NewEventActions().WithEndOfAgent(true)))

	events := collectEvents(t, r.RunAsync(ctx, &runner.RunRequest{
		UserID:       "u1",
		SessionID:    "s1",
		InvocationID: "inv1",
	}))
	if len(events) != 0 {
		t.Errorf("yielded %d events for a finished invocation, want 0", len(events))
	}
	if ran {
		t.Error("agent ran for a finished invocation")
	}
}

func TestResumeUnknownInvocation(t *testing.T) {
	ctx := context.Background()
	r, svc := newTestRunner(t, replyAgent("assistant", "hi"),
		runner.WithResumability(&types.ResumabilityConfig{IsResumable: true}))

	seedEvent(t, svc, types.NewEvent().
		WithInvocationID("other").
		WithAuthor("user").
		WithContent(userMessage("unrelated")))

	var runErr error
	for _, err := range r.RunAsync(ctx, &runner.RunRequest{
		UserID:       "u1",
		SessionID:    "s1",
		InvocationID: "inv1",
	}) {
		runErr = err
		break
	}
	var invalid *types.InvalidArgumentError
	if !errors.As(runErr, &invalid) {
		t.Errorf("error = %v, want InvalidArgumentError", runErr)
	}
}
