// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package session_test

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/genai"

	"github.com/go-a2a/agentcore/session"
	"github.com/go-a2a/agentcore/types"
)

func TestCreateSessionScopeRouting(t *testing.T) {
	ctx := context.Background()
	svc := session.NewInMemoryService()

	ses, err := svc.CreateSession(ctx, "demo", "u1", "s1", map[string]any{
		"app:theme":   "dark",
		"user:locale": "en",
		"temp:probe":  "x",
		"counter":     1,
	})
	if err != nil {
		t.Fatal(err)
	}

	state := ses.State()
	if got := state["app:theme"]; got != "dark" {
		t.Errorf("app:theme = %v, want dark", got)
	}
	if got := state["user:locale"]; got != "en" {
		t.Errorf("user:locale = %v, want en", got)
	}
	if _, ok := state["temp:probe"]; ok {
		t.Error("temp: key persisted, want dropped")
	}
	if got := state["counter"]; got != 1 {
		t.Errorf("counter = %v, want 1", got)
	}

	// App and user scope are shared across sessions of the same app/user.
	other, err := svc.CreateSession(ctx, "demo", "u1", "s2", nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := other.State()["app:theme"]; got != "dark" {
		t.Errorf("app:theme in sibling session = %v, want dark", got)
	}
	if _, ok := other.State()["counter"]; ok {
		t.Error("session-scoped key leaked into sibling session")
	}
}

func TestCreateSessionDuplicate(t *testing.T) {
	ctx := context.Background()
	svc := session.NewInMemoryService()

	if _, err := svc.CreateSession(ctx, "demo", "u1", "s1", nil); err != nil {
		t.Fatal(err)
	}
	_, err := svc.CreateSession(ctx, "demo", "u1", "s1", nil)
	var existsErr *types.AlreadyExistsError
	if !errors.As(err, &existsErr) {
		t.Errorf("duplicate create error = %v, want AlreadyExistsError", err)
	}
}

func TestGetSessionMissing(t *testing.T) {
	ctx := context.Background()
	svc := session.NewInMemoryService()

	ses, err := svc.GetSession(ctx, "demo", "u1", "missing", nil)
	if err != nil {
		t.Fatal(err)
	}
	if ses != nil {
		t.Errorf("missing session = %+v, want nil", ses)
	}
}

func TestAppendEventSkipsPartial(t *testing.T) {
	ctx := context.Background()
	svc := session.NewInMemoryService()

	ses, err := svc.CreateSession(ctx, "demo", "u1", "s1", nil)
	if err != nil {
		t.Fatal(err)
	}

	partial := types.NewEvent().
		WithAuthor("agent").
		WithContent(genai.NewContentFromText("chunk", genai.RoleModel))
	partial.Partial = genai.Ptr(true)

	if _, err := svc.AppendEvent(ctx, ses, partial); err != nil {
		t.Fatal(err)
	}

	stored, err := svc.GetSession(ctx, "demo", "u1", "s1", nil)
	if err != nil {
		t.Fatal(err)
	}
	if n := len(stored.Events()); n != 0 {
		t.Errorf("persisted %d events, want 0 for partial", n)
	}
}

func TestAppendEventStaleConflict(t *testing.T) {
	ctx := context.Background()
	svc := session.NewInMemoryService()

	if _, err := svc.CreateSession(ctx, "demo", "u1", "s1", nil); err != nil {
		t.Fatal(err)
	}

	viewA, err := svc.GetSession(ctx, "demo", "u1", "s1", nil)
	if err != nil {
		t.Fatal(err)
	}
	viewB, err := svc.GetSession(ctx, "demo", "u1", "s1", nil)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.AppendEvent(ctx, viewA, types.NewEvent().WithAuthor("user").
		WithContent(genai.NewContentFromText("first", genai.RoleUser))); err != nil {
		t.Fatal(err)
	}

	_, err = svc.AppendEvent(ctx, viewB, types.NewEvent().WithAuthor("user").
		WithContent(genai.NewContentFromText("second", genai.RoleUser)))
	var staleErr *types.StaleSessionError
	if !errors.As(err, &staleErr) {
		t.Fatalf("stale append error = %v, want StaleSessionError", err)
	}

	// Refetching and retrying succeeds.
	viewB, err = svc.GetSession(ctx, "demo", "u1", "s1", nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AppendEvent(ctx, viewB, types.NewEvent().WithAuthor("user").
		WithContent(genai.NewContentFromText("second", genai.RoleUser))); err != nil {
		t.Fatalf("retried append failed: %v", err)
	}

	stored, err := svc.GetSession(ctx, "demo", "u1", "s1", nil)
	if err != nil {
		t.Fatal(err)
	}
	if n := len(stored.Events()); n != 2 {
		t.Errorf("persisted %d events, want 2", n)
	}
}

func TestAppendEventStateDelta(t *testing.T) {
	ctx := context.Background()
	svc := session.NewInMemoryService()

	ses, err := svc.CreateSession(ctx, "demo", "u1", "s1", nil)
	if err != nil {
		t.Fatal(err)
	}

	event := types.NewEvent().
		WithAuthor("agent").
		WithActions(types.NewEventActions().WithStateDelta(map[string]any{
			"counter":     2,
			"user:locale": "fr",
			"temp:junk":   true,
		}))
	if _, err := svc.AppendEvent(ctx, ses, event); err != nil {
		t.Fatal(err)
	}

	stored, err := svc.GetSession(ctx, "demo", "u1", "s1", nil)
	if err != nil {
		t.Fatal(err)
	}
	state := stored.State()
	if got := state["counter"]; got != 2 {
		t.Errorf("counter = %v, want 2", got)
	}
	if got := state["user:locale"]; got != "fr" {
		t.Errorf("user:locale = %v, want fr", got)
	}
	if _, ok := state["temp:junk"]; ok {
		t.Error("temp: key persisted, want dropped")
	}
	if !stored.LastUpdateTime().Equal(event.Timestamp) {
		t.Errorf("LastUpdateTime = %v, want event timestamp %v", stored.LastUpdateTime(), event.Timestamp)
	}

	// The stored event itself must not carry the temp: delta either.
	storedEvent := stored.Events()[0]
	if _, ok := storedEvent.Actions.StateDelta["temp:junk"]; ok {
		t.Error("temp: key survived inside the stored event's state delta")
	}
	if got := storedEvent.Actions.StateDelta["counter"]; got != 2 {
		t.Errorf("stored event delta counter = %v, want 2", got)
	}
}

func TestAppendEventUpdatesCallerView(t *testing.T) {
	ctx := context.Background()
	svc := session.NewInMemoryService()

	ses, err := svc.CreateSession(ctx, "demo", "u1", "s1", nil)
	if err != nil {
		t.Fatal(err)
	}

	event := types.NewEvent().
		WithAuthor("agent").
		WithActions(types.NewEventActions().WithStateDelta(map[string]any{
			"counter":     7,
			"user:locale": "de",
		}))
	if _, err := svc.AppendEvent(ctx, ses, event); err != nil {
		t.Fatal(err)
	}

	// No refetch: the view passed to AppendEvent already reflects the commit.
	if got := ses.State()["counter"]; got != 7 {
		t.Errorf("caller view counter = %v, want 7", got)
	}
	if got := ses.State()["user:locale"]; got != "de" {
		t.Errorf("caller view user:locale = %v, want de", got)
	}
	if n := len(ses.Events()); n != 1 {
		t.Errorf("caller view has %d events, want 1", n)
	}
}
