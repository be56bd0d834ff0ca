// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package session_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"google.golang.org/genai"
	_ "modernc.org/sqlite"

	"github.com/go-a2a/agentcore/session"
	"github.com/go-a2a/agentcore/types"
)

func newSQLiteService(t *testing.T) *session.SQLiteService {
	t.Helper()

	svc, err := session.NewSQLiteService(context.Background(), filepath.Join(t.TempDir(), "session.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { svc.Close() })
	return svc
}

func TestSessionDBPath(t *testing.T) {
	if got, want := session.SessionDBPath("agents", "demo"), filepath.Join("agents", "demo", ".adk", "session.db"); got != want {
		t.Errorf("SessionDBPath = %q, want %q", got, want)
	}
	if got, want := session.SessionDBPath("agents", ""), filepath.Join("agents", ".adk", "session.db"); got != want {
		t.Errorf("SessionDBPath with empty agent = %q, want %q", got, want)
	}
}

func TestSQLiteCreateSessionScopeRouting(t *testing.T) {
	ctx := context.Background()
	svc := newSQLiteService(t)

	ses, err := svc.CreateSession(ctx, "demo", "u1", "s1", map[string]any{
		"app:theme":   "dark",
		"user:locale": "en",
		"temp:probe":  "x",
		"counter":     float64(1),
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
	if got := state["counter"]; got != float64(1) {
		t.Errorf("counter = %v, want 1", got)
	}

	// Scoped state is shared with sibling sessions; session keys are not.
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

	_, err = svc.CreateSession(ctx, "demo", "u1", "s1", nil)
	var existsErr *types.AlreadyExistsError
	if !errors.As(err, &existsErr) {
		t.Errorf("duplicate create error = %v, want AlreadyExistsError", err)
	}
}

func TestSQLiteAppendEventRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := newSQLiteService(t)

	ses, err := svc.CreateSession(ctx, "demo", "u1", "s1", nil)
	if err != nil {
		t.Fatal(err)
	}

	event := types.NewEvent().
		WithInvocationID("inv1").
		WithAuthor("agent").
		WithContent(genai.NewContentFromText("stored", genai.RoleModel)).
		WithActions(types.NewEventActions().WithStateDelta(map[string]any{
			"counter":     float64(2),
			"app:theme":   "light",
			"user:locale": "fr",
			"temp:junk":   true,
		}))
	if _, err := svc.AppendEvent(ctx, ses, event); err != nil {
		t.Fatal(err)
	}

	// The caller's view reflects the commit without a refetch.
	if got := ses.State()["counter"]; got != float64(2) {
		t.Errorf("caller view counter = %v, want 2", got)
	}

	stored, err := svc.GetSession(ctx, "demo", "u1", "s1", nil)
	if err != nil {
		t.Fatal(err)
	}
	state := stored.State()
	if got := state["counter"]; got != float64(2) {
		t.Errorf("counter = %v, want 2", got)
	}
	if got := state["app:theme"]; got != "light" {
		t.Errorf("app:theme = %v, want light", got)
	}
	if got := state["user:locale"]; got != "fr" {
		t.Errorf("user:locale = %v, want fr", got)
	}
	if _, ok := state["temp:junk"]; ok {
		t.Error("temp: key persisted, want dropped")
	}

	events := stored.Events()
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	got := events[0]
	if got.ID != event.ID || got.InvocationID != "inv1" || got.Author != "agent" {
		t.Errorf("event identity = %s/%s/%s, want %s/inv1/agent", got.ID, got.InvocationID, got.Author, event.ID)
	}
	if text := got.GetText(); text != "stored" {
		t.Errorf("event text = %q, want stored", text)
	}
	if _, ok := got.Actions.StateDelta["temp:junk"]; ok {
		t.Error("temp: key survived inside the stored event's state delta")
	}
	if v := got.Actions.StateDelta["counter"]; v != float64(2) {
		t.Errorf("stored event delta counter = %v, want 2", v)
	}
	if diff := stored.LastUpdateTime().Sub(event.Timestamp).Abs(); diff > time.Millisecond {
		t.Errorf("LastUpdateTime off by %v from the event timestamp", diff)
	}
}

func TestSQLiteAppendEventStaleConflict(t *testing.T) {
	ctx := context.Background()
	svc := newSQLiteService(t)

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

	first := types.NewEvent().WithAuthor("user").
		WithContent(genai.NewContentFromText("first", genai.RoleUser))
	first.Timestamp = time.Now().Add(time.Second)
	if _, err := svc.AppendEvent(ctx, viewA, first); err != nil {
		t.Fatal(err)
	}

	second := types.NewEvent().WithAuthor("user").
		WithContent(genai.NewContentFromText("second", genai.RoleUser))
	_, err = svc.AppendEvent(ctx, viewB, second)
	var staleErr *types.StaleSessionError
	if !errors.As(err, &staleErr) {
		t.Fatalf("stale append error = %v, want StaleSessionError", err)
	}

	viewB, err = svc.GetSession(ctx, "demo", "u1", "s1", nil)
	if err != nil {
		t.Fatal(err)
	}
	second.Timestamp = time.Now().Add(2 * time.Second)
	if _, err := svc.AppendEvent(ctx, viewB, second); err != nil {
		t.Fatalf("retried append failed: %v", err)
	}
}

func TestSQLiteDeleteSessionCascades(t *testing.T) {
	ctx := context.Background()
	svc := newSQLiteService(t)

	ses, err := svc.CreateSession(ctx, "demo", "u1", "s1", nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AppendEvent(ctx, ses, types.NewEvent().WithAuthor("user").
		WithContent(genai.NewContentFromText("hi", genai.RoleUser))); err != nil {
		t.Fatal(err)
	}

	if err := svc.DeleteSession(ctx, "demo", "u1", "s1"); err != nil {
		t.Fatal(err)
	}
	got, err := svc.GetSession(ctx, "demo", "u1", "s1", nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("deleted session = %+v, want nil", got)
	}

	// Events went with the session row.
	resp, err := svc.ListEvents(ctx, "demo", "u1", "s1", 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	if n := len(resp.Events); n != 0 {
		t.Errorf("got %d events after delete, want 0", n)
	}

	// Deleting again is a no-op.
	if err := svc.DeleteSession(ctx, "demo", "u1", "s1"); err != nil {
		t.Errorf("repeated delete = %v, want nil", err)
	}
}

func TestSQLiteListSessions(t *testing.T) {
	ctx := context.Background()
	svc := newSQLiteService(t)

	for _, key := range []struct{ user, id string }{
		{"u1", "s1"}, {"u1", "s2"}, {"u2", "s3"},
	} {
		if _, err := svc.CreateSession(ctx, "demo", key.user, key.id, nil); err != nil {
			t.Fatal(err)
		}
	}

	mine, err := svc.ListSessions(ctx, "demo", "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(mine) != 2 {
		t.Errorf("got %d sessions for u1, want 2", len(mine))
	}

	// An empty user id lists across users.
	all, err := svc.ListSessions(ctx, "demo", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("got %d sessions for all users, want 3", len(all))
	}
}

// createLegacyDB lays out the v0 per-column schema with the pickle-encoded
// actions column and no metadata table.
func createLegacyDB(t *testing.T, path string) {
	t.Helper()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	if _, err := db.Exec(`
CREATE TABLE sessions (
	app_name TEXT NOT NULL,
	user_id TEXT NOT NULL,
	id TEXT NOT NULL,
	state TEXT NOT NULL DEFAULT '{}',
	create_time REAL NOT NULL,
	update_time REAL NOT NULL,
	PRIMARY KEY (app_name, user_id, id)
);
CREATE TABLE events (
	id TEXT NOT NULL,
	app_name TEXT NOT NULL,
	user_id TEXT NOT NULL,
	session_id TEXT NOT NULL,
	invocation_id TEXT,
	author TEXT,
	timestamp REAL NOT NULL,
	content TEXT,
	actions BLOB,
	PRIMARY KEY (id, app_name, user_id, session_id)
);`); err != nil {
		t.Fatal(err)
	}
	now := float64(time.Now().Unix())
	if _, err := db.Exec(
		`INSERT INTO sessions (app_name, user_id, id, state, create_time, update_time) VALUES ('demo', 'u1', 's1', '{}', ?, ?)`,
		now, now); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(
		`INSERT INTO events (id, app_name, user_id, session_id, invocation_id, author, timestamp, content, actions) VALUES ('ev1', 'demo', 'u1', 's1', 'inv1', 'user', ?, ?, X'80')`,
		now, `{"role":"user","parts":[{"text":"hello"}]}`); err != nil {
		t.Fatal(err)
	}
}

func TestSQLiteLegacySchemaReadOnly(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.db")
	createLegacyDB(t, path)

	svc, err := session.NewSQLiteService(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	defer svc.Close()

	ses, err := svc.GetSession(ctx, "demo", "u1", "s1", nil)
	if err != nil {
		t.Fatal(err)
	}
	if ses == nil {
		t.Fatal("legacy session not found")
	}
	events := ses.Events()
	if len(events) != 1 {
		t.Fatalf("got %d legacy events, want 1", len(events))
	}
	if got := events[0].Author; got != "user" {
		t.Errorf("author = %q, want user", got)
	}
	if got := events[0].GetText(); got != "hello" {
		t.Errorf("text = %q, want hello", got)
	}
	// Pickle-encoded actions are not decoded.
	if events[0].Actions != nil && len(events[0].Actions.StateDelta) != 0 {
		t.Errorf("legacy actions decoded unexpectedly: %+v", events[0].Actions)
	}

	_, err = svc.AppendEvent(ctx, ses, types.NewEvent().WithAuthor("user").
		WithContent(genai.NewContentFromText("more", genai.RoleUser)))
	if err == nil || !strings.Contains(err.Error(), "legacy") {
		t.Errorf("append to legacy db = %v, want legacy schema error", err)
	}
}
