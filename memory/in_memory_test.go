// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package memory_test

import (
	"context"
	"testing"
	"time"

	"google.golang.org/genai"

	"github.com/go-a2a/agentcore/memory"
	"github.com/go-a2a/agentcore/session"
	"github.com/go-a2a/agentcore/types"
)

func memorySession(t *testing.T, texts map[string]string) types.Session {
	t.Helper()

	ses := session.NewSession("demo", "u1", "s1", nil, time.Now())
	for author, text := range texts {
		ses.AddEvent(types.NewEvent().
			WithAuthor(author).
			WithInvocationID("inv1").
			WithContent(genai.NewContentFromText(text, genai.RoleUser)))
	}
	return ses
}

func TestSearchMemory(t *testing.T) {
	ctx := context.Background()
	svc := memory.NewInMemoryService()

	ses := memorySession(t, map[string]string{
		"user":  "What is the capital of France?",
		"model": "The capital of France is Paris.",
	})
	if err := svc.AddSessionToMemory(ctx, ses); err != nil {
		t.Fatal(err)
	}

	resp, err := svc.SearchMemory(ctx, "demo", "u1", "capital France")
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Memories) != 2 {
		t.Fatalf("got %d memories, want 2", len(resp.Memories))
	}

	// A query matching several words in one event yields that event once.
	resp, err = svc.SearchMemory(ctx, "demo", "u1", "paris")
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Memories) != 1 {
		t.Fatalf("got %d memories, want 1", len(resp.Memories))
	}
	if got := resp.Memories[0].Author; got != "model" {
		t.Errorf("author = %q, want %q", got, "model")
	}
}

func TestSearchMemoryNoMatch(t *testing.T) {
	ctx := context.Background()
	svc := memory.NewInMemoryService()

	if err := svc.AddSessionToMemory(ctx, memorySession(t, map[string]string{"user": "hello there"})); err != nil {
		t.Fatal(err)
	}

	resp, err := svc.SearchMemory(ctx, "demo", "u1", "unrelated")
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Memories) != 0 {
		t.Errorf("got %d memories, want 0", len(resp.Memories))
	}

	// Other users see nothing.
	resp, err = svc.SearchMemory(ctx, "demo", "u2", "hello")
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Memories) != 0 {
		t.Errorf("got %d memories for other user, want 0", len(resp.Memories))
	}
}
