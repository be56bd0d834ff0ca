// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package artifact_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/genai"

	"github.com/go-a2a/agentcore/artifact"
	"github.com/go-a2a/agentcore/types"
)

func TestSaveArtifactVersioning(t *testing.T) {
	ctx := context.Background()
	svc := artifact.NewInMemoryService()

	v0, err := svc.SaveArtifact(ctx, "demo", "u1", "s1", "notes.txt", genai.NewPartFromText("hello"))
	if err != nil {
		t.Fatal(err)
	}
	if v0 != 0 {
		t.Errorf("first save version = %d, want 0", v0)
	}

	v1, err := svc.SaveArtifact(ctx, "demo", "u1", "s1", "notes.txt", genai.NewPartFromText("world"))
	if err != nil {
		t.Fatal(err)
	}
	if v1 != 1 {
		t.Errorf("second save version = %d, want 1", v1)
	}

	// nil version loads the latest.
	part, err := svc.LoadArtifact(ctx, "demo", "u1", "s1", "notes.txt", nil)
	if err != nil {
		t.Fatal(err)
	}
	if part == nil || part.Text != "world" {
		t.Errorf("latest = %+v, want text %q", part, "world")
	}

	zero := 0
	part, err = svc.LoadArtifact(ctx, "demo", "u1", "s1", "notes.txt", &zero)
	if err != nil {
		t.Fatal(err)
	}
	if part == nil || part.Text != "hello" {
		t.Errorf("version 0 = %+v, want text %q", part, "hello")
	}

	versions, err := svc.ListVersions(ctx, "demo", "u1", "s1", "notes.txt")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int{0, 1}, versions); diff != "" {
		t.Errorf("versions mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadArtifactMissing(t *testing.T) {
	ctx := context.Background()
	svc := artifact.NewInMemoryService()

	part, err := svc.LoadArtifact(ctx, "demo", "u1", "s1", "nope.txt", nil)
	if err != nil {
		t.Fatal(err)
	}
	if part != nil {
		t.Errorf("missing artifact = %+v, want nil", part)
	}

	big := 99
	if _, err := svc.SaveArtifact(ctx, "demo", "u1", "s1", "a.txt", genai.NewPartFromText("x")); err != nil {
		t.Fatal(err)
	}
	part, err = svc.LoadArtifact(ctx, "demo", "u1", "s1", "a.txt", &big)
	if err != nil {
		t.Fatal(err)
	}
	if part != nil {
		t.Errorf("out of range version = %+v, want nil", part)
	}
}

func TestUserScopedArtifactVisibility(t *testing.T) {
	ctx := context.Background()
	svc := artifact.NewInMemoryService()

	if _, err := svc.SaveArtifact(ctx, "demo", "u1", "", "user:profile.json", genai.NewPartFromText("{}")); err != nil {
		t.Fatal(err)
	}

	// Visible from any session of the same user.
	for _, sid := range []string{"s1", "s2"} {
		keys, err := svc.ListArtifactKeys(ctx, "demo", "u1", sid)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([]string{"user:profile.json"}, keys); diff != "" {
			t.Errorf("keys for session %s mismatch (-want +got):\n%s", sid, diff)
		}
	}

	// Invisible to other users.
	keys, err := svc.ListArtifactKeys(ctx, "demo", "u2", "s1")
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 0 {
		t.Errorf("keys for other user = %v, want none", keys)
	}
}

func TestSaveArtifactInvalidFilename(t *testing.T) {
	ctx := context.Background()
	svc := artifact.NewInMemoryService()

	for _, name := range []string{"", "/abs.txt", "../escape.txt", "a/../../b"} {
		_, err := svc.SaveArtifact(ctx, "demo", "u1", "s1", name, genai.NewPartFromText("x"))
		var invalidErr *types.InvalidArgumentError
		if !errors.As(err, &invalidErr) {
			t.Errorf("SaveArtifact(%q) error = %v, want InvalidArgumentError", name, err)
		}
	}
}

func TestGetArtifactVersionMetadata(t *testing.T) {
	ctx := context.Background()
	svc := artifact.NewInMemoryService()

	if _, err := svc.SaveArtifact(ctx, "demo", "u1", "s1", "notes.txt", genai.NewPartFromText("hello")); err != nil {
		t.Fatal(err)
	}

	meta, err := svc.GetArtifactVersion(ctx, "demo", "u1", "s1", "notes.txt", nil)
	if err != nil {
		t.Fatal(err)
	}
	if meta == nil {
		t.Fatal("GetArtifactVersion = nil")
	}
	if meta.Version != 0 {
		t.Errorf("Version = %d, want 0", meta.Version)
	}
	wantURI := artifact.BuildURI("demo", "u1", "s1", "notes.txt", 0)
	if meta.CanonicalURI != wantURI {
		t.Errorf("CanonicalURI = %q, want %q", meta.CanonicalURI, wantURI)
	}
}
