// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package artifact_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-a2a/agentcore/artifact"
)

func TestURIRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		uri  artifact.URI
	}{
		{
			name: "session scoped",
			uri:  artifact.URI{AppName: "demo", UserID: "u1", SessionID: "s1", Filename: "notes.txt", Version: 0},
		},
		{
			name: "user scoped",
			uri:  artifact.URI{AppName: "demo", UserID: "u1", Filename: "user:profile.json", Version: 3},
		},
		{
			name: "filename with slashes",
			uri:  artifact.URI{AppName: "demo", UserID: "u1", SessionID: "s1", Filename: "reports/2025/q1.pdf", Version: 12},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := artifact.BuildURI(tt.uri.AppName, tt.uri.UserID, tt.uri.SessionID, tt.uri.Filename, tt.uri.Version)
			got := artifact.ParseURI(s)
			if got == nil {
				t.Fatalf("ParseURI(%q) = nil", s)
			}
			if diff := cmp.Diff(tt.uri, *got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseURIInvalid(t *testing.T) {
	invalid := []string{
		"",
		"file:///tmp/x",
		"artifact://apps/",
		"artifact://apps/demo/artifacts/x/versions/0",
		"artifact://apps/demo/users/u1/artifacts/x",
		"artifact://apps/demo/users/u1/artifacts/x/versions/abc",
		"artifact://apps/demo/users/u1/artifacts/x/versions/-1",
		"artifact://apps/demo/users/u1/sessions//artifacts/x/versions/0",
	}
	for _, s := range invalid {
		if got := artifact.ParseURI(s); got != nil {
			t.Errorf("ParseURI(%q) = %+v, want nil", s, got)
		}
	}
}
