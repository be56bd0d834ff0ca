// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package server_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/go-a2a/agentcore/server"
)

func TestDetectContentError(t *testing.T) {
	tests := []struct {
		name string
		text string
		code string
	}{
		{"healthy text", "The capital of France is Paris.", ""},
		{"empty text", "   ", ""},
		{"invalid api key keyword", "request failed: invalid_api_key", "INVALID_API_KEY"},
		{"invalid api key prose", "Error code: 401 - Invalid API key provided", "INVALID_API_KEY"},
		{"rate limit", "upstream said rate_limit reached", "RATE_LIMIT"},
		{"rate limit prose", "You hit the rate limit, slow down", "RATE_LIMIT"},
		{"authentication failed", "authentication_failed for this key", "AUTHENTICATION_FAILED"},
		{"connection error", "connection_error talking to upstream", "CONNECTION_ERROR"},
		{"timeout", "the request hit a timeout after 30s", "TIMEOUT"},
		{"model not found", "model_not_found: gemini-99", "MODEL_NOT_FOUND"},
		{"quota exceeded", "quota_exceeded for this project", "QUOTA_EXCEEDED"},
		{"exception prefix", "Exception: something broke", "EXCEPTION"},
		{"python traceback", "oops\nTraceback (most recent call last):\n  File ...", "TRACEBACK"},
		{"error prefix", "Error: could not reach host", "ERROR"},
		{"error code marker", "upstream replied Error code: 503", "ERROR"},
		{"error prefix not at start", "this mentions the word error only", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := server.DetectContentError(tt.text)
			if tt.code == "" {
				if got != nil {
					t.Fatalf("DetectContentError(%q) = %+v, want nil", tt.text, got)
				}
				return
			}
			if got == nil {
				t.Fatalf("DetectContentError(%q) = nil, want code %s", tt.text, tt.code)
			}
			if got.Code != tt.code {
				t.Errorf("code = %s, want %s", got.Code, tt.code)
			}
		})
	}
}

func TestDetectContentErrorPriority(t *testing.T) {
	// Keyword detection outranks the generic error-code marker.
	got := server.DetectContentError("Error code: 401 - invalid_api_key")
	if got == nil || got.Code != "INVALID_API_KEY" {
		t.Fatalf("got %+v, want INVALID_API_KEY", got)
	}

	// Earlier keywords outrank later ones.
	got = server.DetectContentError("invalid_api_key caused by quota_exceeded")
	if got == nil || got.Code != "INVALID_API_KEY" {
		t.Fatalf("got %+v, want INVALID_API_KEY", got)
	}
}

func TestDetectContentErrorTruncatesMessage(t *testing.T) {
	text := "Error: " + strings.Repeat("x", 2000)
	got := server.DetectContentError(text)
	if got == nil {
		t.Fatal("DetectContentError = nil")
	}
	if len(got.Message) != 500 {
		t.Errorf("message length = %d, want 500", len(got.Message))
	}
	if !strings.HasPrefix(text, got.Message) {
		t.Error("truncated message is not a prefix of the input")
	}
}

func TestDetectContentErrorTruncatesOnRuneBoundary(t *testing.T) {
	// "é" is two bytes; pad so one straddles the 500-byte cap.
	text := "Error: " + strings.Repeat("x", 492) + "ééé"
	got := server.DetectContentError(text)
	if got == nil {
		t.Fatal("DetectContentError = nil")
	}
	if !utf8.ValidString(got.Message) {
		t.Errorf("truncated message is not valid UTF-8: %q", got.Message)
	}
	if len(got.Message) > 500 {
		t.Errorf("message length = %d, want at most 500", len(got.Message))
	}
	if !strings.HasPrefix(text, got.Message) {
		t.Error("truncated message is not a prefix of the input")
	}
}
