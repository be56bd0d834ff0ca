// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// maxErrorMessageLen bounds the message carried by a RunError event.
const maxErrorMessageLen = 500

// ContentError is a prose-embedded failure found in model output.
type ContentError struct {
	Code    string
	Message string
}

// keywordCodes maps API failure keywords to machine-readable codes, in
// detection priority order. Keywords also match with spaces in place of
// underscores, so "Invalid API key" hits invalid_api_key.
var keywordCodes = []struct {
	keyword string
	code    string
}{
	{"invalid_api_key", "INVALID_API_KEY"},
	{"rate_limit", "RATE_LIMIT"},
	{"authentication_failed", "AUTHENTICATION_FAILED"},
	{"connection_error", "CONNECTION_ERROR"},
	{"timeout", "TIMEOUT"},
	{"model_not_found", "MODEL_NOT_FOUND"},
	{"quota_exceeded", "QUOTA_EXCEEDED"},
}

var errorCodeRE = regexp.MustCompile(`\bError code: \d+`)

// DetectContentError scans text for failures an LLM returned as normal prose.
//
// First match wins: API failure keywords, then an Exception: prefix, then a
// Python traceback marker, then a generic Error: or "Error code: N" marker.
// Returns nil when the text looks healthy.
func DetectContentError(text string) *ContentError {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	lower := strings.ToLower(text)

	for _, kc := range keywordCodes {
		if strings.Contains(lower, kc.keyword) || strings.Contains(lower, strings.ReplaceAll(kc.keyword, "_", " ")) {
			return &ContentError{Code: kc.code, Message: truncateMessage(text)}
		}
	}
	if strings.HasPrefix(text, "Exception:") {
		return &ContentError{Code: "EXCEPTION", Message: truncateMessage(text)}
	}
	if strings.Contains(text, "Traceback (most recent call last)") {
		return &ContentError{Code: "TRACEBACK", Message: truncateMessage(text)}
	}
	if strings.HasPrefix(text, "Error:") || errorCodeRE.MatchString(text) {
		return &ContentError{Code: "ERROR", Message: truncateMessage(text)}
	}

	return nil
}

// truncateMessage caps s at maxErrorMessageLen bytes without splitting a rune.
func truncateMessage(s string) string {
	if len(s) <= maxErrorMessageLen {
		return s
	}
	cut := maxErrorMessageLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
