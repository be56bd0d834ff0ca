// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"fmt"
	"net/http"

	"github.com/bytedance/sonic"

	"github.com/go-a2a/agentcore/types"
)

// runErrorType is the event type closing a failed stream.
const runErrorType = "RUN_ERROR"

// RunError is the terminal event emitted on any stream failure.
type RunError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func newRunError(code, message string) *RunError {
	return &RunError{Type: runErrorType, Code: code, Message: truncateMessage(message)}
}

func runErrorFrom(err error) *RunError {
	return newRunError(string(types.KindOf(err)), err.Error())
}

// sseWriter writes Server-Sent Events frames.
type sseWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// newSSEWriter sets the stream headers and returns the writer, or an error
// when the underlying connection cannot flush.
func newSSEWriter(w http.ResponseWriter) (*sseWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("response writer does not support streaming")
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache, no-transform")
	h.Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &sseWriter{w: w, flusher: flusher}, nil
}

// writeEvent marshals v and writes it as one data frame.
func (s *sseWriter) writeEvent(v any) error {
	data, err := sonic.ConfigFastest.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode sse event: %w", err)
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", data); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}
