// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"context"
	"time"

	"google.golang.org/genai"
)

// MemoryService defines the interface for long-term memory services.
//
// A session may be added multiple times during its lifetime.
type MemoryService interface {
	// AddSessionToMemory adds the contents of a session to memory.
	AddSessionToMemory(ctx context.Context, session Session) error

	// SearchMemory searches for memories of a user that match the query.
	SearchMemory(ctx context.Context, appName, userID, query string) (*SearchMemoryResponse, error)

	// Close releases resources held by the service.
	Close() error
}

// MemoryEntry represents one memory entry.
type MemoryEntry struct {
	// The main content of the memory.
	Content *genai.Content `json:"content,omitempty"`

	// The author of the memory.
	Author string `json:"author,omitempty"`

	// The timestamp when the original content of this memory happened.
	Timestamp time.Time `json:"timestamp,omitzero"`
}

// SearchMemoryResponse represents the response from a memory search.
type SearchMemoryResponse struct {
	// Memories are the memory items matching the search.
	Memories []*MemoryEntry `json:"memories"`
}
