// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package memory

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"unicode"

	"github.com/go-a2a/agentcore/internal/xmaps"
	"github.com/go-a2a/agentcore/types"
	"github.com/go-a2a/agentcore/types/py"
)

// InMemoryService represents an in-memory memory service for prototyping purpose only.
//
// Uses keyword matching instead of semantic search.
type InMemoryService struct {
	// Keys are app_name/user_id, session_id. Values are session event lists.
	sessionEvents map[string]map[string][]*types.Event
	logger        *slog.Logger
	mu            sync.RWMutex
}

var _ types.MemoryService = (*InMemoryService)(nil)

// WithLogger sets the logger for the InMemoryService.
func (s *InMemoryService) WithLogger(logger *slog.Logger) *InMemoryService {
	s.logger = logger
	return s
}

// NewInMemoryService creates a new InMemoryService.
func NewInMemoryService() *InMemoryService {
	return &InMemoryService{
		sessionEvents: make(map[string]map[string][]*types.Event),
		logger:        slog.Default(),
	}
}

func (s *InMemoryService) userKey(appName, userID string) string {
	return fmt.Sprintf("%s/%s", appName, userID)
}

// extractWordsLower splits the text into lowercase words, dropping punctuation.
func extractWordsLower(text string) py.Set[string] {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return py.NewSet(words...)
}

// AddSessionToMemory implements [types.MemoryService].
func (s *InMemoryService) AddSessionToMemory(ctx context.Context, session types.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	userKey := s.userKey(session.AppName(), session.UserID())
	if _, ok := s.sessionEvents[userKey]; !ok {
		s.sessionEvents[userKey] = make(map[string][]*types.Event)
	}

	events := make([]*types.Event, 0, len(session.Events()))
	for _, event := range session.Events() {
		if event.Content != nil && len(event.Content.Parts) > 0 {
			events = append(events, event)
		}
	}
	s.sessionEvents[userKey][session.ID()] = events

	return nil
}

// SearchMemory implements [types.MemoryService].
func (s *InMemoryService) SearchMemory(ctx context.Context, appName, userID, query string) (*types.SearchMemoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userKey := s.userKey(appName, userID)
	if !xmaps.Contains(s.sessionEvents, userKey) {
		return &types.SearchMemoryResponse{}, nil
	}

	wordsInQuery := extractWordsLower(query)
	response := &types.SearchMemoryResponse{
		Memories: make([]*types.MemoryEntry, 0),
	}

	for _, sessionEvent := range s.sessionEvents[userKey] {
		for _, event := range sessionEvent {
			if event.Content == nil || len(event.Content.Parts) == 0 {
				continue
			}
			var partText []string
			for _, part := range event.Content.Parts {
				if part.Text != "" {
					partText = append(partText, part.Text)
				}
			}
			wordsInEvent := extractWordsLower(strings.Join(partText, " "))
			if wordsInEvent.Len() == 0 {
				continue
			}

			if wordsInEvent.HasAny(wordsInQuery.UnsortedList()...) {
				response.Memories = append(response.Memories, &types.MemoryEntry{
					Content:   event.Content,
					Author:    event.Author,
					Timestamp: event.Timestamp,
				})
			}
		}
	}

	return response, nil
}

// Close implements [types.MemoryService].
func (s *InMemoryService) Close() error {
	// nothing to do
	return nil
}
