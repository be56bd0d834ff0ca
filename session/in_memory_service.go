// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tiendc/go-deepcopy"

	"github.com/go-a2a/agentcore/types"
)

// InMemoryService is an in-memory implementation of the [types.SessionService].
//
// Intended for single-process testing; a single mutex covers both reads and
// writes.
type InMemoryService struct {
	// sessions is a map from app name to a map from user ID to a map from session ID to session.
	sessions map[string]map[string]map[string]*session

	// userState is a map from app name to a map from user ID to a map from key to value.
	userState map[string]map[string]map[string]any

	// appState is a map from app name to a map from key to value.
	appState map[string]map[string]any

	logger *slog.Logger
	mu     sync.RWMutex
}

var _ types.SessionService = (*InMemoryService)(nil)

// NewInMemoryService creates a new [InMemoryService].
func NewInMemoryService() *InMemoryService {
	return &InMemoryService{
		sessions:  make(map[string]map[string]map[string]*session),
		userState: make(map[string]map[string]map[string]any),
		appState:  make(map[string]map[string]any),
		logger:    slog.Default(),
	}
}

// CreateSession creates a new session.
func (s *InMemoryService) CreateSession(ctx context.Context, appName, userID, sessionID string, state map[string]any) (types.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	s.logger.InfoContext(ctx, "Creating session",
		slog.String("app_name", appName),
		slog.String("user_id", userID),
		slog.String("session_id", sessionID),
	)

	if _, ok := s.sessions[appName]; !ok {
		s.sessions[appName] = make(map[string]map[string]*session)
	}
	if _, ok := s.sessions[appName][userID]; !ok {
		s.sessions[appName][userID] = make(map[string]*session)
	}
	if _, ok := s.sessions[appName][userID][sessionID]; ok {
		return nil, &types.AlreadyExistsError{
			Message: fmt.Sprintf("session %s already exists for user %s in app %s", sessionID, userID, appName),
		}
	}

	// Route the initial state by scope prefix. temp: keys are dropped.
	sessionState := make(map[string]any)
	for key, value := range state {
		switch {
		case strings.HasPrefix(key, types.AppPrefix):
			s.setAppState(appName, strings.TrimPrefix(key, types.AppPrefix), value)
		case strings.HasPrefix(key, types.UserPrefix):
			s.setUserState(appName, userID, strings.TrimPrefix(key, types.UserPrefix), value)
		case strings.HasPrefix(key, types.TempPrefix):
			// never persisted
		default:
			sessionState[key] = value
		}
	}

	ses := NewSession(appName, userID, sessionID, sessionState, time.Now())
	s.sessions[appName][userID][sessionID] = ses

	return s.mergeState(appName, userID, s.copySession(ses)), nil
}

// GetSession retrieves a session by ID, or nil if it does not exist.
func (s *InMemoryService) GetSession(ctx context.Context, appName, userID, sessionID string, config *types.GetSessionConfig) (types.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.sessions[appName][userID][sessionID]
	if !ok {
		return nil, nil
	}

	copied := s.copySession(stored)

	if config != nil {
		if !config.AfterTimestamp.IsZero() {
			copied.events = copied.GetEventsAfter(config.AfterTimestamp)
		}
		if config.NumRecentEvents > 0 {
			copied.events = copied.GetRecentEvents(config.NumRecentEvents)
		}
	}

	return s.mergeState(appName, userID, copied), nil
}

// ListSessions lists all sessions for a user. The returned sessions carry no
// events.
func (s *InMemoryService) ListSessions(ctx context.Context, appName, userID string) ([]types.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessionsWithoutEvents := []types.Session{}
	for _, ses := range s.sessions[appName][userID] {
		sessionsWithoutEvents = append(sessionsWithoutEvents,
			NewSession(ses.appName, ses.userID, ses.id, make(map[string]any), ses.lastUpdateTime))
	}

	return sessionsWithoutEvents, nil
}

// DeleteSession deletes a session. Deleting a missing session is a no-op.
func (s *InMemoryService) DeleteSession(ctx context.Context, appName, userID, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.InfoContext(ctx, "Deleting session",
		slog.String("app_name", appName),
		slog.String("user_id", userID),
		slog.String("session_id", sessionID),
	)

	if users, ok := s.sessions[appName]; ok {
		delete(users[userID], sessionID)
	}
	return nil
}

// AppendEvent appends an event to a session and commits its state delta.
func (s *InMemoryService) AppendEvent(ctx context.Context, ses types.Session, event *types.Event) (*types.Event, error) {
	if event.IsPartial() {
		return event, nil
	}
	trimTempStateDelta(event)

	s.mu.Lock()
	defer s.mu.Unlock()

	appName := ses.AppName()
	userID := ses.UserID()
	sessionID := ses.ID()

	stored, ok := s.sessions[appName][userID][sessionID]
	if !ok {
		return nil, &types.ResourceNotFoundError{
			Resource: "session",
			Message:  fmt.Sprintf("%s for user %s in app %s", sessionID, userID, appName),
		}
	}

	if stored.lastUpdateTime.After(ses.LastUpdateTime()) {
		return nil, &types.StaleSessionError{
			SessionID:   sessionID,
			StorageTime: stored.lastUpdateTime,
			SessionTime: ses.LastUpdateTime(),
		}
	}

	if event.Actions != nil {
		for key, value := range event.Actions.StateDelta {
			switch {
			case strings.HasPrefix(key, types.AppPrefix):
				s.setAppState(appName, strings.TrimPrefix(key, types.AppPrefix), value)
			case strings.HasPrefix(key, types.UserPrefix):
				s.setUserState(appName, userID, strings.TrimPrefix(key, types.UserPrefix), value)
			default:
				stored.state[key] = value
			}
		}
	}

	stored.AddEvent(event)
	stored.SetLastUpdateTime(event.Timestamp)

	ses.AddEvent(event)
	ses.SetLastUpdateTime(event.Timestamp)

	// Keep the caller's merged view in line with the committed delta.
	if event.Actions != nil {
		for key, value := range event.Actions.StateDelta {
			ses.State()[key] = value
		}
	}

	return event, nil
}

// ListEvents lists events for a session.
func (s *InMemoryService) ListEvents(ctx context.Context, appName, userID, sessionID string, maxEvents int, since *time.Time) (*types.ListEventsResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.sessions[appName][userID][sessionID]
	if !ok {
		return nil, &types.ResourceNotFoundError{
			Resource: "session",
			Message:  fmt.Sprintf("%s for user %s in app %s", sessionID, userID, appName),
		}
	}

	events := stored.events
	if since != nil {
		events = stored.GetEventsAfter(*since)
	}
	if maxEvents > 0 && len(events) > maxEvents {
		events = events[len(events)-maxEvents:]
	}

	out := make([]*types.Event, len(events))
	copy(out, events)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })

	return &types.ListEventsResponse{Events: out}, nil
}

// Close implements [types.SessionService].
func (s *InMemoryService) Close() error {
	return nil
}

func (s *InMemoryService) setAppState(appName, key string, value any) {
	if _, ok := s.appState[appName]; !ok {
		s.appState[appName] = make(map[string]any)
	}
	s.appState[appName][key] = value
}

func (s *InMemoryService) setUserState(appName, userID, key string, value any) {
	if _, ok := s.userState[appName]; !ok {
		s.userState[appName] = make(map[string]map[string]any)
	}
	if _, ok := s.userState[appName][userID]; !ok {
		s.userState[appName][userID] = make(map[string]any)
	}
	s.userState[appName][userID][key] = value
}

// copySession creates a deep copy of a session so callers cannot mutate the
// stored one.
func (s *InMemoryService) copySession(ses *session) *session {
	copied := NewSession(ses.appName, ses.userID, ses.id, nil, ses.lastUpdateTime)

	copied.events = append(copied.events, ses.events...)

	var state map[string]any
	if err := deepcopy.Copy(&state, ses.state); err != nil {
		// fall back to a shallow copy for values deepcopy cannot handle
		state = make(map[string]any, len(ses.state))
		for k, v := range ses.state {
			state[k] = v
		}
	}
	copied.state = state

	return copied
}

// mergeState merges app and user state into the session state view.
func (s *InMemoryService) mergeState(appName, userID string, ses *session) *session {
	if appState, ok := s.appState[appName]; ok {
		for key, value := range appState {
			ses.state[types.AppPrefix+key] = value
		}
	}

	if userState, ok := s.userState[appName][userID]; ok {
		for key, value := range userState {
			ses.state[types.UserPrefix+key] = value
		}
	}

	return ses
}
