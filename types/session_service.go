// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"context"
	"time"
)

// GetSessionConfig is the configuration of getting a session.
type GetSessionConfig struct {
	// NumRecentEvents keeps only the most recent N events when positive.
	NumRecentEvents int

	// AfterTimestamp keeps only events strictly after the given time when set.
	AfterTimestamp time.Time
}

// ListEventsResponse is the response of listing events in a session.
type ListEventsResponse struct {
	Events        []*Event
	NextPageToken string
}

// SessionService is an interface for managing sessions and their events.
//
// Lookups for missing sessions return nil rather than an error; creating a
// duplicate session id fails with [*AlreadyExistsError].
type SessionService interface {
	// CreateSession creates a new session with the given parameters.
	//
	// An empty sessionID asks the service to mint a fresh UUID. The initial
	// state is split by the app:/user: prefixes and routed to the matching
	// scope store; the returned session carries the merged view.
	CreateSession(ctx context.Context, appName, userID, sessionID string, state map[string]any) (Session, error)

	// GetSession retrieves a specific session, or nil if it does not exist.
	GetSession(ctx context.Context, appName, userID, sessionID string, config *GetSessionConfig) (Session, error)

	// ListSessions lists sessions for a user/app. The returned sessions carry
	// metadata only; their Events are always empty.
	ListSessions(ctx context.Context, appName, userID string) ([]Session, error)

	// DeleteSession removes a specific session and cascades to its events.
	// Deleting a missing session is a no-op.
	DeleteSession(ctx context.Context, appName, userID, sessionID string) error

	// AppendEvent appends an event to a session and commits its state delta.
	//
	// Partial events are returned unchanged without being persisted. The
	// temp: keys of the state delta are stripped; app: and user: keys are
	// routed to their scope stores. Fails with [*StaleSessionError] when the
	// stored session is newer than the given in-memory session.
	AppendEvent(ctx context.Context, session Session, event *Event) (*Event, error)

	// ListEvents retrieves events within a session.
	ListEvents(ctx context.Context, appName, userID, sessionID string, maxEvents int, since *time.Time) (*ListEventsResponse, error)

	// Close releases resources held by the service.
	Close() error
}
