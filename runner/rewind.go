// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package runner

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"google.golang.org/genai"

	"github.com/go-a2a/agentcore/artifact"
	"github.com/go-a2a/agentcore/types"
)

func isScopedKey(key string) bool {
	return strings.HasPrefix(key, types.AppPrefix) || strings.HasPrefix(key, types.UserPrefix)
}

// RewindAsync rewinds the session to the point just before the given
// invocation by appending a single compensating event.
//
// The rewind event is authored "user" under a fresh invocation id and carries
// a state delta that restores every non-scoped key to its value at the rewind
// point (null for keys that did not exist then) and an artifact delta that
// re-saves the rewind-point payload of every changed artifact. app: and
// user: state, and user: artifacts, are never rewound.
func (r *Runner) RewindAsync(ctx context.Context, userID, sessionID, beforeInvocationID string) error {
	session, err := r.sessionService.GetSession(ctx, r.appName, userID, sessionID, nil)
	if err != nil {
		return err
	}
	if session == nil {
		return r.sessionNotFoundError(sessionID)
	}

	events := session.Events()
	rewindIndex := -1
	for i, event := range events {
		if event.InvocationID == beforeInvocationID {
			rewindIndex = i
			break
		}
	}
	if rewindIndex == -1 {
		return &types.ResourceNotFoundError{
			Resource: "invocation",
			Message:  fmt.Sprintf("invocation id not found: %s", beforeInvocationID),
		}
	}

	stateDelta := computeStateDeltaForRewind(session, rewindIndex)
	artifactDelta, err := r.computeArtifactDeltaForRewind(ctx, session, rewindIndex)
	if err != nil {
		return err
	}

	rewindEvent := types.NewEvent().
		WithAuthor("user").
		WithInvocationID(types.NewInvocationContextID()).
		WithActions(types.NewEventActions().
			WithRewindBeforeInvocationID(beforeInvocationID).
			WithStateDelta(stateDelta).
			WithArtifactDelta(artifactDelta))

	r.logger.InfoContext(ctx, "rewinding session",
		slog.String("session_id", sessionID),
		slog.String("before_invocation_id", beforeInvocationID),
	)

	return r.appendEvent(ctx, session, rewindEvent)
}

// computeStateDeltaForRewind produces the delta that turns the current
// session state back into the state held at the rewind point.
func computeStateDeltaForRewind(session types.Session, rewindIndex int) map[string]any {
	events := session.Events()

	stateAtRewind := make(map[string]any)
	for _, event := range events[:rewindIndex] {
		if event.Actions == nil {
			continue
		}
		for k, v := range event.Actions.StateDelta {
			if isScopedKey(k) {
				continue
			}
			if v == nil {
				delete(stateAtRewind, k)
				continue
			}
			stateAtRewind[k] = v
		}
	}

	currentState := session.State()
	delta := make(map[string]any)

	for key, valueAtRewind := range stateAtRewind {
		current, ok := currentState[key]
		if !ok || !equalStateValue(current, valueAtRewind) {
			delta[key] = valueAtRewind
		}
	}
	// Keys added after the rewind point are removed by a null delta.
	for key := range currentState {
		if isScopedKey(key) {
			continue
		}
		if _, ok := stateAtRewind[key]; !ok {
			delta[key] = nil
		}
	}

	return delta
}

func equalStateValue(a, b any) bool {
	return reflect.DeepEqual(a, b)
}

// computeArtifactDeltaForRewind re-saves the rewind-point payload of every
// artifact whose version moved after the rewind point, and returns the delta
// recording the new version numbers.
func (r *Runner) computeArtifactDeltaForRewind(ctx context.Context, session types.Session, rewindIndex int) (map[string]int, error) {
	if r.artifactService == nil {
		return map[string]int{}, nil
	}

	events := session.Events()

	versionsAtRewind := make(map[string]int)
	for _, event := range events[:rewindIndex] {
		if event.Actions == nil {
			continue
		}
		for filename, version := range event.Actions.ArtifactDelta {
			versionsAtRewind[filename] = version
		}
	}

	currentVersions := make(map[string]int)
	for _, event := range events {
		if event.Actions == nil {
			continue
		}
		for filename, version := range event.Actions.ArtifactDelta {
			currentVersions[filename] = version
		}
	}

	delta := make(map[string]int)
	for filename, current := range currentVersions {
		if strings.HasPrefix(filename, types.UserPrefix) {
			// User artifacts are not restored on rewind.
			continue
		}
		atRewind, existed := versionsAtRewind[filename]
		if existed && atRewind == current {
			continue
		}

		var part *genai.Part
		if existed {
			// Restore by reference to the rewind-point version.
			uri := artifact.BuildURI(r.appName, session.UserID(), session.ID(), filename, atRewind)
			part = genai.NewPartFromURI(uri, "")
		} else {
			// The artifact did not exist at the rewind point; mark it
			// inaccessible with a zero-byte placeholder.
			part = genai.NewPartFromBytes([]byte{}, "application/octet-stream")
		}
		if _, err := r.artifactService.SaveArtifact(ctx, r.appName, session.UserID(), session.ID(), filename, part); err != nil {
			return nil, fmt.Errorf("restore artifact %s: %w", filename, err)
		}
		delta[filename] = current + 1
	}

	return delta, nil
}
