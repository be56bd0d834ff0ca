// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package artifact

import (
	"fmt"
	"strconv"
	"strings"
)

// URI is the parsed form of a canonical artifact reference:
//
//	artifact://apps/{app}/users/{user}[/sessions/{session}]/artifacts/{filename}/versions/{n}
//
// A reference without a sessions segment addresses a user-scoped artifact.
type URI struct {
	AppName   string
	UserID    string
	SessionID string
	Filename  string
	Version   int
}

const uriScheme = "artifact://"

// BuildURI returns the canonical reference for one artifact version.
// An empty sessionID produces the user-scoped form.
func BuildURI(appName, userID, sessionID, filename string, version int) string {
	if sessionID == "" {
		return fmt.Sprintf("artifact://apps/%s/users/%s/artifacts/%s/versions/%d",
			appName, userID, filename, version)
	}
	return fmt.Sprintf("artifact://apps/%s/users/%s/sessions/%s/artifacts/%s/versions/%d",
		appName, userID, sessionID, filename, version)
}

// ParseURI parses a canonical artifact reference. Parsing is strict; any URI
// outside the grammar, including unknown schemes, returns nil.
func ParseURI(s string) *URI {
	rest, ok := strings.CutPrefix(s, uriScheme)
	if !ok {
		return nil
	}
	rest, ok = strings.CutPrefix(rest, "apps/")
	if !ok {
		return nil
	}

	appName, rest, ok := strings.Cut(rest, "/users/")
	if !ok || appName == "" {
		return nil
	}

	var userID, sessionID string
	if before, after, found := strings.Cut(rest, "/sessions/"); found && !strings.Contains(before, "/") {
		userID = before
		sessionID, rest, ok = strings.Cut(after, "/artifacts/")
		if !ok || sessionID == "" || strings.Contains(sessionID, "/") {
			return nil
		}
	} else {
		userID, rest, ok = strings.Cut(rest, "/artifacts/")
		if !ok || strings.Contains(userID, "/") {
			return nil
		}
	}
	if userID == "" {
		return nil
	}

	// The filename may contain slashes; the versions segment is the last one.
	idx := strings.LastIndex(rest, "/versions/")
	if idx <= 0 {
		return nil
	}
	filename := rest[:idx]
	version, err := strconv.Atoi(rest[idx+len("/versions/"):])
	if err != nil || version < 0 {
		return nil
	}

	return &URI{
		AppName:   appName,
		UserID:    userID,
		SessionID: sessionID,
		Filename:  filename,
		Version:   version,
	}
}
