// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package runner drives agent execution within a session.
//
// The [Runner] resolves the session, appends the user message, selects the
// active agent, streams the agent's events through the plugin chain, persists
// them, and finishes with optional event compaction. Live (bidirectional)
// runs reorder persistence around in-progress transcriptions; see
// [Runner.RunLive].
package runner
