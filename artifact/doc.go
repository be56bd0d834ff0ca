// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package artifact provides versioned artifact storage services.
//
// Three backends implement [types.ArtifactService]: in-memory for testing,
// local filesystem with sidecar metadata, and Google Cloud Storage. Artifacts
// are addressed by (app, user, session, filename); a filename prefixed
// "user:" is promoted to user scope and visible across the user's sessions.
// Versions are contiguous integers starting at 0 and never overwritten.
package artifact
