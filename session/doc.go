// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package session provides the session service implementations: in-memory,
// embedded SQLite and the hosted Vertex AI Agent Engine backend.
//
// All three implement [types.SessionService] with identical semantics for
// state scope routing, the stale-session write check and event ordering.
package session
