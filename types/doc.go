// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package types provides the shared data model and service contracts for the
// agent runtime core.
//
// It defines the Session/Event/State model, the SessionService,
// ArtifactService and MemoryService interfaces, the Agent execution contract,
// the InvocationContext carried through a run, and the typed error taxonomy
// used by the HTTP surfaces.
//
// All event streams are expressed as iter.Seq2[*Event, error]; all blocking
// operations take a context.Context as their first argument.
package types
