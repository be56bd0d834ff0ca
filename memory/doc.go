// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package memory provides long-term memory services for agents.
//
// Two implementations of [types.MemoryService] are available: a keyword
// matcher backed by process memory and a semantic search backed by a Vertex
// AI RAG corpus.
package memory
