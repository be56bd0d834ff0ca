// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package agentcore is an agent runtime: a Runner orchestrating LLM agents
// over pluggable session, artifact and memory services, with plugin hooks,
// live streaming, session rewind and event compaction.
package agentcore

// Version is the version of the agent runtime.
var Version = "v0.1.0"
