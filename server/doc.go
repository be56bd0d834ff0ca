// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package server exposes the agent runtime over HTTP.
//
// The send-message endpoint streams runner events as Server-Sent Events, or
// returns them as a JSON array when the client asks for application/json. A
// content-level error detector scans streamed model output for prose-embedded
// failures and converts them into a terminal RunError event.
package server
