// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package plugin provides lifecycle hooks that observe and modify a run.
//
// Plugins are registered on a [Manager] in order; each hook walks the chain
// and the first non-nil result wins.
package plugin
