// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package xiter contains additional stdlib [iter] types and functionality.
//
// The moreiters.go file copid and edit from: https://github.com/golang/tools/blob/master/gopls/internal/util/moreiters/iters.go@2835a17831c9.
package xiter
