// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package py provides Go implementations of Python's core data structures and
// patterns.
//
// The primary feature is a memory-efficient, type-safe implementation of
// Python's set data structure, adapted from Kubernetes' utility library
// (https://github.com/kubernetes/kubernetes/tree/master/staging/src/k8s.io/apimachinery/pkg/util/sets)
// under the Apache 2.0 license (Copyright 2022 The Kubernetes Authors).
// Python asyncio patterns live in the pyasyncio subpackage.
//
// Sets are NOT thread-safe; callers needing concurrent access must use
// external synchronization.
package py
