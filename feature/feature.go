// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package feature provides a process-wide feature flag registry.
//
// Features are registered with a maturity stage and a default. Runtime
// lookup precedence: programmatic override, then ADK_ENABLE_<NAME> /
// ADK_DISABLE_<NAME> environment variables, then the registered default.
// Non-stable features warn once on first enabled use.
package feature

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Stage is the maturity stage of a feature.
type Stage string

const (
	// StageWIP marks features under active development.
	StageWIP Stage = "wip"
	// StageExperimental marks features ready for early adopters.
	StageExperimental Stage = "experimental"
	// StageStable marks features enabled for general use.
	StageStable Stage = "stable"
)

type entry struct {
	stage     Stage
	defaultOn bool
	warnOnce  sync.Once
}

type registry struct {
	mu       sync.RWMutex
	features map[string]*entry
	override map[string]bool
	logger   *slog.Logger
}

var global = &registry{
	features: make(map[string]*entry),
	override: make(map[string]bool),
	logger:   slog.Default(),
}

// Register adds a feature to the registry. Re-registering a name replaces
// its stage and default.
func Register(name string, stage Stage, defaultOn bool) {
	global.mu.Lock()
	defer global.mu.Unlock()

	global.features[name] = &entry{stage: stage, defaultOn: defaultOn}
}

// Override forces a feature on or off, taking precedence over the
// environment and the registered default.
func Override(name string, enabled bool) {
	global.mu.Lock()
	defer global.mu.Unlock()

	global.override[name] = enabled
}

// ClearOverride removes a programmatic override.
func ClearOverride(name string) {
	global.mu.Lock()
	defer global.mu.Unlock()

	delete(global.override, name)
}

func envKey(prefix, name string) string {
	return prefix + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

// Enabled reports whether the named feature is on. Unregistered features are
// off. The first enabled use of a non-stable feature logs a warning.
func Enabled(name string) bool {
	global.mu.RLock()
	e, registered := global.features[name]
	forced, overridden := global.override[name]
	global.mu.RUnlock()

	if !registered {
		return false
	}

	enabled := e.defaultOn
	switch {
	case overridden:
		enabled = forced
	case os.Getenv(envKey("ADK_ENABLE_", name)) != "":
		enabled = true
	case os.Getenv(envKey("ADK_DISABLE_", name)) != "":
		enabled = false
	}

	if enabled && e.stage != StageStable {
		e.warnOnce.Do(func() {
			global.logger.Warn(fmt.Sprintf("feature %q is %s and may change or be removed without notice", name, e.stage))
		})
	}

	return enabled
}

// Guard returns an error when the named feature is disabled. Guarded entry
// points call it before executing their body.
func Guard(name string) error {
	if !Enabled(name) {
		return fmt.Errorf("feature %q is not enabled; set %s=1 to opt in", name, envKey("ADK_ENABLE_", name))
	}
	return nil
}
