// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package feature_test

import (
	"strings"
	"testing"

	"github.com/go-a2a/agentcore/feature"
)

func TestEnabledUnregistered(t *testing.T) {
	if feature.Enabled("never-registered") {
		t.Error("unregistered feature reported enabled")
	}
}

func TestEnabledDefault(t *testing.T) {
	feature.Register("default-on", feature.StageStable, true)
	feature.Register("default-off", feature.StageStable, false)

	if !feature.Enabled("default-on") {
		t.Error("default-on feature reported disabled")
	}
	if feature.Enabled("default-off") {
		t.Error("default-off feature reported enabled")
	}
}

func TestEnabledEnvironment(t *testing.T) {
	feature.Register("env-toggle", feature.StageStable, false)

	t.Setenv("ADK_ENABLE_ENV_TOGGLE", "1")
	if !feature.Enabled("env-toggle") {
		t.Error("ADK_ENABLE_ did not enable the feature")
	}

	feature.Register("env-kill", feature.StageStable, true)
	t.Setenv("ADK_DISABLE_ENV_KILL", "1")
	if feature.Enabled("env-kill") {
		t.Error("ADK_DISABLE_ did not disable the feature")
	}
}

func TestOverrideBeatsEnvironment(t *testing.T) {
	feature.Register("contested", feature.StageStable, false)
	t.Setenv("ADK_ENABLE_CONTESTED", "1")

	feature.Override("contested", false)
	defer feature.ClearOverride("contested")

	if feature.Enabled("contested") {
		t.Error("override did not beat the environment")
	}

	feature.ClearOverride("contested")
	if !feature.Enabled("contested") {
		t.Error("cleared override left the environment ignored")
	}
}

func TestGuard(t *testing.T) {
	feature.Register("guarded", feature.StageExperimental, false)

	err := feature.Guard("guarded")
	if err == nil {
		t.Fatal("Guard on a disabled feature returned nil")
	}
	if !strings.Contains(err.Error(), "ADK_ENABLE_GUARDED") {
		t.Errorf("error = %v, want the opt-in variable named", err)
	}

	feature.Override("guarded", true)
	defer feature.ClearOverride("guarded")
	if err := feature.Guard("guarded"); err != nil {
		t.Errorf("Guard on an enabled feature = %v, want nil", err)
	}
}

func TestEnvKeyNormalizesDashes(t *testing.T) {
	feature.Register("multi-word-flag", feature.StageStable, false)
	t.Setenv("ADK_ENABLE_MULTI_WORD_FLAG", "1")

	if !feature.Enabled("multi-word-flag") {
		t.Error("dashed feature name did not map to underscored env var")
	}
}
