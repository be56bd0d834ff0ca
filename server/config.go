// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
)

// Config is the environment-driven server configuration.
type Config struct {
	// Addr is the listen address.
	Addr string `envconfig:"ADK_SERVER_ADDR" default:":8080"`

	// AgentsDir is the directory holding agent definitions and local
	// session/artifact storage.
	AgentsDir string `envconfig:"ADK_AGENTS_DIR" default:"."`

	// DisableLocalStorage forces in-memory services even when the agents
	// directory is writable.
	DisableLocalStorage bool `envconfig:"ADK_DISABLE_LOCAL_STORAGE"`

	// ForceLocalStorage enables on-disk services even in serverless
	// environments. Takes precedence over DisableLocalStorage.
	ForceLocalStorage bool `envconfig:"ADK_FORCE_LOCAL_STORAGE"`
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load server config: %w", err)
	}
	return &cfg, nil
}

// serverlessEnvVars mark execution environments with a read-only or ephemeral
// filesystem.
var serverlessEnvVars = []string{
	"K_SERVICE",         // Cloud Run / Cloud Functions gen2
	"FUNCTION_TARGET",   // Cloud Functions
	"SCF_RUNTIME",       // Tencent SCF
	"AWS_LAMBDA_FUNCTION_NAME",
}

func inServerlessEnvironment() bool {
	for _, key := range serverlessEnvVars {
		if os.Getenv(key) != "" {
			return true
		}
	}
	return false
}

// LocalStorageEnabled reports whether on-disk session and artifact storage
// should be used. Explicit toggles win; otherwise serverless environments
// fall back to in-memory services, and the agents directory is probed for
// writability before trusting it.
func (c *Config) LocalStorageEnabled() bool {
	if c.ForceLocalStorage {
		return true
	}
	if c.DisableLocalStorage {
		return false
	}
	if inServerlessEnvironment() {
		return false
	}
	return dirWritable(c.AgentsDir)
}

func dirWritable(dir string) bool {
	f, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		return false
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return true
}
