// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"

	"github.com/go-a2a/agentcore/agent"
	"github.com/go-a2a/agentcore/artifact"
	"github.com/go-a2a/agentcore/memory"
	"github.com/go-a2a/agentcore/runner"
	"github.com/go-a2a/agentcore/server"
	"github.com/go-a2a/agentcore/session"
	"github.com/go-a2a/agentcore/types"
)

// agentConfig is the on-disk agent definition read from agent.json.
type agentConfig struct {
	Name        string `json:"name"`
	Model       string `json:"model"`
	Instruction string `json:"instruction"`
}

func loadAgentConfig(appName string) (*agentConfig, error) {
	path := filepath.Join(agentsDir, appName, "agent.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read agent config: %w", err)
	}
	var cfg agentConfig
	if err := sonic.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Name == "" {
		cfg.Name = appName
	}
	return &cfg, nil
}

// appServices bundles the storage services backing one app.
type appServices struct {
	sessions  types.SessionService
	artifacts types.ArtifactService
	memory    types.MemoryService
}

func (s *appServices) Close() error {
	return errors.Join(s.sessions.Close(), s.artifacts.Close(), s.memory.Close())
}

// buildServices selects on-disk or in-memory storage per the server config.
func buildServices(ctx context.Context, cfg *server.Config, appName string) (*appServices, error) {
	svcs := &appServices{memory: memory.NewInMemoryService()}

	if !cfg.LocalStorageEnabled() {
		svcs.sessions = session.NewInMemoryService()
		svcs.artifacts = artifact.NewInMemoryService()
		return svcs, nil
	}

	dataDir := filepath.Join(cfg.AgentsDir, appName, ".adk")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	sessions, err := session.NewSQLiteService(ctx, session.SessionDBPath(cfg.AgentsDir, appName))
	if err != nil {
		return nil, err
	}
	artifacts, err := artifact.NewFileService(filepath.Join(dataDir, "artifacts"))
	if err != nil {
		sessions.Close()
		return nil, err
	}
	svcs.sessions = sessions
	svcs.artifacts = artifacts
	return svcs, nil
}

// buildRunner loads the app's agent definition and wires it to the services.
func buildRunner(ctx context.Context, appName string, svcs *appServices) (*runner.Runner, error) {
	cfg, err := loadAgentConfig(appName)
	if err != nil {
		return nil, err
	}

	rootAgent, err := agent.NewLLMAgent(ctx, cfg.Name,
		agent.WithModelString(cfg.Model),
		agent.WithInstruction(cfg.Instruction),
	)
	if err != nil {
		return nil, fmt.Errorf("build agent %s: %w", cfg.Name, err)
	}

	return runner.NewRunner(appName, rootAgent, svcs.sessions,
		runner.WithArtifactService(svcs.artifacts),
		runner.WithMemoryService(svcs.memory),
		runner.WithAgentOrigin(cfg.Name, filepath.Join(agentsDir, appName)),
	)
}

func serverConfig() (*server.Config, error) {
	cfg, err := server.LoadConfig()
	if err != nil {
		return nil, err
	}
	// The --agents-dir flag wins over the environment.
	if agentsDir != "." {
		cfg.AgentsDir = agentsDir
	}
	return cfg, nil
}
