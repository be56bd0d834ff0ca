// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
)

var agentConfigTemplate = heredoc.Doc(`
	{
	  "name": "%s",
	  "model": "%s",
	  "instruction": "You are a helpful assistant."
	}
`)

var dotenvTemplate = heredoc.Doc(`
	# Credentials for the agent. Loaded automatically unless
	# ADK_DISABLE_LOAD_DOTENV is set.
	GOOGLE_GENAI_USE_VERTEXAI=0
	GOOGLE_API_KEY=
`)

func newCreateCmd() *cobra.Command {
	var model string

	cmd := &cobra.Command{
		Use:   "create <app-name>",
		Short: "Scaffold a new agent directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return createApp(args[0], model)
		},
	}
	cmd.Flags().StringVar(&model, "model", "gemini-2.0-flash", "model backing the agent")

	return cmd
}

func createApp(appName, model string) error {
	dir := filepath.Join(agentsDir, appName)
	if _, err := os.Stat(dir); err == nil {
		return fmt.Errorf("agent directory already exists: %s", dir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	configPath := filepath.Join(dir, "agent.json")
	if err := os.WriteFile(configPath, fmt.Appendf(nil, agentConfigTemplate, appName, model), 0o644); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(dotenvTemplate), 0o600); err != nil {
		return err
	}

	fmt.Printf("created %s\n", dir)
	return nil
}
