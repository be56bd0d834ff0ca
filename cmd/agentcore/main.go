// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Command agentcore is the command line launcher for the agent runtime.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var agentsDir string

func main() {
	// .env keeps credentials out of shell history during local development.
	if os.Getenv("ADK_DISABLE_LOAD_DOTENV") == "" {
		godotenv.Load()
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevelFromEnv(),
	})))

	rootCmd := &cobra.Command{
		Use:           "agentcore",
		Short:         "Run and serve agents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&agentsDir, "agents-dir", ".", "directory holding agent definitions")

	rootCmd.AddCommand(newCreateCmd())
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newSaveSessionCmd())
	rootCmd.AddCommand(newServeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func logLevelFromEnv() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(os.Getenv("ADK_LOG_LEVEL"))); err != nil {
		return slog.LevelInfo
	}
	return level
}
