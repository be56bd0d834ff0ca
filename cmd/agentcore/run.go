// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
	"google.golang.org/genai"

	"github.com/go-a2a/agentcore/runner"
)

// inputFile is the replay format accepted by run --input-file.
type inputFile struct {
	State   map[string]any `json:"state"`
	Queries []string       `json:"queries"`
}

func newRunCmd() *cobra.Command {
	var (
		inputPath   string
		userID      string
		sessionID   string
		saveSession bool
	)

	cmd := &cobra.Command{
		Use:   "run <app-name>",
		Short: "Replay queries from a file against a fresh session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd.Context(), args[0], inputPath, userID, sessionID, saveSession)
		},
	}
	cmd.Flags().StringVar(&inputPath, "input-file", "", "JSON file with initial state and queries")
	cmd.Flags().StringVar(&userID, "user", "user", "user id owning the session")
	cmd.Flags().StringVar(&sessionID, "session-id", "", "session id (default: minted)")
	cmd.Flags().BoolVar(&saveSession, "save-session", false, "write the session to <session-id>.session.json on exit")
	cmd.MarkFlagRequired("input-file")

	return cmd
}

func runApp(ctx context.Context, appName, inputPath, userID, sessionID string, saveSession bool) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return err
	}
	var input inputFile
	if err := sonic.Unmarshal(data, &input); err != nil {
		return fmt.Errorf("parse %s: %w", inputPath, err)
	}

	cfg, err := serverConfig()
	if err != nil {
		return err
	}
	svcs, err := buildServices(ctx, cfg, appName)
	if err != nil {
		return err
	}
	defer svcs.Close()

	r, err := buildRunner(ctx, appName, svcs)
	if err != nil {
		return err
	}
	defer r.Close(ctx)

	session, err := svcs.sessions.CreateSession(ctx, appName, userID, sessionID, input.State)
	if err != nil {
		return err
	}

	for _, query := range input.Queries {
		fmt.Printf("[user]: %s\n", query)
		req := &runner.RunRequest{
			UserID:     userID,
			SessionID:  session.ID(),
			NewMessage: genai.NewContentFromText(query, genai.RoleUser),
		}
		for event, err := range r.Run(ctx, req) {
			if err != nil {
				return err
			}
			if text := eventText(event); text != "" {
				fmt.Printf("[%s]: %s\n", event.Author, text)
			}
		}
	}

	if saveSession {
		path, err := writeSessionFile(ctx, svcs, appName, userID, session.ID())
		if err != nil {
			return err
		}
		fmt.Printf("session saved to %s\n", path)
	}

	return nil
}
