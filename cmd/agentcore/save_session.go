// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/go-a2a/agentcore/types"
)

// sessionFile is the JSON sidecar written by save-session and run
// --save-session.
type sessionFile struct {
	AppName        string         `json:"appName"`
	UserID         string         `json:"userId"`
	ID             string         `json:"id"`
	State          map[string]any `json:"state,omitempty"`
	Events         []*types.Event `json:"events,omitempty"`
	LastUpdateTime time.Time      `json:"lastUpdateTime"`
}

func newSaveSessionCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "save-session <app-name> <session-id>",
		Short: "Export a stored session as JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := serverConfig()
			if err != nil {
				return err
			}
			svcs, err := buildServices(ctx, cfg, args[0])
			if err != nil {
				return err
			}
			defer svcs.Close()

			path, err := writeSessionFile(ctx, svcs, args[0], userID, args[1])
			if err != nil {
				return err
			}
			fmt.Printf("session saved to %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "user", "user id owning the session")

	return cmd
}

func writeSessionFile(ctx context.Context, svcs *appServices, appName, userID, sessionID string) (string, error) {
	session, err := svcs.sessions.GetSession(ctx, appName, userID, sessionID, nil)
	if err != nil {
		return "", err
	}
	if session == nil {
		return "", &types.ResourceNotFoundError{Resource: "session", Message: sessionID}
	}

	data, err := sonic.ConfigDefault.MarshalIndent(&sessionFile{
		AppName:        session.AppName(),
		UserID:         session.UserID(),
		ID:             session.ID(),
		State:          session.State(),
		Events:         session.Events(),
		LastUpdateTime: session.LastUpdateTime(),
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}

	path := fmt.Sprintf("%s.session.json", sessionID)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func eventText(event *types.Event) string {
	if event == nil || event.LLMResponse == nil || event.Content == nil || event.IsPartial() {
		return ""
	}
	return event.GetText()
}
