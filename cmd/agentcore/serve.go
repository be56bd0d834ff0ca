// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/go-a2a/agentcore/server"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve <app-name>",
		Short: "Serve an agent over HTTP with SSE streaming",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			appName := args[0]
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

			srv, err := server.NewServer(cfg, r, svcs.sessions, server.WithServerLogger(slog.Default()))
			if err != nil {
				return err
			}
			return srv.ListenAndServe(ctx)
		},
	}

	return cmd
}
