// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/genai"

	"github.com/go-a2a/agentcore/types"
	"github.com/go-a2a/agentcore/types/py"
)

// defaultCloseTimeout bounds each plugin's Close call.
const defaultCloseTimeout = 5 * time.Second

// Manager runs an ordered chain of plugins.
type Manager struct {
	plugins      []Plugin
	closeTimeout time.Duration
	logger       *slog.Logger
}

// ManagerOption configures a [Manager].
type ManagerOption func(*Manager)

// WithCloseTimeout sets the per-plugin close timeout.
func WithCloseTimeout(d time.Duration) ManagerOption {
	return func(m *Manager) {
		m.closeTimeout = d
	}
}

// WithManagerLogger sets the logger for the manager.
func WithManagerLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a manager over the given plugins, preserving their
// registration order. Duplicate plugin names are an error.
func NewManager(plugins []Plugin, opts ...ManagerOption) (*Manager, error) {
	names := py.NewSet[string]()
	for _, p := range plugins {
		if names.Has(p.Name()) {
			return nil, fmt.Errorf("duplicate plugin name: %q", p.Name())
		}
		names.Insert(p.Name())
	}

	m := &Manager{
		plugins:      plugins,
		closeTimeout: defaultCloseTimeout,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// Plugins returns the registered plugins in order.
func (m *Manager) Plugins() []Plugin {
	if m == nil {
		return nil
	}
	return m.plugins
}

// RunOnUserMessage walks the chain; the first non-nil result replaces the
// user message and stops the walk.
func (m *Manager) RunOnUserMessage(ctx context.Context, ictx *types.InvocationContext, message *genai.Content) (*genai.Content, error) {
	if m == nil {
		return nil, nil
	}
	for _, p := range m.plugins {
		replaced, err := p.OnUserMessage(ctx, ictx, message)
		if err != nil {
			return nil, fmt.Errorf("plugin %s on_user_message: %w", p.Name(), err)
		}
		if replaced != nil {
			return replaced, nil
		}
	}
	return nil, nil
}

// RunBeforeRun walks the chain; the first non-nil content short-circuits the
// run.
func (m *Manager) RunBeforeRun(ctx context.Context, ictx *types.InvocationContext) (*genai.Content, error) {
	if m == nil {
		return nil, nil
	}
	for _, p := range m.plugins {
		content, err := p.BeforeRun(ctx, ictx)
		if err != nil {
			return nil, fmt.Errorf("plugin %s before_run: %w", p.Name(), err)
		}
		if content != nil {
			return content, nil
		}
	}
	return nil, nil
}

// RunOnEvent walks the chain; the first non-nil result replaces the event
// and stops the walk.
func (m *Manager) RunOnEvent(ctx context.Context, ictx *types.InvocationContext, event *types.Event) (*types.Event, error) {
	if m == nil {
		return nil, nil
	}
	for _, p := range m.plugins {
		replaced, err := p.OnEvent(ctx, ictx, event)
		if err != nil {
			return nil, fmt.Errorf("plugin %s on_event: %w", p.Name(), err)
		}
		if replaced != nil {
			return replaced, nil
		}
	}
	return nil, nil
}

// RunAfterRun notifies every plugin that the run has finished.
func (m *Manager) RunAfterRun(ctx context.Context, ictx *types.InvocationContext) error {
	if m == nil {
		return nil
	}
	for _, p := range m.plugins {
		if err := p.AfterRun(ctx, ictx); err != nil {
			return fmt.Errorf("plugin %s after_run: %w", p.Name(), err)
		}
	}
	return nil
}

// Close closes every plugin with a bounded per-plugin timeout. Failures and
// timeouts are logged and never propagated.
func (m *Manager) Close(ctx context.Context) {
	if m == nil {
		return
	}
	for _, p := range m.plugins {
		closeCtx, cancel := context.WithTimeout(ctx, m.closeTimeout)

		done := make(chan error, 1)
		go func() {
			done <- p.Close(closeCtx)
		}()

		select {
		case err := <-done:
			if err != nil {
				m.logger.WarnContext(ctx, "plugin close failed",
					slog.String("plugin", p.Name()),
					slog.Any("error", err),
				)
			}
		case <-closeCtx.Done():
			m.logger.WarnContext(ctx, "plugin close timed out",
				slog.String("plugin", p.Name()),
				slog.Duration("timeout", m.closeTimeout),
			)
		}
		cancel()
	}
}
