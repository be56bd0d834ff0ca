// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package plugin

import (
	"context"

	"google.golang.org/genai"

	"github.com/go-a2a/agentcore/types"
)

// Plugin observes and optionally modifies a single run.
//
// Hook order per invocation: OnUserMessage (new messages only), BeforeRun,
// OnEvent for each emitted event, AfterRun. A nil result passes control to
// the next plugin in the chain.
type Plugin interface {
	// Name identifies the plugin. Names must be unique within a [Manager].
	Name() string

	// OnUserMessage runs before the user message is appended to the session.
	// A non-nil return replaces the message.
	OnUserMessage(ctx context.Context, ictx *types.InvocationContext, message *genai.Content) (*genai.Content, error)

	// BeforeRun runs before agent execution. A non-nil return short-circuits
	// the run: the content is emitted as a single model event and the agent
	// is never invoked.
	BeforeRun(ctx context.Context, ictx *types.InvocationContext) (*genai.Content, error)

	// OnEvent runs for each event the agent produces. A non-nil return
	// replaces the event before it is yielded to the caller.
	OnEvent(ctx context.Context, ictx *types.InvocationContext, event *types.Event) (*types.Event, error)

	// AfterRun runs once agent execution has finished.
	AfterRun(ctx context.Context, ictx *types.InvocationContext) error

	// Close releases plugin resources.
	Close(ctx context.Context) error
}

// Base is a no-op [Plugin] for embedding; implementations override the hooks
// they care about.
type Base struct {
	PluginName string
}

var _ Plugin = (*Base)(nil)

// Name implements [Plugin].
func (b *Base) Name() string {
	return b.PluginName
}

// OnUserMessage implements [Plugin].
func (b *Base) OnUserMessage(ctx context.Context, ictx *types.InvocationContext, message *genai.Content) (*genai.Content, error) {
	return nil, nil
}

// BeforeRun implements [Plugin].
func (b *Base) BeforeRun(ctx context.Context, ictx *types.InvocationContext) (*genai.Content, error) {
	return nil, nil
}

// OnEvent implements [Plugin].
func (b *Base) OnEvent(ctx context.Context, ictx *types.InvocationContext, event *types.Event) (*types.Event, error) {
	return nil, nil
}

// AfterRun implements [Plugin].
func (b *Base) AfterRun(ctx context.Context, ictx *types.InvocationContext) error {
	return nil
}

// Close implements [Plugin].
func (b *Base) Close(ctx context.Context) error {
	return nil
}
