// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"context"
	"iter"
)

// Agent represents a node of the agent tree executed by the runner.
//
// Agent execution internals (model calls, tool dispatch) live outside the
// runtime core; the runner only depends on this contract.
type Agent interface {
	// Name returns the agent's name.
	//
	// Agent name must be an identifier and unique within the agent tree.
	// Agent name cannot be "user", since it's reserved for end-user's input.
	Name() string

	// Description returns the description about the agent's capability.
	Description() string

	// ParentAgent is the parent agent of this agent.
	//
	// Note that an agent can ONLY be added as sub-agent once.
	ParentAgent() Agent

	// SetParentAgent sets the parent agent. Called when the agent is attached
	// to a tree.
	SetParentAgent(parent Agent)

	// SubAgents returns the sub-agents of this agent.
	SubAgents() []Agent

	// Run is the entry method to run an agent via text-based conversation.
	Run(ctx context.Context, ictx *InvocationContext) iter.Seq2[*Event, error]

	// RunLive is the entry method to run an agent via audio/video-based conversation.
	RunLive(ctx context.Context, ictx *InvocationContext) iter.Seq2[*Event, error]

	// RootAgent returns the root agent of the tree this agent belongs to.
	RootAgent() Agent

	// FindAgent finds the agent with the given name in this agent and its descendants.
	FindAgent(name string) Agent

	// FindSubAgent finds the agent with the given name in this agent's descendants.
	FindSubAgent(name string) Agent

	// AsLLMAgent reports whether this agent is an [LLMAgent].
	AsLLMAgent() (LLMAgent, bool)
}

// LLMAgent is an agent backed by a language model. Only LLM agents take part
// in LLM-controlled transfer across the agent tree.
type LLMAgent interface {
	Agent

	// DisallowTransferToParent reports whether LLM-controlled transferring to
	// the parent agent is disallowed.
	DisallowTransferToParent() bool

	// DisallowTransferToPeers reports whether LLM-controlled transferring to
	// the peer agents is disallowed.
	DisallowTransferToPeers() bool

	// Toolsets returns the toolsets attached to this agent, for lifecycle
	// cleanup by the runner.
	Toolsets() []Toolset
}

// Toolset is a collection of tools with a shared lifecycle. The runtime core
// only needs the cleanup half of the contract.
type Toolset interface {
	// Name returns the toolset name.
	Name() string

	// Close releases resources held by the toolset.
	Close(ctx context.Context) error
}
