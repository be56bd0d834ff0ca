// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package runner

import (
	"log/slog"

	"github.com/go-a2a/agentcore/types"
)

// findMatchingFunctionCall returns the event that issued the function call
// answered by responseEvent, searching the events from newest to oldest.
func findMatchingFunctionCall(events []*types.Event, responseEvent *types.Event) *types.Event {
	if responseEvent == nil {
		return nil
	}
	responses := responseEvent.GetFunctionResponses()
	if len(responses) == 0 {
		return nil
	}
	callID := responses[0].ID

	for i := len(events) - 1; i >= 0; i-- {
		for _, call := range events[i].GetFunctionCalls() {
			if call.ID == callID {
				return events[i]
			}
		}
	}
	return nil
}

// findAgentToRun picks the agent that should reply next.
//
// A qualified agent is either the agent that issued the function call the
// latest user message responds to, the root agent, or an LLM agent who
// replied last and can transfer across the agent tree.
func (r *Runner) findAgentToRun(session types.Session, rootAgent types.Agent) types.Agent {
	events := session.Events()

	// A function response goes back to the agent that returned the call,
	// regardless of agent type. A remote agent may surface a credential
	// request as a long-running function call.
	if len(events) > 0 {
		last := events[len(events)-1]
		if callEvent := findMatchingFunctionCall(events[:len(events)-1], last); callEvent != nil && callEvent.Author != "" {
			if agent := rootAgent.FindAgent(callEvent.Author); agent != nil {
				return agent
			}
		}
	}

	for i := len(events) - 1; i >= 0; i-- {
		event := events[i]
		// User events and agent-state checkpoints don't identify a speaker.
		if event.Author == "user" {
			continue
		}
		if event.Actions != nil && (event.Actions.AgentState != nil || event.Actions.EndOfAgent) {
			continue
		}
		if event.Author == rootAgent.Name() {
			return rootAgent
		}
		agent := rootAgent.FindSubAgent(event.Author)
		if agent == nil {
			r.logger.Warn("event from an unknown agent",
				slog.String("author", event.Author),
				slog.String("event_id", event.ID),
			)
			continue
		}
		if isTransferableAcrossAgentTree(agent) {
			return agent
		}
	}

	return rootAgent
}

// isTransferableAcrossAgentTree reports whether the agent can transfer to any
// other agent in the tree: every ancestor up to the root must be an LLM agent
// that allows transfer to its parent.
func isTransferableAcrossAgentTree(agentToRun types.Agent) bool {
	for agent := agentToRun; agent != nil; agent = agent.ParentAgent() {
		llm, ok := agent.AsLLMAgent()
		if !ok {
			return false
		}
		if llm.DisallowTransferToParent() {
			return false
		}
	}
	return true
}
