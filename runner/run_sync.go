// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package runner

import (
	"context"
	"iter"

	"github.com/go-a2a/agentcore/types"
	"github.com/go-a2a/agentcore/types/py/pyasyncio"
)

// runItem is one bridged element of the sync Run stream. A done item marks
// the end of the stream.
type runItem struct {
	event *types.Event
	err   error
	done  bool
}

// Run is the synchronous bridge over [Runner.RunAsync], for CLI and notebook
// style callers. It drains the async stream on a background goroutine and
// blocks on an in-process queue; prefer RunAsync for production usage.
func (r *Runner) Run(ctx context.Context, req *RunRequest) iter.Seq2[*types.Event, error] {
	q := pyasyncio.NewQueue[runItem](0)

	go func() {
		defer func() {
			q.PutNowait(runItem{done: true})
		}()
		for event, err := range r.RunAsync(ctx, req) {
			if putErr := q.Put(ctx, runItem{event: event, err: err}); putErr != nil {
				return
			}
		}
	}()

	return func(yield func(*types.Event, error) bool) {
		for {
			item, err := q.Get(ctx)
			if err != nil {
				yield(nil, err)
				return
			}
			if item.done {
				return
			}
			if !yield(item.event, item.err) {
				return
			}
			if item.err != nil {
				return
			}
		}
	}
}
