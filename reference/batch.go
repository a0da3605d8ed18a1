// Copyright 2022 Stock Parfait

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package reference

import (
	"context"
	"runtime"

	"github.com/stockparfait/iterator"
	"github.com/stockparfait/polygon/message"
)

// Call is one endpoint invocation in a batch.
type Call struct {
	Endpoint *Endpoint
	Params   message.Message
	Options  []CallOption
}

// Outcome of a Call.
type Outcome struct {
	Call   Call
	Result *Result
	Err    error
}

type indexedOutcome struct {
	index   int
	outcome Outcome
}

// Batch runs the calls concurrently on at most the given number of workers,
// or 2*NumCPU when workers <= 0. Outcomes are in the order of calls, and a
// failed call does not affect the others. Calls not started before ctx is
// done fail with the context error.
func (c *Client) Batch(ctx context.Context, workers int, calls ...Call) []Outcome {
	if workers <= 0 {
		workers = 2 * runtime.NumCPU()
	}
	indices := make([]int, len(calls))
	for i := range indices {
		indices[i] = i
	}
	f := func(i int) indexedOutcome {
		call := calls[i]
		res, err := c.Do(ctx, call.Endpoint, call.Params, call.Options...)
		return indexedOutcome{index: i, outcome: Outcome{Call: call, Result: res, Err: err}}
	}
	// Results arrive in completion order.
	pm := iterator.ParallelMap(ctx, workers, iterator.FromSlice(indices), f)

	started := make([]bool, len(calls))
	outcomes := iterator.Reduce[indexedOutcome, []Outcome](pm, make([]Outcome, len(calls)),
		func(o indexedOutcome, res []Outcome) []Outcome {
			res[o.index] = o.outcome
			started[o.index] = true
			return res
		})
	for i := range outcomes {
		if !started[i] {
			outcomes[i] = Outcome{Call: calls[i], Err: ctx.Err()}
		}
	}
	return outcomes
}
