// Copyright 2025 The Reginald Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package registry

import (
	"context"

	"github.com/reginald-project/taskgate/internal/contract"
	"github.com/reginald-project/taskgate/internal/log"
	"github.com/reginald-project/taskgate/internal/panichandler"
	"golang.org/x/sync/errgroup"
)

// A retrieval is the outcome of retrieving the tasks of a single source.
type retrieval struct {
	err   error
	tasks []any
}

// CollectFromSources retrieves the tasks of every admitted source once and
// passes each of them to [Registry.AddTask]. The sources are handled in
// the order they were admitted and the tasks of each source in the order
// the source returned them. A source that fails is logged and skipped, and
// the collection continues with the next source.
//
// The sources admitted when the collection starts are the ones that are
// collected. Every call retrieves the tasks again.
//
// If the registry allows concurrency, the retrievals run in parallel but
// the tasks are still admitted in the same order as in a sequential
// collection.
func (r *Registry) CollectFromSources(ctx context.Context) {
	sources := r.Sources()

	log.Debug(ctx, r.logger, "collecting tasks from sources", "sources", len(sources), "concurrency", r.concurrency)

	if len(sources) == 0 {
		return
	}

	if r.concurrency <= 1 || len(sources) == 1 {
		for i, s := range sources {
			tasks, err := contract.Retrieve(s)
			r.admitRetrieved(ctx, i, s, retrieval{err: err, tasks: tasks})
		}

		return
	}

	results := make([]retrieval, len(sources))

	var g errgroup.Group

	g.SetLimit(r.concurrency)

	handlePanic := panichandler.WithStackTrace()

	for i, s := range sources {
		g.Go(func() error {
			defer handlePanic()

			tasks, err := contract.Retrieve(s)
			results[i] = retrieval{err: err, tasks: tasks}

			// Failures are handled per source, so they are not returned to
			// the group.
			return nil
		})
	}

	_ = g.Wait() //nolint:errcheck // the goroutines never return errors

	for i, s := range sources {
		r.admitRetrieved(ctx, i, s, results[i])
	}
}

// admitRetrieved admits the tasks retrieved from the i-th source s.
func (r *Registry) admitRetrieved(ctx context.Context, i int, s any, res retrieval) {
	if res.err != nil {
		log.Warn(ctx, r.logger, "failed to collect tasks from source", "index", i, "source", contract.Described(s), "err", res.err)

		return
	}

	log.Debug(ctx, r.logger, "retrieved tasks from source", "index", i, "source", contract.Described(s), "count", len(res.tasks))

	added := 0

	for _, t := range res.tasks {
		if ok, _ := r.AddTask(ctx, t); ok {
			added++
		}
	}

	log.Info(
		ctx,
		r.logger,
		"collected tasks from source",
		"index", i,
		"source", contract.Described(s),
		"added", added,
		"rejected", len(res.tasks)-added,
	)
}
