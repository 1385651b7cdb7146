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

// Package registry contains the task registry. The registry admits tasks and
// task sources that satisfy their contracts and collects the tasks from all of
// the admitted sources.
//
// Rejected values are not errors. They are reported through the logger of
// the registry and the collections stay unchanged.
package registry

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/reginald-project/taskgate/internal/contract"
	"github.com/reginald-project/taskgate/internal/log"
)

// A Registry holds the admitted tasks and task sources in the order they were
// admitted. Duplicates are allowed. A Registry is safe for concurrent use.
//
// The zero value is not usable; create registries with [New].
type Registry struct {
	logger      *slog.Logger
	tasks       []any
	sources     []any
	concurrency int
	mu          sync.Mutex
}

// An Option configures a [Registry].
type Option func(*Registry)

// New returns a new, empty Registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		logger:      log.Discard(),
		tasks:       []any{},
		sources:     []any{},
		concurrency: 1,
		mu:          sync.Mutex{},
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// WithLogger sets the logger that the registry reports the admission outcomes
// to. By default, the reports are discarded. A nil logger keeps the default.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithConcurrency sets the maximum number of task sources whose tasks are
// retrieved at the same time during a collection. Values below one are
// treated as one.
func WithConcurrency(n int) Option {
	return func(r *Registry) {
		r.concurrency = max(n, 1)
	}
}

// AddTask admits v as a task if it satisfies the task contract. It reports
// whether v was admitted and returns the diagnostic of the check that
// decided it.
func (r *Registry) AddTask(ctx context.Context, v any) (bool, contract.Diagnostic) {
	ok, diag := contract.IsTask(v)
	if !ok {
		log.Info(ctx, r.logger, "task rejected", "diagnostic", diag)

		return false, diag
	}

	log.Debug(ctx, r.logger, "value meets task contract", "diagnostic", diag)

	r.mu.Lock()
	r.tasks = append(r.tasks, v)
	r.mu.Unlock()

	log.Info(ctx, r.logger, "task added", "task", contract.Described(v))

	return true, diag
}

// AddSource admits v as a task source if it satisfies the task source
// contract. Like [Registry.AddTask], it returns the outcome and
// the diagnostic.
func (r *Registry) AddSource(ctx context.Context, v any) (bool, contract.Diagnostic) {
	ok, diag := contract.IsTaskSource(v)
	if !ok {
		log.Info(ctx, r.logger, "source rejected", "diagnostic", diag)

		return false, diag
	}

	log.Debug(ctx, r.logger, "value meets task source contract", "diagnostic", diag)

	r.mu.Lock()
	r.sources = append(r.sources, v)
	r.mu.Unlock()

	log.Info(ctx, r.logger, "source added", "source", contract.Described(v))

	return true, diag
}

// Len returns the number of admitted tasks and sources.
func (r *Registry) Len() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.tasks), len(r.sources)
}

// Sources returns a copy of the admitted task sources in admission order.
func (r *Registry) Sources() []any {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.sources)
}

// Tasks returns a copy of the admitted tasks in admission order.
func (r *Registry) Tasks() []any {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.tasks)
}
