// Copyright 2026 The STGP Authors
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

// Package eval drives the evaluation of many individuals on a pool of
// workers.
//
// Each worker owns a private gp.Stack, cloned from a prototype when the
// worker starts, and resets it after every job. Stacks are never shared
// between workers.
package eval

import (
	"context"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"stgp.dev/go/stgp/gp"
)

// Config configures a Run.
type Config struct {
	// Workers is the number of worker goroutines. If zero,
	// runtime.GOMAXPROCS(0) workers are used.
	Workers int

	// Stack is the prototype stack. Each worker uses its own clone.
	Stack *gp.Stack

	// Logger receives worker progress at Debug level. If nil,
	// slog.Default() is used.
	Logger *slog.Logger
}

func (c *Config) workers(n int) int {
	w := c.Workers
	if w <= 0 {
		w = runtime.GOMAXPROCS(0)
	}
	return max(1, min(w, n))
}

func (c *Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

// A Job processes item i on the worker with the given thread index, using
// the worker's stack. The stack is reset after the job returns.
type Job func(ctx context.Context, thread int, stack *gp.Stack, i int) error

// Run calls fn for every i in [0, n), distributing the calls over the
// workers of cfg. It returns the first error returned by fn, after which no
// new jobs are started.
//
// Protocol violations during evaluation panic and are not recovered.
func Run(ctx context.Context, cfg Config, n int, fn Job) error {
	if n == 0 {
		return nil
	}
	g, ctx := errgroup.WithContext(ctx)
	jobs := make(chan int)
	g.Go(func() error {
		defer close(jobs)
		for i := range n {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})
	log := cfg.logger()
	for thread := range cfg.workers(n) {
		stack := cfg.Stack.Clone()
		g.Go(func() error {
			done := 0
			defer func() {
				log.Debug("eval: worker finished", "thread", thread, "jobs", done)
			}()
			for i := range jobs {
				err := fn(ctx, thread, stack, i)
				stack.Reset()
				if err != nil {
					return err
				}
				done++
			}
			return nil
		})
	}
	return g.Wait()
}

// Trees evaluates tree t of every individual and returns the results. Each
// evaluation starts from a clone of data. The problem is shared by all
// workers and must not be modified by evaluation.
func Trees(ctx context.Context, cfg Config, inds []*gp.Individual, t int, data gp.Data, p gp.Problem) ([]gp.Data, error) {
	results := make([]gp.Data, len(inds))
	err := Run(ctx, cfg, len(inds), func(ctx context.Context, thread int, stack *gp.Stack, i int) error {
		d := data.Clone()
		inds[i].EvalTree(t, thread, d, stack, p)
		results[i] = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}
