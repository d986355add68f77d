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

package eval_test

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/go-quicktest/qt"

	"stgp.dev/go/stgp/eval"
	"stgp.dev/go/stgp/gp"
	"stgp.dev/go/stgp/types"
)

type intData struct{ v int }

func (d *intData) CopyTo(dst gp.Data) { dst.(*intData).v = d.v }
func (d *intData) Clone() gp.Data     { c := *d; return &c }

type add struct{ gp.Base }

func (n *add) Name() string  { return "+" }
func (n *add) Copy() gp.Node { return gp.ShallowCopy(n) }

func (n *add) Eval(thread int, data gp.Data, stack *gp.Stack, ind *gp.Individual, p gp.Problem) {
	d := data.(*intData)
	n.Child(0).Eval(thread, d, stack, ind, p)
	x := d.v
	n.Child(1).Eval(thread, d, stack, ind, p)
	d.v += x
}

type x struct{ gp.Base }

func (n *x) Name() string  { return "x" }
func (n *x) Copy() gp.Node { return gp.ShallowCopy(n) }

func (n *x) Eval(thread int, data gp.Data, stack *gp.Stack, ind *gp.Individual, p gp.Problem) {
	data.(*intData).v = p.(int)
}

func newCatalog(t *testing.T) *gp.Catalog {
	ts := types.NewCatalog()
	ts.AddAtomic("int")
	qt.Assert(t, qt.IsNil(ts.Finalize()))
	r := gp.NewRegistry()
	r.Register("add", func(gp.Params) (gp.Node, error) { return &add{}, nil })
	r.Register("x", func(gp.Params) (gp.Node, error) { return &x{}, nil })

	c := gp.NewCatalog(ts, r, gp.WithLogger(slog.New(slog.DiscardHandler)), gp.WithStrict(false))
	c.AddNodeConstraints("int2", "int", []string{"int", "int"}, 1)
	c.AddNodeConstraints("int1", "int", []string{"int"}, 1)
	c.AddNodeConstraints("int0", "int", nil, 1)
	c.AddFunctionSet("main", []gp.Member{
		{Proto: "add", Constraints: "int2"},
		{Proto: "x", Constraints: "int0"},
		{Proto: "adf", Constraints: "int1", Params: gp.Params{"tree": "1"}},
	})
	c.AddFunctionSet("fn", []gp.Member{
		{Proto: "add", Constraints: "int2"},
		{Proto: "arg", Constraints: "int0", Params: gp.Params{"n": "0"}},
	})
	c.AddTreeConstraints("main", "int", "main", nil)
	c.AddTreeConstraints("fn", "int", "fn", nil)
	c.SetLayout("main", "fn")
	qt.Assert(t, qt.IsNil(c.Finalize()))
	return c
}

func TestRun(t *testing.T) {
	const n = 200
	var (
		mu      sync.Mutex
		seen    = map[int]int{}
		threads = map[int]bool{}
	)
	cfg := eval.Config{Workers: 4, Stack: gp.NewStack(&intData{})}
	err := eval.Run(context.Background(), cfg, n, func(ctx context.Context, thread int, stack *gp.Stack, i int) error {
		if stack.Len() != 0 || stack.SubLen() != 0 {
			return fmt.Errorf("job %d: stack not reset", i)
		}
		// Leave frames behind; the driver must reset the stack.
		stack.Push(stack.Take())
		stack.Push(stack.Take())
		stack.MoveOntoSubstack(1)

		mu.Lock()
		defer mu.Unlock()
		seen[i]++
		threads[thread] = true
		return nil
	})
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.HasLen(seen, n))
	for i, count := range seen {
		qt.Assert(t, qt.Equals(count, 1), qt.Commentf("job %d", i))
	}
	for thread := range threads {
		qt.Assert(t, qt.IsTrue(thread >= 0 && thread < 4))
	}
	// The prototype is never used directly.
	qt.Assert(t, qt.Equals(cfg.Stack.Reserved(), 0))
}

func TestRunError(t *testing.T) {
	cfg := eval.Config{Workers: 3, Stack: gp.NewStack(&intData{})}
	err := eval.Run(context.Background(), cfg, 1000, func(ctx context.Context, thread int, stack *gp.Stack, i int) error {
		if i == 7 {
			return fmt.Errorf("job %d failed", i)
		}
		return nil
	})
	qt.Assert(t, qt.ErrorMatches(err, `job 7 failed`))

	qt.Assert(t, qt.IsNil(eval.Run(context.Background(), cfg, 0, nil)))
}

func TestTrees(t *testing.T) {
	c := newCatalog(t)
	var inds []*gp.Individual
	var want []int
	src := "x"
	for i := range 20 {
		if i%2 == 0 {
			src = "(ADF1 " + src + ")"
		} else {
			src = "(+ x " + src + ")"
		}
		ind, err := gp.ParseIndividual(c, "Tree 0:\n"+src+"\nTree 1:\n(+ ARG0 ARG0)\n")
		qt.Assert(t, qt.IsNil(err), qt.Commentf("%s", src))
		inds = append(inds, ind)
		want = append(want, 3*wantValue(i))
	}

	results, err := eval.Trees(context.Background(),
		eval.Config{Workers: 5, Stack: gp.NewStack(&intData{})},
		inds, 0, &intData{}, 3)
	qt.Assert(t, qt.IsNil(err))
	for i, r := range results {
		qt.Check(t, qt.Equals(r.(*intData).v, want[i]), qt.Commentf("individual %d", i))
	}
}

// wantValue returns the value of individual i for x = 1: each call
// doubles its argument and each addition adds x.
func wantValue(i int) int {
	w := 1
	for j := 0; j <= i; j++ {
		if j%2 == 0 {
			w *= 2
		} else {
			w++
		}
	}
	return w
}
