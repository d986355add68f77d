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

package build_test

import (
	"log/slog"
	"math/rand/v2"
	"testing"

	"github.com/go-quicktest/qt"

	"stgp.dev/go/stgp/build"
	"stgp.dev/go/stgp/gp"
	"stgp.dev/go/stgp/types"
)

type node struct {
	gp.Base
	name string
}

func (n *node) Name() string  { return n.name }
func (n *node) Copy() gp.Node { return gp.ShallowCopy(n) }

func (n *node) Eval(thread int, data gp.Data, stack *gp.Stack, ind *gp.Individual, p gp.Problem) {
}

type erc struct {
	gp.Base
	v int
}

func (n *erc) Name() string                  { return "k" }
func (n *erc) Copy() gp.Node                 { return gp.ShallowCopy(n) }
func (n *erc) ResetNode(rng *rand.Rand)      { n.v = rng.IntN(1000) }
func (n *erc) NodeEquals(other gp.Node) bool { return n.v == other.(*erc).v }

func (n *erc) Eval(thread int, data gp.Data, stack *gp.Stack, ind *gp.Individual, p gp.Problem) {
}

func newCatalog(t *testing.T, b gp.Builder) *gp.Catalog {
	ts := types.NewCatalog()
	ts.AddAtomic("num")
	ts.AddAtomic("bool")
	ts.AddAtomic("str")
	qt.Assert(t, qt.IsNil(ts.Finalize()))

	r := gp.NewRegistry()
	r.Register("node", func(p gp.Params) (gp.Node, error) {
		return &node{name: p.String("name", "")}, nil
	})
	r.Register("erc", func(gp.Params) (gp.Node, error) { return &erc{}, nil })

	c := gp.NewCatalog(ts, r, gp.WithLogger(slog.New(slog.DiscardHandler)), gp.WithStrict(false))
	c.AddNodeConstraints("num2", "num", []string{"num", "num"}, 1)
	c.AddNodeConstraints("num1", "num", []string{"num"}, 1)
	c.AddNodeConstraints("num0", "num", nil, 1)
	c.AddNodeConstraints("never", "num", nil, 0)
	c.AddNodeConstraints("if", "num", []string{"bool", "num", "num"}, 1)
	c.AddNodeConstraints("bool0", "bool", nil, 1)
	c.AddFunctionSet("all", []gp.Member{
		{Proto: "node", Constraints: "num2", Params: gp.Params{"name": "add"}},
		{Proto: "node", Constraints: "num1", Params: gp.Params{"name": "neg"}},
		{Proto: "node", Constraints: "if", Params: gp.Params{"name": "if"}},
		{Proto: "node", Constraints: "num0", Params: gp.Params{"name": "x"}},
		{Proto: "node", Constraints: "never", Params: gp.Params{"name": "y"}},
		{Proto: "erc", Constraints: "num0"},
		{Proto: "node", Constraints: "bool0", Params: gp.Params{"name": "t"}},
	})
	c.AddTreeConstraints("main", "num", "all", b)
	c.SetLayout("main")
	qt.Assert(t, qt.IsNil(c.Finalize()))
	return c
}

func buildMany(t *testing.T, b gp.Builder, f func(root gp.Node)) {
	c := newCatalog(t, b)
	for seed := range uint64(50) {
		rng := rand.New(rand.NewPCG(seed, 1))
		ind := gp.NewIndividual(c)
		qt.Assert(t, qt.IsNil(ind.Build(rng)))
		qt.Assert(t, qt.IsNil(gp.VerifyIndividual(ind)))
		f(ind.Trees[0].Root())
	}
}

func TestFull(t *testing.T) {
	buildMany(t, &build.Full{MaxDepth: 4}, func(root gp.Node) {
		qt.Assert(t, qt.Equals(gp.Depth(root), 4), qt.Commentf("%s", gp.Lisp(root)))
		// Every num-typed terminal sits at the maximum depth.
		for n := range gp.Nodes(root) {
			if n.Name() == "x" || n.Name() == "k" {
				qt.Assert(t, qt.Equals(gp.AtDepth(n), 3))
			}
		}
	})
}

func TestGrow(t *testing.T) {
	buildMany(t, &build.Grow{MinDepth: 3, MaxDepth: 5}, func(root gp.Node) {
		d := gp.Depth(root)
		qt.Assert(t, qt.IsTrue(d >= 3 && d <= 5), qt.Commentf("depth %d: %s", d, gp.Lisp(root)))
	})
}

func TestHalfAndHalf(t *testing.T) {
	values := map[int]bool{}
	buildMany(t, &build.HalfAndHalf{MinDepth: 2, MaxDepth: 4, GrowProb: 0.5}, func(root gp.Node) {
		d := gp.Depth(root)
		qt.Assert(t, qt.IsTrue(d >= 1 && d <= 4), qt.Commentf("depth %d: %s", d, gp.Lisp(root)))
		for n := range gp.Nodes(root) {
			qt.Assert(t, qt.Not(qt.Equals(n.Name(), "y")))
			if k, ok := n.(*erc); ok {
				values[k.v] = true
			}
		}
	})
	// Constants are reset when instantiated.
	qt.Assert(t, qt.IsTrue(len(values) > 1))
}

func TestNoNodes(t *testing.T) {
	c := newCatalog(t, nil)
	str, _ := c.Types().Lookup("str")
	rng := rand.New(rand.NewPCG(1, 1))
	_, err := (&build.Full{MaxDepth: 3}).NewRoot(rng, str, c.LookupFunctionSet("all"), nil, 0)
	qt.Assert(t, qt.ErrorMatches(err, `function set "all" has no nodes of type str for depth 1`))

	err = gp.NewIndividual(c).Build(rng)
	qt.Assert(t, qt.ErrorMatches(err, `tree constraints "main" have no builder`))
}

func TestNew(t *testing.T) {
	testCases := []struct {
		kind     string
		min, max int
		want     gp.Builder
		err      string
	}{
		{kind: "grow", min: 1, max: 3, want: &build.Grow{MinDepth: 1, MaxDepth: 3}},
		{kind: "full", min: 2, max: 3, want: &build.Full{MaxDepth: 3}},
		{kind: "half", min: 2, max: 6, want: &build.HalfAndHalf{MinDepth: 2, MaxDepth: 6, GrowProb: 0.5}},
		{kind: "ptc", min: 1, max: 2, err: `unknown builder "ptc"`},
		{kind: "grow", min: 0, max: 2, err: `minimum depth must be at least 1, got 0`},
		{kind: "grow", min: 3, max: 2, err: `maximum depth 2 is less than minimum depth 3`},
	}
	for _, tc := range testCases {
		b, err := build.New(tc.kind, tc.min, tc.max)
		if tc.err != "" {
			qt.Check(t, qt.ErrorMatches(err, tc.err))
			continue
		}
		qt.Check(t, qt.IsNil(err))
		qt.Check(t, qt.DeepEquals(b, tc.want))
	}
}
