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

// Package build grows random trees for tree constraints.
//
// All builders select among candidate prototypes with probability
// proportional to the selection weight of their node constraints. Depths
// count nodes: a single terminal has depth 1.
package build

import (
	"fmt"
	"math/rand/v2"

	"stgp.dev/go/stgp/gp"
	"stgp.dev/go/stgp/types"
)

type mode int

const (
	growMode mode = iota
	fullMode
)

// Grow builds trees by picking any compatible node until MaxDepth is
// reached, where only terminals are picked. Above MinDepth nonterminals are
// preferred.
type Grow struct {
	MinDepth int
	MaxDepth int
}

func (b *Grow) NewRoot(rng *rand.Rand, typ types.Type, fs *gp.FunctionSet, parent gp.Parent, pos int) (gp.Node, error) {
	g := grower{rng: rng, fs: fs, mode: growMode, min: b.MinDepth, max: b.MaxDepth}
	return g.node(typ, parent, pos, 1)
}

// Full builds trees in which every path from the root to a terminal has
// length MaxDepth, as far as the function set permits: when no nonterminal
// returns the required type, a terminal is used early.
type Full struct {
	MaxDepth int
}

func (b *Full) NewRoot(rng *rand.Rand, typ types.Type, fs *gp.FunctionSet, parent gp.Parent, pos int) (gp.Node, error) {
	g := grower{rng: rng, fs: fs, mode: fullMode, max: b.MaxDepth}
	return g.node(typ, parent, pos, 1)
}

// HalfAndHalf picks a depth uniformly from [MinDepth, MaxDepth] and then
// builds a Grow tree with probability GrowProb, or a Full tree otherwise.
// This is the ramped half-and-half method.
type HalfAndHalf struct {
	MinDepth int
	MaxDepth int
	GrowProb float64
}

func (b *HalfAndHalf) NewRoot(rng *rand.Rand, typ types.Type, fs *gp.FunctionSet, parent gp.Parent, pos int) (gp.Node, error) {
	depth := b.MinDepth + rng.IntN(b.MaxDepth-b.MinDepth+1)
	g := grower{rng: rng, fs: fs, mode: fullMode, max: depth}
	if rng.Float64() < b.GrowProb {
		g.mode = growMode
	}
	return g.node(typ, parent, pos, 1)
}

// New returns a builder by name: "grow", "full" or "half". For "half" the
// grow probability is 0.5.
func New(kind string, minDepth, maxDepth int) (gp.Builder, error) {
	if minDepth < 1 {
		return nil, fmt.Errorf("minimum depth must be at least 1, got %d", minDepth)
	}
	if maxDepth < minDepth {
		return nil, fmt.Errorf("maximum depth %d is less than minimum depth %d", maxDepth, minDepth)
	}
	switch kind {
	case "grow":
		return &Grow{MinDepth: minDepth, MaxDepth: maxDepth}, nil
	case "full":
		return &Full{MaxDepth: maxDepth}, nil
	case "half":
		return &HalfAndHalf{MinDepth: minDepth, MaxDepth: maxDepth, GrowProb: 0.5}, nil
	}
	return nil, fmt.Errorf("unknown builder %q", kind)
}

type grower struct {
	rng  *rand.Rand
	fs   *gp.FunctionSet
	mode mode
	min  int
	max  int
}

func (g *grower) candidates(typ types.Type, depth int) []gp.Node {
	if depth >= g.max {
		return g.fs.Terminals(typ)
	}
	if g.mode == fullMode || depth < g.min {
		if n := g.fs.Nonterminals(typ); len(n) > 0 {
			return n
		}
		return g.fs.Terminals(typ)
	}
	return g.fs.Nodes(typ)
}

func (g *grower) node(typ types.Type, parent gp.Parent, pos, depth int) (gp.Node, error) {
	candidates := g.candidates(typ, depth)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("function set %q has no nodes of type %s for depth %d",
			g.fs.Name, typ.Name(), depth)
	}
	n := gp.Instantiate(g.rng, pick(g.rng, g.fs, candidates), parent, pos)
	for i, ct := range g.fs.Constraints(n).ChildTypes {
		c, err := g.node(ct, n, i, depth+1)
		if err != nil {
			return nil, err
		}
		gp.SetChild(n, i, c)
	}
	return n, nil
}

// pick selects a prototype with probability proportional to its weight. If
// all weights are zero, it selects uniformly.
func pick(rng *rand.Rand, fs *gp.FunctionSet, nodes []gp.Node) gp.Node {
	total := 0.0
	for _, n := range nodes {
		total += fs.Constraints(n).Prob
	}
	if total <= 0 {
		return nodes[rng.IntN(len(nodes))]
	}
	x := rng.Float64() * total
	for _, n := range nodes {
		x -= fs.Constraints(n).Prob
		if x < 0 {
			return n
		}
	}
	return nodes[len(nodes)-1]
}
