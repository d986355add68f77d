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

package gp

import (
	"iter"

	"stgp.dev/go/stgp/types"
)

// A Filter selects nodes for counting and positional lookup.
type Filter func(n Node) bool

// Predefined filters.
var (
	All          Filter = func(Node) bool { return true }
	Terminals    Filter = func(n Node) bool { return n.base().IsTerminal() }
	Nonterminals Filter = func(n Node) bool { return !n.base().IsTerminal() }
)

// Nodes returns an iterator over the subtree rooted at n in depth-first
// pre-order, the same order used by NodeInPosition.
func Nodes(n Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		walk(n, yield)
	}
}

func walk(n Node, yield func(Node) bool) bool {
	if !yield(n) {
		return false
	}
	for _, c := range n.base().children {
		if !walk(c, yield) {
			return false
		}
	}
	return true
}

// NumNodes reports the number of nodes in the subtree rooted at n that are
// accepted by f.
func NumNodes(n Node, f Filter) int {
	count := 0
	if f(n) {
		count++
	}
	for _, c := range n.base().children {
		count += NumNodes(c, f)
	}
	return count
}

// NodeInPosition returns the k'th node, counting from 0 in depth-first
// pre-order, among the nodes of the subtree rooted at n accepted by f. It
// returns nil if there are not that many.
func NodeInPosition(n Node, k int, f Filter) Node {
	if k < 0 {
		return nil
	}
	for x := range Nodes(n) {
		if !f(x) {
			continue
		}
		if k == 0 {
			return x
		}
		k--
	}
	return nil
}

// Depth reports the depth of the subtree rooted at n. A single terminal has
// depth 1.
func Depth(n Node) int {
	d := 0
	for _, c := range n.base().children {
		d = max(d, Depth(c))
	}
	return d + 1
}

// AtDepth reports the distance of n from the root of its tree. The root is
// at depth 0.
func AtDepth(n Node) int {
	d := 0
	for {
		p, ok := n.base().parent.(Node)
		if !ok {
			return d
		}
		n = p
		d++
	}
}

// PathLength returns the sum of the depths, with the root at depth 0, of all
// nodes in the subtree rooted at n that are accepted by f.
func PathLength(n Node, f Filter) int {
	return pathLength(n, f, 0)
}

func pathLength(n Node, f Filter, d int) int {
	sum := 0
	if f(n) {
		sum = d
	}
	for _, c := range n.base().children {
		sum += pathLength(c, f, d+1)
	}
	return sum
}

// MeanDepth returns the average depth of the nodes of the subtree rooted at
// n accepted by f, or 0 if there are none.
func MeanDepth(n Node, f Filter) float64 {
	count := NumNodes(n, f)
	if count == 0 {
		return 0
	}
	return float64(PathLength(n, f)) / float64(count)
}

// Contains reports whether sub is a node, by identity, of the subtree rooted
// at n.
func Contains(n, sub Node) bool {
	for x := range Nodes(n) {
		if x == sub {
			return true
		}
	}
	return false
}

// RootParent returns the parent of the root of the tree containing n, which
// is typically its *Tree, or nil if that root is detached.
func RootParent(n Node) Parent {
	for {
		switch p := n.base().parent.(type) {
		case Node:
			n = p
		default:
			return p
		}
	}
}

// ParentType returns the type expected at the position n occupies: the
// declared child type of its parent at that position, or the root type of
// its tree. It returns nil if n is detached.
func ParentType(c *Catalog, n Node) types.Type {
	b := n.base()
	switch p := b.parent.(type) {
	case Node:
		return c.Constraints(p).ChildTypes[b.argPos]
	case *Tree:
		return p.cons.RootType
	}
	return nil
}

// SwapCompatible reports whether a may replace b in b's current position,
// that is, whether the return type of a is compatible with the type expected
// at b's position.
func SwapCompatible(c *Catalog, a, b Node) bool {
	t := ParentType(c, b)
	if t == nil {
		return false
	}
	return c.Constraints(a).ReturnType.CompatibleWith(t)
}
