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
	"fmt"
	"math/rand/v2"

	"stgp.dev/go/internal/gpdebug"
)

// A Tree owns a single root node. Within an Individual it is tagged with its
// position, which ADF nodes use to refer to it.
type Tree struct {
	root    Node
	owner   *Individual
	index   int
	cons    *TreeConstraints
	catalog *Catalog
}

func (t *Tree) isParent() {}

// NewTree returns an empty tree with the given constraints.
func NewTree(c *Catalog, tc *TreeConstraints) *Tree {
	return &Tree{catalog: c, cons: tc}
}

// Root returns the root node of the tree.
func (t *Tree) Root() Node { return t.root }

// SetRoot installs n as the root of t.
func (t *Tree) SetRoot(n Node) {
	t.root = n
	if n != nil {
		b := n.base()
		b.parent = t
		b.argPos = 0
	}
}

// Owner returns the individual the tree belongs to, or nil.
func (t *Tree) Owner() *Individual { return t.owner }

// Index reports the position of the tree within its individual.
func (t *Tree) Index() int { return t.index }

// Constraints returns the constraints of the tree.
func (t *Tree) Constraints() *TreeConstraints { return t.cons }

// Catalog returns the catalog of the tree.
func (t *Tree) Catalog() *Catalog { return t.catalog }

// Eval evaluates the root of the tree.
func (t *Tree) Eval(thread int, data Data, stack *Stack, ind *Individual, p Problem) {
	t.root.Eval(thread, data, stack, ind, p)
}

// LightClone returns a copy of t sharing its root node.
func (t *Tree) LightClone() *Tree {
	c := *t
	return &c
}

// Clone returns a deep copy of t. The copy keeps the index of t but has no
// owner until it is installed in an individual.
func (t *Tree) Clone() *Tree {
	c := t.LightClone()
	c.owner = nil
	if t.root != nil {
		c.SetRoot(Clone(t.root))
	}
	if gpdebug.Flags.Verify {
		mustVerify(c)
	}
	return c
}

// Equal reports whether t and u have structurally equal roots.
func (t *Tree) Equal(u *Tree) bool {
	if t.root == nil || u.root == nil {
		return t.root == u.root
	}
	return RootedTreeEquals(t.root, u.root)
}

// Hash returns a hash of the tree consistent with Equal.
func (t *Tree) Hash() uint64 {
	if t.root == nil {
		return 0
	}
	return Hash(t.root)
}

// Build replaces the root of t with a new tree grown by the builder of its
// constraints.
func (t *Tree) Build(rng *rand.Rand) error {
	tc := t.cons
	if tc.Builder == nil {
		return fmt.Errorf("tree constraints %q have no builder", tc.Name)
	}
	root, err := tc.Builder.NewRoot(rng, tc.RootType, tc.FunctionSet, t, 0)
	if err != nil {
		return fmt.Errorf("tree %d: %w", t.index, err)
	}
	t.SetRoot(root)
	if gpdebug.Flags.Verify {
		mustVerify(t)
	}
	return nil
}

// An Individual is a fixed-size array of trees laid out according to the
// Layout of a Catalog.
type Individual struct {
	Trees []*Tree

	catalog *Catalog
}

// NewIndividual returns an individual with one empty tree per layout
// position of c.
func NewIndividual(c *Catalog) *Individual {
	ind := &Individual{catalog: c}
	ind.Trees = make([]*Tree, len(c.layout))
	for i, tc := range c.layout {
		ind.Trees[i] = &Tree{owner: ind, index: i, cons: tc, catalog: c}
	}
	return ind
}

// Catalog returns the catalog of the individual.
func (ind *Individual) Catalog() *Catalog { return ind.catalog }

func (ind *Individual) adopt(trees []*Tree) {
	ind.Trees = trees
	for i, t := range trees {
		t.owner = ind
		t.index = i
	}
}

// LightClone returns a copy of ind with light clones of its trees: the
// trees are new but share their root nodes with ind.
func (ind *Individual) LightClone() *Individual {
	c := &Individual{catalog: ind.catalog}
	trees := make([]*Tree, len(ind.Trees))
	for i, t := range ind.Trees {
		trees[i] = t.LightClone()
	}
	c.adopt(trees)
	return c
}

// Clone returns a deep copy of ind.
func (ind *Individual) Clone() *Individual {
	c := &Individual{catalog: ind.catalog}
	trees := make([]*Tree, len(ind.Trees))
	for i, t := range ind.Trees {
		trees[i] = t.Clone()
	}
	c.adopt(trees)
	return c
}

// Build grows every tree of ind with the builder of its constraints.
func (ind *Individual) Build(rng *rand.Rand) error {
	for _, t := range ind.Trees {
		if err := t.Build(rng); err != nil {
			return err
		}
	}
	return nil
}

// Size reports the total number of nodes in all trees.
func (ind *Individual) Size() int {
	n := 0
	for _, t := range ind.Trees {
		if t.root != nil {
			n += NumNodes(t.root, All)
		}
	}
	return n
}

// Equal reports whether ind and other have pairwise equal trees.
func (ind *Individual) Equal(other *Individual) bool {
	if len(ind.Trees) != len(other.Trees) {
		return false
	}
	for i, t := range ind.Trees {
		if !t.Equal(other.Trees[i]) {
			return false
		}
	}
	return true
}

// Hash returns a hash of the individual consistent with Equal.
func (ind *Individual) Hash() uint64 {
	var h uint64
	for _, t := range ind.Trees {
		h = h*31 + t.Hash()
	}
	return h
}

// EvalTree evaluates the i'th tree of ind.
func (ind *Individual) EvalTree(i, thread int, data Data, stack *Stack, p Problem) {
	ind.Trees[i].Eval(thread, data, stack, ind, p)
}
