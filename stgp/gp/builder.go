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
	"math/rand/v2"

	"stgp.dev/go/stgp/types"
)

// A Builder grows random trees. It is the contract through which tree
// constraints obtain new trees; implementations live in package build.
type Builder interface {
	// NewRoot returns a new tree whose root returns a type compatible with
	// typ, using prototypes from fs. The root is attached to parent at
	// position pos.
	NewRoot(rng *rand.Rand, typ types.Type, fs *FunctionSet, parent Parent, pos int) (Node, error)
}

// A Resetter is implemented by nodes that initialize themselves randomly
// when they are created by a builder, such as ephemeral random constants.
type Resetter interface {
	ResetNode(rng *rand.Rand)
}

// A Mutator is implemented by nodes whose value can be perturbed in place.
type Mutator interface {
	MutateNode(rng *rand.Rand)
}

// Instantiate returns a fresh light clone of the prototype p whose back
// references point to parent and pos. Its children are nil. The caller
// installs it with SetChild or Tree.SetRoot. If the node is a Resetter and
// rng is not nil, it is reset.
func Instantiate(rng *rand.Rand, p Node, parent Parent, pos int) Node {
	n := LightClone(p)
	b := n.base()
	b.parent = parent
	b.argPos = pos
	if r, ok := n.(Resetter); ok && rng != nil {
		r.ResetNode(rng)
	}
	return n
}
