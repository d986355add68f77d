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

// A Parent is the owner of a node: either another Node or, for root nodes,
// the *Tree.
type Parent interface {
	isParent()
}

// A Node is a vertex of a GP tree.
//
// Implementations embed Base, which holds the structural links, and are
// created from a Factory registered in a Registry. The prototype returned by
// the Factory is bound to its NodeConstraints by the Catalog; all other
// instances are clones of a prototype.
type Node interface {
	Parent

	// Name returns the printable atom of the node. Nodes with the same
	// Name in one FunctionSet are distinguished by type and arity only.
	Name() string

	// Eval computes the value of the subtree rooted at this node and
	// writes it into data.
	Eval(thread int, data Data, stack *Stack, ind *Individual, p Problem)

	// Copy returns a shallow copy of the node. Most implementations
	// simply return ShallowCopy(n).
	Copy() Node

	base() *Base
}

// Base holds the structural state shared by all nodes. It must be embedded
// by every Node implementation.
type Base struct {
	parent   Parent
	children []Node
	argPos   int
	cons     int
}

func (b *Base) isParent()   {}
func (b *Base) base() *Base { return b }

// Parent returns the owner of the node, or nil if it is detached.
func (b *Base) Parent() Parent { return b.parent }

// Children returns the child array of the node. Its length is the arity of
// the node's NodeConstraints. The slice must not be modified directly; use
// SetChild.
func (b *Base) Children() []Node { return b.children }

// Child returns the i'th child.
func (b *Base) Child(i int) Node { return b.children[i] }

// NumChildren reports the arity of the node.
func (b *Base) NumChildren() int { return len(b.children) }

// IsTerminal reports whether the node has no children.
func (b *Base) IsTerminal() bool { return len(b.children) == 0 }

// ArgPosition reports the index of the node among its parent's children. It
// is 0 for root nodes.
func (b *Base) ArgPosition() int { return b.argPos }

// ConstraintsIndex reports the index of the node's NodeConstraints in its
// Catalog.
func (b *Base) ConstraintsIndex() int { return b.cons }

// ShallowCopy returns a copy of n sharing all references with n. It is
// meant for implementing Node.Copy:
//
//	func (n *Add) Copy() gp.Node { return gp.ShallowCopy(n) }
func ShallowCopy[T any, P interface {
	*T
	Node
}](n P) Node {
	c := *n
	return P(&c)
}

// SetChild installs child as the i'th child of parent and updates the
// child's back references.
func SetChild(parent Node, i int, child Node) {
	parent.base().children[i] = child
	if child != nil {
		b := child.base()
		b.parent = parent
		b.argPos = i
	}
}

// ReplaceWith puts repl into the position held by old, in old's parent node
// or as the root of old's tree. Old is detached. It does not check type
// compatibility; see SwapCompatible.
func ReplaceWith(old, repl Node) {
	ob := old.base()
	switch p := ob.parent.(type) {
	case Node:
		SetChild(p, ob.argPos, repl)
	case *Tree:
		p.SetRoot(repl)
	default:
		rb := repl.base()
		rb.parent = nil
		rb.argPos = 0
	}
	ob.parent = nil
}

// The following interfaces may be implemented by nodes to take part in
// optional protocols.

// A ChildCounter declares how many children a node requires. The Catalog
// reports a setup error if the node is bound to NodeConstraints of a
// different arity.
type ChildCounter interface {
	ExpectedChildren() int
}

// A ConstraintChecker performs node-specific validation once the individual
// layout of a Catalog is known.
type ConstraintChecker interface {
	CheckConstraints(c *Catalog, fs *FunctionSet) error
}

// A NodeEqualer compares node-specific state, such as the value of a
// constant, in addition to the generic checks of NodeEquals. other is of the
// same concrete type as the receiver.
type NodeEqualer interface {
	NodeEquals(other Node) bool
}
