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

// LightClone returns a shallow copy of n with a new child array of the same
// length. The entries of the new array are nil and must be filled in by the
// caller. The parent reference is copied unchanged.
func LightClone(n Node) Node {
	c := n.Copy()
	b := c.base()
	if len(b.children) > 0 {
		b.children = make([]Node, len(b.children))
	}
	return c
}

// Clone returns a deep copy of the subtree rooted at n. The parent and
// position of the copy's root are those of n.
func Clone(n Node) Node {
	c := LightClone(n)
	for i, child := range n.base().children {
		SetChild(c, i, Clone(child))
	}
	return c
}

// CloneReplacing returns a deep copy of the subtree rooted at n in which the
// subtree old, found by identity, is replaced by a deep copy of repl.
func CloneReplacing(n, repl, old Node) Node {
	if n == old {
		return takePosition(Clone(repl), n)
	}
	c := LightClone(n)
	for i, child := range n.base().children {
		SetChild(c, i, CloneReplacing(child, repl, old))
	}
	return c
}

// CloneReplacingNoSubclone is like CloneReplacing, but installs repl itself
// instead of a copy of it. The caller must not use repl elsewhere.
func CloneReplacingNoSubclone(n, repl, old Node) Node {
	if n == old {
		return takePosition(repl, n)
	}
	c := LightClone(n)
	for i, child := range n.base().children {
		SetChild(c, i, CloneReplacingNoSubclone(child, repl, old))
	}
	return c
}

// CloneReplacingAll returns a deep copy of the subtree rooted at n in which
// every subtree olds[i] is replaced by a deep copy of repls[i]. If a subtree
// matches more than one entry, the first match wins.
func CloneReplacingAll(n Node, repls, olds []Node) Node {
	for i, old := range olds {
		if n == old {
			return takePosition(Clone(repls[i]), n)
		}
	}
	c := LightClone(n)
	for i, child := range n.base().children {
		SetChild(c, i, CloneReplacingAll(child, repls, olds))
	}
	return c
}

// CloneReplacingAtomic returns a deep copy of the subtree rooted at n in
// which the single node old is replaced by a light clone of repl. The
// children of old are copied and installed under the replacement, so repl
// must have the same arity as old.
func CloneReplacingAtomic(n, repl, old Node) Node {
	var c Node
	if n == old {
		c = takePosition(LightClone(repl), n)
	} else {
		c = LightClone(n)
	}
	for i, child := range n.base().children {
		SetChild(c, i, CloneReplacingAtomic(child, repl, old))
	}
	return c
}

// takePosition gives c the parent and position of n.
func takePosition(c, n Node) Node {
	cb, nb := c.base(), n.base()
	cb.parent = nb.parent
	cb.argPos = nb.argPos
	return c
}
