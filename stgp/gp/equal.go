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
	"reflect"
	"strconv"

	"github.com/zeebo/xxh3"
)

// NodeEquivalentTo reports whether a and b are of the same concrete type,
// bound to the same constraints and of the same arity. It does not compare
// node-specific state or children.
func NodeEquivalentTo(a, b Node) bool {
	ab, bb := a.base(), b.base()
	return reflect.TypeOf(a) == reflect.TypeOf(b) &&
		ab.cons == bb.cons &&
		len(ab.children) == len(bb.children)
}

// NodeEquals reports whether a and b are equivalent and have the same name
// and node-specific state. Children are not compared.
func NodeEquals(a, b Node) bool {
	if !NodeEquivalentTo(a, b) || a.Name() != b.Name() {
		return false
	}
	if e, ok := a.(NodeEqualer); ok {
		return e.NodeEquals(b)
	}
	return true
}

// RootedTreeEquals reports whether the subtrees rooted at a and b are
// structurally equal.
func RootedTreeEquals(a, b Node) bool {
	if !NodeEquals(a, b) {
		return false
	}
	bc := b.base().children
	for i, c := range a.base().children {
		if !RootedTreeEquals(c, bc[i]) {
			return false
		}
	}
	return true
}

// Hash returns a hash of the subtree rooted at n. Subtrees for which
// RootedTreeEquals holds have the same hash.
func Hash(n Node) uint64 {
	h := xxh3.New()
	hashNode(h, n)
	return h.Sum64()
}

func hashNode(h *xxh3.Hasher, n Node) {
	b := n.base()
	var buf [20]byte
	h.WriteString(Atom(n))
	h.Write(strconv.AppendInt(append(buf[:0], 0), int64(b.cons), 10))
	h.Write(strconv.AppendInt(append(buf[:0], '/'), int64(len(b.children)), 10))
	for _, c := range b.children {
		hashNode(h, c)
	}
}
