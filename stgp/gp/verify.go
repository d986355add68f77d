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
	"strconv"

	"stgp.dev/go/stgp/errors"
	"stgp.dev/go/stgp/types"
)

// Verify checks the structural invariants of t:
//
//   - the root of t points back to t at position 0;
//   - every node has exactly as many children as its constraints require;
//   - for every child c at position i of node n, c's parent is n and its
//     recorded position is i;
//   - every node returns a type compatible with the type expected at its
//     position;
//   - if t belongs to an individual, it is stored at its recorded index.
//
// Each violation is reported once, at the offending node, with a path of
// the form trees.<tree>.nodes.<k>, where k is the pre-order index of the
// node.
func Verify(t *Tree) error {
	v := verifier{c: t.catalog, path: errors.Path{"trees", strconv.Itoa(t.index)}}
	if o := t.owner; o != nil && (t.index >= len(o.Trees) || o.Trees[t.index] != t) {
		v.errf(v.path, "tree is not stored at index %d of its individual", t.index)
	}
	if t.root == nil {
		v.errf(v.path, "tree has no root")
		return v.err()
	}
	rb := t.root.base()
	if rb.parent != Parent(t) || rb.argPos != 0 {
		v.errf(v.nodePath(0), "%s: root does not point back to its tree", t.root.Name())
	}
	if t.cons != nil && v.c != nil {
		v.checkType(0, t.root, t.cons.RootType)
	}
	v.node(t.root)
	return v.err()
}

// VerifyIndividual runs Verify on every tree of ind.
func VerifyIndividual(ind *Individual) error {
	var errs errors.Error
	for i, t := range ind.Trees {
		if t.owner != ind || t.index != i {
			errs = errors.Append(errs, errors.Newf(errors.Path{"trees", strconv.Itoa(i)},
				"tree does not point back to its individual"))
		}
		if err := Verify(t); err != nil {
			errs = errors.Append(errs, errors.Promote(err, ""))
		}
	}
	if errs == nil {
		return nil
	}
	return errs
}

type verifier struct {
	c    *Catalog
	path errors.Path
	k    int
	errs errors.Error
}

func (v *verifier) errf(p errors.Path, format string, args ...interface{}) {
	v.errs = errors.Append(v.errs, errors.Newf(p, format, args...))
}

func (v *verifier) err() error {
	if v.errs == nil {
		return nil
	}
	return v.errs
}

func (v *verifier) nodePath(k int) errors.Path {
	return v.path.Join("nodes", strconv.Itoa(k))
}

func (v *verifier) constraints(n Node) *NodeConstraints {
	if v.c == nil {
		return nil
	}
	if i := n.base().cons; i >= 0 && i < len(v.c.nodeCons) {
		return v.c.nodeCons[i]
	}
	return nil
}

func (v *verifier) checkType(k int, n Node, want types.Type) {
	nc := v.constraints(n)
	if nc == nil || want == nil {
		return
	}
	if !nc.ReturnType.CompatibleWith(want) {
		v.errf(v.nodePath(k), "%s: return type %s is not compatible with expected type %s",
			n.Name(), nc.ReturnType.Name(), want.Name())
	}
}

func (v *verifier) node(n Node) {
	k := v.k
	v.k++
	b := n.base()
	nc := v.constraints(n)
	switch {
	case v.c == nil:
	case nc == nil:
		v.errf(v.nodePath(k), "%s: unknown node constraints %d", n.Name(), b.cons)
	case nc.Arity() != len(b.children):
		v.errf(v.nodePath(k), "%s: has %d children, but its constraints require %d",
			n.Name(), len(b.children), nc.Arity())
		nc = nil
	}
	for i, c := range b.children {
		if c == nil {
			v.errf(v.nodePath(k), "%s: child %d is missing", n.Name(), i)
			continue
		}
		ck := v.k
		cb := c.base()
		if cb.parent != Parent(n) || cb.argPos != i {
			v.errf(v.nodePath(ck), "%s: does not point back to position %d of its parent %s",
				c.Name(), i, n.Name())
		}
		if nc != nil {
			v.checkType(ck, c, nc.ChildTypes[i])
		}
		v.node(c)
	}
}

// mustVerify panics if t is not well-formed.
func mustVerify(t *Tree) {
	if err := Verify(t); err != nil {
		panic(&ProtocolError{Op: "verify", Msg: errors.Details(err, nil)})
	}
}
