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
	"strconv"

	"stgp.dev/go/stgp/errors"
)

// An ADF (automatically defined function) calls another tree of the same
// individual as a subroutine. Its children are evaluated eagerly, once each,
// before the call; Argument terminals in the called tree read the results.
type ADF struct {
	Base

	// Tree is the index of the associated tree in the individual.
	Tree int

	// FuncName is the printable name of the node, such as "ADF1".
	FuncName string
}

func newADF(p Params) (Node, error) {
	t, err := p.Int("tree")
	if err != nil {
		return nil, err
	}
	if t < 0 {
		return nil, fmt.Errorf("negative tree index %d", t)
	}
	return &ADF{Tree: t, FuncName: p.String("name", "ADF"+strconv.Itoa(t))}, nil
}

func (n *ADF) Name() string { return n.FuncName }
func (n *ADF) Copy() Node   { return ShallowCopy(n) }

func (n *ADF) NodeEquals(other Node) bool {
	o := other.(*ADF)
	return n.Tree == o.Tree && n.FuncName == o.FuncName
}

// CheckConstraints checks that the associated tree exists, that its root
// type is the return type of n, and that every Argument of its function set
// is within the arity of n and returns the matching child type.
func (n *ADF) CheckConstraints(c *Catalog, fs *FunctionSet) error {
	return checkCall(c, n, n.Tree)
}

func checkCall(c *Catalog, n Node, tree int) error {
	nc := c.Constraints(n)
	layout := c.Layout()
	if tree >= len(layout) {
		return errors.Newf(errors.Path{"tree"},
			"%s refers to tree %d, but individuals have %d trees", n.Name(), tree, len(layout))
	}
	tc := layout[tree]
	var errs errors.Error
	if tc.RootType != nc.ReturnType {
		errs = errors.Append(errs, errors.Newf(errors.Path{"tree"},
			"%s returns %s, but the root type of tree %d is %s",
			n.Name(), nc.ReturnType.Name(), tree, tc.RootType.Name()))
	}
	for _, proto := range tc.FunctionSet.Prototypes() {
		a, ok := proto.(*Argument)
		if !ok {
			continue
		}
		p := errors.Path{"tree", strconv.Itoa(tree), a.Name()}
		if a.N >= nc.Arity() {
			errs = errors.Append(errs, errors.Newf(p,
				"%s of function set %q is out of range for %s with %d arguments",
				a.Name(), tc.FunctionSet.Name, n.Name(), nc.Arity()))
			continue
		}
		if got, want := c.Constraints(a).ReturnType, nc.ChildTypes[a.N]; got != want {
			errs = errors.Append(errs, errors.Newf(p,
				"%s returns %s, but argument %d of %s is %s",
				a.Name(), got.Name(), a.N, n.Name(), want.Name()))
		}
	}
	return errs
}

// associatedRoot returns the root of the called tree.
func associatedRoot(op string, n Node, tree int, ind *Individual) Node {
	if ind == nil || tree >= len(ind.Trees) {
		fatalf(op, n, "associated tree %d does not exist", tree)
	}
	r := ind.Trees[tree].Root()
	if r == nil {
		fatalf(op, n, "associated tree %d is empty", tree)
	}
	return r
}

func (n *ADF) Eval(thread int, data Data, stack *Stack, ind *Individual, p Problem) {
	root := associatedRoot("adf", n, n.Tree, ind)

	// Arguments are evaluated before the frame is pushed, so argument
	// references inside them resolve against the caller's frame.
	c := stack.Take()
	c.prepareADF(n, len(n.children))
	for i, child := range n.children {
		data.CopyTo(c.args[i])
		child.Eval(thread, c.args[i], stack, ind, p)
	}

	logf(1, "%s: call tree %d at depth %d", n.FuncName, n.Tree, stack.Len())
	stack.Push(c)
	root.Eval(thread, data, stack, ind, p)
	if stack.Pop(1) != 1 {
		fatalf("adf", n, "stack prematurely empty")
	}
}

// An ADM (automatically defined macro) calls another tree of the same
// individual as a subroutine, like an ADF, but evaluates its children
// lazily: each time an Argument terminal of the called tree is evaluated,
// the corresponding child of the ADM is evaluated anew. A child may thus be
// evaluated any number of times, including never.
type ADM struct {
	ADF
}

func newADM(p Params) (Node, error) {
	t, err := p.Int("tree")
	if err != nil {
		return nil, err
	}
	if t < 0 {
		return nil, fmt.Errorf("negative tree index %d", t)
	}
	return &ADM{ADF{Tree: t, FuncName: p.String("name", "ADM"+strconv.Itoa(t))}}, nil
}

func (n *ADM) Copy() Node { return ShallowCopy(n) }

func (n *ADM) NodeEquals(other Node) bool {
	o := other.(*ADM)
	return n.Tree == o.Tree && n.FuncName == o.FuncName
}

func (n *ADM) CheckConstraints(c *Catalog, fs *FunctionSet) error {
	return checkCall(c, n, n.Tree)
}

func (n *ADM) Eval(thread int, data Data, stack *Stack, ind *Individual, p Problem) {
	root := associatedRoot("adm", n, n.Tree, ind)

	c := stack.Take()
	c.prepareADM(n)

	logf(1, "%s: call tree %d at depth %d", n.FuncName, n.Tree, stack.Len())
	stack.Push(c)
	root.Eval(thread, data, stack, ind, p)
	if stack.Pop(1) != 1 {
		fatalf("adm", n, "stack prematurely empty")
	}
}

// An Argument is the terminal standing for argument N of the ADF or ADM
// that called the tree it appears in.
type Argument struct {
	Base

	N int

	name string
}

// NewArgument returns an Argument prototype for argument n.
func NewArgument(n int) *Argument {
	return &Argument{N: n, name: "ARG" + strconv.Itoa(n)}
}

func newArgument(p Params) (Node, error) {
	n, err := p.Int("n")
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("negative argument number %d", n)
	}
	return NewArgument(n), nil
}

func (n *Argument) Name() string          { return n.name }
func (n *Argument) Copy() Node            { return ShallowCopy(n) }
func (n *Argument) ExpectedChildren() int { return 0 }

func (n *Argument) NodeEquals(other Node) bool {
	return n.N == other.(*Argument).N
}

func (n *Argument) Eval(thread int, data Data, stack *Stack, ind *Individual, p Problem) {
	c := stack.Top(0)
	if c == nil {
		fatalf("arg", n, "no context on the stack")
	}
	c.Evaluate(thread, data, stack, ind, p, n.N)
}
