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
	"bytes"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"testing"

	"github.com/go-quicktest/qt"
	"google.golang.org/protobuf/encoding/protowire"

	"stgp.dev/go/stgp/types"
)

type intData struct{ v int }

func (d *intData) CopyTo(dst Data) { dst.(*intData).v = d.v }
func (d *intData) Clone() Data     { c := *d; return &c }

type testProblem struct {
	vars map[string]int
	hits map[string]int
}

func newProblem(vars map[string]int) *testProblem {
	return &testProblem{vars: vars, hits: map[string]int{}}
}

type addNode struct{ Base }

func (n *addNode) Name() string          { return "+" }
func (n *addNode) Copy() Node            { return ShallowCopy(n) }
func (n *addNode) ExpectedChildren() int { return 2 }

func (n *addNode) Eval(thread int, data Data, stack *Stack, ind *Individual, p Problem) {
	d := data.(*intData)
	n.children[0].Eval(thread, d, stack, ind, p)
	x := d.v
	n.children[1].Eval(thread, d, stack, ind, p)
	d.v += x
}

type ifNode struct{ Base }

func (n *ifNode) Name() string          { return "if" }
func (n *ifNode) Copy() Node            { return ShallowCopy(n) }
func (n *ifNode) ExpectedChildren() int { return 3 }

func (n *ifNode) Eval(thread int, data Data, stack *Stack, ind *Individual, p Problem) {
	d := data.(*intData)
	n.children[0].Eval(thread, d, stack, ind, p)
	if d.v != 0 {
		n.children[1].Eval(thread, d, stack, ind, p)
	} else {
		n.children[2].Eval(thread, d, stack, ind, p)
	}
}

type varNode struct {
	Base
	name string
}

func (n *varNode) Name() string { return n.name }
func (n *varNode) Copy() Node   { return ShallowCopy(n) }

func (n *varNode) Eval(thread int, data Data, stack *Stack, ind *Individual, p Problem) {
	data.(*intData).v = p.(*testProblem).vars[n.name]
}

// countNode records how often it is evaluated.
type countNode struct {
	Base
	name  string
	value int
}

func (n *countNode) Name() string { return n.name }
func (n *countNode) Copy() Node   { return ShallowCopy(n) }

func (n *countNode) Eval(thread int, data Data, stack *Stack, ind *Individual, p Problem) {
	p.(*testProblem).hits[n.name]++
	data.(*intData).v = n.value
}

type boolNode struct {
	Base
	v bool
}

func (n *boolNode) Name() string { return strconv.FormatBool(n.v) }
func (n *boolNode) Copy() Node   { return ShallowCopy(n) }

func (n *boolNode) Eval(thread int, data Data, stack *Stack, ind *Individual, p Problem) {
	data.(*intData).v = 0
	if n.v {
		data.(*intData).v = 1
	}
}

// constNode is an ephemeral random constant.
type constNode struct {
	Base
	v int
}

func (n *constNode) Name() string { return "c" }
func (n *constNode) Copy() Node   { return ShallowCopy(n) }

func (n *constNode) Eval(thread int, data Data, stack *Stack, ind *Individual, p Problem) {
	data.(*intData).v = n.v
}

func (n *constNode) NodeEquals(other Node) bool { return n.v == other.(*constNode).v }
func (n *constNode) ResetNode(rng *rand.Rand)   { n.v = rng.IntN(10) }
func (n *constNode) EncodeAtom() string         { return strconv.Itoa(n.v) }

func (n *constNode) DecodeAtom(s string) (err error) {
	n.v, err = strconv.Atoi(s)
	return err
}

func (n *constNode) AppendPayload(b []byte) []byte {
	return protowire.AppendVarint(b, protowire.EncodeZigZag(int64(n.v)))
}

func (n *constNode) DecodePayload(b []byte) error {
	x, m := protowire.ConsumeVarint(b)
	if m < 0 || m != len(b) {
		return fmt.Errorf("bad constant")
	}
	n.v = int(protowire.DecodeZigZag(x))
	return nil
}

// popNode removes a frame it does not own.
type popNode struct{ Base }

func (n *popNode) Name() string { return "pop" }
func (n *popNode) Copy() Node   { return ShallowCopy(n) }

func (n *popNode) Eval(thread int, data Data, stack *Stack, ind *Individual, p Problem) {
	stack.Pop(1)
}

func newTestRegistry() *Registry {
	r := NewRegistry()
	r.Register("add", func(Params) (Node, error) { return &addNode{}, nil })
	r.Register("if", func(Params) (Node, error) { return &ifNode{}, nil })
	r.Register("var", func(p Params) (Node, error) {
		return &varNode{name: p.String("name", "x")}, nil
	})
	r.Register("cnt", func(p Params) (Node, error) {
		v, err := p.Int("value")
		if err != nil {
			return nil, err
		}
		return &countNode{name: p.String("name", "cnt"), value: v}, nil
	})
	r.Register("bool", func(p Params) (Node, error) {
		return &boolNode{v: p.String("v", "") == "true"}, nil
	})
	r.Register("const", func(Params) (Node, error) { return &constNode{}, nil })
	r.Register("pop", func(Params) (Node, error) { return &popNode{}, nil })
	return r
}

func newTestTypes(t testing.TB) *types.Catalog {
	ts := types.NewCatalog()
	ts.AddAtomic("int")
	ts.AddAtomic("bool")
	qt.Assert(t, qt.IsNil(ts.Finalize()))
	return ts
}

// declareTestCatalog declares an individual of three trees:
//
//	0: main; may call tree 1 as ADF1 and tree 2 as ADM2
//	1: (+ ARG0 ARG1) and the like
//	2: (if cond ARG0 ARG1) and the like
func declareTestCatalog(c *Catalog, extra ...Member) {
	c.AddNodeConstraints("binop", "int", []string{"int", "int"}, 1)
	c.AddNodeConstraints("cond", "int", []string{"bool", "int", "int"}, 1)
	c.AddNodeConstraints("int", "int", nil, 1)
	c.AddNodeConstraints("bool", "bool", nil, 1)
	c.AddNodeConstraints("call2", "int", []string{"int", "int"}, 1)

	c.AddFunctionSet("main", []Member{
		{Proto: "add", Constraints: "binop"},
		{Proto: "var", Constraints: "int", Params: Params{"name": "x"}},
		{Proto: "var", Constraints: "int", Params: Params{"name": "y"}},
		{Proto: "const", Constraints: "int"},
		{Proto: "cnt", Constraints: "int", Params: Params{"name": "a", "value": "10"}},
		{Proto: "cnt", Constraints: "int", Params: Params{"name": "b", "value": "20"}},
		{Proto: "adf", Constraints: "call2", Params: Params{"tree": "1"}},
		{Proto: "adm", Constraints: "call2", Params: Params{"tree": "2"}},
	})
	c.AddFunctionSet("fn1", append([]Member{
		{Proto: "add", Constraints: "binop"},
		{Proto: "arg", Constraints: "int", Params: Params{"n": "0"}},
		{Proto: "arg", Constraints: "int", Params: Params{"n": "1"}},
	}, extra...))
	c.AddFunctionSet("fn2", []Member{
		{Proto: "if", Constraints: "cond"},
		{Proto: "arg", Constraints: "int", Params: Params{"n": "0"}},
		{Proto: "arg", Constraints: "int", Params: Params{"n": "1"}},
		{Proto: "bool", Constraints: "bool", Params: Params{"v": "true"}},
		{Proto: "bool", Constraints: "bool", Params: Params{"v": "false"}},
	})
	c.AddTreeConstraints("main", "int", "main", nil)
	c.AddTreeConstraints("adf", "int", "fn1", nil)
	c.AddTreeConstraints("adm", "int", "fn2", nil)
	c.SetLayout("main", "adf", "adm")
}

// newTestCatalog returns the finalized test catalog. Setup warnings are
// written to the returned buffer.
func newTestCatalog(t testing.TB, extra ...Member) (*Catalog, *bytes.Buffer) {
	var log bytes.Buffer
	c := NewCatalog(newTestTypes(t), newTestRegistry(),
		WithLogger(slog.New(slog.NewTextHandler(&log, nil))),
		WithStrict(false))
	declareTestCatalog(c, extra...)
	qt.Assert(t, qt.IsNil(c.Finalize()))
	return c, &log
}

func mustParse(t testing.TB, c *Catalog, src string) *Individual {
	ind, err := ParseIndividual(c, src)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsNil(VerifyIndividual(ind)))
	return ind
}
