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

package arith

import (
	"fmt"
	"math/rand/v2"

	"github.com/cockroachdb/apd/v3"

	"stgp.dev/go/stgp/gp"
)

type opFunc func(d, x, y *apd.Decimal) (apd.Condition, error)

func protectedDiv(d, x, y *apd.Decimal) (apd.Condition, error) {
	if y.IsZero() {
		d.SetInt64(1)
		return 0, nil
	}
	return ctx.Quo(d, x, y)
}

// Binary is a binary arithmetic operator.
type Binary struct {
	gp.Base
	op string
	fn opFunc
}

func (n *Binary) Name() string          { return n.op }
func (n *Binary) Copy() gp.Node         { return gp.ShallowCopy(n) }
func (n *Binary) ExpectedChildren() int { return 2 }

func (n *Binary) Eval(thread int, data gp.Data, stack *gp.Stack, ind *gp.Individual, p gp.Problem) {
	v := data.(*Value)
	n.Child(0).Eval(thread, v, stack, ind, p)
	var x apd.Decimal
	x.Set(&v.Num)
	n.Child(1).Eval(thread, v, stack, ind, p)
	var y apd.Decimal
	y.Set(&v.Num)
	// Inexact results are rounded; overflow leaves the infinity.
	_, _ = n.fn(&v.Num, &x, &y)
	v.IsBool = false
}

type Neg struct{ gp.Base }

func (n *Neg) Name() string          { return "neg" }
func (n *Neg) Copy() gp.Node         { return gp.ShallowCopy(n) }
func (n *Neg) ExpectedChildren() int { return 1 }

func (n *Neg) Eval(thread int, data gp.Data, stack *gp.Stack, ind *gp.Individual, p gp.Problem) {
	v := data.(*Value)
	n.Child(0).Eval(thread, v, stack, ind, p)
	v.Num.Neg(&v.Num)
	v.IsBool = false
}

type Less struct{ gp.Base }

func (n *Less) Name() string          { return "<" }
func (n *Less) Copy() gp.Node         { return gp.ShallowCopy(n) }
func (n *Less) ExpectedChildren() int { return 2 }

func (n *Less) Eval(thread int, data gp.Data, stack *gp.Stack, ind *gp.Individual, p gp.Problem) {
	v := data.(*Value)
	n.Child(0).Eval(thread, v, stack, ind, p)
	var x apd.Decimal
	x.Set(&v.Num)
	n.Child(1).Eval(thread, v, stack, ind, p)
	v.setBool(x.Cmp(&v.Num) < 0)
}

// Logic is a short-circuiting "and" or "or".
type Logic struct {
	gp.Base
	and bool
}

func (n *Logic) Name() string {
	if n.and {
		return "and"
	}
	return "or"
}

func (n *Logic) Copy() gp.Node         { return gp.ShallowCopy(n) }
func (n *Logic) ExpectedChildren() int { return 2 }

func (n *Logic) Eval(thread int, data gp.Data, stack *gp.Stack, ind *gp.Individual, p gp.Problem) {
	v := data.(*Value)
	n.Child(0).Eval(thread, v, stack, ind, p)
	if v.Bool != n.and {
		v.setBool(v.Bool)
		return
	}
	n.Child(1).Eval(thread, v, stack, ind, p)
	v.setBool(v.Bool)
}

func (n *Logic) NodeEquals(other gp.Node) bool { return n.and == other.(*Logic).and }

type Not struct{ gp.Base }

func (n *Not) Name() string          { return "not" }
func (n *Not) Copy() gp.Node         { return gp.ShallowCopy(n) }
func (n *Not) ExpectedChildren() int { return 1 }

func (n *Not) Eval(thread int, data gp.Data, stack *gp.Stack, ind *gp.Individual, p gp.Problem) {
	v := data.(*Value)
	n.Child(0).Eval(thread, v, stack, ind, p)
	v.setBool(!v.Bool)
}

// If evaluates its condition and then only the selected branch.
type If struct{ gp.Base }

func (n *If) Name() string          { return "if" }
func (n *If) Copy() gp.Node         { return gp.ShallowCopy(n) }
func (n *If) ExpectedChildren() int { return 3 }

func (n *If) Eval(thread int, data gp.Data, stack *gp.Stack, ind *gp.Individual, p gp.Problem) {
	v := data.(*Value)
	n.Child(0).Eval(thread, v, stack, ind, p)
	if v.Bool {
		n.Child(1).Eval(thread, v, stack, ind, p)
	} else {
		n.Child(2).Eval(thread, v, stack, ind, p)
	}
}

// Var reads a variable of the Problem. Unbound variables are zero.
type Var struct {
	gp.Base
	VarName string
}

func newVar(p gp.Params) (gp.Node, error) {
	name := p.String("name", "")
	if name == "" {
		return nil, fmt.Errorf("missing parameter %q", "name")
	}
	return &Var{VarName: name}, nil
}

func (n *Var) Name() string          { return n.VarName }
func (n *Var) Copy() gp.Node         { return gp.ShallowCopy(n) }
func (n *Var) ExpectedChildren() int { return 0 }

func (n *Var) NodeEquals(other gp.Node) bool { return n.VarName == other.(*Var).VarName }

func (n *Var) Eval(thread int, data gp.Data, stack *gp.Stack, ind *gp.Individual, p gp.Problem) {
	v := data.(*Value)
	v.IsBool = false
	if x, ok := p.(*Problem).Vars[n.VarName]; ok {
		v.Num.Set(x)
		return
	}
	v.Num.SetInt64(0)
}

// Num is a numeric literal. Its name is its value.
type Num struct {
	gp.Base
	text  string
	value *apd.Decimal
}

func newNum(p gp.Params) (gp.Node, error) {
	s := p.String("value", "")
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", s)
	}
	return &Num{text: s, value: d}, nil
}

func (n *Num) Name() string          { return n.text }
func (n *Num) Copy() gp.Node         { return gp.ShallowCopy(n) }
func (n *Num) ExpectedChildren() int { return 0 }

func (n *Num) Eval(thread int, data gp.Data, stack *gp.Stack, ind *gp.Individual, p gp.Problem) {
	v := data.(*Value)
	v.Num.Set(n.value)
	v.IsBool = false
}

// Bool is a boolean literal.
type Bool struct {
	gp.Base
	value bool
}

func newBool(p gp.Params) (gp.Node, error) {
	switch s := p.String("value", ""); s {
	case "true":
		return &Bool{value: true}, nil
	case "false":
		return &Bool{}, nil
	default:
		return nil, fmt.Errorf("invalid boolean %q", s)
	}
}

func (n *Bool) Name() string          { return fmt.Sprint(n.value) }
func (n *Bool) Copy() gp.Node         { return gp.ShallowCopy(n) }
func (n *Bool) ExpectedChildren() int { return 0 }

func (n *Bool) Eval(thread int, data gp.Data, stack *gp.Stack, ind *gp.Individual, p gp.Problem) {
	data.(*Value).setBool(n.value)
}

// Const is an ephemeral random constant: a number with two decimal digits
// chosen when the node is created by a builder. It prints as const[value].
type Const struct {
	gp.Base
	Value apd.Decimal
}

func (n *Const) Name() string          { return "const" }
func (n *Const) ExpectedChildren() int { return 0 }

// Copy returns a copy with its own decimal, as apd.Decimal must not be
// copied by value.
func (n *Const) Copy() gp.Node {
	c := gp.ShallowCopy(n).(*Const)
	c.Value = apd.Decimal{}
	c.Value.Set(&n.Value)
	return c
}

func (n *Const) Eval(thread int, data gp.Data, stack *gp.Stack, ind *gp.Individual, p gp.Problem) {
	v := data.(*Value)
	v.Num.Set(&n.Value)
	v.IsBool = false
}

// NodeEquals reports whether both constants print the same, so 0.5 and
// 0.50 differ.
func (n *Const) NodeEquals(other gp.Node) bool {
	return n.EncodeAtom() == other.(*Const).EncodeAtom()
}

// ResetNode sets the value to a random number in [-1, 1).
func (n *Const) ResetNode(rng *rand.Rand) {
	n.Value.SetFinite(int64(rng.IntN(200)-100), -2)
}

// MutateNode adds a random number in [-0.1, 0.1].
func (n *Const) MutateNode(rng *rand.Rand) {
	var x apd.Decimal
	x.Set(&n.Value)
	_, _ = ctx.Add(&n.Value, &x, apd.New(int64(rng.IntN(21)-10), -2))
}

func (n *Const) EncodeAtom() string { return n.Value.String() }

func (n *Const) DecodeAtom(s string) error {
	if _, _, err := n.Value.SetString(s); err != nil {
		return fmt.Errorf("invalid number %q", s)
	}
	return nil
}

func (n *Const) AppendPayload(b []byte) []byte { return n.Value.Append(b, 'G') }

func (n *Const) DecodePayload(b []byte) error { return n.DecodeAtom(string(b)) }
