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

// Package arith provides typed arithmetic and boolean nodes over exact
// decimals.
//
// All nodes share the data payload *Value. Register adds the prototypes to
// a registry under the following names:
//
//	add sub mul div   binary arithmetic; div is protected: x/0 = 1
//	neg               negation
//	lt                numeric less than
//	and or not        boolean connectives; and/or short-circuit
//	if                (cond, then, else); only the taken branch is evaluated
//	var               variable; param "name"
//	num               numeric literal; param "value"
//	bool              boolean literal; param "value"
//	const             ephemeral random constant in [-1, 1)
//
// The node constraints, and thus the types, are declared by the catalog.
package arith

import (
	"fmt"
	"slices"

	"github.com/cockroachdb/apd/v3"

	"stgp.dev/go/stgp/gp"
)

// ctx is used for all decimal arithmetic.
var ctx = apd.BaseContext.WithPrecision(34)

// Value is the data payload of arithmetic nodes: a number or a boolean.
type Value struct {
	Num    apd.Decimal
	Bool   bool
	IsBool bool
}

func (v *Value) CopyTo(dst gp.Data) {
	d := dst.(*Value)
	d.Num.Set(&v.Num)
	d.Bool = v.Bool
	d.IsBool = v.IsBool
}

func (v *Value) Clone() gp.Data {
	c := &Value{Bool: v.Bool, IsBool: v.IsBool}
	c.Num.Set(&v.Num)
	return c
}

func (v *Value) String() string {
	if v.IsBool {
		return fmt.Sprint(v.Bool)
	}
	return v.Num.String()
}

func (v *Value) setBool(b bool) {
	v.Bool = b
	v.IsBool = true
}

// Problem holds the variable bindings of one evaluation. It is not modified
// by evaluation and may be shared between workers.
type Problem struct {
	Vars map[string]*apd.Decimal
}

// NewProblem parses decimal variable bindings.
func NewProblem(bindings map[string]string) (*Problem, error) {
	p := &Problem{Vars: make(map[string]*apd.Decimal, len(bindings))}
	for name, s := range bindings {
		d, _, err := apd.NewFromString(s)
		if err != nil {
			return nil, fmt.Errorf("variable %s: invalid number %q", name, s)
		}
		p.Vars[name] = d
	}
	return p, nil
}

// Vars returns the sorted names of the variables referenced by ind.
func Vars(ind *gp.Individual) []string {
	var names []string
	for _, t := range ind.Trees {
		if t.Root() == nil {
			continue
		}
		for n := range gp.Nodes(t.Root()) {
			if v, ok := n.(*Var); ok && !slices.Contains(names, v.VarName) {
				names = append(names, v.VarName)
			}
		}
	}
	slices.Sort(names)
	return names
}

// Register adds the arithmetic prototypes to r.
func Register(r *gp.Registry) {
	binary := func(name string, op opFunc) gp.Factory {
		return func(gp.Params) (gp.Node, error) { return &Binary{op: name, fn: op}, nil }
	}
	r.Register("add", binary("+", ctx.Add))
	r.Register("sub", binary("-", ctx.Sub))
	r.Register("mul", binary("*", ctx.Mul))
	r.Register("div", binary("/", protectedDiv))
	r.Register("neg", func(gp.Params) (gp.Node, error) { return &Neg{}, nil })
	r.Register("lt", func(gp.Params) (gp.Node, error) { return &Less{}, nil })
	r.Register("and", func(gp.Params) (gp.Node, error) { return &Logic{and: true}, nil })
	r.Register("or", func(gp.Params) (gp.Node, error) { return &Logic{}, nil })
	r.Register("not", func(gp.Params) (gp.Node, error) { return &Not{}, nil })
	r.Register("if", func(gp.Params) (gp.Node, error) { return &If{}, nil })
	r.Register("var", newVar)
	r.Register("num", newNum)
	r.Register("bool", newBool)
	r.Register("const", func(gp.Params) (gp.Node, error) { return &Const{}, nil })
}
