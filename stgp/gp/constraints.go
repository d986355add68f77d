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
	"strings"

	"stgp.dev/go/stgp/types"
)

// NodeConstraints is the shared descriptor of a class of nodes: the type the
// nodes return and the types of their children. Nodes refer to their
// NodeConstraints by Index.
type NodeConstraints struct {
	Name  string
	Index int

	ReturnType types.Type
	ChildTypes []types.Type

	// Prob is the relative weight with which builders select nodes bound
	// to these constraints.
	Prob float64
}

// Arity reports the number of children of nodes with these constraints.
func (nc *NodeConstraints) Arity() int { return len(nc.ChildTypes) }

func (nc *NodeConstraints) String() string {
	var b strings.Builder
	b.WriteString(nc.Name)
	b.WriteString(" (")
	for i, t := range nc.ChildTypes {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(t.Name())
	}
	b.WriteString(") ")
	b.WriteString(nc.ReturnType.Name())
	return b.String()
}

// TreeConstraints binds a tree position to a root type, a FunctionSet and
// a Builder.
type TreeConstraints struct {
	Name  string
	Index int

	RootType    types.Type
	FunctionSet *FunctionSet
	Builder     Builder
}
