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
	"stgp.dev/go/stgp/types"
)

// A Member declares a node prototype of a FunctionSet.
type Member struct {
	// Proto is the Registry name of the prototype.
	Proto string

	// Constraints is the name of the NodeConstraints to bind.
	Constraints string

	// Params are passed to the prototype Factory.
	Params Params
}

// A FunctionSet is a named catalog of node prototypes. For every type of
// the Catalog it lists the prototypes whose return type is compatible with
// that type, split into terminals and nonterminals and bucketed by arity.
//
// All per-type accessors return slices that must not be modified.
type FunctionSet struct {
	Name  string
	Index int

	catalog *Catalog
	protos  []Node
	byName  map[string][]Node

	// Indexed by type id.
	nodes        [][]Node
	terminals    [][]Node
	nonterminals [][]Node

	// Indexed by type id, then arity.
	nodesByArity           [][][]Node
	nonterminalsUnderArity [][][]Node
	nonterminalsOverArity  [][][]Node

	maxArity int
}

func newFunctionSet(c *Catalog, name string, index int, protos []Node) *FunctionSet {
	fs := &FunctionSet{
		Name:    name,
		Index:   index,
		catalog: c,
		protos:  protos,
		byName:  map[string][]Node{},
	}
	for _, p := range protos {
		fs.byName[p.Name()] = append(fs.byName[p.Name()], p)
		if a := p.base().NumChildren(); a > fs.maxArity {
			fs.maxArity = a
		}
	}

	all := c.types.Types()
	fs.nodes = make([][]Node, len(all))
	fs.terminals = make([][]Node, len(all))
	fs.nonterminals = make([][]Node, len(all))
	fs.nodesByArity = make([][][]Node, len(all))
	fs.nonterminalsUnderArity = make([][][]Node, len(all))
	fs.nonterminalsOverArity = make([][][]Node, len(all))

	for _, t := range all {
		id := t.ID()
		for _, p := range protos {
			if !c.nodeCons[p.base().cons].ReturnType.CompatibleWith(t) {
				continue
			}
			fs.nodes[id] = append(fs.nodes[id], p)
			if p.base().IsTerminal() {
				fs.terminals[id] = append(fs.terminals[id], p)
			} else {
				fs.nonterminals[id] = append(fs.nonterminals[id], p)
			}
		}

		byArity := make([][]Node, fs.maxArity+1)
		under := make([][]Node, fs.maxArity+1)
		over := make([][]Node, fs.maxArity+1)
		for a := 0; a <= fs.maxArity; a++ {
			for _, p := range fs.nodes[id] {
				n := p.base().NumChildren()
				if n == a {
					byArity[a] = append(byArity[a], p)
				}
				if n == 0 {
					continue
				}
				if n <= a {
					under[a] = append(under[a], p)
				}
				if n >= a {
					over[a] = append(over[a], p)
				}
			}
		}
		fs.nodesByArity[id] = byArity
		fs.nonterminalsUnderArity[id] = under
		fs.nonterminalsOverArity[id] = over
	}
	return fs
}

// Catalog returns the catalog the function set belongs to.
func (fs *FunctionSet) Catalog() *Catalog { return fs.catalog }

// Prototypes returns all prototypes in declaration order. The position of a
// prototype in this list is its index in the binary encoding.
func (fs *FunctionSet) Prototypes() []Node { return fs.protos }

// Prototype returns the i'th prototype, or nil if i is out of range.
func (fs *FunctionSet) Prototype(i int) Node {
	if i < 0 || i >= len(fs.protos) {
		return nil
	}
	return fs.protos[i]
}

// Lookup returns the prototypes with the given printable name.
func (fs *FunctionSet) Lookup(name string) []Node { return fs.byName[name] }

// IndexOf returns the index of the prototype of which n is an instance,
// or -1 if n does not belong to this function set.
func (fs *FunctionSet) IndexOf(n Node) int {
	for i, p := range fs.protos {
		if NodeEquivalentTo(p, n) && p.Name() == n.Name() {
			return i
		}
	}
	return -1
}

// MaxArity reports the largest arity of any prototype.
func (fs *FunctionSet) MaxArity() int { return fs.maxArity }

// Nodes returns the prototypes whose return type is compatible with t.
func (fs *FunctionSet) Nodes(t types.Type) []Node { return fs.nodes[t.ID()] }

// Terminals returns the terminal prototypes compatible with t.
func (fs *FunctionSet) Terminals(t types.Type) []Node { return fs.terminals[t.ID()] }

// Nonterminals returns the nonterminal prototypes compatible with t.
func (fs *FunctionSet) Nonterminals(t types.Type) []Node { return fs.nonterminals[t.ID()] }

// NodesByArity returns the prototypes compatible with t that have exactly a
// children.
func (fs *FunctionSet) NodesByArity(t types.Type, a int) []Node {
	if a < 0 || a > fs.maxArity {
		return nil
	}
	return fs.nodesByArity[t.ID()][a]
}

// NonterminalsUnderArity returns the nonterminal prototypes compatible with
// t that have at most a children.
func (fs *FunctionSet) NonterminalsUnderArity(t types.Type, a int) []Node {
	if a < 0 {
		return nil
	}
	return fs.nonterminalsUnderArity[t.ID()][min(a, fs.maxArity)]
}

// NonterminalsOverArity returns the nonterminal prototypes compatible with
// t that have at least a children.
func (fs *FunctionSet) NonterminalsOverArity(t types.Type, a int) []Node {
	if a > fs.maxArity {
		return nil
	}
	return fs.nonterminalsOverArity[t.ID()][max(a, 0)]
}

// Constraints returns the NodeConstraints of n.
func (fs *FunctionSet) Constraints(n Node) *NodeConstraints {
	return fs.catalog.Constraints(n)
}
