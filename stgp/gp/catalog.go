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
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"stgp.dev/go/internal/gpdebug"
	"stgp.dev/go/stgp/errors"
	"stgp.dev/go/stgp/types"
)

// A Catalog holds the constraint tables of a run: NodeConstraints,
// FunctionSets and TreeConstraints, each indexed by a dense integer, and the
// Layout of trees within an individual.
//
// Setup must happen in order: the types.Catalog must be finalized before
// NodeConstraints are declared, NodeConstraints must exist before the
// FunctionSets that use them, and FunctionSets before the TreeConstraints
// that use them. Setup methods never stop at the first problem; they record
// errors and continue so that one pass reports everything. Finalize is the
// checkpoint that returns the accumulated errors.
type Catalog struct {
	types    *types.Catalog
	registry *Registry
	log      *slog.Logger
	strict   bool

	nodeCons       []*NodeConstraints
	nodeConsByName map[string]*NodeConstraints
	funcSets       []*FunctionSet
	funcSetByName  map[string]*FunctionSet
	treeCons       []*TreeConstraints
	treeConsByName map[string]*TreeConstraints
	layout         []*TreeConstraints

	// broken records names whose declaration failed, so that references to
	// them do not cause follow-up errors.
	broken map[string]bool

	errs  errors.Error
	final bool
}

// An Option configures a Catalog.
type Option func(c *Catalog)

// WithLogger sets the logger that receives setup warnings. The default is
// slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Catalog) { c.log = l }
}

// WithStrict sets whether setup warnings are reported as errors. The default
// is taken from the strict flag of STGP_DEBUG.
func WithStrict(strict bool) Option {
	return func(c *Catalog) { c.strict = strict }
}

// NewCatalog returns an empty catalog over the given types. Prototypes are
// created from r.
func NewCatalog(ts *types.Catalog, r *Registry, opts ...Option) *Catalog {
	c := &Catalog{
		types:          ts,
		registry:       r,
		log:            slog.Default(),
		nodeConsByName: map[string]*NodeConstraints{},
		funcSetByName:  map[string]*FunctionSet{},
		treeConsByName: map[string]*TreeConstraints{},
		broken:         map[string]bool{},
	}
	if err := gpdebug.Init(); err != nil {
		c.errs = errors.Promote(err, "")
	}
	c.strict = gpdebug.Flags.Strict
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Catalog) errf(p errors.Path, format string, args ...interface{}) {
	c.errs = errors.Append(c.errs, errors.Newf(p, format, args...))
}

func (c *Catalog) warnf(p errors.Path, format string, args ...interface{}) {
	if c.strict {
		c.errf(p, format, args...)
		return
	}
	c.log.Warn(fmt.Sprintf(format, args...), "path", p.String())
}

// checkSetup reports whether a declaration of the given kind may proceed.
func (c *Catalog) checkSetup(p errors.Path, kind, name string, exists bool) bool {
	switch {
	case c.final:
		c.errf(p, "cannot declare %s after the catalog is finalized", kind)
	case !c.types.Finalized():
		c.errf(p, "type catalog must be finalized before declaring %s", kind)
	case name == "":
		c.errf(p, "%s has empty name", kind)
	case exists:
		c.errf(p, "%s %q declared more than once", kind, name)
	default:
		return true
	}
	c.broken[kind+":"+name] = true
	return false
}

func (c *Catalog) lookupType(p errors.Path, name string) types.Type {
	t, ok := c.types.Lookup(name)
	if !ok {
		c.errf(p, "undeclared type %q", name)
		return nil
	}
	return t
}

// AddNodeConstraints declares node constraints with the given return type
// and child types, named by their type catalog names. It returns nil if
// the declaration was rejected.
func (c *Catalog) AddNodeConstraints(name, returns string, children []string, prob float64) *NodeConstraints {
	const kind = "node constraints"
	p := errors.Path{"nodes", name}
	_, exists := c.nodeConsByName[name]
	if !c.checkSetup(p, kind, name, exists) {
		return nil
	}

	ok := true
	nc := &NodeConstraints{Name: name, Prob: prob}
	if nc.ReturnType = c.lookupType(p.Join("returns"), returns); nc.ReturnType == nil {
		ok = false
	}
	nc.ChildTypes = make([]types.Type, len(children))
	for i, ct := range children {
		if nc.ChildTypes[i] = c.lookupType(p.Join("children", strconv.Itoa(i)), ct); nc.ChildTypes[i] == nil {
			ok = false
		}
	}
	if prob < 0 {
		c.errf(p.Join("prob"), "selection weight must not be negative, got %v", prob)
		ok = false
	}
	if !ok {
		c.broken[kind+":"+name] = true
		return nil
	}

	nc.Index = len(c.nodeCons)
	c.nodeCons = append(c.nodeCons, nc)
	c.nodeConsByName[name] = nc
	return nc
}

// AddFunctionSet declares a function set. Each member is instantiated from
// the Registry and bound to its NodeConstraints. It returns nil if the
// declaration was rejected.
func (c *Catalog) AddFunctionSet(name string, members []Member) *FunctionSet {
	const kind = "function set"
	p := errors.Path{"functionSets", name}
	_, exists := c.funcSetByName[name]
	if !c.checkSetup(p, kind, name, exists) {
		return nil
	}

	ok := true
	protos := make([]Node, 0, len(members))
	for i, m := range members {
		n := c.bind(p.Join("members", strconv.Itoa(i)), m)
		if n == nil {
			ok = false
			continue
		}
		protos = append(protos, n)
	}
	if !ok {
		c.broken[kind+":"+name] = true
		return nil
	}

	for i, a := range protos {
		for _, b := range protos[:i] {
			na, nb := c.Constraints(a), c.Constraints(b)
			if a.Name() == b.Name() && na.Arity() == nb.Arity() && na.ReturnType == nb.ReturnType {
				c.errf(p.Join("members", strconv.Itoa(i)),
					"member %q is indistinguishable from an earlier member", a.Name())
				ok = false
			}
		}
	}
	if !ok {
		c.broken[kind+":"+name] = true
		return nil
	}

	fs := newFunctionSet(c, name, len(c.funcSets), protos)
	c.funcSets = append(c.funcSets, fs)
	c.funcSetByName[name] = fs
	return fs
}

// bind creates the prototype for m and binds it to its constraints.
func (c *Catalog) bind(p errors.Path, m Member) Node {
	nc, ok := c.nodeConsByName[m.Constraints]
	if !ok {
		if !c.broken["node constraints:"+m.Constraints] {
			c.errf(p.Join("constraints"), "undeclared node constraints %q", m.Constraints)
		}
		return nil
	}
	n, err := c.registry.New(m.Proto, m.Params)
	if err != nil {
		c.errs = errors.Append(c.errs, errors.Wrapf(err, p.Join("proto"), ""))
		return nil
	}
	if cc, ok := n.(ChildCounter); ok {
		if want := cc.ExpectedChildren(); want >= 0 && want != nc.Arity() {
			c.errf(p.Join("constraints"),
				"%s requires %d children, but constraints %q have arity %d",
				n.Name(), want, nc.Name, nc.Arity())
			return nil
		}
	}
	b := n.base()
	b.parent = nil
	b.argPos = 0
	b.cons = nc.Index
	b.children = make([]Node, nc.Arity())
	return n
}

// AddTreeConstraints declares tree constraints with the given root type name
// and function set name. The builder may be nil if trees are never grown. It
// returns nil if the declaration was rejected.
//
// The function set is checked to have terminals for every type reachable
// from the root type; a missing terminal is an error and a missing
// nonterminal a warning.
func (c *Catalog) AddTreeConstraints(name, rootType, funcSet string, b Builder) *TreeConstraints {
	const kind = "tree constraints"
	p := errors.Path{"trees", name}
	_, exists := c.treeConsByName[name]
	if !c.checkSetup(p, kind, name, exists) {
		return nil
	}
	tc := &TreeConstraints{Name: name, Builder: b}
	tc.RootType = c.lookupType(p.Join("type"), rootType)
	fs, ok := c.funcSetByName[funcSet]
	if !ok && !c.broken["function set:"+funcSet] {
		c.errf(p.Join("functionSet"), "undeclared function set %q", funcSet)
	}
	if tc.RootType == nil || fs == nil {
		c.broken[kind+":"+name] = true
		return nil
	}
	tc.FunctionSet = fs
	c.checkReachable(p, tc)

	tc.Index = len(c.treeCons)
	c.treeCons = append(c.treeCons, tc)
	c.treeConsByName[name] = tc
	return tc
}

// checkReachable walks the types reachable from the root type of tc through
// the child types of the function set's nodes.
func (c *Catalog) checkReachable(p errors.Path, tc *TreeConstraints) {
	fs := tc.FunctionSet
	visited := make([]bool, c.types.Len())
	visited[tc.RootType.ID()] = true
	queue := []types.Type{tc.RootType}
	for len(queue) > 0 {
		t := queue[0]
		queue = queue[1:]
		for _, n := range fs.Nodes(t) {
			for _, ct := range c.Constraints(n).ChildTypes {
				if !visited[ct.ID()] {
					visited[ct.ID()] = true
					queue = append(queue, ct)
				}
			}
		}
	}
	for id, ok := range visited {
		if !ok {
			continue
		}
		t := c.types.ByID(id)
		if len(fs.Terminals(t)) == 0 {
			c.errf(p, "function set %q has no terminals for reachable type %s", fs.Name, t.Name())
		}
		if len(fs.Nonterminals(t)) == 0 {
			c.warnf(p, "function set %q has no nonterminals for reachable type %s", fs.Name, t.Name())
		}
	}
}

// SetLayout declares the tree constraints of each tree position of an
// individual.
func (c *Catalog) SetLayout(treeCons ...string) {
	if c.final {
		c.errf(errors.Path{"layout"}, "cannot set layout after the catalog is finalized")
		return
	}
	c.layout = c.layout[:0]
	for i, name := range treeCons {
		tc, ok := c.treeConsByName[name]
		if !ok {
			if !c.broken["tree constraints:"+name] {
				c.errf(errors.Path{"layout", strconv.Itoa(i)}, "undeclared tree constraints %q", name)
			}
			continue
		}
		c.layout = append(c.layout, tc)
	}
}

// Finalize runs node-specific constraint checks, which may depend on the
// layout, and closes the catalog for further declarations. It returns all
// errors recorded during setup, or nil.
func (c *Catalog) Finalize() error {
	if c.final {
		return c.Err()
	}
	for _, fs := range c.funcSets {
		for i, n := range fs.protos {
			cc, ok := n.(ConstraintChecker)
			if !ok {
				continue
			}
			if err := cc.CheckConstraints(c, fs); err != nil {
				p := errors.Path{"functionSets", fs.Name, "members", strconv.Itoa(i)}
				for _, e := range errors.Errors(err) {
					c.errs = errors.Append(c.errs, errors.Wrapf(e, p.Join(e.Path()...), ""))
				}
			}
		}
	}
	c.checkRecursion()
	c.final = true
	return c.Err()
}

type treeCall struct {
	name string
	tree int
}

// checkRecursion reports every layout position whose tree can reach itself
// through the ADF and ADM members of the function sets along the way.
// Evaluating such a tree would not terminate.
func (c *Catalog) checkRecursion() {
	calls := make([][]treeCall, len(c.layout))
	for i, tc := range c.layout {
		if tc.FunctionSet == nil {
			continue
		}
		for _, n := range tc.FunctionSet.Prototypes() {
			var t int
			switch x := n.(type) {
			case *ADF:
				t = x.Tree
			case *ADM:
				t = x.Tree
			default:
				continue
			}
			if t < len(c.layout) {
				calls[i] = append(calls[i], treeCall{n.Name(), t})
			}
		}
	}
	for i := range c.layout {
		if chain := callChain(calls, i); chain != nil {
			c.errf(errors.Path{"layout", strconv.Itoa(i)},
				"tree %d calls itself through %s", i, strings.Join(chain, " -> "))
		}
	}
}

// callChain returns the names of the shortest sequence of calls leading
// from tree back to itself, or nil if there is none.
func callChain(calls [][]treeCall, tree int) []string {
	prev := make([]int, len(calls))
	via := make([]string, len(calls))
	seen := make([]bool, len(calls))
	queue := []int{tree}
	for len(queue) > 0 {
		t := queue[0]
		queue = queue[1:]
		for _, call := range calls[t] {
			if call.tree == tree {
				chain := []string{call.name}
				for u := t; u != tree; u = prev[u] {
					chain = append(chain, via[u])
				}
				slices.Reverse(chain)
				return chain
			}
			if !seen[call.tree] {
				seen[call.tree] = true
				prev[call.tree] = t
				via[call.tree] = call.name
				queue = append(queue, call.tree)
			}
		}
	}
	return nil
}

// Err returns the errors recorded so far, or nil.
func (c *Catalog) Err() error {
	if c.errs == nil {
		return nil
	}
	return errors.Sanitize(c.errs)
}

// Types returns the type catalog.
func (c *Catalog) Types() *types.Catalog { return c.types }

// Registry returns the prototype registry.
func (c *Catalog) Registry() *Registry { return c.registry }

// Logger returns the logger used for setup warnings.
func (c *Catalog) Logger() *slog.Logger { return c.log }

// NodeConstraints returns the node constraints with index i.
func (c *Catalog) NodeConstraints(i int) *NodeConstraints { return c.nodeCons[i] }

// LookupNodeConstraints returns the node constraints with the given name.
func (c *Catalog) LookupNodeConstraints(name string) *NodeConstraints {
	return c.nodeConsByName[name]
}

// NumNodeConstraints reports the number of declared node constraints.
func (c *Catalog) NumNodeConstraints() int { return len(c.nodeCons) }

// Constraints returns the node constraints of n.
func (c *Catalog) Constraints(n Node) *NodeConstraints {
	return c.nodeCons[n.base().cons]
}

// FunctionSet returns the function set with index i.
func (c *Catalog) FunctionSet(i int) *FunctionSet { return c.funcSets[i] }

// LookupFunctionSet returns the function set with the given name.
func (c *Catalog) LookupFunctionSet(name string) *FunctionSet { return c.funcSetByName[name] }

// FunctionSets returns all function sets in index order.
func (c *Catalog) FunctionSets() []*FunctionSet { return c.funcSets }

// TreeConstraints returns the tree constraints with index i.
func (c *Catalog) TreeConstraints(i int) *TreeConstraints { return c.treeCons[i] }

// LookupTreeConstraints returns the tree constraints with the given name.
func (c *Catalog) LookupTreeConstraints(name string) *TreeConstraints {
	return c.treeConsByName[name]
}

// Layout returns the tree constraints of each tree position.
func (c *Catalog) Layout() []*TreeConstraints { return c.layout }
