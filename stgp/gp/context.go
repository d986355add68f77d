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

// A Context is a reusable call frame standing in for a native stack frame
// during ADF and ADM evaluation. It records the calling node and, for ADF
// calls, the already evaluated arguments.
//
// Contexts are drawn from and returned to the reserve of a Stack; they are
// not allocated per call.
type Context struct {
	caller Node
	macro  bool

	// args holds one slot per argument of the caller. It grows on demand
	// and is never shrunk, so slots are reused across calls.
	args []Data

	proto Data
}

// Caller returns the ADF or ADM node that created the frame.
func (c *Context) Caller() Node { return c.caller }

// IsMacro reports whether the frame belongs to an ADM call.
func (c *Context) IsMacro() bool { return c.macro }

// Arg returns the i'th argument slot of an ADF frame.
func (c *Context) Arg(i int) Data { return c.args[i] }

// prepareADF readies c for a call by the ADF node n with the given arity.
func (c *Context) prepareADF(n Node, arity int) {
	c.caller = n
	c.macro = false
	for len(c.args) < arity {
		c.args = append(c.args, c.proto.Clone())
	}
}

// prepareADM readies c for a call by the ADM node n.
func (c *Context) prepareADM(n Node) {
	c.caller = n
	c.macro = true
}

// Evaluate resolves argument i of the frame's caller into data. For ADF
// frames it copies the precomputed argument. For ADM frames it evaluates
// child i of the ADM node; while doing so the frame itself is moved to the
// substack so that argument references inside the child resolve against the
// enclosing frame.
func (c *Context) Evaluate(thread int, data Data, stack *Stack, ind *Individual, p Problem, i int) {
	if c.caller == nil {
		fatalf("arg", nil, "context has no ADF or ADM")
	}
	b := c.caller.base()
	if i < 0 || i >= len(b.children) {
		fatalf("arg", c.caller, "invalid argument number %d for arity %d", i, len(b.children))
	}
	if !c.macro {
		logf(2, "ARG%d of %s: copy", i, c.caller.Name())
		c.args[i].CopyTo(data)
		return
	}

	logf(2, "ARG%d of %s: evaluate", i, c.caller.Name())
	if stack.MoveOntoSubstack(1) != 1 {
		fatalf("arg", c.caller, "stack prematurely empty")
	}
	b.children[i].Eval(thread, data, stack, ind, p)
	if stack.MoveFromSubstack(1) != 1 {
		fatalf("arg", c.caller, "substack prematurely empty")
	}
}

// clone returns a deep copy of c, cloning its argument slots.
func (c *Context) clone() *Context {
	n := &Context{caller: c.caller, macro: c.macro, proto: c.proto}
	if len(c.args) > 0 {
		n.args = make([]Data, len(c.args))
		for i, a := range c.args {
			n.args[i] = a.Clone()
		}
	}
	return n
}
