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
	"strings"

	"stgp.dev/go/internal/gpdebug"
	"stgp.dev/go/stgp/errors"
	"stgp.dev/go/stgp/types"
)

// An AtomDecoder is implemented by nodes that carry a value. DecodeAtom
// sets the value from the text between the brackets of a printed atom.
type AtomDecoder interface {
	DecodeAtom(s string) error
}

// sexpr is an untyped s-expression.
type sexpr struct {
	atom   string
	offset int
	args   []*sexpr
}

type parser struct {
	path errors.Path
	src  string
	pos  int
	fs   *FunctionSet
}

func (p *parser) errf(offset int, format string, args ...interface{}) errors.Error {
	return errors.Newf(p.path, "offset %d: "+format, append([]interface{}{offset}, args...)...)
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && strings.IndexByte(" \t\r\n", p.src[p.pos]) >= 0 {
		p.pos++
	}
}

func (p *parser) parseExpr() (*sexpr, error) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return nil, p.errf(p.pos, "unexpected end of input")
	}
	start := p.pos
	switch p.src[p.pos] {
	case ')':
		return nil, p.errf(start, "unexpected )")
	case '(':
		p.pos++
		p.skipSpace()
		head, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		e := &sexpr{atom: head, offset: start}
		for {
			p.skipSpace()
			if p.pos >= len(p.src) {
				return nil, p.errf(start, "unterminated list")
			}
			if p.src[p.pos] == ')' {
				p.pos++
				return e, nil
			}
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			e.args = append(e.args, arg)
		}
	}
	atom, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	return &sexpr{atom: atom, offset: start}, nil
}

// parseAtom reads a name, optionally followed by a bracketed value that
// may contain any character but ].
func (p *parser) parseAtom() (string, error) {
	start := p.pos
loop:
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\r', '\n', '(', ')':
			break loop
		case '[':
			end := strings.IndexByte(p.src[p.pos:], ']')
			if end < 0 {
				return "", p.errf(p.pos, "unterminated [")
			}
			p.pos += end + 1
			break loop
		}
		p.pos++
	}
	if p.pos == start {
		return "", p.errf(start, "expected atom")
	}
	return p.src[start:p.pos], nil
}

func splitAtom(atom string) (name, value string, hasValue bool) {
	i := strings.IndexByte(atom, '[')
	if i < 0 {
		return atom, "", false
	}
	return atom[:i], atom[i+1 : len(atom)-1], true
}

// resolve picks, among the prototypes named by e, the first whose arity
// matches and whose return type is compatible with want, and for which all
// arguments resolve in turn.
func (p *parser) resolve(e *sexpr, want types.Type, parent Parent, pos int) (Node, error) {
	name, value, hasValue := splitAtom(e.atom)
	protos := p.fs.Lookup(name)
	if len(protos) == 0 {
		return nil, p.errf(e.offset, "function set %q has no node %q", p.fs.Name, name)
	}
	var firstErr error
	for _, proto := range protos {
		nc := p.fs.Constraints(proto)
		if nc.Arity() != len(e.args) || !nc.ReturnType.CompatibleWith(want) {
			continue
		}
		n := Instantiate(nil, proto, parent, pos)
		if hasValue {
			d, ok := n.(AtomDecoder)
			if !ok {
				return nil, p.errf(e.offset, "node %q does not take a value", name)
			}
			if err := d.DecodeAtom(value); err != nil {
				return nil, p.errf(e.offset, "%s: %v", name, err)
			}
		}
		ok := true
		for i, arg := range e.args {
			c, err := p.resolve(arg, nc.ChildTypes[i], n, i)
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				ok = false
				break
			}
			SetChild(n, i, c)
		}
		if ok {
			return n, nil
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return nil, p.errf(e.offset, "no node %q with %d arguments returning %s", name, len(e.args), want.Name())
}

func (p *parser) parse(want types.Type, parent Parent) (Node, error) {
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos < len(p.src) {
		return nil, p.errf(p.pos, "unexpected text after expression")
	}
	return p.resolve(e, want, parent, 0)
}

// ParseNode parses the Lisp form of a subtree whose root must return a type
// compatible with want. Names are resolved against fs; where several
// prototypes share a name, the one with matching arity and types is chosen.
// The returned node is detached.
func ParseNode(fs *FunctionSet, want types.Type, src string) (Node, error) {
	p := &parser{src: src, fs: fs}
	return p.parse(want, nil)
}

// ParseTree parses the Lisp form of a tree and installs it as the root of t.
func ParseTree(t *Tree, src string) error {
	p := &parser{
		path: errors.Path{"trees", strconv.Itoa(t.index)},
		src:  src,
		fs:   t.cons.FunctionSet,
	}
	n, err := p.parse(t.cons.RootType, t)
	if err != nil {
		return err
	}
	t.SetRoot(n)
	if gpdebug.Flags.Verify {
		mustVerify(t)
	}
	return nil
}

// ParseIndividual parses the text form written by WriteIndividual. There
// must be exactly one tree per layout position of c, in order. Errors in
// different trees are all reported.
func ParseIndividual(c *Catalog, src string) (*Individual, error) {
	ind := NewIndividual(c)
	var bodies []strings.Builder
	line := 0
	for l := range strings.Lines(src) {
		line++
		text := strings.TrimSpace(l)
		if i, ok := treeHeader(text); ok {
			if i != len(bodies) {
				return nil, errors.Newf(nil, "line %d: expected Tree %d, found Tree %d", line, len(bodies), i)
			}
			bodies = append(bodies, strings.Builder{})
			continue
		}
		if text == "" {
			continue
		}
		if len(bodies) == 0 {
			return nil, errors.Newf(nil, "line %d: expected tree header", line)
		}
		b := &bodies[len(bodies)-1]
		b.WriteString(text)
		b.WriteByte('\n')
	}
	if len(bodies) != len(ind.Trees) {
		return nil, errors.Newf(nil, "found %d trees, want %d", len(bodies), len(ind.Trees))
	}
	var errs errors.Error
	for i, t := range ind.Trees {
		if err := ParseTree(t, bodies[i].String()); err != nil {
			errs = errors.Append(errs, errors.Promote(err, ""))
		}
	}
	if errs != nil {
		return nil, errs
	}
	return ind, nil
}

func treeHeader(line string) (int, bool) {
	s, ok := strings.CutPrefix(line, "Tree ")
	if !ok {
		return 0, false
	}
	s, ok = strings.CutSuffix(s, ":")
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(strings.TrimSpace(s))
	return i, err == nil
}
