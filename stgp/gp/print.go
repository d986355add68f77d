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
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// An AtomEncoder is implemented by nodes that carry a value, such as
// ephemeral random constants. The printed atom of such a node is
// Name()[EncodeAtom()].
type AtomEncoder interface {
	EncodeAtom() string
}

// Atom returns the printable atom of n.
func Atom(n Node) string {
	if e, ok := n.(AtomEncoder); ok {
		return n.Name() + "[" + e.EncodeAtom() + "]"
	}
	return n.Name()
}

// Lisp returns the canonical text form of the subtree rooted at n: the atom
// of a terminal, or a parenthesized list of the atom followed by the
// children.
func Lisp(n Node) string {
	var b strings.Builder
	writeLisp(&b, n)
	return b.String()
}

func writeLisp(b *strings.Builder, n Node) {
	if n == nil {
		b.WriteString("<nil>")
		return
	}
	children := n.base().children
	if len(children) == 0 {
		b.WriteString(Atom(n))
		return
	}
	b.WriteByte('(')
	b.WriteString(Atom(n))
	for _, c := range children {
		b.WriteByte(' ')
		writeLisp(b, c)
	}
	b.WriteByte(')')
}

// C returns a C-like rendering of the subtree rooted at n. Binary nodes
// whose name is an operator symbol are printed infix; all other
// nonterminals are printed as function calls.
func C(n Node) string {
	var b strings.Builder
	writeC(&b, n)
	return b.String()
}

func writeC(b *strings.Builder, n Node) {
	children := n.base().children
	switch {
	case len(children) == 0:
		b.WriteString(Atom(n))
	case len(children) == 2 && isOperator(n.Name()):
		b.WriteByte('(')
		writeC(b, children[0])
		b.WriteString(" " + n.Name() + " ")
		writeC(b, children[1])
		b.WriteByte(')')
	default:
		b.WriteString(Atom(n))
		b.WriteByte('(')
		for i, c := range children {
			if i > 0 {
				b.WriteString(", ")
			}
			writeC(b, c)
		}
		b.WriteByte(')')
	}
}

func isOperator(name string) bool {
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return false
		}
	}
	return name != ""
}

// WriteDot writes the tree in Graphviz dot format.
func WriteDot(w io.Writer, t *Tree) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "digraph tree%d {\n", t.index)
	if t.root != nil {
		id := 0
		writeDot(bw, t.root, &id)
	}
	bw.WriteString("}\n")
	return bw.Flush()
}

func writeDot(w *bufio.Writer, n Node, id *int) int {
	self := *id
	*id++
	fmt.Fprintf(w, "\tn%d [label=%s];\n", self, strconv.Quote(Atom(n)))
	for _, c := range n.base().children {
		child := writeDot(w, c, id)
		fmt.Fprintf(w, "\tn%d -> n%d;\n", self, child)
	}
	return self
}

// WriteIndividual writes the text form of ind: for each tree a header
// line "Tree N:" followed by the Lisp form of its root.
func WriteIndividual(w io.Writer, ind *Individual) error {
	bw := bufio.NewWriter(w)
	for i, t := range ind.Trees {
		fmt.Fprintf(bw, "Tree %d:\n", i)
		bw.WriteString(Lisp(t.root))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
