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

	"google.golang.org/protobuf/encoding/protowire"

	"stgp.dev/go/internal/gpdebug"
)

// A PayloadCodec is implemented by nodes that carry a value in the binary
// form. AppendPayload appends the encoded value to b; DecodePayload sets the
// value from the bytes written by AppendPayload.
type PayloadCodec interface {
	AppendPayload(b []byte) []byte
	DecodePayload(b []byte) error
}

// AppendNode appends the binary form of the subtree rooted at n to b. Each
// node is written in pre-order as its child count, the index of its
// prototype in fs, and a length-prefixed payload, which is empty unless the
// node is a PayloadCodec.
func AppendNode(b []byte, fs *FunctionSet, n Node) ([]byte, error) {
	i := fs.IndexOf(n)
	if i < 0 {
		return b, fmt.Errorf("node %s is not in function set %q", n.Name(), fs.Name)
	}
	children := n.base().children
	b = protowire.AppendVarint(b, uint64(len(children)))
	b = protowire.AppendVarint(b, uint64(i))
	var payload []byte
	if pc, ok := n.(PayloadCodec); ok {
		payload = pc.AppendPayload(nil)
	}
	b = protowire.AppendBytes(b, payload)
	for _, c := range children {
		var err error
		if b, err = AppendNode(b, fs, c); err != nil {
			return b, err
		}
	}
	return b, nil
}

// ConsumeNode decodes a subtree written by AppendNode and attaches it to
// parent at position pos. It returns the node and the number of bytes read.
func ConsumeNode(b []byte, fs *FunctionSet, parent Parent, pos int) (Node, int, error) {
	start := len(b)
	count, m := protowire.ConsumeVarint(b)
	if m < 0 {
		return nil, 0, fmt.Errorf("child count: %w", protowire.ParseError(m))
	}
	b = b[m:]
	idx, m := protowire.ConsumeVarint(b)
	if m < 0 {
		return nil, 0, fmt.Errorf("prototype index: %w", protowire.ParseError(m))
	}
	b = b[m:]
	payload, m := protowire.ConsumeBytes(b)
	if m < 0 {
		return nil, 0, fmt.Errorf("payload: %w", protowire.ParseError(m))
	}
	b = b[m:]

	if idx >= uint64(len(fs.protos)) {
		return nil, 0, fmt.Errorf("prototype index %d out of range for function set %q", idx, fs.Name)
	}
	proto := fs.Prototype(int(idx))
	if arity := len(proto.base().children); uint64(arity) != count {
		return nil, 0, fmt.Errorf("node %s has %d children, want %d", proto.Name(), count, arity)
	}
	n := Instantiate(nil, proto, parent, pos)
	if pc, ok := n.(PayloadCodec); ok {
		if err := pc.DecodePayload(payload); err != nil {
			return nil, 0, fmt.Errorf("node %s: %w", proto.Name(), err)
		}
	} else if len(payload) > 0 {
		return nil, 0, fmt.Errorf("node %s does not take a payload", proto.Name())
	}
	for i := range n.base().children {
		c, m, err := ConsumeNode(b, fs, n, i)
		if err != nil {
			return nil, 0, err
		}
		SetChild(n, i, c)
		b = b[m:]
	}
	return n, start - len(b), nil
}

// AppendIndividual appends the binary form of ind to b: the number of trees
// followed by the root of each tree.
func AppendIndividual(b []byte, ind *Individual) ([]byte, error) {
	b = protowire.AppendVarint(b, uint64(len(ind.Trees)))
	for i, t := range ind.Trees {
		if t.root == nil {
			return b, fmt.Errorf("tree %d is empty", i)
		}
		var err error
		if b, err = AppendNode(b, t.cons.FunctionSet, t.root); err != nil {
			return b, fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return b, nil
}

// ConsumeIndividual decodes an individual written by AppendIndividual. It
// returns the individual and the number of bytes read.
func ConsumeIndividual(b []byte, c *Catalog) (*Individual, int, error) {
	start := len(b)
	count, m := protowire.ConsumeVarint(b)
	if m < 0 {
		return nil, 0, fmt.Errorf("tree count: %w", protowire.ParseError(m))
	}
	b = b[m:]
	ind := NewIndividual(c)
	if count != uint64(len(ind.Trees)) {
		return nil, 0, fmt.Errorf("found %d trees, want %d", count, len(ind.Trees))
	}
	for i, t := range ind.Trees {
		n, m, err := ConsumeNode(b, t.cons.FunctionSet, t, 0)
		if err != nil {
			return nil, 0, fmt.Errorf("tree %d: %w", i, err)
		}
		t.SetRoot(n)
		b = b[m:]
		if gpdebug.Flags.Verify {
			mustVerify(t)
		}
	}
	return ind, start - len(b), nil
}
