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
	"testing"

	"github.com/go-quicktest/qt"
)

func TestStackRoundTrip(t *testing.T) {
	s := NewStack(&intData{})
	depth, reserved := s.Len(), s.Reserved()

	c := s.Take()
	s.Push(c)
	qt.Assert(t, qt.Equals(s.Top(0), c))
	qt.Assert(t, qt.Equals(s.Pop(1), 1))
	qt.Assert(t, qt.Equals(s.Len(), depth))
	qt.Assert(t, qt.Equals(s.Reserved(), reserved+1))

	// The frame is recycled by identity.
	qt.Assert(t, qt.Equals(s.Take(), c))
	qt.Assert(t, qt.Equals(s.Reserved(), reserved))
}

func TestStackGrowth(t *testing.T) {
	s := NewStack(&intData{})
	var frames []*Context
	for range 10 {
		c := s.Take()
		frames = append(frames, c)
		s.Push(c)
	}
	qt.Assert(t, qt.Equals(s.Len(), 10))
	for i := range frames {
		qt.Check(t, qt.Equals(s.Top(i), frames[len(frames)-1-i]))
	}
	qt.Assert(t, qt.IsNil(s.Top(10)))
	qt.Assert(t, qt.IsNil(s.Top(-1)))

	// Pop stops early when the stack runs empty.
	qt.Assert(t, qt.Equals(s.Pop(15), 10))
	qt.Assert(t, qt.Equals(s.Reserved(), 10))
	qt.Assert(t, qt.IsNil(s.Top(0)))
}

func TestSubstack(t *testing.T) {
	s := NewStack(&intData{})
	c1, c2, c3 := s.Take(), s.Take(), s.Take()
	s.Push(c1)
	s.Push(c2)
	s.Push(c3)

	qt.Assert(t, qt.Equals(s.MoveOntoSubstack(2), 2))
	qt.Assert(t, qt.Equals(s.Len(), 1))
	qt.Assert(t, qt.Equals(s.SubLen(), 2))
	qt.Assert(t, qt.Equals(s.Top(0), c1))

	qt.Assert(t, qt.Equals(s.MoveFromSubstack(2), 2))
	qt.Assert(t, qt.Equals(s.SubLen(), 0))
	qt.Assert(t, qt.Equals(s.Top(0), c3))
	qt.Assert(t, qt.Equals(s.Top(1), c2))
	qt.Assert(t, qt.Equals(s.Top(2), c1))

	// Short moves report the actual count.
	qt.Assert(t, qt.Equals(s.MoveOntoSubstack(5), 3))
	qt.Assert(t, qt.Equals(s.MoveFromSubstack(4), 3))
	qt.Assert(t, qt.Equals(s.Top(0), c3))
}

func TestStackReset(t *testing.T) {
	s := NewStack(&intData{})
	var frames []*Context
	for range 3 {
		c := s.Take()
		c.prepareADM(&addNode{})
		s.Push(c)
		frames = append(frames, c)
	}
	s.MoveOntoSubstack(1)
	s.Reset()
	qt.Assert(t, qt.Equals(s.Len(), 0))
	qt.Assert(t, qt.Equals(s.SubLen(), 0))
	qt.Assert(t, qt.Equals(s.Reserved(), 3))

	// Reserved frames must not keep the previous individual reachable.
	for _, c := range frames {
		qt.Assert(t, qt.IsNil(c.Caller()))
	}
}

func TestStackClone(t *testing.T) {
	s := NewStack(&intData{})
	caller := &addNode{}
	c := s.Take()
	c.prepareADF(caller, 2)
	c.args[0].(*intData).v = 5
	s.Push(c)
	s.Push(s.Take())
	s.MoveOntoSubstack(1)
	s.Push(s.Take())
	s.Pop(1)

	s2 := s.Clone()
	qt.Assert(t, qt.Equals(s2.Len(), s.Len()))
	qt.Assert(t, qt.Equals(s2.SubLen(), s.SubLen()))
	qt.Assert(t, qt.Equals(s2.Reserved(), s.Reserved()))

	c2 := s2.Top(0)
	qt.Assert(t, qt.Not(qt.Equals(c2, c)))
	qt.Assert(t, qt.Equals(c2.Caller(), Node(caller)))
	qt.Assert(t, qt.Equals(c2.Arg(0).(*intData).v, 5))
	qt.Assert(t, qt.Not(qt.Equals(c2.Arg(0), c.Arg(0))))

	// The clone is independent.
	c2.args[0].(*intData).v = 6
	qt.Assert(t, qt.Equals(c.Arg(0).(*intData).v, 5))
	s2.Reset()
	qt.Assert(t, qt.Equals(s.Len(), 1))
}
