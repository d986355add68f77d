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

const initialStackSize = 2

// A Stack is the call stack of ADF and ADM evaluation. It consists of three
// arrays of Contexts: the live stack, a substack holding frames temporarily
// hidden while an ADM argument is evaluated, and a reserve of free frames.
//
// Frames move between the arrays by identity and are never copied, so that
// steady-state evaluation does not allocate. Each worker owns one Stack;
// a Stack must not be used concurrently. Clone gives a new worker its own.
type Stack struct {
	proto *Context

	stack      []*Context
	onStack    int
	substack   []*Context
	onSubstack int
	reserve    []*Context
	inReserve  int
}

// NewStack returns an empty stack whose frames hold argument slots cloned
// from data.
func NewStack(data Data) *Stack {
	return &Stack{
		proto:    &Context{proto: data},
		stack:    make([]*Context, initialStackSize),
		substack: make([]*Context, initialStackSize),
		reserve:  make([]*Context, initialStackSize),
	}
}

func grow(a []*Context) []*Context {
	b := make([]*Context, 2*len(a)+1)
	copy(b, a)
	return b
}

// Take returns a free frame from the reserve, or a new one if the reserve
// is empty. The frame is not on the stack until it is pushed.
func (s *Stack) Take() *Context {
	if s.inReserve > 0 {
		s.inReserve--
		c := s.reserve[s.inReserve]
		s.reserve[s.inReserve] = nil
		return c
	}
	return s.proto.clone()
}

// Push puts c on top of the stack.
func (s *Stack) Push(c *Context) {
	if s.onStack == len(s.stack) {
		s.stack = grow(s.stack)
	}
	s.stack[s.onStack] = c
	s.onStack++
}

// Pop removes up to n frames from the top of the stack and returns them to
// the reserve, releasing their callers. It reports the number of frames removed, which is less than
// n only if the stack ran empty.
func (s *Stack) Pop(n int) int {
	x := 0
	for ; x < n && s.onStack > 0; x++ {
		s.onStack--
		c := s.stack[s.onStack]
		s.stack[s.onStack] = nil
		c.caller = nil
		if s.inReserve == len(s.reserve) {
			s.reserve = grow(s.reserve)
		}
		s.reserve[s.inReserve] = c
		s.inReserve++
	}
	return x
}

// Top returns the n'th frame from the top of the stack, where 0 is the top,
// or nil if the stack holds n or fewer frames.
func (s *Stack) Top(n int) *Context {
	if n < 0 || s.onStack-n <= 0 {
		return nil
	}
	return s.stack[s.onStack-n-1]
}

// MoveOntoSubstack moves up to n frames from the top of the stack onto the
// substack and reports how many were moved. Callers must treat a result
// less than n as a protocol violation.
func (s *Stack) MoveOntoSubstack(n int) int {
	x := 0
	for ; x < n && s.onStack > 0; x++ {
		if s.onSubstack == len(s.substack) {
			s.substack = grow(s.substack)
		}
		s.onStack--
		s.substack[s.onSubstack] = s.stack[s.onStack]
		s.stack[s.onStack] = nil
		s.onSubstack++
	}
	return x
}

// MoveFromSubstack moves up to n frames from the substack back onto the
// stack and reports how many were moved. Callers must treat a result less
// than n as a protocol violation.
func (s *Stack) MoveFromSubstack(n int) int {
	x := 0
	for ; x < n && s.onSubstack > 0; x++ {
		if s.onStack == len(s.stack) {
			s.stack = grow(s.stack)
		}
		s.onSubstack--
		s.stack[s.onStack] = s.substack[s.onSubstack]
		s.substack[s.onSubstack] = nil
		s.onStack++
	}
	return x
}

// Reset returns all frames to the reserve: the substack is drained onto the
// stack, and the stack into the reserve. An evaluation driver must call
// Reset between individuals sharing a stack.
func (s *Stack) Reset() {
	if s.onSubstack > 0 {
		s.MoveFromSubstack(s.onSubstack)
	}
	if s.onStack > 0 {
		s.Pop(s.onStack)
	}
}

// Len reports the number of frames on the stack.
func (s *Stack) Len() int { return s.onStack }

// SubLen reports the number of frames on the substack.
func (s *Stack) SubLen() int { return s.onSubstack }

// Reserved reports the number of free frames in the reserve.
func (s *Stack) Reserved() int { return s.inReserve }

// Clone returns a deep copy of s for use by another worker. Every frame is
// cloned, including its argument slots.
func (s *Stack) Clone() *Stack {
	return &Stack{
		proto:      s.proto.clone(),
		stack:      cloneFrames(s.stack, s.onStack),
		onStack:    s.onStack,
		substack:   cloneFrames(s.substack, s.onSubstack),
		onSubstack: s.onSubstack,
		reserve:    cloneFrames(s.reserve, s.inReserve),
		inReserve:  s.inReserve,
	}
}

func cloneFrames(a []*Context, n int) []*Context {
	b := make([]*Context, len(a))
	for i := 0; i < n; i++ {
		b[i] = a[i].clone()
	}
	return b
}
