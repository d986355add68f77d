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

// Data is the problem-defined value through which a node passes its result
// to its parent. A single Data is typically shared by all nodes of an
// evaluation; ADF argument slots are clones of a prototype Data.
type Data interface {
	// CopyTo copies the value of the receiver into dst, which is of the
	// same concrete type.
	CopyTo(dst Data)

	// Clone returns a deep copy of the receiver.
	Clone() Data
}

// Problem is the problem-specific state made available to every node during
// evaluation, such as the current values of input variables.
type Problem = any
