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

// Package gp implements the tree representation and evaluation engine of
// strongly-typed genetic programming.
//
// An Individual owns a fixed number of Trees. Each Tree owns exactly one root
// Node, and every Node owns its children exclusively. Nodes point back to
// their parent, which is either another Node or the Tree itself, and record
// their position among the parent's children. These links are kept
// consistent by the clone and replace operations of this package and can be
// checked with Verify.
//
// Which nodes may appear where is governed by a Catalog, which is set up in a
// strict order:
//
//	types.Catalog -> NodeConstraints -> FunctionSet -> TreeConstraints
//
// Nodes refer to their NodeConstraints by index into the Catalog, not by
// pointer.
//
// # Evaluation
//
// A tree is evaluated by calling Eval on its root. Nodes communicate results
// to their parent through a problem-defined Data value. A node decides itself
// whether, when and how often to evaluate each child.
//
// A node can call another tree of the same individual as a subroutine: ADF
// nodes evaluate their arguments eagerly, ADM nodes lazily. Calls are
// recorded on a Stack of reusable Contexts instead of the Go call stack
// alone. A Stack belongs to a single worker and must be Reset between
// individuals.
//
// Violations of the call protocol, such as a missing frame or an argument
// index out of range, indicate a corrupt tree or a defective node. They
// panic with a *ProtocolError and must not be recovered and retried.
package gp // import "stgp.dev/go/stgp/gp"
