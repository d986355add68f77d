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

// Package types implements the type-compatibility lattice of strongly-typed
// genetic programming.
//
// There are two kinds of types. An atomic type has a unique identity and is
// only compatible with itself and with set types that contain it. A set type
// is a group of atomic types; it is compatible with each of its members and
// with every set type it shares a member with.
//
// Types are declared in a Catalog by name. Calling Finalize assigns every
// type a dense integer id: atomic types take the ids [0, NumAtomic) and set
// types the ids [NumAtomic, NumAtomic+NumSet). Ids never change afterwards,
// so they can be used to index per-type tables.
package types // import "stgp.dev/go/stgp/types"

import (
	"fmt"
)

// A Type is either an *Atomic or a *Set.
type Type interface {
	// Name reports the name the type was declared with.
	Name() string

	// ID reports the dense id of the type. It is -1 until the owning
	// Catalog is finalized.
	ID() int

	// CompatibleWith reports whether a value of this type may be used where
	// other is expected, and vice versa. The relation is reflexive and
	// symmetric.
	CompatibleWith(other Type) bool

	String() string

	typ()
}

// Atomic is a type with unique identity.
type Atomic struct {
	name string
	id   int
}

func (t *Atomic) typ() {}

func (t *Atomic) Name() string   { return t.name }
func (t *Atomic) ID() int        { return t.id }
func (t *Atomic) String() string { return t.name }

// CompatibleWith reports whether other is t itself or a set containing t.
func (t *Atomic) CompatibleWith(other Type) bool {
	switch x := other.(type) {
	case *Atomic:
		return t == x
	case *Set:
		return x.Contains(t)
	}
	return false
}

// Set is a compatibility group over atomic types.
type Set struct {
	name string
	id   int

	// members holds the declared member names until finalization.
	members []string

	// packed holds the sorted ids of the member atomic types.
	packed []int

	// sparse is indexed by atomic id and marks members.
	sparse []bool
}

func (t *Set) typ() {}

func (t *Set) Name() string   { return t.name }
func (t *Set) ID() int        { return t.id }
func (t *Set) String() string { return t.name }

// Members returns the sorted ids of the atomic types in t.
// The result must not be modified.
func (t *Set) Members() []int { return t.packed }

// Contains reports whether a is a member of t.
func (t *Set) Contains(a *Atomic) bool {
	return a.id >= 0 && a.id < len(t.sparse) && t.sparse[a.id]
}

// CompatibleWith reports whether t is other, contains other, or shares at
// least one member with other.
func (t *Set) CompatibleWith(other Type) bool {
	switch x := other.(type) {
	case *Set:
		if t == x {
			return true
		}
		return intersects(t.packed, x.packed)
	case *Atomic:
		return t.Contains(x)
	}
	return false
}

// intersects reports whether the sorted slices a and b share an element.
func intersects(a, b []int) bool {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			return true
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return false
}

// IsAtomic reports whether t is an atomic type.
func IsAtomic(t Type) bool {
	_, ok := t.(*Atomic)
	return ok
}

// Describe returns a human-readable description of t including its kind,
// for use in diagnostics.
func Describe(t Type) string {
	switch x := t.(type) {
	case *Atomic:
		return fmt.Sprintf("atomic %s", x.name)
	case *Set:
		return fmt.Sprintf("set %s%v", x.name, x.members)
	}
	return "<nil>"
}
