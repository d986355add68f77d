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

package types

import (
	"github.com/mpvl/unique"

	"stgp.dev/go/stgp/errors"
)

// A Catalog holds the declared types of a run.
//
// Declaration methods never fail: problems such as duplicate names are
// recorded and reported together by Finalize.
type Catalog struct {
	byName  map[string]Type
	atomics []*Atomic
	sets    []*Set

	// all is indexed by id once finalized.
	all []Type

	final bool
	errs  errors.Error
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{byName: map[string]Type{}}
}

func (c *Catalog) errf(p errors.Path, format string, args ...interface{}) {
	c.errs = errors.Append(c.errs, errors.Newf(p, format, args...))
}

func (c *Catalog) declare(kind, name string) bool {
	p := errors.Path{"types", name}
	switch {
	case c.final:
		c.errf(p, "cannot declare %s type after the catalog is finalized", kind)
		return false
	case name == "":
		c.errf(errors.Path{"types"}, "%s type has empty name", kind)
		return false
	}
	if _, ok := c.byName[name]; ok {
		c.errf(p, "type %q declared more than once", name)
		return false
	}
	return true
}

// AddAtomic declares an atomic type. It returns nil if the declaration was
// rejected.
func (c *Catalog) AddAtomic(name string) *Atomic {
	if !c.declare("atomic", name) {
		return nil
	}
	t := &Atomic{name: name, id: -1}
	c.byName[name] = t
	c.atomics = append(c.atomics, t)
	return t
}

// AddSet declares a set type with the given member atomic type names. The
// members are resolved by Finalize, so they may be declared after the set.
// It returns nil if the declaration was rejected.
func (c *Catalog) AddSet(name string, members ...string) *Set {
	if !c.declare("set", name) {
		return nil
	}
	t := &Set{name: name, id: -1, members: append([]string(nil), members...)}
	c.byName[name] = t
	c.sets = append(c.sets, t)
	return t
}

// Finalize assigns dense ids to all types and resolves set members. It is
// the checkpoint for type declarations: it returns all errors recorded so
// far, or nil. Calling Finalize more than once is a no-op.
func (c *Catalog) Finalize() error {
	if c.final {
		return c.Err()
	}
	c.final = true

	c.all = make([]Type, 0, len(c.atomics)+len(c.sets))
	for _, a := range c.atomics {
		a.id = len(c.all)
		c.all = append(c.all, a)
	}
	for _, s := range c.sets {
		s.id = len(c.all)
		c.all = append(c.all, s)
		c.resolveSet(s)
	}
	return c.Err()
}

func (c *Catalog) resolveSet(s *Set) {
	s.sparse = make([]bool, len(c.atomics))
	s.packed = s.packed[:0]
	for _, m := range s.members {
		p := errors.Path{"types", s.name, "members", m}
		switch x := c.byName[m].(type) {
		case nil:
			c.errf(p, "set member %q is not a declared type", m)
		case *Set:
			c.errf(p, "set member %q is %s; members must be atomic", m, Describe(x))
		case *Atomic:
			s.sparse[x.id] = true
			s.packed = append(s.packed, x.id)
		}
	}
	unique.Ints(&s.packed)
	if len(s.packed) == 0 {
		c.errf(errors.Path{"types", s.name}, "set type %q has no members", s.name)
	}
}

// Err returns the errors recorded so far, or nil.
func (c *Catalog) Err() error {
	if c.errs == nil {
		return nil
	}
	return errors.Sanitize(c.errs)
}

// Finalized reports whether Finalize has been called.
func (c *Catalog) Finalized() bool { return c.final }

// Lookup returns the type with the given name.
func (c *Catalog) Lookup(name string) (Type, bool) {
	t, ok := c.byName[name]
	return t, ok
}

// ByID returns the type with the given dense id. It panics if the catalog
// is not finalized or id is out of range.
func (c *Catalog) ByID(id int) Type {
	if !c.final {
		panic("types: ByID called before Finalize")
	}
	return c.all[id]
}

// Types returns all types in id order. The result must not be modified.
func (c *Catalog) Types() []Type { return c.all }

// Len reports the total number of types.
func (c *Catalog) Len() int { return len(c.atomics) + len(c.sets) }

// NumAtomic reports the number of atomic types.
func (c *Catalog) NumAtomic() int { return len(c.atomics) }

// NumSet reports the number of set types.
func (c *Catalog) NumSet() int { return len(c.sets) }
