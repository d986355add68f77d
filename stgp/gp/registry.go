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
	"slices"
	"strconv"
)

// Params holds the string parameters of a function set member, such as the
// name of a variable or the tree index of an ADF.
type Params map[string]string

// String returns the value of key, or def if it is absent.
func (p Params) String(key, def string) string {
	if v, ok := p[key]; ok {
		return v
	}
	return def
}

// Int returns the integer value of key. It is an error if the key is
// absent or not an integer.
func (p Params) Int(key string) (int, error) {
	v, ok := p[key]
	if !ok {
		return 0, fmt.Errorf("missing parameter %q", key)
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parameter %q: %v", key, err)
	}
	return i, nil
}

// A Factory creates a node prototype from its parameters.
type Factory func(p Params) (Node, error)

// A Registry maps prototype names to factories. It replaces name-based
// instantiation: every node type that can appear in a FunctionSet must be
// registered up front.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns a registry holding the builtin prototypes:
//
//	adf  ADF node; params "name" and "tree"
//	adm  ADM node; params "name" and "tree"
//	arg  ADF argument terminal; param "n"
func NewRegistry() *Registry {
	r := &Registry{factories: map[string]Factory{}}
	r.Register("adf", newADF)
	r.Register("adm", newADM)
	r.Register("arg", newArgument)
	return r
}

// Register adds a factory under the given name. It panics if the name is
// already taken, as this indicates a programming error.
func (r *Registry) Register(name string, f Factory) {
	if _, ok := r.factories[name]; ok {
		panic(fmt.Sprintf("gp: prototype %q registered twice", name))
	}
	r.factories[name] = f
}

// New creates a prototype by name.
func (r *Registry) New(name string, p Params) (Node, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown prototype %q", name)
	}
	n, err := f(p)
	if err != nil {
		return nil, fmt.Errorf("prototype %q: %w", name, err)
	}
	return n, nil
}

// Names returns the sorted names of all registered prototypes.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
