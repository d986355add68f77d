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

// Package load reads catalog descriptions.
//
// A description is a YAML document that declares, in order, the types, node
// constraints, function sets and tree constraints of a run, and the layout
// of trees in an individual:
//
//	types:
//	  atomic: [num, bool]
//	  sets:
//	  - {name: any, members: [num, bool]}
//	nodes:
//	- {name: num2, returns: num, children: [num, num]}
//	- {name: num0, returns: num, prob: 2}
//	functionSets:
//	- name: main
//	  members:
//	  - {proto: add, constraints: num2}
//	  - {proto: var, constraints: num0, params: {name: x}}
//	trees:
//	- {name: main, type: num, functionSet: main, builder: {kind: half, min: 2, max: 6}}
//	layout: [main]
//
// Loading performs the setup calls in that order and reports all problems
// found, each with the path of the offending declaration.
package load

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"stgp.dev/go/stgp/build"
	"stgp.dev/go/stgp/errors"
	"stgp.dev/go/stgp/gp"
	"stgp.dev/go/stgp/types"
)

// A File is a parsed catalog description.
type File struct {
	Types        Types         `yaml:"types"`
	Nodes        []Node        `yaml:"nodes"`
	FunctionSets []FunctionSet `yaml:"functionSets"`
	Trees        []Tree        `yaml:"trees"`
	Layout       []string      `yaml:"layout"`
}

type Types struct {
	Atomic []string `yaml:"atomic"`
	Sets   []Set    `yaml:"sets"`
}

type Set struct {
	Name    string   `yaml:"name"`
	Members []string `yaml:"members"`
}

type Node struct {
	Name     string   `yaml:"name"`
	Returns  string   `yaml:"returns"`
	Children []string `yaml:"children"`

	// Prob is the selection weight. It defaults to 1.
	Prob *float64 `yaml:"prob"`
}

type FunctionSet struct {
	Name    string   `yaml:"name"`
	Members []Member `yaml:"members"`
}

type Member struct {
	Proto       string            `yaml:"proto"`
	Constraints string            `yaml:"constraints"`
	Params      map[string]string `yaml:"params"`
}

type Tree struct {
	Name        string   `yaml:"name"`
	Type        string   `yaml:"type"`
	FunctionSet string   `yaml:"functionSet"`
	Builder     *Builder `yaml:"builder"`
}

type Builder struct {
	Kind string `yaml:"kind"`
	Min  int    `yaml:"min"`
	Max  int    `yaml:"max"`
}

// Parse parses a catalog description. Unknown fields are an error.
func Parse(filename string, data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	f := &File{}
	if err := dec.Decode(f); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return f, nil
}

// Catalog performs the setup calls described by f and returns the
// finalized catalog. Prototypes are created from r. If there are errors,
// the catalog is returned along with all of them.
func (f *File) Catalog(r *gp.Registry, opts ...gp.Option) (*gp.Catalog, error) {
	ts := types.NewCatalog()
	for _, name := range f.Types.Atomic {
		ts.AddAtomic(name)
	}
	for _, s := range f.Types.Sets {
		ts.AddSet(s.Name, s.Members...)
	}
	var errs errors.Error
	if err := ts.Finalize(); err != nil {
		errs = errors.Promote(err, "")
	}

	c := gp.NewCatalog(ts, r, opts...)
	for _, n := range f.Nodes {
		prob := 1.0
		if n.Prob != nil {
			prob = *n.Prob
		}
		c.AddNodeConstraints(n.Name, n.Returns, n.Children, prob)
	}
	for _, fs := range f.FunctionSets {
		members := make([]gp.Member, len(fs.Members))
		for i, m := range fs.Members {
			members[i] = gp.Member{Proto: m.Proto, Constraints: m.Constraints, Params: m.Params}
		}
		c.AddFunctionSet(fs.Name, members)
	}
	for _, t := range f.Trees {
		var b gp.Builder
		if t.Builder != nil {
			var err error
			b, err = build.New(t.Builder.Kind, t.Builder.Min, t.Builder.Max)
			if err != nil {
				errs = errors.Append(errs, errors.Wrapf(err, errors.Path{"trees", t.Name, "builder"}, ""))
			}
		}
		c.AddTreeConstraints(t.Name, t.Type, t.FunctionSet, b)
	}
	c.SetLayout(f.Layout...)
	if err := c.Finalize(); err != nil {
		errs = errors.Append(errs, errors.Promote(err, ""))
	}
	if errs != nil {
		return c, errors.Sanitize(errs)
	}
	return c, nil
}

// Load reads the catalog description in the named file and performs its
// setup calls.
func Load(filename string, r *gp.Registry, opts ...gp.Option) (*gp.Catalog, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	f, err := Parse(filename, data)
	if err != nil {
		return nil, err
	}
	return f.Catalog(r, opts...)
}

// Bindings maps variable names to values. It is the format of the test case
// files read by the stgp tool: a list of bindings, one per case.
type Bindings map[string]string

// ParseCases parses a YAML list of variable bindings.
func ParseCases(filename string, data []byte) ([]Bindings, error) {
	var cases []Bindings
	if err := yaml.Unmarshal(data, &cases); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	for i, c := range cases {
		if len(c) == 0 {
			return nil, fmt.Errorf("%s: case %d has no bindings", filename, i)
		}
	}
	return cases, nil
}
