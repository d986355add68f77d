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

package cmd

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Common flags
const (
	flagCases   flagName = "cases"
	flagCatalog flagName = "catalog"
	flagCount   flagName = "count"
	flagOut     flagName = "out"
	flagSeed    flagName = "seed"
	flagStrict  flagName = "strict"
	flagTree    flagName = "tree"
	flagUnique  flagName = "unique"
	flagVar     flagName = "var"
	flagVerbose flagName = "verbose"
	flagWorkers flagName = "workers"
)

func addGlobalFlags(f *pflag.FlagSet) {
	f.StringP(string(flagCatalog), "c", "", "catalog file declaring types, nodes, function sets and trees")
	f.BoolP(string(flagVerbose), "v", false, "print information about progress")
	f.Bool(string(flagStrict), false, "report catalog warnings as errors (default from STGP_DEBUG=strict)")
}

func addTreeFlag(f *pflag.FlagSet) {
	f.Int(string(flagTree), 0, "index of the tree to evaluate")
}

type flagName string

// ensureAdded detects if a flag is being used without it first being
// added to the flagSet. Because flagNames are global, it is quite
// easy to accidentally use a flag in a command without adding it to
// the flagSet.
func (f flagName) ensureAdded(cmd *Command) {
	if cmd.Flags().Lookup(string(f)) == nil {
		panic(fmt.Sprintf("Cmd %q uses flag %q without adding it", cmd.Name(), f))
	}
}

func (f flagName) Bool(cmd *Command) bool {
	f.ensureAdded(cmd)
	v, _ := cmd.Flags().GetBool(string(f))
	return v
}

func (f flagName) Int(cmd *Command) int {
	f.ensureAdded(cmd)
	v, _ := cmd.Flags().GetInt(string(f))
	return v
}

func (f flagName) Uint64(cmd *Command) uint64 {
	f.ensureAdded(cmd)
	v, _ := cmd.Flags().GetUint64(string(f))
	return v
}

func (f flagName) String(cmd *Command) string {
	f.ensureAdded(cmd)
	v, _ := cmd.Flags().GetString(string(f))
	return v
}

func (f flagName) StringArray(cmd *Command) []string {
	f.ensureAdded(cmd)
	v, _ := cmd.Flags().GetStringArray(string(f))
	return v
}

// IsSet reports whether the flag was given on the command line.
func (f flagName) IsSet(cmd *Command) bool {
	f.ensureAdded(cmd)
	return cmd.Flags().Changed(string(f))
}
