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
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newCheckCmd(c *Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "validate a catalog",
		Long: `check loads the catalog given by --catalog, reports all setup errors,
and prints the tree layout of its individuals.

Setup warnings, such as a type with terminals but no nonterminals, are
logged. With --strict they are reported as errors.
`,
		Args: cobra.NoArgs,
		RunE: mkRunE(c, runCheck),
	}
	return cmd
}

func runCheck(cmd *Command, args []string) error {
	c := loadCatalog(cmd)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 1, ' ', 0)
	for i, tc := range c.Layout() {
		fs := tc.FunctionSet
		fmt.Fprintf(w, "Tree %d:\t%s\treturns %s\tfunction set %s (%d nodes)\n",
			i, tc.Name, tc.RootType.Name(), fs.Name, len(fs.Prototypes()))
	}
	return w.Flush()
}
