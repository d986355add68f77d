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

	"stgp.dev/go/stgp/gp"
)

func newStatsCmd(c *Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats [files]",
		Short: "print tree statistics",
		Long: `stats prints, for every tree of every individual, the number of nodes
and terminals, the depth, the mean depth of all nodes and the tree hash.
Equal trees have equal hashes.
`,
		Args: cobra.MinimumNArgs(1),
		RunE: mkRunE(c, runStats),
	}
	return cmd
}

func runStats(cmd *Command, args []string) error {
	c := loadCatalog(cmd)
	inds := readIndividuals(cmd, c, args)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "ind\ttree\tnodes\tterminals\tdepth\tmean depth\thash\t")
	for i, ind := range inds {
		for j, t := range ind.Trees {
			root := t.Root()
			fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%d\t%.2f\t%016x\t\n", i, j,
				gp.NumNodes(root, gp.All),
				gp.NumNodes(root, gp.Terminals),
				gp.Depth(root),
				gp.MeanDepth(root, gp.All),
				t.Hash())
		}
	}
	return w.Flush()
}
