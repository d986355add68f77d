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
	"bufio"
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"stgp.dev/go/stgp/gp"
)

func newGrowCmd(c *Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grow",
		Short: "grow random individuals",
		Long: `grow builds random individuals with the builders declared for each tree
in the catalog and prints them in the text form read by the other commands.

The same --seed always grows the same individuals. With --unique, an
individual equal to one grown before is discarded and grown again.
`,
		Args: cobra.NoArgs,
		RunE: mkRunE(c, runGrow),
	}
	cmd.Flags().IntP(string(flagCount), "n", 1, "number of individuals")
	cmd.Flags().Uint64(string(flagSeed), 1, "random seed")
	cmd.Flags().Bool(string(flagUnique), false, "do not print the same individual twice")
	return cmd
}

// maxAttemptsPerIndividual bounds the number of builds for --unique.
const maxAttemptsPerIndividual = 100

func runGrow(cmd *Command, args []string) error {
	c := loadCatalog(cmd)
	n := flagCount.Int(cmd)
	unique := flagUnique.Bool(cmd)
	seed := flagSeed.Uint64(cmd)
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	log := cmd.logger()

	w := bufio.NewWriter(cmd.OutOrStdout())
	seen := map[uint64][]*gp.Individual{}
	grown, dups := 0, 0
	for attempts := 0; grown < n; attempts++ {
		if attempts == n*maxAttemptsPerIndividual {
			w.Flush()
			return fmt.Errorf("grew only %d unique individuals in %d attempts", grown, attempts)
		}
		ind := gp.NewIndividual(c)
		if err := ind.Build(rng); err != nil {
			return err
		}
		if unique {
			h := ind.Hash()
			if containsEqual(seen[h], ind) {
				dups++
				continue
			}
			seen[h] = append(seen[h], ind)
		}
		if grown > 0 {
			w.WriteByte('\n')
		}
		if err := gp.WriteIndividual(w, ind); err != nil {
			return err
		}
		grown++
		log.Debug("grew individual", "n", grown, "size", ind.Size())
	}
	if dups > 0 {
		log.Info("discarded duplicates", "count", dups)
	}
	return w.Flush()
}

func containsEqual(inds []*gp.Individual, ind *gp.Individual) bool {
	for _, x := range inds {
		if x.Equal(ind) {
			return true
		}
	}
	return false
}
