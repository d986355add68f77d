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

	"github.com/spf13/cobra"

	"stgp.dev/go/stgp/gp"
)

func newFmtCmd(c *Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fmt [files]",
		Short: "print individuals in canonical or alternative forms",
		Long: `fmt parses individuals and prints them again. The output format is
selected with --out:

	lisp  the canonical text form, as read by all commands (default)
	c     infix expressions with function call syntax
	dot   one Graphviz digraph per tree
`,
		Args: cobra.MinimumNArgs(1),
		RunE: mkRunE(c, runFmt),
	}
	cmd.Flags().String(string(flagOut), "lisp", "output format: lisp, c or dot")
	return cmd
}

func runFmt(cmd *Command, args []string) error {
	var write func(w *bufio.Writer, ind *gp.Individual) error
	switch out := flagOut.String(cmd); out {
	case "lisp":
		write = func(w *bufio.Writer, ind *gp.Individual) error {
			return gp.WriteIndividual(w, ind)
		}
	case "c":
		write = writeC
	case "dot":
		write = writeDot
	default:
		return fmt.Errorf("unknown output format %q", out)
	}

	c := loadCatalog(cmd)
	inds := readIndividuals(cmd, c, args)
	w := bufio.NewWriter(cmd.OutOrStdout())
	for i, ind := range inds {
		if i > 0 {
			w.WriteByte('\n')
		}
		if err := write(w, ind); err != nil {
			return err
		}
	}
	return w.Flush()
}

func writeC(w *bufio.Writer, ind *gp.Individual) error {
	for i, t := range ind.Trees {
		fmt.Fprintf(w, "Tree %d:\n%s\n", i, gp.C(t.Root()))
	}
	return nil
}

func writeDot(w *bufio.Writer, ind *gp.Individual) error {
	for _, t := range ind.Trees {
		if err := gp.WriteDot(w, t); err != nil {
			return err
		}
	}
	return nil
}
