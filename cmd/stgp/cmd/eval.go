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
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"stgp.dev/go/pkg/arith"
	"stgp.dev/go/stgp/errors"
	"stgp.dev/go/stgp/eval"
	"stgp.dev/go/stgp/gp"
	"stgp.dev/go/stgp/load"
)

func newEvalCmd(c *Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval [files]",
		Short: "evaluate individuals",
		Long: `eval evaluates one tree, by default tree 0, of every individual in the
given files and prints the results in order, one per line.

Variables are bound with --var name=value. With --cases, the named YAML file
holds a list of bindings and each individual is evaluated once per case;
--var then provides defaults for variables a case does not bind. Unbound
variables evaluate to 0.

	stgp eval -c catalog.yaml --var x=3 --var y=4.5 ind.txt

When there is more than one individual or case, each result is prefixed
with the individual and case numbers.
`,
		Args: cobra.MinimumNArgs(1),
		RunE: mkRunE(c, runEval),
	}
	cmd.Flags().StringArray(string(flagVar), nil, "bind a variable: name=value")
	cmd.Flags().String(string(flagCases), "", "YAML file with a list of variable bindings")
	cmd.Flags().IntP(string(flagWorkers), "j", 0, "number of evaluation workers (default GOMAXPROCS)")
	addTreeFlag(cmd.Flags())
	return cmd
}

func runEval(cmd *Command, args []string) error {
	c := loadCatalog(cmd)
	inds := readIndividuals(cmd, c, args)
	cases := evalCases(cmd)

	tree := flagTree.Int(cmd)
	if n := len(c.Layout()); tree < 0 || tree >= n {
		return fmt.Errorf("tree %d out of range: individuals have %d trees", tree, n)
	}

	log := cmd.logger()
	problems := make([]*arith.Problem, len(cases))
	var errs errors.Error
	for i, b := range cases {
		p, err := arith.NewProblem(b)
		if err != nil {
			errs = errors.Append(errs, errors.Wrapf(err, errors.Path{"cases", fmt.Sprint(i)}, ""))
		}
		problems[i] = p
	}
	exitOnErr(cmd, errs, true)

	for i, ind := range inds {
		for _, name := range arith.Vars(ind) {
			if slices.ContainsFunc(cases, func(b load.Bindings) bool { _, ok := b[name]; return !ok }) {
				log.Warn("unbound variable evaluates to 0", "individual", i, "var", name)
			}
		}
	}

	results := make([]*arith.Value, len(inds)*len(problems))
	cfg := eval.Config{
		Workers: flagWorkers.Int(cmd),
		Stack:   gp.NewStack(&arith.Value{}),
		Logger:  log,
	}
	err := eval.Run(cmd.Context(), cfg, len(results), func(ctx context.Context, thread int, stack *gp.Stack, i int) error {
		v := &arith.Value{}
		inds[i/len(problems)].EvalTree(tree, thread, v, stack, problems[i%len(problems)])
		results[i] = v
		return nil
	})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	for i, v := range results {
		if len(results) == 1 {
			fmt.Fprintln(w, v)
			continue
		}
		fmt.Fprintf(w, "%d.%d: %s\n", i/len(problems), i%len(problems), v)
	}
	return nil
}

// evalCases returns the variable bindings of each evaluation case. There is
// always at least one case.
func evalCases(cmd *Command) []load.Bindings {
	vars := load.Bindings{}
	for _, kv := range flagVar.StringArray(cmd) {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			exitOnErr(cmd, fmt.Errorf("invalid --var %q: want name=value", kv), true)
		}
		vars[name] = value
	}

	file := flagCases.String(cmd)
	if file == "" {
		return []load.Bindings{vars}
	}
	data, err := readFile(cmd, file)
	exitOnErr(cmd, err, true)
	cases, err := load.ParseCases(file, data)
	exitOnErr(cmd, err, true)
	for _, b := range cases {
		for name, value := range vars {
			if _, ok := b[name]; !ok {
				b[name] = value
			}
		}
	}
	if len(cases) == 0 {
		cases = []load.Bindings{vars}
	}
	return cases
}
