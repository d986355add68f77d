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

// Package cmd implements the stgp command line tool.
package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"stgp.dev/go/stgp/errors"
)

type runFunction func(cmd *Command, args []string) error

func mkRunE(c *Command, f runFunction) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		c.Command = cmd
		return f(c, args)
	}
}

// newRootCmd creates the base command when called without any subcommands
func newRootCmd() *Command {
	cmd := &cobra.Command{
		Use:   "stgp",
		Short: "stgp checks, grows and evaluates strongly typed GP individuals.",
		Long: `stgp works with individuals of strongly typed genetic programming:
fixed arrays of typed expression trees, possibly calling each other as
automatically defined functions (ADFs) or macros (ADMs).

The types, node signatures, function sets and tree layout of a problem are
declared in a YAML catalog passed with --catalog:

	types:
	  atomic: [num, bool]
	nodes:
	- {name: num2, returns: num, children: [num, num]}
	- {name: num0, returns: num}
	functionSets:
	- name: main
	  members:
	  - {proto: add, constraints: num2}
	  - {proto: var, constraints: num0, params: {name: x}}
	trees:
	- {name: main, type: num, functionSet: main, builder: {kind: half, min: 2, max: 6}}
	layout: [main]

Individuals are written one tree per "Tree N:" header, each tree in Lisp
form, for instance:

	Tree 0:
	(+ x (* x x))

The tool provides the arithmetic node library: add sub mul div neg lt and
or not if var num bool const, plus the builtin adf, adm and arg nodes.`,

		SilenceUsage:  true,
		SilenceErrors: true,
	}

	c := &Command{Command: cmd, root: cmd}

	subCommands := []*cobra.Command{
		newCheckCmd(c),
		newEvalCmd(c),
		newFmtCmd(c),
		newGrowCmd(c),
		newStatsCmd(c),
		newVersionCmd(c),
	}

	addGlobalFlags(cmd.PersistentFlags())

	for _, sub := range subCommands {
		cmd.AddCommand(sub)
	}

	return c
}

// Main runs the stgp tool and returns the code for passing to os.Exit.
func Main() int {
	err := mainErr(context.Background(), os.Args[1:])
	if err != nil {
		if err != ErrPrintedError {
			errors.Print(os.Stderr, err, nil)
		}
		return 1
	}
	return 0
}

func mainErr(ctx context.Context, args []string) error {
	cmd, err := New(args)
	if err != nil {
		return err
	}
	return cmd.Run(ctx)
}

type Command struct {
	// The currently active command.
	*cobra.Command

	root *cobra.Command

	log *slog.Logger

	hasErr bool
}

type errWriter Command

func (w *errWriter) Write(b []byte) (int, error) {
	c := (*Command)(w)
	c.hasErr = true
	return c.Command.ErrOrStderr().Write(b)
}

// Stderr returns a writer that should be used for error messages. Writing
// to it makes the command exit with a non-zero code. os.Stderr may never be
// used directly.
func (c *Command) Stderr() io.Writer {
	return (*errWriter)(c)
}

func (c *Command) SetOutput(w io.Writer) {
	c.root.SetOut(w)
	c.root.SetErr(w)
}

func (c *Command) SetInput(r io.Reader) {
	c.root.SetIn(r)
}

// ErrPrintedError indicates error messages have been printed to stderr.
var ErrPrintedError = errors.New("terminating because of errors")

func (c *Command) Run(ctx context.Context) (err error) {
	defer recoverError(&err)

	if err := c.root.ExecuteContext(ctx); err != nil {
		return err
	}
	if c.hasErr {
		return ErrPrintedError
	}
	return nil
}

func recoverError(err *error) {
	switch e := recover().(type) {
	case nil:
	case panicError:
		*err = e.Err
	default:
		panic(e)
	}
	// We use panic to escape, instead of os.Exit
}

func New(args []string) (cmd *Command, err error) {
	defer recoverError(&err)

	cmd = newRootCmd()
	cmd.root.SetArgs(args)
	return cmd, nil
}

type panicError struct {
	Err error
}

func exit() {
	panic(panicError{ErrPrintedError})
}
