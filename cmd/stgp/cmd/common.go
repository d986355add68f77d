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
	"bytes"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"

	"stgp.dev/go/pkg/arith"
	"stgp.dev/go/stgp/errors"
	"stgp.dev/go/stgp/gp"
	"stgp.dev/go/stgp/load"
)

// logger returns the logger for progress and catalog warnings. Records go
// to the error output of the command without timestamps so that output is
// stable.
func (c *Command) logger() *slog.Logger {
	if c.log != nil {
		return c.log
	}
	level := slog.LevelWarn
	if flagVerbose.Bool(c) {
		level = slog.LevelDebug
	}
	c.log = slog.New(tint.NewHandler(c.ErrOrStderr(), &tint.Options{
		Level:   level,
		NoColor: true,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		},
	}))
	return c.log
}

func exitOnErr(cmd *Command, err error, fatal bool) {
	if err == nil {
		return
	}
	w := &bytes.Buffer{}
	errors.Print(w, err, nil)
	_, _ = cmd.Stderr().Write(w.Bytes())
	if fatal {
		exit()
	}
}

func newRegistry() *gp.Registry {
	r := gp.NewRegistry()
	arith.Register(r)
	return r
}

// loadCatalog loads the catalog named by --catalog, exiting if it has setup
// errors.
func loadCatalog(cmd *Command) *gp.Catalog {
	file := flagCatalog.String(cmd)
	if file == "" {
		exitOnErr(cmd, errors.New("no catalog given; use --catalog"), true)
	}
	opts := []gp.Option{gp.WithLogger(cmd.logger())}
	if flagStrict.IsSet(cmd) {
		opts = append(opts, gp.WithStrict(flagStrict.Bool(cmd)))
	}
	c, err := load.Load(file, newRegistry(), opts...)
	exitOnErr(cmd, err, true)
	return c
}

// readIndividuals parses all individuals of the given files. A file may hold
// several individuals, each starting with a "Tree 0:" header. The file "-"
// denotes standard input.
func readIndividuals(cmd *Command, c *gp.Catalog, files []string) []*gp.Individual {
	var (
		inds []*gp.Individual
		errs errors.Error
	)
	for _, file := range files {
		data, err := readFile(cmd, file)
		if err != nil {
			errs = errors.Append(errs, errors.Promote(err, ""))
			continue
		}
		for k, src := range splitIndividuals(data) {
			ind, err := gp.ParseIndividual(c, src)
			if err != nil {
				for _, e := range errors.Errors(err) {
					errs = errors.Append(errs, errors.Wrapf(e, e.Path(), "%s: individual %d", file, k))
				}
				continue
			}
			inds = append(inds, ind)
		}
	}
	exitOnErr(cmd, errs, true)
	return inds
}

func readFile(cmd *Command, file string) ([]byte, error) {
	if file == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(file)
}

// splitIndividuals splits src before every "Tree 0:" header. Lines starting
// with '#' are comments. Lines may be arbitrarily long: a large tree is
// written on a single line.
func splitIndividuals(src []byte) []string {
	var (
		chunks []string
		b      strings.Builder
	)
	for line := range strings.Lines(string(src)) {
		line = strings.TrimRight(line, "\r\n")
		text := strings.TrimSpace(line)
		if strings.HasPrefix(text, "#") {
			continue
		}
		if text == "Tree 0:" && strings.TrimSpace(b.String()) != "" {
			chunks = append(chunks, b.String())
			b.Reset()
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if strings.TrimSpace(b.String()) != "" {
		chunks = append(chunks, b.String())
	}
	return chunks
}
