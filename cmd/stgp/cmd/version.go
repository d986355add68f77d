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
	"errors"
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/mod/module"
)

func newVersionCmd(c *Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "print stgp version and available node prototypes",
		Long: `Version prints the version of stgp, the Go version it was built
with, and the node prototypes a catalog may name in its function sets.
With --verbose it also prints the build settings and the version of
the decimal arithmetic module.
`,
		Args: cobra.NoArgs,
		RunE: mkRunE(c, runVersion),
	}
	return cmd
}

const develVersion = "(devel)"

// version may be set with
// -ldflags='-X stgp.dev/go/cmd/stgp/cmd.version=<version>'.
var version = develVersion

const apdModule = "github.com/cockroachdb/apd/v3"

func runVersion(cmd *Command, args []string) error {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return errors.New("no build information in binary")
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "stgp version %s\n", buildVersion(bi))
	fmt.Fprintf(w, "go version %s\n", runtime.Version())
	fmt.Fprintln(w)
	writeWrapped(w, "prototypes: ", newRegistry().Names(), 80)

	if !flagVerbose.Bool(cmd) {
		return nil
	}
	fmt.Fprintln(w)
	for _, d := range bi.Deps {
		if d.Path == apdModule {
			fmt.Fprintf(w, "%16s %s\n", "decimal", d.Version)
		}
	}
	for _, s := range bi.Settings {
		if s.Value != "" {
			fmt.Fprintf(w, "%16s %s\n", s.Key, s.Value)
		}
	}
	return nil
}

// buildVersion reports the version set at link time, the module version,
// or a pseudo-version derived from the VCS stamp, in that order.
func buildVersion(bi *debug.BuildInfo) string {
	if version != develVersion {
		return version
	}
	if v := bi.Main.Version; v != "" && v != develVersion {
		return v
	}
	var (
		rev string
		at  time.Time
	)
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value[:min(len(s.Value), 12)]
		case "vcs.time":
			at, _ = time.Parse(time.RFC3339Nano, s.Value)
		}
	}
	if rev == "" {
		return develVersion
	}
	return module.PseudoVersion("", "", at, rev)
}

// writeWrapped writes prefix followed by words separated by spaces,
// continuing on indented lines so that no line exceeds width.
func writeWrapped(w io.Writer, prefix string, words []string, width int) {
	var b strings.Builder
	b.WriteString(prefix)
	n := len(prefix)
	indent := strings.Repeat(" ", len(prefix))
	for i, word := range words {
		if i > 0 {
			if n+1+len(word) > width {
				b.WriteString("\n" + indent)
				n = len(indent)
			} else {
				b.WriteByte(' ')
				n++
			}
		}
		b.WriteString(word)
		n += len(word)
	}
	b.WriteByte('\n')
	io.WriteString(w, b.String())
}
