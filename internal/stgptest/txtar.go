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

package stgptest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/tools/txtar"
)

// An Archive is a test case stored in txtar format. Some of its files are
// inputs; others hold golden output checked with CheckGolden.
type Archive struct {
	*txtar.Archive

	// Filename is the file the archive was read from.
	Filename string

	changed bool
}

// ReadArchive reads the txtar archive in filename, failing the test on
// error.
func ReadArchive(t testing.TB, filename string) *Archive {
	t.Helper()
	a, err := txtar.ParseFile(filename)
	if err != nil {
		t.Fatal(err)
	}
	return &Archive{Archive: a, Filename: filename}
}

// File returns the contents of the named file, or "" if the archive has no
// such file.
func (a *Archive) File(name string) string {
	for _, f := range a.Files {
		if f.Name == name {
			return string(f.Data)
		}
	}
	return ""
}

// CheckGolden reports an error if got differs from the named file of the
// archive. If UpdateGoldenFiles is set, the file is updated instead and the
// archive is written back when the test completes.
func (a *Archive) CheckGolden(t testing.TB, name, got string) {
	t.Helper()
	want := a.File(name)
	if got == want {
		return
	}
	if !UpdateGoldenFiles {
		t.Errorf("%s: %s: result differs (-want +got):\n%s", a.Filename, name, cmp.Diff(want, got))
		return
	}
	a.set(name, got)
	if !a.changed {
		a.changed = true
		t.Cleanup(func() {
			if err := os.WriteFile(a.Filename, txtar.Format(a.Archive), 0o666); err != nil {
				t.Error(err)
			}
		})
	}
}

func (a *Archive) set(name, data string) {
	for i, f := range a.Files {
		if f.Name == name {
			a.Files[i].Data = []byte(data)
			return
		}
	}
	a.Files = append(a.Files, txtar.File{Name: name, Data: []byte(data)})
}

// Run calls f in a subtest for every .txtar archive in dir. Subtests are
// named after the archive file without extension.
func Run(t *testing.T, dir string, f func(t *testing.T, a *Archive)) {
	t.Helper()
	files, err := filepath.Glob(filepath.Join(dir, "*.txtar"))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Fatalf("no .txtar files in %s", dir)
	}
	for _, file := range files {
		t.Run(strings.TrimSuffix(filepath.Base(file), ".txtar"), func(t *testing.T) {
			f(t, ReadArchive(t, file))
		})
	}
}
