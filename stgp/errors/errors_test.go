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

package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/go-quicktest/qt"
)

func TestAppend(t *testing.T) {
	var err Error
	qt.Assert(t, qt.IsNil(err))

	a := Newf(Path{"types", "num"}, "duplicate type %q", "num")
	err = Append(err, a)
	qt.Assert(t, qt.Equals(err, a))

	b := Newf(Path{"nodes", "nc0"}, "undeclared type %q", "str")
	err = Append(err, b)
	qt.Assert(t, qt.HasLen(Errors(err), 2))
	qt.Assert(t, qt.Equals(err.Error(), `duplicate type "num" (and 1 more errors)`))
	qt.Assert(t, qt.DeepEquals(err.Path(), Path{"types", "num"}))

	// Appending the same error twice is a no-op.
	err = Append(err, b)
	qt.Assert(t, qt.HasLen(Errors(err), 2))

	// Appending a list flattens it.
	c := Append(Newf(nil, "x"), Newf(nil, "y"))
	err = Append(err, c)
	qt.Assert(t, qt.HasLen(Errors(err), 4))
}

func TestPromote(t *testing.T) {
	qt.Assert(t, qt.IsNil(Promote(nil, "ignored")))

	base := fmt.Errorf("boom")
	e := Promote(base, "")
	qt.Assert(t, qt.Equals(e.Error(), "boom"))
	qt.Assert(t, qt.IsTrue(stderrors.Is(e, base)))

	e = Promote(base, "loading catalog")
	qt.Assert(t, qt.Equals(e.Error(), "loading catalog: boom"))

	already := Newf(Path{"a"}, "x")
	qt.Assert(t, qt.Equals(Promote(already, "y"), already))
}

func TestPrint(t *testing.T) {
	var err Error
	err = Append(err, Newf(Path{"trees", "tc0"}, "no terminals for type %s", "bool"))
	err = Append(err, Newf(Path{"nodes", "nc1", "returns"}, "undeclared type %q", "str"))
	err = Append(err, Newf(Path{"nodes", "nc1", "returns"}, "undeclared type %q", "str"))
	err = Append(err, Newf(nil, "setup order violated"))

	got := Details(err, nil)
	want := `setup order violated
nodes.nc1.returns: undeclared type "str"
trees.tc0: no terminals for type bool
`
	qt.Assert(t, qt.Equals(got, want))
}

func TestErrorsOfPlainError(t *testing.T) {
	errs := Errors(New("plain"))
	qt.Assert(t, qt.HasLen(errs, 1))
	qt.Assert(t, qt.IsNil(errs[0].Path()))
	qt.Assert(t, qt.IsNil(Errors(nil)))
}
