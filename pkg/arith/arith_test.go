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

package arith_test

import (
	"log/slog"
	"math/rand/v2"
	"os"
	"testing"

	"github.com/cockroachdb/apd/v3"
	"github.com/go-quicktest/qt"

	"stgp.dev/go/pkg/arith"
	"stgp.dev/go/stgp/gp"
	"stgp.dev/go/stgp/load"
)

func newCatalog(t *testing.T) *gp.Catalog {
	t.Helper()
	data, err := os.ReadFile("testdata/catalog.yaml")
	qt.Assert(t, qt.IsNil(err))
	f, err := load.Parse("catalog.yaml", data)
	qt.Assert(t, qt.IsNil(err))
	r := gp.NewRegistry()
	arith.Register(r)
	c, err := f.Catalog(r, gp.WithLogger(slog.New(slog.DiscardHandler)))
	qt.Assert(t, qt.IsNil(err))
	return c
}

func eval(t *testing.T, ind *gp.Individual, vars map[string]string) *arith.Value {
	t.Helper()
	p, err := arith.NewProblem(vars)
	qt.Assert(t, qt.IsNil(err))
	v := &arith.Value{}
	ind.EvalTree(0, 0, v, gp.NewStack(&arith.Value{}), p)
	return v
}

func TestEval(t *testing.T) {
	c := newCatalog(t)
	vars := map[string]string{"x": "3", "y": "4.5"}
	testCases := []struct {
		main string
		fn   string
		want string
	}{
		{main: "(+ x (* 2 y))", want: "12"},
		{main: "(- x y)", want: "-1.5"},
		{main: "(/ y 2)", want: "2.25"},
		{main: "(/ x (- y y))", want: "1"},
		{main: "(neg x)", want: "-3"},
		{main: "(if (< x y) x y)", want: "3"},
		{main: "(if (< y x) x y)", want: "4.5"},
		{main: "(if (and (< x y) (not true)) x y)", want: "4.5"},
		{main: "(if (or false (< x y)) x y)", want: "3"},
		{main: "(* const[0.5] 2)", want: "1.0"},
		{main: "(ADF1 x y)", fn: "(* ARG0 ARG1)", want: "13.5"},
		{main: "(neg (ADF1 y (ADF1 x 2)))", fn: "(+ ARG0 ARG1)", want: "-9.5"},
	}
	for _, tc := range testCases {
		t.Run(tc.main, func(t *testing.T) {
			fn := tc.fn
			if fn == "" {
				fn = "(+ ARG0 ARG1)"
			}
			ind, err := gp.ParseIndividual(c, "Tree 0:\n"+tc.main+"\nTree 1:\n"+fn+"\n")
			qt.Assert(t, qt.IsNil(err))
			v := eval(t, ind, vars)
			qt.Check(t, qt.IsFalse(v.IsBool))
			want, _, err := apd.NewFromString(tc.want)
			qt.Assert(t, qt.IsNil(err))
			qt.Check(t, qt.Equals(v.Num.Cmp(want), 0), qt.Commentf("got %s, want %s", v, tc.want))
		})
	}
}

func TestUnboundVariable(t *testing.T) {
	c := newCatalog(t)
	ind, err := gp.ParseIndividual(c, "Tree 0:\n(+ x 2)\nTree 1:\nARG0\n")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(eval(t, ind, map[string]string{"y": "1"}).String(), "2"))
}

func TestVars(t *testing.T) {
	c := newCatalog(t)
	ind, err := gp.ParseIndividual(c, "Tree 0:\n(+ y (ADF1 x y))\nTree 1:\nARG0\n")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.DeepEquals(arith.Vars(ind), []string{"x", "y"}))
}

func TestNewProblem(t *testing.T) {
	p, err := arith.NewProblem(map[string]string{"x": "1.5"})
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(p.Vars["x"].String(), "1.5"))

	_, err = arith.NewProblem(map[string]string{"x": "abc"})
	qt.Assert(t, qt.ErrorMatches(err, `variable x: invalid number "abc"`))
}

func TestFactories(t *testing.T) {
	r := gp.NewRegistry()
	arith.Register(r)
	testCases := []struct {
		proto  string
		params gp.Params
		err    string
	}{
		{"var", nil, `prototype "var": missing parameter "name"`},
		{"num", gp.Params{"value": "x"}, `prototype "num": invalid number "x"`},
		{"bool", gp.Params{"value": "maybe"}, `prototype "bool": invalid boolean "maybe"`},
	}
	for _, tc := range testCases {
		_, err := r.New(tc.proto, tc.params)
		qt.Check(t, qt.ErrorMatches(err, tc.err))
	}
}

func TestConst(t *testing.T) {
	c := newCatalog(t)
	fs := c.LookupFunctionSet("main")
	proto := fs.Lookup("const")[0]
	rng := rand.New(rand.NewPCG(1, 2))

	lo, hi := apd.New(-1, 0), apd.New(1, 0)
	for range 100 {
		n := gp.Instantiate(rng, proto, nil, 0).(*arith.Const)
		qt.Assert(t, qt.IsTrue(n.Value.Cmp(lo) >= 0 && n.Value.Cmp(hi) < 0), qt.Commentf("%s", &n.Value))

		m := n.Copy().(*arith.Const)
		qt.Assert(t, qt.IsTrue(gp.NodeEquals(n, m)))
		m.MutateNode(rng)
		var d apd.Decimal
		_, err := apd.BaseContext.WithPrecision(16).Sub(&d, &m.Value, &n.Value)
		qt.Assert(t, qt.IsNil(err))
		d.Abs(&d)
		qt.Assert(t, qt.IsTrue(d.Cmp(apd.New(1, -1)) <= 0), qt.Commentf("mutated by %s", &d))
	}
}

func TestConstFormats(t *testing.T) {
	c := newCatalog(t)
	const src = "Tree 0:\n(+ const[-0.25] (* x const[0.07]))\nTree 1:\n(* ARG0 ARG1)\n"
	ind, err := gp.ParseIndividual(c, src)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(gp.Lisp(ind.Trees[0].Root()), "(+ const[-0.25] (* x const[0.07]))"))

	b, err := gp.AppendIndividual(nil, ind)
	qt.Assert(t, qt.IsNil(err))
	got, n, err := gp.ConsumeIndividual(b, c)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(n, len(b)))
	qt.Assert(t, qt.IsTrue(got.Equal(ind)))
	qt.Assert(t, qt.Equals(got.Hash(), ind.Hash()))

	other, err := gp.ParseIndividual(c, "Tree 0:\n(+ const[-0.25] (* x const[0.08]))\nTree 1:\n(* ARG0 ARG1)\n")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsFalse(other.Equal(ind)))

	_, err = gp.ParseIndividual(c, "Tree 0:\nconst[one]\nTree 1:\nARG0\n")
	qt.Assert(t, qt.ErrorMatches(err, `.*const: invalid number "one"`))
}

func TestBuild(t *testing.T) {
	c := newCatalog(t)
	for seed := range uint64(50) {
		rng := rand.New(rand.NewPCG(seed, 0))
		ind := gp.NewIndividual(c)
		qt.Assert(t, qt.IsNil(ind.Build(rng)))
		for _, tr := range ind.Trees {
			qt.Assert(t, qt.IsNil(gp.Verify(tr)), qt.Commentf("seed %d", seed))
		}
		v := eval(t, ind, map[string]string{"x": "1", "y": "-2"})
		qt.Assert(t, qt.IsFalse(v.IsBool), qt.Commentf("seed %d: %s", seed, gp.Lisp(ind.Trees[0].Root())))
	}
}
