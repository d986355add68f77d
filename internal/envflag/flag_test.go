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

package envflag

import (
	"testing"

	"github.com/go-quicktest/qt"
)

type testFlags struct {
	Verify  bool
	LogEval int
	Strict  bool `envflag:"default:true"`
	Label   string
}

func TestParse(t *testing.T) {
	testCases := []struct {
		env     string
		want    testFlags
		wantErr string
	}{{
		env:  "",
		want: testFlags{Strict: true},
	}, {
		env:  "verify,logeval=2",
		want: testFlags{Verify: true, LogEval: 2, Strict: true},
	}, {
		env:  ",strict=0,label=x,",
		want: testFlags{Label: "x"},
	}, {
		env:  "Verify=true",
		want: testFlags{Verify: true, Strict: true},
	}, {
		env:     "logeval",
		want:    testFlags{Strict: true},
		wantErr: `value needed for int flag "logeval"`,
	}, {
		env:     "logeval=high,other",
		want:    testFlags{Strict: true},
		wantErr: `invalid value: invalid int value for logeval: (.|\n)*unknown flag "other"`,
	}}
	for _, tc := range testCases {
		t.Run(tc.env, func(t *testing.T) {
			var got testFlags
			err := Parse(&got, tc.env)
			if tc.wantErr != "" {
				qt.Assert(t, qt.ErrorMatches(err, tc.wantErr))
			} else {
				qt.Assert(t, qt.IsNil(err))
			}
			qt.Assert(t, qt.Equals(got, tc.want))
		})
	}
}

func TestInvalidKind(t *testing.T) {
	var flags struct {
		Ratio float64
	}
	err := Parse(&flags, "ratio=1.5")
	qt.Assert(t, qt.ErrorIs(err, ErrInvalid))
}
