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
	"strings"
	"testing"

	"github.com/go-quicktest/qt"
)

func TestSplitIndividuals(t *testing.T) {
	long := strings.Repeat("(+ x ", 20000) + "y" + strings.Repeat(")", 20000)
	src := "# grown\nTree 0:\n" + long + "\nTree 1:\nARG0\n\nTree 0:\nx\r\nTree 1:\nARG1\n"
	got := splitIndividuals([]byte(src))
	qt.Assert(t, qt.DeepEquals(got, []string{
		"Tree 0:\n" + long + "\nTree 1:\nARG0\n\n",
		"Tree 0:\nx\nTree 1:\nARG1\n",
	}))
}
