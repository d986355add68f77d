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

// Package stgptest is a helper package for test packages in the STGP
// project. As such it should only be imported in _test.go files.
package stgptest

import (
	"fmt"
	"os"
)

// UpdateGoldenFiles determines whether testscript scripts should update txtar
// archives in the event of cmp failures. It corresponds to
// testscript.Params.UpdateScripts.
var UpdateGoldenFiles = os.Getenv("STGP_UPDATE") != ""

// Long is set when STGP_LONG is set and enables slower tests.
var Long = os.Getenv("STGP_LONG") != ""

// Condition adds support for STGP-specific testscript conditions within
// testscript scripts: [long] holds when Long is set.
func Condition(cond string) (bool, error) {
	switch cond {
	case "long":
		return Long, nil
	}
	return false, fmt.Errorf("unknown condition %v", cond)
}
