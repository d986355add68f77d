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

// Package gpdebug holds the debugging switches of the evaluation engine,
// read from the STGP_DEBUG environment variable.
package gpdebug

import (
	"sync"

	"stgp.dev/go/internal/envflag"
)

// Flags holds the set of STGP_DEBUG flags. It is initialized by Init.
var Flags Config

// Config lists the STGP_DEBUG flags.
type Config struct {
	// Verify runs the structural verifier on every tree produced by a
	// clone, parse or build operation and panics on a violation.
	Verify bool

	// LogEval sets the log level for evaluation tracing.
	//
	//	0: no logging
	//	1: ADF and ADM calls
	//	2: also argument resolution
	LogEval int

	// Strict turns catalog setup warnings into errors.
	Strict bool
}

// Init initializes Flags. It is safe to call more than once; only the first
// call reads the environment.
func Init() error {
	return initOnce()
}

var initOnce = sync.OnceValue(func() error {
	return envflag.Init(&Flags, "STGP_DEBUG")
})
