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

package gp

import (
	"fmt"
	"log/slog"

	"stgp.dev/go/internal/gpdebug"
)

// A ProtocolError reports a broken evaluation invariant: a stack frame that
// is missing or was not removed, an argument index out of range, or a
// structurally corrupt tree. It is raised with panic and indicates a
// defective tree or node implementation.
type ProtocolError struct {
	// Op is the operation that detected the violation, such as "adf".
	Op string

	// Node is the printable name of the offending node, if any.
	Node string

	Msg string
}

func (e *ProtocolError) Error() string {
	if e.Node == "" {
		return fmt.Sprintf("gp: %s: %s", e.Op, e.Msg)
	}
	return fmt.Sprintf("gp: %s %s: %s", e.Op, e.Node, e.Msg)
}

func fatalf(op string, n Node, format string, args ...interface{}) {
	e := &ProtocolError{Op: op, Msg: fmt.Sprintf(format, args...)}
	if n != nil {
		e.Node = n.Name()
	}
	panic(e)
}

// logf traces evaluation at the given level of the logeval debug flag.
func logf(level int, format string, args ...interface{}) {
	if gpdebug.Flags.LogEval < level {
		return
	}
	slog.Debug(fmt.Sprintf(format, args...))
}
