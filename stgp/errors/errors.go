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

// Package errors defines shared types for handling catalog setup errors.
//
// Setup errors are collected rather than returned one at a time, so that a
// single pass over a catalog description reports every problem. Each error
// carries the path of the offending catalog entry, such as
// "nodes.nc2.children.1".
package errors // import "stgp.dev/go/stgp/errors"

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
)

// New is a convenience wrapper for errors.New in the core library.
// It does not return a path-carrying Error.
func New(msg string) error {
	return errors.New(msg)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// A Path identifies the catalog entry an error refers to.
type Path []string

// String joins the path elements with dots.
func (p Path) String() string {
	return strings.Join(p, ".")
}

// Join returns a new path consisting of p followed by elems. It never
// modifies the backing array of p.
func (p Path) Join(elems ...string) Path {
	return append(slices.Clip(p), elems...)
}

// Error is the common error message.
type Error interface {
	// Path returns the location of the catalog entry that triggered the
	// error, or nil if it is not associated with any entry.
	Path() Path

	// Error reports the error message without path information.
	Error() string

	// Msg returns the unformatted error message and its arguments.
	Msg() (format string, args []interface{})
}

// Newf creates an Error with the associated path and message.
func Newf(p Path, format string, args ...interface{}) Error {
	return &posError{
		path:   p,
		format: format,
		args:   args,
	}
}

// Wrapf creates an Error with the associated path and message. The provided
// error is added for inspection context.
func Wrapf(err error, p Path, format string, args ...interface{}) Error {
	return &posError{
		path:   p,
		format: format,
		args:   args,
		err:    err,
	}
}

// Promote converts a regular Go error to an Error if it isn't already one.
func Promote(err error, msg string) Error {
	switch x := err.(type) {
	case nil:
		return nil
	case Error:
		return x
	default:
		return Wrapf(err, nil, "%s", msg)
	}
}

// In a list, an error is represented by a *posError.
type posError struct {
	path   Path
	format string
	args   []interface{}

	// The underlying error that triggered this one, if any.
	err error
}

func (e *posError) Path() Path { return e.path }

func (e *posError) Msg() (string, []interface{}) {
	if e.format == "" && e.err != nil {
		return "%s", []interface{}{e.err}
	}
	return e.format, e.args
}

func (e *posError) Error() string {
	msg := fmt.Sprintf(e.format, e.args...)
	if e.err == nil {
		return msg
	}
	if msg == "" {
		return e.err.Error()
	}
	return msg + ": " + e.err.Error()
}

func (e *posError) Unwrap() error { return e.err }

// Append combines two errors, flattening Lists as necessary.
func Append(a, b Error) Error {
	switch x := a.(type) {
	case nil:
		return b
	case list:
		return appendToList(x, b)
	}
	// Preserve order of errors.
	return appendToList(list{a}, b)
}

// Errors reports the individual errors associated with an error, which is
// the error itself if there is only one or, if the underlying type is List,
// its individual elements. If the given error is not an Error, it will be
// promoted to one.
func Errors(err error) []Error {
	if err == nil {
		return nil
	}
	var listErr list
	var errorErr Error
	switch {
	case As(err, &listErr):
		return listErr
	case As(err, &errorErr):
		return []Error{errorErr}
	default:
		return []Error{Promote(err, "")}
	}
}

func appendToList(a list, err Error) list {
	switch x := err.(type) {
	case nil:
		return a
	case list:
		if len(a) == 0 {
			return x
		}
		for _, e := range x {
			a = appendToList(a, e)
		}
		return a
	default:
		for _, e := range a {
			if e == err {
				return a
			}
		}
		return append(a, err)
	}
}

// list is a list of Errors.
// The zero value for a list is an empty list ready to use.
type list []Error

func comparePath(a, b Path) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := strings.Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return len(a) - len(b)
}

// Sanitize sorts multiple errors and removes duplicates on a best effort
// basis. If err represents a single error, it is returned as is.
func Sanitize(err Error) Error {
	if l, ok := err.(list); ok {
		a := slices.Clone(l)
		a.Sort()
		a.RemoveMultiples()
		return a
	}
	return err
}

// Sort sorts a list by path, and by message for errors at the same path.
func (p list) Sort() {
	slices.SortFunc(p, func(a, b Error) int {
		if c := comparePath(a.Path(), b.Path()); c != 0 {
			return c
		}
		return strings.Compare(a.Error(), b.Error())
	})
}

// RemoveMultiples removes adjacent errors with identical path and message.
// The list must be sorted.
func (p *list) RemoveMultiples() {
	*p = slices.CompactFunc(*p, func(a, b Error) bool {
		return comparePath(a.Path(), b.Path()) == 0 && a.Error() == b.Error()
	})
}

// A list implements the error interface.
func (p list) Error() string {
	format, args := p.Msg()
	return fmt.Sprintf(format, args...)
}

// Msg reports the unformatted error message for the first error, if any.
func (p list) Msg() (format string, args []interface{}) {
	switch len(p) {
	case 0:
		return "no errors", nil
	case 1:
		return p[0].Msg()
	}
	return "%s (and %d more errors)", []interface{}{p[0], len(p) - 1}
}

// Path reports the path of the first error, if any.
func (p list) Path() Path {
	if len(p) == 0 {
		return nil
	}
	return p[0].Path()
}

// A Config defines parameters for printing.
type Config struct {
	// Format formats the given string and arguments and writes it to w.
	// It is used for all printing.
	Format func(w io.Writer, format string, args ...interface{})
}

// Print is a utility function that prints a list of errors to w,
// one error per line, if the err parameter is a list. Otherwise
// it prints the err string.
func Print(w io.Writer, err error, cfg *Config) {
	if cfg == nil {
		cfg = &Config{}
	}
	for _, e := range list(Errors(err)).sanitized() {
		printError(w, e, cfg)
	}
}

// Details is a convenience wrapper for Print to return the error text as a
// string.
func Details(err error, cfg *Config) string {
	var b strings.Builder
	Print(&b, err, cfg)
	return b.String()
}

func (p list) sanitized() list {
	if l, ok := Sanitize(p).(list); ok {
		return l
	}
	return p
}

func printError(w io.Writer, err Error, cfg *Config) {
	fprintf := cfg.Format
	if fprintf == nil {
		fprintf = defaultFprintf
	}
	if p := err.Path(); len(p) > 0 {
		fprintf(w, "%s: ", p)
	}
	fprintf(w, "%s\n", err.Error())
}

func defaultFprintf(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, format, args...)
}
