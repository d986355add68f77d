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

// Package envflag parses flag sets from environment variables.
package envflag

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
)

// Init uses Parse with the contents of the given environment variable as
// input.
func Init[T any](flags *T, envVar string) error {
	if err := Parse(flags, os.Getenv(envVar)); err != nil {
		return fmt.Errorf("cannot parse %s: %w", envVar, err)
	}
	return nil
}

// Parse initializes the fields of flags from their struct tags and from env.
//
// A field tag of the form `envflag:"default:VALUE"` sets the default value
// of the field. The env string is a comma-separated list of name=value
// pairs, where name is the lower-cased field name. For boolean fields the
// value may be omitted, in which case it is true. Supported field kinds are
// bool, int and string.
func Parse[T any](flags *T, env string) error {
	fv := reflect.ValueOf(flags).Elem()
	ft := fv.Type()
	index := map[string]int{}
	for i := 0; i < ft.NumField(); i++ {
		field := ft.Field(i)
		name := strings.ToLower(field.Name)
		index[name] = i
		tag, ok := field.Tag.Lookup("envflag")
		if !ok {
			continue
		}
		def, ok := strings.CutPrefix(tag, "default:")
		if !ok {
			return fmt.Errorf("unknown envflag tag %q", tag)
		}
		if err := set(fv.Field(i), name, def); err != nil {
			return err
		}
	}

	var errs []error
	for _, elem := range strings.Split(env, ",") {
		if elem == "" {
			continue
		}
		name, value, hasValue := strings.Cut(elem, "=")
		name = strings.ToLower(name)
		i, ok := index[name]
		if !ok {
			errs = append(errs, fmt.Errorf("unknown flag %q", elem))
			continue
		}
		field := fv.Field(i)
		if !hasValue {
			if field.Kind() != reflect.Bool {
				errs = append(errs, fmt.Errorf("value needed for %s flag %q", field.Kind(), name))
				continue
			}
			value = "true"
		}
		if err := set(field, name, value); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func set(field reflect.Value, name, str string) error {
	switch field.Kind() {
	case reflect.Bool:
		b, err := strconv.ParseBool(str)
		if err != nil {
			return invalid(name, field.Kind(), err)
		}
		field.SetBool(b)
	case reflect.Int:
		i, err := strconv.Atoi(str)
		if err != nil {
			return invalid(name, field.Kind(), err)
		}
		field.SetInt(int64(i))
	case reflect.String:
		field.SetString(str)
	default:
		return fmt.Errorf("%w: unsupported kind %s for %s", ErrInvalid, field.Kind(), name)
	}
	return nil
}

func invalid(name string, kind reflect.Kind, err error) error {
	return fmt.Errorf("%w: invalid %s value for %s: %v", ErrInvalid, kind, name, err)
}

// ErrInvalid indicates a malformed input string.
var ErrInvalid = errors.New("invalid value")
