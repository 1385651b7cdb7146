// Copyright 2025 The Reginald Authors
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

// Package flags contains the command-line flag set of taskgate. It wraps
// [pflag] with longer flag documentation and with groups of mutually exclusive
// flags. Parsing the flags and storing their values is still done by [pflag].
package flags

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// ErrMutuallyExclusive is returned when two flags marked as mutually exclusive
// are set at the same time.
var ErrMutuallyExclusive = errors.New("two mutually exclusive flags set at the same time")

// A FlagSet is a wrapper of [pflag.FlagSet] that stores the documentation of
// its flags and the groups of mutually exclusive flags.
type FlagSet struct {
	*pflag.FlagSet

	docs map[string]string

	// exclusive contains the groups of flag names that must not be set at
	// the same time.
	exclusive [][]string
}

// NewFlagSet returns a new, empty flag set with the specified name and error
// handling property.
func NewFlagSet(name string, errorHandling pflag.ErrorHandling) *FlagSet {
	return &FlagSet{
		FlagSet:   pflag.NewFlagSet(name, errorHandling),
		docs:      map[string]string{},
		exclusive: [][]string{},
	}
}

// CheckMutuallyExclusive returns an error if two flags from the same group of
// mutually exclusive flags were set. It panics if the flags have not been
// parsed.
func (f *FlagSet) CheckMutuallyExclusive() error {
	if !f.Parsed() {
		panic("calling CheckMutuallyExclusive before parsing the flags")
	}

	for _, group := range f.exclusive {
		var set string

		for _, name := range group {
			if !f.Changed(name) {
				continue
			}

			if set != "" {
				return fmt.Errorf("%w: --%s and --%s", ErrMutuallyExclusive, set, name)
			}

			set = name
		}
	}

	return nil
}

// MarkMutuallyExclusive marks two or more flags as mutually exclusive. It
// panics if fewer than two names are given or if a flag does not exist.
func (f *FlagSet) MarkMutuallyExclusive(names ...string) {
	if len(names) < 2 { //nolint:mnd // obvious
		panic("only one flag cannot be marked as mutually exclusive")
	}

	for _, name := range names {
		if f.Lookup(name) == nil {
			panic(fmt.Sprintf("failed to find flag %q while marking it as mutually exclusive", name))
		}
	}

	f.exclusive = append(f.exclusive, names)
}

// Doc returns the long documentation of the named flag or its usage string if
// the flag has no documentation.
func (f *FlagSet) Doc(name string) string {
	if doc := f.docs[name]; doc != "" {
		return doc
	}

	if flag := f.Lookup(name); flag != nil {
		return flag.Usage
	}

	return ""
}

// Help returns the help text for the flags in the set, one flag per line.
func (f *FlagSet) Help() string {
	return strings.TrimRight(f.FlagUsages(), "\n")
}

// Bool defines a bool flag with the specified name, default value, usage
// string, and documentation.
func (f *FlagSet) Bool(name string, value bool, usage, doc string) *bool {
	return f.BoolP(name, "", value, usage, doc)
}

// BoolP is like Bool, but accepts a shorthand letter that can be used after
// a single dash.
func (f *FlagSet) BoolP(name, shorthand string, value bool, usage, doc string) *bool {
	p := f.FlagSet.BoolP(name, shorthand, value, usage)
	f.document(name, doc)

	return p
}

// Int defines an int flag with the specified name, default value, usage
// string, and documentation.
func (f *FlagSet) Int(name string, value int, usage, doc string) *int {
	return f.IntP(name, "", value, usage, doc)
}

// IntP is like Int, but accepts a shorthand letter that can be used after
// a single dash.
func (f *FlagSet) IntP(name, shorthand string, value int, usage, doc string) *int {
	p := f.FlagSet.IntP(name, shorthand, value, usage)
	f.document(name, doc)

	return p
}

// String defines a string flag with the specified name, default value, usage
// string, and documentation.
func (f *FlagSet) String(name, value, usage, doc string) *string {
	return f.StringP(name, "", value, usage, doc)
}

// StringP is like String, but accepts a shorthand letter that can be used after
// a single dash.
func (f *FlagSet) StringP(name, shorthand, value, usage, doc string) *string {
	p := f.FlagSet.StringP(name, shorthand, value, usage)
	f.document(name, doc)

	return p
}

// Var defines a flag with the specified name and usage string. The type and
// value of the flag are represented by value.
func (f *FlagSet) Var(value pflag.Value, name, usage, doc string) {
	f.VarP(value, name, "", usage, doc)
}

// VarP is like Var, but accepts a shorthand letter that can be used after
// a single dash.
func (f *FlagSet) VarP(value pflag.Value, name, shorthand, usage, doc string) {
	f.FlagSet.VarP(value, name, shorthand, usage)
	f.document(name, doc)
}

// document stores the documentation of the named flag. It panics if the flag
// was not added to the wrapped flag set.
func (f *FlagSet) document(name, doc string) {
	if f.Lookup(name) == nil {
		panic(fmt.Sprintf("received nil flag %q from wrapped flag set", name))
	}

	f.docs[name] = doc
}
