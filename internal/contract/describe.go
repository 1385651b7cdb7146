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

package contract

import (
	"fmt"
	"log/slog"
	"reflect"
	"unicode/utf8"
)

// Limits for the string representations made by Describe.
const (
	maxDescribeDepth = 32  // nesting levels followed before giving up
	maxDescribeLen   = 512 // bytes kept before the text is truncated
)

//nolint:gochecknoglobals // used like constants
var (
	stringerType  = reflect.TypeFor[fmt.Stringer]()
	formatterType = reflect.TypeFor[fmt.Formatter]()
)

// A visit is a map or slice on the path that is being formatted.
type visit struct {
	typ reflect.Type
	ptr uintptr
	n   int
}

// A described defers the formatting of a value until it is logged.
type described struct {
	v any
}

// Describe returns the string representation of v for the diagnostics. Values
// that contain themselves or are nested too deeply are not formatted, long
// representations are truncated, and formatting methods that panic do not
// break the validation.
func Describe(v any) (s string) {
	defer func() {
		if r := recover(); r != nil {
			s = fmt.Sprintf("<%T: formatting panicked: %v>", v, r)
		}
	}()

	if !formattable(reflect.ValueOf(v), 0, make(map[visit]bool)) {
		return fmt.Sprintf("<%T: cyclic or nested too deeply>", v)
	}

	s = fmt.Sprintf("%v", v)
	if len(s) <= maxDescribeLen {
		return s
	}

	n := maxDescribeLen
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}

	return s[:n] + "..."
}

// Described returns a [slog.LogValuer] that formats v with [Describe] only
// when the record is handled.
func Described(v any) slog.LogValuer {
	return described{v: v}
}

// LogValue implements [slog.LogValuer] for described.
func (d described) LogValue() slog.Value {
	return slog.StringValue(Describe(d.v))
}

// formattable reports whether fmt can print v with the %v verb without
// following a cycle or going deeper than maxDescribeDepth. It follows the same
// values as fmt: pointers are only followed at the top level, and values with
// formatting methods are printed by calling the method.
func formattable(v reflect.Value, depth int, path map[visit]bool) bool {
	if !v.IsValid() {
		return true
	}

	if depth > maxDescribeDepth {
		return false
	}

	if v.CanInterface() && hasFormatMethod(v.Type()) {
		return true
	}

	switch v.Kind() { //nolint:exhaustive // other kinds are printed as is
	case reflect.Interface:
		if v.IsNil() {
			return true
		}

		return formattable(v.Elem(), depth+1, path)
	case reflect.Pointer:
		if depth > 0 || v.IsNil() {
			return true
		}

		switch v.Elem().Kind() { //nolint:exhaustive // fmt prints other pointers as addresses
		case reflect.Array, reflect.Slice, reflect.Struct, reflect.Map:
			return formattable(v.Elem(), depth+1, path)
		default:
			return true
		}
	case reflect.Map:
		if v.IsNil() {
			return true
		}

		key := visit{typ: v.Type(), ptr: v.Pointer(), n: v.Len()}
		if path[key] {
			return false
		}

		path[key] = true
		defer delete(path, key)

		for it := v.MapRange(); it.Next(); {
			if !formattable(it.Key(), depth+1, path) || !formattable(it.Value(), depth+1, path) {
				return false
			}
		}
	case reflect.Slice:
		if v.IsNil() || isLeaf(v.Type().Elem()) {
			return true
		}

		key := visit{typ: v.Type(), ptr: v.Pointer(), n: v.Len()}
		if path[key] {
			return false
		}

		path[key] = true
		defer delete(path, key)

		return elemsFormattable(v, depth, path)
	case reflect.Array:
		if isLeaf(v.Type().Elem()) {
			return true
		}

		return elemsFormattable(v, depth, path)
	case reflect.Struct:
		for i := range v.NumField() {
			if !formattable(v.Field(i), depth+1, path) {
				return false
			}
		}
	}

	return true
}

func elemsFormattable(v reflect.Value, depth int, path map[visit]bool) bool {
	for i := range v.Len() {
		if !formattable(v.Index(i), depth+1, path) {
			return false
		}
	}

	return true
}

// hasFormatMethod reports whether fmt prints values of type t by calling one of
// their methods.
func hasFormatMethod(t reflect.Type) bool {
	return t.Implements(formatterType) || t.Implements(errorType) || t.Implements(stringerType)
}

// isLeaf reports whether values of type t cannot contain other values.
func isLeaf(t reflect.Type) bool {
	switch t.Kind() { //nolint:exhaustive // everything else may contain values
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		return false
	default:
		return true
	}
}
