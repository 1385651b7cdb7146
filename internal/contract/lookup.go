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
	"reflect"
)

// tagKey is the struct tag key that exposes a field as a contract member under
// the name given in the tag, for example `task:"id"`.
const tagKey = "task"

// A lookup is the result of looking up a single member or key on a value.
type lookup struct {
	value reflect.Value // value of the member, invalid if the value is nil
	found bool          // whether the member or key exists
}

// memberNames maps the contract member names to the Go identifiers that expose
// them as methods or struct fields.
//
//nolint:gochecknoglobals // used like constant
var memberNames = map[string][]string{
	IDMember:      {"ID", "Id"},
	PayloadMember: {"Payload"},
}

// lookupMember looks up the member with the given contract name on v. A member
// is exposed by an exported method that takes no arguments and returns one
// value, by an exported struct field, or by an exported struct field tagged
// with the contract name. The lookups are tried in that order and the first
// hit is returned.
func lookupMember(v reflect.Value, name string) lookup {
	for _, goName := range memberNames[name] {
		if p := lookupMethod(v, goName); p.found {
			return p
		}
	}

	s := indirect(v)
	if !s.IsValid() || s.Kind() != reflect.Struct {
		return lookup{} //nolint:exhaustruct // not found
	}

	for _, goName := range memberNames[name] {
		if p := lookupField(s, goName); p.found {
			return p
		}
	}

	return lookupTag(s, name)
}

// lookupMethod calls the accessor method with the given name on v or on any of
// the values v points to. Accessors that panic are treated as missing.
func lookupMethod(v reflect.Value, goName string) lookup {
	for cur := v; cur.IsValid(); cur = elem(cur) {
		m := cur.MethodByName(goName)
		if !m.IsValid() {
			continue
		}

		t := m.Type()
		if t.NumIn() != 0 || t.NumOut() != 1 {
			continue
		}

		out, ok := callAccessor(m)
		if !ok {
			return lookup{} //nolint:exhaustruct // not found
		}

		return lookup{value: unwrap(out), found: true}
	}

	return lookup{} //nolint:exhaustruct // not found
}

// lookupField returns the exported field of struct s with the given name. It
// also finds promoted fields of embedded structs.
func lookupField(s reflect.Value, goName string) lookup {
	sf, ok := s.Type().FieldByName(goName)
	if !ok || !sf.IsExported() {
		return lookup{} //nolint:exhaustruct // not found
	}

	f, err := s.FieldByIndexErr(sf.Index)
	if err != nil {
		// The field is promoted through a nil embedded pointer.
		return lookup{} //nolint:exhaustruct // not found
	}

	return lookup{value: unwrap(f), found: true}
}

// lookupTag returns the first exported field of struct s that is tagged with
// the given contract member name.
func lookupTag(s reflect.Value, name string) lookup {
	for _, sf := range reflect.VisibleFields(s.Type()) {
		if !sf.IsExported() || sf.Anonymous {
			continue
		}

		if sf.Tag.Get(tagKey) != name {
			continue
		}

		f, err := s.FieldByIndexErr(sf.Index)
		if err != nil {
			continue
		}

		return lookup{value: unwrap(f), found: true}
	}

	return lookup{} //nolint:exhaustruct // not found
}

// lookupKey looks up the given key from the map m. The key type of m must be
// able to hold a string, either as a string-kinded type or as an interface.
func lookupKey(m reflect.Value, key string) lookup {
	kt := m.Type().Key()
	k := reflect.ValueOf(key)

	switch {
	case kt.Kind() == reflect.String:
		k = k.Convert(kt)
	case kt.Kind() == reflect.Interface && k.Type().AssignableTo(kt):
	default:
		return lookup{} //nolint:exhaustruct // not found
	}

	v := m.MapIndex(k)
	if !v.IsValid() {
		return lookup{} //nolint:exhaustruct // not found
	}

	return lookup{value: unwrap(v), found: true}
}

// lookupRetrieval looks up the task retrieval member of v. It returns the
// function value, whether a member with the name exists, and whether it can be
// called without arguments.
func lookupRetrieval(v reflect.Value) (reflect.Value, bool, bool) {
	found := false

	for cur := v; cur.IsValid(); cur = elem(cur) {
		m := cur.MethodByName(RetrievalMember)
		if !m.IsValid() {
			continue
		}

		found = true

		if callableWithoutArgs(m.Type()) {
			return m, true, true
		}
	}

	s := indirect(v)
	if !s.IsValid() || s.Kind() != reflect.Struct {
		return reflect.Value{}, found, false
	}

	sf, ok := s.Type().FieldByName(RetrievalMember)
	if !ok || !sf.IsExported() {
		return reflect.Value{}, found, false
	}

	f, err := s.FieldByIndexErr(sf.Index)
	if err != nil {
		return reflect.Value{}, found, false
	}

	f = unwrap(f)
	if !f.IsValid() || f.Kind() != reflect.Func || f.IsNil() {
		return reflect.Value{}, true, false
	}

	return f, true, callableWithoutArgs(f.Type())
}

func callableWithoutArgs(t reflect.Type) bool {
	return t.NumIn() == 0 || (t.NumIn() == 1 && t.IsVariadic())
}

// callAccessor calls the zero-argument method m and recovers from panics.
func callAccessor(m reflect.Value) (out reflect.Value, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			out, ok = reflect.Value{}, false
		}
	}()

	return m.Call(nil)[0], true
}

// elem returns the value v points to, or the invalid value if v is not
// a non-nil pointer or interface.
func elem(v reflect.Value) reflect.Value {
	if (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) && !v.IsNil() {
		return v.Elem()
	}

	return reflect.Value{}
}

// indirect follows pointers and interfaces until it reaches a concrete value.
// It returns the invalid value on nil.
func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}

		v = v.Elem()
	}

	return v
}

// unwrap removes interface wrappers from v. Pointers are kept so that the
// dynamic type of a member is reported as is.
func unwrap(v reflect.Value) reflect.Value {
	for v.IsValid() && v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}
		}

		v = v.Elem()
	}

	return v
}
