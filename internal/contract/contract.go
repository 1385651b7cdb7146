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

// Package contract implements the structural contracts for tasks and task
// sources. A value satisfies a contract by its shape alone: it does not need
// to implement a named interface or embed a known type.
//
// A task is a value that exposes an "id" that is an integer or a string and
// a "payload" of any type. The members can be exposed as accessor methods
// (ID and Payload), as exported struct fields, as struct fields tagged with
// `task:"id"` and `task:"payload"`, or as the keys of a map. A task source is
// a value that exposes a GetTasks method or function field that can be called
// without arguments.
//
// The functions in this package are pure and safe for concurrent use.
package contract

import "reflect"

// Names of the contract members.
const (
	IDMember        = "id"       // name of the task ID member and key
	PayloadMember   = "payload"  // name of the task payload member and key
	RetrievalMember = "GetTasks" // name of the task source retrieval member
)

// IsTask reports whether v satisfies the task contract. The object shape is
// judged first: if v exposes both the ID and the payload members, the result
// depends only on the type of the ID, even if v is also a map that would pass
// as a task. Otherwise, v is judged as a map. The returned [Diagnostic]
// describes what was found on v.
func IsTask(v any) (bool, Diagnostic) {
	rv := reflect.ValueOf(v)
	diag := Diagnostic{ //nolint:exhaustruct // filled below
		Contract: TaskContract,
		value:    v,
	}

	id := lookupMember(rv, IDMember)
	payload := lookupMember(rv, PayloadMember)

	if id.found && payload.found {
		diag.Shape = ObjectShape
		diag.fill(id, payload)

		return diag.OK, diag
	}

	if m := indirect(rv); m.IsValid() && m.Kind() == reflect.Map {
		id = lookupKey(m, IDMember)
		payload = lookupKey(m, PayloadMember)

		diag.Shape = MappingShape
		diag.fill(id, payload)

		return diag.OK, diag
	}

	diag.Shape = NoShape
	diag.fill(id, payload)

	return false, diag
}

// IsTaskSource reports whether v satisfies the task source contract. Only the
// presence of the retrieval member is checked; it is not called. The returned
// [Diagnostic] tells whether a member with the right name was found.
func IsTaskSource(v any) (bool, Diagnostic) {
	_, found, callable := lookupRetrieval(reflect.ValueOf(v))

	diag := Diagnostic{ //nolint:exhaustruct // task fields are not used
		Contract:     SourceContract,
		value:        v,
		HasRetrieval: found,
		Callable:     callable,
		OK:           found && callable,
	}

	if diag.OK {
		diag.Shape = ObjectShape
	}

	return diag.OK, diag
}

// ValidID reports whether the dynamic kind of v is a valid task ID kind,
// that is any signed or unsigned integer kind or string.
func ValidID(v reflect.Value) bool {
	if !v.IsValid() {
		return false
	}

	switch v.Kind() { //nolint:exhaustive // everything else is invalid
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.String:
		return true
	default:
		return false
	}
}
