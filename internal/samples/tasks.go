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

// Package samples contains sample task values and task sources. None of
// the types declare that they are tasks or task sources. Each of them exposes
// the members in a different way, and the registry decides from their shape
// alone.
package samples

import "fmt"

// ObjectTask is a task that exposes its members as plain struct fields.
type ObjectTask struct {
	ID      any
	Payload any
}

// RecordTask is a task that exposes its members through struct tags.
type RecordTask struct {
	Key  any `task:"id"`
	Data any `task:"payload"`
}

// TupleTask is a task that is a pair of an ID and a payload. It exposes its
// members through accessor methods.
type TupleTask [2]any

// String returns the string representation of r.
func (r RecordTask) String() string {
	return fmt.Sprintf("RecordTask(id=%v, payload=%v)", r.Key, r.Data)
}

// ID returns the ID of t.
func (t TupleTask) ID() any {
	return t[0]
}

// Payload returns the payload of t.
func (t TupleTask) Payload() any {
	return t[1]
}

// String returns the string representation of t.
func (t TupleTask) String() string {
	return fmt.Sprintf("TupleTask(id=%v, payload=%v)", t[0], t[1])
}
