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
)

// Possible values for [Shape].
const (
	NoShape Shape = iota
	ObjectShape
	MappingShape
)

// Possible values for [Kind].
const (
	TaskContract Kind = iota
	SourceContract
)

// nilType is reported as the ID type when the ID is missing or nil.
const nilType = "<nil>"

// Shape is the shape of a value that a contract was judged against.
type Shape int

// Kind is the contract that a [Diagnostic] was produced for.
type Kind int

// A Diagnostic describes the outcome of a contract check. The fields that are
// not relevant to the checked contract are left to their zero values.
type Diagnostic struct {
	// value is the checked value. It is formatted only when the diagnostic
	// is printed or logged.
	value any

	// IDType is the dynamic type of the ID. It is "<nil>" if the ID is
	// missing or nil.
	IDType string

	// Contract is the contract the value was checked against.
	Contract Kind

	// Shape is the shape that the value was judged by.
	Shape Shape

	// OK tells whether the value satisfies the contract.
	OK bool

	HasID      bool // whether an ID member or key was found
	HasPayload bool // whether a payload member or key was found

	HasRetrieval bool // whether a member named GetTasks was found
	Callable     bool // whether the GetTasks member can be called without arguments
}

// String returns the string representation of s.
func (s Shape) String() string {
	switch s {
	case NoShape:
		return "none"
	case ObjectShape:
		return "object"
	case MappingShape:
		return "mapping"
	default:
		return "invalid"
	}
}

// String returns the string representation of k.
func (k Kind) String() string {
	switch k {
	case TaskContract:
		return "task"
	case SourceContract:
		return "task source"
	default:
		return "invalid"
	}
}

// Value returns the string representation of the checked value. See
// [Describe].
func (d Diagnostic) Value() string {
	return Describe(d.value)
}

// String returns the string representation of d.
func (d Diagnostic) String() string {
	verdict := "meets"
	if !d.OK {
		verdict = "does not meet"
	}

	if d.Contract == SourceContract {
		return fmt.Sprintf(
			"%s %s %s contract (has %s: %t, callable: %t)",
			d.Value(),
			verdict,
			d.Contract,
			RetrievalMember,
			d.HasRetrieval,
			d.Callable,
		)
	}

	return fmt.Sprintf(
		"%s %s %s contract (shape: %s, has id: %t, id type (must be integer or string): %s, has payload: %t)",
		d.Value(),
		verdict,
		d.Contract,
		d.Shape,
		d.HasID,
		d.IDType,
		d.HasPayload,
	)
}

// LogValue implements [slog.LogValuer] for Diagnostic.
func (d Diagnostic) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("value", d.Value()),
		slog.String("contract", d.Contract.String()),
		slog.Bool("ok", d.OK),
	}

	if d.Contract == SourceContract {
		attrs = append(attrs, slog.Bool("hasRetrieval", d.HasRetrieval), slog.Bool("callable", d.Callable))

		return slog.GroupValue(attrs...)
	}

	attrs = append(
		attrs,
		slog.String("shape", d.Shape.String()),
		slog.Bool("hasID", d.HasID),
		slog.String("idType", d.IDType),
		slog.Bool("hasPayload", d.HasPayload),
	)

	return slog.GroupValue(attrs...)
}

// fill sets the task fields of d from the looked up ID and payload and decides
// the result.
func (d *Diagnostic) fill(id, payload lookup) {
	d.HasID = id.found
	d.HasPayload = payload.found
	d.IDType = nilType

	if id.value.IsValid() {
		d.IDType = id.value.Type().String()
	}

	d.OK = id.found && payload.found && ValidID(id.value)
}
