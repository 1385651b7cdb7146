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
	"errors"
	"fmt"
	"reflect"
)

// Errors returned by Retrieve.
var (
	ErrRetrieval      = errors.New("failed to retrieve tasks")
	errNoRetrieval    = errors.New("value does not expose " + RetrievalMember + "()")
	errNotSequence    = errors.New("result is not a sequence")
	errRetrievalPanic = errors.New("retrieval panicked")
)

//nolint:gochecknoglobals // used like constant
var errorType = reflect.TypeFor[error]()

// Retrieve calls the task retrieval member of the task source v once and
// returns the candidate tasks it produced in order. The member may return
// a slice, an array, or an iterator of the form func(yield func(T) bool), and
// it may have an error as its last result. A nil slice or iterator produces no
// tasks.
//
// Every failure, including a panic within the source, is returned as an error
// that wraps [ErrRetrieval].
func Retrieve(v any) (tasks []any, err error) {
	fn, _, callable := lookupRetrieval(reflect.ValueOf(v))
	if !callable {
		return nil, fmt.Errorf("%w: %w", ErrRetrieval, errNoRetrieval)
	}

	defer func() {
		if r := recover(); r != nil {
			tasks = nil
			err = fmt.Errorf("%w: %w: %v", ErrRetrieval, errRetrievalPanic, r)
		}
	}()

	out := fn.Call(nil)

	t := fn.Type()
	if t.NumOut() > 1 && t.Out(t.NumOut()-1) == errorType {
		if e := out[len(out)-1]; !e.IsNil() {
			retErr, _ := e.Interface().(error)

			return nil, fmt.Errorf("%w: %w", ErrRetrieval, retErr)
		}

		out = out[:len(out)-1]
	}

	if len(out) != 1 || out[0].Type() == errorType {
		return nil, fmt.Errorf("%w: %w: %s has %d results", ErrRetrieval, errNotSequence, t, t.NumOut())
	}

	tasks, ok := collect(out[0])
	if !ok {
		return nil, fmt.Errorf("%w: %w: %s", ErrRetrieval, errNotSequence, out[0].Type())
	}

	return tasks, nil
}

// collect converts the sequence seq into a slice. It reports false if seq is
// not a supported sequence.
func collect(seq reflect.Value) ([]any, bool) {
	seq = unwrap(seq)
	if !seq.IsValid() {
		return []any{}, true
	}

	switch seq.Kind() { //nolint:exhaustive // only sequences are supported
	case reflect.Slice, reflect.Array:
		tasks := make([]any, 0, seq.Len())

		for i := range seq.Len() {
			tasks = append(tasks, seq.Index(i).Interface())
		}

		return tasks, true
	case reflect.Func:
		if !isIterator(seq.Type()) {
			return nil, false
		}

		tasks := []any{}

		if seq.IsNil() {
			return tasks, true
		}

		yt := seq.Type().In(0)
		more := reflect.ValueOf(true).Convert(yt.Out(0))
		yield := reflect.MakeFunc(yt, func(args []reflect.Value) []reflect.Value {
			tasks = append(tasks, args[0].Interface())

			return []reflect.Value{more}
		})

		seq.Call([]reflect.Value{yield})

		return tasks, true
	default:
		return nil, false
	}
}

// isIterator reports whether t is the type of a single-value iterator function,
// func(yield func(T) bool).
func isIterator(t reflect.Type) bool {
	if t.NumIn() != 1 || t.NumOut() != 0 || t.IsVariadic() {
		return false
	}

	y := t.In(0)

	return y.Kind() == reflect.Func &&
		y.NumIn() == 1 &&
		y.NumOut() == 1 &&
		y.Out(0).Kind() == reflect.Bool &&
		!y.IsVariadic()
}
