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

package contract_test

import (
	"errors"
	"iter"
	"reflect"
	"testing"

	"github.com/reginald-project/taskgate/internal/contract"
)

var errBroken = errors.New("broken source")

type arraySource struct{}

func (arraySource) GetTasks() [2]string { return [2]string{"a", "b"} }

type iterSource struct{ n int }

func (s iterSource) GetTasks() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := range s.n {
			if !yield(i) {
				return
			}
		}
	}
}

type nilIterSource struct{}

func (nilIterSource) GetTasks() iter.Seq[any] { return nil }

type errorSource struct{ err error }

func (s errorSource) GetTasks() ([]int, error) {
	if s.err != nil {
		return []int{1}, s.err
	}

	return []int{1, 2}, nil
}

type onlyErrorSource struct{}

func (onlyErrorSource) GetTasks() error { return nil }

type panicSource struct{}

func (panicSource) GetTasks() []any { panic("source exploded") }

type interfaceSource struct{}

func (interfaceSource) GetTasks() any { return []string{"x"} }

type twoSequenceSource struct{}

func (twoSequenceSource) GetTasks() ([]int, []int) { return nil, nil }

func TestRetrieve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		source  any
		name    string
		want    []any
		wantErr bool
	}{
		{
			name:    "slice",
			source:  funcFieldSource{GetTasks: func() []any { return []any{1, "two"} }},
			want:    []any{1, "two"},
			wantErr: false,
		},
		{
			name:    "nil slice",
			source:  sliceSource{},
			want:    []any{},
			wantErr: false,
		},
		{
			name:    "array",
			source:  arraySource{},
			want:    []any{"a", "b"},
			wantErr: false,
		},
		{
			name:    "iterator",
			source:  iterSource{n: 3},
			want:    []any{0, 1, 2},
			wantErr: false,
		},
		{
			name:    "nil iterator",
			source:  nilIterSource{},
			want:    []any{},
			wantErr: false,
		},
		{
			name:    "slice and nil error",
			source:  errorSource{err: nil},
			want:    []any{1, 2},
			wantErr: false,
		},
		{
			name:    "interface result",
			source:  interfaceSource{},
			want:    []any{"x"},
			wantErr: false,
		},
		{
			name:    "variadic",
			source:  variadicSource{},
			want:    []any{},
			wantErr: false,
		},
		{
			name:    "error",
			source:  errorSource{err: errBroken},
			want:    nil,
			wantErr: true,
		},
		{
			name:    "only error",
			source:  onlyErrorSource{},
			want:    nil,
			wantErr: true,
		},
		{
			name:    "panic",
			source:  panicSource{},
			want:    nil,
			wantErr: true,
		},
		{
			name:    "not a sequence",
			source:  nonSequenceSource{},
			want:    nil,
			wantErr: true,
		},
		{
			name:    "two sequences",
			source:  twoSequenceSource{},
			want:    nil,
			wantErr: true,
		},
		{
			name:    "no retrieval member",
			source:  legacySource{},
			want:    nil,
			wantErr: true,
		},
		{
			name:    "nil",
			source:  nil,
			want:    nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := contract.Retrieve(tt.source)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Retrieve() error = %v, wantErr %v", err, tt.wantErr)
			}

			if err != nil && !errors.Is(err, contract.ErrRetrieval) {
				t.Errorf("Retrieve() error = %v, want it to wrap %v", err, contract.ErrRetrieval)
			}

			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Retrieve() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestRetrieveWrapsSourceError(t *testing.T) {
	t.Parallel()

	_, err := contract.Retrieve(errorSource{err: errBroken})
	if !errors.Is(err, errBroken) {
		t.Errorf("Retrieve() error = %v, want it to wrap %v", err, errBroken)
	}
}

func TestRetrieveCallsOnce(t *testing.T) {
	t.Parallel()

	s := &pointerSource{calls: 0}

	if _, err := contract.Retrieve(s); err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}

	if s.calls != 1 {
		t.Errorf("GetTasks was called %d times, want 1", s.calls)
	}
}
