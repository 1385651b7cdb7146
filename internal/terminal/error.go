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

package terminal

import (
	"errors"
	"slices"
	"strconv"
	"sync"
)

// maxStoredErrors is the number of output errors a [Terminal] keeps. A broken
// output produces an error for every message, so only the first ones are
// stored.
const maxStoredErrors = 16

// An asyncError collects the errors that happen while a [Terminal] writes its
// output. The writes do not return errors to the callers, so they are stored
// here and checked once at the end of the program. asyncError is thread-safe.
type asyncError struct {
	errs    []error
	dropped int
	mu      sync.Mutex
}

func (e *asyncError) append(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.errs) >= maxStoredErrors {
		e.dropped++

		return
	}

	e.errs = append(e.errs, err)
}

// joined returns the stored errors as one error, or nil if there are none.
func (e *asyncError) joined() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.errs) == 0 {
		return nil
	}

	if e.dropped > 0 {
		return errors.Join(append(slices.Clone(e.errs), &droppedError{n: e.dropped})...)
	}

	return errors.Join(e.errs...)
}

// A droppedError tells how many output errors were not stored.
type droppedError struct {
	n int
}

func (e *droppedError) Error() string {
	return "and " + strconv.Itoa(e.n) + " more output errors"
}
