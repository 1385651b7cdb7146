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

// Package typeconv contains utilities for converting the loosely typed option
// values decoded from TOML into the types the sample sources use.
package typeconv

import (
	"errors"
	"fmt"
	"math"
)

// ErrConv is returned when a type conversion is invalid.
var ErrConv = errors.New("cannot convert type")

// ToInt converts any integer value, or a float value without a fractional
// part, to int. Values that do not fit in int are errors.
//
//nolint:cyclop // need to check all of the types
func ToInt(a any) (int, error) {
	switch v := a.(type) { //nolint:varnamelen
	case nil:
		return 0, fmt.Errorf("%w: nil to int", ErrConv)
	case int:
		return v, nil
	case int8:
		return int(v), nil
	case int16:
		return int(v), nil
	case int32:
		return int(v), nil
	case int64:
		return signed(v)
	case uint:
		return unsigned(uint64(v))
	case uint8:
		return int(v), nil
	case uint16:
		return int(v), nil
	case uint32:
		return unsigned(uint64(v))
	case uint64:
		return unsigned(v)
	case float32:
		return float(float64(v))
	case float64:
		return float(v)
	default:
		return 0, fmt.Errorf("%w: %[2]v (%[2]T) to int", ErrConv, v)
	}
}

// ToString converts a to string. Only strings and values implementing
// [fmt.Stringer] are converted.
func ToString(a any) (string, error) {
	switch v := a.(type) {
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return "", fmt.Errorf("%w: %[2]v (%[2]T) to string", ErrConv, a)
	}
}

// ToSlice converts a slice with elements of type any to []T using conv for
// every element.
func ToSlice[T any](a []any, conv func(any) (T, error)) ([]T, error) {
	out := make([]T, len(a))

	for i, v := range a {
		x, err := conv(v)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}

		out[i] = x
	}

	return out, nil
}

// ToIntSlice converts a slice with elements of type any to []int.
func ToIntSlice(a []any) ([]int, error) {
	return ToSlice(a, ToInt)
}

// ToStringSlice converts a slice with elements of type any to []string.
func ToStringSlice(a []any) ([]string, error) {
	return ToSlice(a, ToString)
}

func signed(v int64) (int, error) {
	if v > math.MaxInt || v < math.MinInt {
		return 0, fmt.Errorf("%w: %d out of range", ErrConv, v)
	}

	return int(v), nil
}

func unsigned(v uint64) (int, error) {
	if v > math.MaxInt {
		return 0, fmt.Errorf("%w: %d out of range", ErrConv, v)
	}

	return int(v), nil // #nosec G115 -- bounds checked above
}

func float(v float64) (int, error) {
	switch {
	case math.IsNaN(v):
		return 0, fmt.Errorf("%w: NaN to int", ErrConv)
	case math.IsInf(v, 0):
		return 0, fmt.Errorf("%w: Inf to int", ErrConv)
	case v != math.Trunc(v):
		return 0, fmt.Errorf("%w: %v has a fractional part", ErrConv, v)
	case v >= math.MaxInt || v < math.MinInt:
		return 0, fmt.Errorf("%w: %v out of range", ErrConv, v)
	}

	return int(v), nil
}
