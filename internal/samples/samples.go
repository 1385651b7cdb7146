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

package samples

import (
	"embed"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/reginald-project/taskgate/internal/config"
	"github.com/reginald-project/taskgate/internal/pathname"
	"github.com/reginald-project/taskgate/internal/typeconv"
)

// Source types that can be used in the config file.
const (
	TypeAPI       = "api"
	TypeFile      = "file"
	TypeGenerator = "generator"
	TypeLegacy    = "legacy"
)

const (
	defaultAPIURL = "https://api.example.com/view/tasks"
	defaultCount  = 3
	defaultStart  = 67
	demoFile      = "demo_tasks.toml"
)

// Errors returned when creating sources from the config.
var (
	ErrInvalidOption = errors.New("invalid source option")
	ErrUnknownSource = errors.New("unknown source type")
)

//go:embed demo_tasks.toml
var demoFS embed.FS

// An options holds the options of a single source entry and tracks which of
// them have been read.
type options struct {
	values map[string]any
	used   map[string]bool
	typ    string
}

// Demo returns the sample task candidates and task sources. Some of
// the candidates do not satisfy their contracts.
func Demo() ([]any, []any) {
	tasks := []any{
		&ObjectTask{ID: 1, Payload: map[string]any{"data": "test"}},
		TupleTask{"2", []int{1, 2, 3}},
		RecordTask{Key: []int{3}, Data: "simple"},
		map[string]any{"id": 1, "payload": []int{42}},
	}
	sources := []any{
		&FileSource{FS: demoFS, Path: demoFile},
		&LegacySource{Path: "project_122.flp"},
		&APISource{URL: defaultAPIURL},
		&GeneratorSource{Count: defaultCount, Start: defaultStart},
	}

	return tasks, sources
}

// FromConfig creates the task sources from the source entries in the config.
// Relative file paths are resolved against dir.
func FromConfig(entries []config.SourceConfig, dir string) ([]any, error) {
	sources := make([]any, 0, len(entries))

	for i, e := range entries {
		s, err := fromEntry(e, dir)
		if err != nil {
			return nil, fmt.Errorf("source %d: %w", i, err)
		}

		sources = append(sources, s)
	}

	return sources, nil
}

func fromEntry(e config.SourceConfig, dir string) (any, error) {
	var (
		err error
		opt = &options{values: e.Options, used: map[string]bool{}, typ: e.Type}
		s   any
	)

	switch strings.ToLower(e.Type) {
	case TypeAPI:
		var url string

		url, err = opt.string("url", defaultAPIURL)
		s = &APISource{URL: url}
	case TypeFile, TypeLegacy:
		var path string

		if path, err = opt.path("path", dir); err != nil {
			return nil, err
		}

		if strings.EqualFold(e.Type, TypeLegacy) {
			s = &LegacySource{Path: path}
		} else {
			s = &FileSource{FS: nil, Path: path}
		}
	case TypeGenerator:
		g := &GeneratorSource{Count: defaultCount, Start: defaultStart}

		if g.Count, err = opt.int("count", defaultCount); err != nil {
			return nil, err
		}

		if g.Count < 0 {
			return nil, fmt.Errorf("%w: %s count must not be negative: %d", ErrInvalidOption, e.Type, g.Count)
		}

		g.Start, err = opt.int("start", defaultStart)
		s = g
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, e.Type)
	}

	if err != nil {
		return nil, err
	}

	if err = opt.checkUnused(); err != nil {
		return nil, err
	}

	return s, nil
}

// int returns the int option key or def if it is not set.
func (o *options) int(key string, def int) (int, error) {
	v, ok := o.get(key)
	if !ok {
		return def, nil
	}

	n, err := typeconv.ToInt(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %s: %w", ErrInvalidOption, o.typ, key, err)
	}

	return n, nil
}

// string returns the string option key or def if it is not set.
func (o *options) string(key, def string) (string, error) {
	v, ok := o.get(key)
	if !ok {
		return def, nil
	}

	s, err := typeconv.ToString(v)
	if err != nil {
		return "", fmt.Errorf("%w: %s %s: %w", ErrInvalidOption, o.typ, key, err)
	}

	return s, nil
}

// path returns the required path option key resolved against dir.
func (o *options) path(key, dir string) (string, error) {
	s, err := o.string(key, "")
	if err != nil {
		return "", err
	}

	if s == "" {
		return "", fmt.Errorf("%w: %s source requires %q", ErrInvalidOption, o.typ, key)
	}

	path, err := pathname.Resolve(dir, s)
	if err != nil {
		return "", fmt.Errorf("%w: %s %s: %w", ErrInvalidOption, o.typ, key, err)
	}

	return path, nil
}

func (o *options) get(key string) (any, bool) {
	o.used[key] = true
	v, ok := o.values[key]

	return v, ok
}

// checkUnused returns an error if the entry has options that no getter read.
func (o *options) checkUnused() error {
	for _, k := range slices.Sorted(maps.Keys(o.values)) {
		if !o.used[k] {
			return fmt.Errorf("%w: %s source has unknown option %q", ErrInvalidOption, o.typ, k)
		}
	}

	return nil
}
