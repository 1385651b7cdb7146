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
	"fmt"
	"io/fs"
	"iter"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// A FileSource reads its tasks from a TOML file that has an array of tables
// named "tasks". Every table is returned as is, so the tasks it produces are
// maps.
//
//	[[tasks]]
//	id = 101
//	payload = { order_id = 5001, amount = 1500 }
type FileSource struct {
	// FS is the file system to read the file from. If it is nil, Path is
	// read from the operating system's file system.
	FS fs.FS

	// Path is the path of the task file.
	Path string
}

// An APISource stands in for a source that would fetch its tasks from a web
// API. It does no network I/O and always returns the same tasks.
type APISource struct {
	URL string
}

// A GeneratorSource generates Count tasks with consecutive IDs starting from
// Start. The tasks are produced lazily.
type GeneratorSource struct {
	Count int
	Start int
}

// A LegacySource reads tasks like FileSource but exposes the operation under
// the name LoadTasks. It is never accepted as a task source.
type LegacySource struct {
	Path string
}

// taskFile is the format of the task files.
type taskFile struct {
	Tasks []map[string]any `toml:"tasks"`
}

// GetTasks reads the task file and returns its tasks.
func (s *FileSource) GetTasks() ([]any, error) {
	var (
		data []byte
		err  error
	)

	if s.FS != nil {
		data, err = fs.ReadFile(s.FS, s.Path)
	} else {
		data, err = os.ReadFile(s.Path)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read task file: %w", err)
	}

	var f taskFile

	if err = toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to decode task file %s: %w", s.Path, err)
	}

	tasks := make([]any, 0, len(f.Tasks))
	for _, t := range f.Tasks {
		tasks = append(tasks, t)
	}

	return tasks, nil
}

// String returns the string representation of s.
func (s *FileSource) String() string {
	return "FileSource(" + s.Path + ")"
}

// GetTasks returns the tasks of the API. One of them has an ID that is not
// valid.
func (s *APISource) GetTasks() []*ObjectTask {
	return []*ObjectTask{
		{ID: 201, Payload: map[string]any{"user": "john", "action": "send"}},
		{ID: "bad_id", Payload: map[string]any{"user": "jane", "action": "update"}},
		{ID: 202.5, Payload: map[string]any{"user": "joe", "action": "delete"}},
	}
}

// String returns the string representation of s.
func (s *APISource) String() string {
	return "APISource(" + s.URL + ")"
}

// GetTasks returns an iterator over the generated tasks.
func (s *GeneratorSource) GetTasks() iter.Seq[TupleTask] {
	return func(yield func(TupleTask) bool) {
		for i := range s.Count {
			if !yield(TupleTask{s.Start + i, fmt.Sprintf("generated_task_payload%d", i)}) {
				return
			}
		}
	}
}

// String returns the string representation of s.
func (s *GeneratorSource) String() string {
	return fmt.Sprintf("GeneratorSource(count=%d, start=%d)", s.Count, s.Start)
}

// LoadTasks reads the task file and returns its tasks as records.
func (s *LegacySource) LoadTasks() ([]RecordTask, error) {
	tasks, err := (&FileSource{FS: nil, Path: s.Path}).GetTasks()
	if err != nil {
		return nil, err
	}

	records := make([]RecordTask, 0, len(tasks))

	for _, t := range tasks {
		m, _ := t.(map[string]any)
		records = append(records, RecordTask{Key: m["id"], Data: m["payload"]})
	}

	return records, nil
}

// String returns the string representation of s.
func (s *LegacySource) String() string {
	return "LegacySource(" + s.Path + ")"
}
