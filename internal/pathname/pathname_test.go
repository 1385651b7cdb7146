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

//go:build !windows

package pathname_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/reginald-project/taskgate/internal/pathname"
)

func TestResolve(t *testing.T) {
	t.Setenv("TASKGATE_TEST_DIR", "nested")

	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	dir := t.TempDir()

	tests := []struct {
		name string
		dir  string
		path string
		want string
	}{
		{name: "absolute", dir: dir, path: "/etc/tasks.toml", want: "/etc/tasks.toml"},
		{name: "relative", dir: dir, path: "tasks.toml", want: filepath.Join(dir, "tasks.toml")},
		{name: "clean", dir: dir, path: "a/../tasks.toml", want: filepath.Join(dir, "tasks.toml")},
		{name: "home", dir: dir, path: "~/tasks.toml", want: filepath.Join(home, "tasks.toml")},
		{name: "only home", dir: dir, path: "~", want: home},
		{name: "tilde in name", dir: dir, path: "~tasks", want: filepath.Join(dir, "~tasks")},
		{name: "env", dir: dir, path: "$TASKGATE_TEST_DIR/tasks.toml", want: filepath.Join(dir, "nested", "tasks.toml")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pathname.Resolve(tt.dir, tt.path)
			if err != nil {
				t.Fatalf("Resolve(%q, %q) error = %v", tt.dir, tt.path, err)
			}

			if got != tt.want {
				t.Errorf("Resolve(%q, %q) = %q, want %q", tt.dir, tt.path, got, tt.want)
			}
		})
	}
}

func TestIsFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "taskgate.toml")

	if err := os.WriteFile(file, []byte("samples = true\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := map[string]struct {
		name string
		want bool
	}{
		"file":      {name: file, want: true},
		"directory": {name: dir, want: false},
		"missing":   {name: filepath.Join(dir, "missing.toml"), want: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := pathname.IsFile(tt.name)
			if err != nil {
				t.Fatalf("IsFile(%q) error = %v", tt.name, err)
			}

			if got != tt.want {
				t.Errorf("IsFile(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}
