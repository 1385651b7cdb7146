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

package cli_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/reginald-project/taskgate/internal/cli"
	"github.com/reginald-project/taskgate/internal/terminal"
)

const tasksFile = `
[[tasks]]
id = 1
payload = "first"

[[tasks]]
id = 2.5
payload = "bad"

[[tasks]]
id = "three"
payload = "third"
`

const configFile = `
[[sources]]
type = "file"
path = "tasks.toml"

[[sources]]
type = "generator"
count = 2
start = 10
`

// writeConfig writes the config file and the task file it refers to, and
// returns the path to the config file.
func writeConfig(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "tasks.toml"), []byte(tasksFile), 0o600); err != nil {
		t.Fatalf("failed to write task file: %v", err)
	}

	file := filepath.Join(dir, "taskgate.toml")
	if err := os.WriteFile(file, []byte(configFile), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	return file
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var out, errOut bytes.Buffer

	err := cli.New(terminal.New(strings.NewReader(""), &out, &errOut)).Execute(t.Context(), args)

	return out.String(), errOut.String(), err
}

func TestExecuteCollect(t *testing.T) {
	t.Parallel()

	file := writeConfig(t)

	out, _, err := execute(t, "--config", file, "--no-samples", "--no-log")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	for _, want := range []string{
		"+ source FileSource(" + filepath.Join(filepath.Dir(file), "tasks.toml") + ")",
		"+ source GeneratorSource(count=2, start=10)",
		"Collected 4 tasks from 2 sources",
		"Tasks (4):",
		"1. map[id:1 payload:first]",
		"2. map[id:three payload:third]",
		"3. TupleTask(id=10, payload=generated_task_payload0)",
		"4. TupleTask(id=11, payload=generated_task_payload1)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q:\n%s", want, out)
		}
	}
}

func TestExecuteSamples(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "taskgate.toml")
	if err := os.WriteFile(file, []byte("concurrency = 4\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	out, _, err := execute(t, "collect", "-c", file, "--no-log")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	for _, want := range []string{
		"+ task TupleTask(id=2, payload=[1 2 3])",
		"- task RecordTask(id=[3], payload=simple)",
		"does not meet task contract",
		"- source LegacySource(project_122.flp)",
		"Collected 7 tasks from 3 sources",
		"Tasks (10):",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q:\n%s", want, out)
		}
	}
}

func TestExecuteQuiet(t *testing.T) {
	t.Parallel()

	out, _, err := execute(t, "--config", writeConfig(t), "--no-log", "-q")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if out != "" {
		t.Errorf("output = %q, want empty", out)
	}
}

func TestExecuteVersion(t *testing.T) {
	t.Parallel()

	for _, args := range [][]string{{"--version"}, {"version"}} {
		out, _, err := execute(t, args...)
		if err != nil {
			t.Fatalf("Execute(%v) error = %v", args, err)
		}

		if !strings.HasPrefix(out, cli.ProgramName+" ") {
			t.Errorf("Execute(%v) output = %q, want the version", args, out)
		}
	}
}

func TestExecuteHelp(t *testing.T) {
	t.Parallel()

	out, _, err := execute(t, "-h")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	for _, want := range []string{"Usage: taskgate", "collect", "shell", "--concurrency <n>", "--no-samples"} {
		if !strings.Contains(out, want) {
			t.Errorf("help does not contain %q:\n%s", want, out)
		}
	}
}

func TestExecuteUsageErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown command", args: []string{"apply"}},
		{name: "unknown flag", args: []string{"--nope"}},
		{name: "too many arguments", args: []string{"collect", "now"}},
		{name: "mutually exclusive", args: []string{"--samples", "--no-samples"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := execute(t, tt.args...)

			var exitErr *cli.ExitError
			if !errors.As(err, &exitErr) {
				t.Fatalf("Execute(%v) error = %v, want *cli.ExitError", tt.args, err)
			}

			if exitErr.Code != 2 {
				t.Errorf("Execute(%v) exit code = %d, want 2", tt.args, exitErr.Code)
			}
		})
	}
}

func TestExecuteInvalidConfig(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "taskgate.toml")
	if err := os.WriteFile(file, []byte("[[sources]]\ntype = \"database\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, _, err := execute(t, "--config", file, "--no-log"); err == nil {
		t.Error("Execute() error = nil, want error for an unknown source type")
	}
}
