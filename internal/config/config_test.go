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

package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/reginald-project/taskgate/internal/config"
	"github.com/reginald-project/taskgate/internal/flags"
	"github.com/reginald-project/taskgate/internal/log"
	"github.com/reginald-project/taskgate/internal/log/logconfig"
	"github.com/reginald-project/taskgate/internal/terminal"
	"github.com/spf13/pflag"
)

const testConfig = `
concurrency = 2
color = "never"

[logging]
format = "json"
level = "debug"
output = "stdout"

[[sources]]
type = "file"
path = "tasks.toml"

[[sources]]
type = "generator"
count = 3
start = 67
`

func newFlagSet(t *testing.T, args ...string) *flags.FlagSet {
	t.Helper()

	level := logconfig.LevelInfo
	color := terminal.ColorAuto

	f := flags.NewFlagSet("taskgate", pflag.ContinueOnError)
	f.StringP("config", "c", "", "use `<path>` as the config file", "")
	f.IntP("concurrency", "j", 1, "poll at most `<n>` sources at the same time", "")
	f.BoolP("quiet", "q", false, "suppress output", "")
	f.Bool("samples", true, "admit the sample values", "")
	f.Bool("no-samples", false, "do not admit the sample values", "")
	f.Bool("no-log", false, "disable logging", "")
	f.String("log-format", "text", "log format", "")
	f.String("log-output", "stderr", "log output", "")
	f.Var(&level, "log-level", "log level", "")
	f.Var(&color, "color", "color mode", "")
	f.MarkMutuallyExclusive("samples", "no-samples")

	if err := f.Parse(args); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}

	return f
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	file := filepath.Join(t.TempDir(), "taskgate.toml")
	if err := os.WriteFile(file, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	return file
}

func TestParseFile(t *testing.T) {
	t.Parallel()

	file := writeConfig(t, testConfig)

	cfg, err := config.Parse(t.Context(), log.Discard(), newFlagSet(t, "--config", file))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := &config.Config{
		File: file,
		Logging: logconfig.Config{
			Format:  "json",
			Output:  "stdout",
			Level:   logconfig.LevelDebug,
			Enabled: true,
		},
		Sources: []config.SourceConfig{
			{Type: "file", Options: map[string]any{"path": "tasks.toml"}},
			{Type: "generator", Options: map[string]any{"count": int64(3), "start": int64(67)}},
		},
		Color:       terminal.ColorNever,
		Concurrency: 2,
		Quiet:       false,
		Samples:     true,
	}

	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("Parse() = %+v, want %+v", cfg, want)
	}
}

func TestParseFlagOverrides(t *testing.T) {
	t.Parallel()

	file := writeConfig(t, testConfig)
	flagSet := newFlagSet(
		t,
		"-c", file,
		"-j", "8",
		"--quiet",
		"--no-samples",
		"--no-log",
		"--log-level", "trace",
		"--color", "always",
	)

	cfg, err := config.Parse(t.Context(), log.Discard(), flagSet)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Concurrency != 8 {
		t.Errorf("Concurrency = %d, want 8", cfg.Concurrency)
	}

	if !cfg.Quiet {
		t.Error("Quiet = false, want true")
	}

	if cfg.Samples {
		t.Error("Samples = true, want false")
	}

	if cfg.Logging.Enabled {
		t.Error("Logging.Enabled = true, want false")
	}

	if cfg.Logging.Level != logconfig.LevelTrace {
		t.Errorf("Logging.Level = %v, want %v", cfg.Logging.Level, logconfig.LevelTrace)
	}

	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want %q", cfg.Logging.Format, "json")
	}

	if cfg.Color != terminal.ColorAlways {
		t.Errorf("Color = %v, want %v", cfg.Color, terminal.ColorAlways)
	}
}

func TestParseEnvOverrides(t *testing.T) {
	file := writeConfig(t, testConfig)

	t.Setenv("TASKGATE_CONFIG_FILE", file)
	t.Setenv("TASKGATE_CONCURRENCY", "5")
	t.Setenv("TASKGATE_LOGGING_LEVEL", "warn")

	cfg, err := config.Parse(t.Context(), log.Discard(), newFlagSet(t, "-j", "3"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.File != file {
		t.Errorf("File = %q, want %q", cfg.File, file)
	}

	// Flags take precedence over the environment.
	if cfg.Concurrency != 3 {
		t.Errorf("Concurrency = %d, want 3", cfg.Concurrency)
	}

	if cfg.Logging.Level != logconfig.LevelWarn {
		t.Errorf("Logging.Level = %v, want %v", cfg.Logging.Level, logconfig.LevelWarn)
	}
}

func TestParseDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TASKGATE_CONFIG_FILE", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := config.Parse(t.Context(), log.Discard(), newFlagSet(t))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if want := config.Default(); !reflect.DeepEqual(cfg, want) {
		t.Errorf("Parse() = %+v, want %+v", cfg, want)
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "zero concurrency", content: "concurrency = 0\n", wantErr: config.ErrInvalidConfig},
		{name: "unknown key", content: "verbose = true\n", wantErr: config.ErrInvalidConfig},
		{name: "bad log format", content: "[logging]\nformat = \"xml\"\n", wantErr: config.ErrInvalidConfig},
		{name: "source without type", content: "[[sources]]\npath = \"x\"\n", wantErr: config.ErrInvalidConfig},
		{name: "bad level", content: "[logging]\nlevel = \"loud\"\n", wantErr: config.ErrInvalidConfig},
		{name: "bad TOML", content: "concurrency = \n", wantErr: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			file := writeConfig(t, tt.content)

			_, err := config.Parse(t.Context(), log.Discard(), newFlagSet(t, "--config", file))
			if err == nil {
				t.Fatal("Parse() error = nil, want error")
			}

			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Parse() error = %v, want it to wrap %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseMissingFile(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "missing.toml")

	if _, err := config.Parse(t.Context(), log.Discard(), newFlagSet(t, "--config", missing)); err == nil {
		t.Error("Parse() error = nil, want error for a missing config file")
	}
}
