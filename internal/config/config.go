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

// Package config contains the program configuration. The configuration is
// parsed from the configuration file, environment variables, and command-line
// arguments, in that order of precedence from lowest to highest.
package config

import (
	"log/slog"

	"github.com/reginald-project/taskgate/internal/log/logconfig"
	"github.com/reginald-project/taskgate/internal/terminal"
)

// EnvPrefix is the prefix added to the names of the config values when reading
// them from environment variables.
const EnvPrefix = "TASKGATE"

// defaultFileName is the base name of the config file without the extension.
const defaultFileName = "taskgate"

// Config is the parsed configuration of the program run. There should be only
// one effective Config per run.
//
// The flag tag names the command-line flag that overrides the field, and the
// negflag tag names a flag that sets a bool field to false.
type Config struct {
	// File is the config file that was read. It is empty if no file was
	// found.
	File string `mapstructure:"-"`

	// Logging contains the config values for logging.
	Logging logconfig.Config `mapstructure:"logging"`

	// Sources contains the task sources to register as given in the config
	// file.
	Sources []SourceConfig `mapstructure:"sources"`

	// Color tells whether colors should be enabled in the user output.
	Color terminal.ColorMode `flag:"color" mapstructure:"color"`

	// Concurrency is the maximum number of task sources that are polled at
	// the same time.
	Concurrency int `flag:"concurrency" mapstructure:"concurrency"`

	// Quiet tells the program to suppress all other output than errors.
	Quiet bool `flag:"quiet" mapstructure:"quiet"`

	// Samples tells the program to admit the built-in sample tasks and
	// sources.
	Samples bool `flag:"samples" mapstructure:"samples" negflag:"no-samples"`
}

// SourceConfig is the config entry of a single task source.
type SourceConfig struct {
	// Options contains the rest of the values in the entry. Their meaning
	// depends on the type of the source.
	Options map[string]any `mapstructure:",remain"`

	// Type is the type of the source.
	Type string `mapstructure:"type"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		File:        "",
		Logging:     logconfig.Default(),
		Sources:     []SourceConfig{},
		Color:       terminal.ColorAuto,
		Concurrency: 1,
		Quiet:       false,
		Samples:     true,
	}
}

// LogValue implements [slog.LogValuer] for Config.
func (c *Config) LogValue() slog.Value {
	if c == nil {
		return slog.StringValue("<nil>")
	}

	sources := make([]string, 0, len(c.Sources))
	for _, s := range c.Sources {
		sources = append(sources, s.Type)
	}

	return slog.GroupValue(
		slog.String("file", c.File),
		slog.Group(
			"logging",
			slog.Bool("enabled", c.Logging.Enabled),
			slog.String("format", c.Logging.Format),
			slog.String("level", c.Logging.Level.String()),
			slog.String("output", c.Logging.Output),
		),
		slog.Any("sources", sources),
		slog.String("color", c.Color.String()),
		slog.Int("concurrency", c.Concurrency),
		slog.Bool("quiet", c.Quiet),
		slog.Bool("samples", c.Samples),
	)
}
