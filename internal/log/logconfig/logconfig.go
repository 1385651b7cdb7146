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

// Package logconfig defines the configuration options for the logger. It is
// a separate package to avoid import cycles.
package logconfig

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reginald-project/reginald-sdk-go/logs"
)

// Logging levels. They are the levels of the Reginald SDK logs package.
//
//nolint:gochecknoglobals // used like constants
var (
	LevelTrace = Level(logs.LevelTrace)
	LevelDebug = Level(logs.LevelDebug)
	LevelInfo  = Level(logs.LevelInfo)
	LevelWarn  = Level(logs.LevelWarn)
	LevelError = Level(logs.LevelError)
)

// errInvalidLevel is returned when an invalid value is parsed into [Level].
var errInvalidLevel = errors.New("invalid log level")

// Config contains the configuration options for the logger.
type Config struct {
	Format  string `flag:"log-format" mapstructure:"format"` // format of the logs, "json" or "text"
	Output  string `flag:"log-output" mapstructure:"output"` // destination of the logs
	Level   Level  `flag:"log-level"  mapstructure:"level"`  // logging level
	Enabled bool   `mapstructure:"enabled" negflag:"no-log"` // whether logging is enabled
}

// Level is the logging level. Its values are compatible with [log/slog] levels
// and it adds the trace level below debug.
type Level logs.Level //nolint:recvcheck // needs different receiver types

// Default returns the default logging configuration.
func Default() Config {
	return Config{
		Enabled: true,
		Format:  "text",
		Level:   LevelInfo,
		Output:  "stderr",
	}
}

// String returns the string representation of l.
func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "trace"
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Set sets the value of l from the given string s.
func (l *Level) Set(s string) error {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		*l = LevelTrace
	case "debug":
		*l = LevelDebug
	case "info", "":
		*l = LevelInfo
	case "warn", "warning":
		*l = LevelWarn
	case "error":
		*l = LevelError
	default:
		return fmt.Errorf("%w: %q", errInvalidLevel, s)
	}

	return nil
}

// Type returns type of l as a string for command-line flags.
func (*Level) Type() string {
	return "Level"
}

// MarshalText encodes l in a textual form.
func (l Level) MarshalText() ([]byte, error) { //nolint:unparam // implements interface
	return []byte(l.String()), nil
}

// UnmarshalText assigns the value from the given textual representation to l.
func (l *Level) UnmarshalText(data []byte) error {
	if err := l.Set(string(data)); err != nil {
		return fmt.Errorf("failed to set Level: %w", err)
	}

	return nil
}
