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

// Package logger creates the loggers of taskgate. It is a separate package to
// avoid import cycles.
package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/reginald-project/taskgate/internal/log/logconfig"
	"github.com/reginald-project/taskgate/internal/log/logwriter"
	"github.com/reginald-project/taskgate/internal/terminal"
)

// DebugEnv is the environment variable that enables the debug output of
// the bootstrap logger.
const DebugEnv = "TASKGATE_DEBUG"

// Default values for the logger.
const (
	defaultFilePerm       os.FileMode = 0o600                              // log file permissions
	defaultDirPerm        os.FileMode = 0o700                              // log directory permissions
	defaultJSONTimeFormat             = "2006-01-02T15:04:05.000000-07:00" // time format for JSON output
	defaultTextTimeFormat             = time.DateTime                      // time format for text output
)

// errInvalidFormat is returned when trying to create a logger with an invalid
// format.
var errInvalidFormat = errors.New("invalid log format")

// IsDebug reports whether the debug output is enabled through the environment.
func IsDebug() bool {
	switch strings.ToLower(os.Getenv(DebugEnv)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

// InitBootstrap initializes the bootstrap logger and sets it as the default
// logger in [log/slog]. Unless debugging is enabled, the bootstrap logs are
// buffered and written to a file in the user cache directory only if
// the program crashes.
func InitBootstrap() error {
	if IsDebug() {
		slog.SetDefault(slog.New(debugHandler(os.Stderr)).With("bootstrap", true))

		return nil
	}

	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}

	path, err := filepath.Abs(filepath.Join(dir, "taskgate", "bootstrap.log"))
	if err != nil {
		return fmt.Errorf("failed to create path to bootstrap log file: %w", err)
	}

	logwriter.BootstrapWriter = logwriter.NewBufferedFileWriter(path)

	slog.SetDefault(
		slog.New(
			slog.NewJSONHandler(
				logwriter.BootstrapWriter,
				&slog.HandlerOptions{
					AddSource:   true,
					Level:       slog.Level(logconfig.LevelTrace),
					ReplaceAttr: replaceAttrFunc(defaultJSONTimeFormat),
				},
			),
		),
	)

	return nil
}

// New creates the logger described by cfg. The terminal outputs of t are used
// when the output is "stdout" or "stderr" so that the logs do not interleave
// with the user output; if t is nil, the standard streams are used directly.
func New(cfg logconfig.Config, t *terminal.Terminal) (*slog.Logger, error) {
	if IsDebug() {
		return slog.New(debugHandler(os.Stderr)), nil
	}

	if !cfg.Enabled {
		return slog.New(slog.DiscardHandler), nil
	}

	w, err := output(cfg.Output, t)
	if err != nil {
		return nil, err
	}

	format := strings.ToLower(cfg.Format)

	timeFormat := defaultJSONTimeFormat
	if format == "text" {
		timeFormat = defaultTextTimeFormat
	}

	opts := &slog.HandlerOptions{
		AddSource:   slog.Level(cfg.Level) <= slog.LevelDebug,
		Level:       slog.Level(cfg.Level),
		ReplaceAttr: replaceAttrFunc(timeFormat),
	}

	var h slog.Handler

	switch format {
	case "json":
		h = slog.NewJSONHandler(w, opts)
	case "text":
		h = slog.NewTextHandler(w, opts)
	default:
		return nil, fmt.Errorf("%w: %s", errInvalidFormat, cfg.Format)
	}

	return slog.New(h), nil
}

// Init creates the logger described by cfg and sets it as the default logger
// in [log/slog]. It returns the created logger.
func Init(cfg logconfig.Config, t *terminal.Terminal) (*slog.Logger, error) {
	l, err := New(cfg, t)
	if err != nil {
		return nil, err
	}

	slog.SetDefault(l)

	return l, nil
}

// debugHandler returns a handler that should be used when debugging is enabled.
func debugHandler(w io.Writer) slog.Handler {
	return slog.NewTextHandler(
		w,
		&slog.HandlerOptions{
			AddSource:   true,
			Level:       slog.Level(logconfig.LevelTrace),
			ReplaceAttr: replaceAttrFunc(defaultTextTimeFormat),
		},
	)
}

func output(name string, t *terminal.Terminal) (io.Writer, error) {
	switch strings.ToLower(name) {
	case "stderr":
		if t != nil {
			return t.Writer(terminal.Stderr), nil
		}

		return os.Stderr, nil
	case "stdout":
		if t != nil {
			return t.Writer(terminal.Stdout), nil
		}

		return os.Stdout, nil
	}

	path := filepath.Clean(name)

	if err := os.MkdirAll(filepath.Dir(path), defaultDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create directory %q for log output: %w", filepath.Dir(path), err)
	}

	fw, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, defaultFilePerm)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file at %s: %w", path, err)
	}

	return fw, nil
}

func replaceAttrFunc(timeFormat string) func([]string, slog.Attr) slog.Attr {
	return func(_ []string, a slog.Attr) slog.Attr {
		switch a.Key {
		case slog.TimeKey:
			if a.Value.Kind() != slog.KindTime {
				return a
			}

			return slog.String(slog.TimeKey, a.Value.Time().Format(timeFormat))
		case slog.LevelKey:
			level, ok := a.Value.Any().(slog.Level)
			if !ok {
				return a
			}

			return slog.String(slog.LevelKey, logconfig.Level(level).String())
		default:
			return a
		}
	}
}
