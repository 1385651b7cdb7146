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

// Package log defines utilities for logging within taskgate. The program uses
// the [log/slog] package for logging. The functions in this package write to
// an explicitly given logger and treat it as a write-only sink: a nil logger,
// a failing handler, or a panicking handler never affects the caller.
package log

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/reginald-project/taskgate/internal/log/logconfig"
)

// logCallerDepth is the depth of the stack trace to skip when logging.
// The skipped stack is [runtime.Callers, the function, the function's caller].
const logCallerDepth = 3

// IgnorePC controls whether to invoke runtime.Callers to get the pc in
// the logging functions. This is solely for making the logging function
// analogous with the logging functions in the standard library.
var ignorePC = false //nolint:gochecknoglobals // can be set at compile time

// Discard returns a logger that discards all records.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// Trace calls [log] with level set to trace on l.
func Trace(ctx context.Context, l *slog.Logger, msg string, args ...any) {
	log(ctx, l, logconfig.LevelTrace, msg, args...)
}

// Debug calls [log] with level set to debug on l.
func Debug(ctx context.Context, l *slog.Logger, msg string, args ...any) {
	log(ctx, l, logconfig.LevelDebug, msg, args...)
}

// Info calls [log] with level set to info on l.
func Info(ctx context.Context, l *slog.Logger, msg string, args ...any) {
	log(ctx, l, logconfig.LevelInfo, msg, args...)
}

// Warn calls [log] with level set to warn on l.
func Warn(ctx context.Context, l *slog.Logger, msg string, args ...any) {
	log(ctx, l, logconfig.LevelWarn, msg, args...)
}

// Error calls [log] with level set to error on l.
func Error(ctx context.Context, l *slog.Logger, msg string, args ...any) {
	log(ctx, l, logconfig.LevelError, msg, args...)
}

// log is the low-level logging method for methods that take ...any. It must
// always be called directly by an exported logging method or function, because
// it uses a fixed call depth to obtain the pc.
func log(ctx context.Context, l *slog.Logger, level logconfig.Level, msg string, args ...any) {
	if l == nil {
		return
	}

	// Handler failures are dropped.
	defer func() {
		_ = recover() //nolint:errcheck // recovered value is not needed
	}()

	if ctx == nil {
		ctx = context.Background()
	}

	if !l.Enabled(ctx, slog.Level(level)) {
		return
	}

	var pc uintptr

	if !ignorePC {
		var pcs [1]uintptr

		runtime.Callers(logCallerDepth, pcs[:])

		pc = pcs[0]
	}

	r := slog.NewRecord(time.Now(), slog.Level(level), msg, pc)

	r.Add(args...)

	_ = l.Handler().Handle(ctx, r) //nolint:errcheck // fire and forget
}
