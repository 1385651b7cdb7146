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

// Package panichandler defines the panic handlers of taskgate. One of them
// must be deferred at the beginning of each goroutine. On a panic, they cancel
// the program context, print a crash report with the stack trace, and exit
// the program.
package panichandler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/reginald-project/taskgate/internal/log/logwriter"
	"github.com/reginald-project/taskgate/internal/terminal"
	"github.com/reginald-project/taskgate/internal/text"
	"github.com/reginald-project/taskgate/internal/version"
)

const (
	header = "!!! TASKGATE CRASHED "
	//nolint:lll
	panicInfo = `
taskgate has encountered an unexpected error. This is most likely a bug in the program. In your bug report, please include the version and the stack trace shown below and any additional information that may help with replicating the issue.
`
	footer = `
Please open an issue at:

	https://github.com/reginald-project/taskgate/issues
`
)

//nolint:gochecknoglobals // shared by every goroutine
var (
	// mu ensures that only the first panicking goroutine prints its report.
	mu sync.Mutex

	// cancel is the cancel function for the program context.
	cancel context.CancelFunc

	// cancelOnce ensures that cancel is only set once.
	cancelOnce sync.Once

	// exit exits the program after the report.
	exit = os.Exit
)

// Handle recovers a panic in the current goroutine and reports it.
func Handle() {
	mu.Lock()
	defer mu.Unlock()

	//revive:disable-next-line:defer This is a deferred function.
	if r := recover(); r != nil {
		crash(r, nil)
	}
}

// WithStackTrace returns a handler like Handle that also reports the stack
// trace of the goroutine that created it. Use it for goroutines started by
// the program.
func WithStackTrace() func() {
	trace := debug.Stack()

	return func() {
		mu.Lock()
		defer mu.Unlock()

		//revive:disable-next-line:defer This is a deferred function.
		if r := recover(); r != nil {
			crash(r, trace)
		}
	}
}

// SetCancel sets the cancel function for the program context. Only the first
// call has an effect.
func SetCancel(c context.CancelFunc) {
	cancelOnce.Do(func() {
		cancel = c
	})
}

func crash(r any, trace []byte) {
	if cancel != nil {
		cancel()
	}

	var bootstrap *logwriter.BufferedFileWriter
	if w, ok := logwriter.BootstrapWriter.(*logwriter.BufferedFileWriter); ok {
		bootstrap = w
	}

	//nolint:errcheck // nothing can be done if writing to stderr fails
	_, _ = os.Stderr.Write(report(r, debug.Stack(), trace, bootstrap, terminal.Width()))

	//revive:disable-next-line:deep-exit Panic handler has to exit with error.
	exit(1)
}

// report builds the crash report for the panic value r with the stack trace
// of the panicking goroutine and, if known, of the goroutine that started it.
// The bootstrap log is flushed to its file.
func report(r any, stack, trace []byte, bootstrap *logwriter.BufferedFileWriter, width int) []byte {
	var buf bytes.Buffer

	buf.WriteByte('\n')
	buf.WriteString(header + strings.Repeat("!", max(width-len(header), 3)))
	buf.WriteString("\n\n")
	buf.WriteString(text.Wrap(panicInfo, width))
	buf.WriteByte('\n')
	fmt.Fprintf(&buf, "Version: %s (%s)\n", version.Version(), version.Revision())
	fmt.Fprintf(&buf, "Panic: %v\n\n", r)
	buf.WriteString("Stack trace:\n\n")
	buf.Write(stack)

	if trace != nil {
		buf.WriteString("\nWith goroutine called from:\n\n")
		buf.Write(trace)
	}

	if bootstrap != nil {
		writeBootstrap(&buf, bootstrap)
	}

	buf.WriteString(footer)

	return buf.Bytes()
}

func writeBootstrap(w io.Writer, b *logwriter.BufferedFileWriter) {
	if err := b.Flush(); err != nil {
		fmt.Fprintf(w, "\nFailed to write the bootstrap log to file: %v\n\n", err)
		fmt.Fprintf(w, "The bootstrap log:\n%s", b.Bytes())

		return
	}

	fmt.Fprintf(w, "\nThe bootstrap log is written to %s\n", b.File())
	fmt.Fprintln(w, "Consider including it when opening an issue.")
}
