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

// Package terminal defines the terminal utilities for the taskgate user
// interface. Most importantly, it defines the global instance that should be
// used for input and output in the program.
package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/chzyer/readline"
	"golang.org/x/term"
)

// Message output destinations.
const (
	Stdout OutputMode = iota
	Stderr
)

// ASCII control characters.
const (
	escape = '\x1b'
)

// Basic attribute ANSI codes.
const (
	reset code = iota
)

// Foreground text color codes.
const (
	black code = iota + 30
	red
	green
	yellow
	blue
	magenta
	cyan
	white
)

// gray is the bright black foreground color code.
const gray code = 90

// defaultWidth is the default width returned by Width if the width of
// the terminal cannot be determined.
const defaultWidth = 80

// Errors returned by the prompts.
var (
	ErrQuietPrompt       = errors.New("cannot prompt for input in quiet mode")
	ErrNotInteractive    = errors.New("cannot prompt for input in non-interactive mode")
	ErrInterrupt         = errors.New("prompt interrupted")
	errInvalidOutputMode = errors.New("invalid message output")
)

// terminal is the global terminal instance for the program. It must be
// initialized before use.
var terminal *Terminal //nolint:gochecknoglobals // global Terminal instance

// OutputMode tells whether a message should be printed to output or error
// output.
type OutputMode int

// A Terminal is used to interact with the terminal, and it is used for the user
// interface. It serializes writing of messages, and it also handles prompting
// the user for input. If the writing operations using this type return an
// error, it will be stored within the struct.
type Terminal struct {
	in            io.ReadCloser
	inFile        any // checked for terminal input, usually the original in
	out           io.Writer
	errOut        io.Writer
	err           *asyncError // stores the write errors
	mu            sync.Mutex
	quiet         bool
	interactive   bool
	colorsEnabled bool
}

// code is the type for the ANSI color codes.
type code int

// writerFunc adapts a function to [io.Writer].
type writerFunc func(p []byte) (int, error)

// New returns a new Terminal that reads from in and writes to out and errOut.
func New(in io.Reader, out, errOut io.Writer) *Terminal {
	rc, ok := in.(io.ReadCloser)
	if !ok {
		rc = io.NopCloser(in)
	}

	return &Terminal{
		in:     rc,
		inFile: in,
		out:    out,
		errOut: errOut,
		mu:     sync.Mutex{},
		err: &asyncError{
			errs: make([]error, 0),
			mu:   sync.Mutex{},
		},
		quiet:         false,
		interactive:   false,
		colorsEnabled: false,
	}
}

// NewStd returns a new Terminal that uses the standard streams of the process.
func NewStd() *Terminal {
	s := New(readline.NewCancelableStdin(os.Stdin), os.Stdout, os.Stderr)
	s.inFile = os.Stdin

	return s
}

// Init initializes s by propagating the config values.
func (s *Terminal) Init(quiet bool, colors ColorMode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.quiet = quiet
	s.interactive = isTerminal(s.inFile)

	switch colors {
	case ColorAlways:
		s.colorsEnabled = true
	case ColorNever:
		s.colorsEnabled = false
	case ColorAuto:
		s.colorsEnabled = isTerminal(s.out)
	default:
		panic(fmt.Sprintf("invalid Terminal color mode: %v", colors))
	}
}

// Ask asks the user for input. It returns the input that the user entered as
// a string and any errors that occurred during the process. It returns
// [io.EOF] when the input ends and [ErrInterrupt] when the user interrupts
// the prompt.
func (s *Terminal) Ask(ctx context.Context, prompt string) (string, error) {
	if s.quiet {
		return "", ErrQuietPrompt
	}

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w", err)
	}

	rlCfg := &readline.Config{ //nolint:exhaustruct // use default values
		Prompt:                 prompt,
		DisableAutoSaveHistory: true,
		Stdin:                  s.in,
		Stdout:                 s.out,
		Stderr:                 s.errOut,
	}

	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return "", fmt.Errorf("failed to create prompt: %w", err)
	}

	defer func() {
		if closeErr := rl.Close(); closeErr != nil {
			s.appendErr(closeErr)
		}
	}()

	line, err := rl.Readline()

	switch {
	case errors.Is(err, readline.ErrInterrupt):
		return "", ErrInterrupt
	case errors.Is(err, io.EOF):
		return "", io.EOF
	case err != nil:
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	return line, nil
}

// Err returns the errors that have occurred while writing the output.
func (s *Terminal) Err() error {
	return s.err.joined()
}

// Interactive reports whether the input of s is a terminal.
func (s *Terminal) Interactive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.interactive
}

// Errorf formats according to a format specifier and writes to standard error
// output of s. If colors are enabled, the message is printed in red. It stores
// possible errors within s.
func (s *Terminal) Errorf(format string, a ...any) {
	s.write(Stderr, s.colorf(red, format, a...))
}

// Failf formats according to a format specifier and writes to standard output
// of s. If colors are enabled, the message is printed in red. It stores
// possible errors within s.
func (s *Terminal) Failf(format string, a ...any) {
	if s.quiet {
		return
	}

	s.write(Stdout, s.colorf(red, format, a...))
}

// Mutedf formats according to a format specifier and writes to standard output
// of s. If colors are enabled, the message is printed in gray. It stores
// possible errors within s.
func (s *Terminal) Mutedf(format string, a ...any) {
	if s.quiet {
		return
	}

	s.write(Stdout, s.colorf(gray, format, a...))
}

// PrintErrf formats according to a format specifier and writes to standard
// error output of s. It stores possible errors within s.
func (s *Terminal) PrintErrf(format string, a ...any) {
	s.write(Stderr, fmt.Sprintf(format, a...))
}

// Printf formats according to a format specifier and writes to standard output
// of s. It stores possible errors within s.
func (s *Terminal) Printf(format string, a ...any) {
	if s.quiet {
		return
	}

	s.write(Stdout, fmt.Sprintf(format, a...))
}

// Println formats using the default formats for its operands and writes to
// standard output of s. Spaces are always added between operands and
// a newline is appended. It stores possible errors within s.
func (s *Terminal) Println(a ...any) {
	if s.quiet {
		return
	}

	s.write(Stdout, fmt.Sprintln(a...))
}

// Successf formats according to a format specifier and writes to standard
// output of s. If colors are enabled, the message is printed in green. It
// stores possible errors within s.
func (s *Terminal) Successf(format string, a ...any) {
	if s.quiet {
		return
	}

	s.write(Stdout, s.colorf(green, format, a...))
}

// Warnln formats using the default formats for its operands and writes to
// standard error output of s. Spaces are always added between operands and
// a newline is appended. If colors are enabled, the message is printed in
// yellow. It stores possible errors within s.
func (s *Terminal) Warnln(a ...any) {
	if s.quiet {
		return
	}

	s.write(Stderr, s.colorln(yellow, a...))
}

// Writer returns an [io.Writer] that writes to the output of s selected by
// mode. The writes are serialized with the other messages of s and are not
// silenced in quiet mode. Write errors are stored within s.
func (s *Terminal) Writer(mode OutputMode) io.Writer {
	return writerFunc(func(p []byte) (int, error) {
		s.write(mode, string(p))

		return len(p), nil
	})
}

// Default returns the default terminal instance.
func Default() *Terminal {
	return terminal
}

// Errorf formats according to a format specifier and writes to standard error
// output of [Default]. If colors are enabled, the message is printed in red. It
// stores possible errors within [Default].
func Errorf(format string, a ...any) {
	if terminal == nil {
		panic("tried to call nil Terminal")
	}

	terminal.Errorf(format, a...)
}

// Printf formats according to a format specifier and writes to standard output
// of [Default]. It stores possible errors within [Default].
func Printf(format string, a ...any) {
	if terminal == nil {
		panic("tried to call nil Terminal")
	}

	terminal.Printf(format, a...)
}

// Set sets the default Terminal instance.
func Set(s *Terminal) {
	terminal = s
}

// Width returns the current terminal width (in characters) or a default of 80
// if it cannot be determined.
func Width() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}

	return defaultWidth
}

func (s *Terminal) appendErr(err error) {
	s.err.append(err)
}

func (s *Terminal) colorf(c code, format string, a ...any) string {
	msg := fmt.Sprintf(format, a...)

	if !s.colors() {
		return msg
	}

	// Keep the trailing newline outside of the color codes.
	body, nl := strings.CutSuffix(msg, "\n")

	msg = fmt.Sprintf("%c[%dm%s%c[%dm", escape, c, body, escape, reset)
	if nl {
		msg += "\n"
	}

	return msg
}

func (s *Terminal) colorln(c code, a ...any) string {
	if !s.colors() {
		return fmt.Sprintln(a...)
	}

	msg := fmt.Sprintln(a...)
	msg = strings.TrimSuffix(msg, "\n")

	return fmt.Sprintf("%c[%dm%s%c[%dm\n", escape, c, msg, escape, reset)
}

func (s *Terminal) colors() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.colorsEnabled
}

func (f writerFunc) Write(p []byte) (int, error) {
	return f(p)
}

func (s *Terminal) write(mode OutputMode, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error

	switch mode {
	case Stdout:
		_, err = io.WriteString(s.out, msg)
	case Stderr:
		_, err = io.WriteString(s.errOut, msg)
	default:
		err = fmt.Errorf("%w: %v", errInvalidOutputMode, mode)
	}

	if err != nil {
		s.appendErr(err)
	}
}

// isTerminal reports whether v is a file descriptor that refers to a terminal.
func isTerminal(v any) bool {
	f, ok := v.(interface{ Fd() uintptr })
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd())) //nolint:gosec // file descriptors fit in int
}
