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

package terminal_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/reginald-project/taskgate/internal/terminal"
)

var errBroken = errors.New("broken output")

type brokenWriter struct{}

func (brokenWriter) Write(_ []byte) (int, error) {
	return 0, errBroken
}

func newTerminal(quiet bool, colors terminal.ColorMode) (*terminal.Terminal, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer

	t := terminal.New(strings.NewReader(""), &out, &errOut)
	t.Init(quiet, colors)

	return t, &out, &errOut
}

func TestParseColorMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    terminal.ColorMode
		wantErr bool
	}{
		{in: "always", want: terminal.ColorAlways, wantErr: false},
		{in: "TRUE", want: terminal.ColorAlways, wantErr: false},
		{in: "never", want: terminal.ColorNever, wantErr: false},
		{in: "off", want: terminal.ColorNever, wantErr: false},
		{in: "auto", want: terminal.ColorAuto, wantErr: false},
		{in: "", want: terminal.ColorAuto, wantErr: false},
		{in: "rainbow", want: terminal.ColorAuto, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := terminal.ParseColorMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseColorMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}

			if got != tt.want {
				t.Errorf("ParseColorMode(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestColors(t *testing.T) {
	t.Parallel()

	term, out, errOut := newTerminal(false, terminal.ColorAlways)

	term.Successf("added %d\n", 1)
	term.Failf("rejected\n")
	term.Errorf("Error: %s\n", "boom")

	if got, want := out.String(), "\x1b[32madded 1\x1b[0m\n\x1b[31mrejected\x1b[0m\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}

	if got, want := errOut.String(), "\x1b[31mError: boom\x1b[0m\n"; got != want {
		t.Errorf("error output = %q, want %q", got, want)
	}

	term, out, _ = newTerminal(false, terminal.ColorNever)
	term.Mutedf("plain\n")

	if got, want := out.String(), "plain\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestQuiet(t *testing.T) {
	t.Parallel()

	term, out, errOut := newTerminal(true, terminal.ColorNever)

	term.Printf("hidden\n")
	term.Successf("hidden\n")
	term.Warnln("hidden")
	term.Errorf("shown\n")

	if out.Len() != 0 {
		t.Errorf("output = %q, want empty", out)
	}

	if got, want := errOut.String(), "shown\n"; got != want {
		t.Errorf("error output = %q, want %q", got, want)
	}

	if _, err := term.Ask(context.Background(), "> "); !errors.Is(err, terminal.ErrQuietPrompt) {
		t.Errorf("Ask() error = %v, want %v", err, terminal.ErrQuietPrompt)
	}
}

func TestErr(t *testing.T) {
	t.Parallel()

	term := terminal.New(strings.NewReader(""), brokenWriter{}, brokenWriter{})
	term.Init(false, terminal.ColorNever)

	if err := term.Err(); err != nil {
		t.Fatalf("Err() = %v before writing", err)
	}

	for range 20 {
		term.Printf("message\n")
	}

	err := term.Err()
	if !errors.Is(err, errBroken) {
		t.Fatalf("Err() = %v, want it to wrap %v", err, errBroken)
	}

	if !strings.Contains(err.Error(), "and 4 more output errors") {
		t.Errorf("Err() = %q, want the number of dropped errors", err)
	}
}

func TestWriter(t *testing.T) {
	t.Parallel()

	term, out, errOut := newTerminal(false, terminal.ColorAlways)

	if _, err := term.Writer(terminal.Stderr).Write([]byte("log line\n")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	term.Init(true, terminal.ColorNever)

	if n, err := term.Writer(terminal.Stdout).Write([]byte("quiet\n")); err != nil || n != 6 {
		t.Fatalf("Write() = %d, %v, want 6, nil", n, err)
	}

	if got, want := out.String(), "quiet\n"; got != want {
		t.Errorf("output in quiet mode = %q, want %q", got, want)
	}

	if got, want := errOut.String(), "log line\n"; got != want {
		t.Errorf("error output = %q, want %q", got, want)
	}
}
