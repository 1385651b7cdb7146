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

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/reginald-project/taskgate/internal/log"
	"github.com/reginald-project/taskgate/internal/terminal"
)

// shellPrompt is the prompt shown by the shell command.
const shellPrompt = "taskgate> "

//nolint:lll
const shellIntro = `Enter tasks as TOML values, for example { id = 1, payload = "hello" }.
Type "collect" to collect tasks from the sources, "tasks" to list the admitted tasks, or "exit" to quit.
`

// errInvalidInput is returned when a shell line is neither a command nor
// a TOML value.
var errInvalidInput = errors.New("invalid input")

// Shell line kinds.
const (
	lineEmpty lineKind = iota
	lineValue
	lineCollect
	lineTasks
	lineExit
)

// A lineKind tells what the user entered on a shell line.
type lineKind int

// An asker reads a line of input from the user.
type asker interface {
	Ask(ctx context.Context, prompt string) (string, error)
}

func runShell(ctx context.Context, c *CLI, _ []string) error {
	return shell(ctx, c, c.term)
}

// shell reads lines from in until the input ends or the user exits, and
// admits every value entered as a task.
func shell(ctx context.Context, c *CLI, in asker) error {
	c.term.Printf("%s", shellIntro)

	for {
		line, err := in.Ask(ctx, shellPrompt)

		switch {
		case errors.Is(err, io.EOF), errors.Is(err, terminal.ErrInterrupt):
			log.Debug(ctx, c.logger, "shell input ended", "err", err)

			return nil
		case err != nil:
			return fmt.Errorf("failed to read input: %w", err)
		}

		kind, v, err := parseLine(line)
		if err != nil {
			c.term.Errorf("Error: %v\n", err)

			continue
		}

		switch kind {
		case lineEmpty:
		case lineValue:
			c.addTask(ctx, v)
		case lineCollect:
			collect(ctx, c)
		case lineTasks:
			c.printTasks()
		case lineExit:
			return nil
		}
	}
}

// parseLine parses a line entered in the shell. It returns the decoded value
// if the line is not a shell command.
func parseLine(line string) (lineKind, any, error) {
	line = strings.TrimSpace(line)

	switch line {
	case "":
		return lineEmpty, nil, nil
	case "collect":
		return lineCollect, nil, nil
	case "tasks":
		return lineTasks, nil, nil
	case "exit", "quit":
		return lineExit, nil, nil
	}

	var doc map[string]any

	if err := toml.Unmarshal([]byte("value = "+line), &doc); err != nil {
		return lineEmpty, nil, fmt.Errorf("%w: %q is not a TOML value: %w", errInvalidInput, line, err)
	}

	v, ok := doc["value"]
	if !ok || len(doc) != 1 {
		return lineEmpty, nil, fmt.Errorf("%w: %q is not a single TOML value", errInvalidInput, line)
	}

	return lineValue, v, nil
}
