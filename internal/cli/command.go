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

import "context"

// A Command is a CLI command.
type Command struct {
	// Name is the name of the command as it should be written by the user when
	// they run the command.
	Name string

	// UsageLine is the one-line usage synopsis for the command.
	UsageLine string

	// Short is the short description of the command shown in the help.
	Short string

	// Aliases are the other names that can be used to run the command.
	Aliases []string

	// Setup prepares the CLI for the command. It may be nil.
	Setup func(ctx context.Context, c *CLI) error

	// Run runs the command with the remaining command-line arguments.
	Run func(ctx context.Context, c *CLI, args []string) error

	// MaxArgs is the number of positional arguments the command accepts.
	MaxArgs int
}

func newCollect() *Command {
	return &Command{
		Name:      "collect",
		UsageLine: "collect",
		Short:     "admit the configured tasks and sources and collect tasks from the sources",
		Aliases:   []string{"run"},
		Setup:     setup,
		Run:       runCollect,
		MaxArgs:   0,
	}
}

func newShell() *Command {
	return &Command{
		Name:      "shell",
		UsageLine: "shell",
		Short:     "admit tasks written as TOML values at an interactive prompt",
		Aliases:   []string{},
		Setup:     setup,
		Run:       runShell,
		MaxArgs:   0,
	}
}

func newVersion() *Command {
	return &Command{
		Name:      "version",
		UsageLine: "version",
		Short:     "print the version information",
		Aliases:   []string{},
		Setup:     nil,
		Run: func(_ context.Context, c *CLI, _ []string) error {
			c.printVersion()

			return nil
		},
		MaxArgs: 0,
	}
}
