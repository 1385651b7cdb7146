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

// Package cli implements the command-line interface of taskgate. The CLI
// parses the configuration, admits the configured tasks and task sources to
// a registry, and runs the selected command.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/reginald-project/taskgate/internal/config"
	"github.com/reginald-project/taskgate/internal/contract"
	"github.com/reginald-project/taskgate/internal/flags"
	"github.com/reginald-project/taskgate/internal/log"
	"github.com/reginald-project/taskgate/internal/log/logger"
	"github.com/reginald-project/taskgate/internal/registry"
	"github.com/reginald-project/taskgate/internal/samples"
	"github.com/reginald-project/taskgate/internal/terminal"
	"github.com/reginald-project/taskgate/internal/text"
	"github.com/reginald-project/taskgate/internal/version"
	"github.com/spf13/pflag"
)

// Program-related constants.
const (
	ProgramName = "taskgate" // canonical name for the program
	Name        = "taskgate" // name of the command that's run
)

// detailIndent is the indentation of the diagnostic details in the output.
const detailIndent = "    "

// Errors returned by the CLI.
var (
	errUnknownCommand = errors.New("unknown command")
	errTooManyArgs    = errors.New("too many arguments")
)

// A CLI is the command-line interface that runs the program.
type CLI struct {
	// UsageLine is the one-line synopsis of the program.
	UsageLine string

	term     *terminal.Terminal
	flags    *flags.FlagSet
	cfg      *config.Config
	logger   *slog.Logger
	registry *registry.Registry
	commands []*Command
}

// New returns a new CLI that writes its output to t.
func New(t *terminal.Terminal) *CLI {
	return &CLI{
		UsageLine: Name + " [--version] [-h | --help] [<options>] [<command>]",
		term:      t,
		flags:     newFlagSet(),
		cfg:       nil,
		logger:    slog.Default(),
		registry:  nil,
		commands: []*Command{
			newCollect(),
			newShell(),
			newVersion(),
		},
	}
}

// Execute runs the CLI with the command-line arguments args. The arguments
// must not include the program name.
func (c *CLI) Execute(ctx context.Context, args []string) error {
	if err := c.flags.Parse(args); err != nil {
		return &ExitError{err: fmt.Errorf("failed to parse command-line arguments: %w", err), Code: usageExitCode}
	}

	if err := c.flags.CheckMutuallyExclusive(); err != nil {
		return &ExitError{err: err, Code: usageExitCode}
	}

	if help, err := c.flags.GetBool("help"); err != nil {
		return fmt.Errorf("failed to get the value for command-line option '--help': %w", err)
	} else if help {
		c.printHelp()

		return c.term.Err()
	}

	if v, err := c.flags.GetBool("version"); err != nil {
		return fmt.Errorf("failed to get the value for command-line option '--version': %w", err)
	} else if v {
		c.printVersion()

		return c.term.Err()
	}

	cmd, cmdArgs, err := c.findCommand(c.flags.Args())
	if err != nil {
		return &ExitError{err: err, Code: usageExitCode}
	}

	log.Debug(ctx, c.logger, "resolved command", "cmd", cmd.Name, "args", cmdArgs)

	if cmd.Setup != nil {
		if err = cmd.Setup(ctx, c); err != nil {
			return fmt.Errorf("%w", err)
		}
	}

	if err = cmd.Run(ctx, c, cmdArgs); err != nil {
		return fmt.Errorf("%w", err)
	}

	return c.term.Err()
}

// Lookup returns the command with the given name or alias, or nil if there is
// no such command.
func (c *CLI) Lookup(name string) *Command {
	for _, cmd := range c.commands {
		if cmd.Name == name || slices.Contains(cmd.Aliases, name) {
			return cmd
		}
	}

	return nil
}

// findCommand returns the command named by the first argument and the rest of
// the arguments. Without arguments, the default command is returned.
func (c *CLI) findCommand(args []string) (*Command, []string, error) {
	if len(args) == 0 {
		return c.commands[0], args, nil
	}

	cmd := c.Lookup(args[0])
	if cmd == nil {
		return nil, nil, fmt.Errorf("%w: %s", errUnknownCommand, args[0])
	}

	args = args[1:]

	if len(args) > cmd.MaxArgs {
		return nil, nil, fmt.Errorf("%w for %s: %v", errTooManyArgs, cmd.Name, args)
	}

	return cmd, args, nil
}

// setup parses the config, initializes the user output and the logger, and
// admits the configured tasks and sources to a new registry.
func setup(ctx context.Context, c *CLI) error {
	var err error

	c.cfg, err = config.Parse(ctx, c.logger, c.flags)
	if err != nil {
		return fmt.Errorf("failed to parse the config: %w", err)
	}

	c.term.Init(c.cfg.Quiet, c.cfg.Color)

	if c.logger, err = logger.Init(c.cfg.Logging, c.term); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	log.Debug(ctx, c.logger, "logging initialized")
	log.Info(ctx, c.logger, "running taskgate", "version", version.Version(), "commit", version.Revision())

	c.registry = registry.New(registry.WithLogger(c.logger), registry.WithConcurrency(c.cfg.Concurrency))

	var tasks, sources []any

	if c.cfg.Samples {
		tasks, sources = samples.Demo()
	}

	dir, err := c.configDir()
	if err != nil {
		return err
	}

	configured, err := samples.FromConfig(c.cfg.Sources, dir)
	if err != nil {
		return fmt.Errorf("failed to create the configured sources: %w", err)
	}

	c.admit(ctx, tasks, append(sources, configured...))

	return nil
}

// configDir returns the directory that the relative paths in the config are
// resolved against.
func (c *CLI) configDir() (string, error) {
	if c.cfg.File != "" {
		return filepath.Dir(c.cfg.File), nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get the working directory: %w", err)
	}

	return wd, nil
}

// admit passes the tasks and sources to the registry and reports each
// outcome to the user.
func (c *CLI) admit(ctx context.Context, tasks, sources []any) {
	for _, v := range tasks {
		c.addTask(ctx, v)
	}

	for _, v := range sources {
		ok, diag := c.registry.AddSource(ctx, v)
		if ok {
			c.term.Successf("+ source %s\n", diag.Value())

			continue
		}

		c.term.Failf("- source %s\n", diag.Value())
		c.term.Mutedf("%s\n", text.Indent(diag.String(), detailIndent))
	}
}

// addTask passes v to the registry and reports the outcome. It reports
// whether v was admitted.
func (c *CLI) addTask(ctx context.Context, v any) bool {
	ok, diag := c.registry.AddTask(ctx, v)
	if ok {
		c.term.Successf("+ task %s\n", diag.Value())

		return true
	}

	c.term.Failf("- task %s\n", diag.Value())
	c.term.Mutedf("%s\n", text.Indent(diag.String(), detailIndent))

	return false
}

// printTasks prints the admitted tasks.
func (c *CLI) printTasks() {
	tasks := c.registry.Tasks()

	c.term.Printf("Tasks (%d):\n", len(tasks))

	for i, t := range tasks {
		c.term.Printf("%s%d. %s\n", detailIndent, i+1, contract.Describe(t))
	}
}

// newFlagSet returns the flag set with the command-line options of
// the program.
func newFlagSet() *flags.FlagSet {
	defaults := config.Default()
	level := defaults.Logging.Level
	color := defaults.Color

	f := flags.NewFlagSet(Name, pflag.ContinueOnError)
	f.SetOutput(io.Discard)
	f.Usage = func() {}

	f.BoolP("help", "h", false, "show the help message and exit", "")
	f.Bool("version", false, "print the version information and exit", "")
	f.StringP(
		"config",
		"c",
		"",
		"use `<path>` as the config file instead of resolving it from the standard locations",
		"",
	)
	f.IntP(
		"concurrency",
		"j",
		defaults.Concurrency,
		"retrieve tasks from at most `<n>` sources at the same time",
		"",
	)
	f.BoolP("quiet", "q", defaults.Quiet, "print only error messages", "")
	f.Bool("samples", defaults.Samples, "admit the built-in sample tasks and sources", "")
	f.Bool("no-samples", !defaults.Samples, "do not admit the built-in sample tasks and sources", "")
	f.Bool("no-log", !defaults.Logging.Enabled, "disable logging", "")
	f.String("log-format", defaults.Logging.Format, "write the logs in `<format>`, either \"json\" or \"text\"", "")
	f.String(
		"log-output",
		defaults.Logging.Output,
		"write the logs to `<output>`, either \"stderr\", \"stdout\", or a file path",
		"",
	)
	f.Var(&level, "log-level", "write only the log messages at `<level>` or above", "")
	f.Var(&color, "color", "enable colors in the output, one of \"auto\", \"always\", or \"never\"", "")
	f.MarkMutuallyExclusive("samples", "no-samples")

	return f
}
