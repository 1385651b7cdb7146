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

// Package main is the entry point for taskgate. It admits the configured tasks
// and task sources to a registry and collects the tasks from the sources.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/reginald-project/taskgate/internal/cli"
	"github.com/reginald-project/taskgate/internal/log"
	"github.com/reginald-project/taskgate/internal/log/logger"
	"github.com/reginald-project/taskgate/internal/panichandler"
	"github.com/reginald-project/taskgate/internal/terminal"
	"github.com/reginald-project/taskgate/internal/version"
)

func main() {
	code := run()
	if code != 0 {
		os.Exit(code)
	}
}

func run() int {
	defer panichandler.Handle()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	panichandler.SetCancel(cancel)

	if err := logger.InitBootstrap(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		return 1
	}

	log.Debug(ctx, slog.Default(), "bootstrap logger initialized")
	log.Info(ctx, slog.Default(), "bootstrapping taskgate", "version", version.Version(), "commit", version.Revision())

	t := terminal.NewStd()
	terminal.Set(t)

	if err := cli.New(t).Execute(ctx, os.Args[1:]); err != nil {
		terminal.Errorf("Error: %v\n", err)

		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.Code
		}

		return 1
	}

	return 0
}
