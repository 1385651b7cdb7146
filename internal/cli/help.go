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
	"fmt"
	"strings"

	"github.com/reginald-project/taskgate/internal/terminal"
	"github.com/reginald-project/taskgate/internal/text"
	"github.com/reginald-project/taskgate/internal/version"
)

//nolint:lll
const description = `taskgate admits values that satisfy the task contract or the task source contract to a registry and collects the tasks from the admitted sources. A task exposes an integer or string id and a payload. A task source exposes a GetTasks method that returns a sequence of candidate tasks.`

// printHelp prints the help message to the standard output.
func (c *CLI) printHelp() {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Usage: %s\n\n", c.UsageLine)
	sb.WriteString(text.Wrap(description, terminal.Width()))
	sb.WriteString("\nCommands:\n")

	width := 0
	for _, cmd := range c.commands {
		width = max(width, len(cmd.UsageLine))
	}

	for i, cmd := range c.commands {
		short := cmd.Short
		if i == 0 {
			short += " (default)"
		}

		fmt.Fprintf(&sb, "  %-*s  %s\n", width, cmd.UsageLine, short)
	}

	sb.WriteString("\nOptions:\n")
	sb.WriteString(c.flags.Help())
	sb.WriteString("\n")

	c.term.Printf("%s", sb.String())
}

// printVersion prints the version information to the standard output.
func (c *CLI) printVersion() {
	c.term.Printf("%s %v (%s)\n", ProgramName, version.Version(), version.Revision())
}
