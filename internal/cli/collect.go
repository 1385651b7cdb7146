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

// runCollect collects the tasks from the admitted sources and prints
// the admitted tasks.
func runCollect(ctx context.Context, c *CLI, _ []string) error {
	collect(ctx, c)
	c.printTasks()

	return nil
}

// collect runs a single collection pass and prints a summary of it.
func collect(ctx context.Context, c *CLI) {
	before, sources := c.registry.Len()

	c.registry.CollectFromSources(ctx)

	after, _ := c.registry.Len()

	c.term.Printf("Collected %d tasks from %d sources\n", after-before, sources)
}
