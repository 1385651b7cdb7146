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

// Package text defines general text utilities for the terminal output.
package text

import "strings"

// Indent adds prefix to the beginning of every non-empty line in s.
func Indent(s, prefix string) string {
	lines := strings.Split(s, "\n")

	for i, l := range lines {
		if l != "" {
			lines[i] = prefix + l
		}
	}

	return strings.Join(lines, "\n")
}

// Wrap wraps s to the given width. Paragraphs are separated by blank lines and
// wrapped separately, and the result keeps one blank line between them.
// Words longer than width are put on their own lines. A width less than one
// disables wrapping.
func Wrap(s string, width int) string {
	paragraphs := make([]string, 0)

	for p := range strings.SplitSeq(s, "\n\n") {
		words := strings.Fields(p)
		if len(words) == 0 {
			continue
		}

		if width < 1 {
			paragraphs = append(paragraphs, strings.Join(words, " "))

			continue
		}

		var (
			sb   strings.Builder
			line int
		)

		for _, w := range words {
			switch {
			case line == 0:
			case line+1+len(w) > width:
				sb.WriteByte('\n')

				line = 0
			default:
				sb.WriteByte(' ')

				line++
			}

			sb.WriteString(w)

			line += len(w)
		}

		paragraphs = append(paragraphs, sb.String())
	}

	if len(paragraphs) == 0 {
		return ""
	}

	return strings.Join(paragraphs, "\n\n") + "\n"
}
