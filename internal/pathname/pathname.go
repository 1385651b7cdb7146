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

// Package pathname contains the path utilities for the file names given by
// the user in the config file, in the environment, and on the command line.
package pathname

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Abs returns an absolute representation of path. Environment variables and
// a leading "~" are expanded first, and relative paths are joined with
// the current working directory.
func Abs(path string) (string, error) {
	return Resolve("", path)
}

// Resolve is like [Abs] but joins relative paths with dir instead of
// the current working directory. An empty dir means the working directory.
func Resolve(dir, path string) (string, error) {
	path, err := ExpandUser(os.ExpandEnv(path))
	if err != nil {
		return "", err
	}

	if !filepath.IsAbs(path) && dir != "" {
		path = filepath.Join(dir, path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to make %q absolute: %w", path, err)
	}

	return abs, nil
}

// ExpandUser replaces a leading "~" in path with the home directory of
// the current user.
func ExpandUser(path string) (string, error) {
	rest, ok := strings.CutPrefix(path, "~")
	if !ok || (rest != "" && rest[0] != '/' && rest[0] != os.PathSeparator) {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get the user home dir: %w", err)
	}

	return filepath.Join(home, rest), nil
}

// IsFile reports whether the file name exists and is not a directory.
func IsFile(name string) (bool, error) {
	info, err := os.Stat(name)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("%w", err)
	}

	return !info.IsDir(), nil
}
