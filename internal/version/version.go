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

// Package version provides version information of the current binary. Usually
// the version information is set during build time but the package falls back
// to the module version from the build info.
package version

import (
	"runtime/debug"
	"strings"
	"sync"

	"github.com/anttikivi/semver"
)

// buildVersion is the version number set at build.
var buildVersion = "dev" //nolint:gochecknoglobals // set at build time

// version parses the version number of the program once.
//
//nolint:gochecknoglobals // computed once
var version = sync.OnceValue(func() *semver.Version {
	return semver.MustParse(resolve(buildVersion, mainVersion(), Revision()))
})

// BuildVersion returns the version string for the program set during the build.
func BuildVersion() string {
	return buildVersion
}

// Revision returns the version control revision this program was built from.
func Revision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "no-buildinfo"
	}

	var revision, dirty string

	for _, s := range info.Settings {
		switch {
		case s.Key == "vcs.revision":
			revision = s.Value
		case s.Key == "vcs.modified" && s.Value == "true":
			dirty = "-dirty"
		}
	}

	if revision == "" {
		return "no-vcs"
	}

	return revision + dirty
}

// Version returns the version number of the program.
func Version() *semver.Version {
	return version()
}

// mainVersion returns the version of the main module from the build info.
func mainVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}

	return info.Main.Version
}

// resolve returns the version string to parse. The version set at build takes
// precedence, then the module version, and a development version is used if
// neither is known.
func resolve(build, module, revision string) string {
	if build != "" && build != "dev" {
		return strings.TrimPrefix(build, "v")
	}

	if module == "" || module == "(devel)" {
		return "0.1.0-0.dev." + revision
	}

	return strings.TrimPrefix(module, "v")
}
