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

package version

import "testing"

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		build    string
		module   string
		revision string
		want     string
	}{
		{name: "build", build: "v1.2.3", module: "v0.9.0", revision: "abc", want: "1.2.3"},
		{name: "module", build: "dev", module: "v0.9.0", revision: "abc", want: "0.9.0"},
		{name: "devel", build: "dev", module: "(devel)", revision: "abc", want: "0.1.0-0.dev.abc"},
		{name: "no module", build: "", module: "", revision: "no-vcs", want: "0.1.0-0.dev.no-vcs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := resolve(tt.build, tt.module, tt.revision); got != tt.want {
				t.Errorf("resolve(%q, %q, %q) = %q, want %q", tt.build, tt.module, tt.revision, got, tt.want)
			}
		})
	}
}

func TestVersion(t *testing.T) {
	t.Parallel()

	if Version() == nil {
		t.Fatal("Version() = nil")
	}

	if Version() != Version() {
		t.Error("Version() returned a different value on the second call")
	}
}
