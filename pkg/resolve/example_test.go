// Copyright 2025 walteh LLC
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

package resolve_test

import (
	"context"
	"fmt"

	"github.com/spf13/afero"
	"github.com/walteh/linkdrop/pkg/resolve"
)

func ExampleResolver_Resolve() {
	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "/ws/assets/report.pdf", []byte("old"), 0o644)

	r := resolve.New(resolve.NewFsProber(fs))
	dest, err := r.Resolve(context.Background(), resolve.Request{
		WorkspaceRoot: "/ws",
		DocumentPath:  "/ws/notes.md",
		SourcePath:    "/tmp/report.pdf",
		Rules:         resolve.RuleSet{{Pattern: "*.md", Template: "assets/"}},
		Policy:        resolve.NameIncrementally,
	})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Printf("Path: %s\n", dest.Path)
	fmt.Printf("Suffix: %d\n", dest.Suffix)

	// Output:
	// Path: /ws/assets/report-1.pdf
	// Suffix: 1
}
