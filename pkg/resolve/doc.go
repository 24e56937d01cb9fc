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

/*
Package resolve computes where a dropped or pasted file should be copied.

	+------------+      +-----------+      +-------------+
	|  Request   | ---> |  Rules    | ---> |  Template   |
	| (doc, src) |      | (globs)   |      | expansion   |
	+------------+      +-----------+      +------+------+
	                                              |
	                                       +------+------+
	                                       |   Prober    |
	                                       | (collision) |
	                                       +-------------+

🎯 Purpose:
- Matches the document's workspace-relative path against ordered glob rules
- Expands ${documentBaseName} in the selected template
- Places the file next to the document, under the expanded template
- Avoids collisions with a bounded numeric suffix

⚡ Key Responsibilities:
- First-match-wins rule selection
- Overwrite policy handling
- Read-only existence probing through an injected Prober

📝 Design Philosophy:
The resolver never creates directories or copies files. Everything it needs is
passed in explicitly so it can be exercised without an editor or a real disk.

🔍 Example:

	r := resolve.New(resolve.NewFsProber(afero.NewOsFs()))
	dest, err := r.Resolve(ctx, resolve.Request{
		WorkspaceRoot: "/ws",
		DocumentPath:  "/ws/notes.md",
		SourcePath:    "/tmp/report.pdf",
		Rules:         resolve.RuleSet{{Pattern: "*.md", Template: "assets/"}},
		Policy:        resolve.NameIncrementally,
	})
	if errors.Is(err, resolve.ErrNoUniqueName) {
		// skip this file
	}
*/
package resolve
