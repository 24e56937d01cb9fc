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
Package config loads destination rules, the overwrite policy and the allowed
extension list for linkdrop.

	            +-------------+
	            |   Config    |
	            | (Settings)  |
	            +------+------+
	                   |
	  +--------+-------+-------+---------+
	  |        |               |         |
	+-+--+  +--+--+        +---+---+  +--+---------+
	|YAML|  | HCL |        | TOML  |  | JSON/JSONC |
	+----+  +-----+        +-------+  +------------+

🎯 Purpose:
- Parses every supported format into one Config
- Keeps destination rules in the order they were written
- Layers user, editor and workspace configuration

🔄 Flow (lowest precedence first):
1. Built-in defaults
2. User config in $XDG_CONFIG_HOME/linkdrop/
3. .vscode/settings.json in the workspace
4. The first .linkdrop.* file in the workspace
5. Command line flags (applied by the caller with Merge)

A later layer replaces a field only when it sets it.

🔍 Example:

	cfg, err := config.LoadWorkspace(ctx, afero.NewOsFs(), "/ws", config.UserConfigFile())
	if err != nil {
		return err
	}
	settings, err := cfg.Settings()
*/
package config
