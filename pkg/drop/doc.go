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
Package drop turns one drop or paste event into file copies and link text.

	+-----------+     +------------+     +-----------+     +-----------+
	|  Event    | --> | Extension  | --> | Resolver  | --> |   Edit    |
	| (items)   |     |  filter    |     | (dest)    |     | (plan)    |
	+-----------+     +------------+     +-----------+     +-----+-----+
	                                                             |
	                                                       +-----+-----+
	                                                       |  Apply    |
	                                                       | (copies)  |
	                                                       +-----------+

🔄 Flow:
1. Every item is checked against the allowed extensions
2. The destination is resolved; collisions inside the same event are avoided too
3. A FileCreate with its [[relative|name]] link is appended to the Edit
4. Apply copies each file and returns the entries that landed

⚡ Failure handling:
- No workspace root aborts the whole event
- Unsupported extensions are skipped with an informational notice
- Name exhaustion and copy errors skip only that item
- Cancellation stops before the next item; landed copies stay
*/
package drop
