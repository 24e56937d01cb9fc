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

package drop

import (
	"path/filepath"
	"sort"
	"strings"
)

// 📄 DefaultExtensions is used when no extension list is configured
const DefaultExtensions = "pdf"

// 🔍 Extensions is a lower-cased set of allowed file extensions, without leading dots
type Extensions map[string]struct{}

// 🏭 ParseExtensions splits a comma separated list such as "pdf, PNG"
func ParseExtensions(list string) Extensions {
	exts := Extensions{}
	for _, part := range strings.Split(list, ",") {
		ext := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(part), "."))
		if ext == "" {
			continue
		}
		exts[ext] = struct{}{}
	}
	return exts
}

// ✅ Allows reports whether path carries an allowed extension
func (e Extensions) Allows(path string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return false
	}
	_, ok := e[ext]
	return ok
}

// 📝 String returns the sorted, comma separated list
func (e Extensions) String() string {
	list := make([]string, 0, len(e))
	for ext := range e {
		list = append(list, ext)
	}
	sort.Strings(list)
	return strings.Join(list, ",")
}
