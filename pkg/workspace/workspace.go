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

// Package workspace locates the workspace folder a document belongs to.
package workspace

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/linkdrop/pkg/resolve"
	"gitlab.com/tozd/go/errors"
)

// 🏷️ Markers identify a workspace root, checked in each directory walking upward
var Markers = []string{
	".linkdrop.yaml",
	".linkdrop.yml",
	".linkdrop.hcl",
	".linkdrop.toml",
	".linkdrop.json",
	".vscode",
	".git",
}

// 🔍 FindRoot walks up from the document's folder to the nearest directory holding a marker
func FindRoot(ctx context.Context, fs afero.Fs, document string) (string, error) {
	logger := zerolog.Ctx(ctx)

	dir := filepath.Dir(filepath.Clean(document))
	for {
		for _, marker := range Markers {
			ok, err := afero.Exists(fs, filepath.Join(dir, marker))
			if err != nil {
				return "", errors.Errorf("checking %s: %w", filepath.Join(dir, marker), err)
			}
			if ok {
				logger.Debug().Str("root", dir).Str("marker", marker).Msg("workspace root found")
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.Errorf("searching from %s: %w", document, resolve.ErrNoWorkspaceRoot)
		}
		dir = parent
	}
}

// 📐 Contains reports whether path lies inside root (or is root)
func Contains(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// 🎯 Root returns explicit when set (after checking it contains the document), otherwise FindRoot
func Root(ctx context.Context, fs afero.Fs, explicit, document string) (string, error) {
	if explicit == "" {
		return FindRoot(ctx, fs, document)
	}
	root := filepath.Clean(explicit)
	if !Contains(root, document) {
		return "", errors.Errorf("%s is not inside workspace %s: %w", document, root, resolve.ErrNoWorkspaceRoot)
	}
	return root, nil
}
