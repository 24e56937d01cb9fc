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

package config

import (
	"context"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// 📄 WorkspaceFiles are tried in order; the first one present is loaded
var WorkspaceFiles = []string{
	".linkdrop.yaml",
	".linkdrop.yml",
	".linkdrop.hcl",
	".linkdrop.toml",
	".linkdrop.json",
}

// 📄 EditorSettingsFile is the editor settings path relative to the workspace root
var EditorSettingsFile = filepath.Join(".vscode", "settings.json")

// 📄 userFiles are looked up under $XDG_CONFIG_HOME/linkdrop and the XDG config dirs
var userFiles = []string{"config.yaml", "config.yml", "config.hcl", "config.toml", "config.json"}

// 🏠 UserConfigFile returns the first user-level config file found, or ""
func UserConfigFile() string {
	for _, name := range userFiles {
		path, err := xdg.SearchConfigFile(filepath.Join("linkdrop", name))
		if err == nil {
			return path
		}
	}
	return ""
}

// 🎯 LoadWorkspace layers the user config, editor settings and the workspace file for root.
// userConfig may be empty. Defaults are applied to the result.
func LoadWorkspace(ctx context.Context, fs afero.Fs, root, userConfig string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	cfg := &Config{}

	if userConfig != "" {
		user, err := Load(ctx, fs, userConfig)
		if err != nil {
			return nil, errors.Errorf("loading user config: %w", err)
		}
		cfg.Merge(user)
	}

	layer := func(path string) (bool, error) {
		ok, err := afero.Exists(fs, path)
		if err != nil {
			return false, errors.Errorf("checking %s: %w", path, err)
		}
		if !ok {
			return false, nil
		}
		loaded, err := Load(ctx, fs, path)
		if err != nil {
			return false, err
		}
		cfg.Merge(loaded)
		return true, nil
	}

	if _, err := layer(filepath.Join(root, EditorSettingsFile)); err != nil {
		return nil, errors.Errorf("loading editor settings: %w", err)
	}

	for _, name := range WorkspaceFiles {
		found, err := layer(filepath.Join(root, name))
		if err != nil {
			return nil, errors.Errorf("loading workspace config: %w", err)
		}
		if found {
			break
		}
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	logger.Debug().Strs("sources", cfg.Sources).Str("config", cfg.String()).Msg("configuration loaded")
	return cfg, nil
}
