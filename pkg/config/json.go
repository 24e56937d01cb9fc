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
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/tailscale/hujson"
	"gitlab.com/tozd/go/errors"
)

// 🏷️ Editor setting keys read from settings.json
const (
	SettingDestination       = "markdown.copyFiles.destination"
	SettingOverwriteBehavior = "markdown.copyFiles.overwriteBehavior"
	SettingExtensions        = "extendMediaFiles.extensions"
)

func init() {
	// settings.json must be tried before the generic JSON parser
	Register(&EditorSettingsParser{})
	Register(&JSONParser{})
}

// standardize turns JSONC (comments, trailing commas) into plain JSON
func standardize(data []byte) ([]byte, error) {
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, errors.Errorf("parsing JSONC: %w", err)
	}
	return std, nil
}

// 🔧 JSONParser implements the Parser interface for JSON and JSONC files
type JSONParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *JSONParser) CanParse(filename string) bool {
	return hasExt(filename, ".json", ".jsonc")
}

// 📝 Parse parses the config from JSON bytes
func (p *JSONParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	std, err := standardize(data)
	if err != nil {
		return nil, err
	}

	var cfg Config
	decoder := json.NewDecoder(bytes.NewReader(std))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Errorf("parsing JSON: %w", err)
	}
	return &cfg, nil
}

// 🔧 EditorSettingsParser reads the linkdrop keys out of an editor settings.json.
// Every other key is ignored.
type EditorSettingsParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *EditorSettingsParser) CanParse(filename string) bool {
	return strings.EqualFold(filepath.Base(filename), "settings.json")
}

// 📝 Parse parses the config from editor settings
func (p *EditorSettingsParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	std, err := standardize(data)
	if err != nil {
		return nil, err
	}

	var settings map[string]json.RawMessage
	if err := json.Unmarshal(std, &settings); err != nil {
		return nil, errors.Errorf("parsing settings: %w", err)
	}

	cfg := &Config{}
	if raw, ok := settings[SettingDestination]; ok {
		if err := json.Unmarshal(raw, &cfg.Destination); err != nil {
			return nil, errors.Errorf("%s: %w", SettingDestination, err)
		}
	}
	if raw, ok := settings[SettingOverwriteBehavior]; ok {
		if err := json.Unmarshal(raw, &cfg.OverwriteBehavior); err != nil {
			return nil, errors.Errorf("%s: %w", SettingOverwriteBehavior, err)
		}
	}
	if raw, ok := settings[SettingExtensions]; ok {
		var exts string
		if err := json.Unmarshal(raw, &exts); err != nil {
			return nil, errors.Errorf("%s: %w", SettingExtensions, err)
		}
		cfg.Extensions = &exts
	}

	return cfg, nil
}
