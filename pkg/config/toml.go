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

	"github.com/pelletier/go-toml/v2"
	"github.com/walteh/linkdrop/pkg/resolve"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&TOMLParser{})
}

// 🔧 TOMLParser implements the Parser interface for TOML files.
// Rules are written as [[rule]] tables so their order is kept.
type TOMLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *TOMLParser) CanParse(filename string) bool {
	return hasExt(filename, ".toml")
}

// 📝 Parse parses the config from TOML
func (p *TOMLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	type tomlRule struct {
		Pattern  string `toml:"pattern"`
		Template string `toml:"template"`
	}
	type tomlConfig struct {
		Rule              []tomlRule `toml:"rule"`
		OverwriteBehavior *string    `toml:"overwrite_behavior"`
		Extensions        *string    `toml:"extensions"`
	}

	var tomlCfg tomlConfig
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&tomlCfg); err != nil {
		return nil, errors.Errorf("parsing TOML: %w", err)
	}

	cfg := &Config{
		Extensions: tomlCfg.Extensions,
	}
	if tomlCfg.OverwriteBehavior != nil {
		cfg.OverwriteBehavior = *tomlCfg.OverwriteBehavior
	}
	if tomlCfg.Rule != nil {
		cfg.Destination = Rules{}
		for _, r := range tomlCfg.Rule {
			cfg.Destination = append(cfg.Destination, resolve.Rule{Pattern: r.Pattern, Template: r.Template})
		}
	}

	return cfg, nil
}
