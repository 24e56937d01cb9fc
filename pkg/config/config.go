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
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/linkdrop/pkg/drop"
	"github.com/walteh/linkdrop/pkg/resolve"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📚 Config holds linkdrop settings. Unset fields are nil or empty so layers can be merged.
type Config struct {
	Destination       Rules   `json:"destination,omitempty" yaml:"destination,omitempty"`
	OverwriteBehavior string  `json:"overwrite_behavior,omitempty" yaml:"overwrite_behavior,omitempty"`
	Extensions        *string `json:"extensions,omitempty" yaml:"extensions,omitempty"`

	// Sources lists the files merged into this config, lowest precedence first
	Sources []string `json:"-" yaml:"-"`
}

// 🎯 Load loads the configuration from a single file
func Load(ctx context.Context, fs afero.Fs, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config %s: %w", path, err)
	}

	for _, rule := range cfg.Destination {
		if !doublestar.ValidatePattern(rule.Pattern) {
			logger.Warn().Str("path", path).Str("pattern", rule.Pattern).Msg("destination pattern is invalid and will never match")
		}
	}

	cfg.Sources = []string{path}
	return cfg, nil
}

// 🔍 Validate checks if the configuration is valid
func (cfg *Config) Validate() error {
	if _, err := resolve.ParseOverwritePolicy(cfg.OverwriteBehavior); err != nil {
		return errors.Errorf("overwrite_behavior: %w", err)
	}
	for i, rule := range cfg.Destination {
		if rule.Pattern == "" {
			return errors.Errorf("destination rule %d: pattern is required", i)
		}
	}
	return nil
}

// 🔧 ApplyDefaults fills unset fields
func (cfg *Config) ApplyDefaults() {
	if cfg.OverwriteBehavior == "" {
		cfg.OverwriteBehavior = string(resolve.NameIncrementally)
	}
	if cfg.Extensions == nil {
		exts := drop.DefaultExtensions
		cfg.Extensions = &exts
	}
}

// 🔄 Merge overlays every field set in over
func (cfg *Config) Merge(over *Config) {
	if over == nil {
		return
	}
	if over.Destination != nil {
		cfg.Destination = append(Rules{}, over.Destination...)
	}
	if over.OverwriteBehavior != "" {
		cfg.OverwriteBehavior = over.OverwriteBehavior
	}
	if over.Extensions != nil {
		exts := *over.Extensions
		cfg.Extensions = &exts
	}
	cfg.Sources = append(cfg.Sources, over.Sources...)
}

// 🎯 Settings converts the config into drop settings, applying defaults for unset fields
func (cfg *Config) Settings() (drop.Settings, error) {
	policy, err := resolve.ParseOverwritePolicy(cfg.OverwriteBehavior)
	if err != nil {
		return drop.Settings{}, errors.Errorf("overwrite_behavior: %w", err)
	}
	exts := drop.DefaultExtensions
	if cfg.Extensions != nil {
		exts = *cfg.Extensions
	}
	return drop.Settings{
		Rules:      resolve.RuleSet(cfg.Destination),
		Policy:     policy,
		Extensions: drop.ParseExtensions(exts),
	}, nil
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	policy := cfg.OverwriteBehavior
	if policy == "" {
		policy = string(resolve.NameIncrementally)
	}
	exts := drop.DefaultExtensions
	if cfg.Extensions != nil {
		exts = *cfg.Extensions
	}
	patterns := make([]string, 0, len(cfg.Destination))
	for _, rule := range cfg.Destination {
		patterns = append(patterns, rule.Pattern)
	}
	return fmt.Sprintf("rules=[%s] overwrite=%s extensions=%s", strings.Join(patterns, " "), policy, exts)
}

// 🔍 hasExt reports whether filename ends in one of exts, ignoring case
func hasExt(filename string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
