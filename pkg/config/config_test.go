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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/linkdrop/pkg/resolve"
	"gopkg.in/yaml.v3"
)

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func strPtr(s string) *string { return &s }

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		config      string
		wantErr     bool
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "yaml_mapping_keeps_order",
			file: ".linkdrop.yaml",
			config: `
destination:
  "docs/**": "assets/"
  "*.md": "${documentBaseName}_files/"
  "a/*": ""
overwrite_behavior: overwrite
extensions: pdf, png
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, Rules{
					{Pattern: "docs/**", Template: "assets/"},
					{Pattern: "*.md", Template: "${documentBaseName}_files/"},
					{Pattern: "a/*", Template: ""},
				}, cfg.Destination, "rules should keep file order")
				assert.Equal(t, "overwrite", cfg.OverwriteBehavior)
				require.NotNil(t, cfg.Extensions)
				assert.Equal(t, "pdf, png", *cfg.Extensions)
			},
		},
		{
			name: "yaml_list",
			file: "config.yml",
			config: `
destination:
  - pattern: "**/*.md"
    template: media/
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, Rules{{Pattern: "**/*.md", Template: "media/"}}, cfg.Destination)
				assert.Empty(t, cfg.OverwriteBehavior, "unset policy should stay empty")
				assert.Nil(t, cfg.Extensions, "unset extensions should stay nil")
			},
		},
		{
			name:   "yaml_empty",
			file:   ".linkdrop.yaml",
			config: "",
			check: func(t *testing.T, cfg *Config) {
				assert.Nil(t, cfg.Destination)
			},
		},
		{
			name:        "yaml_unknown_field",
			file:        ".linkdrop.yaml",
			config:      "destinations: {}\n",
			wantErr:     true,
			errContains: "parsing YAML",
		},
		{
			name:        "yaml_scalar_destination",
			file:        ".linkdrop.yaml",
			config:      "destination: assets/\n",
			wantErr:     true,
			errContains: "must be a mapping or a list",
		},
		{
			name:        "invalid_policy",
			file:        ".linkdrop.yaml",
			config:      "overwrite_behavior: replace\n",
			wantErr:     true,
			errContains: "unknown overwrite behavior",
		},
		{
			name: "hcl_blocks",
			file: ".linkdrop.hcl",
			config: `
rule "docs/**" {
  template = "assets/"
}
rule "*.md" {
  template = "${documentBaseName}_files/"
}
overwrite_behavior = "nameIncrementally"
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, Rules{
					{Pattern: "docs/**", Template: "assets/"},
					{Pattern: "*.md", Template: "${documentBaseName}_files/"},
				}, cfg.Destination)
				assert.Equal(t, "nameIncrementally", cfg.OverwriteBehavior)
				assert.Nil(t, cfg.Extensions)
			},
		},
		{
			name:        "hcl_unknown_attribute",
			file:        ".linkdrop.hcl",
			config:      "colour = \"blue\"\n",
			wantErr:     true,
			errContains: "decoding HCL",
		},
		{
			name: "toml_tables",
			file: ".linkdrop.toml",
			config: `
extensions = "pdf,docx"

[[rule]]
pattern = "notes/**"
template = "../attachments/"

[[rule]]
pattern = "**"
template = "files/"
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, Rules{
					{Pattern: "notes/**", Template: "../attachments/"},
					{Pattern: "**", Template: "files/"},
				}, cfg.Destination)
				require.NotNil(t, cfg.Extensions)
				assert.Equal(t, "pdf,docx", *cfg.Extensions)
			},
		},
		{
			name:        "toml_unknown_field",
			file:        ".linkdrop.toml",
			config:      "color = \"blue\"\n",
			wantErr:     true,
			errContains: "parsing TOML",
		},
		{
			name: "json_with_comments",
			file: ".linkdrop.json",
			config: `{
  // kept in order
  "destination": {"z/**": "z/", "a/**": "a/",},
  "extensions": "pdf",
}`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, Rules{
					{Pattern: "z/**", Template: "z/"},
					{Pattern: "a/**", Template: "a/"},
				}, cfg.Destination)
			},
		},
		{
			name: "editor_settings",
			file: filepath.Join(".vscode", "settings.json"),
			config: `{
  "editor.fontSize": 14,
  /* linkdrop */
  "markdown.copyFiles.destination": {
    "**/*.md": "${documentBaseName}/",
  },
  "markdown.copyFiles.overwriteBehavior": "overwrite",
  "extendMediaFiles.extensions": "pdf, svg",
}`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, Rules{{Pattern: "**/*.md", Template: "${documentBaseName}/"}}, cfg.Destination)
				assert.Equal(t, "overwrite", cfg.OverwriteBehavior)
				require.NotNil(t, cfg.Extensions)
				assert.Equal(t, "pdf, svg", *cfg.Extensions)
			},
		},
		{
			name:        "unsupported_extension",
			file:        ".linkdrop.ini",
			config:      "x=1",
			wantErr:     true,
			errContains: "no parser found",
		},
	}

	ctx := testContext(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			path := filepath.Join("/ws", tt.file)
			require.NoError(t, afero.WriteFile(fs, path, []byte(tt.config), 0o644), "writing config file should succeed")

			cfg, err := Load(ctx, fs, path)
			if tt.wantErr {
				require.Error(t, err, "Load should return error")
				assert.Contains(t, err.Error(), tt.errContains, "error should contain expected message")
				return
			}

			require.NoError(t, err, "Load should succeed")
			assert.Equal(t, []string{path}, cfg.Sources)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestLoadWorkspace(t *testing.T) {
	ctx := testContext(t)

	t.Run("layers_in_order", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "/home/u/.config/linkdrop/config.yaml", []byte("extensions: pdf, png\noverwrite_behavior: overwrite\n"), 0o644))
		require.NoError(t, afero.WriteFile(fs, "/ws/.vscode/settings.json", []byte(`{"markdown.copyFiles.destination": {"*.md": "assets/"}}`), 0o644))
		require.NoError(t, afero.WriteFile(fs, "/ws/.linkdrop.hcl", []byte("overwrite_behavior = \"name-incrementally\"\n"), 0o644))
		require.NoError(t, afero.WriteFile(fs, "/ws/.linkdrop.toml", []byte("extensions = \"ignored\"\n"), 0o644))

		cfg, err := LoadWorkspace(ctx, fs, "/ws", "/home/u/.config/linkdrop/config.yaml")
		require.NoError(t, err)

		assert.Equal(t, Rules{{Pattern: "*.md", Template: "assets/"}}, cfg.Destination, "rules come from editor settings")
		assert.Equal(t, "name-incrementally", cfg.OverwriteBehavior, "workspace file overrides user policy")
		require.NotNil(t, cfg.Extensions)
		assert.Equal(t, "pdf, png", *cfg.Extensions, "only the first workspace file is read")
		assert.Equal(t, []string{
			"/home/u/.config/linkdrop/config.yaml",
			"/ws/.vscode/settings.json",
			"/ws/.linkdrop.hcl",
		}, cfg.Sources)

		settings, err := cfg.Settings()
		require.NoError(t, err)
		assert.Equal(t, resolve.NameIncrementally, settings.Policy)
		assert.True(t, settings.Extensions.Allows("a.PNG"))
		assert.Equal(t, resolve.RuleSet{{Pattern: "*.md", Template: "assets/"}}, settings.Rules)
	})

	t.Run("defaults", func(t *testing.T) {
		cfg, err := LoadWorkspace(ctx, afero.NewMemMapFs(), "/ws", "")
		require.NoError(t, err)

		assert.Nil(t, cfg.Destination)
		assert.Equal(t, "name-incrementally", cfg.OverwriteBehavior)
		require.NotNil(t, cfg.Extensions)
		assert.Equal(t, "pdf", *cfg.Extensions)
		assert.Empty(t, cfg.Sources)
	})

	t.Run("empty_destination_clears_lower_layer", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "/ws/.vscode/settings.json", []byte(`{"markdown.copyFiles.destination": {"*.md": "assets/"}}`), 0o644))
		require.NoError(t, afero.WriteFile(fs, "/ws/.linkdrop.yaml", []byte("destination: {}\n"), 0o644))

		cfg, err := LoadWorkspace(ctx, fs, "/ws", "")
		require.NoError(t, err)
		assert.NotNil(t, cfg.Destination)
		assert.Empty(t, cfg.Destination)
	})

	t.Run("broken_workspace_file", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "/ws/.linkdrop.yaml", []byte("overwrite_behavior: [\n"), 0o644))

		_, err := LoadWorkspace(ctx, fs, "/ws", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "loading workspace config")
	})
}

func TestUserConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	xdg.Reload()
	defer xdg.Reload()

	assert.Empty(t, UserConfigFile(), "no user config yet")

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "linkdrop"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "linkdrop", "config.toml"), []byte("extensions = \"pdf\"\n"), 0o644))

	assert.Equal(t, filepath.Join(dir, "linkdrop", "config.toml"), UserConfigFile())
}

func TestMerge(t *testing.T) {
	base := &Config{
		Destination:       Rules{{Pattern: "a", Template: "b"}},
		OverwriteBehavior: "overwrite",
		Extensions:        strPtr("pdf"),
	}
	base.Merge(&Config{Extensions: strPtr("")})

	assert.Equal(t, Rules{{Pattern: "a", Template: "b"}}, base.Destination)
	assert.Equal(t, "overwrite", base.OverwriteBehavior)
	assert.Equal(t, "", *base.Extensions, "an explicit empty list replaces the lower layer")

	settings, err := base.Settings()
	require.NoError(t, err)
	assert.False(t, settings.Extensions.Allows("x.pdf"))
}

func TestConfigString(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
		want string
	}{
		{
			name: "full_config",
			cfg: &Config{
				Destination:       Rules{{Pattern: "docs/**", Template: "assets/"}, {Pattern: "*.md", Template: ""}},
				OverwriteBehavior: "overwrite",
				Extensions:        strPtr("pdf,png"),
			},
			want: "rules=[docs/** *.md] overwrite=overwrite extensions=pdf,png",
		},
		{
			name: "minimal_config",
			cfg:  &Config{},
			want: "rules=[] overwrite=name-incrementally extensions=pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.String(), "String() should match")
		})
	}
}

func TestRulesMarshalYAMLKeepsOrder(t *testing.T) {
	cfg := &Config{Destination: Rules{{Pattern: "z/**", Template: "z/"}, {Pattern: "a/**", Template: "${documentBaseName}/"}}}

	out, err := yaml.Marshal(cfg)
	require.NoError(t, err)

	var back Config
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, cfg.Destination, back.Destination, "rules should come back in the same order")
	assert.Less(t, strings.Index(string(out), "z/**"), strings.Index(string(out), "a/**"))
}
