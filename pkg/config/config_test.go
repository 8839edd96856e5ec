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
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/packsync/pkg/manifest"
	"github.com/walteh/packsync/pkg/provider"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		config      string
		wantErr     bool
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name:     "yaml_overrides",
			filename: ".packsync.yaml",
			config: `
mods_dir: minecraft/mods
artifact_pattern: "*.{jar,zip}"
user_agent: my-tool/1.0
precedence: [launcher, instance, pack]
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, filepath.Join("minecraft", "mods"), cfg.ModsDir, "mods dir should match")
				assert.Equal(t, filepath.Join("minecraft", "mods", ".index"), cfg.IndexDir, "index dir follows mods dir")
				assert.Equal(t, "*.{jar,zip}", cfg.ArtifactPattern)
				assert.Equal(t, "my-tool/1.0", cfg.UserAgent)
				assert.Equal(t, []string{"launcher", "instance", "pack"}, cfg.Precedence)
				assert.Equal(t, "*.toml", cfg.DescriptorPattern, "unset fields get defaults")
			},
		},
		{
			name:     "empty_yaml_is_defaults",
			filename: "packsync.yml",
			config:   "",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, Default(), cfg)
			},
		},
		{
			name:        "yaml_unknown_field",
			filename:    "packsync.yaml",
			config:      "mod_dir: typo\n",
			wantErr:     true,
			errContains: "parsing YAML",
		},
		{
			name:     "json",
			filename: "packsync.json",
			config:   `{"index_dir": "index", "download_url": "https://mirror.local/{first}/{second}/{filename}"}`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "index", cfg.IndexDir)
				assert.Equal(t, "mods", cfg.ModsDir)
				assert.Equal(t, "https://mirror.local/{first}/{second}/{filename}", cfg.DownloadURL)
			},
		},
		{
			name:        "json_unknown_field",
			filename:    "packsync.json",
			config:      `{"nope": true}`,
			wantErr:     true,
			errContains: "parsing JSON",
		},
		{
			name:     "hcl_with_mods_variable",
			filename: "packsync.hcl",
			config: `
mods_dir   = "game/mods"
index_dir  = "${mods}/.meta"
precedence = ["pack"]
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, filepath.Join("game", "mods"), cfg.ModsDir)
				assert.Equal(t, filepath.Join("game", "mods", ".meta"), cfg.IndexDir)
				assert.Equal(t, []string{"pack"}, cfg.Precedence)
			},
		},
		{
			name:        "hcl_unknown_attribute",
			filename:    "packsync.hcl",
			config:      `bogus = 1`,
			wantErr:     true,
			errContains: "decoding HCL",
		},
		{
			name:        "unknown_precedence_source",
			filename:    "packsync.yaml",
			config:      "precedence: [pack, curseforge]\n",
			wantErr:     true,
			errContains: `unknown metadata source "curseforge"`,
		},
		{
			name:        "duplicate_precedence_source",
			filename:    "packsync.yaml",
			config:      "precedence: [pack, pack]\n",
			wantErr:     true,
			errContains: "listed twice",
		},
		{
			name:        "template_without_filename",
			filename:    "packsync.yaml",
			config:      "download_url: https://example.com/{first}/{second}\n",
			wantErr:     true,
			errContains: "download_url",
		},
		{
			name:        "unsupported_extension",
			filename:    "packsync.ini",
			config:      "mods_dir=x",
			wantErr:     true,
			errContains: "no parser found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
			path := filepath.Join(t.TempDir(), tt.filename)
			require.NoError(t, os.WriteFile(path, []byte(tt.config), 0644))

			cfg, err := Load(ctx, path)
			if tt.wantErr {
				require.Error(t, err, "expected an error")
				assert.Contains(t, err.Error(), tt.errContains, "error message should match")
				return
			}

			require.NoError(t, err, "load should succeed")
			tt.check(t, cfg)
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "mods", cfg.ModsDir)
	assert.Equal(t, filepath.Join("mods", ".index"), cfg.IndexDir)
	assert.Equal(t, "*.toml", cfg.DescriptorPattern)
	assert.Equal(t, "*.jar", cfg.ArtifactPattern)
	assert.Equal(t, string(provider.DefaultURLTemplate), cfg.DownloadURL)
	assert.Equal(t, "pack.toml", cfg.PackFile)
	assert.Equal(t, ".packignore", cfg.IgnoreFile)
	assert.Equal(t, filepath.Join("..", "mmc-pack.json"), cfg.LauncherFile)
	assert.Equal(t, filepath.Join("..", "instance.cfg"), cfg.InstanceFile)
	assert.Equal(t, manifest.DefaultPrecedence, cfg.Precedence)

	cfg.Precedence[0] = "changed"
	assert.Equal(t, manifest.SourcePack, manifest.DefaultPrecedence[0], "defaults are copied")
}

func TestLoadOrDefault(t *testing.T) {
	ctx := context.Background()
	missing := filepath.Join(t.TempDir(), DefaultFile)

	cfg, err := LoadOrDefault(ctx, missing, false)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = LoadOrDefault(ctx, missing, true)
	assert.Error(t, err, "an explicit config path must exist")
}

func TestMetadataPaths(t *testing.T) {
	cfg := Default()
	cfg.PackFile = "/abs/pack.toml"

	paths := cfg.MetadataPaths("/work/.minecraft")
	assert.Equal(t, "/abs/pack.toml", paths.Pack)
	assert.Equal(t, filepath.Join("/work", "mmc-pack.json"), paths.Launcher)
	assert.Equal(t, filepath.Join("/work", "instance.cfg"), paths.Instance)
}

func TestGetParser(t *testing.T) {
	tests := []struct {
		file string
		want Parser
	}{
		{file: ".packsync.yaml", want: &YAMLParser{}},
		{file: "packsync.YML", want: &YAMLParser{}},
		{file: "packsync.HCL", want: &HCLParser{}},
		{file: "packsync.Json", want: &JSONParser{}},
		{file: "packsync.toml", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			got := GetParser(tt.file)
			if tt.want == nil {
				assert.Nil(t, got, "no parser should claim %s", tt.file)
				return
			}
			assert.IsType(t, tt.want, got)
		})
	}
}
