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
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/packsync/pkg/manifest"
	"github.com/walteh/packsync/pkg/provider"
	"gitlab.com/tozd/go/errors"
)

// DefaultFile is read from the workspace root when no --config is given
const DefaultFile = ".packsync.yaml"

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given lowercased file name
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

// 🎯 GetParser returns a parser that can handle the given file. Extensions
// match without regard to case.
func GetParser(filename string) Parser {
	name := strings.ToLower(filename)
	for _, p := range parsers {
		if p.CanParse(name) {
			return p
		}
	}
	return nil
}

// 📚 Config holds every path, pattern and template the engines use. Relative
// paths are resolved against the workspace root.
type Config struct {
	ModsDir           string   `json:"mods_dir,omitempty" yaml:"mods_dir,omitempty" hcl:"mods_dir,optional"`
	IndexDir          string   `json:"index_dir,omitempty" yaml:"index_dir,omitempty" hcl:"index_dir,optional"`
	DescriptorPattern string   `json:"descriptor_pattern,omitempty" yaml:"descriptor_pattern,omitempty" hcl:"descriptor_pattern,optional"`
	ArtifactPattern   string   `json:"artifact_pattern,omitempty" yaml:"artifact_pattern,omitempty" hcl:"artifact_pattern,optional"`
	DownloadURL       string   `json:"download_url,omitempty" yaml:"download_url,omitempty" hcl:"download_url,optional"`
	UserAgent         string   `json:"user_agent,omitempty" yaml:"user_agent,omitempty" hcl:"user_agent,optional"`
	PackFile          string   `json:"pack_file,omitempty" yaml:"pack_file,omitempty" hcl:"pack_file,optional"`
	IgnoreFile        string   `json:"ignore_file,omitempty" yaml:"ignore_file,omitempty" hcl:"ignore_file,optional"`
	LauncherFile      string   `json:"launcher_file,omitempty" yaml:"launcher_file,omitempty" hcl:"launcher_file,optional"`
	InstanceFile      string   `json:"instance_file,omitempty" yaml:"instance_file,omitempty" hcl:"instance_file,optional"`
	Precedence        []string `json:"precedence,omitempty" yaml:"precedence,omitempty" hcl:"precedence,optional"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	cfg := &Config{}
	// defaults cannot fail validation
	_ = cfg.Validate()
	return cfg
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads path, falling back to defaults when the file is missing
// and was not asked for explicitly
func LoadOrDefault(ctx context.Context, path string, explicit bool) (*Config, error) {
	if !explicit {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			zerolog.Ctx(ctx).Debug().Str("path", path).Msg("no config file, using defaults")
			return Default(), nil
		}
	}
	return Load(ctx, path)
}

// 🔍 Validate fills defaults, cleans paths and rejects unusable values
func (cfg *Config) Validate() error {
	def := func(v *string, d string) {
		if strings.TrimSpace(*v) == "" {
			*v = d
		}
	}

	def(&cfg.ModsDir, "mods")
	def(&cfg.IndexDir, filepath.Join(cfg.ModsDir, ".index"))
	def(&cfg.DescriptorPattern, "*.toml")
	def(&cfg.ArtifactPattern, "*.jar")
	def(&cfg.DownloadURL, string(provider.DefaultURLTemplate))
	def(&cfg.UserAgent, provider.DefaultUserAgent)
	def(&cfg.PackFile, "pack.toml")
	def(&cfg.IgnoreFile, ".packignore")
	def(&cfg.LauncherFile, filepath.Join("..", "mmc-pack.json"))
	def(&cfg.InstanceFile, filepath.Join("..", "instance.cfg"))
	if len(cfg.Precedence) == 0 {
		cfg.Precedence = append([]string(nil), manifest.DefaultPrecedence...)
	}

	for _, p := range []*string{&cfg.ModsDir, &cfg.IndexDir, &cfg.PackFile, &cfg.IgnoreFile, &cfg.LauncherFile, &cfg.InstanceFile} {
		*p = filepath.Clean(*p)
	}

	seen := make(map[string]bool, len(cfg.Precedence))
	for _, name := range cfg.Precedence {
		if !manifest.KnownSource(name) {
			return errors.Errorf("precedence: unknown metadata source %q", name)
		}
		if seen[name] {
			return errors.Errorf("precedence: source %q listed twice", name)
		}
		seen[name] = true
	}

	if err := provider.URLTemplate(cfg.DownloadURL).Validate(); err != nil {
		return errors.Errorf("download_url: %w", err)
	}

	return nil
}

// Path resolves p against root unless it is absolute
func Path(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

// MetadataPaths locates the manifest sources for a workspace
func (cfg *Config) MetadataPaths(root string) manifest.Paths {
	return manifest.Paths{
		Pack:     Path(root, cfg.PackFile),
		Launcher: Path(root, cfg.LauncherFile),
		Instance: Path(root, cfg.InstanceFile),
	}
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("%s (index %s) <- %s", cfg.ModsDir, cfg.IndexDir, cfg.DownloadURL)
}
