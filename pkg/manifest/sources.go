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

package manifest

import (
	"context"
	"encoding/json"
	"os"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/ini.v1"
)

// Source names used in a precedence list
const (
	SourcePack     = "pack"
	SourceLauncher = "launcher"
	SourceInstance = "instance"
)

// Loader id prefixes
const (
	LoaderForge    = "forge"
	LoaderNeoForge = "neoforge"
	LoaderFabric   = "fabric"
	LoaderQuilt    = "quilt"
)

// DefaultPrecedence consults the pack file first; later sources overwrite
// earlier ones, so instance settings win over the pack file for the fields
// both define.
var DefaultPrecedence = []string{SourcePack, SourceLauncher, SourceInstance}

// 🔎 Source reads manifest fields from one external file. Read returns
// (nil, nil) when the file does not exist.
type Source interface {
	Name() string
	Read(ctx context.Context) (*Manifest, error)
}

// Paths locates the files behind each named source
type Paths struct {
	Pack     string
	Launcher string
	Instance string
}

// KnownSource reports whether name can appear in a precedence list
func KnownSource(name string) bool {
	switch name {
	case SourcePack, SourceLauncher, SourceInstance:
		return true
	}
	return false
}

// SourcesFor builds the sources named in precedence, in that order
func SourcesFor(paths Paths, precedence []string) ([]Source, error) {
	if precedence == nil {
		precedence = DefaultPrecedence
	}

	sources := make([]Source, 0, len(precedence))
	for _, name := range precedence {
		switch name {
		case SourcePack:
			sources = append(sources, &PackSource{Path: paths.Pack})
		case SourceLauncher:
			sources = append(sources, &LauncherSource{Path: paths.Launcher})
		case SourceInstance:
			sources = append(sources, &InstanceSource{Path: paths.Instance})
		default:
			return nil, errors.Errorf("unknown metadata source %q", name)
		}
	}
	return sources, nil
}

// PackSource reads pack.toml
type PackSource struct {
	Path string
}

func (s *PackSource) Name() string { return SourcePack }

func (s *PackSource) Read(ctx context.Context) (*Manifest, error) {
	p, err := LoadPack(s.Path)
	if err != nil || p == nil {
		return nil, err
	}
	m := p.Manifest()
	return &m, nil
}

// launcherComponents maps launcher component uids to loader id prefixes
var launcherComponents = map[string]string{
	"net.minecraftforge":         LoaderForge,
	"net.neoforged":              LoaderNeoForge,
	"net.fabricmc.fabric-loader": LoaderFabric,
	"org.quiltmc.quilt-loader":   LoaderQuilt,
}

const minecraftComponent = "net.minecraft"

type launcherPack struct {
	Components []struct {
		UID     string `json:"uid"`
		Version string `json:"version"`
	} `json:"components"`
}

// LauncherSource reads the launcher's mmc-pack.json. Only the minecraft
// version and loader id are taken from it.
type LauncherSource struct {
	Path string
}

func (s *LauncherSource) Name() string { return SourceLauncher }

func (s *LauncherSource) Read(ctx context.Context) (*Manifest, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Errorf("reading launcher file: %w", err)
	}

	var pack launcherPack
	if err := json.Unmarshal(data, &pack); err != nil {
		return nil, errors.Errorf("decoding launcher file %s: %w", s.Path, err)
	}

	var m Manifest
	for _, c := range pack.Components {
		if c.UID == minecraftComponent {
			m.MCVersion = c.Version
			continue
		}
		if prefix, ok := launcherComponents[c.UID]; ok && m.LoaderID == "" && c.Version != "" {
			m.LoaderID = prefix + "-" + c.Version
		}
	}
	return &m, nil
}

// instance.cfg keys
const (
	keyExportAuthor = "ExportAuthor"
	keyPackVersion  = "ManagedPackVersionName"
	keyPackName     = "ManagedPackName"
)

// InstanceSource reads the launcher's instance.cfg. Only name, version and
// author are taken from it; empty values are ignored.
type InstanceSource struct {
	Path string
}

func (s *InstanceSource) Name() string { return SourceInstance }

func (s *InstanceSource) Read(ctx context.Context) (*Manifest, error) {
	if _, err := os.Stat(s.Path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Errorf("reading instance file: %w", err)
	}

	cfg, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:     true,
		IgnoreContinuation:      true,
		PreserveSurroundedQuote: true,
		SkipUnrecognizableLines: true,
	}, s.Path)
	if err != nil {
		return nil, errors.Errorf("decoding instance file %s: %w", s.Path, err)
	}

	lookup := func(key string) string {
		for _, sec := range cfg.Sections() {
			if sec.HasKey(key) {
				return sec.Key(key).String()
			}
		}
		return ""
	}

	return &Manifest{
		Name:    lookup(keyPackName),
		Version: lookup(keyPackVersion),
		Author:  lookup(keyExportAuthor),
	}, nil
}

// 🧭 Inferencer layers sources in order
type Inferencer struct {
	sources []Source
}

// 🏭 NewInferencer creates an inferencer. Later sources overwrite earlier ones.
func NewInferencer(sources ...Source) *Inferencer {
	return &Inferencer{sources: sources}
}

// Infer merges every available source. Missing files are skipped silently;
// unreadable ones fail.
func (i *Inferencer) Infer(ctx context.Context) (Manifest, error) {
	logger := zerolog.Ctx(ctx)

	var m Manifest
	for _, src := range i.sources {
		got, err := src.Read(ctx)
		if err != nil {
			return Manifest{}, errors.Errorf("reading %s metadata: %w", src.Name(), err)
		}
		if got == nil {
			logger.Debug().Str("source", src.Name()).Msg("metadata source not present")
			continue
		}
		m.Merge(*got)
		logger.Debug().Str("source", src.Name()).Strs("missing", m.Missing()).Msg("applied metadata source")
	}
	return m, nil
}
