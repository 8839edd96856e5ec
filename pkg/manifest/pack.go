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
	"os"

	"github.com/BurntSushi/toml"
	"gitlab.com/tozd/go/errors"
)

// 📋 Pack is the optional pack.toml at the workspace root
type Pack struct {
	Name             string  `toml:"name"`
	Version          string  `toml:"version"`
	MinecraftVersion string  `toml:"minecraft_version"`
	Author           string  `toml:"author"`
	ForgeVersion     string  `toml:"forge_version"`
	NeoForgeVersion  string  `toml:"neoforge_version"`
	FabricVersion    string  `toml:"fabric_version"`
	QuiltVersion     string  `toml:"quilt_version"`
	ExcludeMods      []int64 `toml:"exclude_mods"`
}

// LoaderID returns the loader id for the first loader version set, checking
// forge, neoforge, fabric then quilt
func (p *Pack) LoaderID() string {
	for _, l := range []struct {
		prefix  string
		version string
	}{
		{LoaderForge, p.ForgeVersion},
		{LoaderNeoForge, p.NeoForgeVersion},
		{LoaderFabric, p.FabricVersion},
		{LoaderQuilt, p.QuiltVersion},
	} {
		if l.version != "" {
			return l.prefix + "-" + l.version
		}
	}
	return ""
}

// Manifest returns the fields the pack defines
func (p *Pack) Manifest() Manifest {
	return Manifest{
		Name:      p.Name,
		Version:   p.Version,
		MCVersion: p.MinecraftVersion,
		LoaderID:  p.LoaderID(),
		Author:    p.Author,
	}
}

// LoadPack reads path. A missing file returns (nil, nil).
func LoadPack(path string) (*Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Errorf("reading pack file: %w", err)
	}

	var p Pack
	if _, err := toml.Decode(string(data), &p); err != nil {
		return nil, errors.Errorf("decoding pack file %s: %w", path, err)
	}
	return &p, nil
}
