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
	"encoding/json"
	"strings"

	"gitlab.com/tozd/go/errors"
)

const (
	ManifestType    = "minecraftModpack"
	ManifestVersion = 1
	OverridesDir    = "overrides"
)

// ErrIncomplete is returned when a document is requested from a manifest
// with an empty scalar field
var ErrIncomplete = errors.Base("manifest incomplete")

// 📦 Manifest holds the scalar fields of an exported pack
type Manifest struct {
	Name      string
	Version   string
	MCVersion string
	LoaderID  string
	Author    string
}

// Missing lists the names of empty fields. Whitespace counts as empty.
func (m Manifest) Missing() []string {
	var out []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"name", m.Name},
		{"version", m.Version},
		{"author", m.Author},
		{"mc_version", m.MCVersion},
		{"loader_id", m.LoaderID},
	} {
		if strings.TrimSpace(f.value) == "" {
			out = append(out, f.name)
		}
	}
	return out
}

// Complete reports whether every scalar field is set
func (m Manifest) Complete() bool {
	return len(m.Missing()) == 0
}

// Merge overwrites fields of m with the non-empty fields of other
func (m *Manifest) Merge(other Manifest) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&m.Name, other.Name)
	set(&m.Version, other.Version)
	set(&m.MCVersion, other.MCVersion)
	set(&m.LoaderID, other.LoaderID)
	set(&m.Author, other.Author)
}

// ModRef points at one CurseForge file
type ModRef struct {
	ProjectID int64
	FileID    int64
}

// 📄 Document is the manifest.json layout
type Document struct {
	Author          string    `json:"author"`
	ManifestType    string    `json:"manifestType"`
	ManifestVersion int       `json:"manifestVersion"`
	Minecraft       Minecraft `json:"minecraft"`
	Name            string    `json:"name"`
	Overrides       string    `json:"overrides"`
	Version         string    `json:"version"`
	Files           []File    `json:"files"`
}

type Minecraft struct {
	ModLoaders []ModLoader `json:"modLoaders"`
	Version    string      `json:"version"`
}

type ModLoader struct {
	ID      string `json:"id"`
	Primary bool   `json:"primary"`
}

type File struct {
	FileID    int64 `json:"fileID"`
	ProjectID int64 `json:"projectID"`
	Required  bool  `json:"required"`
}

// Document builds the manifest.json contents. Every mod is marked required.
func (m Manifest) Document(mods []ModRef) (*Document, error) {
	if missing := m.Missing(); len(missing) > 0 {
		return nil, errors.Errorf("%w: missing %s", ErrIncomplete, strings.Join(missing, ", "))
	}

	files := make([]File, 0, len(mods))
	for _, mod := range mods {
		files = append(files, File{
			FileID:    mod.FileID,
			ProjectID: mod.ProjectID,
			Required:  true,
		})
	}

	return &Document{
		Author:          m.Author,
		ManifestType:    ManifestType,
		ManifestVersion: ManifestVersion,
		Minecraft: Minecraft{
			ModLoaders: []ModLoader{{ID: m.LoaderID, Primary: true}},
			Version:    m.MCVersion,
		},
		Name:      m.Name,
		Overrides: OverridesDir,
		Version:   m.Version,
		Files:     files,
	}, nil
}

// Marshal renders the document indented by two spaces
func (d *Document) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, errors.Errorf("encoding manifest: %w", err)
	}
	return data, nil
}
