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

package descriptor

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ModeCurseForge is the only download mode the sync engine can fetch
const ModeCurseForge = "metadata:curseforge"

// 📄 Descriptor is one index record describing a single artifact
type Descriptor struct {
	// File is the index file the record was read from
	File string `toml:"-"`

	Name     string    `toml:"name"`
	Filename string    `toml:"filename"`
	Download *Download `toml:"download"`
	Update   *Update   `toml:"update"`
}

// 📥 Download describes how the artifact is fetched and verified
type Download struct {
	Mode       string `toml:"mode"`
	Hash       string `toml:"hash"`
	HashFormat string `toml:"hash-format"`
}

// 🔄 Update holds per-platform update metadata
type Update struct {
	CurseForge *CurseForge `toml:"curseforge"`
}

// CurseForge locates the artifact on the CurseForge CDN
type CurseForge struct {
	FileID    int64 `toml:"file-id"`
	ProjectID int64 `toml:"project-id"`
}

// FileID returns update.curseforge.file-id, or 0 when absent
func (d *Descriptor) FileID() int64 {
	if d.Update == nil || d.Update.CurseForge == nil {
		return 0
	}
	return d.Update.CurseForge.FileID
}

// ProjectID returns update.curseforge.project-id, or 0 when absent
func (d *Descriptor) ProjectID() int64 {
	if d.Update == nil || d.Update.CurseForge == nil {
		return 0
	}
	return d.Update.CurseForge.ProjectID
}

// field paths checked in order; the first missing one is reported
var (
	requiredFields = [][]string{
		{"name"},
		{"filename"},
		{"download"},
		{"download", "mode"},
		{"download", "hash"},
		{"download", "hash-format"},
	}
	curseForgeFields = [][]string{
		{"update"},
		{"update", "curseforge"},
		{"update", "curseforge", "file-id"},
		{"update", "curseforge", "project-id"},
	}
)

// 🔍 Decode parses and validates one index record. file is used for error
// reporting only. The returned error is a *MalformedError or an
// *UnsupportedModeError; when the TOML itself parsed, the partially decoded
// record is returned with it.
func Decode(file string, data []byte) (*Descriptor, error) {
	var d Descriptor
	md, err := toml.Decode(string(data), &d)
	if err != nil {
		return nil, &MalformedError{File: file, Reason: err.Error()}
	}
	d.File = file

	if field := firstMissing(md, requiredFields); field != "" {
		return &d, &MalformedError{File: file, Field: field, Reason: ReasonMissing}
	}

	if !isLocalPath(d.Filename) {
		return &d, &MalformedError{File: file, Field: "filename", Reason: ReasonEscapes}
	}

	if d.Download.Mode != ModeCurseForge {
		return &d, &UnsupportedModeError{File: file, Mode: d.Download.Mode}
	}

	if field := firstMissing(md, curseForgeFields); field != "" {
		return &d, &MalformedError{File: file, Field: field, Reason: ReasonMissing}
	}

	return &d, nil
}

func firstMissing(md toml.MetaData, fields [][]string) string {
	for _, key := range fields {
		if !md.IsDefined(key...) {
			return strings.Join(key, ".")
		}
	}
	return ""
}

// isLocalPath reports whether name stays inside the directory it is joined to
func isLocalPath(name string) bool {
	if name == "" || filepath.IsAbs(name) || strings.HasPrefix(name, "/") || strings.HasPrefix(name, "\\") {
		return false
	}
	clean := path.Clean(filepath.ToSlash(name))
	return clean != "." && clean != ".." && !strings.HasPrefix(clean, "../")
}

// Referenceable returns the records a modpack manifest can point at: those
// using the curseforge mode with both ids set, whether or not they are
// otherwise valid for syncing.
func Referenceable(results []Result) []*Descriptor {
	out := make([]*Descriptor, 0, len(results))
	for _, r := range results {
		d := r.Descriptor
		if d == nil || d.Download == nil || d.Download.Mode != ModeCurseForge {
			continue
		}
		if d.FileID() <= 0 || d.ProjectID() <= 0 {
			continue
		}
		out = append(out, d)
	}
	return out
}

// Valid returns the descriptors of every result that passed validation
func Valid(results []Result) []*Descriptor {
	out := make([]*Descriptor, 0, len(results))
	for _, r := range results {
		if r.Err == nil && r.Descriptor != nil {
			out = append(out, r.Descriptor)
		}
	}
	return out
}

