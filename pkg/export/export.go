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

package export

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/klauspost/compress/zip"
	"github.com/rs/zerolog"
	"github.com/walteh/packsync/pkg/manifest"
	"gitlab.com/tozd/go/errors"
)

const (
	// ManifestEntry is the archive path of the manifest document
	ManifestEntry = "manifest.json"
	archiveExt    = ".zip"
)

// FixedZipTime keeps archives byte-for-byte reproducible (1980-01-01 UTC)
var FixedZipTime = time.Unix(315532800, 0).UTC()

var (
	// ErrInvalidArchiveName is returned for a blank archive name
	ErrInvalidArchiveName = errors.Base("invalid archive name")

	// ErrNoModsConfirmed is returned when no mods are selected and the
	// caller did not confirm an empty pack
	ErrNoModsConfirmed = errors.Base("no mods selected")
)

// NormalizeArchiveName trims name and ensures a .zip suffix. Blank names,
// including a bare ".zip", are rejected.
func NormalizeArchiveName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, archiveExt) {
		return "", errors.Errorf("%w: name is blank", ErrInvalidArchiveName)
	}
	if !strings.HasSuffix(strings.ToLower(name), archiveExt) {
		name += archiveExt
	}
	return name, nil
}

// DefaultArchiveName suggests "<name> <version>.zip"
func DefaultArchiveName(m manifest.Manifest) string {
	return strings.TrimSpace(m.Name+" "+m.Version) + archiveExt
}

// 📦 Request is everything one export needs, already resolved by the caller
type Request struct {
	Manifest manifest.Manifest
	Mods     []manifest.ModRef
	// ConfirmEmpty allows an export with no mods
	ConfirmEmpty bool

	// Source is the workspace the override paths are relative to
	Source billy.Filesystem
	// Overrides are slash-separated paths inside Source
	Overrides []string

	ArchiveName string
	// OutputDir defaults to the current directory
	OutputDir string
}

// 🚀 Export validates req and writes the archive, returning its path. The
// archive only appears at that path after a clean close; on any failure no
// file is left behind.
func Export(ctx context.Context, req Request) (string, error) {
	logger := zerolog.Ctx(ctx)

	doc, err := req.Manifest.Document(req.Mods)
	if err != nil {
		return "", err
	}

	if len(req.Mods) == 0 && !req.ConfirmEmpty {
		return "", errors.Errorf("%w: confirmation required", ErrNoModsConfirmed)
	}

	name, err := NormalizeArchiveName(req.ArchiveName)
	if err != nil {
		return "", err
	}

	if len(req.Overrides) > 0 && req.Source == nil {
		return "", errors.Errorf("override files given without a source filesystem")
	}

	data, err := doc.Marshal()
	if err != nil {
		return "", err
	}

	dir := req.OutputDir
	if dir == "" {
		dir = "."
	}
	target := filepath.Join(dir, name)

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return "", errors.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".packsync-export-*.zip")
	if err != nil {
		return "", errors.Errorf("creating archive: %w", err)
	}
	tempPath := tmp.Name()

	if err := writeArchive(tmp, data, req.Source, req.Overrides); err != nil {
		tmp.Close()
		os.Remove(tempPath)
		return "", err
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tempPath)
		return "", errors.Errorf("closing archive: %w", err)
	}

	if err := os.Rename(tempPath, target); err != nil {
		os.Remove(tempPath)
		return "", errors.Errorf("moving archive into place: %w", err)
	}

	logger.Info().
		Str("archive", target).
		Int("mods", len(req.Mods)).
		Int("overrides", len(req.Overrides)).
		Msg("exported pack")

	return target, nil
}

// writeArchive writes manifest.json first, then the overrides in sorted order
func writeArchive(w io.Writer, manifestJSON []byte, src billy.Filesystem, overrides []string) error {
	zw := zip.NewWriter(w)

	if err := writeEntry(zw, ManifestEntry, func(w io.Writer) error {
		_, err := w.Write(manifestJSON)
		return err
	}); err != nil {
		zw.Close()
		return err
	}

	paths := make([]string, len(overrides))
	copy(paths, overrides)
	sort.Strings(paths)

	for _, rel := range paths {
		rel = filepath.ToSlash(rel)
		err := writeEntry(zw, manifest.OverridesDir+"/"+rel, func(w io.Writer) error {
			f, err := src.Open(rel)
			if err != nil {
				return err
			}
			defer f.Close()
			_, err = io.Copy(w, f)
			return err
		})
		if err != nil {
			zw.Close()
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return errors.Errorf("finishing archive: %w", err)
	}
	return nil
}

func writeEntry(zw *zip.Writer, name string, fill func(w io.Writer) error) error {
	h := &zip.FileHeader{Name: name, Method: zip.Deflate}
	h.SetMode(0o644)
	h.Modified = FixedZipTime

	w, err := zw.CreateHeader(h)
	if err != nil {
		return errors.Errorf("creating entry %s: %w", name, err)
	}
	if err := fill(w); err != nil {
		return errors.Errorf("writing entry %s: %w", name, err)
	}
	return nil
}
