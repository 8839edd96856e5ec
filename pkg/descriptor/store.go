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
	"context"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DefaultPattern matches index files
const DefaultPattern = "*.toml"

// 📚 Store reads index records from a directory, one file per artifact
type Store struct {
	dir     string
	pattern string
}

// 📋 Result is the outcome of reading one index file. Descriptor is also set
// next to Err when the record parsed but failed validation.
type Result struct {
	File       string
	Descriptor *Descriptor
	Err        error
}

// 🏭 NewStore creates a store over dir. Files whose names match pattern are
// treated as index records.
func NewStore(dir, pattern string) *Store {
	if pattern == "" {
		pattern = DefaultPattern
	}
	return &Store{
		dir:     filepath.Clean(dir),
		pattern: pattern,
	}
}

// Files lists index file names in directory-listing (lexical) order
func (s *Store) Files(ctx context.Context) ([]string, error) {
	if !doublestar.ValidatePattern(s.pattern) {
		return nil, errors.Errorf("invalid index pattern %q: %w", s.pattern, doublestar.ErrBadPattern)
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Errorf("%w: %s", ErrIndexDirNotFound, s.dir)
		}
		return nil, errors.Errorf("reading index directory: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if ok, _ := doublestar.Match(s.pattern, entry.Name()); ok {
			files = append(files, entry.Name())
		}
	}

	zerolog.Ctx(ctx).Debug().
		Str("dir", s.dir).
		Int("total", len(entries)).
		Int("index_files", len(files)).
		Msg("listed index files")

	return files, nil
}

// Read decodes a single index file. Validation failures are returned as
// errors, never panics.
func (s *Store) Read(ctx context.Context, file string) (*Descriptor, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, file))
	if err != nil {
		return nil, errors.Errorf("reading index file %s: %w", file, err)
	}
	return Decode(file, data)
}

// Load reads every index file. A bad file produces a Result with Err set and
// never aborts the batch; only a missing or unreadable directory fails.
func (s *Store) Load(ctx context.Context) ([]Result, error) {
	files, err := s.Files(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(files))
	for _, file := range files {
		d, err := s.Read(ctx, file)
		results = append(results, Result{File: file, Descriptor: d, Err: err})
	}
	return results, nil
}
