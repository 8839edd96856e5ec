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

package overrides

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DefaultIgnoreFile is read from the workspace root when present
const DefaultIgnoreFile = ".packignore"

// VCSDir is always ignored once an ignore file exists
const VCSDir = ".git"

// 📁 Collector walks a workspace and filters it through an ignore file
type Collector struct {
	fs         billy.Filesystem
	ignoreFile string
	implicit   []string
}

// 🏭 NewCollector creates a collector rooted at root. implicit patterns are
// appended after the ignore file's own lines, but only when it exists.
func NewCollector(root, ignoreFile string, implicit ...string) *Collector {
	if ignoreFile == "" {
		ignoreFile = DefaultIgnoreFile
	}
	return &Collector{
		fs:         osfs.New(root),
		ignoreFile: ignoreFile,
		implicit:   implicit,
	}
}

// Filesystem exposes the workspace the collector walks
func (c *Collector) Filesystem() billy.Filesystem {
	return c.fs
}

// Collect returns the workspace-relative, slash-separated paths of every
// regular file that survives the ignore rules, sorted.
func Collect(ctx context.Context, root, ignoreFile string, implicit []string) ([]string, error) {
	return NewCollector(root, ignoreFile, implicit...).Collect(ctx)
}

// Collect walks the workspace. Without an ignore file every regular file is
// returned.
func (c *Collector) Collect(ctx context.Context) ([]string, error) {
	logger := zerolog.Ctx(ctx)

	patterns, negated, err := c.patterns()
	if err != nil {
		return nil, err
	}
	matcher := gitignore.NewMatcher(patterns)

	// a negation may re-include a file below an excluded directory, so
	// directories are only pruned when there is none
	prune := !negated

	var files []string
	err = util.Walk(c.fs, ".", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return errors.Errorf("walking %s: %w", path, err)
		}
		if path == "." {
			return nil
		}

		parts := strings.Split(filepath.ToSlash(path), "/")

		if info.IsDir() {
			if prune && matcher.Match(parts, true) {
				logger.Debug().Str("dir", path).Msg("ignoring directory")
				return filepath.SkipDir
			}
			return nil
		}

		if !info.Mode().IsRegular() {
			return nil
		}
		if matcher.Match(parts, false) {
			return nil
		}
		files = append(files, strings.Join(parts, "/"))
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("collecting overrides: %w", err)
	}

	sort.Strings(files)

	logger.Debug().
		Int("files", len(files)).
		Int("patterns", len(patterns)).
		Msg("collected overrides")

	return files, nil
}

// patterns reads the ignore file and reports whether any line negates. No
// file means no patterns at all, not even the implicit ones.
func (c *Collector) patterns() ([]gitignore.Pattern, bool, error) {
	data, err := util.ReadFile(c.fs, c.ignoreFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, errors.Errorf("reading ignore file: %w", err)
	}

	lines := strings.Split(string(data), "\n")
	lines = append(lines, c.ignoreFile, VCSDir)
	lines = append(lines, c.implicit...)

	var (
		ps      []gitignore.Pattern
		negated bool
	)
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "!") {
			negated = true
		}
		ps = append(ps, gitignore.ParsePattern(line, nil))
	}
	return ps, negated, nil
}
