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

package operation

import (
	"context"
	"path"
	"path/filepath"
	"sort"

	"github.com/walteh/packsync/pkg/descriptor"
	"github.com/walteh/packsync/pkg/provider"
	"github.com/walteh/packsync/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// DefaultArtifactPattern selects the files the engine owns in the artifact
// directory. Anything else is never pruned.
const DefaultArtifactPattern = "*.jar"

// 📚 Index supplies the descriptor records for a run
type Index interface {
	Load(ctx context.Context) ([]descriptor.Result, error)
}

// 🔧 Options contains the collaborators of an Engine
type Options struct {
	// Index is the descriptor store
	Index Index
	// Files manages the artifact directory
	Files status.FileManager
	// Fetcher downloads artifact bytes
	Fetcher provider.Fetcher
	// URLs renders fetch locations, defaults to provider.DefaultURLTemplate
	URLs provider.URLTemplate
	// ArtifactPattern defaults to DefaultArtifactPattern
	ArtifactPattern string
}

// ⚙️ Engine reconciles the artifact directory against the index
type Engine struct {
	index   Index
	files   status.FileManager
	fetcher provider.Fetcher
	urls    provider.URLTemplate
	pattern string
}

// 🏭 NewEngine creates an engine with the given options
func NewEngine(opts Options) (*Engine, error) {
	if opts.Index == nil {
		return nil, errors.Errorf("index is required")
	}
	if opts.Files == nil {
		return nil, errors.Errorf("file manager is required")
	}
	if opts.Fetcher == nil {
		return nil, errors.Errorf("fetcher is required")
	}

	urls := opts.URLs
	if urls == "" {
		urls = provider.DefaultURLTemplate
	}
	if err := urls.Validate(); err != nil {
		return nil, errors.Errorf("validating url template: %w", err)
	}

	pattern := opts.ArtifactPattern
	if pattern == "" {
		pattern = DefaultArtifactPattern
	}

	return &Engine{
		index:   opts.Index,
		files:   opts.Files,
		fetcher: opts.Fetcher,
		urls:    urls,
		pattern: pattern,
	}, nil
}

// 📊 Result summarizes a sync run. Every list holds artifact filenames except
// Invalid, which holds index file names.
type Result struct {
	// Keep is the set of filenames validated or fetched this run, sorted
	Keep      []string
	Unchanged []string
	Fetched   []string
	Deleted   []string
	Failed    []string
	Invalid   []string
}

// Kept reports whether filename survived the run
func (r *Result) Kept(filename string) bool {
	i := sort.SearchStrings(r.Keep, keyOf(filename))
	return i < len(r.Keep) && r.Keep[i] == keyOf(filename)
}

// 📋 Report is the read-only outcome of Check
type Report struct {
	// NeedsFetch holds filenames that are absent or fail their checksum
	NeedsFetch []string
	// Orphans holds artifact files no valid descriptor claims
	Orphans []string
	// Invalid holds index files that were skipped
	Invalid []string
}

// InSync reports whether a sync run would be a no-op
func (r *Report) InSync() bool {
	return len(r.NeedsFetch) == 0 && len(r.Orphans) == 0
}

// keyOf normalizes a filename for Keep Set membership
func keyOf(filename string) string {
	return path.Clean(filepath.ToSlash(filename))
}

// keySet tracks filenames in the order they were first added
type keySet struct {
	seen  map[string]struct{}
	order []string
}

func newKeySet() *keySet {
	return &keySet{seen: make(map[string]struct{})}
}

func (k *keySet) add(filename string) {
	key := keyOf(filename)
	if _, ok := k.seen[key]; ok {
		return
	}
	k.seen[key] = struct{}{}
	k.order = append(k.order, key)
}

func (k *keySet) has(filename string) bool {
	_, ok := k.seen[keyOf(filename)]
	return ok
}

func (k *keySet) sorted() []string {
	out := make([]string, len(k.order))
	copy(out, k.order)
	sort.Strings(out)
	return out
}
