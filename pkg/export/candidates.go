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
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/packsync/pkg/descriptor"
	"github.com/walteh/packsync/pkg/manifest"
	"gitlab.com/tozd/go/errors"
)

// Index supplies the descriptor records to curate from
type Index interface {
	Load(ctx context.Context) ([]descriptor.Result, error)
}

// 🧩 Candidate is one mod offered for selection
type Candidate struct {
	Name      string
	File      string
	ProjectID int64
	FileID    int64
	// Selected is the preselection: true unless the project is excluded
	Selected bool
}

// Ref returns the manifest reference for c
func (c Candidate) Ref() manifest.ModRef {
	return manifest.ModRef{ProjectID: c.ProjectID, FileID: c.FileID}
}

// Candidates re-reads the index and returns every curseforge record once per
// project, sorted by name without regard to case. A record only needs its mode
// and ids here; a missing hash does not hide it. Projects listed in exclude
// start deselected.
func Candidates(ctx context.Context, idx Index, exclude []int64) ([]Candidate, error) {
	results, err := idx.Load(ctx)
	if err != nil {
		return nil, errors.Errorf("loading index: %w", err)
	}

	excluded := make(map[int64]struct{}, len(exclude))
	for _, id := range exclude {
		excluded[id] = struct{}{}
	}

	seen := make(map[int64]struct{})
	out := make([]Candidate, 0, len(results))
	for _, d := range descriptor.Referenceable(results) {
		pid := d.ProjectID()
		if _, dup := seen[pid]; dup {
			zerolog.Ctx(ctx).Debug().Int64("project_id", pid).Str("file", d.File).Msg("skipping duplicate project")
			continue
		}
		seen[pid] = struct{}{}

		_, skip := excluded[pid]
		out = append(out, Candidate{
			Name:      d.Name,
			File:      d.File,
			ProjectID: pid,
			FileID:    d.FileID(),
			Selected:  !skip,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})

	return out, nil
}

// Select returns the references of the selected candidates, in order
func Select(cands []Candidate) []manifest.ModRef {
	refs := make([]manifest.ModRef, 0, len(cands))
	for _, c := range cands {
		if c.Selected {
			refs = append(refs, c.Ref())
		}
	}
	return refs
}

// SelectProjects marks exactly the candidates whose project is in ids
func SelectProjects(cands []Candidate, ids []int64) []Candidate {
	want := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := make([]Candidate, len(cands))
	for i, c := range cands {
		_, c.Selected = want[c.ProjectID]
		out[i] = c
	}
	return out
}
