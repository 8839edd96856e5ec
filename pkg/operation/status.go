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

	"github.com/walteh/packsync/pkg/log"
	"github.com/walteh/packsync/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🔍 Check reports what Sync would do without touching the directory or the
// network. Files whose checksum cannot be computed count as needing a fetch.
func (e *Engine) Check(ctx context.Context, sink *log.Sink) (*Report, error) {
	if sink == nil {
		sink = log.NewSink(nil)
	}

	results, err := e.index.Load(ctx)
	if err != nil {
		return nil, errors.Errorf("loading index: %w", err)
	}

	rep := &Report{}
	claimed := newKeySet()

	for _, r := range results {
		if r.Err != nil {
			rep.Invalid = append(rep.Invalid, r.File)
			sink.Add(ctx, log.Entry{File: r.File, Status: status.StatusInvalid, Message: r.Err.Error(), Err: r.Err})
			continue
		}

		d := r.Descriptor
		claimed.add(d.Filename)

		if ok, _ := e.verify(ctx, d); ok {
			sink.Addf(ctx, d.Filename, status.StatusUnchanged, nil, "%s is up to date", d.Filename)
			continue
		}
		rep.NeedsFetch = append(rep.NeedsFetch, d.Filename)
		sink.Addf(ctx, d.Filename, status.StatusPending, nil, "%s needs fetching", d.Filename)
	}

	files, err := e.files.ListFiles(ctx, e.pattern)
	if err != nil {
		return nil, errors.Errorf("listing artifacts: %w", err)
	}
	for _, file := range files {
		if claimed.has(file) {
			continue
		}
		rep.Orphans = append(rep.Orphans, file)
		sink.Addf(ctx, file, status.StatusOrphaned, nil, "%s is not in the index", file)
	}

	return rep, nil
}

