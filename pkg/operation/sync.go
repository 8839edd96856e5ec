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
	"io"

	"github.com/rs/zerolog"
	"github.com/walteh/packsync/pkg/checksum"
	"github.com/walteh/packsync/pkg/descriptor"
	"github.com/walteh/packsync/pkg/log"
	"github.com/walteh/packsync/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🔄 Sync reconciles the artifact directory in two phases. Every descriptor is
// validated, verified and fetched if needed, then every artifact file outside
// the Keep Set is deleted. Per-descriptor failures are recorded in sink and
// never abort the run; a missing index directory fails before anything on
// disk changes. progress receives floor(i/N*100) after each descriptor.
func (e *Engine) Sync(ctx context.Context, sink *log.Sink, progress status.ProgressFunc) (*Result, error) {
	logger := zerolog.Ctx(ctx)
	if sink == nil {
		sink = log.NewSink(nil)
	}

	results, err := e.index.Load(ctx)
	if err != nil {
		return nil, errors.Errorf("loading index: %w", err)
	}

	logger.Debug().Int("descriptors", len(results)).Msg("starting sync")

	res := &Result{}
	keep := newKeySet()
	prog := status.NewProgress(len(results), progress)

	for i, r := range results {
		if err := ctx.Err(); err != nil {
			return nil, errors.Errorf("sync interrupted: %w", err)
		}
		e.reconcile(ctx, sink, r, keep, res)
		prog.Update(ctx, i+1)
	}

	// a fetch cut short by cancellation must not let prune run
	if err := ctx.Err(); err != nil {
		return nil, errors.Errorf("sync interrupted: %w", err)
	}

	res.Keep = keep.sorted()

	if err := e.prune(ctx, sink, keep, res); err != nil {
		return res, err
	}

	logger.Info().
		Int("kept", len(res.Keep)).
		Int("fetched", len(res.Fetched)).
		Int("deleted", len(res.Deleted)).
		Int("failed", len(res.Failed)).
		Int("invalid", len(res.Invalid)).
		Msg("sync complete")

	return res, nil
}

// reconcile decides keep or fetch for one record
func (e *Engine) reconcile(ctx context.Context, sink *log.Sink, r descriptor.Result, keep *keySet, res *Result) {
	if r.Err != nil {
		res.Invalid = append(res.Invalid, r.File)
		sink.Add(ctx, log.Entry{
			File:    r.File,
			Status:  status.StatusInvalid,
			Message: r.Err.Error(),
			Err:     r.Err,
		})
		return
	}

	d := r.Descriptor

	ok, err := e.verify(ctx, d)
	if err != nil {
		// treated as checksum-absent, the fetch below replaces the file
		zerolog.Ctx(ctx).Warn().Err(err).Str("file", d.Filename).Msg("cannot verify local file")
	}
	if ok {
		keep.add(d.Filename)
		res.Unchanged = append(res.Unchanged, d.Filename)
		sink.Addf(ctx, d.Filename, status.StatusUnchanged, nil, "%s is up to date", d.Filename)
		return
	}

	if err := e.fetch(ctx, d); err != nil {
		res.Failed = append(res.Failed, d.Filename)
		sink.Add(ctx, log.Entry{
			File:    d.Filename,
			Status:  status.StatusFailed,
			Message: err.Error(),
			Err:     err,
		})
		return
	}

	keep.add(d.Filename)
	res.Fetched = append(res.Fetched, d.Filename)
	sink.Addf(ctx, d.Filename, status.StatusFetched, nil, "fetched %s", d.Filename)
}

// verify reports whether the local copy of d exists and matches its declared
// checksum. A missing file is not an error.
func (e *Engine) verify(ctx context.Context, d *descriptor.Descriptor) (bool, error) {
	if !checksum.Supported(d.Download.HashFormat) {
		return false, errors.Errorf("%w: %q", checksum.ErrUnsupportedFormat, d.Download.HashFormat)
	}

	exists, err := e.files.FileExists(ctx, d.Filename)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}

	rc, err := e.files.OpenFile(ctx, d.Filename)
	if err != nil {
		return false, err
	}
	defer rc.Close()

	sum, err := checksum.Reader(rc, d.Download.HashFormat)
	if err != nil {
		return false, errors.Errorf("hashing %s: %w", d.Filename, err)
	}

	return checksum.Equal(sum, d.Download.Hash), nil
}

// fetch downloads d over any stale copy. A failed fetch never leaves a
// partial file; the stale copy is then pruned as unvalidated.
func (e *Engine) fetch(ctx context.Context, d *descriptor.Descriptor) error {
	url := e.urls.Render(d.FileID(), d.Filename)

	zerolog.Ctx(ctx).Debug().
		Str("file", d.Filename).
		Str("url", url).
		Int64("file_id", d.FileID()).
		Msg("fetching artifact")

	err := e.files.WriteFileAtomic(ctx, d.Filename, func(w io.Writer) error {
		return e.fetcher.Fetch(ctx, url, w)
	})
	if err != nil {
		return &FetchError{File: d.Filename, URL: url, Err: err}
	}
	return nil
}

// 🧹 prune deletes artifact files that were not validated this run
func (e *Engine) prune(ctx context.Context, sink *log.Sink, keep *keySet, res *Result) error {
	files, err := e.files.ListFiles(ctx, e.pattern)
	if err != nil {
		return errors.Errorf("listing artifacts: %w", err)
	}

	for _, file := range files {
		if keep.has(file) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return errors.Errorf("sync interrupted: %w", err)
		}
		if err := e.files.DeleteFile(ctx, file); err != nil {
			res.Failed = append(res.Failed, file)
			sink.Add(ctx, log.Entry{
				File:    file,
				Status:  status.StatusFailed,
				Message: err.Error(),
				Err:     err,
			})
			continue
		}
		res.Deleted = append(res.Deleted, file)
		sink.Addf(ctx, file, status.StatusDeleted, nil, "deleted %s", file)
	}
	return nil
}
