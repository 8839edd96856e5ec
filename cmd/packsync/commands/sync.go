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

package commands

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/walteh/packsync/cmd/packsync/opts"
	"github.com/walteh/packsync/pkg/log"
	"github.com/walteh/packsync/pkg/operation"
	"github.com/walteh/packsync/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// NewSyncCmd creates the sync command
func NewSyncCmd(o *opts.RootOpts) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Download and prune mods to match the index",
		Long: `Sync reconciles the mods directory with the index files in mods/.index.
It will:
1. Keep every mod whose checksum matches its index file
2. Download every mod that is missing or corrupt
3. Delete every mod no index file accounts for

Deletions are listed and confirmed first unless --yes is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			engine, err := o.Engine(ctx)
			if err != nil {
				return errors.Errorf("creating engine: %w", err)
			}

			if ok, err := confirmPrune(ctx, o, engine, yes); err != nil || !ok {
				return err
			}

			o.Console.Header("syncing " + o.Config.ModsDir)

			sink := log.NewSink(o.SinkHook())
			bar := o.UI.StartProgress("Syncing mods")

			var res *operation.Result
			err = o.Runner.Run(ctx, operation.Named("sync", func(ctx context.Context) error {
				var err error
				res, err = engine.Sync(ctx, sink, bar.Update)
				return err
			}))
			bar.Stop()
			if err != nil {
				return err
			}

			o.UI.Summary(counts(sink))
			if len(res.Failed) > 0 || len(res.Invalid) > 0 {
				o.UI.Warn("%d failed, %d invalid; run sync again to retry", len(res.Failed), len(res.Invalid))
				return nil
			}
			o.UI.Done("%d mods in sync", len(res.Keep))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask before deleting files")

	return cmd
}

// confirmPrune asks before a run that would delete files
func confirmPrune(ctx context.Context, o *opts.RootOpts, engine *operation.Engine, yes bool) (bool, error) {
	if yes {
		return true, nil
	}

	rep, err := engine.Check(ctx, nil)
	if err != nil {
		return false, errors.Errorf("checking mods: %w", err)
	}
	if len(rep.Orphans) == 0 {
		return true, nil
	}

	o.UI.Warn("%d files in %s are not in the index and will be deleted:", len(rep.Orphans), o.Config.ModsDir)
	o.UI.List(rep.Orphans)

	ok, err := o.Prompt(false).Confirm("Continue?", false)
	if err != nil {
		return false, errors.Errorf("prompting: %w", err)
	}
	if !ok {
		o.UI.Warn("sync cancelled")
	}
	return ok, nil
}

func counts(sink *log.Sink) map[status.FileStatus]int {
	out := make(map[status.FileStatus]int)
	for _, e := range sink.Entries() {
		out[e.Status]++
	}
	return out
}
