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
	"github.com/spf13/cobra"
	"github.com/walteh/packsync/cmd/packsync/opts"
	"github.com/walteh/packsync/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// ErrOutOfSync is returned by status when a sync would change something
var ErrOutOfSync = errors.Base("mods are out of sync")

// NewStatusCmd creates the status command
func NewStatusCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Report what sync would change",
		Long: `Status compares the mods directory with the index without downloading
or deleting anything. It exits with status 1 when a sync is needed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			engine, err := o.Engine(ctx)
			if err != nil {
				return errors.Errorf("creating engine: %w", err)
			}

			o.Console.Header("status of " + o.Config.ModsDir)

			sink := log.NewSink(o.SinkHook())
			rep, err := engine.Check(ctx, sink)
			if err != nil {
				return err
			}

			o.UI.Summary(counts(sink))
			if !rep.InSync() {
				o.UI.Warn("%d to fetch, %d to delete", len(rep.NeedsFetch), len(rep.Orphans))
				return ErrOutOfSync
			}
			o.UI.Done("mods are in sync")
			return nil
		},
	}

	return cmd
}
