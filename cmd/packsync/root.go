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

package main

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/packsync/cmd/packsync/commands"
	"github.com/walteh/packsync/cmd/packsync/opts"
)

// newRootCmd builds the command tree around o
func newRootCmd(o *opts.RootOpts, logOut io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "packsync",
		Short: "Keep a modpack's mods in sync with its index and export it",
		Long: `packsync downloads the mods listed in mods/.index, removes the ones that
are no longer listed, and packages the workspace as a CurseForge modpack.

Run it from the .minecraft directory of an instance, or point --dir at one.
Exit status is 1 when status finds work to do and 2 on errors.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := setupLogging(cmd, logOut, o.Debug)
			return o.Init(ctx, cmd.Flags().Changed("config"))
		},
	}

	addRootFlags(rootCmd, o)

	rootCmd.AddCommand(
		commands.NewSyncCmd(o),
		commands.NewStatusCmd(o),
		commands.NewExportCmd(o),
	)

	return rootCmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", ".packsync.yaml", "config file path, relative to --dir")
	cmd.PersistentFlags().StringVarP(&o.Dir, "dir", "C", ".", "workspace directory")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
}

// setupLogging installs a zerolog logger on the command's context. Only
// errors are logged unless debug is set; user output goes through pterm.
func setupLogging(cmd *cobra.Command, out io.Writer, debug bool) context.Context {
	if out == nil {
		out = os.Stderr
	}
	level := zerolog.ErrorLevel
	if debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: out}).Level(level).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())
	cmd.SetContext(ctx)
	return ctx
}
