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
	"os"
	"os/signal"

	"github.com/pterm/pterm"
	"github.com/walteh/packsync/cmd/packsync/commands"
	"github.com/walteh/packsync/cmd/packsync/opts"
	"gitlab.com/tozd/go/errors"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the command line and returns the exit status
func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	o := &opts.RootOpts{}
	rootCmd := newRootCmd(o, nil)
	rootCmd.SetArgs(args)

	return exitCode(o, rootCmd.ExecuteContext(ctx))
}

func exitCode(o *opts.RootOpts, err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, commands.ErrOutOfSync):
		return 1
	}

	if o.UI != nil {
		o.UI.Fail("command failed", err)
	} else {
		pterm.Error.Println(err)
	}
	return 2
}
