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

package opts

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/packsync/cmd/packsync/ui"
	"github.com/walteh/packsync/pkg/config"
	"github.com/walteh/packsync/pkg/descriptor"
	"github.com/walteh/packsync/pkg/log"
	"github.com/walteh/packsync/pkg/manifest"
	"github.com/walteh/packsync/pkg/operation"
	"github.com/walteh/packsync/pkg/provider"
	"github.com/walteh/packsync/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🔧 RootOpts carries the resolved workspace shared by every command
type RootOpts struct {
	// Flags
	Dir        string
	ConfigFile string
	Debug      bool

	// Out receives user-facing output, stdout when nil
	Out io.Writer
	// Prompter overrides the interactive prompter
	Prompter ui.Prompter

	// Resolved by Init
	Config  *config.Config
	UI      *ui.UserLogger
	Console *log.Logger
	Runner  *operation.OperationRunner
}

// Init resolves the workspace root and loads the configuration. The config
// path is relative to the workspace unless absolute.
func (o *RootOpts) Init(ctx context.Context, configExplicit bool) error {
	dir := o.Dir
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return errors.Errorf("resolving workspace: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return errors.Errorf("opening workspace: %w", err)
	}
	if !info.IsDir() {
		return errors.Errorf("workspace %s is not a directory", abs)
	}
	o.Dir = abs

	file := o.ConfigFile
	if file == "" {
		file = config.DefaultFile
	}
	cfg, err := config.LoadOrDefault(ctx, config.Path(o.Dir, file), configExplicit)
	if err != nil {
		return errors.Errorf("loading config: %w", err)
	}
	o.Config = cfg

	out := o.Out
	if out == nil {
		out = os.Stdout
	}
	o.UI = ui.NewUserLogger(ctx, out)
	o.Console = log.New(out, *zerolog.Ctx(ctx))
	o.Runner = operation.NewRunner(nil)

	zerolog.Ctx(ctx).Debug().
		Str("workspace", o.Dir).
		Str("config", cfg.String()).
		Msg("initialized")

	return nil
}

// Path resolves p against the workspace root
func (o *RootOpts) Path(p string) string {
	return config.Path(o.Dir, p)
}

// Prompt returns the prompter for a command. yes selects the unattended one.
func (o *RootOpts) Prompt(yes bool) ui.Prompter {
	if yes {
		return ui.Unattended{}
	}
	if o.Prompter != nil {
		return o.Prompter
	}
	return ui.Interactive{}
}

// Store opens the descriptor index
func (o *RootOpts) Store() *descriptor.Store {
	return descriptor.NewStore(o.Path(o.Config.IndexDir), o.Config.DescriptorPattern)
}

// Engine wires the sync engine for the workspace
func (o *RootOpts) Engine(ctx context.Context) (*operation.Engine, error) {
	logger := zerolog.Ctx(ctx)
	return operation.NewEngine(operation.Options{
		Index:           o.Store(),
		Files:           status.New(o.Path(o.Config.ModsDir), logger),
		Fetcher:         provider.NewHTTPFetcher(provider.Options{UserAgent: o.Config.UserAgent}),
		URLs:            provider.URLTemplate(o.Config.DownloadURL),
		ArtifactPattern: o.Config.ArtifactPattern,
	})
}

// Inferencer layers the metadata sources in the configured order
func (o *RootOpts) Inferencer() (*manifest.Inferencer, error) {
	sources, err := manifest.SourcesFor(o.Config.MetadataPaths(o.Dir), o.Config.Precedence)
	if err != nil {
		return nil, err
	}
	return manifest.NewInferencer(sources...), nil
}

// SinkHook prints each run entry as it is recorded
func (o *RootOpts) SinkHook() func(log.Entry) {
	return func(e log.Entry) {
		o.Console.LogEntry(e)
	}
}
