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
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/walteh/packsync/cmd/packsync/opts"
	"github.com/walteh/packsync/cmd/packsync/ui"
	"github.com/walteh/packsync/pkg/export"
	"github.com/walteh/packsync/pkg/manifest"
	"github.com/walteh/packsync/pkg/operation"
	"github.com/walteh/packsync/pkg/overrides"
	"gitlab.com/tozd/go/errors"
)

// errCancelled ends an export the user backed out of
var errCancelled = errors.Base("cancelled")

// NewExportCmd creates the export command
func NewExportCmd(o *opts.RootOpts) *cobra.Command {
	var (
		yes    bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Package the workspace as a CurseForge modpack zip",
		Long: `Export builds a CurseForge modpack archive from the workspace.
It will:
1. Infer the pack name, version, author, Minecraft version and loader
2. Collect override files, honoring .packignore
3. Let you pick the mods to reference in manifest.json
4. Write <name> <version>.zip to the workspace root`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			err := o.Runner.Run(ctx, operation.Named("export", func(ctx context.Context) error {
				return runExport(ctx, o, o.Prompt(yes), output)
			}))
			if errors.Is(err, errCancelled) {
				o.UI.Warn("export cancelled")
				return nil
			}
			return err
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "accept inferred values and defaults without prompting")
	cmd.Flags().StringVarP(&output, "output", "o", "", "archive name (defaults to \"<name> <version>.zip\")")

	return cmd
}

func runExport(ctx context.Context, o *opts.RootOpts, p ui.Prompter, output string) error {
	store := o.Store()

	// fail early, before asking anything
	if _, err := store.Files(ctx); err != nil {
		return err
	}

	inf, err := o.Inferencer()
	if err != nil {
		return err
	}
	m, err := inf.Infer(ctx)
	if err != nil {
		return errors.Errorf("inferring manifest: %w", err)
	}

	m, err = editManifest(p, m)
	if err != nil {
		return err
	}
	if missing := m.Missing(); len(missing) > 0 {
		return errors.Errorf("%w: missing %s", manifest.ErrIncomplete, strings.Join(missing, ", "))
	}

	collector := overrides.NewCollector(o.Dir, o.Config.IgnoreFile, o.Config.PackFile)
	files, err := collector.Collect(ctx)
	if err != nil {
		return err
	}
	o.UI.Step("%d override files (from %s):", len(files), o.Config.IgnoreFile)
	o.UI.List(files)
	if ok, err := p.Confirm("Include these files in overrides?", true); err != nil {
		return errors.Errorf("prompting: %w", err)
	} else if !ok {
		return errCancelled
	}

	var exclude []int64
	pack, err := manifest.LoadPack(o.Path(o.Config.PackFile))
	if err != nil {
		return err
	}
	if pack != nil {
		exclude = pack.ExcludeMods
	}

	cands, err := export.Candidates(ctx, store, exclude)
	if err != nil {
		return err
	}
	cands, err = selectMods(p, cands)
	if err != nil {
		return err
	}
	mods := export.Select(cands)

	confirmEmpty := false
	if len(mods) == 0 {
		if confirmEmpty, err = p.Confirm("No mods selected. Continue?", false); err != nil {
			return errors.Errorf("prompting: %w", err)
		}
		if !confirmEmpty {
			return errCancelled
		}
	}

	name, err := archiveName(o, p, output, m)
	if err != nil {
		return err
	}

	path, err := export.Export(ctx, export.Request{
		Manifest:     m,
		Mods:         mods,
		ConfirmEmpty: confirmEmpty,
		Source:       collector.Filesystem(),
		Overrides:    files,
		ArchiveName:  name,
		OutputDir:    o.Dir,
	})
	if err != nil {
		return err
	}

	o.UI.Done("modpack saved as %s (%d mods, %d overrides)", path, len(mods), len(files))
	return nil
}

// editManifest lets the user confirm or change every inferred field
func editManifest(p ui.Prompter, m manifest.Manifest) (manifest.Manifest, error) {
	fields := []struct {
		label string
		value *string
	}{
		{"Name", &m.Name},
		{"Version", &m.Version},
		{"Author", &m.Author},
		{"Minecraft Version", &m.MCVersion},
		{"Loader", &m.LoaderID},
	}
	for _, f := range fields {
		v, err := p.Text(f.label, *f.value)
		if err != nil {
			return m, errors.Errorf("prompting: %w", err)
		}
		*f.value = strings.TrimSpace(v)
	}
	return m, nil
}

// selectMods offers the candidates with their preselection
func selectMods(p ui.Prompter, cands []export.Candidate) ([]export.Candidate, error) {
	if len(cands) == 0 {
		return cands, nil
	}

	labels := make([]string, len(cands))
	byLabel := make(map[string]int64, len(cands))
	var defaults []string
	for i, c := range cands {
		labels[i] = fmt.Sprintf("%s (%d)", c.Name, c.ProjectID)
		byLabel[labels[i]] = c.ProjectID
		if c.Selected {
			defaults = append(defaults, labels[i])
		}
	}

	picked, err := p.MultiSelect("Select the mods to include in the modpack", labels, defaults)
	if err != nil {
		return nil, errors.Errorf("prompting: %w", err)
	}

	ids := make([]int64, 0, len(picked))
	for _, l := range picked {
		ids = append(ids, byLabel[l])
	}
	return export.SelectProjects(cands, ids), nil
}

// archiveName asks until the name is usable. --output skips the prompt.
func archiveName(o *opts.RootOpts, p ui.Prompter, output string, m manifest.Manifest) (string, error) {
	if output != "" {
		return export.NormalizeArchiveName(output)
	}

	def := export.DefaultArchiveName(m)
	for {
		in, err := p.Text("Archive name", def)
		if err != nil {
			return "", errors.Errorf("prompting: %w", err)
		}
		name, err := export.NormalizeArchiveName(in)
		if err == nil {
			return name, nil
		}
		if _, unattended := p.(ui.Unattended); unattended {
			return "", err
		}
		o.UI.Warn("invalid archive name, please enter a valid name")
	}
}
