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

package ui

import (
	"github.com/pterm/pterm"
)

// 🗳️ Prompter resolves user choices. The core packages never prompt; commands
// ask through a Prompter and pass plain values down.
type Prompter interface {
	Confirm(question string, def bool) (bool, error)
	Text(question, def string) (string, error)
	MultiSelect(question string, options, defaults []string) ([]string, error)
}

// Interactive prompts on the terminal with pterm
type Interactive struct{}

var _ Prompter = Interactive{}

func (Interactive) Confirm(question string, def bool) (bool, error) {
	return pterm.DefaultInteractiveConfirm.WithDefaultValue(def).Show(question)
}

func (Interactive) Text(question, def string) (string, error) {
	return pterm.DefaultInteractiveTextInput.WithDefaultValue(def).Show(question)
}

func (Interactive) MultiSelect(question string, options, defaults []string) ([]string, error) {
	return pterm.DefaultInteractiveMultiselect.
		WithOptions(options).
		WithDefaultOptions(defaults).
		WithFilter(false).
		WithMaxHeight(15).
		Show(question)
}

// Unattended answers yes to every question and takes every default. It backs
// the --yes flag.
type Unattended struct{}

var _ Prompter = Unattended{}

func (Unattended) Confirm(question string, def bool) (bool, error) { return true, nil }
func (Unattended) Text(question, def string) (string, error)       { return def, nil }
func (Unattended) MultiSelect(question string, options, defaults []string) ([]string, error) {
	return defaults, nil
}
