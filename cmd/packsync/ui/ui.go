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
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/packsync/pkg/status"
)

// 📢 UserLogger prints user-facing messages and mirrors them to zerolog
type UserLogger struct {
	log zerolog.Logger
	out io.Writer
}

// 🎯 NewUserLogger creates a user logger writing to out (stdout when nil)
func NewUserLogger(ctx context.Context, out io.Writer) *UserLogger {
	if out == nil {
		out = os.Stdout
	}
	return &UserLogger{
		log: *zerolog.Ctx(ctx),
		out: out,
	}
}

func (u *UserLogger) printer(base pterm.PrefixPrinter, emoji string) *pterm.PrefixPrinter {
	return base.WithPrefix(pterm.Prefix{Text: emoji, Style: base.Prefix.Style}).WithWriter(u.out)
}

// 📦 Step announces a workflow step
func (u *UserLogger) Step(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	u.printer(pterm.Info, "📦").Println(msg)
	u.log.Info().Msg(msg)
}

// ✅ Done reports a successful outcome
func (u *UserLogger) Done(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	u.printer(pterm.Success, "✅").Println(msg)
	u.log.Info().Msg(msg)
}

// ⚠️ Warn reports something the user should look at
func (u *UserLogger) Warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	u.printer(pterm.Warning, "⚠️").Println(msg)
	u.log.Warn().Msg(msg)
}

// ❌ Fail reports an error
func (u *UserLogger) Fail(description string, err error) {
	u.printer(pterm.Error, "❌").Println(description)
	if err != nil {
		pterm.Error.WithWriter(u.out).Println(err)
	}
	u.log.Error().Err(err).Msg(description)
}

// List prints items as a bullet list
func (u *UserLogger) List(items []string) {
	if len(items) == 0 {
		return
	}
	bullets := make([]pterm.BulletListItem, 0, len(items))
	for _, it := range items {
		bullets = append(bullets, pterm.BulletListItem{Level: 0, Text: it})
	}
	_ = pterm.DefaultBulletList.WithItems(bullets).WithWriter(u.out).Render()
}

// 📊 Summary prints a one-line tally per status, skipping zeros
func (u *UserLogger) Summary(counts map[status.FileStatus]int) {
	data := pterm.TableData{{"status", "files"}}
	for _, st := range []status.FileStatus{
		status.StatusUnchanged, status.StatusFetched, status.StatusDeleted,
		status.StatusPending, status.StatusOrphaned, status.StatusFailed, status.StatusInvalid,
	} {
		if n := counts[st]; n > 0 {
			data = append(data, []string{st.String(), fmt.Sprint(n)})
		}
	}
	if len(data) == 1 {
		return
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(u.out).Render()
}

// 📈 Progress drives a pterm progress bar from percentage updates
type Progress struct {
	bar  *pterm.ProgressbarPrinter
	last int
}

// StartProgress starts a bar titled title. A bar that fails to start is a no-op.
func (u *UserLogger) StartProgress(title string) *Progress {
	bar, err := pterm.DefaultProgressbar.
		WithTotal(100).
		WithTitle(title).
		WithWriter(u.out).
		Start()
	if err != nil {
		u.log.Debug().Err(err).Msg("progress bar unavailable")
		return &Progress{}
	}
	return &Progress{bar: bar}
}

// Update moves the bar to percent
func (p *Progress) Update(percent int) {
	if p.bar == nil || percent <= p.last {
		return
	}
	p.bar.Add(percent - p.last)
	p.last = percent
}

// Stop removes the bar
func (p *Progress) Stop() {
	if p.bar == nil {
		return
	}
	_, _ = p.bar.Stop()
}
