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

package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/packsync/pkg/status"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 40 // Base width for filename
	statusWidth = 10 // Width for status text
)

// 🎯 Entry is one reconciliation decision recorded during a run
type Entry struct {
	File    string            // Descriptor or artifact filename
	Status  status.FileStatus // Outcome of the decision
	Message string            // Human readable line
	Err     error             // Failure cause, if any
}

// String returns the human readable line
func (e Entry) String() string {
	return e.Message
}

// 📜 Sink is an ordered, caller-owned run log
type Sink struct {
	mu      sync.Mutex
	entries []Entry
	onEntry func(Entry)
}

// 🏭 NewSink creates a sink. onEntry, if set, is called synchronously for every entry.
func NewSink(onEntry func(Entry)) *Sink {
	return &Sink{onEntry: onEntry}
}

// Add appends an entry and mirrors it to the context logger
func (s *Sink) Add(ctx context.Context, e Entry) {
	s.mu.Lock()
	s.entries = append(s.entries, e)
	hook := s.onEntry
	s.mu.Unlock()

	evt := zerolog.Ctx(ctx).Info()
	if e.Err != nil {
		evt = zerolog.Ctx(ctx).Warn().Err(e.Err)
	}
	evt.Str("file", e.File).Str("status", e.Status.String()).Msg(e.Message)

	if hook != nil {
		hook(e)
	}
}

// Addf appends an entry built from a format string
func (s *Sink) Addf(ctx context.Context, file string, st status.FileStatus, err error, format string, args ...any) {
	s.Add(ctx, Entry{
		File:    file,
		Status:  st,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	})
}

// Entries returns a copy of the recorded entries in order
func (s *Sink) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Lines returns the recorded messages in order
func (s *Sink) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e.Message)
	}
	return out
}

// Count returns how many entries carry the given status
func (s *Sink) Count(st status.FileStatus) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.entries {
		if e.Status == st {
			n++
		}
	}
	return n
}

// 🎯 Logger renders sink entries and messages to a console
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
}

// 🏭 New creates a new logger
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
		mu:      sync.Mutex{},
	}
}

// 📝 formatEntry formats a sink entry for display
func (l *Logger) formatEntry(e Entry) string {
	var symbol rune
	var symbolColor color.Attribute
	switch e.Status {
	case status.StatusFetched:
		symbol = '✓'
		symbolColor = color.FgGreen
	case status.StatusDeleted, status.StatusOrphaned:
		symbol = '✗'
		symbolColor = color.FgRed
	case status.StatusFailed, status.StatusInvalid:
		symbol = '!'
		symbolColor = color.FgYellow
	case status.StatusPending:
		symbol = '⟳'
		symbolColor = color.FgBlue
	default:
		symbol = '•'
		symbolColor = color.FgCyan
	}

	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, e.File),
		color.New(color.Faint).Sprint(fmt.Sprintf("%-*s", statusWidth, e.Status.String())),
		e.Message)
}

// 📝 LogEntry prints a sink entry
func (l *Logger) LogEntry(e Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console, l.formatEntry(e))
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("packsync")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Debug().Msg(msg)
}
