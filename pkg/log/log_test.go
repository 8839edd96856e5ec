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
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/packsync/pkg/status"
	"gitlab.com/tozd/go/errors"
)

func TestLogger(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		op       func(t *testing.T, logger *Logger)
		wantLogs []string
	}{
		{
			name: "log_header",
			op: func(t *testing.T, logger *Logger) {
				logger.Header("syncing mods")
			},
			wantLogs: []string{
				"packsync • syncing mods",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.New(zerolog.NewTestWriter(t)))

			tt.op(t, logger)

			output := strings.TrimSpace(buf.String())
			lines := strings.Split(output, "\n")

			require.Equal(t, len(tt.wantLogs), len(lines), "number of log lines should match")
			for i, want := range tt.wantLogs {
				assert.Equal(t, want, strings.TrimSpace(lines[i]), "log line %d should match", i)
			}
		})
	}
}

func TestEntryFormatting(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name   string
		entry  Entry
		symbol string
	}{
		{
			name:   "fetched",
			entry:  Entry{File: "foo.jar", Status: status.StatusFetched, Message: "Downloading Foo to foo.jar..."},
			symbol: "✓",
		},
		{
			name:   "deleted",
			entry:  Entry{File: "bar.jar", Status: status.StatusDeleted, Message: "Removed bar.jar"},
			symbol: "✗",
		},
		{
			name:   "failed",
			entry:  Entry{File: "baz.jar", Status: status.StatusFailed, Message: "Failed to download Baz"},
			symbol: "!",
		},
		{
			name:   "unchanged",
			entry:  Entry{File: "qux.jar", Status: status.StatusUnchanged, Message: "Skipping Qux"},
			symbol: "•",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.Nop())

			logger.LogEntry(tt.entry)

			want := fmt.Sprintf("    %s %-40s %-10s %s\n", tt.symbol, tt.entry.File, tt.entry.Status.String(), tt.entry.Message)
			assert.Equal(t, want, buf.String(), "formatted output should match")
		})
	}
}

func TestSink(t *testing.T) {
	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())

	var seen []string
	sink := NewSink(func(e Entry) { seen = append(seen, e.File) })

	sink.Addf(ctx, "a.jar", status.StatusUnchanged, nil, "Skipping %s", "A")
	sink.Addf(ctx, "b.jar", status.StatusFailed, errors.New("timeout"), "Failed to download %s: %v", "B", "timeout")
	sink.Add(ctx, Entry{File: "c.jar", Status: status.StatusDeleted, Message: "Removed c.jar"})

	assert.Equal(t, []string{"a.jar", "b.jar", "c.jar"}, seen, "hook should see entries in order")
	assert.Equal(t, []string{"Skipping A", "Failed to download B: timeout", "Removed c.jar"}, sink.Lines())
	assert.Equal(t, 1, sink.Count(status.StatusFailed))
	assert.Equal(t, 0, sink.Count(status.StatusFetched))

	entries := sink.Entries()
	require.Len(t, entries, 3)
	entries[0].File = "mutated"
	assert.Equal(t, "a.jar", sink.Entries()[0].File, "entries should be a copy")
}

func TestNilHookSink(t *testing.T) {
	sink := NewSink(nil)
	sink.Addf(context.Background(), "x.jar", status.StatusFetched, nil, "Downloading X")
	assert.Equal(t, "Downloading X", sink.Entries()[0].String())
}
