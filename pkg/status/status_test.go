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

package status

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func writeTestFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755), "creating parent dir should succeed")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644), "writing test file should succeed")
}

func TestWriteFileAtomic(t *testing.T) {
	tests := []struct {
		name        string
		existing    string
		fill        func(w io.Writer) error
		wantContent string
		wantErr     bool
	}{
		{
			name: "new_file",
			fill: func(w io.Writer) error {
				_, err := io.WriteString(w, "fresh")
				return err
			},
			wantContent: "fresh",
		},
		{
			name:     "overwrites_stale_file",
			existing: "stale",
			fill: func(w io.Writer) error {
				_, err := io.WriteString(w, "fresh")
				return err
			},
			wantContent: "fresh",
		},
		{
			name:     "failed_fill_keeps_stale_file",
			existing: "stale",
			fill: func(w io.Writer) error {
				_, _ = io.WriteString(w, "partial")
				return errors.New("connection reset")
			},
			wantContent: "stale",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
			dir := t.TempDir()
			if tt.existing != "" {
				writeTestFile(t, dir, "foo.jar", tt.existing)
			}

			mgr := New(dir, zerolog.Ctx(ctx))
			err := mgr.WriteFileAtomic(ctx, "foo.jar", tt.fill)
			if tt.wantErr {
				require.Error(t, err, "write should fail")
			} else {
				require.NoError(t, err, "write should succeed")
			}

			if tt.wantContent != "" {
				data, err := os.ReadFile(filepath.Join(dir, "foo.jar"))
				require.NoError(t, err, "reading target should succeed")
				assert.Equal(t, tt.wantContent, string(data), "content should match")
			}

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			for _, e := range entries {
				assert.NotContains(t, e.Name(), ".tmp", "temp files should be cleaned up")
			}
		})
	}
}

func TestListFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writeTestFile(t, dir, "b.jar", "b")
	writeTestFile(t, dir, "a.jar", "a")
	writeTestFile(t, dir, "notes.txt", "n")
	writeTestFile(t, dir, ".index/a.toml", "x")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "dir.jar"), 0755))

	mgr := New(dir, nil)

	jars, err := mgr.ListFiles(ctx, "*.jar")
	require.NoError(t, err, "listing should succeed")
	assert.Equal(t, []string{"a.jar", "b.jar"}, jars, "only regular jar files in lexical order")

	missing := New(filepath.Join(dir, "missing"), nil)
	none, err := missing.ListFiles(ctx, "*.jar")
	require.NoError(t, err, "listing a missing dir should not fail")
	assert.Empty(t, none)

	_, err = mgr.ListFiles(ctx, "[")
	require.Error(t, err, "bad pattern should fail")
}

func TestFileExistsAndDelete(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writeTestFile(t, dir, "foo.jar", "x")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))

	mgr := New(dir, nil)

	ok, err := mgr.FileExists(ctx, "foo.jar")
	require.NoError(t, err)
	assert.True(t, ok, "file should exist")

	ok, err = mgr.FileExists(ctx, "sub")
	require.NoError(t, err)
	assert.False(t, ok, "directories are not files")

	require.NoError(t, mgr.DeleteFile(ctx, "foo.jar"), "delete should succeed")

	ok, err = mgr.FileExists(ctx, "foo.jar")
	require.NoError(t, err)
	assert.False(t, ok, "file should be gone")

	require.Error(t, mgr.DeleteFile(ctx, "foo.jar"), "deleting twice should fail")
}

func TestProgress(t *testing.T) {
	tests := []struct {
		name    string
		total   int
		updates []int
		want    []int
	}{
		{
			name:    "floor_percentages",
			total:   3,
			updates: []int{1, 2, 3},
			want:    []int{33, 66, 100},
		},
		{
			name:    "never_decreases",
			total:   4,
			updates: []int{2, 1, 4},
			want:    []int{50, 50, 100},
		},
		{
			name:    "zero_total_is_a_no_op",
			total:   0,
			updates: []int{1},
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			var got []int
			p := NewProgress(tt.total, func(percent int) { got = append(got, percent) })
			for _, u := range tt.updates {
				p.Update(ctx, u)
			}
			assert.Equal(t, tt.want, got, "reported percentages should match")
		})
	}
}

func TestFileStatusString(t *testing.T) {
	assert.Equal(t, "fetched", StatusFetched.String())
	assert.Equal(t, "unchanged", StatusUnchanged.String())
	assert.Equal(t, "deleted", StatusDeleted.String())
	assert.Equal(t, "unknown", FileStatus(99).String())
}

func TestFormatProgress(t *testing.T) {
	f := NewDefaultFileFormatter()
	assert.Equal(t, "⏳ Progress: 1/3 (33%)", f.FormatProgress(1, 3))
	assert.Equal(t, "✅ Progress: 3/3 (100%)", f.FormatProgress(3, 3))
	assert.Equal(t, "⏳ Progress: 0/0 (0%)", f.FormatProgress(0, 0))
}
