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

package descriptor

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

const validRecord = `
name = "Foo"
filename = "foo.jar"

[download]
hash = "a9993e364706816aba3e25717850c26c9cd0d89d"
hash-format = "sha1"
mode = "metadata:curseforge"

[update.curseforge]
file-id = 4083493
project-id = 682418
`

// dropLine removes the first line containing substr from validRecord
func dropLine(substr string) string {
	lines := strings.Split(validRecord, "\n")
	out := make([]string, 0, len(lines))
	dropped := false
	for _, l := range lines {
		if !dropped && strings.Contains(l, substr) {
			dropped = true
			continue
		}
		out = append(out, l)
	}
	return strings.Join(out, "\n")
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name       string
		data       string
		wantField  string
		wantReason string
		wantMode   string
		check      func(t *testing.T, d *Descriptor)
	}{
		{
			name: "valid_record",
			data: validRecord,
			check: func(t *testing.T, d *Descriptor) {
				assert.Equal(t, "Foo", d.Name)
				assert.Equal(t, "foo.jar", d.Filename)
				assert.Equal(t, "sha1", d.Download.HashFormat)
				assert.Equal(t, int64(4083493), d.FileID())
				assert.Equal(t, int64(682418), d.ProjectID())
				assert.Equal(t, "foo.index.toml", d.File)
			},
		},
		{
			name:       "missing_name",
			data:       dropLine("name ="),
			wantField:  "name",
			wantReason: ReasonMissing,
		},
		{
			name:       "missing_filename",
			data:       dropLine("filename ="),
			wantField:  "filename",
			wantReason: ReasonMissing,
		},
		{
			name:       "missing_download_table",
			data:       "name = \"Foo\"\nfilename = \"foo.jar\"\n",
			wantField:  "download",
			wantReason: ReasonMissing,
		},
		{
			name:       "missing_mode",
			data:       dropLine("mode ="),
			wantField:  "download.mode",
			wantReason: ReasonMissing,
		},
		{
			name:       "missing_hash",
			data:       dropLine("hash ="),
			wantField:  "download.hash",
			wantReason: ReasonMissing,
		},
		{
			name:       "missing_hash_format",
			data:       dropLine("hash-format ="),
			wantField:  "download.hash-format",
			wantReason: ReasonMissing,
		},
		{
			name:     "unsupported_mode",
			data:     strings.Replace(validRecord, "metadata:curseforge", "url", 1),
			wantMode: "url",
		},
		{
			name:     "unsupported_mode_checked_before_update_fields",
			data:     strings.Replace(dropLine("file-id ="), "metadata:curseforge", "url", 1),
			wantMode: "url",
		},
		{
			name:       "missing_update_table",
			data:       strings.Split(validRecord, "[update.curseforge]")[0],
			wantField:  "update",
			wantReason: ReasonMissing,
		},
		{
			name:       "missing_curseforge_table",
			data:       strings.Replace(validRecord, "[update.curseforge]", "[update.modrinth]", 1),
			wantField:  "update.curseforge",
			wantReason: ReasonMissing,
		},
		{
			name:       "missing_file_id",
			data:       dropLine("file-id ="),
			wantField:  "update.curseforge.file-id",
			wantReason: ReasonMissing,
		},
		{
			name:       "missing_project_id",
			data:       dropLine("project-id ="),
			wantField:  "update.curseforge.project-id",
			wantReason: ReasonMissing,
		},
		{
			name:       "filename_escapes_directory",
			data:       strings.Replace(validRecord, `"foo.jar"`, `"../foo.jar"`, 1),
			wantField:  "filename",
			wantReason: ReasonEscapes,
		},
		{
			name:       "absolute_filename",
			data:       strings.Replace(validRecord, `"foo.jar"`, `"/tmp/foo.jar"`, 1),
			wantField:  "filename",
			wantReason: ReasonEscapes,
		},
		{
			name:      "unparseable_toml",
			data:      "name = \n[[[",
			wantField: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Decode("foo.index.toml", []byte(tt.data))

			switch {
			case tt.check != nil:
				require.NoError(t, err, "decode should succeed")
				tt.check(t, d)
			case tt.wantMode != "":
				require.Error(t, err)
				var u *UnsupportedModeError
				require.True(t, errors.As(err, &u), "error should be an UnsupportedModeError, got %v", err)
				assert.Equal(t, tt.wantMode, u.Mode)
				assert.Equal(t, "foo.index.toml", u.File)
			default:
				require.Error(t, err)
				var m *MalformedError
				require.True(t, errors.As(err, &m), "error should be a MalformedError, got %v", err)
				assert.Equal(t, tt.wantField, m.Field, "reported field should match")
				if tt.wantReason != "" {
					assert.Equal(t, tt.wantReason, m.Reason)
				}
				assert.Equal(t, "foo.index.toml", m.File)
			}
		})
	}
}

func TestDecodeReportsFirstMissingField(t *testing.T) {
	_, err := Decode("x.toml", []byte("[download]\nmode = \"metadata:curseforge\"\n"))
	var m *MalformedError
	require.True(t, errors.As(err, &m))
	assert.Equal(t, "name", m.Field, "name is checked before every other field")
	assert.Equal(t, "malformed index file x.toml: name missing", m.Error())
}

func writeIndex(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestStoreLoad(t *testing.T) {
	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
	dir := t.TempDir()

	writeIndex(t, dir, "b-valid.toml", validRecord)
	writeIndex(t, dir, "a-broken.toml", dropLine("hash ="))
	writeIndex(t, dir, "c-url.toml", strings.Replace(validRecord, "metadata:curseforge", "url", 1))
	writeIndex(t, dir, "README.md", "not an index file")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.toml"), 0755))

	store := NewStore(dir, "")

	files, err := store.Files(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a-broken.toml", "b-valid.toml", "c-url.toml"}, files, "only toml files in listing order")

	results, err := store.Load(ctx)
	require.NoError(t, err, "bad records should not fail the batch")
	require.Len(t, results, 3)

	var m *MalformedError
	assert.True(t, errors.As(results[0].Err, &m), "a-broken.toml should be malformed")
	assert.NoError(t, results[1].Err, "b-valid.toml should be valid")
	var u *UnsupportedModeError
	assert.True(t, errors.As(results[2].Err, &u), "c-url.toml should be unsupported")

	valid := Valid(results)
	require.Len(t, valid, 1)
	assert.Equal(t, "b-valid.toml", valid[0].File)

	refs := Referenceable(results)
	require.Len(t, refs, 2, "a missing hash does not stop a record from being referenced")
	assert.Equal(t, "a-broken.toml", refs[0].File)
	assert.Equal(t, "b-valid.toml", refs[1].File)
}

func TestStoreMissingDir(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing"), DefaultPattern)

	_, err := store.Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIndexDirNotFound), "error should wrap ErrIndexDirNotFound")
}

func TestStoreBadPattern(t *testing.T) {
	store := NewStore(t.TempDir(), "[")

	_, err := store.Files(context.Background())
	require.Error(t, err)
}
