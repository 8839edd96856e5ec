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

package checksum

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestReader(t *testing.T) {
	tests := []struct {
		name    string
		content string
		format  string
		want    string
		wantErr error
	}{
		{
			name:    "sha1_empty",
			content: "",
			format:  "sha1",
			want:    "da39a3ee5e6b4b0d3255bfef95601890afd80709",
		},
		{
			name:    "sha1_abc",
			content: "abc",
			format:  "sha1",
			want:    "a9993e364706816aba3e25717850c26c9cd0d89d",
		},
		{
			name:    "format_tag_is_case_insensitive",
			content: "abc",
			format:  " SHA1 ",
			want:    "a9993e364706816aba3e25717850c26c9cd0d89d",
		},
		{
			name:    "sha256_abc",
			content: "abc",
			format:  "sha256",
			want:    "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		},
		{
			name:    "md5_abc",
			content: "abc",
			format:  "md5",
			want:    "900150983cd24fb0d6963f7d28e17f72",
		},
		{
			name:    "unknown_format",
			content: "abc",
			format:  "murmur2",
			wantErr: ErrUnsupportedFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Reader(strings.NewReader(tt.content), tt.format)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "error should wrap %v", tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBlockSizeDoesNotChangeDigest(t *testing.T) {
	data := bytes.Repeat([]byte("0123456789abcdef"), BlockSize/8+7)
	want := sha1.Sum(data)

	whole, err := Reader(bytes.NewReader(data), FormatSHA1)
	require.NoError(t, err)

	oneByte, err := Reader(iotest.OneByteReader(bytes.NewReader(data)), FormatSHA1)
	require.NoError(t, err)

	half, err := Reader(iotest.HalfReader(bytes.NewReader(data)), FormatSHA1)
	require.NoError(t, err)

	assert.Equal(t, hex.EncodeToString(want[:]), whole)
	assert.Equal(t, whole, oneByte, "digest should not depend on read size")
	assert.Equal(t, whole, half, "digest should not depend on read size")
}

func TestHelpers(t *testing.T) {
	assert.True(t, Supported("SHA1"))
	assert.False(t, Supported("crc32"))
	assert.True(t, Supported(" md5 "))
	assert.True(t, Equal("ABC123", "abc123"))
	assert.False(t, Equal("abc", "abd"))
}
