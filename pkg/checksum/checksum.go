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

// Package checksum computes streaming content digests for artifact files.
package checksum

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
	"io"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// BlockSize is the read size used when streaming a file into a digest.
// Any value yields the same digest.
const BlockSize = 64 * 1024

// FormatSHA1 is the only format descriptors are required to use
const FormatSHA1 = "sha1"

// ErrUnsupportedFormat is returned for an unknown hash-format tag
var ErrUnsupportedFormat = errors.Base("unsupported hash format")

var formats = map[string]func() hash.Hash{
	FormatSHA1: sha1.New,
	"sha256":   sha256.New,
	"sha512":   sha512.New,
	"md5":      md5.New,
}

// Supported reports whether format names a known digest
func Supported(format string) bool {
	_, ok := formats[normalize(format)]
	return ok
}

func normalize(format string) string {
	return strings.ToLower(strings.TrimSpace(format))
}

// Reader digests everything read from r and returns the lowercase hex sum
func Reader(r io.Reader, format string) (string, error) {
	newHash, ok := formats[normalize(format)]
	if !ok {
		return "", errors.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	h := newHash()
	buf := make([]byte, BlockSize)
	if _, err := io.CopyBuffer(h, r, buf); err != nil {
		return "", errors.Errorf("reading content: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Equal compares two hex digests case-insensitively
func Equal(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
