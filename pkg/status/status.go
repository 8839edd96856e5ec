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
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📊 FileStatus represents the outcome of one reconciliation decision
type FileStatus int

const (
	StatusUnknown   FileStatus = iota
	StatusUnchanged            // File exists and its checksum matches the descriptor
	StatusFetched              // File was downloaded from the fetch endpoint
	StatusDeleted              // File was pruned from the artifact directory
	StatusFailed               // Fetch or I/O failed, retried on the next run
	StatusInvalid              // Descriptor was malformed or uses an unsupported mode
	StatusPending              // File needs a fetch (check only)
	StatusOrphaned             // File would be pruned (check only)
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusUnchanged:
		return "unchanged"
	case StatusFetched:
		return "fetched"
	case StatusDeleted:
		return "deleted"
	case StatusFailed:
		return "failed"
	case StatusInvalid:
		return "invalid"
	case StatusPending:
		return "pending"
	case StatusOrphaned:
		return "orphaned"
	default:
		return "unknown"
	}
}

// 💾 FileManager handles all artifact directory operations
type FileManager interface {
	FileExists(ctx context.Context, path string) (bool, error)
	OpenFile(ctx context.Context, path string) (io.ReadCloser, error)
	DeleteFile(ctx context.Context, path string) error
	WriteFileAtomic(ctx context.Context, path string, fill func(w io.Writer) error) error
	ListFiles(ctx context.Context, pattern string) ([]string, error)
}

// 🔧 Manager implements FileManager rooted at the artifact directory
type Manager struct {
	baseDir string
	logger  *zerolog.Logger
}

var _ FileManager = (*Manager)(nil)

// 🏭 New creates a new status manager
func New(baseDir string, logger *zerolog.Logger) *Manager {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Manager{
		baseDir: filepath.Clean(baseDir),
		logger:  logger,
	}
}

// 🔒 AbsPath returns the absolute path for a given relative path
func (m *Manager) AbsPath(path string) string {
	return filepath.Join(m.baseDir, filepath.FromSlash(path))
}

func (m *Manager) FileExists(ctx context.Context, path string) (bool, error) {
	info, err := os.Stat(m.AbsPath(path))
	if err == nil {
		return !info.IsDir(), nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Errorf("checking file existence: %w", err)
}

func (m *Manager) OpenFile(ctx context.Context, path string) (io.ReadCloser, error) {
	f, err := os.Open(m.AbsPath(path))
	if err != nil {
		return nil, errors.Errorf("opening file: %w", err)
	}
	return f, nil
}

func (m *Manager) DeleteFile(ctx context.Context, path string) error {
	if err := os.Remove(m.AbsPath(path)); err != nil {
		return errors.Errorf("deleting file: %w", err)
	}
	m.logger.Debug().Str("path", path).Msg("deleted file")
	return nil
}

// WriteFileAtomic streams content into a temp file next to the target and
// renames it into place. The target is untouched unless fill succeeds.
func (m *Manager) WriteFileAtomic(ctx context.Context, path string, fill func(w io.Writer) error) error {
	absPath := m.AbsPath(path)

	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return errors.Errorf("creating parent directories: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(absPath), ".packsync-*.tmp")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tempPath := tmp.Name()

	if err := fill(tmp); err != nil {
		tmp.Close()
		os.Remove(tempPath)
		return err
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, absPath); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("renaming temp file: %w", err)
	}

	m.logger.Debug().Str("path", path).Msg("wrote file")
	return nil
}

// ListFiles returns the regular files matching pattern, relative to the
// artifact directory, in lexical order.
func (m *Manager) ListFiles(ctx context.Context, pattern string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(m.baseDir), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.Errorf("listing files matching %q: %w", pattern, err)
	}
	sort.Strings(matches)
	return matches, nil
}
