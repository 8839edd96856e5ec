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
	"fmt"

	"gitlab.com/tozd/go/errors"
)

// ErrIndexDirNotFound is returned when the index directory does not exist
var ErrIndexDirNotFound = errors.Base("index directory not found")

// Malformed reasons
const (
	ReasonMissing = "missing"
	ReasonEscapes = "escapes artifact directory"
)

// ❌ MalformedError reports an index record missing a required field
type MalformedError struct {
	File   string // index file
	Field  string // dotted field path, empty for unparseable files
	Reason string
}

func (e *MalformedError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("malformed index file %s: %s", e.File, e.Reason)
	}
	return fmt.Sprintf("malformed index file %s: %s %s", e.File, e.Field, e.Reason)
}

// ⚠️ UnsupportedModeError reports a recognized but unhandled download mode
type UnsupportedModeError struct {
	File string
	Mode string
}

func (e *UnsupportedModeError) Error() string {
	return fmt.Sprintf("unsupported download mode in %s: %s", e.File, e.Mode)
}
