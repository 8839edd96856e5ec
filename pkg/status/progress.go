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

	"github.com/rs/zerolog"
)

// ProgressFunc receives a completion percentage in [0, 100]
type ProgressFunc func(percent int)

// 📈 Progress reports floor(processed/total*100), never decreasing within a run
type Progress struct {
	total     int
	last      int
	fn        ProgressFunc
	formatter *DefaultFileFormatter
}

// NewProgress creates a progress reporter for total items. fn may be nil.
func NewProgress(total int, fn ProgressFunc) *Progress {
	return &Progress{
		total:     total,
		last:      0,
		fn:        fn,
		formatter: NewDefaultFileFormatter(),
	}
}

// Update reports the percentage for processed items
func (p *Progress) Update(ctx context.Context, processed int) {
	if p.total <= 0 {
		return
	}

	percent := processed * 100 / p.total
	if percent > 100 {
		percent = 100
	}
	if percent < p.last {
		percent = p.last
	}
	p.last = percent

	zerolog.Ctx(ctx).Debug().
		Int("processed", processed).
		Int("total", p.total).
		Msg(p.formatter.FormatProgress(processed, p.total))

	if p.fn != nil {
		p.fn(percent)
	}
}
