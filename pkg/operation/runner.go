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

package operation

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Operation is one user-facing workflow step (sync, status, export)
type Operation interface {
	Name() string
	Execute(ctx context.Context) error
}

type namedOperation struct {
	name string
	fn   func(ctx context.Context) error
}

func (o namedOperation) Name() string                      { return o.name }
func (o namedOperation) Execute(ctx context.Context) error { return o.fn(ctx) }

// Named wraps fn as an Operation
func Named(name string, fn func(ctx context.Context) error) Operation {
	return namedOperation{name: name, fn: fn}
}

// 🏃 OperationRunner executes operations one at a time
type OperationRunner struct {
	logger *zerolog.Logger
}

// 🏗️ NewRunner creates a new runner. A nil logger falls back to the context logger.
func NewRunner(logger *zerolog.Logger) *OperationRunner {
	return &OperationRunner{
		logger: logger,
	}
}

// 🏃 Run executes an operation on the calling goroutine
func (r *OperationRunner) Run(ctx context.Context, op Operation) error {
	logger := zerolog.Ctx(ctx)
	if r.logger != nil {
		logger = r.logger
	}
	sub := logger.With().Str("operation", op.Name()).Logger()
	ctx = sub.WithContext(ctx)

	start := time.Now()
	sub.Debug().Msg("starting operation")

	if err := op.Execute(ctx); err != nil {
		sub.Debug().Err(err).Dur("elapsed", time.Since(start)).Msg("operation failed")
		return errors.Errorf("running %s: %w", op.Name(), err)
	}

	sub.Debug().Dur("elapsed", time.Since(start)).Msg("operation finished")
	return nil
}
