// Copyright 2020-2023 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package parser

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/eenblam/goedn/ast"
	"github.com/eenblam/goedn/reporter"
)

// defaultBatchLimit bounds how many inputs a batch call parses concurrently
// when the caller does not override it. Each worker owns its own *Parser,
// so the only resource this bounds is CPU fan-out.
const defaultBatchLimit = 8

// ParseAllEntities parses each of inputs as a single transaction entity
// (Parser.Entity), fanning independent inputs out across a bounded worker
// pool. It returns the results in input order, or the first error
// encountered wrapped in reporter.ErrInvalidSource (errgroup's standard
// first-error-wins semantics, so callers can `errors.Is` the failure while
// `errors.As` still recovers the underlying reporter.ErrorWithPos). Once ctx
// is cancelled or a parse has failed, workers that have not started yet skip
// their input; if ctx was cancelled, ctx.Err() is returned unwrapped.
// limit <= 0 uses defaultBatchLimit.
func ParseAllEntities(ctx context.Context, inputs []string, limit int) ([]ast.Entity, error) {
	if limit <= 0 {
		limit = defaultBatchLimit
	}
	results := make([]ast.Entity, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, input := range inputs {
		i, input := i, input
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			e, err := New(input).Entity()
			if err != nil {
				return err
			}
			results[i] = e
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %w", reporter.ErrInvalidSource, err)
	}
	return results, nil
}

// ParseAllQueries is ParseAllEntities's sibling for Parser.ParseQuery.
func ParseAllQueries(ctx context.Context, inputs []string, limit int) ([]*ast.ParsedQuery, error) {
	if limit <= 0 {
		limit = defaultBatchLimit
	}
	results := make([]*ast.ParsedQuery, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, input := range inputs {
		i, input := i, input
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			q, err := New(input).ParseQuery()
			if err != nil {
				return err
			}
			results[i] = q
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %w", reporter.ErrInvalidSource, err)
	}
	return results, nil
}
