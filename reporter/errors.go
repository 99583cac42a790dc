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

// Package reporter carries a source position alongside a parse failure, so
// callers can point back into the original input.
package reporter

import (
	"errors"
	"fmt"

	"github.com/eenblam/goedn/ast"
)

// ErrInvalidSource is a sentinel error returned by the batch helpers in
// package parser when one or more inputs fails to parse.
var ErrInvalidSource = errors.New("parse failed: invalid source")

// ErrorWithPos is an error about a source input that adds the position that
// caused it.
type ErrorWithPos interface {
	error
	// GetPosition returns the source position that caused the underlying error.
	GetPosition() ast.Position
	// Unwrap returns the underlying error.
	Unwrap() error
}

// Error creates a new ErrorWithPos from the given error and source position.
func Error(pos ast.Position, err error) ErrorWithPos {
	return errorWithSourcePos{pos: pos, underlying: err}
}

// Errorf creates a new ErrorWithPos whose underlying error is created using
// the given message format and arguments (via fmt.Errorf).
func Errorf(pos ast.Position, format string, args ...interface{}) ErrorWithPos {
	return errorWithSourcePos{pos: pos, underlying: fmt.Errorf(format, args...)}
}

type errorWithSourcePos struct {
	underlying error
	pos        ast.Position
}

func (e errorWithSourcePos) Error() string {
	return fmt.Sprintf("%s: %v", e.GetPosition(), e.underlying)
}

func (e errorWithSourcePos) GetPosition() ast.Position {
	return e.pos
}

func (e errorWithSourcePos) Unwrap() error {
	return e.underlying
}

var _ ErrorWithPos = errorWithSourcePos{}
