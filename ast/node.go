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

// Package ast defines the abstract syntax tree produced by parsing an EDN
// document, and the two embedded sublanguages (the transaction language and
// the Datalog-style query language) that reuse it.
package ast

import (
	"fmt"
	"reflect"
)

// Span is a half-open range of byte offsets `[Start, End)` into the original
// input. Every AST node carries one.
type Span struct {
	Start int
	End   int
}

// NewSpan builds a Span, panicking if start > end; callers construct spans
// only from cursor positions recorded during a single forward scan, so this
// is a programmer error, not an input error.
func NewSpan(start, end int) Span {
	if start > end {
		panic("ast: span start after end")
	}
	return Span{Start: start, End: end}
}

// Join returns the smallest span covering both s and other.
func (s Span) Join(other Span) Span {
	start := s.Start
	if other.Start < start {
		start = other.Start
	}
	end := s.End
	if other.End > end {
		end = other.End
	}
	return Span{Start: start, End: end}
}

// Text returns the substring of input delimited by the span.
func (s Span) Text(input string) string {
	return input[s.Start:s.End]
}

// Node is implemented by every AST type. It reports the node's span in the
// original input.
type Node interface {
	Span() Span
}

// spanOf joins the spans of one or more nodes, in order. It panics if nodes
// is empty; callers always have at least one child when they need a spanning
// range, since span computation is only ever done for constructed, non-empty
// productions.
func spanOf(nodes ...Node) Span {
	sp := nodes[0].Span()
	for _, n := range nodes[1:] {
		sp = sp.Join(n.Span())
	}
	return sp
}

// IsNil reports whether n is a nil interface or a nil pointer/slice/map
// stored in a non-nil interface, mirroring the common Go footgun where a
// typed nil compares unequal to a bare nil interface.
func IsNil(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	switch v.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Interface, reflect.Chan, reflect.Func:
		return v.IsNil()
	default:
		return false
	}
}

// Position is a human-readable source position, computed on demand from a
// byte offset and the original input. It is used only for error reporting;
// the AST itself never stores anything richer than a Span.
type Position struct {
	Filename string
	Offset   int
	Line     int // 1-based
	Col      int // 1-based, in runes
}

// NewPosition computes the line and column of offset within input.
func NewPosition(filename, input string, offset int) Position {
	line, col := 1, 1
	for i, r := range input {
		if i >= offset {
			break
		}
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return Position{Filename: filename, Offset: offset, Line: line, Col: col}
}

func (p Position) String() string {
	if p.Filename == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Col)
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Col)
}
