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
	"github.com/eenblam/goedn/ast"
	"github.com/eenblam/goedn/reporter"
)

// ParseError marks an error as having been produced by this package's
// grammar, as opposed to some other collaborator's error. It always wraps a
// reporter.ErrorWithPos.
type ParseError interface {
	reporter.ErrorWithPos
	isParseError()
}

type parseError struct {
	reporter.ErrorWithPos
}

func (parseError) isParseError() {}

var _ ParseError = parseError{}

// expectation names the taxonomy of "expected X" messages a failed parse
// can report (§7).
type expectation string

const (
	expectValue                expectation = "value"
	expectAtom                 expectation = "atom"
	expectSymbol               expectation = "symbol"
	expectKeyword              expectation = "keyword"
	expectEntid                expectation = "entid"
	expectForwardEntid         expectation = "forward entid"
	expectLookupRef            expectation = "lookup-ref"
	expectEntity               expectation = "entity"
	expectNamespacedKeyword    expectation = "namespaced keyword"
	expectPattern              expectation = "pattern"
	expectPatternValuePlace    expectation = "pattern_value_place"
	expectPatternNonValuePlace expectation = "pattern_non_value_place"
	expectQueryFunction        expectation = "query function"
	expectQueryFunctionArg     expectation = "query function argument"
	expectVariable             expectation = "variable"
	expectSrcVar               expectation = "src_var"
)

// expected builds the parser's standard "expected X" error at the cursor's
// current offset.
func (p *Parser) expected(what expectation) error {
	return p.errorAt(p.pos, "expected %s", what)
}

// expectedAt is like expected but anchors the error to a caller-supplied
// offset instead of the current cursor position.
func (p *Parser) expectedAt(offset int, what expectation) error {
	return p.errorAt(offset, "expected %s", what)
}

// errorAt builds a ParseError positioned at offset, with a message built
// from format/args the way the semantic-action messages in §7 are (e.g.
// "invalid datetime", "expected unique variables").
func (p *Parser) errorAt(offset int, format string, args ...interface{}) error {
	pos := ast.NewPosition(p.filename, p.input, offset)
	return parseError{reporter.Errorf(pos, format, args...)}
}
