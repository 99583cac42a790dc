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

// Package parser implements a recursive-descent parser for an EDN dialect
// and its two embedded sublanguages, the transaction language and the
// Datalog-style query language.
package parser

import (
	"github.com/eenblam/goedn/ast"
)

// Parser holds the cursor over a single input. It is single-use: construct
// one with New or NewWithFilename per parse.
type Parser struct {
	runeReader
	filename string
}

// New returns a Parser over input, with no filename attached to positions
// it reports.
func New(input string) *Parser {
	return &Parser{runeReader: runeReader{input: input}}
}

// NewWithFilename is like New but attaches filename to reported positions.
func NewWithFilename(filename, input string) *Parser {
	return &Parser{runeReader: runeReader{input: input}, filename: filename}
}

// finish skips trailing whitespace/comments and fails if non-whitespace
// content remains, per the "reject trailing non-whitespace content"
// contract every public entry point shares (§6).
func (p *Parser) finish() error {
	p.skipWhitespaceAndComments()
	if !p.atEOF() {
		return p.expected(expectValue)
	}
	return nil
}

// Value parses a single spanned value (§4.2), rejecting trailing content.
func (p *Parser) Value() (ast.Value, error) {
	p.skipWhitespaceAndComments()
	v, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	if err := p.finish(); err != nil {
		return nil, err
	}
	return v, nil
}

// Atom parses a single atomic spanned value, rejecting trailing content and
// any collection value.
func (p *Parser) Atom() (ast.Value, error) {
	p.skipWhitespaceAndComments()
	v, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	if !ast.Atomic(v) {
		return nil, p.expectedAt(v.Span().Start, expectAtom)
	}
	if err := p.finish(); err != nil {
		return nil, err
	}
	return v, nil
}

// Entity parses a single transaction entity (§4.3), rejecting trailing
// content.
func (p *Parser) Entity() (ast.Entity, error) {
	p.skipWhitespaceAndComments()
	e, err := p.parseEntity()
	if err != nil {
		return nil, err
	}
	if err := p.finish(); err != nil {
		return nil, err
	}
	return e, nil
}

// Entities parses a vector of transaction entities, rejecting trailing
// content.
func (p *Parser) Entities() ([]ast.Entity, error) {
	p.skipWhitespaceAndComments()
	es, err := p.parseEntities()
	if err != nil {
		return nil, err
	}
	if err := p.finish(); err != nil {
		return nil, err
	}
	return es, nil
}

// ParseQuery parses an assembled query record (§4.4), rejecting trailing
// content.
func (p *Parser) ParseQuery() (*ast.ParsedQuery, error) {
	p.skipWhitespaceAndComments()
	q, err := p.parseQuery()
	if err != nil {
		return nil, err
	}
	if err := p.finish(); err != nil {
		return nil, err
	}
	return q, nil
}

// WhereFn parses a single where-clause function binding, rejecting
// trailing content.
func (p *Parser) WhereFn() (*ast.WhereFn, error) {
	p.skipWhitespaceAndComments()
	wf, err := p.parseWhereFnClause()
	if err != nil {
		return nil, err
	}
	if err := p.finish(); err != nil {
		return nil, err
	}
	return wf, nil
}
