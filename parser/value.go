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
	"math"
	"time"

	"github.com/eenblam/goedn/ast"
)

// parseValue implements the `value` production's ordered disjunction
// (§4.2): nil, nan, infinity, boolean, number, instant, uuid, text,
// keyword, symbol, list, vector, map, set. The tagged forms (nan,
// infinity, instant, uuid) and set all begin with `#`, so they are
// dispatched together in parseHashForm; number is tried before symbol so
// that a leading digit or sign is never mistaken for an identifier.
func (p *Parser) parseValue() (ast.Value, error) {
	p.skipWhitespaceAndComments()
	start := p.pos
	if p.atEOF() {
		return nil, p.expected(expectValue)
	}

	ru, _, _ := p.peekRune()
	switch ru {
	case '#':
		return p.parseHashForm(start)
	case '"':
		text, _, err := p.scanQuotedString()
		if err != nil {
			return nil, p.wrapLexError(start, err)
		}
		return ast.NewText(ast.NewSpan(start, p.pos), text), nil
	case ':':
		return p.parseKeyword(start)
	case '(':
		return p.parseList(start)
	case '[':
		return p.parseVector(start)
	case '{':
		return p.parseMap(start)
	}

	if v, ok := p.tryScanNumber(start); ok {
		return v, nil
	}

	id, ok := p.scanIdentPath()
	if !ok {
		return nil, p.expected(expectValue)
	}
	sp := ast.NewSpan(start, p.pos)
	if !id.HasNamespace() {
		switch id.Name {
		case "nil":
			return ast.NewNil(sp), nil
		case "true":
			return ast.NewBool(sp, true), nil
		case "false":
			return ast.NewBool(sp, false), nil
		}
	}
	return ast.NewSymbol(sp, ast.Symbol{Ident: id}), nil
}

// tryScanNumber tries the six numeric alternatives in the order §4.1
// specifies.
func (p *Parser) tryScanNumber(start int) (ast.Value, bool) {
	if bi, ok := p.scanBigInteger(start); ok {
		return ast.NewBigInt(ast.NewSpan(start, p.pos), bi), true
	}
	if val, _, ok := p.scanBasedInteger(start); ok {
		return ast.NewInt(ast.NewSpan(start, p.pos), val), true
	}
	if val, ok := p.scanHexInteger(start); ok {
		return ast.NewInt(ast.NewSpan(start, p.pos), val), true
	}
	if val, ok := p.scanOctalInteger(start); ok {
		return ast.NewInt(ast.NewSpan(start, p.pos), val), true
	}
	if val, ok := p.scanInteger(start); ok {
		return ast.NewInt(ast.NewSpan(start, p.pos), val), true
	}
	if val, ok := p.scanFloat(start); ok {
		return ast.NewFloat(ast.NewSpan(start, p.pos), val), true
	}
	return nil, false
}

// parseHashForm parses everything introduced by a leading `#`: a set
// literal, a tagged float (NaN/Infinity), an instant, or a UUID.
func (p *Parser) parseHashForm(start int) (ast.Value, error) {
	p.advanceRune() // '#'
	if p.peekRuneIs('{') {
		return p.parseSet(start)
	}
	tag, ok := p.scanIdentRun()
	if !ok {
		return nil, p.expected(expectValue)
	}
	switch tag {
	case "f":
		return p.parseTaggedFloat(start)
	case "inst":
		return p.parseTaggedInstString(start)
	case "instmillis":
		return p.parseTaggedInstMillis(start)
	case "instmicros":
		return p.parseTaggedInstMicros(start)
	case "uuid":
		return p.parseTaggedUUID(start)
	default:
		return nil, p.expected(expectValue)
	}
}

func (p *Parser) parseTaggedFloat(start int) (ast.Value, error) {
	p.skipWhitespaceAndComments()
	switch {
	case p.tryConsumeLiteral("NaN"):
		return ast.NewFloat(ast.NewSpan(start, p.pos), math.NaN()), nil
	case p.tryConsumeLiteral("+Infinity"):
		return ast.NewFloat(ast.NewSpan(start, p.pos), math.Inf(1)), nil
	case p.tryConsumeLiteral("-Infinity"):
		return ast.NewFloat(ast.NewSpan(start, p.pos), math.Inf(-1)), nil
	default:
		return nil, p.expected(expectValue)
	}
}

func (p *Parser) parseTaggedInstString(start int) (ast.Value, error) {
	p.skipWhitespaceAndComments()
	text, ok, err := p.scanQuotedString()
	if err != nil {
		return nil, p.wrapLexError(p.pos, err)
	}
	if !ok {
		return nil, p.errorAt(start, "invalid datetime")
	}
	t, perr := time.Parse(time.RFC3339Nano, text)
	if perr != nil {
		return nil, p.errorAt(start, "invalid datetime")
	}
	return ast.NewInstant(ast.NewSpan(start, p.pos), t), nil
}

func (p *Parser) parseTaggedInstMillis(start int) (ast.Value, error) {
	p.skipWhitespaceAndComments()
	numStart := p.pos
	n, ok := p.scanInteger(numStart)
	if !ok {
		return nil, p.errorAt(start, "invalid datetime")
	}
	return ast.NewInstant(ast.NewSpan(start, p.pos), instantFromMillis(n)), nil
}

func (p *Parser) parseTaggedInstMicros(start int) (ast.Value, error) {
	p.skipWhitespaceAndComments()
	numStart := p.pos
	n, ok := p.scanInteger(numStart)
	if !ok {
		return nil, p.errorAt(start, "invalid datetime")
	}
	return ast.NewInstant(ast.NewSpan(start, p.pos), instantFromMicros(n)), nil
}

func (p *Parser) parseTaggedUUID(start int) (ast.Value, error) {
	p.skipWhitespaceAndComments()
	text, ok, err := p.scanQuotedString()
	if err != nil {
		return nil, p.wrapLexError(p.pos, err)
	}
	if !ok {
		return nil, p.expected(expectValue)
	}
	id, ok := parseUUIDText(text)
	if !ok {
		return nil, p.errorAt(start, "invalid uuid")
	}
	return ast.NewUUID(ast.NewSpan(start, p.pos), id), nil
}

// instantFromMillis converts signed milliseconds-since-epoch to UTC,
// keeping the sub-second remainder non-negative even for negative inputs.
func instantFromMillis(millis int64) time.Time {
	sec := millis / 1000
	rem := millis % 1000
	if rem < 0 {
		rem += 1000
		sec--
	}
	return time.Unix(sec, rem*int64(time.Millisecond)).UTC()
}

// instantFromMicros is instantFromMillis's microsecond-precision sibling.
func instantFromMicros(micros int64) time.Time {
	sec := micros / 1_000_000
	rem := micros % 1_000_000
	if rem < 0 {
		rem += 1_000_000
		sec--
	}
	return time.Unix(sec, rem*int64(time.Microsecond)).UTC()
}

func (p *Parser) parseKeyword(start int) (ast.Value, error) {
	p.advanceRune() // ':'
	id, ok := p.scanIdentPath()
	if !ok {
		return nil, p.expected(expectKeyword)
	}
	return ast.NewKeywordValue(ast.NewSpan(start, p.pos), ast.Keyword{Ident: id}), nil
}

func (p *Parser) parseList(start int) (ast.Value, error) {
	p.advanceRune() // '('
	var elems []ast.Value
	for {
		p.skipWhitespaceAndComments()
		if p.peekRuneIs(')') {
			p.advanceRune()
			return ast.NewList(ast.NewSpan(start, p.pos), elems), nil
		}
		if p.atEOF() {
			return nil, p.expected(expectValue)
		}
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
	}
}

func (p *Parser) parseVector(start int) (ast.Value, error) {
	p.advanceRune() // '['
	var elems []ast.Value
	for {
		p.skipWhitespaceAndComments()
		if p.peekRuneIs(']') {
			p.advanceRune()
			return ast.NewVector(ast.NewSpan(start, p.pos), elems), nil
		}
		if p.atEOF() {
			return nil, p.expected(expectValue)
		}
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
	}
}

// parseSet parses a `#{ … }` set literal. The leading `#` was already
// consumed by parseHashForm; only the `{ … }` remains.
func (p *Parser) parseSet(start int) (ast.Value, error) {
	p.advanceRune() // '{'
	set := ast.NewOrderedSet()
	for {
		p.skipWhitespaceAndComments()
		if p.peekRuneIs('}') {
			p.advanceRune()
			return ast.NewSetValue(ast.NewSpan(start, p.pos), set), nil
		}
		if p.atEOF() {
			return nil, p.expected(expectValue)
		}
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		set.Add(v)
	}
}

// parseMap parses a `{ k v … }` map literal, failing on an odd number of
// elements.
func (p *Parser) parseMap(start int) (ast.Value, error) {
	p.advanceRune() // '{'
	var elems []ast.Value
	for {
		p.skipWhitespaceAndComments()
		if p.peekRuneIs('}') {
			p.advanceRune()
			break
		}
		if p.atEOF() {
			return nil, p.expected(expectValue)
		}
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
	}
	if len(elems)%2 != 0 {
		return nil, p.errorAt(start, "odd number of map elements")
	}
	m := ast.NewOrderedMap()
	for i := 0; i < len(elems); i += 2 {
		m.Set(elems[i], elems[i+1])
	}
	return ast.NewMapValue(ast.NewSpan(start, p.pos), m), nil
}

// wrapLexError promotes a lexer-level scan error (unterminated string,
// invalid escape) into a positioned ParseError.
func (p *Parser) wrapLexError(fallbackOffset int, err error) error {
	switch e := err.(type) {
	case *unterminatedStringError:
		return p.errorAt(e.offset, "unterminated string")
	case *invalidEscapeError:
		return p.errorAt(e.offset, "invalid escape sequence")
	default:
		return p.errorAt(fallbackOffset, "%v", err)
	}
}
