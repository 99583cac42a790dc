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
)

// parseEntity parses a single top-level transaction entity: an entity
// vector `[ … ]` or a map-notation entity `{ … }` (§4.3).
func (p *Parser) parseEntity() (ast.Entity, error) {
	p.skipWhitespaceAndComments()
	start := p.pos
	switch {
	case p.peekRuneIs('['):
		return p.parseEntityVector(start)
	case p.peekRuneIs('{'):
		return p.parseMapNotation(start)
	default:
		return nil, p.expected(expectEntity)
	}
}

// parseEntities parses `[ entity* ]`.
func (p *Parser) parseEntities() ([]ast.Entity, error) {
	p.skipWhitespaceAndComments()
	if !p.peekRuneIs('[') {
		return nil, p.expected(expectEntity)
	}
	p.advanceRune()
	var entities []ast.Entity
	for {
		p.skipWhitespaceAndComments()
		if p.peekRuneIs(']') {
			p.advanceRune()
			return entities, nil
		}
		if p.atEOF() {
			return nil, p.expected(expectEntity)
		}
		e, err := p.parseEntity()
		if err != nil {
			return nil, err
		}
		entities = append(entities, e)
	}
}

// parseEntityVector parses the two alternative entity-vector shapes
// (§4.3), trying the forward shape first: `[ op entity-place forward-entid
// value-place ]`. If the attribute position turns out to be a backward
// keyword, the vector is instead the reversed shape `[ op value-place
// backward-entid entity-place ]`, and e/v are swapped with the attribute
// reversed to its forward form.
func (p *Parser) parseEntityVector(start int) (ast.Entity, error) {
	p.advanceRune() // '['
	op, err := p.parseTxOp()
	if err != nil {
		return nil, err
	}

	save := p.pos
	e, a, v, matched, err := p.tryForwardEntityShape()
	if err != nil {
		return nil, err
	}
	if matched {
		return ast.NewAddOrRetract(ast.NewSpan(start, p.pos), op, e, a, v), nil
	}
	p.pos = save

	return p.parseBackwardEntityShape(start, op)
}

// tryForwardEntityShape attempts `entity-place forward-entid value-place
// ]`. It reports matched=false (restoring the cursor) only while it is
// still plausible that this is really the backward shape instead; once the
// attribute position is confirmed to be forward, any further failure is
// reported as a hard error rather than falling through.
func (p *Parser) tryForwardEntityShape() (ast.EntityPlace, ast.AttributePlace, ast.ValuePlace, bool, error) {
	save := p.pos
	entityPlace, err := p.parseEntityPlace()
	if err != nil {
		p.pos = save
		return nil, ast.AttributePlace{}, nil, false, nil
	}
	p.skipWhitespaceAndComments()
	entid, ok := p.tryParseEntidOrIdent()
	if !ok {
		p.pos = save
		return nil, ast.AttributePlace{}, nil, false, nil
	}
	if isBackwardEntidOrIdent(entid) {
		p.pos = save
		return nil, ast.AttributePlace{}, nil, false, nil
	}
	attr := ast.NewAttributePlace(entid)

	p.skipWhitespaceAndComments()
	valuePlace, err := p.parseValuePlace()
	if err != nil {
		return nil, ast.AttributePlace{}, nil, false, err
	}
	p.skipWhitespaceAndComments()
	if !p.peekRuneIs(']') {
		return nil, ast.AttributePlace{}, nil, false, p.expected(expectEntity)
	}
	p.advanceRune()
	return entityPlace, attr, valuePlace, true, nil
}

// parseBackwardEntityShape parses `value-place backward-entid entity-place
// ]`, reversing the attribute and swapping e/v roles as it builds the
// AddOrRetract.
func (p *Parser) parseBackwardEntityShape(start int, op ast.OpType) (ast.Entity, error) {
	valuePlace, err := p.parseValuePlace()
	if err != nil {
		return nil, p.expected(expectEntity)
	}
	p.skipWhitespaceAndComments()
	attrStart := p.pos
	entid, err := p.parseEntidOrIdent()
	if err != nil {
		return nil, p.expected(expectEntity)
	}
	if !isBackwardEntidOrIdent(entid) {
		return nil, p.errorAt(attrStart, "expected :_backward…")
	}
	reversed := reverseEntidOrIdent(entid)

	p.skipWhitespaceAndComments()
	entityPlace, err := p.parseEntityPlace()
	if err != nil {
		return nil, p.expected(expectEntity)
	}
	p.skipWhitespaceAndComments()
	if !p.peekRuneIs(']') {
		return nil, p.expected(expectEntity)
	}
	p.advanceRune()

	attr := ast.NewAttributePlace(reversed)
	return ast.NewAddOrRetract(ast.NewSpan(start, p.pos), op, entityPlace, attr, valuePlace), nil
}

// parseTxOp parses `:db/add` or `:db/retract`.
func (p *Parser) parseTxOp() (ast.OpType, error) {
	p.skipWhitespaceAndComments()
	start := p.pos
	v, err := p.parseValue()
	if err != nil {
		return 0, err
	}
	kw, ok := v.(*ast.KeywordValue)
	if ok {
		switch kw.Val.String() {
		case ":db/add":
			return ast.OpAdd, nil
		case ":db/retract":
			return ast.OpRetract, nil
		}
	}
	return 0, p.expectedAt(start, expectKeyword)
}

// parseEntidOrIdent parses the generic "entid" token: an integer literal,
// or a namespaced keyword in either forward or backward form. It is used
// where direction is not yet known, i.e. the entity-vector's attribute
// position, which discriminates the forward and backward shapes.
func (p *Parser) parseEntidOrIdent() (ast.EntidOrIdent, error) {
	start := p.pos
	v, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	switch val := v.(type) {
	case *ast.IntValue:
		return ast.NewEntid(val.Span(), val.Val), nil
	case *ast.KeywordValue:
		if !val.Val.HasNamespace() {
			return nil, p.expectedAt(start, expectNamespacedKeyword)
		}
		return ast.NewIdentRef(val.Span(), val.Val), nil
	default:
		return nil, p.expectedAt(start, expectEntid)
	}
}

// tryParseEntidOrIdent is parseEntidOrIdent with backtracking, for callers
// trying it as one of several ordered alternatives.
func (p *Parser) tryParseEntidOrIdent() (ast.EntidOrIdent, bool) {
	save := p.pos
	e, err := p.parseEntidOrIdent()
	if err != nil {
		p.pos = save
		return nil, false
	}
	return e, true
}

// parseForwardEntidOrIdent parses an entid/ident that must be forward, as
// required for an AttributePlace outside the entity-vector's shape
// discriminator (lookup-refs, map-notation attributes).
func (p *Parser) parseForwardEntidOrIdent() (ast.EntidOrIdent, error) {
	start := p.pos
	e, err := p.parseEntidOrIdent()
	if err != nil {
		return nil, err
	}
	if isBackwardEntidOrIdent(e) {
		return nil, p.expectedAt(start, expectForwardEntid)
	}
	return e, nil
}

func (p *Parser) tryParseForwardEntidOrIdent() (ast.EntidOrIdent, bool) {
	save := p.pos
	e, err := p.parseForwardEntidOrIdent()
	if err != nil {
		p.pos = save
		return nil, false
	}
	return e, true
}

func isBackwardEntidOrIdent(e ast.EntidOrIdent) bool {
	ref, ok := e.(*ast.IdentRef)
	return ok && ref.Val.IsBackward()
}

func reverseEntidOrIdent(e ast.EntidOrIdent) ast.EntidOrIdent {
	ref := e.(*ast.IdentRef)
	return ast.NewIdentRef(ref.Span(), ref.Val.Reversed())
}

// parseEntityPlace parses an EntityPlace, trying raw text (temp-id) →
// entid → lookup-ref → tx-function in order (§4.3).
func (p *Parser) parseEntityPlace() (ast.EntityPlace, error) {
	p.skipWhitespaceAndComments()
	start := p.pos

	if p.peekRuneIs('"') {
		text, _, err := p.scanQuotedString()
		if err != nil {
			return nil, p.wrapLexError(start, err)
		}
		return ast.NewTempId(ast.NewSpan(start, p.pos), text), nil
	}

	if entid, ok := p.tryParseForwardEntidOrIdent(); ok {
		return ast.NewEntityEntid(entid), nil
	}

	if p.peekRuneIs('(') {
		if lr, matched, err := p.tryParseLookupRef(); err != nil {
			return nil, err
		} else if matched {
			return lr, nil
		}
		if txf, matched, err := p.tryParseTxFunction(); err != nil {
			return nil, err
		} else if matched {
			return txf, nil
		}
	}

	return nil, p.expected(expectEntity)
}

// parseValuePlace parses a ValuePlace, trying lookup-ref → tx-function →
// bracketed vector of value-places → map-notation → atom in order (§4.3).
// A bare collection matching none of the first four is rejected.
func (p *Parser) parseValuePlace() (ast.ValuePlace, error) {
	p.skipWhitespaceAndComments()
	start := p.pos

	if p.peekRuneIs('(') {
		if lr, matched, err := p.tryParseLookupRef(); err != nil {
			return nil, err
		} else if matched {
			return lr, nil
		}
		if txf, matched, err := p.tryParseTxFunction(); err != nil {
			return nil, err
		} else if matched {
			return txf, nil
		}
		return nil, p.expected(expectValue)
	}

	if p.peekRuneIs('[') {
		return p.parseValuePlaceVector(start)
	}

	if p.peekRuneIs('{') {
		return p.parseMapNotation(start)
	}

	v, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	if !ast.Atomic(v) {
		return nil, p.expectedAt(start, expectAtom)
	}
	return ast.NewValueAtom(v), nil
}

func (p *Parser) parseValuePlaceVector(start int) (ast.ValuePlace, error) {
	p.advanceRune() // '['
	var elems []ast.ValuePlace
	for {
		p.skipWhitespaceAndComments()
		if p.peekRuneIs(']') {
			p.advanceRune()
			return ast.NewValueVector(ast.NewSpan(start, p.pos), elems), nil
		}
		if p.atEOF() {
			return nil, p.expected(expectValue)
		}
		vp, err := p.parseValuePlace()
		if err != nil {
			return nil, err
		}
		elems = append(elems, vp)
	}
}

// parseMapNotation parses `{ entid value-place … }`. It is used both for a
// top-level map-notation entity and for a nested map-notation value-place.
func (p *Parser) parseMapNotation(start int) (*ast.MapNotation, error) {
	p.advanceRune() // '{'
	var entries []ast.MapNotationEntry
	for {
		p.skipWhitespaceAndComments()
		if p.peekRuneIs('}') {
			p.advanceRune()
			return ast.NewMapNotation(ast.NewSpan(start, p.pos), entries), nil
		}
		if p.atEOF() {
			return nil, p.expected(expectValue)
		}
		entid, err := p.parseForwardEntidOrIdent()
		if err != nil {
			return nil, err
		}
		p.skipWhitespaceAndComments()
		vp, err := p.parseValuePlace()
		if err != nil {
			return nil, err
		}
		entries = append(entries, ast.MapNotationEntry{A: entid, V: vp})
	}
}

// tryParseLookupRef attempts `(lookup-ref entid value)`. matched reports
// whether the `(lookup-ref` head was recognised; once it has been, any
// further failure is a hard error rather than a fallthrough to the next
// alternative.
func (p *Parser) tryParseLookupRef() (*ast.LookupRef, bool, error) {
	save := p.pos
	start := p.pos
	if !p.peekRuneIs('(') {
		return nil, false, nil
	}
	p.advanceRune()
	p.skipWhitespaceAndComments()
	id, ok := p.scanIdentPath()
	if !ok || id.HasNamespace() || id.Name != "lookup-ref" {
		p.pos = save
		return nil, false, nil
	}

	p.skipWhitespaceAndComments()
	entid, err := p.parseForwardEntidOrIdent()
	if err != nil {
		return nil, true, err
	}
	attr := ast.NewAttributePlace(entid)

	p.skipWhitespaceAndComments()
	val, err := p.parseValue()
	if err != nil {
		return nil, true, err
	}

	p.skipWhitespaceAndComments()
	if !p.peekRuneIs(')') {
		return nil, true, p.expected(expectLookupRef)
	}
	p.advanceRune()
	return ast.NewLookupRef(ast.NewSpan(start, p.pos), attr, val), true, nil
}

// tryParseTxFunction attempts `(symbol-name)`, a plain unnamespaced symbol
// with an empty argument list at this level.
func (p *Parser) tryParseTxFunction() (*ast.TxFunction, bool, error) {
	save := p.pos
	start := p.pos
	if !p.peekRuneIs('(') {
		return nil, false, nil
	}
	p.advanceRune()
	p.skipWhitespaceAndComments()
	symStart := p.pos
	id, ok := p.scanIdentPath()
	if !ok || id.HasNamespace() {
		p.pos = save
		return nil, false, nil
	}
	sym := ast.Symbol{Ident: id}

	p.skipWhitespaceAndComments()
	if !p.peekRuneIs(')') {
		p.pos = save
		return nil, false, nil
	}
	p.advanceRune()
	_ = symStart
	return ast.NewTxFunction(ast.NewSpan(start, p.pos), sym), true, nil
}
