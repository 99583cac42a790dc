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
	"strings"

	"github.com/eenblam/goedn/ast"
)

// parseQuery parses `[ query-part+ ]` (§4.4). Each part is introduced by
// one of the six reserved keywords (:find :in :where :limit :order :with);
// the elements between one part keyword and the next (or the closing `]`)
// belong to the preceding part. The parts are assembled and validated by
// ast.NewParsedQuery.
func (p *Parser) parseQuery() (*ast.ParsedQuery, error) {
	p.skipWhitespaceAndComments()
	start := p.pos
	if !p.peekRuneIs('[') {
		return nil, p.expected(expectValue)
	}
	p.advanceRune()

	var parts []ast.QueryPart
	for {
		p.skipWhitespaceAndComments()
		if p.peekRuneIs(']') {
			p.advanceRune()
			q, err := ast.NewParsedQuery(ast.NewSpan(start, p.pos), parts)
			if err != nil {
				return nil, p.errorAt(start, "%v", err)
			}
			return q, nil
		}
		if p.atEOF() {
			return nil, p.expected(expectValue)
		}
		partStart := p.pos
		name, err := p.parseQueryPartKeyword()
		if err != nil {
			return nil, err
		}
		part, err := p.parseQueryPart(partStart, name)
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}
}

func (p *Parser) parseQueryPartKeyword() (string, error) {
	p.skipWhitespaceAndComments()
	start := p.pos
	if !p.peekRuneIs(':') {
		return "", p.expected(expectKeyword)
	}
	p.advanceRune()
	id, ok := p.scanIdentPath()
	if !ok {
		return "", p.expectedAt(start, expectKeyword)
	}
	return id.Name, nil
}

// peekIsPartBoundary reports, without consuming input, whether the next
// token is one of the six reserved part keywords. Every part's element
// list is terminated by this lookahead rather than a dedicated close
// marker, since query-parts share one flat enclosing vector.
func (p *Parser) peekIsPartBoundary() bool {
	save := p.pos
	defer func() { p.pos = save }()
	p.skipWhitespaceAndComments()
	if !p.peekRuneIs(':') {
		return false
	}
	p.advanceRune()
	id, ok := p.scanIdentPath()
	if !ok || id.HasNamespace() {
		return false
	}
	switch id.Name {
	case "find", "in", "where", "limit", "order", "with":
		return true
	}
	return false
}

func (p *Parser) parseQueryPart(start int, name string) (ast.QueryPart, error) {
	switch name {
	case "find":
		return p.parseFindPart(start)
	case "in":
		return p.parseInPart(start)
	case "where":
		return p.parseWherePart(start)
	case "limit":
		return p.parseLimitPart(start)
	case "order":
		return p.parseOrderPart(start)
	case "with":
		return p.parseWithPart(start)
	default:
		return nil, p.expectedAt(start, expectKeyword)
	}
}

// --- :find ---

func (p *Parser) parseFindPart(start int) (ast.QueryPart, error) {
	p.skipWhitespaceAndComments()
	var spec ast.FindSpec
	var err error
	if p.peekRuneIs('[') {
		spec, err = p.parseFindBracketed()
	} else {
		spec, err = p.parseFindFlat()
	}
	if err != nil {
		return nil, err
	}
	return ast.NewPartFind(ast.NewSpan(start, p.pos), spec), nil
}

// parseFindBracketed parses the bracketed find-spec shapes: FindColl (a
// single element followed by the literal `...`) and FindTuple (one or more
// elements with no trailing marker).
func (p *Parser) parseFindBracketed() (ast.FindSpec, error) {
	bstart := p.pos
	p.advanceRune() // '['
	var elems []ast.Element
	for {
		p.skipWhitespaceAndComments()
		if p.peekRuneIs(']') {
			p.advanceRune()
			if len(elems) == 0 {
				return nil, p.expectedAt(bstart, expectValue)
			}
			return ast.NewFindTuple(ast.NewSpan(bstart, p.pos), elems), nil
		}
		if p.atEOF() {
			return nil, p.expected(expectValue)
		}
		if len(elems) == 1 && p.tryConsumeEllipsis() {
			p.skipWhitespaceAndComments()
			if !p.peekRuneIs(']') {
				return nil, p.expected(expectValue)
			}
			p.advanceRune()
			return ast.NewFindColl(ast.NewSpan(bstart, p.pos), elems[0]), nil
		}
		e, err := p.parseElement()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
}

// parseFindFlat parses the unbracketed find-spec shapes: FindScalar (a
// single element followed by the literal `.`) and FindRel (one or more
// elements with no trailing marker).
func (p *Parser) parseFindFlat() (ast.FindSpec, error) {
	start := p.pos
	var elems []ast.Element
	for {
		p.skipWhitespaceAndComments()
		if len(elems) == 1 && p.peekIsDot() {
			p.scanIdentPath() // consume "."
			return ast.NewFindScalar(ast.NewSpan(start, p.pos), elems[0]), nil
		}
		if p.peekIsPartBoundary() || p.peekRuneIs(']') || p.atEOF() {
			break
		}
		e, err := p.parseElement()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
	if len(elems) == 0 {
		return nil, p.expectedAt(start, expectValue)
	}
	return ast.NewFindRel(ast.NewSpan(start, p.pos), elems), nil
}

// tryConsumeEllipsis consumes the literal symbol `...` if present.
func (p *Parser) tryConsumeEllipsis() bool {
	save := p.pos
	id, ok := p.scanIdentPath()
	if !ok || id.HasNamespace() || id.Name != "..." {
		p.pos = save
		return false
	}
	return true
}

// peekIsDot reports, without consuming input, whether the next token is
// the literal symbol `.`.
func (p *Parser) peekIsDot() bool {
	save := p.pos
	id, ok := p.scanIdentPath()
	p.pos = save
	return ok && !id.HasNamespace() && id.Name == "."
}

func (p *Parser) parseElement() (ast.Element, error) {
	p.skipWhitespaceAndComments()
	start := p.pos
	if p.peekRuneIs('(') {
		return p.parseElementForm(start)
	}
	v, err := p.parseVariable()
	if err != nil {
		return nil, err
	}
	return ast.NewElementVariable(v), nil
}

// parseElementForm parses `(the ?v)`, `(pull ?v [ attr-spec+ ])`, or an
// aggregate `(fn arg*)`.
func (p *Parser) parseElementForm(start int) (ast.Element, error) {
	p.advanceRune() // '('
	p.skipWhitespaceAndComments()
	headStart := p.pos
	id, ok := p.scanIdentPath()
	if !ok {
		return nil, p.expected(expectQueryFunction)
	}

	if !id.HasNamespace() && id.Name == "the" {
		p.skipWhitespaceAndComments()
		v, err := p.parseVariable()
		if err != nil {
			return nil, err
		}
		p.skipWhitespaceAndComments()
		if !p.peekRuneIs(')') {
			return nil, p.expected(expectValue)
		}
		p.advanceRune()
		return ast.NewElementCorresponding(ast.NewSpan(start, p.pos), v), nil
	}

	if !id.HasNamespace() && id.Name == "pull" {
		p.skipWhitespaceAndComments()
		v, err := p.parseVariable()
		if err != nil {
			return nil, err
		}
		p.skipWhitespaceAndComments()
		patterns, err := p.parsePullAttributeSpecs()
		if err != nil {
			return nil, err
		}
		p.skipWhitespaceAndComments()
		if !p.peekRuneIs(')') {
			return nil, p.expected(expectValue)
		}
		p.advanceRune()
		return ast.NewElementPull(ast.NewSpan(start, p.pos), v, patterns), nil
	}

	fn := ast.NewQueryFunction(ast.NewSpan(headStart, p.pos), ast.Symbol{Ident: id})
	args, err := p.parseFnArgsUntilClose()
	if err != nil {
		return nil, err
	}
	return ast.NewElementAggregate(ast.NewSpan(start, p.pos), fn, args), nil
}

func (p *Parser) parsePullAttributeSpecs() ([]ast.PullAttributeSpec, error) {
	p.skipWhitespaceAndComments()
	if !p.peekRuneIs('[') {
		return nil, p.expected(expectValue)
	}
	p.advanceRune()
	var specs []ast.PullAttributeSpec
	for {
		p.skipWhitespaceAndComments()
		if p.peekRuneIs(']') {
			p.advanceRune()
			return specs, nil
		}
		if p.atEOF() {
			return nil, p.expected(expectValue)
		}
		spec, err := p.parsePullAttributeSpec()
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
}

// parsePullAttributeSpec parses a wildcard `*`, or a forward namespaced
// attribute keyword optionally followed by a `:as forward-keyword` alias
// marker (§4.4): `:person/email :as :email`.
func (p *Parser) parsePullAttributeSpec() (ast.PullAttributeSpec, error) {
	p.skipWhitespaceAndComments()
	start := p.pos
	if p.peekRuneIs('*') {
		p.advanceRune()
		return ast.NewPullWildcard(ast.NewSpan(start, p.pos)), nil
	}
	kw, err := p.parseAttributeKeyword()
	if err != nil {
		return nil, err
	}
	if !kw.HasNamespace() || kw.IsBackward() {
		return nil, p.errorAt(start, "expected namespaced :forward/…")
	}

	save := p.pos
	p.skipWhitespaceAndComments()
	if asKw, err := p.parseAttributeKeyword(); err == nil {
		if !asKw.HasNamespace() && asKw.Name == "as" {
			p.skipWhitespaceAndComments()
			aliasStart := p.pos
			alias, err := p.parseAttributeKeyword()
			if err != nil {
				return nil, err
			}
			if alias.IsBackward() {
				return nil, p.errorAt(aliasStart, "expected :forward…")
			}
			return ast.NewPullAttribute(ast.NewSpan(start, p.pos), kw, &alias), nil
		}
	}
	p.pos = save
	return ast.NewPullAttribute(ast.NewSpan(start, p.pos), kw, nil), nil
}

func (p *Parser) parseAttributeKeyword() (ast.Keyword, error) {
	p.skipWhitespaceAndComments()
	start := p.pos
	if !p.peekRuneIs(':') {
		return ast.Keyword{}, p.expected(expectKeyword)
	}
	p.advanceRune()
	id, ok := p.scanIdentPath()
	if !ok {
		return ast.Keyword{}, p.expectedAt(start, expectKeyword)
	}
	return ast.Keyword{Ident: id}, nil
}

// --- variables and src-vars ---

func (p *Parser) parseVariable() (ast.Variable, error) {
	v, ok := p.tryParseVariable()
	if !ok {
		return ast.Variable{}, p.expected(expectVariable)
	}
	return v, nil
}

func (p *Parser) tryParseVariable() (ast.Variable, bool) {
	start := p.pos
	if !p.peekRuneIs('?') {
		return ast.Variable{}, false
	}
	id, ok := p.scanIdentPath()
	if !ok {
		return ast.Variable{}, false
	}
	return ast.NewVariable(ast.NewSpan(start, p.pos), ast.Symbol{Ident: id}), true
}

func (p *Parser) tryParseSrcVar() (ast.SrcVar, bool) {
	start := p.pos
	if !p.peekRuneIs('$') {
		return ast.SrcVar{}, false
	}
	id, ok := p.scanIdentPath()
	if !ok {
		return ast.SrcVar{}, false
	}
	return ast.NewSrcVar(ast.NewSpan(start, p.pos), ast.Symbol{Ident: id}), true
}

// --- fn-args ---

func (p *Parser) parseFnArgsUntilClose() ([]ast.FnArg, error) {
	var args []ast.FnArg
	for {
		p.skipWhitespaceAndComments()
		if p.peekRuneIs(')') {
			p.advanceRune()
			return args, nil
		}
		if p.atEOF() {
			return nil, p.expected(expectValue)
		}
		arg, err := p.parseFnArg()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
}

func (p *Parser) parseFnArg() (ast.FnArg, error) {
	p.skipWhitespaceAndComments()
	start := p.pos
	if p.peekRuneIs('[') {
		return p.parseFnArgVector(start)
	}
	if sv, ok := p.tryParseSrcVar(); ok {
		return ast.NewFnArgSrcVar(sv), nil
	}
	if v, ok := p.tryParseVariable(); ok {
		return ast.NewFnArgVariable(v), nil
	}
	val, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	return ast.NewFnArgConstant(val), nil
}

func (p *Parser) parseFnArgVector(start int) (ast.FnArg, error) {
	p.advanceRune() // '['
	var elems []ast.FnArg
	for {
		p.skipWhitespaceAndComments()
		if p.peekRuneIs(']') {
			p.advanceRune()
			return ast.NewFnArgVector(ast.NewSpan(start, p.pos), elems), nil
		}
		if p.atEOF() {
			return nil, p.expected(expectValue)
		}
		e, err := p.parseFnArg()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
}

// --- :in ---

func (p *Parser) parseInPart(start int) (ast.QueryPart, error) {
	var inputs []ast.InVar
	for {
		p.skipWhitespaceAndComments()
		if p.peekIsPartBoundary() || p.peekRuneIs(']') || p.atEOF() {
			break
		}
		iv, err := p.parseInVar()
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, iv)
	}
	return ast.NewPartIn(ast.NewSpan(start, p.pos), inputs), nil
}

func (p *Parser) parseInVar() (ast.InVar, error) {
	p.skipWhitespaceAndComments()
	if sv, ok := p.tryParseSrcVar(); ok {
		return ast.NewInSrcVar(sv), nil
	}
	return p.parseBinding()
}

// parseBinding parses a where-fn/`:in` binding shape: BindScalar (a bare
// variable) or one of the bracketed shapes BindRel, BindColl, BindTuple.
func (p *Parser) parseBinding() (ast.Binding, error) {
	p.skipWhitespaceAndComments()
	if p.peekRuneIs('[') {
		return p.parseBracketedBinding()
	}
	v, err := p.parseVariable()
	if err != nil {
		return nil, err
	}
	return ast.NewBindScalar(v), nil
}

func (p *Parser) parseBracketedBinding() (ast.Binding, error) {
	start := p.pos
	p.advanceRune() // '['
	p.skipWhitespaceAndComments()

	if p.peekRuneIs('[') {
		vars, err := p.parseVarOrPlaceholderBracket()
		if err != nil {
			return nil, err
		}
		p.skipWhitespaceAndComments()
		if !p.peekRuneIs(']') {
			return nil, p.expected(expectValue)
		}
		p.advanceRune()
		return ast.NewBindRel(ast.NewSpan(start, p.pos), vars), nil
	}

	var vars []ast.VariableOrPlaceholder
	sawEllipsis := false
	for {
		p.skipWhitespaceAndComments()
		if p.peekRuneIs(']') {
			p.advanceRune()
			break
		}
		if p.atEOF() {
			return nil, p.expected(expectValue)
		}
		if len(vars) == 1 && p.tryConsumeEllipsis() {
			sawEllipsis = true
			p.skipWhitespaceAndComments()
			if !p.peekRuneIs(']') {
				return nil, p.expected(expectValue)
			}
			p.advanceRune()
			break
		}
		vp, err := p.parseVarOrPlaceholder()
		if err != nil {
			return nil, err
		}
		vars = append(vars, vp)
	}

	if sawEllipsis {
		vv, ok := vars[0].(*ast.VarOrPlaceholderVar)
		if !ok {
			return nil, p.expectedAt(start, expectVariable)
		}
		return ast.NewBindColl(ast.NewSpan(start, p.pos), vv.Var), nil
	}
	return ast.NewBindTuple(ast.NewSpan(start, p.pos), vars), nil
}

func (p *Parser) parseVarOrPlaceholderBracket() ([]ast.VariableOrPlaceholder, error) {
	p.advanceRune() // '['
	var vars []ast.VariableOrPlaceholder
	for {
		p.skipWhitespaceAndComments()
		if p.peekRuneIs(']') {
			p.advanceRune()
			return vars, nil
		}
		if p.atEOF() {
			return nil, p.expected(expectValue)
		}
		vp, err := p.parseVarOrPlaceholder()
		if err != nil {
			return nil, err
		}
		vars = append(vars, vp)
	}
}

func (p *Parser) parseVarOrPlaceholder() (ast.VariableOrPlaceholder, error) {
	p.skipWhitespaceAndComments()
	start := p.pos
	id, ok := p.scanIdentPath()
	if !ok {
		return nil, p.expectedAt(start, expectVariable)
	}
	if !id.HasNamespace() && id.Name == "_" {
		return ast.NewVarOrPlaceholderPlaceholder(ast.NewSpan(start, p.pos)), nil
	}
	if !id.HasNamespace() && strings.HasPrefix(id.Name, "?") {
		return ast.NewVarOrPlaceholderVar(ast.NewVariable(ast.NewSpan(start, p.pos), ast.Symbol{Ident: id})), nil
	}
	return nil, p.expectedAt(start, expectVariable)
}

// --- :where ---

func (p *Parser) parseWherePart(start int) (ast.QueryPart, error) {
	var clauses []ast.WhereClause
	for {
		p.skipWhitespaceAndComments()
		if p.peekIsPartBoundary() || p.peekRuneIs(']') || p.atEOF() {
			break
		}
		c, err := p.parseWhereClause()
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, c)
	}
	return ast.NewPartWhere(ast.NewSpan(start, p.pos), clauses), nil
}

func (p *Parser) parseWhereClause() (ast.WhereClause, error) {
	p.skipWhitespaceAndComments()
	start := p.pos
	switch {
	case p.peekRuneIs('('):
		return p.parseGroupClause(start)
	case p.peekRuneIs('['):
		return p.parseBracketedClause(start)
	default:
		return nil, p.expected(expectValue)
	}
}

// parseGroupClause parses `(and …)`, `(or …)`, `(or-join [var+] …)`,
// `(not …)`, and `(not-join [var+] …)`.
func (p *Parser) parseGroupClause(start int) (ast.WhereClause, error) {
	p.advanceRune() // '('
	p.skipWhitespaceAndComments()
	headStart := p.pos
	id, ok := p.scanIdentPath()
	if !ok || id.HasNamespace() {
		return nil, p.expected(expectValue)
	}

	switch id.Name {
	case "and":
		clauses, err := p.parseWhereClausesUntilClose()
		if err != nil {
			return nil, err
		}
		return ast.NewAndGroup(ast.NewSpan(start, p.pos), clauses), nil
	case "or":
		clauses, err := p.parseWhereClausesUntilClose()
		if err != nil {
			return nil, err
		}
		unify := ast.NewUnifyImplicit(ast.NewSpan(headStart, headStart))
		return ast.NewOrJoin(ast.NewSpan(start, p.pos), unify, clauses), nil
	case "or-join":
		unify, err := p.parseUnifyExplicitBracket()
		if err != nil {
			return nil, err
		}
		clauses, err := p.parseWhereClausesUntilClose()
		if err != nil {
			return nil, err
		}
		return ast.NewOrJoin(ast.NewSpan(start, p.pos), unify, clauses), nil
	case "not":
		clauses, err := p.parseWhereClausesUntilClose()
		if err != nil {
			return nil, err
		}
		unify := ast.NewUnifyImplicit(ast.NewSpan(headStart, headStart))
		return ast.NewNotJoin(ast.NewSpan(start, p.pos), unify, clauses), nil
	case "not-join":
		unify, err := p.parseUnifyExplicitBracket()
		if err != nil {
			return nil, err
		}
		clauses, err := p.parseWhereClausesUntilClose()
		if err != nil {
			return nil, err
		}
		return ast.NewNotJoin(ast.NewSpan(start, p.pos), unify, clauses), nil
	default:
		return nil, p.expectedAt(headStart, expectValue)
	}
}

func (p *Parser) parseWhereClausesUntilClose() ([]ast.WhereClause, error) {
	var clauses []ast.WhereClause
	for {
		p.skipWhitespaceAndComments()
		if p.peekRuneIs(')') {
			p.advanceRune()
			return clauses, nil
		}
		if p.atEOF() {
			return nil, p.expected(expectValue)
		}
		c, err := p.parseWhereClause()
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, c)
	}
}

func (p *Parser) parseUnifyExplicitBracket() (ast.UnifyVars, error) {
	p.skipWhitespaceAndComments()
	start := p.pos
	if !p.peekRuneIs('[') {
		return nil, p.expected(expectValue)
	}
	p.advanceRune()
	var vars []ast.Variable
	for {
		p.skipWhitespaceAndComments()
		if p.peekRuneIs(']') {
			p.advanceRune()
			break
		}
		if p.atEOF() {
			return nil, p.expected(expectValue)
		}
		v, err := p.parseVariable()
		if err != nil {
			return nil, err
		}
		vars = append(vars, v)
	}
	unify, err := ast.NewUnifyExplicit(ast.NewSpan(start, p.pos), vars)
	if err != nil {
		return nil, p.errorAt(start, "%v", err)
	}
	return unify, nil
}

// parseBracketedClause parses the `[ … ]`-headed where-clauses: a pattern,
// or (when the first token inside the brackets is `(`) a type-annotation,
// predicate, or where-fn.
func (p *Parser) parseBracketedClause(start int) (ast.WhereClause, error) {
	p.advanceRune() // '['
	p.skipWhitespaceAndComments()
	if p.peekRuneIs('(') {
		return p.parseFnFormClause(start)
	}
	return p.parsePatternClause(start)
}

func (p *Parser) parseFnFormClause(start int) (ast.WhereClause, error) {
	p.advanceRune() // '('
	p.skipWhitespaceAndComments()
	headStart := p.pos
	id, ok := p.scanIdentPath()
	if !ok {
		return nil, p.expected(expectQueryFunction)
	}

	if !id.HasNamespace() && id.Name == "type" {
		p.skipWhitespaceAndComments()
		v, err := p.parseVariable()
		if err != nil {
			return nil, err
		}
		p.skipWhitespaceAndComments()
		tag, err := p.parseAttributeKeyword()
		if err != nil {
			return nil, err
		}
		p.skipWhitespaceAndComments()
		if !p.peekRuneIs(')') {
			return nil, p.expected(expectValue)
		}
		p.advanceRune()
		p.skipWhitespaceAndComments()
		if !p.peekRuneIs(']') {
			return nil, p.expected(expectValue)
		}
		p.advanceRune()
		return ast.NewTypeAnnotation(ast.NewSpan(start, p.pos), v, tag), nil
	}

	fn := ast.NewQueryFunction(ast.NewSpan(headStart, p.pos), ast.Symbol{Ident: id})
	args, err := p.parseFnArgsUntilClose()
	if err != nil {
		return nil, err
	}

	p.skipWhitespaceAndComments()
	if p.peekRuneIs(']') {
		p.advanceRune()
		return ast.NewPred(ast.NewSpan(start, p.pos), fn, args), nil
	}

	binding, err := p.parseBinding()
	if err != nil {
		return nil, err
	}
	p.skipWhitespaceAndComments()
	if !p.peekRuneIs(']') {
		return nil, p.expected(expectValue)
	}
	p.advanceRune()
	return ast.NewWhereFn(ast.NewSpan(start, p.pos), fn, args, binding), nil
}

// parsePatternClause parses `[ src? e a v? tx? ]`, deferring the
// backward-attribute rewrite to ast.NewPattern.
func (p *Parser) parsePatternClause(start int) (ast.WhereClause, error) {
	var source *ast.SrcVar
	if sv, ok := p.tryParseSrcVar(); ok {
		source = &sv
	}

	p.skipWhitespaceAndComments()
	e, err := p.parsePatternNonValuePlace()
	if err != nil {
		return nil, err
	}
	p.skipWhitespaceAndComments()
	a, err := p.parsePatternNonValuePlace()
	if err != nil {
		return nil, err
	}
	p.skipWhitespaceAndComments()

	var v ast.PatternValuePlace = ast.NewPatternPlaceholder(ast.NewSpan(p.pos, p.pos))
	var tx ast.PatternNonValuePlace = ast.NewPatternPlaceholder(ast.NewSpan(p.pos, p.pos))
	if !p.peekRuneIs(']') {
		v, err = p.parsePatternValuePlace()
		if err != nil {
			return nil, err
		}
		p.skipWhitespaceAndComments()
		if !p.peekRuneIs(']') {
			tx, err = p.parsePatternNonValuePlace()
			if err != nil {
				return nil, err
			}
			p.skipWhitespaceAndComments()
		}
	}
	if !p.peekRuneIs(']') {
		return nil, p.expected(expectPattern)
	}
	p.advanceRune()

	pat, err := ast.NewPattern(ast.NewSpan(start, p.pos), source, e, a, v, tx)
	if err != nil {
		return nil, p.errorAt(start, "%v", err)
	}
	return pat, nil
}

func (p *Parser) parsePatternNonValuePlace() (ast.PatternNonValuePlace, error) {
	p.skipWhitespaceAndComments()
	start := p.pos
	if v, ok := p.tryParseVariable(); ok {
		return ast.NewPatternVariable(v), nil
	}
	if entid, ok := p.tryParseEntidOrIdent(); ok {
		return ast.NewPatternEntid(entid), nil
	}
	save := p.pos
	id, ok := p.scanIdentPath()
	if ok && !id.HasNamespace() && id.Name == "_" {
		return ast.NewPatternPlaceholder(ast.NewSpan(start, p.pos)), nil
	}
	p.pos = save
	return nil, p.expectedAt(start, expectPatternNonValuePlace)
}

func (p *Parser) parsePatternValuePlace() (ast.PatternValuePlace, error) {
	p.skipWhitespaceAndComments()
	start := p.pos
	if v, ok := p.tryParseVariable(); ok {
		return ast.NewPatternVariable(v), nil
	}
	save := p.pos
	id, ok := p.scanIdentPath()
	if ok && !id.HasNamespace() && id.Name == "_" {
		return ast.NewPatternPlaceholder(ast.NewSpan(start, p.pos)), nil
	}
	p.pos = save
	val, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	return ast.NewPatternConstant(val), nil
}

// --- :limit ---

func (p *Parser) parseLimitPart(start int) (ast.QueryPart, error) {
	p.skipWhitespaceAndComments()
	limStart := p.pos
	if v, ok := p.tryParseVariable(); ok {
		return ast.NewPartLimit(ast.NewSpan(start, p.pos), ast.NewLimitVariable(v)), nil
	}
	n, ok := p.scanInteger(limStart)
	if !ok {
		return nil, p.expected(expectValue)
	}
	if n < 0 {
		return nil, p.errorAt(limStart, "expected positive integer")
	}
	lim, err := ast.NewLimitFixed(ast.NewSpan(limStart, p.pos), uint64(n))
	if err != nil {
		return nil, p.errorAt(limStart, "%v", err)
	}
	return ast.NewPartLimit(ast.NewSpan(start, p.pos), lim), nil
}

// --- :order ---

func (p *Parser) parseOrderPart(start int) (ast.QueryPart, error) {
	var orders []ast.Order
	for {
		p.skipWhitespaceAndComments()
		if p.peekIsPartBoundary() || p.peekRuneIs(']') || p.atEOF() {
			break
		}
		o, err := p.parseOrder()
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return ast.NewPartOrderBy(ast.NewSpan(start, p.pos), orders), nil
}

func (p *Parser) parseOrder() (ast.Order, error) {
	p.skipWhitespaceAndComments()
	start := p.pos
	if p.peekRuneIs('(') {
		p.advanceRune()
		p.skipWhitespaceAndComments()
		id, ok := p.scanIdentPath()
		if !ok || id.HasNamespace() {
			return ast.Order{}, p.expected(expectValue)
		}
		var dir ast.Direction
		switch id.Name {
		case "asc":
			dir = ast.DirAscending
		case "desc":
			dir = ast.DirDescending
		default:
			return ast.Order{}, p.expectedAt(start, expectValue)
		}
		p.skipWhitespaceAndComments()
		v, err := p.parseVariable()
		if err != nil {
			return ast.Order{}, err
		}
		p.skipWhitespaceAndComments()
		if !p.peekRuneIs(')') {
			return ast.Order{}, p.expected(expectValue)
		}
		p.advanceRune()
		return ast.NewOrder(ast.NewSpan(start, p.pos), dir, v), nil
	}
	v, err := p.parseVariable()
	if err != nil {
		return ast.Order{}, err
	}
	return ast.NewOrder(ast.NewSpan(start, p.pos), ast.DirAscending, v), nil
}

// --- :with ---

func (p *Parser) parseWithPart(start int) (ast.QueryPart, error) {
	var vars []ast.Variable
	for {
		p.skipWhitespaceAndComments()
		if p.peekIsPartBoundary() || p.peekRuneIs(']') || p.atEOF() {
			break
		}
		v, err := p.parseVariable()
		if err != nil {
			return nil, err
		}
		vars = append(vars, v)
	}
	return ast.NewPartWith(ast.NewSpan(start, p.pos), vars), nil
}

// parseWhereFnClause parses a single `[(fn arg*) binding]` where-fn clause,
// independent of any enclosing query document.
func (p *Parser) parseWhereFnClause() (*ast.WhereFn, error) {
	p.skipWhitespaceAndComments()
	start := p.pos
	if !p.peekRuneIs('[') {
		return nil, p.expected(expectValue)
	}
	clause, err := p.parseBracketedClause(start)
	if err != nil {
		return nil, err
	}
	wf, ok := clause.(*ast.WhereFn)
	if !ok {
		return nil, p.expectedAt(start, expectValue)
	}
	return wf, nil
}
