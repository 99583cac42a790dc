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

package ast

import (
	"errors"
	"fmt"
)

// Variable is a symbol whose name begins with `?`.
type Variable struct {
	span Span
	Sym  Symbol
}

func NewVariable(span Span, sym Symbol) Variable { return Variable{span: span, Sym: sym} }

func (v Variable) Span() Span { return v.span }

// SrcVar is a symbol whose name begins with `$`.
type SrcVar struct {
	span Span
	Sym  Symbol
}

func NewSrcVar(span Span, sym Symbol) SrcVar { return SrcVar{span: span, Sym: sym} }

func (s SrcVar) Span() Span { return s.span }

// variableKey returns the canonical uniqueness key for a variable, used by
// the duplicate-variable checks in or-join/not-join and :in/:with assembly.
func variableKey(v Variable) []byte {
	return []byte(v.Sym.Ident.String())
}

// checkUniqueVariables fails with "expected unique variables" if vars
// contains a repeated variable (invariant 5).
func checkUniqueVariables(vars []Variable) error {
	idx := newKeyIndex()
	for _, v := range vars {
		key := variableKey(v)
		if _, found := idx.get(key); found {
			return errors.New("expected unique variables")
		}
		idx.set(key, 0)
	}
	return nil
}

// QueryFunction names a function invoked by an aggregate element, a
// predicate, or a where-fn.
type QueryFunction struct {
	span Span
	Sym  Symbol
}

func NewQueryFunction(span Span, sym Symbol) QueryFunction {
	return QueryFunction{span: span, Sym: sym}
}

func (q QueryFunction) Span() Span { return q.span }

// FnArg is an argument to a QueryFunction: a variable, a source variable, a
// plain constant value, or a nested vector of fn-args.
type FnArg interface {
	Node
	isFnArg()
}

type FnArgVariable struct {
	span Span
	Var  Variable
}

func NewFnArgVariable(v Variable) *FnArgVariable { return &FnArgVariable{span: v.span, Var: v} }

func (f *FnArgVariable) Span() Span { return f.span }
func (*FnArgVariable) isFnArg()     {}

type FnArgSrcVar struct {
	span Span
	Src  SrcVar
}

func NewFnArgSrcVar(s SrcVar) *FnArgSrcVar { return &FnArgSrcVar{span: s.span, Src: s} }

func (f *FnArgSrcVar) Span() Span { return f.span }
func (*FnArgSrcVar) isFnArg()     {}

type FnArgConstant struct {
	span Span
	Val  Value
}

func NewFnArgConstant(val Value) *FnArgConstant {
	return &FnArgConstant{span: val.Span(), Val: val}
}

func (f *FnArgConstant) Span() Span { return f.span }
func (*FnArgConstant) isFnArg()     {}

// FnArgVector is a bracketed vector of nested fn-args.
type FnArgVector struct {
	span     Span
	Elements []FnArg
}

func NewFnArgVector(span Span, elements []FnArg) *FnArgVector {
	return &FnArgVector{span: span, Elements: elements}
}

func (f *FnArgVector) Span() Span { return f.span }
func (*FnArgVector) isFnArg()     {}

// FindSpec is the `:find` clause's shape, chosen by the trailing token of
// the find-spec production (§4.4).
type FindSpec interface {
	Node
	isFindSpec()
}

// FindScalar is `elem .`.
type FindScalar struct {
	span Span
	Elem Element
}

func NewFindScalar(span Span, elem Element) *FindScalar { return &FindScalar{span, elem} }

func (f *FindScalar) Span() Span { return f.span }
func (*FindScalar) isFindSpec()  {}

// FindTuple is `[ elem+ ]`.
type FindTuple struct {
	span  Span
	Elems []Element
}

func NewFindTuple(span Span, elems []Element) *FindTuple { return &FindTuple{span, elems} }

func (f *FindTuple) Span() Span { return f.span }
func (*FindTuple) isFindSpec()  {}

// FindColl is `[ elem … ]`.
type FindColl struct {
	span Span
	Elem Element
}

func NewFindColl(span Span, elem Element) *FindColl { return &FindColl{span, elem} }

func (f *FindColl) Span() Span { return f.span }
func (*FindColl) isFindSpec()  {}

// FindRel is the fallback shape, `elem+` with no trailing marker.
type FindRel struct {
	span  Span
	Elems []Element
}

func NewFindRel(span Span, elems []Element) *FindRel { return &FindRel{span, elems} }

func (f *FindRel) Span() Span { return f.span }
func (*FindRel) isFindSpec()  {}

// Element is one entry of a find-spec.
type Element interface {
	Node
	isElement()
}

type ElementVariable struct {
	span Span
	Var  Variable
}

func NewElementVariable(v Variable) *ElementVariable {
	return &ElementVariable{span: v.span, Var: v}
}

func (e *ElementVariable) Span() Span { return e.span }
func (*ElementVariable) isElement()   {}

// ElementCorresponding is `(the ?v)`.
type ElementCorresponding struct {
	span Span
	Var  Variable
}

func NewElementCorresponding(span Span, v Variable) *ElementCorresponding {
	return &ElementCorresponding{span: span, Var: v}
}

func (e *ElementCorresponding) Span() Span { return e.span }
func (*ElementCorresponding) isElement()   {}

// ElementPull is `(pull ?v [ attr-spec+ ])`.
type ElementPull struct {
	span     Span
	Var      Variable
	Patterns []PullAttributeSpec
}

func NewElementPull(span Span, v Variable, patterns []PullAttributeSpec) *ElementPull {
	return &ElementPull{span: span, Var: v, Patterns: patterns}
}

func (e *ElementPull) Span() Span { return e.span }
func (*ElementPull) isElement()   {}

// ElementAggregate is `(fn arg*)` in find-element position.
type ElementAggregate struct {
	span Span
	Func QueryFunction
	Args []FnArg
}

func NewElementAggregate(span Span, fn QueryFunction, args []FnArg) *ElementAggregate {
	return &ElementAggregate{span: span, Func: fn, Args: args}
}

func (e *ElementAggregate) Span() Span { return e.span }
func (*ElementAggregate) isElement()   {}

// PullAttributeSpec is one entry of a pull expression's attribute list.
type PullAttributeSpec interface {
	Node
	isPullAttributeSpec()
}

type PullWildcard struct {
	span Span
}

func NewPullWildcard(span Span) *PullWildcard { return &PullWildcard{span} }

func (p *PullWildcard) Span() Span          { return p.span }
func (*PullWildcard) isPullAttributeSpec()  {}

type PullAttribute struct {
	span      Span
	Attribute Keyword
	Alias     *Keyword
}

func NewPullAttribute(span Span, attribute Keyword, alias *Keyword) *PullAttribute {
	return &PullAttribute{span: span, Attribute: attribute, Alias: alias}
}

func (p *PullAttribute) Span() Span         { return p.span }
func (*PullAttribute) isPullAttributeSpec() {}

// PatternNonValuePlace is the grammar `pattern_non_value_place`: a
// variable, a placeholder, or an entid/ident. It is used for a Pattern's e,
// a, and tx positions.
type PatternNonValuePlace interface {
	Node
	isPatternNonValuePlace()
}

// PatternValuePlace is the grammar `pattern_value_place`: a variable, a
// placeholder, or a constant value. It is used for a Pattern's v position.
// PatternPlaceholder and PatternVariable implement both interfaces, since
// either may occupy a value or a non-value position.
type PatternValuePlace interface {
	Node
	isPatternValuePlace()
}

type PatternPlaceholder struct {
	span Span
}

func NewPatternPlaceholder(span Span) *PatternPlaceholder { return &PatternPlaceholder{span} }

func (p *PatternPlaceholder) Span() Span            { return p.span }
func (*PatternPlaceholder) isPatternNonValuePlace() {}
func (*PatternPlaceholder) isPatternValuePlace()    {}

type PatternVariable struct {
	span Span
	Var  Variable
}

func NewPatternVariable(v Variable) *PatternVariable {
	return &PatternVariable{span: v.span, Var: v}
}

func (p *PatternVariable) Span() Span            { return p.span }
func (*PatternVariable) isPatternNonValuePlace() {}
func (*PatternVariable) isPatternValuePlace()    {}

type PatternEntid struct {
	span  Span
	Entid EntidOrIdent
}

func NewPatternEntid(entid EntidOrIdent) *PatternEntid {
	return &PatternEntid{span: entid.Span(), Entid: entid}
}

func (p *PatternEntid) Span() Span            { return p.span }
func (*PatternEntid) isPatternNonValuePlace() {}

type PatternConstant struct {
	span Span
	Val  Value
}

func NewPatternConstant(val Value) *PatternConstant {
	return &PatternConstant{span: val.Span(), Val: val}
}

func (p *PatternConstant) Span() Span         { return p.span }
func (*PatternConstant) isPatternValuePlace() {}

// WhereClause is one clause of a `:where` part, or of an or/or-join/and
// grouping nested within one.
type WhereClause interface {
	Node
	isWhereClause()
}

// Pattern is `[ src? e a v? tx? ]`, after any backward-attribute rewrite
// (invariant 4) has already been applied by NewPattern.
type Pattern struct {
	span   Span
	Source *SrcVar
	E      PatternNonValuePlace
	A      PatternNonValuePlace
	V      PatternValuePlace
	Tx     PatternNonValuePlace
}

func (p *Pattern) Span() Span  { return p.span }
func (*Pattern) isWhereClause() {}

// NewPattern is Pattern::new: the fallible, attribute-reversal-aware
// constructor. Missing v or tx should be passed as a *PatternPlaceholder
// (the parser uses a zero-width span just after the last parsed position);
// NewPattern does not default them.
// If a is a backward namespaced keyword, e and v are swapped and a is
// reversed to its forward form; the swap fails if the resulting e position
// cannot accept a PatternNonValuePlace (e.g. a literal float in v).
func NewPattern(span Span, source *SrcVar, e PatternNonValuePlace, a PatternNonValuePlace, v PatternValuePlace, tx PatternNonValuePlace) (*Pattern, error) {
	if entidPlace, ok := a.(*PatternEntid); ok {
		if ref, ok := entidPlace.Entid.(*IdentRef); ok && ref.Val.IsBackward() {
			newE, ok := valuePlaceAsNonValuePlace(v)
			if !ok {
				return nil, errors.New("expected pattern")
			}
			newV, ok := nonValuePlaceAsValuePlace(e)
			if !ok {
				return nil, errors.New("expected pattern")
			}
			reversedA := NewPatternEntid(NewIdentRef(ref.Span(), ref.Val.Reversed()))
			return &Pattern{span: span, Source: source, E: newE, A: reversedA, V: newV, Tx: tx}, nil
		}
	}
	return &Pattern{span: span, Source: source, E: e, A: a, V: v, Tx: tx}, nil
}

// nonValuePlaceAsValuePlace converts a PatternNonValuePlace to the
// PatternValuePlace it stands for when swapped into the v position during
// backward-attribute rewriting.
func nonValuePlaceAsValuePlace(p PatternNonValuePlace) (PatternValuePlace, bool) {
	switch t := p.(type) {
	case *PatternPlaceholder:
		return t, true
	case *PatternVariable:
		return t, true
	case *PatternEntid:
		switch entid := t.Entid.(type) {
		case *Entid:
			return NewPatternConstant(NewInt(entid.Span(), entid.Val)), true
		case *IdentRef:
			return NewPatternConstant(NewKeywordValue(entid.Span(), entid.Val)), true
		}
	}
	return nil, false
}

// valuePlaceAsNonValuePlace converts a PatternValuePlace to the
// PatternNonValuePlace it stands for when swapped into the e position
// during backward-attribute rewriting. A PatternConstant (e.g. a literal
// float) has no non-value-place equivalent and fails.
func valuePlaceAsNonValuePlace(p PatternValuePlace) (PatternNonValuePlace, bool) {
	switch t := p.(type) {
	case *PatternPlaceholder:
		return t, true
	case *PatternVariable:
		return t, true
	default:
		return nil, false
	}
}

// UnifyVars distinguishes implicit (all free variables) from explicit
// (named) unification in or-join/not-join.
type UnifyVars interface {
	Node
	isUnifyVars()
}

type UnifyImplicit struct {
	span Span
}

func NewUnifyImplicit(span Span) *UnifyImplicit { return &UnifyImplicit{span} }

func (u *UnifyImplicit) Span() Span   { return u.span }
func (*UnifyImplicit) isUnifyVars()   {}

type UnifyExplicit struct {
	span Span
	Vars []Variable
}

// NewUnifyExplicit fails with "expected unique variables" if vars has a
// repeat.
func NewUnifyExplicit(span Span, vars []Variable) (*UnifyExplicit, error) {
	if err := checkUniqueVariables(vars); err != nil {
		return nil, err
	}
	return &UnifyExplicit{span: span, Vars: vars}, nil
}

func (u *UnifyExplicit) Span() Span { return u.span }
func (*UnifyExplicit) isUnifyVars() {}

// AndGroup is `(and where-clause+)`, valid only nested inside an or clause.
type AndGroup struct {
	span    Span
	Clauses []WhereClause
}

func NewAndGroup(span Span, clauses []WhereClause) *AndGroup {
	return &AndGroup{span: span, Clauses: clauses}
}

func (a *AndGroup) Span() Span   { return a.span }
func (*AndGroup) isWhereClause() {}

// OrJoin is `(or where-clause…)` or `(or-join [var+] where-clause…)`.
type OrJoin struct {
	span    Span
	Unify   UnifyVars
	Clauses []WhereClause
}

func NewOrJoin(span Span, unify UnifyVars, clauses []WhereClause) *OrJoin {
	return &OrJoin{span: span, Unify: unify, Clauses: clauses}
}

func (o *OrJoin) Span() Span   { return o.span }
func (*OrJoin) isWhereClause() {}

// NotJoin is `(not where-clause…)` or `(not-join [var+] where-clause…)`.
type NotJoin struct {
	span    Span
	Unify   UnifyVars
	Clauses []WhereClause
}

func NewNotJoin(span Span, unify UnifyVars, clauses []WhereClause) *NotJoin {
	return &NotJoin{span: span, Unify: unify, Clauses: clauses}
}

func (n *NotJoin) Span() Span   { return n.span }
func (*NotJoin) isWhereClause() {}

// TypeAnnotation is `[(type ?v :keyword)]`.
type TypeAnnotation struct {
	span Span
	Var  Variable
	Tag  Keyword
}

func NewTypeAnnotation(span Span, v Variable, tag Keyword) *TypeAnnotation {
	return &TypeAnnotation{span: span, Var: v, Tag: tag}
}

func (t *TypeAnnotation) Span() Span   { return t.span }
func (*TypeAnnotation) isWhereClause() {}

// Pred is `[(fn arg*)]` with no binding position.
type Pred struct {
	span Span
	Func QueryFunction
	Args []FnArg
}

func NewPred(span Span, fn QueryFunction, args []FnArg) *Pred {
	return &Pred{span: span, Func: fn, Args: args}
}

func (p *Pred) Span() Span   { return p.span }
func (*Pred) isWhereClause() {}

// VariableOrPlaceholder is a binding-list element: a variable or `_`.
type VariableOrPlaceholder interface {
	Node
	isVariableOrPlaceholder()
}

type VarOrPlaceholderVar struct {
	span Span
	Var  Variable
}

func NewVarOrPlaceholderVar(v Variable) *VarOrPlaceholderVar {
	return &VarOrPlaceholderVar{span: v.span, Var: v}
}

func (v *VarOrPlaceholderVar) Span() Span              { return v.span }
func (*VarOrPlaceholderVar) isVariableOrPlaceholder() {}

type VarOrPlaceholderPlaceholder struct {
	span Span
}

func NewVarOrPlaceholderPlaceholder(span Span) *VarOrPlaceholderPlaceholder {
	return &VarOrPlaceholderPlaceholder{span}
}

func (v *VarOrPlaceholderPlaceholder) Span() Span              { return v.span }
func (*VarOrPlaceholderPlaceholder) isVariableOrPlaceholder() {}

// Binding is a where-fn's binding form. Each variant also serves directly
// as an InVar, since a `:in` input may take any of these same shapes.
type Binding interface {
	Node
	isBinding()
	isInVar()
}

// BindRel is `[[var-or-placeholder+]]`: one row-shape applied per relation
// row the function returns.
type BindRel struct {
	span Span
	Vars []VariableOrPlaceholder
}

func NewBindRel(span Span, vars []VariableOrPlaceholder) *BindRel {
	return &BindRel{span: span, Vars: vars}
}

func (b *BindRel) Span() Span { return b.span }
func (*BindRel) isBinding()   {}
func (*BindRel) isInVar()    {}

// BindColl is `[var ...]`.
type BindColl struct {
	span Span
	Var  Variable
}

func NewBindColl(span Span, v Variable) *BindColl { return &BindColl{span: span, Var: v} }

func (b *BindColl) Span() Span { return b.span }
func (*BindColl) isBinding()   {}
func (*BindColl) isInVar()    {}

// BindTuple is `[var-or-placeholder+]`.
type BindTuple struct {
	span Span
	Vars []VariableOrPlaceholder
}

func NewBindTuple(span Span, vars []VariableOrPlaceholder) *BindTuple {
	return &BindTuple{span: span, Vars: vars}
}

func (b *BindTuple) Span() Span { return b.span }
func (*BindTuple) isBinding()   {}
func (*BindTuple) isInVar()    {}

// BindScalar is a bare variable.
type BindScalar struct {
	span Span
	Var  Variable
}

func NewBindScalar(v Variable) *BindScalar { return &BindScalar{span: v.span, Var: v} }

func (b *BindScalar) Span() Span { return b.span }
func (*BindScalar) isBinding()   {}
func (*BindScalar) isInVar()    {}

// bindingVariables returns the variables a Binding introduces, for
// :in/:with collision checking.
func bindingVariables(b Binding) []Variable {
	switch t := b.(type) {
	case *BindRel:
		return varOrPlaceholderVariables(t.Vars)
	case *BindTuple:
		return varOrPlaceholderVariables(t.Vars)
	case *BindColl:
		return []Variable{t.Var}
	case *BindScalar:
		return []Variable{t.Var}
	default:
		return nil
	}
}

func varOrPlaceholderVariables(vs []VariableOrPlaceholder) []Variable {
	out := make([]Variable, 0, len(vs))
	for _, v := range vs {
		if vp, ok := v.(*VarOrPlaceholderVar); ok {
			out = append(out, vp.Var)
		}
	}
	return out
}

// WhereFn is `[(fn arg*) binding]`.
type WhereFn struct {
	span    Span
	Func    QueryFunction
	Args    []FnArg
	Binding Binding
}

func NewWhereFn(span Span, fn QueryFunction, args []FnArg, binding Binding) *WhereFn {
	return &WhereFn{span: span, Func: fn, Args: args, Binding: binding}
}

func (w *WhereFn) Span() Span   { return w.span }
func (*WhereFn) isWhereClause() {}

// InVar is a `:in` input: a source variable, or any Binding shape.
type InVar interface {
	Node
	isInVar()
}

type InSrcVar struct {
	span Span
	Src  SrcVar
}

func NewInSrcVar(s SrcVar) *InSrcVar { return &InSrcVar{span: s.span, Src: s} }

func (i *InSrcVar) Span() Span { return i.span }
func (*InSrcVar) isInVar()    {}

// Limit is `:limit`'s value: a variable bound at query-execution time, or a
// fixed, strictly positive count (invariant 6).
type Limit interface {
	Node
	isLimit()
}

type LimitVariable struct {
	span Span
	Var  Variable
}

func NewLimitVariable(v Variable) *LimitVariable { return &LimitVariable{span: v.span, Var: v} }

func (l *LimitVariable) Span() Span { return l.span }
func (*LimitVariable) isLimit()     {}

type LimitFixed struct {
	span Span
	N    uint64
}

// NewLimitFixed fails with "expected positive integer" if n is zero.
func NewLimitFixed(span Span, n uint64) (*LimitFixed, error) {
	if n == 0 {
		return nil, errors.New("expected positive integer")
	}
	return &LimitFixed{span: span, N: n}, nil
}

func (l *LimitFixed) Span() Span { return l.span }
func (*LimitFixed) isLimit()     {}

// Direction is an Order's sort direction.
type Direction int

const (
	DirAscending Direction = iota
	DirDescending
)

// Order is `(asc ?v)`, `(desc ?v)`, or a bare variable (ascending).
type Order struct {
	span Span
	Dir  Direction
	Var  Variable
}

func NewOrder(span Span, dir Direction, v Variable) Order {
	return Order{span: span, Dir: dir, Var: v}
}

func (o Order) Span() Span { return o.span }

// QueryPart is one top-level part of a `[ query-part+ ]` query document:
// :find, :in, :where, :limit, :order, or :with.
type QueryPart interface {
	Node
	isQueryPart()
}

type PartFind struct {
	span Span
	Spec FindSpec
}

func NewPartFind(span Span, spec FindSpec) *PartFind { return &PartFind{span: span, Spec: spec} }

func (p *PartFind) Span() Span { return p.span }
func (*PartFind) isQueryPart() {}

type PartIn struct {
	span   Span
	Inputs []InVar
}

func NewPartIn(span Span, inputs []InVar) *PartIn { return &PartIn{span: span, Inputs: inputs} }

func (p *PartIn) Span() Span { return p.span }
func (*PartIn) isQueryPart() {}

type PartWhere struct {
	span    Span
	Clauses []WhereClause
}

func NewPartWhere(span Span, clauses []WhereClause) *PartWhere {
	return &PartWhere{span: span, Clauses: clauses}
}

func (p *PartWhere) Span() Span { return p.span }
func (*PartWhere) isQueryPart() {}

type PartLimit struct {
	span  Span
	Limit Limit
}

func NewPartLimit(span Span, limit Limit) *PartLimit { return &PartLimit{span: span, Limit: limit} }

func (p *PartLimit) Span() Span { return p.span }
func (*PartLimit) isQueryPart() {}

type PartOrderBy struct {
	span   Span
	Orders []Order
}

func NewPartOrderBy(span Span, orders []Order) *PartOrderBy {
	return &PartOrderBy{span: span, Orders: orders}
}

func (p *PartOrderBy) Span() Span { return p.span }
func (*PartOrderBy) isQueryPart() {}

type PartWith struct {
	span Span
	Vars []Variable
}

func NewPartWith(span Span, vars []Variable) *PartWith { return &PartWith{span: span, Vars: vars} }

func (p *PartWith) Span() Span { return p.span }
func (*PartWith) isQueryPart() {}

// ParsedQuery is the assembled, validated query record.
type ParsedQuery struct {
	span    Span
	Find    FindSpec
	In      []InVar
	Where   []WhereClause
	Limit   Limit
	OrderBy []Order
	With    []Variable
}

func (q *ParsedQuery) Span() Span { return q.span }

// NewParsedQuery is ParsedQuery::from_parts: it fails if :find is absent,
// if any part appears more than once, or if :in and :with variables
// collide.
func NewParsedQuery(span Span, parts []QueryPart) (*ParsedQuery, error) {
	var find *PartFind
	var in *PartIn
	var where *PartWhere
	var limit *PartLimit
	var orderBy *PartOrderBy
	var with *PartWith

	for _, part := range parts {
		switch t := part.(type) {
		case *PartFind:
			if find != nil {
				return nil, errors.New("duplicate :find")
			}
			find = t
		case *PartIn:
			if in != nil {
				return nil, errors.New("duplicate :in")
			}
			in = t
		case *PartWhere:
			if where != nil {
				return nil, errors.New("duplicate :where")
			}
			where = t
		case *PartLimit:
			if limit != nil {
				return nil, errors.New("duplicate :limit")
			}
			limit = t
		case *PartOrderBy:
			if orderBy != nil {
				return nil, errors.New("duplicate :order")
			}
			orderBy = t
		case *PartWith:
			if with != nil {
				return nil, errors.New("duplicate :with")
			}
			with = t
		default:
			return nil, fmt.Errorf("unrecognised query part")
		}
	}

	if find == nil {
		return nil, errors.New("expected :find")
	}

	q := &ParsedQuery{span: span, Find: find.Spec}
	if where != nil {
		q.Where = where.Clauses
	}
	if limit != nil {
		q.Limit = limit.Limit
	}
	if orderBy != nil {
		q.OrderBy = orderBy.Orders
	}

	seen := newKeyIndex()
	if in != nil {
		q.In = in.Inputs
		for _, input := range q.In {
			if binding, ok := input.(Binding); ok {
				for _, v := range bindingVariables(binding) {
					seen.set(variableKey(v), 0)
				}
			}
		}
	}
	if with != nil {
		for _, v := range with.Vars {
			key := variableKey(v)
			if _, found := seen.get(key); found {
				return nil, errors.New("expected unique variables")
			}
			seen.set(key, 0)
		}
		q.With = with.Vars
	}

	return q, nil
}
