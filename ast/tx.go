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

// OpType is the operation carried by a transaction entity vector.
type OpType int

const (
	OpAdd OpType = iota
	OpRetract
)

func (o OpType) String() string {
	if o == OpRetract {
		return "db/retract"
	}
	return "db/add"
}

// EntidOrIdent is either a raw entid integer or a namespaced keyword used in
// its place.
type EntidOrIdent interface {
	Node
	isEntidOrIdent()
}

// Entid is a raw integer entity identifier.
type Entid struct {
	span Span
	Val  int64
}

func NewEntid(span Span, val int64) *Entid { return &Entid{span, val} }

func (e *Entid) Span() Span     { return e.span }
func (*Entid) isEntidOrIdent()  {}

// IdentRef is a namespaced forward keyword standing in for an entid.
type IdentRef struct {
	span Span
	Val  Keyword
}

func NewIdentRef(span Span, val Keyword) *IdentRef { return &IdentRef{span, val} }

func (i *IdentRef) Span() Span    { return i.span }
func (*IdentRef) isEntidOrIdent() {}

// AttributePlace names an attribute by entid or ident. The grammar only ever
// constructs the Entid variant described in §3 ("only this variant is
// constructed here").
type AttributePlace struct {
	span  Span
	Entid EntidOrIdent
}

func NewAttributePlace(entid EntidOrIdent) AttributePlace {
	return AttributePlace{span: entid.Span(), Entid: entid}
}

func (a AttributePlace) Span() Span { return a.span }

// EntityPlace is a reference to an entity in the "entity" position of a
// transaction entity: a temp-id, an entid/ident, a lookup-ref, or a
// tx-function.
type EntityPlace interface {
	Node
	isEntityPlace()
}

// TempId is an opaque string naming a yet-to-be-allocated entity.
type TempId struct {
	span Span
	Val  string
}

func NewTempId(span Span, val string) *TempId { return &TempId{span, val} }

func (t *TempId) Span() Span     { return t.span }
func (*TempId) isEntityPlace()   {}

// EntityEntid is an entity named directly by entid or ident.
type EntityEntid struct {
	span  Span
	Entid EntidOrIdent
}

func NewEntityEntid(entid EntidOrIdent) *EntityEntid {
	return &EntityEntid{span: entid.Span(), Entid: entid}
}

func (e *EntityEntid) Span() Span   { return e.span }
func (*EntityEntid) isEntityPlace() {}

// LookupRef identifies an entity by a unique-valued attribute. It appears
// both as an EntityPlace and, reused verbatim, as a ValuePlace (§4.3).
type LookupRef struct {
	span Span
	A    AttributePlace
	V    Value
}

func NewLookupRef(span Span, a AttributePlace, v Value) *LookupRef {
	return &LookupRef{span: span, A: a, V: v}
}

func (l *LookupRef) Span() Span    { return l.span }
func (*LookupRef) isEntityPlace()  {}
func (*LookupRef) isValuePlace()   {}

// TxFunction names a function to be invoked by the transactor, e.g.
// `(transaction-tx)`. It appears both as an EntityPlace and as a ValuePlace.
type TxFunction struct {
	span Span
	Op   Symbol
}

func NewTxFunction(span Span, op Symbol) *TxFunction {
	return &TxFunction{span: span, Op: op}
}

func (t *TxFunction) Span() Span   { return t.span }
func (*TxFunction) isEntityPlace() {}
func (*TxFunction) isValuePlace()  {}

// ValuePlace is a value in the "value" position of a transaction entity: an
// atom, a lookup-ref, a tx-function, a nested vector of value-places, or
// map-notation.
type ValuePlace interface {
	Node
	isValuePlace()
}

// ValueAtom wraps a plain spanned Value used as a ValuePlace.
type ValueAtom struct {
	span Span
	Val  Value
}

func NewValueAtom(val Value) *ValueAtom {
	return &ValueAtom{span: val.Span(), Val: val}
}

func (v *ValueAtom) Span() Span   { return v.span }
func (*ValueAtom) isValuePlace()  {}

// ValueVector is a bracketed vector of nested value-places.
type ValueVector struct {
	span     Span
	Elements []ValuePlace
}

func NewValueVector(span Span, elements []ValuePlace) *ValueVector {
	return &ValueVector{span: span, Elements: elements}
}

func (v *ValueVector) Span() Span  { return v.span }
func (*ValueVector) isValuePlace() {}

// MapNotationEntry is one (attribute, value) pair of a MapNotation.
type MapNotationEntry struct {
	A EntidOrIdent
	V ValuePlace
}

// MapNotation is `{ entid value-place … }`: an ordered sequence of
// (EntidOrIdent, ValuePlace) pairs. It is reused as both a ValuePlace
// variant (a nested map-notation value) and an Entity variant (a top-level
// map-notation entity), matching the single production the grammar uses for
// both (§4.3).
type MapNotation struct {
	span    Span
	Entries []MapNotationEntry
}

func NewMapNotation(span Span, entries []MapNotationEntry) *MapNotation {
	return &MapNotation{span: span, Entries: entries}
}

func (m *MapNotation) Span() Span  { return m.span }
func (*MapNotation) isValuePlace() {}
func (*MapNotation) isEntity()     {}

// Entity is a single top-level transaction entity: either an
// add-or-retract entity vector, or a map-notation entity.
type Entity interface {
	Node
	isEntity()
}

// AddOrRetract is an entity vector `[op e a v]`, after any backward-
// attribute rewrite (§4.3) has already been applied.
type AddOrRetract struct {
	span Span
	Op   OpType
	E    EntityPlace
	A    AttributePlace
	V    ValuePlace
}

func NewAddOrRetract(span Span, op OpType, e EntityPlace, a AttributePlace, v ValuePlace) *AddOrRetract {
	return &AddOrRetract{span: span, Op: op, E: e, A: a, V: v}
}

func (a *AddOrRetract) Span() Span { return a.span }
func (*AddOrRetract) isEntity()    {}
