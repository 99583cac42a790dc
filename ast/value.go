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
	"math/big"
	"time"
)

// ValueKind discriminates the variants of Value.
type ValueKind int

const (
	KindNil ValueKind = iota
	KindBoolean
	KindInteger
	KindBigInteger
	KindFloat
	KindText
	KindInstant
	KindUUID
	KindSymbol
	KindKeyword
	KindList
	KindVector
	KindSet
	KindMap
)

func (k ValueKind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBoolean:
		return "boolean"
	case KindInteger:
		return "integer"
	case KindBigInteger:
		return "big integer"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	case KindInstant:
		return "instant"
	case KindUUID:
		return "uuid"
	case KindSymbol:
		return "symbol"
	case KindKeyword:
		return "keyword"
	case KindList:
		return "list"
	case KindVector:
		return "vector"
	case KindSet:
		return "set"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Value is the tagged sum of every spanned EDN value. Every variant carries
// its source span; composite variants additionally carry their children.
type Value interface {
	Node
	Kind() ValueKind
	// isValue is unexported so Value can only be implemented by the
	// variants in this package.
	isValue()
}

// Atomic reports whether v is a non-collection value, i.e. one that is
// accepted in a ValuePlace::Atom position.
func Atomic(v Value) bool {
	switch v.Kind() {
	case KindList, KindVector, KindSet, KindMap:
		return false
	default:
		return true
	}
}

type valueBase struct {
	span Span
}

func (b valueBase) Span() Span { return b.span }
func (valueBase) isValue()     {}

// NilValue is the EDN nil literal.
type NilValue struct {
	valueBase
}

func NewNil(span Span) *NilValue { return &NilValue{valueBase{span}} }

func (*NilValue) Kind() ValueKind { return KindNil }

// BoolValue is an EDN boolean literal.
type BoolValue struct {
	valueBase
	Val bool
}

func NewBool(span Span, val bool) *BoolValue { return &BoolValue{valueBase{span}, val} }

func (*BoolValue) Kind() ValueKind { return KindBoolean }

// IntValue is a signed 64-bit integer literal (decimal, octal, hex, or
// arbitrary-base 2-36).
type IntValue struct {
	valueBase
	Val int64
}

func NewInt(span Span, val int64) *IntValue { return &IntValue{valueBase{span}, val} }

func (*IntValue) Kind() ValueKind { return KindInteger }

// BigIntValue is an arbitrary-precision integer literal, from an `N`-suffixed
// big-integer token.
type BigIntValue struct {
	valueBase
	Val *big.Int
}

func NewBigInt(span Span, val *big.Int) *BigIntValue { return &BigIntValue{valueBase{span}, val} }

func (*BigIntValue) Kind() ValueKind { return KindBigInteger }

// FloatValue is a 64-bit IEEE float literal. NaN is a valid payload; see
// Equal for its totally-ordered treatment.
type FloatValue struct {
	valueBase
	Val float64
}

func NewFloat(span Span, val float64) *FloatValue { return &FloatValue{valueBase{span}, val} }

func (*FloatValue) Kind() ValueKind { return KindFloat }

// TextValue is a decoded (unescaped) string literal.
type TextValue struct {
	valueBase
	Val string
}

func NewText(span Span, val string) *TextValue { return &TextValue{valueBase{span}, val} }

func (*TextValue) Kind() ValueKind { return KindText }

// InstantValue is a UTC timestamp with nanosecond precision. It is always
// normalised to UTC at construction time; the original offset, if any, is
// never retained.
type InstantValue struct {
	valueBase
	Val time.Time
}

func NewInstant(span Span, val time.Time) *InstantValue {
	return &InstantValue{valueBase{span}, val.UTC()}
}

func (*InstantValue) Kind() ValueKind { return KindInstant }

// UUIDValue is a 128-bit UUID literal.
type UUIDValue struct {
	valueBase
	Val [16]byte
}

func NewUUID(span Span, val [16]byte) *UUIDValue { return &UUIDValue{valueBase{span}, val} }

func (*UUIDValue) Kind() ValueKind { return KindUUID }

// SymbolValue is a symbol literal.
type SymbolValue struct {
	valueBase
	Val Symbol
}

func NewSymbol(span Span, val Symbol) *SymbolValue { return &SymbolValue{valueBase{span}, val} }

func (*SymbolValue) Kind() ValueKind { return KindSymbol }

// KeywordValue is a keyword literal.
type KeywordValue struct {
	valueBase
	Val Keyword
}

func NewKeywordValue(span Span, val Keyword) *KeywordValue {
	return &KeywordValue{valueBase{span}, val}
}

func (*KeywordValue) Kind() ValueKind { return KindKeyword }

// listCell is one cons cell of a ListValue's singly-linked spine.
type listCell struct {
	head Value
	tail *listCell
}

// ListValue is a singly-linked ordered sequence, the concrete shape `( … )`
// asks for as distinct from a VectorValue's flat slice (§4.2).
type ListValue struct {
	valueBase
	first *listCell
	n     int
}

// NewList builds a ListValue from elements, preserving order.
func NewList(span Span, elements []Value) *ListValue {
	var head *listCell
	for i := len(elements) - 1; i >= 0; i-- {
		head = &listCell{head: elements[i], tail: head}
	}
	return &ListValue{valueBase: valueBase{span}, first: head, n: len(elements)}
}

func (*ListValue) Kind() ValueKind { return KindList }

// Len returns the number of elements in the list.
func (l *ListValue) Len() int { return l.n }

// Elements materialises the list's elements in order. The cons cells are
// not exported; First gives only the head element.
func (l *ListValue) Elements() []Value {
	out := make([]Value, 0, l.n)
	for c := l.first; c != nil; c = c.tail {
		out = append(out, c.head)
	}
	return out
}

// First returns the list's head element and whether the list is non-empty.
func (l *ListValue) First() (Value, bool) {
	if l.first == nil {
		return nil, false
	}
	return l.first.head, true
}

// VectorValue is a flat ordered sequence, `[ … ]`.
type VectorValue struct {
	valueBase
	Elements []Value
}

func NewVector(span Span, elements []Value) *VectorValue {
	return &VectorValue{valueBase{span}, elements}
}

func (*VectorValue) Kind() ValueKind { return KindVector }

// SetValue is a deduplicated, insertion-ordered set, `#{ … }`.
type SetValue struct {
	valueBase
	Set *OrderedSet
}

func NewSetValue(span Span, set *OrderedSet) *SetValue {
	return &SetValue{valueBase{span}, set}
}

func (*SetValue) Kind() ValueKind { return KindSet }

// MapValue is an insertion-ordered, last-write-wins map, `{ … }`.
type MapValue struct {
	valueBase
	Map *OrderedMap
}

func NewMapValue(span Span, m *OrderedMap) *MapValue {
	return &MapValue{valueBase{span}, m}
}

func (*MapValue) Kind() ValueKind { return KindMap }
