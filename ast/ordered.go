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
	"bytes"
	"encoding/binary"
	"math"

	art "github.com/kralicky/go-adaptive-radix-tree"
)

// keyIndex is a byte-keyed, deduplicating index built on an adaptive radix
// tree: insert reports whether a key was already present, and get recovers
// whatever index was stored for it. It underlies every "insert into a set,
// fail/overwrite on an existing key" operation in this package: OrderedSet,
// OrderedMap, rule-variable-uniqueness checking (ast/query.go), and
// :in/:with collision checking in ParsedQuery assembly.
type keyIndex struct {
	tree art.Tree
}

func newKeyIndex() *keyIndex {
	return &keyIndex{tree: art.New()}
}

func (k *keyIndex) get(key []byte) (int, bool) {
	v, found := k.tree.Search(art.Key(key))
	if !found {
		return 0, false
	}
	return v.(int), true
}

func (k *keyIndex) set(key []byte, idx int) {
	k.tree.Insert(art.Key(key), idx)
}

// OrderedSet is a deduplicating, insertion-ordered collection of Values. It
// backs the Set value variant (§3) and the Set literal's dedup behaviour
// (§4.2, §8 property 6): `#{1 1 2}` is a set of size 2.
type OrderedSet struct {
	idx    *keyIndex
	values []Value
}

// NewOrderedSet returns an empty OrderedSet.
func NewOrderedSet() *OrderedSet {
	return &OrderedSet{idx: newKeyIndex()}
}

// Add inserts v if an equal value is not already present, reporting whether
// it was added.
func (s *OrderedSet) Add(v Value) bool {
	key := canonicalKey(v)
	if _, found := s.idx.get(key); found {
		return false
	}
	s.idx.set(key, len(s.values))
	s.values = append(s.values, v)
	return true
}

// Contains reports whether an equal value is present.
func (s *OrderedSet) Contains(v Value) bool {
	_, found := s.idx.get(canonicalKey(v))
	return found
}

// Values returns the set's members in insertion order.
func (s *OrderedSet) Values() []Value { return s.values }

// Len returns the number of members.
func (s *OrderedSet) Len() int { return len(s.values) }

// MapEntry is one key/value pair of an OrderedMap.
type MapEntry struct {
	Key   Value
	Value Value
}

// OrderedMap is an insertion-ordered map of Value to Value with last-write-
// wins semantics on duplicate keys (§3, §4.2): `{:a 1 :a 2}` ends up as
// `:a -> 2`, keeping :a's original position.
type OrderedMap struct {
	idx     *keyIndex
	entries []MapEntry
}

// NewOrderedMap returns an empty OrderedMap.
func NewOrderedMap() *OrderedMap {
	return &OrderedMap{idx: newKeyIndex()}
}

// Set inserts or overwrites the value bound to k.
func (m *OrderedMap) Set(k, v Value) {
	key := canonicalKey(k)
	if i, found := m.idx.get(key); found {
		m.entries[i].Value = v
		return
	}
	m.idx.set(key, len(m.entries))
	m.entries = append(m.entries, MapEntry{Key: k, Value: v})
}

// Get looks up the value bound to a key equal to k.
func (m *OrderedMap) Get(k Value) (Value, bool) {
	i, found := m.idx.get(canonicalKey(k))
	if !found {
		return nil, false
	}
	return m.entries[i].Value, true
}

// Entries returns the map's entries in insertion order.
func (m *OrderedMap) Entries() []MapEntry { return m.entries }

// Len returns the number of entries.
func (m *OrderedMap) Len() int { return len(m.entries) }

// canonical value tags, used only as the first byte of a canonicalKey.
const (
	tagNil byte = iota
	tagBool
	tagInt
	tagBigInt
	tagFloat
	tagText
	tagInstant
	tagUUID
	tagSymbol
	tagKeyword
	tagList
	tagVector
	tagSet
	tagMap
)

// canonicalKey encodes v's logical value (ignoring its span) into a byte
// string suitable as a keyIndex key: two values produce the same key if and
// only if Equal(v1, v2) holds.
func canonicalKey(v Value) []byte {
	var buf bytes.Buffer
	writeCanonical(&buf, v)
	return buf.Bytes()
}

func writeCanonical(buf *bytes.Buffer, v Value) {
	switch val := v.(type) {
	case *NilValue:
		buf.WriteByte(tagNil)
	case *BoolValue:
		buf.WriteByte(tagBool)
		if val.Val {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}
	case *IntValue:
		buf.WriteByte(tagInt)
		_ = binary.Write(buf, binary.BigEndian, val.Val)
	case *BigIntValue:
		buf.WriteByte(tagBigInt)
		writeLenPrefixed(buf, []byte(val.Val.String()))
	case *FloatValue:
		buf.WriteByte(tagFloat)
		_ = binary.Write(buf, binary.BigEndian, math.Float64bits(val.Val))
	case *TextValue:
		buf.WriteByte(tagText)
		writeLenPrefixed(buf, []byte(val.Val))
	case *InstantValue:
		buf.WriteByte(tagInstant)
		_ = binary.Write(buf, binary.BigEndian, val.Val.UnixNano())
	case *UUIDValue:
		buf.WriteByte(tagUUID)
		buf.Write(val.Val[:])
	case *SymbolValue:
		buf.WriteByte(tagSymbol)
		writeIdent(buf, val.Val.Ident)
	case *KeywordValue:
		buf.WriteByte(tagKeyword)
		writeIdent(buf, val.Val.Ident)
	case *ListValue:
		buf.WriteByte(tagList)
		elems := val.Elements()
		_ = binary.Write(buf, binary.BigEndian, uint32(len(elems)))
		for _, e := range elems {
			writeCanonical(buf, e)
		}
	case *VectorValue:
		buf.WriteByte(tagVector)
		_ = binary.Write(buf, binary.BigEndian, uint32(len(val.Elements)))
		for _, e := range val.Elements {
			writeCanonical(buf, e)
		}
	case *SetValue:
		buf.WriteByte(tagSet)
		vs := val.Set.Values()
		_ = binary.Write(buf, binary.BigEndian, uint32(len(vs)))
		for _, e := range vs {
			writeCanonical(buf, e)
		}
	case *MapValue:
		buf.WriteByte(tagMap)
		es := val.Map.Entries()
		_ = binary.Write(buf, binary.BigEndian, uint32(len(es)))
		for _, e := range es {
			writeCanonical(buf, e.Key)
			writeCanonical(buf, e.Value)
		}
	default:
		panic("ast: unhandled value kind in canonicalKey")
	}
}

func writeIdent(buf *bytes.Buffer, id Ident) {
	writeLenPrefixed(buf, []byte(id.Namespace))
	writeLenPrefixed(buf, []byte(id.Name))
}

func writeLenPrefixed(buf *bytes.Buffer, b []byte) {
	_ = binary.Write(buf, binary.BigEndian, uint32(len(b)))
	buf.Write(b)
}

// Equal compares two Values structurally, ignoring span. NaN compares equal
// to NaN here (§3: "NaN is a valid, totally-ordered payload"), unlike Go's
// own float equality.
func Equal(a, b Value) bool {
	return bytes.Equal(canonicalKey(a), canonicalKey(b))
}
