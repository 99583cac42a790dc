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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpTypeString(t *testing.T) {
	assert.Equal(t, "db/add", OpAdd.String())
	assert.Equal(t, "db/retract", OpRetract.String())
}

func TestEntidOrIdentVariants(t *testing.T) {
	entid := NewEntid(NewSpan(0, 1), 17)
	var _ EntidOrIdent = entid
	assert.Equal(t, int64(17), entid.Val)

	ident := NewIdentRef(NewSpan(0, 10), Keyword{Ident{Namespace: "person", Name: "name"}})
	var _ EntidOrIdent = ident
	assert.Equal(t, "name", ident.Val.Name)
}

func TestNewAttributePlaceTakesEntidSpan(t *testing.T) {
	entid := NewEntid(NewSpan(3, 5), 42)
	a := NewAttributePlace(entid)
	assert.Equal(t, entid.Span(), a.Span())
	assert.Same(t, entid, a.Entid)
}

func TestTempIdIsEntityPlace(t *testing.T) {
	tid := NewTempId(NewSpan(0, 4), "joe")
	var _ EntityPlace = tid
	assert.Equal(t, "joe", tid.Val)
}

func TestEntityEntidIsEntityPlace(t *testing.T) {
	entid := NewEntid(NewSpan(0, 2), 5)
	ee := NewEntityEntid(entid)
	var _ EntityPlace = ee
	assert.Equal(t, entid.Span(), ee.Span())
}

func TestLookupRefIsBothEntityPlaceAndValuePlace(t *testing.T) {
	a := NewAttributePlace(NewIdentRef(NewSpan(0, 12), Keyword{Ident{Namespace: "person", Name: "email"}}))
	v := NewText(NewSpan(13, 20), "a@b.com")
	lr := NewLookupRef(NewSpan(0, 20), a, v)

	var _ EntityPlace = lr
	var _ ValuePlace = lr
	assert.Equal(t, v, lr.V)
}

func TestTxFunctionIsBothEntityPlaceAndValuePlace(t *testing.T) {
	op := Symbol{Ident{Name: "current-tx"}}
	fn := NewTxFunction(NewSpan(0, 12), op)

	var _ EntityPlace = fn
	var _ ValuePlace = fn
	assert.Equal(t, "current-tx", fn.Op.Name)
}

func TestValueAtomWrapsSpanFromValue(t *testing.T) {
	v := NewInt(NewSpan(2, 4), 99)
	atom := NewValueAtom(v)
	var _ ValuePlace = atom
	assert.Equal(t, v.Span(), atom.Span())
	assert.Equal(t, v, atom.Val)
}

func TestValueVectorHoldsNestedValuePlaces(t *testing.T) {
	elems := []ValuePlace{
		NewValueAtom(NewInt(NewSpan(1, 2), 1)),
		NewValueAtom(NewInt(NewSpan(3, 4), 2)),
	}
	vec := NewValueVector(NewSpan(0, 5), elems)
	var _ ValuePlace = vec
	assert.Len(t, vec.Elements, 2)
}

func TestMapNotationIsBothValuePlaceAndEntity(t *testing.T) {
	entries := []MapNotationEntry{
		{A: NewIdentRef(NewSpan(1, 9), Keyword{Ident{Namespace: "db", Name: "id"}}), V: NewValueAtom(NewInt(NewSpan(10, 12), 17))},
	}
	mn := NewMapNotation(NewSpan(0, 13), entries)

	var _ ValuePlace = mn
	var _ Entity = mn
	assert.Len(t, mn.Entries, 1)
	assert.Equal(t, "id", mn.Entries[0].A.(*IdentRef).Val.Name)
}

func TestAddOrRetractIsEntity(t *testing.T) {
	e := NewEntityEntid(NewEntid(NewSpan(1, 2), 17))
	a := NewAttributePlace(NewIdentRef(NewSpan(3, 13), Keyword{Ident{Namespace: "person", Name: "name"}}))
	v := NewValueAtom(NewText(NewSpan(14, 19), "Bob"))
	aor := NewAddOrRetract(NewSpan(0, 20), OpAdd, e, a, v)

	var _ Entity = aor
	assert.Equal(t, OpAdd, aor.Op)
	assert.Same(t, e, aor.E)
	assert.Equal(t, a, aor.A)
	assert.Same(t, v, aor.V)
}
