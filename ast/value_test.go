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
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomic(t *testing.T) {
	sp := NewSpan(0, 1)
	atoms := []Value{
		NewNil(sp),
		NewBool(sp, true),
		NewInt(sp, 1),
		NewFloat(sp, 1.5),
		NewText(sp, "x"),
		NewSymbol(sp, Symbol{Ident{Name: "x"}}),
		NewKeywordValue(sp, Keyword{Ident{Name: "x"}}),
	}
	for _, v := range atoms {
		assert.True(t, Atomic(v), "%v should be atomic", v.Kind())
	}

	collections := []Value{
		NewList(sp, nil),
		NewVector(sp, nil),
		NewSetValue(sp, NewOrderedSet()),
		NewMapValue(sp, NewOrderedMap()),
	}
	for _, v := range collections {
		assert.False(t, Atomic(v), "%v should not be atomic", v.Kind())
	}
}

func TestEqualNaN(t *testing.T) {
	sp := NewSpan(0, 1)
	a := NewFloat(sp, math.NaN())
	b := NewFloat(sp, math.NaN())
	assert.True(t, Equal(a, b), "NaN must compare equal to NaN")
}

func TestEqualIgnoresSpan(t *testing.T) {
	a := NewInt(NewSpan(0, 1), 42)
	b := NewInt(NewSpan(10, 12), 42)
	assert.True(t, Equal(a, b))

	c := NewInt(NewSpan(0, 1), 43)
	assert.False(t, Equal(a, c))
}

func TestInstantNormalisesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	local := time.Date(2020, 1, 2, 3, 0, 0, 0, loc)
	inst := NewInstant(NewSpan(0, 1), local)
	assert.Equal(t, time.UTC, inst.Val.Location())
	assert.Equal(t, local.Unix(), inst.Val.Unix())
}

func TestListPreservesOrderAndLen(t *testing.T) {
	sp := NewSpan(0, 1)
	elems := []Value{NewInt(sp, 1), NewInt(sp, 2), NewInt(sp, 3)}
	l := NewList(sp, elems)
	require.Equal(t, 3, l.Len())
	assert.Equal(t, elems, l.Elements())

	head, ok := l.First()
	require.True(t, ok)
	assert.True(t, Equal(head, elems[0]))
}

func TestEmptyListHasNoFirst(t *testing.T) {
	l := NewList(NewSpan(0, 0), nil)
	assert.Equal(t, 0, l.Len())
	_, ok := l.First()
	assert.False(t, ok)
}
