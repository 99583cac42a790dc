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
	"github.com/stretchr/testify/require"
)

func variable(name string) Variable {
	return NewVariable(NewSpan(0, 1), Symbol{Ident{Name: name}})
}

func TestNewPatternForwardAttributeUnchanged(t *testing.T) {
	sp := NewSpan(0, 1)
	e := NewPatternVariable(variable("?e"))
	a := NewPatternEntid(NewIdentRef(sp, NewKeyword("person", "friend")))
	v := NewPatternVariable(variable("?f"))
	tx := NewPatternPlaceholder(sp)

	p, err := NewPattern(sp, nil, e, a, v, tx)
	require.NoError(t, err)
	assert.Same(t, e, p.E)
	assert.Same(t, v, p.V)
	aEntid, ok := p.A.(*PatternEntid)
	require.True(t, ok)
	ident, ok := aEntid.Entid.(*IdentRef)
	require.True(t, ok)
	assert.True(t, ident.Val.IsForward())
}

func TestNewPatternBackwardAttributeSwapsAndReverses(t *testing.T) {
	sp := NewSpan(0, 1)
	e := NewPatternVariable(variable("?v"))
	a := NewPatternEntid(NewIdentRef(sp, NewKeyword("person", "_friend")))
	v := NewPatternVariable(variable("?e"))
	tx := NewPatternPlaceholder(sp)

	p, err := NewPattern(sp, nil, e, a, v, tx)
	require.NoError(t, err)

	newE, ok := p.E.(*PatternVariable)
	require.True(t, ok)
	assert.Equal(t, "?e", newE.Var.Sym.Name)

	newV, ok := p.V.(*PatternVariable)
	require.True(t, ok)
	assert.Equal(t, "?v", newV.Var.Sym.Name)

	aEntid, ok := p.A.(*PatternEntid)
	require.True(t, ok)
	ident, ok := aEntid.Entid.(*IdentRef)
	require.True(t, ok)
	assert.True(t, ident.Val.IsForward())
	assert.Equal(t, "friend", ident.Val.Name)
}

func TestNewPatternBackwardAttributeRejectsConstantInSwappedE(t *testing.T) {
	sp := NewSpan(0, 1)
	e := NewPatternVariable(variable("?x"))
	a := NewPatternEntid(NewIdentRef(sp, NewKeyword("person", "_friend")))
	v := NewPatternConstant(NewFloat(sp, 1.5))
	tx := NewPatternPlaceholder(sp)

	_, err := NewPattern(sp, nil, e, a, v, tx)
	assert.Error(t, err)
}

func TestNewUnifyExplicitRejectsDuplicateVars(t *testing.T) {
	sp := NewSpan(0, 1)
	_, err := NewUnifyExplicit(sp, []Variable{variable("?e"), variable("?e")})
	assert.Error(t, err)
}

func TestNewLimitFixedRejectsZero(t *testing.T) {
	_, err := NewLimitFixed(NewSpan(0, 1), 0)
	assert.Error(t, err)
}

func TestNewLimitFixedAcceptsPositive(t *testing.T) {
	l, err := NewLimitFixed(NewSpan(0, 1), 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), l.N)
}

func TestNewParsedQueryRequiresFind(t *testing.T) {
	sp := NewSpan(0, 1)
	_, err := NewParsedQuery(sp, []QueryPart{
		NewPartWhere(sp, nil),
	})
	assert.Error(t, err)
}

func TestNewParsedQueryRejectsDuplicatePart(t *testing.T) {
	sp := NewSpan(0, 1)
	find := NewPartFind(sp, NewFindRel(sp, []Element{NewElementVariable(variable("?e"))}))
	_, err := NewParsedQuery(sp, []QueryPart{find, find})
	assert.Error(t, err)
}

func TestNewParsedQueryRejectsInWithCollision(t *testing.T) {
	sp := NewSpan(0, 1)
	find := NewPartFind(sp, NewFindRel(sp, []Element{NewElementVariable(variable("?e"))}))
	in := NewPartIn(sp, []InVar{NewBindScalar(variable("?name"))})
	with := NewPartWith(sp, []Variable{variable("?name")})

	_, err := NewParsedQuery(sp, []QueryPart{find, in, with})
	assert.Error(t, err)
}

func TestNewParsedQueryAcceptsDisjointInWith(t *testing.T) {
	sp := NewSpan(0, 1)
	find := NewPartFind(sp, NewFindRel(sp, []Element{NewElementVariable(variable("?e"))}))
	in := NewPartIn(sp, []InVar{NewBindScalar(variable("?name"))})
	with := NewPartWith(sp, []Variable{variable("?e")})

	q, err := NewParsedQuery(sp, []QueryPart{find, in, with})
	require.NoError(t, err)
	assert.Len(t, q.With, 1)
	assert.Len(t, q.In, 1)
}
