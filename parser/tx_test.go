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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eenblam/goedn/ast"
)

func TestParseEntityForwardShape(t *testing.T) {
	e, err := New(`[:db/add 17 :person/name "Bob"]`).Entity()
	require.NoError(t, err)

	aor, ok := e.(*ast.AddOrRetract)
	require.True(t, ok)
	assert.Equal(t, ast.OpAdd, aor.Op)

	ee, ok := aor.E.(*ast.EntityEntid)
	require.True(t, ok)
	entid, ok := ee.Entid.(*ast.Entid)
	require.True(t, ok)
	assert.Equal(t, int64(17), entid.Val)

	assert.True(t, aor.A.Entid.(*ast.IdentRef).Val.IsForward())
	assert.Equal(t, "name", aor.A.Entid.(*ast.IdentRef).Val.Name)

	atom, ok := aor.V.(*ast.ValueAtom)
	require.True(t, ok)
	text, ok := atom.Val.(*ast.TextValue)
	require.True(t, ok)
	assert.Equal(t, "Bob", text.Val)
}

func TestParseEntityBackwardShapeSwapsAndReverses(t *testing.T) {
	e, err := New(`[:db/add "Bob" :person/_friend 42]`).Entity()
	require.NoError(t, err)

	aor, ok := e.(*ast.AddOrRetract)
	require.True(t, ok)
	assert.Equal(t, ast.OpAdd, aor.Op)

	ee, ok := aor.E.(*ast.EntityEntid)
	require.True(t, ok)
	entid, ok := ee.Entid.(*ast.Entid)
	require.True(t, ok)
	assert.Equal(t, int64(42), entid.Val)

	ident := aor.A.Entid.(*ast.IdentRef)
	assert.True(t, ident.Val.IsForward())
	assert.Equal(t, "friend", ident.Val.Name)

	atom, ok := aor.V.(*ast.ValueAtom)
	require.True(t, ok)
	text, ok := atom.Val.(*ast.TextValue)
	require.True(t, ok)
	assert.Equal(t, "Bob", text.Val)
}

func TestParseEntityMapNotation(t *testing.T) {
	e, err := New(`{:db/id 17 :person/name "Bob"}`).Entity()
	require.NoError(t, err)

	mn, ok := e.(*ast.MapNotation)
	require.True(t, ok)
	require.Len(t, mn.Entries, 2)
	assert.Equal(t, "id", mn.Entries[0].A.(*ast.IdentRef).Val.Name)
	assert.Equal(t, "name", mn.Entries[1].A.(*ast.IdentRef).Val.Name)
}

func TestParseEntityLookupRefEntityPlace(t *testing.T) {
	e, err := New(`[:db/add (lookup-ref :person/email "a@b.com") :person/name "Bob"]`).Entity()
	require.NoError(t, err)

	aor, ok := e.(*ast.AddOrRetract)
	require.True(t, ok)
	lr, ok := aor.E.(*ast.LookupRef)
	require.True(t, ok)
	assert.Equal(t, "email", lr.A.Entid.(*ast.IdentRef).Val.Name)
	text, ok := lr.V.(*ast.TextValue)
	require.True(t, ok)
	assert.Equal(t, "a@b.com", text.Val)
}

func TestParseEntityTxFunctionValuePlace(t *testing.T) {
	e, err := New(`[:db/add 17 :person/updatedBy (current-tx)]`).Entity()
	require.NoError(t, err)

	aor, ok := e.(*ast.AddOrRetract)
	require.True(t, ok)
	txf, ok := aor.V.(*ast.TxFunction)
	require.True(t, ok)
	assert.Equal(t, "current-tx", txf.Op.Name)
}

func TestParseEntityRejectsBareCollectionValue(t *testing.T) {
	_, err := New(`[:db/add 17 :person/aliases #{"a" "b"}]`).Entity()
	assert.Error(t, err)
}

func TestParseEntitiesVector(t *testing.T) {
	es, err := New(`[[:db/add 1 :a/b 2] [:db/retract 3 :a/c 4]]`).Entities()
	require.NoError(t, err)
	require.Len(t, es, 2)

	first := es[0].(*ast.AddOrRetract)
	assert.Equal(t, ast.OpAdd, first.Op)
	second := es[1].(*ast.AddOrRetract)
	assert.Equal(t, ast.OpRetract, second.Op)
}

func TestParseEntityUnnamespacedAttributeIsError(t *testing.T) {
	_, err := New(`[:db/add 17 name "Bob"]`).Entity()
	assert.Error(t, err)
}
