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
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eenblam/goedn/ast"
)

func TestParseValueScalars(t *testing.T) {
	cases := []struct {
		input string
		kind  ast.ValueKind
	}{
		{"nil", ast.KindNil},
		{"true", ast.KindBoolean},
		{"false", ast.KindBoolean},
		{"42", ast.KindInteger},
		{"-17", ast.KindInteger},
		{"3.14", ast.KindFloat},
		{"0x1F", ast.KindInteger},
		{"010", ast.KindInteger},
		{"2r1010", ast.KindInteger},
		{"123456789012345678901234567890N", ast.KindBigInteger},
		{`"hello"`, ast.KindText},
		{":foo/bar", ast.KindKeyword},
		{"foo/bar", ast.KindSymbol},
		{"#f NaN", ast.KindFloat},
		{"#f +Infinity", ast.KindFloat},
		{"#f -Infinity", ast.KindFloat},
		{`#uuid "550e8400-e29b-41d4-a716-446655440000"`, ast.KindUUID},
		{`#inst "2020-01-02T03:04:05Z"`, ast.KindInstant},
		{"#instmillis 1000", ast.KindInstant},
		{"#instmicros 1000000", ast.KindInstant},
	}
	for _, c := range cases {
		v, err := New(c.input).Value()
		require.NoError(t, err, "input %q", c.input)
		assert.Equal(t, c.kind, v.Kind(), "input %q", c.input)
	}
}

func TestParseValueFloatNaN(t *testing.T) {
	v, err := New("#f NaN").Value()
	require.NoError(t, err)
	f, ok := v.(*ast.FloatValue)
	require.True(t, ok)
	assert.True(t, math.IsNaN(f.Val))
}

func TestParseValueCollections(t *testing.T) {
	v, err := New("(1 2 3)").Value()
	require.NoError(t, err)
	assert.Equal(t, ast.KindList, v.Kind())

	v, err = New("[1 2 3]").Value()
	require.NoError(t, err)
	assert.Equal(t, ast.KindVector, v.Kind())

	v, err = New("{:a 1 :b 2}").Value()
	require.NoError(t, err)
	m, ok := v.(*ast.MapValue)
	require.True(t, ok)
	assert.Equal(t, 2, m.Map.Len())

	v, err = New("#{1 2 3}").Value()
	require.NoError(t, err)
	s, ok := v.(*ast.SetValue)
	require.True(t, ok)
	assert.Equal(t, 3, s.Set.Len())
}

func TestParseValueSetDedup(t *testing.T) {
	v, err := New("#{1 1 2}").Value()
	require.NoError(t, err)
	s, ok := v.(*ast.SetValue)
	require.True(t, ok)
	assert.Equal(t, 2, s.Set.Len())
}

func TestParseValueMapLastWriteWins(t *testing.T) {
	v, err := New("{:a 1 :a 2}").Value()
	require.NoError(t, err)
	m, ok := v.(*ast.MapValue)
	require.True(t, ok)
	require.Equal(t, 1, m.Map.Len())
	entries := m.Map.Entries()
	got, ok := entries[0].Value.(*ast.IntValue)
	require.True(t, ok)
	assert.Equal(t, int64(2), got.Val)
}

func TestParseValueOddMapIsError(t *testing.T) {
	_, err := New("{:a 1 :b}").Value()
	assert.Error(t, err)
}

func TestParseAtomRejectsCollection(t *testing.T) {
	_, err := New("[1 2 3]").Atom()
	assert.Error(t, err)
}

func TestParseValueRejectsTrailingContent(t *testing.T) {
	_, err := New("1 2").Value()
	assert.Error(t, err)
}

func TestParseValueInstantMillisNegativeRemainder(t *testing.T) {
	v, err := New("#instmillis -1500").Value()
	require.NoError(t, err)
	inst, ok := v.(*ast.InstantValue)
	require.True(t, ok)
	assert.Equal(t, int64(-2), inst.Val.Unix())
	assert.Equal(t, 500_000_000, inst.Val.Nanosecond())
}
