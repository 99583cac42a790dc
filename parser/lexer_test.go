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
)

func TestScanIdentPathNamespacedDotted(t *testing.T) {
	r := &runeReader{input: "foo.bar/baz"}
	id, ok := r.scanIdentPath()
	require.True(t, ok)
	assert.Equal(t, "foo.bar", id.Namespace)
	assert.Equal(t, "baz", id.Name)
	assert.True(t, r.atEOF())
}

func TestScanIdentPathBareDotAndEllipsis(t *testing.T) {
	r := &runeReader{input: "."}
	id, ok := r.scanIdentPath()
	require.True(t, ok)
	assert.Equal(t, ".", id.Name)

	r2 := &runeReader{input: "..."}
	id2, ok := r2.scanIdentPath()
	require.True(t, ok)
	assert.Equal(t, "...", id2.Name)
}

func TestScanIdentPathUnnamespaced(t *testing.T) {
	r := &runeReader{input: "?foo-bar"}
	id, ok := r.scanIdentPath()
	require.True(t, ok)
	assert.Equal(t, "", id.Namespace)
	assert.Equal(t, "?foo-bar", id.Name)
}

func TestScanQuotedStringEscapes(t *testing.T) {
	r := &runeReader{input: `"a\nb\tc\\d\"e\rf"`}
	s, ok, err := r.scanQuotedString()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a\nb\tc\\d\"e\rf", s)
}

func TestScanQuotedStringInvalidEscape(t *testing.T) {
	r := &runeReader{input: `"\q"`}
	_, _, err := r.scanQuotedString()
	assert.Error(t, err)
}

func TestScanQuotedStringUnterminated(t *testing.T) {
	r := &runeReader{input: `"abc`}
	_, _, err := r.scanQuotedString()
	assert.Error(t, err)
}

func TestNumericAlternativesOrdered(t *testing.T) {
	cases := []struct {
		input    string
		wantKind string
	}{
		{"123456789012345678901234567890N", "bigint"},
		{"2r1010", "based"},
		{"0x1F", "hex"},
		{"010", "octal"},
		{"42", "int"},
		{"-17", "int"},
		{"3.14", "float"},
		{"1e10", "float"},
	}
	for _, c := range cases {
		r := &runeReader{input: c.input}
		if bi, ok := r.scanBigInteger(0); ok {
			assert.Equal(t, "bigint", c.wantKind, "input %q", c.input)
			assert.NotNil(t, bi)
			continue
		}
		r = &runeReader{input: c.input}
		if _, _, ok := r.scanBasedInteger(0); ok {
			assert.Equal(t, "based", c.wantKind, "input %q", c.input)
			continue
		}
		r = &runeReader{input: c.input}
		if _, ok := r.scanHexInteger(0); ok {
			assert.Equal(t, "hex", c.wantKind, "input %q", c.input)
			continue
		}
		r = &runeReader{input: c.input}
		if _, ok := r.scanOctalInteger(0); ok {
			assert.Equal(t, "octal", c.wantKind, "input %q", c.input)
			continue
		}
		r = &runeReader{input: c.input}
		if _, ok := r.scanInteger(0); ok {
			assert.Equal(t, "int", c.wantKind, "input %q", c.input)
			continue
		}
		r = &runeReader{input: c.input}
		if _, ok := r.scanFloat(0); ok {
			assert.Equal(t, "float", c.wantKind, "input %q", c.input)
			continue
		}
		t.Fatalf("no numeric alternative matched %q", c.input)
	}
}

func TestScanBasedIntegerValue(t *testing.T) {
	r := &runeReader{input: "2r1010"}
	val, base, ok := r.scanBasedInteger(0)
	require.True(t, ok)
	assert.Equal(t, 2, base)
	assert.Equal(t, int64(10), val)
}

func TestParseUUIDTextCanonicalShape(t *testing.T) {
	out, ok := parseUUIDText("550e8400-e29b-41d4-a716-446655440000")
	require.True(t, ok)
	assert.Equal(t, byte(0x55), out[0])
	assert.Equal(t, byte(0x00), out[15])
}

func TestParseUUIDTextRejectsUppercase(t *testing.T) {
	_, ok := parseUUIDText("550E8400-E29B-41D4-A716-446655440000")
	assert.False(t, ok)
}
