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

func TestKeywordForwardBackward(t *testing.T) {
	fwd := Keyword{Ident{Namespace: "person", Name: "friend"}}
	assert.True(t, fwd.IsForward())
	assert.False(t, fwd.IsBackward())

	back := Keyword{Ident{Namespace: "person", Name: "_friend"}}
	assert.False(t, back.IsForward())
	assert.True(t, back.IsBackward())
}

func TestKeywordReversedRoundTrips(t *testing.T) {
	fwd := Keyword{Ident{Namespace: "person", Name: "friend"}}
	rev := fwd.Reversed()
	assert.True(t, rev.IsBackward())
	assert.Equal(t, "_friend", rev.Name)

	back := rev.Reversed()
	assert.True(t, back.IsForward())
	assert.Equal(t, "friend", back.Name)
}

func TestIdentHasNamespace(t *testing.T) {
	assert.True(t, Ident{Namespace: "person", Name: "name"}.HasNamespace())
	assert.False(t, Ident{Name: "name"}.HasNamespace())
}

func TestIdentEqual(t *testing.T) {
	a := Ident{Namespace: "person", Name: "name"}
	b := Ident{Namespace: "person", Name: "name"}
	c := Ident{Namespace: "person", Name: "age"}
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}
