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

	"github.com/eenblam/goedn/reporter"
)

func TestValueErrorIsParseError(t *testing.T) {
	_, err := New("").Value()
	require.Error(t, err)
	_, ok := err.(ParseError)
	assert.True(t, ok)

	var posErr reporter.ErrorWithPos
	require.ErrorAs(t, err, &posErr)
	assert.Equal(t, 0, posErr.GetPosition().Offset)
}

func TestErrorMessageNamesExpectation(t *testing.T) {
	_, err := New("[1 2").Value()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected value")
}

func TestErrorPositionTracksLineAndColumn(t *testing.T) {
	_, err := New("[1\n2").Value()
	require.Error(t, err)

	var posErr reporter.ErrorWithPos
	require.ErrorAs(t, err, &posErr)
	assert.Equal(t, 2, posErr.GetPosition().Line)
}
