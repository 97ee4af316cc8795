// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sql

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestZeroValueIsNull(t *testing.T) {
	var v Value
	require.True(t, v.IsNull())
	require.Equal(t, Null, v.Type())
	require.Equal(t, "null", v.String())
}

func TestEqualNullOnlyEqualsNull(t *testing.T) {
	require.True(t, NewNull().Equal(NewNull()))
	require.False(t, NewNull().Equal(NewInt(0)))
	require.False(t, NewInt(0).Equal(NewNull()))
}

func TestEqualCrossTagIsFalseNotError(t *testing.T) {
	require.False(t, NewInt(1).Equal(NewText("1")))
}

func TestCompareOrdersSameTag(t *testing.T) {
	c, err := NewInt(1).Compare(NewInt(2))
	require.NoError(t, err)
	require.Equal(t, -1, c)

	c, err = NewText("b").Compare(NewText("a"))
	require.NoError(t, err)
	require.Equal(t, 1, c)

	c, err = NewBool(false).Compare(NewBool(false))
	require.NoError(t, err)
	require.Equal(t, 0, c)
}

func TestCompareRejectsNull(t *testing.T) {
	_, err := NewNull().Compare(NewInt(1))
	require.Error(t, err)
	require.True(t, ErrTypeError.Is(err))
}

func TestCompareRejectsMismatchedTags(t *testing.T) {
	_, err := NewInt(1).Compare(NewText("1"))
	require.Error(t, err)
	require.True(t, ErrTypeError.Is(err))
}

func TestConvertToBoolIntegerRoundTrip(t *testing.T) {
	v, err := NewInt(1).ConvertTo(Bool)
	require.NoError(t, err)
	require.Equal(t, Bool, v.Type())
	require.True(t, v.Bool())

	v, err = NewBool(true).ConvertTo(Integer)
	require.NoError(t, err)
	require.Equal(t, Integer, v.Type())
	require.EqualValues(t, 1, v.Int())
}

func TestConvertToTextRejected(t *testing.T) {
	_, err := NewText("x").ConvertTo(Integer)
	require.Error(t, err)
	require.True(t, ErrValueError.Is(err))
}

func TestTruthy(t *testing.T) {
	b, err := NewBool(true).Truthy()
	require.NoError(t, err)
	require.True(t, b)

	b, err = NewInt(0).Truthy()
	require.NoError(t, err)
	require.False(t, b)

	b, err = NewInt(5).Truthy()
	require.NoError(t, err)
	require.True(t, b)

	_, err = NewText("x").Truthy()
	require.Error(t, err)
	require.True(t, ErrValueError.Is(err))
}
