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

func TestNewSchemaNoPrimaryKey(t *testing.T) {
	s, err := NewSchema([]Column{{Name: "a", Type: Integer}})
	require.NoError(t, err)
	require.False(t, s.HasPrimaryKey())
	require.Equal(t, -1, s.PrimaryKey)
}

func TestNewSchemaWithPrimaryKey(t *testing.T) {
	s, err := NewSchema([]Column{
		{Name: "a", Type: Integer, PrimaryKey: true},
		{Name: "b", Type: Text},
	})
	require.NoError(t, err)
	require.True(t, s.HasPrimaryKey())
	require.Equal(t, 0, s.PrimaryKey)
}

func TestNewSchemaRejectsDuplicateColumnName(t *testing.T) {
	_, err := NewSchema([]Column{{Name: "a", Type: Integer}, {Name: "a", Type: Text}})
	require.Error(t, err)
	require.True(t, ErrSchemaError.Is(err))
}

func TestNewSchemaRejectsMultiplePrimaryKeys(t *testing.T) {
	_, err := NewSchema([]Column{
		{Name: "a", Type: Integer, PrimaryKey: true},
		{Name: "b", Type: Integer, PrimaryKey: true},
	})
	require.Error(t, err)
	require.True(t, ErrSchemaError.Is(err))
}

func TestEmptySchemaHasNoColumnsOrPrimaryKey(t *testing.T) {
	s := EmptySchema()
	require.Equal(t, 0, s.NumColumns())
	require.False(t, s.HasPrimaryKey())
}

func TestSchemaIndexOf(t *testing.T) {
	s, err := NewSchema([]Column{{Name: "a", Type: Integer}, {Name: "b", Type: Text}})
	require.NoError(t, err)
	i, ok := s.IndexOf("b")
	require.True(t, ok)
	require.Equal(t, 1, i)

	_, ok = s.IndexOf("c")
	require.False(t, ok)
}

func TestSchemaCheckRejectsArityMismatch(t *testing.T) {
	s, err := NewSchema([]Column{{Name: "a", Type: Integer}})
	require.NoError(t, err)
	err = s.Check(NewRow(NewInt(1), NewInt(2)))
	require.Error(t, err)
	require.True(t, ErrTypeError.Is(err))
}

func TestSchemaCheckRejectsWrongType(t *testing.T) {
	s, err := NewSchema([]Column{{Name: "a", Type: Integer}})
	require.NoError(t, err)
	err = s.Check(NewRow(NewText("x")))
	require.Error(t, err)
	require.True(t, ErrTypeError.Is(err))
}

func TestSchemaCheckAllowsNullInAnyColumn(t *testing.T) {
	s, err := NewSchema([]Column{{Name: "a", Type: Integer}})
	require.NoError(t, err)
	require.NoError(t, s.Check(NewRow(NewNull())))
}

func TestMarshalUnmarshalSchemaRoundTrip(t *testing.T) {
	s, err := NewSchema([]Column{
		{Name: "id", Type: Integer, PrimaryKey: true},
		{Name: "name", Type: Text},
		{Name: "active", Type: Bool},
	})
	require.NoError(t, err)

	data, err := MarshalSchema(s)
	require.NoError(t, err)

	decoded, err := UnmarshalSchema(data)
	require.NoError(t, err)
	require.Equal(t, s, decoded)
}
