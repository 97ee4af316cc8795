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
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"
)

// Schema is an ordered sequence of named Columns plus an optional index of
// the declared primary-key column.
type Schema struct {
	Columns []Column
	// PrimaryKey is the index into Columns of the declared primary key, or
	// -1 if the table has no declared primary key (a hidden PK is used
	// instead, see catalog.Table).
	PrimaryKey int
}

// NewSchema validates and builds a Schema from a column list. At most one
// column may be marked PrimaryKey.
func NewSchema(columns []Column) (Schema, error) {
	pk := -1
	seen := make(map[string]bool, len(columns))
	for i, c := range columns {
		if seen[c.Name] {
			return Schema{}, ErrSchemaError.New(fmt.Sprintf("duplicate column name %q", c.Name))
		}
		seen[c.Name] = true
		if c.PrimaryKey {
			if pk != -1 {
				return Schema{}, ErrSchemaError.New("at most one column may be declared primary key")
			}
			pk = i
		}
	}
	return Schema{Columns: columns, PrimaryKey: pk}, nil
}

// EmptySchema is the zero-column schema emitted by the Empty operator.
func EmptySchema() Schema {
	return Schema{PrimaryKey: -1}
}

// HasPrimaryKey reports whether the schema has a declared primary key.
func (s Schema) HasPrimaryKey() bool {
	return s.PrimaryKey >= 0
}

// NumColumns returns the column count.
func (s Schema) NumColumns() int {
	return len(s.Columns)
}

// IndexOf returns the position of the first column named name, and whether
// it was found. Name resolution is first-match: duplicate names are
// rejected at schema construction time via NewSchema, not here.
func (s Schema) IndexOf(name string) (int, bool) {
	for i, c := range s.Columns {
		if c.Name == name {
			return i, true
		}
	}
	return -1, false
}

// Check reports whether row has the same arity as s and each value's type
// is either equal to its column's declared type or Null.
func (s Schema) Check(row Row) error {
	if len(row) != len(s.Columns) {
		return ErrTypeError.New(fmt.Sprintf("number of values does not match: expected %d but got %d", len(s.Columns), len(row)))
	}
	for i, c := range s.Columns {
		v := row[i]
		if v.IsNull() {
			continue
		}
		if v.Type() != c.Type {
			return ErrTypeError.New(fmt.Sprintf("%s: expected %s but got %s", c.Name, c.Type, v.Type()))
		}
	}
	return nil
}

// persistedSchema is the TOML-serializable shape of a Schema, stored under
// the table's name in the default namespace on CREATE TABLE. TOML is chosen
// (over gob/bincode-style binary framing) so that future columns/fields can
// be added without breaking schemas written by older versions.
type persistedSchema struct {
	PrimaryKey int              `toml:"primary_key"`
	Columns    []persistedColumn `toml:"columns"`
}

type persistedColumn struct {
	Name       string `toml:"name"`
	Type       int    `toml:"type"`
	PrimaryKey bool   `toml:"primary_key"`
}

// MarshalSchema encodes a Schema to its on-disk TOML representation.
func MarshalSchema(s Schema) ([]byte, error) {
	p := persistedSchema{PrimaryKey: s.PrimaryKey, Columns: make([]persistedColumn, len(s.Columns))}
	for i, c := range s.Columns {
		p.Columns[i] = persistedColumn{Name: c.Name, Type: int(c.Type), PrimaryKey: c.PrimaryKey}
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(p); err != nil {
		return nil, ErrStorageError.New(err.Error())
	}
	return buf.Bytes(), nil
}

// UnmarshalSchema decodes a Schema from its on-disk TOML representation.
func UnmarshalSchema(data []byte) (Schema, error) {
	var p persistedSchema
	if _, err := toml.Decode(string(data), &p); err != nil {
		return Schema{}, ErrStorageError.New(err.Error())
	}
	columns := make([]Column, len(p.Columns))
	for i, c := range p.Columns {
		columns[i] = Column{Name: c.Name, Type: Type(c.Type), PrimaryKey: c.PrimaryKey}
	}
	return Schema{Columns: columns, PrimaryKey: p.PrimaryKey}, nil
}
