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

package driver

import (
	"database/sql/driver"
	"io"

	"github.com/camellia-db/camellia/sql"
)

// Rows is a cursor over a materialized sql.RowSet. Unlike the teacher's
// Rows (which wraps a live sql.RowIter), camellia's Engine.Execute already
// drains its operator tree to completion before returning (spec.md §4.3),
// so Rows here is just an index into the resulting slice.
type Rows struct {
	schema sql.Schema
	rows   []sql.Row
	pos    int
}

// Columns returns the result's column names.
func (r *Rows) Columns() []string {
	names := make([]string, len(r.schema.Columns))
	for i, c := range r.schema.Columns {
		names[i] = c.Name
	}
	return names
}

// Close releases no resources: rows is already fully materialized.
func (r *Rows) Close() error {
	return nil
}

// Next copies the next row's values into dest, or returns io.EOF once
// every row has been consumed.
func (r *Rows) Next(dest []driver.Value) error {
	if r.pos >= len(r.rows) {
		return io.EOF
	}
	row := r.rows[r.pos]
	r.pos++
	for i, v := range row {
		dest[i] = convertValue(v)
	}
	return nil
}

func convertValue(v sql.Value) driver.Value {
	if v.IsNull() {
		return nil
	}
	switch v.Type() {
	case sql.Bool:
		return v.Bool()
	case sql.Integer:
		return v.Int()
	case sql.Text:
		return v.Text()
	default:
		return nil
	}
}

var _ driver.Rows = (*Rows)(nil)
