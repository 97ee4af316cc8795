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

package plan

import (
	"fmt"
	"io"

	"github.com/opentracing/opentracing-go"

	"github.com/camellia-db/camellia/sql"
)

// Values is a static row source built from a literal VALUES list. The
// schema is inferred from the first row's value types, with synthetic
// column names column1, column2, ...; every subsequent row must satisfy
// schema.Check.
type Values struct {
	schema sql.Schema
	rows   []sql.Row
	pos    int
}

// NewValues builds a Values operator from rows already evaluated to
// sql.Row form (camellia's planner evaluates each literal expression
// against an empty row before calling this). It is an error for rows to be
// empty, matching spec.md §8's "empty VALUES is a hard error" choice.
func NewValues(rows []sql.Row) (*Values, error) {
	if len(rows) == 0 {
		return nil, sql.ErrSchemaError.New("VALUES requires at least one row")
	}
	columns := make([]sql.Column, len(rows[0]))
	for i, v := range rows[0] {
		columns[i] = sql.Column{Name: fmt.Sprintf("column%d", i+1), Type: v.Type()}
	}
	schema, err := sql.NewSchema(columns)
	if err != nil {
		return nil, err
	}
	for _, row := range rows[1:] {
		if err := schema.Check(row); err != nil {
			return nil, err
		}
	}
	return &Values{schema: schema, rows: rows}, nil
}

func (v *Values) Schema() sql.Schema { return v.schema }

func (v *Values) Poll(ctx *sql.Context) (Batch, error) {
	span, _ := opentracing.StartSpanFromContext(ctx, "plan.Values.Poll")
	defer span.Finish()

	if v.pos >= len(v.rows) {
		return nil, io.EOF
	}
	end := v.pos + NMax
	if end > len(v.rows) {
		end = len(v.rows)
	}
	batch := Batch(v.rows[v.pos:end])
	v.pos = end
	return batch, nil
}
