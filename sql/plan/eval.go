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
	"io"

	"github.com/opentracing/opentracing-go"

	"github.com/camellia-db/camellia/sql"
	"github.com/camellia-db/camellia/sql/expression"
)

// Eval wraps a child operator with a fixed projection: a list of
// expressions evaluated, in order, against each input row to produce the
// output row. The output schema is computed once at construction and never
// changes.
type Eval struct {
	child  Operator
	exprs  []expression.Expression
	schema sql.Schema
}

// NewEval builds an Eval. exprs must already be resolved against
// child.Schema(), and schema must have the same arity as exprs.
func NewEval(child Operator, exprs []expression.Expression, schema sql.Schema) *Eval {
	return &Eval{child: child, exprs: exprs, schema: schema}
}

func (e *Eval) Schema() sql.Schema { return e.schema }

func (e *Eval) Poll(ctx *sql.Context) (Batch, error) {
	span, _ := opentracing.StartSpanFromContext(ctx, "plan.Eval.Poll")
	defer span.Finish()

	batch, err := e.child.Poll(ctx)
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, err
	}

	out := make(Batch, len(batch))
	for i, row := range batch {
		outRow := make(sql.Row, len(e.exprs))
		for j, expr := range e.exprs {
			v, err := expr.Eval(ctx, row)
			if err != nil {
				return nil, err
			}
			outRow[j] = v
		}
		out[i] = outRow
	}
	return out, nil
}
