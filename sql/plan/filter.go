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

// Filter wraps a child operator and a predicate, retaining only the rows
// for which the predicate evaluates truthy. It never reorders or invents
// rows, and it never changes the child's schema.
type Filter struct {
	child     Operator
	predicate expression.Expression
}

// NewFilter builds a Filter. predicate must already be resolved against
// child.Schema() and have a Bool-convertible result type.
func NewFilter(child Operator, predicate expression.Expression) *Filter {
	return &Filter{child: child, predicate: predicate}
}

func (f *Filter) Schema() sql.Schema { return f.child.Schema() }

func (f *Filter) Poll(ctx *sql.Context) (Batch, error) {
	span, _ := opentracing.StartSpanFromContext(ctx, "plan.Filter.Poll")
	defer span.Finish()

	for {
		batch, err := f.child.Poll(ctx)
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			return nil, err
		}
		var kept Batch
		for _, row := range batch {
			v, err := f.predicate.Eval(ctx, row)
			if err != nil {
				return nil, err
			}
			ok, err := v.Truthy()
			if err != nil {
				return nil, err
			}
			if ok {
				kept = append(kept, row)
			}
		}
		if len(kept) > 0 {
			return kept, nil
		}
		// an all-filtered batch must not be mistaken for exhaustion; keep
		// pulling until we have rows to return or the child is done.
	}
}
