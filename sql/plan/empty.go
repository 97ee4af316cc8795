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
)

// Empty emits exactly one zero-column row, then io.EOF. It is the source
// for a FROM-less SELECT, so that Eval can evaluate constant projections
// uniformly instead of special-casing the no-source case.
type Empty struct {
	done bool
}

// NewEmpty returns a fresh Empty source.
func NewEmpty() *Empty { return &Empty{} }

func (e *Empty) Schema() sql.Schema { return sql.EmptySchema() }

func (e *Empty) Poll(ctx *sql.Context) (Batch, error) {
	span, _ := opentracing.StartSpanFromContext(ctx, "plan.Empty.Poll")
	defer span.Finish()

	if e.done {
		return nil, io.EOF
	}
	e.done = true
	return Batch{sql.Row{}}, nil
}
