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

	"github.com/camellia-db/camellia/kv"
	"github.com/camellia-db/camellia/sql"
)

// FullScan iterates a table's column family from the lowest key upward,
// decoding each value into a Row using the table's schema. The underlying
// kv.Iterator is owned by the scan; its lifetime is tied to the scan's and,
// transitively, to the enclosing transaction.
type FullScan struct {
	schema sql.Schema
	it     kv.Iterator
	done   bool
}

// NewFullScan opens an ascending iterator over cf within txn.
func NewFullScan(txn kv.Transaction, cf kv.Handle, schema sql.Schema) (*FullScan, error) {
	it, err := txn.Iterator(cf, kv.Ascending)
	if err != nil {
		return nil, sql.ErrStorageError.New(err.Error())
	}
	return &FullScan{schema: schema, it: it}, nil
}

func (f *FullScan) Schema() sql.Schema { return f.schema }

func (f *FullScan) Poll(ctx *sql.Context) (Batch, error) {
	span, _ := opentracing.StartSpanFromContext(ctx, "plan.FullScan.Poll")
	defer span.Finish()

	if f.done {
		return nil, io.EOF
	}

	var batch Batch
	for len(batch) < NMax {
		ok, err := f.it.Next()
		if err != nil {
			return nil, sql.ErrStorageError.New(err.Error())
		}
		if !ok {
			f.done = true
			break
		}
		row, err := sql.DecodeRow(f.it.Value(), f.schema.NumColumns())
		if err != nil {
			return nil, err
		}
		batch = append(batch, row)
	}
	if len(batch) == 0 {
		return nil, io.EOF
	}
	return batch, nil
}
