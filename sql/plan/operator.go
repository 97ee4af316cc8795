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

// Package plan is the pull-based streaming pipeline: a tree of Operators,
// each pulling batches of rows from its children. It mirrors the shape of
// the teacher's sql.RowIter — poll and iterate are the same idea — except
// that batches, not single rows, are the unit of transfer, and exhaustion
// is signaled the same way the teacher signals it: io.EOF.
package plan

import "github.com/camellia-db/camellia/sql"

// NMax is the largest number of rows a single Poll call may return in one
// Batch.
const NMax = 1024

// Batch is a non-empty (until exhaustion) vector of rows produced by one
// Poll call.
type Batch []sql.Row

// Operator is one node of the pipeline.
type Operator interface {
	// Schema is the static schema of every row this operator emits.
	Schema() sql.Schema
	// Poll returns the next batch of up to NMax rows, or io.EOF once the
	// operator is exhausted. Once io.EOF has been returned, Poll must not
	// be called again.
	Poll(ctx *sql.Context) (Batch, error)
}
