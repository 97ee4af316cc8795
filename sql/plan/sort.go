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
	"container/heap"
	"io"
	"sort"

	"github.com/opentracing/opentracing-go"

	"github.com/camellia-db/camellia/sql"
	"github.com/camellia-db/camellia/sql/expression"
)

// mergeFanIn is the largest number of runs merged together in a single
// pass of the Merge state. 16 balances the depth of the merge tree against
// the width of the min-heap used to drive each pass.
const mergeFanIn = 16

// sortState is the Read -> Merge -> Emit state machine driving Sort.Poll.
type sortState int

const (
	sortRead sortState = iota
	sortMerge
	sortEmit
)

// sortedRow pairs a row with its precomputed sort key and a global
// insertion sequence number, so that ties are broken by original order
// (stability) without recomparing rows or re-evaluating expressions at
// every merge level.
type sortedRow struct {
	row sql.Row
	key sql.Row
	seq uint64
}

// run is one sorted (or merged) sequence of sortedRows.
type run []sortedRow

// Sort wraps a child operator and orders its output by a list of resolved
// sort expressions, preserving the child's schema (Sort never projects).
// It implements an external merge sort: runs are accumulated in memory
// while the child is drained (the Read state), repeatedly k-way merged in
// groups of up to mergeFanIn (the Merge state), then streamed out in
// batches (the Emit state). The run abstraction is the seam a future pass
// could use to spill runs larger than memory to a temporary store, without
// changing Sort's Poll contract.
type Sort struct {
	child      Operator
	sortExprs  []expression.Expression
	schema     sql.Schema

	state   sortState
	runs    []run
	nextSeq uint64
	final   run
	emitPos int
}

// NewSort builds a Sort. sortExprs must already be resolved against
// child.Schema() (including any ORDER BY <position> rewrite to the
// corresponding select expression — that rewrite happens in the planner,
// not here).
func NewSort(child Operator, sortExprs []expression.Expression) *Sort {
	return &Sort{child: child, sortExprs: sortExprs, schema: child.Schema()}
}

func (s *Sort) Schema() sql.Schema { return s.schema }

func (s *Sort) Poll(ctx *sql.Context) (Batch, error) {
	span, _ := opentracing.StartSpanFromContext(ctx, "plan.Sort.Poll")
	defer span.Finish()

	for {
		switch s.state {
		case sortRead:
			batch, err := s.child.Poll(ctx)
			if err == io.EOF {
				s.state = sortMerge
				continue
			}
			if err != nil {
				return nil, err
			}
			r, err := s.sortBatch(ctx, batch)
			if err != nil {
				return nil, err
			}
			s.runs = append(s.runs, r)

		case sortMerge:
			if len(s.runs) <= 1 {
				if len(s.runs) == 1 {
					s.final = s.runs[0]
				}
				s.runs = nil
				s.state = sortEmit
				continue
			}
			n := mergeFanIn
			if n > len(s.runs) {
				n = len(s.runs)
			}
			group := s.runs[:n]
			merged, err := mergeRuns(group)
			if err != nil {
				return nil, err
			}
			s.runs = append(s.runs[n:], merged)

		case sortEmit:
			if s.emitPos >= len(s.final) {
				return nil, io.EOF
			}
			end := s.emitPos + NMax
			if end > len(s.final) {
				end = len(s.final)
			}
			batch := make(Batch, end-s.emitPos)
			for i := range batch {
				batch[i] = s.final[s.emitPos+i].row
			}
			s.emitPos = end
			return batch, nil
		}
	}
}

// sortBatch computes a sort key for every row in batch, assigns each a
// global sequence number, and sorts the resulting run in place.
func (s *Sort) sortBatch(ctx *sql.Context, batch Batch) (run, error) {
	r := make(run, len(batch))
	for i, row := range batch {
		key := make(sql.Row, len(s.sortExprs))
		for j, expr := range s.sortExprs {
			v, err := expr.Eval(ctx, row)
			if err != nil {
				return nil, err
			}
			key[j] = v
		}
		r[i] = sortedRow{row: row, key: key, seq: s.nextSeq}
		s.nextSeq++
	}
	var sortErr error
	sort.SliceStable(r, func(i, j int) bool {
		c, err := r[i].key.Compare(r[j].key)
		if err != nil {
			sortErr = err
			return false
		}
		return c < 0
	})
	if sortErr != nil {
		return nil, sortErr
	}
	return r, nil
}

// heapItem is one candidate in the k-way merge heap: the run it came from
// and its next unconsumed position within that run.
type heapItem struct {
	r   run
	pos int
}

// runHeap is a container/heap.Interface over the current front of each run
// being merged, ordered by sort key and broken by seq for stability.
type runHeap struct {
	items []heapItem
	err   error
}

func (h *runHeap) Len() int { return len(h.items) }

func (h *runHeap) Less(i, j int) bool {
	a, b := h.items[i].r[h.items[i].pos], h.items[j].r[h.items[j].pos]
	c, err := a.key.Compare(b.key)
	if err != nil {
		h.err = err
		return false
	}
	if c != 0 {
		return c < 0
	}
	return a.seq < b.seq
}

func (h *runHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *runHeap) Push(x any) { h.items = append(h.items, x.(heapItem)) }

func (h *runHeap) Pop() any {
	old := h.items
	n := len(old)
	item := old[n-1]
	h.items = old[:n-1]
	return item
}

// mergeRuns k-way merges runs into a single sorted run using a min-heap
// keyed on each run's current front element.
func mergeRuns(runs []run) (run, error) {
	total := 0
	for _, r := range runs {
		total += len(r)
	}
	out := make(run, 0, total)

	h := &runHeap{}
	for _, r := range runs {
		if len(r) > 0 {
			h.items = append(h.items, heapItem{r: r, pos: 0})
		}
	}
	heap.Init(h)
	if h.err != nil {
		return nil, h.err
	}

	for h.Len() > 0 {
		item := heap.Pop(h).(heapItem)
		if h.err != nil {
			return nil, h.err
		}
		out = append(out, item.r[item.pos])
		if item.pos+1 < len(item.r) {
			heap.Push(h, heapItem{r: item.r, pos: item.pos + 1})
			if h.err != nil {
				return nil, h.err
			}
		}
	}
	return out, nil
}
