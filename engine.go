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

// Package camellia is the embedded relational engine: it translates
// abstract statements into operator trees, manages the KV transaction each
// statement runs under, and drives the resulting pipeline to completion.
// It plays the role the teacher's engine.Engine plays for go-mysql-server,
// narrowed to camellia's single-statement, single-connection scope.
package camellia

import (
	"fmt"
	"io"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/camellia-db/camellia/ast"
	"github.com/camellia-db/camellia/catalog"
	"github.com/camellia-db/camellia/kv"
	"github.com/camellia-db/camellia/planner"
	"github.com/camellia-db/camellia/sql"
	"github.com/camellia-db/camellia/sql/plan"
)

// Config configures a new Engine. The zero Config is valid and selects
// logrus's standard logger.
type Config struct {
	// Log is the logger used for catalog events, and for query lifecycle
	// events (start, commit, abort) when the sql.Context passed to Execute
	// carries no logger of its own. Defaults to logrus.StandardLogger() if
	// nil.
	Log *logrus.Logger
}

// Engine is a single embedded database instance: one KV store, one table
// catalog, one statement executed at a time (spec.md §5 — concurrency
// across queries is not a goal; table cache access is still safe for
// concurrent callers via catalog's reader/writer lock).
type Engine struct {
	store kv.KV
	cat   *catalog.Catalog
	log   *logrus.Logger
}

// New returns an Engine backed by store. cfg may be nil to accept all
// defaults.
func New(store kv.KV, cfg *Config) *Engine {
	if cfg == nil {
		cfg = &Config{}
	}
	log := cfg.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Engine{
		store: store,
		cat:   catalog.New(store, log),
		log:   log,
	}
}

// Result is the outcome of Execute: exactly one of RowSet (for a Query
// statement) or Affected (for CREATE TABLE, DROP TABLE, and INSERT) is
// meaningful, mirroring spec.md §6's Rows(RowSet)/Affected(n) output shape.
type Result struct {
	RowSet   *sql.RowSet
	Affected int
}

// Execute plans and runs stmt to completion, opening and committing (or
// aborting) whatever KV transaction it needs along the way. Only one
// Execute call may be in flight against an Engine's single implicit
// transaction scope at a time (spec.md §5).
func (e *Engine) Execute(ctx *sql.Context, stmt ast.Statement) (Result, error) {
	span, ctx2 := opentracing.StartSpanFromContext(ctx, "camellia.Engine.Execute")
	defer span.Finish()
	ctx = &sql.Context{Context: ctx2, QueryID: ctx.QueryID, Log: ctx.Log}

	log := ctx.Log
	if log == nil {
		log = e.log.WithField("query_id", ctx.QueryID)
	}
	log.WithField("stmt", fmt.Sprintf("%T", stmt)).Debug("executing statement")

	switch s := stmt.(type) {
	case *ast.CreateTable:
		return e.executeCreateTable(s, log)
	case *ast.Drop:
		return e.executeDrop(s, log)
	case *ast.Insert:
		return e.executeInsert(ctx, s, log)
	case *ast.Query:
		return e.executeQuery(ctx, s, log)
	default:
		return Result{}, sql.ErrParseShape.New(fmt.Sprintf("unrecognized statement type %T", stmt))
	}
}

func (e *Engine) executeCreateTable(s *ast.CreateTable, log *logrus.Entry) (Result, error) {
	schema, err := planner.SchemaFromDefs(s.Columns)
	if err != nil {
		return Result{}, err
	}
	if _, err := e.cat.CreateTable(s.Name, schema); err != nil {
		log.WithError(err).WithField("table", s.Name).Warn("create table failed")
		return Result{}, err
	}
	return Result{Affected: 0}, nil
}

func (e *Engine) executeDrop(s *ast.Drop, log *logrus.Entry) (Result, error) {
	if err := e.cat.DropTable(s.Name); err != nil {
		log.WithError(err).WithField("table", s.Name).Warn("drop table failed")
		return Result{}, err
	}
	return Result{Affected: 0}, nil
}

func (e *Engine) executeQuery(ctx *sql.Context, q *ast.Query, log *logrus.Entry) (Result, error) {
	txn, err := e.store.Begin()
	if err != nil {
		return Result{}, sql.ErrStorageError.New(err.Error())
	}

	op, err := planner.BuildQuery(q, e.cat, txn)
	if err != nil {
		txn.Rollback()
		return Result{}, err
	}

	rows, err := drain(ctx, op)
	if err != nil {
		txn.Rollback()
		log.WithError(err).Warn("query aborted")
		return Result{}, errors.Wrap(err, "query execution")
	}

	if err := txn.Commit(); err != nil {
		return Result{}, sql.ErrStorageError.New(err.Error())
	}

	log.WithField("rows", len(rows)).Debug("query committed")
	return Result{RowSet: &sql.RowSet{Schema: op.Schema(), Rows: rows}}, nil
}

func (e *Engine) executeInsert(ctx *sql.Context, ins *ast.Insert, log *logrus.Entry) (Result, error) {
	target, err := e.cat.GetTable(ins.Table)
	if err != nil {
		return Result{}, err
	}

	txn, err := e.store.Begin()
	if err != nil {
		return Result{}, sql.ErrStorageError.New(err.Error())
	}

	op, err := planner.BuildQuery(ins.Source, e.cat, txn)
	if err != nil {
		txn.Rollback()
		return Result{}, err
	}

	sourceRows, err := drain(ctx, op)
	if err != nil {
		txn.Rollback()
		log.WithError(err).Warn("insert source aborted")
		return Result{}, errors.Wrap(err, "insert source evaluation")
	}

	affected := 0
	for _, row := range sourceRows {
		reordered, err := planner.ReorderInsertRow(row, ins.Columns, target.Schema)
		if err != nil {
			txn.Rollback()
			return Result{}, err
		}
		if err := target.Schema.Check(reordered); err != nil {
			txn.Rollback()
			return Result{}, err
		}

		var hiddenKey []byte
		if !target.Schema.HasPrimaryKey() {
			hiddenKey = target.NextHiddenKey()
		}
		key, err := target.EncodeKey(reordered, hiddenKey)
		if err != nil {
			txn.Rollback()
			return Result{}, err
		}

		existing, err := txn.GetForUpdateCF(target.CF, key, true)
		if err != nil {
			txn.Rollback()
			return Result{}, sql.ErrStorageError.New(err.Error())
		}
		if existing != nil {
			txn.Rollback()
			return Result{}, sql.ErrConstraintError.New(fmt.Sprintf("duplicate primary key in table %q", ins.Table))
		}

		if err := txn.PutCF(target.CF, key, reordered.Encode()); err != nil {
			txn.Rollback()
			return Result{}, sql.ErrStorageError.New(err.Error())
		}
		affected++
	}

	if err := txn.Commit(); err != nil {
		return Result{}, sql.ErrStorageError.New(err.Error())
	}

	log.WithField("table", ins.Table).WithField("affected", affected).Debug("insert committed")
	return Result{Affected: affected}, nil
}

// drain pulls op to Finished, materializing every batch into a flat row
// slice.
func drain(ctx *sql.Context, op plan.Operator) ([]sql.Row, error) {
	var rows []sql.Row
	for {
		batch, err := op.Poll(ctx)
		if err != nil {
			if err == io.EOF {
				return rows, nil
			}
			return nil, err
		}
		rows = append(rows, batch...)
	}
}

// Close releases the Engine's backing KV.
func (e *Engine) Close() error {
	return e.store.Close()
}
