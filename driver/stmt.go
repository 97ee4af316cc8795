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
	"context"
	"database/sql/driver"

	"github.com/camellia-db/camellia/ast"
	"github.com/camellia-db/camellia/sql"
)

// Stmt is a prepared statement: a registered ast.Statement, ready to run
// against its Conn's Engine. camellia has no placeholders (no SQL text
// parser to bind them against), so NumInput is always 0.
type Stmt struct {
	conn *Conn
	stmt ast.Statement
}

// Close does nothing; the registered ast.Statement outlives the Stmt.
func (s *Stmt) Close() error {
	return nil
}

// NumInput always returns 0: camellia statements carry their literal
// values directly in the ast.Statement tree, not as placeholders.
func (s *Stmt) NumInput() int {
	return 0
}

// Exec runs a CREATE TABLE, DROP TABLE, or INSERT statement.
func (s *Stmt) Exec(args []driver.Value) (driver.Result, error) {
	return s.exec(context.Background())
}

// Query runs a SELECT/VALUES statement.
func (s *Stmt) Query(args []driver.Value) (driver.Rows, error) {
	return s.query(context.Background())
}

// ExecContext runs a CREATE TABLE, DROP TABLE, or INSERT statement.
func (s *Stmt) ExecContext(ctx context.Context, args []driver.NamedValue) (driver.Result, error) {
	return s.exec(ctx)
}

// QueryContext runs a SELECT/VALUES statement.
func (s *Stmt) QueryContext(ctx context.Context, args []driver.NamedValue) (driver.Rows, error) {
	return s.query(ctx)
}

func (s *Stmt) exec(ctx context.Context) (driver.Result, error) {
	qctx := sql.NewContext(ctx, nil)
	res, err := s.conn.engine.Execute(qctx, s.stmt)
	if err != nil {
		return nil, err
	}
	return &Result{affected: int64(res.Affected)}, nil
}

func (s *Stmt) query(ctx context.Context) (driver.Rows, error) {
	qctx := sql.NewContext(ctx, nil)
	res, err := s.conn.engine.Execute(qctx, s.stmt)
	if err != nil {
		return nil, err
	}
	if res.RowSet == nil {
		return &Rows{}, nil
	}
	return &Rows{schema: res.RowSet.Schema, rows: res.RowSet.Rows}, nil
}

var (
	_ driver.Stmt             = (*Stmt)(nil)
	_ driver.StmtExecContext  = (*Stmt)(nil)
	_ driver.StmtQueryContext = (*Stmt)(nil)
)
