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

package planner

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/camellia-db/camellia/ast"
	"github.com/camellia-db/camellia/catalog"
	"github.com/camellia-db/camellia/kv"
	"github.com/camellia-db/camellia/kv/kvmemory"
	"github.com/camellia-db/camellia/sql"
	"github.com/camellia-db/camellia/sql/plan"
)

func drainOperator(t *testing.T, op plan.Operator) []sql.Row {
	t.Helper()
	ctx := sql.NewEmptyContext()
	var rows []sql.Row
	for {
		batch, err := op.Poll(ctx)
		if err == io.EOF {
			return rows
		}
		require.NoError(t, err)
		rows = append(rows, batch...)
	}
}

func insertRow(t *testing.T, txn kv.Transaction, tbl *catalog.Table, row sql.Row) {
	t.Helper()
	key, err := tbl.EncodeKey(row, nil)
	require.NoError(t, err)
	require.NoError(t, txn.PutCF(tbl.CF, key, row.Encode()))
}

func TestSchemaFromDefsRejectsUnsupportedType(t *testing.T) {
	_, err := SchemaFromDefs([]ast.ColumnDef{{Name: "a", Type: "float"}})
	require.Error(t, err)
}

func TestSchemaFromDefsRejectsEmpty(t *testing.T) {
	_, err := SchemaFromDefs(nil)
	require.Error(t, err)
}

func TestSchemaFromDefsBuildsPrimaryKey(t *testing.T) {
	s, err := SchemaFromDefs([]ast.ColumnDef{
		{Name: "id", Type: "int", PrimaryKey: true},
		{Name: "name", Type: "text"},
	})
	require.NoError(t, err)
	require.True(t, s.HasPrimaryKey())
	require.Equal(t, 0, s.PrimaryKey)
}

func TestReorderInsertRowPositional(t *testing.T) {
	target, err := sql.NewSchema([]sql.Column{{Name: "a", Type: sql.Integer}, {Name: "b", Type: sql.Text}})
	require.NoError(t, err)
	row := sql.Row{sql.NewInt(1), sql.NewText("x")}
	out, err := ReorderInsertRow(row, nil, target)
	require.NoError(t, err)
	require.Equal(t, row, out)
}

func TestReorderInsertRowByName(t *testing.T) {
	target, err := sql.NewSchema([]sql.Column{{Name: "a", Type: sql.Integer}, {Name: "b", Type: sql.Text}})
	require.NoError(t, err)
	row := sql.Row{sql.NewText("x"), sql.NewInt(1)}
	out, err := ReorderInsertRow(row, []string{"b", "a"}, target)
	require.NoError(t, err)
	require.Equal(t, sql.Row{sql.NewInt(1), sql.NewText("x")}, out)
}

func TestReorderInsertRowUnknownColumn(t *testing.T) {
	target, err := sql.NewSchema([]sql.Column{{Name: "a", Type: sql.Integer}})
	require.NoError(t, err)
	_, err = ReorderInsertRow(sql.Row{sql.NewInt(1)}, []string{"nope"}, target)
	require.Error(t, err)
}

func TestBuildQueryValuesNoFrom(t *testing.T) {
	q := &ast.Query{Values: &ast.Values{Rows: [][]ast.Expr{
		{&ast.Literal{Kind: ast.LiteralInt, Int: 1}, &ast.Literal{Kind: ast.LiteralText, Text: "a"}},
	}}}
	op, err := BuildQuery(q, nil, nil)
	require.NoError(t, err)
	rows := drainOperator(t, op)
	require.Equal(t, []sql.Row{{sql.NewInt(1), sql.NewText("a")}}, rows)
}

func TestBuildQuerySelectConstantWithAlias(t *testing.T) {
	q := &ast.Query{Select: &ast.Select{
		Projection: []ast.SelectItem{{
			Expr: &ast.BinaryExpr{
				X:  &ast.Literal{Kind: ast.LiteralInt, Int: 1},
				Op: ast.OpAdd,
				Y:  &ast.Literal{Kind: ast.LiteralInt, Int: 2},
			},
			Alias: "s",
		}},
	}}
	op, err := BuildQuery(q, nil, nil)
	require.NoError(t, err)
	require.Equal(t, "s", op.Schema().Columns[0].Name)
	rows := drainOperator(t, op)
	require.Equal(t, []sql.Row{{sql.NewInt(3)}}, rows)
}

func TestBuildQuerySelectFromTableWithWhereAndOrderByPosition(t *testing.T) {
	store := kvmemory.New()
	cat := catalog.New(store, nil)
	schema, err := sql.NewSchema([]sql.Column{
		{Name: "id", Type: sql.Integer, PrimaryKey: true},
		{Name: "v", Type: sql.Integer},
	})
	require.NoError(t, err)
	tbl, err := cat.CreateTable("t", schema)
	require.NoError(t, err)

	txn, err := store.Begin()
	require.NoError(t, err)
	insertRow(t, txn, tbl, sql.Row{sql.NewInt(1), sql.NewInt(30)})
	insertRow(t, txn, tbl, sql.Row{sql.NewInt(2), sql.NewInt(10)})
	insertRow(t, txn, tbl, sql.Row{sql.NewInt(3), sql.NewInt(20)})
	require.NoError(t, txn.Commit())

	readTxn, err := store.Begin()
	require.NoError(t, err)

	q := &ast.Query{
		Select: &ast.Select{
			From: "t",
			Projection: []ast.SelectItem{
				{Expr: &ast.Ident{Name: "v"}},
			},
			Where: &ast.BinaryExpr{X: &ast.Ident{Name: "v"}, Op: ast.OpGt, Y: &ast.Literal{Kind: ast.LiteralInt, Int: 10}},
		},
		OrderBy: []ast.OrderByTerm{{Expr: &ast.Literal{Kind: ast.LiteralInt, Int: 1}}},
	}
	op, err := BuildQuery(q, cat, readTxn)
	require.NoError(t, err)
	rows := drainOperator(t, op)
	require.Equal(t, []sql.Row{{sql.NewInt(20)}, {sql.NewInt(30)}}, rows)
}

func TestResolveOrderByRejectsDesc(t *testing.T) {
	q := &ast.Query{
		Values: &ast.Values{Rows: [][]ast.Expr{{&ast.Literal{Kind: ast.LiteralInt, Int: 1}}}},
	}
	q.OrderBy = []ast.OrderByTerm{{Expr: &ast.Literal{Kind: ast.LiteralInt, Int: 1}, Desc: true}}
	_, err := BuildQuery(q, nil, nil)
	require.True(t, sql.ErrUnsupported.Is(err))
}

func TestBuildQuerySelectStarExpandsAllColumns(t *testing.T) {
	store := kvmemory.New()
	cat := catalog.New(store, nil)
	schema, err := sql.NewSchema([]sql.Column{
		{Name: "id", Type: sql.Integer, PrimaryKey: true},
		{Name: "name", Type: sql.Text},
	})
	require.NoError(t, err)
	tbl, err := cat.CreateTable("t", schema)
	require.NoError(t, err)

	txn, err := store.Begin()
	require.NoError(t, err)
	insertRow(t, txn, tbl, sql.Row{sql.NewInt(1), sql.NewText("a")})
	require.NoError(t, txn.Commit())

	readTxn, err := store.Begin()
	require.NoError(t, err)

	q := &ast.Query{Select: &ast.Select{From: "t", Projection: []ast.SelectItem{{Star: true}}}}
	op, err := BuildQuery(q, cat, readTxn)
	require.NoError(t, err)
	require.Equal(t, "id", op.Schema().Columns[0].Name)
	require.Equal(t, "name", op.Schema().Columns[1].Name)
	rows := drainOperator(t, op)
	require.Equal(t, []sql.Row{{sql.NewInt(1), sql.NewText("a")}}, rows)
}
