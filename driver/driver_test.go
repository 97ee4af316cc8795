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
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	camellia "github.com/camellia-db/camellia"
	"github.com/camellia-db/camellia/ast"
	"github.com/camellia-db/camellia/kv/kvmemory"
)

var testDriverSeq int64

// singleProvider always resolves to the one Engine it wraps, regardless of
// the DSN string, which is enough for an in-process embedded user.
type singleProvider struct {
	engine *camellia.Engine
}

func (p singleProvider) Resolve(string) (*camellia.Engine, error) {
	return p.engine, nil
}

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	engine := camellia.New(kvmemory.New(), nil)
	name := fmt.Sprintf("camellia_driver_test_%d", atomic.AddInt64(&testDriverSeq, 1))
	sql.Register(name, New(singleProvider{engine: engine}))
	db, err := sql.Open(name, "ignored")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func intLit(n int64) ast.Expr {
	return &ast.Literal{Kind: ast.LiteralInt, Int: n}
}

func textLit(s string) ast.Expr {
	return &ast.Literal{Kind: ast.LiteralText, Text: s}
}

func TestDriverCreateInsertSelect(t *testing.T) {
	db := newTestDB(t)

	createToken := Register(&ast.CreateTable{
		Name: "users",
		Columns: []ast.ColumnDef{
			{Name: "id", Type: "int", PrimaryKey: true},
			{Name: "name", Type: "text"},
		},
	})
	defer Unregister(createToken)
	_, err := db.Exec(createToken)
	require.NoError(t, err)

	insertToken := Register(&ast.Insert{
		Table: "users",
		Source: &ast.Query{Values: &ast.Values{Rows: [][]ast.Expr{
			{intLit(1), textLit("ada")},
			{intLit(2), textLit("alan")},
		}}},
	})
	defer Unregister(insertToken)
	result, err := db.Exec(insertToken)
	require.NoError(t, err)
	affected, err := result.RowsAffected()
	require.NoError(t, err)
	require.EqualValues(t, 2, affected)

	_, err = result.LastInsertId()
	require.Error(t, err)

	selectToken := Register(&ast.Query{Select: &ast.Select{
		Projection: []ast.SelectItem{{Star: true}},
		From:       "users",
	}})
	defer Unregister(selectToken)
	rows, err := db.Query(selectToken)
	require.NoError(t, err)
	defer rows.Close()

	var got []struct {
		id   int64
		name string
	}
	for rows.Next() {
		var id int64
		var name string
		require.NoError(t, rows.Scan(&id, &name))
		got = append(got, struct {
			id   int64
			name string
		}{id, name})
	}
	require.NoError(t, rows.Err())
	require.Len(t, got, 2)
	require.Equal(t, int64(1), got[0].id)
	require.Equal(t, "ada", got[0].name)
	require.Equal(t, int64(2), got[1].id)
	require.Equal(t, "alan", got[1].name)
}

func TestDriverUnregisteredTokenIsError(t *testing.T) {
	db := newTestDB(t)
	_, err := db.Exec("not-a-real-token")
	require.Error(t, err)
}

func TestDriverPrepareReusableAcrossExec(t *testing.T) {
	db := newTestDB(t)

	createToken := Register(&ast.CreateTable{
		Name:    "t",
		Columns: []ast.ColumnDef{{Name: "id", Type: "int", PrimaryKey: true}},
	})
	defer Unregister(createToken)
	_, err := db.Exec(createToken)
	require.NoError(t, err)

	insertToken := Register(&ast.Insert{
		Table: "t",
		Source: &ast.Query{Values: &ast.Values{Rows: [][]ast.Expr{
			{intLit(7)},
		}}},
	})
	defer Unregister(insertToken)

	stmt, err := db.Prepare(insertToken)
	require.NoError(t, err)
	defer stmt.Close()

	result, err := stmt.Exec()
	require.NoError(t, err)
	affected, err := result.RowsAffected()
	require.NoError(t, err)
	require.EqualValues(t, 1, affected)
}
