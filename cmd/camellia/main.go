// Copyright 2020-2022 Dolthub, Inc.
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

// Command camellia demonstrates embedding the engine directly, the way the
// teacher's own _example/main.go stands up a database and runs a query
// against it — except camellia has no network server (spec.md §1's
// Non-goals exclude a wire-protocol front end), so this prints results to
// stdout instead of listening on a socket.
//
// Run it with:
//
//	go run ./cmd/camellia -config camellia.toml
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	camellia "github.com/camellia-db/camellia"
	"github.com/camellia-db/camellia/ast"
	"github.com/camellia-db/camellia/config"
	"github.com/camellia-db/camellia/internal/format"
	"github.com/camellia-db/camellia/kv"
	"github.com/camellia-db/camellia/kv/boltkv"
	"github.com/camellia-db/camellia/kv/kvmemory"
	"github.com/camellia-db/camellia/sql"
)

var configPath = flag.String("config", "", "path to a camellia.toml config file (defaults to an in-memory backend)")

func main() {
	flag.Parse()

	store, err := openStore(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer store.Close()

	engine := camellia.New(store, &camellia.Config{Log: logrus.StandardLogger()})
	ctx := sql.NewContext(context.Background(), nil)

	if err := run(ctx, engine); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func openStore(path string) (kv.KV, error) {
	if path == "" {
		return kvmemory.New(), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if cfg.Backend == config.BackendMemory {
		return kvmemory.New(), nil
	}
	return boltkv.Open(cfg.DataPath)
}

func run(ctx *sql.Context, engine *camellia.Engine) error {
	statements := []ast.Statement{
		&ast.CreateTable{
			Name: "users",
			Columns: []ast.ColumnDef{
				{Name: "id", Type: "int", PrimaryKey: true},
				{Name: "name", Type: "text"},
				{Name: "active", Type: "bool"},
			},
		},
		&ast.Insert{
			Table: "users",
			Source: &ast.Query{Values: &ast.Values{Rows: [][]ast.Expr{
				{intLit(1), textLit("ada"), boolLit(true)},
				{intLit(2), textLit("alan"), boolLit(false)},
			}}},
		},
		&ast.Query{
			Select: &ast.Select{
				Projection: []ast.SelectItem{{Star: true}},
				From:       "users",
			},
			OrderBy: []ast.OrderByTerm{{Expr: &ast.Ident{Name: "id"}}},
		},
	}

	for _, stmt := range statements {
		res, err := engine.Execute(ctx, stmt)
		if err != nil {
			return err
		}
		if res.RowSet != nil {
			if err := format.RowSet(os.Stdout, *res.RowSet); err != nil {
				return err
			}
		} else {
			if err := format.Affected(os.Stdout, res.Affected); err != nil {
				return err
			}
		}
	}
	return nil
}

func intLit(n int64) ast.Expr   { return &ast.Literal{Kind: ast.LiteralInt, Int: n} }
func textLit(s string) ast.Expr { return &ast.Literal{Kind: ast.LiteralText, Text: s} }
func boolLit(b bool) ast.Expr   { return &ast.Literal{Kind: ast.LiteralBool, Bool: b} }
