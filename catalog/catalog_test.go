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

package catalog

import (
	"testing"

	"github.com/camellia-db/camellia/kv/kvmemory"
	"github.com/camellia-db/camellia/sql"
)

func testSchema(t *testing.T) sql.Schema {
	t.Helper()
	s, err := sql.NewSchema([]sql.Column{
		{Name: "id", Type: sql.Integer, PrimaryKey: true},
		{Name: "name", Type: sql.Text},
	})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestCreateGetDropTable(t *testing.T) {
	c := New(kvmemory.New(), nil)

	if _, err := c.CreateTable("users", testSchema(t)); err != nil {
		t.Fatalf("CreateTable: %v", err)
	}

	if _, err := c.CreateTable("users", testSchema(t)); err == nil {
		t.Fatal("expected an error creating a duplicate table")
	}

	tbl, err := c.GetTable("users")
	if err != nil {
		t.Fatalf("GetTable: %v", err)
	}
	if tbl.Name != "users" || tbl.Schema.NumColumns() != 2 {
		t.Fatalf("unexpected table: %+v", tbl)
	}

	if err := c.DropTable("users"); err != nil {
		t.Fatalf("DropTable: %v", err)
	}
	if _, err := c.GetTable("users"); err == nil {
		t.Fatal("expected an error looking up a dropped table")
	}
	if err := c.DropTable("users"); err == nil {
		t.Fatal("expected an error dropping a table twice")
	}
}

func TestGetTableUnknown(t *testing.T) {
	c := New(kvmemory.New(), nil)
	if _, err := c.GetTable("nope"); err == nil {
		t.Fatal("expected an error looking up an unknown table")
	}
}

func TestHiddenPrimaryKeyCounterSurvivesCacheEviction(t *testing.T) {
	store := kvmemory.New()
	c := New(store, nil)

	schema, err := sql.NewSchema([]sql.Column{{Name: "name", Type: sql.Text}})
	if err != nil {
		t.Fatal(err)
	}
	tbl, err := c.CreateTable("logs", schema)
	if err != nil {
		t.Fatal(err)
	}

	txn, err := store.Begin()
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		key := tbl.NextHiddenKey()
		if err := txn.PutCF(tbl.CF, key, sql.Row{sql.NewText("x")}.Encode()); err != nil {
			t.Fatal(err)
		}
	}
	if err := txn.Commit(); err != nil {
		t.Fatal(err)
	}

	// a fresh Catalog simulates a restart: the hidden counter must resume
	// from the column family's contents rather than from zero.
	c2 := New(store, nil)
	reloaded, err := c2.GetTable("logs")
	if err != nil {
		t.Fatal(err)
	}
	next := reloaded.NextHiddenKey()
	prevTxn, err := store.Begin()
	if err != nil {
		t.Fatal(err)
	}
	defer prevTxn.Rollback()
	if v, err := prevTxn.GetForUpdateCF(tbl.CF, next, false); err != nil {
		t.Fatal(err)
	} else if v != nil {
		t.Fatalf("expected the reloaded counter to continue past existing keys, got a collision at %v", next)
	}
}
