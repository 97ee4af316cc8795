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

// Package driver adapts a *camellia.Engine to database/sql/driver, the way
// the teacher's driver package adapts a go-mysql-server Engine: a Provider
// resolves a DSN to the engine that should serve it, and Conn/Stmt/Rows/
// Result wrap the engine's own Execute/Result shapes. Unlike the teacher,
// camellia has no SQL text parser (out of scope, spec.md §1), so the
// "query" string a database/sql caller passes to Prepare/Query is not SQL
// text — it is a token previously returned by Register, which associates
// an ast.Statement built directly by the caller with an opaque string
// database/sql's string-only API can carry.
package driver

import (
	"database/sql/driver"
	"fmt"
	"sync"

	uuid "github.com/satori/go.uuid"

	camellia "github.com/camellia-db/camellia"
	"github.com/camellia-db/camellia/ast"
)

// Provider resolves a DSN to the Engine that should serve connections
// opened against it, mirroring the teacher's driver.Provider.
type Provider interface {
	Resolve(dsn string) (*camellia.Engine, error)
}

// Driver exposes a camellia Engine (selected per-DSN by a Provider) as a
// database/sql driver.
type Driver struct {
	provider Provider
}

// New returns a Driver that resolves connections through provider.
func New(provider Provider) *Driver {
	return &Driver{provider: provider}
}

// Open returns a new connection to the engine provider.Resolve(name)
// selects.
func (d *Driver) Open(name string) (driver.Conn, error) {
	engine, err := d.provider.Resolve(name)
	if err != nil {
		return nil, err
	}
	return &Conn{engine: engine}, nil
}

var _ driver.Driver = (*Driver)(nil)

var (
	registryMu sync.Mutex
	registry   = map[string]ast.Statement{}
)

// Register associates stmt with a freshly generated token and returns it.
// Pass the token as the "query" string to database/sql's Prepare/Exec/
// Query/QueryContext/ExecContext — camellia's Conn/Stmt resolve it back to
// stmt instead of parsing SQL text.
func Register(stmt ast.Statement) string {
	id, err := uuid.NewV4()
	token := ""
	if err == nil {
		token = id.String()
	}
	registryMu.Lock()
	registry[token] = stmt
	registryMu.Unlock()
	return token
}

// Unregister removes a previously Registered token, freeing it for reuse
// by the caller. Safe to call even if token was never looked up.
func Unregister(token string) {
	registryMu.Lock()
	delete(registry, token)
	registryMu.Unlock()
}

func lookup(token string) (ast.Statement, error) {
	registryMu.Lock()
	stmt, ok := registry[token]
	registryMu.Unlock()
	if !ok {
		return nil, fmt.Errorf("driver: no statement registered for token %q", token)
	}
	return stmt, nil
}
