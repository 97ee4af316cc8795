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
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/camellia-db/camellia/kv"
	"github.com/camellia-db/camellia/sql"
)

// Catalog is the in-process cache of table metadata, backed by a KV. Reads
// (GetTable) take the read lock on a cache hit and the write lock while
// loading a table on a cache miss, and are safe to call concurrently;
// CREATE and DROP take the write lock for the duration of the cache
// mutation, the way the teacher's memory.Database guards its table map.
type Catalog struct {
	store kv.KV
	log   *logrus.Entry

	mu     sync.RWMutex
	tables map[string]*Table
}

// New returns a Catalog backed by store. log may be nil, in which case
// logrus.StandardLogger() is used.
func New(store kv.KV, log *logrus.Logger) *Catalog {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Catalog{
		store:  store,
		log:    log.WithField("component", "catalog"),
		tables: make(map[string]*Table),
	}
}

// GetTable returns the cached Table for name, loading it from the KV on a
// cache miss.
func (c *Catalog) GetTable(name string) (*Table, error) {
	c.mu.RLock()
	t, ok := c.tables[name]
	c.mu.RUnlock()
	if ok {
		return t, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.tables[name]; ok {
		return t, nil
	}

	txn, err := c.store.Begin()
	if err != nil {
		return nil, sql.ErrStorageError.New(err.Error())
	}
	defer txn.Rollback()

	raw, err := txn.Get([]byte(name))
	if err != nil {
		return nil, sql.ErrStorageError.New(err.Error())
	}
	if raw == nil {
		return nil, sql.ErrResolutionError.New(fmt.Sprintf("table %q does not exist", name))
	}
	schema, err := sql.UnmarshalSchema(raw)
	if err != nil {
		return nil, err
	}
	cf, ok := c.store.CFHandle(name)
	if !ok {
		return nil, sql.ErrStorageError.New(fmt.Sprintf("table %q has no backing column family", name))
	}

	t = &Table{Name: name, Schema: schema, CF: cf}
	if !schema.HasPrimaryKey() {
		next, err := lastHiddenKey(txn, cf)
		if err != nil {
			return nil, err
		}
		t.hiddenPK.Store(next)
	}
	c.tables[name] = t
	return t, nil
}

// CreateTable persists a new table's schema, creates its backing column
// family, and caches the resulting Table. It is an error if name already
// names a table.
func (c *Catalog) CreateTable(name string, schema sql.Schema) (*Table, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.tables[name]; ok {
		return nil, sql.ErrSchemaError.New(fmt.Sprintf("table %q already exists", name))
	}

	txn, err := c.store.Begin()
	if err != nil {
		return nil, sql.ErrStorageError.New(err.Error())
	}
	defer txn.Rollback()

	if existing, err := txn.Get([]byte(name)); err != nil {
		return nil, sql.ErrStorageError.New(err.Error())
	} else if existing != nil {
		return nil, sql.ErrSchemaError.New(fmt.Sprintf("table %q already exists", name))
	}

	encoded, err := sql.MarshalSchema(schema)
	if err != nil {
		return nil, err
	}
	if err := txn.Put([]byte(name), encoded); err != nil {
		return nil, sql.ErrStorageError.New(err.Error())
	}

	cf, err := c.store.CreateCF(name)
	if err != nil {
		if err == kv.ErrAlreadyExists {
			return nil, sql.ErrSchemaError.New(fmt.Sprintf("table %q already exists", name))
		}
		return nil, sql.ErrStorageError.New(err.Error())
	}

	if err := txn.Commit(); err != nil {
		return nil, sql.ErrStorageError.New(err.Error())
	}

	c.log.WithField("table", name).Info("created table")
	t := &Table{Name: name, Schema: schema, CF: cf}
	c.tables[name] = t
	return t, nil
}

// DropTable removes a table's schema, its backing column family, and its
// cache entry. It is an error if name does not name a table.
func (c *Catalog) DropTable(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	txn, err := c.store.Begin()
	if err != nil {
		return sql.ErrStorageError.New(err.Error())
	}
	defer txn.Rollback()

	existing, err := txn.Get([]byte(name))
	if err != nil {
		return sql.ErrStorageError.New(err.Error())
	}
	if existing == nil {
		return sql.ErrResolutionError.New(fmt.Sprintf("table %q does not exist", name))
	}
	if err := txn.Delete([]byte(name)); err != nil {
		return sql.ErrStorageError.New(err.Error())
	}
	if err := c.store.DropCF(name); err != nil {
		return sql.ErrStorageError.New(err.Error())
	}
	if err := txn.Commit(); err != nil {
		return sql.ErrStorageError.New(err.Error())
	}

	c.log.WithField("table", name).Info("dropped table")
	delete(c.tables, name)
	return nil
}

// lastHiddenKey reads cf's last key with a single descending-mode Iterator
// step and returns one past it, interpreted as an 8-byte big-endian
// hidden-PK counter value (0 for an empty column family). Run once per
// table, the first time it is loaded into the cache after a restart.
func lastHiddenKey(txn kv.Transaction, cf kv.Handle) (uint64, error) {
	it, err := txn.Iterator(cf, kv.Descending)
	if err != nil {
		return 0, sql.ErrStorageError.New(err.Error())
	}
	defer it.Close()

	ok, err := it.Next()
	if err != nil {
		return 0, sql.ErrStorageError.New(err.Error())
	}
	if !ok {
		return 0, nil
	}
	last := it.Key()
	if len(last) != 8 {
		return 0, sql.ErrStorageError.New("hidden primary key is not 8 bytes")
	}
	return binary.BigEndian.Uint64(last) + 1, nil
}
