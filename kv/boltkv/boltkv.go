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

// Package boltkv implements kv.KV on top of github.com/boltdb/bolt, a real
// embedded, ordered, transactional, single-file key-value store. Bolt
// buckets map directly onto column families, and bolt's single-writer
// transactions already give camellia everything the abstract KV capability
// asks for: atomic commit, ordered iteration, and exclusive locking on
// write (boltdb serializes all writers, so GetForUpdateCF needs no
// additional locking of its own).
package boltkv

import (
	"github.com/boltdb/bolt"

	"github.com/camellia-db/camellia/kv"
)

// defaultBucket holds the schema-metadata keys that kv.Transaction.Get/
// Put/Delete address (the "default namespace" of spec.md §6).
var defaultBucket = []byte("__default__")

// KV is a boltdb-backed kv.KV rooted at a single data file.
type KV struct {
	db *bolt.DB
}

// Open opens (creating if necessary) a bolt data file at path and ensures
// the default namespace bucket exists.
func Open(path string) (*KV, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(defaultBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &KV{db: db}, nil
}

func (k *KV) CreateCF(name string) (kv.Handle, error) {
	err := k.db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucket([]byte(name))
		return err
	})
	if err == bolt.ErrBucketExists {
		return nil, kv.ErrAlreadyExists
	}
	if err != nil {
		return nil, err
	}
	return name, nil
}

func (k *KV) DropCF(name string) error {
	err := k.db.Update(func(tx *bolt.Tx) error {
		return tx.DeleteBucket([]byte(name))
	})
	if err == bolt.ErrBucketNotFound {
		return kv.ErrNotFound
	}
	return err
}

func (k *KV) CFHandle(name string) (kv.Handle, bool) {
	found := false
	_ = k.db.View(func(tx *bolt.Tx) error {
		found = tx.Bucket([]byte(name)) != nil
		return nil
	})
	if !found {
		return nil, false
	}
	return name, true
}

func (k *KV) Begin() (kv.Transaction, error) {
	tx, err := k.db.Begin(true)
	if err != nil {
		return nil, err
	}
	return &txn{tx: tx}, nil
}

func (k *KV) Close() error {
	return k.db.Close()
}

type txn struct {
	tx   *bolt.Tx
	done bool
}

func (t *txn) bucket(name []byte) (*bolt.Bucket, error) {
	b := t.tx.Bucket(name)
	if b == nil {
		return nil, kv.ErrNotFound
	}
	return b, nil
}

func (t *txn) Get(key []byte) ([]byte, error) {
	b, err := t.bucket(defaultBucket)
	if err != nil {
		return nil, err
	}
	return cloneOrNil(b.Get(key)), nil
}

func (t *txn) Put(key, value []byte) error {
	b, err := t.bucket(defaultBucket)
	if err != nil {
		return err
	}
	return b.Put(key, value)
}

func (t *txn) Delete(key []byte) error {
	b, err := t.bucket(defaultBucket)
	if err != nil {
		return err
	}
	return b.Delete(key)
}

func (t *txn) GetForUpdateCF(h kv.Handle, key []byte, exclusive bool) ([]byte, error) {
	name, ok := h.(string)
	if !ok {
		return nil, kv.ErrNotFound
	}
	b, err := t.bucket([]byte(name))
	if err != nil {
		return nil, err
	}
	// bolt serializes all read-write transactions, so simply reading
	// inside this (always writable) transaction already gives exclusive,
	// up-to-date visibility; there is no separate row-lock primitive.
	return cloneOrNil(b.Get(key)), nil
}

func (t *txn) PutCF(h kv.Handle, key, value []byte) error {
	name, ok := h.(string)
	if !ok {
		return kv.ErrNotFound
	}
	b, err := t.bucket([]byte(name))
	if err != nil {
		return err
	}
	return b.Put(key, value)
}

func (t *txn) DeleteCF(h kv.Handle, key []byte) error {
	name, ok := h.(string)
	if !ok {
		return kv.ErrNotFound
	}
	b, err := t.bucket([]byte(name))
	if err != nil {
		return err
	}
	return b.Delete(key)
}

func (t *txn) Iterator(h kv.Handle, dir kv.Direction) (kv.Iterator, error) {
	name, ok := h.(string)
	if !ok {
		return nil, kv.ErrNotFound
	}
	b, err := t.bucket([]byte(name))
	if err != nil {
		return nil, err
	}
	return &iterator{cursor: b.Cursor(), dir: dir, first: true}, nil
}

func (t *txn) Commit() error {
	if t.done {
		return nil
	}
	t.done = true
	return t.tx.Commit()
}

func (t *txn) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	return t.tx.Rollback()
}

type iterator struct {
	cursor     *bolt.Cursor
	dir        kv.Direction
	first      bool
	key, value []byte
}

func (it *iterator) Next() (bool, error) {
	if it.first {
		it.first = false
		if it.dir == kv.Descending {
			it.key, it.value = it.cursor.Last()
		} else {
			it.key, it.value = it.cursor.First()
		}
	} else if it.dir == kv.Descending {
		it.key, it.value = it.cursor.Prev()
	} else {
		it.key, it.value = it.cursor.Next()
	}
	return it.key != nil, nil
}

func (it *iterator) Key() []byte   { return it.key }
func (it *iterator) Value() []byte { return it.value }
func (it *iterator) Close() error  { return nil }

func cloneOrNil(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

var _ kv.KV = (*KV)(nil)
var _ kv.Transaction = (*txn)(nil)
var _ kv.Iterator = (*iterator)(nil)
