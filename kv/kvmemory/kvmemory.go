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

// Package kvmemory is an in-process, in-memory implementation of kv.KV,
// used for tests and for embedding camellia without a data directory. It
// plays the same role for the KV adapter that the teacher's memory package
// plays for sql.Table: a reference implementation backed by plain Go data
// structures instead of a real storage engine.
package kvmemory

import (
	"bytes"
	"sort"
	"sync"

	"github.com/camellia-db/camellia/kv"
)

// cf is one column family: a sorted set of keys plus their values. A plain
// sorted slice is enough here — camellia runs one query at a time, so there
// is no need for a concurrent skip list or btree.
type cf struct {
	keys   [][]byte
	values [][]byte
}

func (c *cf) find(key []byte) (int, bool) {
	i := sort.Search(len(c.keys), func(i int) bool { return bytes.Compare(c.keys[i], key) >= 0 })
	return i, i < len(c.keys) && bytes.Equal(c.keys[i], key)
}

func (c *cf) get(key []byte) ([]byte, bool) {
	i, ok := c.find(key)
	if !ok {
		return nil, false
	}
	return c.values[i], true
}

func (c *cf) put(key, value []byte) {
	i, ok := c.find(key)
	if ok {
		c.values[i] = value
		return
	}
	c.keys = append(c.keys, nil)
	copy(c.keys[i+1:], c.keys[i:])
	c.keys[i] = append([]byte(nil), key...)

	c.values = append(c.values, nil)
	copy(c.values[i+1:], c.values[i:])
	c.values[i] = append([]byte(nil), value...)
}

func (c *cf) delete(key []byte) {
	i, ok := c.find(key)
	if !ok {
		return
	}
	c.keys = append(c.keys[:i], c.keys[i+1:]...)
	c.values = append(c.values[:i], c.values[i+1:]...)
}

// KV is an in-memory kv.KV. The zero value is not usable; use New.
type KV struct {
	mu      sync.Mutex
	cfs     map[string]*cf
	defaultNS cf
}

// New returns an empty in-memory KV.
func New() *KV {
	return &KV{cfs: make(map[string]*cf)}
}

func (m *KV) CreateCF(name string) (kv.Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.cfs[name]; ok {
		return nil, kv.ErrAlreadyExists
	}
	c := &cf{}
	m.cfs[name] = c
	return name, nil
}

func (m *KV) DropCF(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.cfs[name]; !ok {
		return kv.ErrNotFound
	}
	delete(m.cfs, name)
	return nil
}

func (m *KV) CFHandle(name string) (kv.Handle, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.cfs[name]
	if !ok {
		return nil, false
	}
	return name, true
}

func (m *KV) Begin() (kv.Transaction, error) {
	return &txn{kv: m}, nil
}

func (m *KV) Close() error { return nil }

func (m *KV) cfByHandle(h kv.Handle) (*cf, bool) {
	name, ok := h.(string)
	if !ok {
		return nil, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cfs[name]
	return c, ok
}

// write is a single buffered mutation, applied atomically at Commit.
type write struct {
	cf     *cf // nil means the default namespace
	key    []byte
	value  []byte
	delete bool
}

// txn buffers writes in memory and applies them to the backing KV on
// Commit, without real MVCC. Get and GetForUpdateCF see the transaction's
// own buffered writes over whatever is committed at the time of the read,
// not as of Begin; Iterator sees only the committed contents at the time
// it is opened, not the transaction's own buffered writes. This is
// adequate because camellia never runs two queries concurrently against
// the same KV (spec.md §5).
type txn struct {
	kv       *KV
	writes   []write
	done     bool
}

func (t *txn) Get(key []byte) ([]byte, error) {
	for i := len(t.writes) - 1; i >= 0; i-- {
		w := t.writes[i]
		if w.cf == nil && bytes.Equal(w.key, key) {
			if w.delete {
				return nil, nil
			}
			return w.value, nil
		}
	}
	t.kv.mu.Lock()
	defer t.kv.mu.Unlock()
	v, ok := t.kv.defaultNS.get(key)
	if !ok {
		return nil, nil
	}
	return v, nil
}

func (t *txn) Put(key, value []byte) error {
	t.writes = append(t.writes, write{key: append([]byte(nil), key...), value: append([]byte(nil), value...)})
	return nil
}

func (t *txn) Delete(key []byte) error {
	t.writes = append(t.writes, write{key: append([]byte(nil), key...), delete: true})
	return nil
}

func (t *txn) GetForUpdateCF(h kv.Handle, key []byte, exclusive bool) ([]byte, error) {
	c, ok := t.kv.cfByHandle(h)
	if !ok {
		return nil, kv.ErrNotFound
	}
	for i := len(t.writes) - 1; i >= 0; i-- {
		w := t.writes[i]
		if w.cf == c && bytes.Equal(w.key, key) {
			if w.delete {
				return nil, nil
			}
			return w.value, nil
		}
	}
	t.kv.mu.Lock()
	defer t.kv.mu.Unlock()
	v, ok := c.get(key)
	if !ok {
		return nil, nil
	}
	return v, nil
}

func (t *txn) PutCF(h kv.Handle, key, value []byte) error {
	c, ok := t.kv.cfByHandle(h)
	if !ok {
		return kv.ErrNotFound
	}
	t.writes = append(t.writes, write{cf: c, key: append([]byte(nil), key...), value: append([]byte(nil), value...)})
	return nil
}

func (t *txn) DeleteCF(h kv.Handle, key []byte) error {
	c, ok := t.kv.cfByHandle(h)
	if !ok {
		return kv.ErrNotFound
	}
	t.writes = append(t.writes, write{cf: c, key: append([]byte(nil), key...), delete: true})
	return nil
}

func (t *txn) Iterator(h kv.Handle, dir kv.Direction) (kv.Iterator, error) {
	c, ok := t.kv.cfByHandle(h)
	if !ok {
		return nil, kv.ErrNotFound
	}
	t.kv.mu.Lock()
	defer t.kv.mu.Unlock()
	keys := append([][]byte(nil), c.keys...)
	values := append([][]byte(nil), c.values...)
	if dir == kv.Descending {
		return &iterator{keys: keys, values: values, pos: len(keys), step: -1}, nil
	}
	return &iterator{keys: keys, values: values, pos: -1, step: 1}, nil
}

func (t *txn) Commit() error {
	if t.done {
		return nil
	}
	t.done = true
	t.kv.mu.Lock()
	defer t.kv.mu.Unlock()
	for _, w := range t.writes {
		target := w.cf
		if target == nil {
			target = &t.kv.defaultNS
		}
		if w.delete {
			target.delete(w.key)
		} else {
			target.put(w.key, w.value)
		}
	}
	return nil
}

func (t *txn) Rollback() error {
	t.done = true
	t.writes = nil
	return nil
}

// iterator walks keys/values in either direction, starting one step before
// (ascending) or after (descending) the first pair it should yield, so that
// Next always just advances by step before bounds-checking.
type iterator struct {
	keys, values [][]byte
	pos          int
	step         int
}

func (it *iterator) Next() (bool, error) {
	it.pos += it.step
	return it.pos >= 0 && it.pos < len(it.keys), nil
}

func (it *iterator) Key() []byte   { return it.keys[it.pos] }
func (it *iterator) Value() []byte { return it.values[it.pos] }
func (it *iterator) Close() error  { return nil }

var _ kv.KV = (*KV)(nil)
var _ kv.Transaction = (*txn)(nil)
var _ kv.Iterator = (*iterator)(nil)
