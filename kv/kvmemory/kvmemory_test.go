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

package kvmemory

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/camellia-db/camellia/kv"
)

func TestDefaultNamespaceGetPutDelete(t *testing.T) {
	store := New()
	txn, err := store.Begin()
	require.NoError(t, err)

	v, err := txn.Get([]byte("k"))
	require.NoError(t, err)
	require.Nil(t, v)

	require.NoError(t, txn.Put([]byte("k"), []byte("v1")))
	v, err = txn.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("v1"), v)

	require.NoError(t, txn.Delete([]byte("k")))
	v, err = txn.Get([]byte("k"))
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestUncommittedWritesAreInvisibleToOtherTransactions(t *testing.T) {
	store := New()
	txn1, err := store.Begin()
	require.NoError(t, err)
	require.NoError(t, txn1.Put([]byte("k"), []byte("v")))

	txn2, err := store.Begin()
	require.NoError(t, err)
	v, err := txn2.Get([]byte("k"))
	require.NoError(t, err)
	require.Nil(t, v)

	require.NoError(t, txn1.Commit())
	txn3, err := store.Begin()
	require.NoError(t, err)
	v, err = txn3.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("v"), v)
}

func TestRollbackDiscardsWrites(t *testing.T) {
	store := New()
	txn, err := store.Begin()
	require.NoError(t, err)
	require.NoError(t, txn.Put([]byte("k"), []byte("v")))
	require.NoError(t, txn.Rollback())
	require.NoError(t, txn.Commit())

	txn2, err := store.Begin()
	require.NoError(t, err)
	v, err := txn2.Get([]byte("k"))
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestCreateCFTwiceIsAlreadyExists(t *testing.T) {
	store := New()
	_, err := store.CreateCF("users")
	require.NoError(t, err)
	_, err = store.CreateCF("users")
	require.ErrorIs(t, err, kv.ErrAlreadyExists)
}

func TestDropCFUnknownIsNotFound(t *testing.T) {
	store := New()
	require.ErrorIs(t, store.DropCF("ghost"), kv.ErrNotFound)
}

func TestCFHandleRoundTripsPutCFGetForUpdateCF(t *testing.T) {
	store := New()
	h, err := store.CreateCF("users")
	require.NoError(t, err)

	txn, err := store.Begin()
	require.NoError(t, err)
	require.NoError(t, txn.PutCF(h, []byte("1"), []byte("ada")))
	v, err := txn.GetForUpdateCF(h, []byte("1"), true)
	require.NoError(t, err)
	require.Equal(t, []byte("ada"), v)
	require.NoError(t, txn.Commit())

	txn2, err := store.Begin()
	require.NoError(t, err)
	v, err = txn2.GetForUpdateCF(h, []byte("1"), true)
	require.NoError(t, err)
	require.Equal(t, []byte("ada"), v)
}

func TestPutCFUnknownHandleIsNotFound(t *testing.T) {
	store := New()
	txn, err := store.Begin()
	require.NoError(t, err)
	err = txn.PutCF("ghost", []byte("1"), []byte("x"))
	require.ErrorIs(t, err, kv.ErrNotFound)
}

func TestIteratorWalksKeysInAscendingOrder(t *testing.T) {
	store := New()
	h, err := store.CreateCF("users")
	require.NoError(t, err)

	txn, err := store.Begin()
	require.NoError(t, err)
	require.NoError(t, txn.PutCF(h, []byte("3"), []byte("c")))
	require.NoError(t, txn.PutCF(h, []byte("1"), []byte("a")))
	require.NoError(t, txn.PutCF(h, []byte("2"), []byte("b")))
	require.NoError(t, txn.Commit())

	txn2, err := store.Begin()
	require.NoError(t, err)
	it, err := txn2.Iterator(h, kv.Ascending)
	require.NoError(t, err)
	defer it.Close()

	var keys []string
	for {
		ok, err := it.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		keys = append(keys, string(it.Key()))
	}
	require.Equal(t, []string{"1", "2", "3"}, keys)
}

func TestIteratorWalksKeysInDescendingOrder(t *testing.T) {
	store := New()
	h, err := store.CreateCF("users")
	require.NoError(t, err)

	txn, err := store.Begin()
	require.NoError(t, err)
	require.NoError(t, txn.PutCF(h, []byte("3"), []byte("c")))
	require.NoError(t, txn.PutCF(h, []byte("1"), []byte("a")))
	require.NoError(t, txn.PutCF(h, []byte("2"), []byte("b")))
	require.NoError(t, txn.Commit())

	txn2, err := store.Begin()
	require.NoError(t, err)
	it, err := txn2.Iterator(h, kv.Descending)
	require.NoError(t, err)
	defer it.Close()

	var keys []string
	for {
		ok, err := it.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		keys = append(keys, string(it.Key()))
	}
	require.Equal(t, []string{"3", "2", "1"}, keys)
}

func TestIteratorDescendingOnEmptyCFYieldsNothing(t *testing.T) {
	store := New()
	h, err := store.CreateCF("users")
	require.NoError(t, err)

	txn, err := store.Begin()
	require.NoError(t, err)
	it, err := txn.Iterator(h, kv.Descending)
	require.NoError(t, err)
	defer it.Close()

	ok, err := it.Next()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDropCFRemovesItsData(t *testing.T) {
	store := New()
	h, err := store.CreateCF("users")
	require.NoError(t, err)
	txn, err := store.Begin()
	require.NoError(t, err)
	require.NoError(t, txn.PutCF(h, []byte("1"), []byte("a")))
	require.NoError(t, txn.Commit())

	require.NoError(t, store.DropCF("users"))
	_, ok := store.CFHandle("users")
	require.False(t, ok)
}
