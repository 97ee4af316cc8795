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

// Package catalog is the table directory: it owns table schemas, their
// backing column families, and the hidden primary-key counter for tables
// declared without one. It plays the role the teacher's memory.Database
// plays for sql.Table, adapted to sit on top of the kv capability instead
// of holding rows in Go slices directly.
package catalog

import (
	"encoding/binary"
	"fmt"
	"sync/atomic"

	"github.com/camellia-db/camellia/kv"
	"github.com/camellia-db/camellia/sql"
)

// Table is one catalog entry: a schema plus the column family that stores
// its rows, keyed by primary-key bytes (see EncodeKey).
type Table struct {
	Name   string
	Schema sql.Schema
	CF     kv.Handle

	// hiddenPK is the next value to assign when Schema has no declared
	// primary key. It is only ever read/written through atomic ops since
	// concurrent callers may share a *Table across goroutines even though
	// camellia executes one query at a time end-to-end (spec.md §5); the
	// counter itself still needs to be safe for that boundary.
	hiddenPK atomic.Uint64
}

// NextHiddenKey allocates and encodes the next hidden primary key. Only
// meaningful when !Schema.HasPrimaryKey().
func (t *Table) NextHiddenKey() []byte {
	n := t.hiddenPK.Add(1) - 1
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], n)
	return buf[:]
}

// EncodeKey computes the primary-key byte string for row, which must
// already have passed Schema.Check. If the table has a declared primary
// key, the key is derived from that column's value (see encodeKeyValue for
// the per-type byte layout that preserves the value's natural ordering).
// If the table has no declared primary key, hiddenKey must be the bytes
// returned by a prior call to NextHiddenKey and is returned unchanged.
func (t *Table) EncodeKey(row sql.Row, hiddenKey []byte) ([]byte, error) {
	if !t.Schema.HasPrimaryKey() {
		return hiddenKey, nil
	}
	return encodeKeyValue(row[t.Schema.PrimaryKey])
}

// encodeKeyValue encodes a single primary-key value into bytes whose
// unsigned lexicographic order matches the value's natural order, so that
// the KV layer's ascending iteration order (byte order) is also the row's
// declared-primary-key order:
//
//   - Bool:    a single 0x00 or 0x01 byte (false < true).
//   - Integer: 8-byte big-endian two's complement with the sign bit
//     flipped, so that the most negative int64 sorts first and the most
//     positive sorts last under plain unsigned byte comparison.
//   - Text:    the raw UTF-8 bytes; Go string comparison is already
//     byte-lexicographic, which is exactly KV byte order.
//
// Null primary-key values are rejected here, by the default branch below
// (sql.Schema.Check permits Null in any column, declared primary key or
// not; this is the actual point of rejection).
func encodeKeyValue(v sql.Value) ([]byte, error) {
	switch v.Type() {
	case sql.Bool:
		if v.Bool() {
			return []byte{1}, nil
		}
		return []byte{0}, nil
	case sql.Integer:
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], uint64(v.Int())^signBit)
		return buf[:], nil
	case sql.Text:
		return []byte(v.Text()), nil
	default:
		return nil, sql.ErrTypeError.New(fmt.Sprintf("%s cannot be a primary key", v.Type()))
	}
}

// signBit flips an int64's sign bit when reinterpreted as uint64, which
// maps the signed range [-2^63, 2^63-1] onto the unsigned range [0,
// 2^64-1] while preserving order: the flip turns MinInt64 (0x8000...0)
// into 0x0000...0 and MaxInt64 (0x7fff...f) into 0xffff...f.
const signBit = uint64(1) << 63
