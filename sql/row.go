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

package sql

import (
	"encoding/binary"
	"fmt"
)

// Row is an ordered sequence of Values.
type Row []Value

// NewRow is a convenience constructor, mirroring the teacher's sql.NewRow.
func NewRow(values ...Value) Row {
	return Row(values)
}

// Compare orders two rows lexicographically by value. Values at the same
// position must share a tag or Compare returns a TypeError; two Nulls
// compare equal, while a Null against a non-null value is a TypeError.
func (r Row) Compare(other Row) (int, error) {
	n := len(r)
	if len(other) < n {
		n = len(other)
	}
	for i := 0; i < n; i++ {
		if r[i].Equal(other[i]) {
			continue
		}
		c, err := r[i].Compare(other[i])
		if err != nil {
			return 0, err
		}
		if c != 0 {
			return c, nil
		}
	}
	return len(r) - len(other), nil
}

// value tags for the row wire encoding.
const (
	tagNull byte = iota
	tagBool
	tagInt
	tagText
)

// Encode serializes r using camellia's fixed, self-describing row codec: a
// 1-byte type tag per value followed by its payload (1 byte for Bool, 8
// big-endian bytes for Int, a 4-byte big-endian length prefix plus UTF-8
// bytes for Text). Arity is not itself encoded — the caller's Schema
// determines how many values to expect, and the per-value tag makes decoding
// unambiguous regardless of column nullability.
func (r Row) Encode() []byte {
	// a reasonable average-case capacity guess avoids most reallocation
	buf := make([]byte, 0, len(r)*9)
	for _, v := range r {
		switch v.Type() {
		case Null:
			buf = append(buf, tagNull)
		case Bool:
			buf = append(buf, tagBool)
			if v.Bool() {
				buf = append(buf, 1)
			} else {
				buf = append(buf, 0)
			}
		case Integer:
			buf = append(buf, tagInt)
			var tmp [8]byte
			binary.BigEndian.PutUint64(tmp[:], uint64(v.Int()))
			buf = append(buf, tmp[:]...)
		case Text:
			buf = append(buf, tagText)
			var tmp [4]byte
			s := v.Text()
			binary.BigEndian.PutUint32(tmp[:], uint32(len(s)))
			buf = append(buf, tmp[:]...)
			buf = append(buf, s...)
		}
	}
	return buf
}

// DecodeRow deserializes exactly arity values from data, as encoded by
// Row.Encode. It is an error if data is shorter than the tags and payloads
// for arity values demand.
func DecodeRow(data []byte, arity int) (Row, error) {
	row := make(Row, 0, arity)
	pos := 0
	for i := 0; i < arity; i++ {
		if pos >= len(data) {
			return nil, ErrStorageError.New("truncated row")
		}
		tag := data[pos]
		pos++
		switch tag {
		case tagNull:
			row = append(row, NewNull())
		case tagBool:
			if pos >= len(data) {
				return nil, ErrStorageError.New("truncated row")
			}
			row = append(row, NewBool(data[pos] != 0))
			pos++
		case tagInt:
			if pos+8 > len(data) {
				return nil, ErrStorageError.New("truncated row")
			}
			row = append(row, NewInt(int64(binary.BigEndian.Uint64(data[pos:pos+8]))))
			pos += 8
		case tagText:
			if pos+4 > len(data) {
				return nil, ErrStorageError.New("truncated row")
			}
			n := int(binary.BigEndian.Uint32(data[pos : pos+4]))
			pos += 4
			if pos+n > len(data) {
				return nil, ErrStorageError.New("truncated row")
			}
			row = append(row, NewText(string(data[pos:pos+n])))
			pos += n
		default:
			return nil, ErrStorageError.New(fmt.Sprintf("unknown row tag %d", tag))
		}
	}
	return row, nil
}
