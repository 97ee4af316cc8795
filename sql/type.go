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

// Type is one of the four scalar types a camellia column or expression can
// take on.
type Type int

const (
	// Null is the type of the Null value. It is convertible only to itself.
	Null Type = iota
	// Bool is a boolean type, convertible to and from Integer.
	Bool
	// Integer is a signed 64-bit integer type, convertible to and from Bool.
	Integer
	// Text is a UTF-8 string type, convertible only to itself.
	Text
)

// String renders the type the way a user typed it in a column definition.
func (t Type) String() string {
	switch t {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Integer:
		return "int"
	case Text:
		return "text"
	default:
		return "unknown"
	}
}

// ConvertibleTo reports whether a value of type t may be converted to other.
// Null only converts to Null, Bool and Integer convert to each other (and to
// themselves), and Text converts only to itself.
func (t Type) ConvertibleTo(other Type) bool {
	if t == other {
		return true
	}
	switch t {
	case Bool:
		return other == Integer
	case Integer:
		return other == Bool
	default:
		return false
	}
}
