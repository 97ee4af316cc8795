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
	"fmt"

	"github.com/spf13/cast"
)

// Value is a tagged scalar: Null, a Bool, an Int or a Text. The zero Value
// is Null.
type Value struct {
	typ Type
	b   bool
	i   int64
	s   string
}

// NewNull returns the Null value.
func NewNull() Value { return Value{typ: Null} }

// NewBool wraps a bool as a Value.
func NewBool(b bool) Value { return Value{typ: Bool, b: b} }

// NewInt wraps an int64 as a Value.
func NewInt(i int64) Value { return Value{typ: Integer, i: i} }

// NewText wraps a string as a Value.
func NewText(s string) Value { return Value{typ: Text, s: s} }

// Type returns the value's tag.
func (v Value) Type() Type { return v.typ }

// IsNull reports whether v is the Null value.
func (v Value) IsNull() bool { return v.typ == Null }

// Bool returns the wrapped bool. Only meaningful when Type() == Bool.
func (v Value) Bool() bool { return v.b }

// Int returns the wrapped int64. Only meaningful when Type() == Integer.
func (v Value) Int() int64 { return v.i }

// Text returns the wrapped string. Only meaningful when Type() == Text.
func (v Value) Text() string { return v.s }

// String renders the value the way the shell displays it: "null", "true"/
// "false", a decimal integer, or the raw text.
func (v Value) String() string {
	switch v.typ {
	case Null:
		return "null"
	case Bool:
		return fmt.Sprintf("%t", v.b)
	case Integer:
		return fmt.Sprintf("%d", v.i)
	case Text:
		return v.s
	default:
		return "?"
	}
}

// Equal reports value equality. Null equals only Null; cross-tag comparison
// between two non-null values is always false rather than an error, since
// equality (unlike ordering) is total by spec.
func (v Value) Equal(other Value) bool {
	if v.typ == Null || other.typ == Null {
		return v.typ == Null && other.typ == Null
	}
	if v.typ != other.typ {
		return false
	}
	switch v.typ {
	case Bool:
		return v.b == other.b
	case Integer:
		return v.i == other.i
	case Text:
		return v.s == other.s
	default:
		return false
	}
}

// Compare orders two values of the same non-null tag. It is an error to
// compare values of different tags, or to compare Null (Null has no order,
// only equality).
func (v Value) Compare(other Value) (int, error) {
	if v.typ == Null || other.typ == Null {
		return 0, ErrTypeError.New("cannot order null values")
	}
	if v.typ != other.typ {
		return 0, ErrTypeError.New(fmt.Sprintf("cannot compare %s and %s", v.typ, other.typ))
	}
	switch v.typ {
	case Bool:
		switch {
		case v.b == other.b:
			return 0, nil
		case !v.b:
			return -1, nil
		default:
			return 1, nil
		}
	case Integer:
		switch {
		case v.i < other.i:
			return -1, nil
		case v.i > other.i:
			return 1, nil
		default:
			return 0, nil
		}
	case Text:
		switch {
		case v.s < other.s:
			return -1, nil
		case v.s > other.s:
			return 1, nil
		default:
			return 0, nil
		}
	default:
		return 0, ErrTypeError.New("uncomparable type")
	}
}

// ConvertTo converts v to the target type following Type.ConvertibleTo.
// Bool<->Integer conversion is done with spf13/cast; it is used for
// arithmetic, unary minus and abs operands. Truthiness checks (logical
// operators, NOT, CASE conditions, Filter) go through Truthy instead.
func (v Value) ConvertTo(t Type) (Value, error) {
	if !v.typ.ConvertibleTo(t) {
		return Value{}, ErrValueError.New(fmt.Sprintf("cannot convert %s to %s", v.typ, t))
	}
	if v.typ == t {
		return v, nil
	}
	switch t {
	case Bool:
		b, err := cast.ToBoolE(v.i)
		if err != nil {
			return Value{}, ErrValueError.New(err.Error())
		}
		return NewBool(b), nil
	case Integer:
		i, err := cast.ToInt64E(v.b)
		if err != nil {
			return Value{}, ErrValueError.New(err.Error())
		}
		return NewInt(i), nil
	default:
		return Value{}, ErrValueError.New(fmt.Sprintf("cannot convert %s to %s", v.typ, t))
	}
}

// Truthy coerces v to a bool for use in logical contexts: integers coerce
// 0 -> false, anything else -> true; bools pass through; anything else is a
// ValueError.
func (v Value) Truthy() (bool, error) {
	switch v.typ {
	case Bool:
		return v.b, nil
	case Integer:
		return v.i != 0, nil
	default:
		return false, ErrValueError.New(fmt.Sprintf("cannot use %s as a boolean", v.typ))
	}
}
