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

import "gopkg.in/src-d/go-errors.v1"

// Error kinds, one per category in the error handling design. Each is
// constructed with errors.NewKind the same way the teacher declares its own
// error kinds (see auth.ErrNotAuthorized, sql.ErrTableNotFound upstream).
var (
	// ErrParseShape is returned when an abstract statement uses a clause
	// outside the supported subset (joins, GROUP BY, LIMIT, ...).
	ErrParseShape = errors.NewKind("unsupported statement shape: %s")

	// ErrSchemaError is returned for CREATE TABLE problems: unsupported
	// column type, duplicate declared primary key, zero columns.
	ErrSchemaError = errors.NewKind("schema error: %s")

	// ErrResolutionError is returned for unknown tables, unknown columns,
	// or ambiguous column references.
	ErrResolutionError = errors.NewKind("resolution error: %s")

	// ErrTypeError is returned when operand types are incompatible with an
	// operator, or a projection is not assignable to a target schema.
	ErrTypeError = errors.NewKind("type error: %s")

	// ErrValueError is returned for out-of-range literals and failed value
	// conversions.
	ErrValueError = errors.NewKind("value error: %s")

	// ErrArithmeticError is returned for integer overflow and
	// division-by-zero during expression evaluation.
	ErrArithmeticError = errors.NewKind("arithmetic error: %s")

	// ErrConstraintError is returned when an INSERT collides with an
	// existing primary key.
	ErrConstraintError = errors.NewKind("constraint error: %s")

	// ErrStorageError wraps any error surfaced verbatim by the KV layer.
	ErrStorageError = errors.NewKind("storage error: %s")

	// ErrUnsupported is returned for explicitly recognized but
	// not-yet-implemented features (DESC, NULLS FIRST, unknown functions).
	ErrUnsupported = errors.NewKind("unsupported: %s")
)
