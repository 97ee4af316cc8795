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

package driver

import (
	"database/sql/driver"
	"errors"
)

// Result is the outcome of a CREATE TABLE, DROP TABLE, or INSERT. camellia
// has no auto-increment column visible to callers (hidden primary keys are
// an internal detail, spec.md §3), so LastInsertId is always an error.
type Result struct {
	affected int64
}

// LastInsertId is not supported: camellia never surfaces a hidden PK.
func (r *Result) LastInsertId() (int64, error) {
	return 0, errors.New("driver: LastInsertId is not supported")
}

// RowsAffected returns the number of rows the statement inserted.
func (r *Result) RowsAffected() (int64, error) {
	return r.affected, nil
}

var _ driver.Result = (*Result)(nil)
