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

// Column is the metadata for a single field of a Schema.
type Column struct {
	// Name is the column's identifier, used for name resolution.
	Name string
	// Type is the column's declared scalar type.
	Type Type
	// PrimaryKey marks this column as the table's declared primary key.
	// At most one column in a Schema may set this.
	PrimaryKey bool
}
