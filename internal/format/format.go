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

// Package format renders a sql.RowSet as a text table for REPL-style
// callers, the Go analogue of the original Rust prototype's
// RowSet::fmt (comfy-table). No table-rendering library appears anywhere
// in the retrieved corpus, so this is built directly on stdlib
// text/tabwriter (see DESIGN.md).
package format

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/camellia-db/camellia/sql"
)

// RowSet writes rowSet to w as a header row followed by one line per row,
// columns aligned and separated by at least two spaces.
func RowSet(w io.Writer, rowSet sql.RowSet) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	header := make([]string, len(rowSet.Schema.Columns))
	for i, c := range rowSet.Schema.Columns {
		header[i] = c.Name
	}
	if err := writeLine(tw, header); err != nil {
		return err
	}

	for _, row := range rowSet.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = formatValue(v)
		}
		if err := writeLine(tw, cells); err != nil {
			return err
		}
	}

	return tw.Flush()
}

// Affected writes the "N row(s) affected" summary line DDL/DML statements
// produce instead of a RowSet.
func Affected(w io.Writer, n int) error {
	_, err := fmt.Fprintf(w, "%d row(s) affected\n", n)
	return err
}

func writeLine(tw *tabwriter.Writer, cells []string) error {
	for i, c := range cells {
		sep := "\t"
		if i == len(cells)-1 {
			sep = "\n"
		}
		if _, err := fmt.Fprint(tw, c, sep); err != nil {
			return err
		}
	}
	return nil
}

func formatValue(v sql.Value) string {
	return v.String()
}
