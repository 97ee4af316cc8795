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

// Package planner translates ast.Statement trees into sql/plan operator
// trees and the handful of schema/row-reordering helpers the engine needs
// for CREATE TABLE and INSERT. It owns none of the transaction or table
// cache lifecycle — that belongs to the engine, the way the teacher keeps
// its analyzer/planbuilder free of engine.Engine's connection and session
// bookkeeping.
package planner

import (
	"fmt"

	"github.com/camellia-db/camellia/ast"
	"github.com/camellia-db/camellia/catalog"
	"github.com/camellia-db/camellia/kv"
	"github.com/camellia-db/camellia/sql"
	"github.com/camellia-db/camellia/sql/expression"
	"github.com/camellia-db/camellia/sql/plan"
)

// ColumnType translates a column-definition type name into a sql.Type.
func ColumnType(name string) (sql.Type, error) {
	switch name {
	case "int":
		return sql.Integer, nil
	case "bool":
		return sql.Bool, nil
	case "text":
		return sql.Text, nil
	default:
		return sql.Null, sql.ErrSchemaError.New(fmt.Sprintf("unsupported column type %q", name))
	}
}

// SchemaFromDefs builds the sql.Schema for a CREATE TABLE statement.
func SchemaFromDefs(defs []ast.ColumnDef) (sql.Schema, error) {
	if len(defs) == 0 {
		return sql.Schema{}, sql.ErrSchemaError.New("a table must have at least one column")
	}
	columns := make([]sql.Column, len(defs))
	for i, d := range defs {
		t, err := ColumnType(d.Type)
		if err != nil {
			return sql.Schema{}, err
		}
		columns[i] = sql.Column{Name: d.Name, Type: t, PrimaryKey: d.PrimaryKey}
	}
	return sql.NewSchema(columns)
}

// BuildQuery plans a Query (a Select or a Values body, plus ORDER BY) into
// an operator tree rooted for draining by the caller.
func BuildQuery(query *ast.Query, cat *catalog.Catalog, txn kv.Transaction) (plan.Operator, error) {
	switch {
	case query.Select != nil:
		return buildSelect(query.Select, query.OrderBy, cat, txn)
	case query.Values != nil:
		return buildValues(query.Values, query.OrderBy)
	default:
		return nil, sql.ErrParseShape.New("query has neither a SELECT nor a VALUES body")
	}
}

func buildSelect(sel *ast.Select, orderBy []ast.OrderByTerm, cat *catalog.Catalog, txn kv.Transaction) (plan.Operator, error) {
	var source plan.Operator
	if sel.From != "" {
		tbl, err := cat.GetTable(sel.From)
		if err != nil {
			return nil, err
		}
		scan, err := plan.NewFullScan(txn, tbl.CF, tbl.Schema)
		if err != nil {
			return nil, err
		}
		source = scan
	} else {
		source = plan.NewEmpty()
	}

	if sel.Where != nil {
		pred, err := expression.Resolve(source.Schema(), sel.Where)
		if err != nil {
			return nil, err
		}
		predType, err := pred.ResultType(source.Schema())
		if err != nil {
			return nil, err
		}
		if !predType.ConvertibleTo(sql.Bool) {
			return nil, sql.ErrTypeError.New(fmt.Sprintf("WHERE requires a bool-convertible expression, got %s", predType))
		}
		source = plan.NewFilter(source, pred)
	}

	outputSchema, exprs, err := expandProjection(sel.Projection, source.Schema())
	if err != nil {
		return nil, err
	}

	if len(orderBy) > 0 {
		sortExprs, err := resolveOrderBy(orderBy, source.Schema(), exprs)
		if err != nil {
			return nil, err
		}
		source = plan.NewSort(source, sortExprs)
	}

	return plan.NewEval(source, exprs, outputSchema), nil
}

func buildValues(v *ast.Values, orderBy []ast.OrderByTerm) (plan.Operator, error) {
	rows := make([]sql.Row, len(v.Rows))
	ctx := sql.NewEmptyContext()
	empty := sql.Row{}
	emptySchema := sql.EmptySchema()
	for i, lits := range v.Rows {
		row := make(sql.Row, len(lits))
		for j, e := range lits {
			resolved, err := expression.Resolve(emptySchema, e)
			if err != nil {
				return nil, err
			}
			val, err := resolved.Eval(ctx, empty)
			if err != nil {
				return nil, err
			}
			row[j] = val
		}
		rows[i] = row
	}

	values, err := plan.NewValues(rows)
	if err != nil {
		return nil, err
	}
	var source plan.Operator = values

	if len(orderBy) > 0 {
		selectExprs := identityFields(values.Schema())
		sortExprs, err := resolveOrderBy(orderBy, values.Schema(), selectExprs)
		if err != nil {
			return nil, err
		}
		source = plan.NewSort(source, sortExprs)
	}
	return source, nil
}

// expandProjection expands a SELECT's projection list against schema into
// the operator's output schema and the per-column expressions that
// produce it. Duplicate output names are allowed (e.g. `SELECT a, a`) —
// the resulting Schema is for display and row validation only, never for
// further name resolution, so sql.NewSchema's uniqueness check does not
// apply here.
func expandProjection(items []ast.SelectItem, schema sql.Schema) (sql.Schema, []expression.Expression, error) {
	var columns []sql.Column
	var exprs []expression.Expression
	for _, item := range items {
		if item.Star {
			for i, c := range schema.Columns {
				exprs = append(exprs, &expression.Field{Index: i, Name: c.Name})
				columns = append(columns, sql.Column{Name: c.Name, Type: c.Type})
			}
			continue
		}
		expr, err := expression.Resolve(schema, item.Expr)
		if err != nil {
			return sql.Schema{}, nil, err
		}
		t, err := expr.ResultType(schema)
		if err != nil {
			return sql.Schema{}, nil, err
		}
		name := item.Alias
		if name == "" {
			name = "?column?"
		}
		columns = append(columns, sql.Column{Name: name, Type: t})
		exprs = append(exprs, expr)
	}
	return sql.Schema{Columns: columns, PrimaryKey: -1}, exprs, nil
}

// resolveOrderBy resolves each ORDER BY term against schema, rewriting a
// bare positive-integer position into the corresponding select expression
// (1-indexed), per spec.md §4.2.6.
func resolveOrderBy(terms []ast.OrderByTerm, schema sql.Schema, selectExprs []expression.Expression) ([]expression.Expression, error) {
	out := make([]expression.Expression, len(terms))
	for i, term := range terms {
		if term.Desc {
			return nil, sql.ErrUnsupported.New("DESC")
		}
		if term.NullsFirst || term.NullsLast {
			return nil, sql.ErrUnsupported.New("NULLS FIRST/LAST")
		}
		resolved, err := expression.Resolve(schema, term.Expr)
		if err != nil {
			return nil, err
		}
		if c, ok := resolved.(*expression.Const); ok && c.Value.Type() == sql.Integer {
			n := c.Value.Int()
			if n < 1 || int(n) > len(selectExprs) {
				return nil, sql.ErrResolutionError.New(fmt.Sprintf("ORDER BY position %d is out of range", n))
			}
			resolved = selectExprs[n-1]
		}
		out[i] = resolved
	}
	return out, nil
}

func identityFields(schema sql.Schema) []expression.Expression {
	exprs := make([]expression.Expression, len(schema.Columns))
	for i, c := range schema.Columns {
		exprs[i] = &expression.Field{Index: i, Name: c.Name}
	}
	return exprs
}

// ReorderInsertRow reorders row (as produced by the INSERT source) into
// target's column order. columns is the explicit column list from
// `INSERT INTO t (columns...) ...`, or nil for a positional insert that
// must already match target's column order and arity.
func ReorderInsertRow(row sql.Row, columns []string, target sql.Schema) (sql.Row, error) {
	if columns == nil {
		return row, nil
	}
	if len(columns) != len(target.Columns) || len(row) != len(columns) {
		return nil, sql.ErrTypeError.New(fmt.Sprintf("expected %d values but got %d", len(target.Columns), len(row)))
	}
	out := make(sql.Row, len(target.Columns))
	assigned := make([]bool, len(target.Columns))
	for i, name := range columns {
		idx, ok := target.IndexOf(name)
		if !ok {
			return nil, sql.ErrResolutionError.New(fmt.Sprintf("unknown column %q", name))
		}
		if assigned[idx] {
			return nil, sql.ErrResolutionError.New(fmt.Sprintf("column %q specified more than once", name))
		}
		assigned[idx] = true
		out[idx] = row[i]
	}
	return out, nil
}
