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

// Package expression is the tree of arithmetic/logical/comparison/CASE
// nodes the planner builds from ast.Expr, resolved against a sql.Schema at
// construction time. It plays the role the teacher's sql/expression
// package plays (GetField, Literal, Arithmetic, Case, ...), specialized to
// camellia's four-type value system.
package expression

import (
	"fmt"

	"github.com/camellia-db/camellia/ast"
	"github.com/camellia-db/camellia/sql"
)

// Expression is a node in the resolved expression tree.
type Expression interface {
	// ResultType reports the static type the expression evaluates to
	// against rows of the given schema.
	ResultType(schema sql.Schema) (sql.Type, error)
	// Eval evaluates the expression against a single row.
	Eval(ctx *sql.Context, row sql.Row) (sql.Value, error)
	// String renders the expression for diagnostics. It is not used for
	// column naming: unaliased projections are named "?column?".
	String() string
}

// Field reads column index i of the input row.
type Field struct {
	Index int
	Name  string
}

func (f *Field) ResultType(schema sql.Schema) (sql.Type, error) {
	if f.Index < 0 || f.Index >= len(schema.Columns) {
		return sql.Null, sql.ErrResolutionError.New(fmt.Sprintf("column index %d out of range", f.Index))
	}
	return schema.Columns[f.Index].Type, nil
}

func (f *Field) Eval(_ *sql.Context, row sql.Row) (sql.Value, error) {
	if f.Index < 0 || f.Index >= len(row) {
		return sql.Value{}, sql.ErrResolutionError.New(fmt.Sprintf("column index %d out of range", f.Index))
	}
	return row[f.Index], nil
}

func (f *Field) String() string { return f.Name }

// Const is a constant value, independent of the input row.
type Const struct {
	Value sql.Value
}

func (c *Const) ResultType(sql.Schema) (sql.Type, error) { return c.Value.Type(), nil }
func (c *Const) Eval(*sql.Context, sql.Row) (sql.Value, error) { return c.Value, nil }
func (c *Const) String() string                                { return c.Value.String() }

// Resolve parses an ast.Expr into an Expression, resolving identifiers
// against schema. Unary NOT/+/- perform constant folding the way the
// teacher's own expression constructors eagerly simplify literal operands.
func Resolve(schema sql.Schema, e ast.Expr) (Expression, error) {
	switch e := e.(type) {
	case *ast.Ident:
		i, ok := schema.IndexOf(e.Name)
		if !ok {
			return nil, sql.ErrResolutionError.New(fmt.Sprintf("unknown column %q", e.Name))
		}
		return &Field{Index: i, Name: e.Name}, nil

	case *ast.Literal:
		return &Const{Value: literalValue(e)}, nil

	case *ast.UnaryExpr:
		x, err := Resolve(schema, e.X)
		if err != nil {
			return nil, err
		}
		return foldUnary(e.Op, x), nil

	case *ast.BinaryExpr:
		x, err := Resolve(schema, e.X)
		if err != nil {
			return nil, err
		}
		y, err := Resolve(schema, e.Y)
		if err != nil {
			return nil, err
		}
		return &Binary{Op: e.Op, X: x, Y: y}, nil

	case *ast.FuncCall:
		if e.Name != "abs" || len(e.Args) != 1 {
			return nil, sql.ErrUnsupported.New(fmt.Sprintf("function %s/%d", e.Name, len(e.Args)))
		}
		arg, err := Resolve(schema, e.Args[0])
		if err != nil {
			return nil, err
		}
		return &Abs{Arg: arg}, nil

	case *ast.CaseExpr:
		whens := make([]resolvedWhen, len(e.Whens))
		for i, w := range e.Whens {
			cond, err := Resolve(schema, w.Cond)
			if err != nil {
				return nil, err
			}
			result, err := Resolve(schema, w.Result)
			if err != nil {
				return nil, err
			}
			whens[i] = resolvedWhen{Cond: cond, Result: result}
		}
		if len(whens) == 0 {
			return nil, sql.ErrSchemaError.New("CASE requires at least one WHEN branch")
		}
		var els Expression
		if e.Else != nil {
			var err error
			els, err = Resolve(schema, e.Else)
			if err != nil {
				return nil, err
			}
		}
		return &Case{Whens: whens, Else: els}, nil

	default:
		return nil, sql.ErrParseShape.New(fmt.Sprintf("unrecognized expression node %T", e))
	}
}

func literalValue(l *ast.Literal) sql.Value {
	switch l.Kind {
	case ast.LiteralNull:
		return sql.NewNull()
	case ast.LiteralBool:
		return sql.NewBool(l.Bool)
	case ast.LiteralInt:
		return sql.NewInt(l.Int)
	case ast.LiteralText:
		return sql.NewText(l.Text)
	default:
		return sql.NewNull()
	}
}

// foldUnary applies the light constant folding the spec calls for: NOT on
// a constant bool, +x as a no-op, and -x on a constant int folded in
// place. Anything else becomes a Unary node evaluated per-row.
func foldUnary(op ast.UnaryOp, x Expression) Expression {
	if op == ast.UnaryPlus {
		return x
	}
	if c, ok := x.(*Const); ok {
		switch op {
		case ast.UnaryNot:
			if c.Value.Type() == sql.Bool {
				return &Const{Value: sql.NewBool(!c.Value.Bool())}
			}
		case ast.UnaryMinus:
			if c.Value.Type() == sql.Integer {
				return &Const{Value: sql.NewInt(-c.Value.Int())}
			}
		}
	}
	return &Unary{Op: op, X: x}
}
