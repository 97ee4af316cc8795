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

package expression

import (
	"fmt"
	"math"

	"github.com/camellia-db/camellia/ast"
	"github.com/camellia-db/camellia/sql"
)

// Unary is `op x` for NOT and unary minus (unary plus is folded away by
// Resolve and never materializes as a node).
type Unary struct {
	Op ast.UnaryOp
	X  Expression
}

func (u *Unary) String() string {
	switch u.Op {
	case ast.UnaryNot:
		return fmt.Sprintf("NOT %s", u.X)
	case ast.UnaryMinus:
		return fmt.Sprintf("-%s", u.X)
	default:
		return u.X.String()
	}
}

func (u *Unary) ResultType(schema sql.Schema) (sql.Type, error) {
	xt, err := u.X.ResultType(schema)
	if err != nil {
		return sql.Null, err
	}
	switch u.Op {
	case ast.UnaryNot:
		if !xt.ConvertibleTo(sql.Bool) {
			return sql.Null, sql.ErrTypeError.New(fmt.Sprintf("NOT requires a bool-convertible operand, got %s", xt))
		}
		return sql.Bool, nil
	case ast.UnaryMinus:
		if !xt.ConvertibleTo(sql.Integer) {
			return sql.Null, sql.ErrTypeError.New(fmt.Sprintf("unary - requires an integer-convertible operand, got %s", xt))
		}
		return sql.Integer, nil
	default:
		return xt, nil
	}
}

func (u *Unary) Eval(ctx *sql.Context, row sql.Row) (sql.Value, error) {
	v, err := u.X.Eval(ctx, row)
	if err != nil {
		return sql.Value{}, err
	}
	switch u.Op {
	case ast.UnaryNot:
		b, err := v.Truthy()
		if err != nil {
			return sql.Value{}, err
		}
		return sql.NewBool(!b), nil
	case ast.UnaryMinus:
		iv, err := v.ConvertTo(sql.Integer)
		if err != nil {
			return sql.Value{}, err
		}
		if iv.Int() == math.MinInt64 {
			return sql.Value{}, sql.ErrArithmeticError.New("integer overflow negating minimum value")
		}
		return sql.NewInt(-iv.Int()), nil
	default:
		return v, nil
	}
}

// isArithmetic, isLogical and isComparison partition BinaryOp by the
// checks §4.1 prescribes for type inference.
func isArithmetic(op ast.BinaryOp) bool {
	switch op {
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv:
		return true
	}
	return false
}

func isLogical(op ast.BinaryOp) bool {
	return op == ast.OpAnd || op == ast.OpOr
}

func isComparison(op ast.BinaryOp) bool {
	switch op {
	case ast.OpEq, ast.OpNeq, ast.OpLt, ast.OpLte, ast.OpGt, ast.OpGte:
		return true
	}
	return false
}

func opSymbol(op ast.BinaryOp) string {
	switch op {
	case ast.OpAdd:
		return "+"
	case ast.OpSub:
		return "-"
	case ast.OpMul:
		return "*"
	case ast.OpDiv:
		return "/"
	case ast.OpAnd:
		return "AND"
	case ast.OpOr:
		return "OR"
	case ast.OpEq:
		return "="
	case ast.OpNeq:
		return "!="
	case ast.OpLt:
		return "<"
	case ast.OpLte:
		return "<="
	case ast.OpGt:
		return ">"
	case ast.OpGte:
		return ">="
	default:
		return "?"
	}
}

// Binary is `x op y`: arithmetic, logical, or comparison.
type Binary struct {
	Op   ast.BinaryOp
	X, Y Expression
}

func (b *Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", b.X, opSymbol(b.Op), b.Y)
}

func (b *Binary) ResultType(schema sql.Schema) (sql.Type, error) {
	xt, err := b.X.ResultType(schema)
	if err != nil {
		return sql.Null, err
	}
	yt, err := b.Y.ResultType(schema)
	if err != nil {
		return sql.Null, err
	}
	switch {
	case isArithmetic(b.Op):
		if !xt.ConvertibleTo(sql.Integer) || !yt.ConvertibleTo(sql.Integer) {
			return sql.Null, sql.ErrTypeError.New(fmt.Sprintf("%s requires integer-convertible operands, got %s and %s", opSymbol(b.Op), xt, yt))
		}
		return sql.Integer, nil
	case isLogical(b.Op):
		if !xt.ConvertibleTo(sql.Bool) || !yt.ConvertibleTo(sql.Bool) {
			return sql.Null, sql.ErrTypeError.New(fmt.Sprintf("%s requires bool-convertible operands, got %s and %s", opSymbol(b.Op), xt, yt))
		}
		return sql.Bool, nil
	case isComparison(b.Op):
		if xt != yt {
			return sql.Null, sql.ErrTypeError.New(fmt.Sprintf("cannot compare %s and %s", xt, yt))
		}
		return sql.Bool, nil
	default:
		return sql.Null, sql.ErrParseShape.New(fmt.Sprintf("unrecognized operator %v", b.Op))
	}
}

func (b *Binary) Eval(ctx *sql.Context, row sql.Row) (sql.Value, error) {
	x, err := b.X.Eval(ctx, row)
	if err != nil {
		return sql.Value{}, err
	}
	y, err := b.Y.Eval(ctx, row)
	if err != nil {
		return sql.Value{}, err
	}

	switch {
	case isArithmetic(b.Op):
		return evalArithmetic(b.Op, x, y)
	case isLogical(b.Op):
		return evalLogical(b.Op, x, y)
	case isComparison(b.Op):
		return evalComparison(b.Op, x, y)
	default:
		return sql.Value{}, sql.ErrParseShape.New(fmt.Sprintf("unrecognized operator %v", b.Op))
	}
}

func evalArithmetic(op ast.BinaryOp, x, y sql.Value) (sql.Value, error) {
	xi, err := x.ConvertTo(sql.Integer)
	if err != nil {
		return sql.Value{}, err
	}
	yi, err := y.ConvertTo(sql.Integer)
	if err != nil {
		return sql.Value{}, err
	}
	a, b := xi.Int(), yi.Int()
	switch op {
	case ast.OpAdd:
		sum := a + b
		if (b > 0 && sum < a) || (b < 0 && sum > a) {
			return sql.Value{}, sql.ErrArithmeticError.New("integer overflow in addition")
		}
		return sql.NewInt(sum), nil
	case ast.OpSub:
		diff := a - b
		if (b < 0 && diff < a) || (b > 0 && diff > a) {
			return sql.Value{}, sql.ErrArithmeticError.New("integer overflow in subtraction")
		}
		return sql.NewInt(diff), nil
	case ast.OpMul:
		if a == 0 || b == 0 {
			return sql.NewInt(0), nil
		}
		prod := a * b
		if prod/b != a {
			return sql.Value{}, sql.ErrArithmeticError.New("integer overflow in multiplication")
		}
		return sql.NewInt(prod), nil
	case ast.OpDiv:
		if b == 0 {
			return sql.Value{}, sql.ErrArithmeticError.New("division by zero")
		}
		if a == math.MinInt64 && b == -1 {
			return sql.Value{}, sql.ErrArithmeticError.New("integer overflow in division")
		}
		return sql.NewInt(a / b), nil
	default:
		return sql.Value{}, sql.ErrParseShape.New(fmt.Sprintf("unrecognized arithmetic operator %v", op))
	}
}

func evalLogical(op ast.BinaryOp, x, y sql.Value) (sql.Value, error) {
	xb, err := x.Truthy()
	if err != nil {
		return sql.Value{}, err
	}
	yb, err := y.Truthy()
	if err != nil {
		return sql.Value{}, err
	}
	switch op {
	case ast.OpAnd:
		return sql.NewBool(xb && yb), nil
	case ast.OpOr:
		return sql.NewBool(xb || yb), nil
	default:
		return sql.Value{}, sql.ErrParseShape.New(fmt.Sprintf("unrecognized logical operator %v", op))
	}
}

func evalComparison(op ast.BinaryOp, x, y sql.Value) (sql.Value, error) {
	if op == ast.OpEq {
		return sql.NewBool(x.Equal(y)), nil
	}
	if op == ast.OpNeq {
		return sql.NewBool(!x.Equal(y)), nil
	}
	c, err := x.Compare(y)
	if err != nil {
		return sql.Value{}, err
	}
	switch op {
	case ast.OpLt:
		return sql.NewBool(c < 0), nil
	case ast.OpLte:
		return sql.NewBool(c <= 0), nil
	case ast.OpGt:
		return sql.NewBool(c > 0), nil
	case ast.OpGte:
		return sql.NewBool(c >= 0), nil
	default:
		return sql.Value{}, sql.ErrParseShape.New(fmt.Sprintf("unrecognized comparison operator %v", op))
	}
}

// Abs is the single recognized function, abs(x).
type Abs struct {
	Arg Expression
}

func (a *Abs) String() string { return fmt.Sprintf("abs(%s)", a.Arg) }

func (a *Abs) ResultType(schema sql.Schema) (sql.Type, error) {
	t, err := a.Arg.ResultType(schema)
	if err != nil {
		return sql.Null, err
	}
	if !t.ConvertibleTo(sql.Integer) {
		return sql.Null, sql.ErrTypeError.New(fmt.Sprintf("abs requires an integer-convertible operand, got %s", t))
	}
	return sql.Integer, nil
}

func (a *Abs) Eval(ctx *sql.Context, row sql.Row) (sql.Value, error) {
	v, err := a.Arg.Eval(ctx, row)
	if err != nil {
		return sql.Value{}, err
	}
	iv, err := v.ConvertTo(sql.Integer)
	if err != nil {
		return sql.Value{}, err
	}
	n := iv.Int()
	if n == math.MinInt64 {
		return sql.Value{}, sql.ErrArithmeticError.New("integer overflow in abs")
	}
	if n < 0 {
		n = -n
	}
	return sql.NewInt(n), nil
}

// resolvedWhen is one WHEN/THEN arm of a Case.
type resolvedWhen struct {
	Cond   Expression
	Result Expression
}

// Case is a searched CASE expression. Whens must be non-empty (enforced by
// Resolve); Else may be nil, in which case a non-matching CASE evaluates to
// Bool(false) per spec.
type Case struct {
	Whens []resolvedWhen
	Else  Expression
}

func (c *Case) String() string { return "CASE" }

func (c *Case) ResultType(schema sql.Schema) (sql.Type, error) {
	for _, w := range c.Whens {
		ct, err := w.Cond.ResultType(schema)
		if err != nil {
			return sql.Null, err
		}
		if !ct.ConvertibleTo(sql.Bool) {
			return sql.Null, sql.ErrTypeError.New(fmt.Sprintf("CASE condition must be bool-convertible, got %s", ct))
		}
	}
	resultType, err := c.Whens[0].Result.ResultType(schema)
	if err != nil {
		return sql.Null, err
	}
	for _, w := range c.Whens[1:] {
		rt, err := w.Result.ResultType(schema)
		if err != nil {
			return sql.Null, err
		}
		if !rt.ConvertibleTo(resultType) {
			return sql.Null, sql.ErrTypeError.New(fmt.Sprintf("CASE result types do not agree: %s and %s", resultType, rt))
		}
	}
	if c.Else != nil {
		et, err := c.Else.ResultType(schema)
		if err != nil {
			return sql.Null, err
		}
		if !et.ConvertibleTo(resultType) {
			return sql.Null, sql.ErrTypeError.New(fmt.Sprintf("CASE ELSE type does not agree: %s and %s", resultType, et))
		}
	}
	return resultType, nil
}

func (c *Case) Eval(ctx *sql.Context, row sql.Row) (sql.Value, error) {
	for _, w := range c.Whens {
		cv, err := w.Cond.Eval(ctx, row)
		if err != nil {
			return sql.Value{}, err
		}
		b, err := cv.Truthy()
		if err != nil {
			return sql.Value{}, err
		}
		if b {
			return w.Result.Eval(ctx, row)
		}
	}
	if c.Else != nil {
		return c.Else.Eval(ctx, row)
	}
	return sql.NewBool(false), nil
}
