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

// Package ast is the abstract statement tree the planner consumes. It is
// deliberately a narrow subset — the shapes enumerated in spec.md §6 — not
// a general SQL AST: the real parser (out of scope for this module, the
// way the teacher treats vitess's SQL parser as an external dependency it
// merely consumes) is expected to produce these shapes or reject the
// query before camellia ever sees it.
package ast

// Statement is any of the recognized top-level shapes: CreateTable, Drop,
// Insert, or Query.
type Statement interface {
	statementNode()
}

// CreateTable is `CREATE TABLE name (columns...)`.
type CreateTable struct {
	Name    string
	Columns []ColumnDef
}

func (*CreateTable) statementNode() {}

// ColumnDef names one column of a CreateTable. Type is the column's
// declared type name ("int", "bool", "text"); translation to sql.Type
// happens during planning so that an unrecognized name is a SchemaError,
// not a parse-time panic.
type ColumnDef struct {
	Name       string
	Type       string
	PrimaryKey bool
}

// Drop is `DROP TABLE name`.
type Drop struct {
	Name string
}

func (*Drop) statementNode() {}

// Insert is `INSERT INTO table [(columns...)] source`. Columns is nil when
// no explicit column list was given.
type Insert struct {
	Table   string
	Columns []string
	Source  *Query
}

func (*Insert) statementNode() {}

// Query is `body [ORDER BY order_by...]`, where body is either a Select or
// a Values list.
type Query struct {
	Select  *Select
	Values  *Values
	OrderBy []OrderByTerm
}

func (*Query) statementNode() {}

// OrderByTerm is one ORDER BY term. Only ascending, default-null-placement
// ordering is supported; Desc and NullsFirst/NullsLast are recorded only so
// the planner can reject them with a specific Unsupported error rather than
// silently ignoring them.
type OrderByTerm struct {
	Expr       Expr
	Desc       bool
	NullsFirst bool
	NullsLast  bool
}

// Select is `SELECT projection [FROM table] [WHERE predicate]`. From is
// empty for a FROM-less SELECT.
type Select struct {
	Projection []SelectItem
	From       string
	Where      Expr
}

// SelectItem is one projection entry: either Star (bare `*`) or an
// expression with an optional alias.
type SelectItem struct {
	Star  bool
	Expr  Expr
	Alias string
}

// Values is a literal `VALUES (...), (...), ...` row list.
type Values struct {
	Rows [][]Expr
}

// Expr is any expression-tree node.
type Expr interface {
	exprNode()
}

// Ident is a bare column reference.
type Ident struct {
	Name string
}

func (*Ident) exprNode() {}

// LiteralKind distinguishes the handful of literal forms the parser can
// hand camellia; translation to a sql.Value happens during expression
// planning.
type LiteralKind int

const (
	LiteralNull LiteralKind = iota
	LiteralBool
	LiteralInt
	LiteralText
)

// Literal is a constant value as written in the source statement.
type Literal struct {
	Kind LiteralKind
	Bool bool
	Int  int64
	Text string
}

func (*Literal) exprNode() {}

// UnaryOp enumerates the supported unary operators.
type UnaryOp int

const (
	UnaryNot UnaryOp = iota
	UnaryPlus
	UnaryMinus
)

// UnaryExpr is `op x`.
type UnaryExpr struct {
	Op UnaryOp
	X  Expr
}

func (*UnaryExpr) exprNode() {}

// BinaryOp enumerates the supported binary operators: arithmetic, logical,
// and comparison.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpAnd
	OpOr
	OpEq
	OpNeq
	OpLt
	OpLte
	OpGt
	OpGte
)

// BinaryExpr is `x op y`.
type BinaryExpr struct {
	X  Expr
	Op BinaryOp
	Y  Expr
}

func (*BinaryExpr) exprNode() {}

// FuncCall is a function application. camellia recognizes exactly one
// function name, "abs"; any other name is an Unsupported error at planning
// time.
type FuncCall struct {
	Name string
	Args []Expr
}

func (*FuncCall) exprNode() {}

// CaseExpr is a searched `CASE WHEN cond THEN result ... [ELSE else] END`.
type CaseExpr struct {
	Whens []CaseWhen
	Else  Expr
}

func (*CaseExpr) exprNode() {}

// CaseWhen is one `WHEN cond THEN result` arm of a CaseExpr.
type CaseWhen struct {
	Cond   Expr
	Result Expr
}
