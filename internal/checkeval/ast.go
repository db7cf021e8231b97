// Package checkeval compiles and evaluates generated check fragments
// against runtime values.
//
// The fragment language is the small boolean subset code generation emits:
// or/and/not, equality, isinstance against registered class references,
// len, constants and pith expressions indexing into the value under test.
package checkeval

import (
	"strconv"
	"strings"

	"github.com/orizon-lang/hintkit/internal/hint"
)

// Expr is a node of a compiled fragment
type Expr interface {
	String() string
	exprNode()
}

// OrExpr is a short-circuit disjunction
type OrExpr struct{ Items []Expr }

// AndExpr is a short-circuit conjunction
type AndExpr struct{ Items []Expr }

// NotExpr negates its operand
type NotExpr struct{ X Expr }

// EqExpr compares two operands by value
type EqExpr struct{ Left, Right Expr }

// ConstExpr is a literal constant
type ConstExpr struct{ Value any }

// IsInstanceExpr tests a pith against one or more class references
type IsInstanceExpr struct {
	Pith *PithExpr
	Refs []string
}

// LenExpr is the length of a pith
type LenExpr struct{ Pith *PithExpr }

// PithExpr names a bound value, optionally indexed
type PithExpr struct {
	Name    string
	Indexes []int
}

func (*OrExpr) exprNode()         {}
func (*AndExpr) exprNode()        {}
func (*NotExpr) exprNode()        {}
func (*EqExpr) exprNode()         {}
func (*ConstExpr) exprNode()      {}
func (*IsInstanceExpr) exprNode() {}
func (*LenExpr) exprNode()        {}
func (*PithExpr) exprNode()       {}

func joinExprs(items []Expr, sep string) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = it.String()
	}
	return "(" + strings.Join(parts, sep) + ")"
}

func (e *OrExpr) String() string  { return joinExprs(e.Items, " or ") }
func (e *AndExpr) String() string { return joinExprs(e.Items, " and ") }
func (e *NotExpr) String() string { return "not " + e.X.String() }
func (e *EqExpr) String() string  { return e.Left.String() + " == " + e.Right.String() }
func (e *ConstExpr) String() string {
	return hint.ValueRepr(e.Value)
}

func (e *IsInstanceExpr) String() string {
	if len(e.Refs) == 1 {
		return "isinstance(" + e.Pith.String() + ", " + e.Refs[0] + ")"
	}
	return "isinstance(" + e.Pith.String() + ", (" + strings.Join(e.Refs, ", ") + "))"
}

func (e *LenExpr) String() string { return "len(" + e.Pith.String() + ")" }

func (e *PithExpr) String() string {
	var b strings.Builder
	b.WriteString(e.Name)
	for _, i := range e.Indexes {
		b.WriteString("[" + strconv.Itoa(i) + "]")
	}
	return b.String()
}
