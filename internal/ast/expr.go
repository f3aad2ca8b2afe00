package ast

import (
	"strings"

	"github.com/rono-lang/rono/internal/token"
)

// Expr is any expression node. As with Stmt, evaluation behavior lives
// in internal/interpreter; a postfix chain's result type is determined
// at evaluation, not at parse (spec.md §3 invariant).
type Expr interface {
	exprNode()
	String() string
}

type IntLit struct {
	Value int64
	Pos   token.Pos
}

func (*IntLit) exprNode()        {}
func (e *IntLit) String() string { return itoa(e.Value) }

type FloatLit struct {
	Value float64
	Pos   token.Pos
}

func (*FloatLit) exprNode()        {}
func (e *FloatLit) String() string { return ftoa(e.Value) }

type BoolLit struct {
	Value bool
	Pos   token.Pos
}

func (*BoolLit) exprNode()        {}
func (e *BoolLit) String() string { return boolStr(e.Value) }

type NilLit struct{ Pos token.Pos }

func (*NilLit) exprNode()        {}
func (*NilLit) String() string   { return "nil" }

// StringSegment is one piece of an interpolated string: either a
// literal run of text (Expr == nil) or an embedded expression
// (Literal == "").
type StringSegment struct {
	Literal string
	Expr    Expr
}

// InterpolatedString is a string literal split into alternating
// literal and `{expr}` spans (spec.md §4.3). A string with no `{}` at
// all is represented as a single Literal-only segment.
type InterpolatedString struct {
	Segments []StringSegment
	Pos      token.Pos
}

func (*InterpolatedString) exprNode() {}
func (e *InterpolatedString) String() string {
	var sb strings.Builder
	sb.WriteString("\"")
	for _, seg := range e.Segments {
		if seg.Expr != nil {
			sb.WriteString("{" + seg.Expr.String() + "}")
		} else {
			sb.WriteString(seg.Literal)
		}
	}
	sb.WriteString("\"")
	return sb.String()
}

type Identifier struct {
	Name string
	Pos  token.Pos
}

func (*Identifier) exprNode()        {}
func (e *Identifier) String() string { return e.Name }

type SelfExpr struct{ Pos token.Pos }

func (*SelfExpr) exprNode()        {}
func (*SelfExpr) String() string   { return "self" }

// UnaryExpr is `!expr` or `-expr`.
type UnaryExpr struct {
	Op    token.Kind
	Right Expr
	Pos   token.Pos
}

func (*UnaryExpr) exprNode() {}
func (e *UnaryExpr) String() string {
	return "(" + e.Op.String() + e.Right.String() + ")"
}

// AddressOfExpr is `&ident`: produces a pointer locating that slot.
type AddressOfExpr struct {
	Name string
	Pos  token.Pos
}

func (*AddressOfExpr) exprNode()        {}
func (e *AddressOfExpr) String() string { return "&" + e.Name }

// DerefExpr is `*expr`, used both as an rvalue and, wrapped in an
// Assign's LValue, as the target of a write-through.
type DerefExpr struct {
	Target Expr
	Pos    token.Pos
}

func (*DerefExpr) exprNode()        {}
func (e *DerefExpr) String() string { return "*" + e.Target.String() }

// BinaryExpr covers arithmetic and comparison operators.
type BinaryExpr struct {
	Left  Expr
	Op    token.Kind
	Right Expr
	Pos   token.Pos
}

func (*BinaryExpr) exprNode() {}
func (e *BinaryExpr) String() string {
	return "(" + e.Left.String() + " " + e.Op.String() + " " + e.Right.String() + ")"
}

// LogicalExpr covers `&&` and `||`, kept distinct from BinaryExpr so
// the interpreter can short-circuit without inspecting the operator
// (spec.md §4.6).
type LogicalExpr struct {
	Left  Expr
	Op    token.Kind // AND_AND or OR_OR
	Right Expr
	Pos   token.Pos
}

func (*LogicalExpr) exprNode() {}
func (e *LogicalExpr) String() string {
	return "(" + e.Left.String() + " " + e.Op.String() + " " + e.Right.String() + ")"
}

// FieldAccessExpr is one `.ident` segment of a postfix chain.
type FieldAccessExpr struct {
	Object Expr
	Name   string
	Pos    token.Pos
}

func (*FieldAccessExpr) exprNode()        {}
func (e *FieldAccessExpr) String() string { return e.Object.String() + "." + e.Name }

// IndexExpr is one `[expr]` segment of a postfix chain.
type IndexExpr struct {
	Object Expr
	Index  Expr
	Pos    token.Pos
}

func (e *IndexExpr) exprNode() {}
func (e *IndexExpr) String() string {
	return e.Object.String() + "[" + e.Index.String() + "]"
}

// CallExpr is one `(args)` segment of a postfix chain.
type CallExpr struct {
	Callee Expr
	Args   []Expr
	Pos    token.Pos
}

func (*CallExpr) exprNode() {}
func (e *CallExpr) String() string {
	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		parts[i] = a.String()
	}
	return e.Callee.String() + "(" + strings.Join(parts, ", ") + ")"
}

// FieldInit is one `field = expr` entry of a constructor literal.
type FieldInit struct {
	Name  string
	Value Expr
}

// ConstructorExpr is `TypeName { field = expr, ... }`.
type ConstructorExpr struct {
	TypeName string
	Fields   []FieldInit
	Pos      token.Pos
}

func (*ConstructorExpr) exprNode() {}
func (e *ConstructorExpr) String() string {
	var sb strings.Builder
	sb.WriteString(e.TypeName + " { ")
	for i, f := range e.Fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(f.Name + " = " + f.Value.String())
	}
	sb.WriteString(" }")
	return sb.String()
}

// ArrayLit is `[expr, ...]`, used for both `list` and `array`
// initializers; it always evaluates to a plain *object.Array, and the
// enclosing VarDecl's Keyword decides whether that gets rewrapped into
// a growable *object.List (see materialize in internal/interpreter).
type ArrayLit struct {
	Elements []Expr
	Pos      token.Pos
}

func (*ArrayLit) exprNode() {}
func (e *ArrayLit) String() string {
	parts := make([]string, len(e.Elements))
	for i, el := range e.Elements {
		parts[i] = el.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// MapEntry is one `"key": value` pair of a map literal.
type MapEntry struct {
	Key   Expr
	Value Expr
}

// MapLit is `{ "k": v, ... }`.
type MapLit struct {
	Entries []MapEntry
	Pos     token.Pos
}

func (*MapLit) exprNode() {}
func (e *MapLit) String() string {
	parts := make([]string, len(e.Entries))
	for i, en := range e.Entries {
		parts[i] = en.Key.String() + ": " + en.Value.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// GroupExpr is a parenthesized expression, kept as a distinct node (as
// the teacher does) so String() round-trips parenthesization.
type GroupExpr struct {
	Inner Expr
	Pos   token.Pos
}

func (*GroupExpr) exprNode()        {}
func (e *GroupExpr) String() string { return "(" + e.Inner.String() + ")" }
