package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rono-lang/rono/internal/token"
)

func TestLiteralStrings(t *testing.T) {
	assert.Equal(t, "42", (&IntLit{Value: 42}).String())
	assert.Equal(t, "1.5", (&FloatLit{Value: 1.5}).String())
	assert.Equal(t, "true", (&BoolLit{Value: true}).String())
	assert.Equal(t, "nil", (&NilLit{}).String())
	assert.Equal(t, "x", (&Identifier{Name: "x"}).String())
	assert.Equal(t, "self", (&SelfExpr{}).String())
}

func TestBinaryAndLogicalExprString(t *testing.T) {
	bin := &BinaryExpr{Op: token.PLUS, Left: &IntLit{Value: 1}, Right: &IntLit{Value: 2}}
	assert.Equal(t, "(1 + 2)", bin.String())

	logical := &LogicalExpr{Op: token.AND_AND, Left: &BoolLit{Value: true}, Right: &BoolLit{Value: false}}
	assert.Equal(t, "(true && false)", logical.String())
}

func TestFieldAccessAndIndexExprString(t *testing.T) {
	fa := &FieldAccessExpr{Object: &Identifier{Name: "p"}, Name: "x"}
	assert.Equal(t, "p.x", fa.String())

	idx := &IndexExpr{Object: &Identifier{Name: "xs"}, Index: &IntLit{Value: 0}}
	assert.Equal(t, "xs[0]", idx.String())
}

func TestDerefAndAddressOfString(t *testing.T) {
	addr := &AddressOfExpr{Name: "x"}
	assert.Equal(t, "&x", addr.String())

	deref := &DerefExpr{Target: &Identifier{Name: "p"}}
	assert.Equal(t, "*p", deref.String())
}

func TestAssignString(t *testing.T) {
	assign := &Assign{LValue: &Identifier{Name: "x"}, RValue: &IntLit{Value: 5}}
	assert.Equal(t, "x = 5", assign.String())
}

func TestTypeStrings(t *testing.T) {
	assert.Equal(t, "int", IntType{}.String())
	assert.Equal(t, "str", StrType{}.String())
	assert.Equal(t, "nil", NilType{}.String())
	assert.Equal(t, "Point", NamedType{Name: "Point"}.String())
	assert.Equal(t, "int[]", ListType{Elem: IntType{}}.String())
	assert.Equal(t, "int[3]", ArrayType{Elem: IntType{}, Size: 3}.String())
	assert.Equal(t, "map[str:int]", MapType{Key: StrType{}, Value: IntType{}}.String())
}

func TestBlockString(t *testing.T) {
	b := &Block{Stmts: []Stmt{
		&ExprStmt{Expr: &IntLit{Value: 1}},
		&Break{},
	}}
	assert.Contains(t, b.String(), "1")
	assert.Contains(t, b.String(), "break")
}
