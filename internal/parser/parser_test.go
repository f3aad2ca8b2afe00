package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rono-lang/rono/internal/ast"
	"github.com/rono-lang/rono/internal/lexer"
	"github.com/rono-lang/rono/internal/token"
)

func parseProgram(t *testing.T, src string) *ast.Program {
	t.Helper()
	toks, lexErr := lexer.New("t.rono", []byte(src)).Scan()
	require.Nil(t, lexErr)
	prog, err := New("t.rono", toks).ParseProgram()
	require.Nil(t, err, "parse error: %v", err)
	return prog
}

func TestParseChifMain(t *testing.T) {
	prog := parseProgram(t, `chif main() { con.out("hi"); }`)
	require.Len(t, prog.Items, 1)
	chif, ok := prog.Items[0].(*ast.ChifDecl)
	require.True(t, ok)
	require.Len(t, chif.Body.Stmts, 1)
}

func TestParseChifMustBeNamedMain(t *testing.T) {
	toks, _ := lexer.New("t.rono", []byte(`chif other() {}`)).Scan()
	_, err := New("t.rono", toks).ParseProgram()
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "main")
}

func TestParseImportWithAlias(t *testing.T) {
	prog := parseProgram(t, `import "util" as u;`)
	imp := prog.Items[0].(*ast.ImportDecl)
	assert.Equal(t, "util", imp.Path)
	assert.Equal(t, "u", imp.Alias)
}

func TestParseImportWithoutAlias(t *testing.T) {
	prog := parseProgram(t, `import "util";`)
	imp := prog.Items[0].(*ast.ImportDecl)
	assert.Equal(t, "util", imp.Path)
	assert.Equal(t, "", imp.Alias)
}

func TestParseStructDecl(t *testing.T) {
	prog := parseProgram(t, `struct P { x: int, y: int }`)
	decl := prog.Items[0].(*ast.StructDecl)
	assert.Equal(t, "P", decl.Name)
	require.Len(t, decl.Fields, 2)
	assert.Equal(t, "x", decl.Fields[0].Name)
	assert.Equal(t, ast.IntType{}, decl.Fields[0].Type)
}

func TestParseImplBlockWithSelf(t *testing.T) {
	prog := parseProgram(t, `fn_for P { fn set(self, v: int) { self.x = v; } }`)
	impl := prog.Items[0].(*ast.ImplBlock)
	assert.Equal(t, "P", impl.TypeName)
	require.Len(t, impl.Methods, 1)
	method := impl.Methods[0]
	assert.True(t, method.HasSelf)
	require.Len(t, method.Params, 1)
	assert.Equal(t, "v", method.Params[0].Name)

	assign := method.Body.Stmts[0].(*ast.Assign)
	fa := assign.LValue.(*ast.FieldAccessExpr)
	_, isSelf := fa.Object.(*ast.SelfExpr)
	assert.True(t, isSelf)
}

func TestParseFreeFunctionWithReturnType(t *testing.T) {
	prog := parseProgram(t, `fn add(a: int, b: int) int { ret a+b; }`)
	fn := prog.Items[0].(*ast.FnDecl)
	assert.Equal(t, "add", fn.Name)
	assert.False(t, fn.HasSelf)
	assert.Equal(t, ast.IntType{}, fn.ReturnType)
	ret := fn.Body.Stmts[0].(*ast.Return)
	bin := ret.Expr.(*ast.BinaryExpr)
	assert.Equal(t, "a", bin.Left.(*ast.Identifier).Name)
}

func TestParseBareReturnRequiresNilReturnType(t *testing.T) {
	toks, _ := lexer.New("t.rono", []byte(`fn f() int { ret; }`)).Scan()
	_, err := New("t.rono", toks).ParseProgram()
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "missing return value")
}

func TestParseListDeclWithSugarType(t *testing.T) {
	prog := parseProgram(t, `chif main() { list a: int[] = [1,2,3]; }`)
	chif := prog.Items[0].(*ast.ChifDecl)
	decl := chif.Body.Stmts[0].(*ast.VarDecl)
	assert.True(t, decl.Mutable)
	assert.Equal(t, token.LIST, decl.Keyword)
	assert.Equal(t, ast.ListType{Elem: ast.IntType{}}, decl.DeclaredType)
	lit := decl.Init.(*ast.ArrayLit)
	require.Len(t, lit.Elements, 3)
}

func TestParseArrayDeclWithFixedSize(t *testing.T) {
	prog := parseProgram(t, `chif main() { array a: int[3] = [1,2,3]; }`)
	chif := prog.Items[0].(*ast.ChifDecl)
	decl := chif.Body.Stmts[0].(*ast.VarDecl)
	assert.Equal(t, token.ARRAY, decl.Keyword)
	assert.Equal(t, ast.ArrayType{Elem: ast.IntType{}, Size: 3}, decl.DeclaredType)
}

func TestParseListDeclWithoutTypeAnnotation(t *testing.T) {
	prog := parseProgram(t, `chif main() { list a = [1,2,3]; }`)
	chif := prog.Items[0].(*ast.ChifDecl)
	decl := chif.Body.Stmts[0].(*ast.VarDecl)
	assert.Equal(t, token.LIST, decl.Keyword)
	assert.Nil(t, decl.DeclaredType)
}

func TestParseMapDeclLiteral(t *testing.T) {
	prog := parseProgram(t, `chif main() { var m: map[str:int] = { "a": 1, "b": 2 }; }`)
	chif := prog.Items[0].(*ast.ChifDecl)
	decl := chif.Body.Stmts[0].(*ast.VarDecl)
	lit := decl.Init.(*ast.MapLit)
	require.Len(t, lit.Entries, 2)
}

func TestParsePointerTypeAndAddressOf(t *testing.T) {
	prog := parseProgram(t, `fn swap(a: pointer, b: pointer) { var t: int = *a; *a = *b; *b = t; } chif main() { var x: int = 10; var y: int = 20; swap(&x,&y); }`)
	fn := prog.Items[0].(*ast.FnDecl)
	assert.Equal(t, ast.PointerType{Elem: nil}, fn.Params[0].Type)

	chif := prog.Items[1].(*ast.ChifDecl)
	call := chif.Body.Stmts[2].(*ast.ExprStmt).Expr.(*ast.CallExpr)
	require.Len(t, call.Args, 2)
	addr := call.Args[0].(*ast.AddressOfExpr)
	assert.Equal(t, "x", addr.Name)
}

func TestParseForLoopWithStepSugar(t *testing.T) {
	prog := parseProgram(t, `chif main() { for (i = 0; i < 3; i + 1) { con.out("{i}"); } }`)
	chif := prog.Items[0].(*ast.ChifDecl)
	forStmt := chif.Body.Stmts[0].(*ast.For)
	step := forStmt.Step.(*ast.Assign)
	assert.Equal(t, "i", step.LValue.(*ast.Identifier).Name)
	bin := step.RValue.(*ast.BinaryExpr)
	assert.Equal(t, "i", bin.Left.(*ast.Identifier).Name)
}

func TestParseSwitchWithDefault(t *testing.T) {
	prog := parseProgram(t, `chif main() { switch (1) { case 1 { con.out("one"); } default { con.out("other"); } } }`)
	chif := prog.Items[0].(*ast.ChifDecl)
	sw := chif.Body.Stmts[0].(*ast.Switch)
	require.Len(t, sw.Cases, 1)
	require.NotNil(t, sw.Default)
}

func TestParseConstructorLiteral(t *testing.T) {
	prog := parseProgram(t, `chif main() { var p: P = P { x=0, y=0 }; }`)
	chif := prog.Items[0].(*ast.ChifDecl)
	decl := chif.Body.Stmts[0].(*ast.VarDecl)
	ctor := decl.Init.(*ast.ConstructorExpr)
	assert.Equal(t, "P", ctor.TypeName)
	require.Len(t, ctor.Fields, 2)
}

func TestParseStringInterpolationSegments(t *testing.T) {
	prog := parseProgram(t, `chif main() { con.out("sum is {x+y}!"); }`)
	chif := prog.Items[0].(*ast.ChifDecl)
	call := chif.Body.Stmts[0].(*ast.ExprStmt).Expr.(*ast.CallExpr)
	interp := call.Args[0].(*ast.InterpolatedString)
	require.Len(t, interp.Segments, 3)
	assert.Equal(t, "sum is ", interp.Segments[0].Literal)
	require.NotNil(t, interp.Segments[1].Expr)
	assert.Equal(t, "!", interp.Segments[2].Literal)
}

func TestParseOperatorPrecedence(t *testing.T) {
	prog := parseProgram(t, `chif main() { var x: bool = 1 + 2 * 3 == 7 && true; }`)
	chif := prog.Items[0].(*ast.ChifDecl)
	decl := chif.Body.Stmts[0].(*ast.VarDecl)
	logical := decl.Init.(*ast.LogicalExpr)
	eq := logical.Left.(*ast.BinaryExpr)
	assert.Equal(t, "((1 + (2 * 3)) == 7)", eq.String())
}

func TestParseInvalidAssignmentTarget(t *testing.T) {
	toks, _ := lexer.New("t.rono", []byte(`chif main() { 1 + 2 = 3; }`)).Scan()
	_, err := New("t.rono", toks).ParseProgram()
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "invalid assignment target")
}

func TestParseExpressionEntryPoint(t *testing.T) {
	toks, lexErr := lexer.New("t.rono", []byte("1 + 2")).Scan()
	require.Nil(t, lexErr)
	expr, err := New("t.rono", toks).ParseExpression()
	require.Nil(t, err)
	assert.Equal(t, "(1 + 2)", expr.String())
}

func TestParseExpressionRejectsTrailingTokens(t *testing.T) {
	toks, _ := lexer.New("t.rono", []byte("1 + 2 3")).Scan()
	_, err := New("t.rono", toks).ParseExpression()
	require.NotNil(t, err)
}
