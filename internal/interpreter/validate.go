package interpreter

import (
	"github.com/rono-lang/rono/internal/ast"
	"github.com/rono-lang/rono/internal/diagnostics"
	"github.com/rono-lang/rono/internal/environment"
)

// ValidateConstructors walks the function, method, and chif bodies held
// directly in g (functions reached only through an aliased namespace
// are not walked) and checks each constructor literal
// names a known struct with exactly its declared fields, no more, no
// fewer, no duplicates. This is logically part of parsing (spec.md §7
// classifies "malformed constructor" as a Parse-phase error) but can
// only run once every struct declaration across a resolved module is
// known, so it executes here as a pass over the finished AST rather
// than inline during parsing; it still reports diagnostics.Parse.
func ValidateConstructors(g *environment.Globals, file string) *diagnostics.Error {
	check := func(e ast.Expr) *diagnostics.Error {
		ctor, ok := e.(*ast.ConstructorExpr)
		if !ok {
			return nil
		}
		decl, ok := g.Structs[ctor.TypeName]
		if !ok {
			return diagnostics.New(diagnostics.Parse, file, ctor.Pos.Line, ctor.Pos.Col,
				"unknown struct type %q in constructor", ctor.TypeName)
		}
		declared := make(map[string]bool, len(decl.Fields))
		for _, f := range decl.Fields {
			declared[f.Name] = true
		}
		seen := make(map[string]bool, len(ctor.Fields))
		for _, f := range ctor.Fields {
			if !declared[f.Name] {
				return diagnostics.New(diagnostics.Parse, file, ctor.Pos.Line, ctor.Pos.Col,
					"unknown field %q in constructor for %s", f.Name, ctor.TypeName)
			}
			if seen[f.Name] {
				return diagnostics.New(diagnostics.Parse, file, ctor.Pos.Line, ctor.Pos.Col,
					"duplicate field %q in constructor for %s", f.Name, ctor.TypeName)
			}
			seen[f.Name] = true
		}
		if len(seen) != len(declared) {
			return diagnostics.New(diagnostics.Parse, file, ctor.Pos.Line, ctor.Pos.Col,
				"constructor for %s is missing field(s)", ctor.TypeName)
		}
		return nil
	}

	for _, fn := range g.Functions {
		if err := walkStmt(fn.Body, check); err != nil {
			return err
		}
	}
	for _, fn := range g.Methods {
		if err := walkStmt(fn.Body, check); err != nil {
			return err
		}
	}
	if g.Chif != nil {
		if err := walkStmt(g.Chif.Body, check); err != nil {
			return err
		}
	}
	return nil
}

// walkExpr visits e and every sub-expression reachable from it,
// calling check on each node until one reports an error.
func walkExpr(e ast.Expr, check func(ast.Expr) *diagnostics.Error) *diagnostics.Error {
	if e == nil {
		return nil
	}
	if err := check(e); err != nil {
		return err
	}
	switch v := e.(type) {
	case *ast.UnaryExpr:
		return walkExpr(v.Right, check)
	case *ast.AddressOfExpr:
		return nil
	case *ast.DerefExpr:
		return walkExpr(v.Target, check)
	case *ast.BinaryExpr:
		if err := walkExpr(v.Left, check); err != nil {
			return err
		}
		return walkExpr(v.Right, check)
	case *ast.LogicalExpr:
		if err := walkExpr(v.Left, check); err != nil {
			return err
		}
		return walkExpr(v.Right, check)
	case *ast.FieldAccessExpr:
		return walkExpr(v.Object, check)
	case *ast.IndexExpr:
		if err := walkExpr(v.Object, check); err != nil {
			return err
		}
		return walkExpr(v.Index, check)
	case *ast.CallExpr:
		if err := walkExpr(v.Callee, check); err != nil {
			return err
		}
		for _, a := range v.Args {
			if err := walkExpr(a, check); err != nil {
				return err
			}
		}
		return nil
	case *ast.ConstructorExpr:
		for _, f := range v.Fields {
			if err := walkExpr(f.Value, check); err != nil {
				return err
			}
		}
		return nil
	case *ast.ArrayLit:
		for _, el := range v.Elements {
			if err := walkExpr(el, check); err != nil {
				return err
			}
		}
		return nil
	case *ast.MapLit:
		for _, en := range v.Entries {
			if err := walkExpr(en.Key, check); err != nil {
				return err
			}
			if err := walkExpr(en.Value, check); err != nil {
				return err
			}
		}
		return nil
	case *ast.InterpolatedString:
		for _, seg := range v.Segments {
			if seg.Expr != nil {
				if err := walkExpr(seg.Expr, check); err != nil {
					return err
				}
			}
		}
		return nil
	case *ast.GroupExpr:
		return walkExpr(v.Inner, check)
	default:
		return nil
	}
}

// walkStmt visits s and every statement/expression reachable from it.
func walkStmt(s ast.Stmt, check func(ast.Expr) *diagnostics.Error) *diagnostics.Error {
	if s == nil {
		return nil
	}
	switch v := s.(type) {
	case *ast.VarDecl:
		return walkExpr(v.Init, check)
	case *ast.Assign:
		if err := walkExpr(v.LValue, check); err != nil {
			return err
		}
		return walkExpr(v.RValue, check)
	case *ast.If:
		if err := walkExpr(v.Cond, check); err != nil {
			return err
		}
		if err := walkStmt(v.Then, check); err != nil {
			return err
		}
		return walkStmt(v.Else, check)
	case *ast.While:
		if err := walkExpr(v.Cond, check); err != nil {
			return err
		}
		return walkStmt(v.Body, check)
	case *ast.For:
		if err := walkStmt(v.Init, check); err != nil {
			return err
		}
		if err := walkExpr(v.Cond, check); err != nil {
			return err
		}
		if err := walkStmt(v.Step, check); err != nil {
			return err
		}
		return walkStmt(v.Body, check)
	case *ast.Switch:
		if err := walkExpr(v.Subject, check); err != nil {
			return err
		}
		for _, c := range v.Cases {
			if err := walkExpr(c.Label, check); err != nil {
				return err
			}
			if err := walkStmt(c.Body, check); err != nil {
				return err
			}
		}
		if v.Default != nil {
			return walkStmt(v.Default, check)
		}
		return nil
	case *ast.Return:
		return walkExpr(v.Expr, check)
	case *ast.ExprStmt:
		return walkExpr(v.Expr, check)
	case *ast.Block:
		for _, st := range v.Stmts {
			if err := walkStmt(st, check); err != nil {
				return err
			}
		}
		return nil
	default:
		return nil
	}
}
