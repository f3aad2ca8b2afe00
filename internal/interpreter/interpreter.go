// Package interpreter is Rono's tree-walking evaluator (spec.md §4.6):
// single-threaded, synchronous, starting at the module's chif main.
package interpreter

import (
	"github.com/rono-lang/rono/internal/ast"
	"github.com/rono-lang/rono/internal/builtin"
	"github.com/rono-lang/rono/internal/diagnostics"
	"github.com/rono-lang/rono/internal/environment"
	"github.com/rono-lang/rono/internal/object"
	"github.com/rono-lang/rono/internal/token"
)

// Interpreter holds the resolved program's global scope and the
// built-in registry it consults before any user namespace (spec.md
// §4.6 "Built-in dispatch").
type Interpreter struct {
	globals  *environment.Globals
	builtins *builtin.Registry
	// rootFile labels every runtime diagnostic. Declarations pulled in
	// from imported files are not individually tagged with their own
	// source path once merged into globals, so a runtime error inside
	// an imported function is reported against the root file rather
	// than the file that actually declared it — an accepted precision
	// tradeoff recorded in DESIGN.md.
	rootFile string
}

// New constructs an Interpreter over an already-resolved module.
func New(g *environment.Globals, builtins *builtin.Registry, rootFile string) *Interpreter {
	return &Interpreter{globals: g, builtins: builtins, rootFile: rootFile}
}

// Run validates every constructor literal against its struct
// declaration, then executes chif main to completion.
func Run(g *environment.Globals, builtins *builtin.Registry, rootFile string) *diagnostics.Error {
	if err := ValidateConstructors(g, rootFile); err != nil {
		return err
	}
	it := New(g, builtins, rootFile)
	_, err := it.execBlock(g.Chif.Body, g.Environment.Child())
	return err
}

// sigKind tags how a statement's execution wants to unwind: normally,
// or to the nearest loop (break/continue) or function call (return).
type sigKind int

const (
	sigNone sigKind = iota
	sigBreak
	sigContinue
	sigReturn
)

type signal struct {
	kind  sigKind
	value object.Value
}

// execBlock runs a block's statements directly in env — callers that
// want a fresh lexical scope pass env.Child(); callFn intentionally
// does not, so a function's parameters and its top-level locals share
// one scope.
func (it *Interpreter) execBlock(b *ast.Block, env *environment.Environment) (signal, *diagnostics.Error) {
	for _, stmt := range b.Stmts {
		sig, err := it.exec(stmt, env)
		if err != nil {
			return signal{}, err
		}
		if sig.kind != sigNone {
			return sig, nil
		}
	}
	return signal{}, nil
}

func (it *Interpreter) exec(stmt ast.Stmt, env *environment.Environment) (signal, *diagnostics.Error) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		return signal{}, it.execVarDecl(s, env)
	case *ast.Assign:
		rv, err := it.eval(s.RValue, env)
		if err != nil {
			return signal{}, err
		}
		return signal{}, it.assignTo(s.LValue, rv, env)
	case *ast.If:
		return it.execIf(s, env)
	case *ast.While:
		return it.execWhile(s, env)
	case *ast.For:
		return it.execFor(s, env)
	case *ast.Switch:
		return it.execSwitch(s, env)
	case *ast.Return:
		if s.Expr == nil {
			return signal{kind: sigReturn, value: object.Nil{}}, nil
		}
		v, err := it.eval(s.Expr, env)
		if err != nil {
			return signal{}, err
		}
		return signal{kind: sigReturn, value: v}, nil
	case *ast.Break:
		return signal{kind: sigBreak}, nil
	case *ast.Continue:
		return signal{kind: sigContinue}, nil
	case *ast.ExprStmt:
		if _, err := it.eval(s.Expr, env); err != nil {
			return signal{}, err
		}
		return signal{}, nil
	case *ast.Block:
		return it.execBlock(s, env.Child())
	default:
		return signal{}, it.runtimeErr(token.Pos{}, "unsupported statement %T", stmt)
	}
}

func (it *Interpreter) execVarDecl(s *ast.VarDecl, env *environment.Environment) *diagnostics.Error {
	if env.Declared(s.Name) {
		return it.runtimeErr(s.Pos, "name %q is already declared in this scope", s.Name)
	}
	var val object.Value = object.Nil{}
	if s.Init != nil {
		v, err := it.eval(s.Init, env)
		if err != nil {
			return err
		}
		val = materialize(s.Keyword, s.DeclaredType, v)
	}
	env.Define(s.Name, s.Mutable, s.DeclaredType, val)
	return nil
}

// materialize bridges an array-literal value into the heap-cell kind
// its declaration calls for. An ArrayLit always evaluates to an
// *object.Array regardless of which keyword introduced the
// declaration, so `list a = [1,2,3]` — with no `: int[]` annotation at
// all — must still key off the `list` keyword itself to become a
// growable *object.List; falling back to DeclaredType alone would
// leave it an *object.Array and strand the `.add`/`.del`/`.addAt`
// intrinsics.
func materialize(keyword token.Kind, declaredType ast.Type, v object.Value) object.Value {
	arr, ok := v.(*object.Array)
	if !ok {
		return v
	}
	if keyword == token.ARRAY {
		return v
	}
	if lt, ok := declaredType.(ast.ListType); keyword == token.LIST || ok {
		elemType := ""
		if ok {
			elemType = lt.Elem.String()
		}
		elems := append([]object.Value(nil), arr.Ref.Elements...)
		return &object.List{Ref: object.NewListRef(elemType, elems)}
	}
	return v
}

func (it *Interpreter) execIf(s *ast.If, env *environment.Environment) (signal, *diagnostics.Error) {
	cond, err := it.eval(s.Cond, env)
	if err != nil {
		return signal{}, err
	}
	b, ok := cond.(object.Bool)
	if !ok {
		return signal{}, it.runtimeErr(s.Pos, "if condition must be bool, got %s", cond.Kind())
	}
	if b.V {
		return it.execBlock(s.Then, env.Child())
	}
	if s.Else != nil {
		return it.exec(s.Else, env)
	}
	return signal{}, nil
}

func (it *Interpreter) execWhile(s *ast.While, env *environment.Environment) (signal, *diagnostics.Error) {
	for {
		cond, err := it.eval(s.Cond, env)
		if err != nil {
			return signal{}, err
		}
		b, ok := cond.(object.Bool)
		if !ok {
			return signal{}, it.runtimeErr(s.Pos, "while condition must be bool, got %s", cond.Kind())
		}
		if !b.V {
			return signal{}, nil
		}
		sig, err := it.execBlock(s.Body, env.Child())
		if err != nil {
			return signal{}, err
		}
		switch sig.kind {
		case sigBreak:
			return signal{}, nil
		case sigReturn:
			return sig, nil
		}
	}
}

func (it *Interpreter) execFor(s *ast.For, env *environment.Environment) (signal, *diagnostics.Error) {
	loopEnv := env.Child()

	if s.Init != nil {
		assign := s.Init.(*ast.Assign)
		ident := assign.LValue.(*ast.Identifier)
		v, err := it.eval(assign.RValue, loopEnv)
		if err != nil {
			return signal{}, err
		}
		if _, exists := loopEnv.Get(ident.Name); exists {
			if err := it.assignTo(ident, v, loopEnv); err != nil {
				return signal{}, err
			}
		} else {
			loopEnv.Define(ident.Name, true, nil, v)
		}
	}

	for {
		if s.Cond != nil {
			cond, err := it.eval(s.Cond, loopEnv)
			if err != nil {
				return signal{}, err
			}
			b, ok := cond.(object.Bool)
			if !ok {
				return signal{}, it.runtimeErr(s.Pos, "for condition must be bool, got %s", cond.Kind())
			}
			if !b.V {
				return signal{}, nil
			}
		}

		sig, err := it.execBlock(s.Body, loopEnv.Child())
		if err != nil {
			return signal{}, err
		}
		if sig.kind == sigBreak {
			return signal{}, nil
		}
		if sig.kind == sigReturn {
			return sig, nil
		}

		if s.Step != nil {
			step := s.Step.(*ast.Assign)
			v, err := it.eval(step.RValue, loopEnv)
			if err != nil {
				return signal{}, err
			}
			if err := it.assignTo(step.LValue, v, loopEnv); err != nil {
				return signal{}, err
			}
		}
	}
}

func (it *Interpreter) execSwitch(s *ast.Switch, env *environment.Environment) (signal, *diagnostics.Error) {
	subject, err := it.eval(s.Subject, env)
	if err != nil {
		return signal{}, err
	}
	for _, c := range s.Cases {
		label, err := it.eval(c.Label, env)
		if err != nil {
			return signal{}, err
		}
		if object.Equal(subject, label) {
			return it.execBlock(c.Body, env.Child())
		}
	}
	if s.Default != nil {
		return it.execBlock(s.Default, env.Child())
	}
	return signal{}, nil
}

// assignTo writes v through an lvalue — identifier, field, index, or
// pointer dereference (spec.md §4.5, §4.6). The parser restricts which
// expression shapes reach here (stmt.go's isAssignable).
func (it *Interpreter) assignTo(lvalue ast.Expr, v object.Value, env *environment.Environment) *diagnostics.Error {
	switch lv := lvalue.(type) {
	case *ast.Identifier:
		if err := env.Assign(lv.Name, v); err != nil {
			return it.runtimeErr(lv.Pos, "%s", err)
		}
		return nil

	case *ast.FieldAccessExpr:
		obj, err := it.eval(lv.Object, env)
		if err != nil {
			return err
		}
		st, ok := obj.(*object.Struct)
		if !ok {
			return it.runtimeErr(lv.Pos, "field assignment on non-struct value of kind %s", obj.Kind())
		}
		if _, exists := st.Ref.Fields[lv.Name]; !exists {
			return it.runtimeErr(lv.Pos, "unknown field %q on %s", lv.Name, st.Ref.TypeName)
		}
		st.Ref.Fields[lv.Name] = v
		return nil

	case *ast.IndexExpr:
		obj, err := it.eval(lv.Object, env)
		if err != nil {
			return err
		}
		idx, err := it.eval(lv.Index, env)
		if err != nil {
			return err
		}
		switch c := obj.(type) {
		case *object.List:
			i, ierr := indexOf(idx)
			if ierr != nil {
				return it.runtimeErr(lv.Pos, "%s", ierr)
			}
			if i < 0 || i >= len(c.Ref.Elements) {
				return it.runtimeErr(lv.Pos, "index %d out of range (len %d)", i, len(c.Ref.Elements))
			}
			c.Ref.Elements[i] = v
			return nil
		case *object.Array:
			i, ierr := indexOf(idx)
			if ierr != nil {
				return it.runtimeErr(lv.Pos, "%s", ierr)
			}
			if i < 0 || i >= len(c.Ref.Elements) {
				return it.runtimeErr(lv.Pos, "index %d out of range (len %d)", i, len(c.Ref.Elements))
			}
			c.Ref.Elements[i] = v
			return nil
		case *object.Map:
			c.Ref.Set(mapKeyString(idx), v)
			return nil
		default:
			return it.runtimeErr(lv.Pos, "index assignment on non-collection value of kind %s", obj.Kind())
		}

	case *ast.DerefExpr:
		pv, err := it.eval(lv.Target, env)
		if err != nil {
			return err
		}
		ptr, ok := pv.(*object.Pointer)
		if !ok {
			return it.runtimeErr(lv.Pos, "cannot dereference a non-pointer value of kind %s", pv.Kind())
		}
		if storeErr := ptr.Loc.Store(v); storeErr != nil {
			return it.runtimeErr(lv.Pos, "%s", storeErr)
		}
		return nil

	default:
		return it.runtimeErr(token.Pos{}, "invalid assignment target")
	}
}

func (it *Interpreter) runtimeErr(pos token.Pos, format string, args ...any) *diagnostics.Error {
	return diagnostics.New(diagnostics.Runtime, it.rootFile, pos.Line, pos.Col, format, args...)
}
