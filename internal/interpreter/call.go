package interpreter

import (
	"github.com/rono-lang/rono/internal/ast"
	"github.com/rono-lang/rono/internal/diagnostics"
	"github.com/rono-lang/rono/internal/environment"
	"github.com/rono-lang/rono/internal/object"
)

// evalCall dispatches a call expression in this order (spec.md §4.6
// "Built-in dispatch"): a bare or qualified built-in name, then a
// free/namespaced function, then a collection intrinsic, then finally
// a user-defined method on the receiver's type. A name is only treated
// as a built-in/namespace reference when it is not shadowed by an
// actual variable in scope.
func (it *Interpreter) evalCall(call *ast.CallExpr, env *environment.Environment) (object.Value, *diagnostics.Error) {
	switch callee := call.Callee.(type) {
	case *ast.Identifier:
		if _, isVar := env.Get(callee.Name); !isVar {
			if fn, ok := it.builtins.Lookup(callee.Name); ok {
				args, err := it.evalArgs(call.Args, env)
				if err != nil {
					return nil, err
				}
				return it.callBuiltin(fn, args, call)
			}
			if decl, ok := it.globals.Functions[callee.Name]; ok {
				args, err := it.evalArgs(call.Args, env)
				if err != nil {
					return nil, err
				}
				return it.callFn(decl, nil, args, call)
			}
		}
		return nil, it.runtimeErr(call.Pos, "undefined function %q", callee.Name)

	case *ast.FieldAccessExpr:
		if objIdent, ok := callee.Object.(*ast.Identifier); ok {
			if _, isVar := env.Get(objIdent.Name); !isVar {
				qualified := objIdent.Name + "." + callee.Name
				if fn, ok := it.builtins.Lookup(qualified); ok {
					args, err := it.evalArgs(call.Args, env)
					if err != nil {
						return nil, err
					}
					return it.callBuiltin(fn, args, call)
				}
				if ns, ok := it.globals.Namespaces[objIdent.Name]; ok {
					decl, ok := ns.Functions[callee.Name]
					if !ok {
						return nil, it.runtimeErr(call.Pos, "undefined function %q in namespace %q", callee.Name, objIdent.Name)
					}
					args, err := it.evalArgs(call.Args, env)
					if err != nil {
						return nil, err
					}
					return it.callFn(decl, nil, args, call)
				}
			}
		}

		recv, err := it.eval(callee.Object, env)
		if err != nil {
			return nil, err
		}
		args, err := it.evalArgs(call.Args, env)
		if err != nil {
			return nil, err
		}
		if v, handled, ierr := it.callIntrinsic(recv, callee.Name, args, call); handled {
			return v, ierr
		}
		decl, ok := it.globals.FindMethod(typeNameOf(recv), callee.Name)
		if !ok {
			return nil, it.runtimeErr(call.Pos, "unknown method %q on %s", callee.Name, typeNameOf(recv))
		}
		return it.callFn(decl, recv, args, call)

	default:
		return nil, it.runtimeErr(call.Pos, "expression is not callable")
	}
}

func (it *Interpreter) evalArgs(exprs []ast.Expr, env *environment.Environment) ([]object.Value, *diagnostics.Error) {
	args := make([]object.Value, len(exprs))
	for i, a := range exprs {
		v, err := it.eval(a, env)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

func (it *Interpreter) callBuiltin(fn *object.BuiltinFn, args []object.Value, call *ast.CallExpr) (object.Value, *diagnostics.Error) {
	if fn.Arity >= 0 && len(args) != fn.Arity {
		return nil, it.runtimeErr(call.Pos, "%s expects %d argument(s), got %d", fn.Name, fn.Arity, len(args))
	}
	v, err := fn.Impl(args)
	if err != nil {
		return nil, it.runtimeErr(call.Pos, "%s", err)
	}
	return v, nil
}

// callFn runs a user-defined function or method to completion. Its
// scope is rooted directly at the module's globals rather than any
// lexical call-site scope: Rono's functions are global values, not
// closures over an enclosing block (spec.md §4.6). Struct receivers
// are already reference-typed (object.Struct wraps a shared
// *StructRef), so binding `self` to the receiver value is enough for
// `self.field = ...` inside a method to mutate the caller's instance
// directly — no separate locator plumbing is needed for self.
func (it *Interpreter) callFn(decl *ast.FnDecl, receiver object.Value, args []object.Value, call *ast.CallExpr) (object.Value, *diagnostics.Error) {
	if len(args) != len(decl.Params) {
		return nil, it.runtimeErr(call.Pos, "%s expects %d argument(s), got %d", decl.Name, len(decl.Params), len(args))
	}

	fnEnv := it.globals.Environment.Child()
	if decl.HasSelf {
		fnEnv.Define("self", false, nil, receiver)
	}
	for i, p := range decl.Params {
		fnEnv.Define(p.Name, true, p.Type, args[i])
	}

	sig, err := it.execBlock(decl.Body, fnEnv)
	if err != nil {
		return nil, err
	}
	if sig.kind == sigReturn {
		return sig.value, nil
	}
	return object.Nil{}, nil
}

// callIntrinsic dispatches the host-implemented operations every
// collection (and str's len) carries regardless of namespace (spec.md
// §4.6's intrinsic table): len/add/addAt/del. handled is false when
// name isn't one of these for recv's kind, letting the caller fall
// back to a user-defined method lookup.
func (it *Interpreter) callIntrinsic(recv object.Value, name string, args []object.Value, call *ast.CallExpr) (object.Value, bool, *diagnostics.Error) {
	switch r := recv.(type) {
	case object.Str:
		if name == "len" {
			return object.Int{V: int64(len(r.V))}, true, nil
		}
	case *object.List:
		switch name {
		case "len":
			return object.Int{V: int64(r.Ref.Len())}, true, nil
		case "add":
			if len(args) != 1 {
				return nil, true, it.runtimeErr(call.Pos, "add expects 1 argument, got %d", len(args))
			}
			r.Ref.Add(args[0])
			return object.Nil{}, true, nil
		case "addAt":
			if len(args) != 2 {
				return nil, true, it.runtimeErr(call.Pos, "addAt expects 2 arguments, got %d", len(args))
			}
			i, ierr := indexOf(args[1])
			if ierr != nil {
				return nil, true, it.runtimeErr(call.Pos, "%s", ierr)
			}
			if err := r.Ref.AddAt(args[0], i); err != nil {
				return nil, true, it.runtimeErr(call.Pos, "%s", err)
			}
			return object.Nil{}, true, nil
		case "del":
			if len(args) != 1 {
				return nil, true, it.runtimeErr(call.Pos, "del expects 1 argument, got %d", len(args))
			}
			i, ierr := indexOf(args[0])
			if ierr != nil {
				return nil, true, it.runtimeErr(call.Pos, "%s", ierr)
			}
			if err := r.Ref.Del(i); err != nil {
				return nil, true, it.runtimeErr(call.Pos, "%s", err)
			}
			return object.Nil{}, true, nil
		}
	case *object.Array:
		if name == "len" {
			return object.Int{V: int64(r.Ref.Len())}, true, nil
		}
	case *object.Map:
		if name == "len" {
			return object.Int{V: int64(r.Ref.Len())}, true, nil
		}
	}
	return nil, false, nil
}

func typeNameOf(v object.Value) string {
	switch t := v.(type) {
	case *object.Struct:
		return t.Ref.TypeName
	case *object.List:
		return "list"
	case *object.Array:
		return "array"
	case *object.Map:
		return "map"
	default:
		return v.Kind().String()
	}
}
