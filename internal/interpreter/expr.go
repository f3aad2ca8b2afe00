package interpreter

import (
	"strings"

	"github.com/rono-lang/rono/internal/ast"
	"github.com/rono-lang/rono/internal/diagnostics"
	"github.com/rono-lang/rono/internal/environment"
	"github.com/rono-lang/rono/internal/object"
	"github.com/rono-lang/rono/internal/token"
)

func (it *Interpreter) eval(expr ast.Expr, env *environment.Environment) (object.Value, *diagnostics.Error) {
	switch e := expr.(type) {
	case *ast.IntLit:
		return object.Int{V: e.Value}, nil
	case *ast.FloatLit:
		return object.Float{V: e.Value}, nil
	case *ast.BoolLit:
		return object.Bool{V: e.Value}, nil
	case *ast.NilLit:
		return object.Nil{}, nil
	case *ast.InterpolatedString:
		return it.evalInterpolated(e, env)
	case *ast.Identifier:
		v, ok := env.Get(e.Name)
		if !ok {
			return nil, it.runtimeErr(e.Pos, "undefined identifier: %s", e.Name)
		}
		return v, nil
	case *ast.SelfExpr:
		v, ok := env.Get("self")
		if !ok {
			return nil, it.runtimeErr(e.Pos, "'self' used outside a method")
		}
		return v, nil
	case *ast.UnaryExpr:
		return it.evalUnary(e, env)
	case *ast.AddressOfExpr:
		return it.evalAddressOf(e, env)
	case *ast.DerefExpr:
		return it.evalDeref(e, env)
	case *ast.BinaryExpr:
		return it.evalBinary(e, env)
	case *ast.LogicalExpr:
		return it.evalLogical(e, env)
	case *ast.FieldAccessExpr:
		return it.evalFieldAccess(e, env)
	case *ast.IndexExpr:
		return it.evalIndex(e, env)
	case *ast.CallExpr:
		return it.evalCall(e, env)
	case *ast.ConstructorExpr:
		return it.evalConstructor(e, env)
	case *ast.ArrayLit:
		return it.evalArrayLit(e, env)
	case *ast.MapLit:
		return it.evalMapLit(e, env)
	case *ast.GroupExpr:
		return it.eval(e.Inner, env)
	default:
		return nil, it.runtimeErr(token.Pos{}, "unsupported expression %T", expr)
	}
}

func (it *Interpreter) evalInterpolated(e *ast.InterpolatedString, env *environment.Environment) (object.Value, *diagnostics.Error) {
	var sb strings.Builder
	for _, seg := range e.Segments {
		if seg.Expr == nil {
			sb.WriteString(seg.Literal)
			continue
		}
		v, err := it.eval(seg.Expr, env)
		if err != nil {
			return nil, err
		}
		sb.WriteString(object.DebugString(v))
	}
	return object.Str{V: sb.String()}, nil
}

func (it *Interpreter) evalUnary(e *ast.UnaryExpr, env *environment.Environment) (object.Value, *diagnostics.Error) {
	v, err := it.eval(e.Right, env)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case token.BANG:
		b, ok := v.(object.Bool)
		if !ok {
			return nil, it.runtimeErr(e.Pos, "'!' requires a bool operand, got %s", v.Kind())
		}
		return object.Bool{V: !b.V}, nil
	case token.MINUS:
		switch n := v.(type) {
		case object.Int:
			return object.Int{V: -n.V}, nil
		case object.Float:
			return object.Float{V: -n.V}, nil
		default:
			return nil, it.runtimeErr(e.Pos, "unary '-' requires a numeric operand, got %s", v.Kind())
		}
	default:
		return nil, it.runtimeErr(e.Pos, "unsupported unary operator %s", e.Op)
	}
}

// evalAddressOf builds a pointer locating a named slot (spec.md §4.5);
// the parser only ever produces AddressOfExpr over a bare identifier.
func (it *Interpreter) evalAddressOf(e *ast.AddressOfExpr, env *environment.Environment) (object.Value, *diagnostics.Error) {
	owner, ok := env.Owner(e.Name)
	if !ok {
		return nil, it.runtimeErr(e.Pos, "undefined identifier: %s", e.Name)
	}
	binding := &environment.SlotBinding{Env: owner, Name: e.Name}
	if !binding.Mutable() {
		return nil, it.runtimeErr(e.Pos, "cannot take the address of immutable slot %q", e.Name)
	}
	return &object.Pointer{Loc: binding}, nil
}

func (it *Interpreter) evalDeref(e *ast.DerefExpr, env *environment.Environment) (object.Value, *diagnostics.Error) {
	v, err := it.eval(e.Target, env)
	if err != nil {
		return nil, err
	}
	ptr, ok := v.(*object.Pointer)
	if !ok {
		return nil, it.runtimeErr(e.Pos, "cannot dereference a non-pointer value of kind %s", v.Kind())
	}
	loaded, loadErr := ptr.Loc.Load()
	if loadErr != nil {
		return nil, it.runtimeErr(e.Pos, "%s", loadErr)
	}
	return loaded, nil
}

func (it *Interpreter) evalBinary(e *ast.BinaryExpr, env *environment.Environment) (object.Value, *diagnostics.Error) {
	l, err := it.eval(e.Left, env)
	if err != nil {
		return nil, err
	}
	r, err := it.eval(e.Right, env)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT:
		return it.arith(e.Op, l, r, e.Pos)
	case token.EQUAL_EQUAL:
		return object.Bool{V: object.Equal(l, r)}, nil
	case token.BANG_EQUAL:
		return object.Bool{V: !object.Equal(l, r)}, nil
	case token.LESS, token.LESS_EQUAL, token.GREATER, token.GREATER_EQUAL:
		return it.compare(e.Op, l, r, e.Pos)
	default:
		return nil, it.runtimeErr(e.Pos, "unsupported binary operator %s", e.Op)
	}
}

// arith implements spec.md §4.6's numeric tower: int op int stays int
// (computed in integer arithmetic, not rounded through float64);
// mixing an int and a float promotes to float.
func (it *Interpreter) arith(op token.Kind, l, r object.Value, pos token.Pos) (object.Value, *diagnostics.Error) {
	li, lIsInt := l.(object.Int)
	ri, rIsInt := r.(object.Int)
	_, lIsFloat := l.(object.Float)
	_, rIsFloat := r.(object.Float)

	if !(lIsInt || lIsFloat) || !(rIsInt || rIsFloat) {
		return nil, it.runtimeErr(pos, "arithmetic requires numeric operands, got %s and %s", l.Kind(), r.Kind())
	}

	if lIsInt && rIsInt {
		a, b := li.V, ri.V
		switch op {
		case token.PLUS:
			return object.Int{V: a + b}, nil
		case token.MINUS:
			return object.Int{V: a - b}, nil
		case token.STAR:
			return object.Int{V: a * b}, nil
		case token.SLASH:
			if b == 0 {
				return nil, it.runtimeErr(pos, "division by zero")
			}
			return object.Int{V: a / b}, nil
		case token.PERCENT:
			if b == 0 {
				return nil, it.runtimeErr(pos, "division by zero")
			}
			return object.Int{V: a % b}, nil
		}
	}

	if op == token.PERCENT {
		return nil, it.runtimeErr(pos, "modulo requires integer operands, got %s and %s", l.Kind(), r.Kind())
	}

	a, _, _ := object.NumberOf(l)
	b, _, _ := object.NumberOf(r)
	switch op {
	case token.PLUS:
		return object.Float{V: a + b}, nil
	case token.MINUS:
		return object.Float{V: a - b}, nil
	case token.STAR:
		return object.Float{V: a * b}, nil
	case token.SLASH:
		if b == 0 {
			return nil, it.runtimeErr(pos, "division by zero")
		}
		return object.Float{V: a / b}, nil
	default:
		return nil, it.runtimeErr(pos, "unsupported arithmetic operator %s", op)
	}
}

// compare implements spec.md §4.6: numeric comparisons promote like
// arith; strings compare lexicographically; every other pairing is a
// type-mismatch runtime error (bool only supports ==/!=, handled in
// evalBinary before reaching here).
func (it *Interpreter) compare(op token.Kind, l, r object.Value, pos token.Pos) (object.Value, *diagnostics.Error) {
	ls, lIsStr := l.(object.Str)
	rs, rIsStr := r.(object.Str)
	if lIsStr && rIsStr {
		switch op {
		case token.LESS:
			return object.Bool{V: ls.V < rs.V}, nil
		case token.LESS_EQUAL:
			return object.Bool{V: ls.V <= rs.V}, nil
		case token.GREATER:
			return object.Bool{V: ls.V > rs.V}, nil
		case token.GREATER_EQUAL:
			return object.Bool{V: ls.V >= rs.V}, nil
		}
	}

	a, _, lIsNum := object.NumberOf(l)
	b, _, rIsNum := object.NumberOf(r)
	if lIsNum && rIsNum {
		switch op {
		case token.LESS:
			return object.Bool{V: a < b}, nil
		case token.LESS_EQUAL:
			return object.Bool{V: a <= b}, nil
		case token.GREATER:
			return object.Bool{V: a > b}, nil
		case token.GREATER_EQUAL:
			return object.Bool{V: a >= b}, nil
		}
	}

	return nil, it.runtimeErr(pos, "cannot compare %s and %s", l.Kind(), r.Kind())
}

func (it *Interpreter) evalLogical(e *ast.LogicalExpr, env *environment.Environment) (object.Value, *diagnostics.Error) {
	l, err := it.eval(e.Left, env)
	if err != nil {
		return nil, err
	}
	lv, ok := object.Truthy(l)
	if !ok {
		return nil, it.runtimeErr(e.Pos, "logical operator requires bool operands, got %s", l.Kind())
	}
	if e.Op == token.OR_OR && lv {
		return object.Bool{V: true}, nil
	}
	if e.Op == token.AND_AND && !lv {
		return object.Bool{V: false}, nil
	}
	r, err := it.eval(e.Right, env)
	if err != nil {
		return nil, err
	}
	rv, ok := object.Truthy(r)
	if !ok {
		return nil, it.runtimeErr(e.Pos, "logical operator requires bool operands, got %s", r.Kind())
	}
	return object.Bool{V: rv}, nil
}

func (it *Interpreter) evalFieldAccess(e *ast.FieldAccessExpr, env *environment.Environment) (object.Value, *diagnostics.Error) {
	obj, err := it.eval(e.Object, env)
	if err != nil {
		return nil, err
	}
	st, ok := obj.(*object.Struct)
	if !ok {
		return nil, it.runtimeErr(e.Pos, "field access on non-struct value of kind %s", obj.Kind())
	}
	v, ok := st.Ref.Fields[e.Name]
	if !ok {
		return nil, it.runtimeErr(e.Pos, "unknown field %q on %s", e.Name, st.Ref.TypeName)
	}
	return v, nil
}

func (it *Interpreter) evalIndex(e *ast.IndexExpr, env *environment.Environment) (object.Value, *diagnostics.Error) {
	obj, err := it.eval(e.Object, env)
	if err != nil {
		return nil, err
	}
	idx, err := it.eval(e.Index, env)
	if err != nil {
		return nil, err
	}
	switch c := obj.(type) {
	case *object.List:
		i, ierr := indexOf(idx)
		if ierr != nil {
			return nil, it.runtimeErr(e.Pos, "%s", ierr)
		}
		if i < 0 || i >= len(c.Ref.Elements) {
			return nil, it.runtimeErr(e.Pos, "index %d out of range (len %d)", i, len(c.Ref.Elements))
		}
		return c.Ref.Elements[i], nil
	case *object.Array:
		i, ierr := indexOf(idx)
		if ierr != nil {
			return nil, it.runtimeErr(e.Pos, "%s", ierr)
		}
		if i < 0 || i >= len(c.Ref.Elements) {
			return nil, it.runtimeErr(e.Pos, "index %d out of range (len %d)", i, len(c.Ref.Elements))
		}
		return c.Ref.Elements[i], nil
	case *object.Map:
		key := mapKeyString(idx)
		v, ok := c.Ref.Get(key)
		if !ok {
			return nil, it.runtimeErr(e.Pos, "unknown map key %q", key)
		}
		return v, nil
	default:
		return nil, it.runtimeErr(e.Pos, "index operator on non-collection value of kind %s", obj.Kind())
	}
}

// evalConstructor builds a fresh StructRef per literal (spec.md §4.6
// "constructor literal copies"). Primitive fields are Go value types,
// so assigning them into the new Fields map already copies rather than
// aliases; container-typed fields alias their source, matching the
// language's "containers are shared by reference" rule.
func (it *Interpreter) evalConstructor(e *ast.ConstructorExpr, env *environment.Environment) (object.Value, *diagnostics.Error) {
	decl, ok := it.globals.Structs[e.TypeName]
	if !ok {
		return nil, it.runtimeErr(e.Pos, "unknown struct type %q", e.TypeName)
	}
	order := make([]string, len(decl.Fields))
	for i, f := range decl.Fields {
		order[i] = f.Name
	}
	ref := object.NewStructRef(e.TypeName, order)
	for _, f := range e.Fields {
		v, err := it.eval(f.Value, env)
		if err != nil {
			return nil, err
		}
		ref.Fields[f.Name] = v
	}
	return &object.Struct{Ref: ref}, nil
}

func (it *Interpreter) evalArrayLit(e *ast.ArrayLit, env *environment.Environment) (object.Value, *diagnostics.Error) {
	elems := make([]object.Value, len(e.Elements))
	for i, el := range e.Elements {
		v, err := it.eval(el, env)
		if err != nil {
			return nil, err
		}
		elems[i] = v
	}
	return &object.Array{Ref: object.NewArrayRef("", elems)}, nil
}

func (it *Interpreter) evalMapLit(e *ast.MapLit, env *environment.Environment) (object.Value, *diagnostics.Error) {
	ref := object.NewMapRef()
	for _, entry := range e.Entries {
		k, err := it.eval(entry.Key, env)
		if err != nil {
			return nil, err
		}
		v, err := it.eval(entry.Value, env)
		if err != nil {
			return nil, err
		}
		ref.Set(mapKeyString(k), v)
	}
	return &object.Map{Ref: ref}, nil
}

func indexOf(v object.Value) (int, error) {
	n, ok := v.(object.Int)
	if !ok {
		return 0, indexTypeErr(v)
	}
	return int(n.V), nil
}

func indexTypeErr(v object.Value) error {
	return &indexErr{kind: v.Kind().String()}
}

type indexErr struct{ kind string }

func (e *indexErr) Error() string { return "index expects an int, got " + e.kind }

// mapKeyString turns an evaluated key expression into the string key a
// MapRef actually stores under: strings are used verbatim, anything
// else falls back to its display form, since spec.md only shows
// string-keyed map literals.
func mapKeyString(v object.Value) string {
	if s, ok := v.(object.Str); ok {
		return s.V
	}
	return v.String()
}
