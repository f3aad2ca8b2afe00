// Package object implements Rono's runtime value model: the tagged
// Value variants from spec.md §3 "Runtime values", heap cells for
// collections and struct instances, and the Binding locator that
// backs pointer semantics (spec.md §4.5).
package object

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind tags a Value's runtime type, used for comparisons, type-mismatch
// diagnostics, and method/field dispatch.
type Kind int

const (
	NilKind Kind = iota
	IntKind
	FloatKind
	BoolKind
	StrKind
	StructKind
	ListKind
	ArrayKind
	MapKind
	PointerKind
	BuiltinFnKind
)

func (k Kind) String() string {
	switch k {
	case NilKind:
		return "nil"
	case IntKind:
		return "int"
	case FloatKind:
		return "float"
	case BoolKind:
		return "bool"
	case StrKind:
		return "str"
	case StructKind:
		return "struct"
	case ListKind:
		return "list"
	case ArrayKind:
		return "array"
	case MapKind:
		return "map"
	case PointerKind:
		return "pointer"
	case BuiltinFnKind:
		return "builtin"
	default:
		return "unknown"
	}
}

// Value is the common interface implemented by every Rono runtime
// value. String() implements the "Value formatting" rules of spec.md
// §6, used for both con.out and string interpolation.
type Value interface {
	Kind() Kind
	String() string
}

type Nil struct{}

func (Nil) Kind() Kind     { return NilKind }
func (Nil) String() string { return "nil" }

type Int struct{ V int64 }

func (Int) Kind() Kind       { return IntKind }
func (v Int) String() string { return strconv.FormatInt(v.V, 10) }

type Float struct{ V float64 }

func (Float) Kind() Kind { return FloatKind }

// String renders with a stable default: shortest round-tripping
// decimal representation, always carrying a fractional part — matching
// the teacher lexer's own numberLiteral normalization ("append .0 if
// no '.' present"), which spec.md §9 leaves as an implementation
// choice.
func (v Float) String() string {
	s := strconv.FormatFloat(v.V, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

type Bool struct{ V bool }

func (Bool) Kind() Kind { return BoolKind }
func (v Bool) String() string { return strconv.FormatBool(v.V) }

type Str struct{ V string }

func (Str) Kind() Kind { return StrKind }
func (v Str) String() string { return v.V }

// Truthy implements spec.md §4.6 short-circuit semantics' operand
// requirement: only Bool values participate in &&/||; everything else
// is a type error at the call site, decided by the interpreter.
func Truthy(v Value) (bool, bool) {
	b, ok := v.(Bool)
	return b.V, ok
}

// NumberOf extracts a float64 from an Int or Float, with a flag
// reporting whether the operand was originally an Int (used for the
// numeric tower's int/int -> int rule in binary arithmetic).
func NumberOf(v Value) (value float64, wasInt bool, ok bool) {
	switch n := v.(type) {
	case Int:
		return float64(n.V), true, true
	case Float:
		return n.V, false, true
	default:
		return 0, false, false
	}
}

// Equal implements structural equality: containers compare by
// contents/identity-of-reference is never observable per spec.md §4.5.
func Equal(a, b Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case Nil:
		return true
	case Int:
		return av.V == b.(Int).V
	case Float:
		return av.V == b.(Float).V
	case Bool:
		return av.V == b.(Bool).V
	case Str:
		return av.V == b.(Str).V
	case *Struct:
		bv := b.(*Struct)
		if av.Ref.TypeName != bv.Ref.TypeName || len(av.Ref.Order) != len(bv.Ref.Order) {
			return false
		}
		for _, name := range av.Ref.Order {
			bf, ok := bv.Ref.Fields[name]
			if !ok || !Equal(av.Ref.Fields[name], bf) {
				return false
			}
		}
		return true
	case *List:
		bv := b.(*List)
		if len(av.Ref.Elements) != len(bv.Ref.Elements) {
			return false
		}
		for i := range av.Ref.Elements {
			if !Equal(av.Ref.Elements[i], bv.Ref.Elements[i]) {
				return false
			}
		}
		return true
	case *Array:
		bv := b.(*Array)
		if len(av.Ref.Elements) != len(bv.Ref.Elements) {
			return false
		}
		for i := range av.Ref.Elements {
			if !Equal(av.Ref.Elements[i], bv.Ref.Elements[i]) {
				return false
			}
		}
		return true
	case *Map:
		bv := b.(*Map)
		if len(av.Ref.Entries) != len(bv.Ref.Entries) {
			return false
		}
		for k, v := range av.Ref.Entries {
			bvv, ok := bv.Ref.Entries[k]
			if !ok || !Equal(v, bvv) {
				return false
			}
		}
		return true
	case *Pointer:
		bv := b.(*Pointer)
		return av.Loc.String() == bv.Loc.String()
	default:
		return false
	}
}

// DebugString renders composites for interpolation/con.out per
// spec.md §6 ("implementation-defined debug rendering").
func DebugString(v Value) string {
	switch val := v.(type) {
	case *Struct:
		var sb strings.Builder
		sb.WriteString(val.Ref.TypeName + "{")
		for i, name := range val.Ref.Order {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(name + ": " + val.Ref.Fields[name].String())
		}
		sb.WriteString("}")
		return sb.String()
	case *List:
		return renderSeq(val.Ref.Elements)
	case *Array:
		return renderSeq(val.Ref.Elements)
	case *Map:
		var sb strings.Builder
		sb.WriteString("{")
		first := true
		for _, k := range val.Ref.KeyOrder {
			if !first {
				sb.WriteString(", ")
			}
			first = false
			sb.WriteString(fmt.Sprintf("%q: %s", k, val.Ref.Entries[k].String()))
		}
		sb.WriteString("}")
		return sb.String()
	default:
		return v.String()
	}
}

func renderSeq(elems []Value) string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, e := range elems {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(e.String())
	}
	sb.WriteString("]")
	return sb.String()
}
