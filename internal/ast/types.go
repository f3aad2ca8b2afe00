// Package ast defines the syntax tree produced by internal/parser:
// declarations, statements, expressions and the purely syntactic type
// annotations from spec.md §3.
package ast

import "fmt"

// Type is a syntactic type annotation. Parsing records declared types;
// full type verification is out of scope (spec.md §1 Non-goals).
type Type interface {
	typeNode()
	String() string
}

type IntType struct{}
type FloatType struct{}
type BoolType struct{}
type StrType struct{}
type NilType struct{}

// NamedType refers to a user-declared struct type by name.
type NamedType struct{ Name string }

// PointerType is the `pointer` type word. The parser accepts only the
// bare word, so Elem is always nil; there is no `*T` type syntax.
type PointerType struct{ Elem Type }

// ArrayType is `T[N]`: a fixed size known at parse time.
type ArrayType struct {
	Elem Type
	Size int
}

// ListType is `T[]`: a growable sequence.
type ListType struct{ Elem Type }

// MapType is `map[K:V]`.
type MapType struct {
	Key   Type
	Value Type
}

func (IntType) typeNode()      {}
func (FloatType) typeNode()    {}
func (BoolType) typeNode()     {}
func (StrType) typeNode()      {}
func (NilType) typeNode()      {}
func (NamedType) typeNode()    {}
func (PointerType) typeNode()  {}
func (ArrayType) typeNode()    {}
func (ListType) typeNode()     {}
func (MapType) typeNode()      {}

func (IntType) String() string     { return "int" }
func (FloatType) String() string   { return "float" }
func (BoolType) String() string    { return "bool" }
func (StrType) String() string     { return "str" }
func (NilType) String() string     { return "nil" }
func (t NamedType) String() string { return t.Name }
func (t PointerType) String() string {
	return fmt.Sprintf("pointer(%s)", t.Elem)
}
func (t ArrayType) String() string {
	return fmt.Sprintf("%s[%d]", t.Elem, t.Size)
}
func (t ListType) String() string {
	return fmt.Sprintf("%s[]", t.Elem)
}
func (t MapType) String() string {
	return fmt.Sprintf("map[%s:%s]", t.Key, t.Value)
}
