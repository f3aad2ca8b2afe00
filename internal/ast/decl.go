package ast

import (
	"strings"

	"github.com/rono-lang/rono/internal/token"
)

// Decl is a top-level item: import, struct, impl block, function, or
// the program's single chif entry point (spec.md §3 "AST").
type Decl interface {
	declNode()
	String() string
}

// Program is the ordered sequence of top-level items in one source
// file, before module resolution merges imported namespaces in.
type Program struct {
	Items []Decl
}

func (p *Program) String() string {
	var sb strings.Builder
	for _, item := range p.Items {
		sb.WriteString(item.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

// ImportDecl is `import "path"` or `import "path" as alias`.
type ImportDecl struct {
	Path  string
	Alias string // "" if not aliased
	Pos   token.Pos
}

func (*ImportDecl) declNode() {}
func (d *ImportDecl) String() string {
	if d.Alias != "" {
		return "import \"" + d.Path + "\" as " + d.Alias
	}
	return "import \"" + d.Path + "\""
}

// FieldDecl is one ordered (name, type) pair of a struct.
type FieldDecl struct {
	Name string
	Type Type
}

// StructDecl declares a named struct type and its ordered fields.
type StructDecl struct {
	Name   string
	Fields []FieldDecl
	Pos    token.Pos
}

func (*StructDecl) declNode() {}
func (d *StructDecl) String() string {
	var sb strings.Builder
	sb.WriteString("struct " + d.Name + " {")
	for i, f := range d.Fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(f.Name + ": " + f.Type.String())
	}
	sb.WriteString("}")
	return sb.String()
}

// Param is one (name, type) function parameter. The first parameter of
// a method may be the bare word `self`, recorded via FnDecl.HasSelf
// rather than as a Param.
type Param struct {
	Name string
	Type Type
}

// FnDecl is `fn name(params) ReturnType? { body }`.
type FnDecl struct {
	Name       string
	HasSelf    bool // true if declared inside fn_for with a leading `self`
	Params     []Param
	ReturnType Type // NilType{} if omitted
	Body       *Block
	Pos        token.Pos
}

func (*FnDecl) declNode() {}
func (d *FnDecl) String() string {
	var sb strings.Builder
	sb.WriteString("fn " + d.Name + "(")
	if d.HasSelf {
		sb.WriteString("self")
		if len(d.Params) > 0 {
			sb.WriteString(", ")
		}
	}
	for i, p := range d.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.Name + ": " + p.Type.String())
	}
	sb.WriteString(") ")
	if _, isNil := d.ReturnType.(NilType); !isNil {
		sb.WriteString(d.ReturnType.String() + " ")
	}
	sb.WriteString(d.Body.String())
	return sb.String()
}

// ImplBlock is `fn_for TypeName { fn ... }`: a group of methods that
// register under TypeName in the global method table.
type ImplBlock struct {
	TypeName string
	Methods  []*FnDecl
	Pos      token.Pos
}

func (*ImplBlock) declNode() {}
func (d *ImplBlock) String() string {
	var sb strings.Builder
	sb.WriteString("fn_for " + d.TypeName + " {\n")
	for _, m := range d.Methods {
		sb.WriteString("  " + m.String() + "\n")
	}
	sb.WriteString("}")
	return sb.String()
}

// ChifDecl is the program's entry point: `chif main() { ... }`. Exactly
// one is permitted per executable module.
type ChifDecl struct {
	Body *Block
	Pos  token.Pos
}

func (*ChifDecl) declNode() {}
func (d *ChifDecl) String() string {
	return "chif main() " + d.Body.String()
}
