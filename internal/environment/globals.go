package environment

import "github.com/rono-lang/rono/internal/ast"

// MethodKey is the method table's key: (receiver-type, method-name).
// Keeping methods keyed separately from free functions means the two
// namespaces never collide (spec.md §9 design note).
type MethodKey struct {
	TypeName string
	Method   string
}

// Namespace is the bundle of declarations exported by one resolved
// source file (spec.md §4.4, GLOSSARY "Namespace"): its struct decls,
// its method table, and its free functions, addressable either by
// alias (`u.foo`) or merged wholesale into the importing module's
// globals.
type Namespace struct {
	Path       string
	Structs    map[string]*ast.StructDecl
	Methods    map[MethodKey]*ast.FnDecl
	Functions  map[string]*ast.FnDecl
	Namespaces map[string]*Namespace // this file's own `import ... as alias` sub-namespaces
}

func NewNamespace(path string) *Namespace {
	return &Namespace{
		Path:       path,
		Structs:    make(map[string]*ast.StructDecl),
		Methods:    make(map[MethodKey]*ast.FnDecl),
		Functions:  make(map[string]*ast.FnDecl),
		Namespaces: make(map[string]*Namespace),
	}
}

// Globals is the bottom scope of a module: in addition to ordinary
// variable slots (inherited from *Environment), it owns the struct
// decl table, the global method table, and any aliased import
// namespaces (spec.md §3 "Environment").
type Globals struct {
	*Environment
	Structs    map[string]*ast.StructDecl
	Methods    map[MethodKey]*ast.FnDecl
	Functions  map[string]*ast.FnDecl
	Namespaces map[string]*Namespace // alias -> namespace, for `import "p" as alias`
	Chif       *ast.ChifDecl
}

// NewGlobals creates an empty module-level scope.
func NewGlobals() *Globals {
	return &Globals{
		Environment: New(nil),
		Structs:     make(map[string]*ast.StructDecl),
		Methods:     make(map[MethodKey]*ast.FnDecl),
		Functions:   make(map[string]*ast.FnDecl),
		Namespaces:  make(map[string]*Namespace),
	}
}

// FindMethod looks up (typeName, method) in the global method table.
func (g *Globals) FindMethod(typeName, method string) (*ast.FnDecl, bool) {
	fn, ok := g.Methods[MethodKey{TypeName: typeName, Method: method}]
	return fn, ok
}

// MergeNamespace folds ns's declarations directly into g's own struct,
// method, and function tables (the "import ... " with no alias case,
// spec.md §4.4). Name collisions on merge: later declarations override
// earlier ones for the same (kind, name) — this intentionally matches
// the repository pattern spec.md §4.4 calls out, where a methods-only
// file is imported after the struct-defining file. The interpreter
// dispatches calls straight off these *ast.FnDecl entries; it never
// materializes a separate function value.
//
// ns's own aliased sub-imports bubble up too: an alias is itself a
// name being merged into the importing scope. A namespace reached only
// through an *aliased* import keeps its own aliases private (not
// merged), which is a deliberate scope limit recorded in DESIGN.md.
func (g *Globals) MergeNamespace(ns *Namespace) {
	for name, decl := range ns.Structs {
		g.Structs[name] = decl
	}
	for key, decl := range ns.Methods {
		g.Methods[key] = decl
	}
	for name, decl := range ns.Functions {
		g.Functions[name] = decl
	}
	for alias, sub := range ns.Namespaces {
		g.Namespaces[alias] = sub
	}
}

// BindNamespace attaches ns under alias without touching g's own
// tables (the `import "p" as alias` case).
func (g *Globals) BindNamespace(alias string, ns *Namespace) {
	g.Namespaces[alias] = ns
}
