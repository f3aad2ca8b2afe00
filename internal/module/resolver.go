// Package module implements Rono's import resolver (spec.md §4.4): it
// locates sibling `.rono` files, lexes and parses them, and folds
// their declarations into namespaces that the root module either
// merges wholesale or binds under an alias.
package module

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/rono-lang/rono/internal/ast"
	"github.com/rono-lang/rono/internal/diagnostics"
	"github.com/rono-lang/rono/internal/environment"
	"github.com/rono-lang/rono/internal/lexer"
	"github.com/rono-lang/rono/internal/parser"
)

// Loader resolves a program rooted at one entry file. It caches a
// Namespace per resolved path so a diamond-shaped or cyclic import
// graph visits each file exactly once (spec.md §4.4 "Cycles").
type Loader struct {
	mu          sync.Mutex
	cache       map[string]*environment.Namespace
	searchPaths []string // extra directories tried after the importing file's own directory
}

// NewLoader creates an empty Loader. One Loader is meant to resolve a
// single program; do not reuse it across unrelated runs. searchPaths
// comes from internal/config's rono.yaml importPaths and is tried, in
// order, after the importing file's own directory.
func NewLoader(searchPaths []string) *Loader {
	return &Loader{cache: make(map[string]*environment.Namespace), searchPaths: searchPaths}
}

// Load resolves the root source file into a fully populated Globals:
// its own struct/method/function declarations and chif entry point
// sit directly in Globals, and every import it names has been merged
// or aliased in.
func (l *Loader) Load(rootPath string) (*environment.Globals, *diagnostics.Error) {
	rootPath, absErr := filepath.Abs(rootPath)
	if absErr != nil {
		return nil, diagnostics.New(diagnostics.Resolve, rootPath, 0, 0, "cannot resolve path: %s", absErr)
	}

	prog, err := parseFile(rootPath)
	if err != nil {
		return nil, err
	}

	g := environment.NewGlobals()

	// Cache the root under its own path before resolving its imports, so
	// a cycle leading back to it gets this partially populated namespace
	// instead of re-parsing the root file.
	rootNS := environment.NewNamespace(rootPath)
	l.mu.Lock()
	l.cache[rootPath] = rootNS
	l.mu.Unlock()

	childNamespaces, err := l.resolveImports(rootPath, prog)
	if err != nil {
		return nil, err
	}

	importIdx := 0
	for _, item := range prog.Items {
		switch d := item.(type) {
		case *ast.ImportDecl:
			child := childNamespaces[importIdx]
			importIdx++
			if d.Alias != "" {
				g.BindNamespace(d.Alias, child)
			} else {
				g.MergeNamespace(child)
			}
		case *ast.StructDecl:
			g.Structs[d.Name] = d
			rootNS.Structs[d.Name] = d
		case *ast.ImplBlock:
			for _, m := range d.Methods {
				g.Methods[environment.MethodKey{TypeName: d.TypeName, Method: m.Name}] = m
				rootNS.Methods[environment.MethodKey{TypeName: d.TypeName, Method: m.Name}] = m
			}
		case *ast.FnDecl:
			g.Functions[d.Name] = d
			rootNS.Functions[d.Name] = d
		case *ast.ChifDecl:
			if g.Chif != nil {
				return nil, diagnostics.New(diagnostics.Resolve, rootPath, d.Pos.Line, d.Pos.Col, "a module may declare only one chif main")
			}
			g.Chif = d
		}
	}

	if g.Chif == nil {
		return nil, diagnostics.New(diagnostics.Resolve, rootPath, 0, 0, "no chif main declared in the root module")
	}
	return g, nil
}

// resolveNamespace resolves (or returns the cached, possibly still
// in-progress on a cycle) Namespace for path.
func (l *Loader) resolveNamespace(path string) (*environment.Namespace, *diagnostics.Error) {
	l.mu.Lock()
	if ns, ok := l.cache[path]; ok {
		l.mu.Unlock()
		return ns, nil
	}
	ns := environment.NewNamespace(path)
	l.cache[path] = ns
	l.mu.Unlock()

	prog, err := parseFile(path)
	if err != nil {
		return nil, err
	}

	childNamespaces, err := l.resolveImports(path, prog)
	if err != nil {
		return nil, err
	}

	importIdx := 0
	for _, item := range prog.Items {
		switch d := item.(type) {
		case *ast.ImportDecl:
			child := childNamespaces[importIdx]
			importIdx++
			if d.Alias != "" {
				ns.Namespaces[d.Alias] = child
			} else {
				mergeInto(ns, child)
			}
		case *ast.StructDecl:
			ns.Structs[d.Name] = d
		case *ast.ImplBlock:
			for _, m := range d.Methods {
				ns.Methods[environment.MethodKey{TypeName: d.TypeName, Method: m.Name}] = m
			}
		case *ast.FnDecl:
			ns.Functions[d.Name] = d
		case *ast.ChifDecl:
			return nil, diagnostics.New(diagnostics.Resolve, path, d.Pos.Line, d.Pos.Col, "chif main is only permitted in the program's root file")
		}
	}
	return ns, nil
}

// resolveImports resolves every import of prog (declared in file)
// concurrently via errgroup, since sibling imports of one file are
// independent of each other; the shared cache/mutex in
// resolveNamespace still serializes repeat visits to the same path.
func (l *Loader) resolveImports(file string, prog *ast.Program) ([]*environment.Namespace, *diagnostics.Error) {
	var imports []*ast.ImportDecl
	for _, item := range prog.Items {
		if imp, ok := item.(*ast.ImportDecl); ok {
			imports = append(imports, imp)
		}
	}
	if len(imports) == 0 {
		return nil, nil
	}

	results := make([]*environment.Namespace, len(imports))
	g, _ := errgroup.WithContext(context.Background())
	for i, imp := range imports {
		i, imp := i, imp
		g.Go(func() error {
			childPath, pathErr := l.resolveImportPath(file, imp.Path)
			if pathErr != nil {
				return diagnostics.New(diagnostics.Resolve, file, imp.Pos.Line, imp.Pos.Col, "%s", pathErr)
			}
			ns, err := l.resolveNamespace(childPath)
			if err != nil {
				return err
			}
			results[i] = ns
			return nil
		})
	}
	if waitErr := g.Wait(); waitErr != nil {
		if de, ok := waitErr.(*diagnostics.Error); ok {
			return nil, de
		}
		return nil, diagnostics.New(diagnostics.Resolve, file, 0, 0, "%s", waitErr)
	}
	return results, nil
}

func mergeInto(dst, src *environment.Namespace) {
	for name, decl := range src.Structs {
		dst.Structs[name] = decl
	}
	for key, decl := range src.Methods {
		dst.Methods[key] = decl
	}
	for name, decl := range src.Functions {
		dst.Functions[name] = decl
	}
	for alias, sub := range src.Namespaces {
		dst.Namespaces[alias] = sub
	}
}

// resolveImportPath finds importPath relative to the importing file's
// own directory first (spec.md §4.4's default lookup rule), then falls
// back to each of the loader's configured search paths (the
// [AMBIENT] configuration's importPaths) in order.
func (l *Loader) resolveImportPath(fromFile, importPath string) (string, error) {
	p := importPath
	if !strings.HasSuffix(p, ".rono") {
		p += ".rono"
	}

	dirs := append([]string{filepath.Dir(fromFile)}, l.searchPaths...)
	var lastErr error
	for _, dir := range dirs {
		abs := filepath.Clean(filepath.Join(dir, p))
		if _, err := os.Stat(abs); err == nil {
			return abs, nil
		} else {
			lastErr = err
		}
	}
	return "", lastErr
}

func parseFile(path string) (*ast.Program, *diagnostics.Error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, diagnostics.New(diagnostics.Resolve, path, 0, 0, "cannot read import: %s", err)
	}
	tokens, lexErr := lexer.New(path, src).Scan()
	if lexErr != nil {
		return nil, lexErr
	}
	prog, parseErr := parser.New(path, tokens).ParseProgram()
	if parseErr != nil {
		return nil, parseErr
	}
	return prog, nil
}
