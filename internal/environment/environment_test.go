package environment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rono-lang/rono/internal/ast"
	"github.com/rono-lang/rono/internal/object"
)

func TestDefineAndGet(t *testing.T) {
	env := New(nil)
	env.Define("x", true, ast.IntType{}, object.Int{V: 1})
	v, ok := env.Get("x")
	require.True(t, ok)
	assert.Equal(t, object.Int{V: 1}, v)
}

func TestGetWalksToParent(t *testing.T) {
	parent := New(nil)
	parent.Define("x", true, nil, object.Int{V: 1})
	child := parent.Child()
	v, ok := child.Get("x")
	require.True(t, ok)
	assert.Equal(t, object.Int{V: 1}, v)
}

func TestDeclaredDoesNotWalkToParent(t *testing.T) {
	parent := New(nil)
	parent.Define("x", true, nil, object.Int{V: 1})
	child := parent.Child()
	assert.False(t, child.Declared("x"))
	assert.True(t, parent.Declared("x"))
}

func TestAssignWritesExistingSlot(t *testing.T) {
	env := New(nil)
	env.Define("x", true, nil, object.Int{V: 1})
	require.NoError(t, env.Assign("x", object.Int{V: 2}))
	v, _ := env.Get("x")
	assert.Equal(t, object.Int{V: 2}, v)
}

func TestAssignRejectsImmutableSlot(t *testing.T) {
	env := New(nil)
	env.Define("x", false, nil, object.Int{V: 1})
	err := env.Assign("x", object.Int{V: 2})
	assert.Error(t, err)
}

func TestAssignUndefinedFails(t *testing.T) {
	env := New(nil)
	assert.Error(t, env.Assign("missing", object.Nil{}))
}

func TestOwnerFindsDeclaringScope(t *testing.T) {
	parent := New(nil)
	parent.Define("x", true, nil, object.Int{V: 1})
	child := parent.Child()
	owner, ok := child.Owner("x")
	require.True(t, ok)
	assert.Same(t, parent, owner)

	_, ok = child.Owner("missing")
	assert.False(t, ok)
}

func TestSlotBindingLoadStoreRoundTrips(t *testing.T) {
	env := New(nil)
	env.Define("x", true, nil, object.Int{V: 10})
	b := &SlotBinding{Env: env, Name: "x"}

	v, err := b.Load()
	require.NoError(t, err)
	assert.Equal(t, object.Int{V: 10}, v)

	require.NoError(t, b.Store(object.Int{V: 20}))
	got, _ := env.Get("x")
	assert.Equal(t, object.Int{V: 20}, got)
	assert.True(t, b.Mutable())
}

func TestSlotBindingRejectsImmutableStore(t *testing.T) {
	env := New(nil)
	env.Define("x", false, nil, object.Int{V: 10})
	b := &SlotBinding{Env: env, Name: "x"}
	assert.False(t, b.Mutable())
	assert.Error(t, b.Store(object.Int{V: 1}))
}

func TestSwapViaTwoSlotBindings(t *testing.T) {
	env := New(nil)
	env.Define("x", true, nil, object.Int{V: 10})
	env.Define("y", true, nil, object.Int{V: 20})
	a := &SlotBinding{Env: env, Name: "x"}
	b := &SlotBinding{Env: env, Name: "y"}

	av, _ := a.Load()
	bv, _ := b.Load()
	require.NoError(t, a.Store(bv))
	require.NoError(t, b.Store(av))

	gotX, _ := env.Get("x")
	gotY, _ := env.Get("y")
	assert.Equal(t, object.Int{V: 20}, gotX)
	assert.Equal(t, object.Int{V: 10}, gotY)
}

func TestGlobalsMergeNamespace(t *testing.T) {
	g := NewGlobals()
	ns := NewNamespace("util.rono")
	ns.Functions["add"] = &ast.FnDecl{Name: "add"}
	ns.Structs["Pair"] = &ast.StructDecl{Name: "Pair"}
	g.MergeNamespace(ns)

	_, ok := g.Functions["add"]
	assert.True(t, ok)
	_, ok = g.Structs["Pair"]
	assert.True(t, ok)
}

func TestGlobalsBindNamespaceDoesNotMerge(t *testing.T) {
	g := NewGlobals()
	ns := NewNamespace("util.rono")
	ns.Functions["add"] = &ast.FnDecl{Name: "add"}
	g.BindNamespace("u", ns)

	_, ok := g.Functions["add"]
	assert.False(t, ok, "an aliased import must not pollute the global function table")
	got, ok := g.Namespaces["u"]
	require.True(t, ok)
	assert.Same(t, ns, got)
}

func TestFindMethod(t *testing.T) {
	g := NewGlobals()
	decl := &ast.FnDecl{Name: "set", HasSelf: true}
	g.Methods[MethodKey{TypeName: "P", Method: "set"}] = decl
	got, ok := g.FindMethod("P", "set")
	require.True(t, ok)
	assert.Same(t, decl, got)
}
