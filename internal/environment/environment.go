// Package environment implements Rono's lexically scoped symbol table
// stack (spec.md §3 "Environment"): a chain of scopes each mapping a
// name to a Slot, plus the slot-rooted half of the pointer Binding
// locator from spec.md §4.5 (the other half, composite field/index
// paths, lives in internal/object since it needs no environment
// state).
package environment

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/rono-lang/rono/internal/ast"
	"github.com/rono-lang/rono/internal/object"
)

// Slot is a named storage cell: a mutability flag, the current value,
// and the declared type recorded at parse time (spec.md GLOSSARY
// "Slot").
type Slot struct {
	Mutable      bool
	Value        object.Value
	DeclaredType ast.Type
}

// Environment is one scope in the chain. The bottom scope of a module
// is its Globals (see globals.go).
type Environment struct {
	ID     uuid.UUID
	parent *Environment
	slots  map[string]*Slot
}

// New creates a child scope of parent (nil for the outermost scope).
func New(parent *Environment) *Environment {
	return &Environment{ID: uuid.New(), parent: parent, slots: make(map[string]*Slot, 8)}
}

// Child is sugar for New(e).
func (e *Environment) Child() *Environment { return New(e) }

// Define introduces a new binding in this scope. Redeclaring a name
// already present in *this* scope is a caller error (spec.md §3
// invariant "names within one scope are unique") — the interpreter
// checks before calling Define so this just overwrites, matching the
// teacher's own environment.Define ("nice for a REPL").
func (e *Environment) Define(name string, mutable bool, declaredType ast.Type, v object.Value) {
	e.slots[name] = &Slot{Mutable: mutable, Value: v, DeclaredType: declaredType}
}

// Declared reports whether name exists in exactly this scope (not
// walking to parents), used to enforce uniqueness within a scope.
func (e *Environment) Declared(name string) bool {
	_, ok := e.slots[name]
	return ok
}

// Get resolves name by walking inner-to-outer (spec.md §3 invariant b).
func (e *Environment) Get(name string) (object.Value, bool) {
	for env := e; env != nil; env = env.parent {
		if s, ok := env.slots[name]; ok {
			return s.Value, true
		}
	}
	return nil, false
}

// Owner returns the scope in which name is actually bound, walking
// outward — used by `&name` to build a SlotBinding rooted at the
// correct scope rather than the current one.
func (e *Environment) Owner(name string) (*Environment, bool) {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.slots[name]; ok {
			return env, true
		}
	}
	return nil, false
}

// Assign writes to an existing slot, walking inner-to-outer, and
// rejects writes to immutable (`let`) slots.
func (e *Environment) Assign(name string, v object.Value) error {
	owner, ok := e.Owner(name)
	if !ok {
		return fmt.Errorf("undefined identifier: %s", name)
	}
	slot := owner.slots[name]
	if !slot.Mutable {
		return fmt.Errorf("cannot assign to immutable slot %q", name)
	}
	slot.Value = v
	return nil
}

// SlotBinding is the slot-rooted case of object.Binding: a locator
// identified by (scope, name), re-resolved on every Load/Store rather
// than caching the *Slot. Slots are never removed from an Environment,
// so the binding keeps its scope alive and stays usable after that
// scope's block has finished; the "slot no longer exists" error is
// returned only when Name is not bound in Env at all.
type SlotBinding struct {
	Env  *Environment
	Name string
}

func (b *SlotBinding) Load() (object.Value, error) {
	slot, ok := b.Env.slots[b.Name]
	if !ok {
		return nil, fmt.Errorf("slot %q no longer exists", b.Name)
	}
	return slot.Value, nil
}

func (b *SlotBinding) Store(v object.Value) error {
	slot, ok := b.Env.slots[b.Name]
	if !ok {
		return fmt.Errorf("slot %q no longer exists", b.Name)
	}
	if !slot.Mutable {
		return fmt.Errorf("cannot assign to immutable slot %q", b.Name)
	}
	slot.Value = v
	return nil
}

func (b *SlotBinding) Mutable() bool {
	slot, ok := b.Env.slots[b.Name]
	return ok && slot.Mutable
}

func (b *SlotBinding) String() string { return b.Name }

var _ object.Binding = (*SlotBinding)(nil)
