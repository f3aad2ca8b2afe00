package object

import (
	"fmt"

	"github.com/google/uuid"
)

// StructRef is the shared-ownership heap cell backing a struct
// instance. Two Struct values wrapping the same *StructRef alias each
// other's mutations (spec.md §4.5); assignment of a struct-typed
// variable rebinds to the same *StructRef, while a constructor literal
// always allocates a fresh one.
type StructRef struct {
	ID       uuid.UUID
	TypeName string
	Order    []string // declared field order, for debug rendering
	Fields   map[string]Value
}

func NewStructRef(typeName string, order []string) *StructRef {
	return &StructRef{ID: uuid.New(), TypeName: typeName, Order: append([]string(nil), order...), Fields: make(map[string]Value, len(order))}
}

// Struct is the Value wrapper around a StructRef.
type Struct struct{ Ref *StructRef }

func (*Struct) Kind() Kind { return StructKind }
func (s *Struct) String() string { return DebugString(s) }

// ListRef is a growable sequence's heap cell.
type ListRef struct {
	ID       uuid.UUID
	ElemType string // debug/diagnostic only; not type-checked (spec.md Non-goals)
	Elements []Value
}

func NewListRef(elemType string, elems []Value) *ListRef {
	return &ListRef{ID: uuid.New(), ElemType: elemType, Elements: elems}
}

type List struct{ Ref *ListRef }

func (*List) Kind() Kind { return ListKind }
func (l *List) String() string { return DebugString(l) }

// Len implements the `len()` intrinsic.
func (l *ListRef) Len() int { return len(l.Elements) }

// Add implements `add(x)`: append.
func (l *ListRef) Add(v Value) { l.Elements = append(l.Elements, v) }

// AddAt implements `addAt(x, i)`: insert at index i; error if i>len.
func (l *ListRef) AddAt(v Value, i int) error {
	if i < 0 || i > len(l.Elements) {
		return fmt.Errorf("index %d out of range for addAt (len %d)", i, len(l.Elements))
	}
	l.Elements = append(l.Elements, Nil{})
	copy(l.Elements[i+1:], l.Elements[i:])
	l.Elements[i] = v
	return nil
}

// Del implements `del(i)`: remove index i; error if out of range.
func (l *ListRef) Del(i int) error {
	if i < 0 || i >= len(l.Elements) {
		return fmt.Errorf("index %d out of range for del (len %d)", i, len(l.Elements))
	}
	l.Elements = append(l.Elements[:i], l.Elements[i+1:]...)
	return nil
}

// ArrayRef is a fixed-size sequence's heap cell, created with a
// compile-time-known bound. Unlike ListRef, its length never changes.
type ArrayRef struct {
	ID       uuid.UUID
	ElemType string
	Elements []Value
}

func NewArrayRef(elemType string, elems []Value) *ArrayRef {
	return &ArrayRef{ID: uuid.New(), ElemType: elemType, Elements: elems}
}

type Array struct{ Ref *ArrayRef }

func (*Array) Kind() Kind { return ArrayKind }
func (a *Array) String() string { return DebugString(a) }

func (a *ArrayRef) Len() int { return len(a.Elements) }

// MapRef is a string-keyed heap cell. KeyOrder records insertion order
// so debug rendering and iteration are deterministic.
type MapRef struct {
	ID       uuid.UUID
	Entries  map[string]Value
	KeyOrder []string
}

func NewMapRef() *MapRef {
	return &MapRef{ID: uuid.New(), Entries: make(map[string]Value)}
}

type Map struct{ Ref *MapRef }

func (*Map) Kind() Kind { return MapKind }
func (m *Map) String() string { return DebugString(m) }

func (m *MapRef) Len() int { return len(m.Entries) }

// Set inserts or overwrites a key, tracking first-insertion order.
func (m *MapRef) Set(key string, v Value) {
	if _, exists := m.Entries[key]; !exists {
		m.KeyOrder = append(m.KeyOrder, key)
	}
	m.Entries[key] = v
}

// Get looks up a key.
func (m *MapRef) Get(key string) (Value, bool) {
	v, ok := m.Entries[key]
	return v, ok
}
