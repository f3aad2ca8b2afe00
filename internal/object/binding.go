package object

import "fmt"

// Binding is a locator: the runtime representation of a pointer value
// (spec.md §3 "Binding", §4.5, design note in §9 "Pointers as
// locators, not raw addresses"). It reads/writes a mutable storage
// slot indirectly, so aliased mutation (swap(&x, &y)) is well-defined
// without unsafe memory access.
//
// The base case — a locator rooted directly at an environment slot —
// is implemented by internal/environment (object deliberately does not
// depend on environment, to avoid an import cycle). Composite paths
// (field, list/array index, map key) are implemented here because they
// only need other object types.
type Binding interface {
	// Load reads the current value through the locator. It returns an
	// error if the underlying slot or heap cell no longer addresses
	// anything sensible (spec.md §7 "dereference of Nil").
	Load() (Value, error)
	// Store writes through the locator.
	Store(Value) error
	// Mutable reports whether the locator's root was declared mutable;
	// &name on a `let` slot is an error at construction time, but a
	// Store on an already-built pointer to an immutable slot is also
	// rejected here for defense in depth.
	Mutable() bool
	String() string
}

// Pointer is the Value wrapper around a Binding.
type Pointer struct{ Loc Binding }

func (*Pointer) Kind() Kind { return PointerKind }
func (p *Pointer) String() string { return "&" + p.Loc.String() }

// FieldBinding locates a field of a struct instance. The parser builds
// `&` only over a bare identifier, so no Rono program constructs one;
// `self.field = ...` writes the shared StructRef directly.
type FieldBinding struct {
	Ref   *StructRef
	Field string
}

func (b *FieldBinding) Load() (Value, error) {
	v, ok := b.Ref.Fields[b.Field]
	if !ok {
		return nil, fmt.Errorf("unknown field %q on %s", b.Field, b.Ref.TypeName)
	}
	return v, nil
}

func (b *FieldBinding) Store(v Value) error {
	if _, ok := b.Ref.Fields[b.Field]; !ok {
		return fmt.Errorf("unknown field %q on %s", b.Field, b.Ref.TypeName)
	}
	b.Ref.Fields[b.Field] = v
	return nil
}

func (b *FieldBinding) Mutable() bool { return true }
func (b *FieldBinding) String() string { return b.Ref.TypeName + "." + b.Field }

// ListIndexBinding locates an element of a list.
type ListIndexBinding struct {
	Ref   *ListRef
	Index int
}

func (b *ListIndexBinding) Load() (Value, error) {
	if b.Index < 0 || b.Index >= len(b.Ref.Elements) {
		return nil, fmt.Errorf("index %d out of range (len %d)", b.Index, len(b.Ref.Elements))
	}
	return b.Ref.Elements[b.Index], nil
}

func (b *ListIndexBinding) Store(v Value) error {
	if b.Index < 0 || b.Index >= len(b.Ref.Elements) {
		return fmt.Errorf("index %d out of range (len %d)", b.Index, len(b.Ref.Elements))
	}
	b.Ref.Elements[b.Index] = v
	return nil
}

func (b *ListIndexBinding) Mutable() bool { return true }
func (b *ListIndexBinding) String() string { return fmt.Sprintf("list[%d]", b.Index) }

// ArrayIndexBinding locates an element of a fixed-size array.
type ArrayIndexBinding struct {
	Ref   *ArrayRef
	Index int
}

func (b *ArrayIndexBinding) Load() (Value, error) {
	if b.Index < 0 || b.Index >= len(b.Ref.Elements) {
		return nil, fmt.Errorf("index %d out of range (len %d)", b.Index, len(b.Ref.Elements))
	}
	return b.Ref.Elements[b.Index], nil
}

func (b *ArrayIndexBinding) Store(v Value) error {
	if b.Index < 0 || b.Index >= len(b.Ref.Elements) {
		return fmt.Errorf("index %d out of range (len %d)", b.Index, len(b.Ref.Elements))
	}
	b.Ref.Elements[b.Index] = v
	return nil
}

func (b *ArrayIndexBinding) Mutable() bool { return true }
func (b *ArrayIndexBinding) String() string { return fmt.Sprintf("array[%d]", b.Index) }

// MapKeyBinding locates an entry of a map.
type MapKeyBinding struct {
	Ref *MapRef
	Key string
}

func (b *MapKeyBinding) Load() (Value, error) {
	v, ok := b.Ref.Entries[b.Key]
	if !ok {
		return nil, fmt.Errorf("unknown map key %q", b.Key)
	}
	return v, nil
}

func (b *MapKeyBinding) Store(v Value) error {
	b.Ref.Set(b.Key, v)
	return nil
}

func (b *MapKeyBinding) Mutable() bool { return true }
func (b *MapKeyBinding) String() string { return fmt.Sprintf("map[%q]", b.Key) }
