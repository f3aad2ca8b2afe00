package object

// BuiltinFn is a host-implemented callable from the built-in registry
// (spec.md §2 item 7, §6). Args have already been evaluated by the
// interpreter; Impl returns the result or an error for the interpreter
// to turn into a runtime diagnostic.
type BuiltinFn struct {
	Name  string
	Arity int // -1 means variadic/any arity
	Impl  func(args []Value) (Value, error)
}

func (*BuiltinFn) Kind() Kind       { return BuiltinFnKind }
func (b *BuiltinFn) String() string { return "<builtin " + b.Name + ">" }
