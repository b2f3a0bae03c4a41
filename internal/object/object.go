package object

// Object is the capability set every runtime value exposes (spec §3, §4.1). The Rust
// original expresses this as a trait with default method bodies; Go interfaces have no
// default bodies, so Base supplies them and every concrete type embeds it, overriding
// only the operations it actually implements.
type Object interface {
	// TypeName is the dynamic type name used in error messages.
	TypeName() string

	// Clone produces a deep structural copy, or a "not cloneable" type error.
	Clone() (Object, *RuntimeError)

	// ToString renders the value for printing/interpolation.
	ToString() (string, *RuntimeError)

	// Truthy is used by conditional jumps.
	Truthy() bool

	// Hash returns a stable hash if the value is hashable, or "no hash" otherwise.
	// Per spec, a value is hashable only if its type produces a stable hash AND the
	// value is immutable-by-construction or currently locked.
	Hash() (uint64, *RuntimeError)

	GetAttr(attr string) (Object, *RuntimeError)
	SetAttr(attr string, val Object) *RuntimeError

	CallMethod(method string, args []Object) (Object, *RuntimeError)

	// IndexGet/IndexSet back the index_get/index_set opcodes (spec §4.4). Containers
	// that support slicing also implement Sliceable.
	IndexGet(key Object) (Object, *RuntimeError)
	IndexSet(key Object, val Object) *RuntimeError

	// Call invokes the value as a function. The compiler/VM only ever calls this on
	// Function and Builtin; other types inherit the default "not callable" error.
	// A Caller abstraction (see vm package) supplies the actual call machinery for
	// Function, since invoking a closure requires VM-level frame setup.
	Call(caller Caller, args []Object) (Object, *RuntimeError)

	MakeIterator() (Iterator, *RuntimeError)
}

// Caller is the minimal VM capability the object model needs to invoke a Function
// closure without importing the vm package (which would create an import cycle,
// since vm imports object for values). The vm package's VM type implements this.
type Caller interface {
	CallClosure(fn *Function, args []Object) (Object, *RuntimeError)
}

// Sliceable is implemented by types the make_slice opcode can act on (List, Tuple,
// String, and Slice itself — a slice of a slice is a live view of the same root).
// HasStop is false for an open-ended slice (`xs[2:]`).
type Sliceable interface {
	MakeSlice(start int64, stop int64, hasStop bool, step int64) (Object, *RuntimeError)
}

// Lengthable is implemented by types with an O(1) element count, used by slicing to
// resolve negative/open-ended bounds.
type Lengthable interface {
	Length() int
}

// Iterator is a finite, lazy, non-restartable sequence produced by MakeIterator.
type Iterator interface {
	Object
	// Next returns the next element, or ok=false when exhausted.
	Next() (val Object, ok bool, err *RuntimeError)
}

// Base supplies the default "unsupported operation" bodies for Object. Embed it in
// every concrete type and override only what that type supports.
type Base struct {
	Name string // set by the embedding type's constructor to its TypeName()
}

func (b Base) TypeName() string { return b.Name }

func (b Base) Clone() (Object, *RuntimeError) {
	return nil, NewTypeError("%s cannot be cloned", b.Name)
}

func (b Base) ToString() (string, *RuntimeError) {
	return "<" + b.Name + ">", nil
}

func (b Base) Truthy() bool { return true }

func (b Base) Hash() (uint64, *RuntimeError) {
	return 0, NewTypeError("%s has no hash", b.Name)
}

func (b Base) GetAttr(attr string) (Object, *RuntimeError) {
	return nil, NewAttributeError("%s has no attributes", b.Name)
}

func (b Base) SetAttr(attr string, val Object) *RuntimeError {
	return NewAttributeError("cannot set attributes of %s", b.Name)
}

func (b Base) CallMethod(method string, args []Object) (Object, *RuntimeError) {
	return nil, NewAttributeError("%s has no method %s", b.Name, method)
}

func (b Base) IndexGet(key Object) (Object, *RuntimeError) {
	return nil, NewTypeError("%s is not indexable", b.Name)
}

func (b Base) IndexSet(key Object, val Object) *RuntimeError {
	return NewTypeError("%s does not support index assignment", b.Name)
}

func (b Base) Call(caller Caller, args []Object) (Object, *RuntimeError) {
	return nil, NewTypeError("object of type %s is not callable", b.Name)
}

func (b Base) MakeIterator() (Iterator, *RuntimeError) {
	return nil, NewTypeError("object of type %s cannot be made into an iterator", b.Name)
}
