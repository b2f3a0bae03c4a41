package object

// Function is a user-defined closure. Code is held opaquely (the concrete type is
// the vm package's compiled chunk) so that object never imports vm — see Caller.
// Ancestors is attached exactly once, by attach_ancestors, right after the Function
// value is constructed by the compiler's function-literal opcode; calling Call
// before that is an internal error, since a Function with no ancestry map cannot
// resolve its own non-local names.
type Function struct {
	Base
	Name      string
	Nargs     int
	ContextID ContextId
	Code      interface{}

	ancestors AncestryMap
	attached  bool
}

func NewFunction(name string, nargs int, ctx ContextId, code interface{}) *Function {
	return &Function{Base: Base{Name: "function"}, Name: name, Nargs: nargs, ContextID: ctx, Code: code}
}

// AttachAncestors performs the one-way ancestry binding. Calling it twice on the
// same Function is an internal error (spec §4.3: "attached exactly once").
func (f *Function) AttachAncestors(m AncestryMap) *RuntimeError {
	if f.attached {
		return NewInternalError("ancestors already attached to function %s", f.Name)
	}
	f.ancestors = m
	f.attached = true
	return nil
}

func (f *Function) Ancestors() (AncestryMap, *RuntimeError) {
	if !f.attached {
		return nil, NewInternalError("function %s called before its ancestors were attached", f.Name)
	}
	return f.ancestors, nil
}

func (f *Function) ToString() (string, *RuntimeError) { return "<function " + f.Name + ">", nil }

func (f *Function) Clone() (Object, *RuntimeError) {
	return &Function{Base: f.Base, Name: f.Name, Nargs: f.Nargs, ContextID: f.ContextID, Code: f.Code, ancestors: f.ancestors.Clone(), attached: f.attached}, nil
}

func (f *Function) Call(caller Caller, args []Object) (Object, *RuntimeError) {
	if len(args) != f.Nargs {
		return nil, NewTypeError("incorrect number of arguments given to %s: expected %d, got %d", f.Name, f.Nargs, len(args))
	}
	return caller.CallClosure(f, args)
}

// Builtin is a native standard-library function. Nargs of -1 means variadic.
type Builtin struct {
	Base
	Name  string
	Nargs int
	Fn    func(args []Object) (Object, *RuntimeError)
}

func NewBuiltin(name string, nargs int, fn func(args []Object) (Object, *RuntimeError)) *Builtin {
	return &Builtin{Base: Base{Name: "builtin"}, Name: name, Nargs: nargs, Fn: fn}
}

func (b *Builtin) ToString() (string, *RuntimeError) { return "<builtin " + b.Name + ">", nil }

func (b *Builtin) Call(caller Caller, args []Object) (Object, *RuntimeError) {
	if b.Nargs >= 0 && len(args) != b.Nargs {
		return nil, NewTypeError("incorrect number of arguments given to %s: expected %d, got %d", b.Name, b.Nargs, len(args))
	}
	return b.Fn(args)
}
