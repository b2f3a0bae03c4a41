package vm

import (
	"io"
	"os"

	"github.com/technetium-lang/technetium/internal/memory"
	"github.com/technetium-lang/technetium/internal/object"
)

// VM is the virtual machine component (spec §4.4): it owns every compiled chunk and
// the shared memory manager, and drives call frames. It implements object.Caller so
// Function values can invoke it without object importing vm.
type VM struct {
	Mem    *memory.Manager
	Chunks map[object.ContextId]*Chunk

	// Globals holds the fixed stdlib namespace (spec §6), looked up by
	// push_global_default.
	Globals map[string]object.Object

	// Stdout/Stderr back print/println/eprintln and the sh opcode's inherited
	// streams; swappable so tests and the REPL can capture output.
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader

	// StepHook, if set, is called at each `debug` opcode with the span it
	// carries — one call per source statement, since the compiler emits a
	// `debug` immediately before compiling each statement. internal/replio
	// installs this to drive a line-stepper without the execute loop knowing
	// anything about breakpoints.
	StepHook func(frame object.FrameId, span object.Span)
}

func New(mem *memory.Manager) *VM {
	return &VM{
		Mem:     mem,
		Chunks:  make(map[object.ContextId]*Chunk),
		Globals: make(map[string]object.Object),
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Stdin:   os.Stdin,
	}
}

// RegisterChunk installs a compiled context's bytecode, addressable by its ContextId.
func (vm *VM) RegisterChunk(c *Chunk) { vm.Chunks[c.Context] = c }

// RunEntry executes the top-level program context (nargs must be zero) and returns
// whatever its last `ret` produced, or unit if execution fell off the end.
func (vm *VM) RunEntry(entry object.ContextId) (object.Object, *object.RuntimeError) {
	chunk, ok := vm.Chunks[entry]
	if !ok {
		return nil, object.NewInternalError("no chunk registered for entry context %d", entry)
	}
	frameID := vm.Mem.RegisterFrame()
	ancestry := object.AncestryMap{entry: frameID}
	return vm.execute(chunk, frameID, ancestry)
}

// CallClosure implements object.Caller: it is what Function.Call ultimately invokes.
func (vm *VM) CallClosure(fn *object.Function, args []object.Object) (object.Object, *object.RuntimeError) {
	chunk, ok := vm.Chunks[fn.ContextID]
	if !ok {
		return nil, object.NewInternalError("function %s has no registered chunk", fn.Name)
	}
	ancestors, err := fn.Ancestors()
	if err != nil {
		return nil, err
	}

	frameID := vm.Mem.RegisterFrame()
	ancestry := ancestors.Clone()
	ancestry[fn.ContextID] = frameID

	for i, arg := range args {
		if err := vm.Mem.Set(frameID, object.LocalName(i), arg); err != nil {
			return nil, err
		}
	}

	result, err := vm.execute(chunk, frameID, ancestry)
	for local := range chunk.Retained {
		vm.Mem.DoNotDrop(frameID, local)
	}
	vm.Mem.ClearFrame(frameID)
	return result, err
}
