// Package vm implements the Compiler and Virtual Machine components (spec §4.3,
// §4.4): a bytecode chunk per function ContextId, a debug-span table, and a
// stack-based interpreter with relative jumps and a call/return convention built on
// the memory package's frame storage.
package vm

import "github.com/technetium-lang/technetium/internal/object"

// Chunk is one ContextId's compiled bytecode: its instruction stream, a private
// constant pool, and a debug-span table keyed by DebugDescriptor. Grounded on the
// teacher's Chunk (internal/vm/chunk.go), generalized from one global chunk to one
// chunk per function context to match the spec's per-function constant pools and
// ContextId-scoped name resolution.
type Chunk struct {
	Context object.ContextId

	Code []byte

	// Constants is this context's private pool, addressed by ConstantDescriptor.Index.
	Constants []object.Object

	// Spans is the debug-span table; DebugDescriptor indexes into it.
	Spans []object.Span

	// Nargs is how many leading local slots this context's caller must supply.
	Nargs int

	// Name is used in error messages ("incorrect number of arguments to <Name>").
	Name string

	File string

	// Retained is the set of this context's own local slots that some nested
	// function literal resolves as a non-local (spec §4.3: "mark that slot as
	// retained in its owning context"). The compiler populates this as it
	// resolves captures; the VM consults it when a frame for this context
	// completes, so a slot a live closure's ancestry still points at survives
	// ClearFrame instead of being torn down with the rest of the frame.
	Retained map[object.LocalName]bool
}

func NewChunk(ctx object.ContextId, name, file string) *Chunk {
	return &Chunk{
		Context:   ctx,
		Name:      name,
		File:      file,
		Code:      make([]byte, 0, 256),
		Constants: make([]object.Object, 0, 16),
		Spans:     make([]object.Span, 0, 16),
	}
}

func (c *Chunk) WriteByte(b byte) int {
	c.Code = append(c.Code, b)
	return len(c.Code) - 1
}

func (c *Chunk) WriteOp(op Opcode) int { return c.WriteByte(byte(op)) }

// WriteUint16 writes a big-endian two-byte operand, used for slot indices, constant
// indices, and relative jump offsets.
func (c *Chunk) WriteUint16(v uint16) {
	c.WriteByte(byte(v >> 8))
	c.WriteByte(byte(v))
}

func (c *Chunk) ReadUint16(offset int) uint16 {
	return uint16(c.Code[offset])<<8 | uint16(c.Code[offset+1])
}

// MarkRetained records that local is captured by some nested closure and must
// survive ClearFrame.
func (c *Chunk) MarkRetained(local object.LocalName) {
	if c.Retained == nil {
		c.Retained = make(map[object.LocalName]bool)
	}
	c.Retained[local] = true
}

// AddConstant interns a value into this context's pool and returns its index.
func (c *Chunk) AddConstant(v object.Object) uint16 {
	c.Constants = append(c.Constants, v)
	return uint16(len(c.Constants) - 1)
}

// AddSpan interns a debug span and returns its descriptor.
func (c *Chunk) AddSpan(s object.Span) object.DebugDescriptor {
	c.Spans = append(c.Spans, s)
	return object.DebugDescriptor(len(c.Spans) - 1)
}

func (c *Chunk) Len() int { return len(c.Code) }

// PatchUint16 overwrites a previously-written two-byte operand — used to back-patch
// forward jump offsets once the jump target is known.
func (c *Chunk) PatchUint16(offset int, v uint16) {
	c.Code[offset] = byte(v >> 8)
	c.Code[offset+1] = byte(v)
}
