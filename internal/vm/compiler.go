package vm

import (
	"math/big"

	"github.com/technetium-lang/technetium/internal/ast"
	"github.com/technetium-lang/technetium/internal/object"
)

// Compiler lowers an *ast.Program into one Chunk per function context (spec §4.3).
// Grounded on the shape of the teacher's Compiler (internal/vm/compiler.go):
// one compiler instance walks the AST once, emitting bytecode into the chunk of
// whichever scope is current, descending into a fresh chunk+scope per function
// literal.
type Compiler struct {
	file        string
	chunks      map[object.ContextId]*Chunk
	nextContext object.ContextId
	scope       *scope
	loops       []*loopFrame
}

// loopFrame tracks a while/for-in loop's break/continue patch sites while its body
// is being compiled (spec §4.3's loop lowering).
type loopFrame struct {
	breaks    []int // code offsets of the jump operand to patch to the loop's end
	continues []int // code offsets of the jump operand to patch to the loop's re-test
}

// Compile lowers prog to bytecode and returns the populated chunk table plus the
// ContextId of the module-level (top) context to run first.
func Compile(file string, prog *ast.Program) (map[object.ContextId]*Chunk, object.ContextId, *CompileError) {
	c := &Compiler{file: file, chunks: make(map[object.ContextId]*Chunk)}
	entryCtx := c.nextContext
	c.nextContext++
	entryChunk := NewChunk(entryCtx, "<module>", file)
	c.chunks[entryCtx] = entryChunk
	c.scope = newScope(entryCtx, entryChunk, nil)

	for _, stmt := range prog.Statements {
		if err := c.compileStatement(stmt); err != nil {
			return nil, 0, err
		}
	}
	c.emitReturnUnit()
	return c.chunks, entryCtx, nil
}

func (c *Compiler) chunk() *Chunk { return c.scope.chunk }

func (c *Compiler) emit(op Opcode) int { return c.chunk().WriteOp(op) }

func (c *Compiler) emitU16(op Opcode, operand uint16) int {
	pos := c.chunk().WriteOp(op)
	c.chunk().WriteUint16(operand)
	return pos
}

func (c *Compiler) emitReturnUnit() {
	c.emit(OpPushUnit)
	c.emit(OpRet)
}

// emitJump writes op followed by a placeholder 2-byte offset, and returns the
// offset of that placeholder for a later patchJump call.
func (c *Compiler) emitJump(op Opcode) int {
	c.emit(op)
	pos := c.chunk().Len()
	c.chunk().WriteUint16(0)
	return pos
}

// patchJump back-patches a previously emitted jump's offset to land at the chunk's
// current end.
func (c *Compiler) patchJump(placeholder int) {
	target := c.chunk().Len()
	off := target - (placeholder + 2)
	c.chunk().PatchUint16(placeholder, uint16(int16(off)))
}

// patchJumpTo back-patches a jump to land at an arbitrary, already-known offset
// (used for continue, which jumps back to a loop's re-test rather than forward).
func (c *Compiler) patchJumpTo(placeholder int, target int) {
	off := target - (placeholder + 2)
	c.chunk().PatchUint16(placeholder, uint16(int16(off)))
}

func (c *Compiler) newErr(kind CompileErrorKind, span object.Span, format string, args ...interface{}) *CompileError {
	return newCompileError(kind, c.file, span.Start, format, args...)
}

// pushConst adds v to the current context's constant pool and emits push_const
// (shared reference) unless clone requests a deep-copy-on-push instead.
func (c *Compiler) pushConst(v object.Object, clone bool) {
	idx := c.chunk().AddConstant(v)
	if clone {
		c.emitU16(OpPushConstClone, idx)
	} else {
		c.emitU16(OpPushConst, idx)
	}
}

func (c *Compiler) pushStringConst(s string) uint16 {
	return c.chunk().AddConstant(object.NewString(s))
}

// compileIntLiteral converts the lexer's decimal text into an arbitrary-precision Int
// constant pushed via the constant pool (push_int's 8-byte immediate only covers the
// machine-word fast path; anything wider goes through the pool).
func (c *Compiler) compileIntLiteral(lit *ast.IntLiteral) *CompileError {
	v, ok := new(big.Int).SetString(lit.Value, 10)
	if !ok {
		return c.newErr(InvalidLiteral, lit.Span(), "invalid integer literal %q", lit.Value)
	}
	if v.IsInt64() {
		c.emit(OpPushInt)
		writeInt64(c.chunk(), v.Int64())
		return nil
	}
	c.pushConst(object.NewBigInt(v), false)
	return nil
}

func writeInt64(chunk *Chunk, v int64) {
	u := uint64(v)
	for i := 7; i >= 0; i-- {
		chunk.WriteByte(byte(u >> (8 * uint(i))))
	}
}

func writeFloat64Bits(chunk *Chunk, bits uint64) {
	for i := 7; i >= 0; i-- {
		chunk.WriteByte(byte(bits >> (8 * uint(i))))
	}
}
