package vm

import "github.com/technetium-lang/technetium/internal/ast"

func (c *Compiler) pushLoop() *loopFrame {
	lf := &loopFrame{}
	c.loops = append(c.loops, lf)
	return lf
}

func (c *Compiler) popLoop() {
	c.loops = c.loops[:len(c.loops)-1]
}

func (c *Compiler) currentLoop() *loopFrame {
	if len(c.loops) == 0 {
		return nil
	}
	return c.loops[len(c.loops)-1]
}

// compileWhile lowers `while cond { body }` to a re-test-at-top loop:
//
//	retest:  <cond>
//	         not
//	         cond_jmp end
//	         <body>
//	         jmp retest
//	end:
func (c *Compiler) compileWhile(n *ast.WhileStatement) *CompileError {
	retest := c.chunk().Len()
	if err := c.compileExpr(n.Cond); err != nil {
		return err
	}
	c.emit(OpNot)
	exitJump := c.emitJump(OpCondJmp)

	lf := c.pushLoop()
	for _, stmt := range n.Body {
		if err := c.compileStatement(stmt); err != nil {
			c.popLoop()
			return err
		}
	}
	c.popLoop()

	back := c.emitJump(OpJmp)
	c.patchJumpTo(back, retest)
	c.patchJump(exitJump)
	for _, b := range lf.breaks {
		c.patchJump(b)
	}
	for _, cont := range lf.continues {
		c.patchJumpTo(cont, retest)
	}
	return nil
}

// compileForIn lowers `for x in iterable { body }` via make_iter/take_iter. A
// normal (exhausted) exit has already popped the iterator inside take_iter, but
// `break` leaves the loop mid-body with the iterator still sitting under the
// loop's locals, so break lands on an extra pop that exhaustion must not run:
//
//	         <iterable>
//	         make_iter
//	loop:    take_iter end   ; re-pushes iterator + next element, or jumps to end
//	         store x
//	         <body>          ; break -> breakLand
//	         jmp loop
//	breakLand: pop           ; drop the still-live iterator (break path only)
//	end:
func (c *Compiler) compileForIn(n *ast.ForInStatement) *CompileError {
	if err := c.compileExpr(n.Iterable); err != nil {
		return err
	}
	c.emit(OpMakeIter)

	loopStart := c.chunk().Len()
	takeIterAt := c.emitJump(OpTakeIter)

	c.compileStoreName(n.Var)

	lf := c.pushLoop()
	for _, stmt := range n.Body {
		if err := c.compileStatement(stmt); err != nil {
			c.popLoop()
			return err
		}
	}
	c.popLoop()

	back := c.emitJump(OpJmp)
	c.patchJumpTo(back, loopStart)

	for _, b := range lf.breaks {
		c.patchJump(b)
	}
	c.emit(OpPop)
	c.patchJump(takeIterAt)

	for _, cont := range lf.continues {
		c.patchJumpTo(cont, loopStart)
	}
	return nil
}
