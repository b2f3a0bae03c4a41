package vm

import (
	"github.com/technetium-lang/technetium/internal/ast"
	"github.com/technetium-lang/technetium/internal/object"
)

// compileDebugSpan emits a `debug` opcode carrying stmt's source span, one per
// statement. vm_exec.go attaches this span to whatever op fails next, and
// internal/replio's step hook fires on it to drive a source-level stepper.
func (c *Compiler) compileDebugSpan(sp object.Span) {
	idx := c.chunk().AddSpan(sp)
	c.emitU16(OpDebug, uint16(idx))
}

func (c *Compiler) compileStatement(stmt ast.Statement) *CompileError {
	c.compileDebugSpan(stmt.Span())

	switch s := stmt.(type) {
	case *ast.ExprStatement:
		if err := c.compileExpr(s.Expr); err != nil {
			return err
		}
		c.emit(OpPop)
		return nil

	case *ast.AssignStatement:
		if err := c.compileExpr(s.Value); err != nil {
			return err
		}
		return c.compileAssignTarget(s.Target)

	case *ast.IfStatement:
		return c.compileIf(s)

	case *ast.WhileStatement:
		return c.compileWhile(s)

	case *ast.ForInStatement:
		return c.compileForIn(s)

	case *ast.CaseStatement:
		return c.compileCase(s)

	case *ast.FuncDeclStatement:
		if err := c.compileFuncLiteral(s.Fn); err != nil {
			return err
		}
		c.compileStoreName(s.Name)
		return nil

	case *ast.ReturnStatement:
		if s.Value == nil {
			c.emit(OpPushUnit)
		} else if err := c.compileExpr(s.Value); err != nil {
			return err
		}
		c.emit(OpRet)
		return nil

	case *ast.BreakStatement:
		lf := c.currentLoop()
		if lf == nil {
			return c.newErr(BreakOutsideLoop, s.Span(), "break outside of a loop")
		}
		lf.breaks = append(lf.breaks, c.emitJump(OpJmp))
		return nil

	case *ast.ContinueStatement:
		lf := c.currentLoop()
		if lf == nil {
			return c.newErr(ContinueOutsideLoop, s.Span(), "continue outside of a loop")
		}
		lf.continues = append(lf.continues, c.emitJump(OpJmp))
		return nil

	case *ast.ShellStatement:
		if err := c.compileFormatString(s.Command); err != nil {
			return err
		}
		c.emit(OpSh)
		c.emit(OpPop)
		return nil

	default:
		return c.newErr(UndefinedVariable, stmt.Span(), "compiler: unhandled statement node %T", stmt)
	}
}

// compileIf lowers `if cond { then } else { else }`. An `elif` is represented in
// the AST as a single *IfStatement nested inside Else, so this naturally recurses.
func (c *Compiler) compileIf(s *ast.IfStatement) *CompileError {
	if err := c.compileExpr(s.Cond); err != nil {
		return err
	}
	c.emit(OpNot)
	elseJump := c.emitJump(OpCondJmp)

	for _, stmt := range s.Then {
		if err := c.compileStatement(stmt); err != nil {
			return err
		}
	}

	if len(s.Else) == 0 {
		c.patchJump(elseJump)
		return nil
	}

	endJump := c.emitJump(OpJmp)
	c.patchJump(elseJump)
	for _, stmt := range s.Else {
		if err := c.compileStatement(stmt); err != nil {
			return err
		}
	}
	c.patchJump(endJump)
	return nil
}

// compileCase lowers `case subject { of pattern: ... default: ... }` to a chain of
// equality tests against a stashed copy of the subject, falling through to a
// default arm (if any) when no `of` pattern matches.
func (c *Compiler) compileCase(s *ast.CaseStatement) *CompileError {
	if err := c.compileExpr(s.Subject); err != nil {
		return err
	}
	subj := c.scope.declareLocal(".tmp_case")
	c.emitU16(OpStore, uint16(subj))

	var endJumps []int
	var defaultArm *ast.CaseArm
	for i := range s.Arms {
		arm := &s.Arms[i]
		if arm.Match == nil {
			defaultArm = arm
			continue
		}
		c.emitU16(OpLoad, uint16(subj))
		if err := c.compileExpr(arm.Match); err != nil {
			return err
		}
		c.emit(OpCmpEq)
		c.emit(OpNot)
		nextArm := c.emitJump(OpCondJmp)

		for _, stmt := range arm.Body {
			if err := c.compileStatement(stmt); err != nil {
				return err
			}
		}
		endJumps = append(endJumps, c.emitJump(OpJmp))
		c.patchJump(nextArm)
	}

	if defaultArm != nil {
		for _, stmt := range defaultArm.Body {
			if err := c.compileStatement(stmt); err != nil {
				return err
			}
		}
	}

	for _, j := range endJumps {
		c.patchJump(j)
	}
	return nil
}
