package vm

import (
	"math"

	"github.com/technetium-lang/technetium/internal/ast"
	"github.com/technetium-lang/technetium/internal/object"
)

func (c *Compiler) compileExpr(e ast.Expression) *CompileError {
	switch n := e.(type) {
	case *ast.IntLiteral:
		return c.compileIntLiteral(n)

	case *ast.FloatLiteral:
		c.emit(OpPushFloat)
		writeFloat64Bits(c.chunk(), math.Float64bits(n.Value))
		return nil

	case *ast.BoolLiteral:
		c.emit(OpPushBool)
		if n.Value {
			c.chunk().WriteByte(1)
		} else {
			c.chunk().WriteByte(0)
		}
		return nil

	case *ast.CharLiteral:
		c.pushConst(object.NewChar(n.Value), false)
		return nil

	case *ast.StringLiteral:
		c.pushConst(object.NewString(n.Value), true)
		return nil

	case *ast.FormatStringExpr:
		return c.compileFormatString(n)

	case *ast.Identifier:
		return c.compileLoadName(n.Name, n.Span())

	case *ast.BinaryExpr:
		if err := c.compileExpr(n.Left); err != nil {
			return err
		}
		if err := c.compileExpr(n.Right); err != nil {
			return err
		}
		c.emit(binOpcode(n.Op))
		return nil

	case *ast.LogicalExpr:
		return c.compileLogical(n)

	case *ast.UnaryExpr:
		if err := c.compileExpr(n.Operand); err != nil {
			return err
		}
		if n.Op == "-" {
			c.emit(OpNeg)
		} else {
			c.emit(OpNot)
		}
		return nil

	case *ast.IncDecExpr:
		return c.compileIncDec(n)

	case *ast.CallExpr:
		// call_function expects callee underneath its n args on the stack (vm_exec
		// pops the args first, then the callee).
		if err := c.compileExpr(n.Callee); err != nil {
			return err
		}
		for _, a := range n.Args {
			if err := c.compileExpr(a); err != nil {
				return err
			}
		}
		c.emitU16(OpCallFunction, uint16(len(n.Args)))
		return nil

	case *ast.MethodCallExpr:
		// call_method expects receiver, then method name, then n args (vm_exec pops
		// args first, then name, then receiver).
		if err := c.compileExpr(n.Receiver); err != nil {
			return err
		}
		c.pushConst(object.NewString(n.Method), false)
		for _, a := range n.Args {
			if err := c.compileExpr(a); err != nil {
				return err
			}
		}
		c.emitU16(OpCallMethod, uint16(len(n.Args)))
		return nil

	case *ast.AttrExpr:
		if err := c.compileExpr(n.Object); err != nil {
			return err
		}
		c.pushConst(object.NewString(n.Attr), false)
		c.emit(OpGetAttr)
		return nil

	case *ast.IndexExpr:
		if err := c.compileExpr(n.Object); err != nil {
			return err
		}
		if err := c.compileExpr(n.Index); err != nil {
			return err
		}
		c.emit(OpIndexGet)
		return nil

	case *ast.SliceExpr:
		if err := c.compileExpr(n.Object); err != nil {
			return err
		}
		if err := c.compileBoundOrUnit(n.Start); err != nil {
			return err
		}
		if err := c.compileBoundOrUnit(n.Stop); err != nil {
			return err
		}
		if err := c.compileBoundOrUnit(n.Step); err != nil {
			return err
		}
		c.emit(OpMakeSlice)
		return nil

	case *ast.ListLiteral:
		for _, el := range n.Elements {
			if err := c.compileExpr(el); err != nil {
				return err
			}
		}
		c.emitU16(OpMkList, uint16(len(n.Elements)))
		return nil

	case *ast.TupleLiteral:
		for _, el := range n.Elements {
			if err := c.compileExpr(el); err != nil {
				return err
			}
		}
		c.emitU16(OpMkTuple, uint16(len(n.Elements)))
		return nil

	case *ast.SetLiteral:
		for _, el := range n.Elements {
			if err := c.compileExpr(el); err != nil {
				return err
			}
		}
		c.emitU16(OpMkSet, uint16(len(n.Elements)))
		return nil

	case *ast.DictLiteral:
		for _, entry := range n.Entries {
			if err := c.compileExpr(entry.Key); err != nil {
				return err
			}
			if err := c.compileExpr(entry.Value); err != nil {
				return err
			}
		}
		c.emitU16(OpMkDict, uint16(len(n.Entries)))
		return nil

	case *ast.FuncLiteral:
		return c.compileFuncLiteral(n)

	default:
		return c.newErr(UndefinedVariable, e.Span(), "compiler: unhandled expression node %T", e)
	}
}

// compileBoundOrUnit pushes expr's value, or push_unit if expr is nil (an omitted
// slice bound: `xs[2:]`, `xs[:5]`, `xs[::2]`).
func (c *Compiler) compileBoundOrUnit(expr ast.Expression) *CompileError {
	if expr == nil {
		c.emit(OpPushUnit)
		return nil
	}
	return c.compileExpr(expr)
}

func binOpcode(op string) Opcode {
	switch op {
	case "+":
		return OpAdd
	case "-":
		return OpSub
	case "*":
		return OpMul
	case "/":
		return OpDiv
	case "%":
		return OpMod
	case "==":
		return OpCmpEq
	case "!=":
		return OpCmpNeq
	case "<":
		return OpCmpLt
	case ">":
		return OpCmpGt
	case "<=":
		return OpCmpLeq
	case ">=":
		return OpCmpGeq
	default:
		return OpNop
	}
}

// compileLogical lowers `&&`/`||` to short-circuiting jumps, per spec §4.3 (distinct
// from the non-short-circuit `and`/`or` opcodes, which the compiler never emits for
// source-level `&&`/`||`).
func (c *Compiler) compileLogical(n *ast.LogicalExpr) *CompileError {
	if err := c.compileExpr(n.Left); err != nil {
		return err
	}
	if n.Op == "&&" {
		c.emit(OpDup)
		skip := c.emitJump(OpCondJmp) // if left is truthy, jump past the short-circuit jmp to evaluate right
		shortCircuit := c.emitJump(OpJmp)
		c.patchJump(skip)
		c.emit(OpPop)
		if err := c.compileExpr(n.Right); err != nil {
			return err
		}
		end := c.emitJump(OpJmp)
		c.patchJump(shortCircuit)
		c.patchJump(end)
		return nil
	}
	// `||`: if left is truthy, short-circuit with it; else evaluate right.
	c.emit(OpDup)
	c.emit(OpNot)
	evalRight := c.emitJump(OpCondJmp)
	shortCircuit := c.emitJump(OpJmp)
	c.patchJump(evalRight)
	c.emit(OpPop)
	if err := c.compileExpr(n.Right); err != nil {
		return err
	}
	end := c.emitJump(OpJmp)
	c.patchJump(shortCircuit)
	c.patchJump(end)
	return nil
}

// compileFormatString pushes the template's literal segments and substitution
// values in the interleaved order fmt_string expects, then combines them.
func (c *Compiler) compileFormatString(n *ast.FormatStringExpr) *CompileError {
	count := 0
	for i, lit := range n.Literals {
		c.pushConst(object.NewString(lit), false)
		count++
		if i < len(n.Subs) {
			if err := c.compileExpr(n.Subs[i]); err != nil {
				return err
			}
			c.emit(OpToString)
			count++
		}
	}
	c.emitU16(OpFmtString, uint16(count))
	return nil
}

// compileLoadName resolves name as local, then ancestor non-local; any other name
// compiles to push_global_default. The compiler does not check that name against
// the globals table: a name that is neither a local nor a global compiles without
// error and fails with VariableUndefined when that op runs. ("Writing creates a
// fresh local" applies to assignment targets only; see compileStoreName.)
func (c *Compiler) compileLoadName(name string, span object.Span) *CompileError {
	if slot, ok := c.scope.resolveLocal(name); ok {
		c.emitU16(OpLoad, uint16(slot))
		return nil
	}
	if nl, ok := c.scope.resolveNonLocal(name); ok {
		c.emitNonLocal(OpLoadNonLocal, nl)
		return nil
	}
	idx := c.pushStringConst(name)
	c.emitU16(OpPushGlobalDefault, idx)
	return nil
}

func (c *Compiler) emitNonLocal(op Opcode, nl object.NonLocalName) {
	c.emit(op)
	ctx := uint32(nl.Context)
	c.chunk().WriteByte(byte(ctx >> 24))
	c.chunk().WriteByte(byte(ctx >> 16))
	c.chunk().WriteByte(byte(ctx >> 8))
	c.chunk().WriteByte(byte(ctx))
	c.chunk().WriteUint16(uint16(nl.Local))
}

// compileStoreName resolves name the same way as compileLoadName, except an
// unresolved name creates a fresh local slot in the current scope (spec §4.3).
func (c *Compiler) compileStoreName(name string) {
	if slot, ok := c.scope.resolveLocal(name); ok {
		c.emitU16(OpStore, uint16(slot))
		return
	}
	if nl, ok := c.scope.resolveNonLocal(name); ok {
		c.emitNonLocal(OpStoreNonLocal, nl)
		return
	}
	slot := c.scope.declareLocal(name)
	c.emitU16(OpStore, uint16(slot))
}

// compileAssignTarget compiles the write half of an assignment or inc/dec, assuming
// the value to store is already on top of the stack.
func (c *Compiler) compileAssignTarget(target ast.Expression) *CompileError {
	switch t := target.(type) {
	case *ast.Identifier:
		c.compileStoreName(t.Name)
		return nil
	case *ast.AttrExpr:
		// stack: val -> need object, name, val for set_attr
		tmp := c.scope.declareLocal(".tmp_assign")
		c.emitU16(OpStore, uint16(tmp))
		if err := c.compileExpr(t.Object); err != nil {
			return err
		}
		c.pushConst(object.NewString(t.Attr), false)
		c.emitU16(OpLoad, uint16(tmp))
		c.emit(OpSetAttr)
		return nil
	case *ast.IndexExpr:
		tmp := c.scope.declareLocal(".tmp_assign")
		c.emitU16(OpStore, uint16(tmp))
		if err := c.compileExpr(t.Object); err != nil {
			return err
		}
		if err := c.compileExpr(t.Index); err != nil {
			return err
		}
		c.emitU16(OpLoad, uint16(tmp))
		c.emit(OpIndexSet)
		return nil
	default:
		return c.newErr(InvalidAssignmentTarget, target.Span(), "invalid assignment target")
	}
}

// compileIncDec lowers `x++`, `--x`, `a[i]++`: load current value, stash the
// observed value (pre- or post-variant), add/subtract 1, store back.
func (c *Compiler) compileIncDec(n *ast.IncDecExpr) *CompileError {
	if err := c.compileExpr(n.Target); err != nil {
		return err
	}
	observed := c.scope.declareLocal(".tmp_incdec")
	if !n.IsPre {
		c.emit(OpDup)
		c.emitU16(OpStore, uint16(observed))
	}
	c.emit(OpPushInt)
	writeInt64(c.chunk(), n.Delta)
	c.emit(OpAdd)
	if n.IsPre {
		c.emit(OpDup)
		c.emitU16(OpStore, uint16(observed))
	}
	if err := c.compileAssignTarget(n.Target); err != nil {
		return err
	}
	c.emitU16(OpLoad, uint16(observed))
	return nil
}

// compileFuncLiteral compiles a nested function body into its own chunk and context,
// leaving a Function value (with ancestors attached) on the stack.
func (c *Compiler) compileFuncLiteral(n *ast.FuncLiteral) *CompileError {
	ctx := c.nextContext
	c.nextContext++
	chunk := NewChunk(ctx, funcDisplayName(n.Name), c.file)
	chunk.Nargs = len(n.ParamNames)
	c.chunks[ctx] = chunk

	parent := c.scope
	c.scope = newScope(ctx, chunk, parent)
	for _, p := range n.ParamNames {
		c.scope.declareLocal(p)
	}
	for _, stmt := range n.Body {
		if err := c.compileStatement(stmt); err != nil {
			c.scope = parent
			return err
		}
	}
	c.emitReturnUnit()
	c.scope = parent

	fn := object.NewFunction(funcDisplayName(n.Name), len(n.ParamNames), ctx, chunk)
	c.pushConst(fn, true)
	c.emit(OpAttachAncestors)
	return nil
}

func funcDisplayName(name string) string {
	if name == "" {
		return "<anonymous>"
	}
	return name
}
