package vm

import (
	"math"

	"github.com/technetium-lang/technetium/internal/object"
)

// execute interprets chunk's bytecode within one call frame, returning the value
// popped by `ret` (or Unit if execution falls off the end of the code, per spec
// §4.4's call lifecycle). pendingSpan implements the `debug d` opcode: it attaches
// to whichever op fails next, then is cleared.
func (vm *VM) execute(chunk *Chunk, frameID object.FrameId, ancestry object.AncestryMap) (object.Object, *object.RuntimeError) {
	var stack []object.Object
	ip := 0
	var pendingSpan *object.Span

	fail := func(err *object.RuntimeError) (object.Object, *object.RuntimeError) {
		if pendingSpan != nil {
			err.AttachSpan(*pendingSpan)
		}
		return nil, err
	}

	push := func(v object.Object) { stack = append(stack, v) }
	pop := func() object.Object {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return v
	}

	for ip < len(chunk.Code) {
		op := Opcode(chunk.Code[ip])
		ip++

		switch op {
		case OpNop:

		case OpPushInt:
			v := int64(beUint64(chunk.Code[ip:]))
			ip += 8
			push(object.NewInt(v))

		case OpPushFloat:
			bits := beUint64(chunk.Code[ip:])
			ip += 8
			push(object.NewFloat(math.Float64frombits(bits)))

		case OpPushBool:
			v := chunk.Code[ip] != 0
			ip++
			push(object.NewBool(v))

		case OpPushUnit:
			push(object.TheUnit)

		case OpPushConst:
			idx := chunk.ReadUint16(ip)
			ip += 2
			push(chunk.Constants[idx])

		case OpPushConstClone:
			idx := chunk.ReadUint16(ip)
			ip += 2
			cloned, err := chunk.Constants[idx].Clone()
			if err != nil {
				return fail(err)
			}
			push(cloned)

		case OpPushGlobalDefault:
			idx := chunk.ReadUint16(ip)
			ip += 2
			name, _ := chunk.Constants[idx].(*object.String)
			v, ok := vm.Globals[string(name.Val)]
			if !ok {
				return fail(object.NewVariableUndefined("undefined global %s", name.Val))
			}
			push(v)

		case OpLoad:
			local := object.LocalName(chunk.ReadUint16(ip))
			ip += 2
			v, err := vm.Mem.Get(frameID, local)
			if err != nil {
				return fail(err)
			}
			push(v)

		case OpStore:
			local := object.LocalName(chunk.ReadUint16(ip))
			ip += 2
			if err := vm.Mem.Set(frameID, local, pop()); err != nil {
				return fail(err)
			}

		case OpLoadNonLocal:
			ctx, local := readNonLocal(chunk, ip)
			ip += 6
			ancestorFrame, ok := ancestry[ctx]
			if !ok {
				return fail(object.NewInternalError("no live ancestor frame for context %d", ctx))
			}
			v, err := vm.Mem.Get(ancestorFrame, local)
			if err != nil {
				return fail(err)
			}
			push(v)

		case OpStoreNonLocal:
			ctx, local := readNonLocal(chunk, ip)
			ip += 6
			ancestorFrame, ok := ancestry[ctx]
			if !ok {
				return fail(object.NewInternalError("no live ancestor frame for context %d", ctx))
			}
			if err := vm.Mem.Set(ancestorFrame, local, pop()); err != nil {
				return fail(err)
			}

		case OpAttachAncestors:
			fn, ok := stack[len(stack)-1].(*object.Function)
			if !ok {
				return fail(object.NewTypeError("attach_ancestors: top of stack is not a function"))
			}
			if err := fn.AttachAncestors(ancestry.Clone()); err != nil {
				return fail(err)
			}

		case OpDup:
			push(stack[len(stack)-1])

		case OpPop:
			pop()

		case OpSwap:
			n := len(stack)
			stack[n-1], stack[n-2] = stack[n-2], stack[n-1]

		case OpAdd, OpSub, OpMul, OpDiv, OpMod:
			b := pop()
			a := pop()
			v, err := arith(op, a, b)
			if err != nil {
				return fail(err)
			}
			push(v)

		case OpNeg:
			v, err := negate(pop())
			if err != nil {
				return fail(err)
			}
			push(v)

		case OpAnd:
			b := pop()
			a := pop()
			push(object.NewBool(a.Truthy() && b.Truthy()))

		case OpOr:
			b := pop()
			a := pop()
			push(object.NewBool(a.Truthy() || b.Truthy()))

		case OpNot:
			push(object.NewBool(!pop().Truthy()))

		case OpCmpLt, OpCmpGt, OpCmpEq, OpCmpNeq, OpCmpLeq, OpCmpGeq:
			b := pop()
			a := pop()
			v, err := compare(op, a, b)
			if err != nil {
				return fail(err)
			}
			push(v)

		case OpIndexGet:
			key := pop()
			recv := pop()
			v, err := recv.IndexGet(key)
			if err != nil {
				return fail(err)
			}
			push(v)

		case OpIndexSet:
			val := pop()
			key := pop()
			recv := pop()
			if err := recv.IndexSet(key, val); err != nil {
				return fail(err)
			}

		case OpMakeSlice:
			step := pop()
			stop := pop()
			start := pop()
			parent := pop()
			v, err := makeSlice(parent, start, stop, step)
			if err != nil {
				return fail(err)
			}
			push(v)

		case OpMakeIter:
			v := pop()
			it, err := v.MakeIterator()
			if err != nil {
				return fail(err)
			}
			push(it)

		case OpTakeIter:
			off := int(int16(chunk.ReadUint16(ip)))
			ip += 2
			it := pop().(object.Iterator)
			val, ok, err := it.Next()
			if err != nil {
				return fail(err)
			}
			if !ok {
				ip += off
				continue
			}
			push(it)
			push(val)

		case OpMkList:
			n := int(chunk.ReadUint16(ip))
			ip += 2
			elems := takeN(&stack, n)
			push(object.NewList(elems))

		case OpMkTuple:
			n := int(chunk.ReadUint16(ip))
			ip += 2
			elems := takeN(&stack, n)
			push(object.NewTuple(elems))

		case OpMkSet:
			n := int(chunk.ReadUint16(ip))
			ip += 2
			elems := takeN(&stack, n)
			s := object.NewSet()
			for _, e := range elems {
				if err := s.Add(e); err != nil {
					return fail(err)
				}
			}
			push(s)

		case OpMkDict:
			n := int(chunk.ReadUint16(ip))
			ip += 2
			elems := takeN(&stack, 2*n)
			d := object.NewDictionary()
			for i := 0; i < len(elems); i += 2 {
				if err := d.Set(elems[i], elems[i+1]); err != nil {
					return fail(err)
				}
			}
			push(d)

		case OpGetAttr:
			name := pop().(*object.String)
			recv := pop()
			v, err := recv.GetAttr(string(name.Val))
			if err != nil {
				return fail(err)
			}
			push(v)

		case OpSetAttr:
			val := pop()
			name := pop().(*object.String)
			recv := pop()
			if err := recv.SetAttr(string(name.Val), val); err != nil {
				return fail(err)
			}

		case OpToString:
			s, err := pop().ToString()
			if err != nil {
				return fail(err)
			}
			push(object.NewString(s))

		case OpFmtString:
			n := int(chunk.ReadUint16(ip))
			ip += 2
			parts := takeN(&stack, n)
			var sb []byte
			for _, p := range parts {
				str, ok := p.(*object.String)
				if !ok {
					return fail(object.NewInternalError("fmt_string: non-string part"))
				}
				sb = append(sb, str.Val...)
			}
			push(object.NewString(string(sb)))

		case OpCallFunction:
			n := int(chunk.ReadUint16(ip))
			ip += 2
			args := takeN(&stack, n)
			callee := pop()
			v, err := callee.Call(vm, args)
			if err != nil {
				return fail(err)
			}
			push(v)

		case OpCallMethod:
			n := int(chunk.ReadUint16(ip))
			ip += 2
			args := takeN(&stack, n)
			nameObj := pop().(*object.String)
			recv := pop()
			v, err := recv.CallMethod(string(nameObj.Val), args)
			if err != nil {
				return fail(err)
			}
			push(v)

		case OpJmp:
			off := int(int16(chunk.ReadUint16(ip)))
			ip += 2
			ip += off

		case OpCondJmp:
			off := int(int16(chunk.ReadUint16(ip)))
			ip += 2
			if pop().Truthy() {
				ip += off
			}

		case OpRet:
			return pop(), nil

		case OpSh:
			cmd := pop().(*object.String)
			if err := vm.runShell(string(cmd.Val)); err != nil {
				return fail(err)
			}
			push(object.TheUnit)

		case OpDebug:
			idx := object.DebugDescriptor(chunk.ReadUint16(ip))
			ip += 2
			if int(idx) < len(chunk.Spans) {
				span := chunk.Spans[idx]
				pendingSpan = &span
				if vm.StepHook != nil {
					vm.StepHook(frameID, span)
				}
			}
			continue
		}

		// Any successfully-executed op (other than debug, which explicitly
		// `continue`s above) clears a previously attached span: the spec's
		// `debug d` opcode only attaches to the *next* op, success or failure.
		pendingSpan = nil
	}

	return object.TheUnit, nil
}

func readNonLocal(chunk *Chunk, ip int) (object.ContextId, object.LocalName) {
	ctx := uint32(chunk.Code[ip])<<24 | uint32(chunk.Code[ip+1])<<16 |
		uint32(chunk.Code[ip+2])<<8 | uint32(chunk.Code[ip+3])
	local := uint16(chunk.Code[ip+4])<<8 | uint16(chunk.Code[ip+5])
	return object.ContextId(ctx), object.LocalName(local)
}

func beUint64(b []byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v = v<<8 | uint64(b[i])
	}
	return v
}

// takeN pops the top n values off *stack and returns them in push order (oldest
// first), shrinking the stack in place.
func takeN(stack *[]object.Object, n int) []object.Object {
	s := *stack
	start := len(s) - n
	out := make([]object.Object, n)
	copy(out, s[start:])
	*stack = s[:start]
	return out
}
