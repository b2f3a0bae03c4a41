package vm

// Opcode is a single VM instruction. The complete set matches the design-level
// opcode table exactly.
type Opcode byte

const (
	OpNop Opcode = iota

	// Primitive pushes.
	OpPushInt
	OpPushFloat
	OpPushBool
	OpPushUnit
	OpPushConst      // push pool[d] (shared)
	OpPushConstClone // push deep-clone of pool[d]
	OpPushGlobalDefault

	// Local/non-local slot access.
	OpLoad
	OpStore
	OpLoadNonLocal
	OpStoreNonLocal
	OpAttachAncestors // top must be a Function; records current ancestry into it

	// Stack manipulation.
	OpDup
	OpPop
	OpSwap

	// Arithmetic. Widening (Int is arbitrary precision); mod is Euclidean.
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpNeg

	// Truthy-based logic. Non-short-circuit: both operands always evaluated; the
	// compiler lowers `&&`/`||` to explicit jumps instead (spec §4.3).
	OpAnd
	OpOr
	OpNot

	// Comparisons.
	OpCmpLt
	OpCmpGt
	OpCmpEq
	OpCmpNeq
	OpCmpLeq
	OpCmpGeq

	// Indexing and slicing.
	OpIndexGet
	OpIndexSet
	OpMakeSlice // consumes (parent, start, stop, step); pushes Slice

	// Iteration.
	OpMakeIter
	OpTakeIter // pop iterator; push next + re-push iterator, or jump by off if exhausted

	// Construction.
	OpMkList
	OpMkTuple
	OpMkSet
	OpMkDict // consumes 2n values (key, value pairs)

	// Attributes and method/function calls.
	OpGetAttr
	OpSetAttr
	OpToString
	OpFmtString // template interpolation
	OpCallFunction
	OpCallMethod

	// Control flow.
	OpJmp
	OpCondJmp
	OpRet

	// Process and debug.
	OpSh    // treat top as string; execute via system shell; error on non-zero exit
	OpDebug // attach span d to the next failing op's error
)

// operandWidths gives the number of immediate operand bytes following each opcode,
// used by the disassembler and by the VM's instruction-pointer advance. Opcodes not
// listed take zero operand bytes.
var operandWidths = map[Opcode]int{
	OpPushInt:           8,
	OpPushFloat:         8,
	OpPushBool:          1,
	OpPushConst:         2,
	OpPushConstClone:    2,
	OpPushGlobalDefault: 2,
	OpLoad:              2,
	OpStore:             2,
	OpLoadNonLocal:      6, // ContextId (4) + LocalName (2)
	OpStoreNonLocal:     6,
	OpMkList:            2,
	OpMkTuple:           2,
	OpMkSet:             2,
	OpMkDict:            2,
	OpCallFunction:      2,
	OpCallMethod:        2,
	OpFmtString:         2,
	OpJmp:               2,
	OpCondJmp:           2,
	OpTakeIter:          2,
	OpDebug:             2,
}

func (op Opcode) operandWidth() int { return operandWidths[op] }
