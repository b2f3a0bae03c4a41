package vm

import (
	"fmt"
	"strings"
)

var opcodeNames = map[Opcode]string{
	OpNop:               "NOP",
	OpPushInt:           "PUSH_INT",
	OpPushFloat:         "PUSH_FLOAT",
	OpPushBool:          "PUSH_BOOL",
	OpPushUnit:          "PUSH_UNIT",
	OpPushConst:         "PUSH_CONST",
	OpPushConstClone:    "PUSH_CONST_CLONE",
	OpPushGlobalDefault: "PUSH_GLOBAL_DEFAULT",
	OpLoad:              "LOAD",
	OpStore:             "STORE",
	OpLoadNonLocal:      "LOAD_NON_LOCAL",
	OpStoreNonLocal:     "STORE_NON_LOCAL",
	OpAttachAncestors:   "ATTACH_ANCESTORS",
	OpDup:               "DUP",
	OpPop:               "POP",
	OpSwap:              "SWAP",
	OpAdd:               "ADD",
	OpSub:               "SUB",
	OpMul:               "MUL",
	OpDiv:               "DIV",
	OpMod:               "MOD",
	OpNeg:                "NEG",
	OpAnd:               "AND",
	OpOr:                "OR",
	OpNot:               "NOT",
	OpCmpLt:             "CMP_LT",
	OpCmpGt:             "CMP_GT",
	OpCmpEq:             "CMP_EQ",
	OpCmpNeq:            "CMP_NEQ",
	OpCmpLeq:            "CMP_LEQ",
	OpCmpGeq:            "CMP_GEQ",
	OpIndexGet:          "INDEX_GET",
	OpIndexSet:          "INDEX_SET",
	OpMakeSlice:         "MAKE_SLICE",
	OpMakeIter:          "MAKE_ITER",
	OpTakeIter:          "TAKE_ITER",
	OpMkList:            "MKLIST",
	OpMkTuple:           "MKTUPLE",
	OpMkSet:             "MKSET",
	OpMkDict:            "MKDICT",
	OpGetAttr:           "GET_ATTR",
	OpSetAttr:           "SET_ATTR",
	OpToString:          "TO_STRING",
	OpFmtString:         "FMT_STRING",
	OpCallFunction:      "CALL_FUNCTION",
	OpCallMethod:        "CALL_METHOD",
	OpJmp:               "JMP",
	OpCondJmp:           "COND_JMP",
	OpRet:               "RET",
	OpSh:                "SH",
	OpDebug:             "DEBUG",
}

// Disassemble returns a human-readable listing of chunk's bytecode.
func Disassemble(chunk *Chunk) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "== %s (context %d) ==\n", chunk.Name, chunk.Context)
	offset := 0
	for offset < len(chunk.Code) {
		offset = disassembleInstruction(&sb, chunk, offset)
	}
	return sb.String()
}

func disassembleInstruction(sb *strings.Builder, chunk *Chunk, offset int) int {
	op := Opcode(chunk.Code[offset])
	name, ok := opcodeNames[op]
	if !ok {
		fmt.Fprintf(sb, "%04d UNKNOWN(%d)\n", offset, op)
		return offset + 1
	}

	width := op.operandWidth()
	switch width {
	case 0:
		fmt.Fprintf(sb, "%04d %s\n", offset, name)
	case 1:
		fmt.Fprintf(sb, "%04d %-20s %d\n", offset, name, chunk.Code[offset+1])
	case 2:
		fmt.Fprintf(sb, "%04d %-20s %d\n", offset, name, chunk.ReadUint16(offset+1))
	case 6:
		ctx := uint32(chunk.Code[offset+1])<<24 | uint32(chunk.Code[offset+2])<<16 |
			uint32(chunk.Code[offset+3])<<8 | uint32(chunk.Code[offset+4])
		local := uint16(chunk.Code[offset+5])<<8 | uint16(chunk.Code[offset+6])
		fmt.Fprintf(sb, "%04d %-20s ctx=%d local=%d\n", offset, name, ctx, local)
	case 8:
		fmt.Fprintf(sb, "%04d %-20s <8-byte immediate>\n", offset, name)
	default:
		fmt.Fprintf(sb, "%04d %s <%d operand bytes>\n", offset, name, width)
	}
	return offset + 1 + width
}
