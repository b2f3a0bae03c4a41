package vm

import (
	"math/big"

	"github.com/technetium-lang/technetium/internal/object"
)

// arith implements add/sub/mul/div/mod for Int (arbitrary precision, via math/big)
// and Float (float64), plus `+` as concatenation for String/List, matching spec
// §4.4: "arithmetic; widening; Euclidean mod."
func arith(op Opcode, a, b object.Object) (object.Object, *object.RuntimeError) {
	if ai, ok := a.(*object.Int); ok {
		if bi, ok := b.(*object.Int); ok {
			return intArith(op, ai, bi)
		}
		if bf, ok := b.(*object.Float); ok {
			return floatArith(op, intToFloat(ai), bf)
		}
	}
	if af, ok := a.(*object.Float); ok {
		if bf, ok := b.(*object.Float); ok {
			return floatArith(op, af, bf)
		}
		if bi, ok := b.(*object.Int); ok {
			return floatArith(op, af, intToFloat(bi))
		}
	}
	if op == OpAdd {
		if as, ok := a.(*object.String); ok {
			if bs, ok := b.(*object.String); ok {
				return object.NewString(string(as.Val) + string(bs.Val)), nil
			}
		}
		if al, ok := a.(*object.List); ok {
			if bl, ok := b.(*object.List); ok {
				out := make([]object.Object, 0, len(al.Contents)+len(bl.Contents))
				out = append(out, al.Contents...)
				out = append(out, bl.Contents...)
				return object.NewList(out), nil
			}
		}
	}
	return nil, object.NewTypeError("unsupported operand types for arithmetic: %s and %s", a.TypeName(), b.TypeName())
}

func intToFloat(i *object.Int) *object.Float {
	f := new(big.Float).SetInt(i.Val)
	v, _ := f.Float64()
	return object.NewFloat(v)
}

func intArith(op Opcode, a, b *object.Int) (object.Object, *object.RuntimeError) {
	switch op {
	case OpAdd:
		return object.NewBigInt(new(big.Int).Add(a.Val, b.Val)), nil
	case OpSub:
		return object.NewBigInt(new(big.Int).Sub(a.Val, b.Val)), nil
	case OpMul:
		return object.NewBigInt(new(big.Int).Mul(a.Val, b.Val)), nil
	case OpDiv:
		if b.Val.Sign() == 0 {
			return nil, object.NewTypeError("division by zero")
		}
		q, r := new(big.Int), new(big.Int)
		q.QuoRem(a.Val, b.Val, r)
		// Euclidean division: remainder must be non-negative.
		if r.Sign() < 0 {
			if b.Val.Sign() > 0 {
				q.Sub(q, big.NewInt(1))
			} else {
				q.Add(q, big.NewInt(1))
			}
		}
		return object.NewBigInt(q), nil
	case OpMod:
		if b.Val.Sign() == 0 {
			return nil, object.NewTypeError("division by zero")
		}
		m := new(big.Int).Mod(a.Val, b.Val) // big.Int.Mod is already Euclidean
		return object.NewBigInt(m), nil
	default:
		return nil, object.NewInternalError("intArith: unsupported opcode")
	}
}

func floatArith(op Opcode, a, b *object.Float) (object.Object, *object.RuntimeError) {
	switch op {
	case OpAdd:
		return object.NewFloat(a.Val + b.Val), nil
	case OpSub:
		return object.NewFloat(a.Val - b.Val), nil
	case OpMul:
		return object.NewFloat(a.Val * b.Val), nil
	case OpDiv:
		if b.Val == 0 {
			return nil, object.NewTypeError("division by zero")
		}
		return object.NewFloat(a.Val / b.Val), nil
	case OpMod:
		if b.Val == 0 {
			return nil, object.NewTypeError("division by zero")
		}
		m := a.Val - b.Val*floorDiv(a.Val, b.Val)
		return object.NewFloat(m), nil
	default:
		return nil, object.NewInternalError("floatArith: unsupported opcode")
	}
}

func floorDiv(a, b float64) float64 {
	q := a / b
	return floorFloat(q)
}

func floorFloat(v float64) float64 {
	i := int64(v)
	if float64(i) > v {
		i--
	}
	return float64(i)
}

func negate(v object.Object) (object.Object, *object.RuntimeError) {
	switch n := v.(type) {
	case *object.Int:
		return object.NewBigInt(new(big.Int).Neg(n.Val)), nil
	case *object.Float:
		return object.NewFloat(-n.Val), nil
	default:
		return nil, object.NewTypeError("cannot negate %s", v.TypeName())
	}
}

func compare(op Opcode, a, b object.Object) (object.Object, *object.RuntimeError) {
	if op == OpCmpEq || op == OpCmpNeq {
		eq, err := object.Equal(a, b)
		if err != nil {
			return nil, err
		}
		if op == OpCmpNeq {
			eq = !eq
		}
		return object.NewBool(eq), nil
	}

	c, err := ordCompare(a, b)
	if err != nil {
		return nil, err
	}
	var result bool
	switch op {
	case OpCmpLt:
		result = c < 0
	case OpCmpGt:
		result = c > 0
	case OpCmpLeq:
		result = c <= 0
	case OpCmpGeq:
		result = c >= 0
	}
	return object.NewBool(result), nil
}

// ordCompare returns -1/0/1 for orderable types (Int, Float, String, Char).
func ordCompare(a, b object.Object) (int, *object.RuntimeError) {
	if ai, ok := a.(*object.Int); ok {
		if bi, ok := b.(*object.Int); ok {
			return ai.Val.Cmp(bi.Val), nil
		}
		if bf, ok := b.(*object.Float); ok {
			return floatCmp(intToFloat(ai).Val, bf.Val), nil
		}
	}
	if af, ok := a.(*object.Float); ok {
		if bf, ok := b.(*object.Float); ok {
			return floatCmp(af.Val, bf.Val), nil
		}
		if bi, ok := b.(*object.Int); ok {
			return floatCmp(af.Val, intToFloat(bi).Val), nil
		}
	}
	if as, ok := a.(*object.String); ok {
		if bs, ok := b.(*object.String); ok {
			return bytesCmp(as.Val, bs.Val), nil
		}
	}
	if ac, ok := a.(*object.Char); ok {
		if bc, ok := b.(*object.Char); ok {
			switch {
			case ac.Val < bc.Val:
				return -1, nil
			case ac.Val > bc.Val:
				return 1, nil
			default:
				return 0, nil
			}
		}
	}
	return 0, object.NewTypeError("cannot order-compare %s and %s", a.TypeName(), b.TypeName())
}

func floatCmp(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func bytesCmp(a, b []byte) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

// makeSlice backs the make_slice opcode: parent must be Sliceable, and each of
// start/stop/step is an Int or Unit (an omitted bound). An omitted step is 1, an
// omitted stop is open-ended, and an omitted start is 0 for a positive step and -1
// (the last element) for a negative one.
func makeSlice(parent, start, stop, step object.Object) (object.Object, *object.RuntimeError) {
	sliceable, ok := parent.(object.Sliceable)
	if !ok {
		return nil, object.NewTypeError("%s is not sliceable", parent.TypeName())
	}
	stepI, err := asInt64(step, 1)
	if err != nil {
		return nil, err
	}
	startDefault := int64(0)
	if stepI < 0 {
		startDefault = -1
	}
	startI, err := asInt64(start, startDefault)
	if err != nil {
		return nil, err
	}
	if _, isUnit := stop.(*object.Unit); isUnit {
		return sliceable.MakeSlice(startI, 0, false, stepI)
	}
	stopI, err := asInt64(stop, 0)
	if err != nil {
		return nil, err
	}
	return sliceable.MakeSlice(startI, stopI, true, stepI)
}

func asInt64(v object.Object, def int64) (int64, *object.RuntimeError) {
	if _, isUnit := v.(*object.Unit); isUnit {
		return def, nil
	}
	i, ok := v.(*object.Int)
	if !ok {
		return 0, object.NewTypeError("slice bound must be int, got %s", v.TypeName())
	}
	return i.ToInt64()
}
