package stdlib

import (
	"math/big"
	"strconv"

	"github.com/technetium-lang/technetium/internal/object"
)

type regFn = func(string, int, func([]object.Object) (object.Object, *object.RuntimeError))

func installConversions(reg regFn) {
	reg("type", 1, func(args []object.Object) (object.Object, *object.RuntimeError) {
		return object.NewString(args[0].TypeName()), nil
	})
	reg("string", 1, func(args []object.Object) (object.Object, *object.RuntimeError) {
		s, err := args[0].ToString()
		if err != nil {
			return nil, err
		}
		return object.NewString(s), nil
	})
	reg("clone", 1, func(args []object.Object) (object.Object, *object.RuntimeError) {
		return args[0].Clone()
	})
	reg("bool", 1, func(args []object.Object) (object.Object, *object.RuntimeError) {
		return object.NewBool(args[0].Truthy()), nil
	})
	reg("int", 1, func(args []object.Object) (object.Object, *object.RuntimeError) {
		return toInt(args[0])
	})
	reg("float", 1, func(args []object.Object) (object.Object, *object.RuntimeError) {
		return toFloat(args[0])
	})
	reg("char", 1, func(args []object.Object) (object.Object, *object.RuntimeError) {
		return toChar(args[0])
	})
	reg("hash", 1, func(args []object.Object) (object.Object, *object.RuntimeError) {
		h, err := args[0].Hash()
		if err != nil {
			return nil, err
		}
		return object.NewBigInt(new(big.Int).SetUint64(h)), nil
	})
	reg("lock", 1, func(args []object.Object) (object.Object, *object.RuntimeError) {
		if lv, ok := args[0].(interface{ Lock() }); ok {
			lv.Lock()
		}
		return args[0], nil
	})
}

func toInt(v object.Object) (object.Object, *object.RuntimeError) {
	switch n := v.(type) {
	case *object.Int:
		return n, nil
	case *object.Float:
		bi, _ := big.NewFloat(n.Val).Int(nil)
		return object.NewBigInt(bi), nil
	case *object.Char:
		return object.NewInt(int64(n.Val)), nil
	case *object.Bool:
		if n.Val {
			return object.NewInt(1), nil
		}
		return object.NewInt(0), nil
	case *object.String:
		i, ok := new(big.Int).SetString(string(n.Val), 10)
		if !ok {
			return nil, object.NewTypeError("cannot parse %q as int", string(n.Val))
		}
		return object.NewBigInt(i), nil
	default:
		return nil, object.NewTypeError("cannot convert %s to int", v.TypeName())
	}
}

func toFloat(v object.Object) (object.Object, *object.RuntimeError) {
	switch n := v.(type) {
	case *object.Float:
		return n, nil
	case *object.Int:
		f := new(big.Float).SetInt(n.Val)
		out, _ := f.Float64()
		return object.NewFloat(out), nil
	case *object.String:
		f, err := strconv.ParseFloat(string(n.Val), 64)
		if err != nil {
			return nil, object.NewTypeError("cannot parse %q as float", string(n.Val))
		}
		return object.NewFloat(f), nil
	default:
		return nil, object.NewTypeError("cannot convert %s to float", v.TypeName())
	}
}

func toChar(v object.Object) (object.Object, *object.RuntimeError) {
	switch n := v.(type) {
	case *object.Char:
		return n, nil
	case *object.Int:
		i, err := n.ToInt64()
		if err != nil {
			return nil, err
		}
		return object.NewChar(rune(i)), nil
	case *object.String:
		runes := []rune(string(n.Val))
		if len(runes) != 1 {
			return nil, object.NewTypeError("char() expects a single-character string, got length %d", len(runes))
		}
		return object.NewChar(runes[0]), nil
	default:
		return nil, object.NewTypeError("cannot convert %s to char", v.TypeName())
	}
}
