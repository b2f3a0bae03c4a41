package stdlib

import (
	"math"
	"math/big"

	"github.com/technetium-lang/technetium/internal/object"
)

func installMath(reg regFn) {
	unary := func(name string, f func(float64) float64) {
		reg(name, 1, func(args []object.Object) (object.Object, *object.RuntimeError) {
			x, err := floatArg(name, args[0])
			if err != nil {
				return nil, err
			}
			return object.NewFloat(f(x)), nil
		})
	}

	unary("sin", math.Sin)
	unary("cos", math.Cos)
	unary("tan", math.Tan)
	unary("arcsin", math.Asin)
	unary("arccos", math.Acos)
	unary("arctan", math.Atan)
	unary("exp", math.Exp)
	unary("ln", math.Log)
	unary("round", math.Round)
	unary("floor", math.Floor)
	unary("ceil", math.Ceil)

	reg("sqrt", 1, func(args []object.Object) (object.Object, *object.RuntimeError) {
		x, err := floatArg("sqrt", args[0])
		if err != nil {
			return nil, err
		}
		if x < 0 {
			return nil, object.NewTypeError("sqrt of a negative number %g", x)
		}
		return object.NewFloat(math.Sqrt(x)), nil
	})

	reg("abs", 1, func(args []object.Object) (object.Object, *object.RuntimeError) {
		switch n := args[0].(type) {
		case *object.Int:
			if n.Val.Sign() < 0 {
				return object.NewBigInt(new(big.Int).Abs(n.Val)), nil
			}
			return n, nil
		case *object.Float:
			return object.NewFloat(math.Abs(n.Val)), nil
		default:
			return nil, object.NewTypeError("abs expects int or float, got %s", n.TypeName())
		}
	})
}

// floatArg coerces an Int or Float argument to float64; other types are a type error.
func floatArg(name string, v object.Object) (float64, *object.RuntimeError) {
	switch n := v.(type) {
	case *object.Float:
		return n.Val, nil
	case *object.Int:
		f, err := toFloat(n)
		if err != nil {
			return 0, err
		}
		return f.(*object.Float).Val, nil
	default:
		return 0, object.NewTypeError("%s expects a number, got %s", name, v.TypeName())
	}
}
