package stdlib

import (
	"github.com/technetium-lang/technetium/internal/object"
	"github.com/technetium-lang/technetium/internal/vm"
)

func installContainers(reg regFn, v *vm.VM) {
	reg("range", -1, func(args []object.Object) (object.Object, *object.RuntimeError) {
		var start, stop, step int64 = 0, 0, 1
		switch len(args) {
		case 1:
			n, err := intArg("range", args[0])
			if err != nil {
				return nil, err
			}
			stop = n
		case 2:
			a, err := intArg("range", args[0])
			if err != nil {
				return nil, err
			}
			b, err := intArg("range", args[1])
			if err != nil {
				return nil, err
			}
			start, stop = a, b
		case 3:
			a, err := intArg("range", args[0])
			if err != nil {
				return nil, err
			}
			b, err := intArg("range", args[1])
			if err != nil {
				return nil, err
			}
			c, err := intArg("range", args[2])
			if err != nil {
				return nil, err
			}
			start, stop, step = a, b, c
		default:
			return nil, object.NewTypeError("range expects 1 to 3 arguments, got %d", len(args))
		}
		if step == 0 {
			return nil, object.NewTypeError("range step must not be zero")
		}
		var out []object.Object
		if step > 0 {
			for i := start; i < stop; i += step {
				out = append(out, object.NewInt(i))
			}
		} else {
			for i := start; i > stop; i += step {
				out = append(out, object.NewInt(i))
			}
		}
		return object.NewList(out), nil
	})

	reg("list", 1, func(args []object.Object) (object.Object, *object.RuntimeError) {
		items, err := drain(args[0])
		if err != nil {
			return nil, err
		}
		return object.NewList(items), nil
	})

	reg("set", 1, func(args []object.Object) (object.Object, *object.RuntimeError) {
		items, err := drain(args[0])
		if err != nil {
			return nil, err
		}
		s := object.NewSet()
		for _, it := range items {
			if err := s.Add(it); err != nil {
				return nil, err
			}
		}
		return s, nil
	})

	reg("dict", 1, func(args []object.Object) (object.Object, *object.RuntimeError) {
		items, err := drain(args[0])
		if err != nil {
			return nil, err
		}
		d := object.NewDictionary()
		for _, it := range items {
			pair, ok := it.(*object.Tuple)
			if !ok || len(pair.Contents) != 2 {
				return nil, object.NewTypeError("dict() expects an iterable of (key, value) pairs")
			}
			if err := d.Set(pair.Contents[0], pair.Contents[1]); err != nil {
				return nil, err
			}
		}
		return d, nil
	})

	reg("map", 2, func(args []object.Object) (object.Object, *object.RuntimeError) {
		items, err := drain(args[1])
		if err != nil {
			return nil, err
		}
		out := make([]object.Object, len(items))
		for i, it := range items {
			result, err := args[0].Call(v, []object.Object{it})
			if err != nil {
				return nil, err
			}
			out[i] = result
		}
		return object.NewList(out), nil
	})

	reg("filter", 2, func(args []object.Object) (object.Object, *object.RuntimeError) {
		items, err := drain(args[1])
		if err != nil {
			return nil, err
		}
		var out []object.Object
		for _, it := range items {
			keep, err := args[0].Call(v, []object.Object{it})
			if err != nil {
				return nil, err
			}
			if keep.Truthy() {
				out = append(out, it)
			}
		}
		return object.NewList(out), nil
	})
}

// drain exhausts an object's iterator into a plain Go slice.
func drain(v object.Object) ([]object.Object, *object.RuntimeError) {
	it, err := v.MakeIterator()
	if err != nil {
		return nil, err
	}
	var out []object.Object
	for {
		val, ok, err := it.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, val)
	}
}

func intArg(name string, v object.Object) (int64, *object.RuntimeError) {
	i, ok := v.(*object.Int)
	if !ok {
		return 0, object.NewTypeError("%s expects int arguments, got %s", name, v.TypeName())
	}
	return i.ToInt64()
}
