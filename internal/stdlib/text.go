package stdlib

import (
	"strings"

	"github.com/technetium-lang/technetium/internal/object"
)

func installText(reg regFn) {
	reg("join", 2, func(args []object.Object) (object.Object, *object.RuntimeError) {
		items, err := drain(args[0])
		if err != nil {
			return nil, err
		}
		sep, ok := args[1].(*object.String)
		if !ok {
			return nil, object.NewTypeError("join expects a string separator, got %s", args[1].TypeName())
		}
		parts := make([]string, len(items))
		for i, it := range items {
			s, err := it.ToString()
			if err != nil {
				return nil, err
			}
			parts[i] = s
		}
		return object.NewString(strings.Join(parts, string(sep.Val))), nil
	})

	reg("split", 2, func(args []object.Object) (object.Object, *object.RuntimeError) {
		s, ok := args[0].(*object.String)
		if !ok {
			return nil, object.NewTypeError("split expects a string, got %s", args[0].TypeName())
		}
		sep, ok := args[1].(*object.String)
		if !ok {
			return nil, object.NewTypeError("split expects a string separator, got %s", args[1].TypeName())
		}
		parts := strings.Split(string(s.Val), string(sep.Val))
		out := make([]object.Object, len(parts))
		for i, p := range parts {
			out[i] = object.NewString(p)
		}
		return object.NewList(out), nil
	})
}
