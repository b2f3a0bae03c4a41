package stdlib

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/technetium-lang/technetium/internal/object"
	"github.com/technetium-lang/technetium/internal/stalecache"
	"github.com/technetium-lang/technetium/internal/vm"
)

func installProcess(reg regFn, v *vm.VM, env *Env) {
	reg("sh", 1, func(args []object.Object) (object.Object, *object.RuntimeError) {
		s, ok := args[0].(*object.String)
		if !ok {
			return nil, object.NewTypeError("sh expects a string, got %s", args[0].TypeName())
		}
		if err := v.RunShell(string(s.Val)); err != nil {
			return nil, err
		}
		return object.TheUnit, nil
	})

	reg("cd", 1, func(args []object.Object) (object.Object, *object.RuntimeError) {
		s, ok := args[0].(*object.String)
		if !ok {
			return nil, object.NewTypeError("cd expects a string, got %s", args[0].TypeName())
		}
		if err := os.Chdir(string(s.Val)); err != nil {
			return nil, object.NewIOError("cd: %s", err)
		}
		return object.TheUnit, nil
	})

	reg("os", 0, func(args []object.Object) (object.Object, *object.RuntimeError) {
		return object.NewString(runtime.GOOS), nil
	})

	reg("args", 0, func(args []object.Object) (object.Object, *object.RuntimeError) {
		out := make([]object.Object, len(env.Args))
		for i, a := range env.Args {
			out[i] = object.NewString(a)
		}
		return object.NewList(out), nil
	})

	reg("which", 1, func(args []object.Object) (object.Object, *object.RuntimeError) {
		s, ok := args[0].(*object.String)
		if !ok {
			return nil, object.NewTypeError("which expects a string, got %s", args[0].TypeName())
		}
		name := string(s.Val)

		// technetium.yaml's paths list is searched before $PATH.
		if env.Config != nil {
			for _, dir := range env.Config.Paths {
				candidate := filepath.Join(dir, name)
				if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
					return object.NewString(candidate), nil
				}
			}
		}

		path, err := exec.LookPath(name)
		if err != nil {
			return nil, object.NewIOError("which: %s not found", name)
		}
		return object.NewString(path), nil
	})

	reg("env", 1, func(args []object.Object) (object.Object, *object.RuntimeError) {
		s, ok := args[0].(*object.String)
		if !ok {
			return nil, object.NewTypeError("env expects a string, got %s", args[0].TypeName())
		}
		return object.NewString(os.Getenv(string(s.Val))), nil
	})

	reg("setenv", 2, func(args []object.Object) (object.Object, *object.RuntimeError) {
		name, ok := args[0].(*object.String)
		if !ok {
			return nil, object.NewTypeError("setenv expects a string name, got %s", args[0].TypeName())
		}
		val, ok := args[1].(*object.String)
		if !ok {
			return nil, object.NewTypeError("setenv expects a string value, got %s", args[1].TypeName())
		}
		if err := os.Setenv(string(name.Val), string(val.Val)); err != nil {
			return nil, object.NewIOError("setenv: %s", err)
		}
		return object.TheUnit, nil
	})

	reg("stale", -1, func(args []object.Object) (object.Object, *object.RuntimeError) {
		paths := make([]string, len(args))
		for i, a := range args {
			s, ok := a.(*object.String)
			if !ok {
				return nil, object.NewTypeError("stale expects string path arguments, got %s", a.TypeName())
			}
			paths[i] = string(s.Val)
		}
		if env.cache == nil {
			cacheDir := ""
			if env.Config != nil {
				cacheDir = env.Config.CacheDir
			}
			store, err := stalecache.Open(env.RootDir, cacheDir)
			if err != nil {
				return nil, object.NewIOError("stale: %s", err)
			}
			env.cache = store
		}
		dirty, err := env.cache.Stale(paths)
		if err != nil {
			return nil, object.NewIOError("stale: %s", err)
		}
		out := make([]object.Object, len(dirty))
		for i, p := range dirty {
			out[i] = object.NewString(p)
		}
		return object.NewList(out), nil
	})
}
