// Package stdlib registers technetium's fixed standard-library namespace (spec §6)
// into a VM's Globals at startup. Grounded on the shape of the teacher's builtin
// registry (internal/evaluator/builtins.go's map[string]*Builtin), generalized from
// its type-checked TFunc signatures (technetium has no static type system) down to
// plain arity checks, which object.Builtin.Call already enforces.
package stdlib

import (
	"bufio"
	"fmt"
	"os"

	"github.com/technetium-lang/technetium/internal/object"
	"github.com/technetium-lang/technetium/internal/projectconfig"
	"github.com/technetium-lang/technetium/internal/stalecache"
	"github.com/technetium-lang/technetium/internal/vm"
)

// Env bundles the process-wide state the spec requires (§6's "Process-wide
// state"): the argument vector, the invocation parent directory, and the project
// config (if any technetium.yaml was found). It's threaded
// through Install rather than read from globals so tests can construct an
// isolated instance per VM.
type Env struct {
	Args    []string
	RootDir string
	Config  *projectconfig.Config

	cache *stalecache.Store
}

// Install registers the full fixed namespace into v.Globals, backed by env for the
// process-wide pieces (args, sh/cd, stale).
func Install(v *vm.VM, env *Env) {
	reg := func(name string, nargs int, fn func(args []object.Object) (object.Object, *object.RuntimeError)) {
		v.Globals[name] = object.NewBuiltin(name, nargs, fn)
	}

	installIO(reg, v)
	installConversions(reg)
	installMath(reg)
	installContainers(reg, v)
	installProcess(reg, v, env)
	installText(reg)
}

func installIO(reg func(string, int, func([]object.Object) (object.Object, *object.RuntimeError)), v *vm.VM) {
	writeAll := func(w interface{ Write([]byte) (int, error) }, args []object.Object, end string) (object.Object, *object.RuntimeError) {
		out := ""
		for i, a := range args {
			s, err := a.ToString()
			if err != nil {
				return nil, err
			}
			if i > 0 {
				out += " "
			}
			out += s
		}
		return object.TheUnit, writeString(w, out+end)
	}

	reg("print", -1, func(args []object.Object) (object.Object, *object.RuntimeError) {
		return writeAll(v.Stdout, args, "")
	})
	reg("println", -1, func(args []object.Object) (object.Object, *object.RuntimeError) {
		return writeAll(v.Stdout, args, "\n")
	})
	reg("eprintln", -1, func(args []object.Object) (object.Object, *object.RuntimeError) {
		return writeAll(v.Stderr, args, "\n")
	})
	reg("exit", 1, func(args []object.Object) (object.Object, *object.RuntimeError) {
		switch n := args[0].(type) {
		case *object.Int:
			code, err := n.ToInt64()
			if err != nil {
				return nil, err
			}
			os.Exit(int(code))
		default:
			if args[0].Truthy() {
				os.Exit(1)
			}
			os.Exit(0)
		}
		return object.TheUnit, nil // unreachable
	})
	reg("assert", -1, func(args []object.Object) (object.Object, *object.RuntimeError) {
		if len(args) < 1 || len(args) > 2 {
			return nil, object.NewTypeError("assert expects 1 or 2 arguments, got %d", len(args))
		}
		if args[0].Truthy() {
			return object.TheUnit, nil
		}
		msg := "assertion failed"
		if len(args) == 2 {
			s, err := args[1].ToString()
			if err != nil {
				return nil, err
			}
			msg = s
		}
		return nil, object.NewTypeError("%s", msg)
	})
	reg("input", 0, func(args []object.Object) (object.Object, *object.RuntimeError) {
		scanner := bufio.NewScanner(v.Stdin)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return nil, object.NewIOError("reading stdin: %s", err)
			}
			return nil, object.NewIOError("reached end of input")
		}
		return object.NewString(scanner.Text()), nil
	})
}

func writeString(w interface{ Write([]byte) (int, error) }, s string) *object.RuntimeError {
	if _, err := fmt.Fprint(w, s); err != nil {
		return object.NewIOError("write failed: %s", err)
	}
	return nil
}
