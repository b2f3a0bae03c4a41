package stdlib

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/technetium-lang/technetium/internal/memory"
	"github.com/technetium-lang/technetium/internal/object"
	"github.com/technetium-lang/technetium/internal/projectconfig"
	"github.com/technetium-lang/technetium/internal/vm"
)

func newTestVM(t *testing.T) *vm.VM {
	t.Helper()
	v := vm.New(memory.New())
	Install(v, &Env{RootDir: t.TempDir()})
	return v
}

func call(t *testing.T, v *vm.VM, name string, args ...object.Object) object.Object {
	t.Helper()
	b, ok := v.Globals[name].(*object.Builtin)
	if !ok {
		t.Fatalf("no builtin registered for %q", name)
	}
	result, err := b.Fn(args)
	if err != nil {
		t.Fatalf("%s: %s", name, err.Error())
	}
	return result
}

func callErr(t *testing.T, v *vm.VM, name string, args ...object.Object) *object.RuntimeError {
	t.Helper()
	b, ok := v.Globals[name].(*object.Builtin)
	if !ok {
		t.Fatalf("no builtin registered for %q", name)
	}
	_, err := b.Fn(args)
	if err == nil {
		t.Fatalf("%s: expected an error", name)
	}
	return err
}

func asInt(t *testing.T, o object.Object) int64 {
	t.Helper()
	i, ok := o.(*object.Int)
	if !ok {
		t.Fatalf("expected *object.Int, got %T", o)
	}
	return i.Val.Int64()
}

func asString(t *testing.T, o object.Object) string {
	t.Helper()
	s, ok := o.(*object.String)
	if !ok {
		t.Fatalf("expected *object.String, got %T", o)
	}
	return string(s.Val)
}

func TestAbsAndSqrt(t *testing.T) {
	v := newTestVM(t)
	if got := asInt(t, call(t, v, "abs", object.NewInt(-5))); got != 5 {
		t.Errorf("abs(-5) = %d, want 5", got)
	}
	f, ok := call(t, v, "sqrt", object.NewFloat(9)).(*object.Float)
	if !ok || f.Val != 3 {
		t.Errorf("sqrt(9) = %v, want 3", f)
	}
}

func TestSqrtOfNegativeIsError(t *testing.T) {
	v := newTestVM(t)
	callErr(t, v, "sqrt", object.NewFloat(-1))
}

func TestTypeAndStringConversions(t *testing.T) {
	v := newTestVM(t)
	if got := asString(t, call(t, v, "type", object.NewInt(1))); got != "int" {
		t.Errorf("type(1) = %q, want int", got)
	}
	if got := asString(t, call(t, v, "string", object.NewInt(42))); got != "42" {
		t.Errorf("string(42) = %q, want 42", got)
	}
	if got := asInt(t, call(t, v, "int", object.NewString("123"))); got != 123 {
		t.Errorf("int(\"123\") = %d, want 123", got)
	}
}

func TestLockBuiltinLocksAValue(t *testing.T) {
	v := newTestVM(t)
	s := object.NewSet()
	call(t, v, "lock", s)
	if err := s.Add(object.NewInt(1)); err == nil {
		t.Fatal("expected the set to be locked after lock()")
	} else if err.Kind != object.MutateImmutable {
		t.Errorf("got error kind %s, want MutateImmutable", err.Kind)
	}
}

func TestJoinAndSplit(t *testing.T) {
	v := newTestVM(t)
	l := object.NewList([]object.Object{object.NewString("a"), object.NewString("b"), object.NewString("c")})
	joined := asString(t, call(t, v, "join", l, object.NewString(",")))
	if joined != "a,b,c" {
		t.Errorf("join = %q, want a,b,c", joined)
	}

	parts, ok := call(t, v, "split", object.NewString("a,b,c"), object.NewString(",")).(*object.List)
	if !ok || len(parts.Contents) != 3 {
		t.Fatalf("split result = %v", parts)
	}
	if asString(t, parts.Contents[1]) != "b" {
		t.Errorf("split[1] = %v, want b", parts.Contents[1])
	}
}

func TestMapAndFilterUseVMAsCaller(t *testing.T) {
	v := newTestVM(t)
	l := object.NewList([]object.Object{object.NewInt(1), object.NewInt(2), object.NewInt(3)})

	double := object.NewBuiltin("double", 1, func(args []object.Object) (object.Object, *object.RuntimeError) {
		i := args[0].(*object.Int)
		return object.NewInt(i.Val.Int64() * 2), nil
	})
	mapped, ok := call(t, v, "map", double, l).(*object.List)
	if !ok || len(mapped.Contents) != 3 {
		t.Fatalf("map result = %v", mapped)
	}
	if asInt(t, mapped.Contents[2]) != 6 {
		t.Errorf("mapped[2] = %v, want 6", mapped.Contents[2])
	}

	isEven := object.NewBuiltin("isEven", 1, func(args []object.Object) (object.Object, *object.RuntimeError) {
		i := args[0].(*object.Int)
		return object.NewBool(i.Val.Int64()%2 == 0), nil
	})
	filtered, ok := call(t, v, "filter", isEven, l).(*object.List)
	if !ok || len(filtered.Contents) != 1 {
		t.Fatalf("filter result = %v", filtered)
	}
	if asInt(t, filtered.Contents[0]) != 2 {
		t.Errorf("filtered[0] = %v, want 2", filtered.Contents[0])
	}
}

func TestWhichConsultsConfigPathsBeforeSystemPath(t *testing.T) {
	dir := t.TempDir()
	binDir := filepath.Join(dir, "bin")
	if err := os.MkdirAll(binDir, 0755); err != nil {
		t.Fatal(err)
	}
	toolPath := filepath.Join(binDir, "mytool")
	if err := os.WriteFile(toolPath, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatal(err)
	}

	v := vm.New(memory.New())
	Install(v, &Env{RootDir: dir, Config: &projectconfig.Config{Paths: []string{binDir}}})

	got := asString(t, call(t, v, "which", object.NewString("mytool")))
	if got != toolPath {
		t.Errorf("which(mytool) = %q, want %q", got, toolPath)
	}
}

func TestArgsReturnsEnvArgs(t *testing.T) {
	v := vm.New(memory.New())
	Install(v, &Env{RootDir: t.TempDir(), Args: []string{"one", "two"}})

	got, ok := call(t, v, "args").(*object.List)
	if !ok || len(got.Contents) != 2 {
		t.Fatalf("args() = %v", got)
	}
	if asString(t, got.Contents[0]) != "one" || asString(t, got.Contents[1]) != "two" {
		t.Errorf("args() = %v, want [one two]", got.Contents)
	}
}

func TestEnvSetenvRoundTrip(t *testing.T) {
	v := newTestVM(t)
	call(t, v, "setenv", object.NewString("TC_TEST_VAR"), object.NewString("hello"))
	got := asString(t, call(t, v, "env", object.NewString("TC_TEST_VAR")))
	if got != "hello" {
		t.Errorf("env(TC_TEST_VAR) = %q, want hello", got)
	}
}

func TestStaleReportsOnlyChangedWatchedPaths(t *testing.T) {
	dir := t.TempDir()
	v := newTestVM(t)
	Install(v, &Env{RootDir: dir})

	src := filepath.Join(dir, "src.tc")
	if err := os.WriteFile(src, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	first, ok := call(t, v, "stale", object.NewString(src)).(*object.List)
	if !ok || len(first.Contents) != 1 {
		t.Fatalf("first stale() call = %v, want one newly-observed path", first)
	}

	second, ok := call(t, v, "stale", object.NewString(src)).(*object.List)
	if !ok || len(second.Contents) != 0 {
		t.Fatalf("second stale() call = %v, want none (unchanged)", second)
	}
}
