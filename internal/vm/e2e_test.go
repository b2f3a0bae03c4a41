package vm_test

import (
	"bytes"
	"testing"

	"github.com/technetium-lang/technetium/internal/memory"
	"github.com/technetium-lang/technetium/internal/object"
	"github.com/technetium-lang/technetium/internal/parser"
	"github.com/technetium-lang/technetium/internal/stdlib"
	"github.com/technetium-lang/technetium/internal/vm"
)

// run compiles and executes src, returning everything written to stdout.
func run(t *testing.T, src string) string {
	t.Helper()
	prog, perr := parser.Parse("test.tc", src)
	if perr != nil {
		t.Fatalf("parse error: %s", perr.Error())
	}
	chunks, entry, cerr := vm.Compile("test.tc", prog)
	if cerr != nil {
		t.Fatalf("compile error: %s", cerr.Error())
	}
	v := vm.New(memory.New())
	var stdout bytes.Buffer
	v.Stdout = &stdout
	stdlib.Install(v, &stdlib.Env{RootDir: "."})
	for _, c := range chunks {
		v.RegisterChunk(c)
	}
	if _, err := v.RunEntry(entry); err != nil {
		t.Fatalf("runtime error: %s", err.Error())
	}
	return stdout.String()
}

// runErr compiles and executes src, returning the runtime error it must raise.
func runErr(t *testing.T, src string) *object.RuntimeError {
	t.Helper()
	prog, perr := parser.Parse("test.tc", src)
	if perr != nil {
		t.Fatalf("parse error: %s", perr.Error())
	}
	chunks, entry, cerr := vm.Compile("test.tc", prog)
	if cerr != nil {
		t.Fatalf("compile error: %s", cerr.Error())
	}
	v := vm.New(memory.New())
	var stdout bytes.Buffer
	v.Stdout = &stdout
	stdlib.Install(v, &stdlib.Env{RootDir: "."})
	for _, c := range chunks {
		v.RegisterChunk(c)
	}
	_, err := v.RunEntry(entry)
	if err == nil {
		t.Fatalf("expected runtime error, got none (stdout: %q)", stdout.String())
	}
	return err
}

// TestCounterClosures is spec scenario S1: each call to make() returns a fresh
// closure over its own `v`, independent of any other closure's captured frame.
func TestCounterClosures(t *testing.T) {
	out := run(t, `
func make(){ v=0; func inc(){ v+=1; return v }; return inc }
c1=make(); c2=make(); println(c1()); println(c1()); println(c2()); println(c1())
`)
	want := "1\n2\n1\n3\n"
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

// TestRecursiveFibonacci is spec scenario S2.
func TestRecursiveFibonacci(t *testing.T) {
	out := run(t, `
func fib(n){ if n <= 2 { return 1 }; return fib(n-1) + fib(n-2) }
println(fib(15))
`)
	if out != "610\n" {
		t.Fatalf("got %q, want %q", out, "610\n")
	}
}

// TestSlicing is spec scenario S3.
func TestSlicing(t *testing.T) {
	out := run(t, `println([1,2,5,10][::2])`)
	if out != "[1, 5]\n" {
		t.Fatalf("got %q, want %q", out, "[1, 5]\n")
	}
	out = run(t, `println([1,2,5,10][2:-1:-1])`)
	if out != "[5, 2, 1]\n" {
		t.Fatalf("got %q, want %q", out, "[5, 2, 1]\n")
	}
}

// TestSliceWriteThrough is spec scenario S4: writing through a slice view mutates
// the underlying list at the corresponding index.
func TestSliceWriteThrough(t *testing.T) {
	out := run(t, `
list=[1,2,5,10]; list[::2][1]=100; println(list)
`)
	if out != "[1, 2, 100, 10]\n" {
		t.Fatalf("got %q, want %q", out, "[1, 2, 100, 10]\n")
	}
}

// TestStringInterpolation is spec scenario S5.
func TestStringInterpolation(t *testing.T) {
	out := run(t, `
x=10
println(~"I can say x isn't {x + 2}")
`)
	if out != "I can say x isn't 12\n" {
		t.Fatalf("got %q, want %q", out, "I can say x isn't 12\n")
	}
}

// TestSetOfHashablesImplicitLock is spec scenario S6: inserting a Set into a Set
// implicitly locks the inner Set; mutating it afterward raises MutateImmutable.
func TestSetOfHashablesImplicitLock(t *testing.T) {
	err := runErr(t, `
inner={1,2}
outer={}
outer.add(inner)
inner.add(3)
`)
	if err.Kind != object.MutateImmutable {
		t.Fatalf("got error kind %s, want MutateImmutable (%s)", err.Kind, err.Error())
	}
}

// TestShortCircuitAnd is universal law 8: `false && F()` must not invoke F.
func TestShortCircuitAnd(t *testing.T) {
	out := run(t, `
func f(){ println("called"); return true }
if false && f() { println("yes") } else { println("no") }
`)
	if out != "no\n" {
		t.Fatalf("F() was invoked despite short-circuit: got %q", out)
	}
}

// TestShortCircuitOr is universal law 8: `true || F()` must not invoke F.
func TestShortCircuitOr(t *testing.T) {
	out := run(t, `
func f(){ println("called"); return true }
if true || f() { println("yes") } else { println("no") }
`)
	if out != "yes\n" {
		t.Fatalf("F() was invoked despite short-circuit: got %q", out)
	}
}

// TestLockMonotonicity is universal law 7: once locked, a value never accepts a
// further write, even through the `lock` builtin itself re-applied.
func TestLockMonotonicity(t *testing.T) {
	err := runErr(t, `
s={1,2}
lock(s)
s.add(3)
`)
	if err.Kind != object.MutateImmutable {
		t.Fatalf("got error kind %s, want MutateImmutable (%s)", err.Kind, err.Error())
	}
}

// TestClosureCaptureOutlivesCall is universal law 6: a closure keeps seeing an
// outer local's most recent value after the outer call has returned.
func TestClosureCaptureOutlivesCall(t *testing.T) {
	out := run(t, `
func make(){ v=1; func bump(){ v=v+1 }; func read(){ return v }; bump(); return [bump, read] }
fns=make()
b=fns[0]; r=fns[1]
println(r())
b()
println(r())
`)
	if out != "2\n3\n" {
		t.Fatalf("got %q, want %q", out, "2\n3\n")
	}
}
