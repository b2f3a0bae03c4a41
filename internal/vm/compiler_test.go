package vm_test

import (
	"strings"
	"testing"

	"github.com/technetium-lang/technetium/internal/parser"
	"github.com/technetium-lang/technetium/internal/vm"
)

func mustCompile(t *testing.T, src string) (map[int]*vm.Chunk, int) {
	t.Helper()
	prog, perr := parser.Parse("test.tc", src)
	if perr != nil {
		t.Fatalf("parse error: %s", perr.Error())
	}
	chunks, entry, cerr := vm.Compile("test.tc", prog)
	if cerr != nil {
		t.Fatalf("compile error: %s", cerr.Error())
	}
	out := make(map[int]*vm.Chunk, len(chunks))
	for id, c := range chunks {
		out[int(id)] = c
	}
	return out, int(entry)
}

func TestCompileConstantFoldsIntoPool(t *testing.T) {
	chunks, entry := mustCompile(t, `x = "hello"`)
	entryChunk := chunks[entry]
	if len(entryChunk.Constants) == 0 {
		t.Fatal("expected the string literal to be interned as a constant")
	}
}

func chunkNamed(chunks map[int]*vm.Chunk, name string) *vm.Chunk {
	for _, c := range chunks {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestCompileFuncDeclProducesASeparateChunk(t *testing.T) {
	chunks, _ := mustCompile(t, `func add(a, b) { return a + b }`)
	if len(chunks) < 2 {
		t.Fatalf("expected at least 2 chunks (entry + add), got %d", len(chunks))
	}
	found := chunkNamed(chunks, "add")
	if found == nil {
		t.Fatal("expected a chunk named add distinct from the entry chunk")
	}
	if found.Nargs != 2 {
		t.Errorf("Nargs = %d, want 2", found.Nargs)
	}
}

func TestDisassembleListsEveryEmittedOpcode(t *testing.T) {
	chunks, entry := mustCompile(t, `x = 1 + 2`)
	out := vm.Disassemble(chunks[entry])
	for _, want := range []string{"PUSH_INT", "ADD", "STORE"} {
		if !strings.Contains(out, want) {
			t.Errorf("disassembly missing %s:\n%s", want, out)
		}
	}
}

// TestNonLocalCaptureMarksOwningChunkRetained grounds spec §4.3's "mark that slot as
// retained in its owning context": resolving a capture must mark the *ancestor's* own
// chunk, not the capturing closure's chunk, since it's the ancestor's frame that needs
// to survive ClearFrame.
func TestNonLocalCaptureMarksOwningChunkRetained(t *testing.T) {
	chunks, _ := mustCompile(t, `func make(){ v=0; func inc(){ v=v+1; return v }; return inc }`)

	makeChunk := chunkNamed(chunks, "make")
	if makeChunk == nil || len(makeChunk.Retained) == 0 {
		t.Fatal("expected make's own chunk to have a retained slot for v")
	}

	incChunk := chunkNamed(chunks, "inc")
	if incChunk == nil {
		t.Fatal("expected a chunk named inc")
	}
	if len(incChunk.Retained) != 0 {
		t.Errorf("inc captures v but doesn't own its slot; inc's own chunk should have nothing retained, got %v", incChunk.Retained)
	}
}

func TestDisassembleJumpForIfStatement(t *testing.T) {
	chunks, entry := mustCompile(t, `if x { y = 1 } else { y = 2 }`)
	out := vm.Disassemble(chunks[entry])
	if !strings.Contains(out, "COND_JMP") {
		t.Errorf("expected a conditional jump in an if/else, got:\n%s", out)
	}
	if !strings.Contains(out, "JMP") {
		t.Errorf("expected an unconditional jump past the else branch, got:\n%s", out)
	}
}
