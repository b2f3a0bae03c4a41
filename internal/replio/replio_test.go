package replio

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/technetium-lang/technetium/internal/memory"
	"github.com/technetium-lang/technetium/internal/object"
	"github.com/technetium-lang/technetium/internal/vm"
)

func TestParseLocation(t *testing.T) {
	cases := []struct {
		in       string
		wantFile string
		wantLine int
		wantOK   bool
	}{
		{"main.tc:12", "main.tc", 12, true},
		{"/abs/path/main.tc:3", "/abs/path/main.tc", 3, true},
		{"no-colon", "", 0, false},
		{"main.tc:notanumber", "", 0, false},
	}
	for _, c := range cases {
		file, line, ok := ParseLocation(c.in)
		if ok != c.wantOK || (ok && (file != c.wantFile || line != c.wantLine)) {
			t.Errorf("ParseLocation(%q) = (%q, %d, %v), want (%q, %d, %v)",
				c.in, file, line, ok, c.wantFile, c.wantLine, c.wantOK)
		}
	}
}

func TestBreakpointLifecycle(t *testing.T) {
	d := New(vm.New(memory.New()))
	if d.hasBreakpoint("a.tc", 5) {
		t.Fatal("unexpected breakpoint before any Set")
	}
	d.SetBreakpoint("a.tc", 5)
	if !d.hasBreakpoint("a.tc", 5) {
		t.Fatal("expected breakpoint at a.tc:5")
	}
	d.RemoveBreakpoint("a.tc", 5)
	if d.hasBreakpoint("a.tc", 5) {
		t.Fatal("expected breakpoint removed")
	}
}

func TestOnStepStopsEveryStatementInStepMode(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "main.tc")
	if err := os.WriteFile(file, []byte("a=1\nb=2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	d := New(vm.New(memory.New()))
	var out bytes.Buffer
	d.SetOutput(&out)
	d.SetInput(strings.NewReader("step\nstep\n"))

	d.onStep(object.FrameId(1), object.Span{File: file, Start: 0, End: 3})
	d.onStep(object.FrameId(1), object.Span{File: file, Start: 4, End: 7})

	text := out.String()
	if !strings.Contains(text, file+":1") {
		t.Errorf("expected line 1 location in output, got %q", text)
	}
	if !strings.Contains(text, file+":2") {
		t.Errorf("expected line 2 location in output, got %q", text)
	}
}

func TestOnStepContinuesPastNonBreakpoints(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "main.tc")
	if err := os.WriteFile(file, []byte("a=1\nb=2\nc=3\n"), 0644); err != nil {
		t.Fatal(err)
	}

	d := New(vm.New(memory.New()))
	var out bytes.Buffer
	d.SetOutput(&out)
	d.SetInput(strings.NewReader("continue\n"))
	d.SetBreakpoint(file, 3)
	d.mode = modeContinue

	// Line 1: no breakpoint, must not block on the scanner at all.
	d.onStep(object.FrameId(1), object.Span{File: file, Start: 0, End: 3})
	if out.Len() != 0 {
		t.Fatalf("expected no output for a non-breakpoint line, got %q", out.String())
	}

	// Line 3: breakpoint hit, should print and read the scripted "continue".
	d.onStep(object.FrameId(1), object.Span{File: file, Start: 8, End: 11})
	if !strings.Contains(out.String(), file+":3") {
		t.Errorf("expected breakpoint stop at line 3, got %q", out.String())
	}
	if d.mode != modeContinue {
		t.Errorf("mode = %v, want modeContinue after 'continue' command", d.mode)
	}
}

func TestLineOfComputesOneBasedLineNumbers(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "main.tc")
	if err := os.WriteFile(file, []byte("aaa\nbbb\nccc\n"), 0644); err != nil {
		t.Fatal(err)
	}
	d := New(vm.New(memory.New()))

	if got := d.lineOf(object.Span{File: file, Start: 0}); got != 1 {
		t.Errorf("line of offset 0 = %d, want 1", got)
	}
	if got := d.lineOf(object.Span{File: file, Start: 4}); got != 2 {
		t.Errorf("line of offset 4 = %d, want 2", got)
	}
	if got := d.lineOf(object.Span{File: file, Start: 8}); got != 3 {
		t.Errorf("line of offset 8 = %d, want 3", got)
	}
}
