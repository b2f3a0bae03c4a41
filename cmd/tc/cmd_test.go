package main

import (
	"bufio"
	"os"
	"strings"
	"testing"
)

// captureStdout redirects os.Stdout for the duration of fn and returns
// everything written to it. Needed here because newRunCmd/newDisasmCmd print
// via fmt.Println/fmt.Printf directly rather than through cmd.OutOrStdout.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	w.Close()
	var sb strings.Builder
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		sb.WriteString(scanner.Text())
		sb.WriteByte('\n')
	}
	return sb.String()
}

func TestRunCommandExecutesScript(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "main.tc", `println("from run")`)

	cmd := newRunCmd()
	out := captureStdout(t, func() {
		if err := cmd.RunE(cmd, []string{path}); err != nil {
			t.Fatalf("RunE: %v", err)
		}
	})
	if out != "from run\n" {
		t.Errorf("output = %q, want %q", out, "from run\n")
	}
}

func TestRunCommandReportsCompileErrors(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "bad.tc", `func (`)

	cmd := newRunCmd()
	if err := cmd.RunE(cmd, []string{path}); err == nil {
		t.Fatal("expected an error for a malformed script")
	}
}

func TestDisasmCommandPrintsOpcodeNames(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "main.tc", `x = 1 + 2`)

	cmd := newDisasmCmd()
	out := captureStdout(t, func() {
		if err := cmd.RunE(cmd, []string{path}); err != nil {
			t.Fatalf("RunE: %v", err)
		}
	})
	for _, want := range []string{"entry context", "PUSH_INT", "ADD"} {
		if !strings.Contains(out, want) {
			t.Errorf("disasm output missing %q:\n%s", want, out)
		}
	}
}

func TestDisasmCommandReportsMissingFile(t *testing.T) {
	cmd := newDisasmCmd()
	if err := cmd.RunE(cmd, []string{"/nonexistent/path.tc"}); err == nil {
		t.Fatal("expected an error for a missing script file")
	}
}
