package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/technetium-lang/technetium/internal/memory"
	"github.com/technetium-lang/technetium/internal/object"
	"github.com/technetium-lang/technetium/internal/parser"
	"github.com/technetium-lang/technetium/internal/projectconfig"
	"github.com/technetium-lang/technetium/internal/stdlib"
	"github.com/technetium-lang/technetium/internal/vm"
)

// compiled is the result of lexing, parsing, and compiling one script file.
type compiled struct {
	chunks map[object.ContextId]*vm.Chunk
	entry  object.ContextId
}

// compileFile reads path, parses it, and compiles it to bytecode, using path as
// the file name in spans and error messages.
func compileFile(path string) (*compiled, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	prog, perr := parser.Parse(path, string(data))
	if perr != nil {
		return nil, fmt.Errorf("%s: %s", path, perr.Error())
	}

	chunks, entry, cerr := vm.Compile(path, prog)
	if cerr != nil {
		return nil, fmt.Errorf("%s: %s", path, cerr.Error())
	}

	return &compiled{chunks: chunks, entry: entry}, nil
}

// newVM builds a VM with the standard library installed, rooted at the
// directory containing scriptPath (spec §6's invocation parent directory).
func newVM(scriptPath string, scriptArgs []string) (*vm.VM, error) {
	root := filepath.Dir(scriptPath)
	absRoot, err := filepath.Abs(root)
	if err != nil {
		absRoot = root
	}

	cfg, err := projectconfig.LoadForDir(absRoot)
	if err != nil {
		return nil, fmt.Errorf("loading technetium.yaml: %w", err)
	}

	v := vm.New(memory.New())
	stdlib.Install(v, &stdlib.Env{
		Args:    scriptArgs,
		RootDir: absRoot,
		Config:  cfg,
	})
	return v, nil
}

func runCompiled(v *vm.VM, c *compiled) error {
	for _, chunk := range c.chunks {
		v.RegisterChunk(chunk)
	}
	_, err := v.RunEntry(c.entry)
	if err != nil {
		return fmt.Errorf("%s", err.Error())
	}
	return nil
}
