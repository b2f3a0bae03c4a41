package vm

import (
	"os/exec"

	"github.com/technetium-lang/technetium/internal/object"
)

// RunShell is the exported entry point internal/stdlib uses for the `sh` builtin
// (distinct from the `sh` bytecode opcode, which calls runShell directly).
func (vm *VM) RunShell(command string) *object.RuntimeError {
	return vm.runShell(command)
}

// runShell backs the `sh` opcode: the popped string is handed to the platform shell,
// inheriting the VM's stdout/stderr so long-running builds stream output live. A
// non-zero exit is a ChildProcessError (spec §4.4: "error on non-zero exit").
func (vm *VM) runShell(command string) *object.RuntimeError {
	cmd := exec.Command("sh", "-c", command)
	cmd.Stdout = vm.Stdout
	cmd.Stderr = vm.Stderr
	cmd.Stdin = vm.Stdin

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return object.NewChildProcessError("command %q exited with status %d", command, exitErr.ExitCode())
		}
		return object.NewChildProcessError("command %q failed: %s", command, err.Error())
	}
	return nil
}
