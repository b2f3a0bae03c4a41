// Command tc is technetium's CLI: a thin lex/parse/compile/run wrapper plus
// disassembly, staleness checking, and a debugger, each a cobra subcommand.
// Grounded on joshuapare-hivekit/cmd/hivectl's cobra command tree (root.go's
// persistent-flags-plus-init()-registration shape).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tc",
	Short: "Run and inspect technetium scripts",
	Long: `tc is the technetium command-line tool: it runs scripts, disassembles
compiled bytecode, checks build-staleness watch paths, and attaches a
line-stepping debugger.`,
}
