package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/technetium-lang/technetium/internal/vm"
)

func init() {
	rootCmd.AddCommand(newDisasmCmd())
}

func newDisasmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disasm <script>",
		Short: "Compile a script and print its disassembled bytecode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := compileFile(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("entry context: %d\n\n", c.entry)
			for id, chunk := range c.chunks {
				fmt.Printf("-- context %d --\n", id)
				fmt.Print(vm.Disassemble(chunk))
				fmt.Println()
			}
			return nil
		},
	}
}
