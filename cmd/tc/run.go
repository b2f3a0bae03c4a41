package main

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newRunCmd())
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <script> [args...]",
		Short: "Compile and run a technetium script",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			c, err := compileFile(path)
			if err != nil {
				return err
			}
			v, err := newVM(path, args[1:])
			if err != nil {
				return err
			}
			return runCompiled(v, c)
		},
	}
}
