package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/technetium-lang/technetium/internal/replio"
)

var debugBreak []string

func init() {
	cmd := newDebugCmd()
	cmd.Flags().
		StringArrayVar(&debugBreak, "break", nil, "set a breakpoint at file:line (repeatable)")
	rootCmd.AddCommand(cmd)
}

func newDebugCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "debug <script> [args...]",
		Short: "Run a script under the line-stepping debugger",
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

			runID := uuid.New().String()
			fmt.Fprintf(os.Stderr, "debug run %s: %s\n", runID, path)

			dbg := replio.New(v)
			for _, loc := range debugBreak {
				file, line, ok := replio.ParseLocation(loc)
				if !ok {
					return fmt.Errorf("invalid --break location %q, want file:line", loc)
				}
				dbg.SetBreakpoint(file, line)
			}
			dbg.Attach()

			return runCompiled(v, c)
		},
	}
}
