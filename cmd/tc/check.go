package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/technetium-lang/technetium/internal/projectconfig"
	"github.com/technetium-lang/technetium/internal/stalecache"
)

var checkRoot string

func init() {
	cmd := newCheckCmd()
	cmd.Flags().StringVar(&checkRoot, "root", ".", "project root holding the staleness cache")
	rootCmd.AddCommand(cmd)
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <path> [path...]",
		Short: "Report which watch paths have changed since the last check",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := projectconfig.LoadForDir(checkRoot)
			if err != nil {
				return fmt.Errorf("loading technetium.yaml: %w", err)
			}

			store, err := stalecache.Open(checkRoot, cfg.CacheDir)
			if err != nil {
				return err
			}
			defer store.Close()

			stale, err := store.Stale(args)
			if err != nil {
				return err
			}
			if len(stale) == 0 {
				fmt.Println("up to date")
				return nil
			}
			for _, p := range stale {
				fmt.Println(p)
			}
			os.Exit(1)
			return nil
		},
	}
}
