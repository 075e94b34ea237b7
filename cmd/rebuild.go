package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuilds the semantic index from scratch",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		defer eng.Close()

		if err := eng.RebuildIndex(cmd.Context()); err != nil {
			return err
		}
		paths, err := eng.IndexedPaths(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Indexed %d file(s)\n", len(paths))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rebuildCmd)
}
