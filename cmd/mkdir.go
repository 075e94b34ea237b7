package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sorcerai/packfs/pkg/intent"
)

var mkdirParents bool

var mkdirCmd = &cobra.Command{
	Use:   "mkdir <path>",
	Short: "Creates a directory in the sandbox",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		defer eng.Close()

		res := eng.OrganizeFiles(cmd.Context(), intent.OrganizeIntent{
			Purpose:     intent.OrganizeCreateDirectory,
			Destination: intent.FileTarget{Path: args[0]},
			Options:     intent.Options{Recursive: mkdirParents},
		})
		if !res.Success {
			return errors.New(res.Message)
		}
		fmt.Printf("Created %s\n", args[0])
		return nil
	},
}

func init() {
	mkdirCmd.Flags().BoolVarP(&mkdirParents, "parents", "p", false, "create parent directories as needed")
	rootCmd.AddCommand(mkdirCmd)
}
