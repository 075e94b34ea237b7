package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sorcerai/packfs/pkg/intent"
)

var copyPattern string

var copyCmd = &cobra.Command{
	Use:     "copy [source] <destination>",
	Aliases: []string{"cp"},
	Short:   "Copies files within the sandbox",
	Example: `  # Copy a file
  packfs copy notes/todo.md notes/todo-backup.md

  # Bulk copy by pattern
  packfs copy --pattern "*.md" backup/`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		source := intent.FileTarget{}
		dest := args[len(args)-1]
		if copyPattern != "" {
			if len(args) != 1 {
				return errors.New("with --pattern, pass only the destination")
			}
			source.Pattern = copyPattern
		} else {
			if len(args) != 2 {
				return errors.New("copy requires a source and a destination")
			}
			source.Path = args[0]
		}

		eng, err := newEngine()
		if err != nil {
			return err
		}
		defer eng.Close()

		res := eng.OrganizeFiles(cmd.Context(), intent.OrganizeIntent{
			Purpose:     intent.OrganizeCopy,
			Source:      source,
			Destination: intent.FileTarget{Path: dest},
		})
		if !res.Success {
			return errors.New(res.Message)
		}
		fmt.Printf("Copied %d file(s)\n", res.FilesAffected)
		for _, p := range res.NewPaths {
			fmt.Printf("  -> %s\n", p)
		}
		return nil
	},
}

func init() {
	copyCmd.Flags().StringVar(&copyPattern, "pattern", "", "copy every file matching this glob")
	rootCmd.AddCommand(copyCmd)
}
