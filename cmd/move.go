package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sorcerai/packfs/pkg/intent"
)

var movePattern string

var moveCmd = &cobra.Command{
	Use:     "move [source] <destination>",
	Aliases: []string{"mv"},
	Short:   "Moves files within the sandbox",
	Long: `Moves a file or directory. With --pattern, every indexed file matching
the glob is moved into the destination directory; multiple sources are
refused when the destination is not a directory.`,
	Example: `  # Rename a file
  packfs move notes/old.md notes/new.md

  # Bulk move by pattern
  packfs move --pattern "*.log" archive/`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		source := intent.FileTarget{}
		dest := args[len(args)-1]
		if movePattern != "" {
			if len(args) != 1 {
				return errors.New("with --pattern, pass only the destination")
			}
			source.Pattern = movePattern
		} else {
			if len(args) != 2 {
				return errors.New("move requires a source and a destination")
			}
			source.Path = args[0]
		}

		eng, err := newEngine()
		if err != nil {
			return err
		}
		defer eng.Close()

		res := eng.OrganizeFiles(cmd.Context(), intent.OrganizeIntent{
			Purpose:     intent.OrganizeMove,
			Source:      source,
			Destination: intent.FileTarget{Path: dest},
		})
		if !res.Success {
			return errors.New(res.Message)
		}
		fmt.Printf("Moved %d file(s)\n", res.FilesAffected)
		for _, p := range res.NewPaths {
			fmt.Printf("  -> %s\n", p)
		}
		return nil
	},
}

func init() {
	moveCmd.Flags().StringVar(&movePattern, "pattern", "", "move every file matching this glob")
	rootCmd.AddCommand(moveCmd)
}
