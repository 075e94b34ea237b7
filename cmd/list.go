package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/sorcerai/packfs/pkg/intent"
)

var (
	listContent bool
	listMax     int
)

var listCmd = &cobra.Command{
	Use:     "list [path]",
	Aliases: []string{"ls"},
	Short:   "Lists files and directories",
	Example: `  # List the sandbox root
  packfs list

  # List a subdirectory with contents
  packfs list docs --content`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}

		eng, err := newEngine()
		if err != nil {
			return err
		}
		defer eng.Close()

		res := eng.DiscoverFiles(cmd.Context(), intent.DiscoverIntent{
			Purpose: intent.DiscoverList,
			Target:  intent.FileTarget{Path: path},
			Options: intent.Options{IncludeContent: listContent, MaxResults: listMax},
		})
		if !res.Success {
			printSuggestions(res.Suggestions)
			return errors.New(res.Message)
		}
		printFiles(res.Files, res.TotalFound)
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVar(&listContent, "content", false, "include file contents")
	listCmd.Flags().IntVar(&listMax, "max", 0, "maximum results (default from config)")
	rootCmd.AddCommand(listCmd)
}
