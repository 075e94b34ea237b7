package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/sorcerai/packfs/pkg/intent"
)

var (
	findName string
	findExt  []string
	findMax  int
)

var findCmd = &cobra.Command{
	Use:     "find [pattern]",
	Aliases: []string{"f"},
	Short:   "Finds files by glob pattern or criteria",
	Long: `Finds indexed files. A positional glob pattern matches against indexed
paths ("*" matches everything); --name and --ext add structured criteria,
AND-combined with each other. With both a pattern and criteria, the result
is the union of the pattern's matches and the criteria's matches.`,
	Example: `  # Everything indexed
  packfs find "*"

  # Markdown files with "plan" in the name
  packfs find --name plan --ext md`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := intent.FileTarget{}
		if len(args) == 1 {
			target.Pattern = args[0]
		}
		if findName != "" || len(findExt) > 0 {
			target.Criteria = &intent.Criteria{Name: findName, Type: findExt}
		}

		eng, err := newEngine()
		if err != nil {
			return err
		}
		defer eng.Close()

		res := eng.DiscoverFiles(cmd.Context(), intent.DiscoverIntent{
			Purpose: intent.DiscoverFind,
			Target:  target,
			Options: intent.Options{MaxResults: findMax},
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
	findCmd.Flags().StringVar(&findName, "name", "", "substring of the filename")
	findCmd.Flags().StringSliceVar(&findExt, "ext", nil, "extensions without the dot (repeatable)")
	findCmd.Flags().IntVar(&findMax, "max", 0, "maximum results (default from config)")
	rootCmd.AddCommand(findCmd)
}
