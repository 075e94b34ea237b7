package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/sorcerai/packfs/pkg/intent"
)

var (
	searchMode        string
	searchMax         int
	searchInteractive bool
)

var searchCmd = &cobra.Command{
	Use:     "search <query>",
	Aliases: []string{"s"},
	Short:   "Searches the semantic index",
	Long: `Searches indexed files by free-text query. Modes: semantic (keyword,
filename, and preview scoring), content (substring over keywords and
previews), or integrated (union of both with blended relevance).

With --interactive the results open in a fuzzy finder and the selected
file is printed.`,
	Example: `  # Semantic search
  packfs search "project documentation"

  # Content search with snippets
  packfs search "TODO" --mode content

  # Pick a result interactively
  packfs search "meeting notes" --interactive`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		purpose := intent.DiscoverSearchSemantic
		switch searchMode {
		case "semantic", "":
		case "content":
			purpose = intent.DiscoverSearchContent
		case "integrated":
			purpose = intent.DiscoverSearchIntegrated
		default:
			return fmt.Errorf("unknown search mode %q (semantic, content, integrated)", searchMode)
		}

		eng, err := newEngine()
		if err != nil {
			return err
		}
		defer eng.Close()

		res := eng.DiscoverFiles(cmd.Context(), intent.DiscoverIntent{
			Purpose: purpose,
			Target:  intent.FileTarget{SemanticQuery: strings.Join(args, " ")},
			Options: intent.Options{MaxResults: searchMax},
		})
		if !res.Success {
			printSuggestions(res.Suggestions)
			return errors.New(res.Message)
		}
		if len(res.Files) == 0 {
			printSuggestions(res.Suggestions)
			fmt.Println("No results.")
			return nil
		}

		if searchInteractive {
			idx, err := fuzzyfinder.Find(res.Files, func(i int) string {
				return res.Files[i].Path
			})
			if err != nil {
				return err
			}
			read := eng.AccessFile(cmd.Context(), intent.FileAccessIntent{
				Purpose: intent.AccessRead,
				Target:  intent.FileTarget{Path: res.Files[idx].Path},
			})
			if !read.Success {
				return errors.New(read.Message)
			}
			fmt.Print(read.Content)
			return nil
		}

		for _, f := range res.Files {
			if f.Relevance > 0 {
				fmt.Printf("%s\t(%.2f)\n", f.Path, f.Relevance)
			} else {
				fmt.Println(f.Path)
			}
			if f.Snippet != "" {
				fmt.Printf("  %s\n", strings.ReplaceAll(f.Snippet, "\n", "\n  "))
			}
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().StringVarP(&searchMode, "mode", "m", "semantic", "search mode: semantic, content, or integrated")
	searchCmd.Flags().IntVar(&searchMax, "max", 0, "maximum results (default from config)")
	searchCmd.Flags().BoolVarP(&searchInteractive, "interactive", "i", false, "pick a result in a fuzzy finder and print it")
	rootCmd.AddCommand(searchCmd)
}
