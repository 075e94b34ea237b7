package cmd

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/sorcerai/packfs/pkg/intent"
)

var (
	readPreview  bool
	readMetadata bool
	readCopy     bool
)

var readCmd = &cobra.Command{
	Use:     "read <path>",
	Aliases: []string{"r", "cat"},
	Short:   "Reads a file from the sandbox",
	Long: `Reads a file and prints its content. With --preview only the cached
preview is shown; with --metadata only size, mtime and mime type.`,
	Example: `  # Print a file
  packfs read notes/todo.md

  # Show the indexed preview
  packfs read notes/todo.md --preview

  # Copy content to the clipboard
  packfs read notes/todo.md --copy`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		defer eng.Close()

		purpose := intent.AccessRead
		if readPreview {
			purpose = intent.AccessPreview
		} else if readMetadata {
			purpose = intent.AccessMetadata
		}

		res := eng.AccessFile(cmd.Context(), intent.FileAccessIntent{
			Purpose:     purpose,
			Target:      intent.FileTarget{Path: args[0]},
			Preferences: &intent.AccessPreferences{IncludeMetadata: readMetadata},
		})
		if !res.Success {
			printSuggestions(res.Suggestions)
			return errors.New(res.Message)
		}

		switch {
		case readMetadata:
			printMetadata(res.Metadata)
		case readPreview:
			fmt.Println(res.Preview)
		default:
			if readCopy {
				if err := clipboard.WriteAll(res.Content); err != nil {
					return fmt.Errorf("copy to clipboard: %w", err)
				}
				fmt.Printf("Copied %s to clipboard\n", res.Path)
				return nil
			}
			fmt.Print(res.Content)
		}
		return nil
	},
}

func init() {
	readCmd.Flags().BoolVarP(&readPreview, "preview", "p", false, "show the indexed preview instead of full content")
	readCmd.Flags().BoolVarP(&readMetadata, "metadata", "m", false, "show metadata only")
	readCmd.Flags().BoolVarP(&readCopy, "copy", "c", false, "copy content to the clipboard")
	readCmd.MarkFlagsMutuallyExclusive("preview", "metadata")
	rootCmd.AddCommand(readCmd)
}
