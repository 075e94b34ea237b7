package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sorcerai/packfs/pkg/intent"
)

var (
	writeContent    string
	writeAppend     bool
	writeOverwrite  bool
	writeMerge      bool
	writePatch      bool
	writeCreatePath bool
)

var writeCmd = &cobra.Command{
	Use:     "write <path>",
	Aliases: []string{"w"},
	Short:   "Creates or updates a file in the sandbox",
	Long: `Writes content to a file. The default purpose is create, which fails if
the file already exists unless --create-path is set. Content comes from
--content or from stdin when piped.`,
	Example: `  # Create a new file
  packfs write notes/todo.md --content "# Todo"

  # Append to an existing file
  packfs write notes/todo.md --content "- buy milk" --append

  # Pipe content in and overwrite
  cat draft.md | packfs write notes/draft.md --overwrite`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := contentOrStdin(writeContent)
		if err != nil {
			return err
		}

		purpose := intent.UpdateCreate
		switch {
		case writeAppend:
			purpose = intent.UpdateAppend
		case writeOverwrite:
			purpose = intent.UpdateOverwrite
		case writeMerge:
			purpose = intent.UpdateMerge
		case writePatch:
			purpose = intent.UpdatePatch
		}

		eng, err := newEngine()
		if err != nil {
			return err
		}
		defer eng.Close()

		res := eng.UpdateContent(cmd.Context(), intent.ContentUpdateIntent{
			Purpose: purpose,
			Target:  intent.FileTarget{Path: args[0]},
			Content: content,
			Options: intent.Options{CreatePath: writeCreatePath},
		})
		if !res.Success {
			return errors.New(res.Message)
		}
		verb := "Updated"
		if res.Created {
			verb = "Created"
		}
		fmt.Printf("%s %s (%d bytes)\n", verb, res.Path, res.BytesWritten)
		return nil
	},
}

// contentOrStdin returns content if non-empty, otherwise reads piped stdin.
func contentOrStdin(content string) (string, error) {
	if content != "" {
		return content, nil
	}
	stat, err := os.Stdin.Stat()
	if err != nil || (stat.Mode()&os.ModeCharDevice) != 0 {
		return "", nil
	}
	b, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(b), "\n"), nil
}

func init() {
	writeCmd.Flags().StringVarP(&writeContent, "content", "c", "", "content to write")
	writeCmd.Flags().BoolVarP(&writeAppend, "append", "a", false, "append to an existing file")
	writeCmd.Flags().BoolVarP(&writeOverwrite, "overwrite", "o", false, "replace the file's content")
	writeCmd.Flags().BoolVar(&writeMerge, "merge", false, "merge onto existing content with a newline separator")
	writeCmd.Flags().BoolVar(&writePatch, "patch", false, "patch the file's content")
	writeCmd.Flags().BoolVar(&writeCreatePath, "create-path", false, "create parent directories and allow create over an existing file")
	writeCmd.MarkFlagsMutuallyExclusive("append", "overwrite", "merge", "patch")
	rootCmd.AddCommand(writeCmd)
}
