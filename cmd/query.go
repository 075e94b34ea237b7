package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:     "query <text>",
	Aliases: []string{"q"},
	Short:   "Runs a natural-language query",
	Long: `Parses a free-text request into a structured intent and executes it.
The parsed category and confidence are reported alongside the result.`,
	Example: `  packfs query "read notes.md"
  packfs query "find meeting notes"
  packfs query 'create file called todo.md with "# Todo"'`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		defer eng.Close()

		interp, err := eng.InterpretQuery(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}

		fmt.Printf("intent: %s (confidence %.2f)\n", interp.Intent.Category(), interp.Confidence)
		if !interp.Success && interp.Message != "" {
			fmt.Printf("failed: %s\n", interp.Message)
		}
		encoded, err := json.MarshalIndent(interp.Result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(encoded))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
}
