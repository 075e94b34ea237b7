package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/skratchdot/open-golang/open"
	"github.com/spf13/cobra"

	"github.com/sorcerai/packfs/pkg/intent"
)

var openCmd = &cobra.Command{
	Use:   "open <path>",
	Short: "Opens a sandbox file with the OS default handler",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		defer eng.Close()

		res := eng.AccessFile(cmd.Context(), intent.FileAccessIntent{
			Purpose: intent.AccessVerifyExists,
			Target:  intent.FileTarget{Path: args[0]},
		})
		if !res.Exists {
			printSuggestions(res.Suggestions)
			return errors.New("file not found: " + args[0])
		}

		abs := filepath.Join(eng.BaseDir(), filepath.FromSlash(res.Path))
		fmt.Printf("Opening %s\n", res.Path)
		return open.Run(abs)
	},
}

func init() {
	rootCmd.AddCommand(openCmd)
}
