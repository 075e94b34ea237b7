package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/sorcerai/packfs/pkg/index"
	"github.com/sorcerai/packfs/pkg/sandbox"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Shows sandbox and index status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		defer eng.Close()

		paths, err := eng.IndexedPaths(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("base directory: %s\n", eng.BaseDir())
		fmt.Printf("indexed files:  %d\n", len(paths))

		indexPath := filepath.Join(eng.BaseDir(), sandbox.IndexDirName, index.FileName)
		if info, err := os.Stat(indexPath); err == nil {
			fmt.Printf("index file:     %s (%s)\n", indexPath, humanize.Bytes(uint64(info.Size())))
		}

		cfg := eng.Config()
		fmt.Printf("max results:    %d\n", cfg.DefaultMaxResults)
		fmt.Printf("nl queries:     %v\n", cfg.EnableNaturalLanguage)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
