package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/sorcerai/packfs/pkg/intent"
)

var (
	removePattern    string
	removeDir        bool
	removeDryRun     bool
	removeTrash      bool
	removePurgeTrash int
)

var removeCmd = &cobra.Command{
	Use:     "remove [path]",
	Aliases: []string{"rm"},
	Short:   "Deletes files or directories from the sandbox",
	Long: `Deletes a file, a directory (with --dir), or everything matching a glob
(with --pattern). --dry-run reports what would be deleted; --trash renames
instead of unlinking. --purge-trash deletes trashed files older than the
given number of days.`,
	Example: `  # Delete a file
  packfs remove notes/old.md

  # Preview a bulk delete
  packfs remove --pattern "*.log" --dry-run

  # Soft-delete a directory
  packfs remove build-output --dir --trash

  # Purge trash older than 7 days
  packfs remove --purge-trash 7`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		defer eng.Close()

		if removePurgeTrash > 0 {
			cutoff := time.Now().AddDate(0, 0, -removePurgeTrash)
			purged, err := eng.PurgeTrash(cmd.Context(), cutoff)
			if err != nil {
				return err
			}
			fmt.Printf("Purged %d trashed file(s)\n", purged)
			return nil
		}

		target := intent.FileTarget{}
		purpose := intent.RemoveDeleteFile
		switch {
		case removePattern != "":
			target.Pattern = removePattern
			purpose = intent.RemoveDeleteByCriteria
		case len(args) == 1:
			target.Path = args[0]
			if removeDir {
				purpose = intent.RemoveDeleteDirectory
			}
		default:
			return errors.New("pass a path or --pattern")
		}

		res := eng.RemoveFiles(cmd.Context(), intent.RemoveIntent{
			Purpose: purpose,
			Target:  target,
			Options: intent.Options{DryRun: removeDryRun, MoveToTrash: removeTrash},
		})
		if !res.Success {
			return errors.New(res.Message)
		}

		verb := "Deleted"
		if res.DryRun {
			verb = "Would delete"
		} else if removeTrash {
			verb = "Trashed"
		}
		fmt.Printf("%s %d file(s), %d director(ies), freeing %s\n",
			verb, res.FilesDeleted, res.DirectoriesDeleted, humanize.Bytes(uint64(res.FreedSpace)))
		for _, p := range res.DeletedPaths {
			fmt.Printf("  - %s\n", p)
		}
		return nil
	},
}

func init() {
	removeCmd.Flags().StringVar(&removePattern, "pattern", "", "delete every file matching this glob")
	removeCmd.Flags().BoolVar(&removeDir, "dir", false, "delete a directory recursively")
	removeCmd.Flags().BoolVar(&removeDryRun, "dry-run", false, "report without deleting")
	removeCmd.Flags().BoolVar(&removeTrash, "trash", false, "rename to <path>.deleted.<millis> instead of unlinking")
	removeCmd.Flags().IntVar(&removePurgeTrash, "purge-trash", 0, "purge trashed files older than this many days")
	rootCmd.AddCommand(removeCmd)
}
