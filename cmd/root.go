package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/sorcerai/packfs/pkg/engine"
)

var (
	baseDir string
	watch   bool
)

var rootCmd = &cobra.Command{
	Use:     "packfs",
	Short:   "packfs - semantic filesystem CLI to read, write, search, organize and remove files",
	Version: "v1.0.0",
	Long: `packfs layers intent-based operations and a persistent semantic index
over a directory tree. Files are addressed by path, glob pattern, structured
criteria, or free-text query; every command runs against a sandboxed base
directory and keeps the index in sync.`,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&baseDir, "base", "b", ".", "base directory of the sandbox")
	rootCmd.PersistentFlags().BoolVar(&watch, "watch", false, "attach a filesystem watcher for incremental reconciliation")
}

// newEngine builds the disk-backed engine for the selected base directory,
// applying .packfs/config.yaml when present.
func newEngine() (*engine.Engine, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("resolve base directory: %w", err)
	}
	if info, err := os.Stat(abs); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("base directory does not exist: %s", abs)
	}

	cfg, err := engine.LoadConfig(osfs.New(abs))
	if err != nil {
		return nil, err
	}
	eng, err := engine.New(abs, cfg)
	if err != nil {
		return nil, err
	}
	if watch {
		if err := eng.EnableWatcher(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
	}
	return eng, nil
}
