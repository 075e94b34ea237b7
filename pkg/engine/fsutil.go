package engine

import (
	"fmt"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/sorcerai/packfs/pkg/index"
	"github.com/sorcerai/packfs/pkg/intent"
	"github.com/sorcerai/packfs/pkg/sandbox"
)

func exists(fs billy.Filesystem, rel string) bool {
	_, err := fs.Lstat(relOrDot(rel))
	return err == nil
}

func isDir(fs billy.Filesystem, rel string) bool {
	info, err := fs.Stat(relOrDot(rel))
	return err == nil && info.IsDir()
}

func relOrDot(rel string) string {
	if rel == "" {
		return "."
	}
	return rel
}

func readFile(fs billy.Filesystem, rel string) (string, error) {
	data, err := util.ReadFile(fs, rel)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// writeFile creates parent directories as needed and writes content with
// the existing file's mode when one is present.
func writeFile(fs billy.Filesystem, rel string, content string) error {
	if parent := sandbox.Parent(rel); parent != "" {
		if err := fs.MkdirAll(parent, 0o750); err != nil {
			return fmt.Errorf("create parent directory: %w", err)
		}
	}
	mode := os.FileMode(0o644)
	if info, err := fs.Stat(rel); err == nil {
		mode = info.Mode()
	}
	return util.WriteFile(fs, rel, []byte(content), mode)
}

func copyFile(fs billy.Filesystem, from, to string) error {
	data, err := util.ReadFile(fs, from)
	if err != nil {
		return err
	}
	if parent := sandbox.Parent(to); parent != "" {
		if err := fs.MkdirAll(parent, 0o750); err != nil {
			return err
		}
	}
	return util.WriteFile(fs, to, data, 0o644)
}

// copyTree copies a directory recursively, skipping excluded names.
func copyTree(fs billy.Filesystem, from, to string) error {
	infos, err := fs.ReadDir(relOrDot(from))
	if err != nil {
		return err
	}
	if err := fs.MkdirAll(to, 0o750); err != nil {
		return err
	}
	for _, info := range infos {
		if sandbox.IsExcludedName(info.Name()) {
			continue
		}
		src := sandbox.Join(from, info.Name())
		dst := sandbox.Join(to, info.Name())
		if info.IsDir() {
			if err := copyTree(fs, src, dst); err != nil {
				return err
			}
			continue
		}
		if err := copyFile(fs, src, dst); err != nil {
			return err
		}
	}
	return nil
}

// renamePath moves a file or directory, creating the destination's parent.
func renamePath(fs billy.Filesystem, from, to string) error {
	if parent := sandbox.Parent(to); parent != "" {
		if err := fs.MkdirAll(parent, 0o750); err != nil {
			return err
		}
	}
	return fs.Rename(from, to)
}

// collectTree gathers every file under rel (inclusive when rel is a file),
// returning paths and the summed size.
func collectTree(fs billy.Filesystem, rel string) (files []string, dirs []string, total int64, err error) {
	info, err := fs.Lstat(relOrDot(rel))
	if err != nil {
		return nil, nil, 0, err
	}
	if !info.IsDir() {
		return []string{rel}, nil, info.Size(), nil
	}
	dirs = append(dirs, rel)
	infos, err := fs.ReadDir(relOrDot(rel))
	if err != nil {
		return nil, nil, 0, err
	}
	for _, child := range infos {
		cf, cd, ct, cerr := collectTree(fs, sandbox.Join(rel, child.Name()))
		if cerr != nil {
			continue
		}
		files = append(files, cf...)
		dirs = append(dirs, cd...)
		total += ct
	}
	return files, dirs, total, nil
}

// removeTree deletes a file or directory recursively.
func removeTree(fs billy.Filesystem, rel string) error {
	return util.RemoveAll(fs, rel)
}

func metadataFor(fs billy.Filesystem, rel string) (*intent.FileMetadata, error) {
	info, err := fs.Stat(relOrDot(rel))
	if err != nil {
		return nil, err
	}
	return &intent.FileMetadata{
		Path:     rel,
		Size:     info.Size(),
		Mtime:    info.ModTime(),
		MimeType: index.MimeTypeFor(rel),
		IsDir:    info.IsDir(),
	}, nil
}
