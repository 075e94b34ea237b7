package engine

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sorcerai/packfs/pkg/intent"
)

// Facade adapts the intent engine to the traditional POSIX-style verb set.
// Each call translates into exactly one intent; failures surface as Go
// errors, with os.ErrNotExist wrapped where a target was missing.
type Facade struct {
	engine *Engine
}

// NewFacade wraps an engine.
func NewFacade(e *Engine) *Facade {
	return &Facade{engine: e}
}

func notExist(path string) error {
	return fmt.Errorf("%s: %w", path, os.ErrNotExist)
}

// ReadFile returns a file's content.
func (f *Facade) ReadFile(ctx context.Context, path string) (string, error) {
	res := f.engine.AccessFile(ctx, intent.FileAccessIntent{
		Purpose: intent.AccessRead,
		Target:  intent.FileTarget{Path: path},
	})
	if !res.Success {
		if !res.Exists {
			return "", notExist(path)
		}
		return "", errors.New(res.Message)
	}
	return res.Content, nil
}

// WriteFile replaces a file's content, creating it as needed.
func (f *Facade) WriteFile(ctx context.Context, path, content string) error {
	in := intent.ContentUpdateIntent{
		Purpose: intent.UpdateOverwrite,
		Target:  intent.FileTarget{Path: path},
		Content: content,
	}
	if content == "" {
		in.Purpose = intent.UpdateCreate
		in.Options.CreatePath = true
	}
	res := f.engine.UpdateContent(ctx, in)
	if !res.Success {
		return errors.New(res.Message)
	}
	return nil
}

// Exists reports whether a file or directory exists at path inside the
// sandbox. A path that escapes the sandbox is an error.
func (f *Facade) Exists(ctx context.Context, path string) (bool, error) {
	res := f.engine.AccessFile(ctx, intent.FileAccessIntent{
		Purpose: intent.AccessVerifyExists,
		Target:  intent.FileTarget{Path: path},
	})
	if !res.Success {
		return false, errors.New(res.Message)
	}
	return res.Exists, nil
}

// Stat returns file metadata.
func (f *Facade) Stat(ctx context.Context, path string) (*intent.FileMetadata, error) {
	res := f.engine.AccessFile(ctx, intent.FileAccessIntent{
		Purpose: intent.AccessMetadata,
		Target:  intent.FileTarget{Path: path},
	})
	if !res.Success {
		if !res.Exists {
			return nil, notExist(path)
		}
		return nil, errors.New(res.Message)
	}
	return res.Metadata, nil
}

// Mkdir creates a directory, parents included.
func (f *Facade) Mkdir(ctx context.Context, path string) error {
	res := f.engine.OrganizeFiles(ctx, intent.OrganizeIntent{
		Purpose:     intent.OrganizeCreateDirectory,
		Destination: intent.FileTarget{Path: path},
		Options:     intent.Options{Recursive: true},
	})
	if !res.Success {
		return errors.New(res.Message)
	}
	return nil
}

// ReadDir lists a directory.
func (f *Facade) ReadDir(ctx context.Context, path string) ([]intent.FoundFile, error) {
	res := f.engine.DiscoverFiles(ctx, intent.DiscoverIntent{
		Purpose: intent.DiscoverList,
		Target:  intent.FileTarget{Path: path},
	})
	if !res.Success {
		return nil, errors.New(res.Message)
	}
	return res.Files, nil
}

// Remove unlinks a single file.
func (f *Facade) Remove(ctx context.Context, path string) error {
	res := f.engine.RemoveFiles(ctx, intent.RemoveIntent{
		Purpose: intent.RemoveDeleteFile,
		Target:  intent.FileTarget{Path: path},
	})
	if !res.Success {
		return errors.New(res.Message)
	}
	return nil
}

// RemoveAll deletes a directory recursively.
func (f *Facade) RemoveAll(ctx context.Context, path string) error {
	res := f.engine.RemoveFiles(ctx, intent.RemoveIntent{
		Purpose: intent.RemoveDeleteDirectory,
		Target:  intent.FileTarget{Path: path},
	})
	if !res.Success {
		return errors.New(res.Message)
	}
	return nil
}

// Copy duplicates a file or directory.
func (f *Facade) Copy(ctx context.Context, src, dst string) error {
	res := f.engine.OrganizeFiles(ctx, intent.OrganizeIntent{
		Purpose:     intent.OrganizeCopy,
		Source:      intent.FileTarget{Path: src},
		Destination: intent.FileTarget{Path: dst},
	})
	if !res.Success {
		return errors.New(res.Message)
	}
	return nil
}

// Move renames a file or directory.
func (f *Facade) Move(ctx context.Context, src, dst string) error {
	res := f.engine.OrganizeFiles(ctx, intent.OrganizeIntent{
		Purpose:     intent.OrganizeMove,
		Source:      intent.FileTarget{Path: src},
		Destination: intent.FileTarget{Path: dst},
	})
	if !res.Success {
		return errors.New(res.Message)
	}
	return nil
}
