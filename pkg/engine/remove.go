package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sorcerai/packfs/pkg/intent"
	"github.com/sorcerai/packfs/pkg/sandbox"
)

// RemoveFiles executes a remove intent. Dry runs report what would be
// deleted without touching disk or index; moveToTrash renames instead of
// unlinking.
func (e *Engine) RemoveFiles(ctx context.Context, in intent.RemoveIntent) intent.RemoveResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	ctx, cancel := opContext(ctx, in.Options)
	defer cancel()

	if err := in.Validate(); err != nil {
		return intent.RemoveResult{Message: err.Error()}
	}
	fs, primary, err := e.opFS(in.Options)
	if err != nil {
		return intent.RemoveResult{Message: err.Error()}
	}
	if primary {
		if err := e.ensureReady(ctx); err != nil {
			return intent.RemoveResult{Message: ctxMessage(err)}
		}
	}

	targets, err := e.resolveSources(fs, primary, in.Target)
	if err != nil {
		return intent.RemoveResult{Message: err.Error()}
	}
	if len(targets) == 0 {
		return intent.RemoveResult{Message: "no files matched target"}
	}

	for _, rel := range targets {
		dir := isDir(fs, rel)
		if in.Purpose == intent.RemoveDeleteFile && dir {
			return intent.RemoveResult{Message: fmt.Sprintf("%s is a directory; use delete_directory", rel)}
		}
		if in.Purpose == intent.RemoveDeleteDirectory && !dir {
			return intent.RemoveResult{Message: fmt.Sprintf("%s is not a directory", rel)}
		}
	}

	res := intent.RemoveResult{DryRun: in.Options.DryRun}
	for _, rel := range targets {
		files, dirs, total, err := collectTree(fs, rel)
		if err != nil {
			return intent.RemoveResult{Message: fmt.Sprintf("inspect %s: %v", rel, err)}
		}
		res.FilesDeleted += len(files)
		res.DirectoriesDeleted += len(dirs)
		res.FreedSpace += total
		res.DeletedPaths = append(res.DeletedPaths, rel)

		if in.Options.DryRun {
			continue
		}

		if in.Options.MoveToTrash {
			if err := renamePath(fs, rel, trashName(rel)); err != nil {
				return intent.RemoveResult{Message: fmt.Sprintf("trash %s: %v", rel, err)}
			}
		} else {
			if err := removeTree(fs, rel); err != nil {
				return intent.RemoveResult{Message: fmt.Sprintf("delete %s: %v", rel, err)}
			}
		}
		if primary {
			e.dropFromIndex(rel)
		}
	}

	if primary && !in.Options.DryRun {
		if err := e.store.Save(e.idx); err != nil {
			return intent.RemoveResult{Message: err.Error()}
		}
	}
	res.Success = true
	return res
}

// trashName appends the deletion marker used instead of unlinking.
func trashName(rel string) string {
	return fmt.Sprintf("%s.deleted.%d", rel, time.Now().UnixMilli())
}

// dropFromIndex removes an entry, or every entry under a directory, and
// purges the associated keywords.
func (e *Engine) dropFromIndex(rel string) {
	e.idx.Remove(rel)
	prefix := rel + "/"
	for _, p := range e.idx.Paths() {
		if strings.HasPrefix(p, prefix) {
			e.idx.Remove(p)
		}
	}
}

// PurgeTrash permanently deletes trashed files older than cutoff. It is a
// maintenance helper for sandboxes that accumulate moveToTrash leftovers.
func (e *Engine) PurgeTrash(ctx context.Context, cutoff time.Time) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	purged := 0
	var walk func(rel string) error
	walk = func(rel string) error {
		infos, err := e.fs.ReadDir(relOrDot(rel))
		if err != nil {
			return err
		}
		for _, info := range infos {
			if sandbox.IsExcludedName(info.Name()) {
				continue
			}
			child := sandbox.Join(rel, info.Name())
			if info.IsDir() && !isTrashed(info.Name()) {
				if err := walk(child); err != nil {
					return err
				}
				continue
			}
			if isTrashed(info.Name()) && info.ModTime().Before(cutoff) {
				if err := removeTree(e.fs, child); err != nil {
					return err
				}
				purged++
			}
		}
		return nil
	}
	if err := walk(""); err != nil {
		return purged, err
	}
	return purged, nil
}

func isTrashed(name string) bool {
	i := strings.LastIndex(name, ".deleted.")
	if i < 0 {
		return false
	}
	suffix := name[i+len(".deleted."):]
	if suffix == "" {
		return false
	}
	for _, r := range suffix {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
