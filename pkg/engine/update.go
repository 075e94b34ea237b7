package engine

import (
	"context"
	"fmt"

	"github.com/sorcerai/packfs/pkg/intent"
	"github.com/sorcerai/packfs/pkg/sandbox"
)

// UpdateContent executes an update intent: create, append, overwrite,
// merge, or patch. After a successful write on the primary base path the
// file is re-indexed and the index persisted; override operations leave the
// index alone.
func (e *Engine) UpdateContent(ctx context.Context, in intent.ContentUpdateIntent) intent.UpdateResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	ctx, cancel := opContext(ctx, in.Options)
	defer cancel()

	if err := in.Validate(); err != nil {
		return intent.UpdateResult{Message: err.Error()}
	}
	fs, primary, err := e.opFS(in.Options)
	if err != nil {
		return intent.UpdateResult{Message: err.Error()}
	}
	if primary {
		if err := e.ensureReady(ctx); err != nil {
			return intent.UpdateResult{Message: ctxMessage(err)}
		}
	}

	rel, err := sandbox.NormalizeFile(in.Target.Path)
	if err != nil {
		return intent.UpdateResult{Message: err.Error()}
	}
	if isDir(fs, rel) {
		return intent.UpdateResult{Path: rel, Message: fmt.Sprintf("%s is a directory", rel)}
	}

	existed := exists(fs, rel)

	var next string
	switch in.Purpose {
	case intent.UpdateCreate:
		if existed && !in.Options.CreatePath {
			return intent.UpdateResult{Path: rel, Message: fmt.Sprintf("file already exists: %s", rel)}
		}
		next = in.Content

	case intent.UpdateAppend:
		if !existed {
			return intent.UpdateResult{Path: rel, Message: fmt.Sprintf("cannot append to missing file: %s", rel)}
		}
		existing, err := readFile(fs, rel)
		if err != nil {
			return intent.UpdateResult{Path: rel, Message: fmt.Sprintf("read %s: %v", rel, err)}
		}
		next = existing + in.Content

	case intent.UpdateOverwrite, intent.UpdatePatch:
		next = in.Content

	case intent.UpdateMerge:
		if existed {
			existing, err := readFile(fs, rel)
			if err != nil {
				return intent.UpdateResult{Path: rel, Message: fmt.Sprintf("read %s: %v", rel, err)}
			}
			next = existing + "\n" + in.Content
		} else {
			next = in.Content
		}
	}

	if err := writeFile(fs, rel, next); err != nil {
		return intent.UpdateResult{Path: rel, Message: fmt.Sprintf("write %s: %v", rel, err)}
	}
	if primary {
		if err := e.afterWrite(rel); err != nil {
			return intent.UpdateResult{Path: rel, Message: err.Error()}
		}
	}

	return intent.UpdateResult{
		Success:      true,
		Path:         rel,
		Created:      !existed,
		BytesWritten: int64(len(next)),
	}
}
