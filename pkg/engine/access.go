package engine

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/sorcerai/packfs/pkg/index"
	"github.com/sorcerai/packfs/pkg/intent"
	"github.com/sorcerai/packfs/pkg/sandbox"
)

// AccessFile executes an access intent: read, preview, metadata,
// verify_exists, or create_or_get.
func (e *Engine) AccessFile(ctx context.Context, in intent.FileAccessIntent) intent.AccessResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	ctx, cancel := opContext(ctx, in.Options)
	defer cancel()

	if err := in.Validate(); err != nil {
		return intent.AccessResult{Message: err.Error()}
	}
	fs, primary, err := e.opFS(in.Options)
	if err != nil {
		return intent.AccessResult{Message: err.Error()}
	}
	if primary {
		if err := e.ensureReady(ctx); err != nil {
			return intent.AccessResult{Message: ctxMessage(err)}
		}
	}

	var rel string
	if in.Target.Path != "" {
		rel, err = sandbox.NormalizeFile(in.Target.Path)
		if err != nil {
			return intent.AccessResult{Message: err.Error()}
		}
	} else if primary {
		if matches := e.retriever(0).FindByTarget(in.Target); len(matches) > 0 {
			rel = matches[0]
		}
	}

	found := rel != "" && exists(fs, rel)

	if in.Purpose == intent.AccessVerifyExists {
		return intent.AccessResult{Success: true, Exists: found, Path: rel}
	}

	if !found {
		if in.Purpose == intent.AccessCreateOrGet {
			if err := writeFile(fs, rel, ""); err != nil {
				return intent.AccessResult{Path: rel, Message: fmt.Sprintf("create %s: %v", rel, err)}
			}
			if primary {
				if err := e.afterWrite(rel); err != nil {
					return intent.AccessResult{Path: rel, Message: err.Error()}
				}
			}
			return intent.AccessResult{Success: true, Exists: true, Path: rel, Content: ""}
		}

		res := intent.AccessResult{
			Path:    rel,
			Message: notFoundMessage(in.Target, rel),
		}
		if primary {
			res.Suggestions = e.suggest(firstNonEmpty(rel, in.Target.Path))
		}
		return res
	}

	switch in.Purpose {
	case intent.AccessRead, intent.AccessCreateOrGet:
		if isDir(fs, rel) {
			return intent.AccessResult{Exists: true, Path: rel, Message: fmt.Sprintf("%s is a directory", rel)}
		}
		content, err := readFile(fs, rel)
		if err != nil {
			return intent.AccessResult{Exists: true, Path: rel, Message: fmt.Sprintf("read %s: %v", rel, err)}
		}
		res := intent.AccessResult{Success: true, Exists: true, Path: rel, Content: encodeContent(content, in.Preferences)}
		if in.Preferences != nil && in.Preferences.IncludeMetadata {
			res.Metadata, _ = metadataFor(fs, rel)
		}
		return res

	case intent.AccessPreview:
		if primary {
			if entry, ok := e.idx.Get(rel); ok && entry.Preview != "" {
				return intent.AccessResult{Success: true, Exists: true, Path: rel, Preview: entry.Preview}
			}
		}
		content, err := readFile(fs, rel)
		if err != nil {
			return intent.AccessResult{Exists: true, Path: rel, Message: fmt.Sprintf("read %s: %v", rel, err)}
		}
		return intent.AccessResult{Success: true, Exists: true, Path: rel, Preview: index.BuildPreview(content)}

	case intent.AccessMetadata:
		meta, err := metadataFor(fs, rel)
		if err != nil {
			return intent.AccessResult{Exists: true, Path: rel, Message: fmt.Sprintf("stat %s: %v", rel, err)}
		}
		return intent.AccessResult{Success: true, Exists: true, Path: rel, Metadata: meta}
	}

	return intent.AccessResult{Message: fmt.Sprintf("unsupported access purpose %q", in.Purpose)}
}

// afterWrite re-indexes a written file and persists the index. Primary base
// path only; override operations never reach here.
func (e *Engine) afterWrite(rel string) error {
	if err := index.NewIndexer(e.fs, e.idx).UpdateFile(rel); err != nil {
		return fmt.Errorf("index %s: %w", rel, err)
	}
	return e.store.Save(e.idx)
}

func encodeContent(content string, prefs *intent.AccessPreferences) string {
	if prefs != nil && prefs.Encoding == "base64" {
		return base64.StdEncoding.EncodeToString([]byte(content))
	}
	return content
}

func notFoundMessage(t intent.FileTarget, rel string) string {
	if rel != "" {
		return fmt.Sprintf("file not found: %s", rel)
	}
	if t.SemanticQuery != "" {
		return fmt.Sprintf("no file matched query %q", t.SemanticQuery)
	}
	if t.Pattern != "" {
		return fmt.Sprintf("no file matched pattern %q", t.Pattern)
	}
	return "no file matched target"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
