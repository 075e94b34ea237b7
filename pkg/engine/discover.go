package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"

	"github.com/sorcerai/packfs/pkg/index"
	"github.com/sorcerai/packfs/pkg/intent"
	"github.com/sorcerai/packfs/pkg/retrieval"
	"github.com/sorcerai/packfs/pkg/sandbox"
)

// DiscoverFiles executes a discover intent: list, find, or one of the
// three search modes. The result cap applies uniformly, list included,
// unless the caller overrides MaxResults.
func (e *Engine) DiscoverFiles(ctx context.Context, in intent.DiscoverIntent) intent.DiscoverResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	ctx, cancel := opContext(ctx, in.Options)
	defer cancel()
	started := time.Now()

	finish := func(res intent.DiscoverResult) intent.DiscoverResult {
		res.SearchTime = time.Since(started)
		return res
	}

	if err := in.Validate(); err != nil {
		return finish(intent.DiscoverResult{Message: err.Error()})
	}
	fs, primary, err := e.opFS(in.Options)
	if err != nil {
		return finish(intent.DiscoverResult{Message: err.Error()})
	}
	if primary {
		if err := e.ensureReady(ctx); err != nil {
			return finish(intent.DiscoverResult{Message: ctxMessage(err)})
		}
	}

	max := in.Options.MaxResults
	if max <= 0 {
		max = e.cfg.DefaultMaxResults
	}

	switch in.Purpose {
	case intent.DiscoverList:
		return finish(e.listDirectory(fs, primary, in, max))
	case intent.DiscoverFind:
		if !primary {
			return finish(e.findOverride(fs, in, max))
		}
		return finish(e.findFiles(in, max))
	case intent.DiscoverSearchContent, intent.DiscoverSearchSemantic, intent.DiscoverSearchIntegrated:
		if !primary {
			return finish(intent.DiscoverResult{Message: "search requires the primary base path"})
		}
		return finish(e.search(in, max))
	}
	return finish(intent.DiscoverResult{Message: fmt.Sprintf("unsupported discover purpose %q", in.Purpose)})
}

func (e *Engine) listDirectory(fs billy.Filesystem, primary bool, in intent.DiscoverIntent, max int) intent.DiscoverResult {
	rel, err := sandbox.Normalize(in.Target.Path)
	if err != nil {
		return intent.DiscoverResult{Message: err.Error()}
	}
	infos, err := fs.ReadDir(relOrDot(rel))
	if err != nil {
		res := intent.DiscoverResult{Message: fmt.Sprintf("list %s: %v", relOrDot(rel), err)}
		if primary {
			res.Suggestions = e.suggest(rel)
		}
		return res
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name() < infos[j].Name() })

	var files []intent.FoundFile
	total := 0
	for _, info := range infos {
		if strings.HasPrefix(info.Name(), sandbox.IndexDirName) {
			continue
		}
		total++
		if len(files) >= max {
			continue
		}
		f := intent.FoundFile{
			Path:  sandbox.Join(rel, info.Name()),
			IsDir: info.IsDir(),
			Size:  info.Size(),
			Mtime: info.ModTime(),
		}
		if in.Options.IncludeContent && !info.IsDir() {
			if content, err := readFile(fs, f.Path); err == nil {
				f.Content = content
			}
		}
		files = append(files, f)
	}
	return intent.DiscoverResult{Success: true, Files: files, TotalFound: total}
}

// findFiles dispatches to the retrieval engine's path, pattern, and
// criteria branches. A named path that does not exist is a failure with
// suggestions; a pattern or criteria search that matches nothing is a
// success with an empty list.
func (e *Engine) findFiles(in intent.DiscoverIntent, max int) intent.DiscoverResult {
	t := in.Target
	r := e.retriever(max)

	pathOnly := t.Path != "" && t.Pattern == "" && t.SemanticQuery == "" && t.Criteria.IsZero()
	matches := r.FindByTarget(t)
	matches = e.onlyExisting(matches)

	if len(matches) == 0 {
		if pathOnly {
			return intent.DiscoverResult{
				Message:     fmt.Sprintf("file not found: %s", t.Path),
				Suggestions: e.suggest(t.Path),
			}
		}
		return intent.DiscoverResult{
			Success:     true,
			Files:       []intent.FoundFile{},
			Message:     "no files matched",
			Suggestions: e.suggest(suggestSeed(t)),
		}
	}

	total := len(matches)
	if len(matches) > max {
		matches = matches[:max]
	}
	return intent.DiscoverResult{Success: true, Files: e.describe(matches), TotalFound: total}
}

// findOverride resolves a literal path against a working-directory
// override without consulting the index.
func (e *Engine) findOverride(fs billy.Filesystem, in intent.DiscoverIntent, max int) intent.DiscoverResult {
	if in.Target.Path == "" {
		return intent.DiscoverResult{Message: "working-directory find requires target.path"}
	}
	rel, err := sandbox.NormalizeFile(in.Target.Path)
	if err != nil {
		return intent.DiscoverResult{Message: err.Error()}
	}
	if !exists(fs, rel) {
		return intent.DiscoverResult{Message: fmt.Sprintf("file not found: %s", rel)}
	}
	meta, _ := metadataFor(fs, rel)
	f := intent.FoundFile{Path: rel}
	if meta != nil {
		f.IsDir = meta.IsDir
		f.Size = meta.Size
		f.Mtime = meta.Mtime
	}
	return intent.DiscoverResult{Success: true, Files: []intent.FoundFile{f}, TotalFound: 1}
}

func (e *Engine) search(in intent.DiscoverIntent, max int) intent.DiscoverResult {
	query := in.Target.SemanticQuery
	if query == "" {
		if in.Target.Criteria != nil {
			query = in.Target.Criteria.Content
		}
		if query == "" {
			query = in.Target.Pattern
		}
	}
	r := e.retriever(max)

	var files []intent.FoundFile
	switch in.Purpose {
	case intent.DiscoverSearchContent:
		matches := e.onlyExisting(r.SearchContent(query))
		files = e.describe(matches)
		for i := range files {
			if content, err := readFile(e.fs, files[i].Path); err == nil {
				files[i].Snippet = index.SnippetAround(content, query, e.cfg.Chunking.MaxChunkSize, e.cfg.Chunking.OverlapSize)
			}
		}
	case intent.DiscoverSearchSemantic:
		files = e.describeScored(r.SearchSemantic(query))
	case intent.DiscoverSearchIntegrated:
		files = e.describeScored(r.SearchIntegrated(query))
	}

	res := intent.DiscoverResult{Success: true, Files: files, TotalFound: len(files)}
	if len(files) == 0 {
		res.Files = []intent.FoundFile{}
		res.Message = fmt.Sprintf("no files matched %q", query)
		res.Suggestions = e.suggest(suggestSeed(in.Target))
	}
	return res
}

// onlyExisting drops results whose on-disk files are gone; discover must
// never return an absent path.
func (e *Engine) onlyExisting(rels []string) []string {
	kept := rels[:0]
	for _, rel := range rels {
		if exists(e.fs, rel) {
			kept = append(kept, rel)
		}
	}
	return kept
}

func (e *Engine) describe(rels []string) []intent.FoundFile {
	files := make([]intent.FoundFile, 0, len(rels))
	for _, rel := range rels {
		f := intent.FoundFile{Path: rel}
		if entry, ok := e.idx.Get(rel); ok {
			f.Size = entry.Size
			f.Mtime = entry.Mtime
			f.Preview = entry.Preview
		} else if meta, err := metadataFor(e.fs, rel); err == nil {
			f.IsDir = meta.IsDir
			f.Size = meta.Size
			f.Mtime = meta.Mtime
		}
		files = append(files, f)
	}
	return files
}

func (e *Engine) describeScored(scored []retrieval.Scored) []intent.FoundFile {
	var files []intent.FoundFile
	for _, s := range scored {
		if !exists(e.fs, s.Path) {
			continue
		}
		f := intent.FoundFile{Path: s.Path, Relevance: s.Score}
		if entry, ok := e.idx.Get(s.Path); ok {
			f.Size = entry.Size
			f.Mtime = entry.Mtime
			f.Preview = entry.Preview
		}
		files = append(files, f)
	}
	return files
}

// suggestSeed picks the most concrete target member to seed error-recovery
// suggestions.
func suggestSeed(t intent.FileTarget) string {
	if t.Path != "" {
		return t.Path
	}
	if t.Pattern != "" {
		return strings.ReplaceAll(t.Pattern, "*", "")
	}
	if t.SemanticQuery != "" {
		if fields := strings.Fields(t.SemanticQuery); len(fields) > 0 {
			return fields[0]
		}
	}
	if t.Criteria != nil {
		return t.Criteria.Name
	}
	return ""
}
