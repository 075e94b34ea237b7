package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"

	"github.com/sorcerai/packfs/pkg/index"
	"github.com/sorcerai/packfs/pkg/intent"
	"github.com/sorcerai/packfs/pkg/sandbox"
)

// OrganizeFiles executes an organize intent: create_directory, move, copy,
// or the two index-only grouping purposes.
func (e *Engine) OrganizeFiles(ctx context.Context, in intent.OrganizeIntent) intent.OrganizeResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	ctx, cancel := opContext(ctx, in.Options)
	defer cancel()

	if err := in.Validate(); err != nil {
		return intent.OrganizeResult{Message: err.Error()}
	}
	fs, primary, err := e.opFS(in.Options)
	if err != nil {
		return intent.OrganizeResult{Message: err.Error()}
	}
	if primary {
		if err := e.ensureReady(ctx); err != nil {
			return intent.OrganizeResult{Message: ctxMessage(err)}
		}
	}

	switch in.Purpose {
	case intent.OrganizeCreateDirectory:
		return e.createDirectory(fs, in)
	case intent.OrganizeMove:
		return e.moveFiles(fs, primary, in)
	case intent.OrganizeCopy:
		return e.copyFiles(fs, primary, in)
	case intent.OrganizeGroupKeywords:
		if !primary {
			return intent.OrganizeResult{Message: "grouping requires the primary base path"}
		}
		return e.groupByKeywords()
	case intent.OrganizeGroupSemantic:
		if !primary {
			return intent.OrganizeResult{Message: "grouping requires the primary base path"}
		}
		return e.groupBySignature()
	}
	return intent.OrganizeResult{Message: fmt.Sprintf("unsupported organize purpose %q", in.Purpose)}
}

func (e *Engine) createDirectory(fs billy.Filesystem, in intent.OrganizeIntent) intent.OrganizeResult {
	rel, err := sandbox.NormalizeFile(in.Destination.Path)
	if err != nil {
		return intent.OrganizeResult{Message: err.Error()}
	}
	if !in.Options.Recursive {
		if parent := sandbox.Parent(rel); parent != "" && !isDir(fs, parent) {
			return intent.OrganizeResult{Message: fmt.Sprintf("parent directory does not exist: %s", parent)}
		}
	}
	if err := fs.MkdirAll(rel, 0o750); err != nil {
		return intent.OrganizeResult{Message: fmt.Sprintf("create directory %s: %v", rel, err)}
	}
	return intent.OrganizeResult{Success: true, FilesAffected: 0, NewPaths: []string{rel}}
}

// resolveSources resolves an organize source target. On the primary base
// path the retrieval engine answers, so bulk moves from a pattern work; on
// an override only a literal path can resolve.
func (e *Engine) resolveSources(fs billy.Filesystem, primary bool, t intent.FileTarget) ([]string, error) {
	if primary {
		return e.retriever(0).FindByTarget(t), nil
	}
	if t.Path == "" {
		return nil, fmt.Errorf("working-directory operations require source.path")
	}
	rel, err := sandbox.NormalizeFile(t.Path)
	if err != nil {
		return nil, err
	}
	if !exists(fs, rel) {
		return nil, nil
	}
	return []string{rel}, nil
}

// destinationFor maps one source onto the destination. Multiple sources
// must land in an existing directory; collapsing several files onto one
// path is refused.
func destinationFor(fs billy.Filesystem, src, destPath string, multi bool) (string, error) {
	dest, err := sandbox.NormalizeFile(strings.TrimSuffix(destPath, "/"))
	if err != nil {
		return "", err
	}
	intoDir := strings.HasSuffix(destPath, "/") || isDir(fs, dest)
	if multi && !intoDir {
		return "", fmt.Errorf("destination %s is not a directory; refusing to collapse multiple sources", dest)
	}
	if intoDir {
		return sandbox.Join(dest, sandbox.Basename(src)), nil
	}
	return dest, nil
}

func (e *Engine) moveFiles(fs billy.Filesystem, primary bool, in intent.OrganizeIntent) intent.OrganizeResult {
	sources, err := e.resolveSources(fs, primary, in.Source)
	if err != nil {
		return intent.OrganizeResult{Message: err.Error()}
	}
	if len(sources) == 0 {
		return intent.OrganizeResult{Message: "no source files matched"}
	}

	var newPaths []string
	for _, src := range sources {
		dst, err := destinationFor(fs, src, in.Destination.Path, len(sources) > 1)
		if err != nil {
			return intent.OrganizeResult{NewPaths: newPaths, Message: err.Error()}
		}
		srcIsDir := isDir(fs, src)
		if err := renamePath(fs, src, dst); err != nil {
			return intent.OrganizeResult{NewPaths: newPaths, Message: fmt.Sprintf("move %s: %v", src, err)}
		}
		if primary {
			if srcIsDir {
				e.renameIndexedTree(src, dst)
			} else {
				e.idx.Rename(src, dst)
			}
		}
		newPaths = append(newPaths, dst)
	}

	if primary {
		if err := e.store.Save(e.idx); err != nil {
			return intent.OrganizeResult{NewPaths: newPaths, Message: err.Error()}
		}
	}
	return intent.OrganizeResult{Success: true, FilesAffected: len(sources), NewPaths: newPaths}
}

func (e *Engine) copyFiles(fs billy.Filesystem, primary bool, in intent.OrganizeIntent) intent.OrganizeResult {
	sources, err := e.resolveSources(fs, primary, in.Source)
	if err != nil {
		return intent.OrganizeResult{Message: err.Error()}
	}
	if len(sources) == 0 {
		return intent.OrganizeResult{Message: "no source files matched"}
	}

	var newPaths []string
	affected := 0
	for _, src := range sources {
		dst, err := destinationFor(fs, src, in.Destination.Path, len(sources) > 1)
		if err != nil {
			return intent.OrganizeResult{NewPaths: newPaths, Message: err.Error()}
		}
		if isDir(fs, src) {
			if err := copyTree(fs, src, dst); err != nil {
				return intent.OrganizeResult{NewPaths: newPaths, Message: fmt.Sprintf("copy %s: %v", src, err)}
			}
		} else {
			if err := copyFile(fs, src, dst); err != nil {
				return intent.OrganizeResult{NewPaths: newPaths, Message: fmt.Sprintf("copy %s: %v", src, err)}
			}
		}
		if primary {
			files, _, _, err := collectTree(fs, dst)
			if err == nil {
				ix := index.NewIndexer(fs, e.idx)
				for _, f := range files {
					_ = ix.UpdateFile(f)
					affected++
				}
			}
		} else {
			affected++
		}
		newPaths = append(newPaths, dst)
	}

	if primary {
		if err := e.store.Save(e.idx); err != nil {
			return intent.OrganizeResult{NewPaths: newPaths, Message: err.Error()}
		}
	}
	return intent.OrganizeResult{Success: true, FilesAffected: affected, NewPaths: newPaths}
}

// renameIndexedTree rewrites every index entry under a moved directory.
func (e *Engine) renameIndexedTree(from, to string) {
	prefix := from + "/"
	for _, p := range e.idx.Paths() {
		if p == from {
			e.idx.Rename(p, to)
			continue
		}
		if strings.HasPrefix(p, prefix) {
			e.idx.Rename(p, to+"/"+strings.TrimPrefix(p, prefix))
		}
	}
}

// groupByKeywords builds a logical grouping from the inverted keyword map
// without touching disk. Groups come out largest first.
func (e *Engine) groupByKeywords() intent.OrganizeResult {
	var groups []intent.FileGroup
	for kw, paths := range e.idx.KeywordMap {
		if len(paths) == 0 {
			continue
		}
		sorted := append([]string(nil), paths...)
		sort.Strings(sorted)
		groups = append(groups, intent.FileGroup{Key: kw, Paths: sorted})
	}
	sort.Slice(groups, func(i, j int) bool {
		if len(groups[i].Paths) != len(groups[j].Paths) {
			return len(groups[i].Paths) > len(groups[j].Paths)
		}
		return groups[i].Key < groups[j].Key
	})
	if len(groups) > e.cfg.DefaultMaxResults {
		groups = groups[:e.cfg.DefaultMaxResults]
	}
	return intent.OrganizeResult{Success: true, Groups: groups, FilesAffected: len(e.idx.Entries)}
}

// groupBySignature clusters entries whose semantic signatures overlap at or
// above the configured threshold. Each entry joins the first group whose
// representative signature is close enough; otherwise it seeds a new group.
func (e *Engine) groupBySignature() intent.OrganizeResult {
	type cluster struct {
		rep   map[string]struct{}
		key   string
		paths []string
	}
	var clusters []*cluster

	for _, p := range e.idx.Paths() {
		entry, _ := e.idx.Get(p)
		tokens := signatureTokens(entry.SemanticSignature)
		placed := false
		for _, c := range clusters {
			if jaccard(tokens, c.rep) >= e.cfg.SemanticThreshold {
				c.paths = append(c.paths, p)
				placed = true
				break
			}
		}
		if !placed {
			clusters = append(clusters, &cluster{rep: tokens, key: entry.SemanticSignature, paths: []string{p}})
		}
	}

	groups := make([]intent.FileGroup, 0, len(clusters))
	for _, c := range clusters {
		groups = append(groups, intent.FileGroup{Key: c.key, Paths: c.paths})
	}
	sort.Slice(groups, func(i, j int) bool {
		if len(groups[i].Paths) != len(groups[j].Paths) {
			return len(groups[i].Paths) > len(groups[j].Paths)
		}
		return groups[i].Key < groups[j].Key
	})
	return intent.OrganizeResult{Success: true, Groups: groups, FilesAffected: len(e.idx.Entries)}
}

func signatureTokens(sig string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, t := range strings.Split(sig, "|") {
		if t != "" {
			out[t] = struct{}{}
		}
	}
	return out
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for t := range a {
		if _, ok := b[t]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}
