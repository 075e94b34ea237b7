package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/sorcerai/packfs/pkg/intent"
	"github.com/sorcerai/packfs/pkg/sandbox"
)

const maxSuggestions = 5

var alternativeExtensions = []string{".md", ".ts", ".js", ".txt", ".json", ".yaml", ".yml"}

// suggest produces ranked recovery hints for a path that did not resolve.
// Callers hold e.mu; the engine index and primary filesystem are consulted
// read-only.
func (e *Engine) suggest(requested string) []intent.Suggestion {
	rel, err := sandbox.Normalize(requested)
	if err != nil || rel == "" {
		rel = strings.Trim(requested, "/")
	}
	if rel == "" {
		return nil
	}

	var out []intent.Suggestion
	if s, ok := e.suggestDirectoryListing(rel); ok {
		out = append(out, s)
	}
	if s, ok := e.suggestAlternativePaths(rel); ok {
		out = append(out, s)
	}
	if s, ok := e.suggestSimilarNames(rel); ok {
		out = append(out, s)
	}
	if s, ok := e.suggestSearchResults(rel); ok {
		out = append(out, s)
	}
	if s, ok := e.suggestParents(rel); ok {
		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Confidence > out[j].Confidence })
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}

func (e *Engine) suggestDirectoryListing(rel string) (intent.Suggestion, bool) {
	parent := sandbox.Parent(rel)
	infos, err := e.fs.ReadDir(relOrDot(parent))
	if err != nil {
		return intent.Suggestion{}, false
	}
	var paths []string
	for _, info := range infos {
		if strings.HasPrefix(info.Name(), sandbox.IndexDirName) {
			continue
		}
		paths = append(paths, sandbox.Join(parent, info.Name()))
		if len(paths) == 20 {
			break
		}
	}
	if len(paths) == 0 {
		return intent.Suggestion{}, false
	}
	return intent.Suggestion{
		Type:        "directory_listing",
		Confidence:  0.9,
		Description: fmt.Sprintf("contents of %s", relOrDot(parent)),
		Paths:       paths,
	}, true
}

func (e *Engine) suggestAlternativePaths(rel string) (intent.Suggestion, bool) {
	base := strings.TrimSuffix(rel, pathExt(rel))
	candidates := make([]string, 0, len(alternativeExtensions)+3)
	for _, ext := range alternativeExtensions {
		candidates = append(candidates, base+ext)
	}
	parent := sandbox.Parent(rel)
	candidates = append(candidates,
		sandbox.Join(parent, "index.md"),
		sandbox.Join(parent, "README.md"),
		base,
	)

	var paths []string
	for _, c := range candidates {
		if c != rel && exists(e.fs, c) {
			paths = append(paths, c)
		}
	}
	if len(paths) == 0 {
		return intent.Suggestion{}, false
	}
	return intent.Suggestion{
		Type:        "alternative_path",
		Confidence:  0.85,
		Description: "files at alternative extensions or conventional names",
		Paths:       paths,
	}, true
}

func (e *Engine) suggestSimilarNames(rel string) (intent.Suggestion, bool) {
	name := sandbox.Basename(rel)
	parent := sandbox.Parent(rel)

	var candidates []string
	if infos, err := e.fs.ReadDir(relOrDot(parent)); err == nil {
		for _, info := range infos {
			candidates = append(candidates, info.Name())
		}
	} else if e.idx != nil {
		for _, p := range e.idx.Paths() {
			candidates = append(candidates, sandbox.Basename(p))
		}
	}

	type ranked struct {
		name  string
		score float64
	}
	var kept []ranked
	for _, c := range candidates {
		if strings.HasPrefix(c, sandbox.IndexDirName) {
			continue
		}
		score := similarity(name, c)
		if score > 30 {
			kept = append(kept, ranked{name: c, score: score})
		}
	}
	if len(kept) == 0 {
		return intent.Suggestion{}, false
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].score > kept[j].score })

	paths := make([]string, 0, len(kept))
	for _, k := range kept {
		paths = append(paths, sandbox.Join(parent, k.name))
	}
	return intent.Suggestion{
		Type:        "similar_files",
		Confidence:  0.8,
		Description: fmt.Sprintf("names similar to %s", name),
		Paths:       paths,
	}, true
}

// similarity scores candidate names: exact 100, prefix 80, substring 60,
// otherwise a normalized-Levenshtein falloff from 40.
func similarity(want, have string) float64 {
	w := strings.ToLower(want)
	h := strings.ToLower(have)
	switch {
	case w == h:
		return 100
	case strings.HasPrefix(h, w):
		return 80
	case strings.Contains(h, w):
		return 60
	}
	dmp := diffmatchpatch.New()
	dist := float64(dmp.DiffLevenshtein(dmp.DiffMain(w, h, false)))
	longest := float64(len(w))
	if float64(len(h)) > longest {
		longest = float64(len(h))
	}
	if longest == 0 {
		return 0
	}
	score := 40 - (dist/longest)*40
	if score < 0 {
		return 0
	}
	return score
}

// suggestSearchResults looks for the requested basename elsewhere in the
// sandbox, bounded to three directory levels.
func (e *Engine) suggestSearchResults(rel string) (intent.Suggestion, bool) {
	name := strings.ToLower(sandbox.Basename(rel))
	var paths []string
	var walk func(dir string, depth int)
	walk = func(dir string, depth int) {
		if depth > 3 || len(paths) >= 20 {
			return
		}
		infos, err := e.fs.ReadDir(relOrDot(dir))
		if err != nil {
			return
		}
		for _, info := range infos {
			if sandbox.IsExcludedName(info.Name()) {
				continue
			}
			child := sandbox.Join(dir, info.Name())
			if info.IsDir() {
				walk(child, depth+1)
				continue
			}
			if strings.ToLower(info.Name()) == name && child != rel {
				paths = append(paths, child)
			}
		}
	}
	walk("", 1)
	if len(paths) == 0 {
		return intent.Suggestion{}, false
	}
	return intent.Suggestion{
		Type:        "search_results",
		Confidence:  0.7,
		Description: fmt.Sprintf("other locations of %s", sandbox.Basename(rel)),
		Paths:       paths,
	}, true
}

func (e *Engine) suggestParents(rel string) (intent.Suggestion, bool) {
	var paths []string
	for parent := sandbox.Parent(rel); parent != ""; parent = sandbox.Parent(parent) {
		if isDir(e.fs, parent) {
			paths = append(paths, parent)
		}
	}
	if len(paths) == 0 {
		return intent.Suggestion{}, false
	}
	return intent.Suggestion{
		Type:        "parent_directory",
		Confidence:  0.6,
		Description: "existing ancestor directories",
		Paths:       paths,
	}, true
}

func pathExt(rel string) string {
	base := sandbox.Basename(rel)
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		return base[i:]
	}
	return ""
}
