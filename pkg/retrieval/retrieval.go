// Package retrieval answers file targets against the semantic index: path,
// glob, criteria, keyword, semantic, and integrated modes with scoring and
// ranking.
package retrieval

import (
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"

	"github.com/sorcerai/packfs/pkg/index"
	"github.com/sorcerai/packfs/pkg/intent"
	"github.com/sorcerai/packfs/pkg/sandbox"
)

// DefaultMaxResults caps result lists unless the caller overrides it.
const DefaultMaxResults = 100

// Scored pairs a path with its relevance.
type Scored struct {
	Path  string
	Score float64
}

// Engine evaluates targets against one index snapshot. It never mutates the
// index and only touches disk to confirm path existence.
type Engine struct {
	fs         billy.Filesystem
	idx        *index.Index
	maxResults int
}

// New builds a retrieval engine. maxResults <= 0 selects the default cap.
func New(fs billy.Filesystem, idx *index.Index, maxResults int) *Engine {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	return &Engine{fs: fs, idx: idx, maxResults: maxResults}
}

// FindByTarget unions the outputs of whichever target mechanisms are
// present and returns sorted relative paths.
func (e *Engine) FindByTarget(t intent.FileTarget) []string {
	found := make(map[string]struct{})

	if t.Path != "" {
		if rel, err := sandbox.Normalize(t.Path); err == nil {
			if _, statErr := e.fs.Lstat(rel); statErr == nil {
				found[rel] = struct{}{}
			}
		}
	}
	if t.Pattern != "" {
		for _, p := range e.MatchPattern(t.Pattern) {
			found[p] = struct{}{}
		}
	}
	if t.SemanticQuery != "" {
		for _, s := range e.SearchSemantic(t.SemanticQuery) {
			found[s.Path] = struct{}{}
		}
	}
	if !t.Criteria.IsZero() {
		for _, p := range e.MatchCriteria(t.Criteria) {
			found[p] = struct{}{}
		}
	}

	out := make([]string, 0, len(found))
	for p := range found {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// MatchPattern glob-matches against the indexed paths. "*", "**", and "*.*"
// mean all entries. The wildcard translation escapes dots, maps "*" to ".*"
// and "?" to ".", case-insensitively; a pattern that still fails to compile
// falls back to a case-insensitive substring match with "*" stripped.
func (e *Engine) MatchPattern(pattern string) []string {
	paths := e.idx.Paths()
	if pattern == "*" || pattern == "**" || pattern == "*.*" {
		return paths
	}

	expr := strings.ReplaceAll(pattern, ".", `\.`)
	expr = strings.ReplaceAll(expr, "*", ".*")
	expr = strings.ReplaceAll(expr, "?", ".")
	re, err := regexp.Compile("(?i)^" + expr + "$")
	if err != nil {
		needle := strings.ToLower(strings.ReplaceAll(pattern, "*", ""))
		var out []string
		for _, p := range paths {
			if strings.Contains(strings.ToLower(p), needle) {
				out = append(out, p)
			}
		}
		return out
	}

	var out []string
	for _, p := range paths {
		if re.MatchString(p) || re.MatchString(path.Base(p)) {
			out = append(out, p)
		}
	}
	return out
}

// MatchCriteria AND-combines the structured filters over the index.
func (e *Engine) MatchCriteria(c *intent.Criteria) []string {
	if c.IsZero() {
		return nil
	}
	var out []string
	for _, p := range e.idx.Paths() {
		entry, _ := e.idx.Get(p)
		if matchesCriteria(entry, c) {
			out = append(out, p)
		}
	}
	return out
}

func matchesCriteria(e *index.Entry, c *intent.Criteria) bool {
	if c.Name != "" && !strings.Contains(strings.ToLower(path.Base(e.Path)), strings.ToLower(c.Name)) {
		return false
	}
	if c.Content != "" && !entryContains(e, c.Content) {
		return false
	}
	if c.Size != nil {
		if c.Size.Min > 0 && e.Size < c.Size.Min {
			return false
		}
		if c.Size.Max > 0 && e.Size > c.Size.Max {
			return false
		}
	}
	if c.Modified != nil {
		if !c.Modified.After.IsZero() && !e.Mtime.After(c.Modified.After) {
			return false
		}
		if !c.Modified.Before.IsZero() && !e.Mtime.Before(c.Modified.Before) {
			return false
		}
	}
	if len(c.Type) > 0 {
		ext := strings.TrimPrefix(strings.ToLower(path.Ext(e.Path)), ".")
		ok := false
		for _, t := range c.Type {
			if strings.ToLower(strings.TrimPrefix(t, ".")) == ext {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

func entryContains(e *index.Entry, needle string) bool {
	n := strings.ToLower(needle)
	for _, kw := range e.Keywords {
		if strings.Contains(kw, n) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(e.Preview), n)
}

// SearchContent returns entries whose keywords or preview contain the query
// as a substring.
func (e *Engine) SearchContent(query string) []string {
	var out []string
	for _, p := range e.idx.Paths() {
		entry, _ := e.idx.Get(p)
		if entryContains(entry, query) {
			out = append(out, p)
		}
	}
	if len(out) > e.maxResults {
		out = out[:e.maxResults]
	}
	return out
}

// SearchSemantic scores every entry against the query and returns the
// non-zero scores in descending order, capped at the result limit.
//
// Per query token: +2 when it is a substring of a keyword, +3 when it is a
// substring of the filename, +1 when it is a substring of the preview; plus
// a one-time +10 filename boost each for "readme" and "config" queries.
func (e *Engine) SearchSemantic(query string) []Scored {
	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) == 0 {
		return nil
	}
	q := strings.ToLower(query)

	var scored []Scored
	for _, p := range e.idx.Paths() {
		entry, _ := e.idx.Get(p)
		score := scoreEntry(entry, tokens, q)
		if score > 0 {
			scored = append(scored, Scored{Path: p, Score: score})
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Path < scored[j].Path
	})
	if len(scored) > e.maxResults {
		scored = scored[:e.maxResults]
	}
	return scored
}

func scoreEntry(e *index.Entry, tokens []string, query string) float64 {
	filename := strings.ToLower(path.Base(e.Path))
	preview := strings.ToLower(e.Preview)

	var score float64
	for _, tok := range tokens {
		for _, kw := range e.Keywords {
			if strings.Contains(kw, tok) {
				score += 2
				break
			}
		}
		if strings.Contains(filename, tok) {
			score += 3
		}
		if strings.Contains(preview, tok) {
			score++
		}
	}
	if strings.Contains(query, "readme") && strings.Contains(filename, "readme") {
		score += 10
	}
	if strings.Contains(query, "config") && strings.Contains(filename, "config") {
		score += 10
	}
	return score
}

// SearchIntegrated unions content and semantic search. Entries found by
// both rank 0.9; content-only entries rank 0.6; semantic-only entries rank
// by their position in the semantic ordering.
func (e *Engine) SearchIntegrated(query string) []Scored {
	content := e.SearchContent(query)
	semantic := e.SearchSemantic(query)

	inContent := make(map[string]struct{}, len(content))
	for _, p := range content {
		inContent[p] = struct{}{}
	}

	relevance := make(map[string]float64)
	for rank, s := range semantic {
		if _, both := inContent[s.Path]; both {
			relevance[s.Path] = 0.9
		} else {
			relevance[s.Path] = 1 - float64(rank)/float64(len(semantic))
		}
	}
	for _, p := range content {
		if _, ok := relevance[p]; !ok {
			relevance[p] = 0.6
		}
	}

	out := make([]Scored, 0, len(relevance))
	for p, r := range relevance {
		out = append(out, Scored{Path: p, Score: r})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Path < out[j].Path
	})
	if len(out) > e.maxResults {
		out = out[:e.maxResults]
	}
	return out
}
