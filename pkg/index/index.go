// Package index maintains the persistent semantic index: per-file entries
// (hash, keywords, preview, signature) plus an inverted keyword map, stored
// as a single versioned JSON file under the sandbox's .packfs directory.
package index

import (
	"encoding/json"
	"sort"
	"time"
)

// Version is the supported index format version. A loaded index with any
// other version is rebuilt from scratch.
const Version = "1.0.0"

// FileName is the index file name inside the state directory.
const FileName = "semantic-index.json"

// Entry is the per-file record.
type Entry struct {
	Path              string    `json:"path"`
	Keywords          []string  `json:"keywords"`
	ContentHash       string    `json:"contentHash"`
	LastIndexed       time.Time `json:"lastIndexed"`
	Mtime             time.Time `json:"mtime"`
	Size              int64     `json:"size"`
	MimeType          string    `json:"mimeType"`
	Preview           string    `json:"preview"`
	SemanticSignature string    `json:"semanticSignature"`
}

// KeywordMap is the inverted index from keyword to paths. Its UnmarshalJSON
// self-heals corrupted shapes: any value that is not a sequence of strings
// loads as an empty sequence instead of failing the whole index.
type KeywordMap map[string][]string

// UnmarshalJSON replaces non-sequence values with empty sequences.
func (m *KeywordMap) UnmarshalJSON(data []byte) error {
	raw := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(KeywordMap, len(raw))
	for k, v := range raw {
		var paths []string
		if err := json.Unmarshal(v, &paths); err != nil {
			out[k] = []string{}
			continue
		}
		if paths == nil {
			paths = []string{}
		}
		out[k] = paths
	}
	*m = out
	return nil
}

// Index is the full persisted shape.
type Index struct {
	Version     string            `json:"version"`
	Created     time.Time         `json:"created"`
	LastUpdated time.Time         `json:"lastUpdated"`
	Entries     map[string]*Entry `json:"entries"`
	KeywordMap  KeywordMap        `json:"keywordMap"`
}

// New returns an empty index at the current version.
func New() *Index {
	now := time.Now()
	return &Index{
		Version:     Version,
		Created:     now,
		LastUpdated: now,
		Entries:     make(map[string]*Entry),
		KeywordMap:  make(KeywordMap),
	}
}

// Put inserts or replaces an entry, keeping the keyword map consistent:
// the old entry's keywords are withdrawn before the new ones are posted.
func (ix *Index) Put(e *Entry) {
	if old, ok := ix.Entries[e.Path]; ok {
		ix.removeKeywords(old)
	}
	ix.Entries[e.Path] = e
	ix.addKeywords(e)
}

// Remove deletes an entry and purges its keywords from the map.
func (ix *Index) Remove(rel string) bool {
	e, ok := ix.Entries[rel]
	if !ok {
		return false
	}
	ix.removeKeywords(e)
	delete(ix.Entries, rel)
	return true
}

// Rename moves an entry to a new path, carrying its keyword postings over.
func (ix *Index) Rename(from, to string) bool {
	e, ok := ix.Entries[from]
	if !ok {
		return false
	}
	ix.removeKeywords(e)
	delete(ix.Entries, from)
	e.Path = to
	ix.Entries[to] = e
	ix.addKeywords(e)
	return true
}

// Get returns the entry for rel, if indexed.
func (ix *Index) Get(rel string) (*Entry, bool) {
	e, ok := ix.Entries[rel]
	return e, ok
}

// Paths returns all indexed paths in sorted order.
func (ix *Index) Paths() []string {
	out := make([]string, 0, len(ix.Entries))
	for p := range ix.Entries {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// PathsForKeyword returns the posting list for a keyword.
func (ix *Index) PathsForKeyword(kw string) []string {
	return ix.KeywordMap[kw]
}

func (ix *Index) addKeywords(e *Entry) {
	for _, kw := range e.Keywords {
		paths := ix.KeywordMap[kw]
		found := false
		for _, p := range paths {
			if p == e.Path {
				found = true
				break
			}
		}
		if !found {
			ix.KeywordMap[kw] = append(paths, e.Path)
		}
	}
}

func (ix *Index) removeKeywords(e *Entry) {
	for _, kw := range e.Keywords {
		paths := ix.KeywordMap[kw]
		kept := paths[:0]
		for _, p := range paths {
			if p != e.Path {
				kept = append(kept, p)
			}
		}
		if len(kept) == 0 {
			delete(ix.KeywordMap, kw)
		} else {
			ix.KeywordMap[kw] = kept
		}
	}
}
