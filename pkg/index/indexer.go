package index

import (
	"fmt"
	"log"
	"os"
	"path"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/sorcerai/packfs/pkg/sandbox"
)

// Indexer walks the sandbox tree and keeps the index in step with disk.
// Traversal never aborts on individual children: errors are logged and the
// walk continues.
type Indexer struct {
	fs  billy.Filesystem
	idx *Index
}

// NewIndexer binds an indexer to a sandbox-rooted filesystem and an index.
func NewIndexer(fs billy.Filesystem, idx *Index) *Indexer {
	return &Indexer{fs: fs, idx: idx}
}

// UpdateFile brings the entry for rel up to date. Oversized files are
// skipped; binary files carry metadata only; unchanged content (by hash)
// leaves the index untouched.
func (ix *Indexer) UpdateFile(rel string) error {
	info, err := ix.fs.Stat(rel)
	if err != nil {
		return fmt.Errorf("stat %s: %w", rel, err)
	}
	if info.IsDir() {
		return nil
	}
	if info.Size() > MaxIndexableSize {
		return nil
	}

	if IsBinaryPath(rel) {
		ix.idx.Put(&Entry{
			Path:        rel,
			Mtime:       info.ModTime(),
			Size:        info.Size(),
			MimeType:    MimeTypeFor(rel),
			LastIndexed: time.Now(),
		})
		return nil
	}

	data, err := util.ReadFile(ix.fs, rel)
	if err != nil {
		return fmt.Errorf("read %s: %w", rel, err)
	}
	content := string(data)
	hash := ContentHash(content)

	if existing, ok := ix.idx.Get(rel); ok && existing.ContentHash == hash {
		return nil
	}

	keywords := ExtractKeywords(content)
	ix.idx.Put(&Entry{
		Path:              rel,
		Keywords:          keywords,
		ContentHash:       hash,
		LastIndexed:       time.Now(),
		Mtime:             info.ModTime(),
		Size:              info.Size(),
		MimeType:          MimeTypeFor(rel),
		Preview:           BuildPreview(content),
		SemanticSignature: Signature(keywords),
	})
	return nil
}

// IndexTree walks the whole sandbox and indexes every file, honoring the
// exclusion set, the depth cap, and symlink-cycle detection.
func (ix *Indexer) IndexTree() {
	ix.indexDirectory("", 0, make(map[string]struct{}))
}

func (ix *Indexer) indexDirectory(rel string, depth int, visited map[string]struct{}) {
	key := ix.dirKey(rel)
	if _, seen := visited[key]; seen {
		return
	}
	visited[key] = struct{}{}

	infos, err := ix.fs.ReadDir(dirOrDot(rel))
	if err != nil {
		log.Printf("index: cannot read %s: %v", dirOrDot(rel), err)
		return
	}

	for _, info := range infos {
		name := info.Name()
		if sandbox.IsExcludedName(name) {
			continue
		}
		child := sandbox.Join(rel, name)

		isDir := info.IsDir()
		if info.Mode()&os.ModeSymlink != 0 {
			st, err := ix.fs.Stat(child)
			if err != nil {
				log.Printf("index: cannot resolve symlink %s: %v", child, err)
				continue
			}
			isDir = st.IsDir()
		}

		if isDir {
			if depth+1 > sandbox.MaxDepth {
				log.Printf("index: depth cap reached, skipping %s", child)
				continue
			}
			ix.indexDirectory(child, depth+1, visited)
			continue
		}
		if err := ix.UpdateFile(child); err != nil {
			log.Printf("index: skipping %s: %v", child, err)
		}
	}
}

// NeedsUpdate reports whether any file under the sandbox was modified after
// since, using the same exclusion and depth rules as indexing.
func (ix *Indexer) NeedsUpdate(since time.Time) bool {
	return ix.scanModified("", 0, since, make(map[string]struct{}))
}

func (ix *Indexer) scanModified(rel string, depth int, since time.Time, visited map[string]struct{}) bool {
	key := ix.dirKey(rel)
	if _, seen := visited[key]; seen {
		return false
	}
	visited[key] = struct{}{}

	infos, err := ix.fs.ReadDir(dirOrDot(rel))
	if err != nil {
		return false
	}
	for _, info := range infos {
		name := info.Name()
		if sandbox.IsExcludedName(name) {
			continue
		}
		child := sandbox.Join(rel, name)
		if info.IsDir() {
			if depth+1 > sandbox.MaxDepth {
				continue
			}
			if ix.scanModified(child, depth+1, since, visited) {
				return true
			}
			continue
		}
		if info.ModTime().After(since) {
			return true
		}
	}
	return false
}

// RemoveMissing prunes entries whose on-disk files are gone, reconciling
// out-of-band deletions. Returns how many entries were dropped.
func (ix *Indexer) RemoveMissing() int {
	removed := 0
	for _, rel := range ix.idx.Paths() {
		if _, err := ix.fs.Lstat(rel); os.IsNotExist(err) {
			ix.idx.Remove(rel)
			removed++
		}
	}
	return removed
}

// dirKey resolves a directory to a canonical key for the traversal visit
// set. Symlinked directories key on their resolved target so a cycle is
// refused on re-entry.
func (ix *Indexer) dirKey(rel string) string {
	if rel == "" {
		return ""
	}
	fi, err := ix.fs.Lstat(rel)
	if err != nil || fi.Mode()&os.ModeSymlink == 0 {
		return rel
	}
	target, err := ix.fs.Readlink(rel)
	if err != nil {
		return rel
	}
	if !path.IsAbs(target) {
		target = sandbox.Join(sandbox.Parent(rel), target)
	}
	return path.Clean(target)
}

func dirOrDot(rel string) string {
	if rel == "" {
		return "."
	}
	return rel
}
