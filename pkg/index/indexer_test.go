package index_test

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorcerai/packfs/pkg/index"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		abs := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
		require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
	}
}

func TestIndexTree(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"app.js":                    "console.log('hello application')",
		"docs/readme.md":            "Project documentation for the application",
		"node_modules/pkg/index.js": "module.exports = {}",
		".git/config":               "[core]",
		"dist/bundle.js":            "bundled output",
	})

	idx := index.New()
	index.NewIndexer(osfs.New(root), idx).IndexTree()

	assert.Contains(t, idx.Entries, "app.js")
	assert.Contains(t, idx.Entries, "docs/readme.md")
	for p := range idx.Entries {
		assert.NotContains(t, p, "node_modules")
		assert.NotContains(t, p, ".git")
		assert.NotContains(t, p, "dist")
	}
}

func TestUpdateFileFields(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"docs/guide.md": "Comprehensive installation guide\nInstallation requires patience\nshort\nFinal configuration notes here",
	})

	idx := index.New()
	ix := index.NewIndexer(osfs.New(root), idx)
	require.NoError(t, ix.UpdateFile("docs/guide.md"))

	entry, ok := idx.Get("docs/guide.md")
	require.True(t, ok)
	assert.Equal(t, "docs/guide.md", entry.Path)
	assert.Equal(t, "text/markdown", entry.MimeType)
	assert.NotEmpty(t, entry.ContentHash)
	assert.NotEmpty(t, entry.Keywords)
	assert.Contains(t, entry.Keywords, "installation")
	assert.Contains(t, entry.Preview, "Comprehensive installation guide")
	assert.NotEmpty(t, entry.SemanticSignature)
	assert.Greater(t, entry.Size, int64(0))
}

func TestUpdateFileUnchangedIsNoOp(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.md": "stable content for hashing"})

	idx := index.New()
	ix := index.NewIndexer(osfs.New(root), idx)
	require.NoError(t, ix.UpdateFile("a.md"))

	before, err := json.Marshal(idx)
	require.NoError(t, err)

	require.NoError(t, ix.UpdateFile("a.md"))
	after, err := json.Marshal(idx)
	require.NoError(t, err)

	assert.Equal(t, string(before), string(after))
}

func TestUpdateFileBinaryMetadataOnly(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"image.png": "\x89PNG binary bytes"})

	idx := index.New()
	require.NoError(t, index.NewIndexer(osfs.New(root), idx).UpdateFile("image.png"))

	entry, ok := idx.Get("image.png")
	require.True(t, ok)
	assert.Empty(t, entry.Keywords)
	assert.Empty(t, entry.Preview)
	assert.Equal(t, "image/png", entry.MimeType)
	assert.Greater(t, entry.Size, int64(0))
}

func TestDepthCap(t *testing.T) {
	root := t.TempDir()
	files := make(map[string]string)
	dir := ""
	for level := 1; level <= 15; level++ {
		dir = strings.TrimPrefix(dir+fmt.Sprintf("/d%d", level), "/")
		files[dir+fmt.Sprintf("/f%d.txt", level)] = fmt.Sprintf("content at level %d with enough words", level)
	}
	files["root.txt"] = "content at the sandbox root level"
	writeTree(t, root, files)

	idx := index.New()
	index.NewIndexer(osfs.New(root), idx).IndexTree()

	assert.NotEmpty(t, idx.Entries)
	for p := range idx.Entries {
		depth := strings.Count(p, "/")
		assert.LessOrEqual(t, depth, 10, "file %s is too deep", p)
	}
	assert.Contains(t, idx.Entries, "root.txt")
}

func TestSymlinkCycleTerminates(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a/file.txt": "cycle test file with real words"})
	// a/loop -> a creates a traversal cycle.
	if err := os.Symlink(filepath.Join(root, "a"), filepath.Join(root, "a", "loop")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	idx := index.New()
	index.NewIndexer(osfs.New(root), idx).IndexTree()
	assert.Contains(t, idx.Entries, "a/file.txt")
}

func TestNeedsUpdateAndRemoveMissing(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.md": "original content words here"})

	idx := index.New()
	ix := index.NewIndexer(osfs.New(root), idx)
	ix.IndexTree()
	require.Contains(t, idx.Entries, "a.md")

	entry, _ := idx.Get("a.md")
	assert.False(t, ix.NeedsUpdate(entry.Mtime))

	require.NoError(t, os.Remove(filepath.Join(root, "a.md")))
	removed := ix.RemoveMissing()
	assert.Equal(t, 1, removed)
	assert.Empty(t, idx.Entries)
}

func TestOversizedFileSkipped(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"small.txt": "this one is indexed normally"})
	// A sparse file one byte over the size cap.
	huge := filepath.Join(root, "huge.bin")
	require.NoError(t, os.WriteFile(huge, nil, 0o644))
	require.NoError(t, os.Truncate(huge, index.MaxIndexableSize+1))

	idx := index.New()
	ix := index.NewIndexer(osfs.New(root), idx)
	ix.IndexTree()
	assert.Contains(t, idx.Entries, "small.txt")
	assert.NotContains(t, idx.Entries, "huge.bin")
}
