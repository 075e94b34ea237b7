package retrieval_test

import (
	"testing"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorcerai/packfs/pkg/index"
	"github.com/sorcerai/packfs/pkg/intent"
	"github.com/sorcerai/packfs/pkg/retrieval"
)

func fixtureIndex(t *testing.T) (billy.Filesystem, *index.Index) {
	t.Helper()
	fs := memfs.New()
	files := map[string]string{
		"docs/readme.md": "Project documentation for the whole system",
		"docs/plan.md":   "Quarterly planning notes with milestones",
		"src/main.js":    "console.log('bootstrap application entry')",
		"config.yaml":    "server configuration defaults listed here",
	}
	idx := index.New()
	ix := index.NewIndexer(fs, idx)
	for rel, content := range files {
		require.NoError(t, util.WriteFile(fs, rel, []byte(content), 0o644))
		require.NoError(t, ix.UpdateFile(rel))
	}
	return fs, idx
}

func paths(files []retrieval.Scored) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.Path)
	}
	return out
}

func TestMatchPattern(t *testing.T) {
	fs, idx := fixtureIndex(t)
	r := retrieval.New(fs, idx, 0)

	t.Run("star variants mean everything", func(t *testing.T) {
		for _, p := range []string{"*", "**", "*.*"} {
			assert.Len(t, r.MatchPattern(p), 4, p)
		}
	})

	t.Run("extension glob", func(t *testing.T) {
		assert.ElementsMatch(t, []string{"docs/readme.md", "docs/plan.md"}, r.MatchPattern("*.md"))
	})

	t.Run("question mark", func(t *testing.T) {
		assert.ElementsMatch(t, []string{"docs/plan.md"}, r.MatchPattern("docs/pla?.md"))
	})

	t.Run("basename match", func(t *testing.T) {
		assert.ElementsMatch(t, []string{"docs/readme.md"}, r.MatchPattern("readme.md"))
	})

	t.Run("case-insensitive", func(t *testing.T) {
		assert.ElementsMatch(t, []string{"docs/readme.md"}, r.MatchPattern("README.MD"))
	})

	t.Run("malformed pattern falls back to substring", func(t *testing.T) {
		got := r.MatchPattern("readme(")
		assert.Empty(t, got)
		got = r.MatchPattern("*plan(*")
		assert.Empty(t, got)
		got = r.MatchPattern("plan.md(")
		assert.Empty(t, got)
	})
}

func TestFindByTarget(t *testing.T) {
	fs, idx := fixtureIndex(t)
	r := retrieval.New(fs, idx, 0)

	t.Run("path branch requires existence", func(t *testing.T) {
		assert.Equal(t, []string{"docs/readme.md"}, r.FindByTarget(intent.FileTarget{Path: "docs/readme.md"}))
		assert.Empty(t, r.FindByTarget(intent.FileTarget{Path: "docs/missing.md"}))
	})

	t.Run("union of mechanisms", func(t *testing.T) {
		got := r.FindByTarget(intent.FileTarget{
			Path:    "config.yaml",
			Pattern: "*.js",
		})
		assert.ElementsMatch(t, []string{"config.yaml", "src/main.js"}, got)
	})
}

func TestMatchCriteria(t *testing.T) {
	fs, idx := fixtureIndex(t)
	r := retrieval.New(fs, idx, 0)

	t.Run("name substring", func(t *testing.T) {
		got := r.MatchCriteria(&intent.Criteria{Name: "read"})
		assert.Equal(t, []string{"docs/readme.md"}, got)
	})

	t.Run("type filter", func(t *testing.T) {
		got := r.MatchCriteria(&intent.Criteria{Type: []string{"js"}})
		assert.Equal(t, []string{"src/main.js"}, got)
	})

	t.Run("content over keywords and preview", func(t *testing.T) {
		got := r.MatchCriteria(&intent.Criteria{Content: "milestones"})
		assert.Equal(t, []string{"docs/plan.md"}, got)
	})

	t.Run("size bounds", func(t *testing.T) {
		got := r.MatchCriteria(&intent.Criteria{Size: &intent.SizeRange{Min: 1, Max: 10_000}})
		assert.Len(t, got, 4)
		got = r.MatchCriteria(&intent.Criteria{Size: &intent.SizeRange{Min: 10_000}})
		assert.Empty(t, got)
	})

	t.Run("modified bounds", func(t *testing.T) {
		got := r.MatchCriteria(&intent.Criteria{Modified: &intent.TimeRange{Before: time.Now().Add(time.Hour)}})
		assert.Len(t, got, 4)
	})

	t.Run("criteria are AND-combined", func(t *testing.T) {
		got := r.MatchCriteria(&intent.Criteria{Name: "plan", Type: []string{"js"}})
		assert.Empty(t, got)
	})
}

func TestSearchSemantic(t *testing.T) {
	fs, idx := fixtureIndex(t)
	r := retrieval.New(fs, idx, 0)

	t.Run("keyword and preview scoring", func(t *testing.T) {
		scored := r.SearchSemantic("documentation")
		require.NotEmpty(t, scored)
		assert.Contains(t, scored[0].Path, "readme")
	})

	t.Run("readme boost", func(t *testing.T) {
		scored := r.SearchSemantic("readme")
		require.NotEmpty(t, scored)
		assert.Equal(t, "docs/readme.md", scored[0].Path)
		assert.GreaterOrEqual(t, scored[0].Score, 10.0)
	})

	t.Run("config boost", func(t *testing.T) {
		scored := r.SearchSemantic("config")
		require.NotEmpty(t, scored)
		assert.Equal(t, "config.yaml", scored[0].Path)
	})

	t.Run("zero scores are discarded", func(t *testing.T) {
		assert.Empty(t, r.SearchSemantic("zzzunmatchable"))
	})

	t.Run("cap respected", func(t *testing.T) {
		capped := retrieval.New(fs, idx, 1)
		assert.Len(t, capped.SearchSemantic("documentation planning configuration application"), 1)
	})
}

func TestSearchContent(t *testing.T) {
	fs, idx := fixtureIndex(t)
	r := retrieval.New(fs, idx, 0)

	got := r.SearchContent("planning")
	assert.Equal(t, []string{"docs/plan.md"}, got)
	assert.Empty(t, r.SearchContent("nonexistent-token"))
}

func TestSearchIntegrated(t *testing.T) {
	fs, idx := fixtureIndex(t)
	r := retrieval.New(fs, idx, 0)

	scored := r.SearchIntegrated("documentation")
	require.NotEmpty(t, scored)
	// Found by both content and semantic search: boosted to 0.9.
	assert.Equal(t, "docs/readme.md", scored[0].Path)
	assert.InDelta(t, 0.9, scored[0].Score, 0.001)
	for _, s := range scored {
		assert.LessOrEqual(t, s.Score, 1.0)
		assert.Greater(t, s.Score, 0.0)
	}
	assert.NotContains(t, paths(scored), "src/main.js")
}
