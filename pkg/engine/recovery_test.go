package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorcerai/packfs/pkg/intent"
)

func suggestionsFor(t *testing.T, files map[string]string, requested string) []intent.Suggestion {
	t.Helper()
	eng, root := newTestEngine(t)
	seedFiles(t, root, files)

	res := eng.AccessFile(context.Background(), intent.FileAccessIntent{
		Purpose: intent.AccessRead,
		Target:  intent.FileTarget{Path: requested},
	})
	require.False(t, res.Success)
	return res.Suggestions
}

func kinds(suggestions []intent.Suggestion) []string {
	out := make([]string, 0, len(suggestions))
	for _, s := range suggestions {
		out = append(out, s.Type)
	}
	return out
}

func TestSuggestionsAreRankedAndCapped(t *testing.T) {
	suggestions := suggestionsFor(t, map[string]string{
		"docs/readme.md":  "Main documentation body",
		"docs/readied.md": "Similar name candidate file",
		"other/readme.md": "Another readme elsewhere in tree",
	}, "docs/readme.txt")

	require.NotEmpty(t, suggestions)
	assert.LessOrEqual(t, len(suggestions), 5)
	for i := 1; i < len(suggestions); i++ {
		assert.GreaterOrEqual(t, suggestions[i-1].Confidence, suggestions[i].Confidence)
	}
}

func TestSuggestionDirectoryListing(t *testing.T) {
	suggestions := suggestionsFor(t, map[string]string{
		"docs/a.md": "alpha document content",
		"docs/b.md": "beta document content",
	}, "docs/missing.md")

	assert.Contains(t, kinds(suggestions), "directory_listing")
	for _, s := range suggestions {
		if s.Type == "directory_listing" {
			assert.InDelta(t, 0.9, s.Confidence, 0.001)
			assert.Contains(t, s.Paths, "docs/a.md")
		}
	}
}

func TestSuggestionAlternativeExtension(t *testing.T) {
	suggestions := suggestionsFor(t, map[string]string{
		"notes.md": "markdown variant of the notes",
	}, "notes.txt")

	require.Contains(t, kinds(suggestions), "alternative_path")
	for _, s := range suggestions {
		if s.Type == "alternative_path" {
			assert.Contains(t, s.Paths, "notes.md")
			assert.InDelta(t, 0.85, s.Confidence, 0.001)
		}
	}
}

func TestSuggestionSimilarNames(t *testing.T) {
	suggestions := suggestionsFor(t, map[string]string{
		"configuration.yaml": "main configuration values",
	}, "configuraton.yaml")

	assert.Contains(t, kinds(suggestions), "similar_files")
}

func TestSuggestionSearchElsewhere(t *testing.T) {
	suggestions := suggestionsFor(t, map[string]string{
		"deep/nested/target.md": "the real location of the file",
	}, "target.md")

	require.Contains(t, kinds(suggestions), "search_results")
	for _, s := range suggestions {
		if s.Type == "search_results" {
			assert.Contains(t, s.Paths, "deep/nested/target.md")
		}
	}
}

func TestSuggestionParentDirectories(t *testing.T) {
	suggestions := suggestionsFor(t, map[string]string{
		"a/b/real.md": "content in an existing subtree",
	}, "a/b/c/phantom.md")

	require.Contains(t, kinds(suggestions), "parent_directory")
	for _, s := range suggestions {
		if s.Type == "parent_directory" {
			assert.Contains(t, s.Paths, "a/b")
		}
	}
}
