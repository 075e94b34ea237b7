package intent_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorcerai/packfs/pkg/intent"
)

func TestParseQueryDelete(t *testing.T) {
	in, confidence := intent.ParseQuery("delete notes.txt")
	require.IsType(t, intent.RemoveIntent{}, in)
	rm := in.(intent.RemoveIntent)
	assert.Equal(t, intent.RemoveDeleteFile, rm.Purpose)
	assert.Equal(t, "notes.txt", rm.Target.Path)
	assert.GreaterOrEqual(t, confidence, 0.9)
}

func TestParseQueryCreateWithContent(t *testing.T) {
	in, confidence := intent.ParseQuery(`create file called todo.md with "buy milk"`)
	require.IsType(t, intent.ContentUpdateIntent{}, in)
	up := in.(intent.ContentUpdateIntent)
	assert.Equal(t, intent.UpdateCreate, up.Purpose)
	assert.Equal(t, "todo.md", up.Target.Path)
	assert.Equal(t, "buy milk", up.Content)
	assert.InDelta(t, 0.7, confidence, 0.001)
}

func TestParseQueryCreateBeforeRead(t *testing.T) {
	// "create ... with content" must not be mistaken for a read.
	in, _ := intent.ParseQuery(`create notes.md with content "hello there"`)
	require.IsType(t, intent.ContentUpdateIntent{}, in)
}

func TestParseQueryRead(t *testing.T) {
	in, confidence := intent.ParseQuery("read notes.md")
	require.IsType(t, intent.FileAccessIntent{}, in)
	acc := in.(intent.FileAccessIntent)
	assert.Equal(t, intent.AccessRead, acc.Purpose)
	assert.Equal(t, "notes.md", acc.Target.Path)
	assert.InDelta(t, 0.8, confidence, 0.001)
}

func TestParseQuerySearch(t *testing.T) {
	in, confidence := intent.ParseQuery("find meeting notes")
	require.IsType(t, intent.DiscoverIntent{}, in)
	disc := in.(intent.DiscoverIntent)
	assert.Equal(t, intent.DiscoverSearchSemantic, disc.Purpose)
	assert.Equal(t, "meeting notes", disc.Target.SemanticQuery)
	assert.InDelta(t, 0.75, confidence, 0.001)
}

func TestParseQuerySearchWithFilename(t *testing.T) {
	// The search trigger always maps to search_semantic, even when the
	// query happens to carry a filename.
	in, confidence := intent.ParseQuery("search for report.pdf")
	require.IsType(t, intent.DiscoverIntent{}, in)
	disc := in.(intent.DiscoverIntent)
	assert.Equal(t, intent.DiscoverSearchSemantic, disc.Purpose)
	assert.Contains(t, disc.Target.SemanticQuery, "report.pdf")
	assert.InDelta(t, 0.75, confidence, 0.001)
}

func TestParseQueryFallback(t *testing.T) {
	in, confidence := intent.ParseQuery("what about the weather")
	require.IsType(t, intent.FileAccessIntent{}, in)
	assert.InDelta(t, 0.3, confidence, 0.001)
	acc := in.(intent.FileAccessIntent)
	assert.Equal(t, intent.AccessRead, acc.Purpose)
	assert.NotEmpty(t, acc.Target.SemanticQuery)
}

func TestParseQueryRmWord(t *testing.T) {
	in, confidence := intent.ParseQuery("rm old-draft.txt")
	require.IsType(t, intent.RemoveIntent{}, in)
	assert.GreaterOrEqual(t, confidence, 0.9)

	// "form" must not trigger the rm rule; it falls back to read.
	in, confidence = intent.ParseQuery("form of the essay")
	require.IsType(t, intent.FileAccessIntent{}, in)
	assert.InDelta(t, 0.3, confidence, 0.001)
}

func TestParseQueryQuotedContentFallback(t *testing.T) {
	// A quoted string without a with/containing/content marker still
	// becomes the payload when the filename came from elsewhere.
	in, _ := intent.ParseQuery(`create notes.md "hello there"`)
	require.IsType(t, intent.ContentUpdateIntent{}, in)
	up := in.(intent.ContentUpdateIntent)
	assert.Equal(t, "notes.md", up.Target.Path)
	assert.Equal(t, "hello there", up.Content)
}

func TestParseQueryQuotedFilename(t *testing.T) {
	in, _ := intent.ParseQuery(`read "meeting agenda"`)
	require.IsType(t, intent.FileAccessIntent{}, in)
	acc := in.(intent.FileAccessIntent)
	assert.Equal(t, "meeting agenda", acc.Target.Path)
}
