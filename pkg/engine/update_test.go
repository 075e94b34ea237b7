package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorcerai/packfs/pkg/engine"
	"github.com/sorcerai/packfs/pkg/intent"
)

func update(eng *engine.Engine, purpose intent.UpdatePurpose, path, content string) intent.UpdateResult {
	return eng.UpdateContent(context.Background(), intent.ContentUpdateIntent{
		Purpose: purpose,
		Target:  intent.FileTarget{Path: path},
		Content: content,
	})
}

func TestOverwriteThenReadLaw(t *testing.T) {
	eng, _ := newTestEngine(t)
	create(t, eng, "a.txt", "first")

	res := update(eng, intent.UpdateOverwrite, "a.txt", "second")
	require.True(t, res.Success, res.Message)
	assert.False(t, res.Created)

	assert.Equal(t, "second", read(t, eng, "a.txt").Content)
}

func TestAppendLaw(t *testing.T) {
	eng, _ := newTestEngine(t)
	create(t, eng, "a.txt", "x")

	res := update(eng, intent.UpdateAppend, "a.txt", "y")
	require.True(t, res.Success, res.Message)

	assert.Equal(t, "xy", read(t, eng, "a.txt").Content)
}

func TestMergeLaw(t *testing.T) {
	eng, _ := newTestEngine(t)
	create(t, eng, "a.txt", "x")

	res := update(eng, intent.UpdateMerge, "a.txt", "y")
	require.True(t, res.Success, res.Message)
	assert.False(t, res.Created)

	assert.Equal(t, "x\ny", read(t, eng, "a.txt").Content)
}

func TestMergeCreatesMissingFile(t *testing.T) {
	eng, _ := newTestEngine(t)

	res := update(eng, intent.UpdateMerge, "fresh.txt", "content")
	require.True(t, res.Success, res.Message)
	assert.True(t, res.Created)
	assert.Equal(t, "content", read(t, eng, "fresh.txt").Content)
}

func TestCreateConflicts(t *testing.T) {
	eng, _ := newTestEngine(t)
	create(t, eng, "a.txt", "original")

	t.Run("create over existing fails", func(t *testing.T) {
		res := update(eng, intent.UpdateCreate, "a.txt", "clobber")
		assert.False(t, res.Success)
		assert.Equal(t, "original", read(t, eng, "a.txt").Content)
	})

	t.Run("createPath permits it", func(t *testing.T) {
		res := eng.UpdateContent(context.Background(), intent.ContentUpdateIntent{
			Purpose: intent.UpdateCreate,
			Target:  intent.FileTarget{Path: "a.txt"},
			Content: "replaced",
			Options: intent.Options{CreatePath: true},
		})
		require.True(t, res.Success, res.Message)
		assert.Equal(t, "replaced", read(t, eng, "a.txt").Content)
	})
}

func TestAppendToMissingFails(t *testing.T) {
	eng, _ := newTestEngine(t)

	res := update(eng, intent.UpdateAppend, "nope.txt", "y")
	assert.False(t, res.Success)
}

func TestPatchCreatesWhenMissing(t *testing.T) {
	eng, _ := newTestEngine(t)

	res := update(eng, intent.UpdatePatch, "p.txt", "patched")
	require.True(t, res.Success, res.Message)
	assert.True(t, res.Created)
	assert.Equal(t, "patched", read(t, eng, "p.txt").Content)
}

func TestUpdateRequiresContent(t *testing.T) {
	eng, _ := newTestEngine(t)

	res := update(eng, intent.UpdateOverwrite, "a.txt", "")
	assert.False(t, res.Success)
}

func TestWriteUpdatesPersistedIndex(t *testing.T) {
	eng, root := newTestEngine(t)
	create(t, eng, "notes/idea.md", "a genuinely memorable brainstorm session")
	require.NoError(t, eng.Close())

	// A fresh engine over the same tree loads the persisted index.
	reopened, err := engine.New(root, engine.DefaultConfig())
	require.NoError(t, err)
	defer reopened.Close()

	paths, err := reopened.IndexedPaths(context.Background())
	require.NoError(t, err)
	assert.Contains(t, paths, "notes/idea.md")
}

func TestWorkingDirectoryOverrideBypassesIndex(t *testing.T) {
	eng, _ := newTestEngine(t)
	side := t.TempDir()

	res := eng.UpdateContent(context.Background(), intent.ContentUpdateIntent{
		Purpose: intent.UpdateCreate,
		Target:  intent.FileTarget{Path: "side.txt"},
		Content: "outside the sandbox index",
		Options: intent.Options{WorkingDirectory: side},
	})
	require.True(t, res.Success, res.Message)

	paths, err := eng.IndexedPaths(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, paths, "side.txt")

	// The file itself landed in the override directory.
	got := eng.AccessFile(context.Background(), intent.FileAccessIntent{
		Purpose: intent.AccessRead,
		Target:  intent.FileTarget{Path: "side.txt"},
		Options: intent.Options{WorkingDirectory: side},
	})
	require.True(t, got.Success, got.Message)
	assert.Equal(t, "outside the sandbox index", got.Content)
}
