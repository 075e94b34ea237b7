package engine_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sorcerai/packfs/pkg/engine"
	"github.com/sorcerai/packfs/pkg/intent"
)

func newTestEngine(t *testing.T) (*engine.Engine, string) {
	t.Helper()
	root := t.TempDir()
	eng, err := engine.New(root, engine.DefaultConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Close() })
	return eng, root
}

func seedFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		abs := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
		require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
	}
}

func create(t *testing.T, eng *engine.Engine, path, content string) intent.UpdateResult {
	t.Helper()
	res := eng.UpdateContent(context.Background(), intent.ContentUpdateIntent{
		Purpose: intent.UpdateCreate,
		Target:  intent.FileTarget{Path: path},
		Content: content,
	})
	require.True(t, res.Success, res.Message)
	return res
}

func read(t *testing.T, eng *engine.Engine, path string) intent.AccessResult {
	t.Helper()
	return eng.AccessFile(context.Background(), intent.FileAccessIntent{
		Purpose:     intent.AccessRead,
		Target:      intent.FileTarget{Path: path},
		Preferences: &intent.AccessPreferences{IncludeMetadata: true},
	})
}
