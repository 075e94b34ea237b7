package engine_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorcerai/packfs/pkg/engine"
)

func TestFacadeVerbs(t *testing.T) {
	eng, _ := newTestEngine(t)
	f := engine.NewFacade(eng)
	ctx := context.Background()

	t.Run("write and read", func(t *testing.T) {
		require.NoError(t, f.WriteFile(ctx, "f.txt", "facade content"))
		got, err := f.ReadFile(ctx, "f.txt")
		require.NoError(t, err)
		assert.Equal(t, "facade content", got)
	})

	t.Run("read missing wraps os.ErrNotExist", func(t *testing.T) {
		_, err := f.ReadFile(ctx, "absent.txt")
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("exists", func(t *testing.T) {
		ok, err := f.Exists(ctx, "f.txt")
		require.NoError(t, err)
		assert.True(t, ok)
		ok, err = f.Exists(ctx, "absent.txt")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("stat", func(t *testing.T) {
		meta, err := f.Stat(ctx, "f.txt")
		require.NoError(t, err)
		assert.Equal(t, int64(len("facade content")), meta.Size)
	})

	t.Run("mkdir and readdir", func(t *testing.T) {
		require.NoError(t, f.Mkdir(ctx, "sub/dir"))
		require.NoError(t, f.WriteFile(ctx, "sub/dir/x.txt", "inner file"))
		entries, err := f.ReadDir(ctx, "sub/dir")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "sub/dir/x.txt", entries[0].Path)
	})

	t.Run("copy and move", func(t *testing.T) {
		require.NoError(t, f.Copy(ctx, "f.txt", "f2.txt"))
		both, err := f.ReadFile(ctx, "f2.txt")
		require.NoError(t, err)
		assert.Equal(t, "facade content", both)

		require.NoError(t, f.Move(ctx, "f2.txt", "f3.txt"))
		ok, err := f.Exists(ctx, "f2.txt")
		require.NoError(t, err)
		assert.False(t, ok)
		moved, err := f.ReadFile(ctx, "f3.txt")
		require.NoError(t, err)
		assert.Equal(t, "facade content", moved)
	})

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, f.Remove(ctx, "f3.txt"))
		ok, err := f.Exists(ctx, "f3.txt")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("removeall", func(t *testing.T) {
		require.NoError(t, f.RemoveAll(ctx, "sub"))
		ok, err := f.Exists(ctx, "sub/dir/x.txt")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestFacadeWriteEmptyContent(t *testing.T) {
	eng, _ := newTestEngine(t)
	f := engine.NewFacade(eng)
	ctx := context.Background()

	require.NoError(t, f.WriteFile(ctx, "empty.txt", ""))
	got, err := f.ReadFile(ctx, "empty.txt")
	require.NoError(t, err)
	assert.Equal(t, "", got)
}
