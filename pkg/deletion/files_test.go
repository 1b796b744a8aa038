package deletion

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shelfmark/shelfmark/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileDeletion(t *testing.T) {
	ctx := context.Background()

	t.Run("execute then undo restores identical content", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "book.epub")
		content := []byte("epub bytes \x00\x01\x02")
		require.NoError(t, os.WriteFile(path, content, 0640))

		cmd := NewFileDeletion(path)
		require.NoError(t, cmd.Execute(ctx))

		_, err := os.Stat(path)
		require.True(t, os.IsNotExist(err))

		require.NoError(t, cmd.Undo(ctx))

		restored, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, content, restored)

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0640), info.Mode().Perm())
	})

	t.Run("undo recreates missing parent directories", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "Author", "Title", "book.epub")
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

		cmd := NewFileDeletion(path)
		require.NoError(t, cmd.Execute(ctx))
		require.NoError(t, os.RemoveAll(filepath.Join(dir, "Author")))

		require.NoError(t, cmd.Undo(ctx))
		restored, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, []byte("x"), restored)
	})

	t.Run("never-existed path is a no-op in both directions", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "ghost.epub")

		cmd := NewFileDeletion(path)
		require.NoError(t, cmd.Execute(ctx))
		require.NoError(t, cmd.Undo(ctx))

		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err), "undo must leave no trace")
	})

	t.Run("undo without execute is a no-op", func(t *testing.T) {
		cmd := NewFileDeletion(filepath.Join(t.TempDir(), "whatever"))
		require.NoError(t, cmd.Undo(ctx))
	})

	t.Run("double undo does not rewrite", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "book.epub")
		require.NoError(t, os.WriteFile(path, []byte("original"), 0644))

		cmd := NewFileDeletion(path)
		require.NoError(t, cmd.Execute(ctx))
		require.NoError(t, cmd.Undo(ctx))

		// Content changes after the first undo must survive a second one.
		require.NoError(t, os.WriteFile(path, []byte("changed"), 0644))
		require.NoError(t, cmd.Undo(ctx))

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, []byte("changed"), content)
	})
}

func TestEmptyDirectoryDeletion(t *testing.T) {
	ctx := context.Background()

	t.Run("removes an empty directory and undo recreates it", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "empty")
		require.NoError(t, os.Mkdir(dir, 0755))

		cmd := NewEmptyDirectoryDeletion(dir)
		require.NoError(t, cmd.Execute(ctx))

		_, err := os.Stat(dir)
		require.True(t, os.IsNotExist(err))

		require.NoError(t, cmd.Undo(ctx))
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("leaves a non-empty directory untouched", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "occupied")
		require.NoError(t, os.Mkdir(dir, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.txt"), []byte("x"), 0644))

		cmd := NewEmptyDirectoryDeletion(dir)
		require.NoError(t, cmd.Execute(ctx))

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())

		// Undo must not recreate anything either (nothing was removed).
		require.NoError(t, os.RemoveAll(dir))
		require.NoError(t, cmd.Undo(ctx))
		_, err = os.Stat(dir)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("directory containing only a subdirectory is kept", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "parent")
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "child"), 0755))

		cmd := NewEmptyDirectoryDeletion(dir)
		require.NoError(t, cmd.Execute(ctx))

		_, err := os.Stat(dir)
		require.NoError(t, err)
	})

	t.Run("already-missing directory is satisfied", func(t *testing.T) {
		cmd := NewEmptyDirectoryDeletion(filepath.Join(t.TempDir(), "nope"))
		require.NoError(t, cmd.Execute(ctx))
		require.NoError(t, cmd.Undo(ctx))
	})
}

func TestDiscoverArtifacts(t *testing.T) {
	writeFile := func(t *testing.T, path string) {
		t.Helper()
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	}

	executeAll := func(t *testing.T, cmds []Command) {
		t.Helper()
		for _, cmd := range cmds {
			require.NoError(t, cmd.Execute(context.Background()))
		}
	}

	t.Run("matches stem, book id, extension fallback, and cover", func(t *testing.T) {
		root := t.TempDir()
		bookDir := filepath.Join(root, "Author", "Title")
		writeFile(t, filepath.Join(bookDir, "book7.epub"))
		writeFile(t, filepath.Join(bookDir, "7.mobi"))
		writeFile(t, filepath.Join(bookDir, "renamed by hand.pdf"))
		writeFile(t, filepath.Join(bookDir, "cover.jpg"))
		writeFile(t, filepath.Join(bookDir, "notes.txt"))

		formats := []*models.Format{
			{BookID: 7, Format: "EPUB", Name: "book7"},
			{BookID: 7, Format: "MOBI", Name: "book7"},
			{BookID: 7, Format: "PDF", Name: "book7"},
		}

		cmds, err := DiscoverArtifacts(bookDir, root, 7, formats)
		require.NoError(t, err)
		executeAll(t, cmds)

		for _, gone := range []string{"book7.epub", "7.mobi", "renamed by hand.pdf", "cover.jpg"} {
			_, err := os.Stat(filepath.Join(bookDir, gone))
			assert.True(t, os.IsNotExist(err), "%s should be deleted", gone)
		}

		// An unexpected file keeps its directory alive.
		_, err = os.Stat(filepath.Join(bookDir, "notes.txt"))
		require.NoError(t, err)
		_, err = os.Stat(bookDir)
		require.NoError(t, err)
	})

	t.Run("cleans directories up to but not including the root", func(t *testing.T) {
		root := t.TempDir()
		bookDir := filepath.Join(root, "Author", "Title")
		writeFile(t, filepath.Join(bookDir, "book.epub"))

		formats := []*models.Format{{BookID: 3, Format: "EPUB", Name: "book"}}

		cmds, err := DiscoverArtifacts(bookDir, root, 3, formats)
		require.NoError(t, err)
		executeAll(t, cmds)

		_, err = os.Stat(bookDir)
		assert.True(t, os.IsNotExist(err))
		_, err = os.Stat(filepath.Join(root, "Author"))
		assert.True(t, os.IsNotExist(err))
		_, err = os.Stat(root)
		require.NoError(t, err, "the library root itself is never removed")
	})

	t.Run("author directory with another book survives", func(t *testing.T) {
		root := t.TempDir()
		bookDir := filepath.Join(root, "Author", "Title")
		writeFile(t, filepath.Join(bookDir, "book.epub"))
		writeFile(t, filepath.Join(root, "Author", "Other Title", "other.epub"))

		formats := []*models.Format{{BookID: 3, Format: "EPUB", Name: "book"}}

		cmds, err := DiscoverArtifacts(bookDir, root, 3, formats)
		require.NoError(t, err)
		executeAll(t, cmds)

		_, err = os.Stat(bookDir)
		assert.True(t, os.IsNotExist(err))
		_, err = os.Stat(filepath.Join(root, "Author"))
		require.NoError(t, err)
	})

	t.Run("missing book directory yields no commands", func(t *testing.T) {
		root := t.TempDir()
		cmds, err := DiscoverArtifacts(filepath.Join(root, "Author", "Gone"), root, 9, nil)
		require.NoError(t, err)
		assert.Empty(t, cmds)
	})
}
