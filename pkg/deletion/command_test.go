package deletion

import (
	"context"
	"testing"

	"github.com/shelfmark/shelfmark/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowsDeletion(t *testing.T) {
	ctx := context.Background()

	t.Run("execute deletes and undo re-adds the captured rows", func(t *testing.T) {
		db := setupTestDB(t)
		root := t.TempDir()
		book := setupTestBook(t, db, root)

		cmd := NewAuthorLinkDeletion(db, book.ID)
		require.NoError(t, cmd.Execute(ctx))
		assert.Equal(t, 0, countRows(t, db, (*models.BookAuthor)(nil), book.ID))

		require.NoError(t, cmd.Undo(ctx))
		assert.Equal(t, 2, countRows(t, db, (*models.BookAuthor)(nil), book.ID))
	})

	t.Run("undo is idempotent", func(t *testing.T) {
		db := setupTestDB(t)
		root := t.TempDir()
		book := setupTestBook(t, db, root)

		cmd := NewAuthorLinkDeletion(db, book.ID)
		require.NoError(t, cmd.Execute(ctx))
		require.NoError(t, cmd.Undo(ctx))
		require.NoError(t, cmd.Undo(ctx))
		assert.Equal(t, 2, countRows(t, db, (*models.BookAuthor)(nil), book.ID))
	})

	t.Run("undo without execute is a no-op", func(t *testing.T) {
		db := setupTestDB(t)
		root := t.TempDir()
		book := setupTestBook(t, db, root)

		cmd := NewTagLinkDeletion(db, book.ID)
		require.NoError(t, cmd.Undo(ctx))
		assert.Equal(t, 1, countRows(t, db, (*models.BookTag)(nil), book.ID))
	})

	t.Run("relation with zero rows is a no-op success", func(t *testing.T) {
		db := setupTestDB(t)
		root := t.TempDir()
		book := setupTestBook(t, db, root)

		cmd := NewRatingLinkDeletion(db, book.ID)
		require.NoError(t, cmd.Execute(ctx))
		require.NoError(t, cmd.Undo(ctx))
		assert.Equal(t, 0, countRows(t, db, (*models.BookRating)(nil), book.ID))
	})
}

func TestCommentDeletion(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		db := setupTestDB(t)
		root := t.TempDir()
		book := setupTestBook(t, db, root)

		cmd := NewCommentDeletion(db, book.ID)
		require.NoError(t, cmd.Execute(ctx))
		assert.Equal(t, 0, countRows(t, db, (*models.Comment)(nil), book.ID))

		require.NoError(t, cmd.Undo(ctx))
		comment := &models.Comment{}
		err := db.NewSelect().Model(comment).Where("book_id = ?", book.ID).Scan(ctx)
		require.NoError(t, err)
		assert.Equal(t, "A fine book.", comment.Text)
	})

	t.Run("book without a comment", func(t *testing.T) {
		db := setupTestDB(t)
		ctx := context.Background()

		book := &models.Book{Title: "Quiet", Path: "Nobody/Quiet", UUID: "e1b9a5d0-1111-4222-8333-444455556666"}
		_, err := db.NewInsert().Model(book).Exec(ctx)
		require.NoError(t, err)

		cmd := NewCommentDeletion(db, book.ID)
		require.NoError(t, cmd.Execute(ctx))
		require.NoError(t, cmd.Undo(ctx))
		assert.Equal(t, 0, countRows(t, db, (*models.Comment)(nil), book.ID))
	})
}

func TestFormatDeletion(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		db := setupTestDB(t)
		root := t.TempDir()
		book := setupTestBook(t, db, root)

		cmd := NewFormatDeletion(db, book.ID)
		require.NoError(t, cmd.Execute(ctx))
		assert.Equal(t, 0, countRows(t, db, (*models.Format)(nil), book.ID))

		require.NoError(t, cmd.Undo(ctx))
		format := &models.Format{}
		err := db.NewSelect().Model(format).Where("book_id = ?", book.ID).Scan(ctx)
		require.NoError(t, err)
		assert.Equal(t, "EPUB", format.Format)
		assert.Equal(t, "book7", format.Name)
		assert.Equal(t, int64(12), format.UncompressedSize)
	})
}

func TestBookRowDeletion(t *testing.T) {
	ctx := context.Background()

	t.Run("undo restores the snapshot fields", func(t *testing.T) {
		db := setupTestDB(t)
		root := t.TempDir()
		book := setupTestBook(t, db, root)

		cmd := NewBookRowDeletion(db, book.ID)
		require.NoError(t, cmd.Execute(ctx))

		exists, err := db.NewSelect().Model((*models.Book)(nil)).Where("id = ?", book.ID).Exists(ctx)
		require.NoError(t, err)
		assert.False(t, exists)

		require.NoError(t, cmd.Undo(ctx))

		restored := &models.Book{}
		err = db.NewSelect().Model(restored).Where("id = ?", book.ID).Scan(ctx)
		require.NoError(t, err)
		assert.Equal(t, book.ID, restored.ID)
		assert.Equal(t, "Book Seven", restored.Title)
		assert.Equal(t, "John Doe/Book Seven", restored.Path)
		assert.Equal(t, book.UUID, restored.UUID)
		assert.True(t, restored.HasCover)
	})
}

func TestShelfLinkDeletion(t *testing.T) {
	ctx := context.Background()

	cmd := NewShelfLinkDeletion()
	require.NoError(t, cmd.Execute(ctx))
	require.NoError(t, cmd.Undo(ctx))
	require.NoError(t, cmd.Execute(ctx))
	assert.Equal(t, "shelf links", cmd.Name())
}
