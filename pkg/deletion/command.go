// Package deletion removes a book and every dependent row and file as one
// logical operation. The relational store and the filesystem can't share a
// transaction, so the package approximates all-or-nothing semantics with
// compensating commands: each step records what it removed and knows how to
// put it back.
package deletion

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/shelfmark/shelfmark/pkg/models"
	"github.com/uptrace/bun"
)

// Command is one reversible deletion step. Undo is safe to call when
// Execute never ran, and calling it twice is a no-op.
type Command interface {
	Name() string
	Execute(ctx context.Context) error
	Undo(ctx context.Context) error
}

// rowsDeletion deletes every row of one table that belongs to a book and
// captures the deleted rows so Undo can re-add them. A relation with zero
// rows is a no-op success.
type rowsDeletion[M any] struct {
	idb      bun.IDB
	name     string
	bookID   int
	rows     []*M
	executed bool
	undone   bool
}

func newRowsDeletion[M any](idb bun.IDB, name string, bookID int) *rowsDeletion[M] {
	return &rowsDeletion[M]{idb: idb, name: name, bookID: bookID}
}

func (c *rowsDeletion[M]) Name() string { return c.name }

func (c *rowsDeletion[M]) Execute(ctx context.Context) error {
	rows := []*M{}
	err := c.idb.
		NewSelect().
		Model(&rows).
		Where("book_id = ?", c.bookID).
		Scan(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	if len(rows) > 0 {
		_, err = c.idb.
			NewDelete().
			Model(&rows).
			WherePK().
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
	}

	c.rows = rows
	c.executed = true
	c.undone = false
	return nil
}

func (c *rowsDeletion[M]) Undo(ctx context.Context) error {
	if !c.executed || c.undone {
		return nil
	}

	if len(c.rows) > 0 {
		_, err := c.idb.
			NewInsert().
			Model(&c.rows).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
	}

	c.undone = true
	return nil
}

func NewAuthorLinkDeletion(idb bun.IDB, bookID int) Command {
	return newRowsDeletion[models.BookAuthor](idb, "author links", bookID)
}

func NewTagLinkDeletion(idb bun.IDB, bookID int) Command {
	return newRowsDeletion[models.BookTag](idb, "tag links", bookID)
}

func NewPublisherLinkDeletion(idb bun.IDB, bookID int) Command {
	return newRowsDeletion[models.BookPublisher](idb, "publisher links", bookID)
}

func NewLanguageLinkDeletion(idb bun.IDB, bookID int) Command {
	return newRowsDeletion[models.BookLanguage](idb, "language links", bookID)
}

func NewRatingLinkDeletion(idb bun.IDB, bookID int) Command {
	return newRowsDeletion[models.BookRating](idb, "rating links", bookID)
}

func NewSeriesLinkDeletion(idb bun.IDB, bookID int) Command {
	return newRowsDeletion[models.BookSeries](idb, "series links", bookID)
}

func NewIdentifierDeletion(idb bun.IDB, bookID int) Command {
	return newRowsDeletion[models.Identifier](idb, "identifiers", bookID)
}

// shelfLinkDeletion is a placeholder: shelf membership lives in tables the
// device-sync service owns, which this application does not manage yet.
type shelfLinkDeletion struct{}

func NewShelfLinkDeletion() Command { return shelfLinkDeletion{} }

func (shelfLinkDeletion) Name() string                  { return "shelf links" }
func (shelfLinkDeletion) Execute(context.Context) error { return nil }
func (shelfLinkDeletion) Undo(context.Context) error    { return nil }

// commentDeletion deletes the book's comment row if one exists.
type commentDeletion struct {
	idb      bun.IDB
	bookID   int
	row      *models.Comment
	executed bool
	undone   bool
}

func NewCommentDeletion(idb bun.IDB, bookID int) Command {
	return &commentDeletion{idb: idb, bookID: bookID}
}

func (c *commentDeletion) Name() string { return "comment" }

func (c *commentDeletion) Execute(ctx context.Context) error {
	row := &models.Comment{}
	err := c.idb.
		NewSelect().
		Model(row).
		Where("book_id = ?", c.bookID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.row = nil
			c.executed = true
			c.undone = false
			return nil
		}
		return errors.WithStack(err)
	}

	_, err = c.idb.
		NewDelete().
		Model(row).
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	c.row = row
	c.executed = true
	c.undone = false
	return nil
}

func (c *commentDeletion) Undo(ctx context.Context) error {
	if !c.executed || c.undone {
		return nil
	}

	if c.row != nil {
		_, err := c.idb.
			NewInsert().
			Model(c.row).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
	}

	c.undone = true
	return nil
}

// formatDeletion deletes the book's format rows. A row whose delete affects
// nothing was already removed by an earlier cascade; it is skipped and not
// captured for undo, so the rollback can't re-add a row it never deleted.
type formatDeletion struct {
	idb      bun.IDB
	bookID   int
	rows     []*models.Format
	executed bool
	undone   bool
}

func NewFormatDeletion(idb bun.IDB, bookID int) Command {
	return &formatDeletion{idb: idb, bookID: bookID}
}

func (c *formatDeletion) Name() string { return "formats" }

func (c *formatDeletion) Execute(ctx context.Context) error {
	rows := []*models.Format{}
	err := c.idb.
		NewSelect().
		Model(&rows).
		Where("book_id = ?", c.bookID).
		Scan(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	deleted := []*models.Format{}
	for _, row := range rows {
		res, err := c.idb.
			NewDelete().
			Model(row).
			WherePK().
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return errors.WithStack(err)
		}
		if affected == 0 {
			continue
		}
		deleted = append(deleted, row)
	}

	c.rows = deleted
	c.executed = true
	c.undone = false
	return nil
}

func (c *formatDeletion) Undo(ctx context.Context) error {
	if !c.executed || c.undone {
		return nil
	}

	if len(c.rows) > 0 {
		_, err := c.idb.
			NewInsert().
			Model(&c.rows).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
	}

	c.undone = true
	return nil
}

// bookRowDeletion deletes the book row itself. It snapshots id, title,
// path, uuid, and has_cover before deleting; Undo rebuilds the row from the
// snapshot, so every other column reverts to its default. Not a full
// restore, but enough to point back at the files still on disk.
type bookRowDeletion struct {
	idb      bun.IDB
	bookID   int
	snapshot *models.Book
	executed bool
	undone   bool
}

func NewBookRowDeletion(idb bun.IDB, bookID int) Command {
	return &bookRowDeletion{idb: idb, bookID: bookID}
}

func (c *bookRowDeletion) Name() string { return "book row" }

func (c *bookRowDeletion) Execute(ctx context.Context) error {
	book := &models.Book{}
	err := c.idb.
		NewSelect().
		Model(book).
		Column("id", "title", "path", "uuid", "has_cover").
		Where("id = ?", c.bookID).
		Scan(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	_, err = c.idb.
		NewDelete().
		Model(book).
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	c.snapshot = book
	c.executed = true
	c.undone = false
	return nil
}

func (c *bookRowDeletion) Undo(ctx context.Context) error {
	if !c.executed || c.undone {
		return nil
	}

	restored := &models.Book{
		ID:           c.snapshot.ID,
		Title:        c.snapshot.Title,
		Path:         c.snapshot.Path,
		UUID:         c.snapshot.UUID,
		HasCover:     c.snapshot.HasCover,
		LastModified: time.Now(),
	}
	_, err := c.idb.
		NewInsert().
		Model(restored).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	c.undone = true
	return nil
}
