package books

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shelfmark/shelfmark/pkg/errcodes"
	"github.com/shelfmark/shelfmark/pkg/identifiers"
	"github.com/shelfmark/shelfmark/pkg/models"
	"github.com/uptrace/bun"
)

type RetrieveBookOptions struct {
	ID   *int
	UUID *string
	Path *string
}

type ListBooksOptions struct {
	Limit  *int
	Offset *int

	includeTotal bool
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// CreateBook inserts the book, any target entities it references that don't
// exist yet (authors, tags, ...), the link rows, and the child rows. Target
// entities are matched by name and reused when present.
func (svc *Service) CreateBook(ctx context.Context, book *models.Book) error {
	if book.Title == "" {
		return errcodes.ValidationError("Title is required.")
	}
	if book.Path == "" {
		return errcodes.ValidationError("Path is required.")
	}
	if book.UUID == "" {
		id, err := uuid.NewRandom()
		if err != nil {
			return errors.WithStack(err)
		}
		book.UUID = id.String()
	}
	if book.LastModified.IsZero() {
		book.LastModified = time.Now()
	}

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.
			NewInsert().
			Model(book).
			Returning("*").
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		for i, author := range book.Authors {
			if err := svc.ensureTarget(ctx, tx, author, "name", author.Name); err != nil {
				return err
			}
			link := &models.BookAuthor{BookID: book.ID, AuthorID: author.ID, Sequence: i + 1}
			if _, err := tx.NewInsert().Model(link).Exec(ctx); err != nil {
				return errors.WithStack(err)
			}
		}

		for _, tag := range book.Tags {
			if err := svc.ensureTarget(ctx, tx, tag, "name", tag.Name); err != nil {
				return err
			}
			link := &models.BookTag{BookID: book.ID, TagID: tag.ID}
			if _, err := tx.NewInsert().Model(link).Exec(ctx); err != nil {
				return errors.WithStack(err)
			}
		}

		for _, publisher := range book.Publishers {
			if err := svc.ensureTarget(ctx, tx, publisher, "name", publisher.Name); err != nil {
				return err
			}
			link := &models.BookPublisher{BookID: book.ID, PublisherID: publisher.ID}
			if _, err := tx.NewInsert().Model(link).Exec(ctx); err != nil {
				return errors.WithStack(err)
			}
		}

		for i, language := range book.Languages {
			if err := svc.ensureTarget(ctx, tx, language, "lang_code", language.LangCode); err != nil {
				return err
			}
			link := &models.BookLanguage{BookID: book.ID, LanguageID: language.ID, Sequence: i + 1}
			if _, err := tx.NewInsert().Model(link).Exec(ctx); err != nil {
				return errors.WithStack(err)
			}
		}

		for _, series := range book.Series {
			if err := svc.ensureTarget(ctx, tx, series, "name", series.Name); err != nil {
				return err
			}
			link := &models.BookSeries{BookID: book.ID, SeriesID: series.ID, SeriesIndex: 1}
			if _, err := tx.NewInsert().Model(link).Exec(ctx); err != nil {
				return errors.WithStack(err)
			}
		}

		if book.Comment != nil {
			book.Comment.BookID = book.ID
			if _, err := tx.NewInsert().Model(book.Comment).Exec(ctx); err != nil {
				return errors.WithStack(err)
			}
		}

		for _, identifier := range book.Identifiers {
			identifier.BookID = book.ID
			if identifier.Type == "" {
				identifier.Type = string(identifiers.DetectType(identifier.Value, ""))
			}
			if _, err := tx.NewInsert().Model(identifier).Exec(ctx); err != nil {
				return errors.WithStack(err)
			}
		}

		for _, format := range book.Formats {
			format.BookID = book.ID
			if _, err := tx.NewInsert().Model(format).Exec(ctx); err != nil {
				return errors.WithStack(err)
			}
		}

		return nil
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// ensureTarget loads the target entity's id by its natural key, inserting
// the row if it doesn't exist yet.
func (svc *Service) ensureTarget(ctx context.Context, tx bun.Tx, model interface{}, column, value string) error {
	err := tx.
		NewSelect().
		Model(model).
		Where("? = ?", bun.Ident(column), value).
		Limit(1).
		Scan(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return errors.WithStack(err)
	}

	_, err = tx.
		NewInsert().
		Model(model).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	return nil
}

func (svc *Service) RetrieveBook(ctx context.Context, opts RetrieveBookOptions) (*models.Book, error) {
	book := &models.Book{}

	q := svc.db.
		NewSelect().
		Model(book).
		Relation("Authors").
		Relation("Tags").
		Relation("Publishers").
		Relation("Languages").
		Relation("Ratings").
		Relation("Series").
		Relation("Comment").
		Relation("Identifiers").
		Relation("Formats", func(sq *bun.SelectQuery) *bun.SelectQuery {
			return sq.Order("f.format ASC")
		})

	if opts.ID != nil {
		q = q.Where("b.id = ?", *opts.ID)
	}
	if opts.UUID != nil {
		q = q.Where("b.uuid = ?", *opts.UUID)
	}
	if opts.Path != nil {
		q = q.Where("b.path = ?", *opts.Path)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book")
		}
		return nil, errors.WithStack(err)
	}

	return book, nil
}

func (svc *Service) ListBooks(ctx context.Context, opts ListBooksOptions) ([]*models.Book, error) {
	b, _, err := svc.listBooksWithTotal(ctx, opts)
	return b, errors.WithStack(err)
}

func (svc *Service) ListBooksWithTotal(ctx context.Context, opts ListBooksOptions) ([]*models.Book, int, error) {
	opts.includeTotal = true
	return svc.listBooksWithTotal(ctx, opts)
}

func (svc *Service) listBooksWithTotal(ctx context.Context, opts ListBooksOptions) ([]*models.Book, int, error) {
	books := []*models.Book{}
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&books).
		Relation("Authors").
		Relation("Formats").
		Order("b.id ASC")

	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	if opts.includeTotal {
		total, err = q.ScanAndCount(ctx)
	} else {
		err = q.Scan(ctx)
	}
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return books, total, nil
}
