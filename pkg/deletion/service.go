package deletion

import (
	"context"
	"database/sql"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shelfmark/shelfmark/pkg/config"
	"github.com/shelfmark/shelfmark/pkg/database"
	"github.com/shelfmark/shelfmark/pkg/errcodes"
	"github.com/shelfmark/shelfmark/pkg/fileutils"
	"github.com/shelfmark/shelfmark/pkg/models"
	"github.com/uptrace/bun"
)

type Service struct {
	db  *bun.DB
	cfg *config.Config
	log logger.Logger
}

func NewService(db *bun.DB, cfg *config.Config) *Service {
	return &Service{db: db, cfg: cfg, log: logger.New()}
}

type DeleteBookOptions struct {
	// DeleteFilesFromDrive removes the book's files and resulting empty
	// directories after the relational delete commits. Defaults to true.
	DeleteFilesFromDrive *bool
	// LibraryPath overrides the configured library root. A path pointing at
	// a file resolves to its parent directory.
	LibraryPath string
	// MaxRetries bounds the attempts for the reads retried under lock
	// contention. Defaults to the configured database retry limit. The
	// commit retries with the limit the connection was opened with.
	MaxRetries int
}

// DeleteBook removes the book with the given id, all rows that depend on
// it, and (unless disabled) its files on disk. A failure during the
// relational phase rolls everything back and surfaces the original error;
// the filesystem is only touched after the relational delete has committed.
func (svc *Service) DeleteBook(ctx context.Context, bookID int, opts DeleteBookOptions) error {
	maxRetries := opts.MaxRetries
	if maxRetries <= 0 {
		maxRetries = svc.cfg.DatabaseMaxRetries
	}

	deleteFiles := true
	if opts.DeleteFilesFromDrive != nil {
		deleteFiles = *opts.DeleteFilesFromDrive
	}

	// Resolve the book; nothing has been mutated yet, so this can fail
	// fast.
	book := &models.Book{}
	err := database.WithRetry(ctx, maxRetries, func() error {
		return svc.db.
			NewSelect().
			Model(book).
			Where("b.id = ?", bookID).
			Scan(ctx)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return errcodes.NotFound("Book")
		}
		return errors.WithStack(err)
	}

	// Discover filesystem artifacts before any mutation. The discovery is
	// read-only; the commands it produces run only after the commit.
	var fsCommands []Command
	if deleteFiles {
		libraryPath := opts.LibraryPath
		if libraryPath == "" {
			libraryPath = svc.cfg.LibraryPath
		}
		root, err := fileutils.ResolveLibraryRoot(libraryPath)
		if err != nil {
			return err
		}

		formats := []*models.Format{}
		err = database.WithRetry(ctx, maxRetries, func() error {
			return svc.db.
				NewSelect().
				Model(&formats).
				Where("book_id = ?", bookID).
				Scan(ctx)
		})
		if err != nil {
			return errors.WithStack(err)
		}

		bookDir := filepath.Join(root, filepath.FromSlash(book.Path))
		fsCommands, err = DiscoverArtifacts(bookDir, root, bookID, formats)
		if err != nil {
			return err
		}
	}

	// Relational phase: dependent rows strictly before the book row, so no
	// committed state ever has a book referencing a missing child or vice
	// versa.
	tx, err := svc.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return errors.WithStack(err)
	}

	executor := NewExecutor()
	if err := executor.Run(ctx, relationalCommands(tx, bookID)); err != nil {
		// The executor already compensated. Rolling the transaction back
		// as well covers any undo step that failed and was swallowed.
		if rbErr := tx.Rollback(); rbErr != nil {
			svc.log.Err(rbErr).Warn("transaction rollback failed", logger.Data{"book_id": bookID})
		}
		return err
	}

	// The connection retries the commit on lock contention at the driver
	// layer; the statements already applied in the transaction are not
	// replayed. database/sql marks the Tx done on the first Commit call, so
	// there is nothing left to roll back here on failure.
	if err := tx.Commit(); err != nil {
		return errors.WithStack(err)
	}
	executor.Clear()

	if !deleteFiles {
		return nil
	}

	// Filesystem phase. The book is authoritatively gone once the commit
	// succeeded, so this phase runs outside the executor: a failed file
	// removal can leave orphan files but never orphan rows. Missing files
	// and already-removed directories count as satisfied.
	var firstErr error
	for _, cmd := range fsCommands {
		if err := cmd.Execute(ctx); err != nil {
			svc.log.Err(err).Warn("file cleanup failed", logger.Data{"book_id": bookID, "command": cmd.Name()})
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// relationalCommands builds the fixed deletion order: link rows in any
// order among themselves, then comment, identifiers, and formats, and the
// book row last.
func relationalCommands(idb bun.IDB, bookID int) []Command {
	return []Command{
		NewAuthorLinkDeletion(idb, bookID),
		NewTagLinkDeletion(idb, bookID),
		NewPublisherLinkDeletion(idb, bookID),
		NewLanguageLinkDeletion(idb, bookID),
		NewRatingLinkDeletion(idb, bookID),
		NewSeriesLinkDeletion(idb, bookID),
		NewShelfLinkDeletion(),
		NewCommentDeletion(idb, bookID),
		NewIdentifierDeletion(idb, bookID),
		NewFormatDeletion(idb, bookID),
		NewBookRowDeletion(idb, bookID),
	}
}
