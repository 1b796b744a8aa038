package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/robinjoseph08/golib/logger"
	"github.com/robinjoseph08/golib/pointerutil"
	"github.com/shelfmark/shelfmark/pkg/books"
	"github.com/shelfmark/shelfmark/pkg/config"
	"github.com/shelfmark/shelfmark/pkg/database"
	"github.com/shelfmark/shelfmark/pkg/deletion"
	"github.com/shelfmark/shelfmark/pkg/migrations"
	"github.com/shelfmark/shelfmark/pkg/models"
	"github.com/shelfmark/shelfmark/pkg/version"
	"github.com/uptrace/bun"
	"github.com/urfave/cli/v2"
)

func main() {
	log := logger.New()

	log.Info("starting shelfmark", logger.Data{"version": version.Version})

	cfg, err := config.New()
	if err != nil {
		log.Err(err).Fatal("config error")
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Err(err).Fatal("database error")
	}

	app := &cli.App{
		Name:        "shelfmark",
		Usage:       "manage the ebook library database",
		Description: "manage the ebook library database",
		Before: func(c *cli.Context) error {
			group, err := migrations.BringUpToDate(c.Context, db)
			if err != nil {
				return err
			}
			if group.ID == 0 {
				log.Info("no new migrations to run")
			} else {
				log.Info("migrated to new group", logger.Data{"group_id": group.ID, "migration_names": group.Migrations.String()})
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "list-books",
				Usage: "list the books in the library",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Usage: "maximum number of books to print"},
					&cli.IntFlag{Name: "offset", Usage: "number of books to skip"},
				},
				Action: func(c *cli.Context) error {
					return listBooks(c, db)
				},
			},
			{
				Name:  "delete-book",
				Usage: "delete a book, its dependent rows, and its files",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "id", Usage: "id of the book to delete", Required: true},
					&cli.BoolFlag{Name: "keep-files", Usage: "leave the book's files on disk"},
					&cli.StringFlag{Name: "library-path", Usage: "override the configured library root"},
				},
				Action: func(c *cli.Context) error {
					return deleteBook(c, db, cfg)
				},
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Err(err).Fatal("app run error")
	}
}

func listBooks(c *cli.Context, db *bun.DB) error {
	opts := books.ListBooksOptions{}
	if c.IsSet("limit") {
		opts.Limit = pointerutil.Int(c.Int("limit"))
	}
	if c.IsSet("offset") {
		opts.Offset = pointerutil.Int(c.Int("offset"))
	}

	bks, total, err := books.NewService(db).ListBooksWithTotal(c.Context, opts)
	if err != nil {
		return err
	}

	for _, book := range bks {
		fmt.Printf("%d\t%s\t%s\t%s\n", book.ID, book.UUID, book.Title, formatSummary(book))
	}
	fmt.Printf("%d book(s) total\n", total)

	return nil
}

func formatSummary(book *models.Book) string {
	if len(book.Formats) == 0 {
		return "-"
	}
	names := make([]string, 0, len(book.Formats))
	for _, f := range book.Formats {
		names = append(names, f.Format)
	}
	return strings.Join(names, ",")
}

func deleteBook(c *cli.Context, db *bun.DB, cfg *config.Config) error {
	svc := deletion.NewService(db, cfg)

	opts := deletion.DeleteBookOptions{
		LibraryPath: c.String("library-path"),
	}
	if c.Bool("keep-files") {
		opts.DeleteFilesFromDrive = pointerutil.Bool(false)
	}

	if err := svc.DeleteBook(c.Context, c.Int("id"), opts); err != nil {
		return err
	}

	fmt.Printf("Deleted book %d\n", c.Int("id"))
	return nil
}
