package models

import "github.com/uptrace/bun"

// Comment is the free-form description of a book. At most one row per book.
type Comment struct {
	bun.BaseModel `bun:"table:comments,alias:c"`

	ID     int    `bun:",pk,nullzero" json:"id"`
	BookID int    `bun:",nullzero" json:"book_id"`
	Text   string `bun:",nullzero" json:"text"`
}
