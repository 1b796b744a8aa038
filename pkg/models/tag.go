package models

import "github.com/uptrace/bun"

type Tag struct {
	bun.BaseModel `bun:"table:tags,alias:t"`

	ID   int    `bun:",pk,nullzero" json:"id"`
	Name string `bun:",nullzero" json:"name"`
}

type BookTag struct {
	bun.BaseModel `bun:"table:book_tags,alias:bt"`

	ID     int   `bun:",pk,nullzero" json:"id"`
	BookID int   `bun:",nullzero" json:"book_id"`
	Book   *Book `bun:"rel:belongs-to,join:book_id=id" json:"book,omitempty"`
	TagID  int   `bun:",nullzero" json:"tag_id"`
	Tag    *Tag  `bun:"rel:belongs-to,join:tag_id=id" json:"tag,omitempty"`
}
