package models

import "github.com/uptrace/bun"

type Publisher struct {
	bun.BaseModel `bun:"table:publishers,alias:p"`

	ID   int    `bun:",pk,nullzero" json:"id"`
	Name string `bun:",nullzero" json:"name"`
}

type BookPublisher struct {
	bun.BaseModel `bun:"table:book_publishers,alias:bp"`

	ID          int        `bun:",pk,nullzero" json:"id"`
	BookID      int        `bun:",nullzero" json:"book_id"`
	Book        *Book      `bun:"rel:belongs-to,join:book_id=id" json:"book,omitempty"`
	PublisherID int        `bun:",nullzero" json:"publisher_id"`
	Publisher   *Publisher `bun:"rel:belongs-to,join:publisher_id=id" json:"publisher,omitempty"`
}
