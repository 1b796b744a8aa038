package models

import "github.com/uptrace/bun"

type Rating struct {
	bun.BaseModel `bun:"table:ratings,alias:r"`

	ID     int `bun:",pk,nullzero" json:"id"`
	Rating int `json:"rating"`
}

type BookRating struct {
	bun.BaseModel `bun:"table:book_ratings,alias:br"`

	ID       int     `bun:",pk,nullzero" json:"id"`
	BookID   int     `bun:",nullzero" json:"book_id"`
	Book     *Book   `bun:"rel:belongs-to,join:book_id=id" json:"book,omitempty"`
	RatingID int     `bun:",nullzero" json:"rating_id"`
	Rating   *Rating `bun:"rel:belongs-to,join:rating_id=id" json:"rating,omitempty"`
}
