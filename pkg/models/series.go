package models

import "github.com/uptrace/bun"

type Series struct {
	bun.BaseModel `bun:"table:series,alias:s"`

	ID   int    `bun:",pk,nullzero" json:"id"`
	Name string `bun:",nullzero" json:"name"`
	Sort string `bun:",nullzero" json:"sort"`
}

type BookSeries struct {
	bun.BaseModel `bun:"table:book_series,alias:bs"`

	ID          int     `bun:",pk,nullzero" json:"id"`
	BookID      int     `bun:",nullzero" json:"book_id"`
	Book        *Book   `bun:"rel:belongs-to,join:book_id=id" json:"book,omitempty"`
	SeriesID    int     `bun:",nullzero" json:"series_id"`
	Series      *Series `bun:"rel:belongs-to,join:series_id=id" json:"series,omitempty"`
	SeriesIndex float64 `json:"series_index"`
}
