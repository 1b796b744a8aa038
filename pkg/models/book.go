package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Book is the root entity. Its directory under the library root is Path
// ("Author/Title"); one file per format lives inside, plus an optional
// cover.jpg.
type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID           int       `bun:",pk,nullzero" json:"id"`
	Title        string    `bun:",nullzero" json:"title"`
	Path         string    `bun:",nullzero" json:"path"`
	UUID         string    `bun:",nullzero" json:"uuid"`
	HasCover     bool      `json:"has_cover"`
	LastModified time.Time `bun:",nullzero" json:"last_modified"`

	Authors     []*Author     `bun:"m2m:book_authors,join:Book=Author" json:"authors,omitempty"`
	Tags        []*Tag        `bun:"m2m:book_tags,join:Book=Tag" json:"tags,omitempty"`
	Publishers  []*Publisher  `bun:"m2m:book_publishers,join:Book=Publisher" json:"publishers,omitempty"`
	Languages   []*Language   `bun:"m2m:book_languages,join:Book=Language" json:"languages,omitempty"`
	Ratings     []*Rating     `bun:"m2m:book_ratings,join:Book=Rating" json:"ratings,omitempty"`
	Series      []*Series     `bun:"m2m:book_series,join:Book=Series" json:"series,omitempty"`
	Comment     *Comment      `bun:"rel:has-one,join:id=book_id" json:"comment,omitempty"`
	Identifiers []*Identifier `bun:"rel:has-many,join:id=book_id" json:"identifiers,omitempty"`
	Formats     []*Format     `bun:"rel:has-many,join:id=book_id" json:"formats,omitempty"`
}
