package models

import "github.com/uptrace/bun"

type Identifier struct {
	bun.BaseModel `bun:"table:identifiers,alias:i"`

	ID     int    `bun:",pk,nullzero" json:"id"`
	BookID int    `bun:",nullzero" json:"book_id"`
	Type   string `bun:",nullzero" json:"type"`
	Value  string `bun:",nullzero" json:"value"`
}
