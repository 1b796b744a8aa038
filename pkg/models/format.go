package models

import (
	"strings"

	"github.com/uptrace/bun"
)

// Format is one stored file format of a book. Name is the file-name stem
// inside the book directory; the file on disk is "{Name}.{format}".
type Format struct {
	bun.BaseModel `bun:"table:formats,alias:f"`

	ID               int    `bun:",pk,nullzero" json:"id"`
	BookID           int    `bun:",nullzero" json:"book_id"`
	Format           string `bun:",nullzero" json:"format"`
	UncompressedSize int64  `json:"uncompressed_size"`
	Name             string `bun:",nullzero" json:"name"`
}

// Extension returns the lowercase file extension for the format code,
// without the leading dot.
func (f *Format) Extension() string {
	return strings.ToLower(f.Format)
}

// Filename returns the conventional file name for this format row.
func (f *Format) Filename() string {
	return f.Name + "." + f.Extension()
}
