package deletion

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/shelfmark/shelfmark/pkg/models"
)

const coverFilename = "cover.jpg"

// fileDeletion removes one file, holding its full content in memory so Undo
// can write it back. A path that never existed makes both directions no-ops.
type fileDeletion struct {
	path    string
	content []byte
	mode    os.FileMode
	removed bool
	undone  bool
}

func NewFileDeletion(path string) Command {
	return &fileDeletion{path: path}
}

func (c *fileDeletion) Name() string { return "file " + c.path }

func (c *fileDeletion) Execute(_ context.Context) error {
	info, err := os.Stat(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			// Already gone, possibly removed by a concurrent deletion.
			c.removed = false
			return nil
		}
		return errors.WithStack(err)
	}
	if !info.Mode().IsRegular() {
		return nil
	}

	content, err := os.ReadFile(c.path)
	if err != nil {
		return errors.WithStack(err)
	}
	if err := os.Remove(c.path); err != nil {
		return errors.WithStack(err)
	}

	c.content = content
	c.mode = info.Mode()
	c.removed = true
	c.undone = false
	return nil
}

func (c *fileDeletion) Undo(_ context.Context) error {
	if !c.removed || c.undone {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return errors.WithStack(err)
	}
	if err := os.WriteFile(c.path, c.content, c.mode.Perm()); err != nil {
		return errors.WithStack(err)
	}

	c.undone = true
	return nil
}

// emptyDirectoryDeletion removes a directory only when it holds zero
// entries at execute time. A non-empty directory is left untouched and is
// not an error.
type emptyDirectoryDeletion struct {
	path    string
	removed bool
	undone  bool
}

func NewEmptyDirectoryDeletion(path string) Command {
	return &emptyDirectoryDeletion{path: path}
}

func (c *emptyDirectoryDeletion) Name() string { return "directory " + c.path }

func (c *emptyDirectoryDeletion) Execute(_ context.Context) error {
	entries, err := os.ReadDir(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			c.removed = false
			return nil
		}
		return errors.WithStack(err)
	}
	if len(entries) > 0 {
		return nil
	}

	if err := os.Remove(c.path); err != nil {
		return errors.WithStack(err)
	}

	c.removed = true
	c.undone = false
	return nil
}

func (c *emptyDirectoryDeletion) Undo(_ context.Context) error {
	if !c.removed || c.undone {
		return nil
	}

	if err := os.MkdirAll(c.path, 0755); err != nil {
		return errors.WithStack(err)
	}

	c.undone = true
	return nil
}

// DiscoverArtifacts lists the book directory and builds the filesystem
// commands for a deletion, before any relational mutation happens. Per
// format row the candidates are "{stem}.{ext}" then "{bookID}.{ext}"; a
// record matching neither falls back to claiming a remaining directory
// entry by extension. cover.jpg is always included when present. Directory
// cleanup commands walk from the book directory up toward, but never
// including, the library root.
func DiscoverArtifacts(bookDir, libraryRoot string, bookID int, formats []*models.Format) ([]Command, error) {
	entries, err := os.ReadDir(bookDir)
	if err != nil {
		if os.IsNotExist(err) {
			// No directory means no artifacts; the relational rows can
			// still be deleted.
			return nil, nil
		}
		return nil, errors.WithStack(err)
	}

	claimed := map[string]bool{}
	present := map[string]bool{}
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			present[entry.Name()] = true
		}
	}

	hasCover := present[coverFilename]
	claimed[coverFilename] = true

	cmds := []Command{}
	fallbackExts := map[string]bool{}
	for _, format := range formats {
		candidates := []string{
			format.Filename(),
			fmt.Sprintf("%d.%s", bookID, format.Extension()),
		}

		matched := false
		for _, name := range candidates {
			if present[name] && !claimed[name] {
				cmds = append(cmds, NewFileDeletion(filepath.Join(bookDir, name)))
				claimed[name] = true
				matched = true
				break
			}
		}
		if !matched {
			fallbackExts["."+format.Extension()] = true
		}
	}

	// The naming convention doesn't hold for every record; claim whatever
	// remains that has an expected extension.
	if len(fallbackExts) > 0 {
		for _, entry := range entries {
			name := entry.Name()
			if !present[name] || claimed[name] {
				continue
			}
			if fallbackExts[strings.ToLower(filepath.Ext(name))] {
				cmds = append(cmds, NewFileDeletion(filepath.Join(bookDir, name)))
				claimed[name] = true
			}
		}
	}

	if hasCover {
		cmds = append(cmds, NewFileDeletion(filepath.Join(bookDir, coverFilename)))
	}

	cmds = append(cmds, directoryCleanup(bookDir, libraryRoot)...)
	return cmds, nil
}

// directoryCleanup builds conservative directory deletions from the book
// directory upward, stopping before the library root.
func directoryCleanup(bookDir, libraryRoot string) []Command {
	cmds := []Command{}
	root := filepath.Clean(libraryRoot)
	dir := filepath.Clean(bookDir)

	for dir != root && strings.HasPrefix(dir, root+string(filepath.Separator)) {
		cmds = append(cmds, NewEmptyDirectoryDeletion(dir))
		dir = filepath.Dir(dir)
	}

	return cmds
}
