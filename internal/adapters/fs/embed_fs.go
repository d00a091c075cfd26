package fs

import (
	"errors"
	iofs "io/fs"
	"path"
	"strings"
)

var ErrReadOnly = errors.New("embedded filesystem is read-only")

// EmbedFileSystem serves pages compiled into the binary (an embed.FS or
// any other io/fs.FS). Paths are slash separated; a leading "./" or "/"
// is ignored.
type EmbedFileSystem struct {
	fs iofs.FS
}

func NewEmbedFileSystem(fsys iofs.FS) *EmbedFileSystem {
	return &EmbedFileSystem{fs: fsys}
}

func (fs *EmbedFileSystem) ReadFile(name string) ([]byte, error) {
	return iofs.ReadFile(fs.fs, clean(name))
}

func (fs *EmbedFileSystem) ReadDir(name string) ([]iofs.DirEntry, error) {
	return iofs.ReadDir(fs.fs, clean(name))
}

func (fs *EmbedFileSystem) FileExists(name string) bool {
	_, err := iofs.Stat(fs.fs, clean(name))
	return err == nil
}

func (fs *EmbedFileSystem) WriteFile(name string, data []byte, perm iofs.FileMode) error {
	return ErrReadOnly
}

func (fs *EmbedFileSystem) MkdirAll(name string, perm iofs.FileMode) error {
	return ErrReadOnly
}

func clean(name string) string {
	name = path.Clean(strings.TrimPrefix(name, "/"))
	if name == "" {
		return "."
	}
	return name
}
