package usecase

import (
	"errors"

	"github.com/3-lines-studio/folio/internal/adapters/fs"
)

var ErrPageNotFound = errors.New("page not found")

type FileSystem = fs.FileSystem
