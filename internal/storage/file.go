package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"alcyxob/gym-tracker/internal/domain"
)

// fileCatalogSource reads the catalog from a local .json or .yaml file.
type fileCatalogSource struct {
	path string
}

func NewFileCatalogSource(path string) CatalogSource {
	return &fileCatalogSource{path: path}
}

func (s *fileCatalogSource) Load(ctx context.Context) (*domain.RoutineDB, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrCatalogNotFound, s.path)
		}
		return nil, fmt.Errorf("read catalog %s: %w", s.path, err)
	}
	return DecodeCatalog(data, FormatFromName(s.path))
}

func (s *fileCatalogSource) Describe() string {
	return "file " + s.path
}
