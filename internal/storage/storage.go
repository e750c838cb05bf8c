// Package storage provides the places the read-only plan catalog is loaded from.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"alcyxob/gym-tracker/internal/config"
	"alcyxob/gym-tracker/internal/domain"

	"gopkg.in/yaml.v3"
)

// CatalogSource loads the plan catalog from wherever it is published.
type CatalogSource interface {
	Load(ctx context.Context) (*domain.RoutineDB, error)
	// Describe names the source for logs.
	Describe() string
}

// Error constants for storage layer
var (
	ErrCatalogNotFound = errors.New("catalog not found in storage")
	ErrUnknownSource   = errors.New("unknown catalog source")
)

// Catalog formats understood by DecodeCatalog.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// FormatFromName picks a decode format from a file or object name.
func FormatFromName(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// DecodeCatalog parses catalog bytes. YAML is converted through its generic
// form so both formats share the JSON field names.
func DecodeCatalog(data []byte, format string) (*domain.RoutineDB, error) {
	if format == FormatYAML {
		var generic any
		if err := yaml.Unmarshal(data, &generic); err != nil {
			return nil, fmt.Errorf("parse yaml catalog: %w", err)
		}
		converted, err := json.Marshal(generic)
		if err != nil {
			return nil, fmt.Errorf("convert yaml catalog: %w", err)
		}
		data = converted
	}

	var db domain.RoutineDB
	if err := json.Unmarshal(data, &db); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return &db, nil
}

// NewCatalogSource builds the source selected by cfg.Catalog.Source.
func NewCatalogSource(cfg config.Config) (CatalogSource, error) {
	switch cfg.Catalog.Source {
	case "", "file":
		return NewFileCatalogSource(cfg.Catalog.Path), nil
	case "s3":
		src, err := NewS3CatalogSource(cfg.S3)
		if err != nil {
			return nil, err
		}
		return src, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, cfg.Catalog.Source)
	}
}
