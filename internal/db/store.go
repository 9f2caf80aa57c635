package db

import (
	"context"
	"errors"

	"github.com/tridium-ingest/internal/models"
)

// ErrNotFound is returned when a dataset id or filename has no match.
var ErrNotFound = errors.New("dataset not found")

// Store is the persistence collaborator for imported datasets. Datasets
// are append-only: Add never updates in place, re-importing a file
// creates a new dataset and lookups by filename return the most recent
// one (last write wins). Implementations must be safe for concurrent
// use.
type Store interface {
	Add(ctx context.Context, dataset *models.ImportedDataset) error
	GetByID(ctx context.Context, id string) (*models.ImportedDataset, error)
	GetByFileName(ctx context.Context, fileName string) (*models.ImportedDataset, error)
	List(ctx context.Context, page, limit int64) (*models.PaginatedDatasets, error)
	IsFileImported(ctx context.Context, fileName string) (bool, error)
	SaveImportError(ctx context.Context, importErr *models.ImportError) error
	ImportErrors(ctx context.Context, fileName string) ([]models.ImportError, error)
	Close() error
}
