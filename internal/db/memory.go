package db

import (
	"context"
	"sort"
	"sync"

	"github.com/tridium-ingest/internal/models"
)

// MemoryStore is an in-process Store used by tests and by deployments
// that do not need persistence across restarts. The mutex matters:
// worker goroutines and API handlers touch the store concurrently.
type MemoryStore struct {
	mu       sync.RWMutex
	datasets map[string]*models.ImportedDataset
	order    []string
	errs     []models.ImportError
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		datasets: make(map[string]*models.ImportedDataset),
	}
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) Add(ctx context.Context, dataset *models.ImportedDataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.datasets[dataset.ID]; !exists {
		s.order = append(s.order, dataset.ID)
	}
	copied := *dataset
	s.datasets[dataset.ID] = &copied
	return nil
}

func (s *MemoryStore) GetByID(ctx context.Context, id string) (*models.ImportedDataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dataset, ok := s.datasets[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *dataset
	return &copied, nil
}

// GetByFileName returns the most recently imported dataset for fileName.
func (s *MemoryStore) GetByFileName(ctx context.Context, fileName string) (*models.ImportedDataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *models.ImportedDataset
	for _, dataset := range s.datasets {
		if dataset.SourceFileName != fileName {
			continue
		}
		if latest == nil || dataset.ImportedAt.After(latest.ImportedAt) {
			latest = dataset
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	copied := *latest
	return &copied, nil
}

func (s *MemoryStore) List(ctx context.Context, page, limit int64) (*models.PaginatedDatasets, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]models.ImportedDataset, 0, len(s.datasets))
	for _, id := range s.order {
		all = append(all, *s.datasets[id])
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].ImportedAt.After(all[j].ImportedAt)
	})

	total := int64(len(all))
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	totalPages := total / limit
	if total%limit > 0 {
		totalPages++
	}

	return &models.PaginatedDatasets{
		Data:       all[start:end],
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

func (s *MemoryStore) IsFileImported(ctx context.Context, fileName string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, dataset := range s.datasets {
		if dataset.SourceFileName == fileName {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) SaveImportError(ctx context.Context, importErr *models.ImportError) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs = append(s.errs, *importErr)
	return nil
}

func (s *MemoryStore) ImportErrors(ctx context.Context, fileName string) ([]models.ImportError, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.ImportError
	for _, e := range s.errs {
		if e.FileName == fileName {
			out = append(out, e)
		}
	}
	return out, nil
}
