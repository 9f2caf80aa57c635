package db

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/tridium-ingest/internal/models"
)

func dataset(id, file string, at time.Time) *models.ImportedDataset {
	return &models.ImportedDataset{
		ID:             id,
		Format:         models.FormatN2,
		SourceFileName: file,
		ImportedAt:     at,
		Summary:        models.DatasetSummary{Total: 1},
	}
}

func TestMemoryStore_AddAndGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Add(ctx, dataset("d1", "n2.csv", time.Now())); err != nil {
		t.Fatal(err)
	}

	got, err := store.GetByID(ctx, "d1")
	if err != nil {
		t.Fatal(err)
	}
	if got.SourceFileName != "n2.csv" {
		t.Errorf("SourceFileName = %q", got.SourceFileName)
	}

	if _, err := store.GetByID(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_LastWriteWins(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	base := time.Now()

	store.Add(ctx, dataset("d1", "n2.csv", base))
	store.Add(ctx, dataset("d2", "n2.csv", base.Add(time.Minute)))

	got, err := store.GetByFileName(ctx, "n2.csv")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "d2" {
		t.Errorf("ID = %q, want d2 (most recent import)", got.ID)
	}
}

func TestMemoryStore_IsFileImported(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	imported, _ := store.IsFileImported(ctx, "n2.csv")
	if imported {
		t.Error("empty store reports file imported")
	}

	store.Add(ctx, dataset("d1", "n2.csv", time.Now()))

	imported, _ = store.IsFileImported(ctx, "n2.csv")
	if !imported {
		t.Error("IsFileImported = false after Add")
	}
}

func TestMemoryStore_ListPagination(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	base := time.Now()

	for i := 0; i < 5; i++ {
		store.Add(ctx, dataset(fmt.Sprintf("d%d", i), fmt.Sprintf("f%d.csv", i), base.Add(time.Duration(i)*time.Second)))
	}

	page, err := store.List(ctx, 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 5 || page.TotalPages != 3 || len(page.Data) != 2 {
		t.Errorf("page = total %d, pages %d, len %d", page.Total, page.TotalPages, len(page.Data))
	}
	// Newest first.
	if page.Data[0].ID != "d4" {
		t.Errorf("Data[0].ID = %q, want d4", page.Data[0].ID)
	}

	last, _ := store.List(ctx, 3, 2)
	if len(last.Data) != 1 {
		t.Errorf("last page len = %d, want 1", len(last.Data))
	}

	beyond, _ := store.List(ctx, 9, 2)
	if len(beyond.Data) != 0 {
		t.Errorf("page beyond end len = %d, want 0", len(beyond.Data))
	}
}

func TestMemoryStore_DatasetsAreValueCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	original := dataset("d1", "n2.csv", time.Now())
	store.Add(ctx, original)
	original.SourceFileName = "mutated.csv"

	got, _ := store.GetByID(ctx, "d1")
	if got.SourceFileName != "n2.csv" {
		t.Error("store leaked a reference to the caller's dataset")
	}
}

func TestMemoryStore_ImportErrors(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.SaveImportError(ctx, &models.ImportError{FileName: "bad.csv", ErrorMsg: "unreadable"})
	store.SaveImportError(ctx, &models.ImportError{FileName: "other.csv", ErrorMsg: "x"})

	errs, err := store.ImportErrors(ctx, "bad.csv")
	if err != nil {
		t.Fatal(err)
	}
	if len(errs) != 1 || errs[0].ErrorMsg != "unreadable" {
		t.Errorf("errs = %+v", errs)
	}
}
