package processor

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/tridium-ingest/internal/config"
	"github.com/tridium-ingest/internal/db"
	"github.com/tridium-ingest/internal/generator"
	"github.com/tridium-ingest/internal/models"
)

type Job struct {
	FilePath string
	FileName string
}

// WorkerPool watches the input directory for dropped export files and
// runs the ingestion pipeline over each one.
type WorkerPool struct {
	store     db.Store
	importer  *Importer
	generator *generator.ReportGenerator
	jobQueue  chan Job
	workers   int
	cfg       *config.WatcherConfig
}

func NewWorkerPool(store db.Store, importer *Importer, cfg *config.WatcherConfig) *WorkerPool {
	return &WorkerPool{
		store:     store,
		importer:  importer,
		generator: generator.NewReportGenerator(cfg.OutputDir),
		jobQueue:  make(chan Job, 100),
		workers:   cfg.Workers,
		cfg:       cfg,
	}
}

func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.workers; i++ {
		go wp.worker(ctx, i)
	}

	go wp.watchDirectory(ctx)
}

func (wp *WorkerPool) watchDirectory(ctx context.Context) {
	ticker := time.NewTicker(wp.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			wp.scanDirectory()
		}
	}
}

func (wp *WorkerPool) scanDirectory() {
	var files []string
	for _, pattern := range []string{"*.csv", "*.txt"} {
		matches, err := filepath.Glob(filepath.Join(wp.cfg.InputDir, pattern))
		if err != nil {
			log.Printf("Error scanning directory: %v", err)
			return
		}
		files = append(files, matches...)
	}

	for _, filePath := range files {
		fileName := filepath.Base(filePath)

		imported, err := wp.store.IsFileImported(context.Background(), fileName)
		if err != nil {
			log.Printf("Error checking imported file: %v", err)
			continue
		}

		if imported {
			log.Printf("File already imported: %s", fileName)
			continue
		}

		select {
		case wp.jobQueue <- Job{
			FilePath: filePath,
			FileName: fileName,
		}:
			log.Printf("Added job to queue: %s", fileName)
		default:
			log.Printf("Job queue is full, skipping: %s", fileName)
		}
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Worker %d started", id)

	for {
		select {
		case <-ctx.Done():
			log.Printf("Worker %d stopping", id)
			return
		case job := <-wp.jobQueue:
			wp.processJob(ctx, job)
		}
	}
}

func (wp *WorkerPool) processJob(ctx context.Context, job Job) {
	log.Printf("Worker processing file: %s", job.FileName)

	raw, err := os.ReadFile(job.FilePath)
	if err != nil {
		log.Printf("Error reading file %s: %v", job.FileName, err)
		return
	}

	if !utf8.Valid(raw) {
		wp.rejectFile(ctx, job, models.FormatUnknown, "file content could not be decoded as text")
		return
	}

	file := models.RawImportFile{
		FileName: job.FileName,
		Content:  string(raw),
		Size:     int64(len(raw)),
	}

	dataset, detection, err := wp.importer.Import(file, "")
	if err != nil {
		wp.rejectFile(ctx, job, detection.Format, err.Error())
		return
	}

	// Unattended imports honor the confidence gate; forcing a
	// low-confidence format is reserved for the API path where a user
	// confirmed it.
	if detection.Confidence < wp.cfg.MinConfidence {
		wp.rejectFile(ctx, job, detection.Format,
			fmt.Sprintf("detection confidence %d below minimum %d", detection.Confidence, wp.cfg.MinConfidence))
		return
	}

	if err := wp.store.Add(ctx, dataset); err != nil {
		log.Printf("Error saving dataset for file %s: %v", job.FileName, err)
		return
	}

	reportPath, err := wp.generator.GeneratePDF(dataset)
	if err != nil {
		log.Printf("Error generating report for %s: %v", job.FileName, err)

		importErr := &models.ImportError{
			FileName:  job.FileName,
			Format:    dataset.Format,
			ErrorMsg:  fmt.Sprintf("Report generation error: %v", err),
			CreatedAt: time.Now(),
		}
		if saveErr := wp.store.SaveImportError(ctx, importErr); saveErr != nil {
			log.Printf("Error saving import error: %v", saveErr)
		}
	} else {
		log.Printf("Generated report for %s: %s", job.FileName, reportPath)
	}

	wp.archiveFile(job.FilePath)

	log.Printf("Successfully imported file: %s (%s, %d records, confidence %d)",
		job.FileName, dataset.Format, dataset.Summary.Total, dataset.Confidence)
}

func (wp *WorkerPool) rejectFile(ctx context.Context, job Job, format models.FormatType, reason string) {
	log.Printf("Rejecting file %s: %s", job.FileName, reason)

	importErr := &models.ImportError{
		FileName:  job.FileName,
		Format:    format,
		ErrorMsg:  reason,
		CreatedAt: time.Now(),
	}
	if err := wp.store.SaveImportError(ctx, importErr); err != nil {
		log.Printf("Error saving import error: %v", err)
	}

	wp.moveFileToError(job.FilePath, job.FileName)
}

func (wp *WorkerPool) moveFileToError(filePath, fileName string) {
	errorDir := filepath.Join(wp.cfg.OutputDir, "errors")
	if err := os.MkdirAll(errorDir, 0755); err != nil {
		log.Printf("Error creating error directory: %v", err)
		return
	}

	destPath := filepath.Join(errorDir, fileName)
	if err := os.Rename(filePath, destPath); err != nil {
		log.Printf("Error moving file to error directory: %v", err)
	}
}

func (wp *WorkerPool) archiveFile(filePath string) {
	archiveDir := filepath.Join(wp.cfg.OutputDir, "archive")
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		log.Printf("Error creating archive directory: %v", err)
		return
	}

	destPath := filepath.Join(archiveDir, filepath.Base(filePath))
	if err := os.Rename(filePath, destPath); err != nil {
		log.Printf("Error moving file to archive: %v", err)
	}
}
