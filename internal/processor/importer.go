package processor

import (
	"time"

	"github.com/google/uuid"

	"github.com/tridium-ingest/internal/config"
	"github.com/tridium-ingest/internal/detect"
	"github.com/tridium-ingest/internal/extract"
	"github.com/tridium-ingest/internal/models"
	"github.com/tridium-ingest/internal/tabular"
	"github.com/tridium-ingest/internal/units"
)

// Importer runs the full ingestion pipeline for one decoded file:
// format detection, extraction and dataset assembly. It is stateless;
// persistence is the caller's concern.
type Importer struct {
	opts extract.Options
}

func NewImporter(cfg *config.ParserConfig) *Importer {
	return &Importer{
		opts: extract.Options{
			Rounding: units.RoundingModeFromString(cfg.CapacityRounding),
		},
	}
}

// Import detects the file's format, extracts its records and builds the
// immutable dataset. A non-empty forcedFormat overrides detection (the
// manual-confirmation path for low-confidence files); the dataset is
// then flagged as forced. The only error is undecodable content.
func (im *Importer) Import(file models.RawImportFile, forcedFormat models.FormatType) (*models.ImportedDataset, models.DetectionResult, error) {
	detection := detect.Detect(file.FileName, file.Content)

	format := detection.Format
	forced := false
	if forcedFormat != "" && forcedFormat != models.FormatUnknown {
		forced = forcedFormat != detection.Format || detection.Confidence < detect.BandMedium
		format = forcedFormat
	}

	export, err := extract.Extract(format, file.Content, im.opts)
	if err != nil {
		return nil, detection, err
	}

	dataset := &models.ImportedDataset{
		ID:             uuid.NewString(),
		Format:         format,
		SourceFileName: file.FileName,
		ImportedAt:     time.Now().UTC(),
		Confidence:     detection.Confidence,
		Forced:         forced,
	}
	dataset.Warnings = append(dataset.Warnings, detection.Warnings...)
	dataset.Warnings = append(dataset.Warnings, export.Warnings()...)

	export.Fill(dataset)

	// Tabular formats keep their original headers and rows so the
	// column-mapping preview can be re-derived later.
	if format != models.FormatPlatform && format != models.FormatUnknown {
		doc := tabular.Parse(file.Content)
		dataset.Headers = doc.Headers
		dataset.Rows = doc.Rows
	}

	return dataset, detection, nil
}
