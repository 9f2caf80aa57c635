package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/gorilla/mux"

	"github.com/tridium-ingest/internal/db"
	"github.com/tridium-ingest/internal/detect"
	"github.com/tridium-ingest/internal/generator"
	"github.com/tridium-ingest/internal/mapping"
	"github.com/tridium-ingest/internal/models"
	"github.com/tridium-ingest/internal/processor"
)

const maxUploadBytes = 32 << 20

type Handler struct {
	store     db.Store
	importer  *processor.Importer
	generator *generator.ReportGenerator
}

func NewHandler(store db.Store, importer *processor.Importer, gen *generator.ReportGenerator) *Handler {
	return &Handler{store: store, importer: importer, generator: gen}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/detect", h.detectFile).Methods("POST")
	r.HandleFunc("/api/imports", h.importFile).Methods("POST")
	r.HandleFunc("/api/datasets", h.listDatasets).Methods("GET")
	r.HandleFunc("/api/datasets/{id}", h.getDataset).Methods("GET")
	r.HandleFunc("/api/datasets/{id}/preview", h.previewDataset).Methods("GET")
	r.HandleFunc("/api/datasets/{id}/report", h.downloadReport).Methods("GET")
	r.HandleFunc("/api/import-errors/{file_name}", h.getImportErrors).Methods("GET")
}

// detectFile is the dry-run detection endpoint the upload dialog calls
// before committing to an import.
func (h *Handler) detectFile(w http.ResponseWriter, r *http.Request) {
	file, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	detection := detect.Detect(file.FileName, file.Content)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"detection": detection,
		"band":      detect.ConfidenceBand(detection.Confidence),
	})
}

// importFile runs the full pipeline over an uploaded export. A format
// query parameter overrides detection (the manual-confirmation path);
// force=true additionally bypasses the confidence gate.
func (h *Handler) importFile(w http.ResponseWriter, r *http.Request) {
	file, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	forcedFormat := models.FormatType(r.URL.Query().Get("format"))
	force := r.URL.Query().Get("force") == "true"

	dataset, detection, err := h.importer.Import(file, forcedFormat)
	if err != nil {
		http.Error(w, fmt.Sprintf("file rejected: %v", err), http.StatusBadRequest)
		return
	}

	if detection.Confidence < detect.BandReject && forcedFormat == "" && !force {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":     "format not recognized: pass ?format= to choose an extractor or ?force=true to import anyway",
			"detection": detection,
		})
		return
	}
	if force {
		dataset.Forced = true
	}

	if err := h.store.Add(r.Context(), dataset); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":        dataset.ID,
		"format":    dataset.Format,
		"summary":   dataset.Summary,
		"detection": detection,
		"band":      detect.ConfidenceBand(detection.Confidence),
		"forced":    dataset.Forced,
		"warnings":  dataset.Warnings,
	})
}

func (h *Handler) listDatasets(w http.ResponseWriter, r *http.Request) {
	page, limit := getPaginationParams(r)

	datasets, err := h.store.List(r.Context(), page, limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, datasets)
}

func (h *Handler) getDataset(w http.ResponseWriter, r *http.Request) {
	dataset, ok := h.lookupDataset(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, dataset)
}

// previewDataset re-derives the column-mapping preview from the
// dataset's stored headers and rows.
func (h *Handler) previewDataset(w http.ResponseWriter, r *http.Request) {
	dataset, ok := h.lookupDataset(w, r)
	if !ok {
		return
	}

	if len(dataset.Headers) == 0 {
		http.Error(w, "dataset has no tabular source to preview", http.StatusUnprocessableEntity)
		return
	}

	doc := models.TabularDocument{Headers: dataset.Headers, Rows: dataset.Rows}
	mappings := mapping.InferMappings(doc, dataset.Format)
	result := mapping.Apply(doc, mappings, dataset.Format)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"mappings": mappings,
		"result":   result,
	})
}

func (h *Handler) downloadReport(w http.ResponseWriter, r *http.Request) {
	dataset, ok := h.lookupDataset(w, r)
	if !ok {
		return
	}

	pdf := h.generator.Render(dataset)

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=report_%s.pdf", dataset.ID))

	if err := pdf.Output(w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) getImportErrors(w http.ResponseWriter, r *http.Request) {
	fileName := mux.Vars(r)["file_name"]

	errs, err := h.store.ImportErrors(r.Context(), fileName)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, errs)
}

func (h *Handler) lookupDataset(w http.ResponseWriter, r *http.Request) (*models.ImportedDataset, bool) {
	id := mux.Vars(r)["id"]

	dataset, err := h.store.GetByID(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		http.Error(w, "dataset not found", http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	return dataset, true
}

// readUpload decodes the multipart "file" field. Content that is not
// valid text is rejected outright: extraction is never attempted on it.
func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) (models.RawImportFile, bool) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return models.RawImportFile{}, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field", http.StatusBadRequest)
		return models.RawImportFile{}, false
	}
	defer file.Close()

	raw, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		http.Error(w, "failed to read file", http.StatusBadRequest)
		return models.RawImportFile{}, false
	}

	if !utf8.Valid(raw) {
		http.Error(w, "file rejected: content could not be decoded as text", http.StatusBadRequest)
		return models.RawImportFile{}, false
	}

	return models.RawImportFile{
		FileName: header.Filename,
		Content:  string(raw),
		Size:     int64(len(raw)),
	}, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func getPaginationParams(r *http.Request) (page, limit int64) {
	pageStr := r.URL.Query().Get("page")
	limitStr := r.URL.Query().Get("limit")

	page = 1
	if pageStr != "" {
		if p, err := strconv.ParseInt(pageStr, 10, 64); err == nil && p > 0 {
			page = p
		}
	}

	limit = 10
	if limitStr != "" {
		if l, err := strconv.ParseInt(limitStr, 10, 64); err == nil && l > 0 {
			limit = l
		}
	}

	if limit > 100 {
		limit = 100
	}

	return page, limit
}
