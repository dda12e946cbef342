package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/orgabay12/epxe/internal/api/middleware"
	"github.com/orgabay12/epxe/internal/domain"
	"github.com/orgabay12/epxe/internal/gcsarchive"
	"github.com/orgabay12/epxe/internal/jobs"
	"github.com/orgabay12/epxe/internal/tabular"
)

const maxUploadBytes = 32 << 20 // 32 MiB

// ImportsHandler accepts import requests, queues them and exposes job status.
type ImportsHandler struct {
	publisher jobs.Publisher
	store     jobs.Store
	archiver  gcsarchive.Archiver // nil when archival is not configured
	webReady  bool
	log       zerolog.Logger
}

// NewImportsHandler creates a new imports handler. archiver may be nil;
// webReady reports whether issuer-site credentials are configured.
func NewImportsHandler(publisher jobs.Publisher, store jobs.Store, archiver gcsarchive.Archiver, webReady bool, log zerolog.Logger) *ImportsHandler {
	return &ImportsHandler{
		publisher: publisher,
		store:     store,
		archiver:  archiver,
		webReady:  webReady,
		log:       log,
	}
}

// CreateImport handles POST /api/imports. Image and spreadsheet uploads
// arrive as multipart forms with a "modality" field and a "file" part; text
// imports and web imports may also be plain JSON.
func (h *ImportsHandler) CreateImport(w http.ResponseWriter, r *http.Request) {
	job, errMsg := h.buildJob(r)
	if errMsg != "" {
		middleware.WriteError(w, http.StatusBadRequest, errMsg)
		return
	}

	if job.Modality == domain.ModalityWeb && !h.webReady {
		middleware.WriteError(w, http.StatusConflict, "Issuer credentials are not configured")
		return
	}

	ctx := r.Context()
	h.archivePayload(r, job)

	if err := h.publisher.PublishImport(ctx, job); err != nil {
		h.log.Error().Err(err).Msg("Failed to enqueue import")
		middleware.WriteError(w, http.StatusServiceUnavailable, "Failed to enqueue import")
		return
	}

	h.log.Info().
		Str("job_id", job.JobID).
		Str("modality", string(job.Modality)).
		Msg("Import enqueued")

	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
		"job_id": job.JobID,
		"status": string(job.Status),
	})
}

// buildJob parses the request into a pending job, returning an error message
// for invalid input.
func (h *ImportsHandler) buildJob(r *http.Request) (*jobs.ImportJob, string) {
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "multipart/form-data") {
		return h.buildJobFromForm(r)
	}

	var req struct {
		Modality string `json:"modality"`
		Text     string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, "Invalid request body"
	}

	modality, err := domain.ParseModality(req.Modality)
	if err != nil {
		return nil, err.Error()
	}
	if modality == domain.ModalityImage {
		return nil, "Image imports must be multipart uploads"
	}
	if modality == domain.ModalityText && strings.TrimSpace(req.Text) == "" {
		return nil, "Text is required for text imports"
	}

	return &jobs.ImportJob{Modality: modality, Text: req.Text}, ""
}

func (h *ImportsHandler) buildJobFromForm(r *http.Request) (*jobs.ImportJob, string) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, "Invalid multipart form"
	}

	modality, err := domain.ParseModality(r.FormValue("modality"))
	if err != nil {
		return nil, err.Error()
	}

	job := &jobs.ImportJob{Modality: modality}

	switch modality {
	case domain.ModalityWeb:
		return job, ""

	case domain.ModalityText:
		if text := r.FormValue("text"); strings.TrimSpace(text) != "" {
			job.Text = text
			return job, ""
		}
		data, filename, errMsg := readUpload(r)
		if errMsg != "" {
			return nil, errMsg
		}
		if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
			text, err := tabular.RenderXLSX(data)
			if err != nil {
				h.log.Warn().Err(err).Str("filename", filename).Msg("Failed to render spreadsheet")
				return nil, "Could not read the spreadsheet"
			}
			job.Text = text
			return job, ""
		}
		job.Text = string(data)
		return job, ""

	case domain.ModalityImage:
		data, filename, errMsg := readUpload(r)
		if errMsg != "" {
			return nil, errMsg
		}
		job.Image = data
		job.ImageMIME = imageMIME(filename)
		return job, ""
	}

	return nil, "Unsupported modality"
}

func readUpload(r *http.Request) ([]byte, string, string) {
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", "A file upload is required"
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		return nil, "", "Failed to read uploaded file"
	}
	if len(data) == 0 {
		return nil, "", "Uploaded file is empty"
	}
	return data, header.Filename, ""
}

func imageMIME(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

// archivePayload stores the raw payload in the archive bucket, best effort.
// Archival failures never block the import.
func (h *ImportsHandler) archivePayload(r *http.Request, job *jobs.ImportJob) {
	if h.archiver == nil {
		return
	}

	var data []byte
	var ext string
	switch {
	case len(job.Image) > 0:
		data = job.Image
		ext = "." + strings.TrimPrefix(job.ImageMIME, "image/")
	case job.Text != "":
		data = []byte(job.Text)
		ext = ".txt"
	default:
		return
	}

	objectName := fmt.Sprintf("imports/%s/%s%s", time.Now().Format("2006/01/02"), uuid.New().String(), ext)
	uri, err := h.archiver.Archive(r.Context(), objectName, data)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to archive import payload")
		return
	}
	job.ArchiveURI = uri
}

// GetImport handles GET /api/imports/{id}
func (h *ImportsHandler) GetImport(w http.ResponseWriter, r *http.Request, jobID string) {
	job, err := h.store.GetJob(r.Context(), jobID)
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, "Import not found")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, job)
}

// GetImportPayload handles GET /api/imports/{id}/payload: it downloads the
// archived raw payload of an import so a failed or mis-read import can be
// inspected and replayed.
func (h *ImportsHandler) GetImportPayload(w http.ResponseWriter, r *http.Request, jobID string) {
	job, err := h.store.GetJob(r.Context(), jobID)
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, "Import not found")
		return
	}
	if h.archiver == nil || job.ArchiveURI == "" {
		middleware.WriteError(w, http.StatusNotFound, "Import has no archived payload")
		return
	}

	data, err := h.archiver.Fetch(r.Context(), job.ArchiveURI)
	if err != nil {
		h.log.Error().Err(err).Str("job_id", jobID).Str("uri", job.ArchiveURI).
			Msg("Failed to fetch archived payload")
		middleware.WriteError(w, http.StatusBadGateway, "Failed to fetch archived payload")
		return
	}

	name := gcsarchive.Filename(job.ArchiveURI)
	w.Header().Set("Content-Type", payloadContentType(name))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func payloadContentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png", ".jpeg", ".webp":
		return imageMIME(filename)
	case ".txt":
		return "text/plain; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}
