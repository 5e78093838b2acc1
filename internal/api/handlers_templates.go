package api

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/leadlaw/contractengine/internal/normalize"
	"github.com/leadlaw/contractengine/internal/pipeline"
)

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	templateID := chi.URLParam(r, "templateID")

	tpl, err := s.store.GetTemplate(r.Context(), templateID)
	if err != nil {
		jsonError(w, "template store: "+err.Error(), http.StatusBadGateway)
		return
	}
	if tpl == nil {
		jsonError(w, "template not found", http.StatusNotFound)
		return
	}

	// Stored content may predate the canonical shape; normalizing and
	// re-assigning ids is a no-op for already-addressed templates.
	doc, warnings := s.engine.LoadTemplate(tpl.Content)
	if warnings == nil {
		warnings = []string{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":       tpl.ID,
		"name":     tpl.Name,
		"currency": tpl.Currency,
		"doc":      doc,
		"warnings": warnings,
	})
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !normalize.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	templateID := r.FormValue("template_id")
	if templateID == "" {
		templateID = uuid.NewString()
	}
	currency := r.FormValue("currency")
	if currency == "" {
		currency = s.cfg.DefaultCurrency
	}

	now := time.Now()
	job := &pipeline.Job{
		ID:         uuid.NewString(),
		TemplateID: templateID,
		Status:     pipeline.StatusQueued,
		Phase:      "queued",
		Filename:   filename,
		Name:       r.FormValue("name"),
		Currency:   currency,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	job.SetFileData(data)

	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_id":      job.ID,
		"template_id": job.TemplateID,
		"status":      job.Status,
		"poll_url":    fmt.Sprintf("/api/templates/import/%s/status", job.ID),
	})
}

func (s *Server) handleImportStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
