package web

import (
	"context"
	"net/http"
	"strings"

	"nanopack/internal/compliance"
	"nanopack/internal/errors"
	"nanopack/internal/gsuite"
)

// Exporter pushes studio output to external document services.
// Satisfied by gsuite.Client.
type Exporter interface {
	CreateTechSheet(ctx context.Context, projectName, content string) (string, error)
	ExportComplianceSheet(ctx context.Context, projectName string, report *compliance.Report) (string, error)
	CreateDraftEmail(ctx context.Context, recipient, projectName, body string) error
}

// exporterFor prefers a per-request bearer token over the configured
// exporter. The UI obtains tokens client side and sends them along.
func (h *Handlers) exporterFor(w http.ResponseWriter, r *http.Request) (Exporter, bool) {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return gsuite.NewClient(strings.TrimPrefix(auth, "Bearer "), h.log), true
	}
	if h.exporter == nil {
		renderError(w, errors.NewExportFailed("no Google access token configured"))
		return nil, false
	}
	return h.exporter, true
}

// HandleExportDoc writes the tech sheet to a new Google Doc.
func (h *Handlers) HandleExportDoc(w http.ResponseWriter, r *http.Request) {
	exp, ok := h.exporterFor(w, r)
	if !ok {
		return
	}
	state := h.session.Snapshot()
	url, err := exp.CreateTechSheet(r.Context(), state.ProjectName, h.session.TechSheet())
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, map[string]string{"url": url})
}

// HandleExportSheet writes the compliance report to a new spreadsheet.
func (h *Handlers) HandleExportSheet(w http.ResponseWriter, r *http.Request) {
	exp, ok := h.exporterFor(w, r)
	if !ok {
		return
	}
	state := h.session.Snapshot()
	if state.Report == nil {
		renderError(w, errors.NewInvalidRequest("run a compliance scan before exporting"))
		return
	}
	url, err := exp.ExportComplianceSheet(r.Context(), state.ProjectName, state.Report)
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, map[string]string{"url": url})
}

// HandleExportEmail creates a Gmail draft carrying the tech sheet.
func (h *Handlers) HandleExportEmail(w http.ResponseWriter, r *http.Request) {
	exp, ok := h.exporterFor(w, r)
	if !ok {
		return
	}
	var input struct {
		To string `json:"to"`
	}
	if err := decodeJSON(r, &input); err != nil {
		renderError(w, err)
		return
	}
	if strings.TrimSpace(input.To) == "" {
		renderError(w, errors.NewInvalidRequest("recipient is required"))
		return
	}
	state := h.session.Snapshot()
	if err := exp.CreateDraftEmail(r.Context(), input.To, state.ProjectName, h.session.TechSheet()); err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, map[string]string{"status": "draft created"})
}
