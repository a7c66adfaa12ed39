package web

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"nanopack/internal/asset"
	"nanopack/internal/errors"
	"nanopack/internal/inventory"
	"nanopack/internal/ops"
	"nanopack/internal/studio"
	"nanopack/internal/template"
	"nanopack/internal/vectorize"
)

// SKUSearcher finds inventory SKUs. Satisfied by inventory.Client.
type SKUSearcher interface {
	Search(ctx context.Context, query string) ([]inventory.SKU, error)
}

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	db       *sql.DB
	session  *studio.Session
	skus     SKUSearcher
	exporter Exporter
	version  string
	log      *zap.Logger
}

// decodeJSON reads a JSON request body into v. An empty body leaves v
// zero-valued.
func decodeJSON(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil && err != io.EOF {
		return errors.NewInvalidRequest(fmt.Sprintf("invalid request body: %v", err))
	}
	return nil
}

// HandleListAssets returns library assets, newest first.
func (h *Handlers) HandleListAssets(w http.ResponseWriter, r *http.Request) {
	out, err := ops.List(h.db, ops.ListInput{ProjectID: r.URL.Query().Get("project_id")})
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, out)
}

// HandleSaveAsset stores an asset directly, bypassing the session.
func (h *Handlers) HandleSaveAsset(w http.ResponseWriter, r *http.Request) {
	var input ops.SaveInput
	if err := decodeJSON(r, &input); err != nil {
		renderError(w, err)
		return
	}
	out, err := ops.Save(h.db, input)
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusCreated, out)
}

// HandleGetAsset returns one asset by id.
func (h *Handlers) HandleGetAsset(w http.ResponseWriter, r *http.Request) {
	out, err := ops.Fetch(h.db, ops.FetchInput{ID: r.PathValue("id")})
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, out)
}

// HandleBatchDelete deletes the requested ids, defaulting to the
// current selection. The selection is cleared afterwards even when some
// deletions fail.
func (h *Handlers) HandleBatchDelete(w http.ResponseWriter, r *http.Request) {
	var input ops.BatchDeleteInput
	if err := decodeJSON(r, &input); err != nil {
		renderError(w, err)
		return
	}
	if len(input.IDs) == 0 {
		input.IDs = h.session.Selection.IDs()
	}

	out, err := ops.BatchDelete(r.Context(), h.db, input)
	if out != nil {
		h.session.Selection.Clear()
	}
	if err != nil {
		if out == nil {
			renderError(w, err)
			return
		}
		// Partial failure: per-id accounting travels with the error.
		sErr, ok := err.(*errors.StudioError)
		if !ok {
			sErr = errors.NewInternal(err)
		}
		renderJSON(w, sErr.Status, map[string]any{
			"error": map[string]any{
				"code":    string(sErr.Code),
				"message": sErr.Message,
				"status":  sErr.Status,
				"details": sErr.Details,
			},
			"results": out.Results,
			"deleted": out.Deleted,
			"failed":  out.Failed,
		})
		return
	}
	renderJSON(w, http.StatusOK, out)
}

// HandleBundle builds a ZIP of the requested ids, defaulting to the
// current selection, and streams it as a download. The selection
// survives the export.
func (h *Handlers) HandleBundle(w http.ResponseWriter, r *http.Request) {
	var input ops.BundleInput
	if err := decodeJSON(r, &input); err != nil {
		renderError(w, err)
		return
	}
	if len(input.IDs) == 0 {
		input.IDs = h.session.Selection.IDs()
	}

	out, err := ops.Bundle(h.db, input)
	if err != nil {
		renderError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", out.FileName))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(out.Data)))
	_, _ = w.Write(out.Data)
}

// HandleTemplates returns the packaging template catalog.
func (h *Handlers) HandleTemplates(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, map[string]any{"templates": template.Catalog()})
}

// HandleSearchSKUs searches the inventory service.
func (h *Handlers) HandleSearchSKUs(w http.ResponseWriter, r *http.Request) {
	skus, err := h.skus.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		renderError(w, err)
		return
	}
	if skus == nil {
		skus = []inventory.SKU{}
	}
	renderJSON(w, http.StatusOK, map[string]any{"skus": skus})
}

// HandleSessionState returns the current session snapshot.
func (h *Handlers) HandleSessionState(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, h.session.Snapshot())
}

// HandleLoadSource sets the session's original artwork.
func (h *Handlers) HandleLoadSource(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Payload string `json:"payload"`
	}
	if err := decodeJSON(r, &input); err != nil {
		renderError(w, err)
		return
	}
	if err := h.session.LoadSource(input.Payload); err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, h.session.Snapshot())
}

// HandleSetProject renames the session's project.
func (h *Handlers) HandleSetProject(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &input); err != nil {
		renderError(w, err)
		return
	}
	if err := h.session.SetProject(input.Name); err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, h.session.Snapshot())
}

// HandleSetTemplate selects a packaging template for the session.
func (h *Handlers) HandleSetTemplate(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ID string `json:"id"`
	}
	if err := decodeJSON(r, &input); err != nil {
		renderError(w, err)
		return
	}
	if err := h.session.SetTemplate(input.ID); err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, h.session.Snapshot())
}

// HandleLinkSKU attaches an inventory SKU to the session.
func (h *Handlers) HandleLinkSKU(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ID string `json:"id"`
	}
	if err := decodeJSON(r, &input); err != nil {
		renderError(w, err)
		return
	}
	sku, err := h.session.LinkSKU(r.Context(), input.ID)
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, map[string]any{"sku": sku})
}

// HandleLoadAsset pulls a library asset back into the session.
func (h *Handlers) HandleLoadAsset(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Load(r.Context(), r.PathValue("id")); err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, h.session.Snapshot())
}

// HandleGenerate runs an AI edit on the session's working image.
func (h *Handlers) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Prompt string `json:"prompt"`
	}
	if err := decodeJSON(r, &input); err != nil {
		renderError(w, err)
		return
	}
	result, err := h.session.Generate(r.Context(), input.Prompt)
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, map[string]any{"result": result})
}

// HandleVectorize traces the working image into SVG.
func (h *Handlers) HandleVectorize(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Options vectorize.Options `json:"options"`
	}
	if err := decodeJSON(r, &input); err != nil {
		renderError(w, err)
		return
	}
	svg, err := h.session.Vectorize(r.Context(), input.Options)
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, map[string]any{"svg": svg})
}

// HandleScan runs a compliance scan on the working image.
func (h *Handlers) HandleScan(w http.ResponseWriter, r *http.Request) {
	report, err := h.session.ScanCompliance(r.Context())
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, map[string]any{"report": report})
}

// HandleSaveSession saves the session's current artwork to the library.
func (h *Handlers) HandleSaveSession(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Kind asset.Kind `json:"kind"`
	}
	if err := decodeJSON(r, &input); err != nil {
		renderError(w, err)
		return
	}
	if input.Kind == "" {
		input.Kind = asset.KindRaster
	}
	saved, message, err := h.session.SaveToLibrary(r.Context(), input.Kind)
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusCreated, map[string]any{
		"asset":   saved,
		"message": message,
	})
}

// HandleSelectionToggle flips one id in the selection.
func (h *Handlers) HandleSelectionToggle(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ID string `json:"id"`
	}
	if err := decodeJSON(r, &input); err != nil {
		renderError(w, err)
		return
	}
	if input.ID == "" {
		renderError(w, errors.NewInvalidRequest("id is required"))
		return
	}
	h.session.Selection.Toggle(input.ID)
	h.renderSelection(w)
}

// HandleSelectionAll toggles between everything selected and nothing
// selected, judged by size.
func (h *Handlers) HandleSelectionAll(w http.ResponseWriter, r *http.Request) {
	out, err := ops.List(h.db, ops.ListInput{})
	if err != nil {
		renderError(w, err)
		return
	}
	ids := make([]string, 0, len(out.Items))
	for _, item := range out.Items {
		ids = append(ids, item.ID)
	}
	h.session.Selection.SelectAll(ids)
	h.renderSelection(w)
}

// HandleSelectionClear empties the selection.
func (h *Handlers) HandleSelectionClear(w http.ResponseWriter, r *http.Request) {
	h.session.Selection.Clear()
	h.renderSelection(w)
}

func (h *Handlers) renderSelection(w http.ResponseWriter) {
	ids := h.session.Selection.IDs()
	renderJSON(w, http.StatusOK, map[string]any{
		"selected": ids,
		"count":    len(ids),
	})
}

// HandleReport renders the session's tech sheet as an HTML page.
func (h *Handlers) HandleReport(w http.ResponseWriter, r *http.Request) {
	state := h.session.Snapshot()
	renderReport(w, "Tech Sheet: "+state.ProjectName, h.session.TechSheet(), h.version)
}
