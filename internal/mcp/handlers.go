package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"nanopack/internal/asset"
	"nanopack/internal/errors"
	"nanopack/internal/inventory"
	"nanopack/internal/ops"
	"nanopack/internal/studio"
	"nanopack/internal/template"
)

// SKUSearcher finds inventory SKUs. Satisfied by inventory.Client.
type SKUSearcher interface {
	Search(ctx context.Context, query string) ([]inventory.SKU, error)
}

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db        *sql.DB
	session   *studio.Session
	skus      SKUSearcher
	bundleDir string
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *sql.DB, session *studio.Session, skus SKUSearcher, bundleDir string) *Handlers {
	return &Handlers{db: db, session: session, skus: skus, bundleDir: bundleDir}
}

// Request types for each tool

// AssetSaveRequest represents the arguments for asset_save.
type AssetSaveRequest struct {
	ProjectID   string `json:"project_id,omitempty"`
	ProjectName string `json:"project_name"`
	Variant     int    `json:"variant"`
	Kind        string `json:"kind"`
	Payload     string `json:"payload"`
	Width       *int   `json:"width,omitempty"`
	Height      *int   `json:"height,omitempty"`
}

// AssetListRequest represents the arguments for asset_list.
type AssetListRequest struct {
	ProjectID string `json:"project_id,omitempty"`
}

// AssetDeleteRequest represents the arguments for asset_delete.
type AssetDeleteRequest struct {
	IDs []string `json:"ids"`
}

// AssetBundleRequest represents the arguments for asset_bundle.
type AssetBundleRequest struct {
	IDs  []string `json:"ids,omitempty"`
	Name string   `json:"name,omitempty"`
}

// ArtworkGenerateRequest represents the arguments for artwork_generate.
type ArtworkGenerateRequest struct {
	Prompt     string `json:"prompt"`
	Source     string `json:"source,omitempty"`
	TemplateID string `json:"template_id,omitempty"`
}

// InventorySearchRequest represents the arguments for inventory_search.
type InventorySearchRequest struct {
	Query string `json:"query"`
}

// Handler implementations

// HandleAssetSave handles the asset_save tool call.
func (h *Handlers) HandleAssetSave(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[AssetSaveRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Save(h.db, ops.SaveInput{
		ProjectID:   input.ProjectID,
		ProjectName: input.ProjectName,
		Variant:     input.Variant,
		Kind:        asset.Kind(input.Kind),
		Payload:     input.Payload,
		Width:       input.Width,
		Height:      input.Height,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleAssetList handles the asset_list tool call.
func (h *Handlers) HandleAssetList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[AssetListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.List(h.db, ops.ListInput{ProjectID: input.ProjectID})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleAssetDelete handles the asset_delete tool call.
func (h *Handlers) HandleAssetDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[AssetDeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.BatchDelete(ctx, h.db, ops.BatchDeleteInput{IDs: input.IDs})
	h.session.Selection.Clear()
	if err != nil {
		if result == nil {
			return errorResult(err), nil
		}
		// Per-id accounting travels with the failure.
		return partialResult(err, result), nil
	}

	return successResult(result)
}

// HandleAssetBundle handles the asset_bundle tool call. The archive is
// written under the bundles directory and its path returned.
func (h *Handlers) HandleAssetBundle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[AssetBundleRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if len(input.IDs) == 0 {
		input.IDs = h.session.Selection.IDs()
	}

	result, err := ops.Bundle(h.db, ops.BundleInput{IDs: input.IDs, Name: input.Name})
	if err != nil {
		return errorResult(err), nil
	}

	path := filepath.Join(h.bundleDir, result.FileName)
	if err := os.WriteFile(path, result.Data, 0600); err != nil {
		return errorResult(errors.NewInternal(err)), nil
	}

	return successResult(map[string]any{
		"path":  path,
		"count": result.Count,
	})
}

// HandleArtworkGenerate handles the artwork_generate tool call.
func (h *Handlers) HandleArtworkGenerate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ArtworkGenerateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	if input.Source != "" {
		if err := h.session.LoadSource(input.Source); err != nil {
			return errorResult(err), nil
		}
	}
	if input.TemplateID != "" {
		if err := h.session.SetTemplate(input.TemplateID); err != nil {
			return errorResult(err), nil
		}
	}

	result, err := h.session.Generate(ctx, input.Prompt)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(map[string]any{"result": result})
}

// HandleComplianceScan handles the compliance_scan tool call.
func (h *Handlers) HandleComplianceScan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report, err := h.session.ScanCompliance(ctx)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(map[string]any{"report": report})
}

// HandleInventorySearch handles the inventory_search tool call.
func (h *Handlers) HandleInventorySearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[InventorySearchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	skus, err := h.skus.Search(ctx, input.Query)
	if err != nil {
		return errorResult(err), nil
	}
	if skus == nil {
		skus = []inventory.SKU{}
	}

	return successResult(map[string]any{"skus": skus})
}

// HandleTemplateList handles the template_list tool call.
func (h *Handlers) HandleTemplateList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(map[string]any{"templates": template.Catalog()})
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if sErr, ok := err.(*errors.StudioError); ok {
		errorObj := map[string]any{
			"code":    sErr.Code,
			"message": sErr.Message,
			"status":  sErr.Status,
		}
		if sErr.Code != errors.ErrInternal && sErr.Details != nil {
			errorObj["details"] = sErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// partialResult reports a batch failure together with its per-id
// results.
func partialResult(err error, out *ops.BatchDeleteOutput) *mcp.CallToolResult {
	payload := map[string]any{
		"results": out.Results,
		"deleted": out.Deleted,
		"failed":  out.Failed,
	}
	if sErr, ok := err.(*errors.StudioError); ok {
		payload["error"] = map[string]any{
			"code":    sErr.Code,
			"message": sErr.Message,
			"status":  sErr.Status,
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
