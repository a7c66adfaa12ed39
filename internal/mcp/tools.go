package mcp

import "github.com/mark3labs/mcp-go/mcp"

var assetSaveToolDef = mcp.NewTool("asset_save",
	mcp.WithDescription("Save a packaging artwork variant to the local library. Raster payloads are base64 data URIs, vector payloads are raw SVG markup."),
	mcp.WithString("project_name", mcp.Required(), mcp.Description("Project the artwork belongs to")),
	mcp.WithString("project_id", mcp.Description("Grouping key, defaults to project_name")),
	mcp.WithNumber("variant", mcp.Required(), mcp.Description("Positive variant number")),
	mcp.WithString("kind", mcp.Required(), mcp.Description("raster or vector")),
	mcp.WithString("payload", mcp.Required(), mcp.Description("Data URI (raster) or SVG markup (vector)")),
	mcp.WithNumber("width", mcp.Description("Pixel width, optional")),
	mcp.WithNumber("height", mcp.Description("Pixel height, optional")),
)

var assetListToolDef = mcp.NewTool("asset_list",
	mcp.WithDescription("List library assets, newest first."),
	mcp.WithString("project_id", mcp.Description("Restrict to one project")),
)

var assetDeleteToolDef = mcp.NewTool("asset_delete",
	mcp.WithDescription("Delete library assets by id. Each id is deleted independently; missing ids count as deleted and a partial failure reports per-id results."),
	mcp.WithArray("ids", mcp.Required(), mcp.Description("Asset ids to delete"), mcp.Items(map[string]any{"type": "string"})),
)

var assetBundleToolDef = mcp.NewTool("asset_bundle",
	mcp.WithDescription("Package library assets into a ZIP archive on disk. Vector assets are stored verbatim, raster assets are decoded to binary."),
	mcp.WithArray("ids", mcp.Description("Asset ids to include"), mcp.Items(map[string]any{"type": "string"})),
	mcp.WithString("name", mcp.Description("Archive base name, defaults to bundle")),
)

var artworkGenerateToolDef = mcp.NewTool("artwork_generate",
	mcp.WithDescription("Run an AI edit on the session's working artwork. The selected packaging template's context is appended to the prompt."),
	mcp.WithString("prompt", mcp.Required(), mcp.Description("Edit instruction")),
	mcp.WithString("source", mcp.Description("Data URI to load as the session source before generating")),
	mcp.WithString("template_id", mcp.Description("Packaging template to apply")),
)

var complianceScanToolDef = mcp.NewTool("compliance_scan",
	mcp.WithDescription("Scan the session's working artwork against the regulator for its linked SKU's category."),
)

var inventorySearchToolDef = mcp.NewTool("inventory_search",
	mcp.WithDescription("Search inventory SKUs by code or name, case-insensitively."),
	mcp.WithString("query", mcp.Required(), mcp.Description("Search text")),
)

var templateListToolDef = mcp.NewTool("template_list",
	mcp.WithDescription("List the packaging template catalog."),
)
